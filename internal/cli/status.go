package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziro-dev/ziro-dist/internal/binary"
)

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether the ziro binary is installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info, err := opts.detector.Detect(cmd.Context())
			if err != nil {
				return err
			}

			s, err := loadSettings(cmd, opts, info)
			if err != nil {
				return err
			}

			installed, err := binary.IsInstalled(s.cfg.InstallDir, info)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "platform:    %s\n", info)
			fmt.Fprintf(out, "naming:      %s\n", s.cfg.Naming)
			fmt.Fprintf(out, "install dir: %s\n", s.cfg.InstallDir)
			if s.cfg.ConfigFile != "" {
				fmt.Fprintf(out, "config file: %s\n", s.cfg.ConfigFile)
			}

			if !installed {
				fmt.Fprintln(out, "status:      not installed")
				return errNotInstalled
			}
			fmt.Fprintf(out, "status:      installed (%s)\n", binary.BinaryFileName(info))
			return nil
		},
	}
}
