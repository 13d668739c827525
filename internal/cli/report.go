package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ziro-dev/ziro-dist/internal/binary"
	"github.com/ziro-dev/ziro-dist/internal/platform"
)

// alternateInstall is the distribution channel suggested when the
// prebuilt binary cannot be installed.
const alternateInstall = "cargo install ziro"

var likelyCauses = []string{
	"The release artifact for this version has not been published yet.",
	"A network problem interrupted the download (proxy, firewall or DNS).",
	"This operating system or CPU architecture is not supported.",
}

// installError marks a failure of the install pipeline itself, as opposed
// to a usage or configuration error.
type installError struct {
	Version string
	Source  binary.Source
	Err     error
}

func (e *installError) Error() string {
	return fmt.Sprintf("install %s: %v", e.target(), e.Err)
}

// target is "ziro" or "ziro <version>" once the version is known.
func (e *installError) target() string {
	if e.Version == "" {
		return "ziro"
	}
	return "ziro " + e.Version
}

func (e *installError) Unwrap() error {
	return e.Err
}

// hint names the most likely cause for well-known errors.
func hint(err error) string {
	var (
		dfe *binary.DownloadFailedError
		ne  *binary.NetworkError
		efe *binary.ExtractionFailedError
		bnf *binary.BinaryNotFoundError
		pe  *binary.PermissionError
		upe *platform.UnsupportedPlatformError
		uae *platform.UnsupportedArchitectureError
	)

	switch {
	case errors.As(err, &dfe) && dfe.StatusCode == http.StatusNotFound:
		return "No archive is published at " + dfe.URL + "."
	case errors.As(err, &dfe):
		return fmt.Sprintf("The artifact host answered HTTP %d.", dfe.StatusCode)
	case errors.As(err, &ne):
		return "Could not reach " + ne.URL + "."
	case errors.As(err, &upe):
		return fmt.Sprintf("Prebuilt binaries exist for windows, macos and linux, not %q.", upe.Raw)
	case errors.As(err, &uae):
		return fmt.Sprintf("Prebuilt binaries exist for x86_64 and aarch64, not %q.", uae.Raw)
	case errors.As(err, &efe):
		return "The downloaded archive could not be unpacked. Try --extractor builtin."
	case errors.As(err, &bnf):
		return "The archive did not contain a ziro executable."
	case errors.As(err, &pe):
		return "The installation directory is not writable by this user."
	default:
		return ""
	}
}

// writeFailureReport prints the error followed by the fixed causes and
// remediations.
func writeFailureReport(w io.Writer, ie *installError) {
	r := lipgloss.NewRenderer(w)
	title := r.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	section := r.NewStyle().Bold(true)
	detail := r.NewStyle().Foreground(lipgloss.Color("245"))

	var b strings.Builder
	b.WriteString(title.Render("Failed to install " + ie.target()))
	b.WriteString("\n\n  ")
	b.WriteString(ie.Err.Error())
	b.WriteString("\n")
	if h := hint(ie.Err); h != "" {
		b.WriteString("  ")
		b.WriteString(detail.Render(h))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(section.Render("Likely causes:"))
	b.WriteString("\n")
	for _, cause := range likelyCauses {
		b.WriteString("  • " + cause + "\n")
	}

	b.WriteString("\n")
	b.WriteString(section.Render("To continue:"))
	b.WriteString("\n")
	b.WriteString("  • Install from another channel: " + alternateInstall + "\n")
	b.WriteString("  • Build from source: " + sourceURL(ie.Source) + "\n")

	fmt.Fprint(w, b.String())
}

func sourceURL(src binary.Source) string {
	return strings.TrimRight(src.Host, "/") + "/" + src.Owner + "/" + src.Repo
}
