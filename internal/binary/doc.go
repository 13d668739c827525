// Package binary fetches a ziro release archive for the host platform and
// turns it into a ready-to-run executable.
//
// # Pipeline
//
// An Installer runs the steps in order and stops at the first failure:
//
//  1. detect the platform (platform.Detector)
//  2. create the installation directory
//  3. locate the archive name and URL (Locate)
//  4. download the archive (Downloader)
//  5. extract it in place (Extractor)
//  6. remove the archive
//  7. on Windows, give the binary its .exe suffix
//  8. verify the binary exists
//  9. elsewhere, mark it executable (0755)
//
// Nothing is retried. Callers decide how to report the typed errors this
// package returns (see errors.go).
//
// # Archive naming
//
// Release archives are named "{platform}-{arch}.zip". Two conventions exist
// for the architecture token: v1 keeps "x86_64", v2 shortens it to "x64".
// Naming selects one explicitly, or picks per release version in auto mode.
//
// # Known limitations
//
//   - At most one HTTP redirect is followed.
//   - Downloads and extractions have no timeout unless the caller's context
//     carries one.
package binary
