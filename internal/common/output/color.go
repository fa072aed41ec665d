package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	// USE flag colors
	Enabled  = color.New(color.FgGreen)
	Disabled = color.New(color.FgRed)

	// Config file write colors
	Written = color.New(color.FgGreen)
	Present = color.New(color.FgYellow)

	Package = color.New(color.FgBlue, color.Bold)
)

// NoColor disables color output
func NoColor() {
	color.NoColor = true
}

// IsTerminal reports whether w is a terminal. Writers without a file
// descriptor (buffers, pipes wrapped in a bufio.Writer) are not.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// FlagColor returns the color for a USE flag state
func FlagColor(enabled bool) *color.Color {
	if enabled {
		return Enabled
	}
	return Disabled
}

// FormatFlag formats a USE flag with its +/- marker and color
func FormatFlag(name string, enabled bool) string {
	marker := "-"
	if enabled {
		marker = "+"
	}
	return FlagColor(enabled).Sprintf("%s%s", marker, name)
}

// FormatWrite formats the outcome of a config file line write
func FormatWrite(line, path string, written bool) string {
	if written {
		return Written.Sprintf("added") + fmt.Sprintf(" %q to %s", line, path)
	}
	return Present.Sprintf("present") + fmt.Sprintf(" %q already in %s", line, path)
}

// FormatPackage formats a package atom or set name
func FormatPackage(pkg string) string {
	return Package.Sprint(pkg)
}
