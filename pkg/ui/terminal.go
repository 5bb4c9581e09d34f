package ui

import (
	"fmt"
	"io"
	"os"

	"shutter/pkg/models"
)

// Output receives normal program output; ErrOutput receives errors
var (
	Output    io.Writer = os.Stdout
	ErrOutput io.Writer = os.Stderr
)

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
)

var colorEnabled = true

// SetColor turns ANSI colouring on or off
func SetColor(enabled bool) {
	colorEnabled = enabled
}

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		if !colorEnabled {
			return text
		}
		return fmt.Sprintf(colorString, text)
	}
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(ErrOutput, Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(ErrOutput, Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	fmt.Fprintln(Output, Green(msg))
}

// PrintInfo prints an info message in cyan
func PrintInfo(label string, value string) {
	fmt.Fprintf(Output, "%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(ErrOutput, Yellow(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(ErrOutput, Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	fmt.Fprintln(Output, Magenta(msg))
}

// WriteProfile renders a profile as plain text. Absent values render as
// empty strings.
func WriteProfile(w io.Writer, p *models.Profile) error {
	pic := ""
	if p.ProfilePic != nil {
		pic = p.ProfilePic.URL
	}

	_, err := fmt.Fprintf(w,
		"Username: %s\nFull name: %s\nBiography:\n%s\nURL: %s\nPrivate profile: %t\nProfile picture: %s\n",
		p.Username,
		valueOrEmpty(p.FullName),
		valueOrEmpty(p.Biography),
		valueOrEmpty(p.ExternalURL),
		p.IsPrivate,
		pic,
	)
	return err
}

// PrintProfile renders a profile to Output
func PrintProfile(p *models.Profile) error {
	return WriteProfile(Output, p)
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
