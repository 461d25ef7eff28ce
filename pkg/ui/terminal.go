package ui

import (
	"fmt"
	"os"
)

// Color functions for terminal output. Everything in this package
// writes to stderr: stdout carries the JSON result records and must
// stay machine-parseable.
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes.
func colorize(colorString string) func(string) string {
	return func(text string) string {
		return fmt.Sprintf(colorString, text)
	}
}

// PrintError prints an error message in red.
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(os.Stderr, Red(msg))
	}
}

// PrintSuccess prints a success message in green.
func PrintSuccess(msg string) {
	fmt.Fprintln(os.Stderr, Green(msg))
}

// PrintInfo prints a labeled info message in cyan.
func PrintInfo(label string, value string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow.
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, Yellow(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(os.Stderr, Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta.
func PrintHighlight(msg string) {
	fmt.Fprintln(os.Stderr, Magenta(msg))
}
