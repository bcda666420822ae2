package util

import (
	"fmt"
	"io"
	"os"
)

// Ansi colors
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
	Gray   = "\033[37m"
)

// Ansi styles
const (
	Bold   = "\033[1m"
	Italic = "\033[3m"
)

// Ansi 256 light colors
const (
	LightRed    = "\033[91m"
	LightGreen  = "\033[92m"
	LightYellow = "\033[93m"
	LightPurple = "\033[95m"
)

// Out is where the console helpers write. The TUI swaps it for io.Discard
// while termui owns the terminal.
var Out io.Writer = os.Stdout

// PrintSuccess prints a success message to the console
func PrintSuccess(msg string) {
	fmt.Fprintf(Out, "%s[+]%s %s\n", Green, Reset, msg)
}

// PrintError prints an error message to the console
func PrintError(msg string) {
	fmt.Fprintf(Out, "%s[!]%s %s\n", Red, Reset, msg)
}

// PrintErrorf prints a formatted error message to the console
func PrintErrorf(format string, a ...interface{}) {
	PrintError(fmt.Sprintf(format, a...))
}

// PrintInfo prints an info message to the console
func PrintInfo(msg string) {
	fmt.Fprintf(Out, "%s[i]%s %s\n", Cyan, Reset, msg)
}

// PrintWarning prints a warning message to the console
func PrintWarning(msg string) {
	fmt.Fprintf(Out, "%s[-]%s %s\n", Yellow, Reset, msg)
}

// PrintColorBold prints a bold colored message to the console
func PrintColorBold(color, msg string) {
	fmt.Fprintf(Out, "%s%s%s\n", color+Bold, msg, Reset)
}

func ColorF(color, format string, a ...interface{}) string {
	return fmt.Sprintf("%s%s%s", color, fmt.Sprintf(format, a...), Reset)
}

// SeverityColor maps a threat severity name to the ANSI color used in console output.
func SeverityColor(severity string) string {
	switch severity {
	case "Critical":
		return LightRed
	case "High":
		return LightPurple
	case "Medium":
		return LightYellow
	case "Low":
		return LightGreen
	}
	return Gray
}
