package logger

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

// ANSI escape sequences. Disabled automatically when stdout is not a TTY.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

func colorize(color, s string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return s
	}
	return color + s + reset
}

// Banner prints the startup banner with the build version.
func Banner(version string) {
	if version == "" {
		version = "dev"
	}
	fmt.Println(colorize(bold+cyan, "frontier") + " " + colorize(dim, version))
}

// Section prints a visual divider before a new phase of output.
func Section(title string) {
	fmt.Println()
	fmt.Println(colorize(bold, "── "+title+" ──"))
}

// Info logs a neutral message under a tag.
func Info(tag, msg string) {
	fmt.Printf("%s %s\n", colorize(cyan, "["+tag+"]"), msg)
}

// Success logs a completed step under a tag.
func Success(tag, msg string) {
	fmt.Printf("%s %s\n", colorize(green, "["+tag+"]"), msg)
}

// Warn logs a recoverable problem under a tag.
func Warn(tag, msg string) {
	fmt.Printf("%s %s\n", colorize(yellow, "["+tag+"]"), msg)
}

// Error logs a failure under a tag.
func Error(tag, msg string) {
	fmt.Printf("%s %s\n", colorize(red, "["+tag+"]"), msg)
}

// Stats prints an aligned key/value line for summary output.
func Stats(key string, value interface{}) {
	fmt.Printf("  %-28s %v\n", colorize(dim, key), value)
}
