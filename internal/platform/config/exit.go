package config

import (
	"fmt"
	"io"
	"os"
)

// exit and stderr are replaced in tests.
var (
	exit             = os.Exit
	stderr io.Writer = os.Stderr
)

// Exitf writes a formatted message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(stderr, format+"\n", args...)
	exit(1)
}
