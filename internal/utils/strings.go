package utils

import (
	"fmt"
	"strings"

	"github.com/PolarWolf314/vault/internal/ui"
)

// FormatPaths formats a slice of paths into a readable string.
func FormatPaths(paths []string) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, path := range paths {
		b.WriteString("    - ")
		b.WriteString(ui.Path.Sprint(path))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatFailures formats path/error pairs, one per line.
func FormatFailures(paths []string, errs []error) string {
	var b strings.Builder
	b.WriteString("\n")
	for i, path := range paths {
		fmt.Fprintf(&b, "    - %s: %s\n", ui.Path.Sprint(path), ui.Error.Sprint(errs[i]))
	}
	return b.String()
}

// Plural returns word with an "s" appended unless n is 1.
func Plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
