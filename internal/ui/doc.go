// Package ui provides semantic text formatting for CLI output.
//
// Formatters colorize content when the terminal supports it and fall back
// to text decorations otherwise:
//
//	ui.Code.Sprint("vault fset")   // `vault fset`
//	ui.Path.Sprint("db/prod")      // db/prod
//	ui.Highlight.Sprint("db/*")    // 'db/*'
//	ui.Muted.Sprint("2 entries")   // (2 entries)
//	ui.Mark(ok)                    // ✓ or ✗
//
// Colors are disabled when NO_COLOR is set or the terminal does not
// support them.
package ui
