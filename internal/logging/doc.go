// Package logger provides leveled logging for vault commands and workflows.
//
// Output is prefixed and coloured with fatih/color. Verbosity is controlled
// by the --verbose and --debug flags:
//
//	Logger.Infof()       // Shown with --verbose or --debug
//	Logger.Debugf()      // Shown only with --debug
//	Logger.Warnf()       // Shown with --verbose or --debug
//	Logger.WarnfAlways() // Always shown
//	Logger.Errorf()      // Shown with --debug
//
// Log lines never include secret contents or passwords; paths and file
// names are fine.
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Unlocked %d paths", count)
//
// The zero value logs only always-on warnings and writes to os.Stdout and
// os.Stderr. Set Out and Err to capture output in tests.
package logger
