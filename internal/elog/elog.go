// Package elog is the leveled, ANSI-colored logger used across egraft,
// grounded on the teacher's ubiquitous log.DEBUG/log.TRACE/log.PrintfStdErr
// call-site convention (cmd/graft/main.go, pkg/graft/init.go) and on
// github.com/starkandwayne/goutils/ansi for the color tags themselves.
package elog

import (
	"os"

	"github.com/starkandwayne/goutils/ansi"
)

// DebugOn and TraceOn gate DEBUG and TRACE output respectively. TRACE
// implies DEBUG, same as the teacher's -T/--trace flag also setting
// DebugOn (cmd/graft/main.go).
var (
	DebugOn bool
	TraceOn bool
)

// DEBUG prints a yellow-tagged diagnostic line to stderr when DebugOn.
func DEBUG(format string, args ...interface{}) {
	if !DebugOn {
		return
	}
	ansi.Fprintf(os.Stderr, "@Y{DEBUG> }"+format+"\n", args...)
}

// TRACE prints a cyan-tagged diagnostic line to stderr when TraceOn.
func TRACE(format string, args ...interface{}) {
	if !TraceOn {
		return
	}
	ansi.Fprintf(os.Stderr, "@C{TRACE> }"+format+"\n", args...)
}

// WARN always prints a red-tagged warning line to stderr.
func WARN(format string, args ...interface{}) {
	ansi.Fprintf(os.Stderr, "@R{WARN> }"+format+"\n", args...)
}

// PrintfStdErr prints an uncolored, unconditional line to stderr — used
// for user-facing CLI errors that should not be suppressed by DebugOn.
func PrintfStdErr(format string, args ...interface{}) {
	ansi.Fprintf(os.Stderr, format, args...)
}
