package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"go.symver.io/symver/cmd/state"
	"go.symver.io/symver/lib/mangle"
)

// printBatchDiagnostic shows the offending source line with a caret under
// the column where the batch parse stopped, compiler style.
func printBatchDiagnostic(gs *state.GlobalState, srcName string, src []byte, perr *mangle.ParseError) {
	lines := strings.Split(string(src), "\n")
	if perr.Line < 1 || perr.Line > len(lines) {
		return
	}

	errColor := color.New(color.FgRed, color.Bold)
	errColor.Fprintf(gs.Stderr, "%s:%d:%d: %s\n", srcName, perr.Line, perr.Col, perr.Msg)
	fmt.Fprintf(gs.Stderr, "%s\n", lines[perr.Line-1])
	errColor.Fprintf(gs.Stderr, "%s^\n", strings.Repeat(" ", perr.Col-1))
}
