// Package diagdisplay renders a diag.Bag's contents to the terminal. It is
// grounded directly on chai's logging/display.go: the same banner-over-
// code-snippet layout, the same pterm color/style vocabulary, and the same
// phase-spinner technique for showing compile progress. Unlike chai, which
// keeps the display functions as methods on its own package-level message
// types, this package takes a diag.Bag and the source text explicitly --
// the core pipeline (internal/compiler) never touches pterm or the
// filesystem itself (SPEC_FULL.md Part B), so all IO and presentation lives
// here, one layer above it.
package diagdisplay

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"fastc/internal/diag"
)

// FastcVersion is the version string the CLI banner reports.
const FastcVersion = "0.1.0"

// Foreground colors and matching tag backgrounds for the three message
// severities, plus Info sharing Success's palette since neither needs its
// own hue.
var (
	ErrorColorFG = pterm.FgRed
	ErrorStyleBG = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)

	WarnColorFG = pterm.FgYellow
	WarnStyleBG = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)

	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)

	InfoColorFG = SuccessColorFG
	InfoStyleBG = SuccessStyleBG
)

// printTagged prints `tag ` in style against fg, followed by msg, and is the
// shared body behind the three Print*Message helpers below.
func printTagged(style *pterm.Style, fg pterm.Color, tag, msg string) {
	style.Print(tag + " ")
	fg.Println(msg)
}

// PrintErrorMessage reports a Go error under a red tag, e.g. for a failed
// module load or a bad CLI flag.
func PrintErrorMessage(tag string, err error) {
	printTagged(ErrorStyleBG, ErrorColorFG, tag, err.Error())
}

// PrintWarningMessage reports a non-fatal condition under a yellow tag.
func PrintWarningMessage(tag, msg string) {
	printTagged(WarnStyleBG, WarnColorFG, tag, msg)
}

// PrintInfoMessage reports a plain status line under a green tag.
func PrintInfoMessage(tag, msg string) {
	printTagged(InfoStyleBG, InfoColorFG, tag, msg)
}

// Print renders every diagnostic in diags against filePath/source, in
// recorded order, and returns the error/warning counts so the caller can
// decide the process exit code and print a summary via Finished.
func Print(filePath string, source []byte, diags []diag.Diagnostic) (errorCount, warningCount int) {
	for _, d := range diags {
		displayDiagnostic(filePath, source, d)
		switch d.Severity {
		case diag.Error:
			errorCount++
		case diag.Warning:
			warningCount++
		}
	}
	return
}

func displayDiagnostic(filePath string, source []byte, d diag.Diagnostic) {
	displayBanner(filePath, d)
	fmt.Println(d.Message)
	displayCodeSelection(source, d)
	if d.Fix != nil {
		InfoColorFG.Println("help: " + d.Fix.Message)
	}
}

// displayBanner prints the header line above a diagnostic, e.g.
// "-- Error [E0103] ------------------------------- main.fc"
func displayBanner(filePath string, d diag.Diagnostic) {
	fmt.Print("\n\n-- ")

	kindStr := strings.Title(d.Severity.String()) + " [" + string(d.Code) + "]"
	switch d.Severity {
	case diag.Error:
		ErrorStyleBG.Print(kindStr)
	case diag.Warning:
		WarnStyleBG.Print(kindStr)
	default:
		InfoStyleBG.Print(kindStr)
	}

	fmt.Print(" ")

	fileName := filepath.Base(filePath)
	bannerLen := pterm.GetTerminalWidth() / 2
	if bannerLen > 50 {
		bannerLen = 50
	}
	dashCount := bannerLen - len(fileName) - len(kindStr) - 1
	if dashCount < 0 {
		dashCount = 0
	}

	fmt.Print(strings.Repeat("-", dashCount) + " ")
	InfoColorFG.Println(fileName)
}

// lineCol locates the 1-indexed line/column of a byte offset in source, and
// returns the full text of that line. chai's Position already carries
// line/column because its lexer stamps them at scan time; FastC's
// token.Span is a plain byte-offset pair (internal/token/token.go), so
// diagdisplay -- the one layer that needs human-readable positions at all
// -- recovers them here instead of threading line/column through every
// token in the lexer/parser for a need that only shows up at display time.
func lineCol(source []byte, offset int) (line, col int, lineText string) {
	if offset > len(source) {
		offset = len(source)
	}
	line = 1
	lineStart := 0
	for i := 0; i < offset; i++ {
		if source[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	col = offset - lineStart + 1

	lineEnd := lineStart
	for lineEnd < len(source) && source[lineEnd] != '\n' {
		lineEnd++
	}
	return line, col, string(source[lineStart:lineEnd])
}

// displayCodeSelection prints the offending line(s) with line numbers and a
// row of carets under the diagnostic's primary span, following chai's
// displayCodeSelection layout.
func displayCodeSelection(source []byte, d diag.Diagnostic) {
	fmt.Println()

	startLine, startCol, _ := lineCol(source, d.Primary.Start)
	endLine, endCol, _ := lineCol(source, d.Primary.End)
	if endLine < startLine {
		endLine = startLine
	}

	lines := make([]string, endLine-startLine+1)
	for ln := startLine; ln <= endLine; ln++ {
		_, _, text := lineCol(source, lineOffset(source, ln))
		lines[ln-startLine] = text
	}

	maxLineNumberWidth := len(strconv.Itoa(endLine)) + 1
	lineNumberFmtStr := "%-" + strconv.Itoa(maxLineNumberWidth) + "v"

	for i, line := range lines {
		InfoColorFG.Print(fmt.Sprintf(lineNumberFmtStr, i+startLine))
		fmt.Print("|  ")
		fmt.Println(line)

		fmt.Print(strings.Repeat(" ", maxLineNumberWidth), "|  ")
		switch {
		case len(lines) == 1:
			fmt.Print(strings.Repeat(" ", startCol-1))
			width := endCol - startCol
			if width < 1 {
				width = 1
			}
			ErrorColorFG.Println(strings.Repeat("^", width))
		case i == 0:
			fmt.Print(strings.Repeat(" ", startCol-1))
			ErrorColorFG.Println(strings.Repeat("^", len(line)-startCol+1))
		case i == len(lines)-1:
			ErrorColorFG.Println(strings.Repeat("^", endCol-1))
		default:
			ErrorColorFG.Println(strings.Repeat("^", len(line)))
		}
	}

	fmt.Println()
}

// lineOffset returns the byte offset of the start of the 1-indexed line ln.
func lineOffset(source []byte, ln int) int {
	if ln <= 1 {
		return 0
	}
	count := 1
	for i, b := range source {
		if b == '\n' {
			count++
			if count == ln {
				return i + 1
			}
		}
	}
	return len(source)
}

const fatalErrorPostlude = "This is likely a bug in the compiler."

// DisplayFatalError prints an internal compiler error recovered at the
// internal/compiler.Run panic/recover boundary.
func DisplayFatalError(msg string) {
	fmt.Print("\n\n")
	ErrorStyleBG.Print("Fatal Error ")
	ErrorColorFG.Println(msg)
	InfoColorFG.Println(fatalErrorPostlude)
}

// CompileHeader prints the version/target banner before compilation starts.
func CompileHeader(target string) {
	fmt.Print("fastc ")
	InfoColorFG.Print("v" + FastcVersion)
	fmt.Print(" -- target: ")
	InfoColorFG.Println(target)
}

var (
	phaseSpinner   *pterm.SpinnerPrinter
	currentPhase   string
	phaseStartTime time.Time
)

const maxPhaseLength = len("Typechecking")

// BeginPhase displays the start of a compilation phase as a spinner.
func BeginPhase(phase string) {
	currentPhase = phase
	pad := maxPhaseLength - len(phase) + 2
	if pad < 0 {
		pad = 0
	}
	phaseText := phase + "..." + strings.Repeat(" ", pad)
	phaseSpinner = pterm.DefaultSpinner.WithStyle(pterm.NewStyle(InfoColorFG))

	phaseSpinner.SuccessPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix:       pterm.Prefix{Style: SuccessStyleBG, Text: "Done"},
	}
	phaseSpinner.FailPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix:       pterm.Prefix{Style: ErrorStyleBG, Text: "Fail"},
	}

	phaseSpinner.Start(phaseText)
	phaseStartTime = time.Now()
}

// EndPhase displays the end of the current compilation phase.
func EndPhase(success bool) {
	if phaseSpinner == nil {
		return
	}
	pad := maxPhaseLength - len(currentPhase) + 2
	if pad < 0 {
		pad = 0
	}
	padded := currentPhase + strings.Repeat(" ", pad)
	if success {
		phaseSpinner.Success(padded, fmt.Sprintf("(%.3fs)", time.Since(phaseStartTime).Seconds()))
	} else {
		phaseSpinner.Fail(padded)
	}
	phaseSpinner = nil
}

// countWord pluralizes noun for n and colors the number fg when n is
// nonzero, green otherwise -- the shared rule behind Finished's error and
// warning counts.
func countWord(n int, noun string, fg pterm.Color) string {
	plural := noun + "s"
	if n == 1 {
		plural = noun
	}
	color := fg
	if n == 0 {
		color = SuccessColorFG
	}
	return color.Sprint(n) + " " + plural
}

// Finished prints the one-line summary after a compilation run: overall
// verdict followed by the error/warning tally.
func Finished(success bool, errorCount, warningCount int) {
	fmt.Println()
	verdict := SuccessColorFG.Sprint("build succeeded")
	if !success {
		verdict = ErrorColorFG.Sprint("build failed")
	}
	fmt.Printf("%s (%s, %s)\n", verdict,
		countWord(errorCount, "error", ErrorColorFG),
		countWord(warningCount, "warning", WarnColorFG))
}
