package ux

import (
	"fmt"
	"time"
)

// ANSI color helpers
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

const banner = `
 ██████╗ ██╗██████╗ ███████╗    ██████╗ ██╗██╗      ██████╗ ████████╗
 ██╔══██╗██║██╔══██╗██╔════╝    ██╔══██╗██║██║     ██╔═══██╗╚══██╔══╝
 ██████╔╝██║██████╔╝█████╗      ██████╔╝██║██║     ██║   ██║   ██║
 ██╔═══╝ ██║██╔═══╝ ██╔══╝      ██╔═══╝ ██║██║     ██║   ██║   ██║
 ██║     ██║██║     ███████╗    ██║     ██║███████╗╚██████╔╝   ██║
 ╚═╝     ╚═╝╚═╝     ╚══════╝    ╚═╝     ╚═╝╚══════╝ ╚═════╝    ╚═╝

           AI-powered Jenkins pipeline generator
`

// Banner prints the startup banner.
func Banner() {
	fmt.Printf("%s%s%s\n", Cyan, banner, Reset)
}

func timestamp() string {
	return time.Now().Format("15:04:05")
}

// PhaseHeader prints a timestamped deployment phase header.
func PhaseHeader(index, total int, name, description string) {
	fmt.Printf("\n%s[%s]%s %s══════════════════════════════════════%s\n",
		Dim, timestamp(), Reset, Cyan, Reset)
	fmt.Printf("%s[%s]%s  %sPhase %d/%d: %s — %s%s\n",
		Dim, timestamp(), Reset, Bold, index+1, total, name, description, Reset)
	fmt.Printf("%s[%s]%s %s══════════════════════════════════════%s\n",
		Dim, timestamp(), Reset, Cyan, Reset)
}

// PhaseComplete prints a phase completion message.
func PhaseComplete(index int, name, detail string) {
	if detail != "" {
		detail = " — " + detail
	}
	fmt.Printf("%s[%s]%s  %s✓ Phase %d (%s) complete%s%s\n",
		Dim, timestamp(), Reset, Green, index+1, name, detail, Reset)
}

// PhaseFail prints a phase failure message.
func PhaseFail(index int, name, errMsg string) {
	fmt.Printf("%s[%s]%s  %s✗ Phase %d (%s) failed: %s%s\n",
		Dim, timestamp(), Reset, Red, index+1, name, errMsg, Reset)
}

// PhaseSkip prints a phase skip message (operator declined).
func PhaseSkip(index int, name string) {
	fmt.Printf("%s[%s]%s  %s– Phase %d (%s) skipped by operator%s\n",
		Dim, timestamp(), Reset, Dim, index+1, name, Reset)
}

// Step prints an indented progress line.
func Step(format string, args ...any) {
	fmt.Printf("   %s\n", fmt.Sprintf(format, args...))
}

// Warn prints an indented warning line.
func Warn(format string, args ...any) {
	fmt.Printf("   %s⚠ %s%s\n", Yellow, fmt.Sprintf(format, args...), Reset)
}

// Fail prints an indented failure line.
func Fail(format string, args ...any) {
	fmt.Printf("   %s✗ %s%s\n", Red, fmt.Sprintf(format, args...), Reset)
}

// OK prints an indented success line.
func OK(format string, args ...any) {
	fmt.Printf("   %s✓ %s%s\n", Green, fmt.Sprintf(format, args...), Reset)
}

// Hint prints a remediation hint.
func Hint(format string, args ...any) {
	fmt.Printf("   %s%s%s\n", Dim, fmt.Sprintf(format, args...), Reset)
}

// Success prints the final all-phases message.
func Success(total int) {
	fmt.Printf("\n%s[%s]%s  %s%s══ All %d deployment phases complete ══%s\n\n",
		Dim, timestamp(), Reset, Bold, Green, total, Reset)
}
