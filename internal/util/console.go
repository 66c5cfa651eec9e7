package util

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var Red = color.New(color.FgRed)
var RedBold = color.New(color.FgRed).Add(color.Bold)
var Cyan = color.New(color.FgCyan)
var CyanBold = color.New(color.FgCyan).Add(color.Bold)
var Green = color.New(color.FgGreen)
var GreenBold = color.New(color.FgGreen).Add(color.Bold)
var Magenta = color.New(color.FgMagenta)

var stdin = bufio.NewReader(os.Stdin)

// Scanline reads one line from stdin. It returns false once input is
// exhausted.
func Scanline() (string, bool) {
	return scanline(stdin)
}

func scanline(r *bufio.Reader) (string, bool) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

// ScanlineTrim : Scans input and trims
func ScanlineTrim() string {
	line, _ := Scanline()
	return strings.TrimSpace(line)
}

// ScanlineDefault trims the input line and falls back to def when it is empty.
func ScanlineDefault(def string) string {
	if line := ScanlineTrim(); line != "" {
		return line
	}
	return def
}

// Confirm asks a yes/no question; anything but y/yes counts as no.
func Confirm(question string) bool {
	CyanBold.Printf("%s (y/n): ", question)
	return isYes(ScanlineTrim())
}

func isYes(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

// Mask hides a secret for display, keeping its length recognisable.
func Mask(secret string) string {
	if secret == "" {
		return ""
	}
	return strings.Repeat("*", len([]rune(secret)))
}
