//go:build windows

package config

import (
	"os"

	"golang.org/x/sys/windows"
	"golang.org/x/term"
)

// EnableColorOutput checks if colorized output is possible and enables VT100
// sequence processing in Windows console. Consoles which refuse virtual
// terminal mode (pre Windows 10) get plain output.
func EnableColorOutput(stream *os.File) bool {
	if !term.IsTerminal(int(stream.Fd())) {
		return false
	}
	h := windows.Handle(stream.Fd())

	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return false
	}
	if mode&windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING != 0 {
		return true
	}
	return windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING) == nil
}
