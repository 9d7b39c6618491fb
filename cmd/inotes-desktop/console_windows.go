//go:build windows

package main

import (
	"os"

	"golang.org/x/sys/windows"
)

// attachConsole gives a GUI build a console window for diagnostic output.
func attachConsole(enabled bool) {
	if !enabled {
		return
	}
	allocConsole := windows.NewLazySystemDLL("kernel32.dll").NewProc("AllocConsole")
	if r, _, _ := allocConsole.Call(); r == 0 {
		return
	}
	if h, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE); err == nil {
		os.Stdout = os.NewFile(uintptr(h), "CONOUT$")
	}
	if h, err := windows.GetStdHandle(windows.STD_ERROR_HANDLE); err == nil {
		os.Stderr = os.NewFile(uintptr(h), "CONOUT$")
	}
}
