//go:build !windows

package main

// attachConsole is a no-op outside Windows; the terminal is the console.
func attachConsole(bool) {}
