package platform

import (
	"os/exec"
	"runtime"
	"strings"
)

// commandOutput is swapped in tests.
var commandOutput = func(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).Output()
	return string(out), err
}

// SystemTheme returns "dark" or "light" from the desktop settings, or ""
// when the platform gives no answer.
func SystemTheme() string {
	switch runtime.GOOS {
	case "darwin":
		return macTheme()
	case "linux":
		return gnomeTheme()
	default:
		return ""
	}
}

// macTheme reads AppleInterfaceStyle, which only exists in dark mode.
func macTheme() string {
	out, err := commandOutput("defaults", "read", "-g", "AppleInterfaceStyle")
	if err != nil {
		return "light"
	}
	if strings.TrimSpace(out) == "Dark" {
		return "dark"
	}
	return "light"
}

// gnomeTheme checks color-scheme (GNOME 42+), then the GTK theme name.
func gnomeTheme() string {
	if out, err := commandOutput("gsettings", "get", "org.gnome.desktop.interface", "color-scheme"); err == nil {
		switch lower := strings.ToLower(out); {
		case strings.Contains(lower, "dark"):
			return "dark"
		case strings.Contains(lower, "light"):
			return "light"
		}
	}
	if out, err := commandOutput("gsettings", "get", "org.gnome.desktop.interface", "gtk-theme"); err == nil {
		if strings.Contains(strings.ToLower(out), "dark") {
			return "dark"
		}
		return "light"
	}
	return ""
}
