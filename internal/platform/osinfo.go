package platform

import (
	"os"
	"runtime"
	"strings"
)

// OSInfo describes the machine the app runs on.
type OSInfo struct {
	Platform     string `json:"platform"` // runtime.GOOS
	Family       string `json:"family"`   // "unix" or "windows"
	Arch         string `json:"arch"`
	Hostname     string `json:"hostname"`
	Locale       string `json:"locale"`
	ExeExtension string `json:"exeExtension"`
	Theme        string `json:"theme"` // "dark", "light" or ""
}

// Package-level hooks for testing.
var (
	hostname = os.Hostname
	getenv   = os.Getenv
)

// GetOSInfo collects OS information.
func GetOSInfo() OSInfo {
	info := OSInfo{
		Platform: runtime.GOOS,
		Family:   "unix",
		Arch:     runtime.GOARCH,
		Locale:   locale(),
		Theme:    SystemTheme(),
	}
	if runtime.GOOS == "windows" {
		info.Family = "windows"
		info.ExeExtension = "exe"
	}
	if h, err := hostname(); err == nil {
		info.Hostname = h
	}
	return info
}

// locale returns a BCP 47 style tag from the POSIX locale variables,
// e.g. "zh_CN.UTF-8" becomes "zh-CN".
func locale() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		return strings.ReplaceAll(v, "_", "-")
	}
	return ""
}
