package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// ErrorReport is an uncaught frontend error forwarded by the webview.
type ErrorReport struct {
	Message    string `json:"errorMessage"`
	Stack      string `json:"stack"`
	Component  string `json:"componentName"`
	Info       string `json:"errorInfo"`
	AppVersion string `json:"appVersion"`
	UserAgent  string `json:"userAgent"`
	Location   string `json:"location"`
	// OuterSize, InnerSize and ScreenSize are [width, height].
	OuterSize  [2]int `json:"outerSize"`
	InnerSize  [2]int `json:"innerSize"`
	ScreenSize [2]int `json:"screenSize"`
}

// ErrorLog appends frontend error reports to a log file. In development the
// reports only go to the application logger.
type ErrorLog struct {
	path    string
	persist bool
	log     zerolog.Logger

	mu sync.Mutex
}

// ErrorLogPath returns the error log location inside dir.
func ErrorLogPath(dir string, dev bool) string {
	name := "inotesError.log"
	if dev {
		name = "inotesError-dev.log"
	}
	return filepath.Join(dir, name)
}

// NewErrorLog creates an error log writing to path. persist=false keeps
// reports out of the file.
func NewErrorLog(path string, persist bool, log zerolog.Logger) *ErrorLog {
	return &ErrorLog{
		path:    path,
		persist: persist,
		log:     log.With().Str("component", "errorlog").Logger(),
	}
}

// Path returns the file reports are appended to.
func (e *ErrorLog) Path() string {
	return e.path
}

// Record logs the report and, when persisting, appends it as one JSON line.
func (e *ErrorLog) Record(r ErrorReport) error {
	r.Stack = FormatStack(r.Stack)

	e.log.Error().
		Str("message", r.Message).
		Str("componentName", r.Component).
		Str("info", r.Info).
		Msg("frontend error")

	if !e.persist {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(e.path), 0o755); err != nil {
		return fmt.Errorf("create error log dir: %w", err)
	}
	f, err := os.OpenFile(e.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open error log: %w", err)
	}
	defer f.Close()

	fl := zerolog.New(f).With().Timestamp().Logger()
	fl.Error().
		Str("errorMessage", r.Message).
		Str("errorInfo", r.Info).
		Str("componentName", r.Component).
		Str("stack", r.Stack).
		Str("appVersion", r.AppVersion).
		Str("userAgent", r.UserAgent).
		Str("location", r.Location).
		Ints("outerSize", r.OuterSize[:]).
		Ints("innerSize", r.InnerSize[:]).
		Ints("screenSize", r.ScreenSize[:]).
		Send()
	return nil
}

var stackFrame = regexp.MustCompile(`at .* \(.*/([^/]+/[^/]+)\)`)

// FormatStack shortens stack frames to their last two path segments.
func FormatStack(stack string) string {
	if stack == "" {
		return ""
	}
	lines := strings.Split(stack, "\n")
	for i, l := range lines {
		lines[i] = stackFrame.ReplaceAllString(l, "at $1")
	}
	return strings.Join(lines, "\n    ")
}
