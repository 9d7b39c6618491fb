// Package desktop connects the window-lifecycle logic to the Wails runtime.
package desktop

import (
	"os"

	"github.com/google/uuid"
)

// Version is set at build time via ldflags
var Version = "0.1.0-dev"

// IsDev reports whether this is a development build: WAILS_DEV is set or
// no release version was stamped in.
func IsDev() bool {
	return os.Getenv("WAILS_DEV") != "" || Version == "0.1.0-dev"
}

// NewEditorLabel returns a unique label for an editor window.
func NewEditorLabel() string {
	return "editor-" + uuid.NewString()
}
