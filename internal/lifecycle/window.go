package lifecycle

// MainWindowLabel identifies the primary window whose close is intercepted.
const MainWindowLabel = "main"

// Window is the subset of a native window the coordinator drives.
type Window interface {
	Show() error
	Hide() error
	Focus() error
	OpenDevTools() error
}

// Host is the window manager of the desktop framework.
type Host interface {
	// Window returns the live window with the given label, if any.
	Window(label string) (Window, bool)
	// CreateWindow constructs and returns a new window.
	CreateWindow(opts WindowOptions) (Window, error)
	// Exit terminates the application.
	Exit()
}

// WindowOptions describes a window to construct.
type WindowOptions struct {
	Label       string
	Title       string
	URL         string
	Width       int
	Height      int
	MinWidth    int
	MinHeight   int
	Frameless   bool
	Transparent bool
	Resizable   bool
	AlwaysOnTop bool
}

// MainWindowOptions returns the preset used when the main window has to be
// rebuilt after it was destroyed.
func MainWindowOptions() WindowOptions {
	return WindowOptions{
		Label:     MainWindowLabel,
		Title:     "iNotes",
		URL:       "/",
		Width:     400,
		Height:    600,
		MinWidth:  300,
		MinHeight: 400,
		Frameless: true,
		Resizable: true,
	}
}

// EditorWindowOptions returns the preset for a secondary editor window.
// Development builds get a roomier window so devtools fit next to the page.
func EditorWindowOptions(label, route string, dev bool) WindowOptions {
	opts := WindowOptions{
		Label:       label,
		Title:       "iNotes",
		URL:         "/#" + route,
		Width:       290,
		Height:      320,
		MinWidth:    290,
		MinHeight:   48,
		Frameless:   true,
		Transparent: true,
		Resizable:   true,
	}
	if dev {
		opts.Width = 950
		opts.Height = 600
	}
	return opts
}
