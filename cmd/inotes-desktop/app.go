package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/wailsapp/wails/v3/pkg/application"

	"github.com/inotes/inotes-desktop/internal/desktop"
	"github.com/inotes/inotes-desktop/internal/lifecycle"
	"github.com/inotes/inotes-desktop/internal/logging"
	"github.com/inotes/inotes-desktop/internal/notes"
	"github.com/inotes/inotes-desktop/internal/platform"
	"github.com/inotes/inotes-desktop/internal/settings"
	"github.com/inotes/inotes-desktop/internal/update"
	"github.com/inotes/inotes-desktop/internal/windowconfig"
)

// App is the service bound to the frontend.
type App struct {
	log zerolog.Logger
	dev bool

	host     *desktop.Host
	coord    *lifecycle.Coordinator
	dialogs  *desktop.Dialogs
	settings *settings.Manager
	notes    *notes.Store
	windows  *windowconfig.Store
	errorLog *logging.ErrorLog
	fs       *platform.FS
	shell    *platform.Shell
	process  *platform.Process
	updater  *update.Checker

	mu       sync.Mutex
	ctx      context.Context
	trackers map[string]*trackedWindow
}

type trackedWindow struct {
	tracker *windowconfig.Tracker
	off     func()
}

// AppOptions carries the components App delegates to.
type AppOptions struct {
	Log      zerolog.Logger
	Dev      bool
	Devtools bool
	Host     *desktop.Host
	Settings *settings.Manager
	Notes    *notes.Store
	Windows  *windowconfig.Store
	ErrorLog *logging.ErrorLog
	FS       *platform.FS
	Updater  *update.Checker
}

// NewApp creates the App service and the window-lifecycle coordinator.
func NewApp(opts AppOptions) *App {
	a := &App{
		ctx:      context.Background(),
		log:      opts.Log,
		dev:      opts.Dev,
		host:     opts.Host,
		coord:    lifecycle.New(opts.Host, opts.Log),
		dialogs:  desktop.NewDialogs(opts.Host),
		settings: opts.Settings,
		notes:    opts.Notes,
		windows:  opts.Windows,
		errorLog: opts.ErrorLog,
		fs:       opts.FS,
		shell:    platform.NewShell(opts.FS),
		updater:  opts.Updater,
		trackers: make(map[string]*trackedWindow),
	}
	a.coord.SetDevtoolsEnabled(opts.Devtools)
	a.process = platform.NewProcess(opts.Host.Exit)
	return a
}

// ServiceStartup is called by Wails before the first window loads.
func (a *App) ServiceStartup(ctx context.Context, _ application.ServiceOptions) error {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()
	go func() {
		if err := a.settings.Watch(ctx, a.log, a.applySettings); err != nil {
			a.log.Warn().Err(err).Msg("settings watcher stopped")
		}
	}()
	return nil
}

// ServiceShutdown writes the geometry of tracked windows.
func (a *App) ServiceShutdown() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for label, tw := range a.trackers {
		tw.off()
		tw.tracker.Flush()
		delete(a.trackers, label)
	}
	return nil
}

// context returns the context Wails started the service with.
func (a *App) context() context.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctx
}

// applySettings reacts to an edited config.toml.
func (a *App) applySettings(cfg *settings.Config) {
	logging.SetLevel(logging.ParseLevel(cfg.Desktop.LogLevel, a.dev))
	a.coord.SetDevtoolsEnabled(cfg.Desktop.Devtools)
	a.host.SetDevtools(cfg.Desktop.Devtools)
	a.host.Emit("settings:changed", cfg.Notes)
	a.log.Info().Msg("settings reloaded")
}

// GetVersion returns the application version.
func (a *App) GetVersion() string {
	return desktop.Version
}

// IsDev reports whether this is a development build.
func (a *App) IsDev() bool {
	return a.dev
}

// ==================== Window Lifecycle ====================

// RegisterEditorWindow records that an editor window has opened.
func (a *App) RegisterEditorWindow() {
	a.coord.RegisterEditorWindow()
}

// UnregisterEditorWindow records that an editor window has closed. When it
// was the last one and the main window had been closed, main comes back.
func (a *App) UnregisterEditorWindow() {
	if err := a.coord.UnregisterEditorWindow(); err != nil {
		a.log.Error().Err(err).Msg("unregister editor window")
	}
}

// ToggleDevtools opens the developer tools on the main window.
func (a *App) ToggleDevtools() {
	err := a.coord.ToggleDevtools()
	switch {
	case errors.Is(err, desktop.ErrDevtoolsUnavailable):
		a.log.Warn().Msg("main window was built without devtools; restart to apply the devtools setting")
	case err != nil:
		a.log.Warn().Err(err).Msg("toggle devtools")
	}
}

// SetDevtools persists the devtools switch and applies it to the running app.
func (a *App) SetDevtools(enabled bool) error {
	if err := a.settings.SetDevtools(enabled); err != nil {
		return err
	}
	a.coord.SetDevtoolsEnabled(enabled)
	a.host.SetDevtools(enabled)
	return nil
}

// OpenEditorWindow opens a new editor window on route and returns its label.
func (a *App) OpenEditorWindow(route string) (string, error) {
	return desktop.OpenEditorWindow(a.host, route, a.dev)
}

// ==================== Notes ====================

// ListNotes returns all notes, pinned first then most recently updated.
func (a *App) ListNotes() ([]notes.Note, error) {
	return a.notes.List(a.context())
}

// GetNote returns a note, or nil when it does not exist.
func (a *App) GetNote(id int64) (*notes.Note, error) {
	return a.notes.Get(a.context(), id)
}

func (a *App) CreateNote(n notes.NewNote) (int64, error) {
	return a.notes.Create(a.context(), n)
}

func (a *App) UpdateNote(id int64, u notes.NoteUpdate) error {
	return a.notes.Update(a.context(), id, u)
}

func (a *App) DeleteNote(id int64) error {
	return a.notes.Delete(a.context(), id)
}

// SearchNotes finds notes whose title or content contains keyword.
func (a *App) SearchNotes(keyword string) ([]notes.Note, error) {
	return a.notes.Search(a.context(), keyword)
}

// NoteExcerpt returns the preview text for a note body.
func (a *App) NoteExcerpt(content string) string {
	return notes.Excerpt(content)
}

// ==================== Window Config ====================

func (a *App) SaveWindowConfig(windowID string, width, height int, x, y *int) error {
	return a.windows.Save(a.context(), windowID, width, height, x, y)
}

func (a *App) GetWindowConfig(windowID string) (*windowconfig.Config, error) {
	return a.windows.Get(a.context(), windowID)
}

func (a *App) DeleteWindowConfig(windowID string) error {
	return a.windows.Delete(a.context(), windowID)
}

// ApplyWindowConfig restores the saved geometry of windowID onto the window
// labelled label, falling back to the default size.
func (a *App) ApplyWindowConfig(label, windowID string) (*windowconfig.Config, error) {
	w, ok := a.host.Native(label)
	if !ok {
		return nil, fmt.Errorf("window %s: %w", label, desktop.ErrWindowGone)
	}
	return a.windows.Apply(a.context(), windowID, desktop.NewGeometry(w), windowconfig.DefaultWidth, windowconfig.DefaultHeight)
}

// TrackWindow saves the geometry of the window labelled label under windowID
// whenever it is moved or resized.
func (a *App) TrackWindow(label, windowID string) error {
	w, ok := a.host.Native(label)
	if !ok {
		return fmt.Errorf("window %s: %w", label, desktop.ErrWindowGone)
	}
	tw := &trackedWindow{
		tracker: windowconfig.NewTracker(a.windows, windowID, desktop.NewGeometry(w), windowconfig.SaveDelay, a.log),
	}
	tw.off = desktop.TrackGeometry(w, tw.tracker, func() { a.untrack(label, tw) })

	a.mu.Lock()
	defer a.mu.Unlock()
	if prev, ok := a.trackers[label]; ok {
		prev.off()
	}
	a.trackers[label] = tw
	return nil
}

// untrack forgets a closed window, unless label has been tracked again since.
func (a *App) untrack(label string, tw *trackedWindow) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.trackers[label] == tw {
		delete(a.trackers, label)
	}
}

// ==================== Preferences ====================

func (a *App) GetNotesPreferences() (settings.NotesConfig, error) {
	return a.settings.GetNotesPreferences()
}

func (a *App) SetNotesPreferences(prefs settings.NotesConfig) error {
	return a.settings.SetNotesPreferences(prefs)
}

// ResetNotesPreferences restores the default preferences and returns them.
func (a *App) ResetNotesPreferences() (settings.NotesConfig, error) {
	return a.settings.ResetNotesPreferences()
}

// ==================== Diagnostics ====================

// ReportFrontendError records an uncaught error from the webview.
func (a *App) ReportFrontendError(r logging.ErrorReport) error {
	if r.AppVersion == "" {
		r.AppVersion = desktop.Version
	}
	return a.errorLog.Record(r)
}

// CheckForUpdate asks the release manifest for a newer version. Development
// builds never report one.
func (a *App) CheckForUpdate() (*update.Result, error) {
	if a.dev || a.updater == nil {
		return &update.Result{CurrentVersion: desktop.Version}, nil
	}
	res, err := a.updater.Check(a.context())
	if errors.Is(err, update.ErrNoEndpoint) {
		return &update.Result{CurrentVersion: desktop.Version}, nil
	}
	if err != nil {
		a.log.Warn().Err(err).Msg("update check failed")
		return nil, err
	}
	return res, nil
}

// ==================== Filesystem ====================

func (a *App) ReadTextFile(path string) (string, error) {
	return a.fs.ReadTextFile(path)
}

func (a *App) WriteTextFile(path, data string, appendData bool) error {
	return a.fs.WriteTextFile(path, data, appendData)
}

func (a *App) WriteBinaryFile(path string, data []byte) error {
	return a.fs.WriteBinaryFile(path, data)
}

func (a *App) Exists(path string) bool {
	return a.fs.Exists(path)
}

func (a *App) Mkdir(path string) error {
	return a.fs.Mkdir(path)
}

func (a *App) ReadDir(path string) ([]string, error) {
	return a.fs.ReadDir(path)
}

func (a *App) Remove(path string, recursive bool) error {
	return a.fs.Remove(path, recursive)
}

// ==================== Shell, OS & Process ====================

// OpenExternal opens a URL in the browser or a data file in its default app.
func (a *App) OpenExternal(target string) error {
	return a.shell.Open(target)
}

func (a *App) OSInfo() platform.OSInfo {
	return platform.GetOSInfo()
}

// ExitApp quits the application with code.
func (a *App) ExitApp(code int) {
	a.process.Exit(code)
}

// Relaunch restarts the application.
func (a *App) Relaunch() error {
	return a.process.Relaunch()
}

// ExitCode is the code main exits with once Wails returns.
func (a *App) ExitCode() int {
	return a.process.ExitCode()
}

// ==================== Dialogs ====================

func (a *App) OpenFileDialog(title string, filters []desktop.FileFilter) (string, error) {
	return a.dialogs.OpenFile(title, filters)
}

func (a *App) SaveFileDialog(filename string, filters []desktop.FileFilter) (string, error) {
	return a.dialogs.SaveFile(filename, filters)
}

func (a *App) MessageDialog(title, message string) error {
	return a.dialogs.Info(title, message)
}

func (a *App) ErrorDialog(title, message string) error {
	return a.dialogs.Error(title, message)
}
