package main

import (
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/wailsapp/wails/v3/pkg/application"

	"github.com/inotes/inotes-desktop/internal/database"
	"github.com/inotes/inotes-desktop/internal/desktop"
	"github.com/inotes/inotes-desktop/internal/lifecycle"
	"github.com/inotes/inotes-desktop/internal/logging"
	"github.com/inotes/inotes-desktop/internal/notes"
	"github.com/inotes/inotes-desktop/internal/platform"
	"github.com/inotes/inotes-desktop/internal/settings"
	"github.com/inotes/inotes-desktop/internal/update"
	"github.com/inotes/inotes-desktop/internal/windowconfig"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	os.Exit(run())
}

func run() int {
	isDev := desktop.IsDev()

	settingsMgr := settings.NewManager(isDev)
	cfg, err := settingsMgr.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load %s: %v\n", settingsMgr.Path(), err)
		cfg = settingsMgr.Defaults()
	}

	attachConsole(cfg.Desktop.Console)

	dataDir := settingsMgr.DataDir()
	logDir := filepath.Join(dataDir, "logs")
	logger, err := logging.Setup(logging.Options{
		Debug: isDev,
		Dir:   logDir,
		Level: cfg.Desktop.LogLevel,
	})
	if err != nil {
		println("Error:", err.Error())
		return 1
	}
	defer logger.Close()
	log := logger.Logger

	db, err := database.Open(filepath.Join(dataDir, database.FileName))
	if err != nil {
		log.Error().Err(err).Msg("open database")
		return 1
	}
	defer db.Close()

	wailsLogLevel := slog.LevelInfo
	if isDev {
		wailsLogLevel = slog.LevelDebug
	}

	wailsApp := application.New(application.Options{
		Name:        "iNotes",
		Description: "Sticky notes for the desktop",
		Assets: application.AssetOptions{
			Handler: application.AssetFileServerFS(assets),
		},
		LogLevel: wailsLogLevel,
		// Closing the main window is decided by the lifecycle coordinator.
		Mac: application.MacOptions{
			ApplicationShouldTerminateAfterLastWindowClosed: false,
		},
		Windows: application.WindowsOptions{
			DisableQuitOnLastWindowClosed: true,
		},
		Linux: application.LinuxOptions{
			DisableQuitOnLastWindowClosed: true,
			ProgramName:                  settings.AppName,
		},
	})

	host := desktop.NewHost(wailsApp, log, cfg.Desktop.Devtools)
	app := NewApp(AppOptions{
		Log:      log,
		Dev:      isDev,
		Devtools: cfg.Desktop.Devtools,
		Host:     host,
		Settings: settingsMgr,
		Notes:    notes.NewStore(db),
		Windows:  windowconfig.NewStore(db),
		ErrorLog: logging.NewErrorLog(logging.ErrorLogPath(logDir, isDev), !isDev, log),
		FS:       platform.NewFS(dataDir),
		Updater:  update.NewChecker(cfg.Desktop.UpdateEndpoint, desktop.Version),
	})
	wailsApp.RegisterService(application.NewService(app))

	// The main window gets the close hook every time it is built, including
	// when the coordinator rebuilds it.
	host.OnWindowCreated(func(label string, w application.Window) {
		if label == lifecycle.MainWindowLabel {
			desktop.AttachMainCloseHook(host, w, app.coord)
		}
	})
	if _, err := host.CreateWindow(lifecycle.MainWindowOptions()); err != nil {
		log.Error().Err(err).Msg("create main window")
		return 1
	}

	log.Info().Str("version", desktop.Version).Bool("dev", isDev).Msg("starting")
	if err := wailsApp.Run(); err != nil {
		log.Error().Err(err).Msg("application error")
		return 1
	}
	return app.ExitCode()
}
