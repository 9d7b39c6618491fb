// Package settings manages the desktop shell's config.toml.
package settings

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "inotes"

// Config represents the parts of config.toml the shell understands.
type Config struct {
	Desktop DesktopConfig `toml:"desktop"`
	Notes   NotesConfig   `toml:"notes"`
}

// DesktopConfig represents the [desktop] section of config.toml
type DesktopConfig struct {
	Devtools bool `toml:"devtools"`
	// Console allocates a console window on Windows for diagnostic output.
	Console  bool   `toml:"console"`
	LogLevel string `toml:"log_level"` // "debug", "info", "warn", "error"
	// UpdateEndpoint is the release manifest URL. Empty disables update checks.
	UpdateEndpoint string `toml:"update_endpoint"`
}

// NotesConfig represents the [notes] section: preferences the frontend used
// to keep in local storage.
type NotesConfig struct {
	SyncDelay      int          `toml:"sync_delay" json:"syncDelay"` // ms, 0-10000, default 100
	ServerAddress  string       `toml:"server_address" json:"serverAddress"`
	ServerToken    string       `toml:"server_token" json:"serverToken"`
	ImagesCacheDir string       `toml:"images_cache_dir" json:"imagesCacheUrl"`
	Switches       NoteSwitches `toml:"switches" json:"switchStatus"`
}

// NoteSwitches are the boolean toggles shown in the settings page.
type NoteSwitches struct {
	TextTip        bool `toml:"text_tip" json:"textTip"`
	DeleteTip      bool `toml:"delete_tip" json:"deleteTip"`
	AutoNarrow     bool `toml:"auto_narrow" json:"autoNarrow"`
	AutoNarrowPure bool `toml:"auto_narrow_pure" json:"autoNarrowPure"`
	AutoHide       bool `toml:"auto_hide" json:"autoHide"`
	OpenSync       bool `toml:"open_sync" json:"openSync"`
}

const (
	defaultSyncDelay = 100
	maxSyncDelay     = 10000
)

// Manager reads and writes config.toml.
type Manager struct {
	configPath string
	dataDir    string
	dev        bool

	mu sync.Mutex
}

// NewManager creates a settings manager using the XDG config and data dirs.
func NewManager(dev bool) *Manager {
	return &Manager{
		configPath: filepath.Join(xdg.ConfigHome, AppName, "config.toml"),
		dataDir:    DataDir(),
		dev:        dev,
	}
}

// NewManagerAt creates a settings manager with explicit locations.
func NewManagerAt(configPath, dataDir string, dev bool) *Manager {
	return &Manager{configPath: configPath, dataDir: dataDir, dev: dev}
}

// DataDir returns the directory for the database, logs and images.
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Path returns the config file location.
func (m *Manager) Path() string {
	return m.configPath
}

// DataDir returns the data directory this manager resolves defaults against.
func (m *Manager) DataDir() string {
	return m.dataDir
}

// Defaults returns the configuration used when no file exists.
func (m *Manager) Defaults() *Config {
	return &Config{
		Desktop: DesktopConfig{
			Devtools: m.dev,
			LogLevel: m.defaultLogLevel(),
		},
		Notes: m.defaultNotes(),
	}
}

func (m *Manager) defaultLogLevel() string {
	if m.dev {
		return "debug"
	}
	return "warn"
}

func (m *Manager) defaultNotes() NotesConfig {
	return NotesConfig{
		SyncDelay:      defaultSyncDelay,
		ImagesCacheDir: filepath.Join(m.dataDir, "images"),
		Switches:       NoteSwitches{TextTip: true},
	}
}

// Load reads config.toml, applying defaults for missing or invalid values.
// A missing or unparseable file yields the defaults.
func (m *Manager) Load() (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

func (m *Manager) load() (*Config, error) {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m.Defaults(), nil
		}
		return nil, err
	}

	// Decode over the defaults so booleans absent from the file keep them.
	config := m.Defaults()
	if err := toml.Unmarshal(data, config); err != nil {
		return m.Defaults(), nil // Return defaults on parse error
	}

	m.normalize(config)
	return config, nil
}

func (m *Manager) normalize(config *Config) {
	switch strings.ToLower(strings.TrimSpace(config.Desktop.LogLevel)) {
	case "debug", "info", "warn", "error":
		config.Desktop.LogLevel = strings.ToLower(strings.TrimSpace(config.Desktop.LogLevel))
	default:
		config.Desktop.LogLevel = m.defaultLogLevel()
	}

	if config.Notes.SyncDelay < 0 {
		config.Notes.SyncDelay = 0
	} else if config.Notes.SyncDelay > maxSyncDelay {
		config.Notes.SyncDelay = maxSyncDelay
	}

	if strings.TrimSpace(config.Notes.ImagesCacheDir) == "" {
		config.Notes.ImagesCacheDir = filepath.Join(m.dataDir, "images")
	}
}

// Save writes the config, preserving sections this package does not know.
func (m *Manager) Save(config *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.save(config)
}

func (m *Manager) save(config *Config) error {
	m.normalize(config)

	existingData, _ := os.ReadFile(m.configPath)

	// Parse existing config into a map to preserve unknown sections
	existingConfig := make(map[string]interface{})
	if len(existingData) > 0 {
		if err := toml.Unmarshal(existingData, &existingConfig); err != nil {
			existingConfig = make(map[string]interface{})
		}
	}

	existingConfig["desktop"] = map[string]interface{}{
		"devtools":        config.Desktop.Devtools,
		"console":         config.Desktop.Console,
		"log_level":       config.Desktop.LogLevel,
		"update_endpoint": config.Desktop.UpdateEndpoint,
	}
	existingConfig["notes"] = map[string]interface{}{
		"sync_delay":       config.Notes.SyncDelay,
		"server_address":   config.Notes.ServerAddress,
		"server_token":     config.Notes.ServerToken,
		"images_cache_dir": config.Notes.ImagesCacheDir,
		"switches": map[string]interface{}{
			"text_tip":         config.Notes.Switches.TextTip,
			"delete_tip":       config.Notes.Switches.DeleteTip,
			"auto_narrow":      config.Notes.Switches.AutoNarrow,
			"auto_narrow_pure": config.Notes.Switches.AutoNarrowPure,
			"auto_hide":        config.Notes.Switches.AutoHide,
			"open_sync":        config.Notes.Switches.OpenSync,
		},
	}

	if err := os.MkdirAll(filepath.Dir(m.configPath), 0700); err != nil {
		return err
	}

	var buf bytes.Buffer
	if len(existingData) == 0 {
		buf.WriteString("# iNotes Configuration\n\n")
	}
	if err := toml.NewEncoder(&buf).Encode(existingConfig); err != nil {
		return err
	}

	// server_token lives here, keep the file private.
	return os.WriteFile(m.configPath, buf.Bytes(), 0600)
}

// update loads, mutates and saves the config under the manager lock.
func (m *Manager) update(fn func(*Config)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	config, err := m.load()
	if err != nil {
		config = m.Defaults()
	}
	fn(config)
	return m.save(config)
}

// GetNotesPreferences returns the [notes] section.
func (m *Manager) GetNotesPreferences() (NotesConfig, error) {
	config, err := m.Load()
	if err != nil {
		return m.defaultNotes(), err
	}
	return config.Notes, nil
}

// SetNotesPreferences replaces the [notes] section.
func (m *Manager) SetNotesPreferences(prefs NotesConfig) error {
	return m.update(func(c *Config) { c.Notes = prefs })
}

// ResetNotesPreferences restores the [notes] section to its defaults and
// returns them.
func (m *Manager) ResetNotesPreferences() (NotesConfig, error) {
	defaults := m.defaultNotes()
	if err := m.update(func(c *Config) { c.Notes = defaults }); err != nil {
		return defaults, err
	}
	return defaults, nil
}

// SetDevtools enables or disables the devtools command.
func (m *Manager) SetDevtools(enabled bool) error {
	return m.update(func(c *Config) { c.Desktop.Devtools = enabled })
}
