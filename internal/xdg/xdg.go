// Package xdg locates user configuration following the XDG Base Directory layout.
package xdg

import (
	"os"
	"path/filepath"
)

// Dirs holds the resolved configuration base directories
type Dirs struct {
	configHome string
	configDirs []string
}

// New resolves XDG_CONFIG_HOME and XDG_CONFIG_DIRS with the standard defaults
func New() *Dirs {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv("HOME")
		if homeDir == "" {
			homeDir = "/tmp"
		}
	}

	d := &Dirs{}
	d.configHome = os.Getenv("XDG_CONFIG_HOME")
	if d.configHome == "" {
		d.configHome = filepath.Join(homeDir, ".config")
	}

	configDirsEnv := os.Getenv("XDG_CONFIG_DIRS")
	if configDirsEnv == "" {
		d.configDirs = []string{"/etc/xdg"}
	} else {
		d.configDirs = filepath.SplitList(configDirsEnv)
	}
	return d
}

// ConfigHome returns the base directory for user-specific configuration files
func (d *Dirs) ConfigHome() string {
	return d.configHome
}

// ConfigDirs returns the preference-ordered base directories for configuration files
func (d *Dirs) ConfigDirs() []string {
	return append([]string{d.configHome}, d.configDirs...)
}

// AppConfigDir returns the application-specific config directory
func (d *Dirs) AppConfigDir(appName string) string {
	return filepath.Join(d.configHome, appName)
}

// FindConfig returns the first existing appName/fname below the config dirs
func (d *Dirs) FindConfig(appName, fname string) (string, bool) {
	for _, dir := range d.ConfigDirs() {
		path := filepath.Join(dir, appName, fname)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
