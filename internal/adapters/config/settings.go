// Package config loads the game directory and user settings.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"go.trai.ch/quarry/internal/adapters/atomicfile"
	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, as in QUARRY_RAM.
const EnvPrefix = "QUARRY"

// Setting keys.
const (
	KeyJavaPath      = "java_path"
	KeyRAM           = "ram"
	KeyWidth         = "width"
	KeyHeight        = "height"
	KeyFullscreen    = "fullscreen"
	KeyRepoURL       = "repo_url"
	KeyAutoClose     = "auto_close"
	KeyLastVersionID = "last_version_id"
)

// DefaultRepoURL is the remote modpack catalog used when none is configured.
const DefaultRepoURL = "https://modpack-server.vercel.app/modpacks.json"

// Keys returns every setting key in display order.
func Keys() []string {
	return []string{KeyJavaPath, KeyRAM, KeyWidth, KeyHeight, KeyFullscreen, KeyRepoURL, KeyAutoClose, KeyLastVersionID}
}

// Defaults returns the settings used when nothing is configured.
func Defaults() domain.Settings {
	return domain.Settings{
		RAM:     4096,
		Width:   854,
		Height:  480,
		RepoURL: DefaultRepoURL,
	}
}

// Settings implements ports.SettingsStore on a YAML file.
type Settings struct {
	path string

	mu      sync.RWMutex
	current domain.Settings
}

// LoadSettings reads the settings file at path, applying defaults and
// QUARRY_ environment overrides. A missing file is not an error.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()

	defaults := Defaults()
	v.SetDefault(KeyJavaPath, defaults.JavaPath)
	v.SetDefault(KeyRAM, defaults.RAM)
	v.SetDefault(KeyWidth, defaults.Width)
	v.SetDefault(KeyHeight, defaults.Height)
	v.SetDefault(KeyFullscreen, defaults.Fullscreen)
	v.SetDefault(KeyRepoURL, defaults.RepoURL)
	v.SetDefault(KeyAutoClose, defaults.AutoClose)
	v.SetDefault(KeyLastVersionID, defaults.LastVersionID)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrSettingsLoadFailed.Error()), "path", path)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSettingsLoadFailed.Error()), "path", path)
	}

	var current domain.Settings
	if err := v.Unmarshal(&current); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSettingsLoadFailed.Error()), "path", path)
	}

	return &Settings{path: path, current: current}, nil
}

// Settings returns a copy of the current settings.
func (s *Settings) Settings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set parses value for key and updates the in-memory settings.
func (s *Settings) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	switch key {
	case KeyJavaPath:
		next.JavaPath = value
	case KeyRepoURL:
		next.RepoURL = value
	case KeyLastVersionID:
		next.LastVersionID = value
	case KeyRAM, KeyWidth, KeyHeight:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return invalidValue(key, value)
		}
		switch key {
		case KeyRAM:
			next.RAM = n
		case KeyWidth:
			next.Width = n
		default:
			next.Height = n
		}
	case KeyFullscreen, KeyAutoClose:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return invalidValue(key, value)
		}
		if key == KeyFullscreen {
			next.Fullscreen = b
		} else {
			next.AutoClose = b
		}
	default:
		return domain.With(domain.ErrUnknownSetting, "key", key)
	}

	s.current = next
	return nil
}

// Save writes the current settings to the settings file.
func (s *Settings) Save() error {
	s.mu.RLock()
	data, err := yaml.Marshal(s.current)
	s.mu.RUnlock()
	if err != nil {
		return zerr.Wrap(err, domain.ErrSettingsSaveFailed.Error())
	}

	if err := atomicfile.Write(s.path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrSettingsSaveFailed.Error()), "path", s.path)
	}
	return nil
}

func invalidValue(key, value string) error {
	return zerr.With(domain.With(domain.ErrInvalidSettingValue, "key", key), "value", value)
}
