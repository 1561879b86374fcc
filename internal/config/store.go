package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var ErrNoConfig = errors.New("no config selected")

const DefaultLabel = "Default"

// Store manages named YAML profiles under Root/configs and remembers the
// active one in Root/current_config.
type Store struct {
	Root string
}

// DefaultStore is rooted at the per-user config directory.
func DefaultStore() Store {
	return Store{Root: DefaultRoot()}
}

func DefaultRoot() string {
	// Windows
	if appdata := os.Getenv("APPDATA"); appdata != "" {
		return filepath.Join(appdata, "mangaseek")
	}

	// Linux/macOS XDG
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mangaseek")
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mangaseek")
}

func (s Store) ConfigsDir() string {
	return filepath.Join(s.Root, "configs")
}

func (s Store) currentLabelFile() string {
	return filepath.Join(s.Root, "current_config")
}

// Path returns where the profile called label lives, whether or not it
// exists.
func (s Store) Path(label string) string {
	return filepath.Join(s.ConfigsDir(), label+".yaml")
}

func (s Store) ensureDirs() error {
	return os.MkdirAll(s.ConfigsDir(), 0755)
}

func (s Store) exists(label string) bool {
	_, err := os.Stat(s.Path(label))
	return err == nil
}

func (s Store) setCurrent(label string) error {
	return os.WriteFile(s.currentLabelFile(), []byte(label), 0644)
}

func (s Store) CurrentLabel() (string, error) {
	b, err := os.ReadFile(s.currentLabelFile())
	if os.IsNotExist(err) {
		return "", ErrNoConfig
	}
	if err != nil {
		return "", err
	}

	label := strings.TrimSpace(string(b))
	if label == "" {
		return "", ErrNoConfig
	}

	return label, nil
}

func (s Store) ActivePath() (string, error) {
	label, err := s.CurrentLabel()
	if err != nil {
		return "", err
	}

	return s.Path(label), nil
}

type Info struct {
	Label  string
	Path   string
	Active bool
}

func (s Store) List() ([]Info, error) {
	if err := s.ensureDirs(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.ConfigsDir())
	if err != nil {
		return nil, err
	}

	active, _ := s.CurrentLabel()
	var out []Info

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}

		label := strings.TrimSuffix(name, ".yaml")
		out = append(out, Info{
			Label:  label,
			Path:   filepath.Join(s.ConfigsDir(), name),
			Active: label == active,
		})
	}

	slices.SortFunc(out, func(a, b Info) int { return strings.Compare(a.Label, b.Label) })
	return out, nil
}

func (s Store) Switch(label string) error {
	if strings.TrimSpace(label) == "" {
		return errors.New("label cannot be empty")
	}
	if err := s.ensureDirs(); err != nil {
		return err
	}

	if !s.exists(label) {
		return fmt.Errorf("config %q does not exist", label)
	}

	return s.setCurrent(label)
}

// Add copies the YAML file at srcPath in as a new profile.
func (s Store) Add(label, srcPath string) error {
	if strings.TrimSpace(label) == "" {
		return errors.New("label cannot be empty")
	}
	if err := s.ensureDirs(); err != nil {
		return err
	}
	if s.exists(label) {
		return fmt.Errorf("config %q already exists", label)
	}

	if _, err := LoadYAML(srcPath); err != nil {
		return err
	}

	raw, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}

	return os.WriteFile(s.Path(label), raw, 0644)
}

// Create writes a profile holding the default values.
func (s Store) Create(label string) (string, error) {
	if strings.TrimSpace(label) == "" {
		return "", errors.New("label cannot be empty")
	}
	if err := s.ensureDirs(); err != nil {
		return "", err
	}
	if s.exists(label) {
		return "", fmt.Errorf("config %q already exists", label)
	}

	path := s.Path(label)
	if err := SaveYAML(DefaultConfig(), path); err != nil {
		return "", err
	}

	return path, nil
}

func (s Store) Rename(oldLabel, newLabel string) error {
	if strings.TrimSpace(newLabel) == "" {
		return errors.New("new label cannot be empty")
	}
	if !s.exists(oldLabel) {
		return fmt.Errorf("config %q does not exist", oldLabel)
	}
	if s.exists(newLabel) {
		return fmt.Errorf("config %q already exists", newLabel)
	}

	if err := os.Rename(s.Path(oldLabel), s.Path(newLabel)); err != nil {
		return err
	}

	if active, _ := s.CurrentLabel(); active == oldLabel {
		return s.setCurrent(newLabel)
	}

	return nil
}

// Remove deletes a profile. Removing the active one makes Default active,
// which is reported through switched.
func (s Store) Remove(label string) (switched bool, err error) {
	if strings.TrimSpace(label) == "" {
		return false, errors.New("label cannot be empty")
	}
	if label == DefaultLabel {
		return false, errors.New("cannot remove the Default config")
	}
	if !s.exists(label) {
		return false, fmt.Errorf("config %q does not exist", label)
	}

	if active, _ := s.CurrentLabel(); active == label {
		if err := s.Switch(DefaultLabel); err != nil {
			return false, fmt.Errorf("failed switching to Default: %w", err)
		}
		switched = true
	}

	return switched, os.Remove(s.Path(label))
}

// Init makes sure the Default profile exists and is active. It returns
// os.ErrExist along with the path when the profile was already there.
func (s Store) Init() (string, error) {
	if err := s.ensureDirs(); err != nil {
		return "", err
	}

	path := s.Path(DefaultLabel)
	if s.exists(DefaultLabel) {
		if err := s.setCurrent(DefaultLabel); err != nil {
			return "", err
		}
		return path, os.ErrExist
	}

	if err := SaveYAML(DefaultConfig(), path); err != nil {
		return "", err
	}

	return path, s.setCurrent(DefaultLabel)
}

// Reset overwrites label with the default values.
func (s Store) Reset(label string) (string, error) {
	if !s.exists(label) {
		return "", fmt.Errorf("config %q does not exist", label)
	}

	path := s.Path(label)
	return path, SaveYAML(DefaultConfig(), path)
}
