// Package prefs stores the reader's display language and theme.
package prefs

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/lajketz/site/internal/i18n"
)

// Keys shared with the inline page script, which mirrors them in
// localStorage.
const (
	LangKey = "lk_lang"
	DarkKey = "ljk_dark"
)

var (
	ErrInvalidLanguage = errors.New("prefs: invalid language")
	ErrInvalidTheme    = errors.New("prefs: invalid theme")
)

// Storage is a string key/value backend.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// SystemTheme reports the user agent's color scheme, if it told us one.
type SystemTheme func() (dark bool, ok bool)

// Store resolves preferences once at construction and writes changes
// through to its storage immediately.
type Store struct {
	storage Storage
	lang    i18n.Lang
	dark    bool
}

// New resolves the initial state: a stored value wins, then (theme only)
// the system preference, then the defaults of Spanish and light.
func New(storage Storage, system SystemTheme) *Store {
	s := &Store{storage: storage, lang: i18n.Default}

	if raw, ok := storage.Get(LangKey); ok {
		if lang, ok := i18n.Parse(raw); ok {
			s.lang = lang
		}
	}

	if raw, ok := storage.Get(DarkKey); ok {
		if dark, err := decodeDark(raw); err == nil {
			s.dark = dark
			return s
		}
	}
	if system != nil {
		if dark, ok := system(); ok {
			s.dark = dark
		}
	}
	return s
}

func (s *Store) Language() i18n.Lang { return s.lang }

func (s *Store) Dark() bool { return s.dark }

// SetLanguage validates code and persists it. Storage is untouched on error.
func (s *Store) SetLanguage(code string) error {
	lang, ok := i18n.Parse(code)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, code)
	}
	if err := s.storage.Set(LangKey, lang.String()); err != nil {
		return fmt.Errorf("prefs: store language: %w", err)
	}
	s.lang = lang
	return nil
}

func (s *Store) SetDark(dark bool) error {
	if err := s.storage.Set(DarkKey, encodeDark(dark)); err != nil {
		return fmt.Errorf("prefs: store theme: %w", err)
	}
	s.dark = dark
	return nil
}

// ParseTheme accepts a theme mode from a URL or header.
func ParseTheme(mode string) (dark bool, err error) {
	switch strings.ToLower(strings.Trim(strings.TrimSpace(mode), `"`)) {
	case "dark", "1", "on":
		return true, nil
	case "light", "0", "off":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q", ErrInvalidTheme, mode)
}

func encodeDark(dark bool) string {
	if dark {
		return "1"
	}
	return "0"
}

func decodeDark(raw string) (bool, error) {
	switch raw {
	case "1":
		return true, nil
	case "0":
		return false, nil
	}
	return false, ErrInvalidTheme
}

// MemoryStorage keeps values in a map.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
