// Package prefs stores the cosmetic preferences of the hub: theme, active
// tab and avatar. Values are plain strings and are re-read on every access.
package prefs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/pph/pkg/core"
)

// Store reads and writes preferences through a core.Storage.
type Store struct {
	storage core.Storage
	logger  *slog.Logger
}

// New creates a preference store. A nil logger means slog.Default.
func New(storage core.Storage, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{storage: storage, logger: logger}
}

func (s *Store) read(ctx context.Context, key string) (string, bool) {
	v, ok, err := s.storage.Read(ctx, key)
	if err != nil {
		s.logger.Debug("preference unreadable, using default", "key", key, "error", err)
		return "", false
	}
	return v, ok
}

// Theme returns the stored theme. Anything but "light" is dark.
func (s *Store) Theme(ctx context.Context) core.Theme {
	if v, ok := s.read(ctx, core.KeyTheme); ok && core.Theme(v) == core.ThemeLight {
		return core.ThemeLight
	}
	return core.ThemeDark
}

// SetTheme persists theme.
func (s *Store) SetTheme(ctx context.Context, theme core.Theme) error {
	if theme != core.ThemeLight {
		theme = core.ThemeDark
	}
	if err := s.storage.Write(ctx, core.KeyTheme, string(theme)); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}

// ToggleTheme flips the theme and returns the new one.
func (s *Store) ToggleTheme(ctx context.Context) (core.Theme, error) {
	next := core.ThemeLight
	if s.Theme(ctx) == core.ThemeLight {
		next = core.ThemeDark
	}
	return next, s.SetTheme(ctx, next)
}

// ThemeGlyph names the icon shown on the theme toggle: the theme it would
// switch to.
func ThemeGlyph(theme core.Theme) string {
	if theme == core.ThemeLight {
		return "dark_mode"
	}
	return "light_mode"
}

// ActiveTab returns the stored tab, or the first tab when absent or unknown.
func (s *Store) ActiveTab(ctx context.Context) core.Kind {
	v, ok := s.read(ctx, core.KeyActiveTab)
	if !ok {
		return core.Kinds[0]
	}
	kind, err := core.ParseKind(v)
	if err != nil {
		s.logger.Debug("unknown active tab, using default", "tab", v)
		return core.Kinds[0]
	}
	return kind
}

// SetActiveTab persists tab. Unknown tabs are refused with core.ErrUnknownTab.
func (s *Store) SetActiveTab(ctx context.Context, tab string) (core.Kind, error) {
	kind, err := core.ParseKind(tab)
	if err != nil {
		return "", fmt.Errorf("%w: %q", core.ErrUnknownTab, tab)
	}
	if err := s.storage.Write(ctx, core.KeyActiveTab, string(kind)); err != nil {
		return "", fmt.Errorf("failed to save active tab: %w", err)
	}
	return kind, nil
}

// Avatar returns the stored avatar URL or the built-in default.
func (s *Store) Avatar(ctx context.Context) string {
	if v, ok := s.read(ctx, core.KeyAvatar); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return core.DefaultAvatarURL
}

// SetAvatar stores url. A blank url removes the preference, restoring the
// default avatar.
func (s *Store) SetAvatar(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		if err := s.storage.Remove(ctx, core.KeyAvatar); err != nil {
			return fmt.Errorf("failed to reset avatar: %w", err)
		}
		return nil
	}
	if err := s.storage.Write(ctx, core.KeyAvatar, url); err != nil {
		return fmt.Errorf("failed to save avatar: %w", err)
	}
	return nil
}
