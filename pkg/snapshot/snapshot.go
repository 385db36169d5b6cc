// Package snapshot exports and imports the whole hub state as one JSON or
// YAML document.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/pph/pkg/core"
)

// Version is written into every snapshot.
const Version = 1

// Format is a snapshot encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat resolves a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown snapshot format %q", s)
}

// FormatForPath guesses the format from a file extension, defaulting to JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Snapshot is the full persisted state. Empty preferences mean "absent".
type Snapshot struct {
	Version   int          `json:"version" yaml:"version"`
	Todos     []core.Todo  `json:"todos" yaml:"todos"`
	Notes     []core.Note  `json:"notes" yaml:"notes"`
	Links     []core.Link  `json:"links" yaml:"links"`
	Images    []core.Image `json:"images" yaml:"images"`
	Theme     string       `json:"theme,omitempty" yaml:"theme,omitempty"`
	ActiveTab string       `json:"active_tab,omitempty" yaml:"active_tab,omitempty"`
	Avatar    string       `json:"avatar,omitempty" yaml:"avatar,omitempty"`
}

// Take reads every key from storage. Malformed collections are exported as
// empty, matching what the hub would show.
func Take(ctx context.Context, storage core.Storage) (*Snapshot, error) {
	raw := make(map[string]string, len(core.Keys))
	for _, key := range core.Keys {
		v, ok, err := storage.Read(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if ok {
			raw[key] = v
		}
	}
	return fromValues(raw), nil
}

func fromValues(raw map[string]string) *Snapshot {
	s := &Snapshot{
		Version:   Version,
		Todos:     decodeList[core.Todo](raw[core.KeyTodos]),
		Notes:     decodeList[core.Note](raw[core.KeyNotes]),
		Links:     decodeList[core.Link](raw[core.KeyLinks]),
		Images:    decodeList[core.Image](raw[core.KeyImages]),
		Theme:     raw[core.KeyTheme],
		ActiveTab: raw[core.KeyActiveTab],
		Avatar:    raw[core.KeyAvatar],
	}
	return s
}

func decodeList[T any](raw string) []T {
	var items []T
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &items)
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// Restore overwrites storage with the snapshot. Empty preferences remove
// their key. Records repeating an earlier id are dropped, so ids stay unique.
func Restore(ctx context.Context, storage core.Storage, s *Snapshot) error {
	lists := []struct {
		key   string
		value any
	}{
		{core.KeyTodos, uniqueByID(s.Todos)},
		{core.KeyNotes, uniqueByID(s.Notes)},
		{core.KeyLinks, uniqueByID(s.Links)},
		{core.KeyImages, uniqueByID(s.Images)},
	}
	for _, l := range lists {
		data, err := json.Marshal(l.value)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", l.key, err)
		}
		if err := storage.Write(ctx, l.key, string(data)); err != nil {
			return fmt.Errorf("failed to restore %s: %w", l.key, err)
		}
	}

	scalars := map[string]string{
		core.KeyTheme:     s.Theme,
		core.KeyActiveTab: s.ActiveTab,
		core.KeyAvatar:    s.Avatar,
	}
	for _, key := range []string{core.KeyTheme, core.KeyActiveTab, core.KeyAvatar} {
		var err error
		if v := strings.TrimSpace(scalars[key]); v == "" {
			err = storage.Remove(ctx, key)
		} else {
			err = storage.Write(ctx, key, v)
		}
		if err != nil {
			return fmt.Errorf("failed to restore %s: %w", key, err)
		}
	}
	return nil
}

// uniqueByID keeps the first record for each id, in order.
func uniqueByID[T core.Record](items []T) []T {
	out := make([]T, 0, len(items))
	seen := make(map[int64]bool, len(items))
	for _, item := range items {
		id := item.RecordID()
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, item)
	}
	return out
}

// Encode writes the snapshot in format.
func (s *Snapshot) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("failed to encode yaml snapshot: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("failed to encode json snapshot: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unknown snapshot format %q", format)
}

// Decode reads a snapshot in format. JSON input may also be a flat dump of
// the browser widget's storage: an object mapping pph_* keys to strings.
func Decode(r io.Reader, format Format) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	switch format {
	case FormatYAML:
		var s Snapshot
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to decode yaml snapshot: %w", err)
		}
		return &s, nil
	case FormatJSON, "":
		if dump, ok := decodeDump(data); ok {
			return fromValues(dump), nil
		}
		var s Snapshot
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to decode json snapshot: %w", err)
		}
		return &s, nil
	}
	return nil, fmt.Errorf("unknown snapshot format %q", format)
}

func decodeDump(data []byte) (map[string]string, bool) {
	var dump map[string]string
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, false
	}
	for _, key := range core.Keys {
		if _, ok := dump[key]; ok {
			return dump, true
		}
	}
	return nil, false
}

// Export writes the current storage content to w.
func Export(ctx context.Context, storage core.Storage, w io.Writer, format Format) error {
	s, err := Take(ctx, storage)
	if err != nil {
		return err
	}
	return s.Encode(w, format)
}

// Import replaces the storage content with the snapshot read from r.
func Import(ctx context.Context, storage core.Storage, r io.Reader, format Format) error {
	s, err := Decode(r, format)
	if err != nil {
		return err
	}
	if s.Version > Version {
		return errors.New("snapshot was written by a newer version")
	}
	return Restore(ctx, storage, s)
}
