// Package core holds the records, storage contract and sentinel errors shared
// by every other package of the hub.
package core

import "strings"

// Kind identifies one of the four list-backed panels.
type Kind string

const (
	KindTodos  Kind = "todos"
	KindNotes  Kind = "notes"
	KindLinks  Kind = "links"
	KindImages Kind = "images"
)

// Kinds lists every panel in tab order.
var Kinds = []Kind{KindTodos, KindNotes, KindLinks, KindImages}

// ParseKind resolves a panel name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", ErrUnknownKind
}

// Storage keys. They match the keys written by the browser widget so that an
// exported localStorage dump can be imported as is.
const (
	KeyTodos     = "pph_todos"
	KeyNotes     = "pph_notes"
	KeyLinks     = "pph_links"
	KeyImages    = "pph_images"
	KeyTheme     = "pph_theme"
	KeyActiveTab = "pph_active_tab"
	KeyAvatar    = "pph_avatar"
)

// Keys lists every storage key owned by the hub.
var Keys = []string{KeyTodos, KeyNotes, KeyLinks, KeyImages, KeyTheme, KeyActiveTab, KeyAvatar}

// Key returns the storage key of a panel's collection.
func (k Kind) Key() string {
	switch k {
	case KindTodos:
		return KeyTodos
	case KindNotes:
		return KeyNotes
	case KindLinks:
		return KeyLinks
	case KindImages:
		return KeyImages
	}
	return ""
}

// KindForKey maps a collection key back to its panel.
func KindForKey(key string) (Kind, bool) {
	for _, k := range Kinds {
		if k.Key() == key {
			return k, true
		}
	}
	return "", false
}

// Theme is the cosmetic color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultAvatarURL is shown when no avatar preference is stored.
const DefaultAvatarURL = "https://static.vecteezy.com/system/resources/thumbnails/049/328/543/small_2x/face-icon-logo-flat-vector.jpg"

// Record is implemented by every collection entry.
type Record interface {
	RecordID() int64
}

// Todo is a single to-do item.
type Todo struct {
	ID        int64  `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
}

func (t Todo) RecordID() int64 { return t.ID }

// NewTodo builds a todo from raw input.
func NewTodo(id int64, text string) (Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Todo{}, ErrRejected
	}
	return Todo{ID: id, Text: text}, nil
}

// Note is a titled free-text card.
type Note struct {
	ID      int64  `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}

func (n Note) RecordID() int64 { return n.ID }

// NewNote builds a note. At least one of title and content must be non-empty.
func NewNote(id int64, title, content string) (Note, error) {
	title, content, err := NoteFields(title, content)
	if err != nil {
		return Note{}, err
	}
	return Note{ID: id, Title: title, Content: content}, nil
}

// NoteFields trims and validates the mutable fields of a note.
func NoteFields(title, content string) (string, string, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" && content == "" {
		return "", "", ErrRejected
	}
	return title, content, nil
}

// Link is a bookmarked URL.
type Link struct {
	ID    int64  `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
}

func (l Link) RecordID() int64 { return l.ID }

// NewLink builds a link. The title falls back to the URL.
func NewLink(id int64, title, url string) (Link, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Link{}, ErrRejected
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = url
	}
	return Link{ID: id, Title: title, URL: url}, nil
}

// Image is a captioned picture reference.
type Image struct {
	ID      int64  `json:"id" yaml:"id"`
	URL     string `json:"url" yaml:"url"`
	Caption string `json:"caption" yaml:"caption"`
}

func (i Image) RecordID() int64 { return i.ID }

// NewImage builds an image entry.
func NewImage(id int64, url, caption string) (Image, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Image{}, ErrRejected
	}
	return Image{ID: id, URL: url, Caption: strings.TrimSpace(caption)}, nil
}

// EventType represents the type of change in storage.
type EventType string

const (
	EventWrite  EventType = "WRITE"
	EventRemove EventType = "REMOVE"
)

// Event represents a change to a storage key.
type Event struct {
	Type      EventType `json:"type"`
	Key       string    `json:"key"`
	Timestamp int64     `json:"timestamp"` // Unix milliseconds
}

func (e Event) String() string {
	return string(e.Type) + " " + e.Key
}
