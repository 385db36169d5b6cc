// Package hub is the interaction layer: it owns the panel collections, the
// preferences, the note edit cursor and the rendered document, and maps each
// user action to mutate, persist, re-render.
//
// Every exported operation runs under one mutex, so actions from the HTTP
// server, the CLI and the watch loop never interleave.
package hub

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/pph/pkg/core"
	"github.com/aretw0/pph/pkg/prefs"
	"github.com/aretw0/pph/pkg/render"
	"github.com/aretw0/pph/pkg/typed"
)

// PanelView is the rendered state of one panel.
type PanelView struct {
	HTML  template.HTML
	Count int
	Empty bool // the empty indicator is shown
}

// Document is the rendered view of the whole widget.
type Document struct {
	Panels    map[core.Kind]PanelView
	Theme     core.Theme
	Glyph     string
	ActiveTab core.Kind
	Avatar    string
	Editing   *core.Note
}

// Page converts the document into the renderer's page model.
func (d Document) Page() render.Page {
	p := render.Page{
		Theme:     d.Theme,
		Glyph:     d.Glyph,
		ActiveTab: d.ActiveTab,
		Avatar:    d.Avatar,
		Editing:   d.Editing,
	}
	for kind, view := range d.Panels {
		p.Panels.Set(kind, view.HTML)
	}
	return p
}

// Hub is the application state of one widget instance.
type Hub struct {
	mu sync.Mutex

	storage  core.Storage
	stores   *typed.Stores
	prefs    *prefs.Store
	renderer *render.Renderer
	logger   *slog.Logger
	now      func() time.Time

	editID  int64
	editing bool

	doc          Document
	bootstrapped bool

	subs *broadcaster
}

// New creates a hub over storage. Call Bootstrap before use.
func New(storage core.Storage, opts ...Option) (*Hub, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	renderer := o.renderer
	if renderer == nil {
		var err error
		renderer, err = render.New()
		if err != nil {
			return nil, err
		}
	}

	return &Hub{
		storage: storage,
		stores: typed.NewStores(storage,
			typed.WithIDGenerator(core.NewIDGenerator(o.clock)),
			typed.WithLogger(o.logger),
		),
		prefs:    prefs.New(storage, o.logger),
		renderer: renderer,
		logger:   o.logger,
		now:      o.clock,
		doc:      Document{Panels: make(map[core.Kind]PanelView, len(core.Kinds))},
		subs:     newBroadcaster(o.eventBuffer),
	}, nil
}

// Bootstrap loads every collection, applies the preferences and renders all
// panels. Running it again yields the same document.
func (h *Hub) Bootstrap(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bootstrap(ctx)
}

func (h *Hub) bootstrap(ctx context.Context) error {
	if err := h.stores.Load(ctx); err != nil {
		return err
	}
	h.applyPrefs(ctx)
	if h.editing {
		if _, ok := h.stores.Notes.Get(h.editID); !ok {
			h.editing = false
		}
	}
	for _, kind := range core.Kinds {
		if err := h.renderKind(kind); err != nil {
			return err
		}
	}
	h.bootstrapped = true
	return nil
}

// Reload re-reads everything from storage, for example after an import or
// an external edit.
func (h *Hub) Reload(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.bootstrap(ctx); err != nil {
		return err
	}
	h.logger.Debug("hub reloaded")
	h.notify(core.EventWrite, "*")
	return nil
}

// Document returns a copy of the rendered document.
func (h *Hub) Document() Document {
	h.mu.Lock()
	defer h.mu.Unlock()
	doc := h.doc
	doc.Panels = make(map[core.Kind]PanelView, len(h.doc.Panels))
	for k, v := range h.doc.Panels {
		doc.Panels[k] = v
	}
	if h.doc.Editing != nil {
		n := *h.doc.Editing
		doc.Editing = &n
	}
	return doc
}

// Panel returns the rendered view of one panel.
func (h *Hub) Panel(kind core.Kind) (PanelView, error) {
	if _, err := core.ParseKind(string(kind)); err != nil {
		return PanelView{}, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.doc.Panels[kind], nil
}

// Storage returns the storage the hub persists to.
func (h *Hub) Storage() core.Storage { return h.storage }

// Close releases the storage when it holds resources.
func (h *Hub) Close() error {
	if c, ok := h.storage.(core.Closer); ok {
		return c.Close()
	}
	return nil
}

// Renderer returns the renderer used for panels and pages.
func (h *Hub) Renderer() *render.Renderer { return h.renderer }

// Todos returns the to-do list in insertion order.
func (h *Hub) Todos() []core.Todo { return h.stores.Todos.All() }

// Notes returns the notes in insertion order.
func (h *Hub) Notes() []core.Note { return h.stores.Notes.All() }

// Links returns the links in insertion order.
func (h *Hub) Links() []core.Link { return h.stores.Links.All() }

// Images returns the images in insertion order.
func (h *Hub) Images() []core.Image { return h.stores.Images.All() }

// Editing returns the id of the note in edit, if any.
func (h *Hub) Editing() (int64, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.editID, h.editing
}

func (h *Hub) applyPrefs(ctx context.Context) {
	h.doc.Theme = h.prefs.Theme(ctx)
	h.doc.Glyph = prefs.ThemeGlyph(h.doc.Theme)
	h.doc.ActiveTab = h.prefs.ActiveTab(ctx)
	h.doc.Avatar = h.prefs.Avatar(ctx)
}

// renderKind must be called with h.mu held.
func (h *Hub) renderKind(kind core.Kind) error {
	var (
		html template.HTML
		err  error
	)
	switch kind {
	case core.KindTodos:
		html, err = h.renderer.Todos(h.stores.Todos.All())
	case core.KindNotes:
		html, err = h.renderer.Notes(h.stores.Notes.All())
		h.syncEditor()
	case core.KindLinks:
		html, err = h.renderer.Links(h.stores.Links.All())
	case core.KindImages:
		html, err = h.renderer.Images(h.stores.Images.All())
	default:
		return core.ErrUnknownKind
	}
	if err != nil {
		return err
	}
	n := h.stores.Len(kind)
	h.doc.Panels[kind] = PanelView{HTML: html, Count: n, Empty: n == 0}
	return nil
}

// syncEditor mirrors the edit cursor into the document.
func (h *Hub) syncEditor() {
	h.doc.Editing = nil
	if !h.editing {
		return
	}
	if n, ok := h.stores.Notes.Get(h.editID); ok {
		h.doc.Editing = &n
	}
}

// changed re-renders kind and tells subscribers. Must hold h.mu.
func (h *Hub) changed(kind core.Kind) error {
	if err := h.renderKind(kind); err != nil {
		return err
	}
	h.notify(core.EventWrite, kind.Key())
	return nil
}

// settle turns a store result into the action's result: rejected input is
// dropped silently, anything else is a failure of the action.
func (h *Hub) settle(action string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, core.ErrRejected) {
		h.logger.Debug("input dropped", "action", action)
		return nil
	}
	h.logger.Error("action failed", "action", action, "error", err)
	return fmt.Errorf("%s: %w", action, err)
}
