package hub

import (
	"github.com/aretw0/introspection"

	"github.com/aretw0/pph/pkg/core"
)

// HubState exposes internal state for observability.
type HubState struct {
	Bootstrapped bool           `json:"bootstrapped"`
	ActiveTab    core.Kind      `json:"active_tab"`
	Theme        core.Theme     `json:"theme"`
	Avatar       string         `json:"avatar"`
	EditingNote  int64          `json:"editing_note,omitempty"`
	Counts       map[string]int `json:"counts"`
	Subscribers  int            `json:"subscribers"`
	Storage      any            `json:"storage,omitempty"`
	StorageType  string         `json:"storage_type,omitempty"`
}

// State implements introspection.Introspectable.
func (h *Hub) State() any {
	h.mu.Lock()
	defer h.mu.Unlock()

	st := HubState{
		Bootstrapped: h.bootstrapped,
		ActiveTab:    h.doc.ActiveTab,
		Theme:        h.doc.Theme,
		Avatar:       h.doc.Avatar,
		Counts:       make(map[string]int, len(core.Kinds)),
		Subscribers:  h.subs.len(),
	}
	if h.editing {
		st.EditingNote = h.editID
	}
	for _, k := range core.Kinds {
		st.Counts[string(k)] = h.stores.Len(k)
	}
	if intro, ok := h.storage.(introspection.Introspectable); ok {
		st.Storage = intro.State()
	}
	if comp, ok := h.storage.(introspection.Component); ok {
		st.StorageType = comp.ComponentType()
	}
	return st
}

// ComponentType implements introspection.Component.
func (h *Hub) ComponentType() string {
	return "hub"
}

var _ introspection.Introspectable = (*Hub)(nil)
var _ introspection.Component = (*Hub)(nil)
