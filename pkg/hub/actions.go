package hub

import (
	"context"

	"github.com/aretw0/pph/pkg/core"
	"github.com/aretw0/pph/pkg/typed"
)

// AddTodo appends a to-do. Blank text is ignored.
func (h *Hub) AddTodo(ctx context.Context, text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.stores.Todos.Add(ctx, func(id int64) (core.Todo, error) {
		return core.NewTodo(id, text)
	})
	if err != nil {
		return h.settle("add todo", err)
	}
	return h.changed(core.KindTodos)
}

// ToggleTodo flips a to-do's completion. Unknown ids are ignored.
func (h *Hub) ToggleTodo(ctx context.Context, id int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	found, err := typed.ToggleTodo(ctx, h.stores.Todos, id)
	if err != nil {
		return h.settle("toggle todo", err)
	}
	if !found {
		return nil
	}
	return h.changed(core.KindTodos)
}

// DeleteTodo removes a to-do. The list is persisted even if id is unknown.
func (h *Hub) DeleteTodo(ctx context.Context, id int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.stores.Todos.Remove(ctx, id); err != nil {
		return h.settle("delete todo", err)
	}
	return h.changed(core.KindTodos)
}

// SaveNote updates the note in edit, or appends a new note when none is.
// A note with neither title nor content is ignored and the cursor is kept.
func (h *Hub) SaveNote(ctx context.Context, title, content string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.editing {
		_, err := typed.EditNote(ctx, h.stores.Notes, h.editID, title, content)
		if err != nil {
			return h.settle("update note", err)
		}
		h.editing = false
		return h.changed(core.KindNotes)
	}

	_, err := h.stores.Notes.Add(ctx, func(id int64) (core.Note, error) {
		return core.NewNote(id, title, content)
	})
	if err != nil {
		return h.settle("add note", err)
	}
	return h.changed(core.KindNotes)
}

// EditNote puts a note in edit, loading it into the editor. Nothing is
// persisted. Unknown ids are ignored.
func (h *Hub) EditNote(ctx context.Context, id int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.stores.Notes.Get(id); !ok {
		h.logger.Debug("edit of unknown note ignored", "id", id)
		return nil
	}
	h.editID, h.editing = id, true
	h.syncEditor()
	return nil
}

// CancelEdit clears the edit cursor and the editor.
func (h *Hub) CancelEdit(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.editID, h.editing = 0, false
	h.syncEditor()
	return nil
}

// DeleteNote removes a note. Deleting the note in edit also ends the edit.
func (h *Hub) DeleteNote(ctx context.Context, id int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.stores.Notes.Remove(ctx, id); err != nil {
		return h.settle("delete note", err)
	}
	if h.editing && h.editID == id {
		h.editID, h.editing = 0, false
	}
	return h.changed(core.KindNotes)
}

// AddLink appends a link. The title defaults to the URL; a blank URL is
// ignored.
func (h *Hub) AddLink(ctx context.Context, title, url string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.stores.Links.Add(ctx, func(id int64) (core.Link, error) {
		return core.NewLink(id, title, url)
	})
	if err != nil {
		return h.settle("add link", err)
	}
	return h.changed(core.KindLinks)
}

// DeleteLink removes a link.
func (h *Hub) DeleteLink(ctx context.Context, id int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.stores.Links.Remove(ctx, id); err != nil {
		return h.settle("delete link", err)
	}
	return h.changed(core.KindLinks)
}

// AddImage appends an image. A blank URL is ignored.
func (h *Hub) AddImage(ctx context.Context, url, caption string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.stores.Images.Add(ctx, func(id int64) (core.Image, error) {
		return core.NewImage(id, url, caption)
	})
	if err != nil {
		return h.settle("add image", err)
	}
	return h.changed(core.KindImages)
}

// DeleteImage removes an image.
func (h *Hub) DeleteImage(ctx context.Context, id int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.stores.Images.Remove(ctx, id); err != nil {
		return h.settle("delete image", err)
	}
	return h.changed(core.KindImages)
}

// SwitchTab activates tab and remembers it. Unknown tabs return
// core.ErrUnknownTab and change nothing.
func (h *Hub) SwitchTab(ctx context.Context, tab string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	kind, err := h.prefs.SetActiveTab(ctx, tab)
	if err != nil {
		return err
	}
	h.doc.ActiveTab = kind
	h.notify(core.EventWrite, core.KeyActiveTab)
	return nil
}

// ToggleTheme flips between light and dark and returns the new theme.
func (h *Hub) ToggleTheme(ctx context.Context) (core.Theme, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	theme, err := h.prefs.ToggleTheme(ctx)
	if err != nil {
		return h.doc.Theme, h.settle("toggle theme", err)
	}
	h.applyPrefs(ctx)
	h.notify(core.EventWrite, core.KeyTheme)
	return theme, nil
}

// ChangeAvatar handles the avatar prompt. A nil url means the prompt was
// cancelled and nothing changes; a blank url restores the default avatar.
func (h *Hub) ChangeAvatar(ctx context.Context, url *string) error {
	if url == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.prefs.SetAvatar(ctx, *url); err != nil {
		return h.settle("change avatar", err)
	}
	h.doc.Avatar = h.prefs.Avatar(ctx)
	h.notify(core.EventWrite, core.KeyAvatar)
	return nil
}

// Apply folds a storage change made elsewhere into the document.
func (h *Hub) Apply(ctx context.Context, e core.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if kind, ok := core.KindForKey(e.Key); ok {
		if err := h.stores.LoadKind(ctx, kind); err != nil {
			return err
		}
		if kind == core.KindNotes && h.editing {
			if _, ok := h.stores.Notes.Get(h.editID); !ok {
				h.editing = false
			}
		}
		if err := h.renderKind(kind); err != nil {
			return err
		}
	} else {
		h.applyPrefs(ctx)
	}
	h.notify(e.Type, e.Key)
	return nil
}
