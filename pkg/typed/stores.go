package typed

import (
	"context"
	"errors"

	"github.com/aretw0/pph/pkg/core"
)

// Stores groups the four panel collections over one storage.
type Stores struct {
	Todos  *Collection[core.Todo]
	Notes  *Collection[core.Note]
	Links  *Collection[core.Link]
	Images *Collection[core.Image]
}

// NewStores creates the panel collections. Unless overridden, they share a
// single id generator.
func NewStores(storage core.Storage, opts ...Option) *Stores {
	opts = append([]Option{WithIDGenerator(core.NewIDGenerator(nil))}, opts...)
	return &Stores{
		Todos:  NewCollection[core.Todo](storage, core.KeyTodos, opts...),
		Notes:  NewCollection[core.Note](storage, core.KeyNotes, opts...),
		Links:  NewCollection[core.Link](storage, core.KeyLinks, opts...),
		Images: NewCollection[core.Image](storage, core.KeyImages, opts...),
	}
}

// Load reads every collection.
func (s *Stores) Load(ctx context.Context) error {
	return errors.Join(
		s.Todos.Load(ctx),
		s.Notes.Load(ctx),
		s.Links.Load(ctx),
		s.Images.Load(ctx),
	)
}

// LoadKind reads the collection of one panel.
func (s *Stores) LoadKind(ctx context.Context, kind core.Kind) error {
	switch kind {
	case core.KindTodos:
		return s.Todos.Load(ctx)
	case core.KindNotes:
		return s.Notes.Load(ctx)
	case core.KindLinks:
		return s.Links.Load(ctx)
	case core.KindImages:
		return s.Images.Load(ctx)
	}
	return core.ErrUnknownKind
}

// Len returns the record count of one panel.
func (s *Stores) Len(kind core.Kind) int {
	switch kind {
	case core.KindTodos:
		return s.Todos.Len()
	case core.KindNotes:
		return s.Notes.Len()
	case core.KindLinks:
		return s.Links.Len()
	case core.KindImages:
		return s.Images.Len()
	}
	return 0
}

// ToggleTodo flips the completion flag of a todo.
func ToggleTodo(ctx context.Context, c *Collection[core.Todo], id int64) (bool, error) {
	return c.Update(ctx, id, func(t *core.Todo) error {
		t.Completed = !t.Completed
		return nil
	})
}

// EditNote replaces title and content of a note in place.
func EditNote(ctx context.Context, c *Collection[core.Note], id int64, title, content string) (bool, error) {
	title, content, err := core.NoteFields(title, content)
	if err != nil {
		return false, err
	}
	return c.Update(ctx, id, func(n *core.Note) error {
		n.Title = title
		n.Content = content
		return nil
	})
}
