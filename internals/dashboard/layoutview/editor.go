package layoutview

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"emiscal_backend/internals/dashboard/api"
)

var (
	ErrBadSlot     = errors.New("slot must be 0 or 1")
	ErrBadMode     = errors.New("mode must be monthly or category")
	ErrNameMissing = errors.New("layout name is required")
)

// Editor changes one layout's configuration. The active flag is never
// touched here; activation is a separate call.
type Editor struct {
	backend Backend
	id      *uuid.UUID
	Name    string
	sidebar []uuid.UUID
	mode    api.ContentMode
	slots   [2]*uuid.UUID
}

// NewEditor starts a layout that does not exist yet.
func NewEditor(b Backend, name string) *Editor {
	return &Editor{backend: b, Name: name, mode: api.ContentMonthly}
}

// Edit loads layout id into an editor.
func Edit(ctx context.Context, b Backend, id uuid.UUID) (*Editor, error) {
	l, err := b.GetLayout(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "load layout")
	}
	e := &Editor{backend: b}
	e.load(l)
	return e, nil
}

func (e *Editor) load(l api.Layout) {
	id := l.ID
	e.id = &id
	e.Name = l.Name
	e.sidebar = append([]uuid.UUID(nil), l.Configuration.Sidebar.Categories...)
	e.mode = l.Configuration.Content.Mode
	if e.mode == "" {
		e.mode = api.ContentMonthly
	}
	e.slots = [2]*uuid.UUID{}
	for i, c := range l.Configuration.Content.Categories {
		if i >= len(e.slots) {
			break
		}
		c := c
		e.slots[i] = &c
	}
}

func (e *Editor) ID() *uuid.UUID { return e.id }

// ToggleSidebarCategory flips id in the sidebar checklist and reports whether
// it is now checked.
func (e *Editor) ToggleSidebarCategory(id uuid.UUID) bool {
	for i, c := range e.sidebar {
		if c == id {
			e.sidebar = append(e.sidebar[:i], e.sidebar[i+1:]...)
			return false
		}
	}
	e.sidebar = append(e.sidebar, id)
	return true
}

func (e *Editor) SetMode(m api.ContentMode) error {
	if m != api.ContentMonthly && m != api.ContentCategory {
		return ErrBadMode
	}
	e.mode = m
	return nil
}

// SetSlot chooses the category shown in slot i; nil clears it.
func (e *Editor) SetSlot(i int, category *uuid.UUID) error {
	if i < 0 || i >= len(e.slots) {
		return ErrBadSlot
	}
	if category == nil {
		e.slots[i] = nil
		return nil
	}
	c := *category
	e.slots[i] = &c
	return nil
}

// Config is the configuration Save would send. Empty slots are dropped.
func (e *Editor) Config() api.LayoutConfig {
	cfg := api.LayoutConfig{
		Sidebar: api.LayoutSidebar{Categories: append([]uuid.UUID{}, e.sidebar...)},
		Content: api.LayoutContent{Mode: e.mode, Categories: []uuid.UUID{}},
	}
	for _, s := range e.slots {
		if s != nil {
			cfg.Content.Categories = append(cfg.Content.Categories, *s)
		}
	}
	return cfg
}

// Save creates the layout on first save and updates it afterwards.
func (e *Editor) Save(ctx context.Context) (api.Layout, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return api.Layout{}, ErrNameMissing
	}
	in := api.LayoutInput{Name: name, Configuration: e.Config()}

	var (
		l   api.Layout
		err error
	)
	if e.id == nil {
		l, err = e.backend.CreateLayout(ctx, in)
	} else {
		l, err = e.backend.UpdateLayout(ctx, *e.id, in)
	}
	if err != nil {
		return api.Layout{}, err
	}
	e.load(l)
	return l, nil
}
