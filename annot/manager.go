package annot

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/georgepadayatti/overlay/geom"
	"github.com/georgepadayatti/overlay/record"
)

// DefaultMaxUndo is the default undo history depth.
const DefaultMaxUndo = 50

// Manager owns the annotation collection for a document. All methods run
// synchronously on the caller's goroutine; the manager performs no locking
// because the UI thread is expected to be the only mutator.
type Manager struct {
	annotations []*Annotation
	selected    string

	undoStack [][]*Annotation
	redoStack [][]*Annotation
	maxUndo   int

	log *zap.Logger
}

// NewManager creates an empty annotation manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		maxUndo: DefaultMaxUndo,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithMaxUndo sets the undo history depth.
func WithMaxUndo(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxUndo = n
		}
	}
}

// saveState pushes a deep copy of the current collection onto the undo stack
// and clears the redo stack. The oldest entry is dropped once the stack is
// full.
func (m *Manager) saveState() {
	m.undoStack = append(m.undoStack, cloneAll(m.annotations))
	if len(m.undoStack) > m.maxUndo {
		m.undoStack = m.undoStack[1:]
	}
	m.redoStack = nil
}

// Add appends the annotation to the collection and returns it, recording the
// prior state for undo first.
func (m *Manager) Add(a *Annotation) *Annotation {
	m.saveState()
	m.annotations = append(m.annotations, a)
	return a
}

// Remove deletes the annotation with the given id, returning false if it is
// absent. The prior state is recorded even when nothing is removed.
func (m *Manager) Remove(id string) bool {
	m.saveState()
	for i, a := range m.annotations {
		if a.ID == id {
			m.annotations = append(m.annotations[:i], m.annotations[i+1:]...)
			if m.selected == id {
				m.selected = ""
			}
			return true
		}
	}
	return false
}

// Update applies the given field updates to the annotation with the given
// id. Only keys naming known record fields are applied; unknown keys are
// ignored. The modification timestamp is bumped on success.
func (m *Manager) Update(id string, updates map[string]any) bool {
	m.saveState()
	for _, a := range m.annotations {
		if a.ID == id {
			applyUpdates(a, updates)
			a.Modified = time.Now()
			return true
		}
	}
	return false
}

// Get returns a copy of the annotation with the given id, or nil.
func (m *Manager) Get(id string) *Annotation {
	if a := m.find(id); a != nil {
		return a.Clone()
	}
	return nil
}

func (m *Manager) find(id string) *Annotation {
	for _, a := range m.annotations {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// GetForPage returns copies of all annotations on the given page.
func (m *Manager) GetForPage(page int) []*Annotation {
	var out []*Annotation
	for _, a := range m.annotations {
		if a.Page == page {
			out = append(out, a.Clone())
		}
	}
	return out
}

// GetAll returns copies of all annotations in insertion order.
func (m *Manager) GetAll() []*Annotation {
	return cloneAll(m.annotations)
}

// Count returns the number of annotations in the collection.
func (m *Manager) Count() int {
	return len(m.annotations)
}

// Select marks the annotation with the given id as the current selection and
// returns a copy of it, or nil if absent. Selection is presentational only.
func (m *Manager) Select(id string) *Annotation {
	a := m.find(id)
	if a == nil {
		m.selected = ""
		return nil
	}
	m.selected = id
	return a.Clone()
}

// Selected returns a copy of the currently selected annotation, or nil.
func (m *Manager) Selected() *Annotation {
	if m.selected == "" {
		return nil
	}
	return m.Get(m.selected)
}

// ClearSelection clears the current selection.
func (m *Manager) ClearSelection() {
	m.selected = ""
}

// Clear removes all annotations, recording the prior state for undo.
func (m *Manager) Clear() {
	m.saveState()
	m.annotations = nil
	m.selected = ""
}

// CanUndo reports whether an undo step is available.
func (m *Manager) CanUndo() bool {
	return len(m.undoStack) > 0
}

// CanRedo reports whether a redo step is available.
func (m *Manager) CanRedo() bool {
	return len(m.redoStack) > 0
}

// Undo restores the most recently recorded collection state, pushing the
// current state onto the redo stack.
func (m *Manager) Undo() {
	if !m.CanUndo() {
		return
	}
	m.redoStack = append(m.redoStack, cloneAll(m.annotations))
	m.annotations = m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
}

// Redo reverses the most recent undo.
func (m *Manager) Redo() {
	if !m.CanRedo() {
		return
	}
	m.undoStack = append(m.undoStack, cloneAll(m.annotations))
	m.annotations = m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
}

// applyUpdates copies known record fields from the update map onto the
// annotation. Numeric values accept both int and float64 so callers can pass
// decoded JSON directly.
func applyUpdates(a *Annotation, updates map[string]any) {
	for key, value := range updates {
		switch key {
		case "type":
			if s, ok := value.(string); ok {
				if t, err := ParseType(s); err == nil {
					a.Type = t
				}
			} else if t, ok := value.(Type); ok && t.Valid() {
				a.Type = t
			}
		case "page":
			if n, ok := asInt(value); ok {
				a.Page = n
			}
		case "rect":
			// Copied so the caller cannot mutate manager state through a
			// retained pointer.
			switch r := value.(type) {
			case *geom.Rect:
				if r == nil {
					a.Rect = nil
				} else {
					rr := *r
					a.Rect = &rr
				}
			case geom.Rect:
				rr := r
				a.Rect = &rr
			case nil:
				a.Rect = nil
			}
		case "text":
			if s, ok := value.(string); ok {
				a.Text = s
			}
		case "author":
			if s, ok := value.(string); ok {
				a.Author = s
			}
		case "color":
			if c, ok := value.(geom.Color); ok {
				a.Color = c
			}
		case "opacity":
			if f, ok := asFloat(value); ok {
				a.Opacity = f
			}
		case "border_width":
			if f, ok := asFloat(value); ok {
				a.BorderWidth = f
			}
		case "border_style":
			if s, ok := value.(string); ok {
				a.BorderStyle = s
			}
		case "points":
			if p, ok := value.([]geom.Point); ok {
				a.Points = p
			}
		case "ink_list":
			if p, ok := value.([][]geom.Point); ok {
				a.InkList = p
			}
		case "contents":
			if s, ok := value.(string); ok {
				a.Contents = s
			}
		case "subject":
			if s, ok := value.(string); ok {
				a.Subject = s
			}
		case "icon":
			if s, ok := value.(string); ok {
				a.Icon = s
			}
		case "flags":
			if n, ok := asInt(value); ok {
				a.Flags = n
			}
		case "font_size":
			if f, ok := asFloat(value); ok {
				a.FontSize = f
			}
		case "font_name":
			if s, ok := value.(string); ok {
				a.FontName = s
			}
		case "alignment":
			if n, ok := asInt(value); ok {
				a.Alignment = n
			}
		case "stamp_text":
			if s, ok := value.(string); ok {
				a.StampText = s
			}
		}
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}

// SaveFile serializes the collection to path as an ordered list of flat
// records.
func (m *Manager) SaveFile(path string) error {
	list := make([]*Annotation, len(m.annotations))
	copy(list, m.annotations)
	return record.SaveList(path, list)
}

// LoadFile replaces the collection with the records read from path. An
// unrecognized kind tag fails the whole load and leaves the collection
// unmodified.
func (m *Manager) LoadFile(path string) error {
	list, err := record.LoadList[*Annotation](path)
	if err != nil {
		return err
	}
	for _, a := range list {
		if !a.Type.Valid() {
			return fmt.Errorf("%w: %q in %s", ErrUnknownKind, a.Type, path)
		}
	}
	m.annotations = list
	m.selected = ""
	return nil
}
