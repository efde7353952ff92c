package form

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/georgepadayatti/overlay/geom"
	"github.com/georgepadayatti/overlay/record"
)

// Manager owns the form field collection for a document. Methods run
// synchronously on the caller's goroutine with no locking; the UI thread is
// the only expected mutator.
type Manager struct {
	fields map[string]*Field
	order  []string

	log *zap.Logger
}

// NewManager creates an empty form manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		fields: make(map[string]*Field),
		log:    zap.NewNop(),
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

// AddField adds the field to the collection and returns it. Field name
// uniqueness is a caller convention; the manager accepts duplicates.
func (m *Manager) AddField(f *Field) *Field {
	m.fields[f.ID] = f
	m.order = append(m.order, f.ID)
	return f
}

// RemoveField removes the field with the given id, returning false if it is
// absent.
func (m *Manager) RemoveField(id string) bool {
	if _, ok := m.fields[id]; !ok {
		return false
	}
	delete(m.fields, id)
	for i, fid := range m.order {
		if fid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// GetField returns a copy of the field with the given id, or nil.
func (m *Manager) GetField(id string) *Field {
	if f, ok := m.fields[id]; ok {
		return f.Clone()
	}
	return nil
}

// GetFieldByName returns a copy of the first field with the given name in
// insertion order, or nil.
func (m *Manager) GetFieldByName(name string) *Field {
	for _, id := range m.order {
		if f := m.fields[id]; f.Name == name {
			return f.Clone()
		}
	}
	return nil
}

// GetFieldsForPage returns copies of all fields on the given page.
func (m *Manager) GetFieldsForPage(page int) []*Field {
	var out []*Field
	for _, id := range m.order {
		if f := m.fields[id]; f.Page == page {
			out = append(out, f.Clone())
		}
	}
	return out
}

// GetAllFields returns copies of all fields in insertion order.
func (m *Manager) GetAllFields() []*Field {
	out := make([]*Field, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.fields[id].Clone())
	}
	return out
}

// Count returns the number of fields.
func (m *Manager) Count() int {
	return len(m.order)
}

// UpdateField applies the given updates to the field with the given id.
// Only keys naming known record fields are applied; unknown keys are
// ignored.
func (m *Manager) UpdateField(id string, updates map[string]any) bool {
	f, ok := m.fields[id]
	if !ok {
		return false
	}
	applyFieldUpdates(f, updates)
	return true
}

// SetFieldValue stores the value and, when a native widget reference exists,
// pushes it into the widget with kind-specific encoding: checkbox becomes
// the export value or "Off", radio becomes the chosen export value or "Off",
// everything else becomes the string form of the value.
func (m *Manager) SetFieldValue(id string, value any) bool {
	f, ok := m.fields[id]
	if !ok {
		return false
	}
	f.Value = value

	if f.nativeRef != nil {
		if err := f.nativeRef.SetValue(encodeWidgetValue(f, value)); err != nil {
			m.log.Warn("failed to update native widget",
				zap.String("field", f.Name), zap.Error(err))
		}
	}
	return true
}

// encodeWidgetValue converts a loosely typed field value into the string the
// native widget expects.
func encodeWidgetValue(f *Field, value any) string {
	switch f.Type {
	case FieldCheckbox:
		if isTruthy(value) {
			return f.ExportValue
		}
		return "Off"
	case FieldRadio:
		if s, ok := value.(string); ok && s != "" {
			return s
		}
		return "Off"
	default:
		if value == nil {
			return ""
		}
		return fmt.Sprintf("%v", value)
	}
}

func isTruthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	default:
		return true
	}
}

// GetFieldValue returns the field's current value, or nil if the field is
// absent.
func (m *Manager) GetFieldValue(id string) any {
	if f, ok := m.fields[id]; ok {
		return f.Value
	}
	return nil
}

// ClearAllFields sets every value to empty and clears the native widgets.
func (m *Manager) ClearAllFields() {
	for _, id := range m.order {
		f := m.fields[id]
		f.Value = nil
		if f.nativeRef != nil {
			if err := f.nativeRef.SetValue(""); err != nil {
				m.log.Warn("failed to clear native widget",
					zap.String("field", f.Name), zap.Error(err))
			}
		}
	}
}

// ResetAllFields sets every value back to its default.
func (m *Manager) ResetAllFields() {
	for _, id := range m.order {
		f := m.fields[id]
		f.Value = f.DefaultValue
		if f.nativeRef != nil {
			v := ""
			if f.DefaultValue != nil {
				v = fmt.Sprintf("%v", f.DefaultValue)
			}
			if err := f.nativeRef.SetValue(v); err != nil {
				m.log.Warn("failed to reset native widget",
					zap.String("field", f.Name), zap.Error(err))
			}
		}
	}
}

// ValidationIssue is a single validation failure from ValidateAll.
type ValidationIssue struct {
	FieldID string
	Message string
}

// ValidateField checks the field's value against its constraints. It
// returns (true, "Valid") on success and (false, message) on failure.
// Validation scripts are stored but never executed.
func (m *Manager) ValidateField(id string) (bool, string) {
	f, ok := m.fields[id]
	if !ok {
		return false, "Field not found"
	}

	if f.Required && isEmptyValue(f.Value) {
		return false, fmt.Sprintf("Field '%s' is required", f.Name)
	}

	if f.Type.isTextKind() && f.MaxLength > 0 && f.Value != nil {
		if len(fmt.Sprintf("%v", f.Value)) > f.MaxLength {
			return false, fmt.Sprintf("Value exceeds maximum length of %d", f.MaxLength)
		}
	}

	return true, "Valid"
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// ValidateAll validates every field in insertion order and returns the list
// of failures. Validation never raises; batch validation continues past
// individual failures.
func (m *Manager) ValidateAll() []ValidationIssue {
	var issues []ValidationIssue
	for _, id := range m.order {
		if ok, msg := m.ValidateField(id); !ok {
			issues = append(issues, ValidationIssue{FieldID: id, Message: msg})
		}
	}
	return issues
}

// applyFieldUpdates copies known record fields from the update map onto the
// field.
func applyFieldUpdates(f *Field, updates map[string]any) {
	for key, value := range updates {
		switch key {
		case "name":
			if s, ok := value.(string); ok {
				f.Name = s
			}
		case "page":
			if n, ok := asInt(value); ok {
				f.Page = n
			}
		case "rect":
			// Copied so the caller cannot mutate manager state through a
			// retained pointer.
			switch r := value.(type) {
			case *geom.Rect:
				if r == nil {
					f.Rect = nil
				} else {
					rr := *r
					f.Rect = &rr
				}
			case geom.Rect:
				rr := r
				f.Rect = &rr
			case nil:
				f.Rect = nil
			}
		case "value":
			f.Value = value
		case "default_value":
			f.DefaultValue = value
		case "max_length":
			if n, ok := asInt(value); ok {
				f.MaxLength = n
			}
		case "multiline":
			if b, ok := value.(bool); ok {
				f.Multiline = b
			}
		case "password":
			if b, ok := value.(bool); ok {
				f.Password = b
			}
		case "font_size":
			if x, ok := asFloat(value); ok {
				f.FontSize = x
			}
		case "font_name":
			if s, ok := value.(string); ok {
				f.FontName = s
			}
		case "alignment":
			if s, ok := value.(string); ok {
				f.Alignment = s
			}
		case "options":
			if ss, ok := value.([]string); ok {
				f.Options = ss
			}
		case "selected_indices":
			if ns, ok := value.([]int); ok {
				f.SelectedIndices = ns
			}
		case "editable":
			if b, ok := value.(bool); ok {
				f.Editable = b
			}
		case "multi_select":
			if b, ok := value.(bool); ok {
				f.MultiSelect = b
			}
		case "export_value":
			if s, ok := value.(string); ok {
				f.ExportValue = s
			}
		case "is_checked":
			if b, ok := value.(bool); ok {
				f.IsChecked = b
			}
		case "button_type":
			if s, ok := value.(string); ok {
				f.ButtonType = s
			}
		case "action":
			if s, ok := value.(string); ok {
				f.Action = s
			}
		case "required":
			if b, ok := value.(bool); ok {
				f.Required = b
			}
		case "validation_script":
			if s, ok := value.(string); ok {
				f.ValidationScript = s
			}
		case "calculation_script":
			if s, ok := value.(string); ok {
				f.CalculationScript = s
			}
		case "format_category":
			if s, ok := value.(string); ok {
				f.FormatCategory = s
			}
		case "format_string":
			if s, ok := value.(string); ok {
				f.FormatString = s
			}
		case "border_width":
			if x, ok := asFloat(value); ok {
				f.BorderWidth = x
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
	list := make([]*Field, 0, len(m.order))
	for _, id := range m.order {
		list = append(list, m.fields[id])
	}
	return record.SaveList(path, list)
}

// LoadFile replaces the collection with the records read from path. An
// unrecognized type tag fails the whole load and leaves the collection
// unmodified.
func (m *Manager) LoadFile(path string) error {
	list, err := record.LoadList[*Field](path)
	if err != nil {
		return err
	}
	for _, f := range list {
		if !f.Type.Valid() {
			return fmt.Errorf("%w: %q in %s", ErrUnknownFieldType, f.Type, path)
		}
	}
	m.fields = make(map[string]*Field, len(list))
	m.order = m.order[:0]
	for _, f := range list {
		m.fields[f.ID] = f
		m.order = append(m.order, f.ID)
	}
	return nil
}
