// Package form implements the form-field layer of a document overlay: the
// field collection for an open document with value handling, validation,
// per-kind creation helpers, flat-record persistence and conversion to and
// from native form widgets.
//
// Unlike annotations, form fields carry no undo history; the host
// application versions them through document-level snapshots instead.
package form

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/georgepadayatti/overlay/engine"
	"github.com/georgepadayatti/overlay/geom"
)

// Common errors
var (
	ErrUnknownFieldType = errors.New("unknown form field type")
	ErrMissingGeometry  = errors.New("form field is missing its rectangle")
	ErrPageNotFound     = errors.New("page not found")
)

// FieldType identifies a form field kind. The set is closed; values are the
// string tags used in persisted records.
type FieldType string

// Field types.
const (
	FieldText      FieldType = "text"
	FieldCheckbox  FieldType = "checkbox"
	FieldRadio     FieldType = "radio"
	FieldDropdown  FieldType = "dropdown"
	FieldListbox   FieldType = "listbox"
	FieldButton    FieldType = "button"
	FieldSignature FieldType = "signature"
	FieldDate      FieldType = "date"
	FieldNumber    FieldType = "number"
	FieldMultiline FieldType = "multiline"
	FieldPassword  FieldType = "password"
	FieldFile      FieldType = "file"
)

var allFieldTypes = map[FieldType]bool{
	FieldText: true, FieldCheckbox: true, FieldRadio: true,
	FieldDropdown: true, FieldListbox: true, FieldButton: true,
	FieldSignature: true, FieldDate: true, FieldNumber: true,
	FieldMultiline: true, FieldPassword: true, FieldFile: true,
}

// ParseFieldType converts a string tag to a FieldType, failing on
// unrecognized tags.
func ParseFieldType(s string) (FieldType, error) {
	t := FieldType(s)
	if !allFieldTypes[t] {
		return "", fmt.Errorf("%w: %q", ErrUnknownFieldType, s)
	}
	return t, nil
}

// Valid reports whether the type is a member of the closed set.
func (t FieldType) Valid() bool {
	return allFieldTypes[t]
}

// isTextKind reports whether the type takes free text input subject to the
// max-length check.
func (t FieldType) isTextKind() bool {
	return t == FieldText || t == FieldMultiline || t == FieldPassword
}

// Field is a single form field. Values are loosely typed: string, bool or
// []string depending on the kind. A radio group is multiple fields sharing
// one Name with distinct export values; exactly-one-checked is a caller
// convention the manager does not enforce.
type Field struct {
	ID   string     `json:"id"`
	Type FieldType  `json:"type"`
	Name string     `json:"name"`
	Page int        `json:"page"`
	Rect *geom.Rect `json:"rect"`

	Value        any `json:"value"`
	DefaultValue any `json:"default_value"`

	// Text field properties.
	MaxLength int        `json:"max_length"` // 0 = unlimited
	Multiline bool       `json:"multiline"`
	Password  bool       `json:"password"`
	FontSize  float64    `json:"font_size"`
	FontName  string     `json:"font_name"`
	TextColor geom.Color `json:"text_color"`
	Alignment string     `json:"alignment"` // left, center, right

	// Choice field properties.
	Options         []string `json:"options"`
	SelectedIndices []int    `json:"selected_indices"`
	Editable        bool     `json:"editable"`
	MultiSelect     bool     `json:"multi_select"`

	// Checkbox/radio properties.
	ExportValue string `json:"export_value"`
	IsChecked   bool   `json:"is_checked"`

	// Button properties.
	ButtonType string `json:"button_type"` // push, submit, reset
	Action     string `json:"action"`

	// Validation. Scripts are stored for round-tripping but never
	// executed; script sandboxing is out of scope.
	Required          bool   `json:"required"`
	ValidationScript  string `json:"validation_script"`
	CalculationScript string `json:"calculation_script"`
	FormatCategory    string `json:"format_category"`
	FormatString      string `json:"format_string"`

	// Appearance.
	BorderWidth     float64    `json:"border_width"`
	BorderColor     geom.Color `json:"border_color"`
	BackgroundColor geom.Color `json:"background_color"`

	nativeRef engine.NativeRef
}

// NewField creates a field of the given kind with a fresh id and the
// defaults the original editor uses.
func NewField(t FieldType) *Field {
	return &Field{
		ID:              uuid.NewString(),
		Type:            t,
		FontSize:        12.0,
		FontName:        "Helvetica",
		Alignment:       "left",
		ExportValue:     "Yes",
		ButtonType:      "push",
		BorderWidth:     1.0,
		BackgroundColor: geom.White,
	}
}

// NativeRef returns the weak reference to the engine-owned widget, or nil.
func (f *Field) NativeRef() engine.NativeRef {
	return f.nativeRef
}

// SetNativeRef records the weak back-reference after materialization.
func (f *Field) SetNativeRef(ref engine.NativeRef) {
	f.nativeRef = ref
}

// Clone returns a deep copy of the field. The native reference is shared.
func (f *Field) Clone() *Field {
	c := *f
	if f.Rect != nil {
		r := *f.Rect
		c.Rect = &r
	}
	c.Options = append([]string(nil), f.Options...)
	c.SelectedIndices = append([]int(nil), f.SelectedIndices...)
	if vs, ok := f.Value.([]string); ok {
		c.Value = append([]string(nil), vs...)
	}
	if vs, ok := f.DefaultValue.([]string); ok {
		c.DefaultValue = append([]string(nil), vs...)
	}
	return &c
}
