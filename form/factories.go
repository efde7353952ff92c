package form

import (
	"strings"

	"github.com/georgepadayatti/overlay/geom"
)

// TextFieldOptions configures CreateTextField.
type TextFieldOptions struct {
	DefaultValue string
	MaxLength    int
	Multiline    bool
	Password     bool
	Required     bool
}

// CreateTextField creates and adds a text field.
func (m *Manager) CreateTextField(page int, rect geom.Rect, name string, opts TextFieldOptions) *Field {
	t := FieldText
	if opts.Multiline {
		t = FieldMultiline
	} else if opts.Password {
		t = FieldPassword
	}
	f := NewField(t)
	f.Name = name
	f.Page = page
	f.Rect = &rect
	f.DefaultValue = opts.DefaultValue
	f.MaxLength = opts.MaxLength
	f.Multiline = opts.Multiline
	f.Password = opts.Password
	f.Required = opts.Required
	return m.AddField(f)
}

// CreateCheckbox creates and adds a checkbox field.
func (m *Manager) CreateCheckbox(page int, rect geom.Rect, name, exportValue string, defaultChecked, required bool) *Field {
	f := NewField(FieldCheckbox)
	f.Name = name
	f.Page = page
	f.Rect = &rect
	if exportValue != "" {
		f.ExportValue = exportValue
	}
	f.IsChecked = defaultChecked
	f.DefaultValue = defaultChecked
	f.Required = required
	return m.AddField(f)
}

// CreateRadioGroup creates one radio field per option, all sharing the given
// name with the option text as export value. Exactly one checked at a time
// is a convention of the produced group, not something the manager enforces
// afterwards.
func (m *Manager) CreateRadioGroup(page int, name string, options []string, rects []geom.Rect, defaultSelection int) []*Field {
	n := len(options)
	if len(rects) < n {
		n = len(rects)
	}
	fields := make([]*Field, 0, n)
	for i := 0; i < n; i++ {
		f := NewField(FieldRadio)
		f.Name = name
		f.Page = page
		rect := rects[i]
		f.Rect = &rect
		f.ExportValue = options[i]
		f.IsChecked = i == defaultSelection
		f.DefaultValue = i == defaultSelection
		fields = append(fields, m.AddField(f))
	}
	return fields
}

// CreateDropdown creates and adds a dropdown field.
func (m *Manager) CreateDropdown(page int, rect geom.Rect, name string, options []string, defaultIndex int, editable, required bool) *Field {
	f := NewField(FieldDropdown)
	f.Name = name
	f.Page = page
	f.Rect = &rect
	f.Options = options
	if len(options) > 0 && defaultIndex >= 0 && defaultIndex < len(options) {
		f.SelectedIndices = []int{defaultIndex}
		f.DefaultValue = options[defaultIndex]
	}
	f.Editable = editable
	f.Required = required
	return m.AddField(f)
}

// CreateListbox creates and adds a listbox field.
func (m *Manager) CreateListbox(page int, rect geom.Rect, name string, options []string, multiSelect, required bool) *Field {
	f := NewField(FieldListbox)
	f.Name = name
	f.Page = page
	f.Rect = &rect
	f.Options = options
	f.MultiSelect = multiSelect
	f.Required = required
	return m.AddField(f)
}

// CreateButton creates and adds a push/submit/reset button.
func (m *Manager) CreateButton(page int, rect geom.Rect, name, label, buttonType, action string) *Field {
	f := NewField(FieldButton)
	f.Name = name
	f.Page = page
	f.Rect = &rect
	f.Value = label
	if buttonType != "" {
		f.ButtonType = buttonType
	}
	f.Action = action
	return m.AddField(f)
}

// CreateSignatureField creates and adds a signature placeholder field.
func (m *Manager) CreateSignatureField(page int, rect geom.Rect, name string, required bool) *Field {
	f := NewField(FieldSignature)
	f.Name = name
	f.Page = page
	f.Rect = &rect
	f.Required = required
	return m.AddField(f)
}

// CreateDateField creates and adds a date field with the given format
// pattern.
func (m *Manager) CreateDateField(page int, rect geom.Rect, name, formatString string, required bool) *Field {
	f := NewField(FieldDate)
	f.Name = name
	f.Page = page
	f.Rect = &rect
	f.FormatCategory = "Date"
	if formatString == "" {
		formatString = "mm/dd/yyyy"
	}
	f.FormatString = formatString
	f.Required = required
	return m.AddField(f)
}

// CreateNumberField creates and adds a number field whose format string is
// derived from the number of decimal places.
func (m *Manager) CreateNumberField(page int, rect geom.Rect, name string, decimalPlaces int, required bool) *Field {
	f := NewField(FieldNumber)
	f.Name = name
	f.Page = page
	f.Rect = &rect
	f.FormatCategory = "Number"
	f.FormatString = "0." + strings.Repeat("0", decimalPlaces)
	f.Required = required
	return m.AddField(f)
}
