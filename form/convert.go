package form

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/georgepadayatti/overlay/engine"
)

// widgetKinds maps native widget kinds to field types on import.
var widgetKinds = map[engine.WidgetKind]FieldType{
	engine.WidgetText:        FieldText,
	engine.WidgetCheckbox:    FieldCheckbox,
	engine.WidgetRadioButton: FieldRadio,
	engine.WidgetListbox:     FieldListbox,
	engine.WidgetCombobox:    FieldDropdown,
	engine.WidgetButton:      FieldButton,
	engine.WidgetSignature:   FieldSignature,
}

// fieldWidgets is the reverse mapping used on export. The text-like and
// numeric kinds all materialize as text widgets.
var fieldWidgets = map[FieldType]engine.WidgetKind{
	FieldText:      engine.WidgetText,
	FieldMultiline: engine.WidgetText,
	FieldPassword:  engine.WidgetText,
	FieldDate:      engine.WidgetText,
	FieldNumber:    engine.WidgetText,
	FieldFile:      engine.WidgetText,
	FieldCheckbox:  engine.WidgetCheckbox,
	FieldRadio:     engine.WidgetRadioButton,
	FieldListbox:   engine.WidgetListbox,
	FieldDropdown:  engine.WidgetCombobox,
	FieldButton:    engine.WidgetButton,
	FieldSignature: engine.WidgetSignature,
}

// ImportFromDocument clears the collection and rebuilds it from the native
// widgets found on every page. The context is checked between page
// iterations; progress is reported once per page.
func (m *Manager) ImportFromDocument(ctx context.Context, doc engine.Document, progress engine.ProgressFunc) error {
	m.fields = make(map[string]*Field)
	m.order = nil

	n := doc.PageCount()
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, ok := doc.Page(i)
		if !ok {
			continue
		}
		for _, nw := range page.Widgets() {
			f := fromWidget(nw, i)
			m.fields[f.ID] = f
			m.order = append(m.order, f.ID)
		}
		engine.ReportProgress(progress, i, n)
	}
	m.log.Debug("imported form fields from document",
		zap.Int("pages", n), zap.Int("count", len(m.order)))
	return nil
}

// fromWidget converts a native widget payload into a field entity. Unknown
// widget kinds fall back to text.
func fromWidget(nw engine.NativeWidget, page int) *Field {
	t, ok := widgetKinds[nw.Kind]
	if !ok {
		t = FieldText
	}

	f := NewField(t)
	f.Name = nw.FieldName
	f.Page = page
	rect := nw.Rect
	f.Rect = &rect

	switch t {
	case FieldCheckbox:
		f.ExportValue = nw.ExportValue
		if f.ExportValue == "" {
			f.ExportValue = "Yes"
		}
		f.IsChecked = nw.Value == f.ExportValue
	case FieldRadio:
		f.ExportValue = nw.Value
	case FieldDropdown, FieldListbox:
		f.Options = append([]string(nil), nw.Options...)
		if nw.Value != "" {
			f.Value = nw.Value
		}
	default:
		if nw.Value != "" {
			f.Value = nw.Value
		}
	}

	f.TextColor = nw.TextColor
	if nw.FontSize > 0 {
		f.FontSize = nw.FontSize
	}
	if nw.FontName != "" {
		f.FontName = nw.FontName
	}
	f.Required = nw.Required
	f.MaxLength = nw.MaxLength
	f.nativeRef = nw.Ref
	return f
}

// ExportIssue describes a single field that could not be applied to the
// document.
type ExportIssue struct {
	FieldID string
	Name    string
	Page    int
	Err     error
}

func (e ExportIssue) Error() string {
	return fmt.Sprintf("field %s (%q, page %d): %v", e.FieldID, e.Name, e.Page, e.Err)
}

// ExportToDocument materializes a native widget for every field in the
// collection. Fields that cannot be applied are collected as issues; the
// export continues past them. The context is checked between pages.
func (m *Manager) ExportToDocument(ctx context.Context, doc engine.Document, progress engine.ProgressFunc) ([]ExportIssue, error) {
	var issues []ExportIssue

	n := doc.PageCount()
	byPage := make(map[int][]*Field)
	for _, id := range m.order {
		f := m.fields[id]
		if f.Page < 0 || f.Page >= n {
			issues = append(issues, ExportIssue{
				FieldID: f.ID, Name: f.Name, Page: f.Page, Err: ErrPageNotFound,
			})
			continue
		}
		byPage[f.Page] = append(byPage[f.Page], f)
	}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return issues, err
		}
		page, ok := doc.Page(i)
		if !ok {
			continue
		}
		for _, f := range byPage[i] {
			if f.Rect == nil {
				issues = append(issues, ExportIssue{
					FieldID: f.ID, Name: f.Name, Page: f.Page, Err: ErrMissingGeometry,
				})
				continue
			}
			ref, err := page.AddWidget(toWidget(f))
			if err != nil {
				issues = append(issues, ExportIssue{
					FieldID: f.ID, Name: f.Name, Page: f.Page, Err: err,
				})
				continue
			}
			f.nativeRef = ref
		}
		engine.ReportProgress(progress, i, n)
	}

	if len(issues) > 0 {
		m.log.Warn("form export finished with issues",
			zap.Int("total", len(m.order)), zap.Int("issues", len(issues)))
	}
	return issues, nil
}

// toWidget builds the native widget payload for a field.
func toWidget(f *Field) engine.NativeWidget {
	nw := engine.NativeWidget{
		Kind:      fieldWidgets[f.Type],
		FieldName: f.Name,
		Rect:      *f.Rect,
		FontName:  f.FontName,
		FontSize:  f.FontSize,
		TextColor: f.TextColor,
		Required:  f.Required,
		MaxLength: f.MaxLength,
	}

	switch f.Type {
	case FieldCheckbox:
		nw.ExportValue = f.ExportValue
		if f.IsChecked {
			nw.Value = f.ExportValue
		} else {
			nw.Value = "Off"
		}
	case FieldRadio:
		nw.ExportValue = f.ExportValue
		if f.IsChecked {
			nw.Value = f.ExportValue
		} else {
			nw.Value = "Off"
		}
	case FieldDropdown, FieldListbox:
		nw.Options = append([]string(nil), f.Options...)
		if f.Value != nil {
			nw.Value = fmt.Sprintf("%v", f.Value)
		}
	default:
		if f.Value != nil {
			nw.Value = fmt.Sprintf("%v", f.Value)
		}
	}
	return nw
}
