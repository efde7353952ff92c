package form

import (
	"context"
	"errors"
	"testing"

	"github.com/georgepadayatti/overlay/engine"
	"github.com/georgepadayatti/overlay/engine/memdoc"
	"github.com/georgepadayatti/overlay/geom"
)

func TestImportFromDocument(t *testing.T) {
	doc := memdoc.New(2, 612, 792)
	doc.MemPage(0).SetWidgets([]engine.NativeWidget{
		{Kind: engine.WidgetText, FieldName: "name", Rect: geom.NewRect(0, 0, 100, 20), Value: "Jane", MaxLength: 40},
		{Kind: engine.WidgetCheckbox, FieldName: "agree", Rect: geom.NewRect(0, 30, 15, 45), Value: "Accepted", ExportValue: "Accepted"},
	})
	doc.MemPage(1).SetWidgets([]engine.NativeWidget{
		{Kind: engine.WidgetCombobox, FieldName: "country", Rect: geom.NewRect(0, 0, 100, 20), Options: []string{"US", "DE"}, Value: "DE"},
	})

	m := NewManager()
	if err := m.ImportFromDocument(context.Background(), doc, nil); err != nil {
		t.Fatalf("ImportFromDocument failed: %v", err)
	}
	if m.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", m.Count())
	}

	all := m.GetAllFields()
	if all[0].Type != FieldText || all[0].Value != "Jane" || all[0].MaxLength != 40 {
		t.Errorf("text field = %+v", all[0])
	}
	if all[1].Type != FieldCheckbox || !all[1].IsChecked || all[1].ExportValue != "Accepted" {
		t.Errorf("checkbox = %+v", all[1])
	}
	if all[2].Type != FieldDropdown || all[2].Page != 1 || len(all[2].Options) != 2 {
		t.Errorf("dropdown = %+v", all[2])
	}
}

func TestImportCheckboxDefaultExportValue(t *testing.T) {
	doc := memdoc.New(1, 612, 792)
	doc.MemPage(0).SetWidgets([]engine.NativeWidget{
		{Kind: engine.WidgetCheckbox, FieldName: "opt", Rect: geom.NewRect(0, 0, 15, 15), Value: "Off"},
	})

	m := NewManager()
	if err := m.ImportFromDocument(context.Background(), doc, nil); err != nil {
		t.Fatalf("ImportFromDocument failed: %v", err)
	}
	f := m.GetAllFields()[0]
	if f.ExportValue != "Yes" {
		t.Errorf("ExportValue = %q, want Yes", f.ExportValue)
	}
	if f.IsChecked {
		t.Error("checkbox with Off value imported as checked")
	}
}

func TestImportCancelled(t *testing.T) {
	doc := memdoc.New(2, 612, 792)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewManager()
	if err := m.ImportFromDocument(ctx, doc, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("ImportFromDocument error = %v, want context.Canceled", err)
	}
}

func TestExportToDocument(t *testing.T) {
	doc := memdoc.New(1, 612, 792)

	m := NewManager()
	text := m.CreateTextField(0, geom.NewRect(0, 0, 100, 20), "name", TextFieldOptions{})
	m.SetFieldValue(text.ID, "Jane")
	m.CreateCheckbox(0, geom.NewRect(0, 30, 15, 45), "agree", "Accepted", true, false)

	issues, err := m.ExportToDocument(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("ExportToDocument failed: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("issues = %v, want none", issues)
	}

	widgets := doc.MemPage(0).Widgets()
	if len(widgets) != 2 {
		t.Fatalf("page has %d widgets, want 2", len(widgets))
	}
	if widgets[0].Kind != engine.WidgetText || widgets[0].Value != "Jane" {
		t.Errorf("text widget = %+v", widgets[0])
	}
	if widgets[1].Kind != engine.WidgetCheckbox || widgets[1].Value != "Accepted" {
		t.Errorf("checkbox widget = %+v", widgets[1])
	}
}

func TestExportSetsNativeRef(t *testing.T) {
	doc := memdoc.New(1, 612, 792)

	m := NewManager()
	f := m.CreateTextField(0, geom.NewRect(0, 0, 100, 20), "name", TextFieldOptions{})
	if _, err := m.ExportToDocument(context.Background(), doc, nil); err != nil {
		t.Fatalf("ExportToDocument failed: %v", err)
	}

	// Value updates now propagate into the widget through the reference.
	m.SetFieldValue(f.ID, "updated")
	ref, ok := m.fields[f.ID].nativeRef.(*memdoc.Ref)
	if !ok {
		t.Fatal("native reference not set by export")
	}
	if ref.Value() != "updated" {
		t.Errorf("native value = %q, want updated", ref.Value())
	}
}

func TestExportCollectsIssues(t *testing.T) {
	doc := memdoc.New(1, 612, 792)

	m := NewManager()
	m.CreateTextField(9, geom.NewRect(0, 0, 100, 20), "off-page", TextFieldOptions{})
	noRect := NewField(FieldText)
	noRect.Name = "bare"
	m.AddField(noRect)
	m.CreateTextField(0, geom.NewRect(0, 30, 100, 50), "ok", TextFieldOptions{})

	issues, err := m.ExportToDocument(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("ExportToDocument failed: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2: %v", len(issues), issues)
	}
	if !errors.Is(issues[0].Err, ErrPageNotFound) {
		t.Errorf("first issue = %v, want page not found", issues[0])
	}
	if !errors.Is(issues[1].Err, ErrMissingGeometry) {
		t.Errorf("second issue = %v, want missing geometry", issues[1])
	}
	if got := len(doc.MemPage(0).Widgets()); got != 1 {
		t.Errorf("page has %d widgets, want 1", got)
	}
}

func TestExportRadioEncoding(t *testing.T) {
	doc := memdoc.New(1, 612, 792)

	m := NewManager()
	m.CreateRadioGroup(0, "size", []string{"S", "M"}, []geom.Rect{
		geom.NewRect(0, 0, 15, 15),
		geom.NewRect(0, 20, 15, 35),
	}, 1)

	if _, err := m.ExportToDocument(context.Background(), doc, nil); err != nil {
		t.Fatalf("ExportToDocument failed: %v", err)
	}

	widgets := doc.MemPage(0).Widgets()
	if widgets[0].Value != "Off" {
		t.Errorf("unchecked radio value = %q, want Off", widgets[0].Value)
	}
	if widgets[1].Value != "M" {
		t.Errorf("checked radio value = %q, want M", widgets[1].Value)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := memdoc.New(1, 612, 792)

	src := NewManager()
	f := src.CreateTextField(0, geom.NewRect(0, 0, 100, 20), "city", TextFieldOptions{})
	src.SetFieldValue(f.ID, "Berlin")
	src.CreateCheckbox(0, geom.NewRect(0, 30, 15, 45), "agree", "Accepted", true, false)
	if _, err := src.ExportToDocument(context.Background(), doc, nil); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	dst := NewManager()
	if err := dst.ImportFromDocument(context.Background(), doc, nil); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if dst.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", dst.Count())
	}

	all := dst.GetAllFields()
	if all[0].Value != "Berlin" {
		t.Errorf("text value = %v, want Berlin", all[0].Value)
	}
	if !all[1].IsChecked || all[1].ExportValue != "Accepted" {
		t.Errorf("checkbox = %+v", all[1])
	}
}
