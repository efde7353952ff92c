package memdoc

import (
	"errors"
	"testing"

	"github.com/georgepadayatti/overlay/engine"
	"github.com/georgepadayatti/overlay/geom"
)

func TestDocumentPages(t *testing.T) {
	doc := New(3, 612, 792)
	if doc.PageCount() != 3 {
		t.Errorf("PageCount() = %d, want 3", doc.PageCount())
	}

	page, ok := doc.Page(1)
	if !ok {
		t.Fatal("Page(1) not found")
	}
	if page.Width() != 612 || page.Height() != 792 {
		t.Errorf("page size = %vx%v", page.Width(), page.Height())
	}

	if _, ok := doc.Page(3); ok {
		t.Error("Page(3) should be out of range")
	}
	if _, ok := doc.Page(-1); ok {
		t.Error("Page(-1) should be out of range")
	}
}

func TestPixmap(t *testing.T) {
	doc := New(1, 100, 200)
	page, _ := doc.Page(0)

	img, err := page.Pixmap(2.0, 0)
	if err != nil {
		t.Fatalf("Pixmap failed: %v", err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 400 {
		t.Errorf("pixmap = %v, want 200x400", img.Bounds())
	}

	rotated, err := page.Pixmap(1.0, 90)
	if err != nil {
		t.Fatalf("Pixmap rotated failed: %v", err)
	}
	if rotated.Bounds().Dx() != 200 || rotated.Bounds().Dy() != 100 {
		t.Errorf("rotated pixmap = %v, want 200x100", rotated.Bounds())
	}

	if _, err := page.Pixmap(1.0, 45); !errors.Is(err, ErrBadRotation) {
		t.Errorf("error = %v, want ErrBadRotation", err)
	}
}

func TestInsertImage(t *testing.T) {
	doc := New(1, 612, 792)
	page := doc.MemPage(0)

	rect := geom.NewRect(10, 10, 110, 60)
	if err := page.InsertImage(rect, []byte{1, 2, 3}); err != nil {
		t.Fatalf("InsertImage failed: %v", err)
	}
	if err := page.InsertImage(rect, nil); err == nil {
		t.Error("Expected error for empty image data")
	}

	images := page.Images()
	if len(images) != 1 || images[0].Rect != rect {
		t.Errorf("images = %+v", images)
	}
}

func TestAddAnnotationSetsRef(t *testing.T) {
	doc := New(1, 612, 792)
	page := doc.MemPage(0)

	ref, err := page.AddAnnotation(engine.NativeAnnotation{Kind: "Highlight", Contents: "hi"})
	if err != nil {
		t.Fatalf("AddAnnotation failed: %v", err)
	}
	if ref == nil {
		t.Fatal("AddAnnotation returned nil ref")
	}
	if got := page.Annotations(); len(got) != 1 || got[0].Ref == nil {
		t.Errorf("annotations = %+v", got)
	}
}

func TestWidgetValueUpdate(t *testing.T) {
	doc := New(1, 612, 792)
	page := doc.MemPage(0)

	ref, err := page.AddWidget(engine.NativeWidget{Kind: engine.WidgetText, FieldName: "f", Value: "initial"})
	if err != nil {
		t.Fatalf("AddWidget failed: %v", err)
	}
	if err := ref.SetValue("updated"); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}
	if got := ref.(*Ref).Value(); got != "updated" {
		t.Errorf("value = %q, want updated", got)
	}
}

func TestSearchText(t *testing.T) {
	doc := New(1, 612, 792)
	page := doc.MemPage(0)
	page.Text = "the cat sat on the mat"

	if got := len(page.SearchText("the")); got != 2 {
		t.Errorf("found %d occurrences of 'the', want 2", got)
	}
	if got := page.SearchText("dog"); got != nil {
		t.Errorf("SearchText(dog) = %v, want nil", got)
	}
	if got := page.SearchText(""); got != nil {
		t.Errorf("SearchText empty = %v, want nil", got)
	}
}
