// Package memdoc provides an in-memory implementation of the engine
// interfaces. It backs the package tests and the overlayctl demo command;
// a real application would plug in an engine wrapping an actual document
// library instead.
package memdoc

import (
	"errors"
	"image"
	"strings"

	"github.com/georgepadayatti/overlay/engine"
	"github.com/georgepadayatti/overlay/geom"
)

// ErrBadRotation is returned for rotations that are not multiples of 90.
var ErrBadRotation = errors.New("rotation must be a multiple of 90 degrees")

// Document is an in-memory document with fixed-size pages.
type Document struct {
	pages []*Page
}

// New creates a document with n pages of the given size.
func New(n int, width, height float64) *Document {
	doc := &Document{}
	for i := 0; i < n; i++ {
		doc.pages = append(doc.pages, &Page{
			index:  i,
			width:  width,
			height: height,
		})
	}
	return doc
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.pages)
}

// Page returns the page at the given index.
func (d *Document) Page(index int) (engine.Page, bool) {
	if index < 0 || index >= len(d.pages) {
		return nil, false
	}
	return d.pages[index], true
}

// MemPage returns the concrete page for test inspection.
func (d *Document) MemPage(index int) *Page {
	if index < 0 || index >= len(d.pages) {
		return nil
	}
	return d.pages[index]
}

// PlacedImage records an image inserted onto a page.
type PlacedImage struct {
	Rect geom.Rect
	Data []byte
}

// Page is a single in-memory page.
type Page struct {
	index  int
	width  float64
	height float64

	// Text is the page's plain text, used by SearchText.
	Text string

	annots  []engine.NativeAnnotation
	widgets []engine.NativeWidget
	images  []PlacedImage
}

// Width returns the page width.
func (p *Page) Width() float64 { return p.width }

// Height returns the page height.
func (p *Page) Height() float64 { return p.height }

// Pixmap renders the page as a blank image scaled by zoom.
func (p *Page) Pixmap(zoom float64, rotation int) (image.Image, error) {
	if rotation%90 != 0 {
		return nil, ErrBadRotation
	}
	w := int(p.width * zoom)
	h := int(p.height * zoom)
	if rotation%180 != 0 {
		w, h = h, w
	}
	return image.NewRGBA(image.Rect(0, 0, w, h)), nil
}

// InsertImage records the image placement.
func (p *Page) InsertImage(rect geom.Rect, data []byte) error {
	if len(data) == 0 {
		return errors.New("empty image data")
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	p.images = append(p.images, PlacedImage{Rect: rect, Data: buf})
	return nil
}

// Images returns the images placed on the page.
func (p *Page) Images() []PlacedImage {
	return append([]PlacedImage(nil), p.images...)
}

// AddAnnotation stores the native annotation and returns its reference.
func (p *Page) AddAnnotation(na engine.NativeAnnotation) (engine.NativeRef, error) {
	ref := &Ref{value: na.Contents}
	na.Ref = ref
	p.annots = append(p.annots, na)
	return ref, nil
}

// Annotations returns the native annotations on the page.
func (p *Page) Annotations() []engine.NativeAnnotation {
	return append([]engine.NativeAnnotation(nil), p.annots...)
}

// AddWidget stores the native widget and returns its reference.
func (p *Page) AddWidget(nw engine.NativeWidget) (engine.NativeRef, error) {
	ref := &Ref{value: nw.Value}
	nw.Ref = ref
	p.widgets = append(p.widgets, nw)
	return ref, nil
}

// Widgets returns the native widgets on the page.
func (p *Page) Widgets() []engine.NativeWidget {
	return append([]engine.NativeWidget(nil), p.widgets...)
}

// SetWidgets replaces the page's widgets, for test setup.
func (p *Page) SetWidgets(ws []engine.NativeWidget) {
	p.widgets = append([]engine.NativeWidget(nil), ws...)
}

// SetAnnotations replaces the page's annotations, for test setup.
func (p *Page) SetAnnotations(as []engine.NativeAnnotation) {
	p.annots = append([]engine.NativeAnnotation(nil), as...)
}

// SearchText returns a synthetic rectangle per occurrence of text in the
// page's plain text.
func (p *Page) SearchText(text string) []geom.Rect {
	if text == "" || p.Text == "" {
		return nil
	}
	var rects []geom.Rect
	offset := 0
	for {
		i := strings.Index(p.Text[offset:], text)
		if i < 0 {
			break
		}
		offset += i
		x := float64(offset)
		rects = append(rects, geom.NewRect(x, 0, x+float64(len(text)), 12))
		offset += len(text)
	}
	return rects
}

// Ref is the in-memory native reference. It keeps the last value pushed into
// the native object so tests can observe widget updates.
type Ref struct {
	value string
}

// SetValue stores the value.
func (r *Ref) SetValue(value string) error {
	r.value = value
	return nil
}

// Value returns the last value pushed into the reference.
func (r *Ref) Value() string {
	return r.value
}
