// Package engine defines the narrow interface through which the overlay
// managers talk to a document engine. The engine owns page content,
// rasterization and file persistence; the managers only need page access and
// the ability to materialize native overlay objects onto pages.
package engine

import (
	"image"

	"github.com/georgepadayatti/overlay/geom"
)

// Document is the view of an open document consumed by the overlay managers.
type Document interface {
	// PageCount returns the number of pages in the document.
	PageCount() int

	// Page returns the page at the given zero-based index, or false if the
	// index is out of range.
	Page(index int) (Page, bool)
}

// Page is a single document page.
type Page interface {
	// Width returns the page width in document units.
	Width() float64

	// Height returns the page height in document units.
	Height() float64

	// Pixmap renders the page at the given zoom factor and rotation
	// (degrees, multiples of 90).
	Pixmap(zoom float64, rotation int) (image.Image, error)

	// InsertImage places raster image data (PNG or JPEG) into the given
	// rectangle on the page.
	InsertImage(rect geom.Rect, data []byte) error

	// AddAnnotation materializes a native annotation on the page and
	// returns a reference to it.
	AddAnnotation(na NativeAnnotation) (NativeRef, error)

	// Annotations enumerates the native annotations present on the page.
	Annotations() []NativeAnnotation

	// AddWidget materializes a native form widget on the page and returns
	// a reference to it.
	AddWidget(nw NativeWidget) (NativeRef, error)

	// Widgets enumerates the native form widgets present on the page.
	Widgets() []NativeWidget

	// SearchText returns the bounding rectangles of all occurrences of the
	// given text on the page.
	SearchText(text string) []geom.Rect
}

// NativeRef is an opaque handle to an engine-owned overlay object. Managers
// hold it as a back-reference for later update calls; it never carries
// ownership and a nil ref simply means the entity has not been materialized.
type NativeRef interface {
	// SetValue pushes a new display value into the native object.
	SetValue(value string) error
}

// NativeAnnotation is the plain-data payload used to construct or describe a
// native annotation. Kind uses the engine's own naming (e.g. "Highlight",
// "StrikeOut", "PolyLine").
type NativeAnnotation struct {
	Kind        string
	Rect        geom.Rect
	StrokeColor geom.Color
	FillColor   geom.Color
	HasStroke   bool
	HasFill     bool
	Opacity     float64
	BorderWidth float64
	Contents    string
	Author      string
	Subject     string
	Icon        string
	Points      []geom.Point
	InkList     [][]geom.Point
	FontName    string
	FontSize    float64
	StampText   string

	// Ref is filled in by the engine when the annotation is enumerated, so
	// importers can keep the back-reference.
	Ref NativeRef
}

// NativeWidget is the plain-data payload for a native form widget.
type NativeWidget struct {
	Kind        WidgetKind
	FieldName   string
	Rect        geom.Rect
	Value       string
	Options     []string
	ExportValue string
	FontName    string
	FontSize    float64
	TextColor   geom.Color
	Required    bool
	MaxLength   int

	Ref NativeRef
}

// WidgetKind identifies the native widget type.
type WidgetKind int

// Native widget kinds, mirroring the engine's widget taxonomy.
const (
	WidgetText WidgetKind = iota
	WidgetCheckbox
	WidgetRadioButton
	WidgetListbox
	WidgetCombobox
	WidgetButton
	WidgetSignature
)

// ProgressFunc reports progress of a page-by-page operation as an integer
// percentage. It is invoked once per processed page on the caller's
// goroutine; a nil ProgressFunc disables reporting.
type ProgressFunc func(percent int)

// ReportProgress invokes fn with the percentage for page index i of n,
// tolerating a nil callback.
func ReportProgress(fn ProgressFunc, i, n int) {
	if fn == nil || n <= 0 {
		return
	}
	fn((i + 1) * 100 / n)
}
