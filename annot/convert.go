package annot

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/georgepadayatti/overlay/engine"
)

// nativeKinds maps the engine's annotation kind names to overlay types.
var nativeKinds = map[string]Type{
	"Highlight":      TypeHighlight,
	"Underline":      TypeUnderline,
	"StrikeOut":      TypeStrikethrough,
	"Squiggly":       TypeSquiggly,
	"Text":           TypeText,
	"FreeText":       TypeFreeText,
	"Ink":            TypeInk,
	"Square":         TypeSquare,
	"Circle":         TypeCircle,
	"Line":           TypeLine,
	"Polygon":        TypePolygon,
	"PolyLine":       TypePolyline,
	"Stamp":          TypeStamp,
	"Caret":          TypeCaret,
	"FileAttachment": TypeFileAttachment,
	"Sound":          TypeSound,
	"Movie":          TypeMovie,
	"Widget":         TypeWidget,
	"Screen":         TypeScreen,
	"PrinterMark":    TypePrinterMark,
	"TrapNet":        TypeTrapNet,
	"Watermark":      TypeWatermark,
	"3D":             TypeThreeD,
	"Redact":         TypeRedact,
}

// kindNames is the reverse mapping used on export.
var kindNames = func() map[Type]string {
	names := make(map[Type]string, len(nativeKinds))
	for name, t := range nativeKinds {
		names[t] = name
	}
	return names
}()

// ImportFromDocument clears the collection and rebuilds it from the native
// annotations found on every page of the document. The context is checked
// between page iterations; progress is reported once per page.
func (m *Manager) ImportFromDocument(ctx context.Context, doc engine.Document, progress engine.ProgressFunc) error {
	m.annotations = nil
	m.selected = ""

	n := doc.PageCount()
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, ok := doc.Page(i)
		if !ok {
			continue
		}
		for _, na := range page.Annotations() {
			a := fromNative(na, i)
			m.annotations = append(m.annotations, a)
		}
		engine.ReportProgress(progress, i, n)
	}
	m.log.Debug("imported annotations from document",
		zap.Int("pages", n), zap.Int("count", len(m.annotations)))
	return nil
}

// fromNative converts a native annotation payload into an overlay entity.
// Unknown native kinds fall back to highlight rather than failing the scan.
func fromNative(na engine.NativeAnnotation, page int) *Annotation {
	t, ok := nativeKinds[na.Kind]
	if !ok {
		t = TypeHighlight
	}

	a := New(t)
	a.Page = page
	rect := na.Rect
	a.Rect = &rect

	if na.HasStroke {
		a.Color = na.StrokeColor
	} else if na.HasFill {
		a.Color = na.FillColor
	}
	a.Opacity = na.Opacity
	if na.BorderWidth > 0 {
		a.BorderWidth = na.BorderWidth
	}

	// Engine-extracted text is normalized to NFC so persisted records and
	// search behave consistently across engines.
	a.Text = norm.NFC.String(na.Contents)
	a.Author = norm.NFC.String(na.Author)
	a.Subject = norm.NFC.String(na.Subject)
	a.Icon = na.Icon

	switch t {
	case TypeInk:
		a.InkList = na.InkList
		a.Points = na.Points
	case TypePolygon, TypePolyline, TypeLine:
		a.Points = na.Points
	case TypeStamp:
		a.StampText = na.StampText
	case TypeFreeText:
		a.FontName = na.FontName
		if na.FontSize > 0 {
			a.FontSize = na.FontSize
		}
	}

	a.nativeRef = na.Ref
	return a
}

// ExportIssue describes a single annotation that could not be applied to the
// document. Bulk export continues past individual failures and returns the
// full issue list.
type ExportIssue struct {
	AnnotationID string
	Page         int
	Kind         Type
	Err          error
}

func (e ExportIssue) Error() string {
	return fmt.Sprintf("annotation %s (%s, page %d): %v", e.AnnotationID, e.Kind, e.Page, e.Err)
}

// exportFunc builds the native payload for one annotation kind. It returns
// an error when the annotation is missing geometry the kind requires.
type exportFunc func(a *Annotation) (engine.NativeAnnotation, error)

// exporters registers one conversion per exportable kind. Kinds absent from
// the table cannot be constructed through the engine and produce an
// ExportIssue instead.
var exporters = map[Type]exportFunc{
	TypeHighlight:     exportMarkup,
	TypeUnderline:     exportMarkup,
	TypeStrikethrough: exportMarkup,
	TypeSquiggly:      exportMarkup,
	TypeText:          exportTextNote,
	TypeFreeText:      exportFreeText,
	TypeInk:           exportInk,
	TypeSquare:        exportShape,
	TypeCircle:        exportShape,
	TypeLine:          exportLine,
	TypeStamp:         exportStamp,
}

func baseNative(a *Annotation) engine.NativeAnnotation {
	return engine.NativeAnnotation{
		Kind:        kindNames[a.Type],
		StrokeColor: a.Color,
		HasStroke:   true,
		Opacity:     a.Opacity,
		Contents:    a.Contents,
		Author:      a.Author,
		Subject:     a.Subject,
	}
}

func exportMarkup(a *Annotation) (engine.NativeAnnotation, error) {
	if a.Rect == nil {
		return engine.NativeAnnotation{}, ErrMissingGeometry
	}
	na := baseNative(a)
	na.Rect = *a.Rect
	return na, nil
}

func exportTextNote(a *Annotation) (engine.NativeAnnotation, error) {
	if a.Rect == nil {
		return engine.NativeAnnotation{}, ErrMissingGeometry
	}
	na := baseNative(a)
	na.Rect = *a.Rect
	if na.Contents == "" {
		na.Contents = a.Text
	}
	na.Icon = a.Icon
	if na.Icon == "" {
		na.Icon = "Note"
	}
	return na, nil
}

func exportFreeText(a *Annotation) (engine.NativeAnnotation, error) {
	if a.Rect == nil {
		return engine.NativeAnnotation{}, ErrMissingGeometry
	}
	na := baseNative(a)
	na.Rect = *a.Rect
	na.Contents = a.Text
	na.FontName = a.FontName
	na.FontSize = a.FontSize
	return na, nil
}

func exportInk(a *Annotation) (engine.NativeAnnotation, error) {
	if len(a.InkList) == 0 {
		return engine.NativeAnnotation{}, fmt.Errorf("%w: ink annotation has no strokes", ErrMissingGeometry)
	}
	na := baseNative(a)
	na.InkList = a.InkList
	na.BorderWidth = a.BorderWidth
	return na, nil
}

func exportShape(a *Annotation) (engine.NativeAnnotation, error) {
	if a.Rect == nil {
		return engine.NativeAnnotation{}, ErrMissingGeometry
	}
	na := baseNative(a)
	na.Rect = *a.Rect
	na.BorderWidth = a.BorderWidth
	return na, nil
}

func exportLine(a *Annotation) (engine.NativeAnnotation, error) {
	if len(a.Points) < 2 {
		return engine.NativeAnnotation{}, fmt.Errorf("%w: line needs at least two points", ErrMissingGeometry)
	}
	na := baseNative(a)
	na.Points = a.Points[:2]
	na.BorderWidth = a.BorderWidth
	return na, nil
}

func exportStamp(a *Annotation) (engine.NativeAnnotation, error) {
	if a.Rect == nil {
		return engine.NativeAnnotation{}, ErrMissingGeometry
	}
	na := baseNative(a)
	na.Rect = *a.Rect
	na.StampText = a.StampText
	if na.StampText == "" {
		na.StampText = "Approved"
	}
	return na, nil
}

// ExportToDocument applies every annotation in the collection to the
// document, page by page. Annotations that cannot be applied (unsupported
// kind, missing geometry, page out of range) are collected as issues; the
// export continues past them. The context is checked between pages.
func (m *Manager) ExportToDocument(ctx context.Context, doc engine.Document, progress engine.ProgressFunc) ([]ExportIssue, error) {
	var issues []ExportIssue

	n := doc.PageCount()
	byPage := make(map[int][]*Annotation)
	for _, a := range m.annotations {
		byPage[a.Page] = append(byPage[a.Page], a)
	}

	for _, a := range m.annotations {
		if a.Page < 0 || a.Page >= n {
			issues = append(issues, ExportIssue{
				AnnotationID: a.ID, Page: a.Page, Kind: a.Type, Err: ErrPageNotFound,
			})
		}
	}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return issues, err
		}
		page, ok := doc.Page(i)
		if !ok {
			continue
		}
		for _, a := range byPage[i] {
			export, ok := exporters[a.Type]
			if !ok {
				issues = append(issues, ExportIssue{
					AnnotationID: a.ID, Page: a.Page, Kind: a.Type, Err: ErrUnsupportedKind,
				})
				continue
			}
			na, err := export(a)
			if err != nil {
				issues = append(issues, ExportIssue{
					AnnotationID: a.ID, Page: a.Page, Kind: a.Type, Err: err,
				})
				continue
			}
			ref, err := page.AddAnnotation(na)
			if err != nil {
				issues = append(issues, ExportIssue{
					AnnotationID: a.ID, Page: a.Page, Kind: a.Type, Err: err,
				})
				continue
			}
			a.nativeRef = ref
		}
		engine.ReportProgress(progress, i, n)
	}

	if len(issues) > 0 {
		m.log.Warn("export finished with issues",
			zap.Int("total", len(m.annotations)), zap.Int("issues", len(issues)))
	}
	return issues, nil
}
