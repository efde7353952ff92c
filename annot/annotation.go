// Package annot implements the annotation layer of a document overlay: the
// in-memory annotation collection for an open document, with undo/redo,
// per-kind creation helpers, flat-record persistence and conversion to and
// from the native annotations owned by the document engine.
package annot

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/georgepadayatti/overlay/engine"
	"github.com/georgepadayatti/overlay/geom"
)

// Common errors
var (
	ErrUnknownKind     = errors.New("unknown annotation kind")
	ErrMissingGeometry = errors.New("annotation is missing required geometry")
	ErrUnsupportedKind = errors.New("annotation kind cannot be exported")
	ErrPageNotFound    = errors.New("page not found")
)

// Type identifies an annotation kind. The set is closed; values are the
// string tags used in persisted records.
type Type string

// Annotation kinds.
const (
	TypeHighlight      Type = "highlight"
	TypeUnderline      Type = "underline"
	TypeStrikethrough  Type = "strikethrough"
	TypeSquiggly       Type = "squiggly"
	TypeText           Type = "text" // sticky note
	TypeFreeText       Type = "freetext"
	TypeInk            Type = "ink" // freehand drawing
	TypeSquare         Type = "square"
	TypeCircle         Type = "circle"
	TypeLine           Type = "line"
	TypePolygon        Type = "polygon"
	TypePolyline       Type = "polyline"
	TypeStamp          Type = "stamp"
	TypeCaret          Type = "caret"
	TypeFileAttachment Type = "fileattachment"
	TypeSound          Type = "sound"
	TypeMovie          Type = "movie"
	TypeWidget         Type = "widget"
	TypeScreen         Type = "screen"
	TypePrinterMark    Type = "printermark"
	TypeTrapNet        Type = "trapnet"
	TypeWatermark      Type = "watermark"
	TypeThreeD         Type = "3d"
	TypeRedact         Type = "redact"
)

var allTypes = map[Type]bool{
	TypeHighlight: true, TypeUnderline: true, TypeStrikethrough: true,
	TypeSquiggly: true, TypeText: true, TypeFreeText: true, TypeInk: true,
	TypeSquare: true, TypeCircle: true, TypeLine: true, TypePolygon: true,
	TypePolyline: true, TypeStamp: true, TypeCaret: true,
	TypeFileAttachment: true, TypeSound: true, TypeMovie: true,
	TypeWidget: true, TypeScreen: true, TypePrinterMark: true,
	TypeTrapNet: true, TypeWatermark: true, TypeThreeD: true, TypeRedact: true,
}

// ParseType converts a string tag to a Type, failing on unrecognized tags.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !allTypes[t] {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return t, nil
}

// Valid reports whether the type is a member of the closed kind set.
func (t Type) Valid() bool {
	return allTypes[t]
}

// Annotation is a single overlay annotation. The manager's collection is the
// sole owner; the native reference is a weak back-link set only after the
// annotation has been materialized into or imported from a document.
type Annotation struct {
	ID       string     `json:"id"`
	Type     Type       `json:"type"`
	Page     int        `json:"page"`
	Rect     *geom.Rect `json:"rect"`
	Text     string     `json:"text"`
	Author   string     `json:"author"`
	Created  time.Time  `json:"creation_date"`
	Modified time.Time  `json:"modification_date"`

	Color       geom.Color `json:"color"`
	Opacity     float64    `json:"opacity"`
	BorderWidth float64    `json:"border_width"`
	BorderStyle string     `json:"border_style"`

	// Points holds the vertices of line/polygon/polyline annotations;
	// InkList holds one point list per freehand stroke.
	Points  []geom.Point   `json:"points"`
	InkList [][]geom.Point `json:"ink_list"`

	Contents string `json:"contents"` // popup content
	Subject  string `json:"subject"`
	Icon     string `json:"icon"`
	Flags    int    `json:"flags"`

	// Text-kind extras.
	FontSize  float64 `json:"font_size"`
	FontName  string  `json:"font_name"`
	Alignment int     `json:"alignment"` // 0=left, 1=center, 2=right

	StampText  string `json:"stamp_text"`
	StampImage []byte `json:"-"`

	nativeRef engine.NativeRef
}

// New creates an annotation of the given kind with a fresh id and the
// defaults the original editor uses.
func New(t Type) *Annotation {
	now := time.Now()
	return &Annotation{
		ID:          uuid.NewString(),
		Type:        t,
		Created:     now,
		Modified:    now,
		Color:       geom.Yellow,
		Opacity:     1.0,
		BorderWidth: 1.0,
		BorderStyle: "solid",
		FontSize:    12.0,
		FontName:    "Helvetica",
	}
}

// NativeRef returns the weak reference to the engine-owned annotation, or
// nil if the annotation has not been materialized.
func (a *Annotation) NativeRef() engine.NativeRef {
	return a.nativeRef
}

// SetNativeRef records the weak back-reference after materialization.
func (a *Annotation) SetNativeRef(ref engine.NativeRef) {
	a.nativeRef = ref
}

// Clone returns a deep copy of the annotation. The native reference is
// shared, not copied: it identifies the same engine object.
func (a *Annotation) Clone() *Annotation {
	c := *a
	if a.Rect != nil {
		r := *a.Rect
		c.Rect = &r
	}
	c.Points = append([]geom.Point(nil), a.Points...)
	if a.InkList != nil {
		c.InkList = make([][]geom.Point, len(a.InkList))
		for i, stroke := range a.InkList {
			c.InkList[i] = append([]geom.Point(nil), stroke...)
		}
	}
	c.StampImage = append([]byte(nil), a.StampImage...)
	return &c
}

func cloneAll(list []*Annotation) []*Annotation {
	out := make([]*Annotation, len(list))
	for i, a := range list {
		out[i] = a.Clone()
	}
	return out
}
