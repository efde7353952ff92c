package annot

import (
	"github.com/georgepadayatti/overlay/geom"
)

// CreateHighlight creates and adds a highlight annotation.
func (m *Manager) CreateHighlight(page int, rect geom.Rect, color geom.Color, text string) *Annotation {
	a := New(TypeHighlight)
	a.Page = page
	a.Rect = &rect
	a.Color = color
	a.Text = text
	return m.Add(a)
}

// CreateUnderline creates and adds an underline annotation.
func (m *Manager) CreateUnderline(page int, rect geom.Rect, color geom.Color, text string) *Annotation {
	a := New(TypeUnderline)
	a.Page = page
	a.Rect = &rect
	a.Color = color
	a.Text = text
	return m.Add(a)
}

// CreateStrikethrough creates and adds a strikethrough annotation.
func (m *Manager) CreateStrikethrough(page int, rect geom.Rect, color geom.Color, text string) *Annotation {
	a := New(TypeStrikethrough)
	a.Page = page
	a.Rect = &rect
	a.Color = color
	a.Text = text
	return m.Add(a)
}

// CreateTextNote creates and adds a sticky-note annotation anchored at the
// given point. The note gets a fixed 20x20 rectangle, matching the editor's
// icon size.
func (m *Manager) CreateTextNote(page int, at geom.Point, text, icon string) *Annotation {
	a := New(TypeText)
	a.Page = page
	rect := geom.NewRect(at.X, at.Y, at.X+20, at.Y+20)
	a.Rect = &rect
	a.Contents = text
	if icon == "" {
		icon = "Note"
	}
	a.Icon = icon
	return m.Add(a)
}

// CreateFreeText creates and adds a free text annotation.
func (m *Manager) CreateFreeText(page int, rect geom.Rect, text string, fontSize float64, color geom.Color) *Annotation {
	a := New(TypeFreeText)
	a.Page = page
	a.Rect = &rect
	a.Text = text
	a.FontSize = fontSize
	a.Color = color
	return m.Add(a)
}

// CreateInk creates and adds a freehand annotation from one point list per
// stroke.
func (m *Manager) CreateInk(page int, strokes [][]geom.Point, color geom.Color, width float64) *Annotation {
	a := New(TypeInk)
	a.Page = page
	a.InkList = strokes
	a.Color = color
	a.BorderWidth = width
	return m.Add(a)
}

// CreateStamp creates and adds a stamp annotation.
func (m *Manager) CreateStamp(page int, rect geom.Rect, stampText string) *Annotation {
	a := New(TypeStamp)
	a.Page = page
	a.Rect = &rect
	if stampText == "" {
		stampText = "APPROVED"
	}
	a.StampText = stampText
	return m.Add(a)
}

// CreateLine creates and adds a line annotation between two points.
func (m *Manager) CreateLine(page int, p1, p2 geom.Point, color geom.Color, width float64) *Annotation {
	a := New(TypeLine)
	a.Page = page
	a.Points = []geom.Point{p1, p2}
	a.Color = color
	a.BorderWidth = width
	return m.Add(a)
}

// CreateRectangle creates and adds a square annotation.
func (m *Manager) CreateRectangle(page int, rect geom.Rect, color geom.Color, width float64) *Annotation {
	a := New(TypeSquare)
	a.Page = page
	a.Rect = &rect
	a.Color = color
	a.BorderWidth = width
	return m.Add(a)
}

// CreateCircle creates and adds a circle annotation inscribed in rect.
func (m *Manager) CreateCircle(page int, rect geom.Rect, color geom.Color, width float64) *Annotation {
	a := New(TypeCircle)
	a.Page = page
	a.Rect = &rect
	a.Color = color
	a.BorderWidth = width
	return m.Add(a)
}
