package sig

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/georgepadayatti/overlay/geom"
)

// ErrNoPoints is returned when a drawn signature has no stroke points.
var ErrNoPoints = errors.New("no stroke points")

// DrawOptions configures DrawnSignatureImage.
type DrawOptions struct {
	Width       int
	Height      int
	StrokeColor color.RGBA
	StrokeWidth int
}

// DefaultDrawOptions returns the editor's drawing pad defaults: a 300x150
// transparent canvas with a 2px black stroke.
func DefaultDrawOptions() DrawOptions {
	return DrawOptions{
		Width:       300,
		Height:      150,
		StrokeColor: color.RGBA{A: 255},
		StrokeWidth: 2,
	}
}

// DrawnSignatureImage renders a polyline of stroke points onto a
// transparent canvas and returns it as PNG bytes. It is a pure image helper
// with no document interaction.
func DrawnSignatureImage(points []geom.Point, opts DrawOptions) ([]byte, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		d := DefaultDrawOptions()
		opts.Width, opts.Height = d.Width, d.Height
	}
	if opts.StrokeWidth <= 0 {
		opts.StrokeWidth = 2
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	for i := 1; i < len(points); i++ {
		drawSegment(img, points[i-1], points[i], opts.StrokeColor, opts.StrokeWidth)
	}

	return encodePNG(img)
}

// drawSegment draws a straight stroke between two points by stepping along
// the segment and stamping a square dot of the stroke width.
func drawSegment(img *image.RGBA, a, b geom.Point, c color.RGBA, width int) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	steps := int(math.Max(math.Abs(dx), math.Abs(dy))) + 1
	half := width / 2

	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		x := int(a.X + dx*t)
		y := int(a.Y + dy*t)
		for ox := -half; ox <= half; ox++ {
			for oy := -half; oy <= half; oy++ {
				img.SetRGBA(x+ox, y+oy, c)
			}
		}
	}
}

// TextOptions configures TextSignatureImage.
type TextOptions struct {
	Color   color.RGBA
	Padding int
}

// DefaultTextOptions returns the editor's text-signature defaults: navy
// text with 20px padding.
func DefaultTextOptions() TextOptions {
	return TextOptions{
		Color:   color.RGBA{B: 128, A: 255},
		Padding: 20,
	}
}

// TextSignatureImage renders the given text onto a transparent canvas sized
// to fit and returns it as PNG bytes.
func TextSignatureImage(text string, opts TextOptions) ([]byte, error) {
	if text == "" {
		return nil, errors.New("empty signature text")
	}
	if opts.Color.A == 0 {
		opts.Color = DefaultTextOptions().Color
	}
	if opts.Padding <= 0 {
		opts.Padding = DefaultTextOptions().Padding
	}

	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, text).Ceil()
	textHeight := face.Metrics().Height.Ceil()

	img := image.NewRGBA(image.Rect(0, 0, textWidth+2*opts.Padding, textHeight+2*opts.Padding))
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(opts.Color),
		Face: face,
		Dot:  fixed.P(opts.Padding, opts.Padding+face.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(text)

	return encodePNG(img)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
