package sig

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/georgepadayatti/overlay/certstore"
)

// appearanceBorder is the border color of the rendered signature block.
var appearanceBorder = color.RGBA{B: 255, A: 255}

// appearanceLines composes the text lines of a digital signature block:
// signer name, timestamp, optional reason, and a truncated serial number.
func appearanceLines(s *Signature, cert *certstore.Certificate) []string {
	var lines []string
	if s.ShowName {
		lines = append(lines, fmt.Sprintf("Digitally signed by: %s", cert.Name))
	}
	if s.ShowDate {
		lines = append(lines, fmt.Sprintf("Date: %s", s.Timestamp.Format("2006-01-02 15:04:05")))
	}
	if s.ShowReason && s.Reason != "" {
		lines = append(lines, fmt.Sprintf("Reason: %s", s.Reason))
	}
	serial := cert.SerialNumber
	if len(serial) > 20 {
		serial = serial[:20]
	}
	lines = append(lines, fmt.Sprintf("SN: %s...", serial))
	return lines
}

// renderAppearance rasterizes the signature block: a bordered transparent
// box containing the appearance lines, sized to the signature rectangle.
func renderAppearance(s *Signature, cert *certstore.Certificate) ([]byte, error) {
	width := int(s.Rect.Width())
	height := int(s.Rect.Height())
	if width <= 0 || height <= 0 {
		width, height = 200, 100
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	drawBorder(img, appearanceBorder, 2)

	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil() + 2
	y := 5 + face.Metrics().Ascent.Ceil()
	for _, line := range appearanceLines(s, cert) {
		drawer := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(color.RGBA{A: 255}),
			Face: face,
			Dot:  fixed.P(5, y),
		}
		drawer.DrawString(line)
		y += lineHeight
	}

	return encodePNG(img)
}

// drawBorder strokes the image bounds with the given color and width.
func drawBorder(img *image.RGBA, c color.RGBA, width int) {
	b := img.Bounds()
	for w := 0; w < width; w++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, b.Min.Y+w, c)
			img.SetRGBA(x, b.Max.Y-1-w, c)
		}
		for y := b.Min.Y; y < b.Max.Y; y++ {
			img.SetRGBA(b.Min.X+w, y, c)
			img.SetRGBA(b.Max.X-1-w, y, c)
		}
	}
}
