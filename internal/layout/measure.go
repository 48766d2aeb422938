package layout

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// TextBounds represents the dimensions of a single line of text.
type TextBounds struct {
	Width  float64
	Height float64 // line height
}

// Measurer estimates the size of a line of text at a font size in pixels.
type Measurer interface {
	Measure(text string, fontSize float64) TextBounds
}

// HeuristicMeasurer uses an average character width of 0.7 * fontSize and a
// line height of 1.5 * fontSize. The estimates are conservative so wide glyphs
// rarely overflow their boxes.
type HeuristicMeasurer struct{}

// Measure implements Measurer.
func (HeuristicMeasurer) Measure(text string, fontSize float64) TextBounds {
	return TextBounds{
		Width:  float64(utf8.RuneCountInString(text)) * fontSize * 0.7,
		Height: fontSize * 1.5,
	}
}

// FontMeasurer measures real glyph advances of the Go Regular font. Faces are
// created lazily per font size. It is not safe for concurrent use.
type FontMeasurer struct {
	font  *opentype.Font
	faces map[float64]font.Face
}

// NewFontMeasurer parses the embedded Go Regular font.
func NewFontMeasurer() (*FontMeasurer, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing Go Regular: %w", err)
	}
	return &FontMeasurer{font: fnt, faces: make(map[float64]font.Face)}, nil
}

func (m *FontMeasurer) face(size float64) (font.Face, error) {
	if face, ok := m.faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(m.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72, // one point per pixel
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	m.faces[size] = face
	return face, nil
}

// Measure implements Measurer. It falls back to the heuristic if a face
// cannot be built for the size.
func (m *FontMeasurer) Measure(text string, fontSize float64) TextBounds {
	face, err := m.face(fontSize)
	if err != nil {
		return HeuristicMeasurer{}.Measure(text, fontSize)
	}
	return TextBounds{
		Width:  fixedToFloat(font.MeasureString(face, text)),
		Height: fixedToFloat(face.Metrics().Height),
	}
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
