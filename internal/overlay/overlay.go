package overlay

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
)

// ErrInvalidInput marks form values that cannot be turned into a Request.
var ErrInvalidInput = errors.New("invalid text overlay input")

const (
	MinScale = 1
	MaxScale = 5
)

// FontStyle names the font choices offered in the text dialog.
type FontStyle string

const (
	FontRegular FontStyle = "Regular"
	FontBold    FontStyle = "Bold"
	FontItalic  FontStyle = "Italic"
	FontScript  FontStyle = "Script"
	FontFancy   FontStyle = "Fancy"
)

// Fonts lists the styles in dialog order.
var Fonts = []FontStyle{FontRegular, FontBold, FontItalic, FontScript, FontFancy}

// NamedColor pairs a label with a color. Colors are stored as R,G,B and
// converted to channel order by the renderer.
type NamedColor struct {
	Name  string
	Color color.RGBA
}

var Colors = []NamedColor{
	{"Red", color.RGBA{R: 255, A: 255}},
	{"Green", color.RGBA{G: 255, A: 255}},
	{"Blue", color.RGBA{B: 255, A: 255}},
	{"Yellow", color.RGBA{R: 255, G: 255, A: 255}},
	{"White", color.RGBA{R: 255, G: 255, B: 255, A: 255}},
	{"Black", color.RGBA{A: 255}},
}

func FontNames() []string {
	names := make([]string, len(Fonts))
	for i, f := range Fonts {
		names[i] = string(f)
	}
	return names
}

func ColorNames() []string {
	names := make([]string, len(Colors))
	for i, c := range Colors {
		names[i] = c.Name
	}
	return names
}

func LookupFont(name string) (FontStyle, bool) {
	for _, f := range Fonts {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

func LookupColor(name string) (color.RGBA, bool) {
	for _, c := range Colors {
		if c.Name == name {
			return c.Color, true
		}
	}
	return color.RGBA{}, false
}

// Request is a validated text overlay.
type Request struct {
	Text      string
	Origin    image.Point
	Font      FontStyle
	Scale     int
	Color     color.RGBA
	Thickness int
}

// Form mirrors the raw values of the text dialog.
type Form struct {
	Text  string
	X     string
	Y     string
	Font  string
	Color string
	Scale int
}

// Parse validates the form. Position fields must be integers; the origin is
// not clamped to the image, so text may be partly or fully outside it.
func (f Form) Parse(thickness int) (Request, error) {
	x, err := strconv.Atoi(strings.TrimSpace(f.X))
	if err != nil {
		return Request{}, fmt.Errorf("%w: x %q", ErrInvalidInput, f.X)
	}
	y, err := strconv.Atoi(strings.TrimSpace(f.Y))
	if err != nil {
		return Request{}, fmt.Errorf("%w: y %q", ErrInvalidInput, f.Y)
	}

	font, ok := LookupFont(f.Font)
	if !ok {
		return Request{}, fmt.Errorf("%w: font %q", ErrInvalidInput, f.Font)
	}
	c, ok := LookupColor(f.Color)
	if !ok {
		return Request{}, fmt.Errorf("%w: color %q", ErrInvalidInput, f.Color)
	}
	if f.Scale < MinScale || f.Scale > MaxScale {
		return Request{}, fmt.Errorf("%w: size %d", ErrInvalidInput, f.Scale)
	}

	return Request{
		Text:      f.Text,
		Origin:    image.Point{X: x, Y: y},
		Font:      font,
		Scale:     f.Scale,
		Color:     c,
		Thickness: thickness,
	}, nil
}
