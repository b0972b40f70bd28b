package overlay

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() Form {
	return Form{Text: "Your Text Here", X: "50", Y: "100", Font: "Regular", Color: "White", Scale: 2}
}

func TestParseValidForm(t *testing.T) {
	req, err := validForm().Parse(2)
	require.NoError(t, err)

	assert.Equal(t, "Your Text Here", req.Text)
	assert.Equal(t, image.Pt(50, 100), req.Origin)
	assert.Equal(t, FontRegular, req.Font)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, req.Color)
	assert.Equal(t, 2, req.Scale)
	assert.Equal(t, 2, req.Thickness)
}

func TestParseAllowsNegativeAndPaddedCoordinates(t *testing.T) {
	f := validForm()
	f.X, f.Y = " -20 ", "5000"

	req, err := f.Parse(2)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(-20, 5000), req.Origin)
}

func TestParseRejectsInvalidInput(t *testing.T) {
	tests := map[string]func(*Form){
		"x not a number": func(f *Form) { f.X = "abc" },
		"y empty":        func(f *Form) { f.Y = "" },
		"x float":        func(f *Form) { f.X = "1.5" },
		"unknown font":   func(f *Form) { f.Font = "Comic" },
		"unknown color":  func(f *Form) { f.Color = "Purple" },
		"size too small": func(f *Form) { f.Scale = 0 },
		"size too large": func(f *Form) { f.Scale = 6 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			f := validForm()
			mutate(&f)
			_, err := f.Parse(2)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestChoicesAreOrdered(t *testing.T) {
	assert.Equal(t, []string{"Regular", "Bold", "Italic", "Script", "Fancy"}, FontNames())
	assert.Equal(t, []string{"Red", "Green", "Blue", "Yellow", "White", "Black"}, ColorNames())

	yellow, ok := LookupColor("Yellow")
	require.True(t, ok)
	assert.Equal(t, color.RGBA{R: 255, G: 255, A: 255}, yellow)
}
