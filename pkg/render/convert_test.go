package render

import (
	"testing"

	"github.com/matzehuels/stackdeck/pkg/errors"
)

func TestConvertSVGPassthrough(t *testing.T) {
	in := []byte("<svg/>")
	for _, format := range []string{"", FormatSVG} {
		out, err := Convert(in, format, 1)
		if err != nil {
			t.Fatalf("Convert(%q): %v", format, err)
		}
		if string(out) != string(in) {
			t.Errorf("Convert(%q) = %s, want input unchanged", format, out)
		}
	}
}

func TestConvertUnknownFormat(t *testing.T) {
	_, err := Convert([]byte("<svg/>"), "gif", 1)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestConvertMissingTool(t *testing.T) {
	old := converter
	converter = "stackdeck-no-such-converter"
	t.Cleanup(func() { converter = old })

	for _, format := range []string{FormatPNG, FormatPDF} {
		_, err := Convert([]byte("<svg/>"), format, 2)
		if !errors.Is(err, errors.ErrCodeNotFound) {
			t.Errorf("Convert(%q) err = %v, want NOT_FOUND", format, err)
		}
	}
}
