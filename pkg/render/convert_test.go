package render

import (
	"bytes"
	"testing"

	"github.com/matzehuels/truchet/pkg/errors"
)

func TestToPDFMissingConverter(t *testing.T) {
	old := converter
	converter = "rsvg-convert-does-not-exist"
	t.Cleanup(func() { converter = old })

	_, err := ToPDF([]byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`))
	if err == nil {
		t.Fatal("ToPDF() should fail without the converter")
	}
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeUnsupported)
	}
}

func TestToPDF(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	pdf, err := ToPDF([]byte(`<svg xmlns="http://www.w3.org/2000/svg" width="24" height="24"><rect width="24" height="24"/></svg>`))
	if err != nil {
		t.Fatalf("ToPDF() error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("output does not look like a PDF: %q", pdf[:min(len(pdf), 8)])
	}
}
