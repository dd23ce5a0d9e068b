package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"cloudoodle/internal/gallery"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{0, 128, 255, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPDF(t *testing.T) {
	d := gallery.Doodle{ID: "d1", Title: "Cloud Bunny", Description: "Created Mar 5, 2024"}
	var buf bytes.Buffer
	if err := PDF(&buf, d, testPNG(t, 80, 60)); err != nil {
		t.Fatal(err)
	}
	out := buf.Bytes()
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output does not start with a PDF header: %q", out[:min(len(out), 16)])
	}
	for _, want := range []string{"/Subtype /Image", "/Title"} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("output lacks %q", want)
		}
	}
}

func TestPDFRejectsBadImage(t *testing.T) {
	var buf bytes.Buffer
	if err := PDF(&buf, gallery.Doodle{ID: "x", Title: "x"}, []byte("not a png")); err == nil {
		t.Error("PDF accepted a non-image")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bunny.pdf")
	if err := WriteFile(path, gallery.Doodle{ID: "d1", Title: "Bunny"}, testPNG(t, 10, 20)); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("empty pdf")
	}

	bad := filepath.Join(t.TempDir(), "bad.pdf")
	if err := WriteFile(bad, gallery.Doodle{ID: "d1", Title: "Bunny"}, nil); err == nil {
		t.Error("WriteFile accepted empty image")
	}
	if _, err := os.Stat(bad); !os.IsNotExist(err) {
		t.Error("failed export left a file behind")
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		w, h         float64
		x, y, fw, fh float64
	}{
		{100, 50, 10, 20, 100, 50},
		{50, 100, 35, 20, 50, 100},
		{10, 10, 10, 20, 100, 100},
	}
	for _, tt := range tests {
		x, y, fw, fh := fit(tt.w, tt.h, 10, 20, 100, 100)
		if x != tt.x || y != tt.y || fw != tt.fw || fh != tt.fh {
			t.Errorf("fit(%v, %v) = %v %v %v %v, want %v %v %v %v",
				tt.w, tt.h, x, y, fw, fh, tt.x, tt.y, tt.fw, tt.fh)
		}
	}
}
