package clipboard

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/example/quarkedit/internal/imageio"
)

func TestEncodeDecode(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(2, 1, color.RGBA{9, 8, 7, 255})
	data, err := encodePNG(img)
	if err != nil {
		t.Fatalf("encodePNG: %v", err)
	}
	out, err := decodeImage(data)
	if err != nil {
		t.Fatalf("decodeImage: %v", err)
	}
	if r, g, b, _ := out.At(2, 1).RGBA(); r>>8 != 9 || g>>8 != 8 || b>>8 != 7 {
		t.Fatalf("pixel = %v", out.At(2, 1))
	}
	if _, err := decodeImage(nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("err = %v, want ErrEmpty", err)
	}
	if _, err := decodeImage([]byte("text/plain")); !errors.Is(err, imageio.ErrDecode) {
		t.Fatalf("err = %v, want ErrDecode", err)
	}
	if _, err := encodePNG(nil); err == nil {
		t.Fatal("expected error for nil image")
	}
}
