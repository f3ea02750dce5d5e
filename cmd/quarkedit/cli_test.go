package main

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/quarkedit/internal/config"
	"github.com/example/quarkedit/internal/imageio"
)

func testRoot() *root {
	return &root{program: "quarkedit", config: config.New(), logger: slog.New(slog.DiscardHandler)}
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x), uint8(y), 80, 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func decodeFile(t *testing.T, path string) (image.Image, string) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, format, err := imageio.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	return img, format
}

func TestParseEditErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"clipboard needs output", []string{"-from-clipboard"}, "output file is required when reading from the clipboard"},
		{"clipboard and file", []string{"-from-clipboard", "-file", "a.png", "-output", "b.png"}, "cannot be combined"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseEditCmd(tc.args, testRoot())
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
	_, err := parseEditCmd(nil, testRoot())
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("err = %v, want UsageError", err)
	}
	if !strings.Contains(uerr.Error(), "quarkedit edit") {
		t.Fatalf("help does not name the subcommand:\n%s", uerr.Error())
	}
}

func TestParseEditPositionalFile(t *testing.T) {
	e, err := parseEditCmd([]string{"photo.png"}, testRoot())
	if err != nil {
		t.Fatal(err)
	}
	if e.file != "photo.png" {
		t.Fatalf("file = %q", e.file)
	}
}

func TestDefaultOutput(t *testing.T) {
	got := defaultOutput("out", "/tmp/holiday.jpeg", imageio.PNG)
	if want := filepath.Join("out", "holiday-edit.png"); got != want {
		t.Fatalf("defaultOutput = %q, want %q", got, want)
	}
}

func TestApplyRecipe(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "in.png"), 40, 20)
	doc := "input: in.png\nsteps:\n  - rotate: 90\n  - text: {value: Hi, color: white}\noutput:\n  name: result\n  format: jpg\n  dir: " + filepath.Join(dir, "out") + "\n"
	recipePath := filepath.Join(dir, "edit.yaml")
	if err := os.WriteFile(recipePath, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	var copied image.Image
	original := writeClipboardFn
	writeClipboardFn = func(img image.Image) error { copied = img; return nil }
	t.Cleanup(func() { writeClipboardFn = original })

	cmd, err := parseApplyCmd([]string{"-recipe", recipePath, "-to-clipboard"}, testRoot())
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	img, format := decodeFile(t, filepath.Join(dir, "out", "result.jpg"))
	if format != "jpeg" || img.Bounds().Size() != image.Pt(20, 40) {
		t.Fatalf("output %s %v", format, img.Bounds())
	}
	if copied == nil || copied.Bounds().Size() != image.Pt(20, 40) {
		t.Fatal("result not copied to the clipboard")
	}
}

func TestApplyFlagsOverrideRecipe(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "other.png"), 10, 10)
	recipePath := filepath.Join(dir, "r.yaml")
	if err := os.WriteFile(recipePath, []byte("input: missing.png\nsteps:\n  - crop: {x: 0, y: 0, w: 4, h: 3}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cmd, err := parseApplyCmd([]string{
		"-recipe", recipePath,
		"-file", filepath.Join(dir, "other.png"),
		"-output", "cropped",
		"-format", "png",
		"-dir", dir,
	}, testRoot())
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	img, format := decodeFile(t, filepath.Join(dir, "cropped.png"))
	if format != "png" || img.Bounds().Size() != image.Pt(4, 3) {
		t.Fatalf("output %s %v", format, img.Bounds())
	}
}

func TestApplyErrors(t *testing.T) {
	dir := t.TempDir()
	recipePath := filepath.Join(dir, "r.yaml")
	if err := os.WriteFile(recipePath, []byte("steps:\n  - rotate: 90\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd, err := parseApplyCmd([]string{"-recipe", recipePath}, testRoot())
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(context.Background()); err == nil || !strings.Contains(err.Error(), "no input image") {
		t.Fatalf("err = %v", err)
	}

	cmd, _ = parseApplyCmd([]string{"-recipe", recipePath, "-from-clipboard"}, testRoot())
	if err := cmd.Run(context.Background()); err == nil || !strings.Contains(err.Error(), "output file is required") {
		t.Fatalf("err = %v", err)
	}

	sentinel := errors.New("no clipboard")
	original := readClipboardFn
	readClipboardFn = func() (image.Image, error) { return nil, sentinel }
	t.Cleanup(func() { readClipboardFn = original })
	cmd, _ = parseApplyCmd([]string{"-recipe", recipePath, "-from-clipboard", "-output", "x"}, testRoot())
	if err := cmd.Run(context.Background()); !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want wrapped clipboard error", err)
	}

	if _, err := parseApplyCmd(nil, testRoot()); err == nil {
		t.Fatal("missing recipe accepted")
	}
}

func TestRootUsage(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	r := newRoot()
	err := r.Run(context.Background(), []string{"bogus"})
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("err = %v, want UsageError", err)
	}
	help := uerr.Error()
	for _, want := range []string{"Usage: quarkedit", "apply", "-notify-export"} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q:\n%s", want, help)
		}
	}
}

func TestVersionString(t *testing.T) {
	if got := versionString("quarkedit version"); got != "quarkedit version dev" {
		t.Fatalf("versionString = %q", got)
	}
}
