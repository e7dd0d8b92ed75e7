package export

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/typeloop/fonts"
	"github.com/ByLCY/typeloop/layout"
	"github.com/ByLCY/typeloop/settings"
)

func scene(t *testing.T, kind settings.ThemeKind) settings.Settings {
	t.Helper()
	s := settings.Defaults()
	if err := layout.ApplyPreset(&s, kind); err != nil {
		t.Fatalf("apply preset: %v", err)
	}
	s.Size = settings.Size{W: 96, H: 64}
	s.Margin = 6
	s.Time = 1.5
	return s
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"png": FormatPNG, ".SVG": FormatSVG, "Pdf": FormatPDF} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("gif"); !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
	if f, err := FormatFromPath("out/a.pdf"); err != nil || f != FormatPDF {
		t.Fatalf("FormatFromPath = %q, %v", f, err)
	}
}

func TestFrameOverridesAndRestores(t *testing.T) {
	s := scene(t, settings.ThemeClassic)
	before := s
	margin := 2.0
	var buf bytes.Buffer
	err := Frame(&buf, fonts.Default(), &s, Options{
		Format: FormatPNG,
		Time:   3,
		Size:   settings.Size{W: 40, H: 30},
		Margin: &margin,
	})
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Fatalf("image size = %v, want 40x30", b)
	}
	if diff := cmp.Diff(before, s); diff != "" {
		t.Fatalf("settings not restored (-want +got):\n%s", diff)
	}
}

func TestFrameRestoresOnError(t *testing.T) {
	s := scene(t, settings.ThemeClassic)
	s.Speed = 0
	before := s
	err := Frame(&bytes.Buffer{}, fonts.Default(), &s, Options{Format: FormatSVG, Time: 9})
	if !errors.Is(err, settings.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if diff := cmp.Diff(before, s); diff != "" {
		t.Fatalf("settings not restored after error (-want +got):\n%s", diff)
	}

	s.Speed = 1
	if err := Frame(&bytes.Buffer{}, fonts.Default(), &s, Options{Format: "gif"}); !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
}

func TestFrameVectorFormats(t *testing.T) {
	s := scene(t, settings.ThemeMultiline)

	var svg, minified bytes.Buffer
	if err := Frame(&svg, fonts.Default(), &s, Options{Format: FormatSVG}); err != nil {
		t.Fatalf("svg: %v", err)
	}
	if err := Frame(&minified, fonts.Default(), &s, Options{Format: FormatSVG, Minify: true}); err != nil {
		t.Fatalf("minified svg: %v", err)
	}
	if !strings.Contains(svg.String(), "<svg") || minified.Len() >= svg.Len() {
		t.Fatalf("unexpected svg output: %d bytes, minified %d bytes", svg.Len(), minified.Len())
	}

	var pdf bytes.Buffer
	if err := Frame(&pdf, fonts.Default(), &s, Options{Format: FormatPDF}); err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if !bytes.HasPrefix(pdf.Bytes(), []byte("%PDF")) {
		t.Fatalf("pdf output missing header")
	}
}

func TestWriteFileWithDebug(t *testing.T) {
	dir := t.TempDir()
	s := scene(t, settings.ThemeGridlines)
	out := filepath.Join(dir, "nested", "grid.svg")
	debug := filepath.Join(dir, "debug", "grid.json")
	if err := WriteFile(out, fonts.Default(), &s, Options{Debug: debug}); err != nil {
		t.Fatalf("write file: %v", err)
	}
	for _, p := range []string{out, debug} {
		if info, err := os.Stat(p); err != nil || info.Size() == 0 {
			t.Fatalf("missing output %s: %v", p, err)
		}
	}
	if err := WriteFile(filepath.Join(dir, "grid.bmp"), fonts.Default(), &s, Options{}); !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
}

func TestLoopFrames(t *testing.T) {
	s := settings.Defaults()
	cases := []struct {
		speed float64
		fps   int
		want  int
	}{
		{1, 30, 150},
		{2, 30, 75},
		{1, 15, 75},
		{1, 0, 150},
	}
	for _, c := range cases {
		s.Speed = c.speed
		if got := LoopFrames(&s, c.fps); got != c.want {
			t.Fatalf("LoopFrames(speed=%g, fps=%d) = %d, want %d", c.speed, c.fps, got, c.want)
		}
	}
}

func TestSequenceOrderIndependent(t *testing.T) {
	s := scene(t, settings.ThemeBounce)
	before := s
	ctx := context.Background()

	inOrder, err := Sequence(ctx, fonts.Default(), &s, SequenceOptions{Dir: t.TempDir(), Frames: 4})
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	shuffled, err := Sequence(ctx, fonts.Default(), &s, SequenceOptions{
		Dir:    t.TempDir(),
		Frames: 4,
		Order:  []int{3, 1, 0, 2},
	})
	if err != nil {
		t.Fatalf("shuffled: %v", err)
	}
	if len(inOrder) != 4 || len(shuffled) != 4 {
		t.Fatalf("frame count %d / %d, want 4", len(inOrder), len(shuffled))
	}
	for i := range inOrder {
		if filepath.Base(inOrder[i]) != filepath.Base(shuffled[i]) {
			t.Fatalf("frame %d names differ: %s vs %s", i, inOrder[i], shuffled[i])
		}
		a, errA := os.ReadFile(inOrder[i])
		b, errB := os.ReadFile(shuffled[i])
		if errA != nil || errB != nil {
			t.Fatalf("read frame %d: %v %v", i, errA, errB)
		}
		if !bytes.Equal(a, b) {
			t.Fatalf("frame %d differs between render orders", i)
		}
	}
	if diff := cmp.Diff(before, s); diff != "" {
		t.Fatalf("settings not restored (-want +got):\n%s", diff)
	}
}

func TestSequenceErrors(t *testing.T) {
	s := scene(t, settings.ThemeClassic)
	_, err := Sequence(context.Background(), fonts.Default(), &s, SequenceOptions{
		Dir:    t.TempDir(),
		Frames: 2,
		Order:  []int{0, 2},
	})
	if err == nil || !strings.Contains(err.Error(), "超出范围") {
		t.Fatalf("expected range error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Sequence(ctx, fonts.Default(), &s, SequenceOptions{Dir: t.TempDir(), Frames: 2}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
