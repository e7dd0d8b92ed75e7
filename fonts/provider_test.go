package fonts

import (
	"errors"
	"math"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/typeloop/anim"
)

func TestNotLoadedReportsError(t *testing.T) {
	p := New()
	if _, err := p.Measure("abc", 12, Axes{}); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
	if _, _, err := p.Path("abc", 0, 0, 12, Axes{}); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded from Path, got %v", err)
	}
	if _, err := p.Ascender(12); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded from Ascender, got %v", err)
	}
	if p.HasGlyph('a') {
		t.Fatalf("empty provider should not report glyphs")
	}
}

func TestMeasureScalesWithSize(t *testing.T) {
	p := Default()
	a, err := p.Measure("Hello", 10, Axes{Weight: 400})
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	b, err := p.Measure("Hello", 20, Axes{Weight: 400})
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	if a <= 0 || math.Abs(b-2*a) > 1e-6 {
		t.Fatalf("width should scale linearly: %g vs %g", a, b)
	}
	one, _ := p.Measure("H", 10, Axes{})
	adv, _ := p.Advance('H', 10, Axes{})
	if math.Abs(one-adv) > 1e-9 {
		t.Fatalf("Advance and Measure disagree: %g vs %g", adv, one)
	}
}

func TestPathSitsOnBaseline(t *testing.T) {
	p := Default()
	path, adv, err := p.Path("H", 100, 200, 50, Axes{})
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if path.Empty() {
		t.Fatalf("expected outline for H")
	}
	b := path.Bounds()
	if b.Y0 >= 200 || b.Y1 > 200.001 {
		t.Fatalf("H should rise above the baseline, got bounds %+v", b)
	}
	if b.X0 < 100 || b.X1 > 100+adv+0.001 {
		t.Fatalf("outline %+v escapes advance %g", b, adv)
	}
}

func TestExtents(t *testing.T) {
	p := Default()
	asc, err := p.Ascender(100)
	if err != nil {
		t.Fatalf("ascender: %v", err)
	}
	desc, err := p.Descender(100)
	if err != nil {
		t.Fatalf("descender: %v", err)
	}
	if asc <= 0 || desc >= 0 {
		t.Fatalf("unexpected extents asc=%g desc=%g", asc, desc)
	}
}

func TestToggleStructure(t *testing.T) {
	p := Default()
	// Go Regular has no toggle glyph in the private use area.
	if _, ok, err := p.ToggleStructure(anim.ToggleOutline); err != nil || ok {
		t.Fatalf("expected no toggle structure, ok=%v err=%v", ok, err)
	}
	// 'o' has an outer and inner contour, which is enough to exercise the analysis.
	shape, ok, err := p.ToggleStructure('o')
	if err != nil || !ok {
		t.Fatalf("expected structure for 'o', ok=%v err=%v", ok, err)
	}
	if shape.Track.W()*shape.Track.H() <= shape.Knob.W()*shape.Knob.H() {
		t.Fatalf("track should be larger than knob: %+v", shape)
	}
	again, _, _ := p.ToggleStructure('o')
	if again != shape {
		t.Fatalf("cached structure differs")
	}
}

func TestReadAndOpen(t *testing.T) {
	if _, err := Read("builtin:nope"); err == nil {
		t.Fatalf("unknown builtin should fail")
	}
	for _, name := range Builtins() {
		if _, err := Read(name); err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
	}
	p, err := Open(filepath.Join(t.TempDir(), "missing.ttf"))
	if err != nil {
		t.Fatalf("missing file should fall back: %v", err)
	}
	if p.Name() != DefaultSource || !p.Loaded() {
		t.Fatalf("expected fallback to %s, got %q", DefaultSource, p.Name())
	}
	if err := New().Load("junk", []byte("not a font")); err == nil {
		t.Fatalf("garbage data should fail to parse")
	}
}

func TestToggleStructureFollowsReload(t *testing.T) {
	p := New()
	if err := p.Load("regular", goregular.TTF); err != nil {
		t.Fatalf("load: %v", err)
	}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			data := goregular.TTF
			if i%2 == 0 {
				data = gomono.TTF
			}
			if err := p.Load("swap", data); err != nil {
				t.Errorf("load: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if _, _, err := p.ToggleStructure('o'); err != nil {
				t.Errorf("toggle: %v", err)
				return
			}
		}
	}()
	wg.Wait()

	// 缓存中的结果必须来自最后加载的字体
	shape, ok, err := p.ToggleStructure('o')
	if err != nil || !ok {
		t.Fatalf("expected structure for 'o', ok=%v err=%v", ok, err)
	}
	adv, err := p.Advance('o', 1, Axes{})
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if math.Abs(shape.Advance-adv) > 1e-9 {
		t.Fatalf("cached advance %g does not match current font %g", shape.Advance, adv)
	}

	if err := p.Load("mono", gomono.TTF); err != nil {
		t.Fatalf("load: %v", err)
	}
	mono, _, _ := p.ToggleStructure('o')
	monoAdv, _ := p.Advance('o', 1, Axes{})
	if math.Abs(mono.Advance-monoAdv) > 1e-9 {
		t.Fatalf("reload did not refresh cache: %g vs %g", mono.Advance, monoAdv)
	}
}
