package layout

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/typeloop/anim"
	"github.com/ByLCY/typeloop/fonts"
	"github.com/ByLCY/typeloop/renderer"
	canvasrenderer "github.com/ByLCY/typeloop/renderer/canvas"
	rasterrenderer "github.com/ByLCY/typeloop/renderer/raster"
	"github.com/ByLCY/typeloop/settings"
)

func preset(t *testing.T, kind settings.ThemeKind) settings.Settings {
	t.Helper()
	s := settings.Defaults()
	if err := ApplyPreset(&s, kind); err != nil {
		t.Fatalf("apply preset %s: %v", kind, err)
	}
	s.Size = settings.Size{W: 480, H: 320}
	s.Margin = 24
	return s
}

func record(t *testing.T, s *settings.Settings) []renderer.Op {
	t.Helper()
	rec := renderer.NewRecorder(rasterrenderer.New(fonts.Default(), s.Size.W, s.Size.H))
	if err := Render(rec, s); err != nil {
		t.Fatalf("render %s: %v", s.Theme, err)
	}
	return rec.Ops()
}

func opsOfKind(ops []renderer.Op, kind string) []renderer.Op {
	var out []renderer.Op
	for _, op := range ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

func TestGridlinesSingleLine(t *testing.T) {
	s := preset(t, settings.ThemeGridlines)
	s.Text = "ABC"
	s.Lines = 1
	s.MinWeight, s.MaxWeight = 10, 100

	glyphs := renderer.Glyphs(record(t, &s))
	if len(glyphs) != 3 {
		t.Fatalf("expected 3 glyph draws, got %d", len(glyphs))
	}
	if glyphs[0].Weight == glyphs[2].Weight {
		t.Fatalf("gradient expected, weights %v and %v", glyphs[0].Weight, glyphs[2].Weight)
	}

	f := fonts.Default()
	sum := 0.0
	for _, g := range glyphs {
		adv, err := f.Advance([]rune(g.Text)[0], g.Size, fonts.Axes{Weight: g.Weight, Width: g.Width})
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		sum += adv
	}
	x0, _ := glyphs[0].Origin()
	_, _, uw, _ := s.Usable()
	if want := s.Margin + (uw-sum)/2; math.Abs(x0-want) > 1e-6 {
		t.Fatalf("line not centred: first glyph at %v, want %v", x0, want)
	}
}

func TestGridlinesAndMultilineGradientDirection(t *testing.T) {
	grid := preset(t, settings.ThemeGridlines)
	grid.Text = "HELLO WORLD"
	grid.Lines = 2
	multi := preset(t, settings.ThemeMultiline)
	multi.Text = "HELLO WORLD"
	multi.Lines = 2
	multi.ColorMode = anim.ColorMono

	g := renderer.Glyphs(record(t, &grid))
	m := renderer.Glyphs(record(t, &multi))
	if len(m) != 10 {
		t.Fatalf("multiline should draw HELLO and WORLD, got %d glyphs", len(m))
	}
	var top strings.Builder
	for _, op := range m[:5] {
		top.WriteString(op.Text)
	}
	if top.String() != "HELLO" {
		t.Fatalf("first multiline row = %q", top.String())
	}
	// 顶行首字：multiline 行号为 0，从最大字重开始；gridlines 自下而上计数，顶行从最小字重开始
	if m[0].Weight != multi.MaxWeight {
		t.Fatalf("multiline top row should start at max weight, got %v", m[0].Weight)
	}
	if g[0].Weight > (grid.MinWeight+grid.MaxWeight)/2 {
		t.Fatalf("gridlines top row should start near min weight, got %v", g[0].Weight)
	}
}

func TestEmptyTextDrawsBackgroundOnly(t *testing.T) {
	for _, kind := range settings.Themes {
		s := preset(t, kind)
		s.Text = "   "
		ops := record(t, &s)
		if len(ops) != 1 || ops[0].Kind != "background" {
			t.Fatalf("%s: expected only a background, got %+v", kind, ops)
		}
	}
}

func TestBackendsReceiveIdenticalDraws(t *testing.T) {
	f := fonts.Default()
	for _, kind := range settings.Themes {
		s := preset(t, kind)
		s.Time = 1.3
		s.Lines = max(s.Lines, 2)

		raster := renderer.NewRecorder(rasterrenderer.New(f, s.Size.W, s.Size.H))
		vector := renderer.NewRecorder(canvasrenderer.New(f, s.Size.W, s.Size.H))
		if err := Render(raster, &s); err != nil {
			t.Fatalf("%s raster: %v", kind, err)
		}
		if err := Render(vector, &s); err != nil {
			t.Fatalf("%s vector: %v", kind, err)
		}
		if len(renderer.Glyphs(raster.Ops())) == 0 {
			t.Fatalf("%s: no glyphs drawn", kind)
		}
		if diff := cmp.Diff(raster.Ops(), vector.Ops()); diff != "" {
			t.Fatalf("%s: backends diverge (-raster +vector):\n%s", kind, diff)
		}
	}
}

func TestRenderIsRepeatableOutOfOrder(t *testing.T) {
	s := preset(t, settings.ThemeMultiline)
	times := []float64{3.1, 0.2, 4.9, 0.2, 3.1}
	seen := map[float64][]renderer.Op{}
	for _, tm := range times {
		s.Time = tm
		ops := record(t, &s)
		if prev, ok := seen[tm]; ok {
			if diff := cmp.Diff(prev, ops); diff != "" {
				t.Fatalf("time %v rendered differently on revisit:\n%s", tm, diff)
			}
		}
		seen[tm] = ops
	}
}

func TestLigatureRepeatCount(t *testing.T) {
	if got := RepeatCount("ABC"); got != 4 {
		t.Fatalf("RepeatCount(ABC) = %d, want 4", got)
	}
	if got := RepeatCount(""); got != 5 {
		t.Fatalf("short text should clamp to 5, got %d", got)
	}
	if got := RepeatCount(strings.Repeat("X", 40)); got != 2 {
		t.Fatalf("long text should clamp to 2, got %d", got)
	}

	line := LigatureLine("ABC", 0)
	if n := strings.Count(line, string(anim.LigatureLogo)); n != 4 {
		t.Fatalf("expected 4 logos in %q, got %d", line, n)
	}
	if !strings.HasPrefix(LigatureLine("ABC", 1), "ABC") {
		t.Fatalf("odd rows should start with the text")
	}

	s := preset(t, settings.ThemeLigature)
	s.Text = "ABC"
	glyphs := renderer.Glyphs(record(t, &s))
	for _, g := range glyphs {
		if g.Text == string(anim.LigatureLogo) && g.Weight != s.MaxWeight {
			t.Fatalf("ligature glyph animated: weight %v", g.Weight)
		}
	}
	if want := s.Lines * utf8.RuneCountInString(line); len(glyphs) != want {
		t.Fatalf("expected %d glyphs, got %d", want, len(glyphs))
	}
}

func TestTerminalTemplates(t *testing.T) {
	order := TemplateOrder("hello world")
	if diff := cmp.Diff(order, TemplateOrder("hello world")); diff != "" {
		t.Fatalf("order not deterministic:\n%s", diff)
	}
	seen := map[int]bool{}
	for _, i := range order {
		seen[i] = true
	}
	if len(order) != 12 || len(seen) != 12 {
		t.Fatalf("order is not a permutation of 12 templates: %v", order)
	}
	distinct := false
	for _, text := range []string{"a", "b", "c", "d", "e"} {
		if !cmp.Equal(order, TemplateOrder(text)) {
			distinct = true
		}
	}
	if !distinct {
		t.Fatalf("different texts should shuffle differently")
	}

	for j := 0; j < 12; j++ {
		tpl, line := TerminalLine("hello world", j, 7)
		if tpl != Templates[order[j]] {
			t.Fatalf("line %d uses %s, want %s", j, tpl.Name, Templates[order[j]].Name)
		}
		if strings.Contains(line, "${") {
			t.Fatalf("unexpanded placeholder in %q", line)
		}
		want := map[CaseStyle]string{
			CaseKeep: "hello world", CaseLower: "hello world",
			CaseUpper: "HELLO WORLD", CaseTitle: "Hello World",
		}[tpl.Case]
		if !strings.Contains(line, want) {
			t.Fatalf("%s: %q should contain %q", tpl.Name, line, want)
		}
		if tpl.Name == "frame" && !strings.Contains(line, "[007]") {
			t.Fatalf("frame template should show the frame number: %q", line)
		}
	}
	if tpl, _ := TerminalLine("x", 12, 0); tpl != Templates[TemplateOrder("x")[0]] {
		t.Fatalf("templates should repeat round-robin")
	}

	s := preset(t, settings.ThemeTerminal)
	s.Lines = 3
	glyphs := renderer.Glyphs(record(t, &s))
	want := 0
	for j := 0; j < 3; j++ {
		_, line := TerminalLine(s.Text, j, s.Frame())
		want += utf8.RuneCountInString(line)
	}
	if len(glyphs) != want {
		t.Fatalf("expected %d glyphs, got %d", want, len(glyphs))
	}
}

func TestBounceTrajectory(t *testing.T) {
	start := BounceAt(0)
	if start.X != 0 || start.Y != 0.5 || start.Hits != 0 || start.Since != 0 {
		t.Fatalf("unexpected start %+v", start)
	}
	mid := BounceAt(0.2)
	if mid.Hits != 2 || math.Abs(mid.X-0.8) > 1e-9 || math.Abs(mid.Y-0.7) > 1e-9 {
		t.Fatalf("unexpected trajectory at 0.2: %+v", mid)
	}
	if math.Abs(mid.Since-(0.2-1.0/6)) > 1e-9 {
		t.Fatalf("since = %v", mid.Since)
	}
	end := BounceAt(1 - 1e-9)
	if end.Hits != 9 || end.X > 1e-6 {
		t.Fatalf("unexpected end %+v", end)
	}
	// 循环末尾再碰一次边即回到起始颜色
	if bounceMode(anim.ColorOcean, end.Hits+1) != anim.ColorOcean {
		t.Fatalf("colour rotation does not close the loop")
	}
	if bounceMode(anim.ColorMono, 1) != BounceModes[1] {
		t.Fatalf("unknown start mode should rotate from the first entry")
	}
}

func TestBounceFlashAndColourRotation(t *testing.T) {
	s := preset(t, settings.ThemeBounce)
	flashes := func(ops []renderer.Op) int {
		n := 0
		for _, op := range opsOfKind(ops, "fillRect") {
			if op.Layer == 0 && op.W == s.Size.W && op.H == s.Size.H {
				n++
			}
		}
		return n
	}

	s.Time = 0 // 起点即碰边
	ops := record(t, &s)
	if flashes(ops) != 1 {
		t.Fatalf("expected a flash on the edge hit")
	}
	if len(opsOfKind(ops, "composite")) != 1 {
		t.Fatalf("logo should be composited from an offscreen layer")
	}
	for _, g := range renderer.Glyphs(ops) {
		if g.Layer == 0 {
			t.Fatalf("logo glyphs should be drawn offscreen")
		}
		if g.Weight != (s.MinWeight+s.MaxWeight)/2 {
			t.Fatalf("bounce preset has fixed weight, got %v", g.Weight)
		}
	}

	s.Time = 0.5 // 进度 0.1，距上次碰边已超过闪光时长
	if n := flashes(record(t, &s)); n != 0 {
		t.Fatalf("flash should have faded, got %d", n)
	}

	s.Time = 1.0 // 进度 0.2，已碰边两次
	ops = record(t, &s)
	want := anim.RoleColor(bounceMode(s.ColorMode, 2), anim.RoleBackground).Hex()
	if ops[0].Kind != "background" || ops[0].Color != want {
		t.Fatalf("background = %+v, want colour %s", ops[0], want)
	}
}

func TestToggleTwoRows(t *testing.T) {
	s := preset(t, settings.ThemeToggle)
	s.Lines = 2
	s.Time = 1.25 // 相位接近 π/2：第一行开关在右端，第二行反相在左端
	ops := record(t, &s)

	pills := opsOfKind(ops, "pill")
	if len(pills) != 2 {
		t.Fatalf("expected 2 pills, got %d", len(pills))
	}
	p0, _ := pills[0].Origin()
	p1, _ := pills[1].Origin()
	if p0 != p1 || pills[0].W != pills[1].W {
		t.Fatalf("pills should be aligned: %+v %+v", pills[0], pills[1])
	}
	if !(pills[0].Weight > pills[1].Weight) {
		t.Fatalf("rows should animate in opposite phase: knobs at %v and %v", pills[0].Weight, pills[1].Weight)
	}
	if n := len(renderer.Glyphs(ops)); n != 8 {
		t.Fatalf("expected DARK and MODE labels, got %d glyphs", n)
	}
}

func TestRenderErrors(t *testing.T) {
	s := preset(t, settings.ThemeClassic)
	s.Speed = 0
	if err := Render(rasterrenderer.New(fonts.Default(), 10, 10), &s); !errors.Is(err, settings.ErrInvalid) {
		t.Fatalf("expected validation error, got %v", err)
	}

	s = preset(t, settings.ThemeClassic)
	if err := Render(renderer.Unimplemented{}, &s); !errors.Is(err, renderer.ErrUnsupported) {
		t.Fatalf("expected unsupported error, got %v", err)
	}
	if err := Render(rasterrenderer.New(fonts.New(), 10, 10), &s); !errors.Is(err, fonts.ErrNotLoaded) {
		t.Fatalf("expected font not loaded, got %v", err)
	}
	if err := Render(nil, &s); err == nil {
		t.Fatalf("nil renderer should fail")
	}
}

func TestPresetTable(t *testing.T) {
	ps := Presets()
	if len(ps) != len(settings.Themes) {
		t.Fatalf("expected %d presets, got %d", len(settings.Themes), len(ps))
	}
	for i, p := range ps {
		if p.Kind != settings.Themes[i] || p.Layout == nil || p.Lines < 1 || p.Text == "" {
			t.Fatalf("incomplete preset %+v", p)
		}
		if !p.Has(ControlText) {
			t.Fatalf("%s should expose the text control", p.Kind)
		}
	}
	if _, err := Lookup("nope"); err == nil {
		t.Fatalf("unknown theme should fail")
	}

	s := settings.Defaults()
	if err := ApplyPreset(&s, settings.ThemeTerminal); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if s.Theme != settings.ThemeTerminal || s.Lines != 6 || s.ColorMode != anim.ColorInverted {
		t.Fatalf("preset not applied: %+v", s)
	}
}

func TestCaptureWritesDebugJSON(t *testing.T) {
	s := preset(t, settings.ThemeClassic)
	res, err := Capture(rasterrenderer.New(fonts.Default(), s.Size.W, s.Size.H), &s)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if len(res.Glyphs()) != utf8.RuneCountInString(s.Text) {
		t.Fatalf("expected one glyph per rune, got %d", len(res.Glyphs()))
	}
	path := filepath.Join(t.TempDir(), "debug.json")
	if err := WriteDebugJSON(res, path); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var decoded Result
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Theme != settings.ThemeClassic || len(decoded.Ops) != len(res.Ops) {
		t.Fatalf("round trip lost data: %+v", decoded)
	}
}
