package binding

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInterpolate(t *testing.T) {
	data := map[string]any{
		"text": "HELLO",
		"user": map[string]any{"name": "Ada", "scores": []any{3.0, 4.5}},
	}
	cases := map[string]string{
		"$ echo ${text}":          "$ echo HELLO",
		"${user.name}!":           "Ada!",
		"${ user.scores[1] }":     "4.5",
		"${user.scores[0]}":       "3",
		"${user.missing} stays":   "${user.missing} stays",
		"${user.scores[9]}":       "${user.scores[9]}",
		"${user.name[0]}":         "${user.name[0]}",
		"plain text, no bindings": "plain text, no bindings",
	}
	for in, want := range cases {
		if got := Interpolate(in, data); got != want {
			t.Fatalf("Interpolate(%q) = %q, want %q", in, got, want)
		}
	}
	if got := Interpolate("${text}", nil); got != "${text}" {
		t.Fatalf("nil data should keep placeholders, got %q", got)
	}
}

func TestExpandReportsMissing(t *testing.T) {
	out, missing := Expand("${a} ${b} ${a} ${c.d}", map[string]any{"b": "x"})
	if out != "${a} x ${a} ${c.d}" {
		t.Fatalf("unexpected output %q", out)
	}
	if diff := cmp.Diff([]string{"a", "c.d"}, missing); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "a", "c.d"}, Fields("${a} ${b} ${a} ${ c.d }")); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}
