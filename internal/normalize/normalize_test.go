package normalize_test

import (
	"reflect"
	"testing"

	"github.com/fiwarelab/gavel/internal/normalize"
)

func TestExtractNumeric(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		json   any
		want   float64
		wantOK bool
	}{
		{"bare integer text", "13", nil, 13, true},
		{"integer in prose", "There are 13 animals on the parcel.", nil, 13, true},
		{"decimal with sign", "temperature is -3.5 degrees", nil, -3.5, true},
		{"spelled out only", "one hundred", nil, 0, false},
		{"empty", "", nil, 0, false},
		{"lone json number", "", float64(42), 42, true},
		{"single field object", "", map[string]any{"count": float64(13)}, 13, true},
		{"nested single chain", "", map[string]any{"result": map[string]any{"count": float64(7)}}, 7, true},
		{"single element array", "", []any{float64(9)}, 9, true},
		{"ambiguous object falls to text", "around 5 in total", map[string]any{"a": float64(1), "b": float64(2)}, 5, true},
		{"digits inside identifier skipped", "see urn:ngsi-ld:Animal:042 for 13 records", nil, 13, true},
		{"version-like token skipped", "per ngsi-ld/v1 the count is 8", nil, 8, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := normalize.ExtractNumeric(tt.text, tt.json)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("got %f, want %f", got, tt.want)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	obj := map[string]any{"count": float64(13)}

	got, ok := normalize.ExtractJSON("", obj)
	if !ok || !reflect.DeepEqual(got, obj) {
		t.Errorf("structured answer preferred: got %v ok=%v", got, ok)
	}

	got, ok = normalize.ExtractJSON(`The result is {"count": 13} as requested.`, nil)
	if !ok {
		t.Fatal("expected JSON from prose-wrapped text")
	}
	if !reflect.DeepEqual(got, obj) {
		t.Errorf("got %v, want %v", got, obj)
	}

	got, ok = normalize.ExtractJSON(`Values: [1, 2, 3] done`, nil)
	if !ok {
		t.Fatal("expected array from prose-wrapped text")
	}
	if !reflect.DeepEqual(got, []any{float64(1), float64(2), float64(3)}) {
		t.Errorf("got %v", got)
	}

	if _, ok := normalize.ExtractJSON(`{"unterminated": `, nil); ok {
		t.Error("malformed JSON must be absent, not an error")
	}
	if _, ok := normalize.ExtractJSON("no structure here", nil); ok {
		t.Error("plain prose has no JSON view")
	}
	if _, ok := normalize.ExtractJSON(`"just a string"`, nil); ok {
		t.Error("a bare string is not a structured answer")
	}
}

func TestExtractJSONBracesInsideStrings(t *testing.T) {
	text := `answer: {"note": "use {curly} braces", "n": 1} end`
	got, ok := normalize.ExtractJSON(text, nil)
	if !ok {
		t.Fatal("expected balanced span to honor strings")
	}
	m, ok := got.(map[string]any)
	if !ok || m["n"] != float64(1) {
		t.Errorf("got %v", got)
	}
}

func TestNormalizeQueries(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases path only", "/NGSI-LD/v1/Entities?type=Animal", "/ngsi-ld/v1/entities?type=Animal"},
		{"strips whitespace", " /entities ?type=Animal &q=a==b ", "/entities?type=Animal&q=a==b"},
		{"drops default limit", "/entities?type=Animal&limit=20", "/entities?type=Animal"},
		{"keeps explicit limit", "/entities?type=Animal&limit=100", "/entities?type=Animal&limit=100"},
		{"drops default offset", "/entities?offset=0&type=Animal", "/entities?type=Animal"},
		{"keeps parameter order", "/entities?q=b==1&type=Animal", "/entities?q=b==1&type=Animal"},
		{"no params", "/entities", "/entities"},
		{"all params default", "/entities?limit=20&offset=0", "/entities"},
		{"keeps space in quoted value", `/entities?q=name=="Old Barn"`, `/entities?q=name=="Old Barn"`},
		{"strips space around quoted value", ` /entities ?q=name== "Old Barn" &type=Building `, `/entities?q=name=="Old Barn"&type=Building`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize.NormalizeQuery(tt.in)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeQueriesKeepsOrder(t *testing.T) {
	got := normalize.NormalizeQueries([]string{"/B", "/A"})
	want := []string{"/b", "/a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNormalizeAnswerViews(t *testing.T) {
	a := normalize.Normalize("There are 13 animals", nil)
	if a.Numeric == nil || *a.Numeric != 13 {
		t.Errorf("numeric view: got %v", a.Numeric)
	}
	if a.JSON != nil {
		t.Errorf("json view should be absent, got %v", a.JSON)
	}
	if a.Text == nil || *a.Text != "There are 13 animals" {
		t.Errorf("text view: got %v", a.Text)
	}

	empty := normalize.Normalize("   ", nil)
	if empty.Numeric != nil || empty.JSON != nil || empty.Text != nil {
		t.Errorf("blank answer must have no views: %+v", empty)
	}
}
