package runner_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fiwarelab/gavel/internal/runner"
)

func writeCaseFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing case file: %v", err)
	}
	return path
}

func TestLoadCasesJSONL(t *testing.T) {
	path := writeCaseFile(t, "cases.jsonl", `# benchmark cases
{"id":"c1","model":"gpt-4o","user_prompt":"how many?","model_answer_text":"13","mcp_trace":{"call_count":1,"queries":["/v2/entities?type=Animal&count=true&limit=1"]},"gold":{"numeric":13}}

{"user_prompt":"no id","model_answer_text":"n/a"}
`)
	cases, err := runner.LoadCases(path)
	if err != nil {
		t.Fatalf("LoadCases: %v", err)
	}
	if len(cases) != 2 {
		t.Fatalf("got %d cases, want 2", len(cases))
	}
	c := cases[0]
	if c.ID != "c1" || c.Model != "gpt-4o" || c.Trace.CallCount != 1 {
		t.Errorf("first case: %+v", c)
	}
	if c.Gold.Numeric == nil || *c.Gold.Numeric != 13 {
		t.Errorf("gold numeric not parsed: %+v", c.Gold)
	}
	if cases[1].ID == "" {
		t.Error("blank id should be assigned")
	}
}

func TestLoadCasesJSONLBadLine(t *testing.T) {
	path := writeCaseFile(t, "cases.jsonl", `{"user_prompt":"ok"}
{not json}
`)
	if _, err := runner.LoadCases(path); err == nil {
		t.Error("expected error for malformed line")
	}
}

func TestLoadCasesCSV(t *testing.T) {
	path := writeCaseFile(t, "cases.csv", `id,model,prompt,answer_text,answer_json,queries,call_count,usage,gold,policy,notes
c1,gpt-4o,How many animals on parcel 005?,There are 13 animals.,,"/v2/entities?type=Animal&q=locatedAt==urn:parcel:005&count=true&limit=1;/v2/entities/urn:parcel:005",2,"{""total_tokens"":900}","{""numeric"":13}","{""pass_threshold"":0.8}",graded proximity
,, bare prompt only ,,,,,,,,
`)
	cases, err := runner.LoadCases(path)
	if err != nil {
		t.Fatalf("LoadCases: %v", err)
	}
	if len(cases) != 2 {
		t.Fatalf("got %d cases, want 2", len(cases))
	}

	c := cases[0]
	if c.ID != "c1" || c.UserPrompt != "How many animals on parcel 005?" {
		t.Errorf("row fields: %+v", c)
	}
	if len(c.Trace.Queries) != 2 || c.Trace.CallCount != 2 {
		t.Errorf("trace: %+v", c.Trace)
	}
	if c.Trace.Usage == nil || c.Trace.Usage.TotalTokens != 900 {
		t.Errorf("usage: %+v", c.Trace.Usage)
	}
	if c.Gold.Numeric == nil || *c.Gold.Numeric != 13 {
		t.Errorf("gold: %+v", c.Gold)
	}
	if c.PassThreshold == nil || *c.PassThreshold != 0.8 {
		t.Errorf("policy override: %+v", c.Overrides)
	}
	if c.Notes == nil || *c.Notes != "graded proximity" {
		t.Errorf("notes: %v", c.Notes)
	}

	if cases[1].UserPrompt != "bare prompt only" {
		t.Errorf("prompt not trimmed: %q", cases[1].UserPrompt)
	}
	if cases[1].ID == "" {
		t.Error("blank id should be assigned")
	}
}

func TestLoadCasesCSVQueriesJSONArray(t *testing.T) {
	path := writeCaseFile(t, "cases.csv", `prompt,queries
q,"[""/v2/entities/urn:a"",""/v2/entities/urn:b""]"
`)
	cases, err := runner.LoadCases(path)
	if err != nil {
		t.Fatalf("LoadCases: %v", err)
	}
	if got := len(cases[0].Trace.Queries); got != 2 {
		t.Errorf("got %d queries, want 2", got)
	}
}

func TestLoadCasesCSVByteOrderMark(t *testing.T) {
	path := writeCaseFile(t, "cases.csv", "\ufeffid,prompt\nc1,How many animals?\n")
	cases, err := runner.LoadCases(path)
	if err != nil {
		t.Fatalf("LoadCases: %v", err)
	}
	if len(cases) != 1 || cases[0].ID != "c1" || cases[0].UserPrompt != "How many animals?" {
		t.Errorf("BOM header not stripped: %+v", cases[0])
	}
}

func TestLoadCasesCSVMissingPrompt(t *testing.T) {
	path := writeCaseFile(t, "cases.csv", "id,model\nc1,gpt-4o\n")
	if _, err := runner.LoadCases(path); err == nil {
		t.Error("expected error for missing prompt column")
	}
}

func TestLoadCasesUnsupportedExtension(t *testing.T) {
	path := writeCaseFile(t, "cases.txt", "whatever")
	if _, err := runner.LoadCases(path); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
