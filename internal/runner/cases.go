package runner

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/fiwarelab/gavel/internal/grade"
	"github.com/fiwarelab/gavel/internal/policy"
)

// LoadCases reads grading requests from a case file. JSONL files
// carry one request per line in the wire contract shape; CSV files
// use the benchmark column layout below. Rows without an id get one
// assigned so every case lands in its own result directory.
func LoadCases(path string) ([]*grade.Request, error) {
	var (
		cases []*grade.Request
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		cases, err = loadJSONL(path)
	case ".csv":
		cases, err = loadCSV(path)
	default:
		return nil, fmt.Errorf("unsupported case file %s: want .csv or .jsonl", path)
	}
	if err != nil {
		return nil, err
	}
	for _, c := range cases {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
	}
	return cases, nil
}

func loadJSONL(path string) ([]*grade.Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening case file: %w", err)
	}
	defer f.Close()

	var cases []*grade.Request
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		req, err := grade.ParseRequest([]byte(line))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		cases = append(cases, req)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading case file: %w", err)
	}
	return cases, nil
}

// CSV columns: id, model, prompt, answer_text, answer_json, queries,
// call_count, usage, gold, policy, notes. queries is a JSON array or
// a semicolon-separated list; answer_json, usage, gold and policy are
// JSON objects; all columns except prompt may be empty.
func loadCSV(path string) ([]*grade.Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening case file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	if _, ok := col["prompt"]; !ok {
		return nil, fmt.Errorf("case file %s: missing required column \"prompt\"", path)
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var cases []*grade.Request
	rowNum := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row: %w", err)
		}
		rowNum++
		req, err := rowToRequest(row, field)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		cases = append(cases, req)
	}
	return cases, nil
}

func rowToRequest(row []string, field func([]string, string) string) (*grade.Request, error) {
	req := &grade.Request{
		ID:              field(row, "id"),
		Model:           field(row, "model"),
		UserPrompt:      field(row, "prompt"),
		ModelAnswerText: field(row, "answer_text"),
	}

	if raw := field(row, "answer_json"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.ModelAnswerJSON); err != nil {
			return nil, fmt.Errorf("answer_json: %w", err)
		}
	}
	if raw := field(row, "queries"); raw != "" {
		queries, err := parseQueries(raw)
		if err != nil {
			return nil, fmt.Errorf("queries: %w", err)
		}
		req.Trace.Queries = queries
	}
	if raw := field(row, "call_count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("call_count: %w", err)
		}
		req.Trace.CallCount = n
	}
	if raw := field(row, "usage"); raw != "" {
		var usage grade.Usage
		if err := json.Unmarshal([]byte(raw), &usage); err != nil {
			return nil, fmt.Errorf("usage: %w", err)
		}
		req.Trace.Usage = &usage
	}
	if raw := field(row, "gold"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Gold); err != nil {
			return nil, fmt.Errorf("gold: %w", err)
		}
	}
	if raw := field(row, "policy"); raw != "" {
		var o policy.Overrides
		if err := json.Unmarshal([]byte(raw), &o); err != nil {
			return nil, fmt.Errorf("policy: %w", err)
		}
		req.Overrides = o
	}
	if raw := field(row, "notes"); raw != "" {
		notes := raw
		req.Notes = &notes
	}
	return req, nil
}

// parseQueries accepts either a JSON string array or a
// semicolon-separated list.
func parseQueries(raw string) ([]string, error) {
	if strings.HasPrefix(raw, "[") {
		var queries []string
		if err := json.Unmarshal([]byte(raw), &queries); err != nil {
			return nil, err
		}
		return queries, nil
	}
	var queries []string
	for _, q := range strings.Split(raw, ";") {
		q = strings.TrimSpace(q)
		if q != "" {
			queries = append(queries, q)
		}
	}
	return queries, nil
}
