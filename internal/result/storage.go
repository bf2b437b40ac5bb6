package result

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fiwarelab/gavel/internal/grade"
)

func CreateRunDir(baseDir string) (string, error) {
	runsDir := filepath.Join(baseDir, "runs")
	stamp := time.Now().UTC().Format("2006-01-02T15-04-05")
	runDir := filepath.Join(runsDir, stamp)
	runDir, err := filepath.Abs(runDir)
	if err != nil {
		return "", fmt.Errorf("resolving run dir: %w", err)
	}
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", fmt.Errorf("creating run dir: %w", err)
	}
	latest := filepath.Join(baseDir, "latest")
	os.Remove(latest)
	if err := os.Symlink(runDir, latest); err != nil {
		return "", fmt.Errorf("creating latest symlink: %w", err)
	}
	return runDir, nil
}

func CaseDir(runDir, caseID string) string {
	return filepath.Join(runDir, "cases", caseID)
}

// WriteCase stores a graded case: the input echo (request.json, used
// by the regrade command), the strict result contract (result.json),
// and the summary row (meta.json).
func WriteCase(caseDir string, req *grade.Request, res *grade.Result, meta *CaseMeta) error {
	if err := os.MkdirAll(caseDir, 0o755); err != nil {
		return fmt.Errorf("creating case dir: %w", err)
	}
	reqData, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}
	if err := os.WriteFile(filepath.Join(caseDir, "request.json"), reqData, 0o644); err != nil {
		return err
	}
	resData, err := res.Render()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(caseDir, "result.json"), resData, 0o644); err != nil {
		return err
	}
	metaData, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling meta: %w", err)
	}
	return os.WriteFile(filepath.Join(caseDir, "meta.json"), metaData, 0o644)
}

func ReadCaseMeta(path string) (*CaseMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading meta: %w", err)
	}
	var meta CaseMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing meta: %w", err)
	}
	return &meta, nil
}

func ReadRequest(path string) (*grade.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading request: %w", err)
	}
	return grade.ParseRequest(data)
}
