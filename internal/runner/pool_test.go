package runner_test

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fiwarelab/gavel/internal/runner"
)

func TestRunPoolRunsAllJobs(t *testing.T) {
	var ran atomic.Int32
	errs := runner.RunPool(4, 20, func(i int) error {
		ran.Add(1)
		return nil
	})
	if len(errs) != 20 {
		t.Fatalf("got %d error slots, want 20", len(errs))
	}
	for i, err := range errs {
		if err != nil {
			t.Errorf("job %d: unexpected error %v", i, err)
		}
	}
	if got := ran.Load(); got != 20 {
		t.Errorf("got %d jobs run, want 20", got)
	}
}

func TestRunPoolErrorSlotsMatchJobOrder(t *testing.T) {
	errs := runner.RunPool(3, 10, func(i int) error {
		if i%2 == 1 {
			return fmt.Errorf("job %d", i)
		}
		return nil
	})
	for i, err := range errs {
		if i%2 == 1 && (err == nil || err.Error() != fmt.Sprintf("job %d", i)) {
			t.Errorf("slot %d: got %v, want job %d error", i, err, i)
		}
		if i%2 == 0 && err != nil {
			t.Errorf("slot %d: got %v, want nil", i, err)
		}
	}
}

func TestRunPoolBoundsConcurrency(t *testing.T) {
	var (
		mu      sync.Mutex
		active  int
		highest int
	)
	runner.RunPool(3, 30, func(i int) error {
		mu.Lock()
		active++
		if active > highest {
			highest = active
		}
		mu.Unlock()
		mu.Lock()
		active--
		mu.Unlock()
		return nil
	})
	if highest > 3 {
		t.Errorf("observed %d concurrent jobs, want at most 3", highest)
	}
}

func TestRunPoolClampsWorkers(t *testing.T) {
	boom := errors.New("boom")
	errs := runner.RunPool(0, 1, func(i int) error { return boom })
	if len(errs) != 1 || !errors.Is(errs[0], boom) {
		t.Errorf("pool with 0 workers should still run jobs: %v", errs)
	}
}
