package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/greenscore/internal/contract"
)

// ErrCheckFailed reports that at least one file violated the policy.
var ErrCheckFailed = errors.New("policy check failed")

// ExecuteCheck runs the check command for CI/CD gating.
// It analyzes every input, checks it against the minimum green score and,
// with FailOnHigh, against high severity findings. The result is printed
// before ErrCheckFailed is returned so that callers can exit non-zero.
func ExecuteCheck(ctx context.Context, cfg *contract.Config, analyzer *Analyzer, out contract.OutputWriter, inputs []Input) error {
	start := time.Now()

	analyses, err := analyzeInputs(ctx, cfg, analyzer, inputs)
	if err != nil {
		return err
	}

	result := NewCheckResultBuilder(cfg, analyses).
		ComputeMetrics().
		BuildResult().
		GetResult()

	if err := out.WriteCheck(result, cfg, time.Since(start)); err != nil {
		return err
	}
	if !result.Passed {
		return fmt.Errorf("%w: %d violation(s) found", ErrCheckFailed, len(result.FailedFiles))
	}
	return nil
}
