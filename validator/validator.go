// Package validator runs the project's external microgame check.
package validator

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"go.uber.org/zap"
)

// Result is the outcome of one validation run.
type Result struct {
	Passed bool   `json:"passed"`
	Output string `json:"output"`
}

// Command invokes Name Args... <microgame> in Dir. Exit code 0 passes; the
// combined stdout and stderr is the diagnostic text.
type Command struct {
	Name   string
	Args   []string
	Dir    string
	Logger *zap.Logger
}

func (c *Command) Validate(ctx context.Context, name string) Result {
	args := append(append([]string{}, c.Args...), name)
	cmd := exec.CommandContext(ctx, c.Name, args...)
	cmd.Dir = c.Dir
	out, err := cmd.CombinedOutput()

	res := Result{Passed: err == nil, Output: string(out)}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		// the process never ran (missing binary, bad dir)
		res.Output = fmt.Sprintf("Validation error: %v", err)
	}
	if c.Logger != nil {
		c.Logger.Debug("validator finished",
			zap.String("game", name),
			zap.Bool("passed", res.Passed),
			zap.Int("output_bytes", len(res.Output)))
	}
	return res
}
