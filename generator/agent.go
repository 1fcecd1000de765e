package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/areibman/vibeshift/registry"
	"github.com/areibman/vibeshift/validator"
)

// DefaultMaxAttempts 是 Options 未指定时的最大尝试次数。
const DefaultMaxAttempts = 3

// ArtifactStore 保存提取出的 microgame 源码。
type ArtifactStore interface {
	Save(name, code string) (path string, err error)
}

// Registrar 把 microgame 写入 registry 文档。
type Registrar interface {
	Register(entry registry.Entry) error
}

// Validator 按名称校验已落盘的 microgame。
type Validator interface {
	Validate(ctx context.Context, name string) validator.Result
}

// Deps 是 Orchestrator 依赖的各个组件。
type Deps struct {
	LLM       LLMClient
	Artifacts ArtifactStore
	Registry  Registrar
	Validator Validator
	Bundle    ContextBundle
}

// Options 调整单个 Orchestrator 的行为。
type Options struct {
	MaxAttempts int
	Logger      *zap.Logger
	// Out 接收给人看的进度输出，nil 时丢弃。
	Out   io.Writer
	NewID func() string
}

// Orchestrator 负责 生成 -> 落盘 -> 注册 -> 校验 的重试循环。
// 同一个 registry 文档不能被并发使用。
type Orchestrator struct {
	deps        Deps
	maxAttempts int
	logger      *zap.Logger
	out         io.Writer
	newID       func() string
}

func NewOrchestrator(deps Deps, opts Options) (*Orchestrator, error) {
	switch {
	case deps.LLM == nil:
		return nil, errors.New("llm client is required")
	case deps.Artifacts == nil:
		return nil, errors.New("artifact store is required")
	case deps.Registry == nil:
		return nil, errors.New("registry is required")
	case deps.Validator == nil:
		return nil, errors.New("validator is required")
	}
	o := &Orchestrator{
		deps:        deps,
		maxAttempts: opts.MaxAttempts,
		logger:      opts.Logger,
		out:         opts.Out,
		newID:       opts.NewID,
	}
	if o.maxAttempts <= 0 {
		o.maxAttempts = DefaultMaxAttempts
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.out == nil {
		o.out = io.Discard
	}
	if o.newID == nil {
		o.newID = uuid.NewString
	}
	return o, nil
}

// MaxAttempts 返回配置的尝试上限。
func (o *Orchestrator) MaxAttempts() int {
	return o.maxAttempts
}

// Run 生成、注册并校验一个 microgame，校验失败时带上诊断信息重试，
// 直到通过或次数用尽。
// 只要请求合法，即使出错返回的 Run 也不为 nil。
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Run, error) {
	req = req.Normalize()
	if req.Name == "" {
		return nil, errors.New("game name is required")
	}
	if err := ValidateName(req.Name); err != nil {
		return nil, err
	}
	run := newRun(o.newID(), req)
	log := o.logger.With(zap.String("run", run.ID), zap.String("game", req.Name), zap.String("model", req.Model))

	system := BuildSystemPrompt(o.deps.Bundle)
	user := BuildUserPrompt(req)

	o.printf("\nGenerating %s using %s...\n", req.Name, req.Model)
	log.Info("generation started", zap.Int("max_attempts", o.maxAttempts))

	for i := 1; i <= o.maxAttempts; i++ {
		o.printf("\nAttempt %d/%d\n", i, o.maxAttempts)
		run.enter(i, StateComposing)
		att, err := o.attempt(ctx, run, i, Prompt{System: system, User: user})
		run.appendAttempt(att)

		switch {
		case errors.Is(err, ErrCredential), errors.Is(err, ErrPatch):
			return o.fail(run, i, log, err)
		case err != nil:
			o.printf("Error: %v\n", err)
			log.Warn("attempt failed", zap.Int("attempt", i), zap.Error(err))
		case att.Validation.Passed:
			run.enter(i, StateSucceeded)
			run.finish(nil)
			o.printf("\n%s successfully generated and validated!\n", req.Name)
			log.Info("generation succeeded", zap.Int("attempts", i))
			return run, nil
		default:
			log.Info("validation failed", zap.Int("attempt", i))
			user = AppendFeedback(user, att.Validation.Output)
		}

		if i < o.maxAttempts {
			run.enter(i, StateRetrying)
			o.printf("\nAttempt %d failed, retrying...\n", i)
		}
	}

	err := fmt.Errorf("%w: failed to generate valid %s after %d attempts", ErrAttemptsExhausted, req.Name, o.maxAttempts)
	return o.fail(run, o.maxAttempts, log, err)
}

// attempt 执行一轮。包装了 ErrCredential 或 ErrPatch 的错误会终止整个 run，
// 其他错误只消耗本轮次数。
func (o *Orchestrator) attempt(ctx context.Context, run *Run, i int, prompt Prompt) (Attempt, error) {
	att := Attempt{Index: i}
	name := run.Request.Name

	run.enter(i, StateGenerating)
	raw, err := o.deps.LLM.Complete(ctx, run.Request.Model, prompt)
	if err != nil {
		att.Err = err.Error()
		if IsCredentialError(err) {
			if errors.Is(err, ErrCredential) {
				return att, err
			}
			return att, fmt.Errorf("%w: %w", ErrCredential, err)
		}
		return att, fmt.Errorf("generation failed: %w", err)
	}
	att.GeneratedText = raw

	run.enter(i, StateExtracting)
	code := ExtractCode(strings.TrimSpace(raw))
	if strings.TrimSpace(code) == "" {
		att.Err = "model returned empty code"
		return att, errors.New(att.Err)
	}
	att.Code = code

	run.enter(i, StatePersisting)
	path, err := o.deps.Artifacts.Save(name, code)
	if err != nil {
		att.Err = err.Error()
		return att, fmt.Errorf("save artifact: %w", err)
	}
	att.ArtifactPath = path
	o.printf("Code generated and saved to %s\n", path)

	run.enter(i, StatePatching)
	if err := o.deps.Registry.Register(run.Request.Entry()); err != nil {
		att.Err = err.Error()
		return att, fmt.Errorf("%w: %w", ErrPatch, err)
	}
	o.printf("Updated registry with %s\n", name)

	run.enter(i, StateValidating)
	o.printf("\nRunning validation...\n")
	res := o.deps.Validator.Validate(ctx, name)
	att.Validation = &res
	if res.Output != "" {
		o.printf("%s\n", strings.TrimRight(res.Output, "\n"))
	}
	return att, nil
}

func (o *Orchestrator) fail(run *Run, attempt int, log *zap.Logger, err error) (*Run, error) {
	run.enter(attempt, StateFailed)
	run.finish(err)
	o.printf("\n%v\n", err)
	log.Error("generation failed", zap.Int("attempts", len(run.Attempts)), zap.Error(err))
	return run, err
}

func (o *Orchestrator) printf(format string, args ...interface{}) {
	fmt.Fprintf(o.out, format, args...)
}
