package generator

import (
	"errors"
	"time"
)

var (
	// ErrCredential 表示 API key 缺失或被拒导致的后端失败。
	ErrCredential = errors.New("llm credentials missing or invalid")
	// ErrPatch 表示 registry 更新失败。
	ErrPatch = errors.New("registry update failed")
	// ErrAttemptsExhausted 表示所有尝试都未通过校验。
	ErrAttemptsExhausted = errors.New("attempts exhausted")
	// ErrInvalidName 类名必须匹配 [A-Za-z_][A-Za-z0-9_]*。
	ErrInvalidName = errors.New("game name must be a plain identifier")
)

// State 是 生成/注册/校验 循环的状态。
type State string

const (
	StateComposing  State = "composing"
	StateGenerating State = "generating"
	StateExtracting State = "extracting"
	StatePersisting State = "persisting"
	StatePatching   State = "patching"
	StateValidating State = "validating"
	StateRetrying   State = "retrying"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Terminal 表示 s 之后不会再有状态变化。
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Transition 记录 run 中进入的一个状态。
type Transition struct {
	Attempt int       `json:"attempt"`
	State   State     `json:"state"`
	At      time.Time `json:"at"`
}

// Run 记录一次生成请求的全部尝试。
type Run struct {
	ID          string       `json:"id"`
	Request     Request      `json:"request"`
	State       State        `json:"state"`
	Attempts    []Attempt    `json:"attempts"`
	Transitions []Transition `json:"transitions"`
	Err         string       `json:"error,omitempty"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`
}

func newRun(id string, req Request) *Run {
	return &Run{
		ID:        id,
		Request:   req,
		StartedAt: time.Now(),
	}
}

// Succeeded 表示 run 以通过校验结束。
func (r *Run) Succeeded() bool {
	return r.State == StateSucceeded
}

// Diagnostics 按顺序返回每次失败尝试的校验输出。
func (r *Run) Diagnostics() []string {
	var out []string
	for _, a := range r.Attempts {
		if a.Validation != nil && !a.Validation.Passed {
			out = append(out, a.Validation.Output)
		}
	}
	return out
}

func (r *Run) enter(attempt int, s State) {
	r.State = s
	r.Transitions = append(r.Transitions, Transition{
		Attempt: attempt,
		State:   s,
		At:      time.Now(),
	})
}

func (r *Run) appendAttempt(a Attempt) {
	r.Attempts = append(r.Attempts, a)
}

func (r *Run) finish(err error) {
	if err != nil {
		r.Err = err.Error()
	}
	r.FinishedAt = time.Now()
}
