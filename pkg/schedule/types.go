package schedule

import (
	"errors"
	"fmt"
	"time"
)

// TaskKind is the console workflow a schedule triggers.
type TaskKind string

const (
	TaskKindAnnotation    TaskKind = "annotation"
	TaskKindSynthesis     TaskKind = "synthesis"
	TaskKindEvaluation    TaskKind = "evaluation"
	TaskKindKnowledgeBase TaskKind = "knowledge_base"
	TaskKindRatio         TaskKind = "ratio"
	TaskKindDataset       TaskKind = "dataset"
)

var taskKinds = []TaskKind{
	TaskKindAnnotation,
	TaskKindSynthesis,
	TaskKindEvaluation,
	TaskKindKnowledgeBase,
	TaskKindRatio,
	TaskKindDataset,
}

// TaskKinds lists every known kind.
func TaskKinds() []TaskKind {
	out := make([]TaskKind, len(taskKinds))
	copy(out, taskKinds)
	return out
}

// Valid reports whether k is a known kind.
func (k TaskKind) Valid() bool {
	for _, known := range taskKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Schedule binds a canonical cron expression to a dataset task.
type Schedule struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	TaskKind    TaskKind  `json:"task_kind" yaml:"task_kind"`
	TaskID      string    `json:"task_id,omitempty" yaml:"task_id,omitempty"`
	Expression  string    `json:"expression" yaml:"expression"`
	Description string    `json:"description" yaml:"description"`
	Enabled     bool      `json:"enabled" yaml:"enabled"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// Filter narrows List. The zero Filter returns enabled schedules of every
// kind.
type Filter struct {
	TaskKind        TaskKind
	TaskID          string
	IncludeDisabled bool
}

// ErrNotFound is wrapped by every lookup of a missing schedule.
var ErrNotFound = errors.New("schedule not found")

// ValidationError rejects caller input. Err, when set, is the underlying
// cause (e.g. *cronexpr.InvalidExpressionError).
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }
