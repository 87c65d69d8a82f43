package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/liliang-cn/datacron/pkg/cronexpr"
	"github.com/liliang-cn/datacron/pkg/log"
)

// Store is the persistence contract of Service. *Storage implements it.
type Store interface {
	Create(ctx context.Context, sch *Schedule) error
	Get(ctx context.Context, id string) (*Schedule, error)
	List(ctx context.Context, filter Filter) ([]*Schedule, error)
	Update(ctx context.Context, sch *Schedule) error
	SetEnabled(ctx context.Context, id string, enabled bool, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// Input carries the caller-editable part of a schedule. Enabled defaults
// to true on create and to "unchanged" on update when nil.
type Input struct {
	Name       string   `json:"name" yaml:"name"`
	TaskKind   TaskKind `json:"task_kind" yaml:"task_kind"`
	TaskID     string   `json:"task_id,omitempty" yaml:"task_id,omitempty"`
	Expression string   `json:"expression" yaml:"expression"`
	Enabled    *bool    `json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

// Service validates, canonicalizes and describes schedules before they
// reach the store.
type Service struct {
	store   Store
	catalog *cronexpr.Catalog
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// NewService wires a Service. A nil catalog uses cronexpr.DefaultCatalog.
func NewService(store Store, catalog *cronexpr.Catalog) *Service {
	if catalog == nil {
		catalog = cronexpr.DefaultCatalog()
	}
	return &Service{
		store:   store,
		catalog: catalog,
		logger:  log.WithModule("schedule"),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

// Catalog returns the catalog used for descriptions.
func (s *Service) Catalog() *cronexpr.Catalog { return s.catalog }

// Create validates in and stores a new schedule.
func (s *Service) Create(ctx context.Context, in Input) (*Schedule, error) {
	expr, err := s.check(in)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sch := &Schedule{
		ID:          s.newID(),
		Name:        strings.TrimSpace(in.Name),
		TaskKind:    in.TaskKind,
		TaskID:      in.TaskID,
		Expression:  expr,
		Description: s.catalog.Describe(expr),
		Enabled:     in.Enabled == nil || *in.Enabled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, sch); err != nil {
		return nil, err
	}

	s.logger.Info("schedule created", "id", sch.ID, "task_kind", sch.TaskKind, "expression", sch.Expression)
	return sch, nil
}

// Update replaces the editable fields of schedule id.
func (s *Service) Update(ctx context.Context, id string, in Input) (*Schedule, error) {
	expr, err := s.check(in)
	if err != nil {
		return nil, err
	}

	sch, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	sch.Name = strings.TrimSpace(in.Name)
	sch.TaskKind = in.TaskKind
	sch.TaskID = in.TaskID
	sch.Expression = expr
	sch.Description = s.catalog.Describe(expr)
	if in.Enabled != nil {
		sch.Enabled = *in.Enabled
	}
	sch.UpdatedAt = s.now()

	if err := s.store.Update(ctx, sch); err != nil {
		return nil, err
	}

	s.logger.Info("schedule updated", "id", sch.ID, "expression", sch.Expression)
	return sch, nil
}

// SetEnabled enables or disables schedule id.
func (s *Service) SetEnabled(ctx context.Context, id string, enabled bool) (*Schedule, error) {
	if err := s.store.SetEnabled(ctx, id, enabled, s.now()); err != nil {
		return nil, err
	}
	s.logger.Info("schedule toggled", "id", id, "enabled", enabled)
	return s.store.Get(ctx, id)
}

// Get returns schedule id.
func (s *Service) Get(ctx context.Context, id string) (*Schedule, error) {
	return s.store.Get(ctx, id)
}

// List returns schedules matching filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]*Schedule, error) {
	if filter.TaskKind != "" && !filter.TaskKind.Valid() {
		return nil, &ValidationError{Field: "task_kind", Message: fmt.Sprintf("unknown task kind %q", filter.TaskKind)}
	}
	return s.store.List(ctx, filter)
}

// Delete removes schedule id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("schedule deleted", "id", id)
	return nil
}

// Preview returns the next count activation times of schedule id after
// from. Disabled schedules preview like enabled ones.
func (s *Service) Preview(ctx context.Context, id string, from time.Time, count int) ([]time.Time, error) {
	sch, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return cronexpr.NextRuns(sch.Expression, from, count)
}

// ImportResult counts what Import did.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// Import stores schedules read from an export. Entries whose ID already
// exists are updated, other entries are created under their exported ID
// (or a new one when it is empty).
//
// Every entry is validated before anything is written, so an invalid entry
// or an ID repeated within schedules leaves the store untouched. A storage
// failure during the write phase can still leave the earlier entries stored.
func (s *Service) Import(ctx context.Context, schedules []Schedule) (ImportResult, error) {
	inputs := make([]Input, len(schedules))
	exprs := make([]string, len(schedules))
	seen := make(map[string]int, len(schedules))
	for i, in := range schedules {
		enabled := in.Enabled
		inputs[i] = Input{
			Name:       in.Name,
			TaskKind:   in.TaskKind,
			TaskID:     in.TaskID,
			Expression: in.Expression,
			Enabled:    &enabled,
		}
		expr, err := s.check(inputs[i])
		if err != nil {
			return ImportResult{}, fmt.Errorf("schedule %d: %w", i, err)
		}
		exprs[i] = expr

		if in.ID == "" {
			continue
		}
		if j, dup := seen[in.ID]; dup {
			return ImportResult{}, fmt.Errorf("schedule %d: %w", i, &ValidationError{
				Field:   "id",
				Message: fmt.Sprintf("id %q repeats schedule %d", in.ID, j),
			})
		}
		seen[in.ID] = i
	}

	var res ImportResult
	for i, in := range schedules {
		if in.ID != "" {
			_, err := s.store.Get(ctx, in.ID)
			switch {
			case err == nil:
				if _, err := s.Update(ctx, in.ID, inputs[i]); err != nil {
					return res, fmt.Errorf("schedule %d (%s): %w", i, in.ID, err)
				}
				res.Updated++
				continue
			case !errors.Is(err, ErrNotFound):
				return res, err
			}
		}

		now := s.now()
		sch := &Schedule{
			ID:          in.ID,
			Name:        strings.TrimSpace(in.Name),
			TaskKind:    in.TaskKind,
			TaskID:      in.TaskID,
			Expression:  exprs[i],
			Description: s.catalog.Describe(exprs[i]),
			Enabled:     in.Enabled,
			CreatedAt:   in.CreatedAt,
			UpdatedAt:   now,
		}
		if sch.ID == "" {
			sch.ID = s.newID()
		}
		if sch.CreatedAt.IsZero() {
			sch.CreatedAt = now
		}
		if err := s.store.Create(ctx, sch); err != nil {
			return res, fmt.Errorf("schedule %d: %w", i, err)
		}
		res.Created++
	}

	s.logger.Info("schedules imported", "created", res.Created, "updated", res.Updated)
	return res, nil
}

// check validates in and returns its canonical expression.
func (s *Service) check(in Input) (string, error) {
	if strings.TrimSpace(in.Name) == "" {
		return "", &ValidationError{Field: "name", Message: "name is required"}
	}
	if !in.TaskKind.Valid() {
		return "", &ValidationError{Field: "task_kind", Message: fmt.Sprintf("unknown task kind %q", in.TaskKind)}
	}
	expr, err := cronexpr.Canonical(in.Expression)
	if err != nil {
		return "", &ValidationError{Field: "expression", Message: err.Error(), Err: err}
	}
	return expr, nil
}
