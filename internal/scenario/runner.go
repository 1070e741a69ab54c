package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"golru/internal/cache"
)

// StepResult records what one step observed.
type StepResult struct {
	Index   int      `toml:"index" yaml:"index"`
	Op      Op       `toml:"op" yaml:"op"`
	Key     string   `toml:"key,omitempty" yaml:"key,omitempty"`
	Value   string   `toml:"value,omitempty" yaml:"value,omitempty"`
	Hit     bool     `toml:"hit" yaml:"hit"`
	Evicted []string `toml:"evicted,omitempty" yaml:"evicted,omitempty"`
	Keys    []string `toml:"keys" yaml:"keys"`
}

// Report is the outcome of one scenario run.
type Report struct {
	Name     string       `toml:"name" yaml:"name"`
	RunID    string       `toml:"run_id" yaml:"run_id"`
	Capacity int          `toml:"capacity" yaml:"capacity"`
	Keys     []string     `toml:"keys" yaml:"keys"`
	Stats    cache.Stats  `toml:"stats" yaml:"stats"`
	Failures []string     `toml:"failures,omitempty" yaml:"failures,omitempty"`
	Steps    []StepResult `toml:"steps" yaml:"steps"`
}

// Passed reports whether every assertion in the scenario held.
func (r *Report) Passed() bool { return len(r.Failures) == 0 }

// Runner replays scenarios. Every run gets its own cache, so runs never share
// state and may proceed in parallel.
type Runner struct {
	DefaultCapacity int
	Logger          *slog.Logger
}

// Run replays s against a fresh cache. Assertion mismatches are collected in
// the report; an error is returned only when the run cannot proceed.
func (r *Runner) Run(ctx context.Context, s *Scenario) (*Report, error) {
	capacity := s.Capacity
	if capacity == 0 {
		capacity = r.DefaultCapacity
	}

	rep := &Report{
		Name:     s.Name,
		RunID:    uuid.NewString(),
		Capacity: capacity,
		Steps:    make([]StepResult, 0, len(s.Steps)),
	}

	var logger *slog.Logger
	if r.Logger != nil {
		logger = r.Logger.With(slog.String("scenario", s.Name), slog.String("run_id", rep.RunID))
	}

	var evicted []string
	c, err := cache.NewString[string](cache.Config[string, string]{
		Capacity: capacity,
		OnEvict:  func(k, _ string) { evicted = append(evicted, k) },
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		evicted = nil

		res := StepResult{Index: i + 1, Op: st.Op, Key: st.Key}
		switch st.Op {
		case OpSave:
			c.Save(st.Key, st.Value)
			res.Value = st.Value
		case OpGet, OpPeek:
			var v string
			var ok bool
			if st.Op == OpGet {
				v, ok = c.Get(st.Key)
			} else {
				v, ok = c.Peek(st.Key)
			}
			res.Value, res.Hit = v, ok
			if msg := checkLookup(st, v, ok); msg != "" {
				rep.fail(res, msg)
			}
		case OpDelete:
			res.Hit = c.Delete(st.Key)
		case OpExpectKeys:
			if got := c.Keys(); !slices.Equal(got, st.Keys) {
				rep.fail(res, fmt.Sprintf("want keys %v, got %v", st.Keys, got))
			}
		case OpClear:
			c.Clear()
		default:
			return nil, fmt.Errorf("%w %q at step %d", ErrUnknownOp, st.Op, i+1)
		}

		res.Evicted = evicted
		res.Keys = c.Keys()
		rep.Steps = append(rep.Steps, res)
		if logger != nil {
			logger.Debug("step", slog.Int("index", res.Index), slog.String("op", string(st.Op)),
				slog.String("key", st.Key), slog.Any("keys", res.Keys))
		}
	}

	rep.Keys = c.Keys()
	rep.Stats = c.Stats()
	return rep, nil
}

// RunAll replays scenarios concurrently, at most parallelism at a time, and
// returns the reports in input order. The first run error cancels the rest.
func (r *Runner) RunAll(ctx context.Context, scenarios []*Scenario, parallelism int) ([]*Report, error) {
	g, ctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}

	reports := make([]*Report, len(scenarios))
	for i, s := range scenarios {
		g.Go(func() error {
			rep, err := r.Run(ctx, s)
			if err != nil {
				return err
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func checkLookup(st Step, v string, ok bool) string {
	switch {
	case st.Miss && ok:
		return fmt.Sprintf("want miss, got %q", v)
	case st.Want != nil && !ok:
		return fmt.Sprintf("want %q, got miss", *st.Want)
	case st.Want != nil && v != *st.Want:
		return fmt.Sprintf("want %q, got %q", *st.Want, v)
	}
	return ""
}

func (r *Report) fail(res StepResult, msg string) {
	label := string(res.Op)
	if res.Key != "" {
		label += " " + res.Key
	}
	r.Failures = append(r.Failures, fmt.Sprintf("step %d (%s): %s", res.Index, label, msg))
}
