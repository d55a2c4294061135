// Package pipeline derives financing, carrying-cost and return columns for
// subject listings, estimating rent from comparable reference listings.
package pipeline

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/rentcomp/internal/finance"
	"github.com/sells-group/rentcomp/internal/table"
)

// Pipeline runs a fixed, order-checked list of derivation steps over each subject row.
type Pipeline struct {
	policy Policy
	steps  []Step
	tracer Tracer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTracer attaches a Tracer that observes every read and write.
func WithTracer(t Tracer) Option {
	return func(p *Pipeline) { p.tracer = t }
}

// New builds the standard pipeline for policy.
func New(policy Policy, opts ...Option) (*Pipeline, error) {
	return newWithSteps(policy, defaultSteps(policy), opts...)
}

func newWithSteps(policy Policy, steps []Step, opts ...Option) (*Pipeline, error) {
	if err := validateOrder(steps); err != nil {
		return nil, err
	}
	p := &Pipeline{policy: policy, steps: steps}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Policy returns the policy the pipeline was built with.
func (p *Pipeline) Policy() Policy { return p.policy }

// Steps returns the derivation steps in execution order.
func (p *Pipeline) Steps() []Step {
	out := make([]Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// Columns returns the derived column names in the order they are written.
func (p *Pipeline) Columns() []string {
	cols := make([]string, len(p.steps))
	for i, s := range p.steps {
		cols[i] = s.Writes
	}
	return cols
}

// Run derives every column for each subject row and returns a new table. The
// subject and reference tables are not modified. A row that cannot produce a
// column leaves it absent (or holding the no-match sentinel); that never
// affects other rows. The only error is an invalid Configuration.
func (p *Pipeline) Run(subjects, references *table.Table, cfg Configuration) (*table.Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if subjects == nil {
		return nil, eris.New("pipeline: nil subject table")
	}

	out := &table.Table{
		Columns: append(append([]string{}, subjects.Columns...), p.Columns()...),
		Rows:    make([]*table.Row, len(subjects.Rows)),
	}

	for i, src := range subjects.Rows {
		row := src.Clone()
		for _, s := range p.steps {
			s.Apply(cfg, references, &Cursor{
				row:    row,
				step:   s.Name,
				policy: p.policy.NullPolicy,
				tracer: p.tracer,
			})
		}
		out.Rows[i] = row
	}

	zap.L().Debug("pipeline: run complete",
		zap.Int("subjects", subjects.Len()),
		zap.Int("references", references.Len()),
		zap.Int("steps", len(p.steps)),
	)
	return out, nil
}

func monthlyPayment(cfg Configuration, price float64) float64 {
	return finance.MonthlyPayment(cfg.DownpayPercent, price, cfg.InterestRate, cfg.MortgagePeriod)
}

func principalPaidFirstYear(cfg Configuration, price float64) float64 {
	return finance.PrincipalPaid(cfg.DownpayPercent, price, cfg.InterestRate, cfg.MortgagePeriod, 12)
}
