package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/jask/ynab4import/internal/ledger"
	"github.com/jask/ynab4import/internal/logger"
	"github.com/jask/ynab4import/internal/ynab4"
)

// Step is one stage of a migration run.
type Step interface {
	Name() string
	Execute(ctx context.Context, state *State) error
}

// State is shared across the steps of one run.
type State struct {
	Budget   ynab4.Budget
	Importer *Importer
	Summary  Summary
}

// Summary counts what each stage wrote to the ledger.
type Summary struct {
	Accounts     int
	Categories   int
	Payees       int
	Transactions int
	Budgets      int
}

type AccountsStep struct{}

func (AccountsStep) Name() string { return "accounts" }

func (AccountsStep) Execute(ctx context.Context, s *State) error {
	n, err := s.Importer.ImportAccounts(ctx, s.Budget.Accounts)
	s.Summary.Accounts = n
	return err
}

type CategoriesStep struct{}

func (CategoriesStep) Name() string { return "categories" }

func (CategoriesStep) Execute(ctx context.Context, s *State) error {
	n, err := s.Importer.ImportCategories(ctx, s.Budget.MasterCategories)
	s.Summary.Categories = n
	return err
}

type PayeesStep struct{}

func (PayeesStep) Name() string { return "payees" }

func (PayeesStep) Execute(ctx context.Context, s *State) error {
	n, err := s.Importer.ImportPayees(ctx, s.Budget.Payees)
	s.Summary.Payees = n
	return err
}

type TransactionsStep struct{}

func (TransactionsStep) Name() string { return "transactions" }

func (TransactionsStep) Execute(ctx context.Context, s *State) error {
	n, err := s.Importer.ImportTransactions(ctx, s.Budget.Transactions)
	s.Summary.Transactions = n
	return err
}

type BudgetsStep struct{}

func (BudgetsStep) Name() string { return "budgets" }

func (BudgetsStep) Execute(ctx context.Context, s *State) error {
	n, err := s.Importer.ReplayBudgets(ctx, s.Budget.MasterCategories, s.Budget.MonthlyBudgets)
	s.Summary.Budgets = n
	return err
}

// Observer is told when each step starts and finishes. Calls come from the
// goroutine running the pipeline.
type Observer interface {
	StepStarted(name string)
	StepFinished(name string, summary Summary, err error)
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps     []Step
	observers []Observer
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// StageNames lists the steps of NewMigrationPipeline in order.
func StageNames() []string {
	names := make([]string, len(NewMigrationPipeline().steps))
	for i, s := range NewMigrationPipeline().steps {
		names[i] = s.Name()
	}
	return names
}

// NewMigrationPipeline returns the standard stage order. Each stage reads
// registry entries written by the ones before it, so the order is fixed.
func NewMigrationPipeline() *Pipeline {
	return NewPipeline(
		AccountsStep{},
		CategoriesStep{},
		PayeesStep{},
		TransactionsStep{},
		BudgetsStep{},
	)
}

// Observe registers o for step events.
func (p *Pipeline) Observe(o Observer) *Pipeline {
	p.observers = append(p.observers, o)
	return p
}

// Execute runs all steps sequentially and stops at the first failure.
// Writes already made by earlier steps are not undone.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	log := logger.FromContext(ctx)
	for _, step := range p.steps {
		start := time.Now()
		log.Debug().Str("step", step.Name()).Msg("step started")
		for _, o := range p.observers {
			o.StepStarted(step.Name())
		}
		err := step.Execute(ctx, state)
		for _, o := range p.observers {
			o.StepFinished(step.Name(), state.Summary, err)
		}
		if err != nil {
			return fmt.Errorf("pipeline step %s failed: %w", step.Name(), err)
		}
		log.Debug().Str("step", step.Name()).Dur("took", time.Since(start)).Msg("step finished")
	}
	return nil
}

// Run migrates one budget document into l with a fresh registry.
// Running it twice against the same ledger duplicates every entity.
func Run(ctx context.Context, l ledger.Service, budget ynab4.Budget, concurrency int, observers ...Observer) (Summary, error) {
	state := &State{Budget: budget, Importer: New(l, concurrency)}
	p := NewMigrationPipeline()
	for _, o := range observers {
		p.Observe(o)
	}
	err := p.Execute(ctx, state)
	return state.Summary, err
}
