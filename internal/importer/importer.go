package importer

import (
	"golang.org/x/sync/errgroup"

	"github.com/jask/ynab4import/internal/ledger"
)

// Importer holds what every stage of one run shares: the target ledger and
// the id registry. Create a new Importer (and Registry) per run.
type Importer struct {
	Ledger   ledger.Service
	Registry *Registry

	// Concurrency bounds each fan-out; zero or less means unbounded.
	Concurrency int
}

func New(l ledger.Service, concurrency int) *Importer {
	return &Importer{Ledger: l, Registry: NewRegistry(), Concurrency: concurrency}
}

func (im *Importer) limit(g *errgroup.Group) {
	if im.Concurrency > 0 {
		g.SetLimit(im.Concurrency)
	}
}
