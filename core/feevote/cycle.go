package feevote

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Snapshot is the pair of source snapshots from the same fetch cycle.
type Snapshot struct {
	Live  LiveParameterSet `json:"live"`
	Votes []ValidatorVote  `json:"votes"`
}

func (s Snapshot) Aggregate() Aggregation {
	return Aggregate(s.Live, s.Votes)
}

// Cycle fetches both sources concurrently and joins them.
type Cycle struct {
	ledger   LedgerSource
	registry RegistrySource
}

func NewCycle(ledger LedgerSource, registry RegistrySource) *Cycle {
	return &Cycle{
		ledger:   ledger,
		registry: registry,
	}
}

// Fetch returns a snapshot only once both sources have resolved. If either
// fails, the other is cancelled and no snapshot is returned.
func (c *Cycle) Fetch(ctx context.Context) (*Snapshot, error) {
	var live LiveParameterSet
	var entries []RegistryEntry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		live, err = c.ledger.FetchLiveParameters(gctx)
		if err != nil {
			return fmt.Errorf("fetching live parameters: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		entries, err = c.registry.FetchRegistry(gctx)
		if err != nil {
			return fmt.Errorf("fetching validator registry: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	votes, err := AdmitVotes(entries)
	if err != nil {
		return nil, fmt.Errorf("admitting votes: %w", err)
	}

	return &Snapshot{Live: live, Votes: votes}, nil
}

// Run fetches and aggregates a single cycle.
func (c *Cycle) Run(ctx context.Context) (*Aggregation, error) {
	snapshot, err := c.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	agg := snapshot.Aggregate()
	return &agg, nil
}
