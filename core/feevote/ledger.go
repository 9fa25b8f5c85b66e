package feevote

import (
	"context"
	"time"
)

// LiveParameterSet is the set of fee parameters active on the latest validated ledger.
type LiveParameterSet struct {
	Values      ParamSet[Drops] `json:"values"`
	LedgerIndex uint64          `json:"ledger_index"`
	FetchedAt   time.Time       `json:"fetched_at"`
}

// LedgerSource supplies the currently active fee parameters.
type LedgerSource interface {
	FetchLiveParameters(ctx context.Context) (LiveParameterSet, error)
}
