package feevote

import (
	"time"
)

// ParameterView is everything needed to chart one fee parameter.
type ParameterView struct {
	Parameter    Parameter  `json:"parameter"`
	Label        string     `json:"label"`
	Unit         string     `json:"unit"`
	Current      float64    `json:"current"`
	CurrentDrops Drops      `json:"current_drops"`
	Ranked       RankedList `json:"ranked"`
	Markers      *Markers   `json:"markers"`
	Drift        Drift      `json:"drift"`
}

// CurrentString is the exact live value in display units.
func (v ParameterView) CurrentString() string {
	return Format(v.CurrentDrops, v.Parameter)
}

// Aggregation is the result of one fetch cycle, for all three parameters.
type Aggregation struct {
	Params      ParamSet[ParameterView] `json:"params"`
	Validators  int                     `json:"validators"`
	LedgerIndex uint64                  `json:"ledger_index"`
	FetchedAt   time.Time               `json:"fetched_at"`

	// Set by the monitor. Zero for aggregations computed directly or restored from disk.
	Cycle uint64 `json:"cycle"`
}

// Views returns the parameter views in display order.
func (a *Aggregation) Views() []ParameterView {
	views := make([]ParameterView, 0, len(Parameters))
	for _, p := range Parameters {
		views = append(views, a.Params.Get(p))
	}
	return views
}

// BuildView ranks the votes on p and derives its markers.
func BuildView(live LiveParameterSet, votes []ValidatorVote, p Parameter) ParameterView {
	current := live.Values.Get(p)
	ranked := BuildRankedList(live, votes, p)
	return ParameterView{
		Parameter:    p,
		Label:        p.Label(),
		Unit:         p.Unit(),
		Current:      Normalize(current, p),
		CurrentDrops: current,
		Ranked:       ranked,
		Markers:      DeriveMarkers(ranked),
		Drift:        SummarizeDrift(ranked),
	}
}

// Aggregate computes the views for every parameter from one live snapshot and
// one admitted vote set. It does not modify its inputs, and equal inputs give
// equal outputs.
func Aggregate(live LiveParameterSet, votes []ValidatorVote) Aggregation {
	return Aggregation{
		Params: MapParams(live.Values, func(p Parameter, _ Drops) ParameterView {
			return BuildView(live, votes, p)
		}),
		Validators:  len(votes),
		LedgerIndex: live.LedgerIndex,
		FetchedAt:   live.FetchedAt,
	}
}
