package feevote

import (
	"time"
)

func drops(v uint64) *Drops {
	d := Drops(v)
	return &d
}

func newLive(baseFee, reserveBase, reserveInc Drops) LiveParameterSet {
	return LiveParameterSet{
		Values: ParamSet[Drops]{
			BaseFee:          baseFee,
			ReserveBase:      reserveBase,
			ReserveIncrement: reserveInc,
		},
		LedgerIndex: 90_000_000,
		FetchedAt:   time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newVote(key string, name string, proposed ParamSet[*Drops]) ValidatorVote {
	return ValidatorVote{
		IdentityKey: key,
		DisplayName: name,
		Proposed:    proposed,
	}
}

// mainnetLive is the fee schedule after the 2024 reserve reduction.
var mainnetLive = newLive(10, 1_000_000, 200_000)
