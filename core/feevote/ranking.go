package feevote

import (
	"cmp"
	"slices"
	"strings"
)

// RankedEntry is one validator's position on a single parameter, in display units.
type RankedEntry struct {
	Name    string  `json:"name"`
	Key     string  `json:"key"`
	Current float64 `json:"current"`
	Voting  float64 `json:"voting"`

	// Explicit is set when the validator published a value, rather than
	// being counted as a status-quo vote.
	Explicit bool `json:"explicit"`
}

// RankedList is ordered by voting value ascending, then by key.
type RankedList []RankedEntry

func compareEntries(a, b RankedEntry) int {
	if c := cmp.Compare(a.Voting, b.Voting); c != 0 {
		return c
	}
	return strings.Compare(a.Key, b.Key)
}

// BuildRankedList ranks every admitted validator on parameter p.
// Validators silent on p are included with the live value as their vote.
func BuildRankedList(live LiveParameterSet, votes []ValidatorVote, p Parameter) RankedList {
	current := live.Values.Get(p)

	list := make(RankedList, 0, len(votes))
	for _, vote := range votes {
		voting, explicit := vote.VotingValue(p, current)
		list = append(list, RankedEntry{
			Name:     vote.DisplayName,
			Key:      vote.IdentityKey,
			Current:  Normalize(current, p),
			Voting:   Normalize(voting, p),
			Explicit: explicit,
		})
	}

	slices.SortStableFunc(list, compareEntries)
	return list
}

// IsOrdered reports whether the list respects the ranking order.
func (l RankedList) IsOrdered() bool {
	return slices.IsSortedFunc(l, compareEntries)
}
