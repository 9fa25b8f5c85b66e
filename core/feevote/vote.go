package feevote

import (
	"fmt"
)

// ValidatorVote is an admitted validator and the fee values it proposes.
type ValidatorVote struct {
	IdentityKey string `json:"key"`
	DisplayName string `json:"name"`

	// A nil value means the validator keeps the status quo for that parameter.
	Proposed ParamSet[*Drops] `json:"proposed"`
}

// AdmitVotes filters the registry feed down to validators which publish a
// non-empty UNL, and reads their proposed fee values.
//
// Duplicate keys and missing votes are passed through. The input order is not
// preserved as a guarantee; ranking re-sorts.
func AdmitVotes(entries []RegistryEntry) ([]ValidatorVote, error) {
	votes := make([]ValidatorVote, 0, len(entries))
	for _, entry := range entries {
		if len(entry.UNL) == 0 {
			continue
		}

		vote := ValidatorVote{
			IdentityKey: entry.MasterKey,
			DisplayName: entry.Name(),
		}
		for _, p := range Parameters {
			raw := entry.Votes.Get(p)
			if raw == nil {
				continue
			}
			drops, err := raw.Drops()
			if err != nil {
				return nil, fmt.Errorf("validator %s: %s vote: %w", entry.MasterKey, p, err)
			}
			vote.Proposed.Set(p, &drops)
		}

		votes = append(votes, vote)
	}
	return votes, nil
}

// VotingValue is the raw value v votes for on parameter p, falling back to the live value.
func (v ValidatorVote) VotingValue(p Parameter, live Drops) (Drops, bool) {
	proposed := v.Proposed.Get(p)
	if proposed == nil {
		return live, false
	}
	return *proposed, true
}
