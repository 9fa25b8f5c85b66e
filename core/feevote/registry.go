package feevote

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/liamzebedee/feevote-go/core"
)

var ErrValueParse = core.ErrValueParse

// RegistrySource supplies the validator registry feed.
type RegistrySource interface {
	FetchRegistry(ctx context.Context) ([]RegistryEntry, error)
}

// RegistryEntry is one validator record as published by the registry feed.
type RegistryEntry struct {
	MasterKey    string        `json:"master_key"`
	EphemeralKey string        `json:"ephemeral_key,omitempty"`
	Chain        string        `json:"chain,omitempty"`
	Domain       string        `json:"domain"`
	DomainLegacy string        `json:"domain_legacy"`
	UNL          []string      `json:"unl"`
	Votes        RegistryVotes `json:"votes"`
	LastSeen     string        `json:"last_seen,omitempty"`
	LedgerIndex  uint64        `json:"ledger_index,omitempty"`

	// Passed through untouched.
	Meta          json.RawMessage `json:"meta,omitempty"`
	ServerVersion json.RawMessage `json:"server_version,omitempty"`
}

// Name is the human readable label of the validator.
func (e RegistryEntry) Name() string {
	if e.Domain != "" {
		return e.Domain
	}
	if e.DomainLegacy != "" {
		return e.DomainLegacy
	}
	return e.MasterKey
}

// RegistryVotes are the fee settings a validator votes for. A nil amount means no vote.
type RegistryVotes struct {
	ParamSet[*VoteAmount]
	Amendments []string `json:"amendments,omitempty"`
}

// VoteAmount is a raw drops amount from the feed. The feed encodes it either
// as a JSON number or as a numeric string. Decoding keeps the raw text and
// never fails; the value is only read by Drops, once the entry is admitted.
type VoteAmount string

func (a *VoteAmount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			*a = VoteAmount(s)
			return nil
		}
	}
	*a = VoteAmount(b)
	return nil
}

func (a VoteAmount) MarshalJSON() ([]byte, error) {
	if json.Valid([]byte(a)) {
		return []byte(a), nil
	}
	return json.Marshal(string(a))
}

// Drops reads the amount as an integer number of drops.
func (a VoteAmount) Drops() (Drops, error) {
	drops, err := core.ParseDrops(string(a))
	return Drops(drops), err
}
