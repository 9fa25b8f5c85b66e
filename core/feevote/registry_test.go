package feevote

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registryFixture = `[
	{
		"master_key": "nHUon2tpyJEHHYGmxqeGu37cvPYHzrMtUNQFVdCgGNvEkjmCpTqK",
		"chain": "main",
		"domain": "alloy.ee",
		"domain_legacy": "",
		"unl": ["vl.ripple.com", "unl.xrplf.org"],
		"votes": {"base_fee": 10, "reserve_base": 1000000, "reserve_inc": "200000", "amendments": ["DisallowIncoming"]},
		"meta": {"host": {"country": "EE"}},
		"server_version": "2.3.0"
	},
	{
		"master_key": "nHBidG3pZK11zQD6kpNDoAhDxH6WLGui6ZxSbUx7LSqLHsgzMPec",
		"domain": "",
		"domain_legacy": "bithomp.com",
		"unl": ["vl.ripple.com"],
		"votes": {}
	},
	{
		"master_key": "nHUkAWDR4cB8AgPg7VXMX6et8xRTQb2KJfgv1aBEXozwrawRKgMB",
		"domain": "lowfee.example",
		"unl": [],
		"votes": {"base_fee": 5}
	},
	{
		"master_key": "nHUpJSKQTZdB1TDkbCREMuf8vEqFkk84BcvZDhsQsDufFDQVajam",
		"domain": "noise.example",
		"votes": {"reserve_base": 2000000},
		"meta": null
	}
]`

func TestDecodeRegistryEntries(t *testing.T) {
	assert := assert.New(t)

	var entries []RegistryEntry
	require.NoError(t, json.Unmarshal([]byte(registryFixture), &entries))
	require.Len(t, entries, 4)

	first := entries[0]
	assert.Equal("alloy.ee", first.Name())
	assert.Equal(VoteAmount("10"), *first.Votes.BaseFee)
	assert.Equal(VoteAmount("200000"), *first.Votes.ReserveIncrement)
	assert.Equal([]string{"DisallowIncoming"}, first.Votes.Amendments)
	assert.JSONEq(`{"host": {"country": "EE"}}`, string(first.Meta))

	second := entries[1]
	assert.Equal("bithomp.com", second.Name())
	assert.Nil(second.Votes.BaseFee)
	assert.Nil(second.Votes.ReserveBase)
	assert.Nil(second.Votes.ReserveIncrement)
}

func TestNameFallsBackToKey(t *testing.T) {
	entry := RegistryEntry{MasterKey: "nHkey"}
	assert.Equal(t, "nHkey", entry.Name())
}

func TestAdmitVotes(t *testing.T) {
	assert := assert.New(t)

	var entries []RegistryEntry
	require.NoError(t, json.Unmarshal([]byte(registryFixture), &entries))

	votes, err := AdmitVotes(entries)
	require.NoError(t, err)

	// Only the two validators with a non-empty UNL are admitted.
	require.Len(t, votes, 2)
	assert.Equal("alloy.ee", votes[0].DisplayName)
	assert.Equal(Drops(10), *votes[0].Proposed.BaseFee)
	assert.Equal(Drops(1_000_000), *votes[0].Proposed.ReserveBase)
	assert.Equal(Drops(200_000), *votes[0].Proposed.ReserveIncrement)

	assert.Equal("bithomp.com", votes[1].DisplayName)
	assert.Nil(votes[1].Proposed.BaseFee)
}

func TestAdmitVotesToleratesDuplicates(t *testing.T) {
	entries := []RegistryEntry{
		{MasterKey: "nHdup", Domain: "a.example", UNL: []string{"x"}},
		{MasterKey: "nHdup", Domain: "b.example", UNL: []string{"x"}},
	}
	votes, err := AdmitVotes(entries)
	assert.NoError(t, err)
	assert.Len(t, votes, 2)
}

func TestAdmitVotesRejectsUnparseableValues(t *testing.T) {
	var entries []RegistryEntry
	require.NoError(t, json.Unmarshal([]byte(`[
		{"master_key": "nHbad", "unl": ["x"], "votes": {"reserve_base": "ten XRP"}}
	]`), &entries))

	_, err := AdmitVotes(entries)
	assert.ErrorIs(t, err, ErrValueParse)
	assert.Contains(t, err.Error(), "nHbad")
}

func TestVoteAmountRejectsNonNumbers(t *testing.T) {
	var votes RegistryVotes
	require.NoError(t, json.Unmarshal([]byte(`{"base_fee": true, "reserve_base": {"xrp": 10}}`), &votes))

	_, err := votes.BaseFee.Drops()
	assert.ErrorIs(t, err, ErrValueParse)
	_, err = votes.ReserveBase.Drops()
	assert.ErrorIs(t, err, ErrValueParse)
}

func TestMalformedVoteOutsideUNLIsDiscarded(t *testing.T) {
	assert := assert.New(t)

	var entries []RegistryEntry
	require.NoError(t, json.Unmarshal([]byte(`[
		{"master_key": "nHgood", "unl": ["vl.ripple.com"], "votes": {"base_fee": 10}},
		{"master_key": "nHjunk", "unl": [], "votes": {"base_fee": true}}
	]`), &entries))
	require.Len(t, entries, 2)

	votes, err := AdmitVotes(entries)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal("nHgood", votes[0].IdentityKey)
	assert.Equal(Drops(10), *votes[0].Proposed.BaseFee)
}

func TestMalformedVoteInsideUNLFailsAdmission(t *testing.T) {
	var entries []RegistryEntry
	require.NoError(t, json.Unmarshal([]byte(`[
		{"master_key": "nHjunk", "unl": ["vl.ripple.com"], "votes": {"base_fee": true}}
	]`), &entries))

	_, err := AdmitVotes(entries)
	assert.ErrorIs(t, err, ErrValueParse)
	assert.Contains(t, err.Error(), "nHjunk")
}

func TestAdmitVotesEmptyFeed(t *testing.T) {
	votes, err := AdmitVotes(nil)
	assert.NoError(t, err)
	assert.NotNil(t, votes)
	assert.Len(t, votes, 0)
}
