package feevote

// Markers are the reference lines drawn over a ranked list.
type Markers struct {
	// The live value, drawn as a horizontal line.
	CurrentReference float64 `json:"current_reference"`

	// The 1-indexed rank at ceil(n/2), labelled "50%".
	MedianPosition int     `json:"median_position"`
	MedianName     string  `json:"median_name"`
	MedianKey      string  `json:"median_key"`
	MedianVoting   float64 `json:"median_voting"`
}

// MedianPosition returns ceil(n/2). For even n this is the lower of the two middle ranks.
//
// This is a positional midpoint over the ranked validators. It is not the
// weighted 80% threshold the network applies to amendments.
func MedianPosition(n int) int {
	return (n + 1) / 2
}

// DeriveMarkers returns nil for an empty list.
func DeriveMarkers(list RankedList) *Markers {
	if len(list) == 0 {
		return nil
	}

	position := MedianPosition(len(list))
	median := list[position-1]
	return &Markers{
		CurrentReference: list[0].Current,
		MedianPosition:   position,
		MedianName:       median.Name,
		MedianKey:        median.Key,
		MedianVoting:     median.Voting,
	}
}

// Shifted reports whether the validator at the 50% mark votes away from the live value.
func (m *Markers) Shifted() bool {
	return m != nil && m.MedianVoting != m.CurrentReference
}
