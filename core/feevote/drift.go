package feevote

// Drift counts how validators lean relative to the live value of a parameter.
type Drift struct {
	Explicit int `json:"explicit"`
	Above    int `json:"above"`
	Below    int `json:"below"`
	Equal    int `json:"equal"`
}

func SummarizeDrift(list RankedList) Drift {
	drift := Drift{}
	for _, entry := range list {
		if entry.Explicit {
			drift.Explicit++
		}
		switch {
		case entry.Voting > entry.Current:
			drift.Above++
		case entry.Voting < entry.Current:
			drift.Below++
		default:
			drift.Equal++
		}
	}
	return drift
}
