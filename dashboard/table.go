package dashboard

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/liamzebedee/feevote-go/core/feevote"
	"github.com/olekukonko/tablewriter"
)

// RenderTables writes one ranked table per fee parameter.
func RenderTables(w io.Writer, agg *feevote.Aggregation) error {
	fmt.Fprintf(w, "Ledger %d, %s validators\n\n", agg.LedgerIndex, formatCount(agg.Validators))

	for _, view := range agg.Views() {
		if err := renderTable(w, view); err != nil {
			return err
		}
	}
	return nil
}

func renderTable(w io.Writer, view feevote.ParameterView) error {
	fmt.Fprintf(w, "%s  current: %s %s\n", color.New(color.Bold).Sprint(view.Label), view.CurrentString(), view.Unit)

	if len(view.Ranked) == 0 {
		fmt.Fprintf(w, "  no data\n\n")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("#", "Validator", "Key", "Voting", "Vote", "Marker")
	for i, entry := range view.Ranked {
		vote := "status quo"
		if entry.Explicit {
			vote = "explicit"
		}
		marker := ""
		if i+1 == view.Markers.MedianPosition {
			marker = "50%"
		}
		value := formatValue(entry.Voting) + " " + view.Unit
		if entry.Voting != entry.Current {
			value = color.HiYellowString(value)
		}

		if err := table.Append([]string{strconv.Itoa(i + 1), entry.Name, shortKey(entry.Key), value, vote, marker}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	drift := view.Drift
	fmt.Fprintf(w, "explicit=%d above=%d below=%d equal=%d", drift.Explicit, drift.Above, drift.Below, drift.Equal)
	if view.Markers.Shifted() {
		fmt.Fprintf(w, "  %s", color.HiRedString("50%% mark at %s %s", formatValue(view.Markers.MedianVoting), view.Unit))
	}
	fmt.Fprintf(w, "\n\n")
	return nil
}
