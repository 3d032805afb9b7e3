// Package report turns scored rows into standings and hands them to a store.
package report

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"

	"github.com/okian/fantasy-cricket/internal/domain/model"
	"github.com/okian/fantasy-cricket/internal/domain/types"
	"github.com/okian/fantasy-cricket/pkg/metrics"
)

// Writer is the part of a store the reporter needs.
type Writer interface {
	UpsertPoints(ctx context.Context, rows []model.PlayerPoints) error
}

// Filter drops scorecard labels and nameless rows. Order is kept.
func Filter(rows []model.PlayerPoints) []model.PlayerPoints {
	out := make([]model.PlayerPoints, 0, len(rows))
	for _, r := range rows {
		if strings.TrimSpace(r.Player) == "" || model.IsSentinelName(r.Player) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Rank orders one match's rows by total, highest first, ties by name.
func Rank(rows []model.PlayerPoints) []types.Entry {
	sorted := append([]model.PlayerPoints(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := sorted[i].Total(), sorted[j].Total()
		if ti != tj {
			return ti > tj
		}
		return sorted[i].Player < sorted[j].Player
	})

	out := make([]types.Entry, len(sorted))
	for i, r := range sorted {
		out[i] = types.Entry{
			Rank:     i + 1,
			PlayerID: r.PlayerID,
			Player:   r.Player,
			Team:     r.Team,
			Matches:  1,
			Batting:  r.Batting,
			Bowling:  r.Bowling,
			Fielding: r.Fielding,
			POTM:     r.POTM,
			Total:    r.Total(),
		}
	}
	return out
}

// Render writes entries as an aligned text table under title.
func Render(w io.Writer, title string, entries []types.Entry) error {
	if title != "" {
		if _, err := fmt.Fprintf(w, "%s\n", title); err != nil {
			return err
		}
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tPlayer\tTeam\tM\tBat\tBowl\tField\tPOTM\tTotal\t")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t\n",
			e.Rank, e.Player, e.Team, e.Matches, e.Batting, e.Bowling, e.Fielding, e.POTM, e.Total)
	}
	return tw.Flush()
}

// RenderJSON writes entries as an indented JSON array.
func RenderJSON(w io.Writer, entries []types.Entry) error {
	if entries == nil {
		entries = []types.Entry{}
	}
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// Export writes the filtered rows in their original order and returns how
// many were written.
func Export(ctx context.Context, w Writer, rows []model.PlayerPoints) (int, error) {
	rows = Filter(rows)
	if len(rows) == 0 {
		return 0, nil
	}
	if err := w.UpsertPoints(ctx, rows); err != nil {
		metrics.RecordExportError()
		return 0, err
	}
	metrics.RecordRowsExported(len(rows))
	return len(rows), nil
}
