package simulator

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// MergeStats sums per-seat statistics across games that share a seating.
func MergeStats(games []GameResult) []PlayerStats {
	if len(games) == 0 {
		return nil
	}

	totals := make([]PlayerStats, len(games[0].Players))
	for seat, s := range games[0].Players {
		totals[seat] = PlayerStats{Seat: seat, Name: s.Name, Kind: s.Kind}
	}

	for _, game := range games {
		for seat, s := range game.Players {
			totals[seat].Rounds += s.Rounds
			totals[seat].Wins += s.Wins
			totals[seat].CumulativeLoss += s.CumulativeLoss
			totals[seat].CumulativeReward += s.CumulativeReward
		}
	}
	return totals
}

// WinRate is the fraction of rounds won, 0 when no round was played.
func (s PlayerStats) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Rounds)
}

// WriteTable prints one line per seat.
func WriteTable(w io.Writer, totals []PlayerStats) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEAT\tPLAYER\tROUNDS\tWINS\tWIN%\tLOSS\tREWARD")
	for _, s := range totals {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%.1f\t%d\t%d\n", s.Seat, s.Name, s.Rounds, s.Wins, 100*s.WinRate(), s.CumulativeLoss, s.CumulativeReward)
	}
	return tw.Flush()
}
