package console

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"nontransitive/probability"

	"github.com/shopspring/decimal"
)

// FormatProbability renders wins/total with two decimals. Rounding is half
// up on the exact fraction, so 5/8 prints as 0.63 and never drifts through
// a float.
func FormatProbability(wins, total int) string {
	if total <= 0 || wins < 0 {
		return decimal.Zero.StringFixed(2)
	}
	hundredths := (int64(wins)*200 + int64(total)) / (2 * int64(total))
	return decimal.New(hundredths, -2).StringFixed(2)
}

// RenderTable writes the win probability table with "Dice k" headers.
// Row i, column j holds the chance that die i beats die j.
func RenderTable(w io.Writer, m probability.Matrix) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := make([]string, 0, m.Size()+1)
	header = append(header, "")
	for j := 0; j < m.Size(); j++ {
		header = append(header, diceLabel(j))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for i := 0; i < m.Size(); i++ {
		row := make([]string, 0, m.Size()+1)
		row = append(row, diceLabel(i))
		for j := 0; j < m.Size(); j++ {
			if i == j {
				row = append(row, "-")
				continue
			}
			row = append(row, FormatProbability(m.Fraction(i, j)))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	return tw.Flush()
}

func diceLabel(i int) string {
	return fmt.Sprintf("Dice %d", i+1)
}
