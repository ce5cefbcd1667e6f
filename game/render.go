package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/f3rmion/fairdice/odds"
)

// RenderMatrix renders the chance of the row die beating the column die.
// Each cell reads "0.5556 (20/36)"; the diagonal is "-". A cycle, if the
// set has one, is listed under the table.
func RenderMatrix(m *odds.Matrix) string {
	headers := make([]string, 0, m.Len()+1)
	headers = append(headers, "User dice v")
	for i := 0; i < m.Len(); i++ {
		headers = append(headers, m.Die(i).String())
	}

	rows := make([][]string, 0, m.Len())
	for i := 0; i < m.Len(); i++ {
		row := make([]string, 0, m.Len()+1)
		row = append(row, m.Die(i).String())
		for j := 0; j < m.Len(); j++ {
			o, ok := m.At(i, j)
			if !ok {
				row = append(row, "-")
				continue
			}
			row = append(row, fmt.Sprintf("%.4f (%d/%d)", o.First(), o.Wins, o.Total))
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)

	var b strings.Builder
	b.WriteString(t.String())
	if cycle, ok := m.Cycle(); ok {
		parts := make([]string, 0, len(cycle)+1)
		for _, i := range cycle {
			parts = append(parts, m.Die(i).String())
		}
		parts = append(parts, m.Die(cycle[0]).String())
		b.WriteString("\nNon-transitive: " + strings.Join(parts, " beats "))
	}
	return b.String()
}

// RenderSums renders the distribution of the sum of one throw of each die.
func RenderSums(d odds.Distribution) string {
	rows := make([][]string, 0, len(d.Counts))
	for _, s := range d.Sums() {
		rows = append(rows, []string{
			strconv.Itoa(s),
			fmt.Sprintf("%.4f", d.P(s)),
			fmt.Sprintf("%d/%d", d.Counts[s], d.Total),
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Sum", "Probability", "Count").
		Rows(rows...).
		String()
}
