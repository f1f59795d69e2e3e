package cli

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/calvinalkan/people/internal/store"
)

var tableHeader = [4]string{"#", "NAME", "AGE", "HEIGHT"}

// formatTable renders entries as aligned columns. Widths are measured in
// terminal cells so wide and combining characters in names line up.
// It returns no lines for no entries.
func formatTable(entries []store.Entry) []string {
	if len(entries) == 0 {
		return nil
	}

	rows := make([][4]string, 0, len(entries)+1)
	rows = append(rows, tableHeader)

	for _, e := range entries {
		rows = append(rows, [4]string{
			strconv.Itoa(e.Position),
			e.Record.Name,
			strconv.Itoa(e.Record.Age),
			strconv.Itoa(e.Record.Height),
		})
	}

	var widths [4]int

	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	lines := make([]string, 0, len(rows))

	for _, row := range rows {
		var b strings.Builder

		for i, cell := range row {
			pad := strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell))

			// Name column is left aligned, numbers right aligned.
			if i == 1 {
				b.WriteString(cell)
				b.WriteString(pad)
			} else {
				b.WriteString(pad)
				b.WriteString(cell)
			}

			if i < len(row)-1 {
				b.WriteString("  ")
			}
		}

		lines = append(lines, b.String())
	}

	return lines
}
