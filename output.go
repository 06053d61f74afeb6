package main

import (
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	keyStyle    = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("12"))
)

var printer = message.NewPrinter(language.English)

// formatMoney renders an amount in naira with thousands separators.
func formatMoney(amount int64) string {
	return printer.Sprintf("₦%d", amount)
}

// formatCount renders a count with thousands separators.
func formatCount(n int) string {
	return printer.Sprintf("%d", n)
}

func fullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

// renderTable writes rows under headers as a bordered table.
func renderTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	lipgloss.Fprintln(w, t.Render())
}

// renderFields writes label/value pairs as a two-column table, skipping empty values.
func renderFields(w io.Writer, pairs ...[2]string) {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(_, col int) lipgloss.Style {
			if col == 0 {
				return keyStyle
			}
			return cellStyle
		})
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		t.Row(p[0], p[1])
	}
	lipgloss.Fprintln(w, t.Render())
}
