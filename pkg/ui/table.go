package ui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/fd1az/sui-swap-bot/business/account/domain"
)

// AccountTable renders account snapshots with one column per symbol. The
// Volume column is shown only when withVolume is set.
func AccountTable(snapshots []domain.Snapshot, symbols []string, withVolume bool) string {
	headers := []string{"No.", "Note", "Address"}
	headers = append(headers, symbols...)
	headers = append(headers, "Last Swap Time")
	if withVolume {
		headers = append(headers, "Volume")
	}

	rows := make([][]string, 0, len(snapshots))
	for _, s := range snapshots {
		row := []string{strconv.Itoa(s.Index), s.Label, s.Address}
		for _, sym := range symbols {
			row = append(row, s.BalanceOf(sym))
		}
		row = append(row, s.LastSwap)
		if withVolume {
			row = append(row, s.Volume)
		}
		rows = append(rows, row)
	}

	firstBalance, lastBalance := 3, 3+len(symbols)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorBorder)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			style := TableCellStyle
			if col >= firstBalance && col < lastBalance {
				style = style.Align(lipgloss.Right)
			}
			if col == lastBalance && rows[row][col] == domain.NoRecord {
				style = style.Foreground(ColorMuted)
			}
			return style
		})

	return t.String()
}
