package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jask/ynab4import/internal/importer"
	"github.com/jask/ynab4import/internal/ynab4"
)

// Catppuccin Mocha, as in the ledger UI.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorRed      lipgloss.Color = "#f38ba8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorPink)
	okStyle     = lipgloss.NewStyle().Foreground(colorGreen)
	errStyle    = lipgloss.NewStyle().Foreground(colorRed)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorOverlay1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorSurface1)).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func renderSummary(snap ynab4.Snapshot, s importer.Summary, err error) string {
	t := newTable("Stage", "Written").Rows(
		[]string{"accounts", strconv.Itoa(s.Accounts)},
		[]string{"categories", strconv.Itoa(s.Categories)},
		[]string{"payees", strconv.Itoa(s.Payees)},
		[]string{"transactions", strconv.Itoa(s.Transactions)},
		[]string{"budgets", strconv.Itoa(s.Budgets)},
	)
	status := okStyle.Render("import complete")
	if err != nil {
		status = errStyle.Render("import failed: " + err.Error())
	}
	device := snap.Device.FriendlyName
	if device == "" {
		device = snap.Device.DeviceGUID
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(snap.Name),
		mutedStyle.Render(fmt.Sprintf("snapshot from %s", device)),
		t.String(),
		status,
	)
}

func renderDevices(scored []ynab4.ScoredDevice, selectedPath string) string {
	t := newTable("", "Device", "Name", "Full", "Recentness", "Note")
	for _, sd := range scored {
		mark := ""
		if selectedPath != "" && sd.Device.Path == selectedPath {
			mark = "*"
		}
		t.Row(
			mark,
			filepath.Base(sd.Device.Path),
			sd.Device.FriendlyName,
			strconv.FormatBool(sd.Device.HasFullKnowledge),
			strconv.FormatInt(sd.Recentness, 10),
			sd.Reason,
		)
	}
	if selectedPath == "" {
		return lipgloss.JoinVertical(lipgloss.Left, t.String(), errStyle.Render(ynab4.ErrNoAuthoritativeSnapshot.Error()))
	}
	return t.String()
}
