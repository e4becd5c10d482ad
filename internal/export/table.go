// Package export renders enriched records for the console and for file
// output. Absent values render as "-" in tables and as empty in CSV.
package export

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"argus/internal/domain"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Table renders the grouped result table.
func Table(records []domain.Record) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		}).
		Headers("IP", "Org Info", "Proxy", "Network", "Location")

	for i := range records {
		rec := &records[i]
		if rec.HasError() {
			t.Row(rec.IP, "-", "-", errorStyle.Render("ERROR: "+*rec.Error), "-")
			continue
		}
		t.Row(rec.IP, orgCell(rec), proxyCell(rec), networkCell(rec), rec.LocationDisplay())
	}

	return t.Render()
}

func orgCell(rec *domain.Record) string {
	if !rec.OrgManaged {
		return "-"
	}
	parts := []string{"managed"}
	if rec.OrgID != nil {
		parts = append(parts, *rec.OrgID)
	}
	if rec.Platform != nil {
		parts = append(parts, fmt.Sprintf("(%s)", *rec.Platform))
	}
	return strings.Join(parts, " ")
}

func proxyCell(rec *domain.Record) string {
	parts := make([]string, 0, 2)
	if rec.ProxyType != nil {
		parts = append(parts, *rec.ProxyType)
	}
	if rec.UsageType != nil {
		parts = append(parts, fmt.Sprintf("(%s)", *rec.UsageType))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func networkCell(rec *domain.Record) string {
	parts := make([]string, 0, 2)
	if asn := rec.ASNDisplay(); asn != "-" {
		parts = append(parts, asn)
	}
	if rec.Domain != nil {
		parts = append(parts, *rec.Domain)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}
