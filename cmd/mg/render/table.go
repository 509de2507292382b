// Package render writes schedules and mappings as text.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	apimappings "github.com/mindgarden/consultation/pkg/api/types/mappings"
	apischedules "github.com/mindgarden/consultation/pkg/api/types/schedules"
)

// table lays out rows in columns. Widths are measured in terminal cells,
// so Korean names are aligned.
type table struct {
	headers []string
	rows    [][]string
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) write(w io.Writer) error {
	r := lipgloss.NewRenderer(w)
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	line := func(style lipgloss.Style, cells []string) string {
		rendered := make([]string, len(cells))
		for i, c := range cells {
			s := style.Width(widths[i])
			if i < len(cells)-1 {
				s = s.PaddingRight(2).Width(widths[i] + 2)
			}
			rendered[i] = s.Render(c)
		}
		return strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, rendered...), " ") + "\n"
	}

	if _, err := io.WriteString(w, line(r.NewStyle().Bold(true), t.headers)); err != nil {
		return err
	}
	for _, row := range t.rows {
		if _, err := io.WriteString(w, line(r.NewStyle(), row)); err != nil {
			return err
		}
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// SchedulePage writes a page of schedules with the pagination footer.
func SchedulePage(w io.Writer, page apischedules.Page) error {
	if len(page.Items) == 0 {
		_, err := fmt.Fprintf(
			w, "no schedules to show. (page %d/%d, %d of %d schedules)\n",
			page.Page, max(page.TotalPages, 1), page.Total, page.Unfiltered,
		)
		return err
	}

	t := &table{headers: []string{"ID", "DATE", "TIME", "STATUS", "TYPE", "TITLE", "CONSULTANT", "CLIENT"}}
	for _, s := range page.Items {
		t.add(
			fmt.Sprint(s.ScheduleId),
			s.Date.String(),
			fmt.Sprintf("%s-%s", s.StartTime, s.EndTime),
			s.Status,
			orDash(s.ConsultationType),
			s.Title,
			orDash(s.ConsultantName),
			orDash(s.ClientName),
		)
	}
	if err := t.write(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(
		w, "page %d/%d (%d of %d schedules)\n",
		page.Page, page.TotalPages, page.Total, page.Unfiltered,
	)
	return err
}

// Mappings writes mappings as a table.
func Mappings(w io.Writer, ms []apimappings.Mapping) error {
	if len(ms) == 0 {
		_, err := io.WriteString(w, "no mappings to show.\n")
		return err
	}
	t := &table{headers: []string{"ID", "STATUS", "CONSULTANT", "CLIENT", "PACKAGE", "SESSIONS", "PRICE"}}
	for _, m := range ms {
		t.add(
			fmt.Sprint(m.MappingId),
			m.Status,
			orDash(m.ConsultantName),
			orDash(m.ClientName),
			orDash(m.PackageName),
			fmt.Sprintf("%d/%d left", m.RemainingSessions, m.TotalSessions),
			fmt.Sprint(m.PackagePrice),
		)
	}
	return t.write(w)
}
