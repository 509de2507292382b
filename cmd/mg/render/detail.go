package render

import (
	"fmt"
	"io"
	"strings"

	apimappings "github.com/mindgarden/consultation/pkg/api/types/mappings"
	apischedules "github.com/mindgarden/consultation/pkg/api/types/schedules"
)

type field struct {
	name  string
	value string
}

func fields(w io.Writer, fs []field) error {
	width := 0
	for _, f := range fs {
		width = max(width, len(f.name))
	}
	for _, f := range fs {
		if f.value == "" {
			continue
		}
		// multi-line values are indented under their name.
		value := strings.ReplaceAll(f.value, "\n", "\n"+strings.Repeat(" ", width+2))
		if _, err := fmt.Fprintf(w, "%-*s  %s\n", width, f.name+":", value); err != nil {
			return err
		}
	}
	return nil
}

// Schedule writes the detail of a schedule.
func Schedule(w io.Writer, s apischedules.Schedule) error {
	client := s.ClientName
	if client == "" && s.ClientId != nil {
		client = fmt.Sprintf("#%d", *s.ClientId)
	}
	return fields(w, []field{
		{"Schedule", fmt.Sprint(s.ScheduleId)},
		{"Title", s.Title},
		{"Status", s.Status},
		{"Type", s.ConsultationType},
		{"Date", s.Date.String()},
		{"Time", fmt.Sprintf("%s-%s", s.StartTime, s.EndTime)},
		{"Consultant", fmt.Sprintf("%s (#%d)", s.ConsultantName, s.ConsultantId)},
		{"Client", client},
		{"Description", s.Description},
		{"Notes", s.Notes},
		{"Updated", s.UpdatedAt.String()},
	})
}

// Mapping writes the detail of a mapping.
func Mapping(w io.Writer, m apimappings.Mapping) error {
	fs := []field{
		{"Mapping", fmt.Sprint(m.MappingId)},
		{"Status", m.Status},
		{"Consultant", fmt.Sprintf("%s (#%d)", m.ConsultantName, m.ConsultantId)},
		{"Client", fmt.Sprintf("%s (#%d)", m.ClientName, m.ClientId)},
		{"Package", fmt.Sprintf("%s (%d)", m.PackageName, m.PackagePrice)},
		{"Sessions", fmt.Sprintf("%d used, %d left of %d", m.UsedSessions, m.RemainingSessions, m.TotalSessions)},
	}
	if p := m.Payment; p != nil {
		payment := fmt.Sprintf("%d by %s at %s", p.Amount, p.Method, p.ConfirmedAt.String())
		if p.Reference != "" {
			payment += " (" + p.Reference + ")"
		}
		fs = append(fs, field{"Payment", payment})
	}
	if m.ApprovedAt != nil {
		fs = append(fs, field{"Approved", fmt.Sprintf("by %s at %s", m.ApprovedBy, m.ApprovedAt.String())})
	}
	if m.TerminatedAt != nil {
		fs = append(fs, field{"Terminated", m.TerminatedAt.String()})
	}
	fs = append(fs, field{"Notes", m.Notes}, field{"Updated", m.UpdatedAt.String()})
	return fields(w, fs)
}
