package enrollment

import (
	"io"

	"github.com/at-ishikawa/microcourse/internal/sheet"
)

var exportHeaders = []string{"ID", "Learner ID", "Phone", "Course", "Status", "Day", "Progress %", "Admin Assigned", "Started At", "Completed At"}

// Export writes records to an xlsx workbook.
func Export(w io.Writer, records []Record) error {
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		completedAt := ""
		if r.CompletedAt != nil {
			completedAt = r.CompletedAt.Format("2006-01-02 15:04")
		}
		rows = append(rows, []interface{}{
			r.ID,
			r.LearnerID,
			r.PhoneNumber,
			r.CourseName,
			string(r.Status),
			r.CurrentDay,
			r.ProgressPercent,
			r.AdminAssigned,
			r.StartedAt.Format("2006-01-02 15:04"),
			completedAt,
		})
	}
	return sheet.Write(w, "Enrollments", exportHeaders, rows)
}
