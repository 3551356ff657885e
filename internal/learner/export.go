package learner

import (
	"io"

	"github.com/at-ishikawa/microcourse/internal/sheet"
)

var exportHeaders = []string{"ID", "Name", "Email", "Phone", "Status", "Assigned Course", "Created At"}

// Export writes learners to an xlsx workbook. courseNames resolves assigned course ids; unknown ids are written as numbers.
func Export(w io.Writer, learners []Learner, courseNames map[int64]string) error {
	rows := make([][]interface{}, 0, len(learners))
	for _, l := range learners {
		var course interface{} = ""
		if l.AssignedCourseID != nil {
			if name, ok := courseNames[*l.AssignedCourseID]; ok {
				course = name
			} else {
				course = *l.AssignedCourseID
			}
		}
		rows = append(rows, []interface{}{
			l.ID,
			l.Name,
			l.Email,
			l.Phone,
			string(l.Status),
			course,
			l.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return sheet.Write(w, "Learners", exportHeaders, rows)
}
