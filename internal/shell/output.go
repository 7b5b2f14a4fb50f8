package shell

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"autoboard/internal/models"
)

const missing = "N/A"

var (
	infoColor    = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
	headerColor  = color.New(color.Bold)
)

type printer struct {
	w io.Writer
}

func (p printer) prompt(label string) {
	_, _ = fmt.Fprint(p.w, label)
}

func (p printer) info(format string, args ...any) {
	_, _ = infoColor.Fprintf(p.w, format+"\n", args...)
}

func (p printer) success(format string, args ...any) {
	_, _ = successColor.Fprintf(p.w, format+"\n", args...)
}

func (p printer) warning(format string, args ...any) {
	_, _ = warningColor.Fprintf(p.w, format+"\n", args...)
}

func (p printer) error(err error) {
	_, _ = errorColor.Fprintf(p.w, "Error: %s\n", oneLine(err.Error()))
}

// table writes rows aligned under headers.
func (p printer) table(headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	_, _ = headerColor.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = orMissing(oneLine(cell))
		}
		_, _ = fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()
}

var taskHeaders = []string{"id", "title", "description", "status", "assignee_id", "project_id"}

func taskRows(tasks []models.Task) [][]string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		status := ""
		if t.Status != nil {
			status = t.Status.Name
		}

		assignee := ""
		switch {
		case t.Assignee != nil:
			assignee = t.Assignee.ID
		case t.AssigneeID != nil:
			assignee = *t.AssigneeID
		}

		project := ""
		switch {
		case t.Project != nil:
			project = strconv.FormatInt(t.Project.ID, 10)
		case t.ProjectID != 0:
			project = strconv.FormatInt(t.ProjectID, 10)
		}

		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			t.Title,
			t.Description,
			status,
			assignee,
			project,
		})
	}
	return rows
}

func statusRows(statuses []models.TaskStatus) [][]string {
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		rows = append(rows, []string{strconv.FormatInt(s.ID, 10), s.Name})
	}
	return rows
}

func projectRows(projects []models.Project) [][]string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{strconv.FormatInt(p.ID, 10), p.Name, p.Description, p.Color})
	}
	return rows
}

func logRows(logs []models.ActivityLog) [][]string {
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		user := ""
		if l.UserID != nil {
			user = *l.UserID
		}
		rows = append(rows, []string{
			l.Timestamp.Local().Format("2006-01-02 15:04:05"),
			strconv.FormatInt(l.TaskID, 10),
			user,
			l.Description,
		})
	}
	return rows
}

func orMissing(s string) string {
	if strings.TrimSpace(s) == "" {
		return missing
	}
	return s
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
