package ingest

import (
	"fmt"
	"strings"

	"lifdb/internal/store"
)

// Summary renders the two-line fixed-width table describing a stored row,
// the same layout collaborators see when browsing the dataset:
//
//	  id |      user      |       name       |       task       | formula |  energy  | success |  used_in
//	   1 | Paolo De Ange* | 0-LiF_Fm-3m_-3.* | initial configu* | LiF     |          |         |      none
func Summary(row *store.Row) string {
	return SummaryHeader() + "\n" + SummaryLine(row)
}

// SummaryHeader returns the table header on its own, for listings that
// print many rows under one header.
func SummaryHeader() string {
	return fmt.Sprintf("\t  id | %s | %s | %s | formula |  energy  | success |  used_in  ",
		center("user", 14), center("name", 16), center("task", 16))
}

// SummaryLine returns one row's table line.
func SummaryLine(row *store.Row) string {
	user := truncate(row.User, 14)
	name := truncate(row.StringKey("name"), 16)
	task := truncate(row.StringKey("task"), 16)

	energy := ""
	if row.Energy != nil {
		energy = fmt.Sprintf("%8.3f", *row.Energy)
	}
	success := ""
	if v, ok := row.Key("success").(bool); ok {
		success = fmt.Sprintf("%v", v)
	}
	usedIn := row.StringKey("used_in")

	return fmt.Sprintf("\t %3d | %-14s | %-16s | %-16s | %-7s | %8s | %7s | %9s ",
		row.ID, user, name, task, row.Formula(), energy, success, usedIn)
}

// truncate shortens a value to width runes, marking the cut with "*".
func truncate(s string, width int) string {
	if len(s) > width {
		return s[:width-1] + "*"
	}
	return s
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	right := width - len(s) - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}
