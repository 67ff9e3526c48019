// Package report renders result sheets (PDF and printable HTML) and the
// spreadsheets exchanged with the school office.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/vietanh2810/school-portal-api/internal/domain"
)

// ResultSheet is everything printed on one student's term report.
type ResultSheet struct {
	School  domain.SchoolInfo
	Student domain.Student
	Result  domain.Result
}

// ResultFileName is <first>_<last>_<session>_<term>_Result.pdf with "/"
// in the session replaced by "-" and spaces by "_".
func ResultFileName(student domain.Student, result domain.Result) string {
	name := fmt.Sprintf("%s_%s_%s_%s_Result.pdf",
		student.FirstName, student.LastName, result.Session, result.Term)
	return strings.NewReplacer("/", "-", " ", "_").Replace(name)
}

func BroadsheetFileName(className, session string, term domain.Term) string {
	name := fmt.Sprintf("%s_%s_%s_Broadsheet.xlsx", className, session, term)
	return strings.NewReplacer("/", "-", " ", "_").Replace(name)
}

func CardsFileName(now time.Time) string {
	return fmt.Sprintf("scratch_cards_%s.xlsx", now.Format("20060102_150405"))
}

func positionText(position, outOf int) string {
	if position <= 0 {
		return "-"
	}
	if outOf <= 0 {
		return fmt.Sprintf("%d", position)
	}
	return fmt.Sprintf("%d of %d", position, outOf)
}

func score(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
