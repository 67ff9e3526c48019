package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/vietanh2810/school-portal-api/internal/domain"
)

const sheetName = "Sheet1"

// SubjectNames lists the subjects of results in first-seen order.
func SubjectNames(results []domain.Result) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range results {
		for _, s := range r.Subjects {
			if !seen[s.Subject] {
				seen[s.Subject] = true
				names = append(names, s.Subject)
			}
		}
	}
	return names
}

// BroadsheetRow is one student's line on a class broadsheet.
type BroadsheetRow struct {
	AdmissionNumber string             `json:"admission_number"`
	Name            string             `json:"name"`
	Totals          map[string]float64 `json:"totals"`
	TotalScore      float64            `json:"total_score"`
	Average         float64            `json:"average"`
	GPA             float64            `json:"gpa"`
	Grade           string             `json:"grade"`
	Position        int                `json:"position"`
}

// BroadsheetRows orders results by position, unranked results last.
func BroadsheetRows(results []domain.Result) []BroadsheetRow {
	rows := make([]BroadsheetRow, 0, len(results))
	for _, r := range results {
		row := BroadsheetRow{
			Totals:     make(map[string]float64, len(r.Subjects)),
			TotalScore: r.TotalScore,
			Average:    r.Average,
			GPA:        r.GPA,
			Grade:      r.Grade,
			Position:   r.Position,
		}
		if r.Student != nil {
			row.AdmissionNumber = r.Student.AdmissionNumber
			row.Name = r.Student.FullName()
		}
		for _, s := range r.Subjects {
			row.Totals[s.Subject] = s.Total
		}
		rows = append(rows, row)
	}

	sortByPosition(rows)
	return rows
}

func sortByPosition(rows []BroadsheetRow) {
	rank := func(p int) int {
		if p <= 0 {
			return math.MaxInt
		}
		return p
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return rank(rows[a].Position) < rank(rows[b].Position)
	})
}

// WriteBroadsheet writes the class score matrix for one term as xlsx.
func WriteBroadsheet(w io.Writer, className, session string, term domain.Term, results []domain.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	subjects := SubjectNames(results)
	header := []interface{}{"S/N", "Admission No", "Name"}
	for _, s := range subjects {
		header = append(header, s)
	}
	header = append(header, "Total", "Average", "GPA", "Grade", "Position")

	title := fmt.Sprintf("%s - %s - %s", className, session, term)
	if err := f.SetCellValue(sheetName, "A1", title); err != nil {
		return fmt.Errorf("f.SetCellValue -> %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A3", &header); err != nil {
		return fmt.Errorf("f.SetSheetRow -> %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("f.NewStyle -> %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(header), 3)
	if err != nil {
		return fmt.Errorf("excelize.CoordinatesToCellName -> %w", err)
	}
	if err = f.SetCellStyle(sheetName, "A1", lastHeader, bold); err != nil {
		return fmt.Errorf("f.SetCellStyle -> %w", err)
	}

	for i, row := range BroadsheetRows(results) {
		values := []interface{}{i + 1, row.AdmissionNumber, row.Name}
		for _, s := range subjects {
			if total, ok := row.Totals[s]; ok {
				values = append(values, total)
			} else {
				values = append(values, "-")
			}
		}
		values = append(values, row.TotalScore, row.Average, row.GPA, row.Grade, row.Position)

		cell, err := excelize.CoordinatesToCellName(1, i+4)
		if err != nil {
			return fmt.Errorf("excelize.CoordinatesToCellName -> %w", err)
		}
		if err = f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("f.SetSheetRow -> %w", err)
		}
	}

	if err = f.SetColWidth(sheetName, "C", "C", 30); err != nil {
		return fmt.Errorf("f.SetColWidth -> %w", err)
	}
	if err = f.Write(w); err != nil {
		return fmt.Errorf("f.Write -> %w", err)
	}

	return nil
}

// WriteCards writes scratch cards for printing, with their effective status at now.
func WriteCards(w io.Writer, cards []domain.ScratchCard, now time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	header := []interface{}{"Serial Number", "PIN", "Status", "Usage", "Usage Limit", "Expiry Date"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("f.SetSheetRow -> %w", err)
	}

	for i, c := range cards {
		values := []interface{}{
			c.SerialNumber,
			c.PIN,
			string(c.EffectiveStatus(now)),
			c.UsageCount,
			c.UsageLimit,
			c.ExpiryDate.Format("2006-01-02"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("excelize.CoordinatesToCellName -> %w", err)
		}
		if err = f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("f.SetSheetRow -> %w", err)
		}
	}

	// PINs are text so leading zeros survive.
	textStyle, err := f.NewStyle(&excelize.Style{NumFmt: 49})
	if err != nil {
		return fmt.Errorf("f.NewStyle -> %w", err)
	}
	if err = f.SetColStyle(sheetName, "B", textStyle); err != nil {
		return fmt.Errorf("f.SetColStyle -> %w", err)
	}
	if err = f.SetColWidth(sheetName, "A", "B", 20); err != nil {
		return fmt.Errorf("f.SetColWidth -> %w", err)
	}
	if err = f.Write(w); err != nil {
		return fmt.Errorf("f.Write -> %w", err)
	}

	return nil
}
