package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/vietanh2810/school-portal-api/internal/domain"
)

var (
	ErrEmptyWorkbook  = errors.New("spreadsheet does not contain any sheets")
	ErrMissingColumns = errors.New("spreadsheet is missing required columns")
)

var (
	studentDateLayouts  = []string{"2006-01-02", "02/01/2006", "01-02-06", "2/1/2006"}
	requiredImportField = []string{"admission_number", "first_name", "last_name", "class_name"}
)

// StudentRow is one parsed spreadsheet row; Row is 1-based as shown in Excel.
type StudentRow struct {
	Row     int
	Student domain.Student
	Err     error
}

// ParseStudentSheet reads students from the first sheet of an xlsx file.
// The first row holds column names such as "Admission Number" or
// "first_name"; unknown columns are ignored and blank rows skipped.
func ParseStudentSheet(r io.Reader) ([]StudentRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("excelize.OpenReader -> %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrEmptyWorkbook
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("f.GetRows -> %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrMissingColumns
	}

	columns := make(map[string]int)
	for i, name := range rows[0] {
		columns[normalizeHeader(name)] = i
	}
	var missing []string
	for _, field := range requiredImportField {
		if _, ok := columns[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var parsed []StudentRow
	for i, row := range rows[1:] {
		get := func(field string) string {
			idx, ok := columns[field]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}

		out := StudentRow{Row: i + 2}
		out.Student = domain.Student{
			AdmissionNumber:      get("admission_number"),
			FirstName:            get("first_name"),
			MiddleName:           get("middle_name"),
			LastName:             get("last_name"),
			Gender:               strings.ToLower(get("gender")),
			ClassName:            get("class_name"),
			Email:                get("email"),
			Phone:                get("phone"),
			Address:              get("address"),
			GuardianName:         get("guardian_name"),
			GuardianPhone:        get("guardian_phone"),
			GuardianEmail:        get("guardian_email"),
			GuardianRelationship: get("guardian_relationship"),
			Status:               domain.StudentStatus(strings.ToLower(get("status"))),
		}
		if out.Student.Status == "" {
			out.Student.Status = domain.StudentActive
		}
		if dob := get("date_of_birth"); dob != "" {
			t, err := parseDate(dob)
			if err != nil {
				out.Err = err
			} else {
				out.Student.DateOfBirth = &t
			}
		}
		parsed = append(parsed, out)
	}

	return parsed, nil
}

var headerAliases = map[string]string{
	"admission_no": "admission_number",
	"adm_no":       "admission_number",
	"class":        "class_name",
	"dob":          "date_of_birth",
	"surname":      "last_name",
	"firstname":    "first_name",
	"lastname":     "last_name",
	"middlename":   "middle_name",
	"othername":    "middle_name",
}

func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer(" ", "_", "-", "_", ".", "").Replace(name)
	if alias, ok := headerAliases[name]; ok {
		return alias
	}
	return name
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range studentDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date of birth %q", s)
}

// StudentTemplate writes an empty import sheet with the expected headers.
func StudentTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	header := []interface{}{
		"Admission Number", "First Name", "Middle Name", "Last Name", "Gender",
		"Date of Birth", "Class Name", "Email", "Phone", "Address",
		"Guardian Name", "Guardian Phone", "Guardian Email", "Guardian Relationship", "Status",
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("f.SetSheetRow -> %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("f.Write -> %w", err)
	}

	return nil
}
