package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	contentWidth = 180.0
	rowHeight    = 7.0
)

// printable height limit; anything drawn past this y starts a new page
const pageLimit = pageHeight - marginBottom

var subjectColumns = []struct {
	title string
	width float64
	align string
}{
	{"SUBJECT", 46, "L"},
	{"CA1", 14, "C"},
	{"CA2", 14, "C"},
	{"EXAM", 16, "C"},
	{"TOTAL", 16, "C"},
	{"GRADE", 16, "C"},
	{"REMARK", 36, "C"},
	{"POSITION", 22, "C"},
}

type pdfWriter struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// RenderResultPDF writes sheet as an A4 PDF. Page breaks are computed
// manually so the subject table header repeats on every page.
func RenderResultPDF(w io.Writer, sheet ResultSheet) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginLeft)
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetTitle(ResultFileName(sheet.Student, sheet.Result), true)
	pdf.AddPage()

	p := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	p.header(sheet)
	p.studentInfo(sheet)
	p.subjects(sheet)
	p.summary(sheet)
	p.attendance(sheet)
	p.comments(sheet)
	p.signatures()

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("gofpdf -> %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf.Output -> %w", err)
	}

	return nil
}

// ensureSpace starts a new page when h more millimetres would overflow.
func (p *pdfWriter) ensureSpace(h float64) bool {
	if p.pdf.GetY()+h <= pageLimit {
		return false
	}
	p.pdf.AddPage()
	p.pdf.SetY(marginTop)
	return true
}

func (p *pdfWriter) header(sheet ResultSheet) {
	pdf := p.pdf
	name := sheet.School.Name
	if name == "" {
		name = "School"
	}

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(contentWidth, 9, p.tr(strings.ToUpper(name)), "", 1, "C", false, 0, "")
	if sheet.School.Motto != "" {
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(contentWidth, 5, p.tr(sheet.School.Motto), "", 1, "C", false, 0, "")
	}
	if sheet.School.Address != "" {
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(contentWidth, 5, p.tr(sheet.School.Address), "", 1, "C", false, 0, "")
	}
	contact := strings.Trim(strings.Join([]string{sheet.School.Phone, sheet.School.Email}, " | "), " |")
	if contact != "" {
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(contentWidth, 5, p.tr(contact), "", 1, "C", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetDrawColor(40, 90, 160)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, pdf.GetY(), marginLeft+contentWidth, pdf.GetY())
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 13)
	title := fmt.Sprintf("%s RESULT - %s SESSION", strings.ToUpper(string(sheet.Result.Term)), sheet.Result.Session)
	pdf.CellFormat(contentWidth, 8, p.tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(3)
}

func (p *pdfWriter) studentInfo(sheet ResultSheet) {
	pdf := p.pdf
	rows := [][2][2]string{
		{{"Name:", sheet.Student.FullName()}, {"Admission No:", sheet.Student.AdmissionNumber}},
		{{"Class:", sheet.Result.ClassName}, {"Gender:", sheet.Student.Gender}},
		{{"Session:", sheet.Result.Session}, {"Term:", string(sheet.Result.Term)}},
	}

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.2)
	for _, row := range rows {
		for _, cell := range row {
			pdf.SetFont("Arial", "", 10)
			pdf.CellFormat(28, 7, cell[0], "1", 0, "L", false, 0, "")
			pdf.SetFont("Arial", "B", 10)
			pdf.CellFormat(62, 7, p.tr(cell[1]), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func (p *pdfWriter) tableHeader() {
	pdf := p.pdf
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(40, 90, 160)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range subjectColumns {
		pdf.CellFormat(col.width, 8, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)
}

func (p *pdfWriter) subjects(sheet ResultSheet) {
	pdf := p.pdf
	p.ensureSpace(8 + rowHeight)
	p.tableHeader()

	if len(sheet.Result.Subjects) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(contentWidth, rowHeight, "No subjects recorded.", "1", 1, "C", false, 0, "")
		return
	}

	pdf.SetFillColor(245, 245, 245)
	for i, s := range sheet.Result.Subjects {
		if p.ensureSpace(rowHeight) {
			p.tableHeader()
		}
		pdf.SetFont("Arial", "", 9)
		fill := i%2 == 1
		values := []string{
			s.Subject, score(s.CA1), score(s.CA2), score(s.Exam), score(s.Total),
			s.Grade, s.Remark, positionText(s.Position, sheet.Result.OutOf),
		}
		for j, col := range subjectColumns {
			pdf.CellFormat(col.width, rowHeight, p.tr(values[j]), "1", 0, col.align, fill, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(5)
}

func (p *pdfWriter) summary(sheet ResultSheet) {
	pdf := p.pdf
	r := sheet.Result
	boxes := [][2]string{
		{"TOTAL SCORE", score(r.TotalScore)},
		{"AVERAGE", fmt.Sprintf("%.2f%%", r.Average)},
		{"GPA", fmt.Sprintf("%.2f", r.GPA)},
		{"POSITION", positionText(r.Position, r.OutOf)},
		{"GRADE", r.Grade},
	}
	width := contentWidth / float64(len(boxes))

	p.ensureSpace(18)
	pdf.SetFillColor(235, 241, 250)
	pdf.SetFont("Arial", "B", 8)
	for _, b := range boxes {
		pdf.CellFormat(width, 7, b[0], "LTR", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "B", 12)
	for _, b := range boxes {
		pdf.CellFormat(width, 9, b[1], "LBR", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.Ln(4)
}

func (p *pdfWriter) attendance(sheet ResultSheet) {
	pdf := p.pdf
	r := sheet.Result

	p.ensureSpace(14)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(contentWidth, 6, "ATTENDANCE", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	line := fmt.Sprintf("Days present: %d of %d", r.DaysPresent, r.DaysOpened)
	if r.NextTermBegins != nil {
		line += "    Next term begins: " + r.NextTermBegins.Format("02 January 2006")
	}
	pdf.CellFormat(contentWidth, 6, line, "", 1, "L", false, 0, "")
	pdf.Ln(3)
}

func (p *pdfWriter) comments(sheet ResultSheet) {
	p.commentBox("CLASS TEACHER'S COMMENT", sheet.Result.TeacherComment)
	p.commentBox("PRINCIPAL'S COMMENT", sheet.Result.PrincipalComment)
}

func (p *pdfWriter) commentBox(title, text string) {
	pdf := p.pdf
	if strings.TrimSpace(text) == "" {
		text = "-"
	}

	pdf.SetFont("Arial", "", 10)
	lines := pdf.SplitLines([]byte(p.tr(text)), contentWidth-4)
	height := 6 + float64(len(lines))*5 + 2

	p.ensureSpace(height)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(contentWidth, 6, title, "LTR", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(contentWidth, 5, p.tr(text), "LBR", "L", false)
	pdf.Ln(4)
}

func (p *pdfWriter) signatures() {
	pdf := p.pdf
	p.ensureSpace(20)
	pdf.Ln(8)

	half := contentWidth / 2
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(half, 5, "______________________________", "", 0, "C", false, 0, "")
	pdf.CellFormat(half, 5, "______________________________", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(half, 5, "Class Teacher", "", 0, "C", false, 0, "")
	pdf.CellFormat(half, 5, "Principal", "", 1, "C", false, 0, "")
}
