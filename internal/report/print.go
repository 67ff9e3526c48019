package report

import (
	"fmt"
	"html/template"
	"io"
)

var printTemplate = template.Must(template.New("result").Funcs(template.FuncMap{
	"score":    score,
	"position": positionText,
	"percent":  func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
	"fixed2":   func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Student.FullName}} - {{.Result.Term}} {{.Result.Session}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 24px; color: #222; }
header { text-align: center; border-bottom: 2px solid #285aa0; padding-bottom: 8px; }
header h1 { margin: 0; text-transform: uppercase; }
table { width: 100%; border-collapse: collapse; margin-top: 12px; }
th, td { border: 1px solid #bbb; padding: 4px 6px; }
th { background: #285aa0; color: #fff; }
td.num { text-align: center; }
.summary td { text-align: center; font-weight: bold; }
.comment { border: 1px solid #bbb; padding: 6px; margin-top: 10px; min-height: 32px; }
.signatures { display: flex; justify-content: space-around; margin-top: 48px; }
@media print { button { display: none; } body { margin: 0; } }
</style>
</head>
<body onload="window.print()">
<header>
  <h1>{{with .School.Name}}{{.}}{{else}}School{{end}}</h1>
  {{with .School.Motto}}<div><em>{{.}}</em></div>{{end}}
  {{with .School.Address}}<div>{{.}}</div>{{end}}
  <h2>{{.Result.Term}} Result - {{.Result.Session}} Session</h2>
</header>
<table>
  <tr><td>Name</td><th>{{.Student.FullName}}</th><td>Admission No</td><th>{{.Student.AdmissionNumber}}</th></tr>
  <tr><td>Class</td><th>{{.Result.ClassName}}</th><td>Gender</td><th>{{.Student.Gender}}</th></tr>
</table>
<table>
  <thead><tr><th>Subject</th><th>CA1</th><th>CA2</th><th>Exam</th><th>Total</th><th>Grade</th><th>Remark</th><th>Position</th></tr></thead>
  <tbody>
  {{$outOf := .Result.OutOf}}
  {{range .Result.Subjects}}
    <tr><td>{{.Subject}}</td><td class="num">{{score .CA1}}</td><td class="num">{{score .CA2}}</td><td class="num">{{score .Exam}}</td><td class="num">{{score .Total}}</td><td class="num">{{.Grade}}</td><td class="num">{{.Remark}}</td><td class="num">{{position .Position $outOf}}</td></tr>
  {{else}}
    <tr><td colspan="8">No subjects recorded.</td></tr>
  {{end}}
  </tbody>
</table>
<table class="summary">
  <tr><th>Total</th><th>Average</th><th>GPA</th><th>Position</th><th>Grade</th></tr>
  <tr><td>{{score .Result.TotalScore}}</td><td>{{percent .Result.Average}}</td><td>{{fixed2 .Result.GPA}}</td><td>{{position .Result.Position .Result.OutOf}}</td><td>{{.Result.Grade}}</td></tr>
</table>
<p>Days present: {{.Result.DaysPresent}} of {{.Result.DaysOpened}}{{with .Result.NextTermBegins}} &middot; Next term begins: {{.Format "02 January 2006"}}{{end}}</p>
<div class="comment"><strong>Class teacher's comment:</strong> {{.Result.TeacherComment}}</div>
<div class="comment"><strong>Principal's comment:</strong> {{.Result.PrincipalComment}}</div>
<div class="signatures"><div>______________________<br>Class Teacher</div><div>______________________<br>Principal</div></div>
<button onclick="window.print()">Print</button>
</body>
</html>
`))

// RenderResultHTML writes a self-printing HTML page for sheet.
func RenderResultHTML(w io.Writer, sheet ResultSheet) error {
	if err := printTemplate.Execute(w, sheet); err != nil {
		return fmt.Errorf("printTemplate.Execute -> %w", err)
	}

	return nil
}
