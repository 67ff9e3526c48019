// Package grading turns raw continuous-assessment and exam scores into
// grades, remarks, averages and grade points.
package grading

import (
	"fmt"
	"math"
	"strings"

	"github.com/vietanh2810/school-portal-api/internal/domain"
)

const (
	MaxCA1  = 20
	MaxCA2  = 20
	MaxExam = 60
)

const (
	SchemeWAEC   = "waec"
	SchemeLetter = "letter"
)

type band struct {
	min    float64
	grade  string
	remark string
}

type pointBand struct {
	min   float64
	point float64
}

// Scheme is a named set of score bands. Bands are ordered by descending
// lower bound; the last band catches everything below.
type Scheme struct {
	Name   string
	bands  []band
	points []pointBand
}

// WAEC is the nine-step A1..F9 table.
var WAEC = Scheme{
	Name: SchemeWAEC,
	bands: []band{
		{75, "A1", "Excellent"},
		{70, "B2", "Very Good"},
		{65, "B3", "Good"},
		{60, "C4", "Credit"},
		{55, "C5", "Credit"},
		{50, "C6", "Credit"},
		{45, "D7", "Pass"},
		{40, "E8", "Pass"},
		{math.Inf(-1), "F9", "Fail"},
	},
	points: []pointBand{
		{75, 4.0},
		{70, 3.5},
		{65, 3.0},
		{60, 2.5},
		{55, 2.0},
		{50, 1.5},
		{45, 1.0},
		{40, 0.5},
		{math.Inf(-1), 0},
	},
}

// Letter is the six-step A..F table.
var Letter = Scheme{
	Name: SchemeLetter,
	bands: []band{
		{70, "A", "Excellent"},
		{60, "B", "Very Good"},
		{50, "C", "Good"},
		{45, "D", "Fair"},
		{40, "E", "Pass"},
		{math.Inf(-1), "F", "Fail"},
	},
	points: []pointBand{
		{70, 4.0},
		{60, 3.0},
		{50, 2.0},
		{45, 1.5},
		{40, 1.0},
		{math.Inf(-1), 0},
	},
}

func SchemeByName(name string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case SchemeWAEC, "":
		return WAEC, nil
	case SchemeLetter:
		return Letter, nil
	}
	return Scheme{}, fmt.Errorf("unknown grading scheme %q", name)
}

func (s Scheme) lookup(score float64) band {
	for _, b := range s.bands {
		if score >= b.min {
			return b
		}
	}
	return s.bands[len(s.bands)-1]
}

func (s Scheme) Grade(total float64) string {
	return s.lookup(total).grade
}

func (s Scheme) Remark(total float64) string {
	return s.lookup(total).remark
}

// GPA maps a percentage average onto the 0.0-4.0 scale.
func (s Scheme) GPA(average float64) float64 {
	for _, p := range s.points {
		if average >= p.min {
			return p.point
		}
	}
	return 0
}

func SubjectTotal(ca1, ca2, exam float64) float64 {
	return Round2(ca1 + ca2 + exam)
}

// ScoreSubject fills total, grade and remark. Position is left untouched.
func (s Scheme) ScoreSubject(sc domain.SubjectScore) domain.SubjectScore {
	sc.Total = SubjectTotal(sc.CA1, sc.CA2, sc.Exam)
	sc.Grade = s.Grade(sc.Total)
	sc.Remark = s.Remark(sc.Total)
	return sc
}

// Average is the mean of totals, or 0 for an empty slice.
func Average(totals []float64) float64 {
	if len(totals) == 0 {
		return 0
	}
	var sum float64
	for _, t := range totals {
		sum += t
	}
	return Round2(sum / float64(len(totals)))
}

// Summarize scores every subject of r and derives its aggregate fields.
func (s Scheme) Summarize(r *domain.Result) {
	totals := make([]float64, 0, len(r.Subjects))
	var sum float64
	for i := range r.Subjects {
		r.Subjects[i] = s.ScoreSubject(r.Subjects[i])
		totals = append(totals, r.Subjects[i].Total)
		sum += r.Subjects[i].Total
	}

	r.TotalScore = Round2(sum)
	r.Average = Average(totals)
	r.GPA = s.GPA(r.Average)
	r.Grade = s.Grade(r.Average)
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
