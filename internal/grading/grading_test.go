package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/school-portal-api/internal/domain"
)

func TestWAEC_Grade(t *testing.T) {
	tests := []struct {
		total  float64
		grade  string
		remark string
	}{
		{100, "A1", "Excellent"},
		{92, "A1", "Excellent"},
		{75, "A1", "Excellent"},
		{74.99, "B2", "Very Good"},
		{70, "B2", "Very Good"},
		{65, "B3", "Good"},
		{60, "C4", "Credit"},
		{55, "C5", "Credit"},
		{50, "C6", "Credit"},
		{45, "D7", "Pass"},
		{40, "E8", "Pass"},
		{39.5, "F9", "Fail"},
		{0, "F9", "Fail"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.grade, WAEC.Grade(tt.total), "grade for %v", tt.total)
		assert.Equal(t, tt.remark, WAEC.Remark(tt.total), "remark for %v", tt.total)
	}
}

func TestLetter_Grade(t *testing.T) {
	tests := []struct {
		total  float64
		grade  string
		remark string
	}{
		{92, "A", "Excellent"},
		{70, "A", "Excellent"},
		{69, "B", "Very Good"},
		{60, "B", "Very Good"},
		{50, "C", "Good"},
		{45, "D", "Fair"},
		{40, "E", "Pass"},
		{10, "F", "Fail"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.grade, Letter.Grade(tt.total), "grade for %v", tt.total)
		assert.Equal(t, tt.remark, Letter.Remark(tt.total), "remark for %v", tt.total)
	}
}

func TestScheme_GPA(t *testing.T) {
	assert.Equal(t, 4.0, WAEC.GPA(80))
	assert.Equal(t, 3.5, WAEC.GPA(72))
	assert.Equal(t, 1.5, WAEC.GPA(50))
	assert.Equal(t, 0.5, WAEC.GPA(40))
	assert.Equal(t, 0.0, WAEC.GPA(39.99))

	assert.Equal(t, 4.0, Letter.GPA(72))
	assert.Equal(t, 3.0, Letter.GPA(65))
	assert.Equal(t, 1.5, Letter.GPA(45))
	assert.Equal(t, 0.0, Letter.GPA(0))
}

func TestScoreSubject_SameScoresBothTables(t *testing.T) {
	in := domain.SubjectScore{Subject: "Mathematics", CA1: 18, CA2: 19, Exam: 55}

	waec := WAEC.ScoreSubject(in)
	assert.Equal(t, 92.0, waec.Total)
	assert.Equal(t, "A1", waec.Grade)
	assert.Equal(t, "Excellent", waec.Remark)

	letter := Letter.ScoreSubject(in)
	assert.Equal(t, 92.0, letter.Total)
	assert.Equal(t, "A", letter.Grade)
}

func TestSummarize(t *testing.T) {
	r := domain.Result{
		Subjects: []domain.SubjectScore{
			{Subject: "Mathematics", CA1: 18, CA2: 19, Exam: 55},
			{Subject: "English", CA1: 10, CA2: 12, Exam: 30},
			{Subject: "Biology"},
		},
	}

	WAEC.Summarize(&r)

	assert.Equal(t, 92.0, r.Subjects[0].Total)
	assert.Equal(t, 52.0, r.Subjects[1].Total)
	assert.Equal(t, "C6", r.Subjects[1].Grade)
	assert.Equal(t, 0.0, r.Subjects[2].Total)
	assert.Equal(t, "F9", r.Subjects[2].Grade)
	assert.Equal(t, 144.0, r.TotalScore)
	assert.Equal(t, 48.0, r.Average)
	assert.Equal(t, 1.0, r.GPA)
	assert.Equal(t, "D7", r.Grade)
}

func TestSummarize_NoSubjects(t *testing.T) {
	r := domain.Result{}
	Letter.Summarize(&r)

	assert.Equal(t, 0.0, r.Average)
	assert.Equal(t, 0.0, r.GPA)
	assert.Equal(t, "F", r.Grade)
}

func TestAverage_Rounds(t *testing.T) {
	assert.Equal(t, 66.67, Average([]float64{100, 50, 50}))
	assert.Equal(t, 0.0, Average(nil))
}

func TestSchemeByName(t *testing.T) {
	s, err := SchemeByName("Letter")
	require.NoError(t, err)
	assert.Equal(t, SchemeLetter, s.Name)

	s, err = SchemeByName("")
	require.NoError(t, err)
	assert.Equal(t, SchemeWAEC, s.Name)

	_, err = SchemeByName("gpa5")
	assert.Error(t, err)
}
