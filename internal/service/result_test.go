package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/grading"
)

type staticSchool struct {
	info domain.SchoolInfo
}

func (s staticSchool) Get(context.Context) (domain.SchoolInfo, error) {
	return s.info, nil
}

func newResultFixture() (*ResultService, *fakeResultRepo) {
	students := newFakeStudentRepo(
		domain.Student{ID: 1, AdmissionNumber: "ADM/001", FirstName: "Ada", LastName: "Obi", ClassName: "JSS1"},
		domain.Student{ID: 2, AdmissionNumber: "ADM/002", FirstName: "Bola", LastName: "Ade", ClassName: "JSS1"},
	)
	results := newFakeResultRepo()
	svc := NewResultService(results, students, staticSchool{domain.SchoolInfo{Name: "Hilltop College"}}, grading.WAEC, grading.Letter)

	return svc, results
}

func scores(total float64) []domain.SubjectScore {
	return []domain.SubjectScore{
		{Subject: " Mathematics ", CA1: 10, CA2: 10, Exam: total - 20},
		{Subject: "English", CA1: 10, CA2: 10, Exam: total - 20},
	}
}

func TestResultService_CreateGradesAndRanks(t *testing.T) {
	svc, _ := newResultFixture()
	ctx := context.Background()

	first, err := svc.Create(ctx, domain.Result{StudentID: 1, Session: "2025/2026", Term: domain.FirstTerm, Subjects: scores(60)})
	require.NoError(t, err)
	assert.Equal(t, "JSS1", first.ClassName)
	assert.Equal(t, "Mathematics", first.Subjects[0].Subject)
	assert.Equal(t, 60.0, first.Subjects[0].Total)
	assert.Equal(t, "C4", first.Subjects[0].Grade)
	assert.Equal(t, 60.0, first.Average)
	assert.Equal(t, 1, first.Position)

	second, err := svc.Create(ctx, domain.Result{StudentID: 2, Session: "2025/2026", Term: domain.FirstTerm, Subjects: scores(80)})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Position)
	assert.Equal(t, 2, second.OutOf)

	first, err = svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Position)
}

func TestResultService_RejectsDuplicateSubject(t *testing.T) {
	svc, _ := newResultFixture()

	_, err := svc.Create(context.Background(), domain.Result{
		StudentID: 1,
		Session:   "2025/2026",
		Term:      domain.FirstTerm,
		Subjects: []domain.SubjectScore{
			{Subject: "Mathematics", Exam: 40},
			{Subject: "mathematics ", Exam: 50},
		},
	})
	assert.ErrorIs(t, err, ErrDuplicateSubject)
}

func TestResultService_CreateDuplicateTerm(t *testing.T) {
	svc, _ := newResultFixture()
	ctx := context.Background()
	res := domain.Result{StudentID: 1, Session: "2025/2026", Term: domain.FirstTerm, Subjects: scores(60)}

	_, err := svc.Create(ctx, res)
	require.NoError(t, err)

	_, err = svc.Create(ctx, res)
	assert.ErrorIs(t, err, ErrResultExists)
}

func TestResultService_DeleteRecomputesPositions(t *testing.T) {
	svc, _ := newResultFixture()
	ctx := context.Background()

	low, err := svc.Create(ctx, domain.Result{StudentID: 1, Session: "2025/2026", Term: domain.FirstTerm, Subjects: scores(50)})
	require.NoError(t, err)
	high, err := svc.Create(ctx, domain.Result{StudentID: 2, Session: "2025/2026", Term: domain.FirstTerm, Subjects: scores(90)})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, high.ID))

	low, err = svc.Get(ctx, low.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, low.Position)
	assert.Equal(t, 1, low.OutOf)
}

func TestResultService_BroadsheetUsesCumulativeScheme(t *testing.T) {
	svc, _ := newResultFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.Result{StudentID: 1, Session: "2025/2026", Term: domain.FirstTerm, Subjects: scores(72)})
	require.NoError(t, err)

	rows, err := svc.Broadsheet(ctx, "JSS1", "2025/2026", domain.FirstTerm)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].Grade)
}

func TestResultService_Sheet(t *testing.T) {
	svc, _ := newResultFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.Result{StudentID: 2, Session: "2025/2026", Term: domain.FirstTerm, Subjects: scores(70)})
	require.NoError(t, err)

	sheet, err := svc.Sheet(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hilltop College", sheet.School.Name)
	assert.Equal(t, "Bola", sheet.Student.FirstName)
	assert.Equal(t, created.ID, sheet.Result.ID)
}
