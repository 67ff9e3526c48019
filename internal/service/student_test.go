package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/report"
)

func TestStudentService_CreateNormalizes(t *testing.T) {
	svc := NewStudentService(newFakeStudentRepo())

	s, err := svc.Create(context.Background(), domain.Student{
		AdmissionNumber: "  ADM/010 ",
		FirstName:       " Chidi",
		LastName:        "Eze ",
		ClassName:       "SS2",
		GuardianEmail:   " Parent@Example.COM ",
	})
	require.NoError(t, err)

	assert.Equal(t, "ADM/010", s.AdmissionNumber)
	assert.Equal(t, "Chidi", s.FirstName)
	assert.Equal(t, "Eze", s.LastName)
	assert.Equal(t, "parent@example.com", s.GuardianEmail)
	assert.Equal(t, domain.StudentActive, s.Status)
}

func TestStudentService_Import(t *testing.T) {
	repo := newFakeStudentRepo(domain.Student{ID: 1, AdmissionNumber: "ADM/001"})
	svc := NewStudentService(repo)

	rows := []report.StudentRow{
		{Row: 2, Student: domain.Student{AdmissionNumber: "ADM/002", FirstName: "Ada", LastName: "Obi", ClassName: "JSS1"}},
		{Row: 3, Student: domain.Student{AdmissionNumber: "adm/001", FirstName: "Dup", LastName: "Row", ClassName: "JSS1"}},
		{Row: 4, Student: domain.Student{AdmissionNumber: "ADM/004", FirstName: "No", ClassName: "JSS1"}},
		{Row: 5, Err: errors.New("invalid date of birth")},
		{Row: 6, Student: domain.Student{AdmissionNumber: "ADM/006", FirstName: "Bad", LastName: "Status", ClassName: "JSS1", Status: "expelled"}},
		{Row: 7, Student: domain.Student{AdmissionNumber: "ADM/007", FirstName: "Tolu", LastName: "Ade", ClassName: "JSS2"}},
	}

	summary, err := svc.Import(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 4, summary.Skipped)
	require.Len(t, summary.Errors, 4)
	assert.Equal(t, 3, summary.Errors[0].Row)
	assert.Equal(t, "admission number already exists", summary.Errors[0].Message)
	assert.Equal(t, 4, summary.Errors[1].Row)
	assert.Equal(t, "invalid date of birth", summary.Errors[2].Message)
	assert.Contains(t, summary.Errors[3].Message, "expelled")
	assert.Len(t, repo.students, 3)
}

func TestStudentService_ImportDefaultsStatus(t *testing.T) {
	repo := newFakeStudentRepo()
	svc := NewStudentService(repo)

	summary, err := svc.Import(context.Background(), []report.StudentRow{
		{Row: 2, Student: domain.Student{AdmissionNumber: " ADM/020 ", FirstName: "Ngozi", LastName: "Okafor", ClassName: "SS1"}},
		{Row: 3, Student: domain.Student{AdmissionNumber: "ADM/021", FirstName: "   ", LastName: "Blank", ClassName: "SS1"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Imported)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, 3, summary.Errors[0].Row)
	require.Len(t, repo.students, 1)
	for _, s := range repo.students {
		assert.Equal(t, "ADM/020", s.AdmissionNumber)
		assert.Equal(t, domain.StudentActive, s.Status)
	}
}
