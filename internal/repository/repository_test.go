package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/repository/dao"
)

type groupDAO struct {
	ResultDAO
	rows []dao.Result
}

func (d *groupDAO) UpdateGroup(_ context.Context, _, _, _ string, fn func([]dao.Result)) error {
	fn(d.rows)
	return nil
}

func TestResultRepository_RecomputeGroupCopiesPositions(t *testing.T) {
	d := &groupDAO{rows: []dao.Result{
		{ID: 1, Average: 50, Subjects: []dao.SubjectScore{{ID: 10, Subject: "Maths", Total: 50}}},
		{ID: 2, Average: 80, Subjects: []dao.SubjectScore{{ID: 20, Subject: "Maths", Total: 80}}},
	}}
	repo := NewResultRepository(d)

	err := repo.RecomputeGroup(context.Background(), "JSS1", "2024/2025", domain.FirstTerm, func(results []domain.Result) {
		results[0].Position, results[1].Position = 2, 1
		results[0].OutOf, results[1].OutOf = 2, 2
		results[0].Subjects[0].Position, results[1].Subjects[0].Position = 2, 1
	})
	require.NoError(t, err)

	assert.Equal(t, 2, d.rows[0].Position)
	assert.Equal(t, 1, d.rows[1].Position)
	assert.Equal(t, 2, d.rows[0].OutOf)
	assert.Equal(t, 2, d.rows[0].Subjects[0].Position)
	assert.Equal(t, 1, d.rows[1].Subjects[0].Position)
}

func TestResultDaoToDomain_AttachesLoadedStudent(t *testing.T) {
	withStudent := resultDaoToDomain(dao.Result{ID: 1, StudentID: 3, Student: dao.Student{ID: 3, FirstName: "Ada"}})
	require.NotNil(t, withStudent.Student)
	assert.Equal(t, "Ada", withStudent.Student.FirstName)

	without := resultDaoToDomain(dao.Result{ID: 1, StudentID: 3})
	assert.Nil(t, without.Student)
}

type settingsDAO struct {
	AdmissionDAO
	saved dao.AdmissionSettings
}

func (d *settingsDAO) SaveSettings(_ context.Context, s dao.AdmissionSettings) (dao.AdmissionSettings, error) {
	d.saved = s
	return s, nil
}

func (d *settingsDAO) GetSettings(_ context.Context) (dao.AdmissionSettings, error) {
	return d.saved, nil
}

func TestAdmissionRepository_SettingsRoundTripLists(t *testing.T) {
	d := &settingsDAO{}
	repo := NewAdmissionRepository(d)
	ctx := context.Background()

	_, err := repo.SaveSettings(ctx, domain.AdmissionSettings{IsOpen: true, AvailableClasses: []string{"JSS1", "SS1"}})
	require.NoError(t, err)
	assert.JSONEq(t, `["JSS1","SS1"]`, string(d.saved.AvailableClasses))
	assert.JSONEq(t, `[]`, string(d.saved.Requirements))

	got, err := repo.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"JSS1", "SS1"}, got.AvailableClasses)
	assert.Equal(t, []string{}, got.Requirements)
}
