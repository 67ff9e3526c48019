package dao

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentDAO_DuplicateAdmissionNumber(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	insertStudent(t, db, "ADM/001", "JSS1")

	_, err := NewStudentDAO(db).Insert(ctx, Student{AdmissionNumber: "ADM/001", FirstName: "B", LastName: "C", ClassName: "JSS1", Status: "active"})
	assert.ErrorIs(t, err, ErrAdmissionNumberExists)

	found, err := NewStudentDAO(db).FindByAdmissionNumber(ctx, "adm/001")
	require.NoError(t, err)
	assert.Equal(t, "ADM/001", found.AdmissionNumber)
}

func TestStudentDAO_ListFilters(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	insertStudent(t, db, "A1", "JSS1")
	insertStudent(t, db, "A2", "JSS1")
	insertStudent(t, db, "A3", "JSS2")

	students, total, err := NewStudentDAO(db).List(ctx, StudentFilter{ClassName: "JSS1", Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, students, 1)

	students, total, err = NewStudentDAO(db).List(ctx, StudentFilter{Search: "a3"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "A3", students[0].AdmissionNumber)
}

func TestResultDAO_InsertUpdateAndUniqueness(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	d := NewResultDAO(db)

	s := insertStudent(t, db, "A1", "JSS1")
	r, err := d.Insert(ctx, Result{
		StudentID: s.ID, ClassName: "JSS1", Session: "2024/2025", Term: "First Term",
		Subjects: []SubjectScore{{Subject: "Maths", CA1: 10, CA2: 10, Exam: 50, Total: 70}},
	})
	require.NoError(t, err)
	assert.Equal(t, "A1", r.Student.AdmissionNumber)
	require.Len(t, r.Subjects, 1)

	_, err = d.Insert(ctx, Result{StudentID: s.ID, ClassName: "JSS1", Session: "2024/2025", Term: "First Term"})
	assert.ErrorIs(t, err, ErrResultExists)

	r.Subjects = []SubjectScore{{Subject: "English", Total: 40}, {Subject: "Science", Total: 60}}
	r.TeacherComment = "Good"
	updated, err := d.Update(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, "Good", updated.TeacherComment)
	require.Len(t, updated.Subjects, 2)
	assert.Equal(t, "English", updated.Subjects[0].Subject)

	require.NoError(t, d.Delete(ctx, r.ID))
	_, err = d.FindByID(ctx, r.ID)
	assert.ErrorIs(t, err, ErrResultNotFound)
}

func TestResultDAO_UpdateGroup(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	d := NewResultDAO(db)

	var ids []uint
	for _, adm := range []string{"A1", "A2"} {
		s := insertStudent(t, db, adm, "JSS1")
		r, err := d.Insert(ctx, Result{
			StudentID: s.ID, ClassName: "JSS1", Session: "2024/2025", Term: "First Term",
			Subjects: []SubjectScore{{Subject: "Maths"}},
		})
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}

	err := d.UpdateGroup(ctx, "JSS1", "2024/2025", "First Term", func(results []Result) {
		for i := range results {
			results[i].Position = len(results) - i
			results[i].OutOf = len(results)
			results[i].Subjects[0].Position = i + 1
		}
	})
	require.NoError(t, err)

	first, err := d.FindByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, 2, first.Position)
	assert.Equal(t, 2, first.OutOf)
	assert.Equal(t, 1, first.Subjects[0].Position)
}

func TestScratchCardDAO_RecordUsageIsBounded(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	d := NewScratchCardDAO(db)
	s := insertStudent(t, db, "A1", "JSS1")

	cards, err := d.InsertBatch(ctx, []ScratchCard{{
		SerialNumber: "SC2025AAAA0001", PIN: "123456789012", Status: "unused",
		UsageLimit: 3, ExpiryDate: time.Now().Add(24 * time.Hour),
	}})
	require.NoError(t, err)
	id := cards[0].ID

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := d.RecordUsage(ctx, id, s.ID, time.Now()); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)
	card, err := d.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, card.UsageCount)
	assert.Equal(t, "used", card.Status)
	require.NotNil(t, card.StudentID)
	assert.Equal(t, s.ID, *card.StudentID)
}

func TestScratchCardDAO_RecordUsageRejectsOtherStudent(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	d := NewScratchCardDAO(db)
	a := insertStudent(t, db, "A1", "JSS1")
	b := insertStudent(t, db, "A2", "JSS1")

	cards, err := d.InsertBatch(ctx, []ScratchCard{{
		SerialNumber: "SC2025AAAA0002", PIN: "123456789013", Status: "unused",
		UsageLimit: 5, ExpiryDate: time.Now().Add(time.Hour),
	}})
	require.NoError(t, err)

	_, err = d.RecordUsage(ctx, cards[0].ID, a.ID, time.Now())
	require.NoError(t, err)
	_, err = d.RecordUsage(ctx, cards[0].ID, b.ID, time.Now())
	assert.ErrorIs(t, err, ErrCardUnavailable)
}

func TestScratchCardDAO_CountsAndListByEffectiveStatus(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	d := NewScratchCardDAO(db)
	now := time.Now()

	_, err := d.InsertBatch(ctx, []ScratchCard{
		{SerialNumber: "S1", PIN: "000000000001", Status: "unused", UsageLimit: 5, ExpiryDate: now.Add(time.Hour)},
		{SerialNumber: "S2", PIN: "000000000002", Status: "used", UsageLimit: 5, ExpiryDate: now.Add(time.Hour)},
		{SerialNumber: "S3", PIN: "000000000003", Status: "unused", UsageLimit: 5, ExpiryDate: now.Add(-time.Hour)},
		{SerialNumber: "S4", PIN: "000000000004", Status: "deactivated", UsageLimit: 5, ExpiryDate: now.Add(time.Hour)},
	})
	require.NoError(t, err)

	counts, err := d.Counts(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, CardCounts{Total: 4, Unused: 1, Used: 1, Expired: 1, Deactivated: 1}, counts)

	expired, total, err := d.List(ctx, CardFilter{Status: "expired", Now: now})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "S3", expired[0].SerialNumber)

	_, err = d.InsertBatch(ctx, []ScratchCard{{SerialNumber: "S5", PIN: "000000000001", UsageLimit: 5, ExpiryDate: now}})
	assert.ErrorIs(t, err, ErrCardCollision)
}

func TestNewsDAO_SlugAndPublishedFilter(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	d := NewNewsDAO(db)

	_, err := d.Insert(ctx, News{Title: "Sports day", Slug: "sports-day", Content: "x", Published: true})
	require.NoError(t, err)
	_, err = d.Insert(ctx, News{Title: "Draft", Slug: "draft", Content: "y"})
	require.NoError(t, err)

	_, err = d.Insert(ctx, News{Title: "Again", Slug: "sports-day", Content: "z"})
	assert.ErrorIs(t, err, ErrNewsSlugExists)

	items, total, err := d.List(ctx, NewsFilter{PublishedOnly: true})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "sports-day", items[0].Slug)

	found, err := d.FindBySlug(ctx, "draft")
	require.NoError(t, err)
	assert.False(t, found.Published)
}

func TestAdmissionDAO_Settings(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	d := NewAdmissionDAO(db)

	settings, err := d.GetSettings(ctx)
	require.NoError(t, err)
	assert.False(t, settings.IsOpen)

	settings.IsOpen = true
	settings.Session = "2025/2026"
	settings.AvailableClasses = []byte(`["JSS1","SS1"]`)
	_, err = d.SaveSettings(ctx, settings)
	require.NoError(t, err)

	settings, err = d.GetSettings(ctx)
	require.NoError(t, err)
	assert.True(t, settings.IsOpen)
	assert.JSONEq(t, `["JSS1","SS1"]`, string(settings.AvailableClasses))
}

func TestSchoolInfoDAO_GetCreatesRow(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	d := NewSchoolInfoDAO(db)

	info, err := d.Get(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, info.ID)

	info.Name = "Unity College"
	info.MaintenanceMode = true
	_, err = d.Save(ctx, info)
	require.NoError(t, err)

	info, err = d.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Unity College", info.Name)
	assert.True(t, info.MaintenanceMode)
}
