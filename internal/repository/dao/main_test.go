package dao

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vietanh2810/school-portal-api/internal/db/dbtest"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	pg, err := dbtest.StartPostgres()
	if err != nil {
		fmt.Printf("postgres unavailable, skipping dao integration tests: %v\n", err)
		os.Exit(m.Run())
	}

	if err = InitTables(pg.DB); err != nil {
		_ = pg.Close()
		fmt.Printf("InitTables: %v\n", err)
		os.Exit(1)
	}
	testDB = pg.DB

	code := m.Run()
	_ = pg.Close()
	os.Exit(code)
}

// setupDB returns a clean database or skips the test when none is available.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testDB == nil {
		t.Skip("postgres not available")
	}
	require.NoError(t, truncateAll(testDB))

	return testDB
}

func insertStudent(t *testing.T, db *gorm.DB, admissionNumber, className string) Student {
	t.Helper()
	s, err := NewStudentDAO(db).Insert(context.Background(), Student{
		AdmissionNumber: admissionNumber,
		FirstName:       "Ada",
		LastName:        "Obi",
		ClassName:       className,
		Status:          "active",
	})
	require.NoError(t, err)

	return s
}
