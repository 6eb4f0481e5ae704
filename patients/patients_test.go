package patients_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-hms/patients"
	"github.com/stretchr/testify/require"
)

func TestUpsertAssignsSequentialDisplayIDs(t *testing.T) {
	repo := patients.NewInMemoryRepo()

	first := &patients.Patient{FirstName: "Ada", LastName: "Lovelace"}
	second := &patients.Patient{FirstName: "Grace", LastName: "Hopper"}
	require.NoError(t, repo.Upsert(first))
	require.NoError(t, repo.Upsert(second))

	require.Equal(t, "PAT-000001", first.PatientID)
	require.Equal(t, "PAT-000002", second.PatientID)
	require.True(t, first.IsActive)
}

func TestUpsertKeepsDisplayIDOnUpdate(t *testing.T) {
	repo := patients.NewInMemoryRepo()

	patient := &patients.Patient{FirstName: "Ada", LastName: "Lovelace"}
	require.NoError(t, repo.Upsert(patient))

	patient.City = "London"
	require.NoError(t, repo.Upsert(patient))

	stored, err := repo.Get(patient.ID)
	require.NoError(t, err)
	require.Equal(t, "PAT-000001", stored.PatientID)
	require.Equal(t, "London", stored.City)
}

func TestListSearchMatchesNameEmailAndDisplayID(t *testing.T) {
	repo := patients.NewInMemoryRepo()
	require.NoError(t, repo.Upsert(&patients.Patient{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}))
	require.NoError(t, repo.Upsert(&patients.Patient{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com"}))

	byName, total, err := repo.List("lovelace", 0, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "Ada", byName[0].FirstName)

	byDisplayID, _, err := repo.List("pat-000002", 0, 0)
	require.NoError(t, err)
	require.Len(t, byDisplayID, 1)
	require.Equal(t, "Grace", byDisplayID[0].FirstName)

	none, total, err := repo.List("nobody", 0, 0)
	require.NoError(t, err)
	require.Empty(t, none)
	require.Zero(t, total)
}

func TestAge(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	p := &patients.Patient{DateOfBirth: "1990-09-01"}
	require.Equal(t, 35, p.Age(now)) // birthday tomorrow

	p.DateOfBirth = "1990-08-31"
	require.Equal(t, 36, p.Age(now)) // birthday today

	p.DateOfBirth = "not-a-date"
	require.Equal(t, 0, p.Age(now))
}

func TestAssignNurse(t *testing.T) {
	repo := patients.NewInMemoryRepo()
	patient := &patients.Patient{FirstName: "Ada", LastName: "Lovelace"}
	require.NoError(t, repo.Upsert(patient))

	require.NoError(t, repo.AssignNurse(patient.ID, 42))

	assigned, err := repo.ListByNurse(42)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	require.Equal(t, patient.ID, assigned[0].ID)

	require.Error(t, repo.AssignNurse(999, 42))
}
