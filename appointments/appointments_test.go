package appointments_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-hms/appointments"
	interrors "github.com/jrsteele09/go-hms/internal/errors"
	"github.com/stretchr/testify/require"
)

func newAppointment(doctorID int64, date, at string) *appointments.Appointment {
	return &appointments.Appointment{
		PatientID: 1,
		DoctorID:  doctorID,
		Date:      date,
		Time:      at,
		Reason:    "checkup",
	}
}

func TestUpsertDefaultsAndDisplayID(t *testing.T) {
	repo := appointments.NewInMemoryRepo()

	a := newAppointment(1, "2026-09-01", "09:00")
	require.NoError(t, repo.Upsert(a))

	require.Equal(t, "APT-000001", a.AppointmentID)
	require.Equal(t, appointments.StatusScheduled, a.Status)
	require.Equal(t, appointments.TypeConsultation, a.Type)
	require.Equal(t, appointments.DefaultDurationMinutes, a.Duration)
}

func TestDoctorSlotConflict(t *testing.T) {
	repo := appointments.NewInMemoryRepo()

	require.NoError(t, repo.Upsert(newAppointment(1, "2026-09-01", "09:00")))

	// Same doctor, same slot
	err := repo.Upsert(newAppointment(1, "2026-09-01", "09:00"))
	require.ErrorIs(t, err, interrors.ErrAppointmentConflict)

	// Different doctor, same slot is fine
	require.NoError(t, repo.Upsert(newAppointment(2, "2026-09-01", "09:00")))

	// Same doctor, different time is fine
	require.NoError(t, repo.Upsert(newAppointment(1, "2026-09-01", "09:30")))
}

func TestRescheduleFreesOldSlot(t *testing.T) {
	repo := appointments.NewInMemoryRepo()

	a := newAppointment(1, "2026-09-01", "09:00")
	require.NoError(t, repo.Upsert(a))

	a.Time = "10:00"
	require.NoError(t, repo.Upsert(a))

	// Old slot is available again
	require.NoError(t, repo.Upsert(newAppointment(1, "2026-09-01", "09:00")))
}

func TestListOrderingAndQueries(t *testing.T) {
	repo := appointments.NewInMemoryRepo()
	require.NoError(t, repo.Upsert(newAppointment(1, "2026-09-02", "09:00")))
	require.NoError(t, repo.Upsert(newAppointment(1, "2026-09-01", "14:00")))
	require.NoError(t, repo.Upsert(newAppointment(1, "2026-09-01", "09:00")))

	all, total, err := repo.List(0, 0)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Equal(t, "2026-09-01", all[0].Date)
	require.Equal(t, "09:00", all[0].Time)
	require.Equal(t, "2026-09-02", all[2].Date)

	today, err := repo.ListByDate("2026-09-01")
	require.NoError(t, err)
	require.Len(t, today, 2)

	upcoming, err := repo.ListUpcoming("2026-09-02")
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
}

func TestUpcomingExcludesCancelled(t *testing.T) {
	repo := appointments.NewInMemoryRepo()
	a := newAppointment(1, "2026-09-01", "09:00")
	require.NoError(t, repo.Upsert(a))
	require.NoError(t, repo.SetStatus(a.ID, appointments.StatusCancelled))

	upcoming, err := repo.ListUpcoming("2026-09-01")
	require.NoError(t, err)
	require.Empty(t, upcoming)
}

func TestIsUpcoming(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	a := &appointments.Appointment{Date: "2026-09-01", Time: "09:00", Status: appointments.StatusScheduled}
	require.True(t, a.IsUpcoming(now))

	a.Status = appointments.StatusCancelled
	require.False(t, a.IsUpcoming(now))

	past := &appointments.Appointment{Date: "2026-08-30", Time: "09:00", Status: appointments.StatusConfirmed}
	require.False(t, past.IsUpcoming(now))
}
