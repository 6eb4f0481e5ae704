package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/jrsteele09/go-hms/appointments"
	"github.com/jrsteele09/go-hms/nursetasks"
	"github.com/jrsteele09/go-hms/patients"
	"github.com/jrsteele09/go-hms/users"
	"github.com/stretchr/testify/require"
)

func patientBody(firstName, lastName, email string) map[string]any {
	return map[string]any{
		"first_name":    firstName,
		"last_name":     lastName,
		"date_of_birth": "1984-06-15",
		"gender":        "female",
		"blood_group":   "O+",
		"email":         email,
		"phone":         "555-0100",
	}
}

func appointmentBody(patientID, doctorID int64, date, at string) map[string]any {
	return map[string]any{
		"patient":          patientID,
		"doctor":           doctorID,
		"appointment_date": date,
		"appointment_time": at,
		"reason":           "Routine check",
	}
}

func TestPatientLifecycle(t *testing.T) {
	s, repos := newTestServer(t)
	createUser(t, repos, "reception", "Passw0rdOK", users.RoleReceptionist)
	pair := login(t, s, "reception", "Passw0rdOK")

	created := doJSON(t, s, http.MethodPost, RoutePatients, pair.Access, patientBody("Ada", "Lovelace", "ada@example.test"))
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	patient := decodeInto[patients.Patient](t, created)
	require.Equal(t, "PAT-000001", patient.PatientID)
	require.True(t, patient.IsActive)

	fetched := doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/patients/%d/", patient.ID), pair.Access, nil)
	require.Equal(t, http.StatusOK, fetched.Code)

	updateBody := patientBody("Ada", "King", "ada@example.test")
	updated := doJSON(t, s, http.MethodPut, fmt.Sprintf("/api/patients/%d/", patient.ID), pair.Access, updateBody)
	require.Equal(t, http.StatusOK, updated.Code)
	require.Equal(t, "King", decodeInto[patients.Patient](t, updated).LastName)

	deleted := doJSON(t, s, http.MethodDelete, fmt.Sprintf("/api/patients/%d/", patient.ID), pair.Access, nil)
	require.Equal(t, http.StatusNoContent, deleted.Code)

	missing := doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/patients/%d/", patient.ID), pair.Access, nil)
	require.Equal(t, http.StatusNotFound, missing.Code)
}

func TestPatientValidationErrorsAreFieldKeyed(t *testing.T) {
	s, repos := newTestServer(t)
	createUser(t, repos, "reception", "Passw0rdOK", users.RoleReceptionist)
	pair := login(t, s, "reception", "Passw0rdOK")

	body := patientBody("Ada", "Lovelace", "not-an-email")
	recorder := doJSON(t, s, http.MethodPost, RoutePatients, pair.Access, body)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	fields := decodeInto[map[string][]string](t, recorder)
	require.Contains(t, fields, "email")
}

func TestPatientsListIsPaginatedEnvelope(t *testing.T) {
	s, repos := newTestServer(t)
	createUser(t, repos, "reception", "Passw0rdOK", users.RoleReceptionist)
	pair := login(t, s, "reception", "Passw0rdOK")

	for i := 0; i < 12; i++ {
		resp := doJSON(t, s, http.MethodPost, RoutePatients, pair.Access,
			patientBody("Pat", fmt.Sprintf("Number%02d", i), fmt.Sprintf("p%02d@example.test", i)))
		require.Equal(t, http.StatusCreated, resp.Code)
	}

	recorder := doJSON(t, s, http.MethodGet, RoutePatients, pair.Access, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	type envelope struct {
		Count    int                `json:"count"`
		Next     *string            `json:"next"`
		Previous *string            `json:"previous"`
		Results  []patients.Patient `json:"results"`
	}
	page := decodeInto[envelope](t, recorder)
	require.Equal(t, 12, page.Count)
	require.Len(t, page.Results, 10)
	require.NotNil(t, page.Next)
	require.Nil(t, page.Previous)

	second := doJSON(t, s, http.MethodGet, RoutePatients+"?page=2", pair.Access, nil)
	lastPage := decodeInto[envelope](t, second)
	require.Len(t, lastPage.Results, 2)
	require.Nil(t, lastPage.Next)
	require.NotNil(t, lastPage.Previous)
}

func TestPatientSearch(t *testing.T) {
	s, repos := newTestServer(t)
	createUser(t, repos, "reception", "Passw0rdOK", users.RoleReceptionist)
	pair := login(t, s, "reception", "Passw0rdOK")

	require.Equal(t, http.StatusCreated, doJSON(t, s, http.MethodPost, RoutePatients, pair.Access, patientBody("Ada", "Lovelace", "ada@example.test")).Code)
	require.Equal(t, http.StatusCreated, doJSON(t, s, http.MethodPost, RoutePatients, pair.Access, patientBody("Grace", "Hopper", "grace@example.test")).Code)

	recorder := doJSON(t, s, http.MethodGet, RoutePatients+"?search=hopper", pair.Access, nil)
	type envelope struct {
		Count   int                `json:"count"`
		Results []patients.Patient `json:"results"`
	}
	page := decodeInto[envelope](t, recorder)
	require.Equal(t, 1, page.Count)
	require.Equal(t, "Hopper", page.Results[0].LastName)
}

func TestPatientEndpointsRejectPatientRole(t *testing.T) {
	s, repos := newTestServer(t)
	createUser(t, repos, "justapatient", "Passw0rdOK", users.RolePatient)
	pair := login(t, s, "justapatient", "Passw0rdOK")

	recorder := doJSON(t, s, http.MethodGet, RoutePatients, pair.Access, nil)
	require.Equal(t, http.StatusForbidden, recorder.Code)
	body := decodeInto[map[string]string](t, recorder)
	require.Equal(t, "You do not have permission to perform this action.", body["detail"])
}

func TestAppointmentConflictReturnsDetail(t *testing.T) {
	s, repos := newTestServer(t)
	doctor := createUser(t, repos, "drgrey", "Passw0rdOK", users.RoleDoctor)
	pair := login(t, s, "drgrey", "Passw0rdOK")

	patientResp := doJSON(t, s, http.MethodPost, RoutePatients, pair.Access, patientBody("Ada", "Lovelace", "ada@example.test"))
	patient := decodeInto[patients.Patient](t, patientResp)

	first := doJSON(t, s, http.MethodPost, RouteAppointments, pair.Access, appointmentBody(patient.ID, doctor.ID, "2030-03-01", "09:30"))
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	booked := decodeInto[appointments.Appointment](t, first)
	require.Equal(t, "APT-000001", booked.AppointmentID)
	require.Equal(t, appointments.StatusScheduled, booked.Status)
	require.Equal(t, appointments.DefaultDurationMinutes, booked.Duration)

	conflict := doJSON(t, s, http.MethodPost, RouteAppointments, pair.Access, appointmentBody(patient.ID, doctor.ID, "2030-03-01", "09:30"))
	require.Equal(t, http.StatusBadRequest, conflict.Code)
	body := decodeInto[map[string]string](t, conflict)
	require.Equal(t, "doctor already has an appointment at this date and time", body["detail"])
}

func TestAppointmentConfirmAndCancel(t *testing.T) {
	s, repos := newTestServer(t)
	doctor := createUser(t, repos, "drgrey", "Passw0rdOK", users.RoleDoctor)
	pair := login(t, s, "drgrey", "Passw0rdOK")

	patientResp := doJSON(t, s, http.MethodPost, RoutePatients, pair.Access, patientBody("Ada", "Lovelace", "ada@example.test"))
	patient := decodeInto[patients.Patient](t, patientResp)

	created := doJSON(t, s, http.MethodPost, RouteAppointments, pair.Access, appointmentBody(patient.ID, doctor.ID, "2030-03-01", "09:30"))
	booked := decodeInto[appointments.Appointment](t, created)

	confirmed := doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/appointments/%d/confirm/", booked.ID), pair.Access, nil)
	require.Equal(t, http.StatusOK, confirmed.Code)
	require.Equal(t, appointments.StatusConfirmed, decodeInto[appointments.Appointment](t, confirmed).Status)

	cancelled := doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/appointments/%d/cancel/", booked.ID), pair.Access, nil)
	require.Equal(t, http.StatusOK, cancelled.Code)
	require.Equal(t, appointments.StatusCancelled, decodeInto[appointments.Appointment](t, cancelled).Status)
}

func TestUpcomingAppointmentsAreABareArray(t *testing.T) {
	s, repos := newTestServer(t)
	doctor := createUser(t, repos, "drgrey", "Passw0rdOK", users.RoleDoctor)
	pair := login(t, s, "drgrey", "Passw0rdOK")

	patientResp := doJSON(t, s, http.MethodPost, RoutePatients, pair.Access, patientBody("Ada", "Lovelace", "ada@example.test"))
	patient := decodeInto[patients.Patient](t, patientResp)

	created := doJSON(t, s, http.MethodPost, RouteAppointments, pair.Access, appointmentBody(patient.ID, doctor.ID, "2030-03-01", "09:30"))
	require.Equal(t, http.StatusCreated, created.Code)

	recorder := doJSON(t, s, http.MethodGet, RouteAppointmentsUpcoming, pair.Access, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	upcoming := decodeInto[[]appointments.Appointment](t, recorder)
	require.Len(t, upcoming, 1)
}

func TestMedicalRecordsRequireDoctor(t *testing.T) {
	s, repos := newTestServer(t)
	createUser(t, repos, "nursejoy", "Passw0rdOK", users.RoleNurse)
	doctor := createUser(t, repos, "drgrey", "Passw0rdOK", users.RoleDoctor)
	nursePair := login(t, s, "nursejoy", "Passw0rdOK")
	doctorPair := login(t, s, "drgrey", "Passw0rdOK")

	patientResp := doJSON(t, s, http.MethodPost, RoutePatients, doctorPair.Access, patientBody("Ada", "Lovelace", "ada@example.test"))
	patient := decodeInto[patients.Patient](t, patientResp)

	recordBody := map[string]any{
		"patient":    patient.ID,
		"visit_date": "2030-03-01T10:00:00Z",
		"diagnosis":  "Seasonal flu",
		"symptoms":   "Fever, cough",
	}

	denied := doJSON(t, s, http.MethodPost, RouteMedicalRecords, nursePair.Access, recordBody)
	require.Equal(t, http.StatusForbidden, denied.Code)

	created := doJSON(t, s, http.MethodPost, RouteMedicalRecords, doctorPair.Access, recordBody)
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())

	// The record shows up in the patient's history, doctor defaulted to the author
	history := doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/patients/%d/medical_records/", patient.ID), doctorPair.Access, nil)
	require.Equal(t, http.StatusOK, history.Code)
	listed := decodeInto[[]map[string]any](t, history)
	require.Len(t, listed, 1)
	require.EqualValues(t, doctor.ID, listed[0]["doctor"])
}

func TestMyTasksIsNurseOnly(t *testing.T) {
	s, repos := newTestServer(t)
	nurse := createUser(t, repos, "nursejoy", "Passw0rdOK", users.RoleNurse)
	otherNurse := createUser(t, repos, "nurseratched", "Passw0rdOK", users.RoleNurse)
	createUser(t, repos, "drgrey", "Passw0rdOK", users.RoleDoctor)
	nursePair := login(t, s, "nursejoy", "Passw0rdOK")
	doctorPair := login(t, s, "drgrey", "Passw0rdOK")

	patientResp := doJSON(t, s, http.MethodPost, RoutePatients, doctorPair.Access, patientBody("Ada", "Lovelace", "ada@example.test"))
	patient := decodeInto[patients.Patient](t, patientResp)

	for _, assignment := range []struct {
		nurseID int64
		title   string
	}{
		{nurse.ID, "Check vitals"},
		{otherNurse.ID, "Administer medication"},
	} {
		created := doJSON(t, s, http.MethodPost, RouteNurseTasks, doctorPair.Access, map[string]any{
			"nurse":          assignment.nurseID,
			"patient":        patient.ID,
			"title":          assignment.title,
			"scheduled_time": "08:30",
		})
		require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	}

	// Doctors are rejected outright
	denied := doJSON(t, s, http.MethodGet, RouteNurseMyTasks, doctorPair.Access, nil)
	require.Equal(t, http.StatusForbidden, denied.Code)

	// A nurse sees only their own tasks
	mine := doJSON(t, s, http.MethodGet, RouteNurseMyTasks, nursePair.Access, nil)
	require.Equal(t, http.StatusOK, mine.Code)
	tasks := decodeInto[[]nursetasks.Task](t, mine)
	require.Len(t, tasks, 1)
	require.Equal(t, "Check vitals", tasks[0].Title)
}

func TestTaskCompletionPatch(t *testing.T) {
	s, repos := newTestServer(t)
	nurse := createUser(t, repos, "nursejoy", "Passw0rdOK", users.RoleNurse)
	pair := login(t, s, "nursejoy", "Passw0rdOK")

	patientResp := doJSON(t, s, http.MethodPost, RoutePatients, pair.Access, patientBody("Ada", "Lovelace", "ada@example.test"))
	patient := decodeInto[patients.Patient](t, patientResp)

	created := doJSON(t, s, http.MethodPost, RouteNurseTasks, pair.Access, map[string]any{
		"nurse":          nurse.ID,
		"patient":        patient.ID,
		"title":          "Check vitals",
		"scheduled_time": "08:30",
	})
	task := decodeInto[nursetasks.Task](t, created)
	require.False(t, task.Completed)

	patched := doJSON(t, s, http.MethodPatch, fmt.Sprintf("/api/nurse-tasks/tasks/%d/", task.ID), pair.Access, map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, patched.Code)
	require.True(t, decodeInto[nursetasks.Task](t, patched).Completed)
}

func TestUserAdministrationIsAdminOnly(t *testing.T) {
	s, repos := newTestServer(t)
	createUser(t, repos, "drgrey", "Passw0rdOK", users.RoleDoctor)
	doctorPair := login(t, s, "drgrey", "Passw0rdOK")

	denied := doJSON(t, s, http.MethodGet, RouteUsers, doctorPair.Access, nil)
	require.Equal(t, http.StatusForbidden, denied.Code)

	createUser(t, repos, "superuser", "Passw0rdOK", users.RoleAdmin)
	adminPair := login(t, s, "superuser", "Passw0rdOK")

	created := doJSON(t, s, http.MethodPost, RouteUsers, adminPair.Access, map[string]any{
		"username":   "newnurse",
		"email":      "newnurse@hospital.test",
		"password":   "Str0ngPass",
		"first_name": "New",
		"last_name":  "Nurse",
		"role":       "nurse",
	})
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	identity := decodeInto[users.Identity](t, created)
	require.Equal(t, users.RoleNurse, identity.Role)

	weak := doJSON(t, s, http.MethodPost, RouteUsers, adminPair.Access, map[string]any{
		"username":   "weakling",
		"email":      "weak@hospital.test",
		"password":   "short",
		"first_name": "Weak",
		"last_name":  "Password",
		"role":       "nurse",
	})
	require.Equal(t, http.StatusBadRequest, weak.Code)
	fields := decodeInto[map[string][]string](t, weak)
	require.Contains(t, fields, "password")

	byRole := doJSON(t, s, http.MethodGet, RouteUsers+"?role=nurse", adminPair.Access, nil)
	require.Equal(t, http.StatusOK, byRole.Code)
	nurses := decodeInto[[]users.Identity](t, byRole)
	require.Len(t, nurses, 1)

	blocked := doJSON(t, s, http.MethodPost, "/api/users/newnurse/block/", adminPair.Access, map[string]any{"blocked": true})
	require.Equal(t, http.StatusOK, blocked.Code)

	loginResp := doJSON(t, s, http.MethodPost, RouteAuthLogin, "", loginRequest{Username: "newnurse", Password: "Str0ngPass"})
	require.Equal(t, http.StatusBadRequest, loginResp.Code)
}

func TestUnknownSubpathIsNotFound(t *testing.T) {
	s, repos := newTestServer(t)
	createUser(t, repos, "drgrey", "Passw0rdOK", users.RoleDoctor)
	pair := login(t, s, "drgrey", "Passw0rdOK")

	created := doJSON(t, s, http.MethodPost, RoutePatients, pair.Access, patientBody("Ada", "Lovelace", "ada@example.test"))
	require.Equal(t, http.StatusCreated, created.Code)
	patient := decodeInto[patients.Patient](t, created)

	// A stray segment under a patient must not resolve to the {id} route
	recorder := doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/patients/%d/bogus", patient.ID), pair.Access, nil)
	require.Equal(t, http.StatusNotFound, recorder.Code)

	// The real routes still resolve
	recorder = doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/patients/%d/", patient.ID), pair.Access, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	recorder = doJSON(t, s, http.MethodGet, RouteAppointmentsToday, pair.Access, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
}
