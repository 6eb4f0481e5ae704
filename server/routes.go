package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-hms/internal/metrics"
	"github.com/jrsteele09/go-hms/users"
)

// Staff roles for the clinical resources. Patients authenticate for their
// own profile but never reach the management endpoints.
var (
	clinicalStaff   = []users.Role{users.RoleDoctor, users.RoleNurse, users.RoleReceptionist, users.RoleAdmin}
	schedulingStaff = []users.Role{users.RoleDoctor, users.RoleReceptionist, users.RoleAdmin}
	medicalStaff    = []users.Role{users.RoleDoctor, users.RoleNurse, users.RoleAdmin}
)

// pattern builds a ServeMux pattern. Trailing-slash routes are anchored
// with {$} so a subpath like /api/patients/5/bogus is a 404 instead of a
// subtree match on the {id} route.
func pattern(method, route string) string {
	if strings.HasSuffix(route, "/") {
		route += "{$}"
	}
	return method + " " + route
}

func (s *Server) initRoutes() {
	// AUTH
	s.RegisterRouteHandler(pattern(http.MethodPost, RouteAuthLogin), ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler(pattern(http.MethodPost, RouteAuthSignup), ChainMiddleware(s.SignupHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler(pattern(http.MethodPost, RouteAuthRefresh), ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler(pattern(http.MethodPost, RouteAuthLogout), ChainMiddleware(s.LogoutHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler(pattern(http.MethodGet, RouteAuthProfile), ChainMiddleware(s.ProfileHandler(), s.APIMiddleware(s.RequireAuth())...))

	// PATIENTS
	s.RegisterRouteHandler(pattern(http.MethodGet, RoutePatients), s.clinical(s.PatientsListHandler()))
	s.RegisterRouteHandler(pattern(http.MethodPost, RoutePatients), s.clinical(s.PatientCreateHandler()))
	s.RegisterRouteHandler(pattern(http.MethodGet, RoutePatient), s.clinical(s.PatientGetHandler()))
	s.RegisterRouteHandler(pattern(http.MethodPut, RoutePatient), s.clinical(s.PatientUpdateHandler()))
	s.RegisterRouteHandler(pattern(http.MethodDelete, RoutePatient), s.clinical(s.PatientDeleteHandler()))
	s.RegisterRouteHandler(pattern(http.MethodGet, RoutePatientRecords), s.medical(s.PatientRecordsHandler()))
	s.RegisterRouteHandler(pattern(http.MethodGet, RoutePatientAppointments), s.clinical(s.PatientAppointmentsHandler()))
	s.RegisterRouteHandler(pattern(http.MethodPost, RoutePatientAssignNurse), s.clinical(s.PatientAssignNurseHandler()))

	// APPOINTMENTS
	s.RegisterRouteHandler(pattern(http.MethodGet, RouteAppointments), s.clinical(s.AppointmentsListHandler()))
	s.RegisterRouteHandler(pattern(http.MethodPost, RouteAppointments), s.scheduling(s.AppointmentCreateHandler()))
	s.RegisterRouteHandler(pattern(http.MethodGet, RouteAppointmentsToday), s.clinical(s.AppointmentsTodayHandler()))
	s.RegisterRouteHandler(pattern(http.MethodGet, RouteAppointmentsUpcoming), s.clinical(s.AppointmentsUpcomingHandler()))
	s.RegisterRouteHandler(pattern(http.MethodGet, RouteAppointment), s.clinical(s.AppointmentGetHandler()))
	s.RegisterRouteHandler(pattern(http.MethodPut, RouteAppointment), s.scheduling(s.AppointmentUpdateHandler()))
	s.RegisterRouteHandler(pattern(http.MethodDelete, RouteAppointment), s.scheduling(s.AppointmentDeleteHandler()))
	s.RegisterRouteHandler(pattern(http.MethodPost, RouteAppointmentConfirm), s.scheduling(s.AppointmentConfirmHandler()))
	s.RegisterRouteHandler(pattern(http.MethodPost, RouteAppointmentCancel), s.scheduling(s.AppointmentCancelHandler()))

	// MEDICAL RECORDS
	s.RegisterRouteHandler(pattern(http.MethodGet, RouteMedicalRecords), s.medical(s.RecordsListHandler()))
	s.RegisterRouteHandler(pattern(http.MethodPost, RouteMedicalRecords), s.doctors(s.RecordCreateHandler()))
	s.RegisterRouteHandler(pattern(http.MethodGet, RouteMedicalRecord), s.medical(s.RecordGetHandler()))
	s.RegisterRouteHandler(pattern(http.MethodPut, RouteMedicalRecord), s.doctors(s.RecordUpdateHandler()))
	s.RegisterRouteHandler(pattern(http.MethodDelete, RouteMedicalRecord), s.doctors(s.RecordDeleteHandler()))

	// NURSE TASKS
	s.RegisterRouteHandler(pattern(http.MethodGet, RouteNurseTasks), s.medical(s.TasksListHandler()))
	s.RegisterRouteHandler(pattern(http.MethodPost, RouteNurseTasks), s.medical(s.TaskCreateHandler()))
	s.RegisterRouteHandler(pattern(http.MethodGet, RouteNurseMyTasks), ChainMiddleware(s.MyTasksHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireRoles(users.RoleNurse))...))
	s.RegisterRouteHandler(pattern(http.MethodPatch, RouteNurseTask), s.medical(s.TaskPatchHandler()))
	s.RegisterRouteHandler(pattern(http.MethodDelete, RouteNurseTask), s.medical(s.TaskDeleteHandler()))

	// USER ADMINISTRATION
	s.RegisterRouteHandler(pattern(http.MethodGet, RouteUsers), s.admins(s.UsersListHandler()))
	s.RegisterRouteHandler(pattern(http.MethodPost, RouteUsers), s.admins(s.UserCreateHandler()))
	s.RegisterRouteHandler(pattern(http.MethodPost, RouteUserBlock), s.admins(s.UserBlockHandler()))
	s.RegisterRouteHandler(pattern(http.MethodDelete, RouteUser), s.admins(s.UserDeleteHandler()))

	// OPERATIONAL
	s.RegisterRouteFunc(pattern(http.MethodGet, RouteHealthz), s.HealthzHandler())
	s.RegisterRouteHandler(pattern(http.MethodGet, RouteMetrics), metrics.Handler())
}

func (s *Server) clinical(handler http.HandlerFunc) http.HandlerFunc {
	return ChainMiddleware(handler, s.APIMiddleware(s.RequireAuth(), s.RequireRoles(clinicalStaff...))...)
}

func (s *Server) scheduling(handler http.HandlerFunc) http.HandlerFunc {
	return ChainMiddleware(handler, s.APIMiddleware(s.RequireAuth(), s.RequireRoles(schedulingStaff...))...)
}

func (s *Server) medical(handler http.HandlerFunc) http.HandlerFunc {
	return ChainMiddleware(handler, s.APIMiddleware(s.RequireAuth(), s.RequireRoles(medicalStaff...))...)
}

func (s *Server) doctors(handler http.HandlerFunc) http.HandlerFunc {
	return ChainMiddleware(handler, s.APIMiddleware(s.RequireAuth(), s.RequireRoles(users.RoleDoctor, users.RoleAdmin))...)
}

func (s *Server) admins(handler http.HandlerFunc) http.HandlerFunc {
	return ChainMiddleware(handler, s.APIMiddleware(s.RequireAuth(), s.RequireRoles(users.RoleAdmin))...)
}

// HealthzHandler reports liveness.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
