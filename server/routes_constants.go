package server

const (
	// Auth
	RouteAuthLogin   = "/api/auth/login/"
	RouteAuthSignup  = "/api/auth/signup/"
	RouteAuthLogout  = "/api/auth/logout/"
	RouteAuthRefresh = "/api/auth/refresh/"
	RouteAuthProfile = "/api/auth/profile/"

	// Patients
	RoutePatients            = "/api/patients/"
	RoutePatient             = "/api/patients/{id}/"
	RoutePatientRecords      = "/api/patients/{id}/medical_records/"
	RoutePatientAppointments = "/api/patients/{id}/appointments/"
	RoutePatientAssignNurse  = "/api/patients/{id}/assign_nurse/"

	// Appointments
	RouteAppointments         = "/api/appointments/"
	RouteAppointment          = "/api/appointments/{id}/"
	RouteAppointmentsToday    = "/api/appointments/today/"
	RouteAppointmentsUpcoming = "/api/appointments/upcoming/"
	RouteAppointmentConfirm   = "/api/appointments/{id}/confirm/"
	RouteAppointmentCancel    = "/api/appointments/{id}/cancel/"

	// Medical records
	RouteMedicalRecords = "/api/medical-records/"
	RouteMedicalRecord  = "/api/medical-records/{id}/"

	// Nurse tasks
	RouteNurseTasks   = "/api/nurse-tasks/tasks/"
	RouteNurseTask    = "/api/nurse-tasks/tasks/{id}/"
	RouteNurseMyTasks = "/api/nurse-tasks/tasks/my-tasks/"

	// User administration
	RouteUsers     = "/api/users/"
	RouteUser      = "/api/users/{username}/"
	RouteUserBlock = "/api/users/{username}/block/"

	// Operational
	RouteHealthz = "/healthz"
	RouteMetrics = "/metrics"
)
