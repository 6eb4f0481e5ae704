package cli

import (
	"strconv"

	"github.com/jrsteele09/go-hms/appointments"
	"github.com/jrsteele09/go-hms/client/rest"
	"github.com/spf13/cobra"
)

var appointmentsCmd = &cobra.Command{
	Use:     "appointments",
	Aliases: []string{"appts"},
	Short:   "Manage appointments",
}

var appointmentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List appointments",
	Args:  cobra.NoArgs,
	RunE:  runAppointmentsList,
}

var appointmentsTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Appointments scheduled for today",
	Args:  cobra.NoArgs,
	RunE:  appointmentsListing("/api/appointments/today/", "No appointments today"),
}

var appointmentsUpcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "Upcoming bookable appointments",
	Args:  cobra.NoArgs,
	RunE:  appointmentsListing("/api/appointments/upcoming/", "No upcoming appointments"),
}

var appointmentsConfirmCmd = &cobra.Command{
	Use:   "confirm <id>",
	Short: "Confirm an appointment",
	Args:  cobra.ExactArgs(1),
	RunE:  appointmentStatusAction("confirm"),
}

var appointmentsCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel an appointment",
	Args:  cobra.ExactArgs(1),
	RunE:  appointmentStatusAction("cancel"),
}

func init() {
	rootCmd.AddCommand(appointmentsCmd)
	appointmentsCmd.AddCommand(appointmentsListCmd)
	appointmentsCmd.AddCommand(appointmentsTodayCmd)
	appointmentsCmd.AddCommand(appointmentsUpcomingCmd)
	appointmentsCmd.AddCommand(appointmentsConfirmCmd)
	appointmentsCmd.AddCommand(appointmentsCancelCmd)

	appointmentsListCmd.Flags().Int("page", 1, "page number")
	appointmentsListCmd.Flags().Int("page-size", 10, "appointments per page")
}

func runAppointmentsList(cmd *cobra.Command, args []string) error {
	if _, err := authorize(cmd, clinicalStaff...); err != nil {
		return err
	}

	page, _ := cmd.Flags().GetInt("page")
	pageSize, _ := cmd.Flags().GetInt("page-size")

	path := "/api/appointments/" + rest.Query(map[string]string{
		"page":      strconv.Itoa(page),
		"page_size": strconv.Itoa(pageSize),
	})
	listed, err := rest.GetList[appointments.Appointment](cmd.Context(), api, path)
	if err != nil {
		return err
	}

	renderAppointments(listed.Results)
	printer.Print("%d of %d appointment(s)", len(listed.Results), listed.Count)
	return nil
}

// appointmentsListing builds the handler for the bare-array collection
// endpoints, which are not paginated.
func appointmentsListing(path, emptyMessage string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if _, err := authorize(cmd, clinicalStaff...); err != nil {
			return err
		}

		listed, err := rest.GetList[appointments.Appointment](cmd.Context(), api, path)
		if err != nil {
			return err
		}
		if len(listed.Results) == 0 {
			printer.Print("%s", emptyMessage)
			return nil
		}
		renderAppointments(listed.Results)
		return nil
	}
}

func appointmentStatusAction(action string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if _, err := authorize(cmd, schedulingStaff...); err != nil {
			return err
		}

		var updated appointments.Appointment
		path := "/api/appointments/" + args[0] + "/" + action + "/"
		if err := api.Post(cmd.Context(), path, nil, &updated); err != nil {
			return err
		}
		printer.Success("%s is now %s", updated.AppointmentID, updated.Status)
		return nil
	}
}

func renderAppointments(listed []appointments.Appointment) {
	rows := make([][]string, 0, len(listed))
	for _, a := range listed {
		rows = append(rows, []string{
			a.AppointmentID,
			a.Date,
			a.Time,
			strconv.FormatInt(a.PatientID, 10),
			strconv.FormatInt(a.DoctorID, 10),
			string(a.Type),
			printer.StatusBadge(string(a.Status)),
		})
	}
	printer.Table([]string{"ID", "DATE", "TIME", "PATIENT", "DOCTOR", "TYPE", "STATUS"}, rows)
}
