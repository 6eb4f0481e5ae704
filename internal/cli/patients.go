package cli

import (
	"strconv"
	"time"

	"github.com/jrsteele09/go-hms/client/rest"
	"github.com/jrsteele09/go-hms/patients"
	"github.com/spf13/cobra"
)

var patientsCmd = &cobra.Command{
	Use:   "patients",
	Short: "Manage registered patients",
}

var patientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered patients",
	Args:  cobra.NoArgs,
	RunE:  runPatientsList,
}

var patientsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one patient",
	Args:  cobra.ExactArgs(1),
	RunE:  runPatientsGet,
}

var patientsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new patient",
	Args:  cobra.NoArgs,
	RunE:  runPatientsCreate,
}

func init() {
	rootCmd.AddCommand(patientsCmd)
	patientsCmd.AddCommand(patientsListCmd)
	patientsCmd.AddCommand(patientsGetCmd)
	patientsCmd.AddCommand(patientsCreateCmd)

	patientsListCmd.Flags().String("search", "", "filter by name, email or patient ID")
	patientsListCmd.Flags().Int("page", 1, "page number")
	patientsListCmd.Flags().Int("page-size", 10, "patients per page")

	patientsCreateCmd.Flags().String("first-name", "", "first name")
	patientsCreateCmd.Flags().String("last-name", "", "last name")
	patientsCreateCmd.Flags().String("date-of-birth", "", "date of birth (YYYY-MM-DD)")
	patientsCreateCmd.Flags().String("gender", "", "male, female or other")
	patientsCreateCmd.Flags().String("blood-group", "", "blood group, e.g. O+")
	patientsCreateCmd.Flags().String("email", "", "contact email")
	patientsCreateCmd.Flags().String("phone", "", "contact phone")
	patientsCreateCmd.Flags().String("address", "", "street address")
	_ = patientsCreateCmd.MarkFlagRequired("first-name")
	_ = patientsCreateCmd.MarkFlagRequired("last-name")
	_ = patientsCreateCmd.MarkFlagRequired("date-of-birth")
	_ = patientsCreateCmd.MarkFlagRequired("gender")
	_ = patientsCreateCmd.MarkFlagRequired("email")
}

func runPatientsList(cmd *cobra.Command, args []string) error {
	if _, err := authorize(cmd, clinicalStaff...); err != nil {
		return err
	}

	search, _ := cmd.Flags().GetString("search")
	page, _ := cmd.Flags().GetInt("page")
	pageSize, _ := cmd.Flags().GetInt("page-size")

	path := "/api/patients/" + rest.Query(map[string]string{
		"search":    search,
		"page":      strconv.Itoa(page),
		"page_size": strconv.Itoa(pageSize),
	})
	listed, err := rest.GetList[patients.Patient](cmd.Context(), api, path)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(listed.Results))
	for _, p := range listed.Results {
		rows = append(rows, []string{
			p.PatientID,
			p.FullName(),
			strconv.Itoa(p.Age(time.Now())),
			string(p.Gender),
			p.BloodGroup,
			p.Phone,
		})
	}
	printer.Table([]string{"ID", "NAME", "AGE", "GENDER", "BLOOD", "PHONE"}, rows)
	printer.Print("%d of %d patient(s)", len(listed.Results), listed.Count)
	return nil
}

func runPatientsGet(cmd *cobra.Command, args []string) error {
	if _, err := authorize(cmd, clinicalStaff...); err != nil {
		return err
	}

	var patient patients.Patient
	if err := api.Get(cmd.Context(), "/api/patients/"+args[0]+"/", &patient); err != nil {
		return err
	}

	printer.Print("Patient:      %s (%s)", patient.FullName(), patient.PatientID)
	printer.Print("Born:         %s (%d years)", patient.DateOfBirth, patient.Age(time.Now()))
	printer.Print("Gender:       %s", patient.Gender)
	printer.Print("Blood group:  %s", patient.BloodGroup)
	printer.Print("Email:        %s", patient.Email)
	printer.Print("Phone:        %s", patient.Phone)
	if patient.Allergies != "" {
		printer.Print("Allergies:    %s", patient.Allergies)
	}
	if patient.ChronicConditions != "" {
		printer.Print("Conditions:   %s", patient.ChronicConditions)
	}
	return nil
}

func runPatientsCreate(cmd *cobra.Command, args []string) error {
	if _, err := authorize(cmd, clinicalStaff...); err != nil {
		return err
	}

	flag := func(name string) string {
		value, _ := cmd.Flags().GetString(name)
		return value
	}
	body := map[string]string{
		"first_name":    flag("first-name"),
		"last_name":     flag("last-name"),
		"date_of_birth": flag("date-of-birth"),
		"gender":        flag("gender"),
		"blood_group":   flag("blood-group"),
		"email":         flag("email"),
		"phone":         flag("phone"),
		"address":       flag("address"),
	}

	var created patients.Patient
	if err := api.Post(cmd.Context(), "/api/patients/", body, &created); err != nil {
		return err
	}
	printer.Success("Registered %s as %s", created.FullName(), created.PatientID)
	return nil
}
