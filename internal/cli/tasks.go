package cli

import (
	"strconv"

	"github.com/jrsteele09/go-hms/client/rest"
	"github.com/jrsteele09/go-hms/internal/utils"
	"github.com/jrsteele09/go-hms/nursetasks"
	"github.com/jrsteele09/go-hms/users"
	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Nurse ward tasks",
}

var tasksMyCmd = &cobra.Command{
	Use:   "my",
	Short: "Your assigned ward tasks",
	Args:  cobra.NoArgs,
	RunE:  runTasksMy,
}

var tasksDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksDone,
}

func init() {
	rootCmd.AddCommand(tasksCmd)
	tasksCmd.AddCommand(tasksMyCmd)
	tasksCmd.AddCommand(tasksDoneCmd)
}

func runTasksMy(cmd *cobra.Command, args []string) error {
	if _, err := authorize(cmd, users.RoleNurse); err != nil {
		return err
	}

	listed, err := rest.GetList[nursetasks.Task](cmd.Context(), api, "/api/nurse-tasks/tasks/my-tasks/")
	if err != nil {
		return err
	}
	if len(listed.Results) == 0 {
		printer.Print("No tasks assigned")
		return nil
	}

	rows := make([][]string, 0, len(listed.Results))
	for _, task := range listed.Results {
		state := "pending"
		if task.Completed {
			state = "done"
		}
		rows = append(rows, []string{
			strconv.FormatInt(task.ID, 10),
			task.ScheduledTime,
			strconv.FormatInt(task.PatientID, 10),
			task.Title,
			printer.StatusBadge(state),
		})
	}
	printer.Table([]string{"ID", "TIME", "PATIENT", "TASK", "STATE"}, rows)
	return nil
}

func runTasksDone(cmd *cobra.Command, args []string) error {
	if _, err := authorize(cmd, users.RoleNurse, users.RoleDoctor, users.RoleAdmin); err != nil {
		return err
	}

	body := map[string]*bool{"completed": utils.Ptr(true)}

	var updated nursetasks.Task
	if err := api.Patch(cmd.Context(), "/api/nurse-tasks/tasks/"+args[0]+"/", body, &updated); err != nil {
		return err
	}
	printer.Success("Task %d completed: %s", updated.ID, updated.Title)
	return nil
}
