package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Sign in and store the session",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard the stored session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().StringP("password", "p", "", "password (prompted when omitted)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	username := args[0]
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		var err error
		password, err = promptPassword()
		if err != nil {
			return err
		}
	}

	if err := sess.Login(cmd.Context(), username, password); err != nil {
		return err
	}

	s := sess.Session()
	printer.Success("Signed in as %s (%s)", s.Identity.Username, s.Identity.Role)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	sess.Logout(cmd.Context())
	printer.Success("Signed out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	s, err := authorize(cmd)
	if err != nil {
		return err
	}

	identity := s.Identity
	printer.Print("Username:  %s", identity.Username)
	printer.Print("Name:      %s %s", identity.FirstName, identity.LastName)
	printer.Print("Email:     %s", identity.Email)
	printer.Print("Role:      %s", identity.Role)
	return nil
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", errors.Wrap(err, "[promptPassword] read stdin")
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	return password, nil
}
