// Package cli contains all commands for the hmsctl terminal client. Every
// command talks to the hospital management API through the shared rest
// client and session manager; nothing here touches storage directly.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jrsteele09/go-hms/client/guard"
	"github.com/jrsteele09/go-hms/client/rest"
	"github.com/jrsteele09/go-hms/client/session"
	"github.com/jrsteele09/go-hms/client/tokenstore"
	"github.com/jrsteele09/go-hms/users"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	serverURL string
	dataDir   string
	noColor   bool

	api     *rest.Client
	sess    *session.Manager
	printer *Printer
)

// Staff roles mirror the service's route requirements so a command can fail
// fast with a readable message instead of a 403 from the API.
var (
	clinicalStaff   = []users.Role{users.RoleDoctor, users.RoleNurse, users.RoleReceptionist, users.RoleAdmin}
	schedulingStaff = []users.Role{users.RoleDoctor, users.RoleReceptionist, users.RoleAdmin}
)

var rootCmd = &cobra.Command{
	Use:   "hmsctl",
	Short: "Hospital management service CLI",
	Long: `hmsctl is a terminal client for the hospital management service.

It keeps a login session on disk, so commands stay authenticated between
invocations until the session expires or you log out.

Example usage:
  hmsctl login drgrey           # Sign in and store the session
  hmsctl whoami                 # Show the signed-in user
  hmsctl patients list          # List registered patients
  hmsctl appointments today     # Today's appointments
  hmsctl tasks my               # Your assigned ward tasks (nurses)`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initClient()
	},
}

// Execute runs the root command tree.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		if printer == nil {
			printer = NewPrinter(false)
		}
		printer.Error("Error: %s", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .hmsctl.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "base URL of the service")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "folder holding the stored session")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	_ = viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
}

func initClient() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".hmsctl")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/hmsctl")
	}

	viper.SetEnvPrefix("HMSCTL")
	viper.AutomaticEnv()
	viper.SetDefault("server", "http://localhost:8080")
	viper.SetDefault("data_dir", defaultDataDir())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errors.Wrap(err, "[initClient] reading config")
		}
	}

	store := tokenstore.NewFileStore(viper.GetString("data_dir"))
	api = rest.NewClient(viper.GetString("server"), store)
	sess = session.NewManager(api, store)
	printer = NewPrinter(!noColor)
	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hmsctl"
	}
	return filepath.Join(home, ".hmsctl")
}

// authorize restores the stored session and checks it against the roles a
// command needs. An empty role list admits any signed-in user.
func authorize(cmd *cobra.Command, allowedRoles ...users.Role) (session.Session, error) {
	s := sess.Restore(cmd.Context())
	switch guard.Evaluate(s, allowedRoles) {
	case guard.DecisionRender:
		return s, nil
	case guard.DecisionRedirectLogin:
		return s, errors.New(`not signed in, run "hmsctl login <username>" first`)
	case guard.DecisionRedirectHome:
		return s, fmt.Errorf("the %s role cannot use this command", s.Identity.Role)
	default:
		return s, errors.New("session could not be resolved")
	}
}
