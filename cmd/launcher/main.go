// Command launcher is a terminal front end for a legend-of-mir style game
// launcher: it lists the servers, manages accounts on the selected login
// server and starts the game client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dcrodman/mirlauncher/internal/core"
	"github.com/dcrodman/mirlauncher/internal/launcher"
)

var (
	ConfigFlag string
	ExeFlag    string
	ServerFlag string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "launcher",
		Short: "Game launcher and account tools",
		Run:   ServersCommand,
	}
	rootCmd.PersistentFlags().StringVarP(&ConfigFlag, "config", "c", "", "Path to the launcher config/data directory (default: the executable's directory)")
	rootCmd.PersistentFlags().StringVar(&ExeFlag, "exe", "", "Executable to read the embedded configuration from (default: this executable)")
	rootCmd.PersistentFlags().StringVarP(&ServerFlag, "server", "s", "", "Caption of the server to use (default: the last one listed)")

	registerCmd.Flags().StringVar(&registerForm.Birthday, "birthday", "", "Birthday as yyyy/mm/dd")
	registerCmd.Flags().StringVar(&registerForm.Quiz1, "quiz1", "", "First security question")
	registerCmd.Flags().StringVar(&registerForm.Answer1, "answer1", "", "Answer to the first security question")
	registerCmd.Flags().StringVar(&registerForm.Quiz2, "quiz2", "", "Second security question")
	registerCmd.Flags().StringVar(&registerForm.Answer2, "answer2", "", "Answer to the second security question")
	registerCmd.Flags().StringVar(&registerForm.Email, "email", "", "Email address")
	registerCmd.Flags().StringVar(&registerForm.Phone, "phone", "", "Phone number")
	registerCmd.Flags().StringVar(&registerForm.MobilePhone, "mobile", "", "Mobile phone number")

	recoverCmd.Flags().StringVar(&recoverForm.Birthday, "birthday", "", "Birthday as yyyy/mm/dd")
	recoverCmd.Flags().StringVar(&recoverForm.Quiz1, "quiz1", "", "First security question")
	recoverCmd.Flags().StringVar(&recoverForm.Answer1, "answer1", "", "Answer to the first security question")
	recoverCmd.Flags().StringVar(&recoverForm.Quiz2, "quiz2", "", "Second security question")
	recoverCmd.Flags().StringVar(&recoverForm.Answer2, "answer2", "", "Answer to the second security question")

	accountsCmd.AddCommand(accountsForgetCmd)

	rootCmd.AddCommand(serversCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(passwdCmd)
	rootCmd.AddCommand(recoverCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(accountsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// commandContext is cancelled when the user interrupts the command.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// initLauncher loads the config and initializes a Launcher the same way the
// launcher does on start-up.
func initLauncher(ctx context.Context) *launcher.Launcher {
	exe, err := os.Executable()
	if err != nil {
		fail("error locating executable:", err)
	}

	configDir := ConfigFlag
	if configDir == "" {
		configDir = filepath.Dir(exe)
	}
	if ExeFlag != "" {
		exe = ExeFlag
	}

	cfg, err := core.LoadConfig(configDir)
	if err != nil {
		fail("error loading config:", err)
	}
	logger, err := core.NewLogger(cfg)
	if err != nil {
		fail("error initializing logger:", err)
	}

	l := launcher.New(cfg, logger)
	if err := l.Init(ctx, exe); err != nil {
		fail("error initializing launcher:", err)
	}
	if ServerFlag != "" {
		if err := l.Select(ctx, ServerFlag); err != nil {
			l.Close()
			fail("error selecting server:", err)
		}
	}
	return l
}

// connect makes sure l is connected to the selected login server.
func connect(ctx context.Context, l *launcher.Launcher) {
	if l.Session.IsConnected() {
		return
	}
	if err := l.Connect(ctx); err != nil {
		l.Close()
		fail("error connecting to login server:", err)
	}
}

func fail(args ...interface{}) {
	fmt.Println(args...)
	os.Exit(1)
}
