package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dcrodman/mirlauncher/internal/core/data"
	"github.com/dcrodman/mirlauncher/internal/launcher"
)

var registerCmd = &cobra.Command{
	Use:   "register [account]",
	Short: "Registers a new account on the login server",
	Args:  cobra.MaximumNArgs(1),
	Run:   RegisterCommand,
}

var passwdCmd = &cobra.Command{
	Use:   "passwd [account]",
	Short: "Changes the password of an account",
	Args:  cobra.MaximumNArgs(1),
	Run:   PasswdCommand,
}

var recoverCmd = &cobra.Command{
	Use:   "recover [account]",
	Short: "Recovers the password of an account with its security questions",
	Args:  cobra.MaximumNArgs(1),
	Run:   RecoverCommand,
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Lists the accounts registered or changed from this launcher",
	Run:   AccountsCommand,
}

var accountsForgetCmd = &cobra.Command{
	Use:   "forget [account]",
	Short: "Removes an account from the launcher's history",
	Args:  cobra.MaximumNArgs(1),
	Run:   AccountsForgetCommand,
}

var (
	registerForm launcher.NewAccountForm
	recoverForm  launcher.RecoverForm
)

var stdin = bufio.NewScanner(os.Stdin)

func RegisterCommand(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()

	l := initLauncher(ctx)
	defer l.Close()
	connect(ctx, l)

	f := registerForm
	f.Account = popArg(args, "Account")
	f.Password = prompt("Password", "")
	f.Confirm = prompt("Confirm password", "")
	f.Birthday = prompt("Birthday (yyyy/mm/dd)", f.Birthday)
	f.Quiz1 = prompt("Security question 1", f.Quiz1)
	f.Answer1 = prompt("Answer 1", f.Answer1)
	f.Quiz2 = prompt("Security question 2", f.Quiz2)
	f.Answer2 = prompt("Answer 2", f.Answer2)

	if err := l.Register(ctx, f); err != nil {
		fmt.Println("error registering account:", err)
		return
	}
	awaitResult(ctx, l)
}

func PasswdCommand(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()

	l := initLauncher(ctx)
	defer l.Close()
	connect(ctx, l)

	var f launcher.ChangePasswordForm
	f.Account = popArg(args, "Account")
	f.Password = prompt("Current password", "")
	f.NewPassword = prompt("New password", "")
	f.Confirm = prompt("Confirm new password", "")

	if err := l.ChangePassword(ctx, f); err != nil {
		fmt.Println("error changing password:", err)
		return
	}
	awaitResult(ctx, l)
}

func RecoverCommand(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()

	l := initLauncher(ctx)
	defer l.Close()
	connect(ctx, l)

	f := recoverForm
	f.Account = popArg(args, "Account")
	f.Birthday = prompt("Birthday (yyyy/mm/dd)", f.Birthday)
	if f.Quiz1 == "" && f.Answer1 == "" && f.Quiz2 == "" && f.Answer2 == "" {
		f.Quiz1 = prompt("Security question 1", "")
		f.Answer1 = prompt("Answer 1", "")
	}

	if err := l.RecoverPassword(ctx, f); err != nil {
		fmt.Println("error recovering password:", err)
		return
	}
	awaitResult(ctx, l)
}

func AccountsCommand(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()

	l := initLauncher(ctx)
	defer l.Close()
	if l.DB == nil {
		fmt.Println("account history is unavailable")
		return
	}

	accounts, err := data.FindAccounts(l.DB)
	if err != nil {
		fmt.Println("error listing accounts:", err)
		return
	}
	if len(accounts) == 0 {
		fmt.Println("no accounts recorded")
		return
	}
	for _, a := range accounts {
		fmt.Printf("%-16s %-16s registered: %s  password changed: %s\n",
			a.Server, a.Username, formatTime(a.RegisteredAt), formatTime(a.PasswordChangedAt))
	}
}

func AccountsForgetCommand(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()

	l := initLauncher(ctx)
	defer l.Close()
	if l.DB == nil {
		fmt.Println("account history is unavailable")
		return
	}

	username := popArg(args, "Account")
	accounts, err := data.FindAccountsByUsername(l.DB, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		fmt.Println("error finding account:", err)
		return
	}
	for i := range accounts {
		if err := data.DeleteAccount(l.DB, &accounts[i]); err != nil {
			fmt.Println("error deleting account:", err)
			return
		}
	}
	fmt.Printf("forgot %d account(s)\n", len(accounts))
}

// awaitResult waits for the login server's answer and prints it.
func awaitResult(ctx context.Context, l *launcher.Launcher) {
	result, err := l.Await(ctx)
	if err != nil {
		fmt.Println("no answer from login server:", err)
		return
	}
	fmt.Println(result)
}

// popArg returns the first argument, prompting for it if there is none.
func popArg(args []string, label string) string {
	if len(args) > 0 {
		return args[0]
	}
	return prompt(label, "")
}

// prompt asks for label on stdin unless value is already set.
func prompt(label, value string) string {
	if value != "" {
		return value
	}
	fmt.Printf("%s: ", label)
	stdin.Scan()
	return stdin.Text()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
