package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"tokenwatcher/internal/auth"
)

var (
	loginEmail    string
	loginPassword string
	deleteConfirm bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session for later commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}

		email, password, err := credentials()
		if err != nil {
			return err
		}

		logger.Debug("logging in", zap.String("email", email))
		if err := e.manager.Login(cmd.Context(), email, password); err != nil {
			return err
		}

		snap := e.manager.Snapshot()
		fmt.Printf("Signed in as %s (%s plan, %d/%d watchers)\n",
			snap.User.Email, snap.User.PlanName, snap.User.WatcherCount, snap.User.WatcherLimit)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		e.manager.Logout()
		fmt.Println("Signed out.")
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}

		email, password, err := credentials()
		if err != nil {
			return err
		}
		if len(password) < 8 {
			return fmt.Errorf("password must be at least 8 characters")
		}

		if err := e.manager.Register(cmd.Context(), email, password); err != nil {
			return err
		}
		fmt.Printf("Account created for %s. Run `tokenwatcher login` to sign in.\n", email)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user and plan usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}

		e.manager.Bootstrap(cmd.Context())
		snap := e.manager.Snapshot()
		if !snap.IsAuthenticated() {
			return fmt.Errorf("not signed in; run `tokenwatcher login`")
		}

		u := snap.User
		fmt.Printf("Email:    %s\n", u.Email)
		fmt.Printf("Plan:     %s\n", u.PlanName)
		fmt.Printf("Watchers: %d/%d\n", u.WatcherCount, u.WatcherLimit)
		if u.IsAdmin {
			fmt.Println("Role:     admin")
		}
		if exp, ok := auth.TokenExpiry(snap.Token); ok {
			fmt.Printf("Session:  valid until %s\n", exp.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var deleteAccountCmd = &cobra.Command{
	Use:   "delete-account",
	Short: "Permanently delete the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !deleteConfirm {
			return fmt.Errorf("refusing to delete without --yes; this cannot be undone")
		}

		e, err := newEnv()
		if err != nil {
			return err
		}

		e.manager.Bootstrap(cmd.Context())
		if !e.manager.Snapshot().IsAuthenticated() {
			return fmt.Errorf("not signed in")
		}

		if err := e.manager.DeleteAccount(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Account deleted.")
		return nil
	},
}

// credentials resolves the email/password pair from flags, prompting for
// anything missing. The password prompt never echoes.
func credentials() (string, string, error) {
	email := strings.TrimSpace(loginEmail)
	if email == "" {
		fmt.Print("Email: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return "", "", err
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return "", "", fmt.Errorf("email is required")
	}

	password := loginPassword
	if password == "" {
		fmt.Print("Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", "", err
		}
		password = string(raw)
	}
	if password == "" {
		return "", "", fmt.Errorf("password is required")
	}
	return email, password, nil
}

func init() {
	for _, cmd := range []*cobra.Command{loginCmd, registerCmd} {
		cmd.Flags().StringVar(&loginEmail, "email", "", "account email")
		cmd.Flags().StringVar(&loginPassword, "password", "", "account password (prompted when omitted)")
	}
	deleteAccountCmd.Flags().BoolVar(&deleteConfirm, "yes", false, "confirm permanent deletion")
}
