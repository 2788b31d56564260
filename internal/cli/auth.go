package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/kallinyester/jato/internal/config"
	"github.com/kallinyester/jato/internal/logger"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Manage the session with the Jato backend.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to the backend",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE:  runLogout,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account and log in",
	RunE:  runRegister,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in account",
	RunE:  runWhoami,
}

var loginEmail string

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email (prompted if empty)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	rt := newRuntime()
	p := newPrompter(cmd)
	out := cmd.OutOrStdout()

	email := loginEmail
	if email == "" {
		var err error
		if email, err = p.line("Email: "); err != nil {
			return err
		}
	}
	password, err := p.secret("Password: ")
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "🔄 Logging in...")
	return login(cmd, rt, email, password)
}

// login exchanges credentials for a token and stores the session
func login(cmd *cobra.Command, rt *runtime, email, password string) error {
	s, err := rt.client.Login(cmd.Context(), email, password)
	if err != nil {
		return err
	}

	session := &config.Session{
		APIURL:    rt.client.BaseURL(),
		Email:     email,
		Token:     s.AccessToken,
		TokenType: s.TokenType,
		LoggedIn:  time.Now(),
	}
	if err := session.Save(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	logger.Info("Logged in", logger.F("email", email))
	fmt.Fprintln(cmd.OutOrStdout(), "✅ Logged in successfully!")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if _, err := config.LoadSession(); errors.Is(err, config.ErrNotLoggedIn) {
		fmt.Fprintln(out, "Not logged in.")
		return nil
	}

	if err := config.ClearSession(); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	logger.Info("Logged out")
	fmt.Fprintln(out, "✅ Logged out successfully.")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	rt := newRuntime()
	p := newPrompter(cmd)
	out := cmd.OutOrStdout()

	name, err := p.line("Name: ")
	if err != nil {
		return err
	}
	email, err := p.line("Email: ")
	if err != nil {
		return err
	}
	password, err := p.secret("Password: ")
	if err != nil {
		return err
	}
	confirm, err := p.secret("Confirm Password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	fmt.Fprintln(out, "🔄 Creating account...")
	account, err := rt.client.Register(cmd.Context(), name, email, password)
	if err != nil {
		return err
	}
	logger.Info("Account created", logger.F("id", account.ID), logger.F("email", account.Email))
	fmt.Fprintf(out, "✅ Account created for %s\n", account.Name)

	return login(cmd, rt, email, password)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	rt := newRuntime()
	s, err := rt.session()
	if err != nil {
		return err
	}

	account, err := rt.client.Me(cmd.Context(), s.Token)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s <%s>\n", account.Name, account.Email)
	fmt.Fprintf(out, "Role:    %s\n", account.Role)
	fmt.Fprintf(out, "Backend: %s\n", rt.client.BaseURL())
	fmt.Fprintf(out, "Since:   %s\n", s.LoggedIn.Format("2006-01-02 15:04"))
	return nil
}
