package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rcup/internal/api"
	rerrors "github.com/felixgeelhaar/rcup/internal/errors"
	"github.com/felixgeelhaar/rcup/internal/token"
	"github.com/felixgeelhaar/rcup/internal/ux"
)

// Prompts are variables so tests can answer them.
var (
	promptPassword = ux.PromptPassword
	promptString   = ux.PromptString
	confirm        = ux.Confirm
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage your session",
	Long: `Manage your session with the Russian Cup platform.

Subcommands:
  register  Create an account and sign in
  login     Sign in with email and password
  logout    Remove the stored credential
  status    Show who is signed in

Examples:
  rcup auth register --full-name "Ivan Petrov" --email ivan@example.com --role sportsman
  rcup auth login --email ivan@example.com
  rcup auth status
  rcup auth logout`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var authFlags struct {
	email    string
	password string
	fullName string
	role     string
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	Long: `Create an account on the platform and sign in with it.

The password is asked for interactively when --password is not given.
Roles: sportsman, sponsor, region.

Examples:
  rcup auth register --full-name "Ivan Petrov" --email ivan@example.com --role sportsman`,
	Args: cobra.NoArgs,
	RunE: runAuthRegister,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	Long: `Sign in with your email and password and show your profile.

Missing email or password are asked for interactively.

Examples:
  rcup auth login --email ivan@example.com`,
	Args: cobra.NoArgs,
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored credential",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is signed in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.render(cmd, sessionView(app.Guard.State(cmd.Context())))
	},
}

func init() {
	authRegisterCmd.Flags().StringVar(&authFlags.fullName, "full-name", "", "first and last name")
	authRegisterCmd.Flags().StringVar(&authFlags.email, "email", "", "email address")
	authRegisterCmd.Flags().StringVar(&authFlags.password, "password", "", "password (prompted when empty)")
	authRegisterCmd.Flags().StringVar(&authFlags.role, "role", string(token.RoleSportsman), "role: sportsman, sponsor, region")
	_ = authRegisterCmd.MarkFlagRequired("full-name")
	_ = authRegisterCmd.MarkFlagRequired("email")

	authLoginCmd.Flags().StringVar(&authFlags.email, "email", "", "email address (prompted when empty)")
	authLoginCmd.Flags().StringVar(&authFlags.password, "password", "", "password (prompted when empty)")

	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthRegister(cmd *cobra.Command, args []string) error {
	role, err := token.ParseRole(authFlags.role)
	if err != nil {
		return err
	}
	password := authFlags.password
	if password == "" {
		if password, err = promptPassword("Password"); err != nil {
			return err
		}
	}

	req := api.RegisterRequest{
		FullName: strings.TrimSpace(authFlags.fullName),
		Email:    strings.TrimSpace(authFlags.email),
		Password: password,
		Role:     role,
	}
	user, err := app.Client.Register(cmd.Context(), req)
	if err != nil {
		return err
	}
	app.Logger.Info("registered", "user_id", user.UserID, "role", role)
	app.notice(cmd, "Registered "+req.Email)

	return showOwnProfile(cmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	var err error
	email := strings.TrimSpace(authFlags.email)
	if email == "" {
		if email, err = promptString("Email", "you@example.com", true); err != nil {
			return err
		}
	}
	password := authFlags.password
	if password == "" {
		if password, err = promptPassword("Password"); err != nil {
			return err
		}
	}

	if _, err := app.Client.Login(cmd.Context(), email, password); err != nil {
		return err
	}
	app.notice(cmd, "Logged in as "+email)

	return showOwnProfile(cmd)
}

// showOwnProfile fetches the signed-in user's profile and renders it.
func showOwnProfile(cmd *cobra.Command) error {
	app.Profile.Reset()
	if _, err := app.Profile.Refresh(cmd.Context()); err != nil {
		return err
	}
	p := app.Profile.Profile()
	if p == nil {
		return rerrors.New(rerrors.ErrCodeProfileNotLoaded, "profile is not loaded")
	}
	return app.render(cmd, profileView(*p))
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if !app.Guard.IsAuthenticated(ctx) {
		return app.render(cmd, actionView{Success: true, Message: "Not logged in."})
	}
	if err := app.Client.Logout(ctx); err != nil {
		return err
	}
	app.Profile.Reset()
	return app.render(cmd, actionView{Success: true, Message: "Logged out."})
}
