package cli

import (
	"errors"
	"fmt"

	"corpsuite/internal/session/domain/model"
	"corpsuite/internal/session/guard"

	"github.com/spf13/cobra"
)

var errNotLoggedIn = errors.New("not logged in; run 'corpctl login' first")

func newLoginCommand() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			if !app.manager.Login(cmd.Context(), email, password) {
				return fmt.Errorf("login failed")
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCommand() *cobra.Command {
	var email, password, confirm, plan string
	var details model.UserDetails

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validate the confirmation locally before touching the backend.
			if confirm != "" && confirm != password {
				return fmt.Errorf("passwords do not match")
			}

			return withApp(func(cmd *cobra.Command, args []string, app *App) error {
				if !app.manager.Register(cmd.Context(), email, password, plan, &details) {
					return fmt.Errorf("registration failed")
				}
				return nil
			})(cmd, args)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&confirm, "confirm-password", "", "repeat the password")
	cmd.Flags().StringVar(&plan, "plan", "basic", "subscription plan (basic, professional, enterprise)")
	cmd.Flags().StringVar(&details.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&details.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&details.CompanyName, "company", "", "company name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and discard the stored session",
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			app.manager.Logout(cmd.Context())
			return nil
		}),
	}
}

func newWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the currently logged in user",
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			app.manager.ResolveSession(cmd.Context())

			outcome := app.guard.Evaluate("")
			if outcome.Decision != guard.DecisionRender {
				return errNotLoggedIn
			}

			user := app.manager.State().User
			app.printf("ID:      %s\n", user.ID)
			app.printf("Email:   %s\n", user.Email)
			app.printf("Role:    %s\n", user.Role)
			if user.FirstName != "" || user.LastName != "" {
				app.printf("Name:    %s %s\n", user.FirstName, user.LastName)
			}
			if user.CompanyName != "" {
				app.printf("Company: %s\n", user.CompanyName)
			}
			if user.SubscriptionPlan != "" {
				app.printf("Plan:    %s\n", user.SubscriptionPlan)
			}
			return nil
		}),
	}
}

func newVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check whether the stored session token is still valid",
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			if !app.manager.VerifyToken(cmd.Context()) {
				return fmt.Errorf("session token is missing or no longer valid")
			}
			app.printf("Token is valid.\n")
			return nil
		}),
	}
}

func newProfileCommand() *cobra.Command {
	var patch model.ProfilePatch

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update profile fields; omitted flags are left unchanged",
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			app.manager.ResolveSession(cmd.Context())
			if app.guard.Evaluate("").Decision != guard.DecisionRender {
				return errNotLoggedIn
			}

			if !app.manager.UpdateProfile(cmd.Context(), patch) {
				return fmt.Errorf("profile update failed")
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&patch.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&patch.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&patch.CompanyName, "company", "", "company name")
	cmd.Flags().StringVar(&patch.ProfilePictureURL, "picture-url", "", "profile picture URL")
	return cmd
}
