package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"corpsuite/internal/session/adapter/chat"
	"corpsuite/internal/session/adapter/toolsapi"
	"corpsuite/internal/session/guard"

	"github.com/spf13/cobra"
)

func newToolsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Work with the business tools",
	}
	cmd.AddCommand(newCRMCommand(), newForecastCommand())
	return cmd
}

func newCRMCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crm",
		Short: "Manage CRM leads",
	}

	var lead toolsapi.Lead
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a new lead",
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			if err := requireSession(cmd, app); err != nil {
				return err
			}

			created, err := app.tools.CRM().CreateLead(cmd.Context(), lead)
			if err != nil {
				return fmt.Errorf("failed to create lead: %w", err)
			}
			app.printf("Created lead %s (%s)\n", created.Name, created.ID)
			return nil
		}),
	}
	add.Flags().StringVar(&lead.Name, "name", "", "lead name")
	add.Flags().StringVar(&lead.Email, "email", "", "lead email")
	add.Flags().StringVar(&lead.Company, "company", "", "lead company")
	add.Flags().StringVar(&lead.Phone, "phone", "", "lead phone")
	add.Flags().StringVar(&lead.Notes, "notes", "", "free-form notes")
	add.MarkFlagRequired("name")
	add.MarkFlagRequired("email")

	list := &cobra.Command{
		Use:   "list",
		Short: "List your leads, newest first",
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			if err := requireSession(cmd, app); err != nil {
				return err
			}

			leads, err := app.tools.CRM().Leads(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list leads: %w", err)
			}
			if len(leads) == 0 {
				app.printf("No leads yet.\n")
				return nil
			}
			for _, l := range leads {
				app.printf("%s  %-12s %s <%s>\n", l.ID, l.Status, l.Name, l.Email)
			}
			return nil
		}),
	}

	cmd.AddCommand(add, list)
	return cmd
}

func newForecastCommand() *cobra.Command {
	var productID, period string

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project sales for a product",
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			if err := requireSession(cmd, app); err != nil {
				return err
			}

			forecast, err := app.tools.SalesForecast(cmd.Context(), productID, period)
			if err != nil {
				return fmt.Errorf("failed to fetch forecast: %w", err)
			}

			app.printf("Forecast for %s (%s, confidence %.0f%%)\n",
				forecast.ProductID, forecast.Period, forecast.Confidence*100)
			for _, p := range forecast.Points {
				app.printf("  %-8s %10.2f\n", p.Period, p.Value)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&productID, "product", "", "product identifier")
	cmd.Flags().StringVar(&period, "period", "monthly", "forecast period (monthly, quarterly, yearly)")
	cmd.MarkFlagRequired("product")
	return cmd
}

func newChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat [query]",
		Short: "Ask the support assistant a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			if err := requireSession(cmd, app); err != nil {
				return err
			}

			query := strings.Join(args, " ")
			err := app.chat.Stream(cmd.Context(), app.token(), query, func(chunk chat.Chunk) {
				app.printf("%s", chunk.Text)
			})
			app.printf("\n")
			if err != nil {
				return fmt.Errorf("chat stream failed: %w", err)
			}
			return nil
		}),
	}
}

func newAdminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative operations",
	}

	metrics := &cobra.Command{
		Use:   "metrics",
		Short: "Show backend usage metrics",
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			app.manager.ResolveSession(cmd.Context())
			if app.guard.Evaluate("admin").Decision != guard.DecisionRender {
				return fmt.Errorf("admin role required")
			}

			result := app.tools.Get(cmd.Context(), "/admin/metrics")
			if !result.OK() {
				return fmt.Errorf("failed to fetch metrics: %s", result.Err)
			}

			var pretty map[string]json.RawMessage
			if err := result.Decode(&pretty); err != nil {
				return err
			}
			for key, value := range pretty {
				app.printf("%s: %s\n", key, value)
			}
			return nil
		}),
	}

	cmd.AddCommand(metrics)
	return cmd
}

// requireSession resolves the stored session and fails when the user is
// not authenticated.
func requireSession(cmd *cobra.Command, app *App) error {
	app.manager.ResolveSession(cmd.Context())
	if app.guard.Evaluate("").Decision != guard.DecisionRender {
		return errNotLoggedIn
	}
	return nil
}
