package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rehabib/plan-report-tourism/internal/service"
)

// App holds what the admin commands operate on.
type App struct {
	Departments service.DepartmentService
	Users       service.UserService
	Export      service.ExportService
	// Migrate brings the database schema up to date.
	Migrate func(ctx context.Context) error
}

// NewRootCmd creates the top-level "planctl" command.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "planctl",
		Short:         "Administer the plan and report approval service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMigrateCmd(app),
		newDepartmentCmd(app),
		newUserCmd(app),
		newExportCmd(app),
	)

	return root
}

func newMigrateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}
