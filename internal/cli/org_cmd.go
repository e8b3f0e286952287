package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rehabib/plan-report-tourism/internal/dto"
)

func newDepartmentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "department",
		Short: "Manage departments",
	}
	cmd.AddCommand(newDepartmentCreateCmd(app), newDepartmentListCmd(app))
	return cmd
}

func newDepartmentCreateCmd(app *App) *cobra.Command {
	var name, pillar string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a department",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &dto.CreateDepartmentRequest{Name: name}
			if pillar != "" {
				req.Pillar = &pillar
			}
			d, err := app.Departments.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created department %s (%s)\n", d.Name, d.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "department name")
	cmd.Flags().StringVar(&pillar, "pillar", "", "pillar the department reports into")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newDepartmentListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active departments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			depts, err := app.Departments.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(depts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No departments found.")
				return nil
			}
			for _, d := range depts {
				pillar := "-"
				if d.Pillar != nil {
					pillar = *d.Pillar
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-36s  %-30s  %s\n", d.ID, d.Name, pillar)
			}
			return nil
		},
	}
}

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(newUserCreateCmd(app))
	return cmd
}

func newUserCreateCmd(app *App) *cobra.Command {
	var req dto.CreateUserRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.Users.CreateUser(cmd.Context(), &req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s) with role %s\n", u.Username, u.ID, u.Role)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Username, "username", "", "login name")
	f.StringVar(&req.FullName, "full-name", "", "display name")
	f.StringVar(&req.Email, "email", "", "email address")
	f.StringVar(&req.Role, "role", "", "role in the approval hierarchy")
	f.StringVar(&req.Department, "department", "", "department name")
	f.StringVar(&req.Password, "password", "", "initial password")
	for _, name := range []string{"username", "role", "password"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
