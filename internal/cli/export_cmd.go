package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export plans and reports to Excel",
	}
	cmd.AddCommand(
		newExportDocCmd(app, "plan", app.Export.ExportPlan),
		newExportDocCmd(app, "report", app.Export.ExportReport),
	)
	return cmd
}

type exportFunc func(ctx context.Context, actorID, id string) (*bytes.Buffer, string, error)

// newExportDocCmd exports one document as seen by the --as user, so the
// usual visibility rules apply.
func newExportDocCmd(app *App, kind string, export exportFunc) *cobra.Command {
	var out, as string
	cmd := &cobra.Command{
		Use:   kind + " ID",
		Short: "Export a " + kind,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.Users.GetByUsername(cmd.Context(), as)
			if err != nil {
				return err
			}
			buf, filename, err := export(cmd.Context(), actor.ID, args[0])
			if err != nil {
				return err
			}
			if out == "" {
				out = filename
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output file (defaults to the generated name)")
	cmd.Flags().StringVar(&as, "as", "", "username whose view is exported")
	_ = cmd.MarkFlagRequired("as")
	return cmd
}
