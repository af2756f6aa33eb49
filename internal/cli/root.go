package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/catalog_api/internal/app"
)

// Opener builds the application dependencies for a single command run.
type Opener func(ctx context.Context) (*app.App, error)

func NewRootCmd(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Operator tool for the catalog API",
		Long:          `catalogctl migrates the catalog schema and provisions users and categories, which the HTTP API does not expose.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMigrateCmd(open),
		newUserCmd(open),
		newCategoryCmd(open),
		newTokenCmd(open),
		newSearchCmd(open),
	)
	return root
}

func withApp(cmd *cobra.Command, open Opener, fn func(ctx context.Context, a *app.App) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(ctx, a)
}
