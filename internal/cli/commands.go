package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/catalog_api/internal/app"
	"github.com/Skotchmaster/catalog_api/internal/db"
	"github.com/Skotchmaster/catalog_api/internal/hash"
	"github.com/Skotchmaster/catalog_api/internal/models"
	"github.com/Skotchmaster/catalog_api/internal/repo"
)

const minPasswordLen = 6

func newMigrateCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the catalog tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				if err := db.Migrate(ctx, a.DB); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
				return nil
			})
		},
	}
}

func newUserCmd(open Opener) *cobra.Command {
	user := &cobra.Command{Use: "user", Short: "Manage API users"}

	var name, email, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user that can log in to the API",
		Long: `Create a user that can log in to the API.

Examples:
  catalogctl user create --email admin@example.com --password secret1 --name Admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.TrimSpace(email)
			if email == "" {
				return errors.New("--email is required")
			}
			if len(password) < minPasswordLen {
				return fmt.Errorf("--password must be at least %d characters", minPasswordLen)
			}
			pw, err := hash.HashPassword(password)
			if err != nil {
				return err
			}

			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				u := &models.User{Name: name, Email: email, PasswordHash: pw}
				if err := a.Repo.CreateUserIfNotExists(ctx, u); err != nil {
					if errors.Is(err, repo.ErrUserAlreadyExist) {
						return fmt.Errorf("user %s already exists", email)
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created user %d <%s>\n", u.ID, u.Email)
				return nil
			})
		},
	}
	create.Flags().StringVar(&name, "name", "", "Display name")
	create.Flags().StringVar(&email, "email", "", "Login email (required)")
	create.Flags().StringVar(&password, "password", "", "Password, at least 6 characters (required)")

	user.AddCommand(create)
	return user
}

func newCategoryCmd(open Opener) *cobra.Command {
	category := &cobra.Command{Use: "category", Short: "Manage product categories"}

	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a product category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return errors.New("category name is empty")
			}
			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				c := &models.Category{Name: name}
				if err := a.Repo.CreateCategory(ctx, c); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created category %d %q\n", c.ID, c.Name)
				return nil
			})
		},
	}

	category.AddCommand(create)
	return category
}

func newTokenCmd(open Opener) *cobra.Command {
	token := &cobra.Command{Use: "token", Short: "Maintain access tokens"}

	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete expired access tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				n, err := a.Repo.DeleteExpiredTokens(ctx, time.Now().UTC())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pruned %d expired tokens\n", n)
				return nil
			})
		},
	}

	token.AddCommand(prune)
	return token
}

func newSearchCmd(open Opener) *cobra.Command {
	s := &cobra.Command{Use: "search", Short: "Maintain the product search index"}

	reindex := &cobra.Command{
		Use:   "reindex",
		Short: "Push every product to the search index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				n, err := a.Catalog.ReindexAll(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "indexed %d products\n", n)
				return nil
			})
		},
	}

	s.AddCommand(reindex)
	return s
}
