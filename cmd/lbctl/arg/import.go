package arg

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/LavaJover/little-brother/internal/infrastructure/rulefile"
)

func (c *cli) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Apply a TOML rule file",
		Long: `Creates missing users and writes every rule set entry onto the rule set
of the same priority. Users and rule sets not named in the file are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := rulefile.Load(args[0])
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}

			return c.withApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				result, err := app.UseCases.RuleImportUsecase.ImportFile(ctx, file)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Imported %s: %d users created, %d rule sets created, %d rule sets updated\n",
					args[0], result.UsersCreated, result.RuleSetsCreated, result.RuleSetsUpdated)
				return nil
			})
		},
	}
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(_ context.Context, app *App, out io.Writer) error {
				if app.Schema == nil {
					return errors.New("migrations are disabled by skip_migrations")
				}
				fmt.Fprintf(out, "Database schema at %s\n", app.Schema)
				return nil
			})
		},
	}
}
