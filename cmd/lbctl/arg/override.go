package arg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/LavaJover/little-brother/internal/domain"
	overridedto "github.com/LavaJover/little-brother/internal/usecase/dto/override"
)

const dateLayout = "2006-01-02"

func (c *cli) overrideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "override",
		Short: "Manage one-day rule overrides",
		Long: `An override replaces single restrictions of the active rule set for one
day. The running master picks up changes with its next override reload.`,
	}
	cmd.AddCommand(c.overrideSetCmd(), c.overrideShowCmd())
	return cmd
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return domain.DateOf(time.Now()), nil
	}
	return time.ParseInLocation(dateLayout, s, time.Local)
}

func (c *cli) overrideSetCmd() *cobra.Command {
	var (
		limits limitFlags
		date   string
	)

	cmd := &cobra.Command{
		Use:   "set <username>",
		Short: "Store the override of a user for a day",
		Long:  `The override replaces any earlier override of the same day.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDate(date)
			if err != nil {
				return fmt.Errorf("--date: %w", err)
			}

			input := &overridedto.UpdateOverrideInput{Username: args[0], ReferenceDate: day}
			err = limits.overlay(cmd.Flags(),
				&input.MinTimeOfDay, &input.MaxTimeOfDay,
				&input.MaxTimePerDay, &input.MaxActivityDuration, &input.MinBreak,
				&input.FreePlay)
			if err != nil {
				return err
			}

			return c.withApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				if _, err := app.UseCases.UserUsecase.GetUser(ctx, args[0]); err != nil {
					return err
				}
				override, err := app.UseCases.RuleOverrideUsecase.UpdateRuleOverride(ctx, input)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Override %s stored\n", override.Key())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day of the override as YYYY-MM-DD, defaults to today")
	limits.register(cmd.Flags())
	return cmd
}

func (c *cli) overrideShowCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "show <username>",
		Short: "Show the override of a user for a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDate(date)
			if err != nil {
				return fmt.Errorf("--date: %w", err)
			}

			return c.withApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				override, err := app.UseCases.RuleOverrideUsecase.GetByUsernameAndDate(ctx, args[0], day)
				if err != nil {
					return err
				}
				if override == nil {
					fmt.Fprintf(out, "No override for %s on %s\n", args[0], day.Format(dateLayout))
					return nil
				}

				if c.jsonOutput {
					return json.NewEncoder(out).Encode(override)
				}

				fmt.Fprintf(out, "Override %s\n", override.Key())
				fmt.Fprintf(out, "  From:         %s\n", timeOfDayString(override.MinTimeOfDay))
				fmt.Fprintf(out, "  Until:        %s\n", timeOfDayString(override.MaxTimeOfDay))
				fmt.Fprintf(out, "  Per day:      %s\n", durationString(override.MaxTimePerDay))
				fmt.Fprintf(out, "  Max activity: %s\n", durationString(override.MaxActivityDuration))
				fmt.Fprintf(out, "  Min break:    %s\n", durationString(override.MinBreak))
				fmt.Fprintf(out, "  Free play:    %t\n", override.FreePlay)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day as YYYY-MM-DD, defaults to today")
	return cmd
}
