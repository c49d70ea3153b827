package arg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/LavaJover/little-brother/internal/domain"
	rulesetdto "github.com/LavaJover/little-brother/internal/usecase/dto/ruleset"
)

func (c *cli) ruleSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ruleset",
		Aliases: []string{"rs"},
		Short:   "Manage the rule sets of a user",
	}
	cmd.AddCommand(
		c.ruleSetListCmd(),
		c.ruleSetUpdateCmd(),
		c.ruleSetDeleteCmd(),
		c.ruleSetMoveCmd("move-up", "Swap with the next higher priority rule set", true),
		c.ruleSetMoveCmd("move-down", "Swap with the next lower priority rule set", false),
	)
	return cmd
}

type ruleSetRow struct {
	ID             string `json:"id"`
	Priority       int    `json:"priority"`
	Context        string `json:"context"`
	ContextDetails string `json:"context_details,omitempty"`
	Label          string `json:"label"`
	MinTimeOfDay   string `json:"min_time_of_day,omitempty"`
	MaxTimeOfDay   string `json:"max_time_of_day,omitempty"`
	MaxTimePerDay  string `json:"max_time_per_day"`
	MaxActivity    string `json:"max_activity_duration"`
	MinBreak       string `json:"min_break"`
	FreePlay       bool   `json:"free_play"`
}

func newRuleSetRow(rs *domain.RuleSet) ruleSetRow {
	return ruleSetRow{
		ID:             rs.ID,
		Priority:       rs.Priority,
		Context:        rs.Context,
		ContextDetails: rs.ContextDetails,
		Label:          rs.Label(),
		MinTimeOfDay:   timeOfDayString(rs.MinTimeOfDay),
		MaxTimeOfDay:   timeOfDayString(rs.MaxTimeOfDay),
		MaxTimePerDay:  durationString(rs.MaxTimePerDay),
		MaxActivity:    durationString(rs.MaxActivityDuration),
		MinBreak:       durationString(rs.MinBreak),
		FreePlay:       rs.FreePlay,
	}
}

func (c *cli) ruleSetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <username>",
		Short: "List the rule sets of a user by ascending priority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				user, err := app.UseCases.UserUsecase.GetUser(ctx, args[0])
				if err != nil {
					return err
				}

				var rows []ruleSetRow
				for _, rs := range user.SortedRuleSets() {
					rows = append(rows, newRuleSetRow(rs))
				}

				if c.jsonOutput {
					return json.NewEncoder(out).Encode(rows)
				}

				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "PRIO\tID\tLABEL\tFROM\tUNTIL\tPER DAY\tACTIVITY\tBREAK\tFREE PLAY")
				for _, r := range rows {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%t\n",
						r.Priority, r.ID, r.Label, r.MinTimeOfDay, r.MaxTimeOfDay, r.MaxTimePerDay, r.MaxActivity, r.MinBreak, r.FreePlay)
				}
				return tw.Flush()
			})
		},
	}
}

func (c *cli) ruleSetUpdateCmd() *cobra.Command {
	var (
		limits                      limitFlags
		contextName, details, label string
	)

	cmd := &cobra.Command{
		Use:   "update <ruleset-id>",
		Short: "Change a rule set",
		Long: `Only flags given on the command line are changed. The priority 1 rule
set always keeps the default context.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				rs, err := app.UseCases.RuleSetUsecase.GetRuleSet(ctx, args[0])
				if err != nil {
					return err
				}

				input := &rulesetdto.UpdateRuleSetInput{
					RuleSetID:           rs.ID,
					Context:             rs.Context,
					ContextDetails:      rs.ContextDetails,
					ContextLabel:        rs.ContextLabel,
					MinTimeOfDay:        timeOfDayString(rs.MinTimeOfDay),
					MaxTimeOfDay:        timeOfDayString(rs.MaxTimeOfDay),
					MaxTimePerDay:       rs.MaxTimePerDay,
					MaxActivityDuration: rs.MaxActivityDuration,
					MinBreak:            rs.MinBreak,
					OptionalTimePerDay:  rs.OptionalTimePerDay,
					FreePlay:            rs.FreePlay,
				}

				flags := cmd.Flags()
				if flags.Changed("context") {
					input.Context = contextName
				}
				if flags.Changed("details") {
					input.ContextDetails = details
				}
				if flags.Changed("label") {
					input.ContextLabel = label
				}
				err = limits.overlay(flags,
					&input.MinTimeOfDay, &input.MaxTimeOfDay,
					&input.MaxTimePerDay, &input.MaxActivityDuration, &input.MinBreak,
					&input.FreePlay)
				if err != nil {
					return err
				}

				updated, err := app.UseCases.RuleSetUsecase.UpdateRuleSet(ctx, input)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Rule set %s (%s) updated\n", updated.ID, updated.Label())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&contextName, "context", "", `context name, "default" or "weekday"`)
	cmd.Flags().StringVar(&details, "details", "", `context details, e.g. "weekend" or "11111--"`)
	cmd.Flags().StringVar(&label, "label", "", "display label")
	limits.register(cmd.Flags())
	return cmd
}

func (c *cli) ruleSetDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <ruleset-id>",
		Short: "Delete a rule set other than the priority 1 rule set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				if err := app.UseCases.RuleSetUsecase.DeleteRuleSet(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(out, "Rule set %s deleted\n", args[0])
				return nil
			})
		},
	}
}

func (c *cli) ruleSetMoveCmd(use, short string, up bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <ruleset-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				move := app.UseCases.RuleSetUsecase.MoveDown
				if up {
					move = app.UseCases.RuleSetUsecase.MoveUp
				}
				if err := move(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(out, "Rule set %s moved\n", args[0])
				return nil
			})
		},
	}
}
