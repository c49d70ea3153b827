package arg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	userdto "github.com/LavaJover/little-brother/internal/usecase/dto/user"
	user2devicedto "github.com/LavaJover/little-brother/internal/usecase/dto/user2device"
)

func (c *cli) userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage monitored users",
	}
	cmd.AddCommand(
		c.userAddCmd(),
		c.userDeleteCmd(),
		c.userListCmd(),
		c.userUpdateCmd(),
		c.userAssignRuleSetCmd(),
	)
	return cmd
}

func (c *cli) userAddCmd() *cobra.Command {
	var input userdto.CreateUserInput

	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Add a user with an unrestricted default rule set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Username = args[0]
			return c.withApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				user, err := app.UseCases.UserUsecase.AddNewUser(ctx, &input)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "User %s added, access code %s\n", user.Username, user.AccessCode)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&input.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&input.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&input.Locale, "locale", "", "locale for notifications, e.g. en or de")
	return cmd
}

func (c *cli) userDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <username>",
		Short: "Delete a user with its rule sets and device assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				if err := app.UseCases.UserUsecase.DeleteUser(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(out, "User %s deleted\n", args[0])
				return nil
			})
		},
	}
}

func (c *cli) userListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				users, err := app.UseCases.UserUsecase.SortedUsers(ctx)
				if err != nil {
					return err
				}

				rows := make([]userdto.User, 0, len(users))
				for _, u := range users {
					rows = append(rows, userdto.NewUser(u))
				}

				if c.jsonOutput {
					return json.NewEncoder(out).Encode(rows)
				}

				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "USERNAME\tNAME\tACTIVE\tRULE SETS\tDEVICES")
				for _, r := range rows {
					fmt.Fprintf(tw, "%s\t%s\t%t\t%d\t%v\n", r.Username, r.FullName, r.Active, r.RuleSetCount, r.Devices)
				}
				return tw.Flush()
			})
		},
	}
}

func (c *cli) userUpdateCmd() *cobra.Command {
	var (
		firstName, lastName, locale, pattern string
		active                               bool
	)

	cmd := &cobra.Command{
		Use:   "update <username>",
		Short: "Change the settings of a user",
		Long:  `Only flags given on the command line are changed.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				user, err := app.UseCases.UserUsecase.GetUser(ctx, args[0])
				if err != nil {
					return err
				}

				input := &userdto.UpdateUserInput{
					Username:           user.Username,
					FirstName:          user.FirstName,
					LastName:           user.LastName,
					Locale:             user.Locale,
					Active:             user.Active,
					ProcessNamePattern: user.ProcessNamePattern,
				}

				flags := cmd.Flags()
				if flags.Changed("first-name") {
					input.FirstName = firstName
				}
				if flags.Changed("last-name") {
					input.LastName = lastName
				}
				if flags.Changed("locale") {
					input.Locale = locale
				}
				if flags.Changed("active") {
					input.Active = active
				}
				if flags.Changed("process-pattern") {
					input.ProcessNamePattern = pattern
				}

				if err := app.UseCases.UserUsecase.UpdateUser(ctx, input); err != nil {
					return err
				}
				fmt.Fprintf(out, "User %s updated\n", user.Username)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&locale, "locale", "", "locale for notifications")
	cmd.Flags().BoolVar(&active, "active", true, "whether rules are enforced for the user")
	cmd.Flags().StringVar(&pattern, "process-pattern", "", "regular expression of monitored process names")
	return cmd
}

func (c *cli) userAssignRuleSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign-ruleset <username>",
		Short: "Add an unrestricted rule set above the existing ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				ruleSet, err := app.UseCases.UserUsecase.AssignRuleSet(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Rule set %s added with priority %d\n", ruleSet.ID, ruleSet.Priority)
				return nil
			})
		},
	}
}

func assignInput(args []string) *user2devicedto.AssignDeviceInput {
	return &user2devicedto.AssignDeviceInput{Username: args[0], DeviceName: args[1]}
}
