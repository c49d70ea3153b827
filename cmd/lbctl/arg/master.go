package arg

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LavaJover/little-brother/internal/config"
	"github.com/LavaJover/little-brother/internal/delivery/http/handlers"
)

const defaultMasterURL = "http://localhost:5560"

type masterFlags struct {
	url   string
	token string
}

func (m *masterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&m.url, "master", "", "base URL of the master, defaults to the configured one")
	cmd.Flags().StringVar(&m.token, "token", "", "access token, defaults to the configured one")
}

// connector talks to the running master; status and time extensions depend
// on activity that only the master tracks.
func (c *cli) connector(m masterFlags) (*handlers.MasterConnector, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return c.connectorFor(cfg, m), nil
}

func (c *cli) connectorFor(cfg *config.LittleBrotherConfig, m masterFlags) *handlers.MasterConnector {
	url := firstNonEmpty(m.url, cfg.Master.URL, defaultMasterURL)
	token := firstNonEmpty(m.token, cfg.Master.AccessToken)
	return handlers.NewMasterConnector(url, token, stderrLogger())
}

func (c *cli) loadConfig() (*config.LittleBrotherConfig, error) {
	path := c.configPath
	if path == "" {
		path = os.Getenv("LITTLE_BROTHER_CONFIG_PATH")
	}
	return config.Load(path)
}

func stderrLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (c *cli) statusCmd() *cobra.Command {
	var master masterFlags

	cmd := &cobra.Command{
		Use:   "status <username>",
		Short: "Show the current rule decision for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			connector, err := c.connector(master)
			if err != nil {
				return err
			}

			status, err := connector.RequestStatus(commandContext(cmd), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if c.jsonOutput {
				return json.NewEncoder(out).Encode(status)
			}

			fmt.Fprintf(out, "User: %s (%s)\n", status.Username, status.FullName)
			fmt.Fprintln(out, strings.Repeat("=", len(status.Username)+len(status.FullName)+9))
			if status.ActivityAllowed {
				fmt.Fprintln(out, "Activity: allowed")
			} else {
				fmt.Fprintln(out, "Activity: denied")
			}
			if status.ContextLabel != "" {
				fmt.Fprintf(out, "Rule set: %s\n", status.ContextLabel)
			}
			fmt.Fprintf(out, "Today: %d minutes\n", status.TodaysActivityMinutes)
			if status.MinutesLeftInSession != nil {
				fmt.Fprintf(out, "Left in session: %d minutes\n", *status.MinutesLeftInSession)
			}
			if status.MinutesLeftToday != nil {
				fmt.Fprintf(out, "Left today: %d minutes\n", *status.MinutesLeftToday)
			}
			if status.TimeExtensionActive && status.TimeExtensionEnd != nil {
				fmt.Fprintf(out, "Time extension until %s\n", status.TimeExtensionEnd.Format("15:04"))
			}
			if len(status.ActiveHosts) > 0 {
				fmt.Fprintf(out, "Active on: %s\n", strings.Join(status.ActiveHosts, ", "))
			}
			for _, reason := range status.Reasons {
				fmt.Fprintf(out, "  - %s\n", reason)
			}
			return nil
		},
	}

	master.register(cmd)
	return cmd
}

func (c *cli) extendCmd() *cobra.Command {
	var (
		master masterFlags
		code   string
	)

	cmd := &cobra.Command{
		Use:   "extend <username> <minutes>",
		Short: "Request a time extension for the current session",
		Long: `Extends (or with a negative value shortens) the current session of a
user. The user's access code authorizes the request.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("minutes: %w", err)
			}

			connector, err := c.connector(master)
			if err != nil {
				return err
			}

			status, err := connector.RequestTimeExtension(commandContext(cmd), args[0], code, minutes)
			if err != nil {
				return err
			}

			switch status {
			case http.StatusOK:
				fmt.Fprintf(cmd.OutOrStdout(), "Session of %s extended by %d minutes\n", args[0], minutes)
				return nil
			case http.StatusUnauthorized:
				return fmt.Errorf("invalid access code for %s", args[0])
			case http.StatusNotFound:
				return fmt.Errorf("unknown user %s", args[0])
			case http.StatusRequestedRangeNotSatisfiable:
				return fmt.Errorf("%d minutes is not an offered extension for %s", minutes, args[0])
			}
			return fmt.Errorf("master answered %d", status)
		},
	}

	master.register(cmd)
	cmd.Flags().StringVar(&code, "code", "", "access code of the user")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
