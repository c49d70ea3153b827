package arg

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/LavaJover/little-brother/internal/app/setup"
	"github.com/LavaJover/little-brother/internal/config"
	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/infrastructure/migrate"
)

// App is what a command needs to act on the rule database.
type App struct {
	Config   *config.LittleBrotherConfig
	UseCases *setup.UseCases
	Schema   *migrate.Schema
	close    func() error
}

func (a *App) Close() error {
	if a.close == nil {
		return nil
	}
	return a.close()
}

// Opener builds the App for one command invocation.
type Opener func(ctx context.Context, configPath string) (*App, error)

// OpenDatabase connects to the configured database. Log output goes to
// stderr at warning level so that command output stays readable.
func OpenDatabase(_ context.Context, configPath string) (*App, error) {
	if configPath == "" {
		configPath = os.Getenv("LITTLE_BROTHER_CONFIG_PATH")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := stderrLogger()

	deps, err := setup.InitializeDependencies(cfg, logger)
	if err != nil {
		return nil, err
	}

	uc, err := setup.InitializeUseCases(cfg, deps.Repositories, deps.Metrics, logger)
	if err != nil {
		deps.Close()
		return nil, err
	}

	return &App{Config: cfg, UseCases: uc, Schema: deps.Schema, close: deps.Close}, nil
}

type cli struct {
	open       Opener
	configPath string
	jsonOutput bool
}

// withApp opens the App, runs fn and closes it again.
func (c *cli) withApp(cmd *cobra.Command, fn func(ctx context.Context, app *App, out io.Writer) error) error {
	ctx := domain.WithSessionContext(commandContext(cmd), domain.NewSessionContext())

	app, err := c.open(ctx, c.configPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer app.Close()

	return fn(ctx, app, cmd.OutOrStdout())
}

// NewRootCmd assembles the command tree on top of open.
func NewRootCmd(open Opener) *cobra.Command {
	c := &cli{open: open}

	root := &cobra.Command{
		Use:   "lbctl",
		Short: "lbctl is the command line tool for Little Brother",
		Long: `lbctl administers the users, devices, rule sets and overrides
of a Little Brother master and queries the running master for user status.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "path to the config file")
	root.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "print results as JSON")

	root.AddCommand(
		c.userCmd(),
		c.deviceCmd(),
		c.ruleSetCmd(),
		c.overrideCmd(),
		c.importCmd(),
		c.migrateCmd(),
		c.statusCmd(),
		c.extendCmd(),
		c.pushCmd(),
	)
	return root
}

func Execute() {
	if err := NewRootCmd(OpenDatabase).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
