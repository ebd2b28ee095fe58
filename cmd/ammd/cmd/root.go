package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/paw-chain/cpamm/app"
)

const (
	flagHome           = "home"
	flagLogLevel       = "log-level"
	flagLogFormat      = "log-format"
	flagDBBackend      = "db-backend"
	flagListenAddr     = "listen-addr"
	flagKeyringBackend = "keyring-backend"
	flagFrom           = "from"
)

type nodeContextKey struct{}

// nodeContext is what every subcommand needs: the resolved home directory,
// its configuration and a logger built from it.
type nodeContext struct {
	Home      string
	Config    Config
	Logger    log.Logger
	Telemetry *app.Telemetry
	Commands  *app.CommandTelemetry
}

// NewRootCmd creates the root command for ammd.
func NewRootCmd() *cobra.Command {
	app.SetConfig()

	rootCmd := &cobra.Command{
		Use:   "ammd",
		Short: "Constant-product AMM node",
		Long: `ammd runs a local constant-product automated market maker.

Pools trade two assets against each other, keeping reserveA * reserveB
non-decreasing across swaps and deposits. State is committed to a local
database under --home after every command.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// set the default command outputs
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			home, err := cmd.Flags().GetString(flagHome)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(home, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}
			tel, err := app.InitTelemetry(cfg.TelemetryConfig())
			if err != nil {
				return fmt.Errorf("failed to initialize telemetry: %w", err)
			}
			commands, err := app.DefaultCommandTelemetry()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, nodeContextKey{}, &nodeContext{
				Home:      home,
				Config:    cfg,
				Logger:    logger,
				Telemetry: tel,
				Commands:  commands,
			}))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			nc, err := getNodeContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return nc.Telemetry.Shutdown(ctx)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.String(flagHome, app.DefaultNodeHome, "directory for config and data")
	pf.String(flagLogLevel, "", "log level (trace|debug|info|warn|error)")
	pf.String(flagLogFormat, "", "log format (plain|json)")
	pf.String(flagDBBackend, "", "database backend (goleveldb|memdb)")
	pf.String(flagKeyringBackend, "", "keyring backend (os|file|test|memory)")

	rootCmd.AddCommand(
		InitCmd(),
		KeysCmd(),
		FaucetCmd(),
		PoolCmd(),
		LiquidityCmd(),
		SwapCmd(),
		QuoteCmd(),
		BalanceCmd(),
		SequenceCmd(),
		ExportCmd(),
		ServeCmd(),
	)

	return rootCmd
}

// newLogger builds the node logger at the configured level and format.
func newLogger(w io.Writer, cfg Config) (log.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("invalid log_level %q: %w", cfg.LogLevel, err)
	}

	opts := []log.Option{log.LevelOption(level)}
	if cfg.LogFormat == "json" {
		opts = append(opts, log.OutputJSONOption())
	} else {
		opts = append(opts, log.ColorOption(false))
	}
	return log.NewLogger(w, opts...).With("module", "ammd"), nil
}

func getNodeContext(cmd *cobra.Command) (*nodeContext, error) {
	if ctx := cmd.Context(); ctx != nil {
		if nc, ok := ctx.Value(nodeContextKey{}).(*nodeContext); ok {
			return nc, nil
		}
	}
	return nil, fmt.Errorf("node context not initialized")
}

// openApp opens the node database. It fails unless `ammd init` has run.
func openApp(cmd *cobra.Command) (*app.App, *nodeContext, error) {
	nc, err := getNodeContext(cmd)
	if err != nil {
		return nil, nil, err
	}

	db, err := app.OpenDB(nc.Home, dbm.BackendType(nc.Config.DBBackend))
	if err != nil {
		return nil, nil, err
	}
	a, err := app.New(nc.Logger, db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	if a.LastBlockHeight() == 0 {
		_ = a.Close()
		return nil, nil, fmt.Errorf("node at %s is not initialized; run `ammd init` first", nc.Home)
	}
	return a, nc, nil
}
