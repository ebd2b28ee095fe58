package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	dbm "github.com/cosmos/cosmos-db"
	"github.com/spf13/cobra"

	"github.com/paw-chain/cpamm/app"
)

const (
	flagOverwrite = "overwrite"
	flagGenesis   = "genesis"
)

// InitCmd returns a command that initializes the node home: config.toml,
// genesis.json and the genesis state in the database.
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the node configuration, genesis and database",
		Long: `Initialize writes config.toml and genesis.json under <home>/config and loads
the genesis state into the database. Pass --genesis to import a file produced
by 'ammd export'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			nc, err := getNodeContext(cmd)
			if err != nil {
				return err
			}

			overwrite, _ := cmd.Flags().GetBool(flagOverwrite)
			if _, err := os.Stat(genesisPath(nc.Home)); err == nil && !overwrite {
				return fmt.Errorf("genesis.json already exists at %s; use --overwrite to replace it", genesisPath(nc.Home))
			}

			genesis, err := readGenesis(cmd)
			if err != nil {
				return err
			}

			if err := writeConfig(nc.Home, nc.Config); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			if err := os.WriteFile(genesisPath(nc.Home), genesis, 0o600); err != nil {
				return fmt.Errorf("failed to write genesis: %w", err)
			}

			db, err := app.OpenDB(nc.Home, dbm.BackendType(nc.Config.DBBackend))
			if err != nil {
				return err
			}
			a, err := app.New(nc.Logger, db)
			if err != nil {
				_ = db.Close()
				return err
			}
			defer a.Close()

			if a.LastBlockHeight() != 0 {
				return fmt.Errorf("database under %s already holds state at height %d", nc.Home, a.LastBlockHeight())
			}
			if err := a.InitChainer(a.NewContext(), genesis); err != nil {
				return fmt.Errorf("failed to load genesis: %w", err)
			}
			height := a.Commit()

			nc.Logger.Info("initialized node", "home", nc.Home, "height", height)
			fmt.Fprintf(cmd.OutOrStdout(), "initialized %s at height %d\n", nc.Home, height)
			return nil
		},
	}

	cmd.Flags().Bool(flagOverwrite, false, "overwrite an existing genesis.json")
	cmd.Flags().String(flagGenesis, "", "genesis file to import instead of the default genesis")

	return cmd
}

func readGenesis(cmd *cobra.Command) ([]byte, error) {
	path, _ := cmd.Flags().GetString(flagGenesis)
	if path == "" {
		return json.MarshalIndent(app.NewDefaultGenesisState(), "", "  ")
	}

	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read genesis: %w", err)
	}
	var gs app.GenesisState
	if err := json.Unmarshal(bz, &gs); err != nil {
		return nil, fmt.Errorf("failed to parse genesis: %w", err)
	}
	return bz, nil
}
