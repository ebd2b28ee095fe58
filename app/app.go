package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/cpamm/x/amm"
	ammkeeper "github.com/paw-chain/cpamm/x/amm/keeper"
	"github.com/paw-chain/cpamm/x/amm/ledger"
	ammtypes "github.com/paw-chain/cpamm/x/amm/types"
)

const (
	Name    = "ammd"
	ChainID = "cpamm-local"
)

// DefaultNodeHome is the default home directory for the application daemon.
var DefaultNodeHome string

func init() {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}

	DefaultNodeHome = filepath.Join(userHomeDir, ".ammd")
}

// App owns the committed state of a local AMM node: the amm and ledger
// stores, the store-backed ledger and the amm keeper on top of it.
type App struct {
	logger log.Logger
	db     dbm.DB
	cms    storetypes.CommitMultiStore

	keys map[string]*storetypes.KVStoreKey

	Ledger    ledger.StoreLedger
	AMMKeeper ammkeeper.Keeper

	ammModule amm.AppModule

	// commitMu serializes Commit against itself; keeper operations take
	// their own locks.
	commitMu sync.Mutex
}

// New mounts the application stores on db and loads the latest committed
// version.
func New(logger log.Logger, db dbm.DB) (*App, error) {
	keys := storetypes.NewKVStoreKeys(ammtypes.StoreKey, ledger.StoreKey)

	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("failed to load latest version: %w", err)
	}

	app := &App{
		logger: logger,
		db:     db,
		cms:    cms,
		keys:   keys,
	}

	app.Ledger = ledger.NewStoreLedger(keys[ledger.StoreKey])
	app.AMMKeeper = ammkeeper.NewKeeper(
		ammtypes.ModuleCdc,
		keys[ammtypes.StoreKey],
		app.Ledger,
		nil,
	)
	app.ammModule = amm.NewAppModule(app.AMMKeeper)

	logger.Debug("loaded application state", "height", app.LastBlockHeight())
	return app, nil
}

// OpenDB opens the application database under home/data.
func OpenDB(home string, backend dbm.BackendType) (dbm.DB, error) {
	dataDir := filepath.Join(home, "data")
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return dbm.NewDB("application", backend, dataDir)
}

// LastBlockHeight returns the version of the last commit.
func (app *App) LastBlockHeight() int64 {
	return app.cms.LastCommitID().Version
}

// Logger returns the application logger.
func (app *App) Logger() log.Logger {
	return app.logger
}

// NewContext returns a context over the uncommitted working state.
func (app *App) NewContext() sdk.Context {
	header := cmtproto.Header{
		ChainID: ChainID,
		Height:  app.LastBlockHeight() + 1,
		Time:    time.Now().UTC(),
	}
	return sdk.NewContext(app.cms, header, false, app.logger)
}

// Commit persists the working state and returns the new height.
func (app *App) Commit() int64 {
	app.commitMu.Lock()
	defer app.commitMu.Unlock()

	id := app.cms.Commit()
	app.logger.Debug("committed state", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return id.Version
}

// MsgServer returns the amm message server.
func (app *App) MsgServer() ammtypes.MsgServer {
	return ammkeeper.NewMsgServerImpl(app.AMMKeeper)
}

// QueryServer returns the amm query server.
func (app *App) QueryServer() ammtypes.QueryServer {
	return ammkeeper.NewQueryServerImpl(app.AMMKeeper)
}

// Faucet mints amount of asset into owner's custody account for asset and
// returns that account.
func (app *App) Faucet(ctx sdk.Context, owner sdk.AccAddress, asset string, amount uint64) (sdk.AccAddress, error) {
	custody := ammtypes.DeriveCustodyAddress(owner, asset)
	if err := app.Ledger.Mint(ctx, asset, custody, amount); err != nil {
		return nil, err
	}
	return custody, nil
}

// InitChainer loads the application genesis state into the stores.
func (app *App) InitChainer(ctx sdk.Context, appStateBytes []byte) error {
	var genesisState GenesisState
	if err := json.Unmarshal(appStateBytes, &genesisState); err != nil {
		return err
	}

	ammGenesis, ok := genesisState[ammtypes.ModuleName]
	if !ok {
		ammGenesis = app.ammModule.DefaultGenesis(nil)
	}
	if err := app.ammModule.ValidateGenesis(nil, nil, ammGenesis); err != nil {
		return err
	}

	var gs ammtypes.GenesisState
	if err := ammtypes.ModuleCdc.UnmarshalJSON(ammGenesis, &gs); err != nil {
		return err
	}
	return app.AMMKeeper.InitGenesis(ctx, gs)
}

// ExportAppState exports the state of the application as genesis JSON.
func (app *App) ExportAppState(ctx sdk.Context) (json.RawMessage, error) {
	gs, err := app.AMMKeeper.ExportGenesis(ctx)
	if err != nil {
		return nil, err
	}

	genesisState := GenesisState{
		ammtypes.ModuleName: ammtypes.ModuleCdc.MustMarshalJSON(gs),
	}
	return json.MarshalIndent(genesisState, "", "  ")
}

// CheckInvariants runs every registered invariant and returns the first
// broken one as an error.
func (app *App) CheckInvariants(ctx sdk.Context) error {
	reg := &invariantRegistry{}
	app.ammModule.RegisterInvariants(reg)

	for _, route := range reg.routes {
		if msg, broken := route.invar(ctx); broken {
			return fmt.Errorf("invariant %s/%s broken: %s", route.module, route.name, msg)
		}
	}
	return nil
}

// Close releases the database.
func (app *App) Close() error {
	return app.db.Close()
}

type invariantRoute struct {
	module, name string
	invar        sdk.Invariant
}

type invariantRegistry struct {
	routes []invariantRoute
}

var _ sdk.InvariantRegistry = (*invariantRegistry)(nil)

func (r *invariantRegistry) RegisterRoute(moduleName, route string, invar sdk.Invariant) {
	r.routes = append(r.routes, invariantRoute{module: moduleName, name: route, invar: invar})
}
