package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/cpamm/app"
	"github.com/paw-chain/cpamm/x/amm/types"
)

func execute(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(io.Discard)
	root.SetArgs(append(args, "--home", home))
	err := root.Execute()
	return out.String(), err
}

func mustExecute(t *testing.T, home string, args ...string) string {
	t.Helper()
	out, err := execute(t, home, args...)
	require.NoError(t, err, "ammd %s", strings.Join(args, " "))
	return out
}

func decode[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestCLIFlow(t *testing.T) {
	home := t.TempDir()

	mustExecute(t, home, "init")
	require.FileExists(t, configPath(home))
	require.FileExists(t, genesisPath(home))

	_, err := execute(t, home, "init")
	require.ErrorContains(t, err, "already exists")

	mustExecute(t, home, "keys", "add", "alice", "--no-backup")
	mustExecute(t, home, "keys", "add", "bob", "--no-backup", "--mnemonic-length", "12")
	listed := mustExecute(t, home, "keys", "list")
	require.Contains(t, listed, "alice")
	require.Contains(t, listed, "bob")

	mustExecute(t, home, "faucet", "alice", "atoken", "1500")
	mustExecute(t, home, "faucet", "alice", "btoken", "2000")

	created := decode[types.MsgInitializePoolResponse](t, mustExecute(t, home, "pool", "create", "atoken", "btoken", "lpab", "--from", "bob"))
	bob := strings.TrimSpace(mustExecute(t, home, "keys", "show", "bob"))
	require.Equal(t, bob, created.Pool.Authority)

	added := decode[types.MsgAddLiquidityResponse](t, mustExecute(t, home, "liquidity", "add", "atoken/btoken", "1000", "2000", "--from", "alice"))
	require.Equal(t, uint64(2_000_000), added.SharesIssued)

	quote := decode[types.QuoteSwapResponse](t, mustExecute(t, home, "quote", created.Pool.Address, "atoken", "500"))
	require.Equal(t, uint64(666), quote.AmountOut)

	_, err = execute(t, home, "swap", "atoken/btoken", "atoken", "500", "--from", "alice", "--min-amount-out", "667")
	require.ErrorIs(t, err, types.ErrSlippageExceeded)

	swapped := decode[types.MsgSwapResponse](t, mustExecute(t, home, "swap", "atoken/btoken", "atoken", "500", "--from", "alice", "--min-amount-out", "666"))
	require.Equal(t, uint64(666), swapped.AmountOut)

	balance := decode[map[string]interface{}](t, mustExecute(t, home, "balance", "alice", "btoken"))
	require.EqualValues(t, 666, balance["balance"])

	removed := decode[types.MsgRemoveLiquidityResponse](t, mustExecute(t, home, "liquidity", "remove", "atoken/btoken", "1000000", "--from", "alice"))
	require.Equal(t, uint64(750), removed.AmountA)
	require.Equal(t, uint64(667), removed.AmountB)

	pool := decode[types.Pool](t, mustExecute(t, home, "pool", "show", "atoken/btoken"))
	require.Equal(t, uint64(750), pool.ReserveA)
	require.Equal(t, uint64(667), pool.ReserveB)
	require.Equal(t, uint64(1_000_000), pool.ShareSupply)
	require.Equal(t, uint64(500_250), pool.Invariant)

	pools := decode[types.QueryPoolsResponse](t, mustExecute(t, home, "pool", "list"))
	require.Len(t, pools.Pools, 1)

	// add, swap and remove each consumed one sequence; the rejected swap did not.
	seq := decode[types.QuerySequenceResponse](t, mustExecute(t, home, "sequence", "alice"))
	require.Equal(t, uint64(3), seq.Sequence)
	seq = decode[types.QuerySequenceResponse](t, mustExecute(t, home, "sequence", bob))
	require.Equal(t, uint64(1), seq.Sequence)
}

func TestCLIRequiresInit(t *testing.T) {
	_, err := execute(t, t.TempDir(), "pool", "list")
	require.ErrorContains(t, err, "not initialized")
}

func TestCLIUnsignedCommandRejected(t *testing.T) {
	home := t.TempDir()
	mustExecute(t, home, "init")

	_, err := execute(t, home, "pool", "create", "atoken", "btoken", "lpab")
	require.ErrorContains(t, err, "--from is required")

	_, err = execute(t, home, "pool", "create", "atoken", "btoken", "lpab", "--from", "nobody")
	require.ErrorContains(t, err, "not found")
}

func TestCLIExportImport(t *testing.T) {
	home := t.TempDir()
	mustExecute(t, home, "init")
	mustExecute(t, home, "keys", "add", "alice", "--no-backup")
	mustExecute(t, home, "pool", "create", "atoken", "btoken", "lpab", "--from", "alice")

	exported := mustExecute(t, home, "export")
	genesisFile := filepath.Join(t.TempDir(), "genesis.json")
	require.NoError(t, os.WriteFile(genesisFile, []byte(exported), 0o600))

	other := t.TempDir()
	mustExecute(t, other, "init", "--genesis", genesisFile)
	pool := decode[types.Pool](t, mustExecute(t, other, "pool", "show", "atoken/btoken"))
	require.True(t, pool.Initialized)
	require.True(t, pool.IsEmpty())

	alice := strings.TrimSpace(mustExecute(t, home, "keys", "show", "alice"))
	seq := decode[types.QuerySequenceResponse](t, mustExecute(t, other, "sequence", alice))
	require.Equal(t, uint64(1), seq.Sequence)
}

func TestLoadConfig(t *testing.T) {
	home := t.TempDir()

	cfg := DefaultConfig()
	cfg.LogLevel = "debug"
	cfg.ListenAddr = "127.0.0.1:9999"
	require.NoError(t, writeConfig(home, cfg))

	root := NewRootCmd()
	loaded, err := loadConfig(home, root.PersistentFlags())
	require.NoError(t, err)
	require.Equal(t, "debug", loaded.LogLevel)
	require.Equal(t, "127.0.0.1:9999", loaded.ListenAddr)

	t.Setenv("AMMD_LOG_LEVEL", "error")
	loaded, err = loadConfig(home, root.PersistentFlags())
	require.NoError(t, err)
	require.Equal(t, "error", loaded.LogLevel)

	require.NoError(t, root.PersistentFlags().Set(flagLogLevel, "warn"))
	loaded, err = loadConfig(home, root.PersistentFlags())
	require.NoError(t, err)
	require.Equal(t, "warn", loaded.LogLevel)

	cfg.DBBackend = "rocksdb"
	require.Error(t, writeConfig(home, cfg))
}

func TestNewMnemonic(t *testing.T) {
	for _, words := range []int{12, 24} {
		mnemonic, err := newMnemonic(words)
		require.NoError(t, err)
		require.Len(t, strings.Fields(mnemonic), words)
	}

	_, err := newMnemonic(15)
	require.Error(t, err)
}

func TestServeRouter(t *testing.T) {
	home := t.TempDir()
	mustExecute(t, home, "init")
	mustExecute(t, home, "keys", "add", "alice", "--no-backup")
	mustExecute(t, home, "pool", "create", "atoken", "btoken", "lpab", "--from", "alice")

	db, err := app.OpenDB(home, dbm.GoLevelDBBackend)
	require.NoError(t, err)
	a, err := app.New(log.NewNopLogger(), db)
	require.NoError(t, err)
	defer a.Close()
	router := newRouter(a)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/pairs/atoken/btoken", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"asset_a":"atoken"`)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "go_goroutines")
}
