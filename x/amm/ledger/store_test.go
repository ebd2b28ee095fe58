package ledger_test

import (
	"math"
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/paw-chain/cpamm/x/amm/ledger"
)

type StoreLedgerTestSuite struct {
	suite.Suite
	ledger ledger.StoreLedger
	ctx    sdk.Context
	alice  sdk.AccAddress
	bob    sdk.AccAddress
}

func (s *StoreLedgerTestSuite) SetupTest() {
	key := storetypes.NewKVStoreKey(ledger.StoreKey)
	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(key, storetypes.StoreTypeIAVL, db)
	s.Require().NoError(stateStore.LoadLatestVersion())

	s.ledger = ledger.NewStoreLedger(key)
	s.ctx = sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger())
	s.alice = sdk.AccAddress(secp256k1.GenPrivKey().PubKey().Address())
	s.bob = sdk.AccAddress(secp256k1.GenPrivKey().PubKey().Address())
}

func TestStoreLedgerTestSuite(t *testing.T) {
	suite.Run(t, new(StoreLedgerTestSuite))
}

func (s *StoreLedgerTestSuite) TestMintTransferBurn() {
	s.Require().NoError(s.ledger.Mint(s.ctx, "atoken", s.alice, 1000))
	s.Require().Equal(uint64(1000), s.ledger.Balance(s.ctx, "atoken", s.alice))
	s.Require().Equal(uint64(1000), s.ledger.Supply(s.ctx, "atoken"))

	s.Require().NoError(s.ledger.Transfer(s.ctx, "atoken", s.alice, s.bob, 400))
	s.Require().Equal(uint64(600), s.ledger.Balance(s.ctx, "atoken", s.alice))
	s.Require().Equal(uint64(400), s.ledger.Balance(s.ctx, "atoken", s.bob))

	s.Require().NoError(s.ledger.Burn(s.ctx, "atoken", s.bob, 400))
	s.Require().Zero(s.ledger.Balance(s.ctx, "atoken", s.bob))
	s.Require().Equal(uint64(600), s.ledger.Supply(s.ctx, "atoken"))
}

func (s *StoreLedgerTestSuite) TestErrors() {
	s.Require().NoError(s.ledger.Mint(s.ctx, "atoken", s.alice, 100))

	s.Require().ErrorIs(s.ledger.Transfer(s.ctx, "atoken", s.alice, s.bob, 101), ledger.ErrInsufficientFunds)
	s.Require().ErrorIs(s.ledger.Transfer(s.ctx, "atoken", s.alice, s.alice, 1), ledger.ErrSelfTransfer)
	s.Require().ErrorIs(s.ledger.Transfer(s.ctx, "atoken", s.alice, s.bob, 0), ledger.ErrInvalidAmount)
	s.Require().ErrorIs(s.ledger.Transfer(s.ctx, "!", s.alice, s.bob, 1), ledger.ErrInvalidAsset)
	s.Require().ErrorIs(s.ledger.Transfer(s.ctx, "atoken", s.alice, nil, 1), ledger.ErrInvalidAccount)
	s.Require().ErrorIs(s.ledger.Burn(s.ctx, "atoken", s.bob, 1), ledger.ErrInsufficientFunds)
	s.Require().ErrorIs(s.ledger.Mint(s.ctx, "atoken", s.bob, math.MaxUint64), ledger.ErrSupplyOverflow)

	s.Require().Equal(uint64(100), s.ledger.Balance(s.ctx, "atoken", s.alice))
	s.Require().Equal(uint64(100), s.ledger.Supply(s.ctx, "atoken"))
}

func (s *StoreLedgerTestSuite) TestCachedContextRollsBack() {
	s.Require().NoError(s.ledger.Mint(s.ctx, "atoken", s.alice, 100))

	cacheCtx, _ := s.ctx.CacheContext()
	s.Require().NoError(s.ledger.Transfer(cacheCtx, "atoken", s.alice, s.bob, 100))
	s.Require().Equal(uint64(100), s.ledger.Balance(cacheCtx, "atoken", s.bob))

	// Discarded without writing.
	s.Require().Equal(uint64(100), s.ledger.Balance(s.ctx, "atoken", s.alice))
	s.Require().Zero(s.ledger.Balance(s.ctx, "atoken", s.bob))
}

func (s *StoreLedgerTestSuite) TestIterateBalances() {
	s.Require().NoError(s.ledger.Mint(s.ctx, "btoken", s.alice, 2))
	s.Require().NoError(s.ledger.Mint(s.ctx, "atoken", s.alice, 1))
	s.Require().NoError(s.ledger.Mint(s.ctx, "ctoken", s.bob, 3))
	s.Require().NoError(s.ledger.Burn(s.ctx, "btoken", s.alice, 2))

	got := map[string]uint64{}
	s.ledger.IterateBalances(s.ctx, s.alice, func(asset string, amount uint64) bool {
		got[asset] = amount
		return false
	})
	s.Require().Equal(map[string]uint64{"atoken": 1}, got)
}

func TestBalanceKeysDoNotCollide(t *testing.T) {
	short := sdk.AccAddress([]byte{1, 2})
	long := sdk.AccAddress([]byte{1, 2, 'a'})
	require.NotEqual(t, ledger.BalanceKey(short, "atoken"), ledger.BalanceKey(long, "token"))
}
