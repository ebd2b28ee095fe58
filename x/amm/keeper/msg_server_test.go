package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	keepertest "github.com/paw-chain/cpamm/testutil/keeper"
	"github.com/paw-chain/cpamm/x/amm/keeper"
	"github.com/paw-chain/cpamm/x/amm/types"
)

type MsgServerTestSuite struct {
	suite.Suite
	f         keepertest.AMMFixture
	msgServer types.MsgServer
	authority keepertest.Account
	user      keepertest.Account
}

func (s *MsgServerTestSuite) SetupTest() {
	s.f = keepertest.AMMKeeper(s.T())
	s.msgServer = keeper.NewMsgServerImpl(s.f.Keeper)
	s.authority = keepertest.NewAccount()
	s.user = keepertest.NewAccount()
}

func TestMsgServerTestSuite(t *testing.T) {
	suite.Run(t, new(MsgServerTestSuite))
}

func (s *MsgServerTestSuite) initPool() types.Pool {
	msg := types.NewMsgInitializePool(s.authority.Address, "atoken", "btoken", "lpab")
	msg.Signature = s.authority.Sign(s.T(), msg)

	resp, err := s.msgServer.InitializePool(s.f.Ctx, msg)
	s.Require().NoError(err)
	return resp.Pool
}

func (s *MsgServerTestSuite) TestFullFlow() {
	pool := s.initPool()
	s.Require().Equal(s.authority.Address.String(), pool.Authority)

	s.f.Fund(s.T(), s.user.Address, "atoken", 1500)
	s.f.Fund(s.T(), s.user.Address, "btoken", 2000)

	add := types.NewMsgAddLiquidity(s.user.Address, pool, 1000, 2000)
	add.Signature = s.user.Sign(s.T(), add)
	addResp, err := s.msgServer.AddLiquidity(s.f.Ctx, add)
	s.Require().NoError(err)
	s.Require().Equal(uint64(2_000_000), addResp.SharesIssued)

	swap := types.NewMsgSwap(s.user.Address, pool, "atoken", 500, 600)
	swap.Sequence = 1
	swap.Signature = s.user.Sign(s.T(), swap)
	swapResp, err := s.msgServer.Swap(s.f.Ctx, swap)
	s.Require().NoError(err)
	s.Require().Equal(uint64(666), swapResp.AmountOut)

	remove := types.NewMsgRemoveLiquidity(s.user.Address, pool, 1_000_000)
	remove.Sequence = 2
	remove.Signature = s.user.Sign(s.T(), remove)
	removeResp, err := s.msgServer.RemoveLiquidity(s.f.Ctx, remove)
	s.Require().NoError(err)
	s.Require().Equal(uint64(750), removeResp.AmountA)
	s.Require().Equal(uint64(667), removeResp.AmountB)

	stored, err := s.f.Keeper.GetPool(s.f.Ctx, pool.PoolAddress())
	s.Require().NoError(err)
	s.Require().Equal(uint64(750), stored.ReserveA)
	s.Require().Equal(uint64(667), stored.ReserveB)
	s.Require().Equal(uint64(1_000_000), stored.ShareSupply)
	s.Require().NoError(stored.Validate())
	s.Require().Equal(uint64(3), s.f.Keeper.GetSequence(s.f.Ctx, s.user.Address))
	s.Require().Equal(uint64(1), s.f.Keeper.GetSequence(s.f.Ctx, s.authority.Address))
}

func (s *MsgServerTestSuite) TestReplayRejected() {
	pool := s.initPool()
	s.f.Fund(s.T(), s.user.Address, "atoken", 3000)
	s.f.Fund(s.T(), s.user.Address, "btoken", 6000)

	add := types.NewMsgAddLiquidity(s.user.Address, pool, 1000, 2000)
	add.Signature = s.user.Sign(s.T(), add)
	_, err := s.msgServer.AddLiquidity(s.f.Ctx, add)
	s.Require().NoError(err)

	// The same signed message submitted again.
	for i := 0; i < 2; i++ {
		_, err = s.msgServer.AddLiquidity(s.f.Ctx, add)
		s.Require().ErrorIs(err, types.ErrUnauthorized)
	}

	// Bumping the sequence without re-signing breaks the signature.
	add.Sequence = 1
	_, err = s.msgServer.AddLiquidity(s.f.Ctx, add)
	s.Require().ErrorIs(err, types.ErrUnauthorized)

	stored, err := s.f.Keeper.GetPool(s.f.Ctx, pool.PoolAddress())
	s.Require().NoError(err)
	s.Require().Equal(uint64(1000), stored.ReserveA)
	s.Require().Equal(uint64(2000), stored.ReserveB)
	s.Require().Equal(uint64(2_000_000), stored.ShareSupply)
	s.Require().Equal(uint64(2000), s.f.CustodyBalance(s.user.Address, "atoken"))
	s.Require().Equal(uint64(1), s.f.Keeper.GetSequence(s.f.Ctx, s.user.Address))

	// A pool initialization cannot be replayed either.
	init := types.NewMsgInitializePool(s.authority.Address, "btoken", "ctoken", "lpbc")
	init.Sequence = 1
	init.Signature = s.authority.Sign(s.T(), init)
	_, err = s.msgServer.InitializePool(s.f.Ctx, init)
	s.Require().NoError(err)
	_, err = s.msgServer.InitializePool(s.f.Ctx, init)
	s.Require().ErrorIs(err, types.ErrUnauthorized)
}

func (s *MsgServerTestSuite) TestSequenceOutOfOrder() {
	pool := s.initPool()
	s.f.Deposit(s.T(), pool, keepertest.NewAccount().Address, 1000, 2000)
	s.f.Fund(s.T(), s.user.Address, "atoken", 1000)

	future := types.NewMsgSwap(s.user.Address, pool, "atoken", 100, 0)
	future.Sequence = 5
	future.Signature = s.user.Sign(s.T(), future)
	_, err := s.msgServer.Swap(s.f.Ctx, future)
	s.Require().ErrorIs(err, types.ErrUnauthorized)
	s.Require().Equal(uint64(0), s.f.Keeper.GetSequence(s.f.Ctx, s.user.Address))
	s.Require().Equal(uint64(1000), s.f.CustodyBalance(s.user.Address, "atoken"))
}

func (s *MsgServerTestSuite) TestFailedOperationKeepsSequence() {
	pool := s.initPool()
	s.f.Deposit(s.T(), pool, keepertest.NewAccount().Address, 1000, 2000)
	s.f.Fund(s.T(), s.user.Address, "atoken", 500)

	// Slippage bound cannot be met, so nothing runs and the sequence stays.
	tooGreedy := types.NewMsgSwap(s.user.Address, pool, "atoken", 500, 667)
	tooGreedy.Signature = s.user.Sign(s.T(), tooGreedy)
	_, err := s.msgServer.Swap(s.f.Ctx, tooGreedy)
	s.Require().ErrorIs(err, types.ErrSlippageExceeded)
	s.Require().Equal(uint64(0), s.f.Keeper.GetSequence(s.f.Ctx, s.user.Address))

	swap := types.NewMsgSwap(s.user.Address, pool, "atoken", 500, 666)
	swap.Signature = s.user.Sign(s.T(), swap)
	resp, err := s.msgServer.Swap(s.f.Ctx, swap)
	s.Require().NoError(err)
	s.Require().Equal(uint64(666), resp.AmountOut)
	s.Require().Equal(uint64(1), s.f.Keeper.GetSequence(s.f.Ctx, s.user.Address))
}

func (s *MsgServerTestSuite) TestUnsignedRejected() {
	msg := types.NewMsgInitializePool(s.authority.Address, "atoken", "btoken", "lpab")

	_, err := s.msgServer.InitializePool(s.f.Ctx, msg)
	s.Require().ErrorIs(err, types.ErrUnauthorized)
	s.Require().False(s.f.Keeper.HasPool(s.f.Ctx, types.DerivePoolAddress("atoken", "btoken")))
}

func (s *MsgServerTestSuite) TestWrongSignerRejected() {
	pool := s.initPool()
	s.f.Fund(s.T(), s.user.Address, "atoken", 1000)
	s.f.Fund(s.T(), s.user.Address, "btoken", 2000)

	// Signed by someone other than the depositor.
	add := types.NewMsgAddLiquidity(s.user.Address, pool, 1000, 2000)
	add.Signature = s.authority.Sign(s.T(), add)
	_, err := s.msgServer.AddLiquidity(s.f.Ctx, add)
	s.Require().ErrorIs(err, types.ErrUnauthorized)

	// Signature no longer covers the amounts.
	add.Signature = s.user.Sign(s.T(), add)
	add.AmountA = 999
	_, err = s.msgServer.AddLiquidity(s.f.Ctx, add)
	s.Require().ErrorIs(err, types.ErrUnauthorized)

	stored, err := s.f.Keeper.GetPool(s.f.Ctx, pool.PoolAddress())
	s.Require().NoError(err)
	s.Require().True(stored.IsEmpty())
}

func (s *MsgServerTestSuite) TestAccountMismatch() {
	pool := s.initPool()
	other := s.f.CreateTestPool(s.T(), "atoken", "ctoken", "lpac")
	stranger := keepertest.NewAccount().Address

	tests := []struct {
		name   string
		mutate func(msg *types.MsgAddLiquidity)
	}{
		{
			name:   "depositor custody owned by someone else",
			mutate: func(msg *types.MsgAddLiquidity) { msg.DepositorCustodyA = types.DeriveCustodyAddress(stranger, "atoken").String() },
		},
		{
			name:   "depositor custody for the wrong asset",
			mutate: func(msg *types.MsgAddLiquidity) { msg.DepositorCustodyB = msg.DepositorCustodyA },
		},
		{
			name:   "share account for another share asset",
			mutate: func(msg *types.MsgAddLiquidity) { msg.DepositorShareAccount = types.DeriveCustodyAddress(s.user.Address, "lpac").String() },
		},
		{
			name:   "pool custody of another pool",
			mutate: func(msg *types.MsgAddLiquidity) { msg.PoolCustodyA = other.CustodyA },
		},
		{
			name:   "pool custody pointing at the depositor",
			mutate: func(msg *types.MsgAddLiquidity) { msg.PoolCustodyB = msg.DepositorCustodyB },
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			msg := types.NewMsgAddLiquidity(s.user.Address, pool, 1000, 2000)
			tt.mutate(msg)
			msg.Signature = s.user.Sign(s.T(), msg)

			_, err := s.msgServer.AddLiquidity(s.f.Ctx, msg)
			s.Require().ErrorIs(err, types.ErrAccountMismatch)
		})
	}
}

func (s *MsgServerTestSuite) TestRemoveLiquidityAccountMismatch() {
	pool := s.initPool()
	s.f.Deposit(s.T(), pool, s.user.Address, 1000, 2000)

	msg := types.NewMsgRemoveLiquidity(s.user.Address, pool, 1000)
	msg.WithdrawerCustodyA = types.DeriveCustodyAddress(keepertest.NewAccount().Address, "atoken").String()
	msg.Signature = s.user.Sign(s.T(), msg)

	_, err := s.msgServer.RemoveLiquidity(s.f.Ctx, msg)
	s.Require().ErrorIs(err, types.ErrAccountMismatch)
}

func (s *MsgServerTestSuite) TestSwapBindings() {
	pool := s.initPool()
	s.f.Deposit(s.T(), pool, keepertest.NewAccount().Address, 1000, 2000)
	s.f.Fund(s.T(), s.user.Address, "atoken", 500)

	wrongToken := types.NewMsgSwap(s.user.Address, pool, "ctoken", 100, 0)
	wrongToken.Signature = s.user.Sign(s.T(), wrongToken)
	_, err := s.msgServer.Swap(s.f.Ctx, wrongToken)
	s.Require().ErrorIs(err, types.ErrWrongInputToken)

	swapped := types.NewMsgSwap(s.user.Address, pool, "atoken", 500, 0)
	swapped.PoolCustodyIn, swapped.PoolCustodyOut = swapped.PoolCustodyOut, swapped.PoolCustodyIn
	swapped.Signature = s.user.Sign(s.T(), swapped)
	_, err = s.msgServer.Swap(s.f.Ctx, swapped)
	s.Require().ErrorIs(err, types.ErrAccountMismatch)

	stored, err := s.f.Keeper.GetPool(s.f.Ctx, pool.PoolAddress())
	s.Require().NoError(err)
	s.Require().Equal(uint64(1000), stored.ReserveA)
	s.Require().Equal(uint64(500), s.f.CustodyBalance(s.user.Address, "atoken"))
}

func (s *MsgServerTestSuite) TestUnknownPool() {
	ghost := types.NewPool("xtoken", "ytoken", "lpxy", s.authority.Address)
	msg := types.NewMsgSwap(s.user.Address, ghost, "xtoken", 10, 0)
	msg.Signature = s.user.Sign(s.T(), msg)

	_, err := s.msgServer.Swap(s.f.Ctx, msg)
	s.Require().ErrorIs(err, types.ErrPoolNotFound)
}

func (s *MsgServerTestSuite) TestValidateBasicRejected() {
	pool := s.initPool()

	msg := types.NewMsgAddLiquidity(s.user.Address, pool, 0, 2000)
	msg.Signature = s.user.Sign(s.T(), msg)
	_, err := s.msgServer.AddLiquidity(s.f.Ctx, msg)
	s.Require().ErrorIs(err, types.ErrInvalidAmount)
}
