package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/paw-chain/cpamm/app"
	"github.com/paw-chain/cpamm/x/amm/types"
)

const flagMinAmountOut = "min-amount-out"

// txFunc executes a state change against ctx. Nothing it writes is
// committed unless it returns a nil error.
type txFunc func(ctx sdk.Context, a *app.App, kr keyring.Keyring) (interface{}, error)

// runTx opens the node, runs fn and commits its writes on success.
func runTx(cmd *cobra.Command, fn txFunc) error {
	a, nc, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	kr, err := openKeyring(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	command := cmd.CommandPath()
	spanCtx, endSpan := app.TraceCommand(cmd.Context(), command)

	ctx := a.NewContext().WithContext(spanCtx)
	resp, err := fn(ctx, a, kr)
	if err == nil {
		err = a.CheckInvariants(ctx)
	}
	endSpan(err)
	nc.Commands.RecordCommand(spanCtx, command, time.Since(start), err == nil)
	if err != nil {
		return err
	}

	height := a.Commit()
	nc.Commands.RecordBlockHeight(spanCtx, height)
	nc.Logger.Info("committed", "command", command, "height", height)
	return printJSON(cmd, resp)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return nil
}

func parseAmount(name, raw string) (uint64, error) {
	amount, err := cast.ToUint64E(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return amount, nil
}

// resolveAddress accepts a bech32 address or the name of a keyring key.
func resolveAddress(kr keyring.Keyring, arg string) (sdk.AccAddress, error) {
	if addr, err := sdk.AccAddressFromBech32(arg); err == nil {
		return addr, nil
	}
	return keyAddress(kr, arg)
}

// resolvePool accepts a pool address or an ordered "assetA/assetB" pair.
func resolvePool(ctx sdk.Context, a *app.App, arg string) (types.Pool, error) {
	req := &types.QueryPoolRequest{Address: arg}
	if assetA, assetB, ok := strings.Cut(arg, "/"); ok {
		req = &types.QueryPoolRequest{AssetA: assetA, AssetB: assetB}
	}
	resp, err := a.QueryServer().Pool(ctx, req)
	if err != nil {
		return types.Pool{}, err
	}
	return resp.Pool, nil
}

// signer resolves the --from key and the sequence its next message must be
// signed at.
func signer(ctx sdk.Context, a *app.App, cmd *cobra.Command, kr keyring.Keyring) (string, sdk.AccAddress, uint64, error) {
	from, _ := cmd.Flags().GetString(flagFrom)
	if from == "" {
		return "", nil, 0, fmt.Errorf("--%s is required", flagFrom)
	}
	addr, err := keyAddress(kr, from)
	if err != nil {
		return "", nil, 0, err
	}
	resp, err := a.QueryServer().Sequence(ctx, &types.QuerySequenceRequest{Address: addr.String()})
	if err != nil {
		return "", nil, 0, err
	}
	return from, addr, resp.Sequence, nil
}

// FaucetCmd credits an account's custody balance for testing.
func FaucetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "faucet [address|key] [asset] [amount]",
		Short: "Mint test funds into an account's custody account for an asset",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount("amount", args[2])
			if err != nil {
				return err
			}
			return runTx(cmd, func(ctx sdk.Context, a *app.App, kr keyring.Keyring) (interface{}, error) {
				owner, err := resolveAddress(kr, args[0])
				if err != nil {
					return nil, err
				}
				custody, err := a.Faucet(ctx, owner, args[1], amount)
				if err != nil {
					return nil, err
				}
				return map[string]interface{}{
					"owner":   owner.String(),
					"custody": custody.String(),
					"asset":   args[1],
					"balance": a.Ledger.Balance(ctx, args[1], custody),
				}, nil
			})
		},
	}
}

// PoolCmd groups pool creation and pool queries.
func PoolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Create and inspect pools",
	}

	create := &cobra.Command{
		Use:   "create [asset-a] [asset-b] [share-asset]",
		Short: "Initialize the pool for an ordered asset pair; the signer becomes its authority",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTx(cmd, func(ctx sdk.Context, a *app.App, kr keyring.Keyring) (interface{}, error) {
				from, authority, seq, err := signer(ctx, a, cmd, kr)
				if err != nil {
					return nil, err
				}
				msg := types.NewMsgInitializePool(authority, args[0], args[1], args[2])
				msg.Sequence = seq
				if msg.Signature, err = signMsg(kr, from, msg); err != nil {
					return nil, err
				}
				return a.MsgServer().InitializePool(ctx, msg)
			})
		},
	}
	create.Flags().String(flagFrom, "", "name of the signing key")

	cmd.AddCommand(create, ShowPoolCmd(), ListPoolsCmd())
	return cmd
}

// LiquidityCmd groups deposits and withdrawals.
func LiquidityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liquidity",
		Short: "Add or remove pool liquidity",
	}

	add := &cobra.Command{
		Use:   "add [pool] [amount-a] [amount-b]",
		Short: "Deposit both pool assets in exchange for pool shares",
		Long: `Deposit both pool assets in exchange for pool shares. Into a non-empty pool
only the amounts matching the current reserve ratio are taken.

[pool] is a pool address or an ordered asset pair such as atoken/btoken.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amountA, err := parseAmount("amount-a", args[1])
			if err != nil {
				return err
			}
			amountB, err := parseAmount("amount-b", args[2])
			if err != nil {
				return err
			}
			return runTx(cmd, func(ctx sdk.Context, a *app.App, kr keyring.Keyring) (interface{}, error) {
				from, depositor, seq, err := signer(ctx, a, cmd, kr)
				if err != nil {
					return nil, err
				}
				pool, err := resolvePool(ctx, a, args[0])
				if err != nil {
					return nil, err
				}
				msg := types.NewMsgAddLiquidity(depositor, pool, amountA, amountB)
				msg.Sequence = seq
				if msg.Signature, err = signMsg(kr, from, msg); err != nil {
					return nil, err
				}
				return a.MsgServer().AddLiquidity(ctx, msg)
			})
		},
	}
	add.Flags().String(flagFrom, "", "name of the signing key")

	remove := &cobra.Command{
		Use:   "remove [pool] [shares]",
		Short: "Burn pool shares for a proportional share of both reserves",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			shares, err := parseAmount("shares", args[1])
			if err != nil {
				return err
			}
			return runTx(cmd, func(ctx sdk.Context, a *app.App, kr keyring.Keyring) (interface{}, error) {
				from, withdrawer, seq, err := signer(ctx, a, cmd, kr)
				if err != nil {
					return nil, err
				}
				pool, err := resolvePool(ctx, a, args[0])
				if err != nil {
					return nil, err
				}
				msg := types.NewMsgRemoveLiquidity(withdrawer, pool, shares)
				msg.Sequence = seq
				if msg.Signature, err = signMsg(kr, from, msg); err != nil {
					return nil, err
				}
				return a.MsgServer().RemoveLiquidity(ctx, msg)
			})
		},
	}
	remove.Flags().String(flagFrom, "", "name of the signing key")

	cmd.AddCommand(add, remove)
	return cmd
}

// SwapCmd sells one pool asset for the other.
func SwapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap [pool] [input-asset] [amount-in]",
		Short: "Sell amount-in of input-asset for the pool's other asset",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amountIn, err := parseAmount("amount-in", args[2])
			if err != nil {
				return err
			}
			minOut, err := cmd.Flags().GetUint64(flagMinAmountOut)
			if err != nil {
				return err
			}
			return runTx(cmd, func(ctx sdk.Context, a *app.App, kr keyring.Keyring) (interface{}, error) {
				from, trader, seq, err := signer(ctx, a, cmd, kr)
				if err != nil {
					return nil, err
				}
				pool, err := resolvePool(ctx, a, args[0])
				if err != nil {
					return nil, err
				}
				msg := types.NewMsgSwap(trader, pool, args[1], amountIn, minOut)
				msg.Sequence = seq
				if msg.Signature, err = signMsg(kr, from, msg); err != nil {
					return nil, err
				}
				return a.MsgServer().Swap(ctx, msg)
			})
		},
	}
	cmd.Flags().String(flagFrom, "", "name of the signing key")
	cmd.Flags().Uint64(flagMinAmountOut, 0, "fail unless at least this much is paid out")

	return cmd
}
