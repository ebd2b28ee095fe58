package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paw-chain/cpamm/x/amm/types"
)

const flagLimit = "limit"

// ShowPoolCmd prints one pool.
func ShowPoolCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [pool]",
		Short: "Show a pool by address or ordered asset pair (atoken/btoken)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			pool, err := resolvePool(a.NewContext(), a, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, pool)
		},
	}
}

// ListPoolsCmd prints all pools.
func ListPoolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, err := cmd.Flags().GetUint64(flagLimit)
			if err != nil {
				return err
			}

			a, _, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.QueryServer().Pools(a.NewContext(), &types.QueryPoolsRequest{Limit: limit})
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
	cmd.Flags().Uint64(flagLimit, 0, "maximum number of pools to return (0 for the default page size)")
	return cmd
}

// QuoteCmd prices a swap without executing it.
func QuoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quote [pool] [input-asset] [amount-in]",
		Short: "Price a swap at current reserves",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amountIn, err := parseAmount("amount-in", args[2])
			if err != nil {
				return err
			}

			a, _, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := a.NewContext()
			pool, err := resolvePool(ctx, a, args[0])
			if err != nil {
				return err
			}
			resp, err := a.QueryServer().QuoteSwap(ctx, &types.QuoteSwapRequest{
				Pool:       pool.Address,
				InputAsset: args[1],
				AmountIn:   amountIn,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
}

// BalanceCmd prints an account's custody balance for an asset.
func BalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance [address|key] [asset]",
		Short: "Show an account's custody balance for an asset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kr, err := openKeyring(cmd)
			if err != nil {
				return err
			}
			owner, err := resolveAddress(kr, args[0])
			if err != nil {
				return err
			}

			a, _, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			custody := types.DeriveCustodyAddress(owner, args[1])
			return printJSON(cmd, map[string]interface{}{
				"owner":   owner.String(),
				"custody": custody.String(),
				"asset":   args[1],
				"balance": a.Ledger.Balance(a.NewContext(), args[1], custody),
			})
		},
	}
}

// SequenceCmd prints the sequence an account's next message must carry.
func SequenceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sequence [address|key]",
		Short: "Show the sequence an account signs its next message at",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kr, err := openKeyring(cmd)
			if err != nil {
				return err
			}
			signer, err := resolveAddress(kr, args[0])
			if err != nil {
				return err
			}

			a, _, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.QueryServer().Sequence(a.NewContext(), &types.QuerySequenceRequest{Address: signer.String()})
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
}

// ExportCmd prints the current state as genesis JSON.
func ExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export pools and signer sequences as genesis JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			bz, err := a.ExportAppState(a.NewContext())
			if err != nil {
				return fmt.Errorf("failed to export state: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return nil
		},
	}
}
