package cmd

import (
	"bufio"
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/cosmos/cosmos-sdk/client/input"
	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/tx/signing"
	"github.com/cosmos/go-bip39"
	"github.com/spf13/cobra"

	"github.com/paw-chain/cpamm/app"
	"github.com/paw-chain/cpamm/x/amm/types"
)

const (
	flagMnemonicLength = "mnemonic-length"
	flagNoBackup       = "no-backup"
	flagRecover        = "recover"
	flagAccount        = "account"
	flagIndex          = "index"
)

// KeysCmd returns the keys command with BIP39 mnemonic support.
func KeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage the keys that sign pool, liquidity and swap commands",
	}

	cmd.AddCommand(
		AddKeyCommand(),
		ListKeysCommand(),
		ShowKeysCommand(),
	)

	return cmd
}

func openKeyring(cmd *cobra.Command) (keyring.Keyring, error) {
	nc, err := getNodeContext(cmd)
	if err != nil {
		return nil, err
	}
	encodingConfig := app.MakeEncodingConfig()
	return keyring.New(app.Name, nc.Config.KeyringBackend, nc.Home, cmd.InOrStdin(), encodingConfig.Codec)
}

// AddKeyCommand creates a new key in the keyring with mnemonic generation
func AddKeyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a new key with BIP39 mnemonic generation",
		Long: `Add a new key to the keyring with a BIP39 mnemonic phrase.

The key is derived from a 12-word (128-bit) or 24-word (256-bit) mnemonic
generated from crypto/rand, or read from stdin with --recover.

Examples:
  ammd keys add alice                       # Generate 24-word mnemonic (default)
  ammd keys add alice --mnemonic-length 12  # Generate 12-word mnemonic
  ammd keys add alice --recover             # Recover from an existing mnemonic`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kr, err := openKeyring(cmd)
			if err != nil {
				return err
			}

			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("argument 'name' cannot be empty")
			}

			var mnemonic string
			if recoverExisting, _ := cmd.Flags().GetBool(flagRecover); recoverExisting {
				mnemonic, err = readMnemonic(cmd)
			} else {
				mnemonicLength, _ := cmd.Flags().GetInt(flagMnemonicLength)
				mnemonic, err = newMnemonic(mnemonicLength)
			}
			if err != nil {
				return err
			}

			account, _ := cmd.Flags().GetUint32(flagAccount)
			index, _ := cmd.Flags().GetUint32(flagIndex)
			hdPath := hd.CreateHDPath(sdk.GetConfig().GetCoinType(), account, index)

			record, err := kr.NewAccount(name, mnemonic, keyring.DefaultBIP39Passphrase, hdPath.String(), hd.Secp256k1)
			if err != nil {
				return fmt.Errorf("failed to create key: %w", err)
			}
			addr, err := record.GetAddress()
			if err != nil {
				return fmt.Errorf("failed to get address: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "- name: %s\n", name)
			fmt.Fprintf(out, "  address: %s\n", addr.String())

			recovered, _ := cmd.Flags().GetBool(flagRecover)
			if noBackup, _ := cmd.Flags().GetBool(flagNoBackup); !noBackup && !recovered {
				fmt.Fprintf(out, "\n**IMPORTANT** Write this mnemonic phrase in a safe place.\n")
				fmt.Fprintf(out, "It is the only way to recover your account.\n\n")
				fmt.Fprintf(out, "%s\n", mnemonic)
			}
			return nil
		},
	}

	cmd.Flags().Bool(flagRecover, false, "Recover key from an existing mnemonic read from stdin")
	cmd.Flags().Int(flagMnemonicLength, 24, "Mnemonic length (12 or 24 words)")
	cmd.Flags().Bool(flagNoBackup, false, "Do not print the generated mnemonic")
	cmd.Flags().Uint32(flagAccount, 0, "Account number for HD derivation")
	cmd.Flags().Uint32(flagIndex, 0, "Address index number for HD derivation")

	return cmd
}

func newMnemonic(words int) (string, error) {
	var entropySize int
	switch words {
	case 12:
		entropySize = 128 / 8
	case 24:
		entropySize = 256 / 8
	default:
		return "", fmt.Errorf("mnemonic length must be 12 or 24 words")
	}

	entropy := make([]byte, entropySize)
	if _, err := rand.Read(entropy); err != nil {
		return "", fmt.Errorf("failed to generate secure entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("failed to generate mnemonic: %w", err)
	}
	if !bip39.IsMnemonicValid(mnemonic) {
		return "", fmt.Errorf("generated mnemonic failed validation")
	}
	return mnemonic, nil
}

func readMnemonic(cmd *cobra.Command) (string, error) {
	buf := bufio.NewReader(cmd.InOrStdin())
	mnemonic, err := input.GetString("Enter your bip39 mnemonic", buf)
	if err != nil {
		return "", fmt.Errorf("failed to read mnemonic: %w", err)
	}

	// normalize whitespace
	words := strings.Fields(mnemonic)
	mnemonic = strings.Join(words, " ")

	if len(words) != 12 && len(words) != 24 {
		return "", fmt.Errorf("invalid mnemonic length: expected 12 or 24 words, got %d", len(words))
	}
	if !bip39.IsMnemonicValid(mnemonic) {
		return "", fmt.Errorf("invalid mnemonic: checksum failed")
	}
	return mnemonic, nil
}

// ListKeysCommand lists all keys in the keyring
func ListKeysCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kr, err := openKeyring(cmd)
			if err != nil {
				return err
			}

			records, err := kr.List()
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No keys found.\n")
				return nil
			}

			for _, record := range records {
				addr, err := record.GetAddress()
				if err != nil {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "- name: %s\n", record.Name)
				fmt.Fprintf(cmd.OutOrStdout(), "  address: %s\n", addr.String())
			}
			return nil
		},
	}
}

// ShowKeysCommand shows a key's address
func ShowKeysCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Show key address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kr, err := openKeyring(cmd)
			if err != nil {
				return err
			}
			addr, err := keyAddress(kr, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), addr.String())
			return nil
		},
	}
}

func keyAddress(kr keyring.Keyring, name string) (sdk.AccAddress, error) {
	record, err := kr.Key(name)
	if err != nil {
		return nil, fmt.Errorf("key %q not found: %w", name, err)
	}
	return record.GetAddress()
}

// signMsg signs msg with the named key and returns the proof the AMM checks.
func signMsg(kr keyring.Keyring, name string, msg types.Signable) (types.Signature, error) {
	sig, pubKey, err := kr.Sign(name, msg.GetSignBytes(), signing.SignMode_SIGN_MODE_DIRECT)
	if err != nil {
		return types.Signature{}, fmt.Errorf("failed to sign with %q: %w", name, err)
	}
	return types.Signature{
		PubKey:    pubKey.Bytes(),
		Signature: sig,
	}, nil
}
