package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rovshanmuradov/pumpstream/internal/dex"
	"github.com/rovshanmuradov/pumpstream/internal/protocol"
	"github.com/rovshanmuradov/pumpstream/internal/types"
)

func newBuildCmd() *cobra.Command {
	ops := make([]string, len(dex.Operations))
	for i, op := range dex.Operations {
		ops[i] = string(op)
	}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a trade instruction and print it (nothing is sent)",
		Args:  cobra.NoArgs,
		RunE:  runBuild,
	}

	cmd.Flags().String("op", "", "operation: "+strings.Join(ops, ", "))
	cmd.Flags().String("user", "", "signer / payer")
	cmd.Flags().String("mint", "", "token mint (bonding curve) or base mint (AMM)")
	cmd.Flags().String("pool", "", "AMM pool address")
	cmd.Flags().String("quote-mint", protocol.WSOLMint.String(), "AMM quote mint")
	cmd.Flags().String("coin-creator", "", "AMM pool coin creator")
	cmd.Flags().String("protocol-fee-recipient", "", "AMM protocol fee recipient")
	cmd.Flags().Uint64("amount", 0, "token amount (base units)")
	cmd.Flags().Uint64("limit", 0, "max cost for buys, min output for sells (base units)")
	cmd.Flags().String("track-volume", "none", "track_volume argument: none, true or false")
	cmd.Flags().Bool("mayhem", false, "mayhem mode fee recipient and token program")
	cmd.Flags().String("priority", "none", "compute budget profile: none, low, medium, high, extreme")
	cmd.Flags().Uint32("cu-limit", 0, "custom compute unit limit (overrides --priority)")
	cmd.Flags().Uint64("cu-price", 0, "custom compute unit price in micro-lamports (overrides --priority)")
	return cmd
}

func runBuild(cmd *cobra.Command, _ []string) error {
	_, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	task, err := taskFromFlags(cmd.Flags())
	if err != nil {
		return err
	}

	var ixs []solana.Instruction

	pm := dex.NewPriorityManager(log.Logger)
	cuLimit, _ := cmd.Flags().GetUint32("cu-limit")
	cuPrice, _ := cmd.Flags().GetUint64("cu-price")
	if cuLimit > 0 || cuPrice > 0 {
		ixs = append(ixs, pm.CustomInstructions(cuPrice, cuLimit)...)
	} else {
		raw, _ := cmd.Flags().GetString("priority")
		level, err := dex.ParsePriorityLevel(raw)
		if err != nil {
			return err
		}
		prelude, err := pm.Instructions(level)
		if err != nil {
			return err
		}
		ixs = append(ixs, prelude...)
	}

	done := log.TrackPerformance("build " + string(task.Operation))
	ix, err := dex.NewTradeBuilder(log.Logger).Build(task)
	done()
	if err != nil {
		return err
	}
	ixs = append(ixs, ix)

	out := cmd.OutOrStdout()
	for i, inst := range ixs {
		if err := printInstruction(out, i, inst); err != nil {
			return err
		}
	}
	return nil
}

func taskFromFlags(flags *pflag.FlagSet) (*dex.Task, error) {
	rawOp, _ := flags.GetString("op")
	op, err := dex.ParseOperation(rawOp)
	if err != nil {
		return nil, err
	}

	task := &dex.Task{Operation: op}

	if task.User, err = keyFlag(flags, "user", true); err != nil {
		return nil, err
	}
	if task.Mint, err = keyFlag(flags, "mint", true); err != nil {
		return nil, err
	}
	task.Amount1, _ = flags.GetUint64("amount")
	task.Amount2, _ = flags.GetUint64("limit")
	task.Mayhem, _ = flags.GetBool("mayhem")

	rawTrack, _ := flags.GetString("track-volume")
	if task.TrackVolume, err = types.ParseOptionBool(rawTrack); err != nil {
		return nil, err
	}

	if op == dex.OperationAmmBuy || op == dex.OperationAmmSell {
		task.BaseMint = task.Mint
		if task.Pool, err = keyFlag(flags, "pool", true); err != nil {
			return nil, err
		}
		if task.QuoteMint, err = keyFlag(flags, "quote-mint", true); err != nil {
			return nil, err
		}
		if task.ProtocolFeeRecipient, err = keyFlag(flags, "protocol-fee-recipient", true); err != nil {
			return nil, err
		}
		if task.CoinCreator, err = keyFlag(flags, "coin-creator", true); err != nil {
			return nil, err
		}
	}
	return task, nil
}

// keyFlag parses a base58 flag; an optional empty flag yields the zero key.
func keyFlag(flags *pflag.FlagSet, name string, required bool) (solana.PublicKey, error) {
	raw, _ := flags.GetString(name)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			return solana.PublicKey{}, fmt.Errorf("--%s is required", name)
		}
		return solana.PublicKey{}, nil
	}
	pk, err := solana.PublicKeyFromBase58(raw)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("--%s: invalid public key: %w", name, err)
	}
	return pk, nil
}

func printInstruction(w io.Writer, idx int, ix solana.Instruction) error {
	data, err := ix.Data()
	if err != nil {
		return fmt.Errorf("instruction %d data: %w", idx, err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "instruction %d\n", idx)
	fmt.Fprintf(tw, "program:\t%s\n", ix.ProgramID())
	for i, meta := range ix.Accounts() {
		fmt.Fprintf(tw, "  %d\t%s\t%s\n", i, meta.PublicKey, metaFlags(meta))
	}
	fmt.Fprintf(tw, "data:\t%s\n", base58.Encode(data))
	return tw.Flush()
}

func metaFlags(meta *solana.AccountMeta) string {
	flags := []byte("--")
	if meta.IsWritable {
		flags[0] = 'w'
	}
	if meta.IsSigner {
		flags[1] = 's'
	}
	return string(flags)
}
