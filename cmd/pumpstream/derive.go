package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/rovshanmuradov/pumpstream/internal/blockchain/pda"
	"github.com/rovshanmuradov/pumpstream/internal/dex/pumpfun"
	"github.com/rovshanmuradov/pumpstream/internal/dex/pumpswap"
	"github.com/rovshanmuradov/pumpstream/internal/protocol"
	"github.com/rovshanmuradov/pumpstream/internal/types"
)

func newDeriveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Print program-derived addresses for a mint",
		Args:  cobra.NoArgs,
		RunE:  runDerive,
	}

	cmd.Flags().String("mint", "", "token mint")
	cmd.Flags().String("user", "", "user wallet (adds user PDAs and ATAs)")
	cmd.Flags().String("creator", "", "coin creator (adds AMM creator vault authority)")
	cmd.Flags().String("pool-creator", "", "pool creator (adds the canonical pool address)")
	cmd.Flags().String("quote-mint", protocol.WSOLMint.String(), "quote mint for the pool address")
	cmd.Flags().Uint16("index", pumpswap.CanonicalPoolIndex, "pool index")
	cmd.Flags().Bool("mayhem", false, "derive ATAs under the mayhem token program")
	return cmd
}

type namedKey struct {
	name string
	key  solana.PublicKey
}

func runDerive(cmd *cobra.Command, _ []string) error {
	_, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	flags := cmd.Flags()
	mint, err := keyFlag(flags, "mint", true)
	if err != nil {
		return err
	}
	user, err := keyFlag(flags, "user", false)
	if err != nil {
		return err
	}
	creator, err := keyFlag(flags, "creator", false)
	if err != nil {
		return err
	}
	poolCreator, err := keyFlag(flags, "pool-creator", false)
	if err != nil {
		return err
	}
	quoteMint, err := keyFlag(flags, "quote-mint", true)
	if err != nil {
		return err
	}
	index, _ := flags.GetUint16("index")
	mayhem, _ := flags.GetBool("mayhem")

	keys, err := deriveKeys(mint, user, creator, poolCreator, quoteMint, index, types.ModeFromMayhem(mayhem))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%s\n", k.name, k.key)
	}
	return tw.Flush()
}

func deriveKeys(
	mint, user, creator, poolCreator, quoteMint solana.PublicKey,
	index uint16,
	mode types.TradeMode,
) ([]namedKey, error) {
	// user-зависимые адреса считаются и для нулевого ключа, но печатаются только если user задан
	acc, err := pumpfun.DeriveAccounts(user, mint, mode)
	if err != nil {
		return nil, err
	}

	keys := []namedKey{
		{"pump.global", acc.Global},
		{"pump.bonding_curve", acc.BondingCurve},
		{"pump.associated_bonding_curve", acc.AssociatedBondingCurve},
		{"pump.fee_recipient", acc.FeeRecipient},
		{"pump.creator_vault", acc.CreatorVault},
		{"pump.event_authority", acc.EventAuthority},
		{"pump.global_volume_accumulator", acc.GlobalVolumeAccumulator},
		{"pump.fee_config", acc.FeeConfig},
	}
	if !user.IsZero() {
		keys = append(keys,
			namedKey{"pump.associated_user", acc.AssociatedUser},
			namedKey{"pump.user_volume_accumulator", acc.UserVolumeAccumulator},
		)
	}

	globalConfig, err := pumpswap.DeriveGlobalConfigAddress()
	if err != nil {
		return nil, err
	}
	ammEventAuthority, err := pda.EventAuthority(pumpswap.PumpSwapProgramID)
	if err != nil {
		return nil, err
	}
	ammFeeConfig, err := pda.FeeConfig(protocol.FeeProgramID, pumpswap.FeeConfigSeed)
	if err != nil {
		return nil, err
	}
	keys = append(keys,
		namedKey{"amm.global_config", globalConfig},
		namedKey{"amm.event_authority", ammEventAuthority},
		namedKey{"amm.fee_config", ammFeeConfig},
	)

	if !creator.IsZero() {
		vaultAuthority, err := pda.CoinCreatorVaultAuthority(pumpswap.PumpSwapProgramID, creator)
		if err != nil {
			return nil, err
		}
		keys = append(keys, namedKey{"amm.coin_creator_vault_authority", vaultAuthority})
	}
	if !poolCreator.IsZero() {
		pool, err := pumpswap.DerivePoolAddress(index, poolCreator, mint, quoteMint)
		if err != nil {
			return nil, err
		}
		keys = append(keys, namedKey{"amm.pool", pool})
	}
	return keys, nil
}
