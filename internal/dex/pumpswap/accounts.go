// =============================
// File: internal/dex/pumpswap/accounts.go
// =============================
package pumpswap

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/pumpstream/internal/blockchain/pda"
	"github.com/rovshanmuradov/pumpstream/internal/protocol"
	"github.com/rovshanmuradov/pumpstream/internal/types"
)

// PoolKeys identifies the pool side of a swap. Pool state is never read, so the
// caller supplies the coin creator and protocol fee recipient.
type PoolKeys struct {
	Pool                 solana.PublicKey
	BaseMint             solana.PublicKey
	QuoteMint            solana.PublicKey
	CoinCreator          solana.PublicKey
	ProtocolFeeRecipient solana.PublicKey
}

// deriveSwapAccounts заполняет все адреса для инструкции свапа.
//
// Обе token program остаются legacy SPL token: программа AMM ожидает их так для
// базового и котируемого минта. Режим влияет только на fee recipient.
func deriveSwapAccounts(user solana.PublicKey, keys PoolKeys, mode types.TradeMode) (*SwapInstructionParams, error) {
	feeRecipient, _ := protocol.FeeAccounts(mode)

	p := &SwapInstructionParams{
		PoolAddress:       keys.Pool,
		User:              user,
		BaseMint:          keys.BaseMint,
		QuoteMint:         keys.QuoteMint,
		FeeRecipient:      feeRecipient,
		BaseTokenProgram:  solana.TokenProgramID,
		QuoteTokenProgram: solana.TokenProgramID,
		ProgramID:         PumpSwapProgramID,
		FeeProgram:        protocol.FeeProgramID,
	}

	var err error
	if p.GlobalConfig, err = DeriveGlobalConfigAddress(); err != nil {
		return nil, fmt.Errorf("failed to derive global config address: %w", err)
	}
	if p.UserBaseTokenAccount, err = pda.AssociatedTokenAddress(user, p.BaseTokenProgram, keys.BaseMint); err != nil {
		return nil, fmt.Errorf("failed to derive user base ATA: %w", err)
	}
	if p.UserQuoteTokenAccount, err = pda.AssociatedTokenAddress(user, p.QuoteTokenProgram, keys.QuoteMint); err != nil {
		return nil, fmt.Errorf("failed to derive user quote ATA: %w", err)
	}
	if p.PoolBaseTokenAccount, err = pda.AssociatedTokenAddress(keys.Pool, p.BaseTokenProgram, keys.BaseMint); err != nil {
		return nil, fmt.Errorf("failed to derive pool base ATA: %w", err)
	}
	if p.PoolQuoteTokenAccount, err = pda.AssociatedTokenAddress(keys.Pool, p.QuoteTokenProgram, keys.QuoteMint); err != nil {
		return nil, fmt.Errorf("failed to derive pool quote ATA: %w", err)
	}
	if p.ProtocolFeeRecipientTokenAccount, err = pda.AssociatedTokenAddress(keys.ProtocolFeeRecipient, p.QuoteTokenProgram, keys.QuoteMint); err != nil {
		return nil, fmt.Errorf("failed to derive protocol fee recipient ATA: %w", err)
	}
	if p.EventAuthority, err = pda.EventAuthority(PumpSwapProgramID); err != nil {
		return nil, fmt.Errorf("failed to derive event authority: %w", err)
	}
	if p.CoinCreatorVaultAuthority, err = pda.CoinCreatorVaultAuthority(PumpSwapProgramID, keys.CoinCreator); err != nil {
		return nil, fmt.Errorf("failed to derive coin creator vault authority: %w", err)
	}
	if p.CoinCreatorVaultATA, err = pda.AssociatedTokenAddress(p.CoinCreatorVaultAuthority, p.QuoteTokenProgram, keys.QuoteMint); err != nil {
		return nil, fmt.Errorf("failed to derive coin creator vault ATA: %w", err)
	}
	if p.GlobalVolumeAccumulator, err = pda.GlobalVolumeAccumulator(PumpSwapProgramID); err != nil {
		return nil, fmt.Errorf("failed to derive global volume accumulator: %w", err)
	}
	if p.UserVolumeAccumulator, err = pda.UserVolumeAccumulator(PumpSwapProgramID, user); err != nil {
		return nil, fmt.Errorf("failed to derive user volume accumulator: %w", err)
	}
	if p.FeeConfig, err = pda.FeeConfig(protocol.FeeProgramID, FeeConfigSeed); err != nil {
		return nil, fmt.Errorf("failed to derive fee config: %w", err)
	}

	return p, nil
}
