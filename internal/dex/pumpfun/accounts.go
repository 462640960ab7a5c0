// =============================
// File: internal/dex/pumpfun/accounts.go
// =============================
package pumpfun

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/pumpstream/internal/blockchain/pda"
	"github.com/rovshanmuradov/pumpstream/internal/protocol"
	"github.com/rovshanmuradov/pumpstream/internal/types"
)

// InstructionAccounts holds every address a bonding-curve trade references.
type InstructionAccounts struct {
	Program                 solana.PublicKey
	Global                  solana.PublicKey
	FeeRecipient            solana.PublicKey
	Mint                    solana.PublicKey
	BondingCurve            solana.PublicKey
	AssociatedBondingCurve  solana.PublicKey
	AssociatedUser          solana.PublicKey
	User                    solana.PublicKey
	TokenProgram            solana.PublicKey
	CreatorVault            solana.PublicKey
	EventAuthority          solana.PublicKey
	GlobalVolumeAccumulator solana.PublicKey
	UserVolumeAccumulator   solana.PublicKey
	FeeConfig               solana.PublicKey
	FeeProgram              solana.PublicKey
}

// DeriveAccounts вычисляет все адреса, необходимые для buy/sell по bonding curve.
//
// Fee recipient и token program выбираются по режиму. Creator vault выводится от
// fee recipient: адрес создателя монеты инструкции не передаётся.
// Associated-аккаунты выводятся под выбранной token program, так что Token-2022
// минты в mayhem-режиме получают корректные ATA.
func DeriveAccounts(user, mint solana.PublicKey, mode types.TradeMode) (*InstructionAccounts, error) {
	feeRecipient, tokenProgram := protocol.FeeAccounts(mode)

	acc := &InstructionAccounts{
		Program:      PumpFunProgramID,
		FeeRecipient: feeRecipient,
		Mint:         mint,
		User:         user,
		TokenProgram: tokenProgram,
		FeeProgram:   protocol.FeeProgramID,
	}

	var err error
	if acc.Global, err = pda.Global(acc.Program); err != nil {
		return nil, fmt.Errorf("failed to derive global account: %w", err)
	}
	if acc.BondingCurve, err = pda.BondingCurve(acc.Program, mint); err != nil {
		return nil, fmt.Errorf("failed to derive bonding curve: %w", err)
	}
	// В mayhem режиме оба ATA считаются через Token-2022 (token program режима),
	// а не через legacy SPL token: адреса отличаются от обычного режима.
	if acc.AssociatedBondingCurve, err = pda.AssociatedTokenAddress(acc.BondingCurve, tokenProgram, mint); err != nil {
		return nil, fmt.Errorf("failed to derive associated bonding curve: %w", err)
	}
	if acc.AssociatedUser, err = pda.AssociatedTokenAddress(user, tokenProgram, mint); err != nil {
		return nil, fmt.Errorf("failed to derive associated user account: %w", err)
	}
	if acc.CreatorVault, err = pda.CreatorVault(acc.Program, feeRecipient); err != nil {
		return nil, fmt.Errorf("failed to derive creator vault: %w", err)
	}
	if acc.EventAuthority, err = pda.EventAuthority(acc.Program); err != nil {
		return nil, fmt.Errorf("failed to derive event authority: %w", err)
	}
	if acc.GlobalVolumeAccumulator, err = pda.GlobalVolumeAccumulator(acc.Program); err != nil {
		return nil, fmt.Errorf("failed to derive global volume accumulator: %w", err)
	}
	if acc.UserVolumeAccumulator, err = pda.UserVolumeAccumulator(acc.Program, user); err != nil {
		return nil, fmt.Errorf("failed to derive user volume accumulator: %w", err)
	}
	if acc.FeeConfig, err = pda.FeeConfig(acc.FeeProgram, FeeConfigSeed); err != nil {
		return nil, fmt.Errorf("failed to derive fee config: %w", err)
	}

	return acc, nil
}

// leadingMetas is the 12-account prefix shared by buy and sell.
func (a *InstructionAccounts) leadingMetas() []*solana.AccountMeta {
	return []*solana.AccountMeta{
		solana.NewAccountMeta(a.Global, false, false),
		solana.NewAccountMeta(a.FeeRecipient, true, false),
		solana.NewAccountMeta(a.Mint, false, false),
		solana.NewAccountMeta(a.BondingCurve, true, false),
		solana.NewAccountMeta(a.AssociatedBondingCurve, true, false),
		solana.NewAccountMeta(a.AssociatedUser, true, false),
		solana.NewAccountMeta(a.User, true, true),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(a.TokenProgram, false, false),
		solana.NewAccountMeta(a.CreatorVault, true, false),
		solana.NewAccountMeta(a.EventAuthority, false, false),
		solana.NewAccountMeta(a.Program, false, false),
	}
}

func (a *InstructionAccounts) feeMetas() []*solana.AccountMeta {
	return []*solana.AccountMeta{
		solana.NewAccountMeta(a.FeeConfig, false, false),
		solana.NewAccountMeta(a.FeeProgram, false, false),
	}
}

// BuyMetas returns the 16 accounts of a buy in program order.
func (a *InstructionAccounts) BuyMetas() []*solana.AccountMeta {
	metas := make([]*solana.AccountMeta, 0, BuyAccountsLen)
	metas = append(metas, a.leadingMetas()...)
	metas = append(metas,
		solana.NewAccountMeta(a.GlobalVolumeAccumulator, true, false),
		solana.NewAccountMeta(a.UserVolumeAccumulator, true, false),
	)
	return append(metas, a.feeMetas()...)
}

// SellMetas returns the 14 accounts of a sell in program order.
func (a *InstructionAccounts) SellMetas() []*solana.AccountMeta {
	metas := make([]*solana.AccountMeta, 0, SellAccountsLen)
	metas = append(metas, a.leadingMetas()...)
	return append(metas, a.feeMetas()...)
}
