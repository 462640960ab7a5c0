// ==============================================
// File: internal/dex/pumpfun/instructions.go
// ==============================================
package pumpfun

import (
	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/pumpstream/internal/types"
	"github.com/rovshanmuradov/pumpstream/internal/utils/binary"
)

// BuildBuyInstruction builds a buy instruction for Pump.fun protocol.
// Data layout: buy selector ‖ amount ‖ maxSolCost ‖ trackVolume.
func BuildBuyInstruction(
	user, mint solana.PublicKey,
	amount, maxSolCost uint64,
	trackVolume types.OptionBool,
	mayhem bool,
) (*solana.GenericInstruction, error) {
	accounts, err := DeriveAccounts(user, mint, types.ModeFromMayhem(mayhem))
	if err != nil {
		return nil, err
	}

	tail := trackVolume.Bytes()
	data := make([]byte, 0, 8+8+8+len(tail))
	data = append(data, types.BuySelector[:]...)
	data = binary.AppendUint64LE(data, amount)
	data = binary.AppendUint64LE(data, maxSolCost)
	data = append(data, tail...)

	return solana.NewInstruction(accounts.Program, accounts.BuyMetas(), data), nil
}

// BuildSellInstruction builds a sell instruction for Pump.fun protocol.
// Data layout: sell selector ‖ amount ‖ minSolOutput.
func BuildSellInstruction(
	user, mint solana.PublicKey,
	amount, minSolOutput uint64,
	mayhem bool,
) (*solana.GenericInstruction, error) {
	accounts, err := DeriveAccounts(user, mint, types.ModeFromMayhem(mayhem))
	if err != nil {
		return nil, err
	}

	data := make([]byte, 0, 8+8+8)
	data = append(data, types.SellSelector[:]...)
	data = binary.AppendUint64LE(data, amount)
	data = binary.AppendUint64LE(data, minSolOutput)

	return solana.NewInstruction(accounts.Program, accounts.SellMetas(), data), nil
}
