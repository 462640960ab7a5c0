// =============================
// File: internal/dex/pumpswap/instructions.go
// =============================
package pumpswap

import (
	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/pumpstream/internal/types"
	"github.com/rovshanmuradov/pumpstream/internal/utils/binary"
)

// SwapInstructionParams contains all parameters needed to create a swap instruction
type SwapInstructionParams struct {
	// Resolved operation: the selector actually sent, not the method the caller used
	IsBuy bool

	// Account parameters
	PoolAddress           solana.PublicKey
	User                  solana.PublicKey
	GlobalConfig          solana.PublicKey
	BaseMint              solana.PublicKey
	QuoteMint             solana.PublicKey
	UserBaseTokenAccount  solana.PublicKey
	UserQuoteTokenAccount solana.PublicKey
	PoolBaseTokenAccount  solana.PublicKey
	PoolQuoteTokenAccount solana.PublicKey
	// Mode-selected fee recipient
	FeeRecipient solana.PublicKey
	// ATA of the caller-supplied protocol fee recipient for the quote mint
	ProtocolFeeRecipientTokenAccount solana.PublicKey
	BaseTokenProgram                 solana.PublicKey
	QuoteTokenProgram                solana.PublicKey
	EventAuthority                   solana.PublicKey
	ProgramID                        solana.PublicKey
	CoinCreatorVaultATA              solana.PublicKey
	CoinCreatorVaultAuthority        solana.PublicKey
	GlobalVolumeAccumulator          solana.PublicKey
	UserVolumeAccumulator            solana.PublicKey
	FeeConfig                        solana.PublicKey
	FeeProgram                       solana.PublicKey

	// Operation-specific parameters
	// For buy: Amount1 = baseAmountOut, Amount2 = maxQuoteAmountIn
	// For sell: Amount1 = baseAmountIn, Amount2 = minQuoteAmountOut
	Amount1 uint64
	Amount2 uint64

	// Appended only when IsBuy
	TrackVolume types.OptionBool
}

// createSwapInstruction creates an instruction to buy or sell tokens in PumpSwap
func createSwapInstruction(params *SwapInstructionParams) *solana.GenericInstruction {
	selector := types.SellSelector
	if params.IsBuy {
		selector = types.BuySelector
	}

	data := make([]byte, 0, 8+8+8+2)
	data = append(data, selector[:]...)
	data = binary.AppendUint64LE(data, params.Amount1)
	data = binary.AppendUint64LE(data, params.Amount2)
	if params.IsBuy {
		data = append(data, params.TrackVolume.Bytes()...)
	}

	return solana.NewInstruction(params.ProgramID, swapAccountMetas(params), data)
}

// swapAccountMetas builds the account list in the order the program indexes it.
func swapAccountMetas(params *SwapInstructionParams) []*solana.AccountMeta {
	size := SellAccountsLen
	if params.IsBuy {
		size = BuyAccountsLen
	}

	accountMetas := make([]*solana.AccountMeta, 0, size)
	accountMetas = append(accountMetas,
		solana.NewAccountMeta(params.PoolAddress, true, false),
		solana.NewAccountMeta(params.User, true, true),
		solana.NewAccountMeta(params.GlobalConfig, false, false),
		solana.NewAccountMeta(params.BaseMint, false, false),
		solana.NewAccountMeta(params.QuoteMint, false, false),
		solana.NewAccountMeta(params.UserBaseTokenAccount, true, false),
		solana.NewAccountMeta(params.UserQuoteTokenAccount, true, false),
		solana.NewAccountMeta(params.PoolBaseTokenAccount, true, false),
		solana.NewAccountMeta(params.PoolQuoteTokenAccount, true, false),
		solana.NewAccountMeta(params.FeeRecipient, false, false),
		solana.NewAccountMeta(params.ProtocolFeeRecipientTokenAccount, true, false),
		solana.NewAccountMeta(params.BaseTokenProgram, false, false),
		solana.NewAccountMeta(params.QuoteTokenProgram, false, false),
		solana.NewAccountMeta(SystemProgramID, false, false),
		solana.NewAccountMeta(AssociatedTokenProgramID, false, false),
		solana.NewAccountMeta(params.EventAuthority, false, false),
		solana.NewAccountMeta(params.ProgramID, false, false),
		solana.NewAccountMeta(params.CoinCreatorVaultATA, true, false),
		solana.NewAccountMeta(params.CoinCreatorVaultAuthority, false, false),
	)

	if params.IsBuy {
		accountMetas = append(accountMetas,
			solana.NewAccountMeta(params.GlobalVolumeAccumulator, true, false),
			solana.NewAccountMeta(params.UserVolumeAccumulator, true, false),
		)
	}

	return append(accountMetas,
		solana.NewAccountMeta(params.FeeConfig, false, false),
		solana.NewAccountMeta(params.FeeProgram, false, false),
	)
}
