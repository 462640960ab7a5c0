// internal/protocol/types.go
package protocol

import (
	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/pumpstream/internal/types"
)

// Type represents the family an on-chain program belongs to.
type Type string

const (
	TypeBondingCurve Type = "bonding_curve"
	TypeAMM          Type = "amm"
	TypeFees         Type = "fees"
)

// Short names used in configuration and metric labels.
const (
	NamePump    = "pump"
	NamePumpAMM = "pumpamm"
	NameFees    = "pumpfees"
)

// Known program and account addresses.
var (
	PumpProgramID    = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")
	PumpAMMProgramID = solana.MustPublicKeyFromBase58("pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA")
	FeeProgramID     = solana.MustPublicKeyFromBase58("pfeeUxB6jkeY1Hxd7CsFCAjcbHA9rWtchMGdZ6VojVZ")

	FeeRecipient       = solana.MustPublicKeyFromBase58("62qc2CNXwrYqQScmEdiZFFAnJR262PxWEuNQtxfafNgV")
	MayhemFeeRecipient = solana.MustPublicKeyFromBase58("GesfTA3X2arioaHp8bbKdjG9vJtskViWACZoYvxp4twS")

	WSOLMint = solana.SolMint
	USDCMint = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
)

// Program describes one on-chain program the module knows about.
type Program struct {
	Name string
	ID   solana.PublicKey
	Type Type
}

// FeeAccounts returns the fee recipient and token program for a trade mode.
func FeeAccounts(mode types.TradeMode) (feeRecipient, tokenProgram solana.PublicKey) {
	if mode.IsMayhem() {
		return MayhemFeeRecipient, solana.Token2022ProgramID
	}
	return FeeRecipient, solana.TokenProgramID
}

// IsCoreAsset reports whether mint is a quote asset the AMM treats as the home side.
func IsCoreAsset(mint solana.PublicKey) bool {
	return mint.Equals(WSOLMint) || mint.Equals(USDCMint)
}
