package pda

import (
	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/pumpstream/internal/utils/binary"
)

// Seed literals used verbatim as the first seed component.
const (
	SeedGlobal                  = "global"
	SeedBondingCurve            = "bonding-curve"
	SeedCreatorVault            = "creator-vault"
	SeedEventAuthority          = "__event_authority"
	SeedGlobalVolumeAccumulator = "global_volume_accumulator"
	SeedUserVolumeAccumulator   = "user_volume_accumulator"
	SeedFeeConfig               = "fee_config"
	SeedGlobalConfig            = "global_config"
	SeedPool                    = "pool"
	SeedCoinCreatorVault        = "creator_vault"
)

// Global derives the bonding-curve program's global state account.
func Global(program solana.PublicKey) (solana.PublicKey, error) {
	return findAddress(program, []byte(SeedGlobal))
}

// BondingCurve derives the per-mint bonding curve account.
func BondingCurve(program, mint solana.PublicKey) (solana.PublicKey, error) {
	return findAddress(program, []byte(SeedBondingCurve), mint[:])
}

// CreatorVault derives the fee vault of a creator on the bonding curve.
func CreatorVault(program, creator solana.PublicKey) (solana.PublicKey, error) {
	return findAddress(program, []byte(SeedCreatorVault), creator[:])
}

// EventAuthority derives the Anchor event CPI authority of program.
func EventAuthority(program solana.PublicKey) (solana.PublicKey, error) {
	return findAddress(program, []byte(SeedEventAuthority))
}

func GlobalVolumeAccumulator(program solana.PublicKey) (solana.PublicKey, error) {
	return findAddress(program, []byte(SeedGlobalVolumeAccumulator))
}

func UserVolumeAccumulator(program, user solana.PublicKey) (solana.PublicKey, error) {
	return findAddress(program, []byte(SeedUserVolumeAccumulator), user[:])
}

// FeeConfig derives the fee configuration account owned by feeProgram.
// The secondary seed is fixed per calling program, not taken from a fee recipient.
func FeeConfig(feeProgram solana.PublicKey, secondary [32]byte) (solana.PublicKey, error) {
	return findAddress(feeProgram, []byte(SeedFeeConfig), secondary[:])
}

// GlobalConfig derives the AMM global config account.
func GlobalConfig(program solana.PublicKey) (solana.PublicKey, error) {
	return findAddress(program, []byte(SeedGlobalConfig))
}

// Pool derives an AMM pool address for (index, creator, base, quote).
func Pool(program solana.PublicKey, index uint16, creator, baseMint, quoteMint solana.PublicKey) (solana.PublicKey, error) {
	return findAddress(program,
		[]byte(SeedPool),
		binary.Uint16LE(index),
		creator[:],
		baseMint[:],
		quoteMint[:],
	)
}

// CoinCreatorVaultAuthority derives the AMM vault authority of a coin creator.
func CoinCreatorVaultAuthority(program, coinCreator solana.PublicKey) (solana.PublicKey, error) {
	return findAddress(program, []byte(SeedCoinCreatorVault), coinCreator[:])
}
