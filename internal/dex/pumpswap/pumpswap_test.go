package pumpswap

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/pumpstream/internal/blockchain/pda"
	"github.com/rovshanmuradov/pumpstream/internal/protocol"
	"github.com/rovshanmuradov/pumpstream/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testUser        = solana.MustPublicKeyFromBase58("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")
	testToken       = solana.MustPublicKeyFromBase58("Ar9jb5nXLind51VTFzJr4hUoY6d6xNmwmqeuG7XQi9e3")
	testCreator     = solana.MustPublicKeyFromBase58("4wTV1YmiEkRvAtNtsSGPtUrqRYQMe5SKy2uB4Jjaxnjf")
	testProtocolFee = solana.MustPublicKeyFromBase58("Ce6TQqeHC9p8KetsN6JsjHK7UTZk7nasjjnr7XxXp9F1")
)

func corePool(t *testing.T) PoolKeys {
	t.Helper()
	pool, err := DerivePoolAddress(CanonicalPoolIndex, testCreator, testToken, protocol.WSOLMint)
	require.NoError(t, err)
	return PoolKeys{
		Pool:                 pool,
		BaseMint:             testToken,
		QuoteMint:            protocol.WSOLMint,
		CoinCreator:          testCreator,
		ProtocolFeeRecipient: testProtocolFee,
	}
}

// invertedPool has the core asset on the base side.
func invertedPool(t *testing.T) PoolKeys {
	t.Helper()
	keys := corePool(t)
	keys.BaseMint, keys.QuoteMint = keys.QuoteMint, testToken
	return keys
}

func dataOf(t *testing.T, ix *solana.GenericInstruction) []byte {
	t.Helper()
	data, err := ix.Data()
	require.NoError(t, err)
	return data
}

func le(v uint64) []byte {
	out := make([]byte, 8)
	for i := range out {
		out[i] = byte(v >> (8 * i))
	}
	return out
}

func TestAmmBuyCoreAsset(t *testing.T) {
	ix, err := BuildBuyInstruction(BuyParams{
		User:             testUser,
		Pool:             corePool(t),
		BaseAmountOut:    1_000,
		MaxQuoteAmountIn: 2_000,
		TrackVolume:      types.PresentTrue,
	})
	require.NoError(t, err)

	data := dataOf(t, ix)
	assert.Equal(t, types.BuySelector[:], data[:8])
	assert.Equal(t, le(1_000), data[8:16])
	assert.Equal(t, le(2_000), data[16:24])
	assert.Equal(t, []byte{1, 1}, data[24:])

	require.Len(t, ix.Accounts(), BuyAccountsLen)
	assert.Equal(t, PumpSwapProgramID, ix.ProgramID())
}

func TestAmmBuyNonCoreAssetFlipsToSell(t *testing.T) {
	ix, err := BuildBuyInstruction(BuyParams{
		User:             testUser,
		Pool:             invertedPool(t),
		BaseAmountOut:    1_000,
		MaxQuoteAmountIn: 2_000,
		TrackVolume:      types.PresentTrue,
	})
	require.NoError(t, err)

	data := dataOf(t, ix)
	require.Len(t, data, 24, "resolved sell has no track volume tail")
	assert.Equal(t, types.SellSelector[:], data[:8])
	assert.Equal(t, le(2_000), data[8:16])
	assert.Equal(t, le(1_000), data[16:24])

	assert.Len(t, ix.Accounts(), SellAccountsLen)
}

func TestAmmSellCoreAsset(t *testing.T) {
	ix, err := BuildSellInstruction(SellParams{
		User:              testUser,
		Pool:              corePool(t),
		BaseAmountIn:      5_000,
		MinQuoteAmountOut: 10,
	})
	require.NoError(t, err)

	data := dataOf(t, ix)
	require.Len(t, data, 24)
	assert.Equal(t, types.SellSelector[:], data[:8])
	assert.Equal(t, le(5_000), data[8:16])
	assert.Equal(t, le(10), data[16:24])
	assert.Len(t, ix.Accounts(), SellAccountsLen)
}

func TestAmmSellNonCoreAssetFlipsToBuy(t *testing.T) {
	ix, err := BuildSellInstruction(SellParams{
		User:              testUser,
		Pool:              invertedPool(t),
		BaseAmountIn:      5_000,
		MinQuoteAmountOut: 10,
	})
	require.NoError(t, err)

	data := dataOf(t, ix)
	assert.Equal(t, types.BuySelector[:], data[:8])
	assert.Equal(t, le(10), data[8:16])
	assert.Equal(t, le(5_000), data[16:24])
	assert.Equal(t, []byte{0}, data[24:])
	assert.Len(t, ix.Accounts(), BuyAccountsLen)
}

func TestUSDCIsCoreAsset(t *testing.T) {
	keys := corePool(t)
	keys.QuoteMint = protocol.USDCMint

	ix, err := BuildBuyInstruction(BuyParams{User: testUser, Pool: keys, BaseAmountOut: 1, MaxQuoteAmountIn: 1})
	require.NoError(t, err)
	assert.Equal(t, types.BuySelector[:], dataOf(t, ix)[:8])
}

func TestAmmAccountOrder(t *testing.T) {
	keys := corePool(t)
	ix, err := BuildBuyInstruction(BuyParams{User: testUser, Pool: keys, BaseAmountOut: 1, MaxQuoteAmountIn: 1})
	require.NoError(t, err)
	metas := ix.Accounts()
	require.Len(t, metas, BuyAccountsLen)

	globalConfig, err := DeriveGlobalConfigAddress()
	require.NoError(t, err)
	userBase, err := pda.AssociatedTokenAddress(testUser, solana.TokenProgramID, keys.BaseMint)
	require.NoError(t, err)
	userQuote, err := pda.AssociatedTokenAddress(testUser, solana.TokenProgramID, keys.QuoteMint)
	require.NoError(t, err)
	poolBase, err := pda.AssociatedTokenAddress(keys.Pool, solana.TokenProgramID, keys.BaseMint)
	require.NoError(t, err)
	poolQuote, err := pda.AssociatedTokenAddress(keys.Pool, solana.TokenProgramID, keys.QuoteMint)
	require.NoError(t, err)
	feeATA, err := pda.AssociatedTokenAddress(testProtocolFee, solana.TokenProgramID, keys.QuoteMint)
	require.NoError(t, err)
	eventAuthority, err := pda.EventAuthority(PumpSwapProgramID)
	require.NoError(t, err)
	vaultAuthority, err := pda.CoinCreatorVaultAuthority(PumpSwapProgramID, testCreator)
	require.NoError(t, err)
	vaultATA, err := pda.AssociatedTokenAddress(vaultAuthority, solana.TokenProgramID, keys.QuoteMint)
	require.NoError(t, err)
	globalVolume, err := pda.GlobalVolumeAccumulator(PumpSwapProgramID)
	require.NoError(t, err)
	userVolume, err := pda.UserVolumeAccumulator(PumpSwapProgramID, testUser)
	require.NoError(t, err)
	feeConfig, err := pda.FeeConfig(protocol.FeeProgramID, FeeConfigSeed)
	require.NoError(t, err)

	expected := []struct {
		key      solana.PublicKey
		writable bool
		signer   bool
	}{
		{keys.Pool, true, false},
		{testUser, true, true},
		{globalConfig, false, false},
		{keys.BaseMint, false, false},
		{keys.QuoteMint, false, false},
		{userBase, true, false},
		{userQuote, true, false},
		{poolBase, true, false},
		{poolQuote, true, false},
		{protocol.FeeRecipient, false, false},
		{feeATA, true, false},
		{solana.TokenProgramID, false, false},
		{solana.TokenProgramID, false, false},
		{solana.SystemProgramID, false, false},
		{solana.SPLAssociatedTokenAccountProgramID, false, false},
		{eventAuthority, false, false},
		{PumpSwapProgramID, false, false},
		{vaultATA, true, false},
		{vaultAuthority, false, false},
		{globalVolume, true, false},
		{userVolume, true, false},
		{feeConfig, false, false},
		{protocol.FeeProgramID, false, false},
	}
	for i, e := range expected {
		assert.Equal(t, e.key, metas[i].PublicKey, "account %d", i)
		assert.Equal(t, e.writable, metas[i].IsWritable, "writable %d", i)
		assert.Equal(t, e.signer, metas[i].IsSigner, "signer %d", i)
	}
}

func TestAmmSellAccountsSkipVolumeAccumulators(t *testing.T) {
	ix, err := BuildSellInstruction(SellParams{User: testUser, Pool: corePool(t), BaseAmountIn: 1, MinQuoteAmountOut: 1})
	require.NoError(t, err)
	metas := ix.Accounts()
	require.Len(t, metas, SellAccountsLen)

	feeConfig, err := pda.FeeConfig(protocol.FeeProgramID, FeeConfigSeed)
	require.NoError(t, err)
	assert.Equal(t, feeConfig, metas[skeletonAccountsLen].PublicKey)
	assert.Equal(t, protocol.FeeProgramID, metas[skeletonAccountsLen+1].PublicKey)
}

func TestAmmMayhemFeeRecipient(t *testing.T) {
	ix, err := BuildSellInstruction(SellParams{User: testUser, Pool: corePool(t), Mayhem: true})
	require.NoError(t, err)
	metas := ix.Accounts()
	assert.Equal(t, protocol.MayhemFeeRecipient, metas[9].PublicKey)
	assert.Equal(t, solana.TokenProgramID, metas[11].PublicKey)
	assert.Equal(t, solana.TokenProgramID, metas[12].PublicKey)
}

func TestResolveIsBuy(t *testing.T) {
	assert.True(t, resolveIsBuy(true, protocol.WSOLMint))
	assert.False(t, resolveIsBuy(false, protocol.USDCMint))
	assert.False(t, resolveIsBuy(true, testToken))
	assert.True(t, resolveIsBuy(false, testToken))
}

func TestSwapFeeRecipientIsModeSelected(t *testing.T) {
	keys := corePool(t)
	wantATA, err := pda.AssociatedTokenAddress(testProtocolFee, solana.TokenProgramID, protocol.WSOLMint)
	require.NoError(t, err)

	p, err := deriveSwapAccounts(testUser, keys, types.ModeNormal)
	require.NoError(t, err)
	assert.Equal(t, protocol.FeeRecipient, p.FeeRecipient)
	assert.Equal(t, wantATA, p.ProtocolFeeRecipientTokenAccount, "ATA follows the caller-supplied recipient")

	p, err = deriveSwapAccounts(testUser, keys, types.ModeMayhem)
	require.NoError(t, err)
	assert.Equal(t, protocol.MayhemFeeRecipient, p.FeeRecipient)
	assert.Equal(t, wantATA, p.ProtocolFeeRecipientTokenAccount)
}
