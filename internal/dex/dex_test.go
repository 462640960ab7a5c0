package dex

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rovshanmuradov/pumpstream/internal/dex/pumpfun"
	"github.com/rovshanmuradov/pumpstream/internal/dex/pumpswap"
	"github.com/rovshanmuradov/pumpstream/internal/protocol"
	"github.com/rovshanmuradov/pumpstream/internal/types"
)

var (
	testUser    = solana.MustPublicKeyFromBase58("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")
	testMint    = solana.MustPublicKeyFromBase58("Ar9jb5nXLind51VTFzJr4hUoY6d6xNmwmqeuG7XQi9e3")
	testCreator = solana.MustPublicKeyFromBase58("4wTV1YmiEkRvAtNtsSGPtUrqRYQMe5SKy2uB4Jjaxnjf")
)

func TestTradeBuilderOperations(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	b := NewTradeBuilder(zap.New(core))

	pool, err := pumpswap.DerivePoolAddress(pumpswap.CanonicalPoolIndex, testCreator, testMint, protocol.WSOLMint)
	require.NoError(t, err)

	tests := []struct {
		task     Task
		accounts int
		selector types.Discriminator
	}{
		{Task{Operation: OperationBondingCurveBuy, User: testUser, Mint: testMint, Amount1: 1, Amount2: 2}, pumpfun.BuyAccountsLen, types.BuySelector},
		{Task{Operation: OperationBondingCurveSell, User: testUser, Mint: testMint, Amount1: 1, Amount2: 2}, pumpfun.SellAccountsLen, types.SellSelector},
		{Task{Operation: OperationAmmBuy, User: testUser, Pool: pool, BaseMint: testMint, QuoteMint: protocol.WSOLMint,
			CoinCreator: testCreator, ProtocolFeeRecipient: protocol.FeeRecipient, Amount1: 1, Amount2: 2}, pumpswap.BuyAccountsLen, types.BuySelector},
		{Task{Operation: OperationAmmSell, User: testUser, Pool: pool, BaseMint: testMint, QuoteMint: protocol.WSOLMint,
			CoinCreator: testCreator, ProtocolFeeRecipient: protocol.FeeRecipient, Amount1: 1, Amount2: 2}, pumpswap.SellAccountsLen, types.SellSelector},
	}

	for _, tt := range tests {
		t.Run(string(tt.task.Operation), func(t *testing.T) {
			task := tt.task
			ix, err := b.Build(&task)
			require.NoError(t, err)
			assert.Len(t, ix.Accounts(), tt.accounts)
			assert.Equal(t, tt.selector[:], ix.DataBytes[:8])
		})
	}

	assert.Equal(t, len(tests), logs.FilterMessage("Instruction built").Len())
}

func TestTradeBuilderRejectsUnknownOperation(t *testing.T) {
	b := NewTradeBuilder(nil)

	_, err := b.Build(&Task{Operation: "swap"})
	assert.Error(t, err)

	_, err = b.Build(nil)
	assert.Error(t, err)
}

func TestParseOperation(t *testing.T) {
	for _, op := range Operations {
		got, err := ParseOperation(string(op))
		require.NoError(t, err)
		assert.Equal(t, op, got)
	}

	got, err := ParseOperation(" AMM-Buy ")
	require.NoError(t, err)
	assert.Equal(t, OperationAmmBuy, got)

	_, err = ParseOperation("snipe")
	assert.Error(t, err)
}
