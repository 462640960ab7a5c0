package events

import (
	"bytes"
	"encoding/base64"
	"testing"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rovshanmuradov/pumpstream/internal/protocol"
	"github.com/rovshanmuradov/pumpstream/internal/types"
	ubin "github.com/rovshanmuradov/pumpstream/internal/utils/binary"
)

var (
	testMint = solana.MustPublicKeyFromBase58("Ar9jb5nXLind51VTFzJr4hUoY6d6xNmwmqeuG7XQi9e3")
	testUser = solana.MustPublicKeyFromBase58("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")
	testPool = solana.MustPublicKeyFromBase58("4wTV1YmiEkRvAtNtsSGPtUrqRYQMe5SKy2uB4Jjaxnjf")
)

func payload(t *testing.T, k Kind, ev any) []byte {
	t.Helper()
	var buf bytes.Buffer
	d := k.Discriminator()
	buf.Write(d[:])
	require.NoError(t, bin.NewBorshEncoder(&buf).Encode(ev))
	return buf.Bytes()
}

func logLine(t *testing.T, k Kind, ev any) string {
	t.Helper()
	return ProgramDataPrefix + base64.StdEncoding.EncodeToString(payload(t, k, ev))
}

// recorder collects deliveries.
type recorder struct {
	NopHandler
	trades []*TradeEvent
	buys   []*BuyEvent
	ctxs   []EventContext
	kinds  []Kind
}

func (r *recorder) OnTrade(ev *TradeEvent, ctx EventContext) {
	r.trades = append(r.trades, ev)
	r.ctxs = append(r.ctxs, ctx)
	r.kinds = append(r.kinds, KindTrade)
}

func (r *recorder) OnBuy(ev *BuyEvent, ctx EventContext) {
	r.buys = append(r.buys, ev)
	r.ctxs = append(r.ctxs, ctx)
	r.kinds = append(r.kinds, KindBuy)
}

func (r *recorder) OnComplete(_ *CompleteEvent, ctx EventContext) {
	r.ctxs = append(r.ctxs, ctx)
	r.kinds = append(r.kinds, KindComplete)
}

func TestDiscriminatorsAreUnique(t *testing.T) {
	seen := map[types.Discriminator]string{
		types.BuySelector:  "buy selector",
		types.SellSelector: "sell selector",
	}
	for _, k := range Kinds() {
		d := k.Discriminator()
		prev, dup := seen[d]
		assert.False(t, dup, "%s collides with %s", k, prev)
		seen[d] = k.String()
	}
	assert.Len(t, seen, int(kindCount)+2)
}

func TestKindLookup(t *testing.T) {
	for _, k := range Kinds() {
		d := k.Discriminator()
		got, ok := KindOf(d[:])
		require.True(t, ok)
		assert.Equal(t, k, got)

		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	_, ok := KindOf([]byte{1, 2, 3})
	assert.False(t, ok)
	_, ok = KindOf(types.BuySelector[:])
	assert.False(t, ok)

	assert.Equal(t, PumpOnly, ForProgram(protocol.PumpProgramID))
	assert.Equal(t, AmmOnly, ForProgram(protocol.PumpAMMProgramID))
}

func TestKindSet(t *testing.T) {
	assert.Equal(t, 7, AllKinds.Len())
	assert.Equal(t, 0, NoKinds.Len())
	assert.Equal(t, AllKinds, PumpOnly|AmmOnly)
	assert.Equal(t, NoKinds, PumpOnly&AmmOnly)

	tests := []struct {
		in   string
		want KindSet
		err  bool
	}{
		{"", AllKinds, false},
		{"all", AllKinds, false},
		{"none", NoKinds, false},
		{"pump_only", PumpOnly, false},
		{"PumpAMM_Only", AmmOnly, false},
		{"trade, buy", NewKindSet(KindTrade, KindBuy), false},
		{"create-pool", NewKindSet(KindCreatePool), false},
		{"trade,bogus", NoKinds, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKindSet(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "pump_only", PumpOnly.String())
	assert.Equal(t, "buy,trade", NewKindSet(KindTrade, KindBuy).String())
}

func TestDispatchDeliversMostRecentFirst(t *testing.T) {
	first := &TradeEvent{Mint: testMint, SolAmount: 1, IsBuy: true, IxName: "buy"}
	last := &TradeEvent{Mint: testMint, SolAmount: 2, IsBuy: false, IxName: "sell"}

	logs := []string{
		"Program 6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P invoke [1]",
		logLine(t, KindTrade, first),
		"Program log: Instruction: Sell",
		logLine(t, KindTrade, last),
		"Program 6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P success",
	}

	rec := &recorder{}
	st := NewDispatcher().Dispatch(EventContext{Slot: 7}, logs, AllKinds, rec)

	require.Len(t, rec.trades, 1, "a kind is delivered at most once")
	assert.Equal(t, uint64(2), rec.trades[0].SolAmount)
	assert.Equal(t, "sell", rec.trades[0].IxName)
	assert.Equal(t, 1, st.Delivered)
	assert.Equal(t, 1, st.Decoded)
}

func TestDispatchAtMostOncePerKind(t *testing.T) {
	buy := &BuyEvent{Pool: testPool, User: testUser, BaseAmountOut: 10, IxName: "buy"}
	logs := []string{logLine(t, KindBuy, buy), logLine(t, KindBuy, buy)}

	rec := &recorder{}
	NewDispatcher().Dispatch(EventContext{}, logs, AllKinds, rec)
	assert.Len(t, rec.buys, 1)
}

func TestDispatchSkipsMalformedLines(t *testing.T) {
	logs := []string{
		ProgramDataPrefix + "!!!not base64!!!",
		ProgramDataPrefix + base64.StdEncoding.EncodeToString([]byte{1, 2, 3}),
		ProgramDataPrefix + base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{9}, 40)),
		ProgramDataPrefix,
		"Program log: nothing to see",
	}

	calls := 0
	h := HandlerFuncs{
		Trade: func(*TradeEvent, EventContext) { calls++ },
		Buy:   func(*BuyEvent, EventContext) { calls++ },
	}

	st := NewDispatcher().Dispatch(EventContext{}, logs, AllKinds, h)
	assert.Zero(t, calls)
	assert.Equal(t, len(logs), st.Lines)
	assert.Equal(t, 4, st.Skipped)
	assert.Zero(t, st.Delivered)
}

func TestDispatchSkipsSchemaMismatch(t *testing.T) {
	good := &TradeEvent{Mint: testMint, SolAmount: 5}

	truncated := payload(t, KindTrade, good)
	truncated = truncated[:len(truncated)-3]
	trailing := append(payload(t, KindTrade, good), 0xff)

	logs := []string{
		logLine(t, KindTrade, good),
		ProgramDataPrefix + base64.StdEncoding.EncodeToString(trailing),
		ProgramDataPrefix + base64.StdEncoding.EncodeToString(truncated),
	}

	rec := &recorder{}
	st := NewDispatcher().Dispatch(EventContext{}, logs, AllKinds, rec)

	require.Len(t, rec.trades, 1, "the valid payload further back is still delivered")
	assert.Equal(t, uint64(5), rec.trades[0].SolAmount)
	assert.Equal(t, 2, st.Skipped)
}

func TestDispatchStopsEarly(t *testing.T) {
	complete := &CompleteEvent{User: testUser, Mint: testMint, Timestamp: 1}
	trade := &TradeEvent{Mint: testMint}

	logs := []string{
		logLine(t, KindTrade, trade),
		"Program log: a",
		"Program log: b",
		logLine(t, KindComplete, complete),
	}

	rec := &recorder{}
	st := NewDispatcher().Dispatch(EventContext{}, logs, NewKindSet(KindComplete), rec)

	assert.Equal(t, []Kind{KindComplete}, rec.kinds)
	assert.Equal(t, 1, st.Lines, "scan ends once every kind of interest is delivered")

	rec = &recorder{}
	st = NewDispatcher().Dispatch(EventContext{}, logs, NewKindSet(KindComplete, KindTrade), rec)
	assert.Equal(t, []Kind{KindComplete, KindTrade}, rec.kinds)
	assert.Equal(t, len(logs), st.Lines)
}

func TestDispatchRespectsInterest(t *testing.T) {
	logs := []string{
		logLine(t, KindTrade, &TradeEvent{Mint: testMint}),
		logLine(t, KindBuy, &BuyEvent{Pool: testPool}),
	}

	rec := &recorder{}
	NewDispatcher().Dispatch(EventContext{}, logs, AmmOnly, rec)
	assert.Equal(t, []Kind{KindBuy}, rec.kinds)

	rec = &recorder{}
	st := NewDispatcher().Dispatch(EventContext{}, logs, NoKinds, rec)
	assert.Empty(t, rec.kinds)
	assert.Zero(t, st.Lines)
}

func TestDispatchContext(t *testing.T) {
	d := NewDispatcher()
	base := time.Unix(1_700_000_000, 0)
	tick := base
	d.now = func() time.Time {
		tick = tick.Add(time.Millisecond)
		return tick
	}

	logs := []string{logLine(t, KindTrade, &TradeEvent{Mint: testMint})}
	sig := solana.SignatureFromBytes(bytes.Repeat([]byte{7}, 64))

	rec := &recorder{}
	d.Dispatch(EventContext{Slot: 42, TxIndex: 3, Signature: sig, Timestamp: base}, logs, AllKinds, rec)

	require.Len(t, rec.ctxs, 1)
	ctx := rec.ctxs[0]
	assert.Equal(t, uint64(42), ctx.Slot)
	assert.Equal(t, uint64(3), ctx.TxIndex)
	assert.Equal(t, sig, ctx.Signature)
	assert.Equal(t, base, ctx.Timestamp)
	assert.Equal(t, 2*time.Millisecond, ctx.Elapsed)
}

func TestProcessRejectsBadSignature(t *testing.T) {
	d := NewDispatcher()
	calls := 0
	h := HandlerFuncs{Trade: func(*TradeEvent, EventContext) { calls++ }}
	logs := []string{logLine(t, KindTrade, &TradeEvent{Mint: testMint})}

	_, err := d.Process(Record{Signature: make([]byte, 10), Logs: logs}, AllKinds, h)
	require.ErrorIs(t, err, ErrSignatureParse)
	assert.Zero(t, calls)

	st, err := d.Process(Record{Slot: 1, Signature: make([]byte, 64), Logs: logs}, AllKinds, h)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, st.Delivered)
}

func TestDispatcherReusesScratch(t *testing.T) {
	d := NewDispatcher()
	big := &CreateEvent{Name: string(bytes.Repeat([]byte{'x'}, 4096)), Mint: testMint}
	logs := []string{logLine(t, KindCreate, big)}

	var got *CreateEvent
	h := HandlerFuncs{Create: func(ev *CreateEvent, _ EventContext) { got = ev }}
	d.Dispatch(EventContext{}, logs, AllKinds, h)

	require.NotNil(t, got)
	assert.Equal(t, big.Name, got.Name)
	grown := cap(d.scratch)
	assert.Greater(t, grown, defaultScratchSize)

	d.Dispatch(EventContext{}, logs, AllKinds, h)
	assert.Equal(t, grown, cap(d.scratch))
}

func TestDecodeEventAllKinds(t *testing.T) {
	events := map[Kind]any{
		KindCreate:     &CreateEvent{Name: "Pepe", Symbol: "PEPE", Uri: "https://x", Mint: testMint, Timestamp: 9, IsMayhemMode: true},
		KindCreateV2:   &CreateV2Event{Name: "V2", Mint: testMint, TokenProgram: solana.Token2022ProgramID},
		KindComplete:   &CompleteEvent{User: testUser, Mint: testMint, Timestamp: 1},
		KindTrade:      &TradeEvent{Mint: testMint, SolAmount: 1, TokenAmount: 2, IsBuy: true, IxName: "buy_exact_sol_in"},
		KindBuy:        &BuyEvent{Timestamp: 3, Pool: testPool, IxName: "buy"},
		KindSell:       &SellEvent{Timestamp: 4, Pool: testPool, QuoteAmountOut: 77},
		KindCreatePool: &CreatePoolEvent{Index: 1, Pool: testPool, BaseMintDecimals: 6, QuoteMintDecimals: 9},
	}

	for k, ev := range events {
		t.Run(k.String(), func(t *testing.T) {
			gotKind, got, err := DecodeEvent(payload(t, k, ev))
			require.NoError(t, err)
			assert.Equal(t, k, gotKind)
			assert.Equal(t, ev, got)
		})
	}
}

func TestDecodeEventErrors(t *testing.T) {
	_, _, err := DecodeEvent([]byte{1})
	assert.ErrorIs(t, err, ErrShortPayload)

	_, _, err = DecodeEvent(types.BuySelector[:])
	assert.ErrorIs(t, err, ErrUnknownDiscriminator)

	d := KindComplete.Discriminator()
	_, _, err = DecodeEvent(append(d[:], 1, 2, 3))
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

// Байтовая раскладка CompleteEvent собрана вручную, без Borsh-энкодера.
func TestCompleteEventLayout(t *testing.T) {
	d := KindComplete.Discriminator()
	raw := append([]byte{}, d[:]...)
	raw = append(raw, testUser[:]...)
	raw = append(raw, testMint[:]...)
	raw = append(raw, testPool[:]...)
	raw = ubin.AppendUint64LE(raw, 1_712_000_000)
	require.Len(t, raw, 8+32*3+8)

	k, ev, err := DecodeEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, KindComplete, k)

	complete := ev.(*CompleteEvent)
	assert.Equal(t, testUser, complete.User)
	assert.Equal(t, testMint, complete.Mint)
	assert.Equal(t, testPool, complete.BondingCurve)
	assert.Equal(t, int64(1_712_000_000), complete.Timestamp)
}

func TestBusFanOut(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t))

	var a, b int
	subA := bus.SubscribeFuncs(NewKindSet(KindTrade), HandlerFuncs{Trade: func(*TradeEvent, EventContext) { a++ }})
	bus.SubscribeFuncs(AllKinds, HandlerFuncs{
		Trade: func(*TradeEvent, EventContext) { b++ },
		Buy:   func(*BuyEvent, EventContext) { b++ },
	})
	require.Equal(t, 2, bus.Len())
	assert.NotEmpty(t, subA.ID())
	assert.Equal(t, AllKinds, bus.Kinds())

	logs := []string{
		logLine(t, KindTrade, &TradeEvent{Mint: testMint}),
		logLine(t, KindBuy, &BuyEvent{Pool: testPool}),
	}
	d := NewDispatcher()
	d.Dispatch(EventContext{}, logs, bus.Kinds(), bus)
	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)

	subA.Unsubscribe()
	subA.Unsubscribe()
	assert.Equal(t, 1, bus.Len())

	d.Dispatch(EventContext{}, logs, bus.Kinds(), bus)
	assert.Equal(t, 1, a)
	assert.Equal(t, 4, b)
}

func TestFilteredHandler(t *testing.T) {
	rec := &recorder{}
	h := FilteredHandler{Kinds: NewKindSet(KindBuy), Next: rec}

	logs := []string{
		logLine(t, KindTrade, &TradeEvent{Mint: testMint}),
		logLine(t, KindBuy, &BuyEvent{Pool: testPool}),
	}
	NewDispatcher().Dispatch(EventContext{}, logs, AllKinds, h)
	assert.Equal(t, []Kind{KindBuy}, rec.kinds)
}

func TestLoggingHandler(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := NewLoggingHandler(zap.New(core))

	h.OnTrade(&TradeEvent{Mint: testMint, SolAmount: 1_500_000_000, TokenAmount: 2_000_000, IsBuy: true}, EventContext{Slot: 5})

	entries := logs.FilterMessage("Bonding curve trade").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "1.5", fields["sol"])
	assert.Equal(t, "2", fields["tokens"])
	assert.Equal(t, "buy", fields["side"])
	assert.Equal(t, uint64(5), fields["slot"])
}

func TestStatsAdd(t *testing.T) {
	var total Stats
	total.Add(Stats{Lines: 3, Decoded: 2, Skipped: 1, Delivered: 2, Elapsed: time.Millisecond})
	total.Add(Stats{Lines: 1, Decoded: 1, Delivered: 1, Elapsed: time.Millisecond})

	assert.Equal(t, Stats{Lines: 4, Decoded: 3, Skipped: 1, Delivered: 3, Elapsed: 2 * time.Millisecond}, total)
}
