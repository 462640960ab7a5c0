// internal/events/handler.go
package events

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// EventContext describes where and when an event was seen.
type EventContext struct {
	Slot      uint64
	TxIndex   uint64
	Signature solana.Signature
	// Timestamp is taken when dispatching of the transaction started.
	Timestamp time.Time
	// Elapsed is the time from Timestamp to the handler call.
	Elapsed time.Duration
}

// Handler receives decoded events. Implementations shared across listeners
// must be safe for concurrent use.
type Handler interface {
	OnCreate(ev *CreateEvent, ctx EventContext)
	OnCreateV2(ev *CreateV2Event, ctx EventContext)
	OnComplete(ev *CompleteEvent, ctx EventContext)
	OnTrade(ev *TradeEvent, ctx EventContext)
	OnBuy(ev *BuyEvent, ctx EventContext)
	OnSell(ev *SellEvent, ctx EventContext)
	OnCreatePool(ev *CreatePoolEvent, ctx EventContext)
}

// NopHandler implements Handler with no-ops. Embed it and override what you need.
type NopHandler struct{}

func (NopHandler) OnCreate(*CreateEvent, EventContext)         {}
func (NopHandler) OnCreateV2(*CreateV2Event, EventContext)     {}
func (NopHandler) OnComplete(*CompleteEvent, EventContext)     {}
func (NopHandler) OnTrade(*TradeEvent, EventContext)           {}
func (NopHandler) OnBuy(*BuyEvent, EventContext)               {}
func (NopHandler) OnSell(*SellEvent, EventContext)             {}
func (NopHandler) OnCreatePool(*CreatePoolEvent, EventContext) {}

// HandlerFuncs is a Handler built from optional callbacks; nil fields are skipped.
type HandlerFuncs struct {
	Create     func(*CreateEvent, EventContext)
	CreateV2   func(*CreateV2Event, EventContext)
	Complete   func(*CompleteEvent, EventContext)
	Trade      func(*TradeEvent, EventContext)
	Buy        func(*BuyEvent, EventContext)
	Sell       func(*SellEvent, EventContext)
	CreatePool func(*CreatePoolEvent, EventContext)
}

func (h HandlerFuncs) OnCreate(ev *CreateEvent, ctx EventContext) {
	if h.Create != nil {
		h.Create(ev, ctx)
	}
}

func (h HandlerFuncs) OnCreateV2(ev *CreateV2Event, ctx EventContext) {
	if h.CreateV2 != nil {
		h.CreateV2(ev, ctx)
	}
}

func (h HandlerFuncs) OnComplete(ev *CompleteEvent, ctx EventContext) {
	if h.Complete != nil {
		h.Complete(ev, ctx)
	}
}

func (h HandlerFuncs) OnTrade(ev *TradeEvent, ctx EventContext) {
	if h.Trade != nil {
		h.Trade(ev, ctx)
	}
}

func (h HandlerFuncs) OnBuy(ev *BuyEvent, ctx EventContext) {
	if h.Buy != nil {
		h.Buy(ev, ctx)
	}
}

func (h HandlerFuncs) OnSell(ev *SellEvent, ctx EventContext) {
	if h.Sell != nil {
		h.Sell(ev, ctx)
	}
}

func (h HandlerFuncs) OnCreatePool(ev *CreatePoolEvent, ctx EventContext) {
	if h.CreatePool != nil {
		h.CreatePool(ev, ctx)
	}
}

// deliver routes a decoded event to the matching handler method.
func deliver(h Handler, ev any, ctx EventContext) {
	switch e := ev.(type) {
	case *CreateEvent:
		h.OnCreate(e, ctx)
	case *CreateV2Event:
		h.OnCreateV2(e, ctx)
	case *CompleteEvent:
		h.OnComplete(e, ctx)
	case *TradeEvent:
		h.OnTrade(e, ctx)
	case *BuyEvent:
		h.OnBuy(e, ctx)
	case *SellEvent:
		h.OnSell(e, ctx)
	case *CreatePoolEvent:
		h.OnCreatePool(e, ctx)
	}
}

// FilteredHandler forwards only kinds in Kinds to Next.
type FilteredHandler struct {
	Kinds KindSet
	Next  Handler
}

func (f FilteredHandler) OnCreate(ev *CreateEvent, ctx EventContext) {
	if f.Kinds.Has(KindCreate) {
		f.Next.OnCreate(ev, ctx)
	}
}

func (f FilteredHandler) OnCreateV2(ev *CreateV2Event, ctx EventContext) {
	if f.Kinds.Has(KindCreateV2) {
		f.Next.OnCreateV2(ev, ctx)
	}
}

func (f FilteredHandler) OnComplete(ev *CompleteEvent, ctx EventContext) {
	if f.Kinds.Has(KindComplete) {
		f.Next.OnComplete(ev, ctx)
	}
}

func (f FilteredHandler) OnTrade(ev *TradeEvent, ctx EventContext) {
	if f.Kinds.Has(KindTrade) {
		f.Next.OnTrade(ev, ctx)
	}
}

func (f FilteredHandler) OnBuy(ev *BuyEvent, ctx EventContext) {
	if f.Kinds.Has(KindBuy) {
		f.Next.OnBuy(ev, ctx)
	}
}

func (f FilteredHandler) OnSell(ev *SellEvent, ctx EventContext) {
	if f.Kinds.Has(KindSell) {
		f.Next.OnSell(ev, ctx)
	}
}

func (f FilteredHandler) OnCreatePool(ev *CreatePoolEvent, ctx EventContext) {
	if f.Kinds.Has(KindCreatePool) {
		f.Next.OnCreatePool(ev, ctx)
	}
}
