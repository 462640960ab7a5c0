// internal/events/decode.go
package events

import (
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
)

var (
	// ErrUnknownDiscriminator means the payload tag is not one of the known kinds.
	ErrUnknownDiscriminator = errors.New("unknown event discriminator")
	// ErrSchemaMismatch means the body did not parse against the expected layout.
	ErrSchemaMismatch = errors.New("event body does not match schema")
	// ErrShortPayload means fewer than 8 bytes were given.
	ErrShortPayload = errors.New("payload shorter than discriminator")
)

// newEvent returns a pointer to a zero event of kind k.
func newEvent(k Kind) any {
	switch k {
	case KindCreate:
		return new(CreateEvent)
	case KindCreateV2:
		return new(CreateV2Event)
	case KindComplete:
		return new(CompleteEvent)
	case KindTrade:
		return new(TradeEvent)
	case KindBuy:
		return new(BuyEvent)
	case KindSell:
		return new(SellEvent)
	case KindCreatePool:
		return new(CreatePoolEvent)
	default:
		return nil
	}
}

// decodeBody decodes body into v. The whole body must be consumed.
func decodeBody(body []byte, v any) error {
	dec := bin.NewBorshDecoder(body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	if dec.HasRemaining() {
		return fmt.Errorf("%w: %d trailing bytes", ErrSchemaMismatch, dec.Remaining())
	}
	return nil
}

// DecodeEvent decodes a single discriminator-prefixed payload.
// The returned value is a pointer to one of the event structs.
func DecodeEvent(data []byte) (Kind, any, error) {
	if len(data) < 8 {
		return 0, nil, ErrShortPayload
	}
	k, ok := KindOf(data[:8])
	if !ok {
		return 0, nil, fmt.Errorf("%w: %x", ErrUnknownDiscriminator, data[:8])
	}

	ev := newEvent(k)
	if err := decodeBody(data[8:], ev); err != nil {
		return k, nil, fmt.Errorf("decode %s: %w", k, err)
	}
	return k, ev, nil
}
