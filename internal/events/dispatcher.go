// internal/events/dispatcher.go
package events

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/pumpstream/internal/utils/binary"
)

// ProgramDataPrefix marks log lines that carry a base64 event payload.
const ProgramDataPrefix = "Program data: "

// ErrSignatureParse is returned by Process when the record signature is not 64 bytes.
var ErrSignatureParse = errors.New("invalid transaction signature")

const defaultScratchSize = 1024

// Record is one transaction as delivered by the stream.
type Record struct {
	Slot      uint64
	TxIndex   uint64
	Signature []byte
	Logs      []string
}

// Stats summarises a single dispatch call.
type Stats struct {
	Lines     int // lines inspected
	Decoded   int // payloads with a known discriminator and a valid body
	Skipped   int // program data lines dropped (bad base64, short, unknown, bad body)
	Delivered int
	Elapsed   time.Duration
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Lines += o.Lines
	s.Decoded += o.Decoded
	s.Skipped += o.Skipped
	s.Delivered += o.Delivered
	s.Elapsed += o.Elapsed
}

// Dispatcher decodes transaction logs and invokes a Handler.
//
// A Dispatcher owns a scratch buffer and is NOT safe for concurrent use:
// create one per goroutine. Handlers may be shared.
type Dispatcher struct {
	scratch []byte
	now     func() time.Time
}

// NewDispatcher creates a dispatcher with its own scratch buffer.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		scratch: make([]byte, 0, defaultScratchSize),
		now:     time.Now,
	}
}

// Dispatch scans logs from last to first and delivers every kind in interest at most once.
// Malformed lines are skipped. Scanning stops as soon as all kinds of interest were delivered.
func (d *Dispatcher) Dispatch(base EventContext, logs []string, interest KindSet, h Handler) Stats {
	start := d.now()
	if base.Timestamp.IsZero() {
		base.Timestamp = start
	}

	var st Stats
	var delivered KindSet
	want := interest & AllKinds

	for i := len(logs) - 1; i >= 0 && delivered != want; i-- {
		st.Lines++

		payload, ok := strings.CutPrefix(logs[i], ProgramDataPrefix)
		if !ok {
			continue
		}

		buf, err := binary.DecodeBase64(d.scratch, payload)
		if cap(buf) > cap(d.scratch) {
			d.scratch = buf[:0]
		}
		if err != nil || len(buf) < 8 {
			st.Skipped++
			continue
		}

		k, ok := KindOf(buf[:8])
		if !ok {
			st.Skipped++
			continue
		}
		if !want.Has(k) || delivered.Has(k) {
			continue
		}

		ev := newEvent(k)
		if err := decodeBody(buf[8:], ev); err != nil {
			st.Skipped++
			continue
		}
		st.Decoded++

		ctx := base
		ctx.Elapsed = d.now().Sub(base.Timestamp)
		deliver(h, ev, ctx)

		delivered = delivered.With(k)
		st.Delivered++
	}

	st.Elapsed = d.now().Sub(start)
	return st
}

// Process converts a stream record into a context and dispatches its logs.
func (d *Dispatcher) Process(rec Record, interest KindSet, h Handler) (Stats, error) {
	if len(rec.Signature) != solana.SignatureLength {
		return Stats{}, fmt.Errorf("%w: got %d bytes", ErrSignatureParse, len(rec.Signature))
	}

	base := EventContext{
		Slot:      rec.Slot,
		TxIndex:   rec.TxIndex,
		Signature: solana.SignatureFromBytes(rec.Signature),
		Timestamp: d.now(),
	}
	return d.Dispatch(base, rec.Logs, interest, h), nil
}
