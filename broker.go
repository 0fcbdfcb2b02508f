// This file is part of the library "pulsenative".
// Please see the LICENSE file for copyright information.

package pulsenative

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// DefaultQueueSize is the default capacity of the outbound frame
// queue.
const DefaultQueueSize = 1024

// Broker owns one connection to the server. A reader goroutine
// decodes incoming frames and correlates replies to pending requests
// by tag; a writer goroutine drains the bounded outbound queue. A
// broker is single use: after any fatal event it stays closed and
// every operation returns *ConnectionClosedError.
type Broker struct {
	conn io.ReadWriteCloser
	out  chan *Frame
	log  *log.Logger

	mu        sync.Mutex
	pending   map[uint32]*PendingReply
	cancelled map[uint32]struct{}
	nextTag   uint32
	closed    bool
	cause     error

	closeOnce sync.Once
	done      chan struct{}
}

// BrokerOption configures StartBroker.
type BrokerOption func(*Broker)

// WithBrokerQueueSize bounds the outbound frame queue at n entries.
func WithBrokerQueueSize(n int) BrokerOption {
	return func(b *Broker) {
		if n > 0 {
			b.out = make(chan *Frame, n)
		}
	}
}

// WithBrokerLogger routes the broker's records to l.
func WithBrokerLogger(l *log.Logger) BrokerOption {
	return func(b *Broker) {
		if l != nil {
			b.log = l
		}
	}
}

func newBroker(conn io.ReadWriteCloser, opts ...BrokerOption) *Broker {
	b := &Broker{
		conn:      conn,
		out:       make(chan *Frame, DefaultQueueSize),
		log:       defaultLogger,
		pending:   make(map[uint32]*PendingReply),
		cancelled: make(map[uint32]struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// StartBroker runs a broker over the given connection.
func StartBroker(conn io.ReadWriteCloser, opts ...BrokerOption) *Broker {
	b := newBroker(conn, opts...)
	go b.readLoop()
	go b.writeLoop()
	return b
}

// PendingReply is the in-flight half of one request. Exactly one of
// Wait's outcomes happens: the reply body, a typed failure, or the
// broker's close cause.
type PendingReply struct {
	tag uint32
	b   *Broker
	ch  chan pendingResult
}

type pendingResult struct {
	ts  *TagStruct
	err error
}

// Tag returns the request's correlator.
func (p *PendingReply) Tag() uint32 {
	return p.tag
}

// Wait blocks until the reply arrives or ctx is done. Cancellation
// through ctx forgets the request: a reply that arrives later is
// dropped, not misdelivered.
func (p *PendingReply) Wait(ctx context.Context) (*TagStruct, error) {
	select {
	case r := <-p.ch:
		return r.ts, r.err
	case <-ctx.Done():
		p.Cancel()
		// The reader may have completed the slot before Cancel got
		// the lock; prefer the real outcome.
		select {
		case r := <-p.ch:
			return r.ts, r.err
		default:
			return nil, ctx.Err()
		}
	}
}

// Cancel forgets the request. Safe to call at any time; idempotent.
func (p *PendingReply) Cancel() {
	b := p.b
	b.mu.Lock()
	if cur, ok := b.pending[p.tag]; ok && cur == p {
		delete(b.pending, p.tag)
		if !b.closed {
			b.cancelled[p.tag] = struct{}{}
		}
	}
	b.mu.Unlock()
}

// SendCommand registers a reply slot under a fresh tag and enqueues
// the command as a command-channel frame. The slot is registered
// before the enqueue and rolled back if the enqueue fails.
func (b *Broker) SendCommand(kind CommandKind, body *TagStruct) (*PendingReply, error) {
	b.mu.Lock()
	if b.closed {
		cause := b.cause
		b.mu.Unlock()
		return nil, &ConnectionClosedError{Cause: cause}
	}
	tag, err := b.allocTagLocked()
	if err != nil {
		b.mu.Unlock()
		return nil, err
	}
	p := &PendingReply{tag: tag, b: b, ch: make(chan pendingResult, 1)}
	b.pending[tag] = p
	b.mu.Unlock()

	packet := NewTagStruct()
	putCommandHeader(packet, kind, tag)
	if body != nil {
		packet.extend(body)
	}
	frame, err := commandFrame(packet)
	if err != nil {
		b.unregister(p)
		return nil, err
	}
	if err := b.enqueue(frame); err != nil {
		b.unregister(p)
		return nil, err
	}
	return p, nil
}

// SendFrame enqueues a pre-built frame, failing fast with
// ErrQueueFull when the queue is at capacity.
func (b *Broker) SendFrame(f *Frame) error {
	if uint64(len(f.Payload)) > maxUint32 {
		return &ProtocolError{Kind: ProtoPayloadTooLarge}
	}
	b.mu.Lock()
	if b.closed {
		cause := b.cause
		b.mu.Unlock()
		return &ConnectionClosedError{Cause: cause}
	}
	b.mu.Unlock()
	return b.enqueue(f)
}

func (b *Broker) enqueue(f *Frame) error {
	select {
	case b.out <- f:
		return nil
	default:
		return ErrQueueFull
	}
}

func (b *Broker) unregister(p *PendingReply) {
	b.mu.Lock()
	if cur, ok := b.pending[p.tag]; ok && cur == p {
		delete(b.pending, p.tag)
	}
	b.mu.Unlock()
}

// allocTagLocked hands out monotonic tags, wrapping around and
// probing past tags that are still in flight. 0xFFFFFFFF is reserved
// for unsolicited server messages and is never assigned.
func (b *Broker) allocTagLocked() (uint32, error) {
	if b.nextTag == InvalidIndex {
		b.nextTag = 0
	}
	start := b.nextTag
	for {
		tag := b.nextTag
		b.nextTag++
		if b.nextTag == InvalidIndex {
			b.nextTag = 0
		}
		_, live := b.pending[tag]
		_, gone := b.cancelled[tag]
		if !live && !gone {
			return tag, nil
		}
		if b.nextTag == start {
			return 0, ErrTagSpaceExhausted
		}
	}
}

// Close shuts the broker down, failing every pending request.
func (b *Broker) Close() error {
	b.fail(errBrokerClosed)
	return nil
}

// Err returns the close cause, or nil while the broker is running.
func (b *Broker) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		return nil
	}
	return b.cause
}

// Done is closed when the broker shuts down.
func (b *Broker) Done() <-chan struct{} {
	return b.done
}

// fail is the single shutdown path: it aborts both loops, closes the
// connection and completes every pending slot exactly once with the
// close cause.
func (b *Broker) fail(cause error) {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		b.cause = cause
		drained := b.pending
		b.pending = make(map[uint32]*PendingReply)
		b.cancelled = make(map[uint32]struct{})
		b.mu.Unlock()

		close(b.done)
		b.conn.Close()

		for _, p := range drained {
			p.ch <- pendingResult{err: &ConnectionClosedError{Cause: cause}}
		}

		if cause == errBrokerClosed {
			b.log.Debug("broker closed")
		} else {
			b.log.Warn("broker shut down", "cause", cause)
		}
	})
}

func (b *Broker) writeLoop() {
	var buf []byte
	for {
		select {
		case <-b.done:
			return
		case f := <-b.out:
			var err error
			buf, err = f.appendTo(buf[:0])
			if err != nil {
				b.fail(err)
				return
			}
			if _, err := b.conn.Write(buf); err != nil {
				b.fail(fmt.Errorf("write: %w", err))
				return
			}
		}
	}
}

func (b *Broker) readLoop() {
	dec := &FrameDecoder{}
	buf := make([]byte, 32*1024)
	for {
		n, err := b.conn.Read(buf)
		if n > 0 {
			frames, derr := dec.Push(buf[:n])
			for _, f := range frames {
				if herr := b.handleFrame(f); herr != nil {
					b.fail(herr)
					return
				}
			}
			if derr != nil {
				b.fail(derr)
				return
			}
		}
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			b.fail(fmt.Errorf("read: %w", err))
			return
		}
	}
}

func (b *Broker) handleFrame(f *Frame) error {
	if !f.IsCommand() {
		// Record streams are not implemented, so no data frame is
		// expected in this direction.
		b.log.Debug("dropping data frame", "channel", f.Channel, "bytes", len(f.Payload))
		return nil
	}
	packet, err := ParseTagStruct(f.Payload)
	if err != nil {
		return err
	}
	kind, tag, err := popCommandHeader(packet)
	if err != nil {
		return err
	}
	switch {
	case kind == CommandReply:
		return b.deliver(tag, pendingResult{ts: packet})
	case kind == CommandError:
		serr := popServerError(packet)
		if _, ok := serr.(*ServerError); !ok {
			return serr
		}
		return b.deliver(tag, pendingResult{err: serr})
	case kind.isServerEvent():
		b.log.Debug("dropping server event", "command", kind, "tag", tag)
		return nil
	}
	return &ProtocolError{Kind: ProtoUnknownCommand, Command: kind}
}

// deliver completes the slot registered under tag. A tag the client
// never issued is fatal; a tag the caller cancelled is logged and
// dropped.
func (b *Broker) deliver(tag uint32, r pendingResult) error {
	b.mu.Lock()
	p, ok := b.pending[tag]
	if ok {
		delete(b.pending, tag)
		b.mu.Unlock()
		p.ch <- r
		return nil
	}
	if _, gone := b.cancelled[tag]; gone {
		delete(b.cancelled, tag)
		b.mu.Unlock()
		b.log.Debug("dropping reply for cancelled request", "tag", tag)
		return nil
	}
	b.mu.Unlock()
	return &ProtocolError{Kind: ProtoUnknownTag, Tag: tag}
}

// pendingCount reports the number of in-flight requests.
func (b *Broker) pendingCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
