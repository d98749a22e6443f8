// Package mailertest provides an in-memory mailer.Sender for tests.
package mailertest

import (
	"context"
	"errors"
	"sync"

	"github.com/merabestie/sellerhub/internal/mailer"
)

// ErrRejected is returned for recipients registered with FailFor.
var ErrRejected = errors.New("550 mailbox unavailable")

// Recorder keeps every delivered message and fails selected recipients.
type Recorder struct {
	mu      sync.Mutex
	sent    []mailer.Message
	failTo  map[string]bool
	failAll error
}

func NewRecorder() *Recorder {
	return &Recorder{failTo: make(map[string]bool)}
}

// FailFor makes sends to the given addresses return ErrRejected.
func (r *Recorder) FailFor(addrs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range addrs {
		r.failTo[a] = true
	}
}

// FailAll makes every send return err; nil restores delivery.
func (r *Recorder) FailAll(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failAll = err
}

func (r *Recorder) Send(ctx context.Context, msg mailer.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return r.failAll
	}
	if r.failTo[msg.To] {
		return ErrRejected
	}
	r.sent = append(r.sent, msg)
	return nil
}

// Sent returns a copy of the delivered messages.
func (r *Recorder) Sent() []mailer.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mailer.Message(nil), r.sent...)
}

// SentTo returns delivered messages addressed to addr.
func (r *Recorder) SentTo(addr string) []mailer.Message {
	var out []mailer.Message
	for _, m := range r.Sent() {
		if m.To == addr {
			out = append(out, m)
		}
	}
	return out
}
