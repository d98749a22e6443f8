package mailer

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// Report summarizes a broadcast. Failed addresses keep recipient order.
type Report struct {
	TotalUsers           int      `json:"totalUsers"`
	SuccessfulEmails     int      `json:"successfulEmails"`
	FailedEmails         int      `json:"failedEmails"`
	FailedEmailAddresses []string `json:"failedEmailAddresses"`
}

// Broadcaster fans a message out to many recipients on a shared worker pool.
// A failed recipient never aborts the others.
type Broadcaster struct {
	sender Sender
	pool   *ants.Pool
}

// NewBroadcaster returns a broadcaster. A nil pool sends sequentially.
func NewBroadcaster(sender Sender, pool *ants.Pool) *Broadcaster {
	return &Broadcaster{sender: sender, pool: pool}
}

// Broadcast sends compose(to) to every recipient and waits for all sends.
// Once ctx is done no further sends are started; the remaining recipients
// are reported as failed.
func (b *Broadcaster) Broadcast(ctx context.Context, recipients []string, compose func(to string) Message) Report {
	errs := make([]error, len(recipients))
	var wg sync.WaitGroup

	for i, to := range recipients {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			continue
		}
		i, to := i, to
		task := func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("send panicked: %v", r)
				}
			}()
			errs[i] = b.sender.Send(ctx, compose(to))
		}
		wg.Add(1)
		if b.pool == nil {
			task()
			continue
		}
		if err := b.pool.Submit(task); err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()

	report := Report{TotalUsers: len(recipients), FailedEmailAddresses: []string{}}
	for i, err := range errs {
		if err != nil {
			zap.L().Warn("broadcast delivery failed",
				zap.String("namespace", "mailer"),
				zap.String("to", recipients[i]),
				zap.Error(err))
			report.FailedEmailAddresses = append(report.FailedEmailAddresses, recipients[i])
			continue
		}
		report.SuccessfulEmails++
	}
	report.FailedEmails = len(report.FailedEmailAddresses)
	return report
}
