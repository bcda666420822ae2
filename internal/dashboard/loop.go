package dashboard

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

var ErrStopped = errors.New("dashboard is not running")

type request struct {
	cmd   Command
	reply chan result
}

type result struct {
	out Outcome
	err error
}

// Run is the dashboard's single logical thread. Submitted commands and feed
// ticks are handled one at a time until ctx is done; the feed is stopped on
// return. Run may only be called once.
func (d *Dashboard) Run(ctx context.Context) error {
	started := false
	d.runOnce.Do(func() { started = true })
	if !started {
		return errors.New("dashboard already ran")
	}
	defer close(d.done)
	defer d.sched.Stop()

	d.log.Info("dashboard loop started")
	for {
		select {
		case <-ctx.Done():
			d.log.Info("dashboard loop stopped")
			return nil
		case req := <-d.requests:
			out, err := d.Handle(req.cmd)
			req.reply <- result{out: out, err: err}
		case <-d.sched.C():
			if _, err := d.Handle(Command{Kind: Tick}); err != nil {
				d.log.Error("tick failed", zap.Error(err))
			}
		}
	}
}

// Submit hands cmd to the Run loop and waits for its outcome. Tick cannot be
// submitted.
func (d *Dashboard) Submit(ctx context.Context, cmd Command) (Outcome, error) {
	if cmd.Kind == Tick {
		return Outcome{}, errors.Wrap(ErrInvalidCommand, "tick is internal")
	}
	if err := cmd.Validate(); err != nil {
		return Outcome{}, err
	}

	req := request{cmd: cmd, reply: make(chan result, 1)}
	select {
	case d.requests <- req:
	case <-d.done:
		return Outcome{}, ErrStopped
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}

	select {
	case res := <-req.reply:
		return res.out, res.err
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}
