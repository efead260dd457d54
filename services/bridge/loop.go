package bridge

import (
	"context"
	"time"
)

// Run drives both cadences until ctx is cancelled. Firmware passes a
// context that is never cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	b.log.Infof("bridge running: target=%s control=%s telemetry=%s",
		b.target.Get(), b.ctl.Every, b.tel.Every)

	idle := time.NewTimer(time.Hour)
	defer idle.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ranCtl, ranTel := b.Step(); ranCtl || ranTel {
			continue
		}

		// Nothing was due: sleep until the nearer deadline instead of spinning.
		now := b.now()
		wait := b.ctl.Remaining(now)
		if r := b.tel.Remaining(now); r < wait {
			wait = r
		}
		if wait <= 0 {
			continue
		}
		resetTimer(idle, wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-idle.C:
		}
	}
}

// Step runs one loop iteration: the control step if its cadence is due,
// then the telemetry step if its cadence is due. Each cadence is reset
// after its work completes.
func (b *Bridge) Step() (ranControl, ranTelemetry bool) {
	if b.ctl.Due(b.now()) {
		b.pollControl()
		b.ctl.Reset(b.now())
		ranControl = true
	}
	if b.tel.Due(b.now()) {
		b.pollPress()
		b.tel.Reset(b.now())
		ranTelemetry = true
	}
	return ranControl, ranTelemetry
}

// resetTimer safely stops, drains, and resets a timer.
func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
