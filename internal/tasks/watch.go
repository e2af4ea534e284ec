package tasks

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultWatchInterval paces [Pipeline.Watch] when no interval is given.
const DefaultWatchInterval = 24 * time.Hour

// Watch runs the pipeline immediately and then once per interval until ctx is done.
//
// Every tick is an independent run: a failed run is logged and handed to onRun, and the loop continues.
// onRun may be nil. Watch returns ctx.Err().
func (p *Pipeline) Watch(ctx context.Context, interval time.Duration, onRun func(*Report, error)) error {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	p.logger.Info("watching source", "url", p.sourceURL, "interval", interval)

	for {
		if err := limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Wait also fails when the next token lies past ctx's deadline.
			<-ctx.Done()
			return ctx.Err()
		}

		report, err := p.Run(ctx, nil)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.Error("sync run failed", "error", err)
		}
		if onRun != nil {
			onRun(report, err)
		}
	}
}
