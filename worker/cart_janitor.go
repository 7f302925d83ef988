package worker

import (
	"context"
	"time"

	"storefront/libs"
)

type CartPurger interface {
	PurgeExpired(ctx context.Context, ttl time.Duration) (int64, error)
}

// CartJanitor deletes carts older than TTL every Interval.
type CartJanitor struct {
	carts    CartPurger
	TTL      time.Duration
	Interval time.Duration
	log      *libs.Logger
}

func NewCartJanitor(carts CartPurger, ttl, interval time.Duration, log *libs.Logger) *CartJanitor {
	if log == nil {
		log = libs.NewNopLogger()
	}
	return &CartJanitor{carts: carts, TTL: ttl, Interval: interval, log: log.With("worker", "cart_janitor")}
}

func (j *CartJanitor) Run(ctx context.Context) {
	j.Sweep(ctx)

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

func (j *CartJanitor) Sweep(ctx context.Context) int64 {
	n, err := j.carts.PurgeExpired(ctx, j.TTL)
	if err != nil {
		if ctx.Err() == nil {
			j.log.Warn("cart sweep failed", "error", err)
		}
		return 0
	}
	if n > 0 {
		j.log.Info("expired carts deleted", "count", n)
	}
	return n
}
