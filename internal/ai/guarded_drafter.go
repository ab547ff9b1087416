package ai

import (
	"context"
	"time"

	"github.com/shinyyama/social-inbox/internal/model"
	"github.com/shinyyama/social-inbox/internal/reqctx"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// GuardedDrafter rate-limits and circuit-breaks a remote generator, falling
// back to another generator when the remote one is unavailable.
type GuardedDrafter struct {
	primary  DraftGenerator
	fallback DraftGenerator
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker
	log      *zap.Logger
}

type GuardOptions struct {
	PerMinute      int
	BreakerTimeout time.Duration
	// Fallback is used when the primary fails; nil surfaces the error.
	Fallback DraftGenerator
}

func NewGuardedDrafter(primary DraftGenerator, opts GuardOptions, log *zap.Logger) *GuardedDrafter {
	if log == nil {
		log = zap.NewNop()
	}
	limit := rate.Inf
	burst := 1
	if opts.PerMinute > 0 {
		limit = rate.Limit(float64(opts.PerMinute) / 60.0)
		burst = opts.PerMinute
	}
	timeout := opts.BreakerTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "draft-generator",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("draft breaker state change", zap.String("breaker", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})
	return &GuardedDrafter{
		primary:  primary,
		fallback: opts.Fallback,
		limiter:  rate.NewLimiter(limit, burst),
		breaker:  breaker,
		log:      log,
	}
}

func (g *GuardedDrafter) Draft(ctx context.Context, msg *model.Message, cfg *model.AIConfiguration) (string, error) {
	text, err := g.draftPrimary(ctx, msg, cfg)
	if err == nil {
		return text, nil
	}
	if g.fallback == nil || ctx.Err() != nil {
		return "", err
	}
	g.log.Info("draft falling back", append(reqctx.Fields(ctx), zap.Error(err))...)
	return g.fallback.Draft(ctx, msg, cfg)
}

func (g *GuardedDrafter) draftPrimary(ctx context.Context, msg *model.Message, cfg *model.AIConfiguration) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}
	out, err := g.breaker.Execute(func() (interface{}, error) {
		return g.primary.Draft(ctx, msg, cfg)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// State reports the breaker state, e.g. for health output.
func (g *GuardedDrafter) State() string {
	return g.breaker.State().String()
}
