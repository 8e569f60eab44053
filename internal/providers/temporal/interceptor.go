package temporal

import (
	"context"

	"github.com/getsentry/sentry-go"
	"go.temporal.io/sdk/interceptor"
)

// NewSentryActivityInterceptor returns a worker interceptor that gives
// every activity execution its own sentry hub, so context-aware logging
// inside activities reaches sentry with per-run scope.
func NewSentryActivityInterceptor() interceptor.WorkerInterceptor {
	return &sentryWorkerInterceptor{}
}

type sentryWorkerInterceptor struct {
	interceptor.WorkerInterceptorBase
}

func (s *sentryWorkerInterceptor) InterceptActivity(ctx context.Context, next interceptor.ActivityInboundInterceptor) interceptor.ActivityInboundInterceptor {
	return &sentryActivityInbound{
		ActivityInboundInterceptorBase: interceptor.ActivityInboundInterceptorBase{Next: next},
	}
}

type sentryActivityInbound struct {
	interceptor.ActivityInboundInterceptorBase
}

func (s *sentryActivityInbound) ExecuteActivity(ctx context.Context, in *interceptor.ExecuteActivityInput) (interface{}, error) {
	hub := sentry.CurrentHub().Clone()
	ctx = sentry.SetHubOnContext(ctx, hub)
	return s.Next.ExecuteActivity(ctx, in)
}
