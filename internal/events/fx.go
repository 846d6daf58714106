package events

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("events",
	fx.Provide(NewOutbox),
	fx.Provide(DefaultRetentionConfig),
	fx.Provide(NewRetentionWorker),
	fx.Invoke(runRetention),
)

func runRetention(lc fx.Lifecycle, worker *RetentionWorker) {
	runCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go worker.RunForever(runCtx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
