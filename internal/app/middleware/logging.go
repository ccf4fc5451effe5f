package middleware

import (
	"context"
	"log/slog"
	"time"

	"rentcal/internal/app/commands"
	"rentcal/internal/app/queries"
)

// Logging records every command with its outcome and duration.
func Logging(logger *slog.Logger) CommandMiddleware {
	if logger == nil {
		panic("middleware: logger required")
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			start := time.Now()
			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				logger.InfoContext(ctx, "command failed", "command", cmd.Key(), "duration", time.Since(start), "error", err)
				return nil, err
			}
			logger.DebugContext(ctx, "command handled", "command", cmd.Key(), "duration", time.Since(start))
			return res, nil
		})
	}
}

func QueryLogging(logger *slog.Logger) QueryMiddleware {
	if logger == nil {
		panic("middleware: logger required")
	}
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := next.Ask(ctx, q)
			if err != nil {
				logger.InfoContext(ctx, "query failed", "query", q.Key(), "duration", time.Since(start), "error", err)
				return nil, err
			}
			logger.DebugContext(ctx, "query handled", "query", q.Key(), "duration", time.Since(start))
			return res, nil
		})
	}
}
