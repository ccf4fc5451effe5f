package middleware

import (
	"context"
	"log/slog"

	"rentcal/internal/app/commands"
	"rentcal/internal/app/outbox"
)

// OutboxFlush flushes the outbox after a command succeeds. The engine has
// already committed by then, so a flush failure is logged and the command's
// result is still returned.
func OutboxFlush(box outbox.Outbox, logger *slog.Logger) CommandMiddleware {
	if box == nil {
		panic("middleware: outbox required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := box.Flush(ctx); err != nil {
				logger.ErrorContext(ctx, "outbox flush failed", "command", cmd.Key(), "error", err)
			}
			return res, nil
		})
	}
}
