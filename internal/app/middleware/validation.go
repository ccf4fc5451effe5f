package middleware

import (
	"context"

	"rentcal/internal/app/commands"
	"rentcal/internal/app/queries"
)

// Validator checks struct tags on commands and queries. infra/validation
// returns errors matching validation.ErrInvalid with per-field messages.
type Validator interface {
	Validate(ctx context.Context, message any) error
}

// Validation rejects a command before it reaches idempotency or the engine,
// so invalid requests never claim an idempotency key.
func Validation(v Validator) CommandMiddleware {
	mustValidator(v)
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if err := v.Validate(ctx, cmd); err != nil {
				return nil, err
			}
			return next.Dispatch(ctx, cmd)
		})
	}
}

func QueryValidation(v Validator) QueryMiddleware {
	mustValidator(v)
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			if err := v.Validate(ctx, q); err != nil {
				return nil, err
			}
			return next.Ask(ctx, q)
		})
	}
}

func mustValidator(v Validator) {
	if v == nil {
		panic("middleware: validator required")
	}
}
