package mutation

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/validation"
)

// Register creates an account from a sign-up form.
//
// The email lookup is only a fast path for the common case. Two concurrent
// registrations can both pass it; the store's unique index decides the winner
// and the loser fails with DuplicateEmail.
func (p *Pipeline) Register(ctx context.Context, form validation.Fields) Result {
	var reg validation.Registration

	return p.run(ctx, step{
		op: OpRegister,
		validate: func() validation.FieldErrors {
			var errs validation.FieldErrors
			reg, errs = p.v.Registration(form)
			return errs
		},
		execute: func(ctx context.Context, res *Result) error {
			_, found, err := p.users.FindByEmail(ctx, reg.Email)
			if err != nil {
				return err
			}
			if found {
				return domain.ErrDuplicateEmail(nil)
			}

			hash, err := p.hasher.Hash(reg.Password)
			if err != nil {
				var de *domain.Error
				if errors.As(err, &de) {
					return err
				}
				return domain.ErrHashFailed(err)
			}

			created, err := p.users.Create(ctx, domain.User{
				ID:           uuid.NewString(),
				Name:         reg.Name,
				Email:        reg.Email,
				PasswordHash: hash,
			})
			if err != nil {
				return err
			}

			created.PasswordHash = ""
			res.User = &created
			res.Message = MsgUserCreated
			return nil
		},
		signal: func(*Result) Signal {
			return Signal{Redirect: RedirectAfterRegister}
		},
		event: func(res *Result) (string, any) {
			return RoutingUserRegistered, UserRegisteredPayload{UserID: res.User.ID, Email: res.User.Email}
		},
	})
}
