package admin

import (
	"context"
	stderrs "errors"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/tathmini/core"
)

var (
	// errors
	ErrNotFound           = stderrs.New("admin not found")
	ErrAccountDeactivated = stderrs.New("account deactivated")
	ErrEmailExists        = stderrs.New("an admin with this email already exists")
)

type (
	Repository interface {
		CreateAdmin(ctx context.Context, adm Admin) (Admin, error)
		GetAdmin(ctx context.Context, filter GetFilter) (Admin, error)
		// UpdateAdmin only saves set fields.
		UpdateAdmin(ctx context.Context, adm Admin) (Admin, error)
		UpdateOrCreateAdmin(ctx context.Context, adm Admin) (Admin, error)
	}

	ServiceInterface interface {
		// Authenticate runs the two-step login check: registry lookup by
		// email, then credential verification delegated to the Authenticator.
		// Callers must surface ErrNotFound and core.ErrVerificationFailed
		// with one and the same message.
		Authenticate(ctx context.Context, email, credential string) (Admin, error)
		GetByID(ctx context.Context, id string) (Admin, error)
		GetByEmail(ctx context.Context, email string) (Admin, error)
	}

	Service struct {
		repo  Repository
		authn core.Authenticator
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, authn core.Authenticator) *Service {
	return &Service{repo: repo, authn: authn}
}

func (svc *Service) Authenticate(ctx context.Context, email, credential string) (Admin, error) {
	adm, err := svc.GetByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Admin{}, ErrNotFound
		}
		return Admin{}, errors.Wrap(err, "finding admin by email")
	}

	if _, err = svc.authn.VerifyCredential(ctx, adm.Email, credential); err != nil {
		if errors.Cause(err) == core.ErrVerificationFailed {
			return Admin{}, core.ErrVerificationFailed
		}
		return Admin{}, errors.Wrap(err, "verifying credential")
	}

	if adm.IsActive != nil && !*adm.IsActive {
		return Admin{}, ErrAccountDeactivated
	}

	adm, err = svc.setLastLogin(ctx, adm)
	if err != nil {
		return Admin{}, errors.Wrap(err, "setting lastLogin")
	}
	return adm, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Admin, error) {
	return svc.repo.GetAdmin(ctx, GetFilter{ID: id})
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Admin, error) {
	return svc.repo.GetAdmin(ctx, GetFilter{Email: core.CleanString(email, true /* lower */)})
}

func (svc *Service) setLastLogin(ctx context.Context, adm Admin) (Admin, error) {
	adm.LastLogin = time.Now().UTC()
	return svc.repo.UpdateAdmin(ctx, Admin{ID: adm.ID, LastLogin: adm.LastLogin})
}
