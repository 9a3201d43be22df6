package authsvc

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/tathmini/core"
	"github.com/trezcool/tathmini/core/admin"
)

// localService checks credentials against locally stored bcrypt hashes.
// Used in DEV and TEST where no hosted auth service is reachable.
type localService struct {
	repo admin.Repository
}

var _ core.Authenticator = (*localService)(nil)

func NewLocalService(repo admin.Repository) *localService {
	return &localService{repo: repo}
}

func (svc localService) VerifyCredential(ctx context.Context, email, credential string) (core.Identity, error) {
	adm, err := svc.repo.GetAdmin(ctx, admin.GetFilter{Email: core.CleanString(email, true /* lower */)})
	if err != nil {
		if errors.Cause(err) == admin.ErrNotFound {
			return core.Identity{}, core.ErrVerificationFailed
		}
		return core.Identity{}, errors.Wrap(err, "finding admin")
	}
	if err = adm.CheckPassword(credential); err != nil {
		return core.Identity{}, core.ErrVerificationFailed
	}
	return core.Identity{ID: adm.ID, Email: adm.Email}, nil
}
