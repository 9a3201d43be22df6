package inmemdb

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/tathmini/core/admin"
)

type adminRepository struct {
	db *adminTable
}

var _ admin.Repository = (*adminRepository)(nil) // interface compliance check

func NewAdminRepository(db *DB) *adminRepository {
	return &adminRepository{db: db.admin}
}

func (repo *adminRepository) CreateAdmin(_ context.Context, adm admin.Admin) (admin.Admin, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, a := range repo.db.table {
		if strings.EqualFold(a.Email, adm.Email) {
			return admin.Admin{}, admin.ErrEmailExists
		}
	}

	adm.ID = uuid.New().String()
	now := time.Now().UTC()
	adm.CreatedAt = now
	adm.UpdatedAt = now
	repo.db.table[adm.ID] = &adm
	return adm, nil
}

func (repo *adminRepository) GetAdmin(_ context.Context, filter admin.GetFilter) (admin.Admin, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if filter.ID != "" {
		if adm, ok := repo.db.table[filter.ID]; ok {
			return *adm, nil
		}
		return admin.Admin{}, admin.ErrNotFound
	}
	if filter.Email != "" {
		for _, adm := range repo.db.table {
			if strings.EqualFold(adm.Email, filter.Email) {
				return *adm, nil
			}
		}
	}
	return admin.Admin{}, admin.ErrNotFound
}

func (repo *adminRepository) UpdateAdmin(_ context.Context, adm admin.Admin) (admin.Admin, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// only save set fields
	orig, ok := repo.db.table[adm.ID]
	if !ok {
		return admin.Admin{}, admin.ErrNotFound
	}
	if adm.Name != "" {
		orig.Name = adm.Name
	}
	if adm.Email != "" {
		orig.Email = adm.Email
	}
	if adm.IsActive != nil {
		orig.IsActive = adm.IsActive
	}
	if adm.PasswordHash != nil {
		orig.PasswordHash = adm.PasswordHash
	}
	if !adm.LastLogin.IsZero() {
		orig.LastLogin = adm.LastLogin
	}
	orig.UpdatedAt = time.Now().UTC()

	repo.db.table[adm.ID] = orig
	return *orig, nil
}

func (repo *adminRepository) UpdateOrCreateAdmin(ctx context.Context, adm admin.Admin) (admin.Admin, error) {
	orig, err := repo.GetAdmin(ctx, admin.GetFilter{Email: adm.Email})
	if err != nil {
		if err == admin.ErrNotFound {
			return repo.CreateAdmin(ctx, adm)
		}
		return admin.Admin{}, err
	}
	adm.ID = orig.ID
	return repo.UpdateAdmin(ctx, adm)
}
