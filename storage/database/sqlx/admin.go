package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tathmini/core/admin"
)

type dbAdmin struct {
	ID           string      `db:"id"`
	Name         null.String `db:"name"`
	Email        null.String `db:"email"`
	IsActive     null.Bool   `db:"is_active"`
	PasswordHash null.Bytes  `db:"password_hash"`
	CreatedAt    null.Time   `db:"created_at"`
	UpdatedAt    null.Time   `db:"updated_at"`
	LastLogin    null.Time   `db:"last_login"`
}

type adminRepository struct {
	db *sqlx.DB
}

var _ admin.Repository = (*adminRepository)(nil) // interface compliance check

func NewAdminRepository(db *sql.DB) *adminRepository {
	return &adminRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo adminRepository) pack(adm admin.Admin) dbAdmin {
	a := dbAdmin{
		Name:         null.NewString(adm.Name, adm.Name != ""),
		Email:        null.NewString(adm.Email, adm.Email != ""),
		IsActive:     null.BoolFromPtr(adm.IsActive),
		PasswordHash: null.NewBytes(adm.PasswordHash, adm.PasswordHash != nil),
		CreatedAt:    null.NewTime(adm.CreatedAt.UTC(), !adm.CreatedAt.IsZero()),
		UpdatedAt:    null.NewTime(adm.UpdatedAt.UTC(), !adm.UpdatedAt.IsZero()),
		LastLogin:    null.NewTime(adm.LastLogin.UTC(), !adm.LastLogin.IsZero()),
	}
	if adm.ID != "" {
		a.ID = adm.ID
	}
	return a
}

func (repo adminRepository) unpack(adm dbAdmin) admin.Admin {
	return admin.Admin{
		ID:           adm.ID,
		Name:         adm.Name.String,
		Email:        adm.Email.String,
		IsActive:     adm.IsActive.Ptr(),
		PasswordHash: adm.PasswordHash.Bytes,
		CreatedAt:    adm.CreatedAt.Time,
		UpdatedAt:    adm.UpdatedAt.Time,
		LastLogin:    adm.LastLogin.Time,
	}
}

// trapNoRowsErr maps psql "no rows" err to admin.ErrNotFound
func (repo adminRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return admin.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo adminRepository) CreateAdmin(ctx context.Context, adm admin.Admin) (admin.Admin, error) {
	adm.ID = uuid.New().String()
	a := repo.pack(adm)

	const q = `
INSERT INTO "admin" (id, name, email, is_active, password_hash, created_at, updated_at, last_login)
VALUES (:id, :name, :email, :is_active, :password_hash, now(), now(), :last_login)`
	if _, err := repo.db.NamedExecContext(ctx, q, a); err != nil {
		return admin.Admin{}, errors.Wrap(err, "inserting admin")
	}
	return repo.GetAdmin(ctx, admin.GetFilter{ID: adm.ID})
}

func (repo adminRepository) GetAdmin(ctx context.Context, filter admin.GetFilter) (admin.Admin, error) {
	var (
		a   dbAdmin
		err error
	)
	switch {
	case filter.ID != "":
		if _, uerr := uuid.Parse(filter.ID); uerr != nil {
			return admin.Admin{}, admin.ErrNotFound
		}
		err = repo.db.GetContext(ctx, &a, `SELECT * FROM "admin" WHERE id = $1`, filter.ID)
	case filter.Email != "":
		err = repo.db.GetContext(ctx, &a, `SELECT * FROM "admin" WHERE lower(email) = lower($1)`, filter.Email)
	default:
		return admin.Admin{}, admin.ErrNotFound
	}
	if err != nil {
		return admin.Admin{}, repo.trapNoRowsErr(err, "getting admin")
	}
	return repo.unpack(a), nil
}

func (repo adminRepository) UpdateAdmin(ctx context.Context, adm admin.Admin) (admin.Admin, error) {
	orig, err := repo.GetAdmin(ctx, admin.GetFilter{ID: adm.ID})
	if err != nil {
		return admin.Admin{}, err
	}
	merged := repo.merge(orig, adm)
	a := repo.pack(merged)

	const q = `
UPDATE "admin"
SET name = :name, email = :email, is_active = :is_active, password_hash = :password_hash,
    updated_at = now(), last_login = :last_login
WHERE id = :id`
	if _, err = repo.db.NamedExecContext(ctx, q, a); err != nil {
		return admin.Admin{}, errors.Wrap(err, "updating admin")
	}
	return repo.GetAdmin(ctx, admin.GetFilter{ID: adm.ID})
}

func (repo adminRepository) UpdateOrCreateAdmin(ctx context.Context, adm admin.Admin) (admin.Admin, error) {
	orig, err := repo.GetAdmin(ctx, admin.GetFilter{Email: adm.Email})
	if err != nil {
		if errors.Cause(err) == admin.ErrNotFound {
			return repo.CreateAdmin(ctx, adm)
		}
		return admin.Admin{}, err
	}
	adm.ID = orig.ID
	return repo.UpdateAdmin(ctx, adm)
}

// merge overlays set fields of adm onto orig.
func (repo adminRepository) merge(orig, adm admin.Admin) admin.Admin {
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
	return orig
}
