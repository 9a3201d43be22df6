package main

import (
	"context"

	"github.com/trezcool/tathmini/core"
	"github.com/trezcool/tathmini/core/admin"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	ctx := context.Background()
	adm, err := cli.admRepo.GetAdmin(ctx, admin.GetFilter{Email: core.CleanString(email, true /* lower */)})
	if err != nil {
		return err
	}
	if err := adm.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.admRepo.UpdateAdmin(ctx, admin.Admin{ID: adm.ID, PasswordHash: adm.PasswordHash}); err != nil {
		return err
	}
	return nil
}
