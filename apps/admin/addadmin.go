package main

import (
	"context"

	"github.com/trezcool/tathmini/core"
	"github.com/trezcool/tathmini/core/admin"
)

// addAdmin updates or creates an admin.Admin
func (cli *commandLine) addAdmin(email, name, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	adm := admin.Admin{
		Name:  core.CleanString(name),
		Email: email,
	}
	adm.SetActive(true)
	if err := adm.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.admRepo.UpdateOrCreateAdmin(ctx, adm); err != nil {
		return err
	}
	return nil
}
