package main

import (
	"context"
	"time"

	"github.com/ViNit736/GFM-record-management-app-sub001/core"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(uname, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{UsernameOrEmail: []string{uname, email}})
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		now := time.Now().UTC()
		usr = user.User{
			Name:      uname,
			Username:  uname,
			Email:     email,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if isAdmin {
			usr.Roles = user.AllRoles
		}
		if err := usr.SetPassword(pwd); err != nil {
			return err
		}
		active := true
		usr.IsActive = &active
		_, err = cli.usrRepo.CreateUser(ctx, usr)
		return err
	}

	if isAdmin {
		usr.Roles = user.AllRoles
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()
	active := true
	_, err = cli.usrRepo.UpdateUser(ctx, usr, &active)
	return err
}
