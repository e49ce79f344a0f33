package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/dashboard/core"
	"github.com/trezcool/dashboard/core/user"
)

var errInvalidRole = errors.New("invalid role")

// addUser updates or creates an active user.User with the given role.
func (cli *commandLine) addUser(email, name, role, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)
	name = core.CleanString(name)
	role = core.CleanString(role, true /* lower */)
	if user.RolePriority(role) == 0 {
		return errors.Wrap(errInvalidRole, role)
	}
	now := time.Now().UTC()

	usr, err := cli.usrRepo.GetUserByEmail(ctx, email)
	if err != nil && !core.IsNotFound(err) {
		return errors.Wrap(err, "finding user by email")
	}
	exists := err == nil
	if !exists {
		usr = user.User{
			Email:     email,
			UserType:  user.UserTypes[0].ID,
			Verified:  true,
			CreatedAt: now,
		}
	}
	usr.Name = name
	usr.Role = role
	usr.IsActive = true
	usr.UpdatedAt = now
	if err = usr.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "setting password")
	}

	if exists {
		_, err = cli.usrRepo.UpdateUser(ctx, usr)
		return errors.Wrap(err, "updating user")
	}
	_, err = cli.usrRepo.CreateUser(ctx, usr)
	return errors.Wrap(err, "creating user")
}
