package main

import (
	"context"
	"fmt"

	"github.com/KS-2006-TD/LMS/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(ctx context.Context, name, email, role, pwd string) error {
	nu := user.NewUser{Name: name, Email: email, Password: pwd, Role: role}
	if err := nu.Validate(cli.validate); err != nil {
		return err
	}
	usr, created, err := cli.svc.SaveUser(ctx, nu)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(cli.out, "created user %s (%s)\n", usr.Email, usr.ID)
	} else {
		fmt.Fprintf(cli.out, "updated user %s (%s)\n", usr.Email, usr.ID)
	}
	return nil
}
