package main

import (
	"context"

	"github.com/KS-2006-TD/LMS/core"
)

func (cli *commandLine) resetPassword(ctx context.Context, email, pwd string) error {
	return cli.svc.ResetPassword(ctx, core.CleanString(email), pwd)
}
