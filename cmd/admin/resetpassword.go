package main

import "context"

func (cli *commandLine) resetPassword(ctx context.Context, uname, pwd string) error {
	if err := cli.svc.ResetPassword(ctx, uname, pwd); err != nil {
		return err
	}
	cli.log.Info("password updated", "username", uname)
	return nil
}
