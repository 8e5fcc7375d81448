package main

import "context"

func (cli *commandLine) seedAdmin(ctx context.Context) error {
	if err := cli.db.Migrate(ctx); err != nil {
		return err
	}
	created, err := cli.svc.SeedAdmin(ctx, cli.seed)
	if err != nil {
		return err
	}
	if !created {
		cli.log.Info("an admin already exists, nothing to do")
	}
	return nil
}
