package main

import (
	"context"

	"schoolms/internal/store"
)

var gooseRunFunc = func(ctx context.Context, db store.Backend, command string, args ...string) error { // mockable
	return db.RunMigrations(ctx, command, args...)
}

func (cli *commandLine) migrate(ctx context.Context, args []string) error {
	if err := gooseRunFunc(ctx, cli.db, args[0], args[1:]...); err != nil {
		return err
	}
	cli.log.Info("migrate done", "command", args[0])
	return nil
}
