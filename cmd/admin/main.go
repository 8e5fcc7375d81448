package main

import (
	"os"

	"schoolms/internal/auth"
	"schoolms/internal/config"
	"schoolms/internal/logging"
	"schoolms/internal/school"
	"schoolms/internal/store"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.Env, cfg.LogLevel)

	db, err := store.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Error("opening store", "error", err)
		os.Exit(1)
	}

	cli := commandLine{
		db:  db,
		svc: school.NewService(db, auth.NewCredentials(cfg.Auth()), auth.NewTokens(cfg.Auth()), log),
		seed: school.AdminSeed{
			Username: cfg.AdminUsername,
			Password: cfg.AdminPassword,
			Email:    cfg.AdminEmail,
		},
		log: log,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			log.Error("admin command failed", "error", err)
		}
		os.Exit(1)
	}
}
