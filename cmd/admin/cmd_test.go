package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolms/internal/auth"
	"schoolms/internal/school"
	"schoolms/internal/store"
)

func setup(t *testing.T) *commandLine {
	t.Helper()
	db := store.NewMemory()
	cfg := auth.Config{Secret: "s", BcryptCost: 4}
	return &commandLine{
		db:   db,
		svc:  school.NewService(db, auth.NewCredentials(cfg), auth.NewTokens(cfg), nil),
		seed: school.AdminSeed{Username: "admin", Password: "admin123", Email: "admin@school.com"},
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func (cli *commandLine) runTests(t *testing.T, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(append([]string{"admin"}, tt.args...))
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrStr != "":
				assert.EqualError(t, err, tt.wantErrStr)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func Test_commandLine_run(t *testing.T) {
	cli := setup(t)
	cli.runTests(t, []cliTest{
		{name: "no command", args: nil, wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "seed admin", args: []string{"seed-admin"}},
		{name: "seed admin again", args: []string{"seed-admin"}},
	})

	_, err := cli.svc.Login(context.Background(), "admin", "admin123")
	assert.NoError(t, err)
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	orig := gooseRunFunc
	t.Cleanup(func() { gooseRunFunc = orig })
	var ran [][]string
	gooseRunFunc = func(_ context.Context, _ store.Backend, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		ran = append(ran, append([]string{command}, args...))
		return nil
	}

	cli.runTests(t, []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: up-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "1"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
	})
	assert.Equal(t, [][]string{{"up"}, {"up-to", "1"}, {"down"}, {"status"}}, ran)
}

func Test_commandLine_migrateSQLite(t *testing.T) {
	db, err := store.Open(store.DriverSQLite, "file:admin_migrate?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	cli := setup(t)
	cli.db = db

	cli.runTests(t, []cliTest{
		{name: "up", args: []string{"migrate", "up"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "up again", args: []string{"migrate", "up"}},
	})
	_, err = db.ListTeachers(context.Background())
	assert.NoError(t, err)
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)
	require.NoError(t, cli.seedAdmin(context.Background()))

	orig := readPasswordFunc
	t.Cleanup(func() { readPasswordFunc = orig })
	var prompted string
	readPasswordFunc = func(int) ([]byte, error) { return []byte(prompted), nil }

	prompted = "newsecret"
	cli.runTests(t, []cliTest{
		{name: "no username", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "unknown user", args: []string{"resetpassword", "-username", "ghost"}, wantErr: school.ErrNotFound},
		{name: "ok", args: []string{"resetpassword", "-username", "admin"}},
	})

	_, err := cli.svc.Login(context.Background(), "admin", "newsecret")
	assert.NoError(t, err)

	prompted = ""
	cli.runTests(t, []cliTest{
		{name: "empty password", args: []string{"resetpassword", "-username", "admin"}, wantErr: errHelp},
	})

	readPasswordFunc = func(int) ([]byte, error) { return nil, errors.New("no tty") }
	cli.runTests(t, []cliTest{
		{name: "prompt fails", args: []string{"resetpassword", "-username", "admin"}, wantErrStr: "no tty"},
	})
}
