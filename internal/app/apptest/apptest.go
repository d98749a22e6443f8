// Package apptest builds an Application over an in-memory database with
// recording transports.
package apptest

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/merabestie/sellerhub/config"
	"github.com/merabestie/sellerhub/internal/app"
	"github.com/merabestie/sellerhub/internal/dbtest"
	"github.com/merabestie/sellerhub/internal/mailer/mailertest"
)

type Env struct {
	App  *app.Application
	Mail *mailertest.Recorder
}

// New returns a started application. mutate, when given, edits the config
// before services start.
func New(t testing.TB, mutate func(cfg *config.AppConfig)) *Env {
	t.Helper()
	cfg := *config.DefaultAppConfig
	cfg.System.Workdir = t.TempDir()
	cfg.Mail.Workers = 4
	if mutate != nil {
		mutate(&cfg)
	}

	a := app.NewApplication(&cfg)
	a.OverrideDB(dbtest.Open(t))
	rec := mailertest.NewRecorder()
	a.OverrideMailer(rec)
	a.OverrideBcryptCost(bcrypt.MinCost)
	if err := a.StartServices(); err != nil {
		t.Fatalf("start services: %v", err)
	}
	t.Cleanup(a.Release)
	return &Env{App: a, Mail: rec}
}
