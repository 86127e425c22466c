package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/elimucd/backend/apps/api/echo"
	"github.com/elimucd/backend/core"
	"github.com/elimucd/backend/core/audit"
	"github.com/elimucd/backend/core/badge"
	"github.com/elimucd/backend/core/notification"
	"github.com/elimucd/backend/core/role"
	"github.com/elimucd/backend/services/email"
	"github.com/elimucd/backend/services/logger"
	"github.com/elimucd/backend/storage/database"
	"github.com/elimucd/backend/storage/database/sqlx"
	"github.com/elimucd/backend/storage/kv/inmem"
	"github.com/elimucd/backend/storage/kv/redis"
)

func main() {
	std := log.New(os.Stdout, core.Conf.AppName+" - ", log.LstdFlags|log.Lshortfile)

	var appLogger core.Logger
	if core.Conf.Debug {
		appLogger = logsvc.NewStdLogger(std)
	} else {
		rollbarLogger := logsvc.NewRollbarLogger(std, core.Conf)
		rollbarLogger.Enable(true)
		defer rollbarLogger.Enable(false)
		appLogger = rollbarLogger
	}

	// set up DB
	db, err := database.Open(core.Conf)
	if err != nil {
		appLogger.Fatal("opening database", err)
	}
	defer func() { _ = db.Close() }()

	// set up KV store
	var kv core.KVStore
	if core.Conf.Redis.URL != "" {
		store, err := rediskv.Open(core.Conf.Redis.URL)
		if err != nil {
			appLogger.Fatal("opening redis", err)
		}
		defer func() { _ = store.Close() }()
		kv = store
	} else {
		kv = inmemkv.New()
	}

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(appLogger)
	}

	notifSvc := notification.NewService(kv, mailSvc, appLogger, core.Conf.Retention.MaxNotifications)
	auditSvc := audit.NewService(kv, appLogger, core.Conf.Retention.MaxAuditLogs)
	roleSvc := role.NewService(sqlxrepos.NewRoleRepository(db), appLogger)
	badgeSvc := badge.NewService(
		sqlxrepos.NewBadgeRepository(db),
		notification.NewBadgeNotifier(notifSvc, appLogger),
		appLogger,
	)

	// start API server
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	app := echoapi.NewServer(
		&echoapi.Options{
			Address:         core.Conf.Server.Addr,
			BadgeSvc:        badgeSvc,
			RoleSvc:         roleSvc,
			NotificationSvc: notifSvc,
			AuditSvc:        auditSvc,
			Logger:          appLogger,
			Shutdown:        shutdown,
		},
	)

	serverErrors := make(chan error, 1)
	go func() { serverErrors <- app.Start() }()

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("server error", err)
		}
	case sig := <-shutdown:
		appLogger.Info("shutting down", sig)

		ctx, cancel := context.WithTimeout(context.Background(), core.Conf.Server.ShutdownTimeout)
		defer cancel()

		if err := app.Stop(ctx); err != nil {
			appLogger.Error("graceful shutdown failed", err)
		}
	}
}
