package main

import (
	"log"
	"os"

	"github.com/elimucd/backend/core"
	"github.com/elimucd/backend/core/audit"
	"github.com/elimucd/backend/core/notification"
	"github.com/elimucd/backend/services/email"
	"github.com/elimucd/backend/services/logger"
	"github.com/elimucd/backend/storage/database"
	"github.com/elimucd/backend/storage/database/sqlx"
	"github.com/elimucd/backend/storage/kv/inmem"
	"github.com/elimucd/backend/storage/kv/redis"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	appLogger := logsvc.NewStdLogger(logger)

	// set up DB
	db, err := database.Open(core.Conf)
	errAndDie(err)
	defer func() { _ = db.Close() }()

	// set up KV store
	var kv core.KVStore
	if core.Conf.Redis.URL != "" {
		store, err := rediskv.Open(core.Conf.Redis.URL)
		errAndDie(err)
		defer func() { _ = store.Close() }()
		kv = store
	} else {
		kv = inmemkv.New()
	}

	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(appLogger)
	}

	// start CLI
	cli := commandLine{
		db:        db,
		badgeRepo: sqlxrepos.NewBadgeRepository(db),
		auditSvc:  audit.NewService(kv, appLogger, core.Conf.Retention.MaxAuditLogs),
		notifSvc:  notification.NewService(kv, mailSvc, appLogger, core.Conf.Retention.MaxNotifications),
		mailSvc:   mailSvc,
		kv:        kv,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
