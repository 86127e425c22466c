package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/elimucd/backend/core"
	"github.com/elimucd/backend/core/audit"
	"github.com/elimucd/backend/core/badge"
	"github.com/elimucd/backend/core/notification"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db        *sqlx.DB
	badgeRepo badge.Repository
	auditSvc  audit.Service
	notifSvc  notification.Service
	mailSvc   core.EmailService
	kv        core.KVStore
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [args] - run database migrations (up, down, status, ...)")
	fmt.Println("  seedbadges - install the default badge catalog")
	fmt.Println("  exportaudit [-format csv|json] [-out FILE] [-email ADDRESS] - export the audit trail")
	fmt.Println("  wipe - clear the notification and audit stores")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	exportAuditCmd := flag.NewFlagSet("exportaudit", flag.ExitOnError)
	exportAuditFormat := exportAuditCmd.String("format", "csv", "Export format: csv or json.")
	exportAuditOut := exportAuditCmd.String("out", "", "Output file. Defaults to stdout.")
	exportAuditEmail := exportAuditCmd.String("email", "", "Mail the export to this address instead of writing it out.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seedbadges":
		return cli.seedBadges()
	case "exportaudit":
		if err := exportAuditCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.exportAudit(*exportAuditFormat, *exportAuditOut, *exportAuditEmail)
	case "wipe":
		return cli.wipe()
	default:
		cli.printUsage()
		return errHelp
	}
}
