package main

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"
	"os"
	"time"

	"github.com/elimucd/backend/core"
	"github.com/elimucd/backend/core/audit"
)

var nowFunc = time.Now // mockable

func (cli *commandLine) exportAudit(format, out, email string) error {
	ctx := context.Background()

	var data []byte
	var contentType, ext string
	var err error

	switch format {
	case "csv":
		data, err = cli.auditSvc.ExportCSV(ctx, audit.QueryFilter{})
		contentType, ext = "text/csv", "csv"
	case "json":
		data, err = cli.auditSvc.ExportJSON(ctx, audit.QueryFilter{})
		contentType, ext = "application/json", "json"
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return err
	}

	if email != "" {
		filename := fmt.Sprintf("audit-logs-%s.%s", nowFunc().UTC().Format("2006-01-02"), ext)
		cli.mailSvc.SendMessages(&core.EmailMessage{
			To:      []mail.Address{{Address: email}},
			Subject: "Audit trail export",
			BodyStr: "Attached: " + filename,
			Attachments: []core.Attachment{{
				Content:     bytes.NewBuffer(data),
				ContentType: contentType,
				Filename:    filename,
			}},
		})
		logger.Printf("export mailed to %s", email)
		return nil
	}

	if out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	logger.Printf("export written to %s", out)
	return nil
}
