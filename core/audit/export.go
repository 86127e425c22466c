package audit

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

var csvHeader = []string{
	"ID", "Timestamp", "User ID", "User Name", "User Role",
	"Action", "Resource", "Resource ID", "Resource Name",
	"Details", "Changes", "IP Address", "User Agent",
}

// ExportCSV renders the filtered trail as RFC 4180 CSV with a UTF-8 BOM so
// spreadsheet apps pick up the encoding.
func (svc *service) ExportCSV(ctx context.Context, filter QueryFilter) ([]byte, error) {
	list, err := svc.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("\uFEFF")

	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, pkgerrors.Wrap(err, "writing csv header")
	}
	for _, entry := range list {
		record := []string{
			entry.ID,
			entry.Timestamp,
			entry.UserID,
			entry.UserName,
			entry.UserRole,
			entry.Action,
			entry.Resource,
			entry.ResourceID,
			entry.ResourceName,
			entry.Details,
			formatChanges(entry.Changes),
			entry.IPAddress,
			entry.UserAgent,
		}
		if err := w.Write(record); err != nil {
			return nil, pkgerrors.Wrap(err, "writing csv record")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, pkgerrors.Wrap(err, "flushing csv")
	}
	return buf.Bytes(), nil
}

func formatChanges(changes []FieldChange) string {
	if len(changes) == 0 {
		return ""
	}
	parts := make([]string, 0, len(changes))
	for _, c := range changes {
		parts = append(parts, fmt.Sprintf("%s: %s -> %s", c.Field, c.OldValue, c.NewValue))
	}
	return strings.Join(parts, "; ")
}

// ExportJSON renders the filtered trail as indented JSON.
func (svc *service) ExportJSON(ctx context.Context, filter QueryFilter) ([]byte, error) {
	list, err := svc.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return nil, pkgerrors.Wrap(err, "marshalling audit export")
	}
	return data, nil
}
