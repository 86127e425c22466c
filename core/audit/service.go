package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/elimucd/backend/core"
)

// StorageKey is the key the audit trail lives under in the KV store.
const StorageKey = "audit_logs"

// DefaultMaxEntries caps the stored trail; oldest entries are evicted first.
const DefaultMaxEntries = 1000

var nowFunc = time.Now // mockable

type (
	Service interface {
		Append(ctx context.Context, nl NewLog) (Log, error)
		List(ctx context.Context, filter QueryFilter) ([]Log, error)
		ExportCSV(ctx context.Context, filter QueryFilter) ([]byte, error)
		ExportJSON(ctx context.Context, filter QueryFilter) ([]byte, error)
	}

	service struct {
		store      core.KVStore
		logger     core.Logger
		maxEntries int
	}
)

var _ Service = (*service)(nil)

// NewService returns an append-only audit trail backed by kv.
// maxEntries <= 0 falls back to DefaultMaxEntries.
func NewService(store core.KVStore, logger core.Logger, maxEntries int) Service {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &service{
		store:      store,
		logger:     logger,
		maxEntries: maxEntries,
	}
}

// load reads the persisted trail. A missing or corrupt blob is an empty
// trail, never an error.
func (svc *service) load(ctx context.Context) []Log {
	data, ok, err := svc.store.Get(ctx, StorageKey)
	if err != nil {
		svc.logger.Warn("audit: reading store", err)
		return nil
	}
	if !ok {
		return nil
	}

	var list []Log
	if err := json.Unmarshal(data, &list); err != nil {
		svc.logger.Warn("audit: corrupt store blob, resetting", err)
		return nil
	}
	return list
}

func (svc *service) save(ctx context.Context, list []Log) error {
	data, err := json.Marshal(list)
	if err != nil {
		return pkgerrors.Wrap(err, "marshalling audit logs")
	}
	return pkgerrors.Wrap(svc.store.Set(ctx, StorageKey, data), "persisting audit logs")
}

func (svc *service) Append(ctx context.Context, nl NewLog) (Log, error) {
	if err := nl.Validate(); err != nil {
		return Log{}, err
	}

	now := nowFunc().UTC()
	entry := Log{
		ID:           fmt.Sprintf("%d-%s", now.UnixNano(), uuid.New().String()[:8]),
		Timestamp:    now.Format(TimestampFormat),
		UserID:       nl.UserID,
		UserName:     nl.UserName,
		UserRole:     nl.UserRole,
		Action:       nl.Action,
		Resource:     nl.Resource,
		ResourceID:   nl.ResourceID,
		ResourceName: nl.ResourceName,
		Details:      nl.Details,
		Changes:      nl.Changes,
		IPAddress:    nl.IPAddress,
		UserAgent:    nl.UserAgent,
	}

	// most-recent-first; evict the oldest past the cap
	list := append([]Log{entry}, svc.load(ctx)...)
	if len(list) > svc.maxEntries {
		list = list[:svc.maxEntries]
	}
	if err := svc.save(ctx, list); err != nil {
		return Log{}, err
	}
	return entry, nil
}

// List returns entries matching every set field of filter, newest first.
func (svc *service) List(ctx context.Context, filter QueryFilter) ([]Log, error) {
	list := svc.load(ctx)
	matched := make([]Log, 0, len(list))
	for _, entry := range list {
		if filter.matches(entry) {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

func (f QueryFilter) matches(entry Log) bool {
	if f.UserID != "" && entry.UserID != f.UserID {
		return false
	}
	if f.Action != "" && entry.Action != f.Action {
		return false
	}
	if f.Resource != "" && entry.Resource != f.Resource {
		return false
	}
	// RFC 3339 strings order the same way the instants do
	if f.StartDate != "" && entry.Timestamp < f.StartDate {
		return false
	}
	if f.EndDate != "" && entry.Timestamp > f.EndDate {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		haystacks := []string{entry.UserName, entry.Details, entry.ResourceName, entry.Action, entry.Resource}
		var hit bool
		for _, h := range haystacks {
			if strings.Contains(strings.ToLower(h), needle) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}
