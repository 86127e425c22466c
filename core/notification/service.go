package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/elimucd/backend/core"
)

// StorageKey is the key the notification list lives under in the KV store.
const StorageKey = "notifications"

// DefaultMaxEntries caps the stored list; oldest entries are evicted first.
const DefaultMaxEntries = 100

var (
	// errors
	ErrNotFound = errors.New("notification not found")

	nowFunc = time.Now // mockable
)

type (
	Service interface {
		Create(ctx context.Context, nn NewNotification) (Notification, error)
		QueryAll(ctx context.Context) ([]Notification, error)
		UnreadCount(ctx context.Context) (int, error)
		MarkRead(ctx context.Context, id string) error
		MarkAllRead(ctx context.Context) error
		Archive(ctx context.Context, id string) error
		Delete(ctx context.Context, id string) error
		ClearRead(ctx context.Context) error
		ClearArchived(ctx context.Context) error
	}

	service struct {
		store      core.KVStore
		mailSvc    core.EmailService // optional mirror for alerts & announcements
		logger     core.Logger
		maxEntries int
	}
)

var _ Service = (*service)(nil)

// NewService returns a notification store backed by kv. mailSvc may be nil;
// maxEntries <= 0 falls back to DefaultMaxEntries.
func NewService(store core.KVStore, mailSvc core.EmailService, logger core.Logger, maxEntries int) Service {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &service{
		store:      store,
		mailSvc:    mailSvc,
		logger:     logger,
		maxEntries: maxEntries,
	}
}

// load reads the persisted list. A missing or corrupt blob is an empty list,
// never an error. De-duplicates by id (first occurrence wins) and re-persists
// right away when the cleanup changed anything.
func (svc *service) load(ctx context.Context) []Notification {
	data, ok, err := svc.store.Get(ctx, StorageKey)
	if err != nil {
		svc.logger.Warn("notification: reading store", err)
		return nil
	}
	if !ok {
		return nil
	}

	var list []Notification
	if err := json.Unmarshal(data, &list); err != nil {
		svc.logger.Warn("notification: corrupt store blob, resetting", err)
		return nil
	}

	seen := make(map[string]struct{}, len(list))
	deduped := make([]Notification, 0, len(list))
	for _, n := range list {
		if _, dup := seen[n.ID]; dup {
			continue
		}
		seen[n.ID] = struct{}{}
		deduped = append(deduped, n)
	}
	if len(deduped) != len(list) {
		if err := svc.save(ctx, deduped); err != nil {
			svc.logger.Warn("notification: re-persisting deduped list", err)
		}
	}
	return deduped
}

func (svc *service) save(ctx context.Context, list []Notification) error {
	data, err := json.Marshal(list)
	if err != nil {
		return pkgerrors.Wrap(err, "marshalling notifications")
	}
	return pkgerrors.Wrap(svc.store.Set(ctx, StorageKey, data), "persisting notifications")
}

// newID keeps generating timestamp+random ids until one misses the existing
// set; a batch created within the same clock tick cannot collide.
func (svc *service) newID(existing map[string]struct{}) string {
	for {
		id := fmt.Sprintf("%d-%s", nowFunc().UTC().UnixNano(), uuid.New().String()[:8])
		if _, dup := existing[id]; !dup {
			return id
		}
	}
}

func (svc *service) Create(ctx context.Context, nn NewNotification) (Notification, error) {
	if err := nn.Validate(); err != nil {
		return Notification{}, err
	}

	list := svc.load(ctx)

	existing := make(map[string]struct{}, len(list))
	for _, n := range list {
		existing[n.ID] = struct{}{}
	}

	n := Notification{
		ID:          svc.newID(existing),
		Type:        nn.Type,
		Title:       nn.Title,
		Message:     nn.Message,
		Status:      StatusUnread,
		CreatedAt:   nowFunc().UTC(),
		ActionURL:   nn.ActionURL,
		ActionLabel: nn.ActionLabel,
		Metadata:    nn.Metadata,
	}

	// most-recent-first; evict the oldest past the cap
	list = append([]Notification{n}, list...)
	if len(list) > svc.maxEntries {
		list = list[:svc.maxEntries]
	}
	if err := svc.save(ctx, list); err != nil {
		return Notification{}, err
	}

	svc.mirrorToEmail(n)
	return n, nil
}

// mirrorToEmail forwards alerts and announcements to the administrator inbox.
func (svc *service) mirrorToEmail(n Notification) {
	if svc.mailSvc == nil {
		return
	}
	if n.Type != TypeAlert && n.Type != TypeAnnouncement {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{core.Conf.AdminEmail},
		Subject: n.Title,
		BodyStr: n.Message,
	})
}

func (svc *service) QueryAll(ctx context.Context) ([]Notification, error) {
	return svc.load(ctx), nil
}

func (svc *service) UnreadCount(ctx context.Context) (int, error) {
	var count int
	for _, n := range svc.load(ctx) {
		if n.Status == StatusUnread {
			count++
		}
	}
	return count, nil
}

func (svc *service) MarkRead(ctx context.Context, id string) error {
	list := svc.load(ctx)
	var found, changed bool
	for i, n := range list {
		if n.ID != id {
			continue
		}
		found = true
		// only unread transitions to read; read/archived stay put
		if n.Status == StatusUnread {
			now := nowFunc().UTC()
			list[i].Status = StatusRead
			list[i].ReadAt = &now
			changed = true
		}
		break
	}
	if !found {
		return ErrNotFound
	}
	if !changed {
		return nil
	}
	return svc.save(ctx, list)
}

func (svc *service) MarkAllRead(ctx context.Context) error {
	list := svc.load(ctx)
	now := nowFunc().UTC()
	var changed bool
	for i, n := range list {
		if n.Status == StatusUnread {
			list[i].Status = StatusRead
			list[i].ReadAt = &now
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return svc.save(ctx, list)
}

func (svc *service) Archive(ctx context.Context, id string) error {
	list := svc.load(ctx)
	var found bool
	for i, n := range list {
		if n.ID != id {
			continue
		}
		found = true
		list[i].Status = StatusArchived
		break
	}
	if !found {
		return ErrNotFound
	}
	return svc.save(ctx, list)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	list := svc.load(ctx)
	kept := list[:0]
	for _, n := range list {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	if len(kept) == len(list) {
		return ErrNotFound
	}
	return svc.save(ctx, kept)
}

func (svc *service) ClearRead(ctx context.Context) error {
	return svc.clearStatus(ctx, StatusRead)
}

func (svc *service) ClearArchived(ctx context.Context) error {
	return svc.clearStatus(ctx, StatusArchived)
}

func (svc *service) clearStatus(ctx context.Context, status string) error {
	list := svc.load(ctx)
	kept := list[:0]
	for _, n := range list {
		if n.Status != status {
			kept = append(kept, n)
		}
	}
	if len(kept) == len(list) {
		return nil
	}
	return svc.save(ctx, kept)
}
