package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"github.com/elimucd/backend/core"
	logsvc "github.com/elimucd/backend/services/logger"
	inmemkv "github.com/elimucd/backend/storage/kv/inmem"
)

var testLogger core.Logger = logsvc.NewStdLogger(log.New(io.Discard, "", 0))

func newTestService(t *testing.T, maxEntries int) (Service, core.KVStore) {
	t.Helper()
	store := inmemkv.New()
	return NewService(store, nil, testLogger, maxEntries), store
}

func createN(t *testing.T, svc Service, n int) []Notification {
	t.Helper()
	ctx := context.Background()
	created := make([]Notification, 0, n)
	for i := 0; i < n; i++ {
		nn := NewNotification{
			Type:    TypeSystem,
			Title:   fmt.Sprintf("title %d", i),
			Message: fmt.Sprintf("message %d", i),
		}
		created1, err := svc.Create(ctx, nn)
		if err != nil {
			t.Fatalf("Create(%d): %v", i, err)
		}
		created = append(created, created1)
	}
	return created
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, 0)

	created := createN(t, svc, 3)

	list, err := svc.QueryAll(ctx)
	if err != nil {
		t.Fatalf("QueryAll: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(list))
	}
	// most recent first
	if list[0].ID != created[2].ID || list[2].ID != created[0].ID {
		t.Errorf("expected newest first, got %q .. %q", list[0].Title, list[2].Title)
	}
	for _, n := range list {
		if n.Status != StatusUnread {
			t.Errorf("notification %q: expected status %q, got %q", n.ID, StatusUnread, n.Status)
		}
		if n.ReadAt != nil {
			t.Errorf("notification %q: expected nil ReadAt", n.ID)
		}
	}

	count, err := svc.UnreadCount(ctx)
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 unread, got %d", count)
	}
}

func TestServiceCreateEvictsOldest(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, 5)

	created := createN(t, svc, 6)

	list, err := svc.QueryAll(ctx)
	if err != nil {
		t.Fatalf("QueryAll: %v", err)
	}
	if len(list) != 5 {
		t.Fatalf("expected cap of 5, got %d", len(list))
	}
	for _, n := range list {
		if n.ID == created[0].ID {
			t.Errorf("oldest notification %q should have been evicted", n.ID)
		}
	}
	if list[0].ID != created[5].ID {
		t.Errorf("expected newest notification first, got %q", list[0].Title)
	}
}

func TestServiceCreateDistinctIDsSameTick(t *testing.T) {
	frozen := time.Date(2023, 4, 1, 10, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return frozen }
	defer func() { nowFunc = time.Now }()

	svc, _ := newTestService(t, 0)
	created := createN(t, svc, 3)

	seen := make(map[string]struct{}, len(created))
	for _, n := range created {
		if _, dup := seen[n.ID]; dup {
			t.Fatalf("duplicate id %q within the same clock tick", n.ID)
		}
		seen[n.ID] = struct{}{}
	}
}

func TestServiceMarkRead(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, 0)
	created := createN(t, svc, 2)

	if err := svc.MarkRead(ctx, created[0].ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}

	list, _ := svc.QueryAll(ctx)
	byID := make(map[string]Notification, len(list))
	for _, n := range list {
		byID[n.ID] = n
	}
	got := byID[created[0].ID]
	if got.Status != StatusRead {
		t.Errorf("expected status %q, got %q", StatusRead, got.Status)
	}
	if got.ReadAt == nil {
		t.Error("expected ReadAt to be stamped")
	}
	if other := byID[created[1].ID]; other.Status != StatusUnread {
		t.Errorf("sibling should stay unread, got %q", other.Status)
	}

	// marking again is a no-op, ReadAt keeps its first value
	first := *got.ReadAt
	if err := svc.MarkRead(ctx, created[0].ID); err != nil {
		t.Fatalf("MarkRead twice: %v", err)
	}
	list, _ = svc.QueryAll(ctx)
	for _, n := range list {
		if n.ID == created[0].ID && !n.ReadAt.Equal(first) {
			t.Errorf("ReadAt changed on repeated MarkRead: %v != %v", n.ReadAt, first)
		}
	}

	if err := svc.MarkRead(ctx, "nope"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceMarkReadArchivedNoop(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, 0)
	created := createN(t, svc, 1)

	if err := svc.Archive(ctx, created[0].ID); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if err := svc.MarkRead(ctx, created[0].ID); err != nil {
		t.Fatalf("MarkRead on archived: %v", err)
	}

	list, _ := svc.QueryAll(ctx)
	if list[0].Status != StatusArchived {
		t.Errorf("archived notification should stay archived, got %q", list[0].Status)
	}
	if list[0].ReadAt != nil {
		t.Error("archived notification should not get a ReadAt stamp")
	}
}

func TestServiceMarkAllRead(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, 0)
	created := createN(t, svc, 3)

	if err := svc.Archive(ctx, created[0].ID); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if err := svc.MarkAllRead(ctx); err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}

	list, _ := svc.QueryAll(ctx)
	for _, n := range list {
		switch n.ID {
		case created[0].ID:
			if n.Status != StatusArchived {
				t.Errorf("archived entry flipped to %q", n.Status)
			}
		default:
			if n.Status != StatusRead {
				t.Errorf("notification %q: expected %q, got %q", n.ID, StatusRead, n.Status)
			}
		}
	}

	count, _ := svc.UnreadCount(ctx)
	if count != 0 {
		t.Errorf("expected 0 unread, got %d", count)
	}
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, 0)
	created := createN(t, svc, 2)

	if err := svc.Delete(ctx, created[0].ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, _ := svc.QueryAll(ctx)
	if len(list) != 1 || list[0].ID != created[1].ID {
		t.Errorf("expected only %q to remain, got %d entries", created[1].ID, len(list))
	}

	if err := svc.Delete(ctx, "nope"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceClear(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, 0)
	created := createN(t, svc, 3)

	if err := svc.MarkRead(ctx, created[0].ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if err := svc.Archive(ctx, created[1].ID); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	if err := svc.ClearRead(ctx); err != nil {
		t.Fatalf("ClearRead: %v", err)
	}
	list, _ := svc.QueryAll(ctx)
	if len(list) != 2 {
		t.Fatalf("expected 2 after ClearRead, got %d", len(list))
	}

	if err := svc.ClearArchived(ctx); err != nil {
		t.Fatalf("ClearArchived: %v", err)
	}
	list, _ = svc.QueryAll(ctx)
	if len(list) != 1 || list[0].ID != created[2].ID {
		t.Errorf("expected only the unread entry to remain, got %d entries", len(list))
	}
}

func TestServiceCorruptBlob(t *testing.T) {
	ctx := context.Background()
	store := inmemkv.New()
	if err := store.Set(ctx, StorageKey, []byte("{not json")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	svc := NewService(store, nil, testLogger, 0)

	list, err := svc.QueryAll(ctx)
	if err != nil {
		t.Fatalf("QueryAll: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("corrupt blob should read as empty, got %d entries", len(list))
	}

	// a fresh create recovers the store
	if _, err := svc.Create(ctx, NewNotification{Type: TypeSystem, Title: "t", Message: "m"}); err != nil {
		t.Fatalf("Create after corruption: %v", err)
	}
	list, _ = svc.QueryAll(ctx)
	if len(list) != 1 {
		t.Errorf("expected 1 entry after recovery, got %d", len(list))
	}
}

func TestServiceDedupesOnLoad(t *testing.T) {
	ctx := context.Background()
	store := inmemkv.New()

	now := time.Now().UTC()
	dup := []Notification{
		{ID: "n1", Type: TypeSystem, Title: "first", Status: StatusUnread, CreatedAt: now},
		{ID: "n2", Type: TypeSystem, Title: "second", Status: StatusRead, CreatedAt: now},
		{ID: "n1", Type: TypeSystem, Title: "first again", Status: StatusArchived, CreatedAt: now},
	}
	data, err := json.Marshal(dup)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	if err := store.Set(ctx, StorageKey, data); err != nil {
		t.Fatalf("Set: %v", err)
	}

	svc := NewService(store, nil, testLogger, 0)
	list, err := svc.QueryAll(ctx)
	if err != nil {
		t.Fatalf("QueryAll: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected duplicates collapsed to 2 entries, got %d", len(list))
	}
	if list[0].Title != "first" {
		t.Errorf("first occurrence should win, got %q", list[0].Title)
	}

	// cleaned list was re-persisted
	data, ok, err := store.Get(ctx, StorageKey)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	var persisted []Notification
	if err := json.Unmarshal(data, &persisted); err != nil {
		t.Fatalf("unmarshal persisted: %v", err)
	}
	if len(persisted) != 2 {
		t.Errorf("expected deduped list persisted, got %d entries", len(persisted))
	}
}
