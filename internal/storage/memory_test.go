package storage_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nordvig/healthapp-backend/internal/models"
	"github.com/nordvig/healthapp-backend/internal/storage"
)

func TestCreatePrimaryIsAtomic(t *testing.T) {
	store := storage.NewMemoryStorage()
	ctx := context.Background()

	first, created, err := store.CreatePrimary(ctx, &models.Thread{UserID: 1, RemoteID: "t1", Category: 1})
	if err != nil {
		t.Fatalf("CreatePrimary failed: %v", err)
	}
	if !created {
		t.Fatal("expected first insert to create")
	}

	second, created, err := store.CreatePrimary(ctx, &models.Thread{UserID: 1, RemoteID: "t2", Category: 1})
	if err != nil {
		t.Fatalf("second CreatePrimary failed: %v", err)
	}
	if created {
		t.Error("expected second insert to lose to the existing row")
	}
	if second.RemoteID != first.RemoteID {
		t.Errorf("expected winner %s, got %s", first.RemoteID, second.RemoteID)
	}

	// A different category is an independent session.
	_, created, err = store.CreatePrimary(ctx, &models.Thread{UserID: 1, RemoteID: "t3", Category: 2})
	if err != nil {
		t.Fatalf("CreatePrimary for category 2 failed: %v", err)
	}
	if !created {
		t.Error("expected a new primary thread for a different category")
	}
}

func TestCreatePrimaryConcurrent(t *testing.T) {
	store := storage.NewMemoryStorage()
	ctx := context.Background()

	const callers = 16
	var wg sync.WaitGroup
	wins := make(chan string, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			thread := &models.Thread{UserID: 7, RemoteID: "t-" + string(rune('a'+n)), Category: 1}
			_, created, err := store.CreatePrimary(ctx, thread)
			if err != nil {
				t.Errorf("CreatePrimary failed: %v", err)
				return
			}
			if created {
				wins <- thread.RemoteID
			}
		}(i)
	}
	wg.Wait()
	close(wins)

	var winners []string
	for id := range wins {
		winners = append(winners, id)
	}
	if len(winners) != 1 {
		t.Fatalf("expected exactly one creator, got %d", len(winners))
	}
}

func TestThreadRemoteIDNeverReused(t *testing.T) {
	store := storage.NewMemoryStorage()
	ctx := context.Background()

	if err := store.Insert(ctx, &models.Thread{UserID: 1, RemoteID: "t1", Category: 1}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	err := store.Insert(ctx, &models.Thread{UserID: 2, RemoteID: "t1", Category: 1})
	if !errors.Is(err, storage.ErrThreadExists) {
		t.Fatalf("expected ErrThreadExists from Insert, got %v", err)
	}

	_, _, err = store.CreatePrimary(ctx, &models.Thread{UserID: 2, RemoteID: "t1", Category: 1})
	if !errors.Is(err, storage.ErrThreadExists) {
		t.Fatalf("expected ErrThreadExists from CreatePrimary, got %v", err)
	}

	// The original row is untouched.
	thread, err := store.FindByRemoteID(ctx, "t1")
	if err != nil {
		t.Fatalf("FindByRemoteID failed: %v", err)
	}
	if thread.UserID != 1 {
		t.Errorf("expected owner 1, got %d", thread.UserID)
	}
}

func TestDeleteUntitledKeepsTitledThreads(t *testing.T) {
	store := storage.NewMemoryStorage()
	ctx := context.Background()

	if err := store.Insert(ctx, &models.Thread{UserID: 1, RemoteID: "t1", Category: 1}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Insert(ctx, &models.Thread{UserID: 1, RemoteID: "t2", Category: 1}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.UpdateTitle(ctx, "t2", "Sleep quality"); err != nil {
		t.Fatalf("UpdateTitle failed: %v", err)
	}

	deleted, err := store.DeleteUntitled(ctx, 1)
	if err != nil {
		t.Fatalf("DeleteUntitled failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deletion, got %d", deleted)
	}

	if _, err := store.FindByRemoteID(ctx, "t1"); !errors.Is(err, storage.ErrThreadNotFound) {
		t.Error("expected untitled thread to be gone")
	}
	if _, err := store.FindByRemoteID(ctx, "t2"); err != nil {
		t.Errorf("expected titled thread to survive: %v", err)
	}
}

func TestGetLocaleFallsBack(t *testing.T) {
	store := storage.NewMemoryStorage()
	ctx := context.Background()

	locale, err := store.GetLocale(ctx, 999, "en")
	if err != nil {
		t.Fatalf("GetLocale failed: %v", err)
	}
	if locale != "en" {
		t.Errorf("expected fallback locale, got %q", locale)
	}

	user := &models.User{Name: "Lars", Surname: "Holm", Email: "lars@example.dk", PasswordHash: "x", Locale: "dk"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	locale, err = store.GetLocale(ctx, user.ID, "en")
	if err != nil {
		t.Fatalf("GetLocale failed: %v", err)
	}
	if locale != "dk" {
		t.Errorf("expected stored locale, got %q", locale)
	}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	store := storage.NewMemoryStorage()
	ctx := context.Background()

	if err := store.CreateUser(ctx, &models.User{Name: "A", Surname: "B", Email: "a@example.com", PasswordHash: "x"}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	err := store.CreateUser(ctx, &models.User{Name: "C", Surname: "D", Email: "A@Example.com", PasswordHash: "x"})
	if !errors.Is(err, storage.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}
