package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"spese/internal/core"
	"spese/internal/log"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "nested", "spese.db"), log.Nop())
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func record(date, name, amount, category string) core.Record {
	return core.Record{Date: date, Name: name, Amount: decimal.RequireFromString(amount), Category: category}
}

func TestSQLiteRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	id, err := repo.Save(ctx, record("2025-03-02", "Bus", "2.00", "Transportation"), 1)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := repo.Save(ctx, record("2025-03-01", "Coffee", "4.505", "Food & Drinks"), 1); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := repo.Save(ctx, record("2025-03-01", "Other owner", "9", "Other"), 2); err != nil {
		t.Fatalf("Save: %v", err)
	}

	list, err := repo.ListForOwner(ctx, 1)
	if err != nil {
		t.Fatalf("ListForOwner: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Coffee" || list[1].Name != "Bus" {
		t.Fatalf("unexpected list %+v", list)
	}
	if !list[0].Amount.Equal(decimal.RequireFromString("4.505")) {
		t.Fatalf("amount lost precision: %s", list[0].Amount)
	}
	if !list[1].HasID() || list[1].IDValue() != id || list[1].OwnerID != 1 {
		t.Fatalf("unexpected identity %+v", list[1])
	}

	bus := list[1]
	bus.Amount = decimal.RequireFromString("2.50")
	if ok, err := repo.Update(ctx, bus, 1); err != nil || !ok {
		t.Fatalf("Update = %v, %v", ok, err)
	}
	if ok, _ := repo.Update(ctx, bus, 2); ok {
		t.Fatalf("update across owners must not match")
	}
	if ok, _ := repo.Update(ctx, record("2025-03-01", "No id", "1", "Other"), 1); ok {
		t.Fatalf("update without id must not match")
	}

	if ok, err := repo.Delete(ctx, bus, 1); err != nil || !ok {
		t.Fatalf("Delete = %v, %v", ok, err)
	}
	if ok, _ := repo.Delete(ctx, bus, 1); ok {
		t.Fatalf("second delete must report false")
	}

	if err := repo.ClearAll(ctx, 1); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	if list, _ := repo.ListForOwner(ctx, 1); len(list) != 0 {
		t.Fatalf("owner 1 should be empty, got %d", len(list))
	}
	if list, _ := repo.ListForOwner(ctx, 2); len(list) != 1 {
		t.Fatalf("owner 2 should keep its record, got %d", len(list))
	}
}

func TestSQLiteRepositoryReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "spese.db")

	repo, err := NewSQLiteRepository(path, log.Nop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := repo.Save(ctx, record("2025-01-15", "Gym", "30", "Sports"), 7); err != nil {
		t.Fatalf("Save: %v", err)
	}
	repo.Close()

	repo, err = NewSQLiteRepository(path, log.Nop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()
	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	list, err := repo.ListForOwner(ctx, 7)
	if err != nil || len(list) != 1 {
		t.Fatalf("after reopen got %v, %v", list, err)
	}
}
