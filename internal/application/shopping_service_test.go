package application

import (
	"context"
	"errors"
	"testing"

	"github.com/tyrongower/Kinboard-sub000/internal/persistence"
)

func newShoppingServiceFixture(t *testing.T, lists ...persistence.ShoppingList) (*ShoppingService, *shoppingRepositoryStub) {
	t.Helper()
	repo := newShoppingRepositoryStub(lists...)
	svc := NewShoppingService(repo, sequenceIDs("shopping"), fixedClock(t, "2025-03-01T08:00:00Z"))
	return svc, repo
}

func TestShoppingService_Lists(t *testing.T) {
	t.Parallel()

	principal := Principal{UserID: "user-1"}

	t.Run("creates lists with trimmed names", func(t *testing.T) {
		t.Parallel()
		svc, repo := newShoppingServiceFixture(t)

		list, err := svc.CreateList(context.Background(), principal, ShoppingListInput{Name: "  Groceries  "})
		if err != nil {
			t.Fatalf("CreateList failed: %v", err)
		}
		if list.Name != "Groceries" {
			t.Errorf("name = %q", list.Name)
		}
		if _, ok := repo.lists[list.ID]; !ok {
			t.Errorf("list %s not persisted", list.ID)
		}
	})

	t.Run("rejects blank names", func(t *testing.T) {
		t.Parallel()
		svc, _ := newShoppingServiceFixture(t)

		_, err := svc.CreateList(context.Background(), principal, ShoppingListInput{Name: "   "})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if vErr.FieldErrors["name"] == "" {
			t.Error("missing validation for name")
		}
	})

	t.Run("renames existing lists", func(t *testing.T) {
		t.Parallel()
		svc, _ := newShoppingServiceFixture(t, persistence.ShoppingList{ID: "list-1", Name: "Groceries"})

		renamed, err := svc.RenameList(context.Background(), principal, "list-1", ShoppingListInput{Name: "Hardware"})
		if err != nil {
			t.Fatalf("RenameList failed: %v", err)
		}
		if renamed.Name != "Hardware" {
			t.Errorf("name = %q", renamed.Name)
		}
	})

	t.Run("reports missing lists", func(t *testing.T) {
		t.Parallel()
		svc, _ := newShoppingServiceFixture(t)

		if _, err := svc.RenameList(context.Background(), principal, "absent", ShoppingListInput{Name: "x"}); !errors.Is(err, ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound", err)
		}
		if err := svc.DeleteList(context.Background(), principal, "absent"); !errors.Is(err, ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("returns lists with items in position order", func(t *testing.T) {
		t.Parallel()
		svc, repo := newShoppingServiceFixture(t, persistence.ShoppingList{ID: "list-1", Name: "Groceries"})
		repo.items["item-b"] = persistence.ShoppingItem{ID: "item-b", ListID: "list-1", Name: "Bread", Position: 2}
		repo.items["item-a"] = persistence.ShoppingItem{ID: "item-a", ListID: "list-1", Name: "Apples", Position: 1}

		list, err := svc.GetList(context.Background(), principal, "list-1")
		if err != nil {
			t.Fatalf("GetList failed: %v", err)
		}
		if len(list.Items) != 2 {
			t.Fatalf("items = %d, want 2", len(list.Items))
		}
		if list.Items[0].Name != "Apples" || list.Items[1].Name != "Bread" {
			t.Errorf("item order = %q, %q", list.Items[0].Name, list.Items[1].Name)
		}
	})
}

func TestShoppingService_Items(t *testing.T) {
	t.Parallel()

	principal := Principal{UserID: "user-1"}
	groceries := persistence.ShoppingList{ID: "list-1", Name: "Groceries"}

	t.Run("adds items to an existing list", func(t *testing.T) {
		t.Parallel()
		svc, repo := newShoppingServiceFixture(t, groceries)

		item, err := svc.AddItem(context.Background(), principal, "list-1", ShoppingItemInput{Name: " Milk ", Quantity: "2l", Position: 3})
		if err != nil {
			t.Fatalf("AddItem failed: %v", err)
		}
		if item.Name != "Milk" || item.Quantity != "2l" {
			t.Errorf("item = %+v", item)
		}
		if stored := repo.items[item.ID]; stored.ListID != "list-1" {
			t.Errorf("stored list = %q", stored.ListID)
		}
	})

	t.Run("rejects items for unknown lists", func(t *testing.T) {
		t.Parallel()
		svc, _ := newShoppingServiceFixture(t)

		if _, err := svc.AddItem(context.Background(), principal, "absent", ShoppingItemInput{Name: "Milk"}); !errors.Is(err, ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("validates item names and positions", func(t *testing.T) {
		t.Parallel()
		svc, _ := newShoppingServiceFixture(t, groceries)

		_, err := svc.AddItem(context.Background(), principal, "list-1", ShoppingItemInput{Name: "  ", Position: -1})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		for _, field := range []string{"name", "position"} {
			if vErr.FieldErrors[field] == "" {
				t.Errorf("missing validation for %s", field)
			}
		}
	})

	t.Run("toggles the checked flag through update", func(t *testing.T) {
		t.Parallel()
		svc, repo := newShoppingServiceFixture(t, groceries)
		repo.items["item-1"] = persistence.ShoppingItem{ID: "item-1", ListID: "list-1", Name: "Milk"}

		updated, err := svc.UpdateItem(context.Background(), principal, "list-1", "item-1", ShoppingItemInput{Name: "Milk", Checked: true})
		if err != nil {
			t.Fatalf("UpdateItem failed: %v", err)
		}
		if !updated.Checked {
			t.Error("item not checked")
		}
	})

	t.Run("scopes item updates to the owning list", func(t *testing.T) {
		t.Parallel()
		svc, repo := newShoppingServiceFixture(t, groceries, persistence.ShoppingList{ID: "list-2", Name: "Hardware"})
		repo.items["item-1"] = persistence.ShoppingItem{ID: "item-1", ListID: "list-2", Name: "Nails"}

		if _, err := svc.UpdateItem(context.Background(), principal, "list-1", "item-1", ShoppingItemInput{Name: "Nails"}); !errors.Is(err, ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("clears only checked items", func(t *testing.T) {
		t.Parallel()
		svc, repo := newShoppingServiceFixture(t, groceries)
		repo.items["item-1"] = persistence.ShoppingItem{ID: "item-1", ListID: "list-1", Name: "Milk", Checked: true}
		repo.items["item-2"] = persistence.ShoppingItem{ID: "item-2", ListID: "list-1", Name: "Bread"}

		if err := svc.ClearCheckedItems(context.Background(), principal, "list-1"); err != nil {
			t.Fatalf("ClearCheckedItems failed: %v", err)
		}
		if _, ok := repo.items["item-1"]; ok {
			t.Error("checked item survived")
		}
		if _, ok := repo.items["item-2"]; !ok {
			t.Error("unchecked item removed")
		}
	})
}
