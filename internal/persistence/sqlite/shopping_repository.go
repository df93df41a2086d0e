package sqlite

import (
	"context"
	"fmt"

	"github.com/tyrongower/Kinboard-sub000/internal/persistence"
)

// ShoppingRepository implements persistence.ShoppingRepository using SQLite.
type ShoppingRepository struct {
	db *DB
}

// NewShoppingRepository creates a SQLite-backed shopping repository.
func NewShoppingRepository(db *DB) *ShoppingRepository {
	return &ShoppingRepository{db: db}
}

const shoppingItemColumns = `id, list_id, name, quantity, checked, position,
	created_at, updated_at`

// CreateList inserts a shopping list.
func (r *ShoppingRepository) CreateList(ctx context.Context, list persistence.ShoppingList) error {
	if list.ID == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := r.db.db.ExecContext(ctx, `INSERT INTO shopping_lists
		(id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		list.ID, list.Name, formatTime(list.CreatedAt), formatTime(list.UpdatedAt))
	return mapError(err)
}

// UpdateList rewrites a shopping list row.
func (r *ShoppingRepository) UpdateList(ctx context.Context, list persistence.ShoppingList) error {
	result, err := r.db.db.ExecContext(ctx,
		"UPDATE shopping_lists SET name = ?, updated_at = ? WHERE id = ?",
		list.Name, formatTime(list.UpdatedAt), list.ID)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// GetList retrieves a shopping list by ID.
func (r *ShoppingRepository) GetList(ctx context.Context, id string) (persistence.ShoppingList, error) {
	if id == "" {
		return persistence.ShoppingList{}, persistence.ErrNotFound
	}
	row := r.db.db.QueryRowContext(ctx,
		"SELECT id, name, created_at, updated_at FROM shopping_lists WHERE id = ?", id)

	var (
		list                 persistence.ShoppingList
		createdAt, updatedAt string
	)
	err := row.Scan(&list.ID, &list.Name, &createdAt, &updatedAt)
	if err != nil {
		return persistence.ShoppingList{}, mapError(err)
	}
	if list.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.ShoppingList{}, fmt.Errorf("shopping list %s: %w", list.ID, err)
	}
	if list.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.ShoppingList{}, fmt.Errorf("shopping list %s: %w", list.ID, err)
	}
	return list, nil
}

// ListLists returns every shopping list ordered by creation time.
func (r *ShoppingRepository) ListLists(ctx context.Context) ([]persistence.ShoppingList, error) {
	rows, err := r.db.db.QueryContext(ctx,
		"SELECT id, name, created_at, updated_at FROM shopping_lists ORDER BY created_at ASC, id ASC")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var lists []persistence.ShoppingList
	for rows.Next() {
		var (
			list                 persistence.ShoppingList
			createdAt, updatedAt string
		)
		if err := rows.Scan(&list.ID, &list.Name, &createdAt, &updatedAt); err != nil {
			return nil, mapError(err)
		}
		if list.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("shopping list %s: %w", list.ID, err)
		}
		if list.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("shopping list %s: %w", list.ID, err)
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return lists, nil
}

// DeleteList removes a shopping list; its items cascade.
func (r *ShoppingRepository) DeleteList(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}
	result, err := r.db.db.ExecContext(ctx, "DELETE FROM shopping_lists WHERE id = ?", id)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// CreateItem inserts an item into a shopping list.
func (r *ShoppingRepository) CreateItem(ctx context.Context, item persistence.ShoppingItem) error {
	if item.ID == "" || item.ListID == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := r.db.db.ExecContext(ctx, `INSERT INTO shopping_items (`+shoppingItemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.ListID,
		item.Name,
		item.Quantity,
		item.Checked,
		item.Position,
		formatTime(item.CreatedAt),
		formatTime(item.UpdatedAt),
	)
	return mapError(err)
}

// UpdateItem rewrites an item row scoped to its list.
func (r *ShoppingRepository) UpdateItem(ctx context.Context, item persistence.ShoppingItem) error {
	result, err := r.db.db.ExecContext(ctx, `UPDATE shopping_items
		SET name = ?, quantity = ?, checked = ?, position = ?, updated_at = ?
		WHERE id = ? AND list_id = ?`,
		item.Name,
		item.Quantity,
		item.Checked,
		item.Position,
		formatTime(item.UpdatedAt),
		item.ID,
		item.ListID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// GetItem retrieves a single item scoped to its list.
func (r *ShoppingRepository) GetItem(ctx context.Context, listID, itemID string) (persistence.ShoppingItem, error) {
	row := r.db.db.QueryRowContext(ctx,
		`SELECT `+shoppingItemColumns+` FROM shopping_items WHERE id = ? AND list_id = ?`,
		itemID, listID)
	return scanShoppingItem(row)
}

// ListItems returns the items of a list in display order.
func (r *ShoppingRepository) ListItems(ctx context.Context, listID string) ([]persistence.ShoppingItem, error) {
	rows, err := r.db.db.QueryContext(ctx,
		`SELECT `+shoppingItemColumns+` FROM shopping_items
		WHERE list_id = ? ORDER BY position ASC, id ASC`, listID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var items []persistence.ShoppingItem
	for rows.Next() {
		item, err := scanShoppingItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

// DeleteItem removes a single item scoped to its list.
func (r *ShoppingRepository) DeleteItem(ctx context.Context, listID, itemID string) error {
	result, err := r.db.db.ExecContext(ctx,
		"DELETE FROM shopping_items WHERE id = ? AND list_id = ?", itemID, listID)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// DeleteCheckedItems clears every checked item from a list. Deleting zero
// rows is not an error.
func (r *ShoppingRepository) DeleteCheckedItems(ctx context.Context, listID string) error {
	_, err := r.db.db.ExecContext(ctx,
		"DELETE FROM shopping_items WHERE list_id = ? AND checked = 1", listID)
	return mapError(err)
}

func scanShoppingItem(row rowScanner) (persistence.ShoppingItem, error) {
	var (
		item                 persistence.ShoppingItem
		createdAt, updatedAt string
	)
	err := row.Scan(
		&item.ID,
		&item.ListID,
		&item.Name,
		&item.Quantity,
		&item.Checked,
		&item.Position,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.ShoppingItem{}, mapError(err)
	}
	if item.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.ShoppingItem{}, fmt.Errorf("shopping item %s: %w", item.ID, err)
	}
	if item.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.ShoppingItem{}, fmt.Errorf("shopping item %s: %w", item.ID, err)
	}
	return item, nil
}
