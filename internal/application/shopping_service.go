package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tyrongower/Kinboard-sub000/internal/persistence"
)

// ShoppingService orchestrates validation and persistence for shopping lists
// and their items.
type ShoppingService struct {
	shopping    persistence.ShoppingRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewShoppingService wires dependencies for shopping operations.
func NewShoppingService(shopping persistence.ShoppingRepository, idGenerator func() string, now func() time.Time) *ShoppingService {
	return NewShoppingServiceWithLogger(shopping, idGenerator, now, nil)
}

// NewShoppingServiceWithLogger constructs a ShoppingService with a specified logger.
func NewShoppingServiceWithLogger(shopping persistence.ShoppingRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ShoppingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ShoppingService{shopping: shopping, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *ShoppingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ShoppingService", operation, attrs...)
}

// CreateList validates input and persists a new shopping list.
func (s *ShoppingService) CreateList(ctx context.Context, principal Principal, input ShoppingListInput) (list ShoppingList, err error) {
	if s == nil {
		err = fmt.Errorf("ShoppingService is nil")
		return
	}
	if s.shopping == nil {
		err = fmt.Errorf("shopping repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateList", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "list creation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("list_id", list.ID).InfoContext(ctx, "shopping list created")
	}()

	name := strings.TrimSpace(input.Name)
	if name == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		err = vErr
		return
	}

	createdAt := s.now()
	record := persistence.ShoppingList{
		ID:        s.idGenerator(),
		Name:      name,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err = s.shopping.CreateList(ctx, record); err != nil {
		err = mapRepoError(err)
		return
	}
	list = shoppingListFromRecord(record)
	return
}

// RenameList updates the name of an existing list.
func (s *ShoppingService) RenameList(ctx context.Context, principal Principal, listID string, input ShoppingListInput) (list ShoppingList, err error) {
	if s == nil {
		err = fmt.Errorf("ShoppingService is nil")
		return
	}
	if s.shopping == nil {
		err = fmt.Errorf("shopping repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "RenameList", "list_id", listID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "list rename failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "shopping list renamed")
	}()

	var existing persistence.ShoppingList
	existing, err = s.shopping.GetList(ctx, listID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		err = vErr
		return
	}

	existing.Name = name
	existing.UpdatedAt = s.now()
	if err = s.shopping.UpdateList(ctx, existing); err != nil {
		err = mapRepoError(err)
		return
	}
	list = shoppingListFromRecord(existing)
	return
}

// GetList returns one list with its items in display order.
func (s *ShoppingService) GetList(ctx context.Context, principal Principal, listID string) (ShoppingList, error) {
	if s == nil {
		return ShoppingList{}, fmt.Errorf("ShoppingService is nil")
	}
	if s.shopping == nil {
		return ShoppingList{}, fmt.Errorf("shopping repository not configured")
	}

	record, err := s.shopping.GetList(ctx, listID)
	if err != nil {
		return ShoppingList{}, mapRepoError(err)
	}
	list := shoppingListFromRecord(record)

	items, err := s.shopping.ListItems(ctx, listID)
	if err != nil {
		return ShoppingList{}, mapRepoError(err)
	}
	for _, item := range items {
		list.Items = append(list.Items, shoppingItemFromRecord(item))
	}
	return list, nil
}

// ListLists returns every shopping list with its items.
func (s *ShoppingService) ListLists(ctx context.Context, principal Principal) ([]ShoppingList, error) {
	if s == nil {
		return nil, fmt.Errorf("ShoppingService is nil")
	}
	if s.shopping == nil {
		return nil, nil
	}

	records, err := s.shopping.ListLists(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	lists := make([]ShoppingList, 0, len(records))
	for _, record := range records {
		list := shoppingListFromRecord(record)
		items, err := s.shopping.ListItems(ctx, record.ID)
		if err != nil {
			return nil, mapRepoError(err)
		}
		for _, item := range items {
			list.Items = append(list.Items, shoppingItemFromRecord(item))
		}
		lists = append(lists, list)
	}
	return lists, nil
}

// DeleteList removes a list and its items.
func (s *ShoppingService) DeleteList(ctx context.Context, principal Principal, listID string) error {
	if s == nil {
		return fmt.Errorf("ShoppingService is nil")
	}
	if s.shopping == nil {
		return fmt.Errorf("shopping repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteList", "list_id", listID)
	if err := s.shopping.DeleteList(ctx, listID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "list deletion failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "shopping list deleted")
	return nil
}

// AddItem validates input and appends an item to a list.
func (s *ShoppingService) AddItem(ctx context.Context, principal Principal, listID string, input ShoppingItemInput) (item ShoppingItem, err error) {
	if s == nil {
		err = fmt.Errorf("ShoppingService is nil")
		return
	}
	if s.shopping == nil {
		err = fmt.Errorf("shopping repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "AddItem", "list_id", listID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "item creation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("item_id", item.ID).InfoContext(ctx, "shopping item added")
	}()

	if _, err = s.shopping.GetList(ctx, listID); err != nil {
		err = mapRepoError(err)
		return
	}

	normalized := normalizeItemInput(input)
	vErr := validateItemInput(normalized)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	createdAt := s.now()
	record := persistence.ShoppingItem{
		ID:        s.idGenerator(),
		ListID:    listID,
		Name:      normalized.Name,
		Quantity:  normalized.Quantity,
		Checked:   normalized.Checked,
		Position:  normalized.Position,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err = s.shopping.CreateItem(ctx, record); err != nil {
		err = mapRepoError(err)
		return
	}
	item = shoppingItemFromRecord(record)
	return
}

// UpdateItem rewrites an item scoped to its list. Toggling Checked goes
// through here as well.
func (s *ShoppingService) UpdateItem(ctx context.Context, principal Principal, listID, itemID string, input ShoppingItemInput) (item ShoppingItem, err error) {
	if s == nil {
		err = fmt.Errorf("ShoppingService is nil")
		return
	}
	if s.shopping == nil {
		err = fmt.Errorf("shopping repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateItem", "list_id", listID, "item_id", itemID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "item update failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "shopping item updated")
	}()

	var existing persistence.ShoppingItem
	existing, err = s.shopping.GetItem(ctx, listID, itemID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	normalized := normalizeItemInput(input)
	vErr := validateItemInput(normalized)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	existing.Name = normalized.Name
	existing.Quantity = normalized.Quantity
	existing.Checked = normalized.Checked
	existing.Position = normalized.Position
	existing.UpdatedAt = s.now()

	if err = s.shopping.UpdateItem(ctx, existing); err != nil {
		err = mapRepoError(err)
		return
	}
	item = shoppingItemFromRecord(existing)
	return
}

// DeleteItem removes one item from a list.
func (s *ShoppingService) DeleteItem(ctx context.Context, principal Principal, listID, itemID string) error {
	if s == nil {
		return fmt.Errorf("ShoppingService is nil")
	}
	if s.shopping == nil {
		return fmt.Errorf("shopping repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteItem", "list_id", listID, "item_id", itemID)
	if err := s.shopping.DeleteItem(ctx, listID, itemID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "item deletion failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "shopping item deleted")
	return nil
}

// ClearCheckedItems removes every checked item from a list.
func (s *ShoppingService) ClearCheckedItems(ctx context.Context, principal Principal, listID string) error {
	if s == nil {
		return fmt.Errorf("ShoppingService is nil")
	}
	if s.shopping == nil {
		return fmt.Errorf("shopping repository not configured")
	}

	logger := s.loggerWith(ctx, "ClearCheckedItems", "list_id", listID)
	if _, err := s.shopping.GetList(ctx, listID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "clearing checked items failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	if err := s.shopping.DeleteCheckedItems(ctx, listID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "clearing checked items failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "checked items cleared")
	return nil
}

func normalizeItemInput(input ShoppingItemInput) ShoppingItemInput {
	normalized := input
	normalized.Name = strings.TrimSpace(input.Name)
	normalized.Quantity = strings.TrimSpace(input.Quantity)
	return normalized
}

func validateItemInput(input ShoppingItemInput) *ValidationError {
	vErr := &ValidationError{}
	if input.Name == "" {
		vErr.add("name", "name is required")
	}
	if input.Position < 0 {
		vErr.add("position", "position must not be negative")
	}
	return vErr
}
