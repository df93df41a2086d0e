package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tyrongower/Kinboard-sub000/internal/application"
)

type shoppingService interface {
	CreateList(ctx context.Context, principal application.Principal, input application.ShoppingListInput) (application.ShoppingList, error)
	RenameList(ctx context.Context, principal application.Principal, listID string, input application.ShoppingListInput) (application.ShoppingList, error)
	GetList(ctx context.Context, principal application.Principal, listID string) (application.ShoppingList, error)
	ListLists(ctx context.Context, principal application.Principal) ([]application.ShoppingList, error)
	DeleteList(ctx context.Context, principal application.Principal, listID string) error
	AddItem(ctx context.Context, principal application.Principal, listID string, input application.ShoppingItemInput) (application.ShoppingItem, error)
	UpdateItem(ctx context.Context, principal application.Principal, listID, itemID string, input application.ShoppingItemInput) (application.ShoppingItem, error)
	DeleteItem(ctx context.Context, principal application.Principal, listID, itemID string) error
	ClearCheckedItems(ctx context.Context, principal application.Principal, listID string) error
}

type ShoppingHandler struct {
	service   shoppingService
	responder responder
}

func NewShoppingHandler(service shoppingService, logger *slog.Logger) *ShoppingHandler {
	return &ShoppingHandler{service: service, responder: newResponder(logger)}
}

func (h *ShoppingHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req shoppingListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	list, err := h.service.CreateList(r.Context(), principal, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, shoppingListResponse{List: toShoppingListDTO(list)})
}

func (h *ShoppingHandler) RenameList(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req shoppingListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	list, err := h.service.RenameList(r.Context(), principal, chi.URLParam(r, "listID"), req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, shoppingListResponse{List: toShoppingListDTO(list)})
}

func (h *ShoppingHandler) GetList(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	list, err := h.service.GetList(r.Context(), principal, chi.URLParam(r, "listID"))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, shoppingListResponse{List: toShoppingListDTO(list)})
}

func (h *ShoppingHandler) ListLists(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	lists, err := h.service.ListLists(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listShoppingListsResponse{Lists: toShoppingListDTOs(lists)})
}

func (h *ShoppingHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.DeleteList(r.Context(), principal, chi.URLParam(r, "listID")); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ShoppingHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req shoppingItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	item, err := h.service.AddItem(r.Context(), principal, chi.URLParam(r, "listID"), req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, shoppingItemResponse{Item: toShoppingItemDTO(item)})
}

func (h *ShoppingHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req shoppingItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	item, err := h.service.UpdateItem(r.Context(), principal, chi.URLParam(r, "listID"), chi.URLParam(r, "itemID"), req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, shoppingItemResponse{Item: toShoppingItemDTO(item)})
}

func (h *ShoppingHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.DeleteItem(r.Context(), principal, chi.URLParam(r, "listID"), chi.URLParam(r, "itemID")); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// ClearChecked removes every checked item from a list in one call.
func (h *ShoppingHandler) ClearChecked(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.ClearCheckedItems(r.Context(), principal, chi.URLParam(r, "listID")); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type shoppingListRequest struct {
	Name string `json:"name"`
}

func (r shoppingListRequest) toInput() application.ShoppingListInput {
	return application.ShoppingListInput{Name: strings.TrimSpace(r.Name)}
}

type shoppingItemRequest struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Checked  bool   `json:"checked"`
	Position int    `json:"position"`
}

func (r shoppingItemRequest) toInput() application.ShoppingItemInput {
	return application.ShoppingItemInput{
		Name:     strings.TrimSpace(r.Name),
		Quantity: strings.TrimSpace(r.Quantity),
		Checked:  r.Checked,
		Position: r.Position,
	}
}

type shoppingListResponse struct {
	List shoppingListDTO `json:"list"`
}

type listShoppingListsResponse struct {
	Lists []shoppingListDTO `json:"lists"`
}

type shoppingItemResponse struct {
	Item shoppingItemDTO `json:"item"`
}

type shoppingListDTO struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Items     []shoppingItemDTO `json:"items"`
	CreatedAt string            `json:"created_at"`
	UpdatedAt string            `json:"updated_at"`
}

func toShoppingListDTO(list application.ShoppingList) shoppingListDTO {
	dto := shoppingListDTO{
		ID:        list.ID,
		Name:      list.Name,
		Items:     make([]shoppingItemDTO, 0, len(list.Items)),
		CreatedAt: list.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: list.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	for _, item := range list.Items {
		dto.Items = append(dto.Items, toShoppingItemDTO(item))
	}
	return dto
}

func toShoppingListDTOs(lists []application.ShoppingList) []shoppingListDTO {
	if len(lists) == 0 {
		return nil
	}
	out := make([]shoppingListDTO, 0, len(lists))
	for _, list := range lists {
		out = append(out, toShoppingListDTO(list))
	}
	return out
}

type shoppingItemDTO struct {
	ID        string `json:"id"`
	ListID    string `json:"list_id"`
	Name      string `json:"name"`
	Quantity  string `json:"quantity,omitempty"`
	Checked   bool   `json:"checked"`
	Position  int    `json:"position"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toShoppingItemDTO(item application.ShoppingItem) shoppingItemDTO {
	return shoppingItemDTO{
		ID:        item.ID,
		ListID:    item.ListID,
		Name:      item.Name,
		Quantity:  item.Quantity,
		Checked:   item.Checked,
		Position:  item.Position,
		CreatedAt: item.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: item.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
