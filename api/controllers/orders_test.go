package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/casamichael/shopping-backend/api/middleware"
	internalorders "github.com/casamichael/shopping-backend/internal/orders"
	pkgerrors "github.com/casamichael/shopping-backend/pkg/errors"
)

type stubOrderService struct {
	order *internalorders.OrderDTO
	list  []internalorders.OrderDTO
	err   error
}

func (s stubOrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, remarks *string) (*internalorders.OrderDTO, error) {
	return s.order, s.err
}

func (s stubOrderService) MarkProcessed(ctx context.Context, orderID uuid.UUID) (*internalorders.OrderDTO, error) {
	return s.order, s.err
}

func (s stubOrderService) MarkShipped(ctx context.Context, orderID uuid.UUID) (*internalorders.OrderDTO, error) {
	return s.order, s.err
}

func (s stubOrderService) MarkConfirmed(ctx context.Context, orderID uuid.UUID) (*internalorders.OrderDTO, error) {
	return s.order, s.err
}

func (s stubOrderService) Cancel(ctx context.Context, orderID uuid.UUID) (*internalorders.OrderDTO, error) {
	return s.order, s.err
}

func (s stubOrderService) Get(ctx context.Context, orderID uuid.UUID) (*internalorders.OrderDTO, error) {
	return s.order, s.err
}

func (s stubOrderService) GetForUser(ctx context.Context, orderID, userID uuid.UUID) (*internalorders.OrderDTO, error) {
	return s.order, s.err
}

func (s stubOrderService) ListAll(ctx context.Context) ([]internalorders.OrderDTO, error) {
	return s.list, s.err
}

func (s stubOrderService) ListByUser(ctx context.Context, userID uuid.UUID) ([]internalorders.OrderDTO, error) {
	return s.list, s.err
}

func authedRequest(method, target string, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
}

func TestPlaceOrderCreated(t *testing.T) {
	order := &internalorders.OrderDTO{ID: uuid.New(), Status: "new"}
	handler := PlaceOrder(stubOrderService{order: order}, nil)

	req := authedRequest(http.MethodPost, "/api/v1/orders", uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}

	var envelope struct {
		Data internalorders.OrderDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != order.ID {
		t.Fatalf("unexpected order id: %s", envelope.Data.ID)
	}
}

func TestPlaceOrderEmptyCartConflict(t *testing.T) {
	err := pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	handler := PlaceOrder(stubOrderService{err: err}, nil)

	req := authedRequest(http.MethodPost, "/api/v1/orders", uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestPlaceOrderMissingUserContext(t *testing.T) {
	handler := PlaceOrder(stubOrderService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestMarkOrderProcessedInvalidID(t *testing.T) {
	handler := MarkOrderProcessed(stubOrderService{}, nil)

	router := chi.NewRouter()
	router.Post("/orders/{orderID}/processed", handler)

	req := authedRequest(http.MethodPost, "/orders/not-a-uuid/processed", uuid.New())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCancelOrderStateConflict(t *testing.T) {
	err := pkgerrors.New(pkgerrors.CodeStateConflict, "order is already cancelled")
	handler := CancelOrder(stubOrderService{err: err}, nil)

	router := chi.NewRouter()
	router.Post("/orders/{orderID}/cancel", handler)

	req := authedRequest(http.MethodPost, "/orders/"+uuid.NewString()+"/cancel", uuid.New())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestMyOrdersReturnsList(t *testing.T) {
	list := []internalorders.OrderDTO{{ID: uuid.New()}, {ID: uuid.New()}}
	handler := MyOrders(stubOrderService{list: list}, nil)

	req := authedRequest(http.MethodGet, "/api/v1/orders", uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data []internalorders.OrderDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("expected 2 orders got %d", len(envelope.Data))
	}
}
