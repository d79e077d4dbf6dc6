package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"green-grocer/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCartHandler(svc *MockCartService) *CartHandler {
	return NewCartHandler(svc, zerolog.Nop())
}

func emptySummary() *model.CartSummary {
	return &model.CartSummary{
		Items:    []model.CartItem{},
		Subtotal: "0.00",
		Tax:      "0.00",
		Shipping: "0.00",
		Total:    "0.00",
	}
}

func TestCartHandler_AddItem(t *testing.T) {
	userID := uuid.New()

	addBody := func(productID string, qty int) *bytes.Buffer {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(model.AddCartItemRequest{
			ProductID: productID,
			Quantity:  qty,
		}))
		return &buf
	}

	t.Run("success returns the refreshed summary", func(t *testing.T) {
		svc := new(MockCartService)
		h := newCartHandler(svc)

		summary := &model.CartSummary{
			Items:    []model.CartItem{{ProductID: "P001", Quantity: 2, UnitPrice: "2.50", LineTotal: "5.00"}},
			Subtotal: "5.00",
			Tax:      "0.50",
			Shipping: "10.00",
			Total:    "15.50",
		}
		svc.On("AddItem", mock.Anything, userID, "P001", 2).Return(nil)
		svc.On("GetSummary", mock.Anything, userID).Return(summary, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/cart/items", addBody("P001", 2))
		w := serveAs(t, h.AddItem, req, userID, "")

		assert.Equal(t, http.StatusOK, w.Code)

		var got model.CartSummary
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, "15.50", got.Total)
	})

	t.Run("missing product id", func(t *testing.T) {
		svc := new(MockCartService)
		h := newCartHandler(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/cart/items", addBody("", 2))
		w := serveAs(t, h.AddItem, req, userID, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("out of stock maps to conflict", func(t *testing.T) {
		svc := new(MockCartService)
		h := newCartHandler(svc)

		svc.On("AddItem", mock.Anything, userID, "P001", 99).
			Return(model.NewOutOfStockError("Apples"))

		req := httptest.NewRequest(http.MethodPost, "/api/cart/items", addBody("P001", 99))
		w := serveAs(t, h.AddItem, req, userID, "")

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("requires identity", func(t *testing.T) {
		h := newCartHandler(new(MockCartService))

		req := httptest.NewRequest(http.MethodPost, "/api/cart/items", addBody("P001", 1))
		w := serveAs(t, h.AddItem, req, uuid.Nil, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestCartHandler_UpdateItem(t *testing.T) {
	userID := uuid.New()

	svc := new(MockCartService)
	h := newCartHandler(svc)

	svc.On("UpdateQuantity", mock.Anything, userID, "P001", 4).Return(nil)
	svc.On("GetSummary", mock.Anything, userID).Return(emptySummary(), nil)

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(model.UpdateCartItemRequest{Quantity: 4}))

	req := httptest.NewRequest(http.MethodPut, "/api/cart/items/P001", &buf)
	w := serveAs(t, h.UpdateItem, req, userID, "")

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestCartHandler_RemoveItem(t *testing.T) {
	userID := uuid.New()

	svc := new(MockCartService)
	h := newCartHandler(svc)

	svc.On("RemoveItem", mock.Anything, userID, "P001").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/cart/items/P001", nil)
	w := serveAs(t, h.RemoveItem, req, userID, "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

func TestCartHandler_GetSummary(t *testing.T) {
	userID := uuid.New()

	svc := new(MockCartService)
	h := newCartHandler(svc)

	svc.On("GetSummary", mock.Anything, userID).Return(emptySummary(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	w := serveAs(t, h.GetSummary, req, userID, "")

	assert.Equal(t, http.StatusOK, w.Code)

	var got model.CartSummary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "0.00", got.Total)
	assert.Empty(t, got.Items)
}

func TestCartHandler_Clear(t *testing.T) {
	userID := uuid.New()

	svc := new(MockCartService)
	h := newCartHandler(svc)

	svc.On("Clear", mock.Anything, userID).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/cart", nil)
	w := serveAs(t, h.Clear, req, userID, "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}
