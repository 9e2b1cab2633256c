package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetProduct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))

		switch r.URL.Path {
		case "/products/mug-01":
			json.NewEncoder(w).Encode(Product{
				ID: "mug-01", Title: "Ceramic Mug", Price: 24.50,
				Currency: "USD", Available: true,
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")

	t.Run("found", func(t *testing.T) {
		product, err := client.GetProduct(context.Background(), "mug-01")
		assert.NoError(t, err)
		assert.Equal(t, "Ceramic Mug", product.Title)
		assert.Equal(t, 24.50, product.Price)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := client.GetProduct(context.Background(), "gone")
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestPlaceOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		var req OrderRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if req.ProductID == "sold-out" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Order{
			Reference:    "ord_123",
			DeliveryDate: "2024-06-20",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")

	t.Run("accepted", func(t *testing.T) {
		order, err := client.PlaceOrder(context.Background(), OrderRequest{
			ProductID:     "mug-01",
			RecipientName: "Alice",
		})
		assert.NoError(t, err)
		assert.Equal(t, "ord_123", order.Reference)
		assert.Equal(t, "2024-06-20", order.DeliveryDate)
	})

	t.Run("rejected", func(t *testing.T) {
		_, err := client.PlaceOrder(context.Background(), OrderRequest{ProductID: "sold-out"})
		assert.ErrorIs(t, err, ErrOrderRejected)
	})
}
