package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/slotadmin/backend/internal/domain/expressfee"
)

func newTestClient() *Client {
	return NewClient(Config{}, zap.NewNop())
}

func testCreds(serverURL string) expressfee.CatalogCredentials {
	return expressfee.CatalogCredentials{
		ShopDomain:  serverURL,
		AccessToken: "shpat_test",
		APIVersion:  "2024-10",
	}
}

func TestFindBySignatureMatchesExactTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "shpat_test", r.Header.Get("X-Shopify-Access-Token"))
		assert.Equal(t, "/admin/api/2024-10/products.json", r.URL.Path)
		assert.Equal(t, "Express Slot Fee 5.99", r.URL.Query().Get("title"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"products": []map[string]any{
				{
					"id": 101, "title": "Express Slot Fee 5.99", "vendor": "Slot Admin",
					"tags":     "slotadmin-express-fee",
					"variants": []map[string]any{{"id": 201, "price": "5.99", "sku": "SLOTADMIN-EXPRESS-5.99"}},
				},
			},
		})
	}))
	defer server.Close()

	product, err := newTestClient().FindBySignature(context.Background(), testCreds(server.URL), decimal.NewFromFloat(5.99))
	require.NoError(t, err)
	assert.Equal(t, int64(101), product.RemoteID)
	assert.Equal(t, int64(201), product.VariantID)
	assert.True(t, product.PriceMatches(decimal.NewFromFloat(5.99)))
}

func TestFindBySignatureIgnoresNearMisses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"products": []map[string]any{
				{"id": 101, "title": "Express Slot Fee 5.99 (old)", "vendor": "Slot Admin"},
			},
		})
	}))
	defer server.Close()

	_, err := newTestClient().FindBySignature(context.Background(), testCreds(server.URL), decimal.NewFromFloat(5.99))
	assert.ErrorIs(t, err, expressfee.ErrProductNotFound)
}

func TestCreateSendsDraftProduct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var envelope productEnvelope
		require.NoError(t, json.NewDecoder(r.Body).Decode(&envelope))
		assert.Equal(t, "Express Slot Fee 12.50", envelope.Product.Title)
		assert.Equal(t, "Slot Admin", envelope.Product.Vendor)
		assert.Equal(t, "slotadmin-express-fee", envelope.Product.Tags)
		assert.Equal(t, "draft", envelope.Product.Status)
		require.Len(t, envelope.Product.Variants, 1)
		assert.Equal(t, "12.50", envelope.Product.Variants[0].Price)

		envelope.Product.ID = 777
		envelope.Product.Variants[0].ID = 888
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(envelope)
	}))
	defer server.Close()

	product, err := newTestClient().Create(context.Background(), testCreds(server.URL), decimal.NewFromFloat(12.5))
	require.NoError(t, err)
	assert.Equal(t, int64(777), product.RemoteID)
	assert.Equal(t, int64(888), product.VariantID)
}

func TestUpdatePricePutsVariant(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/admin/api/2024-10/variants/888.json", r.URL.Path)

		var envelope variantEnvelope
		require.NoError(t, json.NewDecoder(r.Body).Decode(&envelope))
		assert.Equal(t, "7.00", envelope.Variant.Price)

		_ = json.NewEncoder(w).Encode(envelope)
	}))
	defer server.Close()

	product := &expressfee.FeeProduct{RemoteID: 777, VariantID: 888}
	err := newTestClient().UpdatePrice(context.Background(), testCreds(server.URL), product, decimal.NewFromInt(7))
	require.NoError(t, err)
}

func TestListByMarkerFiltersOnTag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Slot Admin", r.URL.Query().Get("vendor"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"products": []map[string]any{
				{"id": 1, "title": "Express Slot Fee 5.00", "vendor": "Slot Admin", "tags": "slotadmin-express-fee"},
				{"id": 2, "title": "Gift Card", "vendor": "Slot Admin", "tags": "gift"},
				{"id": 3, "title": "Express Slot Fee 9.00", "vendor": "Slot Admin", "tags": "featured, slotadmin-express-fee"},
			},
		})
	}))
	defer server.Close()

	products, err := newTestClient().ListByMarker(context.Background(), testCreds(server.URL))
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int64(1), products[0].RemoteID)
	assert.Equal(t, int64(3), products[1].RemoteID)
}

func TestDelete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/admin/api/2024-10/products/555.json", r.URL.Path)
		fmt.Fprint(w, "{}")
	}))
	defer server.Close()

	err := newTestClient().Delete(context.Background(), testCreds(server.URL), 555)
	require.NoError(t, err)
}

func TestDeleteTreatsMissingProductAsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	err := newTestClient().Delete(context.Background(), testCreds(server.URL), 555)
	require.NoError(t, err)
}

func TestListByMarkerFollowsLinkHeaderPagination(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cursor := r.URL.Query().Get("page_info"); cursor != "" {
			// Cursor pages must not repeat the vendor filter
			assert.Equal(t, "cursor-2", cursor)
			assert.Empty(t, r.URL.Query().Get("vendor"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"products": []map[string]any{
					{"id": 2, "title": "Express Slot Fee 9.00", "vendor": "Slot Admin", "tags": "slotadmin-express-fee"},
				},
			})
			return
		}

		assert.Equal(t, "Slot Admin", r.URL.Query().Get("vendor"))
		w.Header().Set("Link", fmt.Sprintf(`<%s/admin/api/2024-10/products.json?page_info=cursor-2&limit=250>; rel="next"`, server.URL))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"products": []map[string]any{
				{"id": 1, "title": "Express Slot Fee 5.00", "vendor": "Slot Admin", "tags": "slotadmin-express-fee"},
			},
		})
	}))
	defer server.Close()

	products, err := newTestClient().ListByMarker(context.Background(), testCreds(server.URL))
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int64(1), products[0].RemoteID)
	assert.Equal(t, int64(2), products[1].RemoteID)
}

func TestNextPageCursor(t *testing.T) {
	tests := []struct {
		name string
		link string
		want string
	}{
		{
			name: "next only",
			link: `<https://demo.myshopify.com/admin/api/2024-10/products.json?page_info=abc&limit=250>; rel="next"`,
			want: "abc",
		},
		{
			name: "previous and next",
			link: `<https://demo.myshopify.com/admin/api/2024-10/products.json?page_info=prev>; rel="previous", <https://demo.myshopify.com/admin/api/2024-10/products.json?page_info=fwd>; rel="next"`,
			want: "fwd",
		},
		{
			name: "previous only",
			link: `<https://demo.myshopify.com/admin/api/2024-10/products.json?page_info=prev>; rel="previous"`,
			want: "",
		},
		{
			name: "empty header",
			link: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextPageCursor(tt.link))
		})
	}
}

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		status  int
		wantErr error
	}{
		{http.StatusUnauthorized, expressfee.ErrCatalogUnauthorized},
		{http.StatusForbidden, expressfee.ErrCatalogUnauthorized},
		{http.StatusNotFound, expressfee.ErrProductNotFound},
		{http.StatusTooManyRequests, expressfee.ErrCatalogUnavailable},
		{http.StatusInternalServerError, expressfee.ErrCatalogUnavailable},
		{http.StatusUnprocessableEntity, expressfee.ErrCatalogRequestFailed},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		_, err := newTestClient().ListByMarker(context.Background(), testCreds(server.URL))
		assert.ErrorIs(t, err, tt.wantErr, "status %d", tt.status)
		server.Close()
	}
}

func TestNetworkErrorIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := newTestClient().ListByMarker(context.Background(), testCreds(server.URL))
	assert.ErrorIs(t, err, expressfee.ErrCatalogUnavailable)
}
