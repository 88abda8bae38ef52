package fulfillment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"app/internal/cache"
	"app/internal/fulfillment"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenCache(t *testing.T) cache.TokenCache {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisTokenCache(client)
}

func TestHTTPClient_GetAccessToken_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/token", r.URL.Path)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client-1", r.PostFormValue("ClientId"))
		assert.Equal(t, "secret-1", r.PostFormValue("client_secret"))

		_ = json.NewEncoder(w).Encode(map[string]string{"Accesstoken": "tok-abc"})
	}))
	defer srv.Close()

	c := fulfillment.NewHTTPClient(srv.URL, "client-1", "secret-1", newTokenCache(t))

	token, err := c.GetAccessToken(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "tok-abc", token)
}

func TestHTTPClient_GetAccessToken_MissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		//Accesstokenが入っていない応答
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))
	defer srv.Close()

	c := fulfillment.NewHTTPClient(srv.URL, "client-1", "secret-1", newTokenCache(t))

	_, err := c.GetAccessToken(context.Background())
	assert.ErrorIs(t, err, fulfillment.ErrTokenUnavailable)
}

func TestHTTPClient_GetAccessToken_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := fulfillment.NewHTTPClient(srv.URL, "client-1", "secret-1", newTokenCache(t))

	_, err := c.GetAccessToken(context.Background())
	assert.ErrorIs(t, err, fulfillment.ErrTokenUnavailable)
}

func TestHTTPClient_AccessToken_UsesCache(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_ = json.NewEncoder(w).Encode(map[string]string{"Accesstoken": "tok-abc"})
	}))
	defer srv.Close()

	c := fulfillment.NewHTTPClient(srv.URL, "client-1", "secret-1", newTokenCache(t))

	//1回目は業者に行く
	token, err := c.AccessToken(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "tok-abc", token)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	//2回目はキャッシュから
	token, err = c.AccessToken(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "tok-abc", token)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestHTTPClient_SubmitOrder_Success(t *testing.T) {
	var gotPayload fulfillment.OrderPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/order/create", r.URL.Path)

		//認証はヘッダ2つ
		assert.Equal(t, "client-1", r.Header.Get("ClientId"))
		assert.Equal(t, "tok-abc", r.Header.Get("Accesstoken"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		_ = json.NewEncoder(w).Encode(map[string]string{
			"message":      "Order created successfully",
			"tracking_url": "https://track.example.com/1",
		})
	}))
	defer srv.Close()

	c := fulfillment.NewHTTPClient(srv.URL, "client-1", "secret-1", newTokenCache(t))

	payload := fulfillment.OrderPayload{
		OrderNumber:      "ORD-1",
		ProviderShipping: "1",
		Gateway:          "COD",
		TotalOrderValue:  "998.00",
		LineItems: []fulfillment.LineItem{
			{SearchFromMyProducts: 1, SKU: "SKU-A", Quantity: "2", Price: "998.00", Designs: []string{}},
		},
		ShippingAddress: fulfillment.ShippingAddress{FirstName: "Asha", City: "Bengaluru", Zip: "560001", CountryCode: "IN"},
	}

	resp, err := c.SubmitOrder(context.Background(), "tok-abc", payload)
	assert.NoError(t, err)
	assert.Equal(t, fulfillment.MessageOrderCreated, resp.Message)
	assert.Equal(t, "https://track.example.com/1", resp.TrackingURL)

	assert.Equal(t, "ORD-1", gotPayload.OrderNumber)
	assert.Equal(t, "1", gotPayload.ProviderShipping)
}

func TestHTTPClient_SubmitOrder_Decline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		//2xxだが拒否メッセージ。エラーにはせず呼び出し側で判定する。
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid SKU"})
	}))
	defer srv.Close()

	c := fulfillment.NewHTTPClient(srv.URL, "client-1", "secret-1", newTokenCache(t))

	resp, err := c.SubmitOrder(context.Background(), "tok-abc", fulfillment.OrderPayload{OrderNumber: "ORD-1"})
	assert.NoError(t, err)
	assert.Equal(t, "Invalid SKU", resp.Message)
	assert.NotEqual(t, fulfillment.MessageOrderCreated, resp.Message)
}

func TestHTTPClient_SubmitOrder_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := fulfillment.NewHTTPClient(srv.URL, "client-1", "secret-1", newTokenCache(t))

	_, err := c.SubmitOrder(context.Background(), "tok-abc", fulfillment.OrderPayload{OrderNumber: "ORD-1"})
	assert.ErrorIs(t, err, fulfillment.ErrUpstream)
}
