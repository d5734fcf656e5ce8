package nlu

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyFlattensNestedEntities(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/predict", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":{"intent":"add_product","entities":{"products":{"name":"Tomato","price":"50/kg","quantity":300}}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	got, err := c.Classify(context.Background(), "add tomato 300kg at 50/kg", "user-1")
	require.NoError(t, err)

	assert.Equal(t, "add tomato 300kg at 50/kg", gotBody["message"])
	assert.Equal(t, "user-1", gotBody["userId"])

	assert.Equal(t, "add_product", got.Intent)
	assert.Equal(t, "Tomato", got.Entity("name"))
	assert.Equal(t, "50/kg", got.Entity("price"))
	// Numbers come through as their literal, not a float rendering.
	assert.Equal(t, "300", got.Entity("quantity"))
}

func TestClassifyCanonicalizesLegacyKeys(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"intent":"cancel_order","entities":{"orders":{"orderId":"abc-123"},"productName":"tomato"}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	got, err := c.Classify(context.Background(), "cancel order abc-123", "user-1")
	require.NoError(t, err)

	assert.Equal(t, "abc-123", got.Entity("order_id"))
	assert.Equal(t, "tomato", got.Entity("product_name"))
}

func TestClassifyDecodesSearchResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"intent":"search_products","entities":{"results":[{"name":"tomato","price":45,"quantity":20},{"name":"onion","price":"30","quantity":"50"}]}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	got, err := c.Classify(context.Background(), "any tomatoes nearby?", "user-1")
	require.NoError(t, err)

	require.Len(t, got.Results, 2)
	assert.Equal(t, SearchResult{Name: "tomato", Price: "45", Quantity: "20"}, got.Results[0])
	assert.Equal(t, SearchResult{Name: "onion", Price: "30", Quantity: "50"}, got.Results[1])
}

func TestClassifyMissingIntentBecomesFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"entities":{}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	got, err := c.Classify(context.Background(), "???", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "fallback", got.Intent)
}

func TestClassifyUpstreamFailures(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 2*time.Second)
		_, err := c.Classify(context.Background(), "hello", "user-1")
		assert.ErrorIs(t, err, ErrUpstream)
	})

	t.Run("undecodable body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 2*time.Second)
		_, err := c.Classify(context.Background(), "hello", "user-1")
		assert.ErrorIs(t, err, ErrUpstream)
	})

	t.Run("slow server hits client timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 20*time.Millisecond)
		_, err := c.Classify(context.Background(), "hello", "user-1")
		assert.ErrorIs(t, err, ErrUpstream)
	})

	t.Run("unreachable server", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:1", 200*time.Millisecond)
		_, err := c.Classify(context.Background(), "hello", "user-1")
		assert.ErrorIs(t, err, ErrUpstream)
	})
}

func TestEntityOnNil(t *testing.T) {
	var c *Classification
	assert.Equal(t, "", c.Entity("name"))
}
