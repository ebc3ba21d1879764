package modelclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredict(t *testing.T) {
	var gotTrace string
	var gotFeatures map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/models/sale/predict", r.URL.Path)
		gotTrace = r.Header.Get("X-Trace-ID")

		var body predictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotFeatures = body.Features

		_, _ = w.Write([]byte(`{"prediction": 10500000.5}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", time.Second)
	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-1")

	got, err := client.Predict(ctx, domain.DealSale, domain.ModelFeatures{"area": 50.0, "rooms": "2"})
	require.NoError(t, err)
	assert.Equal(t, 10500000.5, got)
	assert.Equal(t, "trace-1", gotTrace)
	assert.Equal(t, "2", gotFeatures["rooms"])
}

func TestPredictErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/models/rent/predict":
			http.Error(w, "model not loaded", http.StatusServiceUnavailable)
		default:
			_, _ = w.Write([]byte(`{}`))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)

	_, err := client.Predict(context.Background(), domain.DealRent, domain.ModelFeatures{})
	assert.ErrorContains(t, err, "503")

	_, err = client.Predict(context.Background(), domain.DealSale, domain.ModelFeatures{})
	assert.ErrorContains(t, err, "no prediction")
}

func TestLoaded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/models/sale" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	assert.True(t, client.Loaded(context.Background(), domain.DealSale))
	assert.False(t, client.Loaded(context.Background(), domain.DealRent))

	unreachable := NewClient("http://127.0.0.1:1", 100*time.Millisecond)
	assert.False(t, unreachable.Loaded(context.Background(), domain.DealSale))
}
