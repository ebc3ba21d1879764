package modelclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"
	"strings"
	"time"
)

// Client - клиент сервиса моделей оценки.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) doRequest(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

func (c *Client) modelURL(dealType domain.DealType) string {
	return fmt.Sprintf("%s/v1/models/%s", c.baseURL, dealType.String())
}

// Predict возвращает сырое предсказание модели для типа сделки.
func (c *Client) Predict(ctx context.Context, dealType domain.DealType, features domain.ModelFeatures) (float64, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{
		"component": "ModelClient",
		"method":    "Predict",
		"deal_type": dealType.String(),
	})

	reqBody, err := json.Marshal(predictRequest{Features: features})
	if err != nil {
		return 0, fmt.Errorf("model client: failed to marshal features: %w", err)
	}

	url := c.modelURL(dealType) + "/predict"
	clientLogger.Debug("Sending request to model service", port.Fields{"url": url})

	resp, err := c.doRequest(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		clientLogger.Error("Failed to perform request to model service", err, nil)
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err := fmt.Errorf("model service returned non-success status code %d: %s", resp.StatusCode, string(bodyBytes))
		clientLogger.Error("Received error response from model service", err, port.Fields{"status_code": resp.StatusCode})
		return 0, err
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		clientLogger.Error("Failed to decode response from model service", err, nil)
		return 0, fmt.Errorf("model client: failed to decode response: %w", err)
	}
	if out.Prediction == nil {
		return 0, fmt.Errorf("model client: response has no prediction")
	}

	clientLogger.Debug("Prediction received", port.Fields{"prediction": *out.Prediction})
	return *out.Prediction, nil
}

// Loaded проверяет, что модель для типа сделки загружена.
func (c *Client) Loaded(ctx context.Context, dealType domain.DealType) bool {
	resp, err := c.doRequest(ctx, http.MethodGet, c.modelURL(dealType), nil)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Debug("Model status check failed", port.Fields{"deal_type": dealType.String(), "error": err.Error()})
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}
