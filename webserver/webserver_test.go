package webserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoai/mocks"
	"cryptoai/model"
	"cryptoai/utils/auth"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) (*WebServer, *mocks.MockUserStore, *mocks.MockLedger, *mocks.MockStrategyStore) {
	t.Helper()
	users := mocks.NewMockUserStore(model.User{ID: "u1", Email: "u1@test.local", Balance: 10000})
	ledger := mocks.NewMockLedger()
	ledger.Balances["u1"] = 10000
	strategies := &mocks.MockStrategyStore{}
	return NewWebServer(testSecret, users, ledger, strategies), users, ledger, strategies
}

func authHeader(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateSessionToken(testSecret, "u1", "u1@test.local")
	require.NoError(t, err)
	return "Bearer " + token
}

func doRequest(t *testing.T, ws *WebServer, method, target, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	res, err := ws.App().Test(req, -1)
	require.NoError(t, err)
	return res
}

func decodeBody[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

func TestWebServer_HealthzNeedsNoAuth(t *testing.T) {
	ws, _, _, _ := newTestServer(t)

	res := doRequest(t, ws, http.MethodGet, "/healthz", "", nil)

	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestWebServer_MissingTokenIs401(t *testing.T) {
	ws, _, _, _ := newTestServer(t)

	res := doRequest(t, ws, http.MethodGet, "/api/user", "", nil)

	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	body := decodeBody[map[string]string](t, res)
	assert.Equal(t, "Unauthorized", body["error"])
}

func TestWebServer_BadTokenIs401(t *testing.T) {
	ws, _, _, _ := newTestServer(t)

	res := doRequest(t, ws, http.MethodGet, "/api/user", "Bearer not-a-token", nil)

	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestWebServer_GetUserReturnsBootstrapState(t *testing.T) {
	ws, _, ledger, strategies := newTestServer(t)
	_, err := ledger.ExecuteTrade(context.Background(), model.TradeRequest{
		UserID: "u1", Pair: "BTCUSDT", Type: model.TradeTypeBuy, Price: 50000, Amount: 0.001,
	})
	require.NoError(t, err)
	buyAt := 45000.0
	strategies.Strategies = []model.Strategy{
		{ID: "s1", UserID: "u1", Pair: "BTCUSDT", BuyAt: &buyAt, Amount: 0.001, Active: true},
	}

	res := doRequest(t, ws, http.MethodGet, "/api/user", authHeader(t), nil)

	require.Equal(t, http.StatusOK, res.StatusCode)
	body := decodeBody[UserBootstrapResponse](t, res)
	assert.Equal(t, "u1", body.ID)
	assert.Equal(t, "u1@test.local", body.Email)
	assert.InDelta(t, 9950, body.Balance, 1e-9)
	require.Len(t, body.Trades, 1)
	assert.Equal(t, 50000.0, body.Trades[0].Price)
	require.Len(t, body.Strategies, 1)
	assert.Equal(t, "s1", body.Strategies[0].ID)
}

func TestWebServer_GetUserEmptyListsAreArrays(t *testing.T) {
	ws, _, _, _ := newTestServer(t)

	res := doRequest(t, ws, http.MethodGet, "/api/user", authHeader(t), nil)

	require.Equal(t, http.StatusOK, res.StatusCode)
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"trades":[]`)
	assert.Contains(t, string(raw), `"strategies":[]`)
}

func TestWebServer_PostTradeExecutes(t *testing.T) {
	ws, _, ledger, _ := newTestServer(t)

	res := doRequest(t, ws, http.MethodPost, "/api/trades", authHeader(t), TradeCreateRequest{
		Pair: "BTCUSDT", Type: "BUY", Price: 50000, Amount: 0.1,
	})

	require.Equal(t, http.StatusOK, res.StatusCode)
	trade := decodeBody[model.Trade](t, res)
	assert.Equal(t, model.TradeTypeBuy, trade.Type)
	assert.Equal(t, model.TradeSourceManual, trade.Source)
	assert.Equal(t, 1, ledger.TradeCount())
	assert.InDelta(t, 5000, ledger.Balances["u1"], 1e-9)
}

func TestWebServer_PostTradeInsufficientBalance(t *testing.T) {
	ws, _, ledger, _ := newTestServer(t)
	ledger.Balances["u1"] = 1

	res := doRequest(t, ws, http.MethodPost, "/api/trades", authHeader(t), TradeCreateRequest{
		Pair: "BTCUSDT", Type: "BUY", Price: 50000, Amount: 0.1,
	})

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, 0, ledger.TradeCount())
}

func TestWebServer_PostTradeValidation(t *testing.T) {
	ws, _, _, _ := newTestServer(t)

	res := doRequest(t, ws, http.MethodPost, "/api/trades", authHeader(t), TradeCreateRequest{
		Pair: "BTCUSDT", Type: "HODL", Price: 50000, Amount: 0.1,
	})

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestWebServer_GetTradesInDescendingOrder(t *testing.T) {
	ws, _, ledger, _ := newTestServer(t)
	for _, price := range []float64{100, 200} {
		_, err := ledger.ExecuteTrade(context.Background(), model.TradeRequest{
			UserID: "u1", Pair: "BTCUSDT", Type: model.TradeTypeBuy, Price: price, Amount: 0.001,
		})
		require.NoError(t, err)
	}

	// Distinct timestamps so the order is observable: the 200 trade is newer.
	base := time.Now().UTC()
	ledger.Trades[0].Timestamp = base.Add(-time.Minute)
	ledger.Trades[1].Timestamp = base

	res := doRequest(t, ws, http.MethodGet, "/api/trades", authHeader(t), nil)

	require.Equal(t, http.StatusOK, res.StatusCode)
	trades := decodeBody[[]model.Trade](t, res)
	require.Len(t, trades, 2)
	assert.Equal(t, 200.0, trades[0].Price)
	assert.Equal(t, 100.0, trades[1].Price)
}

func TestWebServer_PostStrategyDefaultsAmount(t *testing.T) {
	ws, _, _, _ := newTestServer(t)
	buyAt := 45000.0

	res := doRequest(t, ws, http.MethodPost, "/api/strategies", authHeader(t), StrategyCreateRequest{
		Pair: "BTCUSDT", BuyAt: &buyAt,
	})

	require.Equal(t, http.StatusOK, res.StatusCode)
	strategy := decodeBody[model.Strategy](t, res)
	assert.Equal(t, 0.001, strategy.Amount)
	assert.True(t, strategy.Active)
	assert.Equal(t, "u1", strategy.UserID)
}

func TestWebServer_PostStrategyRejectsBothThresholds(t *testing.T) {
	ws, _, _, strategies := newTestServer(t)
	buyAt, sellAt := 45000.0, 70000.0

	res := doRequest(t, ws, http.MethodPost, "/api/strategies", authHeader(t), StrategyCreateRequest{
		Pair: "BTCUSDT", BuyAt: &buyAt, SellAt: &sellAt,
	})

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Empty(t, strategies.Strategies)
}

func TestWebServer_PostStrategyRejectsNoThreshold(t *testing.T) {
	ws, _, _, _ := newTestServer(t)

	res := doRequest(t, ws, http.MethodPost, "/api/strategies", authHeader(t), StrategyCreateRequest{
		Pair: "BTCUSDT",
	})

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestWebServer_GetStrategiesOnlyOwn(t *testing.T) {
	ws, _, _, strategies := newTestServer(t)
	buyAt := 45000.0
	strategies.Strategies = []model.Strategy{
		{ID: "s1", UserID: "u1", Pair: "BTCUSDT", BuyAt: &buyAt, Amount: 0.001, Active: true},
		{ID: "s2", UserID: "u2", Pair: "BTCUSDT", BuyAt: &buyAt, Amount: 0.001, Active: true},
	}

	res := doRequest(t, ws, http.MethodGet, "/api/strategies", authHeader(t), nil)

	require.Equal(t, http.StatusOK, res.StatusCode)
	got := decodeBody[[]model.Strategy](t, res)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].ID)
}
