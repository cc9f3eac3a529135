package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"express-ledger-service/internal/adapters/cache"
	"express-ledger-service/internal/adapters/repositories"
	"express-ledger-service/internal/api/dto"
	"express-ledger-service/internal/platform/db"
	"express-ledger-service/internal/platform/logging"
	"express-ledger-service/internal/platform/metrics"
	"express-ledger-service/internal/ports"
	"express-ledger-service/internal/services"
)

const roll = `#1月2日接龙
1. 张三 广东省广州市天河区体育西路1号 13800001111（2桔）
2. 李四 浙江省杭州市西湖区 13900002222（1贡1混）`

var fixedNow = time.Date(2026, 1, 2, 9, 30, 0, 0, time.Local)

func newTestRouter(t *testing.T, pinger func(context.Context) error) (http.Handler, *observer.ObservedLogs) {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, repositories.InitSchema(ctx, conn))

	core, logs := observer.New(zapcore.DebugLevel)
	log := logging.NewFromCore(core)
	m, err := metrics.New()
	require.NoError(t, err)
	clock := ports.ClockFunc(func() time.Time { return fixedNow })

	express := services.NewExpressService(
		repositories.NewSQLExpressRepository(conn, repositories.DialectSQLite, log),
		cache.NewLRUStatsCache(0, 0), clock, log, m)
	ledger := services.NewLedgerService(
		repositories.NewSQLLedgerRepository(conn, repositories.DialectSQLite, log),
		clock, log, m)

	d := Deps{Express: express, Ledger: ledger, Clock: clock, Log: log, Metrics: m}
	if pinger != nil {
		d.Pinger = pingFunc(pinger)
	} else {
		d.Pinger = conn
	}
	return NewRouter(d), logs
}

type pingFunc func(context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func jsonBody(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = do(t, h, http.MethodPost, "/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthDatabaseDown(t *testing.T) {
	h, _ := newTestRouter(t, func(context.Context) error { return errors.New("connection refused") })

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestManifestParsePreview(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/manifest/parse", jsonBody(t, dto.ParseRequest{Content: roll}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[dto.ParseResponse](t, rec)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, "张三", res.Entries[0].Recorder)
	assert.Equal(t, "13900002222", res.Entries[1].Phone)
	assert.Equal(t, dto.StatisticsResponse{SumJu: 2, SumGong: 1, SumMixed: 1, Count: 2, SumAll: 4}, res.Statistics)

	rec = do(t, h, http.MethodPost, "/manifest/parse", `{"content":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecodeRejectsBadBodies(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	cases := map[string]string{
		"malformed":     `{"content":`,
		"unknown field": `{"content":"x","extra":1}`,
		"two objects":   `{"content":"x"}{"content":"y"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/express/2026-01-02/import", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestExpressDayFlow(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/express/2026-01-02/import", jsonBody(t, dto.ImportRequest{Content: roll}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	imported := decode[dto.ImportResponse](t, rec)
	assert.Equal(t, 2, imported.Imported)

	rec = do(t, h, http.MethodPost, "/express/2026-01-02/entries",
		jsonBody(t, dto.QuickAddRequest{Line: "王五 江苏省南京市鼓楼区 13700003333（4桔）"}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	added := decode[dto.ExpressRecordResponse](t, rec)
	assert.Equal(t, "今天 09:30", added.CreateTime)

	rec = do(t, h, http.MethodGet, "/express/2026-01-02", "")
	require.Equal(t, http.StatusOK, rec.Code)
	day := decode[dto.DayResponse](t, rec)
	assert.Equal(t, "1月2日 星期五", day.Display)
	require.Len(t, day.Records, 3)
	assert.Equal(t, 8, day.Statistics.SumAll)

	rec = do(t, h, http.MethodGet, "/express/2026-01-02/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, decode[dto.StatisticsResponse](t, rec).Count)

	rec = do(t, h, http.MethodPatch, "/express/entries/"+added.ID, `{"recipient":"赵六","quantities":{"ju":1}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[dto.ExpressRecordResponse](t, rec)
	assert.Equal(t, "江苏省南京市鼓楼区，赵六", updated.Address)
	assert.Equal(t, dto.QuantitiesBody{Ju: 1}, updated.Quantities)

	rec = do(t, h, http.MethodGet, "/express/2026-01-02/export?format=text", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "# 1月2日 星期五 接龙\n汇总：3桔 1贡 1混 / 3单\n"), rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/express/entries/"+added.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodDelete, "/express/entries/"+added.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/express/2026-01-02", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[dto.ClearDayResponse](t, rec).Deleted)

	rec = do(t, h, http.MethodGet, "/express/2026-01-02/export", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExpressErrorStatuses(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	cases := []struct {
		name, method, target, body string
		want                       int
	}{
		{"empty content", http.MethodPost, "/express/2026-01-02/import", `{"content":"  "}`, http.StatusBadRequest},
		{"no entries", http.MethodPost, "/express/2026-01-02/import", `{"content":"#接龙\n1.6"}`, http.StatusUnprocessableEntity},
		{"bad date", http.MethodGet, "/express/20260102", "", http.StatusBadRequest},
		{"missing entry", http.MethodPatch, "/express/entries/nope", `{"remark":"x"}`, http.StatusNotFound},
		{"unknown route", http.MethodGet, "/nowhere", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, tc.method, tc.target, tc.body)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}

func TestLedgerFlow(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/ledger", `{"type":"沙糖桔","quantity":3,"weight":15}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[dto.LedgerResponse](t, rec)
	assert.Equal(t, "2026-01-02", first.Date)
	assert.Equal(t, "箱", first.Unit)

	rec = do(t, h, http.MethodPost, "/ledger", `{"date":"2026-01-01","type":"茶油","quantity":1,"unit":"袋"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/ledger", `{"type":"","quantity":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/ledger", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[dto.ListLedgerResponse](t, rec).Records, 1)

	rec = do(t, h, http.MethodGet, "/ledger?from=2026-01-01&to=2026-01-02", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[dto.ListLedgerResponse](t, rec).Records, 2)

	rec = do(t, h, http.MethodGet, "/ledger?from=2026-01-01", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPatch, "/ledger/"+first.ID, `{"quantity":4,"weight":0}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[dto.LedgerResponse](t, rec)
	assert.Equal(t, 4, updated.Quantity)
	assert.Nil(t, updated.Weight)

	rec = do(t, h, http.MethodGet, "/ledger/stats?date=2026-01-02", "")
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[dto.LedgerStatisticsResponse](t, rec)
	assert.Equal(t, 4, st.TotalQuantity)
	require.Len(t, st.ByType, 1)

	rec = do(t, h, http.MethodDelete, "/ledger/"+first.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodGet, "/ledger/"+first.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsAndRequestLogging(t *testing.T) {
	h, logs := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/express/2026-01-02", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))

	entries := logs.FilterMessage("request").FilterField(zapcore.Field{Key: "req_id", Type: zapcore.StringType, String: "req-42"}).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "GET /express/{date}", entries[0].ContextMap()["route"])

	rec = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `express_ledger_http_requests_total{method="GET",route="GET /express/{date}",status="200"} 1`)
}

func TestRecoverMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	h := recoverMiddleware(logging.NewFromCore(core), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, logs.FilterMessage("handler panic").Len())
}
