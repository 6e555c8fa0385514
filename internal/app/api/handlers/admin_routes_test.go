package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	mw "github.com/fitdesk/coachpay/internal/app/api/middleware"
	"github.com/fitdesk/coachpay/internal/app/jobs"
	"github.com/fitdesk/coachpay/internal/app/service/audit"
	"github.com/fitdesk/coachpay/internal/app/service/billing"
	"github.com/fitdesk/coachpay/internal/app/service/catalog"
	"github.com/fitdesk/coachpay/internal/app/service/exemption"
	"github.com/fitdesk/coachpay/internal/app/service/statement"
	models "github.com/fitdesk/coachpay/internal/models"
	"github.com/fitdesk/coachpay/pkg/config"
	"github.com/fitdesk/coachpay/pkg/response"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.CatalogEntry{},
		&models.PriceRecord{},
		&models.PayoutRule{},
		&models.Subscription{},
		&models.ExemptionFlag{},
		&models.AddonPurchase{},
		&models.PayoutStatement{},
		&models.AuditEntry{},
		&models.ReminderLog{},
		&models.JobRun{},
	))

	log := zap.NewNop().Sugar()
	cfg := &config.Config{
		Billing: config.BillingConfig{CycleDays: 30, GracePeriodDays: 7},
		Payout:  config.PayoutConfig{DefaultPercent: 70, Workers: 2},
	}
	rec := audit.NewRecorder(db, log)
	ex := exemption.NewService(db, log)
	cat := catalog.NewService(cfg, db, log, rec)
	bill := billing.NewService(cfg, db, log, rec, ex)
	stmt := statement.NewService(cfg, db, log, cat, ex, rec)
	runner := jobs.NewRunner(cfg, db, log, bill, stmt)

	r := gin.New()
	admin := r.Group("/api/v1/admin")
	// no secret configured: X-Admin-ID header names the actor
	admin.Use(mw.AdminAuthMiddleware(cfg))
	RegisterAdminBillingRoutes(admin, bill, runner)
	RegisterAdminCatalogRoutes(admin, cat)
	RegisterAdminPayoutRoutes(admin, stmt, runner)
	RegisterAdminAuditRoutes(admin, rec)
	RegisterHealthRoutes(r.Group("/"))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-ID", "admin-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func envelopeCode(t *testing.T, w *httptest.ResponseRecorder) response.APIResponseCode {
	t.Helper()
	var env struct {
		Code response.APIResponseCode `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Code
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestCreateSubscription_RoundTrip(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(t, r, "/api/v1/admin/create_subscription", map[string]any{
		"subscriber_id": "client-1",
		"service_id":    "svc-team",
		"staff_id":      "coach-1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, response.APIResponseCodeOK, envelopeCode(t, w))
	require.Contains(t, w.Body.String(), `"status":"pending"`)

	w = postJSON(t, r, "/api/v1/admin/list_subscriptions", map[string]any{})
	require.Equal(t, response.APIResponseCodeOK, envelopeCode(t, w))
	require.Contains(t, w.Body.String(), `"total":1`)

	// the mutation is attributed to the header actor in the audit trail
	w = postJSON(t, r, "/api/v1/admin/list_audit_entries", map[string]any{"action": "onboarding"})
	require.Equal(t, response.APIResponseCodeOK, envelopeCode(t, w))
	require.Contains(t, w.Body.String(), `"actor_id":"admin-1"`)
}

func TestCreateSubscription_BadInput(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(t, r, "/api/v1/admin/create_subscription", map[string]any{
		"service_id": "svc-team",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, response.APIResponseCodeBadRequest, envelopeCode(t, w))
}

func TestRecordPayment_UnknownSubscriptionMapsToNotFound(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(t, r, "/api/v1/admin/record_payment", map[string]any{
		"subscription_id": "ghost",
		"amount":          100,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, response.APIResponseCodeNotFound, envelopeCode(t, w))
}

func TestMarkStatementPaid_MissingFields(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(t, r, "/api/v1/admin/mark_statement_paid", map[string]any{"staff_id": "coach-1"})
	require.Equal(t, response.APIResponseCodeBadRequest, envelopeCode(t, w))
}

func TestUpsertPriceAndRule_RoundTrip(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(t, r, "/api/v1/admin/upsert_catalog_entry", map[string]any{
		"id": "svc-team", "display_name": "Team Training", "category": "team",
	})
	require.Equal(t, response.APIResponseCodeOK, envelopeCode(t, w))

	w = postJSON(t, r, "/api/v1/admin/upsert_price", map[string]any{
		"item_id": "svc-team", "amount": 10000,
	})
	require.Equal(t, response.APIResponseCodeOK, envelopeCode(t, w))

	w = postJSON(t, r, "/api/v1/admin/upsert_payout_rule", map[string]any{
		"item_id": "svc-team", "kind": "percent", "value": 120,
	})
	require.Equal(t, response.APIResponseCodeBadRequest, envelopeCode(t, w))

	w = postJSON(t, r, "/api/v1/admin/list_prices", map[string]any{})
	require.Equal(t, response.APIResponseCodeOK, envelopeCode(t, w))
	require.Contains(t, w.Body.String(), `"item_id":"svc-team"`)
}

func TestRunMonthlyCalculation_LockConflict(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(t, r, "/api/v1/admin/run_monthly_calculation", map[string]any{"period": "2026-07"})
	require.Equal(t, response.APIResponseCodeOK, envelopeCode(t, w))

	// re-running a finished period re-acquires the lock cleanly
	w = postJSON(t, r, "/api/v1/admin/run_monthly_calculation", map[string]any{"period": "2026-07"})
	require.Equal(t, response.APIResponseCodeOK, envelopeCode(t, w))
}
