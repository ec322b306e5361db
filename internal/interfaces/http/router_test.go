package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/nexus-bills/internal/application/analytics"
	"github.com/jhoicas/nexus-bills/internal/application/auth"
	"github.com/jhoicas/nexus-bills/internal/application/billing"
	"github.com/jhoicas/nexus-bills/internal/application/notification"
	"github.com/jhoicas/nexus-bills/internal/application/usecase"
	"github.com/jhoicas/nexus-bills/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/nexus-bills/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/nexus-bills/internal/interfaces/http"
	"github.com/jhoicas/nexus-bills/pkg/logger"
)

func newTestApp() *fiber.App {
	log := logger.NewNop()
	users := memory.NewUserStore()
	companies := memory.NewCompanyStore()
	bills := memory.NewBillStore()
	feed := notification.NewFeed(memory.NewNotificationStore(), log)
	seq := billing.NewSequenceGenerator(bills)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      auth.NewAuthUseCase(users, companies, feed, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: "test"}),
		CompanyUC:   usecase.NewCompanyUseCase(companies),
		UserUC:      usecase.NewUserUseCase(users, companies),
		BillUC:      billing.NewBillUseCase(bills, bills, companies, seq, feed),
		Converter:   billing.NewConverter(bills, companies, seq, feed),
		BillPDF:     billing.NewPDFUseCase(bills, infrapdf.NewMarotoPDFGenerator()),
		Feed:        feed,
		DashboardUC: appanalytics.NewDashboardUseCase(bills, bills, log),
		JWTSecret:   testJWTSecret,
		Log:         log,
	})
	return app
}

type client struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func (c *client) do(method, path string, body any) (*http.Response, map[string]any) {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(c.t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func register(t *testing.T, app *fiber.App, username string) *client {
	t.Helper()
	c := &client{t: t, app: app}
	resp, body := c.do(http.MethodPost, "/api/auth/register", map[string]any{
		"username":     username,
		"email":        username + "@example.com",
		"password":     "s3cretpass",
		"company_name": "Acme Traders",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, false, body["onboarding_complete"])
	c.token = body["token"].(string)
	return c
}

var companyDetails = map[string]any{
	"companyName": "Acme Traders",
	"gstNumber":   "27abcde1234f1z5",
	"address":     "12 Market Road",
	"city":        "Pune",
	"state":       "MH",
	"pincode":     "411001",
}

func onboard(t *testing.T, c *client) {
	t.Helper()
	resp, body := c.do(http.MethodPost, "/api/onboarding/company", companyDetails)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
}

func TestRouter_OnboardingGate(t *testing.T) {
	app := newTestApp()
	c := register(t, app, "ravi")

	resp, body := c.do(http.MethodGet, "/api/get-drafts", nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "ONBOARDING_REQUIRED", body["code"])

	resp, body = c.do(http.MethodGet, "/api/onboarding/status", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["onboarding_complete"])

	resp, body = c.do(http.MethodPost, "/api/onboarding/company", map[string]any{"companyName": "Acme"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])

	onboard(t, c)

	resp, body = c.do(http.MethodGet, "/api/onboarding/status", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["onboarding_complete"])
	assert.Equal(t, true, body["has_company_details"])

	resp, body = c.do(http.MethodGet, "/api/get-drafts", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["count"])
}

func TestRouter_Unauthenticated(t *testing.T) {
	c := &client{t: t, app: newTestApp()}
	resp, body := c.do(http.MethodGet, "/api/dashboard-data", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", body["code"])

	resp, body = c.do(http.MethodPost, "/api/auth/login", map[string]any{"username": "nobody", "password": "whatever1"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", body["code"])
}

func TestRouter_BillLifecycle(t *testing.T) {
	app := newTestApp()
	c := register(t, app, "ravi")
	onboard(t, c)

	resp, body := c.do(http.MethodPost, "/api/save", map[string]any{
		"status":       "draft",
		"billDate":     "2025-03-14",
		"customerName": "Ravi Stores",
		"products":     []map[string]any{{"name": "Rice", "quantity": 2, "rate": 50, "amount": 100}},
		"vehicleNo":    "MH12AB1234",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "Draft saved successfully!", body["message"])
	assert.Equal(t, "DRAFT-001", body["bill_number"])
	draftID := body["bill_id"].(string)

	resp, body = c.do(http.MethodGet, "/api/get-draft/"+draftID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	bill := body["bill"].(map[string]any)
	assert.Equal(t, "Ravi Stores", bill["customerName"])
	assert.Equal(t, "MH12AB1234", bill["vehicleNo"])

	resp, body = c.do(http.MethodPost, "/api/convert/draft-to-pakka/"+draftID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "PAKKA-001", body["bill_number"])
	pakkaID := body["bill_id"].(string)

	resp, body = c.do(http.MethodPost, "/api/convert/draft-to-pakka/"+draftID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])

	resp, body = c.do(http.MethodGet, "/api/get-drafts", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["count"])

	resp, body = c.do(http.MethodGet, "/api/get-pakka-bill/"+pakkaID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	bill = body["bill"].(map[string]any)
	assert.Equal(t, "27ABCDE1234F1Z5", bill["gstNumber"])
	assert.Equal(t, draftID, bill["original_draft_id"])

	resp, _ = c.do(http.MethodGet, "/api/bills/pakka/"+pakkaID+"/pdf", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="PAKKA-001.pdf"`)

	resp, body = c.do(http.MethodGet, "/api/dashboard-data", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	counts := body["data"].(map[string]any)["counts"].(map[string]any)
	assert.Equal(t, float64(1), counts["pakka_bills"])

	resp, body = c.do(http.MethodPost, "/api/delete-pakka-bill/"+pakkaID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Pakka Bill deleted successfully!", body["message"])

	resp, _ = c.do(http.MethodDelete, "/api/delete-pakka-bill/"+pakkaID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRouter_TenantIsolation(t *testing.T) {
	app := newTestApp()
	owner := register(t, app, "ravi")
	onboard(t, owner)
	other := register(t, app, "asha")
	onboard(t, other)

	_, body := owner.do(http.MethodPost, "/api/save", map[string]any{"status": "kacha", "customerName": "X"})
	id := body["bill_id"].(string)

	resp, _ := other.do(http.MethodGet, "/api/get-kacha-bill/"+id, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp, _ = other.do(http.MethodPost, "/api/convert/kacha-to-pakka/"+id, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, body = owner.do(http.MethodGet, "/api/get-kacha-bills", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["count"])
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	app := newTestApp()
	c := register(t, app, "ravi")

	resp, body := c.do(http.MethodGet, "/api/change-password", nil)
	assert.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "METHOD_NOT_ALLOWED", body["code"])
	assert.Equal(t, "error", body["status"])
}

func TestRouter_Notifications(t *testing.T) {
	app := newTestApp()
	c := register(t, app, "ravi")

	resp, body := c.do(http.MethodGet, "/api/notifications", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["unread_count"])
	items := body["notifications"].([]any)
	require.Len(t, items, 1)
	id := items[0].(map[string]any)["id"].(string)

	resp, _ = c.do(http.MethodPost, "/api/notifications/"+id+"/read", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = c.do(http.MethodGet, "/api/notifications/check-new", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["has_new"])

	resp, body = c.do(http.MethodGet, "/api/notifications/check-new?last_check=yesterday", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])

	resp, body = c.do(http.MethodGet, "/api/notifications/list?page=1&limit=10", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["has_more"])
	assert.Equal(t, float64(1), body["total_pages"])

	resp, body = c.do(http.MethodDelete, "/api/notifications/clear-all", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["count"])

	resp, _ = c.do(http.MethodPost, "/api/notifications/"+id+"/unread", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRouter_ProfileFlow(t *testing.T) {
	app := newTestApp()
	c := register(t, app, "ravi")

	resp, body := c.do(http.MethodPost, "/api/change-password", map[string]any{
		"current_password": "s3cretpass",
		"new_password":     "n3wpassword",
		"confirm_password": "mismatch123",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])

	resp, _ = c.do(http.MethodPost, "/api/change-password", map[string]any{
		"current_password": "s3cretpass",
		"new_password":     "n3wpassword",
		"confirm_password": "n3wpassword",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	login := &client{t: t, app: app}
	resp, body = login.do(http.MethodPost, "/api/auth/login", map[string]any{"username": "ravi@example.com", "password": "n3wpassword"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)

	resp, body = c.do(http.MethodGet, "/api/get-profile-data", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ravi", body["user"].(map[string]any)["username"])
}
