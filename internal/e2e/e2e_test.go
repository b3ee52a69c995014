package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/fluxcrm/internal/clock"
	"github.com/smallbiznis/fluxcrm/internal/config"
	"github.com/smallbiznis/fluxcrm/internal/migration"
	"github.com/smallbiznis/fluxcrm/internal/observability"
	"github.com/smallbiznis/fluxcrm/internal/server"
	"github.com/smallbiznis/fluxcrm/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type testEnv struct {
	app     *fx.App
	db      *gorm.DB
	baseURL string
	httpSrv *httptest.Server
}

var (
	env *testEnv

	adminOnce  sync.Once
	adminToken string
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	setDefaultEnv()

	var err error
	env, err = startEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to start test environment:", err)
		os.Exit(1)
	}

	code := m.Run()
	env.shutdown()
	os.Exit(code)
}

func TestE2E_HealthCheck(t *testing.T) {
	resp, err := http.Get(env.baseURL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestE2E_SeededDefaults(t *testing.T) {
	token := loginAdmin(t)

	checks := []struct {
		path string
		want int
	}{
		{"/api/org-types", 4},
		{"/api/lead-stages", 6},
		{"/api/indian-states", 36},
	}
	for _, check := range checks {
		var items []json.RawMessage
		getData(t, token, check.path, &items)
		if len(items) < check.want {
			t.Fatalf("%s: expected at least %d rows, got %d", check.path, check.want, len(items))
		}
	}
}

func TestE2E_SalesPipeline(t *testing.T) {
	token := loginAdmin(t)

	org := postData(t, token, "/api/organizations", map[string]any{
		"name":  "Sunrise Clinic",
		"type":  "HOSPITAL",
		"state": "Kerala",
		"city":  "Kochi",
	}, http.StatusCreated)

	won := postData(t, token, "/api/leads", map[string]any{
		"lead_name":       "PACS upgrade",
		"organization_id": org["id"],
		"product":         "PACS",
		"sales_owner":     "Asha",
		"agreed_price":    20,
		"expected_volume": 50,
		"status":          "WON",
	}, http.StatusCreated)
	postData(t, token, "/api/leads", map[string]any{
		"lead_name":       "Teleradiology",
		"organization_id": org["id"],
		"product":         "Reads",
		"sales_owner":     "Asha",
		"status":          "LOST",
	}, http.StatusCreated)

	leadID, _ := won["id"].(string)
	postData(t, token, "/api/lead-notes", map[string]any{
		"lead_id":     leadID,
		"content":     "PO received",
		"update_type": "EMAIL",
	}, http.StatusCreated)

	var notes []map[string]any
	getData(t, token, "/api/lead-notes?lead_id="+leadID, &notes)
	if len(notes) != 1 || notes[0]["created_by"] != "E2E Admin" {
		t.Fatalf("unexpected notes: %v", notes)
	}

	var dashboard struct {
		WinRate        float64          `json:"win_rate"`
		LeadsByStatus  map[string]int64 `json:"leads_by_status"`
		MonthlyRevenue float64          `json:"monthly_revenue"`
	}
	getData(t, token, "/api/analytics/dashboard", &dashboard)
	if dashboard.LeadsByStatus["WON"] < 1 || dashboard.LeadsByStatus["LOST"] < 1 {
		t.Fatalf("unexpected status counts: %v", dashboard.LeadsByStatus)
	}
	if dashboard.WinRate <= 0 || dashboard.WinRate >= 100 {
		t.Fatalf("unexpected win rate: %v", dashboard.WinRate)
	}
	if dashboard.MonthlyRevenue < 1000 {
		t.Fatalf("expected won revenue to be counted, got %v", dashboard.MonthlyRevenue)
	}

	var geography struct {
		States []struct {
			State string `json:"state"`
			Leads int64  `json:"leads"`
		} `json:"states"`
	}
	getData(t, token, "/api/analytics/geography", &geography)
	found := false
	for _, s := range geography.States {
		if s.State == "Kerala" && s.Leads >= 2 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Kerala in geography: %+v", geography.States)
	}
}

func TestE2E_SalesFlowSteps(t *testing.T) {
	token := loginAdmin(t)

	postData(t, token, "/api/sales-flow", map[string]any{
		"player_type": "NGO",
		"step_number": 1,
		"description": "Identify program lead",
	}, http.StatusCreated)

	resp, _ := doJSON(t, http.MethodPost, env.baseURL+"/api/sales-flow", token, map[string]any{
		"player_type": "NGO",
		"step_number": 1,
		"description": "Duplicate",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate step, got %d", resp.StatusCode)
	}

	var steps []map[string]any
	getData(t, token, "/api/sales-flow?player_type=NGO", &steps)
	if len(steps) != 1 {
		t.Fatalf("expected one NGO step, got %d", len(steps))
	}
}

func startEnv() (*testEnv, error) {
	var (
		dbConn *gorm.DB
		engine *gin.Engine
	)

	app := fx.New(
		fx.NopLogger,
		config.Module,
		observability.Module,
		fx.Provide(db.NewTest),
		fx.Provide(func() (*snowflake.Node, error) {
			return snowflake.NewNode(1)
		}),
		clock.Module,
		migration.Module,
		server.Module,
		fx.Populate(&dbConn, &engine),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(ctx); err != nil {
		return nil, err
	}

	httpSrv := httptest.NewServer(engine)

	return &testEnv{
		app:     app,
		db:      dbConn,
		baseURL: httpSrv.URL,
		httpSrv: httpSrv,
	}, nil
}

func (e *testEnv) shutdown() {
	if e == nil {
		return
	}
	if e.httpSrv != nil {
		e.httpSrv.Close()
	}
	if e.app != nil {
		_ = e.app.Stop(context.Background())
	}
}

func setDefaultEnv() {
	setEnvIfEmpty("ENVIRONMENT", "test")
	setEnvIfEmpty("DATABASE_TYPE", "sqlite")
	setEnvIfEmpty("HTTP_ADDR", "127.0.0.1:0")
	setEnvIfEmpty("AUTH_JWT_SECRET", "e2e-secret")
	setEnvIfEmpty("LOG_LEVEL", "error")
}

func setEnvIfEmpty(key, value string) {
	if os.Getenv(key) != "" {
		return
	}
	_ = os.Setenv(key, value)
}

// loginAdmin registers the first account once; the first account is the admin.
func loginAdmin(t *testing.T) string {
	t.Helper()
	adminOnce.Do(func() {
		resp, body := doJSON(t, http.MethodPost, env.baseURL+"/api/auth/register", "", map[string]any{
			"name":     "E2E Admin",
			"email":    "admin@e2e.test",
			"password": "admin-pass",
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("register admin: status %d body %s", resp.StatusCode, body)
		}
		var out struct {
			Data struct {
				AccessToken string `json:"access_token"`
				User        struct {
					Role string `json:"role"`
				} `json:"user"`
			} `json:"data"`
		}
		if err := json.Unmarshal(body, &out); err != nil {
			t.Fatalf("decode register: %v", err)
		}
		if out.Data.User.Role != "admin" {
			t.Fatalf("expected first account to be admin, got %q", out.Data.User.Role)
		}
		adminToken = out.Data.AccessToken
	})
	if adminToken == "" {
		t.Fatalf("admin token unavailable")
	}
	return adminToken
}

func getData(t *testing.T, token, path string, out any) {
	t.Helper()
	resp, body := doJSON(t, http.MethodGet, env.baseURL+path, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d body %s", path, resp.StatusCode, body)
	}
	decodeData(t, body, out)
}

func postData(t *testing.T, token, path string, payload any, wantStatus int) map[string]any {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, env.baseURL+path, token, payload)
	if resp.StatusCode != wantStatus {
		t.Fatalf("POST %s: status %d body %s", path, resp.StatusCode, body)
	}
	var out map[string]any
	decodeData(t, body, &out)
	return out
}

func decodeData(t *testing.T, body []byte, out any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func doJSON(t *testing.T, method, reqURL, token string, payload any) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode json: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, reqURL, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp, data
}
