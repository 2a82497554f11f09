package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fahad9993/expense-tracker-gsheet/internal/auth"
	"github.com/fahad9993/expense-tracker-gsheet/internal/core"
	"github.com/fahad9993/expense-tracker-gsheet/internal/services"
	"github.com/fahad9993/expense-tracker-gsheet/internal/sheets/memory"
)

func newTestServer(t *testing.T) (*Server, *memory.Store, string) {
	t.Helper()

	store := memory.New(core.Suggestions{
		Accounts:  []string{"Food Expense", "Transport"},
		FoodNames: []string{"Rice", "Egg"},
	})
	store.SetQuantities([]int{1000, 500, 100}, []int{2, 0, 5})
	store.SetDashboard(core.Dashboard{Amounts: []float64{100, 200, 300, 400}})

	authSvc := auth.NewService("tester", "secret", "access-secret", "refresh-secret")
	journal := services.NewJournalService(store, nil)
	srv := NewServer(":0", journal, store, authSvc)
	t.Cleanup(func() {
		srv.cacheManager.Stop()
		srv.rateLimiter.Stop()
	})

	pair, err := authSvc.Login("tester", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	return srv, store, pair.AccessToken
}

func doRequest(t *testing.T, srv *Server, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeResponse[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealthEndpoints(t *testing.T) {
	srv, _, _ := newTestServer(t)

	if rec := doRequest(t, srv, http.MethodGet, "/healthz", "", nil); rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec := doRequest(t, srv, http.MethodGet, "/readyz", "", nil); rec.Code != http.StatusOK {
		t.Errorf("readyz status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestLoginAndRefresh(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/auth/login", "", loginRequest{Username: "tester", Password: "secret"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, want %d", rec.Code, http.StatusOK)
	}
	pair := decodeResponse[auth.TokenPair](t, rec)
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("login returned empty token pair")
	}

	rec = doRequest(t, srv, http.MethodPost, "/auth/refresh", "", refreshRequest{RefreshToken: pair.RefreshToken})
	if rec.Code != http.StatusOK {
		t.Errorf("refresh status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = doRequest(t, srv, http.MethodPost, "/auth/login", "", loginRequest{Username: "tester", Password: "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	rec = doRequest(t, srv, http.MethodPost, "/auth/refresh", "", refreshRequest{RefreshToken: "garbage"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("bad refresh status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestAuthRequired(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/journal/suggestions", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing token status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	rec = doRequest(t, srv, http.MethodGet, "/journal/suggestions", "not-a-jwt", nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("invalid token status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestAppendAndFetch(t *testing.T) {
	srv, _, token := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/journal/append", token, appendRequest{
		Date:    "7/4/2025",
		Account: "Food Expense",
		Amount:  "90",
		Note:    "Rice",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("append status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	// Same slot again, different spelling: overwrite, not create.
	rec = doRequest(t, srv, http.MethodPost, "/journal/append", token, appendRequest{
		Date:    "07/04/2025",
		Account: " food expense ",
		Amount:  "=40+15",
		Note:    "Rice, Egg",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = doRequest(t, srv, http.MethodGet, "/journal/fetch?date=7/4/2025&account=Food+Expense", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch status = %d, want %d", rec.Code, http.StatusOK)
	}
	record := decodeResponse[core.StoredRecord](t, rec)
	if record.Amount != "=40+15" || record.Notes != "Rice, Egg" {
		t.Errorf("fetched record = %+v, want amount =40+15 and notes Rice, Egg", record)
	}

	rec = doRequest(t, srv, http.MethodGet, "/journal/fetch?date=7/5/2025&account=Food+Expense", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing slot status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	rec = doRequest(t, srv, http.MethodPost, "/journal/append", token, appendRequest{Account: "Food Expense", Amount: "90"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing date status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	body := decodeResponse[errorBody](t, rec)
	if body.Message != "missing required field: date" {
		t.Errorf("missing date message = %q", body.Message)
	}
}

func TestAppendWireFieldNames(t *testing.T) {
	srv, _, token := newTestServer(t)

	// The wire payload names the notes field "note"; pin the raw shape so a
	// struct tag change cannot break existing clients.
	rec := doRequest(t, srv, http.MethodPost, "/journal/append", token, map[string]string{
		"date":    "7/4/2025",
		"account": "Food Expense",
		"amount":  "90",
		"note":    "Rice",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("append status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/journal/fetch?date=7/4/2025&account=Food+Expense", token, nil)
	record := decodeResponse[core.StoredRecord](t, rec)
	if record.Notes != "Rice" || record.Amount != "90" {
		t.Errorf("fetched record = %+v, want notes Rice amount 90", record)
	}
}

func TestFilterEndpoint(t *testing.T) {
	srv, _, token := newTestServer(t)

	entries := []appendRequest{
		{Date: "7/4/2025", Account: "Food Expense", Amount: "=40+15", Note: "Rice, Egg"},
		{Date: "8/10/2025", Account: "Food Expense", Amount: "90", Note: "Milk"},
		{Date: "7/6/2025", Account: "Transport", Amount: "30", Note: "Bus fare"},
	}
	for _, e := range entries {
		if rec := doRequest(t, srv, http.MethodPost, "/journal/append", token, e); rec.Code != http.StatusCreated {
			t.Fatalf("seed append status = %d", rec.Code)
		}
	}

	type filterResponse struct {
		Rows     []core.FilterRow `json:"rows"`
		Accounts []string         `json:"accounts"`
	}

	rec := doRequest(t, srv, http.MethodGet, "/filter?month=7&account=Food+Expense", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("filter status = %d, want %d", rec.Code, http.StatusOK)
	}
	got := decodeResponse[filterResponse](t, rec)
	if len(got.Rows) != 1 {
		t.Fatalf("filter returned %d rows, want 1", len(got.Rows))
	}
	if got.Rows[0].Date != "04-07-2025" || got.Rows[0].Amount != 55 {
		t.Errorf("filter row = %+v, want date 04-07-2025 amount 55", got.Rows[0])
	}

	// No month means every month.
	rec = doRequest(t, srv, http.MethodGet, "/filter?account=Food+Expense", token, nil)
	got = decodeResponse[filterResponse](t, rec)
	if len(got.Rows) != 2 {
		t.Errorf("unfiltered month returned %d rows, want 2", len(got.Rows))
	}

	rec = doRequest(t, srv, http.MethodGet, "/filter?month=13&account=Food+Expense", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("month 13 status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	// No account selected: answer with the selectable account names.
	rec = doRequest(t, srv, http.MethodGet, "/filter", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("account list status = %d, want %d", rec.Code, http.StatusOK)
	}
	got = decodeResponse[filterResponse](t, rec)
	if len(got.Accounts) != 2 || got.Accounts[1] != "Transport" {
		t.Errorf("account list = %+v", got.Accounts)
	}
}

func TestSuggestionsCached(t *testing.T) {
	srv, _, token := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/journal/suggestions", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("suggestions status = %d, want %d", rec.Code, http.StatusOK)
	}
	got := decodeResponse[core.Suggestions](t, rec)
	if len(got.Accounts) != 2 || got.Accounts[0] != "Food Expense" {
		t.Errorf("suggestions = %+v", got)
	}

	if _, ok := srv.suggestionsCache.Get(suggestionsCacheKey); !ok {
		t.Error("suggestions were not cached after first read")
	}
}

func TestQuantitiesEndpoints(t *testing.T) {
	srv, _, token := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/home", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("home status = %d, want %d", rec.Code, http.StatusOK)
	}
	type homeResponse struct {
		BankNotes  []int `json:"bankNotes"`
		Quantities []int `json:"quantities"`
	}
	home := decodeResponse[homeResponse](t, rec)
	if len(home.BankNotes) != 3 || home.Quantities[2] != 5 {
		t.Errorf("home = %+v", home)
	}

	rec = doRequest(t, srv, http.MethodPost, "/home", token, updateQuantitiesRequest{Quantities: []int{1, 2, 3}})
	if rec.Code != http.StatusOK {
		t.Fatalf("update quantities status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/home", token, nil)
	home = decodeResponse[homeResponse](t, rec)
	if home.Quantities[0] != 1 || home.Quantities[2] != 3 {
		t.Errorf("quantities after update = %+v", home.Quantities)
	}

	rec = doRequest(t, srv, http.MethodPost, "/home", token, updateQuantitiesRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty quantities status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestDashboardEndpoints(t *testing.T) {
	srv, _, token := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/dashboard", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d, want %d", rec.Code, http.StatusOK)
	}
	dash := decodeResponse[core.Dashboard](t, rec)
	if len(dash.Amounts) != 4 || dash.Amounts[0] != 100 {
		t.Errorf("dashboard = %+v", dash)
	}

	rec = doRequest(t, srv, http.MethodPost, "/dashboard", token, updateAmountsRequest{Amounts: []float64{111, 222}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("short amounts status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	rec = doRequest(t, srv, http.MethodPost, "/dashboard", token, updateAmountsRequest{Amounts: []float64{111, 222, 333, 444}})
	if rec.Code != http.StatusOK {
		t.Fatalf("update amounts status = %d: %s", rec.Code, rec.Body.String())
	}

	// The cached snapshot must be dropped by the write, and the fourth
	// amount is never written back.
	rec = doRequest(t, srv, http.MethodGet, "/dashboard", token, nil)
	dash = decodeResponse[core.Dashboard](t, rec)
	if dash.Amounts[0] != 111 || dash.Amounts[2] != 333 || dash.Amounts[3] != 400 {
		t.Errorf("dashboard after update = %+v", dash.Amounts)
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/healthz", "", nil)
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got == "" {
		t.Error("X-Frame-Options header missing")
	}
}
