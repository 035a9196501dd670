package web

import (
	"context"
	"encoding/json"
	"io/fs"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hpungsan/roster/internal/config"
	"github.com/hpungsan/roster/internal/directory"
	"github.com/hpungsan/roster/internal/employee"
	"github.com/hpungsan/roster/internal/legend"
	"github.com/hpungsan/roster/internal/tenure"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testClock = tenure.FixedClock(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))

func testStore(t *testing.T) *directory.Store {
	t.Helper()
	store, err := directory.New(employee.Seed())
	require.NoError(t, err)
	return store
}

func setupTest(t *testing.T) *Handlers {
	t.Helper()

	templateSub, err := fs.Sub(templateFS, "templates")
	require.NoError(t, err)

	return &Handlers{
		store:    testStore(t),
		cfg:      config.DefaultConfig(),
		renderer: NewRenderer(templateSub, "test", zap.NewNop()),
		clock:    testClock,
		logger:   zap.NewNop(),
		about:    renderMarkdown(legend.Markdown),
	}
}

// serve runs a request through the full routed handler.
func serve(t *testing.T, logger *zap.Logger, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	handler := NewHandler(testStore(t), config.DefaultConfig(), logger, testClock, "test")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func parse(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	return doc
}

func cardNames(doc *goquery.Document) []string {
	var out []string
	doc.Find(".employee-card .employee-name").Each(func(_ int, s *goquery.Selection) {
		out = append(out, s.Text())
	})
	return out
}

// --- HandleList ---

func TestHandleList_Default(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/employees", nil)
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	doc := parse(t, rec)

	assert.Len(t, cardNames(doc), 10)
	assert.Equal(t, "10", doc.Find("#totalCount").Text())
	assert.Equal(t, "10", doc.Find("#filteredCount").Text())
	assert.Equal(t, 0, doc.Find("#noResults").Length())
	assert.False(t, doc.Find("#employeeModal").HasClass("open"))
	assert.False(t, doc.Find("body").HasClass("scroll-locked"))

	first := doc.Find(".employee-card").First()
	assert.Equal(t, "Lin Chang", first.Find(".employee-name").Text())
	assert.Equal(t, "Marketing Assistant", first.Find(".employee-title").Text())
	assert.Contains(t, first.Find(".employee-meta").Text(), "Started: February 1, 2024")
	badge := first.Find(".tenure-badge")
	assert.True(t, badge.HasClass("newcomer"))
	assert.Equal(t, "4m 1d", badge.Text())
}

func TestHandleList_Query(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/employees?q=designer", nil)
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	doc := parse(t, rec)

	assert.Equal(t, []string{"Ahmed Hassan"}, cardNames(doc))
	assert.Equal(t, "10", doc.Find("#totalCount").Text())
	assert.Equal(t, "1", doc.Find("#filteredCount").Text())

	val, _ := doc.Find("#searchBox").Attr("value")
	assert.Equal(t, "designer", val)

	href, _ := doc.Find(".employee-card").Attr("href")
	assert.Equal(t, "/employees/4?q=designer", href)
}

func TestHandleList_NoResults(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/employees?q=astronaut", nil)
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	doc := parse(t, rec)
	assert.Empty(t, cardNames(doc))
	assert.Equal(t, 1, doc.Find("#noResults").Length())
	assert.Equal(t, 0, doc.Find("#employeesGrid").Length())
	assert.Equal(t, "0", doc.Find("#filteredCount").Text())
}

func TestHandleList_SelectedOpensOverlay(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/employees?selected=4", nil)
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	doc := parse(t, rec)
	assert.True(t, doc.Find("#employeeModal").HasClass("open"))
	assert.True(t, doc.Find("body").HasClass("scroll-locked"))
	assert.Equal(t, "Ahmed Hassan", doc.Find("#modalName").Text())
}

func TestHandleList_SelectedInvalidIgnored(t *testing.T) {
	h := setupTest(t)

	for _, sel := range []string{"abc", "0", "-1", "404"} {
		req := httptest.NewRequest("GET", "/employees?selected="+sel, nil)
		rec := httptest.NewRecorder()
		h.HandleList(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, "selected=%s", sel)
		doc := parse(t, rec)
		assert.False(t, doc.Find("#employeeModal").HasClass("open"), "selected=%s", sel)
	}
}

func TestHandleList_ResultsFragment(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/employees?q=manager", nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Target", "results")
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<!DOCTYPE html>")
	assert.NotContains(t, body, "searchBox")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(body), `<div id="results">`))

	doc := parse(t, rec)
	assert.Equal(t, []string{"Sarah Williams", "Jessica Brown"}, cardNames(doc))
	assert.Equal(t, "2", doc.Find("#filteredCount").Text())
}

func TestHandleList_HtmxReturnsContentOnly(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/employees", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	body := rec.Body.String()
	assert.NotContains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, "searchBox")
}

func TestHandleList_EscapesQuery(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", `/employees?q=%3Cscript%3Ealert(1)%3C/script%3E`, nil)
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	assert.NotContains(t, rec.Body.String(), "<script>alert(1)</script>")
}

// --- HandleDetail ---

func TestHandleDetail_FullPage(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/employees/4", nil)
	req.SetPathValue("id", "4")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	doc := parse(t, rec)

	assert.Equal(t, "Ahmed Hassan", doc.Find("#modalName").Text())
	assert.Equal(t, "UI/UX Designer", doc.Find("#modalTitle").Text())
	assert.Equal(t, "ahmed.hassan@tinytech.com", doc.Find("#modalEmail").Text())
	assert.Equal(t, "January 20, 2024", doc.Find("#modalStartDate").Text())
	assert.Equal(t, "4m 13d with TinyTech", doc.Find("#tenureBadge").Text())
	assert.True(t, doc.Find("body").HasClass("scroll-locked"))
	assert.Len(t, cardNames(doc), 10)
}

func TestHandleDetail_KeepsQuery(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/employees/7?q=manager", nil)
	req.SetPathValue("id", "7")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	doc := parse(t, rec)
	assert.Equal(t, []string{"Sarah Williams", "Jessica Brown"}, cardNames(doc))
	assert.Equal(t, "Jessica Brown", doc.Find("#modalName").Text())

	href, _ := doc.Find("#closeModal").Attr("href")
	assert.Equal(t, "/employees?q=manager", href)
}

func TestHandleDetail_OrgFromConfig(t *testing.T) {
	h := setupTest(t)
	h.cfg.OrgName = "Acme"

	req := httptest.NewRequest("GET", "/employees/2", nil)
	req.SetPathValue("id", "2")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	doc := parse(t, rec)
	assert.Equal(t, "1y 2m with Acme", doc.Find("#tenureBadge").Text())
	assert.True(t, doc.Find("#tenureBadge").HasClass("veteran"))
}

func TestHandleDetail_Fragment(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/employees/4", nil)
	req.SetPathValue("id", "4")
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Target", "employeeModal")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(strings.TrimSpace(body), `<div id="employeeModal" class="modal open">`))
	assert.NotContains(t, body, "employee-card")

	doc := parse(t, rec)
	assert.Equal(t, "Ahmed Hassan", doc.Find("#modalName").Text())
}

func TestHandleDetail_FragmentUnknownIsNoContent(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/employees/404", nil)
	req.SetPathValue("id", "404")
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHandleDetail_UnknownRendersClosed(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/employees/404", nil)
	req.SetPathValue("id", "404")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	doc := parse(t, rec)
	assert.False(t, doc.Find("#employeeModal").HasClass("open"))
	assert.Equal(t, 0, doc.Find("#modalName").Length())
	assert.Len(t, cardNames(doc), 10)
}

func TestHandleDetail_JSON(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/employees/4", nil)
	req.SetPathValue("id", "4")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Ahmed Hassan", resp["name"])
	assert.Equal(t, "2024-01-20", resp["start_date"])
	assert.Equal(t, "4m 13d", resp["tenure"])
	assert.Equal(t, "4m 13d with TinyTech", resp["tenure_badge"])
	assert.Equal(t, "newcomer", resp["tier"])
}

func TestHandleDetail_InvalidID(t *testing.T) {
	h := setupTest(t)

	for _, id := range []string{"", "abc", "0", "-2"} {
		req := httptest.NewRequest("GET", "/employees/x", nil)
		req.SetPathValue("id", id)
		rec := httptest.NewRecorder()
		h.HandleDetail(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "id=%q", id)
	}
}

// --- Error rendering ---

func TestErrorRendering_JSONNotFound(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/employees/404", nil)
	req.SetPathValue("id", "404")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	errObj, ok := resp["error"].(map[string]any)
	require.True(t, ok, "expected error object in JSON response")
	assert.Equal(t, "NOT_FOUND", errObj["code"])
	assert.Equal(t, float64(404), errObj["status"])
}

func TestErrorRendering_HtmxFragment(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/employees/abc", nil)
	req.SetPathValue("id", "abc")
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "error-message")
	assert.NotContains(t, body, "<!DOCTYPE html>")
}

func TestErrorRendering_FullErrorPage(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/employees/abc", nil)
	req.SetPathValue("id", "abc")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	doc := parse(t, rec)
	assert.Equal(t, "400", doc.Find(".error-page h1").Text())
	assert.Contains(t, rec.Body.String(), "<!DOCTYPE html>")
}

// --- About ---

func TestHandleAbout(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/about", nil)
	rec := httptest.NewRecorder()
	h.HandleAbout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	doc := parse(t, rec)
	assert.Equal(t, "About the directory", doc.Find(".about h1").Text())
	assert.GreaterOrEqual(t, doc.Find(".about table").Length(), 2)
	assert.True(t, doc.Find(`nav a[href="/about"]`).HasClass("active"))
}

// --- Routing and middleware ---

func TestRoutes_RootRedirects(t *testing.T) {
	rec := serve(t, nil, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/employees", rec.Header().Get("Location"))
}

func TestRoutes_DetailPathValue(t *testing.T) {
	req := httptest.NewRequest("GET", "/employees/3", nil)
	req.Header.Set("Accept", "application/json")
	rec := serve(t, nil, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sarah Williams")
}

func TestRoutes_Static(t *testing.T) {
	for _, path := range []string{"/static/style.css", "/static/app.js"} {
		rec := serve(t, nil, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := serve(t, nil, httptest.NewRequest("GET", "/static/app.js", nil))
	assert.Contains(t, rec.Body.String(), "addEventListener")
	assert.NotContains(t, rec.Body.String(), "window.")
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	rec := serve(t, nil, httptest.NewRequest("POST", "/employees", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	rec := serve(t, nil, httptest.NewRequest("GET", "/employees", nil))

	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "script-src 'self'")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	rec := serve(t, zap.New(core), httptest.NewRequest("GET", "/employees?q=kim", nil))

	id := rec.Header().Get(RequestIDHeader)
	require.NotEmpty(t, id)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/employees", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, id, fields["request_id"])
}

func TestRequestLogger_KeepsClientID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	req := httptest.NewRequest("GET", "/employees/404", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	req.Header.Set("HX-Request", "true")
	rec := serve(t, zap.New(core), req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(http.StatusNoContent), entries[0].ContextMap()["status"])
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	srv := NewServer(testStore(t), config.DefaultConfig(), zap.NewNop(), "test")
	srv.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, srv, zap.NewNop()) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_ListenFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	srv := NewServer(testStore(t), config.DefaultConfig(), zap.NewNop(), "test")
	srv.Addr = ln.Addr().String()

	err = Run(context.Background(), srv, zap.NewNop())
	assert.Error(t, err, "port already in use")
}

// --- Helpers ---

func TestParseIDParam(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"4", 4, true},
		{"10", 10, true},
		{"", 0, false},
		{"0", 0, false},
		{"-1", 0, false},
		{"1.5", 0, false},
		{"abc", 0, false},
	}

	for _, tc := range tests {
		got, ok := parseIDParam(tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
	}
}

func TestTierLabel(t *testing.T) {
	assert.Equal(t, "Veteran", tierLabel(tenure.TierVeteran))
	assert.Equal(t, "Newcomer", tierLabel(tenure.TierNewcomer))
	assert.Equal(t, "", tierLabel(""))
}
