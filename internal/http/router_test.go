package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/swaggo/swag"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-codementor-backend/internal/config"
	"github.com/tbourn/go-codementor-backend/internal/domain"
	"github.com/tbourn/go-codementor-backend/internal/llm"
	"github.com/tbourn/go-codementor-backend/internal/repo"
)

// --- canned completion client ---
type fakeCompleter struct {
	configured bool
	content    string
}

func (f fakeCompleter) Configured() bool { return f.configured }

func (f fakeCompleter) Complete(context.Context, string) (*llm.Result, error) {
	return &llm.Result{
		Content:      f.content,
		Usage:        &llm.Usage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30},
		ResponseTime: 15 * time.Millisecond,
	}, nil
}

// --- test DB helper (pure-Go sqlite, no CGO) ---
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:router_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	users := []domain.User{
		{ID: "u1", Username: "ada", APIKeyHash: repo.HashAPIKey("key-ada"), SolvedCount: 12, Rating: 1500},
		{ID: "u2", Username: "bob", APIKeyHash: repo.HashAPIKey("key-bob")},
	}
	if err := db.Create(&users).Error; err != nil {
		t.Fatalf("seed users: %v", err)
	}
	p := domain.Problem{ID: "two-sum", Title: "Two Sum", Description: "<p>Find two numbers</p>", Difficulty: "easy"}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed problem: %v", err)
	}
	return db
}

func testConfig() config.Config {
	return config.Config{
		APIBasePath: "/api/v1/ai",
		CORS:        config.CORSConfig{AllowedOrigins: nil}, // triggers AllowAllOrigins branch
		Security:    config.SecurityConfig{EnableHSTS: false, HSTSMaxAge: 0},
		OTEL:        config.OTELConfig{ServiceName: "test-svc"},
	}
}

func newEngine(t *testing.T, cfg config.Config, c llm.Completer) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	db := newTestDB(t)
	RegisterRoutes(r, db, c, cfg)
	return r, db
}

func send(r http.Handler, method, path, key, body string, hdr ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterRoutes_CORSAllowAll_Health_Metrics_Fallbacks(t *testing.T) {
	r, _ := newEngine(t, testConfig(), fakeCompleter{})

	w := send(r, http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}
	if !strings.Contains(w.Body.String(), `"ai_configured":false`) {
		t.Fatalf("health should report unconfigured AI: %s", w.Body.String())
	}

	w = send(r, http.MethodGet, "/metrics", "", "")
	if w.Code != http.StatusOK || w.Body.Len() == 0 {
		t.Fatalf("GET /metrics bad: code=%d len=%d", w.Code, w.Body.Len())
	}

	if w = send(r, http.MethodGet, "/nope", "", ""); w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope expected 404, got %d", w.Code)
	}
	if w = send(r, http.MethodPost, "/health", "", ""); w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health expected 405, got %d", w.Code)
	}

	// Swagger is off by default.
	if w = send(r, http.MethodGet, "/swagger/doc.json", "", ""); w.Code != http.StatusNotFound {
		t.Fatalf("swagger should be disabled, got %d", w.Code)
	}
}

func TestRegisterRoutes_CORSWithOrigins_HeaderEcho(t *testing.T) {
	cfg := testConfig()
	cfg.CORS.AllowedOrigins = []string{"http://example.com"}
	r, _ := newEngine(t, cfg, fakeCompleter{})

	w := send(r, http.MethodGet, "/health", "", "", "Origin", "http://example.com")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}
}

func TestRegisterRoutes_SwaggerAndGzip(t *testing.T) {
	cfg := testConfig()
	cfg.SwaggerEnabled = true
	r, _ := newEngine(t, cfg, fakeCompleter{})

	w := send(r, http.MethodGet, "/swagger/doc.json", "", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/code-review") {
		t.Fatalf("swagger doc: %d %.200s", w.Code, w.Body.String())
	}

	w = send(r, http.MethodGet, "/health", "", "", "Accept-Encoding", "gzip")
	if w.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip encoding, got %q", w.Header().Get("Content-Encoding"))
	}
}

func TestAPI_RequiresAPIKey(t *testing.T) {
	r, _ := newEngine(t, testConfig(), fakeCompleter{configured: true})

	w := send(r, http.MethodGet, "/api/v1/ai/history", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no key: %d", w.Code)
	}
	w = send(r, http.MethodGet, "/api/v1/ai/history", "wrong", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad key: %d", w.Code)
	}
	w = send(r, http.MethodGet, "/api/v1/ai/history", "", "", "X-API-Key", "key-ada")
	if w.Code != http.StatusOK {
		t.Fatalf("X-API-Key: %d", w.Code)
	}
}

func TestAPI_NotConfigured(t *testing.T) {
	r, db := newEngine(t, testConfig(), fakeCompleter{configured: false})

	w := send(r, http.MethodPost, "/api/v1/ai/hint", "key-ada", `{"problemId":"two-sum"}`)
	if w.Code != http.StatusInternalServerError || !strings.Contains(w.Body.String(), "AI service not configured") {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var n int64
	db.Model(&domain.Interaction{}).Count(&n)
	if n != 0 {
		t.Fatalf("interactions written: %d", n)
	}
}

func TestAPI_EndToEnd_ReviewHistoryFeedback(t *testing.T) {
	reply := "Consider a hash map.\nYou could improve naming.\nTime complexity: O(n) and Space complexity: O(n)"
	r, _ := newEngine(t, testConfig(), fakeCompleter{configured: true, content: reply})
	base := "/api/v1/ai"

	// Review
	w := send(r, http.MethodPost, base+"/code-review", "key-ada", `{"code":"for i := range nums {}","language":"go","problemId":"two-sum"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("review: %d %s", w.Code, w.Body.String())
	}
	var review struct {
		InteractionID string            `json:"interactionId"`
		Review        string            `json:"review"`
		Suggestions   []string          `json:"suggestions"`
		Complexity    map[string]string `json:"complexity"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &review); err != nil {
		t.Fatalf("json: %v", err)
	}
	if review.InteractionID == "" || review.Review != reply || len(review.Suggestions) != 2 || review.Complexity["time"] == "" {
		t.Fatalf("unexpected review: %+v", review)
	}

	// Unknown problem → 404
	if w = send(r, http.MethodPost, base+"/code-review", "key-ada", `{"code":"x","language":"go","problemId":"nope"}`); w.Code != http.StatusNotFound {
		t.Fatalf("unknown problem: %d", w.Code)
	}

	// History shows the single recorded interaction with its problem.
	w = send(r, http.MethodGet, base+"/history", "key-ada", "")
	if w.Code != http.StatusOK {
		t.Fatalf("history: %d", w.Code)
	}
	etag := w.Header().Get("ETag")
	if cc := w.Header().Get("Cache-Control"); cc != "private, no-cache" {
		t.Fatalf("history Cache-Control = %q", cc)
	}
	var hist struct {
		Interactions []struct {
			ID         string `json:"id"`
			Type       string `json:"type"`
			Query      string `json:"query"`
			TokensUsed int    `json:"tokensUsed"`
			Problem    *struct {
				Title string `json:"title"`
			} `json:"problem"`
		} `json:"interactions"`
		Total int64 `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &hist); err != nil {
		t.Fatalf("json: %v", err)
	}
	if hist.Total != 1 || hist.Interactions[0].ID != review.InteractionID || hist.Interactions[0].Type != "code_review" ||
		hist.Interactions[0].TokensUsed != 30 || hist.Interactions[0].Problem == nil || hist.Interactions[0].Problem.Title != "Two Sum" {
		t.Fatalf("unexpected history: %+v", hist)
	}
	if hist.Interactions[0].Query != "Code review for: Two Sum" {
		t.Fatalf("query = %q", hist.Interactions[0].Query)
	}

	// Unchanged history → 304.
	if w = send(r, http.MethodGet, base+"/history", "key-ada", "", "If-None-Match", etag); w.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", w.Code)
	}

	// Another user's history is empty, and they cannot leave feedback.
	w = send(r, http.MethodGet, base+"/history", "key-bob", "")
	if !strings.Contains(w.Body.String(), `"total":0`) {
		t.Fatalf("bob history: %s", w.Body.String())
	}
	w = send(r, http.MethodPost, base+"/feedback/"+review.InteractionID, "key-bob", `{"helpful":false}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("bob feedback: %d", w.Code)
	}

	// Owner feedback succeeds and invalidates the ETag.
	time.Sleep(2 * time.Millisecond)
	w = send(r, http.MethodPost, base+"/feedback/"+review.InteractionID, "key-ada", `{"helpful":true,"rating":5,"comment":"great"}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Feedback submitted successfully") {
		t.Fatalf("feedback: %d %s", w.Code, w.Body.String())
	}
	w = send(r, http.MethodGet, base+"/history", "key-ada", "", "If-None-Match", etag)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"comment":"great"`) {
		t.Fatalf("history after feedback: %d %s", w.Code, w.Body.String())
	}

	if w = send(r, http.MethodPost, base+"/feedback/missing", "key-ada", `{}`); w.Code != http.StatusNotFound {
		t.Fatalf("missing interaction: %d", w.Code)
	}
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// tiny cap to trigger MaxBytesReader
	r.Use(limitBody(10))
	r.POST("/echo", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("0123456789AB")) // 12 bytes
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 from limitBody, got %d", w.Code)
	}
}

func Test_groupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// "/" and "" should mount at root
	groupWithPrefix(r, "/").GET("/one", func(c *gin.Context) { c.String(http.StatusOK, "one") })
	groupWithPrefix(r, "").GET("/two", func(c *gin.Context) { c.String(http.StatusOK, "two") })
	groupWithPrefix(r, "/api").GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for path, want := range map[string]string{"/one": "one", "/two": "two", "/api/ping": "pong"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK || rec.Body.String() != want {
			t.Fatalf("GET %s got %d %q", path, rec.Code, rec.Body.String())
		}
	}
}

// Smoke test that a request traverses the otel + security headers pipeline.
func TestPipeline_Smoke(t *testing.T) {
	cfg := testConfig()
	cfg.Security = config.SecurityConfig{EnableHSTS: true, HSTSMaxAge: time.Hour}
	r, _ := newEngine(t, cfg, fakeCompleter{})

	w := send(r, http.MethodGet, "/health", "", "", "X-Forwarded-Proto", "https")
	if w.Code != http.StatusOK {
		t.Fatalf("pipeline GET /health = %d", w.Code)
	}
	if rid := w.Header().Get("X-Request-ID"); rid == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
	if got := w.Header().Get("Strict-Transport-Security"); !strings.HasPrefix(got, "max-age=3600") {
		t.Fatalf("HSTS = %q", got)
	}
}

// Every authenticated route must be described in the OpenAPI document, and
// the document must not describe routes that do not exist.
func TestOpenAPI_PathsMatchRoutes(t *testing.T) {
	cfg := testConfig()
	r, _ := newEngine(t, cfg, fakeCompleter{})

	raw, err := swag.ReadDoc()
	if err != nil {
		t.Fatalf("ReadDoc: %v", err)
	}
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("document is not JSON: %v", err)
	}

	documented := 0
	for _, ops := range doc.Paths {
		documented += len(ops)
	}

	served := 0
	for _, rt := range r.Routes() {
		if !strings.HasPrefix(rt.Path, cfg.APIBasePath+"/") {
			continue
		}
		served++
		p := strings.TrimPrefix(rt.Path, cfg.APIBasePath)
		segs := strings.Split(p, "/")
		for i, s := range segs {
			if strings.HasPrefix(s, ":") {
				segs[i] = "{" + s[1:] + "}"
			}
		}
		p = strings.Join(segs, "/")
		if _, ok := doc.Paths[p][strings.ToLower(rt.Method)]; !ok {
			t.Fatalf("route %s %s is not documented", rt.Method, p)
		}
	}
	if served != documented {
		t.Fatalf("served %d API operations, documented %d", served, documented)
	}
}
