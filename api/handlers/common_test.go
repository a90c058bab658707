// Common test helpers
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/knowledgebase/config"
	"github.com/meghashyamc/knowledgebase/db/kvdb"
	"github.com/meghashyamc/knowledgebase/db/searchdb"
	"github.com/meghashyamc/knowledgebase/logger"
	"github.com/meghashyamc/knowledgebase/render"
	"github.com/meghashyamc/knowledgebase/services/documents"
	"github.com/meghashyamc/knowledgebase/services/search"
	"github.com/meghashyamc/knowledgebase/session"
	"github.com/meghashyamc/knowledgebase/ui"
	"github.com/meghashyamc/knowledgebase/validation"
	"github.com/stretchr/testify/require"
)

var defaultTestRequestHeaders = map[string]string{"Content-Type": "application/json"}

// testNow is two days after the newest sample document.
var testNow = time.Date(2025, 12, 1, 18, 0, 0, 0, time.UTC)

type testCase struct {
	name             string
	requestHeaders   map[string]string
	requestBody      map[string]any
	queryParams      map[string]string
	expectedStatus   int
	expectedResponse map[string]any
}

func newTestLogger() logger.Logger {

	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

func setupTestServer(t *testing.T, assert *require.Assertions) *gin.Engine {

	storagePath := t.TempDir()
	t.Setenv("STORAGE_PATH", storagePath)
	t.Setenv("KVDB_PATH", filepath.Join(storagePath, "kb.db"))

	cfg, err := config.Load("test", nil)
	assert.NoError(err, "could not load config")

	testLogger := newTestLogger()

	searchDB, err := searchdb.New(testLogger, cfg)
	assert.NoError(err, "could not create search database")

	kvDB, err := kvdb.New(testLogger, cfg)
	assert.NoError(err, "could not create kv database")
	validator, err := validation.New(testLogger)
	assert.NoError(err, "could not create validator")

	documentService := documents.New(testLogger, kvDB, searchDB)
	assert.NoError(documentService.Seed(context.Background()), "could not seed documents")
	searchService := search.New(testLogger, searchDB, documentService)

	templates, err := ui.Templates()
	assert.NoError(err, "could not parse templates")

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.SetHTMLTemplate(templates)

	SetupDocuments(router, testLogger, documentService, validator)
	SetupSearch(router, testLogger, searchService, validator)
	SetupPage(router, testLogger, session.NewStore(testLogger, cfg.GetMessageTTL(), cfg.GetSessionIdleTimeout()), PageOptions{
		Locale:  render.NewLocale(cfg.GetLocale()),
		DocsURL: cfg.GetDocsURL(),
		Now:     func() time.Time { return testNow },
	})

	t.Cleanup(func() {
		var err error
		err = searchDB.Close()
		assert.NoError(err, "could not close search database")
		err = kvDB.Close()
		assert.NoError(err, "could not close kv database")
	})

	return router
}

func makeTestHTTPRequest(router *gin.Engine, assert *require.Assertions, method string, endpoint string, headers map[string]string, requestBodyMap map[string]interface{}, queryParams map[string]string) *httptest.ResponseRecorder {

	var err error
	w := httptest.NewRecorder()

	if len(queryParams) > 0 {
		values := url.Values{}
		for key, value := range queryParams {
			values.Set(key, value)
		}
		endpoint = endpoint + "?" + values.Encode()
	}
	var jsonBody []byte
	var req *http.Request
	if requestBodyMap != nil {
		jsonBody, err = json.Marshal(requestBodyMap)
		assert.NoError(err)
	}

	slog.Info("Making test request", "method", method, "endpoint", endpoint, "headers", headers, "body", string(jsonBody))

	if len(jsonBody) > 0 {
		req, err = http.NewRequest(method, endpoint, bytes.NewBuffer(jsonBody))
	} else {
		req, err = http.NewRequest(method, endpoint, nil)
	}
	assert.NoError(err)

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	router.ServeHTTP(w, req)

	return w
}

// makeFormRequest posts or gets a page route carrying the session cookie, if any.
func makeFormRequest(router *gin.Engine, assert *require.Assertions, method string, endpoint string, sessionCookie *http.Cookie, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()

	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req, err := http.NewRequest(method, endpoint, body)
	assert.NoError(err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if sessionCookie != nil {
		req.AddCookie(sessionCookie)
	}
	router.ServeHTTP(w, req)

	return w
}

func decodeResponse(assert *require.Assertions, w *httptest.ResponseRecorder) map[string]any {
	var actualResponse map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &actualResponse)
	assert.NoError(err)
	return actualResponse
}

func assertResponseSubset(assert *require.Assertions, expected map[string]any, actual map[string]any) {
	for key, value := range expected {
		assert.Contains(actual, key)
		switch typed := value.(type) {
		case map[string]any:
			nested, ok := actual[key].(map[string]any)
			assert.True(ok, "expected %s to be an object", key)
			assertResponseSubset(assert, typed, nested)
		default:
			assert.EqualValues(value, actual[key], "unexpected value for %s", key)
		}
	}
}
