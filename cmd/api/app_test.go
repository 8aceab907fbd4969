package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
)

// fakeOpenLibrary 只认识一个版本OL1M
func fakeOpenLibrary(t *testing.T) *httptest.Server {
	t.Helper()
	docs := map[string]string{
		"/books/OL1M.json":   `{"key":"/books/OL1M","title":"The Shining","number_of_pages":447,"authors":[{"key":"/authors/OL1A"}],"works":[{"key":"/works/OL1W"}]}`,
		"/authors/OL1A.json": `{"key":"/authors/OL1A","name":"Stephen King"}`,
		"/works/OL1W.json":   `{"key":"/works/OL1W","title":"The Shining"}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := docs[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := &config.Config{
		Server: config.ServerConfig{Port: 8080, Mode: "test", EnableDocs: true},
		Database: config.DatabaseConfig{
			Driver:          "sqlite",
			DSN:             filepath.Join(t.TempDir(), "catalog.db"),
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: time.Hour,
		},
		Redis: config.RedisConfig{
			Enabled:  true,
			Host:     mr.Host(),
			Port:     port,
			PoolSize: 2,
			CacheTTL: time.Minute,
		},
		OpenLibrary: config.OpenLibraryConfig{
			BaseURL:          fakeOpenLibrary(t).URL,
			UserAgent:        "bookcatalog-test",
			Timeout:          time.Second,
			RPS:              100,
			BreakerFailures:  5,
			BreakerOpenDelay: time.Second,
		},
		Tracing: config.TracingConfig{ServiceName: "bookcatalog"},
	}

	engine, cleanup, err := InitializeApp(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return engine, mr
}

func call(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestApp_ImportCacheDelete(t *testing.T) {
	engine, mr := newTestApp(t)

	w := call(t, engine, http.MethodPost, "/store_openlib_books", gin.H{"codes": []string{"OL1M", "OL404M"}})
	require.Equal(t, http.StatusOK, w.Code)
	var imported struct {
		Data struct {
			AddedBooks   []string            `json:"added_books"`
			SkippedBooks []map[string]string `json:"skipped_books"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &imported))
	assert.Equal(t, []string{"OL1M"}, imported.Data.AddedBooks)
	require.Len(t, imported.Data.SkippedBooks, 1)
	assert.Contains(t, imported.Data.SkippedBooks[0]["OL404M"], "404")

	w = call(t, engine, http.MethodGet, "/api/v1/books", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Stephen King"`)
	assert.Contains(t, w.Body.String(), `"number_of_pages":447`)
	// 导入提交后缓存代数为1
	assert.True(t, mr.Exists("catalog:v1:books:all"), "列表结果写入缓存")

	w = call(t, engine, http.MethodDelete, "/books/OL1M", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"collected_author_ids":["OL1A"]`)
	assert.Contains(t, w.Body.String(), `"collected_work_ids":["OL1W"]`)
	assert.False(t, mr.Exists("catalog:v1:books:all"), "删除后旧代缓存被清理")
	gen, err := mr.Get("catalog:generation")
	require.NoError(t, err)
	assert.Equal(t, "2", gen)

	w = call(t, engine, http.MethodGet, "/books", nil)
	assert.JSONEq(t, `{"code":0,"message":"success","data":{"books":[]}}`, w.Body.String())
}

func TestApp_OperationalRoutes(t *testing.T) {
	engine, _ := newTestApp(t)

	w := call(t, engine, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w = call(t, engine, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")

	w = call(t, engine, http.MethodGet, "/swagger/doc.json", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/store_openlib_books")
}
