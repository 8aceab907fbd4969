package openlibrary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.OpenLibraryConfig{
		BaseURL:          baseURL,
		UserAgent:        "bookcatalog-test",
		Timeout:          2 * time.Second,
		RPS:              1000,
		MaxRetries:       2,
		RetryBackoff:     time.Millisecond,
		BreakerFailures:  3,
		BreakerOpenDelay: time.Minute,
	})
}

func TestClient_GetEdition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/books/OL7353617M.json", r.URL.Path)
		assert.Equal(t, "bookcatalog-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"key": "/books/OL7353617M",
			"title": "Fantastic Mr. Fox",
			"number_of_pages": 96,
			"authors": [{"key": "/authors/OL34184A"}],
			"works": [{"key": "/works/OL45804W"}]
		}`))
	}))
	defer srv.Close()

	ed, err := newTestClient(srv.URL).GetEdition(context.Background(), "OL7353617M")
	require.NoError(t, err)
	assert.Equal(t, "/books/OL7353617M", ed.Key)
	require.NotNil(t, ed.NumberOfPages)
	assert.Equal(t, 96, *ed.NumberOfPages)
	assert.Equal(t, []Ref{{Key: "/authors/OL34184A"}}, ed.Authors)
	assert.Equal(t, []Ref{{Key: "/works/OL45804W"}}, ed.Works)
}

func TestClient_MissingListsStayNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"key": "/books/X", "title": "no refs", "works": []}`))
	}))
	defer srv.Close()

	ed, err := newTestClient(srv.URL).GetEdition(context.Background(), "X")
	require.NoError(t, err)
	assert.Nil(t, ed.Authors)
	assert.NotNil(t, ed.Works)
	assert.Nil(t, ed.NumberOfPages)
}

func TestClient_PageCountIsLenient(t *testing.T) {
	tests := []struct {
		name  string
		pages string
		want  *int
	}{
		{"整数", `96`, intPtr(96)},
		{"数字字符串", `"320"`, intPtr(320)},
		{"带空白的字符串", `" 320 "`, intPtr(320)},
		{"整数值浮点数", `320.0`, intPtr(320)},
		{"浮点数字符串", `"320.0"`, intPtr(320)},
		{"小数按未知处理", `320.5`, nil},
		{"非数字字符串按未知处理", `"about 300"`, nil},
		{"null", `null`, nil},
		{"对象按未知处理", `{"value": 1}`, nil},
		{"数组按未知处理", `[1]`, nil},
		{"超出范围按未知处理", `1e20`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"key": "/books/X", "title": "T", "number_of_pages": ` + tt.pages +
					`, "authors": [{"key": "/authors/A"}], "works": [{"key": "/works/W"}]}`))
			}))
			defer srv.Close()

			ed, err := newTestClient(srv.URL).GetEdition(context.Background(), "X")
			require.NoError(t, err, "页数格式异常不影响整条版本")
			assert.Equal(t, "T", ed.Title)
			assert.Equal(t, []Ref{{Key: "/authors/A"}}, ed.Authors)
			assert.Equal(t, tt.want, ed.NumberOfPages)
		})
	}
}

func TestEdition_UnmarshalKeepsOtherFieldErrors(t *testing.T) {
	var ed Edition
	assert.Error(t, json.Unmarshal([]byte(`{"title": 42, "number_of_pages": 10}`), &ed))
}

func TestClient_GetAuthorAndWork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/authors/OL34184A.json":
			_, _ = w.Write([]byte(`{"key": "/authors/OL34184A", "name": "Roald Dahl"}`))
		case "/works/OL45804W.json":
			_, _ = w.Write([]byte(`{"key": "/works/OL45804W", "title": "Fantastic Mr Fox"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	a, err := c.GetAuthor(context.Background(), "/authors/OL34184A")
	require.NoError(t, err)
	assert.Equal(t, "Roald Dahl", a.Name)

	wk, err := c.GetWork(context.Background(), "/works/OL45804W")
	require.NoError(t, err)
	assert.Equal(t, "Fantastic Mr Fox", wk.Title)
}

func TestClient_NotFoundIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetEdition(context.Background(), "NOPE")
	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	appErr := apperrors.GetAppError(err)
	assert.Equal(t, apperrors.ErrCodeFetchError, appErr.Code)
	assert.Contains(t, appErr.Message, "404 Not Found for url:")
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"key": "/works/W1", "title": "ok"}`))
	}))
	defer srv.Close()

	wk, err := newTestClient(srv.URL).GetWork(context.Background(), "/works/W1")
	require.NoError(t, err)
	assert.Equal(t, "ok", wk.Title)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestClient_BreakerOpensAfterFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.maxRetries = 0

	for i := 0; i < 3; i++ {
		_, err := c.GetEdition(context.Background(), "X")
		require.Error(t, err)
	}
	before := atomic.LoadInt32(&calls)

	_, err := c.GetEdition(context.Background(), "X")
	require.Error(t, err)
	assert.Equal(t, "OpenLibrary temporarily unavailable", apperrors.GetAppError(err).Message)
	assert.Equal(t, before, atomic.LoadInt32(&calls), "熔断打开后不再发请求")
}

func TestClient_ClientErrorsDoNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	for i := 0; i < 5; i++ {
		_, err := c.GetEdition(context.Background(), "X")
		require.Error(t, err)
		assert.NotEqual(t, "OpenLibrary temporarily unavailable", apperrors.GetAppError(err).Message)
	}
}

func intPtr(n int) *int { return &n }
