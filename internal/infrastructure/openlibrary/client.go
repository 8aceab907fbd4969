// Package openlibrary OpenLibrary书目服务客户端
//
// 只读取三类资源：版本（/books/{code}.json）、作者（/authors/{id}.json）、作品（/works/{id}.json）。
// 客户端自带限流、429/5xx重试和熔断；任何失败都以ErrCodeFetchError返回，
// 由调用方决定是否把对应条目记为跳过。
package openlibrary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

const breakerName = "openlibrary"

// Ref 对其他资源的引用，如 {"key": "/authors/OL23919A"}
type Ref struct {
	Key string `json:"key"`
}

// Edition 图书版本
// Authors/Works为nil表示响应里没有这个字段（与空列表区分）
type Edition struct {
	Key           string `json:"key"`
	Title         string `json:"title"`
	NumberOfPages *int   `json:"number_of_pages"`
	Authors       []Ref  `json:"authors"`
	Works         []Ref  `json:"works"`
}

// UnmarshalJSON 页数字段宽松解析
// OpenLibrary的number_of_pages偶尔是"320"或320.0，无法识别的值按页数未知处理，
// 不让整条版本解析失败
func (e *Edition) UnmarshalJSON(data []byte) error {
	type plain Edition
	aux := struct {
		*plain
		NumberOfPages json.RawMessage `json:"number_of_pages"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.NumberOfPages = parsePageCount(aux.NumberOfPages)
	return nil
}

// parsePageCount 接受整数、整数值的浮点数和数字字符串
func parsePageCount(raw json.RawMessage) *int {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil
	}

	var text string
	switch t := v.(type) {
	case json.Number:
		text = t.String()
	case string:
		text = strings.TrimSpace(t)
	default:
		return nil
	}

	if n, err := strconv.Atoi(text); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return nil
	}
	n := int(f)
	return &n
}

// Author 作者
type Author struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Work 作品
type Work struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// Client OpenLibrary客户端
type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	breaker    *circuitbreaker.CircuitBreaker
}

// NewClient 创建客户端
func NewClient(cfg config.OpenLibraryConfig) *Client {
	rps := cfg.RPS
	if rps <= 0 {
		rps = 1
	}
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		userAgent:  cfg.UserAgent,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff,
		breaker: circuitbreaker.NewCircuitBreaker(breakerName, circuitbreaker.Config{
			MaxRequests: 1,
			Timeout:     cfg.BreakerOpenDelay,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			IsSuccessful: isHealthy,
			OnStateChange: func(name string, from, to circuitbreaker.State) {
				zap.L().Warn("熔断器状态变化", zap.String("name", name), zap.Stringer("from", from), zap.Stringer("to", to))
			},
		}),
	}
}

// GetEdition 按版本编号获取图书，如 OL7353617M
func (c *Client) GetEdition(ctx context.Context, code string) (*Edition, error) {
	var res Edition
	if err := c.fetch(ctx, "/books/"+strings.TrimPrefix(code, "/books/"), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetAuthor 按引用获取作者，key形如 /authors/OL23919A
func (c *Client) GetAuthor(ctx context.Context, key string) (*Author, error) {
	var res Author
	if err := c.fetch(ctx, key, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetWork 按引用获取作品，key形如 /works/OL82563W
func (c *Client) GetWork(ctx context.Context, key string) (*Work, error) {
	var res Work
	if err := c.fetch(ctx, key, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// fetch 经过熔断器请求 {baseURL}{ref}.json
func (c *Client) fetch(ctx context.Context, ref string, target interface{}) error {
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	url := c.baseURL + ref + ".json"

	err := c.breaker.Execute(func() error {
		return c.get(ctx, url, target)
	})
	metrics.RecordBreaker(breakerName, breakerResult(err), int(c.breaker.State()))

	if err == nil {
		return nil
	}
	if errors.Is(err, circuitbreaker.ErrOpenState) {
		return apperrors.WrapCode(apperrors.ErrCodeFetchError, err, "OpenLibrary temporarily unavailable")
	}
	return apperrors.WrapCode(apperrors.ErrCodeFetchError, err, err.Error())
}

// get 单次逻辑请求，429/5xx与网络错误按指数退避重试
func (c *Client) get(ctx context.Context, url string, target interface{}) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// 退避：backoff, 2*backoff, 4*backoff...
			wait := c.backoff * time.Duration(1<<uint(i-1))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		retry, err := c.do(ctx, url, target)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return lastErr
}

// do 发送一次HTTP请求，返回是否值得重试
func (c *Client) do(ctx context.Context, url string, target interface{}) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serr := &StatusError{StatusCode: resp.StatusCode, URL: url}
		return serr.Temporary(), serr
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return false, fmt.Errorf("decode %s: %w", url, err)
	}
	return false, nil
}

// StatusError 非2xx响应
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s for url: %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// Temporary 429与5xx可以重试
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// isHealthy 4xx（429除外）说明服务本身正常，不计入熔断失败
func isHealthy(err error) bool {
	if err == nil {
		return true
	}
	var serr *StatusError
	if errors.As(err, &serr) {
		return !serr.Temporary()
	}
	return errors.Is(err, context.Canceled)
}

func breakerResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, circuitbreaker.ErrOpenState):
		return "rejected"
	default:
		return "failure"
	}
}
