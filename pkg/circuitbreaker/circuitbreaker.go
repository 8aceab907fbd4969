// Package circuitbreaker 实现熔断器模式（Circuit Breaker Pattern）
//
// 用于保护对外部书目服务的调用：外部服务持续失败时快速失败，
// 批量导入中剩余的条目立即记为跳过，而不是每条都等待超时。
//
// 状态转换：
//
//	CLOSED --(ReadyToTrip)--> OPEN --(Timeout)--> HALF_OPEN
//	HALF_OPEN --(成功)--> CLOSED
//	HALF_OPEN --(失败)--> OPEN
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State 熔断器状态
type State int

const (
	// StateClosed 关闭状态（正常放行并统计失败）
	StateClosed State = iota
	// StateOpen 打开状态（快速失败）
	StateOpen
	// StateHalfOpen 半开状态（放行少量探测请求）
	StateHalfOpen
)

// String 状态转字符串（便于日志）
func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// Config 熔断器配置
type Config struct {
	// MaxRequests 半开状态下允许的最大探测请求数，0按1处理
	MaxRequests uint32

	// Interval 关闭状态下的统计窗口，0表示不按时间重置
	Interval time.Duration

	// Timeout 打开状态持续时间，过后转为半开
	Timeout time.Duration

	// ReadyToTrip 关闭状态下每次失败后调用，返回true则熔断
	// 默认：连续失败5次
	ReadyToTrip func(counts Counts) bool

	// IsSuccessful 判断一次调用结果是否计为成功
	// 默认只有err==nil算成功；可以把"资源不存在"这类业务错误也算成功，避免误熔断
	IsSuccessful func(err error) bool

	// OnStateChange 状态变化回调（记录日志、更新指标）
	OnStateChange func(name string, from State, to State)
}

// Counts 统计数据
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// FailureRate 计算失败率
func (c Counts) FailureRate() float64 {
	if c.Requests == 0 {
		return 0
	}
	return float64(c.TotalFailures) / float64(c.Requests)
}

func (c *Counts) onSuccess() {
	c.TotalSuccesses++
	c.ConsecutiveSuccesses++
	c.ConsecutiveFailures = 0
}

func (c *Counts) onFailure() {
	c.TotalFailures++
	c.ConsecutiveFailures++
	c.ConsecutiveSuccesses = 0
}

// ErrOpenState 熔断器打开（或半开探测名额已满）时返回
var ErrOpenState = errors.New("circuit breaker is open")

// CircuitBreaker 熔断器
type CircuitBreaker struct {
	name   string
	config Config
	now    func() time.Time

	mu         sync.Mutex
	state      State
	generation uint64 // 每次状态切换递增，丢弃跨状态的迟到结果
	counts     Counts
	expiry     time.Time
}

// NewCircuitBreaker 创建熔断器
//
//	cb := circuitbreaker.NewCircuitBreaker("openlibrary", circuitbreaker.Config{
//	    MaxRequests: 1,
//	    Timeout:     30 * time.Second,
//	})
func NewCircuitBreaker(name string, config Config) *CircuitBreaker {
	if config.MaxRequests == 0 {
		config.MaxRequests = 1
	}
	if config.ReadyToTrip == nil {
		config.ReadyToTrip = func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 5
		}
	}
	if config.IsSuccessful == nil {
		config.IsSuccessful = func(err error) bool { return err == nil }
	}

	cb := &CircuitBreaker{
		name:   name,
		config: config,
		now:    time.Now,
		state:  StateClosed,
	}
	cb.resetWindow(cb.now())
	return cb
}

// Name 熔断器名称
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// Execute 在熔断器保护下执行req
// 熔断时不调用req，直接返回ErrOpenState；否则原样返回req的错误
func (cb *CircuitBreaker) Execute(req func() error) error {
	generation, err := cb.beforeRequest()
	if err != nil {
		return err
	}

	err = req()
	cb.afterRequest(generation, cb.config.IsSuccessful(err))
	return err
}

// State 当前状态（会处理超时转换）
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state, _ := cb.currentState(cb.now())
	return state
}

// Counts 当前统计窗口内的数据
func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.counts
}

func (cb *CircuitBreaker) beforeRequest() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state, generation := cb.currentState(cb.now())
	switch {
	case state == StateOpen:
		return generation, ErrOpenState
	case state == StateHalfOpen && cb.counts.Requests >= cb.config.MaxRequests:
		return generation, ErrOpenState
	}

	cb.counts.Requests++
	return generation, nil
}

func (cb *CircuitBreaker) afterRequest(before uint64, success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.now()
	state, generation := cb.currentState(now)
	if generation != before {
		return
	}

	if success {
		cb.counts.onSuccess()
		if state == StateHalfOpen {
			cb.setState(StateClosed, now)
		}
		return
	}

	cb.counts.onFailure()
	switch state {
	case StateClosed:
		if cb.config.ReadyToTrip(cb.counts) {
			cb.setState(StateOpen, now)
		}
	case StateHalfOpen:
		cb.setState(StateOpen, now)
	}
}

// currentState 处理过期：关闭状态按窗口重置计数，打开状态超时转半开
func (cb *CircuitBreaker) currentState(now time.Time) (State, uint64) {
	switch cb.state {
	case StateClosed:
		if !cb.expiry.IsZero() && cb.expiry.Before(now) {
			cb.resetWindow(now)
		}
	case StateOpen:
		if cb.expiry.Before(now) {
			cb.setState(StateHalfOpen, now)
		}
	}
	return cb.state, cb.generation
}

func (cb *CircuitBreaker) setState(state State, now time.Time) {
	if cb.state == state {
		return
	}

	prev := cb.state
	cb.state = state

	switch state {
	case StateClosed:
		cb.resetWindow(now)
	case StateOpen:
		cb.generation++
		cb.counts = Counts{}
		cb.expiry = now.Add(cb.config.Timeout)
	case StateHalfOpen:
		cb.generation++
		cb.counts = Counts{}
		cb.expiry = time.Time{}
	}

	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.name, prev, state)
	}
}

func (cb *CircuitBreaker) resetWindow(now time.Time) {
	cb.generation++
	cb.counts = Counts{}
	if cb.config.Interval > 0 {
		cb.expiry = now.Add(cb.config.Interval)
	} else {
		cb.expiry = time.Time{}
	}
}
