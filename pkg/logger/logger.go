// Package logger 基于zap的结构化日志初始化
package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options 日志配置
type Options struct {
	Level     string // debug | info | warn | error
	Format    string // text | json
	Output    string // stdout | stderr | /path/to/file
	AddSource bool
}

// New 根据配置创建Logger
// 返回的closer先刷新缓冲再关闭日志文件（输出到stdout/stderr时只刷新）
func New(opts Options) (*zap.Logger, func() error, error) {
	w, closeOutput, err := openOutput(opts.Output)
	if err != nil {
		return nil, nil, err
	}
	l := NewWithWriter(w, opts)
	return l, func() error {
		_ = l.Sync()
		return closeOutput()
	}, nil
}

// NewWithWriter 输出到指定Writer（测试中常用bytes.Buffer）
func NewWithWriter(w io.Writer, opts Options) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if strings.EqualFold(opts.Format, "json") {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), ParseLevel(opts.Level))
	var zapOpts []zap.Option
	if opts.AddSource {
		zapOpts = append(zapOpts, zap.AddCaller())
	}
	return zap.New(core, zapOpts...)
}

// Setup 创建Logger并替换zap全局Logger
// 基础设施层没有注入点的地方使用zap.L()
func Setup(opts Options) (*zap.Logger, func() error, error) {
	l, closer, err := New(opts)
	if err != nil {
		return nil, nil, err
	}
	zap.ReplaceGlobals(l)
	return l, closer, nil
}

// ParseLevel 未知级别按info处理
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// WithTrace 附加当前span的trace_id,没有span时原样返回
func WithTrace(ctx context.Context, l *zap.Logger) *zap.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return l
	}
	return l.With(zap.String("trace_id", sc.TraceID().String()))
}

func openOutput(output string) (io.Writer, func() error, error) {
	noop := func() error { return nil }
	switch output {
	case "", "stdout":
		return os.Stdout, noop, nil
	case "stderr":
		return os.Stderr, noop, nil
	}

	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
