// Package tracing 提供基于OpenTelemetry的链路追踪
//
// # 核心概念
//
//   - Trace：一次完整请求的调用链，例如一次批量导入
//   - Span：调用链中的一个操作单元，例如导入单本图书、拉取作者记录
//   - SpanContext：TraceID + SpanID，随context.Context向下传递
//
// # 追踪示例
//
//	Trace: POST /store_openlib_books
//	├─ Span: StoreOpenLibBooks
//	│  ├─ Span: openlibrary.Fetch /books/OL1M
//	│  ├─ Span: openlibrary.Fetch /authors/OL1A
//	│  └─ Span: ImportBook OL1M（事务）
//	│     └─ Span: gorm查询（由gin/otel中间件串起）
//
// # 使用示例
//
//	shutdown, err := tracing.InitTracer("bookcatalog", "localhost:4317")
//	defer shutdown(context.Background())
//
//	ctx, span := tracing.StartSpan(ctx, "catalog", "ImportBook")
//	defer span.End()
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// InitTracer 初始化全局TracerProvider
//
// 参数：
//
//	serviceName: 服务名称（Jaeger UI中的service）
//	endpoint: OTLP gRPC端点，如 localhost:4317（不带协议前缀）
//
// 返回的shutdown必须在进程退出前调用，否则最后一批Span可能丢失
func InitTracer(serviceName, endpoint string) (func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 1. OTLP gRPC Exporter（连接是惰性的，Collector未启动也不会阻塞启动）
	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
	)
	if err != nil {
		return nil, fmt.Errorf("创建OTLP exporter失败: %w", err)
	}

	// 2. Resource：附加到所有Span上的服务属性
	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("创建资源属性失败: %w", err)
	}

	// 3. TracerProvider：100%采样 + 批量发送
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	// 4. 设置全局Provider与传播器（W3C Trace Context + Baggage）
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}

	return shutdown, nil
}

// StartSpan 创建Span
// ctx中已有Span时新Span自动成为子Span
func StartSpan(ctx context.Context, tracerName, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, spanName, trace.WithAttributes(attrs...))
}

// EndSpan 根据err设置Span状态并结束Span
//
//	ctx, span := tracing.StartSpan(ctx, "catalog", "DeleteBook")
//	defer func() { tracing.EndSpan(span, err) }()
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// ExtractTraceID 从Context提取TraceID（用于日志关联）
func ExtractTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().TraceID().String()
}

// ExtractSpanID 从Context提取SpanID
func ExtractSpanID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().SpanID().String()
}
