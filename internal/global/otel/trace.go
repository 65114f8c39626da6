package otel

import (
	"context"
	"fmt"

	"fest-judging-system/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.25.0"
	"go.opentelemetry.io/otel/trace"
)

var tracerProvider *sdktrace.TracerProvider

// Tracer 业务代码（如成绩发布）用它创建自定义 span；未启用时是全局 noop provider
func Tracer(name string) trace.Tracer {
	return otel.Tracer("fest-judging-system/" + name)
}

// Init 未开启 OTel 时跳过，Trace 中间件退化为 noop span
func Init(ctx context.Context) error {
	cfg := config.Get().OTel
	if !cfg.Enable {
		return nil
	}

	res, err := resource.Merge(
		resource.Default(),
		// 不带 schema URL，避免与 resource.Default 的版本冲突
		resource.NewSchemaless(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return fmt.Errorf("创建 OTel resource 失败: %w", err)
	}

	exp, err := otlptracehttp.New(ctx,
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithEndpoint(fmt.Sprintf("%s:%s", cfg.AgentHost, cfg.AgentPort)),
	)
	if err != nil {
		return fmt.Errorf("创建 OTLP exporter 失败: %w", err)
	}

	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(exp)),
	)
	otel.SetTracerProvider(tracerProvider)
	return nil
}

func Shutdown(ctx context.Context) error {
	if tracerProvider != nil {
		return tracerProvider.Shutdown(ctx)
	}
	return nil
}
