package telemetry

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/shade/internal/core/ports"
)

// LogBridge implements sdktrace.SpanProcessor and reports finished spans
// through the logger at debug level. Failed spans are reported as warnings.
type LogBridge struct {
	logger ports.Logger
}

// NewLogBridge returns a new LogBridge.
func NewLogBridge(logger ports.Logger) *LogBridge {
	return &LogBridge{logger: logger}
}

// OnStart is called when a span starts.
func (b *LogBridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd is called when a span ends.
func (b *LogBridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if !s.SpanContext().IsValid() {
		return
	}

	attrs := make([]string, 0, len(s.Attributes()))
	for _, kv := range s.Attributes() {
		attrs = append(attrs, string(kv.Key)+"="+kv.Value.Emit())
	}

	msg := fmt.Sprintf("%s took %s", s.Name(), s.EndTime().Sub(s.StartTime()))
	if len(attrs) > 0 {
		msg += " " + strings.Join(attrs, " ")
	}

	if s.Status().Code == codes.Error {
		b.logger.Warn(msg + ": " + s.Status().Description)
		return
	}
	b.logger.Debug(msg)
}

// Shutdown shuts down the processor.
func (b *LogBridge) Shutdown(_ context.Context) error {
	return nil
}

// ForceFlush exports all ended spans that have not yet been exported.
func (b *LogBridge) ForceFlush(_ context.Context) error {
	return nil
}

// NewProvider creates a tracer provider that reports spans through logger.
func NewProvider(logger ports.Logger) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(NewLogBridge(logger)))
}
