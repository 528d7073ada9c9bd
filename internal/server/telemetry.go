// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-learning-progress/pkg/common"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// TelemetryOptions configures tracing.
type TelemetryOptions struct {
	ServiceName    string
	Environment    string
	ID             int
	ZipkinEndpoint string
}

// SetupTelemetry initializes the OpenTelemetry tracer provider and propagators.
// Returns a shutdown function that should be called on application shutdown.
//
// ============================================================
// DEVELOPER: OpenTelemetry configuration
// ============================================================
// Spans are exported to Zipkin when ZIPKIN_ENDPOINT is set.
// Without it spans are still created, so trace IDs show up in
// logs and propagate to downstream calls.
//
// Incoming requests are decoded with B3 first, then W3C
// TraceContext and Baggage.
// ============================================================
func SetupTelemetry(ctx context.Context, opts TelemetryOptions) (func(context.Context) error, error) {
	tracerProvider, err := common.NewTracerProvider(opts.ServiceName, opts.Environment, int64(opts.ID), opts.ZipkinEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer provider: %w", err)
	}

	otel.SetTracerProvider(tracerProvider)
	logrus.Infof("set tracer provider: (name: %s environment: %s id: %d)", opts.ServiceName, opts.Environment, opts.ID)

	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			b3.New(),
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)
	logrus.Infof("set text map propagator")

	shutdown := func(ctx context.Context) error {
		logrus.Info("shutting down telemetry...")
		if err := tracerProvider.Shutdown(ctx); err != nil {
			return err
		}
		logrus.Info("telemetry stopped")
		return nil
	}

	return shutdown, nil
}
