/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/prreport/pullrequest"
	"chainguard.dev/prreport/report"
	"github.com/chainguard-dev/clog"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var requests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "prreport_report_requests_total",
	Help: "Report requests served over HTTP, by status code and error kind.",
}, []string{"code", "kind"})

// reporter is the part of report.Service the HTTP surface needs.
type reporter interface {
	ForURL(ctx context.Context, rawURL string) (*report.Report, error)
}

func newServeCmd() *cobra.Command {
	var corpusFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reports over HTTP at GET /?url=<pull-request-url>",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(ctx)
			if err != nil {
				return usageError{fmt.Errorf("processing config: %w", err)}
			}
			c, err := newComponents(ctx, cfg, corpusFile)
			if err != nil {
				return err
			}
			defer c.Close()

			app := newApp(ctx, c.service)
			go func() {
				<-ctx.Done()
				if err := app.ShutdownWithContext(context.WithoutCancel(ctx)); err != nil {
					clog.ErrorContextf(ctx, "shutting down: %v", err)
				}
			}()

			clog.InfoContextf(ctx, "Serving reports on port %d", cfg.Port)
			return app.Listen(fmt.Sprintf(":%d", cfg.Port))
		},
	}
	cmd.Flags().StringVar(&corpusFile, "corpus", "", "Index this Markdown file in memory instead of using DATABASE_URL")
	return cmd
}

func newApp(ctx context.Context, svc reporter) *fiber.App {
	log := clog.FromContext(ctx)
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(otelfiber.Middleware())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/", func(c *fiber.Ctx) error {
		raw := c.Query("url")
		if raw == "" {
			requests.WithLabelValues("422", report.KindInvalidReference).Inc()
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "missing url query parameter",
				"kind":  report.KindInvalidReference,
			})
		}

		rctx := clog.WithLogger(c.UserContext(), log.With("url", raw))
		r, err := svc.ForURL(rctx, raw)
		if err != nil {
			code := statusFor(err)
			kind := report.Classify(err)
			requests.WithLabelValues(fmt.Sprint(code), kind).Inc()
			if code >= fiber.StatusInternalServerError {
				clog.FromContext(rctx).With("kind", kind).Error("Error while generating report", "error", err)
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
				"kind":  kind,
			})
		}
		requests.WithLabelValues("200", "").Inc()
		return c.JSON(r)
	})
	return app
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, pullrequest.ErrInvalidReference):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, pullrequest.ErrUpstreamFetch):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
