package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers request-level Prometheus metrics for the demo server.
type Collector struct {
	registry   *prometheus.Registry
	httpStatus *prometheus.CounterVec
	latency    prometheus.Histogram
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gatekitd_http_status_total",
			Help: "Responses by HTTP status code.",
		}, []string{"status_code"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gatekitd_request_latency_seconds",
			Help:    "Request handling latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	c.registry.MustRegister(c.httpStatus, c.latency)
	return c
}

// Middleware records status and latency for every request.
func (c *Collector) Middleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if err != nil {
			status = http.StatusInternalServerError
		}
		c.httpStatus.WithLabelValues(strconv.Itoa(status)).Inc()
		c.latency.Observe(time.Since(start).Seconds())

		return err
	}
}

// Handler exposes the registry in Prometheus text format.
func (c *Collector) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
}
