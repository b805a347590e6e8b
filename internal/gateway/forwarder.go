package gateway

import (
	"errors"
	"net"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/jsancolett-dev/agency-os/internal/config"
	"github.com/jsancolett-dev/agency-os/internal/observability"
)

const (
	unavailableMessage = "dashboard is still starting, retry shortly"
	timeoutMessage     = "dashboard did not answer in time, retry shortly"
	upgradeMessage     = "protocol upgrades are not supported by this gateway; bridge upgraded connections at the outer transport layer"
)

// hop-by-hop and framing headers are never relayed in either direction; the
// outer transport recomputes its own framing.
var hopByHopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Forwarder relays non-webhook traffic to the dashboard process over a
// single shared connection pool. Upgrade requests are refused with 501:
// this gateway buffers request and response whole and cannot splice a
// duplex byte stream.
type Forwarder struct {
	addr    string
	timeout time.Duration
	client  *fasthttp.HostClient
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewForwarder builds a forwarder for the configured dashboard address.
func NewForwarder(cfg config.DashboardConfig, logger *zap.Logger, metrics *observability.Metrics) *Forwarder {
	client := &fasthttp.HostClient{
		Addr:                cfg.Addr,
		MaxConns:            cfg.MaxConns,
		MaxIdleConnDuration: 90 * time.Second,
		ReadTimeout:         cfg.ForwardTimeout(),
		WriteTimeout:        cfg.ForwardTimeout(),
	}
	return &Forwarder{
		addr:    cfg.Addr,
		timeout: cfg.ForwardTimeout(),
		client:  client,
		logger:  logger,
		metrics: metrics,
	}
}

// Handle forwards the request as-is (method, path, query, body, headers
// minus Host and hop-by-hop) and relays the dashboard's status and body.
func (f *Forwarder) Handle(c *fiber.Ctx) error {
	if isUpgradeRequest(c) {
		f.metrics.RecordForward(fiber.StatusNotImplemented)
		return c.Status(fiber.StatusNotImplemented).SendString(upgradeMessage)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	c.Request().CopyTo(req)
	stripHopByHop(&requestHeader{&req.Header})
	req.SetHost(f.addr)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if err := f.client.DoTimeout(req, resp, f.timeout); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			f.logger.Warn("dashboard forward timed out",
				zap.String("path", c.Path()),
				zap.Duration("timeout", f.timeout))
			f.metrics.RecordForward(fiber.StatusGatewayTimeout)
			return c.Status(fiber.StatusGatewayTimeout).SendString(timeoutMessage)
		}
		f.logger.Warn("dashboard unreachable",
			zap.String("path", c.Path()),
			zap.Error(err))
		f.metrics.RecordForward(fiber.StatusServiceUnavailable)
		return c.Status(fiber.StatusServiceUnavailable).SendString(unavailableMessage)
	}

	resp.CopyTo(c.Response())
	stripHopByHop(&responseHeader{&c.Response().Header})
	f.metrics.RecordForward(resp.StatusCode())
	return nil
}

// Reachable reports whether the dashboard process accepts connections.
func (f *Forwarder) Reachable() error {
	conn, err := net.DialTimeout("tcp", f.addr, 2*time.Second)
	if err != nil {
		return err
	}
	return conn.Close()
}

func isUpgradeRequest(c *fiber.Ctx) bool {
	if c.Get(fiber.HeaderUpgrade) != "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Get(fiber.HeaderConnection)), "upgrade")
}

// fasthttp request and response headers do not share a type; these adapters
// give stripHopByHop one Del surface.
type requestHeader struct{ h *fasthttp.RequestHeader }

func (r *requestHeader) Del(key string) { r.h.Del(key) }

type responseHeader struct{ h *fasthttp.ResponseHeader }

func (r *responseHeader) Del(key string) { r.h.Del(key) }

type headerDeleter interface{ Del(key string) }

func stripHopByHop(h headerDeleter) {
	for _, key := range hopByHopHeaders {
		h.Del(key)
	}
}
