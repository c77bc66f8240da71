// Package productclient 是 sales-service 访问 product-service 的 HTTP 客户端
package productclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"shop-microservices/internal/domain"
	"shop-microservices/internal/dto"
)

const headerRequestID = "X-Request-ID"

type ctxKey struct{}

// WithRequestID 让下游请求沿用同一个 request id
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxKey{}, rid)
}

type Options struct {
	BaseURL          string
	Timeout          time.Duration
	FailureThreshold uint32        // 连续失败多少次熔断，默认 5
	OpenTimeout      time.Duration // 熔断后多久半开，默认 30s
}

type Client struct {
	http *resty.Client
	cb   *gobreaker.CircuitBreaker
	log  *zap.Logger
}

func New(o Options, l *zap.Logger) *Client {
	if o.Timeout <= 0 {
		o.Timeout = 3 * time.Second
	}
	if o.FailureThreshold == 0 {
		o.FailureThreshold = 5
	}
	if o.OpenTimeout <= 0 {
		o.OpenTimeout = 30 * time.Second
	}

	rc := resty.New().
		SetBaseURL(strings.TrimRight(o.BaseURL, "/")).
		SetTimeout(o.Timeout).
		SetHeader("Accept", "application/json").
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			if rid, ok := r.Context().Value(ctxKey{}).(string); ok && rid != "" {
				r.SetHeader(headerRequestID, rid)
			}
			return nil
		})

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "product-service",
		MaxRequests: 1,
		Timeout:     o.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= o.FailureThreshold
		},
		// 404 是正常业务结果，不计入失败
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			l.Warn("circuit breaker state changed",
				zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})

	return &Client{http: rc, cb: cb, log: l}
}

// GetProduct 404 返回 domain.NotFound，其余失败（含熔断）包装 domain.ErrUpstream
func (c *Client) GetProduct(ctx context.Context, id int64) (*dto.ProductSummary, error) {
	v, err := c.cb.Execute(func() (any, error) {
		var out dto.ProductSummary
		res, err := c.http.R().
			SetContext(ctx).
			SetPathParam("id", strconv.FormatInt(id, 10)).
			SetResult(&out).
			Get("/products/{id}")
		if err != nil {
			return nil, fmt.Errorf("get product %d: %w: %v", id, domain.ErrUpstream, err)
		}
		switch {
		case res.StatusCode() == http.StatusNotFound:
			return nil, domain.NotFound("Product", id)
		case res.IsError():
			return nil, fmt.Errorf("get product %d: %w: status %d", id, domain.ErrUpstream, res.StatusCode())
		}
		return &out, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("get product %d: %w: %v", id, domain.ErrUpstream, err)
		}
		if errors.Is(err, domain.ErrUpstream) {
			c.log.Warn("product-service call failed", zap.Int64("product_id", id), zap.Error(err))
		}
		return nil, err
	}
	return v.(*dto.ProductSummary), nil
}
