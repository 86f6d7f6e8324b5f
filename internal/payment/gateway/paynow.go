// Package gateway talks to the hosted payment page provider. Requests and
// callbacks are form encoded and carry a SHA-512 integrity hash keyed by the
// integration key.
package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"agentreg/internal/payment/models"
	dErrors "agentreg/pkg/domain-errors"
	"agentreg/pkg/platform/circuit"
)

const maxResponseBytes = 64 << 10

// Config identifies the merchant integration.
type Config struct {
	InitiateURL    string
	IntegrationID  string
	IntegrationKey string
	ReturnURL      string
	ResultURL      string
	Timeout        time.Duration
}

// InitiateRequest describes one hosted payment.
type InitiateRequest struct {
	Reference   string
	Amount      decimal.Decimal
	Description string
	Email       string
}

// Initiation is where to send the payer and where to poll for status.
type Initiation struct {
	RedirectURL string
	PollURL     string
}

// Notification is a verified status callback.
type Notification struct {
	Reference        string
	GatewayReference string
	Amount           decimal.Decimal
	Status           models.Status
	PollURL          string
}

// Paynow is the hosted payment gateway client. Outbound calls go through a
// circuit breaker; while it is open, initiation fails fast as unavailable.
type Paynow struct {
	cfg     Config
	client  *http.Client
	breaker *circuit.Breaker
	logger  *slog.Logger
}

type Option func(*Paynow)

func WithHTTPClient(c *http.Client) Option {
	return func(p *Paynow) {
		p.client = c
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(p *Paynow) {
		p.breaker = b
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Paynow) {
		p.logger = logger
	}
}

func NewPaynow(cfg Config, opts ...Option) *Paynow {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	p := &Paynow{
		cfg:     cfg,
		client:  &http.Client{Timeout: timeout},
		breaker: circuit.New("payment-gateway"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Configured reports whether merchant credentials are present.
func (p *Paynow) Configured() bool {
	return p.cfg.IntegrationID != "" && p.cfg.IntegrationKey != ""
}

// Initiate registers the transaction and returns the hosted page URL.
func (p *Paynow) Initiate(ctx context.Context, req InitiateRequest) (*Initiation, error) {
	if !p.Configured() {
		return nil, dErrors.New(dErrors.CodeUnavailable, "online payment is not configured")
	}
	if !p.breaker.Allow() {
		return nil, dErrors.New(dErrors.CodeUnavailable, "payment gateway is temporarily unavailable")
	}

	fields := Sign(Fields{
		{Key: "id", Value: p.cfg.IntegrationID},
		{Key: "reference", Value: req.Reference},
		{Key: "amount", Value: req.Amount.StringFixed(2)},
		{Key: "additionalinfo", Value: req.Description},
		{Key: "returnurl", Value: p.cfg.ReturnURL},
		{Key: "resulturl", Value: p.cfg.ResultURL},
		{Key: "authemail", Value: req.Email},
		{Key: "status", Value: "Message"},
	}, p.cfg.IntegrationKey)

	resp, err := p.post(ctx, fields)
	if err != nil {
		p.recordFailure(ctx, err)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "payment gateway is unreachable")
	}
	p.recordSuccess(ctx)

	switch strings.ToLower(resp.Get("status")) {
	case "ok":
	case "error":
		return nil, dErrors.New(dErrors.CodeUnavailable, "payment gateway refused the transaction").
			WithDetails(map[string]any{"gateway_error": resp.Get("error")})
	default:
		return nil, dErrors.New(dErrors.CodeUnavailable, "unexpected payment gateway response")
	}
	if !VerifyHash(resp, p.cfg.IntegrationKey) {
		return nil, dErrors.New(dErrors.CodeUnavailable, "payment gateway response failed integrity check")
	}
	return &Initiation{
		RedirectURL: resp.Get("browserurl"),
		PollURL:     resp.Get("pollurl"),
	}, nil
}

// ParseCallback decodes and verifies a status callback body.
func (p *Paynow) ParseCallback(body []byte) (*Notification, error) {
	fields, err := ParseFields(string(body))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed callback body")
	}
	if !VerifyHash(fields, p.cfg.IntegrationKey) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "callback integrity check failed")
	}

	reference := strings.TrimSpace(fields.Get("reference"))
	if reference == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "callback has no reference")
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(fields.Get("amount")))
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "callback amount is not a number")
	}
	return &Notification{
		Reference:        reference,
		GatewayReference: fields.Get("paynowreference"),
		Amount:           amount,
		Status:           models.ParseStatus(fields.Get("status")),
		PollURL:          fields.Get("pollurl"),
	}, nil
}

func (p *Paynow) post(ctx context.Context, fields Fields) (Fields, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.InitiateURL, bytes.NewBufferString(fields.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("gateway returned %d", httpResp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read gateway response: %w", err)
	}
	return ParseFields(string(raw))
}

func (p *Paynow) recordFailure(ctx context.Context, err error) {
	_, change := p.breaker.RecordFailure()
	if change.Opened && p.logger != nil {
		p.logger.WarnContext(ctx, "payment gateway circuit opened",
			"breaker", p.breaker.Name(),
			"error", err,
		)
	}
}

func (p *Paynow) recordSuccess(ctx context.Context) {
	_, change := p.breaker.RecordSuccess()
	if change.Closed && p.logger != nil {
		p.logger.InfoContext(ctx, "payment gateway circuit closed", "breaker", p.breaker.Name())
	}
}
