package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"hotel-broker/internal/domain/booking"
	"hotel-broker/internal/infra"
	"hotel-broker/internal/pkg/config"
	"hotel-broker/internal/pkg/errs"
	"hotel-broker/internal/usecase/commands"
)

const (
	pathPrebook      = "/hotel/prebook"
	pathBookingForm  = "/hotel/order/booking/form"
	pathFinish       = "/hotel/order/booking/finish"
	pathFinishStatus = "/hotel/order/booking/finish/status"

	slugNoAvailableRates = "no_available_rates"
)

// Doer is the outbound transport. Injectable; the shared client pool
// must be safe for concurrent use.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the typed step client for the upstream inventory/booking
// API. Each step runs through the retry executor with its own timeout;
// the submit step carries a reduced retry budget because a blind retry
// of a non-idempotent submit could create duplicate reservations.
type Client struct {
	http    Doer
	baseURL string
	keyID   string
	apiKey  string
	exec    *infra.Executor
	logger  *slog.Logger

	lockTimeout   time.Duration
	formTimeout   time.Duration
	submitTimeout time.Duration
	statusTimeout time.Duration

	readRetry   infra.RetryConfig
	submitRetry infra.RetryConfig
}

var _ commands.ReservationSteps = (*Client)(nil)

func NewClient(cfg config.UpstreamConfig, bcfg config.BookingConfig, doer Doer, exec *infra.Executor, logger *slog.Logger) *Client {
	return &Client{
		http:          doer,
		baseURL:       cfg.BaseURL,
		keyID:         cfg.KeyID,
		apiKey:        cfg.APIKey,
		exec:          exec,
		logger:        logger,
		lockTimeout:   cfg.LockTimeout,
		formTimeout:   cfg.FormTimeout,
		submitTimeout: cfg.SubmitTimeout,
		statusTimeout: cfg.StatusTimeout,
		readRetry: infra.RetryConfig{
			MaxRetries:   bcfg.MaxRetries,
			InitialDelay: bcfg.InitialDelay,
			MaxDelay:     bcfg.MaxDelay,
		},
		submitRetry: infra.RetryConfig{
			MaxRetries:   bcfg.SubmitMaxRetries,
			InitialDelay: bcfg.InitialDelay,
			MaxDelay:     bcfg.MaxDelay,
		},
	}
}

func (c *Client) LockRate(ctx context.Context, ref booking.RateReference, guests booking.GuestComposition, residency booking.Residency, tolerance booking.Tolerance) (*commands.LockResult, error) {
	cfg := c.readRetry
	cfg.Label = "lock_rate"

	payload := prebookRequest{
		Hash:                 ref.String(),
		Guests:               guestPayload{Adults: guests.Adults(), Children: guests.ChildAges()},
		Residency:            residency.String(),
		PriceIncreasePercent: tolerance.Percent(),
	}

	data, err := infra.Do(ctx, c.exec, cfg, func(ctx context.Context) (*prebookData, error) {
		ctx, cancel := context.WithTimeout(ctx, c.lockTimeout)
		defer cancel()

		var out prebookData
		if err := c.post(ctx, pathPrebook, payload, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		return nil, err
	}

	result := &commands.LockResult{
		Token:        booking.RateLockToken(data.Hash),
		PriceChanged: data.PriceChanged,
		Options:      make([]booking.PriceOption, len(data.PaymentOptions)),
	}
	for i, opt := range data.PaymentOptions {
		result.Options[i] = booking.PriceOption{
			Quoted: booking.Price{Amount: opt.Original.Amount, Currency: opt.Original.Currency},
			Locked: booking.Price{Amount: opt.Current.Amount, Currency: opt.Current.Currency},
		}
	}
	return result, nil
}

func (c *Client) CollectRequiredFields(ctx context.Context, token booking.RateLockToken, partnerKey booking.IdempotencyKey) (*commands.FormResult, error) {
	cfg := c.readRetry
	cfg.Label = "collect_required_fields"

	payload := bookingFormRequest{
		Hash:           token.String(),
		PartnerOrderID: partnerKey.String(),
	}

	data, err := infra.Do(ctx, c.exec, cfg, func(ctx context.Context) (*bookingFormData, error) {
		ctx, cancel := context.WithTimeout(ctx, c.formTimeout)
		defer cancel()

		var out bookingFormData
		if err := c.post(ctx, pathBookingForm, payload, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		return nil, err
	}

	return &commands.FormResult{
		OrderID: data.OrderID,
		ItemID:  data.ItemID,
		Schema:  data.Form,
	}, nil
}

func (c *Client) Submit(ctx context.Context, params commands.SubmitParams) error {
	cfg := c.submitRetry
	cfg.Label = "submit"

	payload := finishRequest{
		OrderID:        params.OrderID,
		ItemID:         params.ItemID,
		PartnerOrderID: params.PartnerKey.String(),
		PaymentType:    params.Payment.String(),
		Guests:         guestPayload{Adults: params.Guests.Adults(), Children: params.Guests.ChildAges()},
		User:           contactPayload{Email: params.Contact.Email(), Phone: params.Contact.Phone()},
	}

	_, err := infra.Do(ctx, c.exec, cfg, func(ctx context.Context) (struct{}, error) {
		ctx, cancel := context.WithTimeout(ctx, c.submitTimeout)
		defer cancel()

		// Submission only confirms acceptance for async processing; the
		// envelope carries no data worth decoding.
		return struct{}{}, c.post(ctx, pathFinish, payload, nil)
	})
	return err
}

func (c *Client) PollStatus(ctx context.Context, orderID string) (commands.OrderStatus, error) {
	cfg := c.readRetry
	cfg.Label = "poll_status"

	data, err := infra.Do(ctx, c.exec, cfg, func(ctx context.Context) (*finishStatusData, error) {
		ctx, cancel := context.WithTimeout(ctx, c.statusTimeout)
		defer cancel()

		var out finishStatusData
		if err := c.post(ctx, pathFinishStatus, finishStatusRequest{OrderID: orderID}, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		return "", err
	}

	switch commands.OrderStatus(data.Status) {
	case commands.OrderProcessing, commands.OrderConfirmed, commands.OrderFailed:
		return commands.OrderStatus(data.Status), nil
	}
	return "", errs.New("unexpected upstream order status: " + data.Status)
}

// post performs one upstream call and decodes the envelope. Non-2xx
// responses come back as *infra.StatusError for classification; the
// no-available-rates slug maps to its sentinel.
func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errs.Wrap(err, "failed to encode upstream request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return errs.Wrap(err, "failed to build upstream request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	var env envelope
	slug := ""
	if jsonErr := json.Unmarshal(raw, &env); jsonErr == nil {
		slug = env.Error
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if slug == slugNoAvailableRates {
			return errs.Wrap(infra.ErrNoAvailableRates, path)
		}
		return &infra.StatusError{Code: resp.StatusCode, Slug: slug, Body: string(raw)}
	}

	if env.Status == "error" {
		// Some upstream errors arrive with a 200 envelope.
		if slug == slugNoAvailableRates {
			return errs.Wrap(infra.ErrNoAvailableRates, path)
		}
		return &infra.StatusError{Code: resp.StatusCode, Slug: slug, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errs.Wrap(err, "failed to decode upstream response")
	}
	return nil
}
