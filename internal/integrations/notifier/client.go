package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

const eventsPath = "/internal/events/appointments"

// Client клиент шлюза real-time уведомлений
// С пустым baseURL клиент выключен и ничего не отправляет
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries uint64
	retryDelay time.Duration
	log        Logger
}

// NewClient создает новый экземпляр клиента уведомлений
func NewClient(baseURL string, timeout time.Duration, maxRetries uint64, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: maxRetries,
		retryDelay: 200 * time.Millisecond,
		log:        log,
	}
}

// Enabled true, если адрес шлюза задан
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// Publish отправляет событие в шлюз
// 5xx и сетевые ошибки повторяются до maxRetries раз, 4xx - нет
func (c *Client) Publish(ctx context.Context, event Event) error {
	if !c.Enabled() {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: failed to encode event: %v", ErrInternal, err)
	}

	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewConstant(c.retryDelay))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		return c.send(ctx, body)
	})
}

func (c *Client) send(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+eventsPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return retry.RetryableError(fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 500:
		respBody, _ := io.ReadAll(resp.Body)
		return retry.RetryableError(fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody)))
	default:
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("%w: unexpected status code %d", ErrInvalidResponse, resp.StatusCode)
	}
}

// PublishWithGracefulDegradation отправляет событие, не прерывая основную операцию
// Ошибка доставки логируется и возвращается как ErrServiceDegraded
func (c *Client) PublishWithGracefulDegradation(ctx context.Context, event Event) error {
	if !c.Enabled() {
		return nil
	}

	if err := c.Publish(ctx, event); err != nil {
		c.log.Error("Notifier unavailable, applying graceful degradation for %s appointment_id=%d: %v",
			event.Type, event.AppointmentID, err)
		return fmt.Errorf("%w: appointment_id=%d, error=%v", ErrServiceDegraded, event.AppointmentID, err)
	}

	c.log.Info("Published %s for appointment_id=%d", event.Type, event.AppointmentID)
	return nil
}
