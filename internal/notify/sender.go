package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Aditya-k24/AlgoPulse/internal/logger"
)

// Sender is the delivery boundary for due reminders. Delivery is
// best-effort; a failed send is logged by the dispatch job and the
// reminder is not retried.
type Sender interface {
	Send(ctx context.Context, s Scheduled) error
}

// LogSender writes reminders to the log. Default when no webhook is
// configured; useful in development and tests.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(ctx context.Context, sch Scheduled) error {
	log := logger.FromContext(ctx).WithPrefix("notify")
	log.Info("reminder due: tag=%s, title=%q, body=%q", sch.Tag, sch.Payload.Title, sch.Payload.Body)
	return nil
}

// WebhookSender posts due reminders as JSON to a configured endpoint,
// where a push gateway forwards them to the device.
type WebhookSender struct {
	url        string
	httpClient *http.Client
	log        *logger.Logger
}

func NewWebhookSender(url string) *WebhookSender {
	return &WebhookSender{
		url:        url,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        logger.Default().WithPrefix("notify"),
	}
}

func (s *WebhookSender) Send(ctx context.Context, sch Scheduled) error {
	log := logger.FromContext(ctx).WithPrefix("notify").WithField("tag", sch.Tag)

	body, err := json.Marshal(sch)
	if err != nil {
		return err
	}

	log.Debug("posting reminder to webhook")
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		log.Error("failed to create request: %v", err)
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Error("failed to post reminder: %v", err)
		return err
	}
	defer resp.Body.Close()

	log.Debug("webhook response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("webhook request failed: status=%d, body=%s", resp.StatusCode, string(respBody))
		return fmt.Errorf("webhook status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
