package notify

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"favicongen/src/config"
)

// NtfySender sends push notifications via ntfy.sh
type NtfySender struct {
	cfg    config.NtfyConfig
	client *http.Client
	logger *slog.Logger
}

// NtfyMessage represents a ntfy notification
type NtfyMessage struct {
	Title    string
	Message  string
	Tags     []string
	Priority int
}

// NewNtfySender creates a new ntfy sender
func NewNtfySender(cfg config.NtfyConfig, logger *slog.Logger) *NtfySender {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &NtfySender{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// SendSummary reports the outcome of a generation run
func (n *NtfySender) SendSummary(name string, total, failed int) error {
	if !n.cfg.Enabled {
		n.logger.Debug("ntfy notifications disabled")
		return nil
	}

	msg := NtfyMessage{
		Title:    fmt.Sprintf("Favicons generated: %s", name),
		Message:  fmt.Sprintf("%d of %d files written", total-failed, total),
		Tags:     []string{"white_check_mark"},
		Priority: 3,
	}
	if failed > 0 {
		msg.Title = fmt.Sprintf("Favicon generation incomplete: %s", name)
		msg.Message += fmt.Sprintf(", %d failed", failed)
		msg.Tags = []string{"warning"}
		msg.Priority = 4
	}

	return n.send(msg)
}

// send sends a ntfy notification using headers (not JSON body)
func (n *NtfySender) send(msg NtfyMessage) error {
	url := fmt.Sprintf("%s/%s", strings.TrimSuffix(n.cfg.Server, "/"), n.cfg.Topic)

	// Send message as body, metadata as headers
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBufferString(msg.Message))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers according to ntfy documentation
	req.Header.Set("Title", msg.Title)
	req.Header.Set("Priority", strconv.Itoa(msg.Priority))
	if len(msg.Tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.Tags, ","))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ntfy returned status %d", resp.StatusCode)
	}

	n.logger.Debug("📱 ntfy notification sent", "title", msg.Title)
	return nil
}
