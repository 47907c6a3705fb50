package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pricetrack/internal/catalog"
)

// Event is a freshly stored alert with display names resolved.
type Event struct {
	Alert        catalog.Alert
	ProductName  string
	SupplierName string
}

// Notifier delivers alert events to an external channel.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// TelegramNotifier pushes alerts through the Telegram Bot API.
type TelegramNotifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
	logger   zerolog.Logger
}

// NewTelegramNotifier builds a Telegram notifier.
func NewTelegramNotifier(botToken, chatID, baseURL string, timeout time.Duration, logger zerolog.Logger) *TelegramNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With().Str("component", "alert_telegram").Logger(),
	}
}

// Notify calls sendMessage with the rendered alert.
func (n *TelegramNotifier) Notify(ctx context.Context, event Event) error {
	payload := map[string]string{
		"chat_id": n.chatID,
		"text":    RenderMessage(event),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram status %d", resp.StatusCode)
	}

	var result struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil && !result.OK {
		return fmt.Errorf("telegram returned ok=false")
	}

	n.logger.Info().Str("alert_id", event.Alert.ID).
		Str("type", string(event.Alert.Type)).
		Msg("alert sent (telegram)")
	return nil
}

// RenderMessage formats an alert as plain text.
func RenderMessage(event Event) string {
	a := event.Alert
	builder := strings.Builder{}
	builder.WriteString("[PriceTrack Alert]\n")
	builder.WriteString(fmt.Sprintf("Product: %s\n", nameOr(event.ProductName, a.ProductID)))
	builder.WriteString(fmt.Sprintf("Supplier: %s\n", nameOr(event.SupplierName, a.SupplierID)))

	switch {
	case a.OldPrice != nil && a.NewPrice != nil:
		direction := "increased"
		if a.Type == catalog.AlertPriceDrop {
			direction = "dropped"
		}
		builder.WriteString(fmt.Sprintf("Price %s: %s -> %s", direction, a.OldPrice.StringFixed(2), a.NewPrice.StringFixed(2)))
		if pct, ok := ChangePct(*a.OldPrice, *a.NewPrice); ok {
			builder.WriteString(fmt.Sprintf(" (%s%%)", pct.StringFixed(2)))
		}
		builder.WriteString("\n")
	case a.BestPrice != nil && a.Savings != nil:
		builder.WriteString(fmt.Sprintf("New best price: %s (saves %s)\n", a.BestPrice.StringFixed(2), a.Savings.StringFixed(2)))
	}
	builder.WriteString(fmt.Sprintf("Date: %s\n", a.Date))
	return builder.String()
}

func nameOr(name, id string) string {
	if name == "" {
		return id
	}
	return name
}

var _ Notifier = (*TelegramNotifier)(nil)
