package utils

import (
	"log"
	"time"

	"github.com/go-resty/resty/v2"

	"lms/config"
)

// NotifyEvent posts a platform event to the configured webhook endpoint.
// A no-op when WEBHOOK_URL is not set.
func NotifyEvent(event string, payload map[string]interface{}) {
	url := config.AppConfig.WebhookURL
	if url == "" {
		return
	}

	client := resty.New().SetTimeout(10 * time.Second)
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"event":       event,
			"occurred_at": time.Now().UTC(),
			"data":        payload,
		}).
		Post(url)
	if err != nil {
		log.Printf("[WEBHOOK] Failed to deliver %s event: %v", event, err)
		return
	}
	if resp.StatusCode() >= 300 {
		log.Printf("[WEBHOOK] Endpoint returned %d for %s event", resp.StatusCode(), event)
	}
}
