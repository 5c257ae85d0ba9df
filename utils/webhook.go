package utils

import (
	"aula/config"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

// CompletionEvent is the payload posted to the external dashboard when a
// student completes a module.
type CompletionEvent struct {
	UserID   uint      `json:"user_id"`
	CourseID uint      `json:"course_id"`
	ModuleID uint      `json:"module_id"`
	Score    float64   `json:"score"`
	At       time.Time `json:"at"`
}

// NotifyModuleCompleted posts the completion event to the configured webhook
// URL. Best-effort: failures are logged and never affect the grading path.
// Callers run it in a goroutine.
func NotifyModuleCompleted(event CompletionEvent) {
	url := config.AppConfig.CompletionWebhookURL
	if url == "" {
		return
	}

	client := resty.New().SetTimeout(5 * time.Second)
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post(url)
	if err != nil {
		log.Printf("webhook: failed to post completion event: %v", err)
		return
	}
	if resp.StatusCode() >= 300 {
		log.Printf("webhook: completion event rejected with status %d", resp.StatusCode())
	}
}
