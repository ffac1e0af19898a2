package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultExpoPushURL is Expo's push gateway.
const DefaultExpoPushURL = "https://exp.host/--/api/v2/push/send"

// ExpoSender posts push messages to the Expo push API.
type ExpoSender struct {
	url    string
	client *http.Client
}

func NewExpoSender(url string) *ExpoSender {
	if url == "" {
		url = DefaultExpoPushURL
	}
	return &ExpoSender{url: url, client: &http.Client{Timeout: 10 * time.Second}}
}

type expoPushRequest struct {
	To    string `json:"to"`
	Title string `json:"title"`
	Body  string `json:"body"`
	Sound string `json:"sound"`
}

// Send delivers one push message. Non-2xx responses are returned as errors so
// the caller can log them.
func (e *ExpoSender) Send(ctx context.Context, token, title, body string) error {
	payload, err := json.Marshal(expoPushRequest{To: token, Title: title, Body: body, Sound: "default"})
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("push gateway returned %d: %s", resp.StatusCode, snippet)
	}
	return nil
}
