package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/guestlist-api/internal/domain/event"
	"github.com/gravadigital/guestlist-api/internal/logger"
)

// WebhookNotifier delivers view payloads to a chat gateway over HTTP.
// POST /views creates a view, PUT /views/{ref} replaces one, DELETE
// /views/{ref} removes one. The gateway assigns the opaque refs.
type WebhookNotifier struct {
	baseURL string
	client  *http.Client
	log     *log.Logger
}

// NewWebhookNotifier creates a notifier against the given gateway base URL.
func NewWebhookNotifier(baseURL string, timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     logger.Notifier(),
	}
}

type createViewRequest struct {
	Target  Target  `json:"target"`
	Payload Payload `json:"payload"`
}

type viewResponse struct {
	Ref string `json:"ref"`
}

func (n *WebhookNotifier) CreateView(ctx context.Context, target Target, payload Payload) (event.ViewRef, error) {
	body, err := json.Marshal(createViewRequest{Target: target, Payload: payload})
	if err != nil {
		return "", fmt.Errorf("failed to encode view payload: %w", err)
	}

	ref, err := n.do(ctx, http.MethodPost, n.baseURL+"/views", body)
	if err != nil {
		return "", fmt.Errorf("failed to create view for %s: %w", target, err)
	}
	return ref, nil
}

func (n *WebhookNotifier) SetView(ctx context.Context, ref event.ViewRef, payload Payload) (event.ViewRef, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode view payload: %w", err)
	}

	newRef, err := n.do(ctx, http.MethodPut, n.viewURL(ref), body)
	if err != nil {
		return "", fmt.Errorf("failed to set view %s: %w", ref, err)
	}
	return newRef, nil
}

func (n *WebhookNotifier) DeleteView(ctx context.Context, ref event.ViewRef) error {
	if _, err := n.do(ctx, http.MethodDelete, n.viewURL(ref), nil); err != nil {
		return fmt.Errorf("failed to delete view %s: %w", ref, err)
	}
	return nil
}

func (n *WebhookNotifier) viewURL(ref event.ViewRef) string {
	return n.baseURL + "/views/" + url.PathEscape(string(ref))
}

func (n *WebhookNotifier) do(ctx context.Context, method, target string, body []byte) (event.ViewRef, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return "", err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.log.Debug("Gateway rejected view operation",
			"method", method, "url", target, "status", resp.StatusCode)
		return "", fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	if method == http.MethodDelete {
		return "", nil
	}

	var vr viewResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return "", fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return event.ViewRef(vr.Ref), nil
}
