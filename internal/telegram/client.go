package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client is a minimal Telegram Bot API client over plain HTTP. A separate
// polling client carries a timeout larger than the long-poll timeout so
// getUpdates calls are not cut short.
type Client struct {
	httpClient *http.Client
	pollClient *http.Client
	baseURL    string
}

// NewClient creates a Bot API client. baseURL is the API host, e.g.
// https://api.telegram.org; tests point it at a local httptest server.
func NewClient(baseURL, token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		// above the 30s long-poll timeout used in GetUpdates
		pollClient: &http.Client{Timeout: 40 * time.Second},
		baseURL:    baseURL + "/bot" + token + "/",
	}
}

// SendMessage sends a text message, optionally with an inline keyboard
func (c *Client) SendMessage(chatID int64, text string, markup *InlineKeyboardMarkup) error {
	payload := sendMessageRequest{ChatID: chatID, Text: text, ReplyMarkup: markup}
	return c.post("sendMessage", payload)
}

// AnswerCallbackQuery acknowledges an inline-keyboard button press
func (c *Client) AnswerCallbackQuery(callbackID string) error {
	return c.post("answerCallbackQuery", answerCallbackRequest{CallbackQueryID: callbackID})
}

// GetUpdates long-polls for inbound updates starting at offset
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeoutSeconds int) ([]Update, error) {
	params := url.Values{}
	params.Set("offset", strconv.FormatInt(offset, 10))
	params.Set("timeout", strconv.Itoa(timeoutSeconds))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"getUpdates?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("telegram: build getUpdates request: %w", err)
	}
	resp, err := c.pollClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram: getUpdates: %w", err)
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("telegram: decode getUpdates response: %w", err)
	}
	if !envelope.OK {
		return nil, fmt.Errorf("telegram: getUpdates rejected: %s", envelope.Description)
	}

	var updates []Update
	if err := json.Unmarshal(envelope.Result, &updates); err != nil {
		return nil, fmt.Errorf("telegram: decode updates: %w", err)
	}
	return updates, nil
}

// post sends a JSON payload to a Bot API method and checks the envelope
func (c *Client) post(method string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: marshal %s payload: %w", method, err)
	}
	resp, err := c.httpClient.Post(c.baseURL+method, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: %s: %w", method, err)
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("telegram: decode %s response: %w", method, err)
	}
	if !envelope.OK {
		return fmt.Errorf("telegram: %s rejected: %s", method, envelope.Description)
	}
	return nil
}
