// Package whatsapp sends enrollment notices as WhatsApp Cloud API template messages.
package whatsapp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/at-ishikawa/microcourse/internal/config"
)

type Client struct {
	httpClient        *resty.Client
	phoneNumberID     string
	languageCode      string
	assignedTemplate  string
	suspendedTemplate string
	maxRetryAttempts  uint
}

func NewClient(cfg config.WhatsAppConfig) *Client {
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetHeader("Authorization", "Bearer "+cfg.AccessToken)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient:        client,
		phoneNumberID:     cfg.PhoneNumberID,
		languageCode:      cfg.LanguageCode,
		assignedTemplate:  cfg.AssignedTemplate,
		suspendedTemplate: cfg.SuspendTemplate,
		maxRetryAttempts:  cfg.MaxRetryAttempts,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

type MessageRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Template         Template `json:"template"`
}

type Template struct {
	Name       string      `json:"name"`
	Language   Language    `json:"language"`
	Components []Component `json:"components,omitempty"`
}

type Language struct {
	Code string `json:"code"`
}

type Component struct {
	Type       string      `json:"type"`
	Parameters []Parameter `json:"parameters"`
}

type Parameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type MessageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// NotifyAssigned implements the notification.Dispatcher interface
func (client *Client) NotifyAssigned(ctx context.Context, learnerName, courseName, phone string) error {
	return client.sendTemplate(ctx, client.assignedTemplate, phone, learnerName, courseName)
}

// NotifySuspended implements the notification.Dispatcher interface
func (client *Client) NotifySuspended(ctx context.Context, learnerName, courseName, phone string) error {
	return client.sendTemplate(ctx, client.suspendedTemplate, phone, learnerName, courseName)
}

func (client *Client) sendTemplate(ctx context.Context, template, phone string, params ...string) error {
	body := MessageRequest{
		MessagingProduct: "whatsapp",
		// The Cloud API takes the number without the leading +.
		To:   strings.TrimPrefix(phone, "+"),
		Type: "template",
		Template: Template{
			Name:     template,
			Language: Language{Code: client.languageCode},
		},
	}
	if len(params) > 0 {
		component := Component{Type: "body"}
		for _, p := range params {
			component.Parameters = append(component.Parameters, Parameter{Type: "text", Text: p})
		}
		body.Template.Components = []Component{component}
	}

	return retry.Do(
		func() error {
			messageID, err := client.send(ctx, body)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			slog.Default().Debug("whatsapp message sent",
				"template", template,
				"phone", phone,
				"messageID", messageID,
			)
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

func (client *Client) send(ctx context.Context, body MessageRequest) (string, error) {
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&MessageResponse{}).
		Post("/" + client.phoneNumberID + "/messages")
	if err != nil {
		return "", fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return "", fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	result := response.Result().(*MessageResponse)
	if result == nil || len(result.Messages) == 0 {
		return "", fmt.Errorf("empty messages in response: %s", response.String())
	}
	return result.Messages[0].ID, nil
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// Retry on 5xx errors (server errors)
	if strings.Contains(errStr, "response error 5") {
		return true
	}

	// Retry on rate limiting (429)
	if strings.Contains(errStr, "response error 429") {
		return true
	}

	return false
}
