package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/microcourse/internal/config"
)

func newTestClient(serverURL string) *Client {
	return NewClient(config.WhatsAppConfig{
		Enabled:          true,
		BaseURL:          serverURL,
		PhoneNumberID:    "10999",
		AccessToken:      "token-1",
		LanguageCode:     "en",
		AssignedTemplate: "course_assigned",
		SuspendTemplate:  "course_suspended",
		MaxRetryAttempts: 1,
	})
}

func TestClient_Notify(t *testing.T) {
	tests := []struct {
		name         string
		call         func(client *Client) error
		wantTemplate string
	}{
		{
			name: "assigned",
			call: func(client *Client) error {
				return client.NotifyAssigned(context.Background(), "Asha", "Savings", "+911234567890")
			},
			wantTemplate: "course_assigned",
		},
		{
			name: "suspended",
			call: func(client *Client) error {
				return client.NotifySuspended(context.Background(), "Asha", "Savings", "+911234567890")
			},
			wantTemplate: "course_suspended",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/10999/messages", r.URL.Path)
				assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))

				var body MessageRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, MessageRequest{
					MessagingProduct: "whatsapp",
					To:               "911234567890",
					Type:             "template",
					Template: Template{
						Name:     tt.wantTemplate,
						Language: Language{Code: "en"},
						Components: []Component{{
							Type: "body",
							Parameters: []Parameter{
								{Type: "text", Text: "Asha"},
								{Type: "text", Text: "Savings"},
							},
						}},
					},
				}, body)

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"messaging_product":"whatsapp","messages":[{"id":"wamid.1"}]}`))
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			defer func() {
				_ = client.Close()
			}()
			assert.NoError(t, tt.call(client))
		})
	}
}

func TestClient_Retry(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []int
		wantCalls  int32
		wantErrMsg string
	}{
		{
			name:      "server error is retried",
			statuses:  []int{http.StatusServiceUnavailable, http.StatusOK},
			wantCalls: 2,
		},
		{
			name:      "rate limit is retried",
			statuses:  []int{http.StatusTooManyRequests, http.StatusOK},
			wantCalls: 2,
		},
		{
			name:       "client error is not retried",
			statuses:   []int{http.StatusBadRequest},
			wantCalls:  1,
			wantErrMsg: "response error 400",
		},
		{
			name:       "attempts are bounded",
			statuses:   []int{http.StatusBadGateway, http.StatusBadGateway, http.StatusOK},
			wantCalls:  2,
			wantErrMsg: "response error 502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := atomic.AddInt32(&calls, 1)
				status := tt.statuses[n-1]
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				if status == http.StatusOK {
					_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
					return
				}
				_, _ = w.Write([]byte(`{"error":{"message":"nope"}}`))
			}))
			defer server.Close()

			err := newTestClient(server.URL).NotifyAssigned(context.Background(), "Asha", "Savings", "+911234567890")
			if tt.wantErrMsg != "" {
				assert.ErrorContains(t, err, tt.wantErrMsg)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestClient_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[]}`))
	}))
	defer server.Close()

	err := newTestClient(server.URL).NotifyAssigned(context.Background(), "Asha", "Savings", "+911234567890")
	assert.ErrorContains(t, err, "empty messages")
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{err: nil, want: false},
		{err: errors.New("httpClient.Post > dial tcp: connection refused"), want: true},
		{err: errors.New("response error 500: oops"), want: true},
		{err: errors.New("response error 429: slow down"), want: true},
		{err: errors.New("response error 401: bad token"), want: false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isRetryableError(tt.err), "%v", tt.err)
	}
}
