package sendgrid

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/microcourse/internal/config"
)

func TestMailer_Send(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "accepted", status: http.StatusAccepted},
		{name: "rejected", status: http.StatusUnauthorized, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/v3/mail/send", r.URL.Path)
				assert.Equal(t, "Bearer sg-key", r.Header.Get("Authorization"))

				var body struct {
					From struct {
						Name  string `json:"name"`
						Email string `json:"email"`
					} `json:"from"`
					Personalizations []struct {
						To []struct {
							Email string `json:"email"`
						} `json:"to"`
						Subject string `json:"subject"`
					} `json:"personalizations"`
					Content []struct {
						Type  string `json:"type"`
						Value string `json:"value"`
					} `json:"content"`
				}
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "noreply@example.com", body.From.Email)
				require.Len(t, body.Personalizations, 1)
				assert.Equal(t, "[Microcourse] Welcome", body.Personalizations[0].Subject)
				assert.Equal(t, "new.admin@example.com", body.Personalizations[0].To[0].Email)
				require.Len(t, body.Content, 1)
				assert.Equal(t, "Your account is ready.", body.Content[0].Value)

				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			mailer := NewMailer(config.SendGridConfig{APIKey: "sg-key", FromName: "Microcourse", FromEmail: "noreply@example.com"})
			mailer.host = server.URL

			err := mailer.Send(context.Background(), Message{
				ToName:  "New Admin",
				ToEmail: "new.admin@example.com",
				Subject: "Welcome",
				Body:    "Your account is ready.",
			})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
