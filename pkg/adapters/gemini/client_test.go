package gemini

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/ticketchat/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Hello "},{"text":"there"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	c, err := New("secret", WithBaseURL(srv.URL), WithModel("gemini-test"))
	require.NoError(t, err)
	assert.Equal(t, "models/gemini-test", c.Model())

	reply, err := c.Generate(t.Context(), []domain.Message{
		domain.HumanMessage("hi"),
		domain.AssistantMessage("hello"),
		domain.HumanMessage("  "),
		domain.HumanMessage("how are you"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AssistantMessage("Hello there"), reply)

	require.Len(t, got.Contents, 3)
	assert.Equal(t, "user", got.Contents[0].Role)
	assert.Equal(t, "model", got.Contents[1].Role)
	assert.Equal(t, "how are you", got.Contents[2].Parts[0].Text)
	assert.Equal(t, 0.7, got.GenerationConfig.Temperature)
	assert.Equal(t, 40, got.GenerationConfig.TopK)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		empty  bool
	}{
		{name: "HTTP error", status: http.StatusTooManyRequests, body: `{"error":{"message":"quota"}}`},
		{name: "Blocked", status: http.StatusOK, body: `{"promptFeedback":{"blockReason":"SAFETY"}}`},
		{name: "No candidates", status: http.StatusOK, body: `{"candidates":[]}`, empty: true},
		{name: "Malformed", status: http.StatusOK, body: `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, err := New("k", WithBaseURL(srv.URL))
			require.NoError(t, err)

			_, err = c.Generate(t.Context(), []domain.Message{domain.HumanMessage("hi")})
			require.Error(t, err)
			if tt.empty {
				assert.ErrorIs(t, err, domain.ErrEmptyReply)
			}
		})
	}
}

func TestGenerate_NothingToSend(t *testing.T) {
	c, err := New("k", WithBaseURL("http://127.0.0.1:0"))
	require.NoError(t, err)

	_, err = c.Generate(t.Context(), []domain.Message{domain.HumanMessage("")})
	assert.Error(t, err)
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}
