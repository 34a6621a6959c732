package adapter_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/faro/pkg/adapter"
	"github.com/m-mizutani/faro/pkg/model"
	"github.com/m-mizutani/gt"
)

func TestCompleteRelaysRawBody(t *testing.T) {
	const upstream = `{"id":"gen-1","choices":[{"message":{"role":"assistant","content":"See [article:P1:D1]."}}]}`

	var gotPath, gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		raw, err := io.ReadAll(r.Body)
		gt.NoError(t, err)
		gt.NoError(t, json.Unmarshal(raw, &gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(upstream))
	}))
	defer server.Close()

	client := adapter.NewCompletion("test-key",
		adapter.WithBaseURL(server.URL),
		adapter.WithModel("openai/gpt-4o-mini"),
	)

	raw, err := client.Complete(context.Background(), "directive text", []model.Message{
		{Role: model.RoleUser, Content: "hello"},
	})
	gt.NoError(t, err)

	// The upstream body passes through byte for byte
	gt.Equal(t, string(raw), upstream)

	gt.Equal(t, gotPath, "/chat/completions")
	gt.Equal(t, gotAuth, "Bearer test-key")
	gt.Equal(t, gotBody["model"], "openai/gpt-4o-mini")

	// The directive is prepended as the system message
	messages := gotBody["messages"].([]any)
	gt.Equal(t, len(messages), 2)
	first := messages[0].(map[string]any)
	gt.Equal(t, first["role"], "system")
	gt.Equal(t, first["content"], "directive text")
}

func TestCompleteStatusTaxonomy(t *testing.T) {
	testCases := map[string]struct {
		status int
		want   error
	}{
		"unauthorized":    {status: http.StatusUnauthorized, want: adapter.ErrNoCredential},
		"rate limited":    {status: http.StatusTooManyRequests, want: adapter.ErrRateLimited},
		"quota exhausted": {status: http.StatusPaymentRequired, want: adapter.ErrQuotaExhausted},
		"server error":    {status: http.StatusInternalServerError, want: adapter.ErrUpstream},
		"bad request":     {status: http.StatusBadRequest, want: adapter.ErrUpstream},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(`{"error":"nope"}`))
			}))
			defer server.Close()

			client := adapter.NewCompletion("test-key", adapter.WithBaseURL(server.URL))
			_, err := client.Complete(context.Background(), "sys", nil)
			gt.Error(t, err)
			gt.True(t, errors.Is(err, tc.want))
		})
	}
}

func TestCompleteNoCredential(t *testing.T) {
	// The server must never be reached without a key
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	}))
	defer server.Close()

	client := adapter.NewCompletion("", adapter.WithBaseURL(server.URL))
	_, err := client.Complete(context.Background(), "sys", nil)
	gt.True(t, errors.Is(err, adapter.ErrNoCredential))
}

func TestExtractText(t *testing.T) {
	raw := json.RawMessage(`{"choices":[{"message":{"role":"assistant","content":"hello there"}}]}`)
	text, err := adapter.ExtractText(raw)
	gt.NoError(t, err)
	gt.Equal(t, text, "hello there")
}

func TestExtractTextNoChoices(t *testing.T) {
	_, err := adapter.ExtractText(json.RawMessage(`{"choices":[]}`))
	gt.Error(t, err)

	_, err = adapter.ExtractText(json.RawMessage(`not json`))
	gt.Error(t, err)
}
