package slack

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendSlack_PostsPayload(t *testing.T) {
	var got Payload
	var contentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		contentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient(WithRateLimit(0))
	when := time.Date(2025, 1, 5, 15, 4, 5, 0, time.UTC)

	require.NoError(t, client.SendSlack(context.Background(), server.URL, "Deploy", "Release at 3pm", when))

	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "Deploy", got.Text)
	require.Len(t, got.Blocks, 1)
	assert.Equal(t, "section", got.Blocks[0].Type)
	require.NotNil(t, got.Blocks[0].Text)
	assert.Equal(t, "mrkdwn", got.Blocks[0].Text.Type)
	assert.Equal(t, "*Deploy*\n\nRelease at 3pm\n\n일시: 2025. 1. 5. 오후 3:04:05", got.Blocks[0].Text.Text)
}

func TestSendSlack_Non2xxIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_token", http.StatusForbidden)
	}))
	defer server.Close()

	err := NewClient(WithRateLimit(0)).SendSlack(context.Background(), server.URL, "t", "m", time.Now())
	require.Error(t, err)

	var webhookErr *WebhookError
	require.True(t, errors.As(err, &webhookErr))
	assert.Equal(t, http.StatusForbidden, webhookErr.StatusCode)
	assert.True(t, strings.Contains(webhookErr.Body, "invalid_token"))
}

func TestSendSlack_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(WithRateLimit(0), WithTimeout(20*time.Millisecond))
	assert.Error(t, client.SendSlack(context.Background(), server.URL, "t", "m", time.Now()))
}

func TestSendSlack_EmptyURL(t *testing.T) {
	assert.Error(t, NewClient().SendSlack(context.Background(), "", "t", "m", time.Now()))
}
