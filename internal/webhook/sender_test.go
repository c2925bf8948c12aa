package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ronnysenna/envio-massa-sub000/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSender_Send(t *testing.T) {
	var received Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewHTTPSender(config.WebhookConfig{URL: server.URL, Timeout: time.Second})

	err := sender.Send(context.Background(), Message{
		Nome:     "Ana",
		Telefone: "11999990001",
		Mensagem: "Oi!",
		ImageURL: "http://example.com/uploads/img.png",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ana", received.Nome)
	assert.Equal(t, "11999990001", received.Telefone)
	assert.Equal(t, "Oi!", received.Mensagem)
	assert.Equal(t, "http://example.com/uploads/img.png", received.ImageURL)
}

func TestHTTPSender_OmitsEmptyImageURL(t *testing.T) {
	var raw map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewHTTPSender(config.WebhookConfig{URL: server.URL, Timeout: time.Second})
	require.NoError(t, sender.Send(context.Background(), Message{Nome: "Ana", Telefone: "111", Mensagem: "Oi"}))

	_, hasImage := raw["image_url"]
	assert.False(t, hasImage)
}

func TestHTTPSender_NonSuccessStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sender := NewHTTPSender(config.WebhookConfig{URL: server.URL, Timeout: time.Second})

	err := sender.Send(context.Background(), Message{Nome: "Ana", Telefone: "111", Mensagem: "Oi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestHTTPSender_UnreachableEndpoint(t *testing.T) {
	sender := NewHTTPSender(config.WebhookConfig{URL: "http://127.0.0.1:1/webhook", Timeout: time.Second})

	err := sender.Send(context.Background(), Message{Nome: "Ana", Telefone: "111", Mensagem: "Oi"})
	assert.Error(t, err)
}
