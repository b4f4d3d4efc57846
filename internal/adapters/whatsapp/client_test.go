package whatsapp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eiescz/idiomasbot/internal/adapters/whatsapp"
	"github.com/eiescz/idiomasbot/internal/domain"
	"github.com/eiescz/idiomasbot/internal/logging"
)

type captured struct {
	path    string
	auth    string
	payload map[string]any
}

func newTestClient(t *testing.T, status int) (*whatsapp.Client, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got.payload))
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)

	client := whatsapp.NewClient("token-123", "phone-456", logging.NewNop(),
		whatsapp.WithBaseURL(srv.URL))
	return client, got
}

func TestSendText(t *testing.T) {
	client, got := newTestClient(t, http.StatusOK)

	require.NoError(t, client.SendText(context.Background(), "59170000001", "hola"))
	assert.Equal(t, "/phone-456/messages", got.path)
	assert.Equal(t, "Bearer token-123", got.auth)
	assert.Equal(t, "whatsapp", got.payload["messaging_product"])
	assert.Equal(t, "59170000001", got.payload["to"])
	assert.Equal(t, "text", got.payload["type"])
	text := got.payload["text"].(map[string]any)
	assert.Equal(t, "hola", text["body"])
}

func TestSendYesNo(t *testing.T) {
	client, got := newTestClient(t, http.StatusOK)

	require.NoError(t, client.SendYesNo(context.Background(), "59170000001", "¿Confirmas?"))
	interactive := got.payload["interactive"].(map[string]any)
	assert.Equal(t, "button", interactive["type"])

	buttons := interactive["action"].(map[string]any)["buttons"].([]any)
	require.Len(t, buttons, 2)
	first := buttons[0].(map[string]any)["reply"].(map[string]any)
	assert.Equal(t, "si", first["id"])
	assert.Equal(t, "Sí", first["title"])
}

func TestSendList(t *testing.T) {
	client, got := newTestClient(t, http.StatusOK)

	options := []domain.Option{{ID: "Inglés", Title: "Inglés"}, {ID: "Chino", Title: "Chino"}}
	require.NoError(t, client.SendList(context.Background(), "59170000001", "Elige:", "Idiomas", options))

	interactive := got.payload["interactive"].(map[string]any)
	assert.Equal(t, "list", interactive["type"])
	sections := interactive["action"].(map[string]any)["sections"].([]any)
	require.Len(t, sections, 1)
	rows := sections[0].(map[string]any)["rows"].([]any)
	require.Len(t, rows, 2)
	assert.Equal(t, "Inglés", rows[0].(map[string]any)["id"])
}

func TestSendLocation(t *testing.T) {
	client, got := newTestClient(t, http.StatusOK)

	require.NoError(t, client.SendLocation(context.Background(), "59170000001", -17.77, -63.16, "Escuela", "2do Anillo"))
	location := got.payload["location"].(map[string]any)
	assert.InDelta(t, -17.77, location["latitude"], 0.001)
	assert.Equal(t, "Escuela", location["name"])
}

func TestSendRejected(t *testing.T) {
	client, _ := newTestClient(t, http.StatusUnauthorized)

	err := client.SendText(context.Background(), "59170000001", "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
