package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortexhq/vortex/internal/models"
)

func dialWalletWS(t *testing.T, ts *httptest.Server, token string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/wallet/ws"
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) walletStreamMessage {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg walletStreamMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestWalletWSStreamsInitialSnapshotThenChanges(t *testing.T) {
	srv, _ := newTestServer(t, "")
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	token := registerAndToken(t, srv.Handler(), "alice@example.com", "secret1")

	conn := dialWalletWS(t, ts, token)
	defer conn.Close()

	initial := readFrame(t, conn)
	assert.Equal(t, "wallet", initial.Type)
	require.NotNil(t, initial.Wallet)
	require.Len(t, initial.Wallet.Holdings, 1)
	assert.Equal(t, models.NativeCoinID, initial.Wallet.Holdings[0].ID)
}

func TestWalletWSRejectsAnonymous(t *testing.T) {
	srv, _ := newTestServer(t, "")
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/wallet/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if conn != nil {
		conn.Close()
	}
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWalletWSClosesOnSignOut(t *testing.T) {
	srv, _ := newTestServer(t, "")
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	token := registerAndToken(t, srv.Handler(), "alice@example.com", "secret1")

	conn := dialWalletWS(t, ts, token)
	defer conn.Close()

	initial := readFrame(t, conn)
	require.Equal(t, "wallet", initial.Type)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			// Close frame received
			return
		}
		var msg walletStreamMessage
		if json.Unmarshal(data, &msg) == nil && msg.Type == "closed" {
			assert.Equal(t, "signed_out", msg.Reason)
			return
		}
	}
	t.Fatal("stream did not close after sign-out")
}
