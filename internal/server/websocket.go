package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vortexhq/vortex/internal/interfaces"
	"github.com/vortexhq/vortex/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// walletStreamMessage is the frame pushed on every wallet change.
type walletStreamMessage struct {
	Type   string               `json:"type"`
	Wallet *models.WalletRecord `json:"wallet,omitempty"`
	Reason string               `json:"reason,omitempty"`
}

// handleWalletWS handles GET /api/wallet/ws — upgrade to WebSocket and
// stream the caller's wallet: the current record immediately, then a
// full snapshot on every change. The stream closes when the client
// disconnects or the identity signs out.
func (s *Server) handleWalletWS(w http.ResponseWriter, r *http.Request) {
	uc, ok := requireUser(w, r)
	if !ok {
		return
	}

	sub, err := s.app.WalletService.Subscribe(r.Context(), uc.UserID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", uc.UserID).Msg("Wallet subscription failed")
		WriteError(w, http.StatusInternalServerError, "failed to subscribe to wallet")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		sub.Cancel()
		s.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	sessionEvents, cancelWatch := s.app.SessionService.Watch()

	client := &walletStreamClient{
		conn:          conn,
		userID:        uc.UserID,
		sub:           sub,
		sessionEvents: sessionEvents,
		cancelWatch:   cancelWatch,
		server:        s,
	}

	s.logger.Debug().Str("user_id", uc.UserID).Msg("Wallet stream connected")
	go client.writePump()
	go client.readPump()
}

// walletStreamClient is one connected wallet stream.
type walletStreamClient struct {
	conn          *websocket.Conn
	userID        string
	sub           *interfaces.WalletSubscription
	sessionEvents <-chan models.SessionEvent
	cancelWatch   func()
	server        *Server
}

// writePump forwards wallet snapshots and session teardown to the peer.
func (c *walletStreamClient) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.sub.Cancel()
		c.cancelWatch()
		c.conn.Close()
	}()

	for {
		select {
		case wallet, ok := <-c.sub.Updates:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			msg := walletStreamMessage{Type: "wallet", Wallet: wallet}
			data, err := json.Marshal(msg)
			if err != nil {
				c.server.logger.Warn().Err(err).Msg("Failed to marshal wallet frame")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case event, ok := <-c.sessionEvents:
			if !ok {
				return
			}
			if event.UserID != c.userID || event.SignedIn {
				continue
			}
			// Sign-out tears the stream down.
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			data, _ := json.Marshal(walletStreamMessage{Type: "closed", Reason: "signed_out"})
			c.conn.WriteMessage(websocket.TextMessage, data)
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			c.server.logger.Debug().Str("user_id", c.userID).Msg("Wallet stream closed on sign-out")
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads messages from the connection (mainly to detect close).
func (c *walletStreamClient) readPump() {
	defer func() {
		c.sub.Cancel()
		c.cancelWatch()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}
