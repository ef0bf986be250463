package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/FocuswithJustin/correctir/core/emit"
	"github.com/FocuswithJustin/correctir/internal/logging"
)

const (
	wsWriteWait = 10 * time.Second
	wsReadWait  = 60 * time.Second
)

// StreamMessage is sent to websocket clients: one "unit" message per
// rendered sentence, then a final "complete" or "error".
type StreamMessage struct {
	Type      string         `json:"type"`
	Index     int            `json:"index"`
	Text      string         `json:"text,omitempty"`
	Deferred  []string       `json:"deferred,omitempty"`
	Result    *CheckResponse `json:"result,omitempty"`
	Code      string         `json:"code,omitempty"`
	Message   string         `json:"message,omitempty"`
	Timestamp string         `json:"timestamp"`
}

// handleWebSocket reads one CheckRequest from the client and streams the
// output of each sentence as soon as it is rendered.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	logging.WebSocketEvent("client_connected", int(s.streams.Add(1)))
	defer func() {
		logging.WebSocketEvent("client_disconnected", int(s.streams.Add(-1)))
	}()

	conn.SetReadLimit(s.cfg.MaxBodyBytes)
	conn.SetReadDeadline(time.Now().Add(wsReadWait))
	_, data, err := conn.ReadMessage()
	if err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
			logging.WarnContext(r.Context(), "websocket read failed", "error", err)
		}
		return
	}

	text, cfg, err := decodeRequest(data)
	var digest string
	if err == nil {
		digest, err = requestDigest(text, cfg)
	}
	if err != nil {
		writeStream(conn, StreamMessage{Type: "error", Code: "INVALID_REQUEST", Message: err.Error()})
		closeStream(conn, websocket.CloseNormalClosure)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go watchClose(conn, cancel)

	sink := func(index int, u emit.Unit) error {
		return writeStream(conn, StreamMessage{Type: "unit", Index: index, Text: u.Text, Deferred: u.Deferred})
	}
	res, err := s.corrector.Run(ctx, text, cfg, sink)
	if err != nil {
		_, code := errorStatus(err)
		logging.ErrorContext(r.Context(), "stream failed", "error", err)
		writeStream(conn, StreamMessage{Type: "error", Code: code, Message: err.Error()})
		closeStream(conn, websocket.CloseInternalServerErr)
		return
	}

	resp := newCheckResponse(ctx, res, digest)
	if s.results != nil {
		s.results.Set(resp.Digest, resp)
	}
	writeStream(conn, StreamMessage{Type: "complete", Index: res.Sentences, Result: &resp})
	closeStream(conn, websocket.CloseNormalClosure)
}

// watchClose reads until the connection fails, which cancels the run when
// the client goes away. Pongs extend the read deadline.
func watchClose(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadDeadline(time.Time{})
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeStream(conn *websocket.Conn, msg StreamMessage) error {
	msg.Timestamp = time.Now().UTC().Format(time.RFC3339)
	conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(msg)
}

func closeStream(conn *websocket.Conn, code int) {
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, ""),
		time.Now().Add(wsWriteWait))
}

// checkOrigin allows all origins when none are configured. Otherwise the
// Origin header must match an entry exactly or a "*.domain" wildcard.
func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if isOriginAllowed(origin, s.cfg.AllowedOrigins) {
		return true
	}
	logging.RequestRejected(r.Context(), "websocket origin not allowed", "origin", origin)
	return false
}

func isOriginAllowed(origin string, allowedOrigins []string) bool {
	if origin == "" {
		return false
	}
	for _, allowed := range allowedOrigins {
		switch {
		case allowed == "*", origin == allowed:
			return true
		case strings.HasPrefix(allowed, "*."):
			if strings.HasSuffix(origin, allowed[1:]) {
				return true
			}
		}
	}
	return false
}
