package routes

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"lifemate/cmd/internal/session"
	"lifemate/cmd/internal/utils"
	"lifemate/cmd/internal/utils/apierror"
	"lifemate/cmd/internal/views"
	"net/http"
	"sync"
	"time"
)

const (
	liveWriteWait    = 10 * time.Second
	livePingInterval = 25 * time.Second
	liveQueueSize    = 16
)

// liveMessage is every frame the server sends: the view's state after each
// change, or the message of a failed action.
type liveMessage struct {
	View  string `json:"view"`
	State any    `json:"state,omitempty"`
	Error string `json:"error,omitempty"`
}

type DefaultLiveRoute struct {
	Deps     *views.Deps
	Upgrader websocket.Upgrader
}

// NewLiveDefault accepts upgrades from allowedOrigin; "*" or empty accepts
// any origin.
func NewLiveDefault(deps *views.Deps, allowedOrigin string) *DefaultLiveRoute {
	return &DefaultLiveRoute{
		Deps: deps,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" || allowedOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

// Live upgrades to a websocket that drives one view. Each connection gets
// its own session signed in as the token's subject.
func (l *DefaultLiveRoute) Live(c echo.Context) error {
	name := c.Param("view")
	if !views.Known(name) {
		return c.JSON(apierror.UnknownViewError.Code(), apierror.UnknownViewError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	ws, err := l.Upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		c.Logger().Debugf("websocket upgrade failed: %v", err)
		return nil
	}
	conn := &liveConn{ws: ws}
	defer conn.close()

	sess := session.New()
	sess.SignIn(session.User{UID: data.Sub, Email: data.Email})

	view, err := views.Open(name, sess, l.Deps, func(state any) {
		_ = conn.send(&liveMessage{View: name, State: state})
	})
	if err != nil {
		_ = conn.send(&liveMessage{View: name, Error: err.Error()})
		return nil
	}
	defer view.Close()

	pingCtx, stopPing := context.WithCancel(c.Request().Context())
	defer stopPing()
	go conn.keepAlive(pingCtx)

	// Actions run in order on one worker so "input" lands before the
	// "recipe" that reads it, while the read loop keeps noticing closes.
	// An action already running finishes after a disconnect; the closed
	// view drops its result.
	actionCtx := requestContext(c)
	queue := make(chan *views.Action, liveQueueSize)
	defer close(queue)
	go func() {
		for action := range queue {
			if err := view.Handle(actionCtx, action); err != nil {
				_ = conn.send(&liveMessage{View: name, Error: liveError(err)})
			}
		}
	}()

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.Logger().Debugf("live %s connection of %s closed: %v", name, data.Sub, err)
			}
			return nil
		}

		var action views.Action
		if err := json.Unmarshal(raw, &action); err != nil {
			_ = conn.send(&liveMessage{View: name, Error: apierror.MalformedBodyError.Message})
			continue
		}

		select {
		case queue <- &action:
		default:
			_ = conn.send(&liveMessage{View: name, Error: apierror.TooManyActionsError.Message})
		}
	}
}

func liveError(err error) string {
	if errors.Is(err, session.ErrNotSignedIn) {
		return apierror.NotSignedInError.Message
	}
	return err.Error()
}

// liveConn serializes writes; gorilla allows only one concurrent writer.
type liveConn struct {
	mu     sync.Mutex
	ws     *websocket.Conn
	closed bool
}

func (l *liveConn) send(msg *liveMessage) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return websocket.ErrCloseSent
	}
	_ = l.ws.SetWriteDeadline(time.Now().Add(liveWriteWait))
	return l.ws.WriteJSON(msg)
}

func (l *liveConn) ping() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return websocket.ErrCloseSent
	}
	_ = l.ws.SetWriteDeadline(time.Now().Add(liveWriteWait))
	return l.ws.WriteMessage(websocket.PingMessage, nil)
}

func (l *liveConn) keepAlive(ctx context.Context) {
	t := time.NewTicker(livePingInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := l.ping(); err != nil {
				l.close()
				return
			}
		}
	}
}

func (l *liveConn) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	_ = l.ws.Close()
}
