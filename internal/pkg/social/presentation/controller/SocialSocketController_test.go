package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	cacheport "go-huddle/internal/infrastructure/cache/port"
	"go-huddle/internal/infrastructure/realtime"
	"go-huddle/internal/infrastructure/secret"
	"go-huddle/internal/infrastructure/token"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Exercises the socket endpoint over a real websocket. The store pool is
// nil, so every event that needs persistence is dropped; what remains
// observable is the handshake, presence broadcasting and loop resilience.

const testSecret = "controller-test-secret"

type nopCache struct{}

func (nopCache) Get(context.Context, string) (string, error) { return "", cacheport.ErrMiss }
func (nopCache) Set(context.Context, string, string, time.Duration) error {
	return nil
}
func (nopCache) Del(context.Context, ...string) (int64, error) { return 0, nil }
func (nopCache) Ping(context.Context) error                    { return nil }
func (nopCache) Close() error                                  { return nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := token.NewValidator([]byte(testSecret))
	require.NoError(t, err)
	box, err := secret.NewBox(make([]byte, 32))
	require.NoError(t, err)

	router := realtime.NewRouter()
	t.Cleanup(router.Close)

	ctl := NewSocialSocketController(nil, nopCache{}, router, realtime.NewPresence(), tokens, box, zap.NewNop())

	r := gin.New()
	r.GET("/ws", ctl.Handle())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func signToken(t *testing.T, userID string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func dial(t *testing.T, srv *httptest.Server, tok string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + tok
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func readFrame(t *testing.T, ws *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)
	var frame map[string]any
	require.NoError(t, json.Unmarshal(data, &frame))
	return frame
}

func TestSocketRejectsMissingToken(t *testing.T) {
	srv := newTestServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.Nil(t, ws)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSocketRejectsForgedToken(t *testing.T) {
	srv := newTestServer(t)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "7"})
	signed, err := forged.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + signed
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestConnectBroadcastsPresence(t *testing.T) {
	srv := newTestServer(t)
	ws := dial(t, srv, signToken(t, "7"))

	frame := readFrame(t, ws)
	assert.Equal(t, "presence_update", frame["event"])
	assert.Equal(t, float64(7), frame["user_id"])
	assert.Equal(t, true, frame["online"])
	assert.Nil(t, frame["last_seen"])
}

func TestPresenceVisibleToOtherSessions(t *testing.T) {
	srv := newTestServer(t)

	a := dial(t, srv, signToken(t, "1"))
	readFrame(t, a) // own presence frame

	dial(t, srv, signToken(t, "2"))

	frame := readFrame(t, a)
	assert.Equal(t, "presence_update", frame["event"])
	assert.Equal(t, float64(2), frame["user_id"])
	assert.Equal(t, true, frame["online"])
}

func TestMalformedFrameKeepsConnectionAlive(t *testing.T) {
	srv := newTestServer(t)

	a := dial(t, srv, signToken(t, "1"))
	readFrame(t, a)

	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte(`{"event":"bogus","token":"junk"}`)))

	// A later broadcast still arrives, so the read loop survived both frames.
	dial(t, srv, signToken(t, "2"))
	frame := readFrame(t, a)
	assert.Equal(t, "presence_update", frame["event"])
	assert.Equal(t, float64(2), frame["user_id"])
}

func TestEventWithExpiredTokenIsDropped(t *testing.T) {
	srv := newTestServer(t)

	a := dial(t, srv, signToken(t, "1"))
	readFrame(t, a)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	payload := `{"event":"typing","token":"` + signed + `","to_id":2,"is_typing":true}`
	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte(payload)))

	dial(t, srv, signToken(t, "2"))
	frame := readFrame(t, a)
	assert.Equal(t, "presence_update", frame["event"])
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("Bearer  abc"))
	assert.Equal(t, "", bearerToken("Basic abc"))
	assert.Equal(t, "", bearerToken(""))
}
