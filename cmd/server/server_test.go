package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	. "github.com/cricklet/duckchess/internal/helpers"
	"github.com/cricklet/duckchess/internal/search"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, args ...string) (*session, *[]UpdateToWeb) {
	options, err := search.SearcherOptionsFromArgs(args...)
	require.True(t, IsNil(err), err)

	updates := []UpdateToWeb{}
	s, err := newSession(&SilentLogger, &SilentLogger, options, func(u UpdateToWeb) {
		updates = append(updates, u)
	})
	require.True(t, IsNil(err), err)
	return s, &updates
}

func send(t *testing.T, s *session, message string) {
	s.handleMessageFromWeb([]byte(message))
}

func TestSelectionAndMove(t *testing.T) {
	s, updates := newTestSession(t)

	send(t, s, `{"selection": "g1"}`)
	require.Equal(t, 1, len(*updates))
	assert.ElementsMatch(t, []string{"g1f3", "g1h3"}, (*updates)[0].PossibleMoves)
	assert.Equal(t, "white", (*updates)[0].Player)
	assert.Equal(t, "piece", (*updates)[0].Phase)

	send(t, s, `{"move": "g1f3"}`)
	send(t, s, `{"move": "d4"}`)
	last := Last(*updates)
	assert.Equal(t, "black", last.Player)
	assert.Equal(t, "e5d4", last.LastMove)
	assert.Equal(t, "1. Nf3 Dd4", last.History)

	send(t, s, `{"rewind": 2}`)
	assert.Equal(t, "white", Last(*updates).Player)
	assert.Equal(t, "", Last(*updates).LastMove)
}

func TestIllegalMoveKeepsPosition(t *testing.T) {
	s, updates := newTestSession(t)

	send(t, s, `{"move": "e2e5"}`)
	assert.Equal(t, "rnbqkbnr/pppppppp/8/4*3/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1 piece", Last(*updates).FenString)

	send(t, s, `not json`)
	assert.Equal(t, 1, len(*updates))
}

func TestEngineReplies(t *testing.T) {
	s, updates := newTestSession(t, "depth=1", "duckWidth=3")

	send(t, s, `{"blackPlayer": "duckgo"}`)
	send(t, s, `{"ready": true}`)
	send(t, s, `{"move": "e2e4"}`)
	send(t, s, `{"move": "d4"}`)

	last := Last(*updates)
	assert.Equal(t, "white", last.Player)
	assert.Equal(t, "piece", last.Phase)
	assert.Equal(t, 4, len(strings.Fields(last.History))-1)
}

func TestRandomVersusRandom(t *testing.T) {
	s, updates := newTestSession(t)

	send(t, s, `{"newFen": "4k3/8/8/8/8/8/*7/4RK2 w - - 0 1"}`)
	send(t, s, `{"whitePlayer": "random"}`)
	send(t, s, `{"blackPlayer": "random"}`)
	send(t, s, `{"ready": true}`)

	assert.NotEqual(t, "white to move", Last(*updates).Status)
	assert.NotEqual(t, "black to move", Last(*updates).Status)
}

func TestBadFenFallsBackToStart(t *testing.T) {
	s, updates := newTestSession(t)
	send(t, s, `{"newFen": "bad"}`)
	assert.Equal(t, "rnbqkbnr/pppppppp/8/4*3/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1 piece", Last(*updates).FenString)
}

func TestWebsocket(t *testing.T) {
	options, err := search.SearcherOptionsFromArgs("depth=1")
	require.True(t, IsNil(err), err)

	server := httptest.NewServer(newRouter(options))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	c, _, dialErr := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, dialErr)
	defer c.Close()

	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(`{"selection": "b1"}`)))

	require.NoError(t, c.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		_, bytes, readErr := c.ReadMessage()
		require.NoError(t, readErr)

		// log lines arrive as arrays, updates as objects
		if strings.HasPrefix(string(bytes), "[") {
			continue
		}

		var update UpdateToWeb
		require.NoError(t, json.Unmarshal(bytes, &update))
		assert.Equal(t, "b1", update.Selection)
		assert.ElementsMatch(t, []string{"b1a3", "b1c3"}, update.PossibleMoves)
		break
	}
}

func TestSocketWriterFromManyGoroutines(t *testing.T) {
	const writers, messages = 8, 50

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()

		writer := &socketWriter{conn: c}
		wg := sync.WaitGroup{}
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				for j := 0; j < messages; j++ {
					writer.WriteJSON([]string{fmt.Sprint(i, ":", j)})
				}
			}(i)
		}
		wg.Wait()

		// keep the connection open until the client has read everything
		_, _, _ = c.ReadMessage()
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	c, _, dialErr := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, dialErr)
	defer c.Close()

	require.NoError(t, c.SetReadDeadline(time.Now().Add(5*time.Second)))
	seen := map[string]bool{}
	for len(seen) < writers*messages {
		var lines []string
		require.NoError(t, c.ReadJSON(&lines))
		require.Equal(t, 1, len(lines))
		seen[lines[0]] = true
	}
	assert.True(t, seen["7:49"])
}
