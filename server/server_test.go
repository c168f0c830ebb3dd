package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/comex/config"
	"github.com/teranos/comex/corpus"
	"github.com/teranos/comex/session"
	"github.com/teranos/comex/view"
)

const highlightFill = "#e4572e"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	cfg, err := config.LoadWithViper(v)
	require.NoError(t, err)
	cfg.Layout.TickMS = 5
	cfg.Layout.Updates = 10
	cfg.Layout.Seed = 1
	cfg.Server.SnapshotRate = 1000
	return cfg
}

func testCorpus(t *testing.T, extra ...string) *corpus.Corpus {
	t.Helper()
	c := corpus.New()
	require.NoError(t, c.Add(&corpus.Comment{ID: "c1", Splits: []corpus.Split{{Text: "a"}, {Text: "b"}}}))
	require.NoError(t, c.Add(&corpus.Comment{ID: "c2", Splits: []corpus.Split{{Text: "c"}}}))
	for _, id := range extra {
		require.NoError(t, c.Add(&corpus.Comment{ID: id, Splits: []corpus.Split{{Text: id}}}))
	}
	c.IndexComments()
	c.Edges = []corpus.RawEdge{
		{Src: corpus.RawRef{0, 0}, Tgt: corpus.RawRef{1, 0}, Weights: []float64{0.9}},
	}
	return c
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s, err := New(testCorpus(t), testConfig(t), zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	go s.Run()

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	t.Cleanup(func() { _ = s.Stop() })
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// expect reads until a message of type typ satisfying pred arrives.
func expect(t *testing.T, conn *websocket.Conn, typ string, pred func(ServerMessage) bool) ServerMessage {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	require.NoError(t, conn.SetReadDeadline(deadline))
	for {
		var msg ServerMessage
		require.NoError(t, conn.ReadJSON(&msg), "waiting for %s", typ)
		if msg.Type == typ && (pred == nil || pred(msg)) {
			return msg
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, msg string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(msg)))
}

func nodeFills(nodes []view.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Encoding.Fill
	}
	return out
}

func TestServer_ConnectReceivesState(t *testing.T) {
	s, ts := newTestServer(t)
	conn := dial(t, ts)

	v := expect(t, conn, MsgVersion, nil)
	_, err := uuid.Parse(v.ClientID)
	assert.NoError(t, err)
	require.NotNil(t, v.Version)

	g := expect(t, conn, MsgGraph, nil)
	require.NotNil(t, g.Graph)
	assert.Len(t, g.Graph.Nodes, 3)
	assert.Len(t, g.Graph.Links, 1)

	f := expect(t, conn, MsgFrame, nil)
	require.NotNil(t, f.Frame)
	assert.Len(t, f.Frame.Nodes, 3)
	assert.Equal(t, 960.0, f.Frame.Width)

	assert.Eventually(t, func() bool { return s.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestServer_SelectHighlights(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)
	expect(t, conn, MsgFrame, nil)

	send(t, conn, `{"type":"select","comment_id":"c1"}`)
	f := expect(t, conn, MsgFrame, func(m ServerMessage) bool {
		return m.Frame.Nodes[0].Encoding.Fill == highlightFill
	})
	fills := nodeFills(f.Frame.Nodes)
	assert.Equal(t, highlightFill, fills[1])
	assert.NotEqual(t, highlightFill, fills[2])

	// Any click while highlighted clears the highlight.
	send(t, conn, `{"type":"click","index":2}`)
	expect(t, conn, MsgFrame, func(m ServerMessage) bool {
		for _, fill := range nodeFills(m.Frame.Nodes) {
			if fill == highlightFill {
				return false
			}
		}
		return true
	})
}

func TestServer_ConfigHidesEdges(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)
	expect(t, conn, MsgFrame, func(m ServerMessage) bool { return m.Frame.EdgesVisible })

	send(t, conn, `{"type":"config","key":"LINKS_VISIBLE","value":false}`)
	f := expect(t, conn, MsgFrame, func(m ServerMessage) bool { return !m.Frame.EdgesVisible })
	assert.Zero(t, f.Frame.EdgeOpacity)
}

func TestServer_Errors(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		category string
	}{
		{"unknown type", `{"type":"teleport"}`, "websocket"},
		{"bad json", `{"type":`, "websocket"},
		{"click without index", `{"type":"click"}`, "websocket"},
		{"click out of range", `{"type":"click","index":99}`, "websocket"},
		{"bad mode", `{"type":"mode","mode":"pan"}`, "websocket"},
		{"lasso in zoom mode", `{"type":"lasso","rect":{"X0":0,"Y0":0,"X1":10,"Y1":10}}`, "websocket"},
		{"half time range", `{"type":"time_range","start":"2024-01-01T00:00:00Z"}`, "websocket"},
		{"zero resize", `{"type":"resize","width":0,"height":10}`, "websocket"},
	}

	_, ts := newTestServer(t)
	conn := dial(t, ts)
	expect(t, conn, MsgFrame, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			send(t, conn, tt.msg)
			m := expect(t, conn, MsgError, nil)
			assert.Equal(t, tt.category, m.Error["category"])
			assert.NotEmpty(t, m.Error["error"])
		})
	}
}

func TestServer_Lasso(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)
	expect(t, conn, MsgFrame, nil)

	send(t, conn, `{"type":"mode","mode":"lasso"}`)
	expect(t, conn, MsgFrame, func(m ServerMessage) bool { return m.Frame.Mode == "lasso" })

	send(t, conn, `{"type":"lasso","rect":{"X0":-1e6,"Y0":-1e6,"X1":1e6,"Y1":1e6}}`)
	sel := expect(t, conn, MsgSelection, nil)
	assert.Equal(t, []int{0, 1, 2}, sel.Indices)

	f := expect(t, conn, MsgFrame, func(m ServerMessage) bool { return len(m.Frame.Selected()) == 3 })
	assert.Len(t, f.Frame.Nodes, 3)
}

func TestServer_ZoomAndCentre(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)
	expect(t, conn, MsgFrame, nil)

	send(t, conn, `{"type":"zoom","k":100}`)
	expect(t, conn, MsgFrame, func(m ServerMessage) bool { return m.Frame.Transform.K == 8 })

	send(t, conn, `{"type":"pan","dx":15,"dy":-5}`)
	expect(t, conn, MsgFrame, func(m ServerMessage) bool { return m.Frame.Transform.Y != 0 })

	send(t, conn, `{"type":"centre"}`)
	f := expect(t, conn, MsgFrame, func(m ServerMessage) bool { return m.Frame.Transform.K == 1 })
	assert.Zero(t, f.Frame.Transform.X)
	assert.Zero(t, f.Frame.Transform.Y)
}

func TestServer_ResizeRedraws(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)
	expect(t, conn, MsgFrame, nil)

	send(t, conn, `{"type":"resize","width":300,"height":200}`)
	expect(t, conn, MsgGraph, nil)
	f := expect(t, conn, MsgFrame, func(m ServerMessage) bool { return m.Frame.Width == 300 })
	assert.Equal(t, 200.0, f.Frame.Height)
}

func TestServer_Ping(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)
	send(t, conn, `{"type":"ping"}`)
	expect(t, conn, MsgPong, nil)
}

func TestServer_Reload(t *testing.T) {
	s, ts := newTestServer(t)
	conn := dial(t, ts)
	expect(t, conn, MsgFrame, nil)

	s.Reload(testCorpus(t, "c3"))
	g := expect(t, conn, MsgGraph, func(m ServerMessage) bool { return len(m.Graph.Nodes) == 4 })
	assert.Equal(t, 3, g.Graph.Meta.Stats.TotalComments)
}

func TestServer_ReloadReferenceError(t *testing.T) {
	s, ts := newTestServer(t)
	conn := dial(t, ts)
	expect(t, conn, MsgFrame, nil)

	bad := testCorpus(t)
	bad.Edges = append(bad.Edges, corpus.RawEdge{Src: corpus.RawRef{9, 0}, Tgt: corpus.RawRef{0, 0}})
	s.Reload(bad)

	m := expect(t, conn, MsgError, nil)
	assert.Equal(t, "reference", m.Error["category"])
	g := expect(t, conn, MsgGraph, nil)
	assert.Empty(t, g.Graph.Nodes)
}

func TestServer_HTTPRoutes(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/graph.json")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	resp, err = http.Get(ts.URL + "/frame.svg")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))

	resp, err = http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/graph.json", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServer_RejectsForeignOrigin(t *testing.T) {
	_, ts := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	for _, origin := range []string{"https://evil.example", "http://localhost.attacker.net"} {
		header := http.Header{"Origin": []string{origin}}
		_, resp, err := websocket.DefaultDialer.Dial(url, header)
		require.Error(t, err, origin)
		require.NotNil(t, resp, origin)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, origin)
	}
}

func TestServer_StopIsIdempotent(t *testing.T) {
	s, err := New(testCorpus(t), testConfig(t), nil)
	require.NoError(t, err)
	go s.Run()

	require.NoError(t, s.Stop())
	assert.NoError(t, s.Stop())
	assert.Error(t, s.Do(func(*session.Session) {}))
}

func TestCheckOrigin(t *testing.T) {
	allowed := []string{"http://localhost", "http://127.0.0.1", "https://app.example", "http://pinned.example:9000"}
	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://localhost:3000", true},
		{"HTTP://LOCALHOST", true},
		{"https://app.example", true},
		{"http://127.0.0.1:8787", true},
		{"http://pinned.example:9000", true},
		{"http://pinned.example:9001", false},
		{"https://localhost", false},
		{"http://localhost.attacker.net", false},
		{"https://app.example.evil.io", false},
		{"http://127.0.0.1.nip.io", false},
		{"http://example.com", false},
		{"https://evil.example", false},
		{"null", false},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, checkOrigin(r, allowed))
		})
	}
}
