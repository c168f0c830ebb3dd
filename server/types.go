package server

import (
	"time"

	"github.com/teranos/comex/graph"
	"github.com/teranos/comex/version"
	"github.com/teranos/comex/viewport"
)

// ServerState represents the server lifecycle state
type ServerState int

const (
	ServerStateRunning  ServerState = iota // Normal operation
	ServerStateDraining                    // Graceful shutdown in progress
	ServerStateStopped                     // Shutdown complete
)

// Client message types
const (
	MsgClick     = "click"
	MsgSelect    = "select"
	MsgConfig    = "config"
	MsgTimeRange = "time_range"
	MsgRedraw    = "redraw"
	MsgResize    = "resize"
	MsgZoom      = "zoom"
	MsgPan       = "pan"
	MsgCentre    = "centre"
	MsgMode      = "mode"
	MsgLasso     = "lasso"
	MsgDrag      = "drag"
	MsgRelease   = "release"
	MsgPing      = "ping"
)

// Server message types
const (
	MsgFrame     = "frame"
	MsgGraph     = "graph"
	MsgSelection = "selection"
	MsgError     = "error"
	MsgVersion   = "version"
	MsgPong      = "pong"
)

// ClientMessage is a gesture or command sent by a browser. Which fields are
// read depends on Type.
type ClientMessage struct {
	Type string `json:"type"`

	Index     *int   `json:"index,omitempty"`      // click, drag, release
	CommentID string `json:"comment_id,omitempty"` // select

	Key   string      `json:"key,omitempty"`   // config
	Value interface{} `json:"value,omitempty"` // config

	Start *time.Time `json:"start,omitempty"` // time_range; both nil clears
	End   *time.Time `json:"end,omitempty"`

	Width  float64 `json:"width,omitempty"` // resize
	Height float64 `json:"height,omitempty"`

	Factor float64 `json:"factor,omitempty"` // zoom by factor around (x, y)
	K      float64 `json:"k,omitempty"`      // zoom to absolute scale
	X      float64 `json:"x,omitempty"`      // zoom focus, drag target
	Y      float64 `json:"y,omitempty"`
	DX     float64 `json:"dx,omitempty"` // pan
	DY     float64 `json:"dy,omitempty"`

	Mode string         `json:"mode,omitempty"` // mode
	Rect *viewport.Rect `json:"rect,omitempty"` // lasso, screen coordinates
}

// ServerMessage is pushed to clients.
type ServerMessage struct {
	Type      string            `json:"type"`
	Frame     *viewport.Frame   `json:"frame,omitempty"`
	Graph     *graph.Graph      `json:"graph,omitempty"`
	Indices   []int             `json:"indices,omitempty"`
	Error     map[string]string `json:"error,omitempty"`
	Version   *version.Info     `json:"version,omitempty"`
	ClientID  string            `json:"client_id,omitempty"`
	Timestamp int64             `json:"timestamp"`
}

// HealthResponse is returned by /health
type HealthResponse struct {
	Status    string `json:"status"`
	State     string `json:"server_state"`
	Clients   int    `json:"clients"`
	Redraws   int    `json:"redraws"`
	Comments  int    `json:"comments"`
	Version   string `json:"version"`
	LastError string `json:"last_error,omitempty"`
}
