package server

import (
	"github.com/teranos/comex/corpus"
	"github.com/teranos/comex/errors"
	"github.com/teranos/comex/logger"
	"github.com/teranos/comex/version"
	"github.com/teranos/comex/viewport"
)

// dispatch turns one client message into session calls. It runs on the hub
// goroutine.
func (s *Server) dispatch(client *Client, msg *ClientMessage) error {
	sess := s.session
	vc := sess.Viewport

	s.logger.Debugw("client message",
		logger.FieldClientID, shortID(client.id),
		"type", msg.Type)

	switch msg.Type {
	case MsgClick:
		i, err := index(msg)
		if err != nil {
			return err
		}
		if err := vc.Click(i); err != nil {
			return err
		}

	case MsgSelect:
		sess.Interaction.SelectComment(msg.CommentID)

	case MsgConfig:
		if msg.Key == "" {
			return errors.NewInvalidRequestError("config message without key")
		}
		sess.Interaction.ChangeConfig(msg.Key, msg.Value)

	case MsgTimeRange:
		switch {
		case msg.Start == nil && msg.End == nil:
			sess.Interaction.SelectTimeRange(nil)
		case msg.Start == nil || msg.End == nil:
			return errors.NewInvalidRequestError("time range needs both start and end")
		case msg.End.Before(*msg.Start):
			return errors.NewInvalidRequestError("time range ends before it starts")
		default:
			sess.Interaction.SelectTimeRange(&corpus.TimeRange{Start: *msg.Start, End: *msg.End})
		}

	case MsgRedraw:
		s.afterRedraw(sess.Redraw())

	case MsgResize:
		if msg.Width <= 0 || msg.Height <= 0 {
			return errors.NewInvalidRequestError("canvas must be positive, got %gx%g", msg.Width, msg.Height)
		}
		s.afterRedraw(sess.Resize(msg.Width, msg.Height))

	case MsgZoom:
		switch {
		case msg.Factor > 0:
			vc.ZoomBy(msg.Factor, msg.X, msg.Y)
		case msg.K > 0:
			vc.ZoomTo(msg.K)
		default:
			return errors.NewInvalidRequestError("zoom needs a positive factor or scale")
		}

	case MsgPan:
		vc.Pan(msg.DX, msg.DY)

	case MsgCentre:
		vc.Centre()

	case MsgMode:
		mode, err := viewport.ParseMode(msg.Mode)
		if err != nil {
			return err
		}
		if err := vc.SetMode(mode); err != nil {
			return err
		}

	case MsgLasso:
		if msg.Rect == nil {
			return errors.NewInvalidRequestError("lasso message without rect")
		}
		hits, err := vc.Lasso(*msg.Rect)
		if err != nil {
			return err
		}
		if hits == nil {
			hits = []int{}
		}
		s.sendTo(client, ServerMessage{Type: MsgSelection, Indices: hits})

	case MsgDrag:
		i, err := index(msg)
		if err != nil {
			return err
		}
		if err := vc.Drag(i, msg.X, msg.Y); err != nil {
			return err
		}
		s.moving = true

	case MsgRelease:
		i, err := index(msg)
		if err != nil {
			return err
		}
		vc.Release(i)

	case MsgPing:
		s.sendTo(client, ServerMessage{Type: MsgPong})
		return nil

	default:
		return errors.NewInvalidRequestError("unknown message type %q", msg.Type)
	}

	s.dirty = true
	return nil
}

func index(msg *ClientMessage) (int, error) {
	if msg.Index == nil {
		return 0, errors.NewInvalidRequestError("%s message without index", msg.Type)
	}
	return *msg.Index, nil
}

func (s *Server) versionMessage(client *Client) ServerMessage {
	info := version.Get()
	return ServerMessage{Type: MsgVersion, Version: &info, ClientID: client.id}
}
