package server

import (
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	slidedeck "github.com/alnah/go-slidedeck"
	"github.com/alnah/go-slidedeck/internal/events"
	"github.com/alnah/go-slidedeck/internal/input"
)

// Inbound message types.
const (
	msgHello      = "hello"
	msgKey        = "key"
	msgSwipe      = "swipe"
	msgGoto       = "goto"
	msgNavigator  = "navigator"
	msgSelect     = "select"
	msgImage      = "image"
	msgCloseImage = "closeImage"
)

// Outbound message types.
const (
	msgState  = "state"
	msgEvent  = "event"
	msgReload = "reload"
	msgError  = "error"
)

// inbound is any message a viewer sends. Fields are read by type.
type inbound struct {
	Type     string  `json:"type"`
	Fragment string  `json:"fragment,omitempty"`
	Key      string  `json:"key,omitempty"`
	Index    *int    `json:"index,omitempty"`
	ID       string  `json:"id,omitempty"`
	StartX   float64 `json:"startX,omitempty"`
	StartY   float64 `json:"startY,omitempty"`
	EndX     float64 `json:"endX,omitempty"`
	EndY     float64 `json:"endY,omitempty"`
}

// outbound is any message sent to viewers.
type outbound struct {
	Type  string           `json:"type"`
	Kind  events.Kind      `json:"kind,omitempty"`
	Event events.Event     `json:"event,omitempty"`
	State *slidedeck.State `json:"state,omitempty"`
	Error string           `json:"error,omitempty"`
}

// errUnknownMessage reports an inbound type the server does not handle.
var errUnknownMessage = errors.New("unknown message type")

// encode marshals m, returning nil if it cannot be encoded.
func encode(m outbound) []byte {
	data, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return data
}

// handleMessage applies one viewer message to the presentation. State
// changes reach every viewer through the event broadcast; only hello and
// errors are answered directly.
func (s *Server) handleMessage(c *client, data []byte) {
	var msg inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		s.log.Debug("malformed message", zap.String("id", c.id), zap.Error(err))
		s.reply(c, outbound{Type: msgError, Error: "malformed message"})
		return
	}

	sess, err := s.session()
	if err != nil {
		s.reply(c, outbound{Type: msgError, Error: err.Error()})
		return
	}
	p := sess.p

	switch msg.Type {
	case msgHello:
		p.Open(msg.Fragment)
		st := p.State()
		s.reply(c, outbound{Type: msgState, State: &st})
	case msgKey:
		p.HandleKey(msg.Key)
	case msgSwipe:
		p.HandleSwipe(input.Swipe{StartX: msg.StartX, StartY: msg.StartY, EndX: msg.EndX, EndY: msg.EndY})
	case msgGoto:
		switch {
		case msg.ID != "":
			p.GoToID(msg.ID)
		case msg.Index != nil:
			p.GoTo(*msg.Index)
		}
	case msgNavigator:
		p.ToggleNavigator()
	case msgSelect:
		if msg.Index != nil {
			p.SelectFromNavigator(*msg.Index)
		}
	case msgImage:
		if err := p.OpenImage(msg.Key); err != nil {
			s.log.Debug("image not opened", zap.String("key", msg.Key), zap.Error(err))
			s.reply(c, outbound{Type: msgError, Error: err.Error()})
		}
	case msgCloseImage:
		p.CloseImage()
	default:
		s.log.Debug("ignored message", zap.String("id", c.id), zap.String("type", msg.Type), zap.Error(errUnknownMessage))
		s.reply(c, outbound{Type: msgError, Error: errUnknownMessage.Error()})
	}
}

func (s *Server) reply(c *client, m outbound) {
	if data := encode(m); data != nil && !c.enqueue(data) {
		s.hub.dropped.Inc()
	}
}
