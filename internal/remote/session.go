package remote

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/arcade-gym/internal/core"
)

// session is one websocket connection bound to one environment.
type session struct {
	env    core.Env
	conn   *websocket.Conn
	logger *log.Logger
	steps  int
}

func (s *session) serve() {
	defer s.conn.Close()
	defer s.env.Close()

	s.conn.SetReadLimit(maxMessageSize)

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("read failed", "error", err)
			}
			return
		}

		var req Request
		if err := json.Unmarshal(payload, &req); err != nil {
			if !s.write(errorResponse(fmt.Errorf("remote: bad request: %w", err))) {
				return
			}
			continue
		}

		resp, done := s.handle(req)
		if !s.write(resp) {
			return
		}
		if done {
			s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// handle runs one request. done reports whether the session should end.
func (s *session) handle(req Request) (resp Response, done bool) {
	switch req.Op {
	case OpSpec:
		return Response{Op: OpSpec, Spec: specPayload(s.env)}, false

	case OpReset:
		obs, info, err := s.env.Reset(req.Seed)
		if err != nil {
			return errorResponse(err), false
		}
		return Response{Op: OpReset, Observation: obs, Info: infoPayload(info)}, false

	case OpStep:
		if req.Action == nil {
			return errorResponse(errors.New("remote: step without action")), false
		}
		action, err := req.Action.Action()
		if err != nil {
			return errorResponse(err), false
		}
		res, err := s.env.Step(action)
		if err != nil {
			return errorResponse(err), false
		}
		s.steps++
		return Response{
			Op:          OpStep,
			Observation: res.Observation,
			Reward:      res.Reward,
			Terminated:  res.Terminated,
			Truncated:   res.Truncated,
			Info:        infoPayload(res.Info),
		}, false

	case OpClose:
		if err := s.env.Close(); err != nil {
			return errorResponse(err), true
		}
		return Response{Op: OpClose}, true
	}

	return errorResponse(fmt.Errorf("remote: unknown op %q", req.Op)), false
}

func (s *session) write(resp Response) bool {
	if err := s.conn.WriteJSON(resp); err != nil {
		s.logger.Warn("write failed", "error", err)
		return false
	}
	return true
}

func errorResponse(err error) Response {
	return Response{Op: OpError, Error: err.Error()}
}
