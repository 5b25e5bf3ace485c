package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/arcade-gym/internal/core"
)

// ErrRemote wraps errors reported by the server.
var ErrRemote = errors.New("remote: server error")

// Client drives one remote environment. It is not safe for concurrent use.
type Client struct {
	conn *websocket.Conn
}

// Dial connects to a server environment endpoint, e.g.
// ws://localhost:8765/v1/env/snake.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("remote: dial %s: %w", url, err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) call(req Request) (Response, error) {
	if err := c.conn.WriteJSON(req); err != nil {
		return Response{}, fmt.Errorf("remote: send %s: %w", req.Op, err)
	}
	var resp Response
	if err := c.conn.ReadJSON(&resp); err != nil {
		return Response{}, fmt.Errorf("remote: receive %s: %w", req.Op, err)
	}
	if resp.Op == OpError {
		return resp, fmt.Errorf("%w: %s", ErrRemote, resp.Error)
	}
	return resp, nil
}

// Spec fetches the environment's spaces.
func (c *Client) Spec() (*SpecPayload, error) {
	resp, err := c.call(Request{Op: OpSpec})
	if err != nil {
		return nil, err
	}
	return resp.Spec, nil
}

// Reset starts a new episode. A nil seed continues the RNG stream.
func (c *Client) Reset(seed *int64) ([]float64, *InfoPayload, error) {
	resp, err := c.call(Request{Op: OpReset, Seed: seed})
	if err != nil {
		return nil, nil, err
	}
	return resp.Observation, resp.Info, nil
}

// Step sends one action.
func (c *Client) Step(a core.Action) (Response, error) {
	index := a.Index
	payload := ActionPayload{Index: &index}
	if a.Kind == core.ActionContinuous {
		payload = ActionPayload{Vector: a.Vector}
	}
	return c.call(Request{Op: OpStep, Action: &payload})
}

// Close ends the session and the connection.
func (c *Client) Close() error {
	_, err := c.call(Request{Op: OpClose})
	if cerr := c.conn.Close(); err == nil {
		err = cerr
	}
	return err
}
