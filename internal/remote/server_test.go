package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/core"
	_ "github.com/vovakirdan/arcade-gym/internal/envs/aim"
	_ "github.com/vovakirdan/arcade-gym/internal/envs/catcher"
	_ "github.com/vovakirdan/arcade-gym/internal/envs/snake"
	"github.com/vovakirdan/arcade-gym/internal/registry"
)

func newTestServer(t *testing.T, opts registry.Options) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewServer(opts, log.New(io.Discard)).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, envID string) *Client {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/env/" + envID
	c, err := Dial(context.Background(), url)
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	return c
}

func TestSpecAndEpisode(t *testing.T) {
	steps := 5
	srv := newTestServer(t, registry.Options{Overrides: config.Overrides{MaxSteps: &steps}})
	c := dial(t, srv, "snake")

	spec, err := c.Spec()
	if err != nil {
		t.Fatalf("Spec() failed: %v", err)
	}
	if spec.EnvID != "snake" || spec.ActionKind != "discrete" || spec.ActionCount != 4 || spec.ObservationSize != 15 {
		t.Errorf("unexpected spec %+v", spec)
	}

	obs, info, err := c.Reset(core.Seed(3))
	if err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	if len(obs) != 15 || info.Phase != "running" || info.EpisodeID == "" {
		t.Errorf("reset returned obs=%d info=%+v", len(obs), info)
	}

	var last Response
	for range steps {
		last, err = c.Step(core.Discrete(int(core.DirDown)))
		if err != nil {
			t.Fatalf("Step() failed: %v", err)
		}
	}
	if !last.Truncated || last.Info.Step != steps || last.Info.Phase != "truncated" {
		t.Errorf("expected truncation at step %d, got %+v", steps, last.Info)
	}
	if _, ok := last.Info.Breakdown["survival"]; !ok {
		t.Errorf("breakdown missing components: %v", last.Info.Breakdown)
	}

	// The episode has ended; further steps report an error but keep the session.
	if _, err := c.Step(core.Discrete(0)); !errors.Is(err, ErrRemote) {
		t.Errorf("expected ErrRemote after the episode ended, got %v", err)
	}
	if _, _, err := c.Reset(nil); err != nil {
		t.Errorf("Reset() after error failed: %v", err)
	}

	if err := c.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
}

func TestMatchesLocalEnv(t *testing.T) {
	srv := newTestServer(t, registry.Options{})
	c := dial(t, srv, "aim")
	defer c.Close()

	local, err := registry.Create("aim", registry.Options{})
	if err != nil {
		t.Fatal(err)
	}

	remoteObs, _, err := c.Reset(core.Seed(99))
	if err != nil {
		t.Fatal(err)
	}
	localObs, _, err := local.Reset(core.Seed(99))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(remoteObs, localObs) {
		t.Fatalf("reset observations differ: %v vs %v", remoteObs, localObs)
	}

	for _, xy := range [][2]float64{{0.1, 0.9}, {0.5, 0.5}, {0.3, 0.7}} {
		a := core.Continuous(xy[0], xy[1])
		r, err := c.Step(a)
		if err != nil {
			t.Fatal(err)
		}
		l, err := local.Step(a)
		if err != nil {
			t.Fatal(err)
		}
		if r.Reward != l.Reward || !reflect.DeepEqual(r.Observation, l.Observation) {
			t.Errorf("step %v: remote (%v, %v) vs local (%v, %v)", xy, r.Reward, r.Observation, l.Reward, l.Observation)
		}
	}
}

func TestStepBeforeReset(t *testing.T) {
	srv := newTestServer(t, registry.Options{})
	c := dial(t, srv, "catcher")
	defer c.Close()

	_, err := c.Step(core.Discrete(0))
	if !errors.Is(err, ErrRemote) || !strings.Contains(err.Error(), "not running") {
		t.Errorf("expected not-running error, got %v", err)
	}
}

func TestBadRequests(t *testing.T) {
	srv := newTestServer(t, registry.Options{})
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/env/catcher"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	bad := []string{
		`not json`,
		`{"op":"jump"}`,
		`{"op":"step"}`,
		`{"op":"reset","seed":1}`,
		`{"op":"step","action":{}}`,
		`{"op":"step","action":{"vector":[]}}`,
	}
	for _, msg := range bad {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			t.Fatal(err)
		}
		var resp Response
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatal(err)
		}
		if strings.Contains(msg, "reset") {
			if resp.Op != OpReset {
				t.Fatalf("reset failed: %+v", resp)
			}
			continue
		}
		if resp.Op != OpError || resp.Error == "" {
			t.Errorf("%s: expected an error response, got %+v", msg, resp)
		}
	}

	// An explicit index of zero is still a valid action
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"op":"step","action":{"index":0}}`)); err != nil {
		t.Fatal(err)
	}
	var resp Response
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Op != OpStep || resp.Info == nil || resp.Info.Step != 1 {
		t.Errorf("index 0 step: got %+v", resp)
	}
}

func TestActionPayload(t *testing.T) {
	zero := 0
	tests := []struct {
		name    string
		payload ActionPayload
		want    core.Action
		wantErr bool
	}{
		{"index zero", ActionPayload{Index: &zero}, core.Discrete(0), false},
		{"vector", ActionPayload{Vector: []float64{0.2, 0.4}}, core.Continuous(0.2, 0.4), false},
		{"vector wins", ActionPayload{Index: &zero, Vector: []float64{0.5, 0.5}}, core.Continuous(0.5, 0.5), false},
		{"empty", ActionPayload{}, core.Action{}, true},
		{"empty vector", ActionPayload{Vector: []float64{}}, core.Action{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.payload.Action()
			if tt.wantErr {
				if !errors.Is(err, ErrEmptyAction) {
					t.Errorf("expected ErrEmptyAction, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Action() failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Action() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShutdownClosesOpenSessions(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	s := NewServer(registry.Options{}, log.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	c, err := Dial(context.Background(), "ws://"+ln.Addr().String()+"/v1/env/snake")
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	defer c.conn.Close()
	if _, err := c.Spec(); err != nil {
		t.Fatalf("Spec() failed: %v", err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Serve() still blocked after cancel with an idle session open")
	}

	c.conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := c.conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("expected a going-away close, got %v", err)
	}
}

func TestRefusesSessionsWhileClosing(t *testing.T) {
	s := NewServer(registry.Options{}, log.New(io.Discard))
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	s.closeSessions()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/env/catcher"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		conn.Close()
		t.Fatal("upgrade accepted after shutdown began")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %v", resp)
	}
}

func TestUnknownEnv(t *testing.T) {
	srv := newTestServer(t, registry.Options{})

	resp, err := http.Get(srv.URL + "/v1/env/tetris")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, expected 404", resp.StatusCode)
	}
}

func TestListEnvs(t *testing.T) {
	srv := newTestServer(t, registry.Options{})

	resp, err := http.Get(srv.URL + "/v1/envs")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var envs []struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envs); err != nil {
		t.Fatal(err)
	}
	if len(envs) < 3 {
		t.Errorf("expected at least 3 envs, got %v", envs)
	}
}
