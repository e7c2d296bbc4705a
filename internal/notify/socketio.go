package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/releasegrid/internal/ctxlog"
	"github.com/specialistvlad/releasegrid/internal/orchestrator"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// EventName is the socket.io event every progress update is emitted as.
const EventName = "release:event"

const connectTimeout = 15 * time.Second

// Options configures the socket.io connection.
type Options struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
}

// SocketIO emits orchestrator events over a socket.io connection.
type SocketIO struct {
	emit  func(event string, payload map[string]any)
	close func()
}

// NewWithEmitter wraps an arbitrary emit function. Used by tests and by
// callers bridging to another transport.
func NewWithEmitter(emit func(event string, payload map[string]any)) *SocketIO {
	return &SocketIO{emit: emit, close: func() {}}
}

// Dial connects to the server and waits for the connection to be
// acknowledged.
func Dial(ctx context.Context, o Options) (*SocketIO, error) {
	logger := ctxlog.FromContext(ctx).With("notifier", "socketio", "url", o.URL)

	parsedURL, err := url.Parse(o.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("notify URL %q must include scheme and host", o.URL)
	}

	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	if o.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	namespace := o.Namespace
	if namespace == "" {
		namespace = "/"
	}
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	connected := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		signalOnce(connected, nil)
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		signalOnce(connected, connectError(errs))
	})

	logger.Debug("Connecting notifier...")
	io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(connectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", connectTimeout)
	}
	logger.Info("Notifier connected.", "sid", io.Id())

	return &SocketIO{
		emit: func(event string, payload map[string]any) {
			io.Emit(event, payload)
		},
		close: func() { io.Disconnect() },
	}, nil
}

// signalOnce delivers the first connection outcome. Later outcomes, or any
// arriving after Dial gave up, are dropped so library callbacks never block.
func signalOnce(ch chan<- error, err error) {
	select {
	case ch <- err:
	default:
	}
}

func connectError(args []any) error {
	if len(args) > 0 {
		if e, ok := args[0].(error); ok {
			return e
		}
	}
	return errors.New("connect_error")
}

// Notify implements orchestrator.Notifier.
func (s *SocketIO) Notify(ctx context.Context, e orchestrator.Event) {
	payload := Payload(e)
	ctxlog.FromContext(ctx).Debug("Emitting progress event.", "event", EventName, "kind", e.Kind)
	s.emit(EventName, payload)
}

// Close disconnects from the server.
func (s *SocketIO) Close() {
	s.close()
}

// Payload renders e as the JSON-like object sent to the server.
func Payload(e orchestrator.Event) map[string]any {
	p := map[string]any{
		"run_id":  e.RunID,
		"kind":    string(e.Kind),
		"version": e.Version,
	}
	if e.BuildID != "" {
		p["build_id"] = e.BuildID
	}
	if e.Status != "" {
		p["status"] = string(e.Status)
	}
	return p
}
