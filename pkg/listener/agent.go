package listener

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"time"

	"stockwatch-backend/pkg/config"
	"stockwatch-backend/pkg/logger"
	"stockwatch-backend/pkg/notify"
)

const (
	keepAliveCommand = "PING"
	dialTimeout      = 5 * time.Second
	retryDelay       = 5 * time.Second
	pingInterval     = 30 * time.Second
	writeTimeout     = 5 * time.Second
	readPollInterval = 250 * time.Millisecond
	readBufferSize   = 4096
)

// Agent maintains a persistent subscription to the stock notification server.
// It reconnects with a fixed delay on every failure and only gives up when
// its context is cancelled.
type Agent struct {
	addr     string
	logger   *logger.Logger
	renderer Renderer
}

func NewAgent(cfg *config.Config, log *logger.Logger, renderer Renderer) *Agent {
	return &Agent{
		addr:     net.JoinHostPort(cfg.NotifyHost, cfg.NotifyPort),
		logger:   log,
		renderer: renderer,
	}
}

// Run dials, consumes notifications and redials until ctx is cancelled.
// Network failures are reported and recovered from, never returned.
func (a *Agent) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := net.DialTimeout("tcp", a.addr, dialTimeout)
		if err != nil {
			a.logger.PrintfWarning("Connection to %s failed: %s. Retrying in %s", a.addr, err, retryDelay)
			if !a.wait(ctx, retryDelay) {
				return
			}
			continue
		}

		a.logger.PrintfInfo("Connected to %s", a.addr)
		a.session(ctx, conn)

		if ctx.Err() != nil {
			return
		}
		a.logger.PrintfWarning("Lost connection to %s. Reconnecting in %s", a.addr, retryDelay)
		if !a.wait(ctx, retryDelay) {
			return
		}
	}
}

// wait sleeps for d and reports false when the context was cancelled first.
func (a *Agent) wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// session owns one open connection: a keep-alive sender plus a read loop that
// reassembles newline-delimited frames across partial reads. It returns when
// the transport fails or ctx is cancelled.
func (a *Agent) session(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.keepAlive(sessionCtx, conn)

	buf := make([]byte, readBufferSize)
	var pending []byte
	for {
		if sessionCtx.Err() != nil {
			return
		}

		if err := conn.SetReadDeadline(time.Now().Add(readPollInterval)); err != nil {
			return
		}

		n, err := conn.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
			pending = a.dispatchFrames(pending)
		}
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			return
		}
		if n == 0 {
			return
		}
	}
}

// dispatchFrames extracts every complete frame from pending and returns the
// undelimited remainder, which stays buffered for the next read.
func (a *Agent) dispatchFrames(pending []byte) []byte {
	for {
		i := bytes.IndexByte(pending, '\n')
		if i < 0 {
			return pending
		}
		frame := pending[:i]
		pending = pending[i+1:]
		if len(bytes.TrimSpace(frame)) == 0 {
			continue
		}
		a.dispatch(frame)
	}
}

func (a *Agent) dispatch(frame []byte) {
	var msg notify.Message
	if err := json.Unmarshal(frame, &msg); err != nil {
		// An undecodable frame is surfaced raw, never dropped silently.
		a.logger.PrintfWarning("Failed to decode frame: %s", err)
		a.renderer.RenderRaw(string(frame))
		return
	}
	if msg.Type == notify.MessagePong {
		a.logger.PrintfDebug("Keep-alive acknowledged")
	}
	a.renderer.Render(msg)
}

// keepAlive writes the keep-alive command once per interval for as long as
// the transport accepts it. A write failure just stops the sender; the read
// loop notices the dead transport and tears the session down.
func (a *Agent) keepAlive(ctx context.Context, conn net.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				return
			}
			if _, err := conn.Write([]byte(keepAliveCommand + "\n")); err != nil {
				return
			}
		}
	}
}
