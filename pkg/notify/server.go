package notify

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"time"

	"stockwatch-backend/pkg/config"
	"stockwatch-backend/pkg/logger"

	"golang.org/x/time/rate"
)

const (
	keepAliveCommand = "PING"
	readPollInterval = 250 * time.Millisecond
	readBufferSize   = 1024
	shutdownGrace    = 3 * time.Second
)

// Server accepts raw TCP subscribers and broadcasts stock notifications to
// them. Delivery is best-effort: a subscriber that cannot be written to is
// dropped, nothing is queued or replayed.
type Server struct {
	addr     string
	logger   *logger.Logger
	registry *Registry

	// broadcastMu serializes whole broadcasts so one fanout, including its
	// failure cleanup, completes before the next snapshot is taken.
	broadcastMu sync.Mutex

	// acceptRetry paces the accept loop after errors so a persistently
	// failing listener does not spin.
	acceptRetry *rate.Limiter

	mu       sync.Mutex
	listener net.Listener
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewServer(cfg *config.Config, log *logger.Logger) *Server {
	return &Server{
		addr:        net.JoinHostPort("", cfg.NotifyPort),
		logger:      log,
		registry:    NewRegistry(),
		acceptRetry: rate.NewLimiter(rate.Every(time.Second), 5),
	}
}

// Registry exposes the connection registry, mainly for tests and health
// reporting.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Start binds the listening socket and launches the accept loop. A bind
// failure is returned to the caller instead of taking the host process down.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return errors.New("notify server already started")
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.listener = ln
	s.cancel = cancel

	s.wg.Add(1)
	go s.acceptLoop(loopCtx, ln)

	s.logger.PrintfInfo("Stock notification server listening on %s", ln.Addr())
	return nil
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop closes the listener, waits a bounded grace period for receive loops to
// finish and force-closes whatever is left.
func (s *Server) Stop() {
	s.mu.Lock()
	ln := s.listener
	cancel := s.cancel
	s.listener = nil
	s.cancel = nil
	s.mu.Unlock()

	if ln == nil {
		return
	}

	cancel()
	ln.Close()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(shutdownGrace):
		s.logger.PrintfWarning("Receive loops still running after %s, force closing connections", shutdownGrace)
	}

	for _, c := range s.registry.Snapshot() {
		s.drop(c)
	}

	s.logger.PrintfInfo("Stock notification server stopped")
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) {
	defer s.wg.Done()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.PrintfError("Failed to accept connection: %s", err)
			if err := s.acceptRetry.Wait(ctx); err != nil {
				return
			}
			continue
		}

		c := newConnection(conn)
		s.registry.Add(c)

		// Welcome goes to the new connection only, not through a broadcast,
		// and before the receive loop starts so it is always the first frame
		// on the wire.
		if err := c.SendMessage(NewConnectedMessage(c.ID())); err != nil {
			s.logger.PrintfWarning("Failed to send welcome to %s: %s", c.ID(), err)
			s.drop(c)
			continue
		}

		s.wg.Add(1)
		go s.receiveLoop(ctx, c)

		s.logger.PrintfInfo("Client %s connected", c.ID())
	}
}

// receiveLoop reads from one connection until the peer closes, the transport
// fails or the server shuts down. Errors here never reach other connections.
func (s *Server) receiveLoop(ctx context.Context, c *Connection) {
	defer s.wg.Done()
	defer s.drop(c)

	buf := make([]byte, readBufferSize)
	for {
		if ctx.Err() != nil {
			return
		}

		// Short read deadlines keep the loop responsive to cancellation
		// instead of parking in an unbounded blocking read.
		if err := c.conn.SetReadDeadline(time.Now().Add(readPollInterval)); err != nil {
			return
		}

		n, err := c.conn.Read(buf)
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

		text := strings.TrimSpace(string(buf[:n]))
		if strings.EqualFold(text, keepAliveCommand) {
			// The reply shares the per-connection send path with broadcasts,
			// so the two can never interleave on the wire.
			if err := c.SendMessage(NewPongMessage()); err != nil {
				return
			}
		}
		// Anything else inbound is accepted and ignored.
	}
}

// drop removes the connection from the registry and closes its socket.
// Removal always happens first and only the remover closes, so teardown runs
// exactly once no matter how many paths race into it.
func (s *Server) drop(c *Connection) {
	if _, ok := s.registry.Remove(c.ID()); ok {
		c.Close()
		s.logger.PrintfInfo("Client %s disconnected", c.ID())
	}
}

// Broadcast delivers one message to every connection registered at the time
// the fanout starts. Failing connections are dropped after the fanout; their
// errors never propagate to the caller.
func (s *Server) Broadcast(msg Message) {
	s.broadcastMu.Lock()
	defer s.broadcastMu.Unlock()

	frame, err := msg.Encode()
	if err != nil {
		s.logger.PrintfError("Failed to encode %s message: %s", msg.Type, err)
		return
	}

	snapshot := s.registry.Snapshot()
	var failed []*Connection
	for _, c := range snapshot {
		if err := c.Send(frame); err != nil {
			s.logger.PrintfWarning("Failed to deliver %s to %s: %s", msg.Type, c.ID(), err)
			failed = append(failed, c)
		}
	}

	for _, c := range failed {
		s.drop(c)
	}
}

// BroadcastStockUpdate notifies all subscribers about a quantity change.
// Callable from any goroutine, concurrently with connection churn.
func (s *Server) BroadcastStockUpdate(productID uint, productName string, oldQuantity, newQuantity int) {
	s.Broadcast(NewStockUpdateMessage(productID, productName, oldQuantity, newQuantity))
}

// BroadcastMaintenance notifies all subscribers that the daily maintenance
// pass finished.
func (s *Server) BroadcastMaintenance() {
	s.Broadcast(NewMaintenanceMessage())
}
