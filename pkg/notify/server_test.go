package notify

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"stockwatch-backend/pkg/config"
	"stockwatch-backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{NotifyPort: "0"}
	log := logger.NewLogger(io.Discard, "Notify", logger.ERROR, "Test")
	srv := NewServer(cfg, log)

	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(srv.Stop)

	return srv
}

func dialTestServer(t *testing.T, srv *Server) (net.Conn, *bufio.Reader) {
	t.Helper()

	_, port, err := net.SplitHostPort(srv.Addr())
	require.NoError(t, err)

	conn, err := net.Dial("tcp", net.JoinHostPort("127.0.0.1", port))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn, bufio.NewReader(conn)
}

func readMessage(t *testing.T, conn net.Conn, r *bufio.Reader) Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	line, err := r.ReadString('\n')
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal([]byte(line), &msg))
	return msg
}

func TestClientReceivesWelcomeOnConnect(t *testing.T) {
	srv := startTestServer(t)
	conn, r := dialTestServer(t, srv)

	msg := readMessage(t, conn, r)
	assert.Equal(t, MessageConnected, msg.Type)
	assert.NotEmpty(t, msg.Message)
	assert.Nil(t, msg.Data)

	require.Eventually(t, func() bool { return srv.Registry().Len() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestBroadcastReachesEveryRegisteredClient(t *testing.T) {
	srv := startTestServer(t)

	conns := make([]net.Conn, 3)
	readers := make([]*bufio.Reader, 3)
	for i := range conns {
		conns[i], readers[i] = dialTestServer(t, srv)
		welcome := readMessage(t, conns[i], readers[i])
		require.Equal(t, MessageConnected, welcome.Type)
	}

	srv.BroadcastStockUpdate(7, "Widget", 10, 13)

	for i := range conns {
		msg := readMessage(t, conns[i], readers[i])
		require.Equal(t, MessageStockUpdate, msg.Type)
		require.NotNil(t, msg.Data)
		assert.Equal(t, uint(7), msg.Data.ProductID)
		assert.Equal(t, "Widget", msg.Data.ProductName)
		assert.Equal(t, 10, msg.Data.OldQuantity)
		assert.Equal(t, 13, msg.Data.NewQuantity)
		assert.Equal(t, 3, msg.Data.Change)
	}
}

func TestBroadcastWithoutClientsCompletes(t *testing.T) {
	srv := startTestServer(t)

	// must be a silent no-op
	srv.BroadcastMaintenance()
	assert.Equal(t, 0, srv.Registry().Len())
}

func TestWelcomeArrivesBeforePongOnImmediatePing(t *testing.T) {
	srv := startTestServer(t)
	conn, r := dialTestServer(t, srv)

	// ping without waiting for the welcome first
	_, err := conn.Write([]byte("PING\n"))
	require.NoError(t, err)

	first := readMessage(t, conn, r)
	assert.Equal(t, MessageConnected, first.Type)

	second := readMessage(t, conn, r)
	assert.Equal(t, MessagePong, second.Type)
}

func TestKeepAliveIsCaseInsensitive(t *testing.T) {
	srv := startTestServer(t)
	conn, r := dialTestServer(t, srv)
	readMessage(t, conn, r) // welcome

	for _, ping := range []string{"PING\n", "ping\n", "PiNg\n"} {
		_, err := conn.Write([]byte(ping))
		require.NoError(t, err)

		msg := readMessage(t, conn, r)
		assert.Equal(t, MessagePong, msg.Type)
	}
}

func TestUnknownInboundContentIsIgnored(t *testing.T) {
	srv := startTestServer(t)
	conn, r := dialTestServer(t, srv)
	readMessage(t, conn, r) // welcome

	_, err := conn.Write([]byte("HELLO SERVER\n"))
	require.NoError(t, err)

	// the connection stays registered and still receives broadcasts
	srv.BroadcastStockUpdate(1, "Widget", 1, 2)
	msg := readMessage(t, conn, r)
	assert.Equal(t, MessageStockUpdate, msg.Type)
}

func TestConcurrentPingAndBroadcastFramesStayIntact(t *testing.T) {
	srv := startTestServer(t)
	conn, r := dialTestServer(t, srv)
	readMessage(t, conn, r) // welcome

	const rounds = 25

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			srv.BroadcastStockUpdate(uint(i), "Widget", i, i+1)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if _, err := conn.Write([]byte("PING\n")); err != nil {
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	// Every frame must be an independently parsable unit: interleaved writes
	// would produce lines that fail to decode. Pings the kernel coalesced
	// into one read are ignored by the server, so only the update count is
	// exact.
	pongs, updates := 0, 0
	for updates < rounds {
		msg := readMessage(t, conn, r)
		switch msg.Type {
		case MessagePong:
			pongs++
		case MessageStockUpdate:
			require.NotNil(t, msg.Data)
			updates++
		default:
			t.Fatalf("unexpected message type %q", msg.Type)
		}
	}

	wg.Wait()
	assert.Equal(t, rounds, updates)
	assert.LessOrEqual(t, pongs, rounds)
}

func TestClosedClientIsDeregistered(t *testing.T) {
	srv := startTestServer(t)
	conn, r := dialTestServer(t, srv)
	welcome := readMessage(t, conn, r)
	require.Equal(t, MessageConnected, welcome.Type)
	require.Eventually(t, func() bool { return srv.Registry().Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool { return srv.Registry().Len() == 0 }, 2*time.Second, 10*time.Millisecond)

	// a later broadcast no longer has a target and completes normally
	srv.BroadcastStockUpdate(1, "Widget", 3, 4)
}

func TestSurvivingClientsStillReceiveAfterPeerFailure(t *testing.T) {
	srv := startTestServer(t)

	dead, deadReader := dialTestServer(t, srv)
	readMessage(t, dead, deadReader)
	alive, aliveReader := dialTestServer(t, srv)
	readMessage(t, alive, aliveReader)

	require.NoError(t, dead.Close())
	require.Eventually(t, func() bool { return srv.Registry().Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	srv.BroadcastStockUpdate(2, "Gadget", 1, 0)

	msg := readMessage(t, alive, aliveReader)
	require.Equal(t, MessageStockUpdate, msg.Type)
	require.NotNil(t, msg.Data)
	assert.Equal(t, -1, msg.Data.Change)
}

func TestStopClosesRemainingConnections(t *testing.T) {
	cfg := &config.Config{NotifyPort: "0"}
	log := logger.NewLogger(io.Discard, "Notify", logger.ERROR, "Test")
	srv := NewServer(cfg, log)
	require.NoError(t, srv.Start(context.Background()))

	conn, r := dialTestServer(t, srv)
	readMessage(t, conn, r)

	srv.Stop()

	assert.Equal(t, 0, srv.Registry().Len())

	// the peer observes the closed socket
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, err := r.ReadString('\n')
	assert.Error(t, err)
}

func TestStartFailsWhenPortIsTaken(t *testing.T) {
	blocker, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer blocker.Close()

	_, port, err := net.SplitHostPort(blocker.Addr().String())
	require.NoError(t, err)

	cfg := &config.Config{NotifyPort: port}
	log := logger.NewLogger(io.Discard, "Notify", logger.ERROR, "Test")
	srv := NewServer(cfg, log)

	assert.Error(t, srv.Start(context.Background()))
}
