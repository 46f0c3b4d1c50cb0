package listener

import (
	"context"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"stockwatch-backend/pkg/config"
	"stockwatch-backend/pkg/logger"
	"stockwatch-backend/pkg/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRenderer struct {
	mu       sync.Mutex
	messages []notify.Message
	raw      []string
}

func (r *recordingRenderer) Render(msg notify.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

func (r *recordingRenderer) RenderRaw(frame string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.raw = append(r.raw, frame)
}

func (r *recordingRenderer) snapshot() ([]notify.Message, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Message(nil), r.messages...), append([]string(nil), r.raw...)
}

func testAgent(rec *recordingRenderer) *Agent {
	return &Agent{
		logger:   logger.NewLogger(io.Discard, "Listener", logger.ERROR, "Test"),
		renderer: rec,
	}
}

func TestFrameSplitAcrossReadsIsReassembled(t *testing.T) {
	rec := &recordingRenderer{}
	a := testAgent(rec)

	pending := a.dispatchFrames([]byte(`{"type":"Pong"`))
	messages, _ := rec.snapshot()
	assert.Empty(t, messages, "incomplete frame must stay buffered")
	assert.Equal(t, `{"type":"Pong"`, string(pending))

	pending = a.dispatchFrames(append(pending, []byte(",\"message\":\"pong\",\"timestamp\":\"2024-01-01T00:00:00Z\"}\n")...))
	messages, raw := rec.snapshot()
	require.Len(t, messages, 1)
	assert.Empty(t, raw)
	assert.Equal(t, notify.MessagePong, messages[0].Type)
	assert.Empty(t, pending)
}

func TestTwoFramesInOneReadDecodeInOrder(t *testing.T) {
	rec := &recordingRenderer{}
	a := testAgent(rec)

	buf := []byte(`{"type":"Connected","message":"a","timestamp":"2024-01-01T00:00:00Z"}` + "\n" +
		`{"type":"Pong","message":"b","timestamp":"2024-01-01T00:00:01Z"}` + "\n")

	pending := a.dispatchFrames(buf)
	messages, _ := rec.snapshot()

	require.Len(t, messages, 2)
	assert.Equal(t, notify.MessageConnected, messages[0].Type)
	assert.Equal(t, notify.MessagePong, messages[1].Type)
	assert.Empty(t, pending)
}

func TestUndecodableFrameIsSurfacedRaw(t *testing.T) {
	rec := &recordingRenderer{}
	a := testAgent(rec)

	a.dispatchFrames([]byte("this is not json\n"))

	messages, raw := rec.snapshot()
	assert.Empty(t, messages)
	require.Len(t, raw, 1)
	assert.Equal(t, "this is not json", raw[0])
}

func TestTrailingRemainderIsKeptAfterCompleteFrames(t *testing.T) {
	rec := &recordingRenderer{}
	a := testAgent(rec)

	buf := []byte(`{"type":"Pong","message":"p","timestamp":"2024-01-01T00:00:00Z"}` + "\n" + `{"type":"Stock`)

	pending := a.dispatchFrames(buf)
	messages, _ := rec.snapshot()

	require.Len(t, messages, 1)
	assert.Equal(t, `{"type":"Stock`, string(pending))
}

func startNotifyServer(t *testing.T) (*notify.Server, string) {
	t.Helper()

	cfg := &config.Config{NotifyPort: "0"}
	log := logger.NewLogger(io.Discard, "Notify", logger.ERROR, "Test")
	srv := notify.NewServer(cfg, log)
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(srv.Stop)

	_, port, err := net.SplitHostPort(srv.Addr())
	require.NoError(t, err)

	return srv, port
}

func TestAgentReceivesWelcomeAndStockUpdates(t *testing.T) {
	srv, port := startNotifyServer(t)

	rec := &recordingRenderer{}
	cfg := &config.Config{NotifyHost: "127.0.0.1", NotifyPort: port}
	a := NewAgent(cfg, logger.NewLogger(io.Discard, "Listener", logger.ERROR, "Test"), rec)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		messages, _ := rec.snapshot()
		return len(messages) > 0 && messages[0].Type == notify.MessageConnected
	}, 5*time.Second, 10*time.Millisecond)

	srv.BroadcastStockUpdate(7, "Widget", 10, 13)

	require.Eventually(t, func() bool {
		messages, _ := rec.snapshot()
		for _, msg := range messages {
			if msg.Type == notify.MessageStockUpdate && msg.Data != nil &&
				msg.Data.OldQuantity == 10 && msg.Data.NewQuantity == 13 && msg.Data.Change == 3 {
				return true
			}
		}
		return false
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("agent did not stop after cancellation")
	}
}

func TestAgentKeepsRetryingWithoutServerUntilCancelled(t *testing.T) {
	// grab a port nothing listens on
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	rec := &recordingRenderer{}
	cfg := &config.Config{NotifyHost: "127.0.0.1", NotifyPort: port}
	a := NewAgent(cfg, logger.NewLogger(io.Discard, "Listener", logger.ERROR, "Test"), rec)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Run(ctx)
		close(done)
	}()

	// the agent must sit in its retry loop without failing outward
	time.Sleep(100 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("agent stopped even though it was not cancelled")
	default:
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("agent did not stop after cancellation")
	}
}
