package listener

import (
	"fmt"
	"io"

	"stockwatch-backend/pkg/notify"
)

// Renderer turns decoded messages into user-visible output.
type Renderer interface {
	Render(msg notify.Message)
	RenderRaw(frame string)
}

// ConsoleRenderer prints notifications as plain text lines.
type ConsoleRenderer struct {
	out io.Writer
}

func NewConsoleRenderer(out io.Writer) *ConsoleRenderer {
	return &ConsoleRenderer{out: out}
}

func (r *ConsoleRenderer) Render(msg notify.Message) {
	ts := msg.Timestamp.Local().Format("15:04:05")

	switch msg.Type {
	case notify.MessageConnected:
		fmt.Fprintf(r.out, "=== %s ===\n", msg.Message)
	case notify.MessageStockUpdate:
		if msg.Data == nil {
			fmt.Fprintf(r.out, "[%s] %s\n", ts, msg.Message)
			return
		}
		fmt.Fprintf(r.out, "[%s] %s: %d -> %d (%+d)\n",
			ts, msg.Data.ProductName, msg.Data.OldQuantity, msg.Data.NewQuantity, msg.Data.Change)
	case notify.MessagePong:
		// keep-alive replies are noise on the console
	default:
		fmt.Fprintf(r.out, "[%s] %s: %s\n", ts, msg.Type, msg.Message)
	}
}

func (r *ConsoleRenderer) RenderRaw(frame string) {
	fmt.Fprintf(r.out, "[unparsed] %s\n", frame)
}
