package notify

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"

	"argus/internal/domain/alert"
	"argus/pkg/logger"
)

// Ensure ConsoleChannel implements Channel
var _ Channel = (*ConsoleChannel)(nil)

// ConsoleChannel prints alerts to a local writer. It never fails, so a user
// with no other channels configured still sees every alert.
type ConsoleChannel struct {
	out io.Writer
	log *logger.Logger
}

// NewConsoleChannel creates a console channel writing to stdout
func NewConsoleChannel(log *logger.Logger) *ConsoleChannel {
	return &ConsoleChannel{
		out: os.Stdout,
		log: log.With("channel", "console"),
	}
}

func (c *ConsoleChannel) Name() string { return "console" }

// Notify prints the alert and always reports success
func (c *ConsoleChannel) Notify(_ context.Context, a *alert.Alert) bool {
	fmt.Fprintf(c.out, "\n🔔 ALERT [%s] %s (%s)\n", a.Symbol, a.Message, humanize.Time(a.TriggeredAt))
	if summary := summaryFor(a); summary != "" {
		fmt.Fprintf(c.out, "   %s\n", summary)
	}
	return true
}
