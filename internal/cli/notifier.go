package cli

import (
	"fmt"
	"io"

	"corpsuite/internal/session/domain/client"
)

// TerminalNotifier renders session notifications as terminal lines.
type TerminalNotifier struct {
	out io.Writer
}

// NewTerminalNotifier creates a notifier writing to out.
func NewTerminalNotifier(out io.Writer) *TerminalNotifier {
	return &TerminalNotifier{out: out}
}

var _ client.Notifier = (*TerminalNotifier)(nil)

// Notify prints one notification, prefixed by its kind.
func (n *TerminalNotifier) Notify(kind client.NotificationKind, title, message string) {
	var prefix string
	switch kind {
	case client.NoteSuccess:
		prefix = "✔"
	case client.NoteError:
		prefix = "✘"
	default:
		prefix = "•"
	}
	fmt.Fprintf(n.out, "%s %s: %s\n", prefix, title, message)
}
