// Package notify posts best-effort local notifications confirming book
// actions. Delivery is never part of the success contract of the action
// that triggered it: a denied permission or a full queue is logged and
// swallowed.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"booktracker/internal/jsonlog"
)

// Importance mirrors the notification channel importance levels of the
// platforms this app targets. The create screen posts at high importance,
// updates and deletes at default.
type Importance int

const (
	ImportanceDefault Importance = iota
	ImportanceHigh
)

// Channel is the single notification channel all notifications go through.
type Channel struct {
	ID          string
	Name        string
	Description string
	Importance  Importance
}

// DefaultChannel is created idempotently before the first notification.
var DefaultChannel = Channel{
	ID:          "book-tracker",
	Name:        "Book tracker",
	Description: "Notifications about book actions",
	Importance:  ImportanceDefault,
}

// Notification is one queued notification. ID is derived from the current
// time so successive notifications never overwrite one another.
type Notification struct {
	ID         int64
	Title      string
	Message    string
	Importance Importance
}

// Notifier owns the channel and a buffered delivery queue drained by a
// single background worker.
type Notifier struct {
	mu      sync.Mutex
	channel *Channel
	granted func() bool
	out     io.Writer
	logger  *jsonlog.Logger
	queue   chan Notification
	wg      sync.WaitGroup
	closed  bool
}

// New creates a Notifier writing delivered notifications to out. granted is
// the platform permission probe; when it reports false every Notify call is
// a silent no-op.
func New(out io.Writer, logger *jsonlog.Logger, granted func() bool) *Notifier {
	n := &Notifier{
		granted: granted,
		out:     out,
		logger:  logger,
		queue:   make(chan Notification, 16),
	}
	n.wg.Add(1)
	go n.worker()
	return n
}

func (n *Notifier) worker() {
	defer n.wg.Done()
	for nt := range n.queue {
		fmt.Fprintf(n.out, "[%s] %s: %s\n", n.channelID(), nt.Title, nt.Message)
	}
}

func (n *Notifier) channelID() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.channel == nil {
		return DefaultChannel.ID
	}
	return n.channel.ID
}

// EnsureChannel registers the notification channel. Calling it again with
// any channel is a no-op once one exists.
func (n *Notifier) EnsureChannel(ch Channel) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.channel != nil {
		return
	}
	n.channel = &ch
}

// Notify posts a notification with the given title and message at default
// importance.
func (n *Notifier) Notify(title, message string) {
	n.NotifyImportance(title, message, ImportanceDefault)
}

// NotifyImportance posts a notification at an explicit importance level.
// Missing permission and a full queue are logged, never returned: the
// triggering action has already succeeded and must report success.
func (n *Notifier) NotifyImportance(title, message string, importance Importance) {
	n.EnsureChannel(DefaultChannel)
	if n.granted != nil && !n.granted() {
		n.logger.PrintInfo("notification permission not granted, skipping", map[string]string{
			"title": title,
		})
		return
	}
	nt := Notification{
		ID:         time.Now().UnixNano(),
		Title:      title,
		Message:    message,
		Importance: importance,
	}
	n.mu.Lock()
	closed := n.closed
	n.mu.Unlock()
	if closed {
		return
	}
	select {
	case n.queue <- nt:
	default:
		n.logger.PrintInfo("notification queue full, dropping", map[string]string{
			"title": title,
		})
	}
}

// Close stops the delivery worker after draining queued notifications.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	n.mu.Unlock()
	close(n.queue)
	n.wg.Wait()
}
