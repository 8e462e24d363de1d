package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// GenericFailureMessage is shown when a request fails for a reason the operator cannot fix.
	GenericFailureMessage = "There was an unexpected error. Please try again later."
	// DefaultAction labels the acknowledgement button.
	DefaultAction = "Acknowledge"
	// DefaultDuration is how long a notification stays visible.
	DefaultDuration = 5 * time.Second
)

// Notification is a message currently or previously displayed to the operator.
type Notification struct {
	ID        string
	Message   string
	Action    string
	ShownAt   time.Time
	ExpiresAt time.Time
}

type recorder interface {
	RecordNotification()
}

type entry struct {
	Notification
	timer     *time.Timer
	onDismiss func()
}

// Notifier displays at most one notification at a time. Showing a new one dismisses the current
// one first. Each notification expires on its own after the configured duration.
type Notifier struct {
	mu       sync.Mutex
	current  *entry
	duration time.Duration
	action   string
	metrics  recorder
	logger   *zap.Logger
}

// NewNotifier builds a notifier. Zero duration and empty action fall back to the defaults.
func NewNotifier(duration time.Duration, action string, metrics recorder, logger *zap.Logger) *Notifier {
	if duration <= 0 {
		duration = DefaultDuration
	}
	if action == "" {
		action = DefaultAction
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{duration: duration, action: action, metrics: metrics, logger: logger}
}

// ShowError displays message with the configured acknowledgement action.
func (n *Notifier) ShowError(message string) Notification {
	return n.Show(message, n.action, nil)
}

// Show replaces the current notification. onDismiss, when set, runs exactly once after the new
// notification goes away, whether it was acknowledged, expired or replaced.
func (n *Notifier) Show(message, action string, onDismiss func()) Notification {
	now := time.Now().UTC()
	next := &entry{
		Notification: Notification{
			ID:        uuid.NewString(),
			Message:   message,
			Action:    action,
			ShownAt:   now,
			ExpiresAt: now.Add(n.duration),
		},
		onDismiss: onDismiss,
	}

	n.mu.Lock()
	prev := n.current
	n.current = next
	id := next.ID
	next.timer = time.AfterFunc(n.duration, func() { n.dismiss(id) })
	n.mu.Unlock()

	n.finish(prev)
	if n.metrics != nil {
		n.metrics.RecordNotification()
	}
	n.logger.Debug("notification shown", zap.String("id", id), zap.String("message", message))
	return next.Notification
}

// Current returns the notification on display, if any.
func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notification{}, false
	}
	return n.current.Notification, true
}

// Acknowledge dismisses the notification with the given id. It reports false when that
// notification is no longer on display.
func (n *Notifier) Acknowledge(id string) bool {
	return n.dismiss(id)
}

// Dismiss removes whatever notification is on display.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	prev := n.current
	n.current = nil
	n.mu.Unlock()
	n.finish(prev)
}

func (n *Notifier) dismiss(id string) bool {
	n.mu.Lock()
	if n.current == nil || n.current.ID != id {
		n.mu.Unlock()
		return false
	}
	prev := n.current
	n.current = nil
	n.mu.Unlock()

	n.finish(prev)
	return true
}

// finish runs outside the lock so callbacks may show another notification.
func (n *Notifier) finish(e *entry) {
	if e == nil {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	if e.onDismiss != nil {
		e.onDismiss()
	}
}
