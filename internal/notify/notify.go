// Package notify sends desktop notifications for finished edits.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/example/retouch/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventSave fires when an edited image is written to disk.
	EventSave Event = "save"
	// EventCopy fires when an edited image is placed on the clipboard.
	EventCopy Event = "copy"
)

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: platform.AppName,
		Events: map[Event]EventPreference{
			EventSave: {Template: "Saved %s"},
			EventCopy: {Template: "Copied %s to clipboard"},
		},
	}
}

type envPreferences struct {
	Title    string `envconfig:"NOTIFY_TITLE"`
	SaveText string `envconfig:"NOTIFY_SAVE_TEXT"`
	CopyText string `envconfig:"NOTIFY_COPY_TEXT"`
}

// LoadPreferences reads RETOUCH_NOTIFY_* overrides from the environment.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	var e envPreferences
	if err := envconfig.Process("RETOUCH", &e); err != nil {
		slog.Warn("notification preferences", "err", err)
		return prefs
	}
	if v := strings.TrimSpace(e.Title); v != "" {
		prefs.Title = v
	}
	apply := func(v string, event Event) {
		if v = strings.TrimSpace(v); v != "" {
			prefs.Events[event] = EventPreference{Template: v}
		}
	}
	apply(e.SaveText, EventSave)
	apply(e.CopyText, EventCopy)
	return prefs
}

// Sender delivers a formatted notification.
type Sender func(title, body string, opts platform.Options) error

// Notifier sends OS-level notifications based on the configured preferences.
// A nil Notifier is valid and sends nothing.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    Sender
	log     *slog.Logger
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithSender replaces the platform notification service.
func WithSender(s Sender) Option { return func(n *Notifier) { n.send = s } }

// WithLogger sets the logger used for delivery failures.
func WithLogger(l *slog.Logger) Option { return func(n *Notifier) { n.log = l } }

// New creates a new Notifier using the provided preferences.
func New(prefs Preferences, opts ...Option) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	n := &Notifier{
		prefs:   cloned,
		enabled: make(map[Event]bool),
		send:    platform.Notify,
		log:     slog.Default(),
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Save sends a save notification naming the written file.
func (n *Notifier) Save(path string) {
	if !n.enabledFor(EventSave) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, statErr := os.Stat(abs); statErr == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventSave, detail, opts)
}

// Copy sends a clipboard notification with an optional image preview.
func (n *Notifier) Copy(detail string, img image.Image) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	opts := platform.Options{}
	if img != nil {
		path, cleanup, err := createPreview(img)
		if err != nil {
			n.log.Warn("notification preview", "err", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCopy, detail, opts)
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	template := strings.TrimSpace(n.prefs.Events[event].Template)
	if template == "" {
		return
	}
	body := template
	if strings.Contains(template, "%") {
		body = fmt.Sprintf(template, strings.TrimSpace(detail))
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		n.log.Warn("notification", "event", string(event), "err", err)
	}
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "retouch-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() { _ = os.Remove(path) }
	return path, cleanup, nil
}
