package wizard

import "go.uber.org/zap"

// Event is a semantic notification emitted by the orchestrator. Rendering
// (toast, websocket push, ...) is someone else's job.
type Event struct {
	Kind    string `json:"kind"` // "info" or "error"
	Message string `json:"message"`
}

type Notifier interface {
	Notify(sessionID string, ev Event)
}

type NopNotifier struct{}

func (NopNotifier) Notify(string, Event) {}

// LogNotifier writes events to the service log.
type LogNotifier struct{ Log *zap.Logger }

func (n LogNotifier) Notify(sessionID string, ev Event) {
	n.Log.Info("wizard event",
		zap.String("session_id", sessionID),
		zap.String("kind", ev.Kind),
		zap.String("message", ev.Message),
	)
}
