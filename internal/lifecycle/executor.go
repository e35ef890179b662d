package lifecycle

import (
	"bridged/internal/models"
)

// SideEffect describes one notification or email to enqueue alongside a
// transition. Effects are written to the outbox in the same transaction as
// the primary field update; delivery happens asynchronously and its failure
// never rolls the transition back.
type SideEffect struct {
	Kind      string // models.OutboxEmail or models.OutboxNotification
	EventType string
	Payload   models.Payload
}

// Email builds an email side effect.
func Email(eventType, to string, payload models.Payload) SideEffect {
	if payload == nil {
		payload = models.Payload{}
	}
	payload["to"] = to
	return SideEffect{Kind: models.OutboxEmail, EventType: eventType, Payload: payload}
}

// Notify builds an in-app notification side effect.
func Notify(eventType string, userID int, title, message string) SideEffect {
	return SideEffect{
		Kind:      models.OutboxNotification,
		EventType: eventType,
		Payload: models.Payload{
			"user_id": userID,
			"title":   title,
			"message": message,
		},
	}
}

// enqueue persists side effects inside the caller's transaction.
func enqueue(tx *models.DB, effects ...SideEffect) error {
	for _, e := range effects {
		event := &models.OutboxEvent{
			Kind:      e.Kind,
			EventType: e.EventType,
			Payload:   e.Payload,
			Status:    models.OutboxPending,
		}
		if err := tx.Outbox.Create(event); err != nil {
			return err
		}
	}
	return nil
}
