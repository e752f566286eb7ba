package services

import (
	"context"
	"log/slog"

	"github.com/archivar1/Hack-ITMO-2025/models"
	"github.com/archivar1/Hack-ITMO-2025/storage"
)

// AlertBus persists notifications and fans them out to connected websocket
// clients. Emitting never fails the calling operation.
type AlertBus struct {
	store storage.Store
	hub   *RealtimeHub
}

func NewAlertBus(store storage.Store, hub *RealtimeHub) *AlertBus {
	return &AlertBus{store: store, hub: hub}
}

// Emit is safe to call on a nil bus.
func (b *AlertBus) Emit(ctx context.Context, chatID, typ, message string) {
	if b == nil {
		return
	}

	alert := &models.Alert{ChatID: chatID, Type: typ, Message: message}
	if err := b.store.CreateAlert(ctx, alert); err != nil {
		slog.Error("failed to persist alert", "chat_id", chatID, "type", typ, "error", err)
	}

	if b.hub != nil {
		b.hub.Broadcast(chatID, map[string]any{
			"kind":  "alert.created",
			"alert": alert,
		})
	}
}
