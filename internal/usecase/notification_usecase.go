package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"olicore/internal/domain/entity"
	"olicore/internal/domain/repository"
	ws "olicore/internal/infrastructure/websocket"
	"olicore/pkg/errors"
	"olicore/pkg/logger"
)

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	deviceTokenRepo  repository.DeviceTokenRepository
	emitter          RealtimeEmitter
	push             PushSender
	pushTimeout      time.Duration

	dispatches sync.WaitGroup
}

func NewNotificationUseCase(
	notificationRepo repository.NotificationRepository,
	deviceTokenRepo repository.DeviceTokenRepository,
	emitter RealtimeEmitter,
	push PushSender,
	pushTimeout time.Duration,
) *NotificationUseCase {
	if pushTimeout <= 0 {
		pushTimeout = 10 * time.Second
	}

	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		deviceTokenRepo:  deviceTokenRepo,
		emitter:          emitter,
		push:             push,
		pushTimeout:      pushTimeout,
	}
}

// Notify fans one event out over the three channels. The durable row is
// written first and is the only phase that can fail the call; the socket
// emit and the push dispatch run after it and never report back to the
// caller. The push leg is detached from the request with its own timeout.
func (uc *NotificationUseCase) Notify(ctx context.Context, userID, notifType, title, body string, data map[string]interface{}) (*entity.Notification, error) {
	notification := &entity.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, errors.BadRequest("Invalid notification data", err)
		}
		notification.Data = raw
	}

	if err := uc.notificationRepo.Create(ctx, notification); err != nil {
		return nil, err
	}

	uc.emitter.EmitToUser(userID, ws.EventNewNotification, notification)

	uc.dispatches.Add(1)
	go func() {
		defer uc.dispatches.Done()
		pushCtx, cancel := context.WithTimeout(context.Background(), uc.pushTimeout)
		defer cancel()
		uc.dispatchPush(pushCtx, userID, title, body, stringifyPayload(data))
	}()

	return notification, nil
}

// dispatchPush is phase three: load the user's device tokens, send one
// multicast, prune tokens the provider declared dead. Every failure ends
// here as a log line; the notification row already persisted is the
// client's recovery path.
func (uc *NotificationUseCase) dispatchPush(ctx context.Context, userID, title, body string, data map[string]string) {
	tokens, err := uc.deviceTokenRepo.ListByUser(ctx, userID)
	if err != nil {
		logger.Error("Push dispatch: failed to load tokens for user %s: %v", userID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	values := make([]string, len(tokens))
	for i, t := range tokens {
		values[i] = t.Token
	}

	invalid, err := uc.push.SendToTokens(ctx, values, title, body, data)
	if err != nil {
		logger.Error("Push dispatch failed for user %s: %v", userID, err)
		return
	}

	if len(invalid) > 0 {
		pruned, err := uc.deviceTokenRepo.DeleteByTokens(ctx, invalid)
		if err != nil {
			logger.Error("Failed to prune %d invalid tokens for user %s: %v", len(invalid), userID, err)
			return
		}
		logger.Info("Pruned %d invalid device tokens for user %s", pruned, userID)
	}
}

// Drain blocks until in-flight push dispatches finish. Called on shutdown.
func (uc *NotificationUseCase) Drain() {
	uc.dispatches.Wait()
}

// stringifyPayload coerces every data value to a string in one place; the
// push provider rejects non-string values in the data payload.
func stringifyPayload(data map[string]interface{}) map[string]string {
	out := make(map[string]string, len(data))
	for key, value := range data {
		if value == nil {
			continue
		}
		switch v := value.(type) {
		case string:
			out[key] = v
		case fmt.Stringer:
			out[key] = v.String()
		default:
			out[key] = fmt.Sprintf("%v", v)
		}
	}
	return out
}

// NotifyNewMessage is the fanout hook for the message store.
func (uc *NotificationUseCase) NotifyNewMessage(ctx context.Context, userID, senderName, preview string, data map[string]interface{}) {
	title := "New message"
	if senderName != "" {
		title = fmt.Sprintf("New message from %s", senderName)
	}

	if _, err := uc.Notify(ctx, userID, entity.NotificationTypeMessage, title, preview, data); err != nil {
		logger.Error("Failed to persist message notification for user %s: %v", userID, err)
	}
}

// NotifyOrderStatus is the entire contract with the order subsystem: one
// status change in, one notification out.
func (uc *NotificationUseCase) NotifyOrderStatus(ctx context.Context, userID, orderID, status string) (*entity.Notification, error) {
	var title, body string
	switch status {
	case "confirmed":
		title = "Order confirmed"
		body = fmt.Sprintf("Your order #%s has been confirmed", orderID)
	case "shipped":
		title = "Order shipped"
		body = fmt.Sprintf("Your order #%s is on its way", orderID)
	case "delivered":
		title = "Order delivered"
		body = fmt.Sprintf("Your order #%s has been delivered", orderID)
	case "cancelled":
		title = "Order cancelled"
		body = fmt.Sprintf("Your order #%s has been cancelled", orderID)
	default:
		title = "Order update"
		body = fmt.Sprintf("Your order #%s has been updated", orderID)
	}

	return uc.Notify(ctx, userID, entity.NotificationTypeOrder, title, body, map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})
}

// NotifySystem emits a system notice to one user.
func (uc *NotificationUseCase) NotifySystem(ctx context.Context, userID, title, body string, data map[string]interface{}) (*entity.Notification, error) {
	return uc.Notify(ctx, userID, entity.NotificationTypeSystem, title, body, data)
}

func (uc *NotificationUseCase) RegisterDeviceToken(ctx context.Context, userID, token, platform string) error {
	if token == "" {
		return errors.BadRequest("Token is required", nil)
	}
	if platform == "" {
		platform = "android"
	}

	return uc.deviceTokenRepo.Upsert(ctx, &entity.DeviceToken{
		UserID:   userID,
		Token:    token,
		Platform: platform,
	})
}

func (uc *NotificationUseCase) UnregisterDeviceToken(ctx context.Context, userID, token string) error {
	if token == "" {
		return errors.BadRequest("Token is required", nil)
	}

	_, err := uc.deviceTokenRepo.Delete(ctx, userID, token)
	return err
}

type NotificationListResult struct {
	Notifications []*entity.Notification `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}

func (uc *NotificationUseCase) ListNotifications(ctx context.Context, userID string, limit int) (*NotificationListResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	notifications, err := uc.notificationRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	unread, err := uc.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &NotificationListResult{
		Notifications: notifications,
		UnreadCount:   unread,
	}, nil
}

func (uc *NotificationUseCase) CountUnreadNotifications(ctx context.Context, userID string) (int64, error) {
	return uc.notificationRepo.CountUnread(ctx, userID)
}

func (uc *NotificationUseCase) MarkNotificationRead(ctx context.Context, id, userID string) (*entity.Notification, error) {
	return uc.notificationRepo.MarkRead(ctx, id, userID)
}

func (uc *NotificationUseCase) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	return uc.notificationRepo.MarkAllRead(ctx, userID)
}

func (uc *NotificationUseCase) DeleteNotification(ctx context.Context, id, userID string) error {
	deleted, err := uc.notificationRepo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.NotFound("Notification", nil)
	}
	return nil
}

func (uc *NotificationUseCase) DeleteReadNotifications(ctx context.Context, userID string) (int64, error) {
	return uc.notificationRepo.DeleteAllRead(ctx, userID)
}
