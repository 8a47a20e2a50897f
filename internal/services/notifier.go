package services

import (
	"context"
	"log"

	"github.com/tripdesk/tripdesk-backend/internal/models"
	"gorm.io/gorm"
)

// PushNotifier fans a confirmed booking out to every reachable driver:
// connected websocket clients, registered FCM tokens, and the Redis channel
// other instances subscribe to. All three legs are best-effort; failures are
// logged with the booking id for offline reconciliation and never propagated.
type PushNotifier struct {
	db  *gorm.DB
	hub *Hub
}

func NewPushNotifier(db *gorm.DB, hub *Hub) *PushNotifier {
	return &PushNotifier{db: db, hub: hub}
}

type driverToken struct {
	ID       uint
	FCMToken string `gorm:"column:fcm_token"`
}

func (n *PushNotifier) NotifyTripConfirmed(ctx context.Context, payload TripConfirmedPayload) {
	if n.hub != nil {
		n.hub.SendTripConfirmed(payload)
	}

	var drivers []driverToken
	err := n.db.WithContext(ctx).
		Model(&models.User{}).
		Where("user_type = ? AND fcm_token <> ''", models.UserTypeDriver).
		Find(&drivers).Error
	if err != nil {
		log.Printf("Booking %d: failed to load driver tokens: %v", payload.BookingID, err)
	} else if tokens := reachableTokens(ctx, drivers); len(tokens) > 0 {
		if _, err := SendTripConfirmedPush(ctx, tokens, payload); err != nil {
			log.Printf("Booking %d: push fan-out failed: %v", payload.BookingID, err)
		}
	}

	if RedisClient != nil {
		if err := PublishTripConfirmed(ctx, payload); err != nil {
			log.Printf("Booking %d: failed to publish trip confirmed: %v", payload.BookingID, err)
		}
	}
}

// reachableTokens drops drivers whose availability flag in Redis is false.
// A missing key or a lookup failure counts as reachable.
func reachableTokens(ctx context.Context, drivers []driverToken) []string {
	tokens := make([]string, 0, len(drivers))
	for _, d := range drivers {
		if RedisClient != nil {
			if available, err := GetDriverAvailability(ctx, d.ID); err == nil && !available {
				continue
			}
		}
		tokens = append(tokens, d.FCMToken)
	}
	return tokens
}
