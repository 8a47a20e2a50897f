package services

import (
	"context"
	"fmt"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var (
	// FirebaseApp is the Firebase app instance
	FirebaseApp *firebase.App
	// MessagingClient is the Firebase Cloud Messaging client
	MessagingClient *messaging.Client
)

// InitFirebase initializes Firebase Admin SDK
func InitFirebase() error {
	ctx := context.Background()

	serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
	if serviceAccountPath == "" {
		log.Println("Warning: FIREBASE_SERVICE_ACCOUNT_PATH not set. Push notifications will be disabled.")
		return nil
	}

	opt := option.WithCredentialsFile(serviceAccountPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return fmt.Errorf("error initializing firebase app: %v", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("error getting messaging client: %v", err)
	}

	FirebaseApp = app
	MessagingClient = client

	log.Println("Firebase Cloud Messaging initialized successfully")
	return nil
}

// SendTripConfirmedPush sends the confirmed-booking push to a batch of driver
// FCM tokens. Returns the number of failed deliveries.
func SendTripConfirmedPush(ctx context.Context, tokens []string, payload TripConfirmedPayload) (int, error) {
	if MessagingClient == nil {
		log.Println("Warning: Firebase not initialized. Skipping notifications.")
		return 0, nil
	}

	if len(tokens) == 0 {
		return 0, nil
	}

	message := &messaging.MulticastMessage{
		Notification: &messaging.Notification{
			Title: "New Trip Available",
			Body:  fmt.Sprintf("Trip from %s to %s", payload.PickupAddress, payload.DropAddress),
		},
		Data: map[string]string{
			"type":          "trip_confirmed",
			"bookingId":     fmt.Sprintf("%d", payload.BookingID),
			"pickupAddress": payload.PickupAddress,
			"dropAddress":   payload.DropAddress,
			"startTime":     payload.StartTime.Format("2006-01-02T15:04:05Z07:00"),
			"endTime":       payload.EndTime.Format("2006-01-02T15:04:05Z07:00"),
		},
		Tokens: tokens,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:        "default",
				ChannelID:    "tripdesk_dispatch",
				DefaultSound: true,
			},
		},
	}

	response, err := MessagingClient.SendEachForMulticast(ctx, message)
	if err != nil {
		return len(tokens), fmt.Errorf("error sending multicast message: %v", err)
	}

	log.Printf("Successfully sent %d messages, %d failures", response.SuccessCount, response.FailureCount)

	if response.FailureCount > 0 {
		for idx, resp := range response.Responses {
			if !resp.Success {
				log.Printf("Failed to send to token %s: %v", tokens[idx], resp.Error)
			}
		}
	}

	return response.FailureCount, nil
}
