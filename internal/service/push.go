package service

import (
	"context"
	"fmt"

	"admission-portal-backend/internal/logger"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

type firebasePushService struct {
	client *messaging.Client
}

// NewFirebasePushService connects to Firebase Cloud Messaging with a
// service-account credentials file.
func NewFirebasePushService(ctx context.Context, credentialsFile, projectID string) (PushService, error) {
	var cfg *firebase.Config
	if projectID != "" {
		cfg = &firebase.Config{ProjectID: projectID}
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase messaging: %w", err)
	}
	return &firebasePushService{client: client}, nil
}

func (s *firebasePushService) Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	logger.ExternalServiceCall("fcm", "send", "title", title)

	id, err := s.client.Send(ctx, &messaging.Message{
		Token: deviceToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	})

	logger.ExternalServiceResult("fcm", "send", err, "messageID", id)
	if err != nil {
		return fmt.Errorf("failed to send push notification: %w", err)
	}
	return nil
}

type noopPushService struct{}

// NewNoopPushService is used when push delivery is disabled.
func NewNoopPushService() PushService {
	return noopPushService{}
}

func (noopPushService) Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	logger.Debug("Push disabled, dropping message", "title", title)
	return nil
}
