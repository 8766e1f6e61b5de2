package firebase

import (
	"context"

	"firebase.google.com/go/v4/messaging"

	"olicore/pkg/logger"
)

// PushClient sends multicast pushes through FCM and reports which tokens
// the provider declared permanently invalid.
type PushClient struct {
	client *messaging.Client
}

func NewPushClient(client *messaging.Client) *PushClient {
	return &PushClient{
		client: client,
	}
}

// SendToTokens delivers one push to every token. Data values must already
// be strings; FCM rejects anything else in the data payload. The returned
// slice holds tokens that should be deleted; transient per-token failures
// are only logged.
func (p *PushClient) SendToTokens(ctx context.Context, tokens []string, title, body string, data map[string]string) ([]string, error) {
	badge := 1
	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "oli_notifications",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
					Badge: &badge,
				},
			},
		},
	}

	response, err := p.client.SendEachForMulticast(ctx, message)
	if err != nil {
		return nil, err
	}

	var invalid []string
	for i, result := range response.Responses {
		if result.Success {
			continue
		}
		if messaging.IsUnregistered(result.Error) || messaging.IsInvalidArgument(result.Error) {
			invalid = append(invalid, tokens[i])
			continue
		}
		logger.Warn("Push to token %s failed transiently: %v", tokens[i], result.Error)
	}

	logger.Info("Push multicast: %d/%d delivered, %d invalid tokens",
		response.SuccessCount, len(tokens), len(invalid))

	return invalid, nil
}
