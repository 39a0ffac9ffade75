package notify

import (
	"context"

	"github.com/slack-go/slack"
)

// SlackNotifier sends run summaries through the Slack Web API using a bot
// token.
type SlackNotifier struct {
	client  *slack.Client
	channel string
}

// NewSlackNotifier creates a notifier posting to the given channel. Extra
// options are passed through to the underlying client, which lets tests point
// it at a local server.
func NewSlackNotifier(botToken, channel string, opts ...slack.Option) *SlackNotifier {
	return &SlackNotifier{
		client:  slack.New(botToken, opts...),
		channel: channel,
	}
}

// Notify posts the message to the configured channel.
func (s *SlackNotifier) Notify(ctx context.Context, message string) error {
	channel := s.channel
	if channel == "" {
		channel = "#general"
	}

	_, _, err := s.client.PostMessageContext(ctx, channel, slack.MsgOptionText(message, false))
	return err
}
