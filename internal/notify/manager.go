package notify

import (
	"context"
	"os"

	"github.com/spf13/viper"
)

// Event types
const (
	EventSuccess = "on_success"
	EventFailure = "on_failure"
)

// Manager fans a run summary out to every configured notifier. Delivery
// problems are logged and never fail a benchmark run.
type Manager struct {
	notifiers []Notifier
	logger    func(string, ...interface{})
}

// NewManager builds a manager from viper configuration. Providers without
// complete configuration are skipped with a warning.
func NewManager(logger func(string, ...interface{})) *Manager {
	m := &Manager{logger: logger}
	m.initSlack()
	m.initWebhook()
	return m
}

func (m *Manager) initSlack() {
	if !viper.GetBool("notifications.slack.enabled") {
		return
	}

	botToken := os.Getenv("SLACK_BOT_USER_TOKEN")
	if botToken == "" {
		m.logf("Warning: SLACK_BOT_USER_TOKEN not set, slack notifications disabled")
		return
	}

	m.notifiers = append(m.notifiers,
		NewSlackNotifier(botToken, viper.GetString("notifications.slack.channel")))
}

func (m *Manager) initWebhook() {
	if !viper.GetBool("notifications.webhook.enabled") {
		return
	}

	url := viper.GetString("notifications.webhook.url")
	if url == "" {
		m.logf("Warning: notifications.webhook.url not set, webhook notifications disabled")
		return
	}

	m.notifiers = append(m.notifiers, NewWebhookNotifier(url))
}

// Notify sends the message for the event if that event is enabled in
// configuration. Errors from individual providers are logged, not returned.
func (m *Manager) Notify(ctx context.Context, eventType, message string) {
	if len(m.notifiers) == 0 {
		return
	}
	if !viper.GetBool("notifications.events." + eventType) {
		return
	}

	for _, n := range m.notifiers {
		if err := n.Notify(ctx, message); err != nil {
			m.logf("Failed to send notification: %v", err)
		}
	}
}

func (m *Manager) logf(format string, args ...interface{}) {
	if m.logger != nil {
		m.logger(format, args...)
	}
}
