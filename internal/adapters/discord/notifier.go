package discord

import (
	"fmt"
	"log/slog"
	"strings"

	"wanderer-acl-sync/internal/adapters/discord/formatting"
	"wanderer-acl-sync/internal/core/domain"
	"wanderer-acl-sync/internal/metrics"

	"github.com/bwmarrin/discordgo"
)

// WebhookSession is the slice of discordgo the notifier needs.
type WebhookSession interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Notifier posts reconciliation failures to a Discord webhook so map
// operators see them without digging through logs. Webhook execution
// needs no bot token.
type Notifier struct {
	session      WebhookSession
	webhookID    string
	webhookToken string
}

func NewNotifier(webhookURL string) (*Notifier, error) {
	id, token, err := parseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}

	session, err := discordgo.New("")
	if err != nil {
		slog.Error("Failed to create discord session", "error", err)
		return nil, err
	}

	return &Notifier{
		session:      session,
		webhookID:    id,
		webhookToken: token,
	}, nil
}

func (n *Notifier) SendSyncFailure(m domain.ManagedMap, result *domain.ReconciliationResult) error {
	return n.send(formatting.MsgSyncFailure(m.Slug, result.Failures()))
}

func (n *Notifier) SendPassError(m domain.ManagedMap, err error) error {
	return n.send(formatting.MsgPassError(m.Slug, err))
}

func (n *Notifier) send(content string) error {
	_, err := n.session.WebhookExecute(n.webhookID, n.webhookToken, false, &discordgo.WebhookParams{
		Content: content,
	})
	if err != nil {
		slog.Error("Failed to execute webhook", "error", err)
		metrics.NotificationsSent.WithLabelValues("failure").Inc()
		return err
	}

	metrics.NotificationsSent.WithLabelValues("success").Inc()
	return nil
}

// parseWebhookURL splits a https://discord.com/api/webhooks/{id}/{token}
// URL into its id and token parts.
func parseWebhookURL(raw string) (string, string, error) {
	const marker = "/api/webhooks/"

	idx := strings.Index(raw, marker)
	if idx < 0 {
		return "", "", fmt.Errorf("not a discord webhook URL")
	}

	rest := strings.Trim(raw[idx+len(marker):], "/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("webhook URL missing id or token")
	}

	return parts[0], parts[1], nil
}
