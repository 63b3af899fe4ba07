package discord

import (
	"errors"
	"strings"
	"testing"

	"wanderer-acl-sync/internal/core/domain"

	"github.com/bwmarrin/discordgo"
)

type mockWebhookSession struct {
	executeFunc func(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

func (m *mockWebhookSession) WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if m.executeFunc != nil {
		return m.executeFunc(webhookID, token, wait, data, options...)
	}
	return nil, nil
}

func TestParseWebhookURL(t *testing.T) {
	t.Run("valid URL", func(t *testing.T) {
		id, token, err := parseWebhookURL("https://discord.com/api/webhooks/123456/tok-en_value")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id != "123456" || token != "tok-en_value" {
			t.Errorf("unexpected parts: %q %q", id, token)
		}
	})

	t.Run("trailing slash", func(t *testing.T) {
		id, token, err := parseWebhookURL("https://discord.com/api/webhooks/123/abc/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id != "123" || token != "abc" {
			t.Errorf("unexpected parts: %q %q", id, token)
		}
	})

	t.Run("not a webhook URL", func(t *testing.T) {
		if _, _, err := parseWebhookURL("https://example.com/hook"); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("missing token", func(t *testing.T) {
		if _, _, err := parseWebhookURL("https://discord.com/api/webhooks/123"); err == nil {
			t.Error("expected error")
		}
	})
}

func TestNotifier_SendSyncFailure(t *testing.T) {
	var gotID, gotToken, gotContent string
	session := &mockWebhookSession{
		executeFunc: func(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
			gotID, gotToken, gotContent = webhookID, token, data.Content
			return nil, nil
		},
	}

	n := &Notifier{session: session, webhookID: "123", webhookToken: "tok"}

	result := &domain.ReconciliationResult{}
	result.Record(101, domain.ActionUpdate, domain.RoleAdmin, errors.New("boom"))
	result.Record(202, domain.ActionAdd, domain.RoleManager, nil)

	m := domain.ManagedMap{Slug: "home-map"}
	if err := n.SendSyncFailure(m, result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotID != "123" || gotToken != "tok" {
		t.Errorf("unexpected webhook target: %q %q", gotID, gotToken)
	}
	if !strings.Contains(gotContent, "home-map") || !strings.Contains(gotContent, "character 101") {
		t.Errorf("unexpected content: %q", gotContent)
	}
	if strings.Contains(gotContent, "character 202") {
		t.Errorf("succeeded character should not be listed: %q", gotContent)
	}
}

func TestNotifier_SendPassError(t *testing.T) {
	session := &mockWebhookSession{
		executeFunc: func(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
			return nil, errors.New("discord down")
		},
	}

	n := &Notifier{session: session, webhookID: "123", webhookToken: "tok"}

	err := n.SendPassError(domain.ManagedMap{Slug: "home-map"}, errors.New("list failed"))
	if err == nil {
		t.Error("expected webhook error to surface")
	}
}
