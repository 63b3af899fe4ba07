package wanderer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wanderer-acl-sync/internal/config"
	"wanderer-acl-sync/internal/core/domain"
)

// Client talks to the Wanderer HTTP API. All knobs (timeouts, retry
// budget, backoff, retryable statuses) come from the injected config;
// there are no package-level defaults.
type Client struct {
	httpClient    *http.Client
	timeout       time.Duration
	longTimeout   time.Duration
	retryTotal    int
	retryBackoff  time.Duration
	retryStatuses map[int]bool

	// sleep is swappable so tests do not wait out real backoffs.
	sleep func(time.Duration)
}

func NewClient(cfg *config.Config) *Client {
	statuses := make(map[int]bool, len(cfg.RetryStatusCodes))
	for _, code := range cfg.RetryStatusCodes {
		statuses[code] = true
	}

	return &Client{
		httpClient: &http.Client{
			Transport: NewMetricsRoundTripper(http.DefaultTransport),
		},
		timeout:       cfg.APITimeout,
		longTimeout:   cfg.APILongTimeout,
		retryTotal:    cfg.RetryTotal,
		retryBackoff:  cfg.RetryBackoff,
		retryStatuses: statuses,
		sleep:         time.Sleep,
	}
}

func (c *Client) ListMembers(ctx context.Context, acl domain.ACLRef) ([]domain.Member, error) {
	u := fmt.Sprintf("%s/api/acls/%s", baseURL(acl.BaseURL), url.PathEscape(acl.ID))

	status, body, err := c.do(ctx, http.MethodGet, u, acl.APIKey, nil, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	if err := c.checkStatus("list members", acl.APIKey, status, body); err != nil {
		return nil, err
	}

	var data aclMembersResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("list members: decode response: %w", err)
	}

	members := make([]domain.Member, 0, len(data.Data.Members))
	for _, m := range data.Data.Members {
		if m.EveCharacterID == "" {
			continue
		}
		id, err := strconv.ParseInt(m.EveCharacterID, 10, 64)
		if err != nil {
			slog.Warn("Skipping ACL member with malformed character id", "acl_id", acl.ID, "character_id", m.EveCharacterID)
			continue
		}
		role, err := domain.ParseRole(m.Role)
		if err != nil {
			return nil, fmt.Errorf("list members: %w", err)
		}
		members = append(members, domain.Member{CharacterID: id, Role: role})
	}

	return members, nil
}

func (c *Client) AddMember(ctx context.Context, acl domain.ACLRef, characterID int64, role domain.Role) error {
	u := fmt.Sprintf("%s/api/acls/%s/members", baseURL(acl.BaseURL), url.PathEscape(acl.ID))

	var payload addMemberRequest
	payload.Member.EveCharacterID = strconv.FormatInt(characterID, 10)
	payload.Member.Role = string(role)

	status, body, err := c.do(ctx, http.MethodPost, u, acl.APIKey, payload, c.timeout)
	if err != nil {
		return fmt.Errorf("add member %d: %w", characterID, err)
	}
	return c.checkStatus(fmt.Sprintf("add member %d", characterID), acl.APIKey, status, body)
}

func (c *Client) SetRole(ctx context.Context, acl domain.ACLRef, characterID int64, role domain.Role) error {
	u := fmt.Sprintf("%s/api/acls/%s/members/%d", baseURL(acl.BaseURL), url.PathEscape(acl.ID), characterID)

	var payload setRoleRequest
	payload.Member.Role = string(role)

	status, body, err := c.do(ctx, http.MethodPut, u, acl.APIKey, payload, c.timeout)
	if err != nil {
		return fmt.Errorf("set role of %d: %w", characterID, err)
	}
	return c.checkStatus(fmt.Sprintf("set role of %d to %s", characterID, role), acl.APIKey, status, body)
}

func (c *Client) RemoveMember(ctx context.Context, acl domain.ACLRef, characterID int64) error {
	u := fmt.Sprintf("%s/api/acls/%s/members/%d", baseURL(acl.BaseURL), url.PathEscape(acl.ID), characterID)

	status, body, err := c.do(ctx, http.MethodDelete, u, acl.APIKey, nil, c.timeout)
	if err != nil {
		return fmt.Errorf("remove member %d: %w", characterID, err)
	}
	return c.checkStatus(fmt.Sprintf("remove member %d", characterID), acl.APIKey, status, body)
}

func (c *Client) GetMemberRole(ctx context.Context, acl domain.ACLRef, characterID int64) (domain.Role, error) {
	u := fmt.Sprintf("%s/api/acls/%s/members/%d", baseURL(acl.BaseURL), url.PathEscape(acl.ID), characterID)

	status, body, err := c.do(ctx, http.MethodGet, u, acl.APIKey, nil, c.timeout)
	if err != nil {
		return "", fmt.Errorf("get role of %d: %w", characterID, err)
	}
	if err := c.checkStatus(fmt.Sprintf("get role of %d", characterID), acl.APIKey, status, body); err != nil {
		return "", err
	}

	var data memberEnvelope
	if err := json.Unmarshal(body, &data); err != nil {
		return "", fmt.Errorf("get role of %d: decode response: %w", characterID, err)
	}
	if data.Member.Role == "" {
		return domain.RoleMember, nil
	}
	return domain.ParseRole(data.Member.Role)
}

func (c *Client) CreateACL(ctx context.Context, m domain.ManagedMap) (string, string, error) {
	slog.Info("Creating ACL on wanderer",
		"url", SanitizeURL(m.WandererURL),
		"map", m.Slug,
		"owner_character_id", m.OwnerCharacterID,
		"map_api_key", SanitizeKey(m.MapAPIKey),
	)

	u := fmt.Sprintf("%s/api/map/acls?slug=%s", baseURL(m.WandererURL), url.QueryEscape(m.Slug))

	var payload createACLRequest
	payload.ACL.Name = domain.ManagedACLName(m.Slug)
	payload.ACL.Description = domain.ManagedACLDescription(m.Slug)
	payload.ACL.OwnerEveID = strconv.FormatInt(m.OwnerCharacterID, 10)

	status, body, err := c.do(ctx, http.MethodPost, u, m.MapAPIKey, payload, c.longTimeout)
	if err != nil {
		return "", "", fmt.Errorf("create acl: %w", err)
	}

	// The API answers 400 with this marker when the owner character has
	// never logged into Wanderer.
	if status == http.StatusBadRequest && strings.Contains(string(body), "owner_eve_id does not match any existing character") {
		return "", "", fmt.Errorf("create acl for map %s: character %d: %w", m.Slug, m.OwnerCharacterID, domain.ErrOwnerUnknown)
	}
	if err := c.checkStatus("create acl", m.MapAPIKey, status, body); err != nil {
		return "", "", err
	}

	var data createACLResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return "", "", fmt.Errorf("create acl: decode response: %w", err)
	}
	if data.Data.ID == "" || data.Data.APIKey == "" {
		return "", "", fmt.Errorf("create acl: response missing id or api key")
	}

	slog.Info("Created ACL", "map", m.Slug, "acl_id", data.Data.ID)
	return data.Data.ID, data.Data.APIKey, nil
}

func (c *Client) ListMapACLs(ctx context.Context, m domain.ManagedMap) ([]domain.ACLInfo, error) {
	u := fmt.Sprintf("%s/api/map/acls?slug=%s", baseURL(m.WandererURL), url.QueryEscape(m.Slug))

	status, body, err := c.do(ctx, http.MethodGet, u, m.MapAPIKey, nil, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("list map acls: %w", err)
	}
	if err := c.checkStatus("list map acls", m.MapAPIKey, status, body); err != nil {
		return nil, err
	}

	var data mapACLsResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("list map acls: decode response: %w", err)
	}

	acls := make([]domain.ACLInfo, 0, len(data.Data))
	for _, a := range data.Data {
		acls = append(acls, domain.ACLInfo{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			OwnerEveID:  a.OwnerEveID,
		})
	}
	return acls, nil
}

// do runs one request with Bearer auth and bounded retries. It returns
// the final status and body; err is set only for transport failures that
// survived the retry budget.
func (c *Client) do(ctx context.Context, method, rawURL, apiKey string, payload any, timeout time.Duration) (int, []byte, error) {
	var reqBody []byte
	if payload != nil {
		var err error
		reqBody, err = json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request: %w", err)
		}
	}

	backoff := c.retryBackoff
	for attempt := 0; ; attempt++ {
		status, body, err := c.attempt(ctx, method, rawURL, apiKey, reqBody, timeout)
		if err != nil {
			if attempt >= c.retryTotal || ctx.Err() != nil {
				return 0, nil, fmt.Errorf("%s %s: %w: %v", method, SanitizeURL(rawURL), domain.ErrTransient, err)
			}
		} else if !c.retryStatuses[status] || attempt >= c.retryTotal {
			return status, body, nil
		}

		slog.Debug("Retrying wanderer request", "method", method, "url", SanitizeURL(rawURL), "attempt", attempt+1, "backoff", backoff)
		c.sleep(backoff)
		backoff *= 2
	}
}

func (c *Client) attempt(ctx context.Context, method, rawURL, apiKey string, reqBody []byte, timeout time.Duration) (int, []byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if reqBody != nil {
		reader = bytes.NewReader(reqBody)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, rawURL, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}

	return resp.StatusCode, body, nil
}

// checkStatus maps a final response status onto the domain error classes.
func (c *Client) checkStatus(op, apiKey string, status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%s: api key %s: %w", op, SanitizeKey(apiKey), domain.ErrAuth)
	case status == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	case c.retryStatuses[status]:
		return fmt.Errorf("%s: status %d after %d retries: %w", op, status, c.retryTotal, domain.ErrTransient)
	default:
		return fmt.Errorf("%s: unexpected status %d: %s", op, status, snippet(body))
	}
}

func baseURL(raw string) string {
	return strings.TrimRight(raw, "/")
}

func snippet(body []byte) string {
	const max = 200
	s := string(body)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
