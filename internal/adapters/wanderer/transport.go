package wanderer

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"wanderer-acl-sync/internal/metrics"
)

// MetricsRoundTripper records duration and count of every Wanderer API
// request, labelled by endpoint family and status.
type MetricsRoundTripper struct {
	Proxied http.RoundTripper
}

func NewMetricsRoundTripper(proxied http.RoundTripper) *MetricsRoundTripper {
	if proxied == nil {
		proxied = http.DefaultTransport
	}
	return &MetricsRoundTripper{Proxied: proxied}
}

func (mrt *MetricsRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := mrt.Proxied.RoundTrip(req)
	duration := time.Since(start).Seconds()

	status := "error"
	if err == nil {
		status = fmt.Sprintf("%d", resp.StatusCode)
	}

	endpoint := classifyEndpoint(req.URL.Path)

	metrics.WandererRequestDuration.WithLabelValues(endpoint, status).Observe(duration)
	metrics.WandererRequests.WithLabelValues(endpoint, status).Inc()

	return resp, err
}

func classifyEndpoint(path string) string {
	switch {
	case strings.Contains(path, "/api/map/acls"):
		return "map_acls"
	case strings.Contains(path, "/members"):
		return "members"
	case strings.Contains(path, "/api/acls/"):
		return "acl"
	}
	return "unknown"
}
