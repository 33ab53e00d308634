// Package videourl recognizes video-sharing URLs and probes whether they are reachable.
package videourl

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// DefaultProbeTimeout bounds a single reachability probe.
const DefaultProbeTimeout = 5 * time.Second

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

var longHosts = map[string]bool{
	"youtube.com":              true,
	"www.youtube.com":          true,
	"m.youtube.com":            true,
	"music.youtube.com":        true,
	"youtube-nocookie.com":     true,
	"www.youtube-nocookie.com": true,
}

var shortHosts = map[string]bool{
	"youtu.be":     true,
	"www.youtu.be": true,
}

// path prefixes that are followed directly by the video id
var idPrefixes = []string{"/embed/", "/v/", "/shorts/", "/live/"}

// IsValidVideoURL reports whether raw has the shape of a video link with an 11 character id.
// The scheme is optional.
func IsValidVideoURL(raw string) bool {
	_, ok := ExtractVideoID(raw)
	return ok
}

// ExtractVideoID returns the video id carried by raw.
//
// Accepted shapes:
//
//	https://www.youtube.com/watch?v=ID
//	https://www.youtube.com/<anything>?v=ID
//	https://www.youtube.com/embed/ID
//	https://www.youtube.com/v/ID
//	https://www.youtube.com/shorts/ID
//	https://youtu.be/ID
func ExtractVideoID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	host := strings.ToLower(u.Hostname())

	var id string
	switch {
	case shortHosts[host]:
		id = firstSegment(u.Path, "/")
	case longHosts[host]:
		if v := u.Query().Get("v"); v != "" {
			id = v
			break
		}
		for _, prefix := range idPrefixes {
			if strings.HasPrefix(u.Path, prefix) {
				id = firstSegment(u.Path, prefix)
				break
			}
		}
	}
	if !idPattern.MatchString(id) {
		return "", false
	}
	return id, true
}

func firstSegment(path, prefix string) string {
	rest := strings.TrimPrefix(path, prefix)
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

// Prober checks that a URL answers a header-only request.
type Prober struct {
	Client  *http.Client
	Timeout time.Duration
}

// NewProber returns a Prober using http.DefaultClient and DefaultProbeTimeout.
func NewProber() *Prober {
	return &Prober{Client: http.DefaultClient, Timeout: DefaultProbeTimeout}
}

// IsReachable issues a HEAD request and reports whether it returned a 2xx status.
// Every failure (bad URL, network error, timeout, non-2xx) yields false.
func (p *Prober) IsReachable(ctx context.Context, rawURL string) bool {
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
