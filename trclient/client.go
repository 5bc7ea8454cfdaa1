package trclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/trellisforge/trellis-build/trbuild"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// maxBodySize limits the size of response bodies read from the server.
const maxBodySize = 1 << 20

// Client is an HTTP client for the Trellis provisioning service. It
// implements trengine.Service and trengine.FileChecker.
//
// A client may be used by multiple goroutines.
type Client struct {
	base    *url.URL
	http    *http.Client
	limiter *rate.Limiter
}

// New returns a client for the server described by cfg. If token is not
// empty it is sent as a bearer token with every request.
//
// It returns an error if the configuration is invalid or if token is a
// JSON web token that has already expired.
func New(cfg trbuild.ServerConfig, token string) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base, err := url.Parse(strings.TrimSuffix(cfg.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("the server url \"%s\" is not valid: %w", cfg.URL, err)
	}

	var transport http.RoundTripper = http.DefaultTransport
	if token != "" {
		if err := CheckToken(token, time.Now()); err != nil {
			return nil, err
		}
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: token,
				TokenType:   "Bearer",
			}),
			Base: transport,
		}
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		base: base,
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout.Std(),
		},
		limiter: rate.NewLimiter(limit, burst),
	}, nil
}

// projectURL returns the URL of a route beneath the given project.
func (c *Client) projectURL(project trbuild.ProjectID, route string) string {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + "/api/v1/project/" + strconv.FormatInt(int64(project), 10) + "/" + route
	return u.String()
}

// invoke sends an empty JSON object to the route for the project and
// decodes the result.
func (c *Client) invoke(ctx context.Context, project trbuild.ProjectID, route string) (trbuild.Result, error) {
	if err := project.Validate(); err != nil {
		return trbuild.Result{}, err
	}

	body, err := c.do(ctx, http.MethodPost, c.projectURL(project, route), []byte("{}"), "application/json")
	if err != nil {
		return trbuild.Result{}, err
	}

	var result trbuild.Result
	if err := json.Unmarshal(body, &result); err != nil {
		return trbuild.Result{}, fmt.Errorf("the response from \"%s\" for project %d could not be decoded: %w", route, project, err)
	}

	return result, nil
}

// do sends a request and returns the response body if the server responded
// with a 2xx status code.
func (c *Client) do(ctx context.Context, method, target string, payload []byte, accept string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", accept)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read the response from %s %s: %w", method, target, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, StatusError{
			Method: method,
			URL:    target,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}

	return body, nil
}

// WorkspaceURL returns the address of the project's workspace on the
// source control host.
func (c *Client) WorkspaceURL(ctx context.Context, project trbuild.ProjectID) (string, error) {
	if err := project.Validate(); err != nil {
		return "", err
	}

	body, err := c.do(ctx, http.MethodGet, c.projectURL(project, routeWorkspaceURL), nil, "text/plain")
	if err != nil {
		return "", err
	}

	// Some servers return the address as a JSON string.
	text := strings.TrimSpace(string(body))
	if strings.HasPrefix(text, "\"") {
		var s string
		if err := json.Unmarshal([]byte(text), &s); err == nil {
			text = s
		}
	}
	if text == "" {
		return "", fmt.Errorf("the server did not return a workspace url for project %d", project)
	}

	return text, nil
}
