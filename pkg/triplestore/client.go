// Package triplestore is a small client for the repository API of an
// AllegroGraph-style triple store: repository size, clearing a repository
// and adding statements.
package triplestore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/biosemantics/nanoconv/pkg/errors"
	json "github.com/goccy/go-json"
	"github.com/knakk/rdf"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

// Config addresses one repository
type Config struct {
	// Endpoint is scheme://host:port
	Endpoint   string
	Catalog    string
	Repository string
	Username   string
	Password   string
	// Timeout bounds each request
	Timeout     time.Duration
	EnableHTTP2 bool
	// DialTimeout bounds connection setup
	DialTimeout time.Duration
}

// Client talks to one repository. It is safe for concurrent use.
type Client struct {
	config     Config
	repoURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a client for the repository described by cfg. No request is
// made until the first call.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.Repository == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "repository name is required")
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Newf(errors.ErrorTypeConfig, "invalid triple store endpoint %q", cfg.Endpoint)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		config:  cfg,
		repoURL: repositoryURL(cfg),
		logger:  logger.With(zap.String("component", "triplestore")),
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if cfg.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			c.logger.Warn("failed to configure HTTP/2", zap.Error(err))
		} else {
			c.logger.Debug("HTTP/2 enabled")
		}
	}

	c.httpClient = &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}
	return c, nil
}

func repositoryURL(cfg Config) string {
	base := strings.TrimSuffix(cfg.Endpoint, "/")
	if cfg.Catalog != "" {
		base += "/catalogs/" + url.PathEscape(cfg.Catalog)
	}
	return base + "/repositories/" + url.PathEscape(cfg.Repository)
}

// URL returns the repository URL
func (c *Client) URL() string {
	return c.repoURL
}

// Size returns the number of statements in the repository
func (c *Client) Size(ctx context.Context) (int64, error) {
	var size int64
	if err := c.do(ctx, http.MethodGet, "/size", nil, &size); err != nil {
		return 0, err
	}
	return size, nil
}

// Clear deletes every statement in the repository and returns how many
// were removed
func (c *Client) Clear(ctx context.Context) (int64, error) {
	var deleted int64
	if err := c.do(ctx, http.MethodDelete, "/statements", nil, &deleted); err != nil {
		return 0, err
	}
	c.logger.Info("cleared repository",
		zap.String("repository", c.config.Repository),
		zap.Int64("deleted", deleted))
	return deleted, nil
}

// Insert adds one statement. A nil or default-graph g adds it to the
// default graph.
func (c *Client) Insert(ctx context.Context, s rdf.Subject, p rdf.Predicate, o rdf.Object, g rdf.Context) error {
	statement := []string{
		s.Serialize(rdf.NTriples),
		p.Serialize(rdf.NTriples),
		o.Serialize(rdf.NTriples),
	}
	if g != nil && g.String() != "" {
		statement = append(statement, g.Serialize(rdf.NTriples))
	}

	body, err := json.Marshal([][]string{statement})
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "failed to encode statement")
	}
	return c.do(ctx, http.MethodPost, "/statements", body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.repoURL+path, reader)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.Username != "" {
		req.SetBasicAuth(c.config.Username, c.config.Password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "triple store request failed").
			WithDetail("method", method).
			WithDetail("url", req.URL.String())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return statusError(resp.StatusCode, strings.TrimSpace(string(msg))).
			WithDetail("method", method).
			WithDetail("url", req.URL.String())
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "failed to decode triple store response").
			WithDetail("url", req.URL.String())
	}
	return nil
}

func statusError(code int, msg string) *errors.Error {
	text := fmt.Sprintf("triple store returned %d %s", code, http.StatusText(code))
	if msg != "" {
		text += ": " + msg
	}
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return errors.New(errors.ErrorTypeAuthentication, text)
	case code == http.StatusNotFound || code == http.StatusBadRequest:
		return errors.New(errors.ErrorTypeConfig, text)
	default:
		return errors.New(errors.ErrorTypeConnection, text)
	}
}

// Close releases idle connections
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
