package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/profile-editor/internal/platform/logging"
)

const (
	defaultBaseURL  = "http://localhost:8080/v1"
	userAgent       = "profile-editor"
	contentTypeJSON = "application/json"
	contentTypeCBOR = "application/cbor"
	profilePath     = "/profile"

	// maxProblemBytes bounds how much of an error body is read for the detail message.
	maxProblemBytes = 64 << 10
)

// Client implements Gateway against the profile HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	useCBOR    bool
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the API base URL including the version prefix, e.g. https://host/v1.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithToken sets the Bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithCBOR switches request and response bodies from JSON to CBOR.
func WithCBOR() Option {
	return func(c *Client) {
		c.useCBOR = true
	}
}

// NewClient creates a profile API client.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiProfile mirrors the profile API body (camelCase like the server model).
type apiProfile struct {
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	FullName  string   `json:"fullName,omitempty"`
	Age       int      `json:"age"`
	Email     string   `json:"email"`
	Skills    []string `json:"skills"`
}

// apiProblem is the subset of RFC 9457 problem details the client reads.
type apiProblem struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

// FetchCurrentUser loads the authenticated user's profile.
func (c *Client) FetchCurrentUser(ctx context.Context) (*UserProfile, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body apiProfile
	if err := c.decodeResponse(ctx, resp, &body); err != nil {
		return nil, err
	}
	return &UserProfile{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		FullName:  body.FullName,
		Age:       body.Age,
		Email:     body.Email,
		Skills:    nonNilSkills(body.Skills),
	}, nil
}

// PersistUser replaces the authenticated user's profile with the given snapshot.
func (c *Client) PersistUser(ctx context.Context, profile UserProfile) error {
	body := apiProfile{
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		FullName:  profile.FullName,
		Age:       profile.Age,
		Email:     profile.Email,
		Skills:    nonNilSkills(profile.Skills),
	}
	resp, err := c.doRequest(ctx, http.MethodPut, &body)
	if err != nil {
		return fmt.Errorf("persisting profile: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var saved apiProfile
	return c.decodeResponse(ctx, resp, &saved)
}

func (c *Client) contentType() string {
	if c.useCBOR {
		return contentTypeCBOR
	}
	return contentTypeJSON
}

func (c *Client) marshal(v any) ([]byte, error) {
	if c.useCBOR {
		return cbor.Marshal(v)
	}
	return json.Marshal(v)
}

func (c *Client) doRequest(ctx context.Context, method string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := c.marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+profilePath, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", c.contentType())
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", c.contentType())
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.httpClient.Do(req)
}

func (c *Client) decodeResponse(ctx context.Context, resp *http.Response, target any) error {
	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		if err := decodeBody(resp, target); err != nil {
			return fmt.Errorf("decoding profile response: %w", err)
		}
		return nil
	}

	problem := readProblem(resp)
	switch resp.StatusCode {
	case http.StatusNotFound:
		return upstreamError(resp, problem, UpstreamErrorKindNotFound, ErrNotFound)
	case http.StatusUnauthorized, http.StatusForbidden:
		applog.LogWarn(ctx, "profile api rejected credentials",
			zap.Int("status", resp.StatusCode),
			zap.Bool("tokenSet", c.token != ""),
		)
		return upstreamError(resp, problem, UpstreamErrorKindUnauthorized, ErrUnauthorized)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return upstreamError(resp, problem, UpstreamErrorKindInvalid, ErrInvalid)
	}
	applog.LogWarn(ctx, "profile api upstream failure",
		zap.Int("status", resp.StatusCode),
		zap.String("detail", problem.Detail),
	)
	return upstreamError(resp, problem, UpstreamErrorKindUpstream, ErrUpstream)
}

// decodeBody picks the codec from the response Content-Type, not from the client setting,
// because the server may fall back to JSON.
func decodeBody(resp *http.Response, target any) error {
	if isCBOR(resp.Header.Get("Content-Type")) {
		return cbor.NewDecoder(resp.Body).Decode(target)
	}
	return json.NewDecoder(resp.Body).Decode(target)
}

func readProblem(resp *http.Response) apiProblem {
	var p apiProblem
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxProblemBytes))
	if err != nil || len(data) == 0 {
		return p
	}
	if isCBOR(resp.Header.Get("Content-Type")) {
		_ = cbor.Unmarshal(data, &p)
	} else {
		_ = json.Unmarshal(data, &p)
	}
	return p
}

func isCBOR(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	return strings.HasPrefix(ct, contentTypeCBOR) || strings.Contains(ct, "+cbor")
}

func upstreamError(resp *http.Response, p apiProblem, kind UpstreamErrorKind, cause error) *UpstreamError {
	detail := p.Detail
	if detail == "" {
		detail = p.Title
	}
	return &UpstreamError{
		Kind:   kind,
		Status: resp.StatusCode,
		Detail: detail,
		cause:  cause,
	}
}

func nonNilSkills(skills []string) []string {
	if skills == nil {
		return []string{}
	}
	return skills
}

// Compile-time interface check
var _ Gateway = (*Client)(nil)
