package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/MFahim14/test-assignment/internal/inventory"
	"github.com/MFahim14/test-assignment/internal/transform"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client calls the inventory server's HTTP API. The base URL is fixed at construction.
type Client struct {
	BaseURL *url.URL
	HTTP    *http.Client
}

func New(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q: scheme and host are required", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{BaseURL: u, HTTP: httpClient}, nil
}

type Message struct {
	Message string `json:"message"`
}

type TranslationResult struct {
	Message  string            `json:"message"`
	Position transform.Vector3 `json:"position"`
}

type RotationResult struct {
	Message  string            `json:"message"`
	Rotation transform.Vector3 `json:"rotation"`
}

type ScaleResult struct {
	Message string            `json:"message"`
	Scale   transform.Vector3 `json:"scale"`
}

type TransformResult struct {
	Message string              `json:"message"`
	Data    transform.Transform `json:"data"`
}

// Ping returns the server's liveness text.
func (c *Client) Ping(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func (c *Client) Inventory(ctx context.Context) ([]inventory.Item, error) {
	var items []inventory.Item
	if err := c.call(ctx, http.MethodGet, "/inventory", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) AddItem(ctx context.Context, name string, quantity int) (Message, error) {
	var out Message
	err := c.call(ctx, http.MethodPost, "/add-item", inventory.Item{Name: name, Quantity: quantity}, &out)
	return out, err
}

func (c *Client) RemoveItem(ctx context.Context, name string) (Message, error) {
	var out Message
	err := c.call(ctx, http.MethodPost, "/remove-item", map[string]string{"name": name}, &out)
	return out, err
}

func (c *Client) UpdateQuantity(ctx context.Context, name string, quantity int) (Message, error) {
	var out Message
	err := c.call(ctx, http.MethodPost, "/update-quantity", inventory.Item{Name: name, Quantity: quantity}, &out)
	return out, err
}

func (c *Client) Translation(ctx context.Context, v transform.Vector3) (TranslationResult, error) {
	var out TranslationResult
	err := c.call(ctx, http.MethodPost, "/translation", map[string]transform.Vector3{"translation": v}, &out)
	return out, err
}

func (c *Client) Rotation(ctx context.Context, v transform.Vector3) (RotationResult, error) {
	var out RotationResult
	err := c.call(ctx, http.MethodPost, "/rotation", map[string]transform.Vector3{"rotation": v}, &out)
	return out, err
}

func (c *Client) Scale(ctx context.Context, v transform.Vector3) (ScaleResult, error) {
	var out ScaleResult
	err := c.call(ctx, http.MethodPost, "/scale", map[string]transform.Vector3{"scale": v}, &out)
	return out, err
}

// Transform sends a full transform. The server holds the response for its apply delay,
// so the caller's context and HTTP client timeout must allow for it.
func (c *Client) Transform(ctx context.Context, position, rotation, scale transform.Vector3) (TransformResult, error) {
	var out TransformResult
	in := transform.Transform{Position: &position, Rotation: &rotation, Scale: &scale}
	err := c.call(ctx, http.MethodPost, "/transform", in, &out)
	return out, err
}

func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	u := c.BaseURL.ResolveReference(&url.URL{Path: path})

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	}
	return apiErr
}

// IsStatus reports whether err is an *APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
