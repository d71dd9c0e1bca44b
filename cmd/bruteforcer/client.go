package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wricardo/mcp-training/escaperoom/game/engine"
	"github.com/wricardo/mcp-training/escaperoom/game/service"
)

// Client talks to the escape room HTTP API for a single session
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SessionID returns the session the client plays
func (c *Client) SessionID() string {
	return c.sessionID
}

// Resume makes the client play an existing session
func (c *Client) Resume(sessionID string) {
	c.sessionID = sessionID
}

func (c *Client) CreateSession(ctx context.Context, roomID string) (*service.SessionInfo, error) {
	var body interface{}
	if roomID != "" {
		body = map[string]string{"room_id": roomID}
	}

	var info service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/session", body, &info); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	c.sessionID = info.SessionID
	return &info, nil
}

func (c *Client) GetState(ctx context.Context) (*engine.View, error) {
	var view engine.View
	if err := c.do(ctx, http.MethodGet, "/session/"+url.PathEscape(c.sessionID)+"/state", nil, &view); err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return &view, nil
}

func (c *Client) Solve(ctx context.Context, puzzleID, solution string) (*engine.SolveResult, error) {
	path := fmt.Sprintf("/session/%s/solve/%s", url.PathEscape(c.sessionID), url.PathEscape(puzzleID))

	var result engine.SolveResult
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"solution": solution}, &result); err != nil {
		return nil, fmt.Errorf("solve %s: %w", puzzleID, err)
	}
	return &result, nil
}

func (c *Client) Hint(ctx context.Context, puzzleID string) (*engine.HintResult, error) {
	path := fmt.Sprintf("/session/%s/hint/%s", url.PathEscape(c.sessionID), url.PathEscape(puzzleID))

	var result engine.HintResult
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, fmt.Errorf("hint %s: %w", puzzleID, err)
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
