// Package aigateway talks to the external text generation service.
package aigateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxResponseBytes = 1 << 20

// Request is one of the gateway's request shapes.
type Request interface {
	path() string
	payload() any
}

type ChatRequest struct {
	Message string `json:"message"`
}

// RecipeRequest asks for a recipe from what the user has at home.
type RecipeRequest struct {
	Ingredients string
	DesiredMeal string
}

// ShoppingRequest asks for a shopping list for a desired meal.
type ShoppingRequest struct {
	Ingredients string
	DesiredMeal string
}

type ParseIngredientsRequest struct {
	Text string `json:"text"`
}

type TitleRequest struct {
	Text string `json:"text"`
}

type FitnessRequest struct {
	Goal     string `json:"goal"`
	Duration string `json:"duration"`
}

type cookPayload struct {
	Type        string `json:"type"`
	Ingredients string `json:"ingredients"`
	DesiredMeal string `json:"desiredMeal"`
}

func (r ChatRequest) path() string {
	return "/chat"
}

func (r ChatRequest) payload() any {
	return r
}

func (r RecipeRequest) path() string {
	return "/cook"
}

func (r RecipeRequest) payload() any {
	return cookPayload{Type: "recipe", Ingredients: r.Ingredients, DesiredMeal: r.DesiredMeal}
}

func (r ShoppingRequest) path() string {
	return "/cook"
}

func (r ShoppingRequest) payload() any {
	return cookPayload{Type: "shopping", Ingredients: r.Ingredients, DesiredMeal: r.DesiredMeal}
}

func (r ParseIngredientsRequest) path() string {
	return "/cook/parse-ingredients"
}

func (r ParseIngredientsRequest) payload() any {
	return r
}

func (r TitleRequest) path() string {
	return "/cook/title"
}

func (r TitleRequest) payload() any {
	return r
}

func (r FitnessRequest) path() string {
	return "/fitness"
}

func (r FitnessRequest) payload() any {
	return r
}

// Reply is the union of all response bodies; each endpoint fills one field.
type Reply struct {
	Reply       string   `json:"reply"`
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
}

type StatusError struct {
	Path string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ai gateway %s: status %d: %s", e.Path, e.Code, e.Body)
}

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient builds a client whose every call gives up after timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Ask sends req once. There are no retries.
func (c *Client) Ask(ctx context.Context, req Request) (*Reply, error) {
	jsonData, err := json.Marshal(req.payload())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+req.path(), bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request %s failed: %w", req.path(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Path: req.path(), Code: resp.StatusCode, Body: string(body)}
	}

	var reply Reply
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &reply, nil
}

func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	reply, err := c.Ask(ctx, ChatRequest{Message: message})
	if err != nil {
		return "", err
	}
	return reply.Reply, nil
}

func (c *Client) Recipe(ctx context.Context, ingredients, desiredMeal string) (string, error) {
	reply, err := c.Ask(ctx, RecipeRequest{Ingredients: ingredients, DesiredMeal: desiredMeal})
	if err != nil {
		return "", err
	}
	return reply.Reply, nil
}

func (c *Client) ShoppingList(ctx context.Context, ingredients, desiredMeal string) (string, error) {
	reply, err := c.Ask(ctx, ShoppingRequest{Ingredients: ingredients, DesiredMeal: desiredMeal})
	if err != nil {
		return "", err
	}
	return reply.Reply, nil
}

func (c *Client) ParseIngredients(ctx context.Context, text string) ([]string, error) {
	reply, err := c.Ask(ctx, ParseIngredientsRequest{Text: text})
	if err != nil {
		return nil, err
	}
	return reply.Ingredients, nil
}

func (c *Client) Title(ctx context.Context, text string) (string, error) {
	reply, err := c.Ask(ctx, TitleRequest{Text: text})
	if err != nil {
		return "", err
	}
	return reply.Title, nil
}

func (c *Client) FitnessPlan(ctx context.Context, goal, duration string) (string, error) {
	reply, err := c.Ask(ctx, FitnessRequest{Goal: goal, Duration: duration})
	if err != nil {
		return "", err
	}
	return reply.Reply, nil
}
