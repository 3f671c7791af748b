package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL        = "https://api.openai.com"
	defaultChatModel      = "gpt-3.5-turbo"
	defaultImageModel     = "dall-e-3"
	defaultEmbeddingModel = "text-embedding-ada-002"
)

// Client calls the OpenAI HTTP API for completions, image generation and
// embeddings
type Client struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	ImageModel     string
	EmbeddingModel string

	http *http.Client
}

// Config for the OpenAI client
type Config struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	ImageModel     string
	EmbeddingModel string
}

// New creates a new OpenAI client
func New(cfg *Config) *Client {
	if cfg == nil {
		cfg = &Config{}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = defaultChatModel
	}

	imageModel := cfg.ImageModel
	if imageModel == "" {
		imageModel = defaultImageModel
	}

	embeddingModel := cfg.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = defaultEmbeddingModel
	}

	return &Client{
		APIKey:         cfg.APIKey,
		BaseURL:        strings.TrimRight(baseURL, "/"),
		ChatModel:      chatModel,
		ImageModel:     imageModel,
		EmbeddingModel: embeddingModel,
		http:           &http.Client{Timeout: 30 * time.Second},
	}
}

// Complete returns a chat completion for the prompt
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model": c.ChatModel,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := c.post(ctx, "/v1/chat/completions", payload, &out); err != nil {
		return "", err
	}

	if len(out.Choices) == 0 {
		return "", errors.New("no choices")
	}

	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// GenerateImage generates an image for the prompt and returns its URL
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model":  c.ImageModel,
		"prompt": prompt,
		"n":      1,
	}

	var out struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}

	if err := c.post(ctx, "/v1/images/generations", payload, &out); err != nil {
		return "", err
	}

	if len(out.Data) == 0 {
		return "", errors.New("no image data")
	}

	return out.Data[0].URL, nil
}

// EmbedTexts returns one embedding vector per input text, in input order
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float64, error) {
	payload := map[string]any{
		"model": c.EmbeddingModel,
		"input": texts,
	}

	var out struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}

	if err := c.post(ctx, "/v1/embeddings", payload, &out); err != nil {
		return nil, err
	}

	if len(out.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(out.Data))
	}

	vectors := make([][]float64, len(texts))
	for _, d := range out.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}

	return vectors, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	if c.APIKey == "" {
		return errors.New("missing OPENAI_API_KEY")
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("openai status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
