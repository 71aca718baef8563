package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"google.golang.org/api/googleapi"
)

// DefaultGeminiEndpoint is the public Generative Language API base URL.
const DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com/"

const geminiAPIVersion = "v1beta"

// GeminiClient calls the Gemini generateContent REST API.
type GeminiClient struct {
	httpClient *http.Client
	apiKey     string
	endpoint   string
}

// GeminiOption customizes a GeminiClient.
type GeminiOption func(*GeminiClient)

// WithEndpoint overrides the API base URL.
func WithEndpoint(endpoint string) GeminiOption {
	return func(g *GeminiClient) {
		if endpoint != "" {
			g.endpoint = endpoint
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) GeminiOption {
	return func(g *GeminiClient) {
		if c != nil {
			g.httpClient = c
		}
	}
}

// NewGeminiClient creates a client authenticated with apiKey. Deadlines come
// from the context of each call, so the default HTTP client has no timeout.
func NewGeminiClient(apiKey string, opts ...GeminiOption) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	g := &GeminiClient{
		httpClient: &http.Client{},
		apiKey:     apiKey,
		endpoint:   DefaultGeminiEndpoint,
	}
	for _, opt := range opts {
		opt(g)
	}
	if !strings.HasSuffix(g.endpoint, "/") {
		g.endpoint += "/"
	}
	return g, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiRequest struct {
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
	Contents         []geminiContent         `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content *geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiModel struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
	InputTokenLimit            int64    `json:"inputTokenLimit"`
}

type geminiModelList struct {
	NextPageToken string        `json:"nextPageToken"`
	Models        []geminiModel `json:"models"`
}

// Generate sends prompt to modelID and returns the first candidate's text.
func (g *GeminiClient) Generate(ctx context.Context, modelID, prompt string, opts GenerateOptions) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: prompt}},
		}},
		GenerationConfig: &geminiGenerationConfig{Temperature: opts.Temperature},
	}

	var resp geminiResponse
	path := modelResource(modelID) + ":generateContent"
	if err := g.do(ctx, http.MethodPost, path, nil, payload, &resp); err != nil {
		return "", wrapAPIError(modelID, err)
	}

	text := responseText(&resp)
	if text == "" {
		return "", fmt.Errorf("gemini %s: %w", modelID, ErrEmptyResponse)
	}
	return text, nil
}

// ListModels returns every model visible to the API key.
func (g *GeminiClient) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var models []ModelInfo
	pageToken := ""

	for {
		query := url.Values{"pageSize": {"100"}}
		if pageToken != "" {
			query.Set("pageToken", pageToken)
		}

		var page geminiModelList
		if err := g.do(ctx, http.MethodGet, "models", query, nil, &page); err != nil {
			return nil, fmt.Errorf("failed to list gemini models: %w", err)
		}

		for _, m := range page.Models {
			models = append(models, ModelInfo{
				Name:             strings.TrimPrefix(m.Name, "models/"),
				DisplayName:      m.DisplayName,
				InputTokenLimit:  m.InputTokenLimit,
				SupportsGenerate: slices.Contains(m.SupportedGenerationMethods, "generateContent"),
			})
		}

		if page.NextPageToken == "" {
			return models, nil
		}
		pageToken = page.NextPageToken
	}
}

// do performs one API call. Non-2xx responses become *googleapi.Error.
func (g *GeminiClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	target := g.endpoint + geminiAPIVersion + "/" + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", g.apiKey)

	res, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if err := googleapi.CheckResponse(res); err != nil {
		return err
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func modelResource(modelID string) string {
	if strings.HasPrefix(modelID, "models/") {
		return modelID
	}
	return "models/" + modelID
}

func responseText(resp *geminiResponse) string {
	if resp == nil {
		return ""
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
		if sb.Len() > 0 {
			return sb.String()
		}
	}
	return ""
}

// wrapAPIError attaches the quota and not-found sentinels to API errors.
func wrapAPIError(modelID string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests:
			return fmt.Errorf("gemini %s: %w: %s", modelID, ErrQuotaExhausted, apiErr.Message)
		case http.StatusNotFound:
			return fmt.Errorf("gemini %s: %w: %s", modelID, ErrModelNotFound, apiErr.Message)
		}
	}
	return fmt.Errorf("gemini %s: %w", modelID, err)
}
