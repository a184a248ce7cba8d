package extraction

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"smd/internal/models"
	"smd/internal/structures"

	json "github.com/goccy/go-json"
)

const maxResponseBodySize = 1 << 20 // 1 MB

const extractionPrompt = `You are a data extraction service for a social media analytics dashboard.
The user tracks exactly three platforms: instagram, twitter, tiktok.

Extract any performance metrics mentioned in the message below and output ONLY a JSON object,
no prose, matching this schema (include only the platforms the message mentions):

{"platforms": {"<platform>": {"followers": number, "engagement_rate": number, "reach": number, "posts": number}}}

Convert human quantity notation yourself: "52K" means 52000, "2.1M" means 2100000.
If the message contains no usable metrics, output {} instead.

Message: %s`

const conversationPrompt = `You are the assistant of a social media analytics dashboard. The user tracks
their Instagram, Twitter and TikTok performance (followers, engagement rate, reach, posts).
Answer the question below conversationally, in a few sentences, with actionable suggestions.

Question: %s`

// Extractor is the capability boundary around the external
// text-generation service. Extract returns (nil, nil) when the response
// carries no usable metrics payload; the caller then falls back to a
// conversational turn. Generate produces that conversational reply.
type Extractor interface {
	Extract(ctx context.Context, text string) (*models.PartialUpdate, error)
	Generate(ctx context.Context, text string) (string, error)
}

// GeminiExtractor speaks the generateContent REST contract.
type GeminiExtractor struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

func NewGeminiExtractor(conf *structures.Config) Extractor {
	return &GeminiExtractor{
		baseURL:    conf.Extraction.BaseURL,
		model:      conf.Extraction.Model,
		apiKey:     conf.Extraction.APIKey,
		httpClient: &http.Client{Timeout: conf.Extraction.Timeout},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *GeminiExtractor) Extract(ctx context.Context, text string) (*models.PartialUpdate, error) {
	raw, err := g.generate(ctx, fmt.Sprintf(extractionPrompt, text))
	if err != nil {
		return nil, err
	}
	return ParseUpdate(raw), nil
}

func (g *GeminiExtractor) Generate(ctx context.Context, text string) (string, error) {
	return g.generate(ctx, fmt.Sprintf(conversationPrompt, text))
}

func (g *GeminiExtractor) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return "", err
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unreadable generation response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return "", fmt.Errorf("generation service: %s", parsed.Error.Message)
		}
		return "", fmt.Errorf("generation service: unexpected status %d", resp.StatusCode)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generation service: empty response")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
