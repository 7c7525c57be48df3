// Package gemini drafts blog outlines and generates illustrations through the
// Google Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/ove9/seoblog/imaging"
	"github.com/ove9/seoblog/post"
)

const (
	DefaultTextModel   = "gemini-2.5-flash"
	DefaultImageModel  = "imagen-3.0-generate-002"
	DefaultAspectRatio = "16:9"
	DefaultTimeout     = 90 * time.Second
)

// ErrNoImage is returned when the image model produced no usable image.
var ErrNoImage = errors.New("gemini: no image returned")

// Config configures a Client.
type Config struct {
	APIKey        string
	TextModel     string
	ImageModel    string
	AspectRatio   string
	Timeout       time.Duration // per call; negative disables it
	MaxImageWidth int
}

type modelsClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

var newGenaiClient = func(ctx context.Context, cfg *genai.ClientConfig) (*genai.Client, error) {
	return genai.NewClient(ctx, cfg)
}

// Client implements generate.Writer and generate.Illustrator.
type Client struct {
	models        modelsClient
	textModel     string
	imageModel    string
	aspectRatio   string
	timeout       time.Duration
	maxImageWidth int
}

// New creates a Client for the Gemini API backend.
func New(ctx context.Context, cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	gc, err := newGenaiClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	c := newClient(gc.Models, cfg)
	slog.Debug("gemini_client_ready",
		"text_model", c.textModel,
		"image_model", c.imageModel,
		"timeout", c.timeout,
	)
	return c, nil
}

func newClient(models modelsClient, cfg Config) *Client {
	c := &Client{
		models:        models,
		textModel:     strings.TrimSpace(cfg.TextModel),
		imageModel:    strings.TrimSpace(cfg.ImageModel),
		aspectRatio:   strings.TrimSpace(cfg.AspectRatio),
		timeout:       cfg.Timeout,
		maxImageWidth: cfg.MaxImageWidth,
	}
	if c.textModel == "" {
		c.textModel = DefaultTextModel
	}
	if c.imageModel == "" {
		c.imageModel = DefaultImageModel
	}
	if c.aspectRatio == "" {
		c.aspectRatio = DefaultAspectRatio
	}
	if c.timeout == 0 {
		c.timeout = DefaultTimeout
	}
	if c.maxImageWidth <= 0 {
		c.maxImageWidth = imaging.DefaultMaxWidth
	}
	return c
}

// WritePost asks the text model for a structured outline of topic.
func (c *Client) WritePost(ctx context.Context, topic string) (post.Post, error) {
	callCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.models.GenerateContent(callCtx, c.textModel, genai.Text(userPrompt(topic)), &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		Temperature:      genai.Ptr(float32(0.8)),
		ResponseMIMEType: "application/json",
		ResponseSchema:   outlineSchema(),
	})
	if err != nil {
		return post.Post{}, fmt.Errorf("gemini: generate outline: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return post.Post{}, errors.New("gemini: empty outline response")
	}
	return decodeOutline(text)
}

// Illustrate generates one image for prompt and returns it as a data URL.
func (c *Client) Illustrate(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	var (
		raw []byte
		err error
	)
	if strings.HasPrefix(c.imageModel, "imagen") {
		raw, err = c.generateImagen(callCtx, prompt)
	} else {
		raw, err = c.generateInline(callCtx, prompt)
	}
	if err != nil {
		return "", err
	}

	img, err := imaging.Normalize(raw, c.maxImageWidth)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	return imaging.DataURL(img), nil
}

func (c *Client) generateImagen(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := c.models.GenerateImages(ctx, c.imageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages:   1,
		AspectRatio:      c.aspectRatio,
		OutputMIMEType:   "image/jpeg",
		IncludeRAIReason: true,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: generate image: %w", err)
	}
	if resp == nil || len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0] == nil {
		return nil, ErrNoImage
	}
	gen := resp.GeneratedImages[0]
	if gen.Image == nil || len(gen.Image.ImageBytes) == 0 {
		if gen.RAIFilteredReason != "" {
			return nil, fmt.Errorf("%w: %s", ErrNoImage, gen.RAIFilteredReason)
		}
		return nil, ErrNoImage
	}
	return gen.Image.ImageBytes, nil
}

// generateInline uses a multimodal Gemini model and takes the first inline
// image part of the response.
func (c *Client) generateInline(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := c.models.GenerateContent(ctx, c.imageModel, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini: generate image: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return nil, ErrNoImage
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, nil
		}
	}
	return nil, ErrNoImage
}

// withTimeout bounds a single API call. An earlier caller deadline still wins.
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought || part.Text == "" {
			continue
		}
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String())
}

// decodeOutline parses the model's JSON, tolerating a surrounding code fence.
func decodeOutline(text string) (post.Post, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	var p post.Post
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return post.Post{}, fmt.Errorf("gemini: decode outline: %w", err)
	}
	p.Title = strings.TrimSpace(p.Title)
	for i := range p.Blocks {
		p.Blocks[i].Content = strings.TrimSpace(p.Blocks[i].Content)
	}
	if err := post.Validate(p); err != nil {
		return post.Post{}, fmt.Errorf("gemini: %w", err)
	}
	return p, nil
}
