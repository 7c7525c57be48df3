// Package generate runs one blog generation cycle: draft the outline, fan
// out image generation for every image prompt, and splice the results back.
package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ove9/seoblog/post"
)

// ErrEmptyTopic is returned when Run is called with a blank topic.
var ErrEmptyTopic = errors.New("generate: topic is empty")

// Writer drafts a structured post for a topic.
type Writer interface {
	WritePost(ctx context.Context, topic string) (post.Post, error)
}

// Illustrator turns an image prompt into an image data URL.
type Illustrator interface {
	Illustrate(ctx context.Context, prompt string) (string, error)
}

// Stage identifies the step a running cycle is in.
type Stage int

const (
	StageDrafting Stage = iota + 1
	StageIllustrating
)

// Message is the user-facing progress text for the stage.
func (s Stage) Message() string {
	switch s {
	case StageDrafting:
		return "1/2: 블로그 초안을 작성하고 있습니다..."
	case StageIllustrating:
		return "2/2: 내용에 맞는 이미지를 생성하고 있습니다..."
	default:
		return ""
	}
}

// Pipeline wires a Writer and an Illustrator into a generation cycle.
type Pipeline struct {
	Writer      Writer
	Illustrator Illustrator
	// Concurrency bounds in-flight image calls. Zero or less means all at once.
	Concurrency int
}

// Run drafts a post for topic and resolves all of its image prompts.
// progress, when non-nil, is called as each stage begins. Any failure aborts
// the whole cycle and no partial post is returned.
func (p *Pipeline) Run(ctx context.Context, topic string, progress func(Stage)) (post.Post, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return post.Post{}, ErrEmptyTopic
	}
	report := func(s Stage) {
		if progress != nil {
			progress(s)
		}
	}

	report(StageDrafting)
	started := time.Now()
	outline, err := p.Writer.WritePost(ctx, topic)
	if err != nil {
		return post.Post{}, fmt.Errorf("generate: draft: %w", err)
	}
	if err := post.Validate(outline); err != nil {
		return post.Post{}, fmt.Errorf("generate: draft: %w", err)
	}
	prompts := post.ImagePrompts(outline)
	slog.Debug("outline_ready",
		"title", outline.Title,
		"blocks", len(outline.Blocks),
		"image_prompts", len(prompts),
		"elapsed", time.Since(started),
	)

	report(StageIllustrating)
	images, err := p.illustrate(ctx, prompts)
	if err != nil {
		return post.Post{}, err
	}

	final, err := post.WithImages(outline, images)
	if err != nil {
		return post.Post{}, fmt.Errorf("generate: %w", err)
	}
	if !post.Resolved(final) {
		return post.Post{}, errors.New("generate: unresolved image prompts remain")
	}
	return final, nil
}

// illustrate generates one image per prompt concurrently. Results keep the
// order of prompts regardless of completion order.
func (p *Pipeline) illustrate(ctx context.Context, prompts []string) ([]string, error) {
	images := make([]string, len(prompts))
	if len(prompts) == 0 {
		return images, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if p.Concurrency > 0 {
		g.SetLimit(p.Concurrency)
	}
	for i, prompt := range prompts {
		g.Go(func() error {
			img, err := p.Illustrator.Illustrate(gctx, prompt)
			if err != nil {
				return fmt.Errorf("generate: image %d: %w", i+1, err)
			}
			images[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}
