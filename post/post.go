// Package post defines the generated blog post and its typed content blocks.
package post

import (
	"errors"
	"fmt"
	"strings"
)

// BlockType names the kind of a content block. The string values are the
// wire format exchanged with the text model.
type BlockType string

const (
	Subheading        BlockType = "subheading"
	Paragraph         BlockType = "paragraph"
	ImagePrompt       BlockType = "image_prompt"
	ImageData         BlockType = "image_data"
	KeyMessageHeading BlockType = "key_message_heading"
	KeyMessageItem    BlockType = "key_message_item"
)

// OutlineTypes are the block types a text model may emit. image_data is
// produced locally and never comes from the model.
var OutlineTypes = []BlockType{
	Subheading,
	Paragraph,
	ImagePrompt,
	KeyMessageHeading,
	KeyMessageItem,
}

var (
	ErrEmptyTitle          = errors.New("post: title is empty")
	ErrUnexpectedImageData = errors.New("post: outline already contains image data")
	ErrImageCount          = errors.New("post: image count does not match image prompts")
)

// Known reports whether t is one of the defined block types.
func (t BlockType) Known() bool {
	switch t {
	case Subheading, Paragraph, ImagePrompt, ImageData, KeyMessageHeading, KeyMessageItem:
		return true
	}
	return false
}

// Block is a typed unit of content. For ImageData the content is a data URL.
type Block struct {
	Type    BlockType `json:"type"`
	Content string    `json:"content"`
}

// Post is a title plus an ordered sequence of blocks.
type Post struct {
	Title  string  `json:"title"`
	Blocks []Block `json:"blocks"`
}

// ImagePrompts returns the contents of the image prompt blocks in order.
func ImagePrompts(p Post) []string {
	var prompts []string
	for _, b := range p.Blocks {
		if b.Type == ImagePrompt {
			prompts = append(prompts, b.Content)
		}
	}
	return prompts
}

// WithImages returns a copy of p in which the i-th image prompt block is
// replaced by an image data block holding images[i].
func WithImages(p Post, images []string) (Post, error) {
	if n := len(ImagePrompts(p)); n != len(images) {
		return Post{}, fmt.Errorf("%w: %d prompts, %d images", ErrImageCount, n, len(images))
	}
	out := Post{Title: p.Title, Blocks: make([]Block, len(p.Blocks))}
	next := 0
	for i, b := range p.Blocks {
		if b.Type == ImagePrompt {
			b = Block{Type: ImageData, Content: images[next]}
			next++
		}
		out.Blocks[i] = b
	}
	return out, nil
}

// Resolved reports whether every image prompt has been turned into image data.
func Resolved(p Post) bool {
	for _, b := range p.Blocks {
		if b.Type == ImagePrompt {
			return false
		}
	}
	return true
}

// Validate checks an outline freshly returned by a text model.
func Validate(p Post) error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}
	for i, b := range p.Blocks {
		if !b.Type.Known() {
			return fmt.Errorf("post: block %d has unknown type %q", i, b.Type)
		}
		if b.Type == ImageData {
			return fmt.Errorf("%w (block %d)", ErrUnexpectedImageData, i)
		}
	}
	return nil
}
