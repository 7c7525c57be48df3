package post

import (
	"errors"
	"testing"
)

func samplePost() Post {
	return Post{
		Title: "챗GPT 마케팅 자동화",
		Blocks: []Block{
			{Type: Subheading, Content: "왜 자동화인가"},
			{Type: ImagePrompt, Content: "a robot writing ads"},
			{Type: Paragraph, Content: "본문"},
			{Type: ImagePrompt, Content: "a dashboard with charts"},
			{Type: KeyMessageHeading, Content: "핵심 메시지"},
			{Type: KeyMessageItem, Content: "하나"},
		},
	}
}

func TestImagePrompts(t *testing.T) {
	got := ImagePrompts(samplePost())
	want := []string{"a robot writing ads", "a dashboard with charts"}
	if len(got) != len(want) {
		t.Fatalf("ImagePrompts() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ImagePrompts()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestImagePromptsNone(t *testing.T) {
	p := Post{Title: "t", Blocks: []Block{{Type: Paragraph, Content: "x"}}}
	if got := ImagePrompts(p); len(got) != 0 {
		t.Errorf("ImagePrompts() = %v, want none", got)
	}
}

func TestWithImagesPreservesOrder(t *testing.T) {
	src := samplePost()
	got, err := WithImages(src, []string{"data:image/jpeg;base64,AAA", "data:image/jpeg;base64,BBB"})
	if err != nil {
		t.Fatalf("WithImages failed: %v", err)
	}
	if len(got.Blocks) != len(src.Blocks) {
		t.Fatalf("block count = %d, want %d", len(got.Blocks), len(src.Blocks))
	}
	if got.Blocks[1] != (Block{Type: ImageData, Content: "data:image/jpeg;base64,AAA"}) {
		t.Errorf("block 1 = %+v", got.Blocks[1])
	}
	if got.Blocks[3] != (Block{Type: ImageData, Content: "data:image/jpeg;base64,BBB"}) {
		t.Errorf("block 3 = %+v", got.Blocks[3])
	}
	for _, i := range []int{0, 2, 4, 5} {
		if got.Blocks[i] != src.Blocks[i] {
			t.Errorf("block %d changed: %+v -> %+v", i, src.Blocks[i], got.Blocks[i])
		}
	}
	if !Resolved(got) {
		t.Error("result should be resolved")
	}
	// The input must not be mutated.
	if src.Blocks[1].Type != ImagePrompt {
		t.Error("WithImages mutated its input")
	}
}

func TestWithImagesCountMismatch(t *testing.T) {
	_, err := WithImages(samplePost(), []string{"only-one"})
	if !errors.Is(err, ErrImageCount) {
		t.Errorf("expected ErrImageCount, got %v", err)
	}
}

func TestResolved(t *testing.T) {
	if Resolved(samplePost()) {
		t.Error("post with prompts should not be resolved")
	}
	if !Resolved(Post{Title: "t"}) {
		t.Error("empty post should be resolved")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		post    Post
		wantErr error
		ok      bool
	}{
		{name: "valid", post: samplePost(), ok: true},
		{name: "blank title", post: Post{Title: "  "}, wantErr: ErrEmptyTitle},
		{name: "image data", post: Post{Title: "t", Blocks: []Block{{Type: ImageData, Content: "x"}}}, wantErr: ErrUnexpectedImageData},
		{name: "unknown type", post: Post{Title: "t", Blocks: []Block{{Type: "quote", Content: "x"}}}},
	}
	for _, tt := range tests {
		err := Validate(tt.post)
		switch {
		case tt.ok && err != nil:
			t.Errorf("%s: unexpected error %v", tt.name, err)
		case !tt.ok && err == nil:
			t.Errorf("%s: expected error", tt.name)
		case tt.wantErr != nil && !errors.Is(err, tt.wantErr):
			t.Errorf("%s: error = %v, want %v", tt.name, err, tt.wantErr)
		}
	}
}
