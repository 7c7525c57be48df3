package gemini

import (
	"fmt"

	"google.golang.org/genai"

	"github.com/ove9/seoblog/post"
)

const systemInstruction = `당신은 검색 엔진 최적화(SEO)에 능숙한 전문 블로그 작가입니다.
짐 에드워즈(Jim Edwards)의 카피라이팅 원칙을 적용하여 독자의 문제를 짚고, 공감을 얻고,
해결책과 구체적인 이점을 제시한 뒤 행동을 유도하는 글을 씁니다.

규칙:
- 모든 본문은 한국어로, 전체 분량은 공백 포함 약 4000자 내외로 작성합니다.
- 제목은 검색 의도를 반영하고 클릭을 유도하는 한 문장으로 만듭니다.
- 글은 subheading과 paragraph 블록을 번갈아 구성합니다.
- 글의 흐름에 맞는 위치에 image_prompt 블록을 2~4개 넣습니다. image_prompt의 내용은
  이미지 생성 모델에 그대로 전달되는 영어 묘사이며, 글자나 로고가 들어가지 않는
  사실적인 장면으로 작성합니다.
- 글의 마지막에는 key_message_heading 블록 하나와 핵심 요점을 담은
  key_message_item 블록 3~5개를 둡니다.
- 블록 내용에 마크다운 제목 기호(#)나 목록 기호(-, *)를 넣지 않습니다. 강조가 필요하면 **굵게**만 사용합니다.`

func userPrompt(topic string) string {
	return fmt.Sprintf("주제: %s\n\n위 주제로 블로그 글을 작성하세요.", topic)
}

// outlineSchema constrains the text model to {title, blocks[{type, content}]}.
func outlineSchema() *genai.Schema {
	types := make([]string, 0, len(post.OutlineTypes))
	for _, t := range post.OutlineTypes {
		types = append(types, string(t))
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title": {
				Type:        genai.TypeString,
				Description: "블로그 글 제목",
			},
			"blocks": {
				Type:        genai.TypeArray,
				Description: "순서대로 나열된 본문 블록",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"type": {
							Type:   genai.TypeString,
							Format: "enum",
							Enum:   types,
						},
						"content": {
							Type: genai.TypeString,
						},
					},
					Required: []string{"type", "content"},
				},
			},
		},
		Required: []string{"title", "blocks"},
	}
}
