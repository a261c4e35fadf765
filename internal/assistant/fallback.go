package assistant

import "github.com/minthub/mintassist/internal/model"

// Fallback is a canned response used when no entry scores above zero
type Fallback struct {
	Answer      string
	RelatedLink string
	Suggestions []string
}

// DefaultFallbacks returns the built-in fallback set
func DefaultFallbacks() []Fallback {
	return []Fallback{
		{
			Answer:      "Xin lỗi, tôi chưa hiểu câu hỏi của bạn. Bạn có thể thử hỏi về:\n• Game và phần mềm\n• Hướng dẫn cài đặt\n• Sửa lỗi game\n• Liên hệ hỗ trợ",
			RelatedLink: "#game-pc",
			Suggestions: []string{"Game", "Hướng dẫn", "Lỗi", "Liên hệ"},
		},
		{
			Answer:      "Tôi có thể giúp bạn tìm game, phần mềm, hoặc hướng dẫn sử dụng. Bạn cần gì ạ?",
			RelatedLink: "#game-pc",
			Suggestions: []string{"Game PC", "Office", "Photoshop", "Windows"},
		},
	}
}

// response converts the fallback into a caller-facing response
func (f Fallback) response() model.ChosenResponse {
	return model.ChosenResponse{
		Answer:      f.Answer,
		RelatedLink: f.RelatedLink,
		Confidence:  0,
		Suggestions: append([]string(nil), f.Suggestions...),
		EntryIndex:  -1,
		Fallback:    true,
	}
}
