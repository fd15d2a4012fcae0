package services

import (
	"strings"
	"sync"
	"unicode/utf8"

	tiktoken "github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

const (
	truncationMarker = "\n[truncated]"
	encodingName     = "cl100k_base"
	runesPerToken    = 4
)

// TextTruncator bounds document text embedded into prompts. It counts
// cl100k_base tokens and falls back to a rune estimate when the encoding
// cannot be loaded.
type TextTruncator struct {
	maxTokens int

	once sync.Once
	enc  *tiktoken.Tiktoken
}

// NewTextTruncator returns a truncator with the given per-document budget.
// A budget of zero or less disables truncation.
func NewTextTruncator(maxTokens int) *TextTruncator {
	return &TextTruncator{maxTokens: maxTokens}
}

func (t *TextTruncator) encoding() *tiktoken.Tiktoken {
	t.once.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
		enc, err := tiktoken.GetEncoding(encodingName)
		if err == nil {
			t.enc = enc
		}
	})
	return t.enc
}

// Truncate returns text unchanged when it fits the budget.
func (t *TextTruncator) Truncate(text string) string {
	if t == nil || t.maxTokens <= 0 || text == "" {
		return text
	}

	if enc := t.encoding(); enc != nil {
		tokens := enc.Encode(text, nil, nil)
		if len(tokens) <= t.maxTokens {
			return text
		}
		head := strings.ToValidUTF8(enc.Decode(tokens[:t.maxTokens]), "")
		return strings.TrimRightFunc(head, isSpace) + truncationMarker
	}

	maxRunes := t.maxTokens * runesPerToken
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return strings.TrimRightFunc(string(runes[:maxRunes]), isSpace) + truncationMarker
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}
