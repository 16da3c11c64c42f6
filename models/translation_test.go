package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingFields(t *testing.T) {
	tests := []struct {
		name string
		req  TranslateTextRequest
		want []string
	}{
		{"complete", TranslateTextRequest{Text: "Hello", SourceLanguage: "en", TargetLanguage: "es"}, nil},
		{"no text", TranslateTextRequest{SourceLanguage: "en", TargetLanguage: "es"}, []string{"text"}},
		{"no languages", TranslateTextRequest{Text: "Hello"}, []string{"sourceLanguage", "targetLanguage"}},
		{"empty", TranslateTextRequest{}, []string{"text", "sourceLanguage", "targetLanguage"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.MissingFields())
		})
	}
}
