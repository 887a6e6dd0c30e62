package telegram

import (
	"testing"
)

func TestEscapeMarkdownV2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "Hello World"},
		{"Opened: 70%", "Opened: 70%"},
		{"Tennis: A vs. B", "Tennis: A vs\\. B"},
		{"Ticker: TENNIS-X", "Ticker: TENNIS\\-X"},
		{"[link](url)", "\\[link\\]\\(url\\)"},
		{"", ""},
		{"_*[]()~`>#+-=|{}.!", "\\_\\*\\[\\]\\(\\)\\~\\`\\>\\#\\+\\-\\=\\|\\{\\}\\.\\!"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := escapeMarkdownV2(tt.input)
			if result != tt.expected {
				t.Errorf("escapeMarkdownV2(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNewClient_InvalidChatID(t *testing.T) {
	// The bot token validation happens first (network call), so an empty
	// token fails before the chat ID parse; either way NewClient must error.
	_, err := NewClient("", "not-a-number")
	if err == nil {
		t.Error("expected error for invalid client parameters, got nil")
	}
}
