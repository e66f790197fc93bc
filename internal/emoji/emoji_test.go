package emoji

import "testing"

func TestIsOnlyEmojis(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"single emoji", "😀", true},
		{"several with spaces", "😀 🎉 🚀", true},
		{"flag sequence", "🇦🇹", true},
		{"family zwj sequence", "👨‍👩‍👧", true},
		{"skin tone modifier", "👍🏽", true},
		{"vs16 heart", "❤️", true},
		{"text with emoji", "hi 😀", false},
		{"plain text", "hello", false},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"digits", "123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOnlyEmojis(tt.in); got != tt.want {
				t.Errorf("IsOnlyEmojis(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCountEmojis(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"one", "😀", 1},
		{"three", "😀🎉🚀", 3},
		{"joined family counts once", "👨‍👩‍👧", 1},
		{"flag counts once", "🇦🇹", 1},
		{"spaces ignored", " 😀  🎉 ", 2},
		{"none", "hello", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountEmojis(tt.in); got != tt.want {
				t.Errorf("CountEmojis(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestDisplayAsLargeEmoji(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"one emoji", "🎉", true},
		{"three emoji", "😀🎉🚀", true},
		{"four emoji", "😀🎉🚀😎", false},
		{"mixed content", "party 🎉", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayAsLargeEmoji(tt.in); got != tt.want {
				t.Errorf("DisplayAsLargeEmoji(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
