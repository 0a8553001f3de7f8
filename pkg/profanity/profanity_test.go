package profanity

import "testing"

func TestFromWords(t *testing.T) {
	classify := FromWords([]string{"Dang", "heck"})

	tests := []struct {
		text string
		want bool
	}{
		{"dang it", true},
		{"DANG!", true},
		{"oh heck.", true},
		{"all fine here", false},
		{"dangling participle", false}, // token match, not substring
		{"", false},
	}

	for _, tt := range tests {
		if got := classify(tt.text); got != tt.want {
			t.Errorf("classify(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestFromWords_Empty(t *testing.T) {
	if FromWords(nil) != nil {
		t.Error("empty word list should yield a nil classifier")
	}
}
