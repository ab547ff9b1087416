package ai

import "testing"

func TestCleanDraft(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "Thanks for the note!", "Thanks for the note!", false},
		{"trim", "  \nHello there\n ", "Hello there", false},
		{"quoted", `"Happy to help."`, "Happy to help.", false},
		{"curly quoted", "“Happy to help.”", "Happy to help.", false},
		{"preamble", "Reply: We are on it.", "We are on it.", false},
		{"preamble and quotes", `Draft: "See you soon"`, "See you soon", false},
		{"inner quotes kept", `He said "hi" to us`, `He said "hi" to us`, false},
		{"empty", "   ", "", true},
		{"only quotes", `""`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanDraft(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("got=%q want=%q", got, tt.want)
			}
		})
	}
}
