package common

import (
	"testing"
)

func TestValidateLink(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "empty is allowed", input: "", wantErr: false},
		{name: "https link", input: "https://careers.example.com/jobs/42", wantErr: false},
		{name: "http link", input: "http://example.com", wantErr: false},
		{name: "surrounding spaces", input: "  https://example.com  ", wantErr: false},
		{name: "javascript scheme", input: "javascript:alert(1)", wantErr: true},
		{name: "relative path", input: "/jobs/42", wantErr: true},
		{name: "missing host", input: "https://", wantErr: true},
		{name: "mailto", input: "mailto:hr@example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLink(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLink(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLinkedInURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "empty is allowed", input: "", wantErr: false},
		{name: "www host", input: "https://www.linkedin.com/in/jane-doe", wantErr: false},
		{name: "bare host", input: "https://linkedin.com/in/jane", wantErr: false},
		{name: "uppercase host", input: "https://WWW.LinkedIn.com/in/jane", wantErr: false},
		{name: "other site", input: "https://example.com/in/jane", wantErr: true},
		{name: "lookalike host", input: "https://linkedin.com.evil.io/in/jane", wantErr: true},
		{name: "not a url", input: "linkedin", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLinkedInURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLinkedInURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
