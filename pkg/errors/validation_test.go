package errors

import "testing"

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"simple", "op1", false},
		{"uuid-like", "550e8400-e29b-41d4-a716-446655440000", false},
		{"with underscore", "graph_42", false},
		{"empty", "", true},
		{"traversal", "../etc", true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"control char", "a\x01b", true},
		{"too long", string(make([]byte, 300)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidInput {
				t.Errorf("ValidateID(%q) code = %q", tt.id, GetCode(err))
			}
		})
	}
}

func TestValidateExportFormat(t *testing.T) {
	for _, ok := range []string{"json", "svg", "dot", "png"} {
		if err := ValidateExportFormat(ok); err != nil {
			t.Errorf("ValidateExportFormat(%q) = %v", ok, err)
		}
	}
	if err := ValidateExportFormat("pdf"); !Is(err, ErrCodeInvalidFormat) {
		t.Errorf("ValidateExportFormat(pdf) = %v, want INVALID_FORMAT", err)
	}
}

func TestValidateURL(t *testing.T) {
	if err := ValidateURL("http://localhost:8085"); err != nil {
		t.Errorf("http URL rejected: %v", err)
	}
	if err := ValidateURL("https://flows.example.com"); err != nil {
		t.Errorf("https URL rejected: %v", err)
	}
	if err := ValidateURL(""); err == nil {
		t.Error("empty URL accepted")
	}
	if err := ValidateURL("ftp://host"); err == nil {
		t.Error("ftp URL accepted")
	}
}

func TestValidateWeightInput(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"5", false},
		{" 12 ", false},
		{"-3", false}, // shape is valid, range is the parser's concern
		{"", true},
		{"2.5", true},
		{"five", true},
	}
	for _, tt := range tests {
		err := ValidateWeightInput(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateWeightInput(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
