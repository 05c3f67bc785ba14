package roster

import "testing"

func TestExtractSequence(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		want   int
		wantOK bool
	}{
		{name: "roll number", value: "CS2401", want: 2401, wantOK: true},
		{name: "digits only", value: "045", want: 45, wantOK: true},
		{name: "long PRN", value: "72200001", want: 72200001, wantOK: true},
		{name: "trailing letter fails", value: "72200001K", wantOK: false},
		{name: "embedded digits fail", value: "RBT21CS", wantOK: false},
		{name: "embedded digits ignored", value: "RBT21CS045", want: 45, wantOK: true},
		{name: "letters only", value: "ABC", wantOK: false},
		{name: "empty", value: "", wantOK: false},
		{name: "whitespace trimmed", value: "  CS2401  ", want: 2401, wantOK: true},
		{name: "zero", value: "A0", want: 0, wantOK: true},
		{name: "absurdly long digit run", value: "99999999999999999999999999", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractSequence(tt.value)
			if ok != tt.wantOK {
				t.Fatalf("ExtractSequence(%q) ok = %v, want %v", tt.value, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ExtractSequence(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestExtractSequenceIdempotent(t *testing.T) {
	for i := 0; i < 3; i++ {
		got, ok := ExtractSequence("CS2401")
		if !ok || got != 2401 {
			t.Fatalf("run %d: ExtractSequence() = %d, %v; want 2401, true", i, got, ok)
		}
	}
}
