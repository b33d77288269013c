package course

import (
	"strings"
	"testing"
)

func Test_generateAccessCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := generateAccessCode()
		if err != nil {
			t.Fatalf("generateAccessCode() error = %v", err)
		}
		if len(code) != codeLength {
			t.Errorf("generateAccessCode() len = %d, want %d", len(code), codeLength)
		}
		if code != strings.ToUpper(code) {
			t.Errorf("generateAccessCode() = %q, want uppercase", code)
		}
		for _, c := range code {
			if !strings.ContainsRune(codeAlphabet, c) {
				t.Errorf("generateAccessCode() = %q, char %q not in alphabet", code, c)
			}
		}
		seen[code] = true
	}
	if len(seen) < 99 {
		t.Errorf("generateAccessCode() produced too many collisions: %d unique out of 100", len(seen))
	}
}
