package helper

import (
	"regexp"
	"testing"
	"time"
)

func TestGenerateBorrowCode(t *testing.T) {
	now := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^PJM-20260901-[0-9A-F]{6}$`)

	code := GenerateBorrowCode(now)
	if !pattern.MatchString(code) {
		t.Errorf("GenerateBorrowCode() = %q, tidak cocok pola %s", code, pattern)
	}
}

func TestGenerateBorrowCodeVaries(t *testing.T) {
	now := time.Now()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code := GenerateBorrowCode(now)
		if seen[code] {
			t.Fatalf("kode pinjam duplikat dalam 50 percobaan: %s", code)
		}
		seen[code] = true
	}
}
