package model

import "testing"

func TestIsValidBatchMethod(t *testing.T) {
	tests := []struct {
		method string
		want   bool
	}{
		{"bank", true},
		{"qris", true},
		{"cash", true},
		{"", false},
		{"transfer", false},
		{"QRIS", false}, // dinormalkan di DTO, model ketat lowercase
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			if got := IsValidBatchMethod(tt.method); got != tt.want {
				t.Errorf("IsValidBatchMethod(%q) = %v, want %v", tt.method, got, tt.want)
			}
		})
	}
}

func TestInitialStatus(t *testing.T) {
	tests := []struct {
		method string
		want   string
	}{
		{"bank", BatchStatusAwaitingProof},
		{"qris", BatchStatusAwaitingProof},
		{"cash", BatchStatusPendingVerification},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			if got := InitialStatus(tt.method); got != tt.want {
				t.Errorf("InitialStatus(%q) = %q, want %q", tt.method, got, tt.want)
			}
		})
	}
}
