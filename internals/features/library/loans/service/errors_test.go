package service

import (
	"errors"
	"testing"
)

func TestValidationErr(t *testing.T) {
	err := ValidationErr("Alasan penolakan wajib diisi")

	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationErr harus cocok dengan ErrValidation lewat errors.Is")
	}
	if err.Error() != "Alasan penolakan wajib diisi" {
		t.Errorf("pesan error berubah: %q", err.Error())
	}
	if errors.Is(err, ErrInvalidTransition) {
		t.Error("ValidationErr tidak boleh cocok dengan sentinel lain")
	}
}
