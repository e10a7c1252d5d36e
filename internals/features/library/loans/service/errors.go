package service

import "errors"

// Error domain peminjaman. Service hanya mengembalikan error bertipe
// ini; pemetaan ke HTTP status/error_code terjadi di controller.
var (
	ErrInvalidTransition = errors.New("perubahan status tidak sah dari status saat ini")
	ErrOutOfStock        = errors.New("stok buku tidak tersedia")
	ErrAlreadyBorrowed   = errors.New("user masih memiliki pinjaman aktif untuk buku ini")
	ErrNotFound          = errors.New("data tidak ditemukan")
	ErrValidation        = errors.New("validasi gagal")
	ErrConflict          = errors.New("konflik data")
)

// ValidationErr membungkus ErrValidation dengan pesan spesifik supaya
// errors.Is(err, ErrValidation) tetap berlaku.
func ValidationErr(msg string) error {
	return validationError{msg: msg}
}

type validationError struct{ msg string }

func (e validationError) Error() string { return e.msg }
func (e validationError) Is(target error) bool {
	return target == ErrValidation
}
