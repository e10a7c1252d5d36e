package helper

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateBorrowCode membentuk kode pinjam yang enak dibaca petugas,
// contoh: PJM-20260901-7F3A2C. Unik cukup dari fragmen UUID;
// kolomnya tetap diberi constraint unique di DB.
func GenerateBorrowCode(now time.Time) string {
	frag := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("PJM-%s-%s", now.Format("20060102"), frag)
}
