package constants

import "fmt"

// Role yang dikenal aplikasi perpustakaan
const (
	RoleUser      = "user"      // anggota perpustakaan
	RoleLibrarian = "librarian" // petugas sirkulasi
	RoleAdmin     = "admin"     // admin / kepala perpustakaan
)

// Template pesan error role
const (
	ErrOnlyAdminsCanAccess    = "❌ Hanya admin yang boleh mengakses fitur %s."
	ErrOnlyStaffCanAccess     = "❌ Hanya petugas atau admin yang boleh mengakses fitur %s."
	ErrOnlyMembersCanAccess   = "❌ Hanya anggota terdaftar yang boleh mengakses fitur %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

func RoleErrorMember(feature string) string {
	return fmt.Sprintf(ErrOnlyMembersCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleUser,
		RoleLibrarian,
		RoleAdmin,
	}

	StaffRoles = []string{
		RoleLibrarian,
		RoleAdmin,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)
