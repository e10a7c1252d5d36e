package service

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"perpusku_backend/internals/configs"
	authModel "perpusku_backend/internals/features/users/auth/model"
	authRepo "perpusku_backend/internals/features/users/auth/repository"
	userModel "perpusku_backend/internals/features/users/user/model"
)

const (
	accessTTLDefault  = 24 * time.Hour
	refreshTTLDefault = 7 * 24 * time.Hour
)

/* ==========================
   Token issuance
========================== */

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func getJWTSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTSecret)
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_SECRET belum diset")
	}
	return secret, nil
}

func getRefreshSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTRefreshSecret)
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_REFRESH_SECRET belum diset")
	}
	return secret, nil
}

func computeRefreshHash(token, secret string) []byte {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(token))
	return m.Sum(nil)
}

func signAccessToken(user *userModel.UserModel) (string, error) {
	secret, err := getJWTSecret()
	if err != nil {
		return "", err
	}
	claims := jwt.MapClaims{
		"id":        user.ID.String(),
		"user_name": user.UserName,
		"role":      user.Role,
		"typ":       "access",
		"iat":       time.Now().Unix(),
		"exp":       time.Now().Add(accessTTLDefault).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func newOpaqueRefreshToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// IssueTokens membuat access JWT + refresh token opaque (hash-nya disimpan di DB).
func IssueTokens(db *gorm.DB, c *fiber.Ctx, user *userModel.UserModel) (*TokenPair, error) {
	access, err := signAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshSecret, err := getRefreshSecret()
	if err != nil {
		return nil, err
	}
	refresh := newOpaqueRefreshToken()

	ua := strings.TrimSpace(c.Get("User-Agent"))
	ip := c.IP()
	rt := &authModel.RefreshTokenModel{
		UserID:    user.ID,
		TokenHash: computeRefreshHash(refresh, refreshSecret),
		ExpiresAt: time.Now().Add(refreshTTLDefault),
	}
	if ua != "" {
		rt.UserAgent = &ua
	}
	if ip != "" {
		rt.IP = &ip
	}
	if err := authRepo.CreateRefreshToken(db, rt); err != nil {
		log.Printf("[ERROR] simpan refresh token: %v", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan sesi login")
	}

	setAuthCookies(c, access, refresh)
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func setAuthCookies(c *fiber.Ctx, access, refresh string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    access,
		Expires:  time.Now().Add(accessTTLDefault),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refresh,
		Expires:  time.Now().Add(refreshTTLDefault),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
		Path:     "/",
	})
}

/* ==========================
   Register / Login
========================== */

func Register(db *gorm.DB, userName, email, password string) (*userModel.UserModel, error) {
	taken, err := authRepo.IsUsernameTaken(db, userName)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal cek username")
	}
	if taken {
		return nil, fiber.NewError(fiber.StatusConflict, "Username sudah digunakan")
	}
	if _, err := authRepo.FindUserByEmail(db, email); err == nil {
		return nil, fiber.NewError(fiber.StatusConflict, "Email sudah terdaftar")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal cek email")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal hash password")
	}

	user := &userModel.UserModel{
		UserName: userName,
		Email:    strings.ToLower(email),
		Password: string(hashed),
	}
	user.SetDefaultValues()
	if err := authRepo.CreateUser(db, user); err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat user")
	}
	return user, nil
}

func Login(db *gorm.DB, c *fiber.Ctx, identifier, password string) (*userModel.UserModel, *TokenPair, error) {
	user, err := authRepo.FindUserByEmailOrUsername(db, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fiber.NewError(fiber.StatusUnauthorized, "Email/username atau password salah")
		}
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data user")
	}
	if !user.IsActive {
		return nil, nil, fiber.NewError(fiber.StatusForbidden, "Akun Anda telah dinonaktifkan")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, fiber.NewError(fiber.StatusUnauthorized, "Email/username atau password salah")
	}

	pair, err := IssueTokens(db, c, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

/* ==========================
   Google Sign-In
========================== */

func LoginGoogle(db *gorm.DB, c *fiber.Ctx, idToken string) (*userModel.UserModel, *TokenPair, error) {
	clientID := strings.TrimSpace(configs.GoogleClientID)
	if clientID == "" {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "GOOGLE_CLIENT_ID belum diset")
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{clientID}); err != nil {
		return nil, nil, fiber.NewError(fiber.StatusUnauthorized, "Google ID token tidak valid")
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusUnauthorized, "Gagal membaca Google ID token")
	}

	user, err := authRepo.FindUserByGoogleID(db, claimSet.Sub)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// fallback: akun lama dengan email sama → tautkan
		user, err = authRepo.FindUserByEmail(db, strings.ToLower(claimSet.Email))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = &userModel.UserModel{
				UserName: googleUserName(claimSet.Email),
				Email:    strings.ToLower(claimSet.Email),
				Password: newOpaqueRefreshToken(), // tak terpakai untuk login google
				GoogleID: &claimSet.Sub,
			}
			user.SetDefaultValues()
			if err := authRepo.CreateUser(db, user); err != nil {
				return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat user Google")
			}
		} else if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data user")
		} else {
			_ = db.Model(user).Update("google_id", claimSet.Sub).Error
		}
	} else if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data user")
	}

	if !user.IsActive {
		return nil, nil, fiber.NewError(fiber.StatusForbidden, "Akun Anda telah dinonaktifkan")
	}

	pair, err := IssueTokens(db, c, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func googleUserName(email string) string {
	name := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		name = email[:i]
	}
	// suffix acak supaya tidak bertabrakan dengan username lama
	return name + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}

/* ==========================
   Refresh / Logout
========================== */

func Refresh(db *gorm.DB, c *fiber.Ctx, refreshToken string) (*TokenPair, error) {
	refreshSecret, err := getRefreshSecret()
	if err != nil {
		return nil, err
	}

	hash := computeRefreshHash(refreshToken, refreshSecret)
	rt, err := authRepo.FindRefreshTokenByHashActive(db, hash)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Refresh token tidak valid atau kadaluarsa")
	}

	user, err := authRepo.FindUserByID(db, rt.UserID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "User tidak ditemukan")
	}
	if !user.IsActive {
		return nil, fiber.NewError(fiber.StatusForbidden, "Akun Anda telah dinonaktifkan")
	}

	// Rotasi: revoke token lama sebelum terbitkan baru
	if err := authRepo.RevokeRefreshTokenByID(db, rt.ID); err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal rotasi refresh token")
	}
	return IssueTokens(db, c, user)
}

func Logout(db *gorm.DB, c *fiber.Ctx, accessToken, refreshToken string) error {
	if accessToken != "" {
		if err := authRepo.BlacklistToken(db, accessToken, accessTTLDefault); err != nil {
			log.Printf("[ERROR] blacklist access token: %v", err)
		}
	}
	if refreshToken != "" {
		refreshSecret, err := getRefreshSecret()
		if err == nil {
			hash := computeRefreshHash(refreshToken, refreshSecret)
			if rt, err := authRepo.FindRefreshTokenByHashActive(db, hash); err == nil {
				_ = authRepo.RevokeRefreshTokenByID(db, rt.ID)
			}
		}
	}

	// hapus cookie
	c.Cookie(&fiber.Cookie{Name: "access_token", Value: "", Expires: time.Now().Add(-time.Hour), Path: "/"})
	c.Cookie(&fiber.Cookie{Name: "refresh_token", Value: "", Expires: time.Now().Add(-time.Hour), Path: "/"})
	return nil
}
