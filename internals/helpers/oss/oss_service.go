// internals/helpers/oss/oss_service.go
package oss

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
)

/* =======================================================================
   OSSService — penyimpanan media (bukti pengembalian, bukti bayar,
   sampul buku, foto profil). Core hanya menyimpan URL hasil upload.
======================================================================= */

const maxUploadSize = int64(5 * 1024 * 1024)

type OSSService struct {
	Bucket    *oss.Bucket
	BaseURL   string // https://<bucket>.<endpoint>
	KeyPrefix string // mis. "perpusku/prod"
}

func NewOSSServiceFromEnv(prefix string) (*OSSService, error) {
	endpoint := strings.TrimSpace(os.Getenv("OSS_ENDPOINT"))
	keyID := strings.TrimSpace(os.Getenv("OSS_ACCESS_KEY_ID"))
	keySecret := strings.TrimSpace(os.Getenv("OSS_ACCESS_KEY_SECRET"))
	bucketName := strings.TrimSpace(os.Getenv("OSS_BUCKET"))
	if endpoint == "" || keyID == "" || keySecret == "" || bucketName == "" {
		return nil, fmt.Errorf("OSS env belum lengkap (OSS_ENDPOINT/OSS_ACCESS_KEY_ID/OSS_ACCESS_KEY_SECRET/OSS_BUCKET)")
	}

	client, err := oss.New(endpoint, keyID, keySecret)
	if err != nil {
		return nil, err
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, err
	}

	base := strings.TrimSpace(os.Getenv("OSS_PUBLIC_BASE_URL"))
	if base == "" {
		host := strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")
		base = fmt.Sprintf("https://%s.%s", bucketName, host)
	}

	return &OSSService{
		Bucket:    bucket,
		BaseURL:   strings.TrimRight(base, "/"),
		KeyPrefix: strings.Trim(prefix, "/"),
	}, nil
}

/* =======================================================================
   Upload foto → WebP (resize keep-aspect, lalu encode lossy)
======================================================================= */

// UploadImageAsWebP membaca file multipart, konversi ke WebP, upload,
// dan kembalikan URL publiknya.
func (s *OSSService) UploadImageAsWebP(ctx context.Context, fh *multipart.FileHeader, dir string) (string, error) {
	if fh.Size > maxUploadSize {
		return "", fiber.NewError(fiber.StatusRequestEntityTooLarge, "Ukuran file maksimal 5MB")
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := convertToWebP(f, fh.Filename)
	if err != nil {
		return "", err
	}

	key := s.buildObjectKey(dir, replaceExt(fh.Filename, ".webp"))
	if err := s.putStream(ctx, key, bytes.NewReader(data), "image/webp"); err != nil {
		return "", err
	}
	return s.PublicURL(key), nil
}

// UploadFile mengunggah file apa adanya (bukti transfer PDF dsb).
func (s *OSSService) UploadFile(ctx context.Context, fh *multipart.FileHeader, dir string) (string, error) {
	if fh.Size > maxUploadSize {
		return "", fiber.NewError(fiber.StatusRequestEntityTooLarge, "Ukuran file maksimal 5MB")
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, _ := io.ReadFull(f, head)
	contentType := http.DetectContentType(head[:n])
	rd := io.MultiReader(bytes.NewReader(head[:n]), f)

	key := s.buildObjectKey(dir, fh.Filename)
	if err := s.putStream(ctx, key, rd, contentType); err != nil {
		return "", err
	}
	return s.PublicURL(key), nil
}

func (s *OSSService) putStream(ctx context.Context, key string, r io.Reader, contentType string) error {
	opts := []oss.Option{
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	}
	done := make(chan error, 1)
	go func() { done <- s.Bucket.PutObject(key, r, opts...) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *OSSService) PublicURL(key string) string {
	return s.BaseURL + "/" + key
}

// DeleteByPublicURL menghapus objek berdasarkan URL publiknya.
func (s *OSSService) DeleteByPublicURL(ctx context.Context, publicURL string) error {
	key, err := s.keyFromPublicURL(publicURL)
	if err != nil {
		return err
	}
	return s.Bucket.DeleteObject(key)
}

func (s *OSSService) keyFromPublicURL(publicURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(publicURL))
	if err != nil || u.Path == "" {
		return "", fmt.Errorf("URL OSS tidak valid: %q", publicURL)
	}
	return strings.TrimPrefix(u.Path, "/"), nil
}

func (s *OSSService) buildObjectKey(dir, filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = sanitizePart(base)
	if base == "" {
		base = "file"
	}
	name := fmt.Sprintf("%s-%d-%s%s", base, time.Now().Unix(), randHex(4), strings.ToLower(filepath.Ext(filename)))
	parts := []string{}
	if s.KeyPrefix != "" {
		parts = append(parts, s.KeyPrefix)
	}
	if d := strings.Trim(dir, "/"); d != "" {
		parts = append(parts, d)
	}
	parts = append(parts, name)
	return path.Join(parts...)
}

/* =======================================================================
   Konversi WebP
======================================================================= */

func convertToWebP(f multipart.File, filename string) ([]byte, error) {
	all, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	img, err := decodeAny(all, filename)
	if err != nil {
		return nil, err
	}

	// Resize keep-aspect: foto bukti tidak perlu lebih dari 1600px
	img = imaging.Fit(img, 1600, 1600, imaging.CatmullRom)

	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: 80}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeAny menerima jpeg/png/gif/bmp (via imaging) dan webp.
func decodeAny(all []byte, filename string) (image.Image, error) {
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	if strings.Contains(http.DetectContentType(head), "webp") ||
		strings.EqualFold(filepath.Ext(filename), ".webp") {
		return webp.Decode(bytes.NewReader(all))
	}
	img, err := imaging.Decode(bytes.NewReader(all), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("format gambar tidak didukung (%s): %w", filepath.Ext(filename), err)
	}
	return img, nil
}

func sanitizePart(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == ' ':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

func replaceExt(filename, newExt string) string {
	return strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)) + newExt
}

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

/* =======================================================================
   Helper multipart untuk controller
======================================================================= */

var defaultImageFields = []string{"file", "image", "photo", "proof"}

func IsMultipart(c *fiber.Ctx) bool {
	ct := strings.ToLower(c.Get(fiber.HeaderContentType))
	return strings.HasPrefix(ct, "multipart/form-data")
}

// GetImageFile mencari file pada field yang umum dipakai frontend.
func GetImageFile(c *fiber.Ctx, fieldNames ...string) (*multipart.FileHeader, error) {
	if len(fieldNames) == 0 {
		fieldNames = defaultImageFields
	}
	for _, name := range fieldNames {
		if fh, err := c.FormFile(name); err == nil && fh != nil {
			return fh, nil
		}
	}
	return nil, fiber.NewError(fiber.StatusBadRequest, "File tidak ditemukan pada form")
}
