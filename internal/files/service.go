package files

import (
	"context"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/campusprint/campusprint-backend/internal/policy"
	"github.com/campusprint/campusprint-backend/pkg/config"
	pkgerrors "github.com/campusprint/campusprint-backend/pkg/errors"
	"github.com/google/uuid"
)

const pdfMimeType = "application/pdf"

type gcsClient interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	SignedReadURL(bucket, object string, expires time.Duration) (string, error)
}

// Service exposes presign semantics for print file uploads and downloads.
type Service interface {
	PresignUpload(actor policy.Actor, input PresignInput) (*PresignOutput, error)
	PresignDownload(ctx context.Context, actor policy.Actor, objectKey string) (*DownloadOutput, error)
}

type service struct {
	gcs         gcsClient
	repo        Repository
	bucket      string
	maxBytes    int64
	uploadTTL   time.Duration
	downloadTTL time.Duration
}

// NewService constructs a files service backed by the provided GCS signer.
func NewService(gcsClient gcsClient, repo Repository, gcsCfg config.GCSConfig, filesCfg config.FilesConfig) (Service, error) {
	if gcsClient == nil {
		return nil, fmt.Errorf("gcs client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("files repository required")
	}
	if gcsCfg.BucketName == "" {
		return nil, fmt.Errorf("gcs bucket required")
	}
	if filesCfg.UploadTTL <= 0 {
		return nil, fmt.Errorf("upload ttl must be positive")
	}
	if filesCfg.DownloadTTL <= 0 {
		return nil, fmt.Errorf("download ttl must be positive")
	}
	return &service{
		gcs:         gcsClient,
		repo:        repo,
		bucket:      gcsCfg.BucketName,
		maxBytes:    filesCfg.MaxUploadBytes,
		uploadTTL:   filesCfg.UploadTTL,
		downloadTTL: filesCfg.DownloadTTL,
	}, nil
}

// PresignInput models the payload required to request an upload URL.
type PresignInput struct {
	FileName  string
	MimeType  string
	SizeBytes int64
}

// PresignOutput contains the signed PUT URL handed back to the client.
type PresignOutput struct {
	ObjectKey    string    `json:"object_key"`
	FileURL      string    `json:"file_url"`
	SignedPUTURL string    `json:"signed_put_url"`
	ContentType  string    `json:"content_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// DownloadOutput contains a time-limited read URL for a stored file.
type DownloadOutput struct {
	ObjectKey    string    `json:"object_key"`
	SignedGETURL string    `json:"signed_get_url"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (s *service) PresignUpload(actor policy.Actor, input PresignInput) (*PresignOutput, error) {
	if actor.ProfileID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}
	if !strings.HasSuffix(strings.ToLower(fileName), ".pdf") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only PDF files can be uploaded")
	}

	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if s.maxBytes > 0 && input.SizeBytes > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size_bytes must be at most %d", s.maxBytes))
	}

	mimeType, err := sniffMimeType(input.MimeType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if mimeType != pdfMimeType {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type must be application/pdf")
	}

	objectKey := buildObjectKey(actor.ProfileID, fileName)

	expiresAt := time.Now().Add(s.uploadTTL)
	signedURL, err := s.gcs.SignedURL(s.bucket, objectKey, mimeType, s.uploadTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	return &PresignOutput{
		ObjectKey:    objectKey,
		FileURL:      publicObjectURL(s.bucket, objectKey),
		SignedPUTURL: signedURL,
		ContentType:  mimeType,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *service) PresignDownload(ctx context.Context, actor policy.Actor, objectKey string) (*DownloadOutput, error) {
	if actor.ProfileID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	objectKey = strings.Trim(strings.TrimSpace(objectKey), "/")
	if objectKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "object key is required")
	}

	ownerID, err := keyOwner(objectKey)
	if err != nil {
		return nil, err
	}

	// The key prefix binds the object to its uploader. Anyone else must hold
	// an order for this file through a shop they own; denied reads surface as
	// NOT_FOUND so callers cannot enumerate objects.
	if ownerID != actor.ProfileID {
		fulfills, err := s.repo.MerchantOwnsOrderFile(ctx, actor.ProfileID, publicObjectURL(s.bucket, objectKey))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check file access")
		}
		if !fulfills {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "file not found")
		}
	}

	expiresAt := time.Now().Add(s.downloadTTL)
	signedURL, err := s.gcs.SignedReadURL(s.bucket, objectKey, s.downloadTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign download url")
	}

	return &DownloadOutput{
		ObjectKey:    objectKey,
		SignedGETURL: signedURL,
		ExpiresAt:    expiresAt,
	}, nil
}

func sniffMimeType(value string) (string, error) {
	clean := strings.TrimSpace(value)
	if clean == "" {
		return "", fmt.Errorf("mime_type is required")
	}
	mediaType, _, err := mime.ParseMediaType(clean)
	if err != nil {
		return "", fmt.Errorf("mime_type invalid: %w", err)
	}
	return strings.ToLower(mediaType), nil
}

func buildObjectKey(profileID uuid.UUID, fileName string) string {
	cleanName := sanitizeFileName(fileName)
	token := uuid.New()
	if cleanName == "" {
		cleanName = token.String() + ".pdf"
	}
	return fmt.Sprintf("%s/%s_%s", profileID, token, cleanName)
}

func keyOwner(objectKey string) (uuid.UUID, error) {
	prefix, _, ok := strings.Cut(objectKey, "/")
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "object key must be scoped to a profile")
	}
	ownerID, err := uuid.Parse(prefix)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "object key must be scoped to a profile")
	}
	return ownerID, nil
}

func publicObjectURL(bucket, objectKey string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectKey)
}

func sanitizeFileName(name string) string {
	clean := path.Base(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}
