package files

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/campusprint/campusprint-backend/internal/policy"
	"github.com/campusprint/campusprint-backend/pkg/config"
	pkgerrors "github.com/campusprint/campusprint-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGCSClient struct {
	lastBucket      string
	lastObject      string
	lastContentType string
	err             error
}

func (s *stubGCSClient) SignedURL(bucket, object, contentType string, expires time.Duration) (string, error) {
	s.lastBucket = bucket
	s.lastObject = object
	s.lastContentType = contentType
	if s.err != nil {
		return "", s.err
	}
	return "https://storage.googleapis.com/" + bucket + "/" + object + "?signed=put", nil
}

func (s *stubGCSClient) SignedReadURL(bucket, object string, expires time.Duration) (string, error) {
	s.lastBucket = bucket
	s.lastObject = object
	if s.err != nil {
		return "", s.err
	}
	return "https://storage.googleapis.com/" + bucket + "/" + object + "?signed=get", nil
}

type stubAccessRepo struct {
	owns      bool
	err       error
	lastOwner uuid.UUID
	lastURL   string
}

func (s *stubAccessRepo) MerchantOwnsOrderFile(ctx context.Context, ownerID uuid.UUID, fileURL string) (bool, error) {
	s.lastOwner = ownerID
	s.lastURL = fileURL
	return s.owns, s.err
}

func newTestService(t *testing.T, gcs *stubGCSClient, repo Repository) Service {
	t.Helper()

	svc, err := NewService(gcs, repo,
		config.GCSConfig{BucketName: "print-files"},
		config.FilesConfig{MaxUploadBytes: 52428800, UploadTTL: 15 * time.Minute, DownloadTTL: 10 * time.Minute})
	require.NoError(t, err)
	return svc
}

func TestPresignUpload(t *testing.T) {
	gcs := &stubGCSClient{}
	svc := newTestService(t, gcs, &stubAccessRepo{})
	actor := policy.Actor{ProfileID: uuid.New()}

	out, err := svc.PresignUpload(actor, PresignInput{
		FileName:  "term paper.pdf",
		MimeType:  "application/pdf",
		SizeBytes: 1024,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out.ObjectKey, actor.ProfileID.String()+"/"), "key is scoped to the profile: %s", out.ObjectKey)
	assert.True(t, strings.HasSuffix(out.ObjectKey, "_term-paper.pdf"), "spaces collapse to dashes: %s", out.ObjectKey)
	assert.Equal(t, "application/pdf", out.ContentType)
	assert.Equal(t, "https://storage.googleapis.com/print-files/"+out.ObjectKey, out.FileURL)
	assert.Contains(t, out.SignedPUTURL, "signed=put")
	assert.Equal(t, "print-files", gcs.lastBucket)
	assert.Equal(t, out.ObjectKey, gcs.lastObject)
}

func TestPresignUploadValidation(t *testing.T) {
	svc := newTestService(t, &stubGCSClient{}, &stubAccessRepo{})
	actor := policy.Actor{ProfileID: uuid.New()}

	cases := []struct {
		name  string
		input PresignInput
	}{
		{"missing file name", PresignInput{MimeType: "application/pdf", SizeBytes: 10}},
		{"non pdf extension", PresignInput{FileName: "photo.png", MimeType: "image/png", SizeBytes: 10}},
		{"non pdf mime", PresignInput{FileName: "notes.pdf", MimeType: "text/plain", SizeBytes: 10}},
		{"missing mime", PresignInput{FileName: "notes.pdf", SizeBytes: 10}},
		{"zero size", PresignInput{FileName: "notes.pdf", MimeType: "application/pdf"}},
		{"oversize", PresignInput{FileName: "notes.pdf", MimeType: "application/pdf", SizeBytes: 52428801}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.PresignUpload(actor, tc.input)
			appErr := pkgerrors.As(err)
			require.NotNil(t, appErr, "expected typed error, got %v", err)
			assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
		})
	}
}

func TestPresignUploadRequiresAuth(t *testing.T) {
	svc := newTestService(t, &stubGCSClient{}, &stubAccessRepo{})

	_, err := svc.PresignUpload(policy.Actor{}, PresignInput{
		FileName:  "notes.pdf",
		MimeType:  "application/pdf",
		SizeBytes: 10,
	})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
}

func TestPresignDownloadOwner(t *testing.T) {
	gcs := &stubGCSClient{}
	repo := &stubAccessRepo{}
	svc := newTestService(t, gcs, repo)
	actor := policy.Actor{ProfileID: uuid.New()}
	key := actor.ProfileID.String() + "/def_notes.pdf"

	out, err := svc.PresignDownload(context.Background(), actor, "/"+key)
	require.NoError(t, err)
	assert.Equal(t, key, out.ObjectKey)
	assert.Contains(t, out.SignedGETURL, "signed=get")
	assert.Empty(t, repo.lastURL, "owner reads must not hit the order lookup")
}

func TestPresignDownloadFulfillingMerchant(t *testing.T) {
	gcs := &stubGCSClient{}
	repo := &stubAccessRepo{owns: true}
	svc := newTestService(t, gcs, repo)
	actor := policy.Actor{ProfileID: uuid.New()}
	key := uuid.NewString() + "/def_notes.pdf"

	out, err := svc.PresignDownload(context.Background(), actor, key)
	require.NoError(t, err)
	assert.Equal(t, key, out.ObjectKey)
	assert.Equal(t, actor.ProfileID, repo.lastOwner)
	assert.Equal(t, "https://storage.googleapis.com/print-files/"+key, repo.lastURL)
}

func TestPresignDownloadStrangerDenied(t *testing.T) {
	gcs := &stubGCSClient{}
	repo := &stubAccessRepo{owns: false}
	svc := newTestService(t, gcs, repo)
	actor := policy.Actor{ProfileID: uuid.New()}

	_, err := svc.PresignDownload(context.Background(), actor, uuid.NewString()+"/def_notes.pdf")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
	assert.Empty(t, gcs.lastObject, "denied reads must not be signed")
}

func TestPresignDownloadKeyValidation(t *testing.T) {
	svc := newTestService(t, &stubGCSClient{}, &stubAccessRepo{})
	actor := policy.Actor{ProfileID: uuid.New()}

	for _, key := range []string{"   ", "notes.pdf", "not-a-uuid/notes.pdf"} {
		_, err := svc.PresignDownload(context.Background(), actor, key)
		appErr := pkgerrors.As(err)
		require.NotNil(t, appErr, "key %q", key)
		assert.Equal(t, pkgerrors.CodeValidation, appErr.Code(), "key %q", key)
	}
}
