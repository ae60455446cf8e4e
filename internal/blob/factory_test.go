package blob

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"

	appcfg "github.com/fdg312/gym-tracker/internal/config"
)

func fullS3Config() appcfg.S3Config {
	return appcfg.S3Config{
		Endpoint:          "http://localhost:9000",
		Region:            "us-east-1",
		Bucket:            "gym-reports",
		AccessKeyID:       "minio",
		SecretAccessKey:   "minio-secret",
		PresignTTLSeconds: 600,
	}
}

func TestNewReportStoreLocalForced(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	store, mode, err := NewReportStore(context.Background(), appcfg.BlobConfig{
		Mode: appcfg.BlobModeLocal,
		S3:   fullS3Config(),
	}, logger)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mode != appcfg.BlobModeLocal {
		t.Fatalf("expected mode=local, got %s", mode)
	}
	if store != nil {
		t.Fatal("expected nil store in local mode")
	}
	if !strings.Contains(buf.String(), "mode=local (forced)") {
		t.Fatalf("expected local mode log, got: %s", buf.String())
	}
}

func TestNewReportStoreAutoEmptyS3FallsBackToLocal(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	store, mode, err := NewReportStore(context.Background(), appcfg.BlobConfig{Mode: appcfg.BlobModeAuto}, logger)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mode != appcfg.BlobModeLocal || store != nil {
		t.Fatalf("expected local fallback, got mode=%s store=%v", mode, store)
	}

	logOut := buf.String()
	if !strings.Contains(logOut, "code=s3_not_configured") {
		t.Fatalf("expected s3_not_configured diagnostics, got: %s", logOut)
	}
	if !strings.Contains(logOut, "mode=local (auto)") {
		t.Fatalf("expected auto local fallback log, got: %s", logOut)
	}
	if strings.Contains(logOut, "minio-secret") {
		t.Fatal("log output leaked a secret")
	}
}

func TestNewReportStoreAutoConfiguredBuildsS3(t *testing.T) {
	store, mode, err := NewReportStore(context.Background(), appcfg.BlobConfig{
		Mode: appcfg.BlobModeAuto,
		S3:   fullS3Config(),
	}, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mode != appcfg.BlobModeS3 {
		t.Fatalf("expected mode=s3, got %s", mode)
	}
	if _, ok := store.(*S3Store); !ok {
		t.Fatalf("expected *S3Store, got %T", store)
	}
}

func TestNewReportStoreForcedS3LogsBucket(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	store, mode, err := NewReportStore(context.Background(), appcfg.BlobConfig{
		Mode: " S3 ",
		S3:   fullS3Config(),
	}, logger)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mode != appcfg.BlobModeS3 || store == nil {
		t.Fatalf("expected s3 store, got mode=%s store=%v", mode, store)
	}
	if !strings.Contains(buf.String(), "bucket=gym-reports") {
		t.Fatalf("expected bucket in log, got: %s", buf.String())
	}
	if strings.Contains(buf.String(), "minio-secret") {
		t.Fatal("log output leaked a secret")
	}
}

func TestNewReportStoreS3MissingRequiredReturnsError(t *testing.T) {
	store, mode, err := NewReportStore(context.Background(), appcfg.BlobConfig{
		Mode: appcfg.BlobModeS3,
		S3:   appcfg.S3Config{Endpoint: "http://localhost:9000"},
	}, nil)
	if err == nil {
		t.Fatal("expected error when mode=s3 and required env are missing")
	}
	if store != nil || mode != "" {
		t.Fatalf("expected nil store and empty mode on error, got store=%v mode=%q", store, mode)
	}
	if !strings.Contains(err.Error(), "S3_BUCKET") {
		t.Fatalf("expected missing bucket in error, got: %v", err)
	}
}

func TestNewReportStoreUnknownMode(t *testing.T) {
	if _, _, err := NewReportStore(context.Background(), appcfg.BlobConfig{Mode: "ftp"}, nil); err == nil {
		t.Fatal("expected error for unsupported mode")
	}
}

func TestS3StoreDownloadURLPrefersPublic(t *testing.T) {
	cfg := fullS3Config()
	cfg.PreferPublicURL = true
	cfg.PublicBaseURL = "https://cdn.example.com/gym-reports/"

	store, err := NewS3Store(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewS3Store: %v", err)
	}

	got, err := store.DownloadURL(context.Background(), "reports/a b.csv")
	if err != nil {
		t.Fatalf("DownloadURL: %v", err)
	}
	if want := "https://cdn.example.com/gym-reports/reports/a%20b.csv"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestS3StoreDownloadURLPresigns(t *testing.T) {
	store, err := NewS3Store(context.Background(), fullS3Config())
	if err != nil {
		t.Fatalf("NewS3Store: %v", err)
	}

	got, err := store.DownloadURL(context.Background(), "reports/x.pdf")
	if err != nil {
		t.Fatalf("DownloadURL: %v", err)
	}
	if !strings.HasPrefix(got, "http://localhost:9000/gym-reports/reports/x.pdf?") {
		t.Errorf("unexpected presigned URL: %s", got)
	}
	if !strings.Contains(got, "X-Amz-Signature=") {
		t.Errorf("expected signature in URL: %s", got)
	}
}
