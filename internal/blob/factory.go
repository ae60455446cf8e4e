package blob

import (
	"context"
	"fmt"
	"strings"

	appcfg "github.com/fdg312/gym-tracker/internal/config"
)

type Logger interface {
	Printf(format string, v ...any)
}

// NewReportStore выбирает, где хранить файлы отчётов по калориям (BLOB_MODE local|s3|auto).
// A nil Store with mode "local" means report bytes stay inline in calorie_reports.
// Only BLOB_MODE=s3 turns a broken S3 setup into a startup error; auto degrades to local.
func NewReportStore(ctx context.Context, cfg appcfg.BlobConfig, logger Logger) (Store, string, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = appcfg.BlobModeLocal
	}

	var forced bool
	switch mode {
	case appcfg.BlobModeLocal:
		logf(logger, "INFO reports.blob: mode=local (forced), report files stored inline")
		return nil, appcfg.BlobModeLocal, nil
	case appcfg.BlobModeS3:
		forced = true
	case appcfg.BlobModeAuto:
	default:
		return nil, "", fmt.Errorf("unsupported BLOB_MODE %q (allowed: local, s3, auto)", mode)
	}

	if !cfg.S3.IsConfigured() {
		if forced {
			missing := cfg.S3.MissingRequired()
			logf(logger, "ERROR reports.blob: code=s3_config_incomplete missing=%v", missing)
			return nil, "", fmt.Errorf("BLOB_MODE=s3 requested but missing required config: %s", strings.Join(missing, ", "))
		}
		level, code, msg := cfg.S3.Diagnostics()
		logf(logger, "%s reports.blob: code=%s %s", level, code, msg)
		logf(logger, "INFO reports.blob: mode=local (auto), report files stored inline")
		return nil, appcfg.BlobModeLocal, nil
	}

	logf(logger, "INFO reports.blob: code=s3_ready %s", cfg.S3.DiagnosticsSummary())
	store, err := NewS3Store(ctx, cfg.S3)
	if err != nil {
		if forced {
			return nil, "", fmt.Errorf("BLOB_MODE=s3 init failed: %w", err)
		}
		logf(logger, "WARN reports.blob: s3 init failed (%v), report files stored inline", err)
		return nil, appcfg.BlobModeLocal, nil
	}

	logf(logger, "INFO reports.blob: mode=s3 bucket=%s prefix=reports/", cfg.S3.Bucket)
	return store, appcfg.BlobModeS3, nil
}

func logf(logger Logger, format string, v ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, v...)
}
