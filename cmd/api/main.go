package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/gym-tracker/internal/config"
	"github.com/fdg312/gym-tracker/internal/dbmigrate"
	"github.com/fdg312/gym-tracker/internal/httpserver"
)

func main() {
	cfg := config.Load()

	printStartupBanner(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("FATAL config: %v", err)
	}
	validateProductionConfig(cfg)

	if cfg.RunMigrationsOnStartup {
		target, err := dbmigrate.SelectTarget(cfg, false)
		if err != nil {
			log.Fatalf("FATAL startup migrations: %v", err)
		}
		if target.Warning != "" {
			log.Printf("WARN startup migrations: %s", target.Warning)
		}

		log.Printf("INFO startup migrations: command=up using=%s", target.Source)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		err = dbmigrate.Run(ctx, "up", target.URL, "")
		cancel()
		if err != nil {
			log.Fatalf("FATAL startup migrations failed: %v", err)
		}
		log.Printf("INFO startup migrations: completed")
	}

	server, err := httpserver.New(cfg)
	if err != nil {
		log.Fatalf("FATAL server: %v", err)
	}
	defer server.Close()

	log.Fatal(server.Start())
}

// printStartupBanner logs a one-time summary of the resolved configuration.
// Secrets are printed only as "set" / "not set".
func printStartupBanner(cfg *config.Config) {
	log.Println("========== Gym Tracker API ==========")
	log.Printf("  env              = %s", cfg.Env)
	log.Printf("  port             = %d", cfg.Port)
	log.Printf("  log_level        = %s", cfg.LogLevel)

	log.Println("---- database ----")
	log.Printf("  runtime_url      = %s", describeDBURL(cfg.DatabaseURL, cfg.DatabaseURLPooled))
	log.Printf("  pooled           = %s", setOrNot(cfg.DatabaseURLPooled))
	log.Printf("  direct           = %s", setOrNot(cfg.DatabaseURLDirect))
	log.Printf("  migrations_on_startup = %t", cfg.RunMigrationsOnStartup)

	log.Println("---- http ----")
	log.Printf("  cors_origins     = %s", nonEmptyOrDash(strings.Join(cfg.CORSAllowedOrigins, ",")))
	log.Printf("  rate_limit       = %s", describeRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	log.Println("---- auth ----")
	log.Printf("  auth_mode        = %s", cfg.AuthMode)
	log.Printf("  auth_required    = %t", cfg.AuthRequired)
	log.Printf("  jwt_secret       = %s", secretStatus(cfg.JWTSecret, "change_me"))

	log.Println("---- calories ----")
	log.Printf("  batch_concurrency = %d", cfg.CaloriesBatchConcurrency)
	log.Printf("  reports_max_customers = %d", cfg.ReportsMaxCustomers)

	log.Println("---- blob ----")
	log.Printf("  blob_mode        = %s", cfg.Blob.Mode)
	if cfg.Blob.Mode != config.BlobModeLocal {
		log.Printf("  s3: %s", cfg.Blob.S3.DiagnosticsSummary())
	}

	log.Println("=====================================")
}

// validateProductionConfig performs fatal checks that only matter in non-local envs.
func validateProductionConfig(cfg *config.Config) {
	isProd := cfg.Env == "production" || cfg.Env == "staging"
	if !isProd {
		return
	}

	if cfg.DatabaseURL == "" {
		log.Fatalf("FATAL db: no DATABASE_URL configured in %s", cfg.Env)
	}
	if cfg.AuthMode == config.AuthModeDev {
		log.Printf("WARN auth: AUTH_MODE=dev issues tokens to anyone in %s", cfg.Env)
	}
}

// ---- helpers (no secrets) ----

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

func nonEmptyOrDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

func secretStatus(v, insecureDefault string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "not set"
	}
	if v == insecureDefault {
		return fmt.Sprintf("set (DEFAULT, insecure '%s')", insecureDefault)
	}
	return "set (custom)"
}

func describeDBURL(runtime, pooled string) string {
	if runtime == "" {
		return "not set (will use in-memory storage)"
	}
	if pooled != "" && runtime == pooled {
		return "set (via DATABASE_URL_POOLED)"
	}
	return "set"
}

func describeRateLimit(rps, burst int) string {
	if rps <= 0 {
		return "disabled"
	}
	return fmt.Sprintf("%d rps, burst %d", rps, burst)
}
