package main

import (
	"context"
	"flag"
	"log"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/gym-tracker/internal/config"
	"github.com/fdg312/gym-tracker/internal/dbmigrate"
)

func main() {
	dir := flag.String("dir", "", "migrations directory (default: embedded SQL files)")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatalf("usage: go run ./cmd/migrate [-dir %s] [%s]", dbmigrate.DefaultMigrationsDir, strings.Join(dbmigrate.Commands, "|"))
	}

	command := flag.Arg(0)
	if !dbmigrate.IsSupported(command) {
		log.Fatalf("unsupported command %q (allowed: %s)", command, strings.Join(dbmigrate.Commands, ", "))
	}

	cfg := config.Load()
	target, err := dbmigrate.SelectTarget(cfg, false)
	if err != nil {
		log.Fatal(err)
	}

	if target.Warning != "" {
		log.Printf("WARN migrate: %s", target.Warning)
	}
	log.Printf("INFO migrate: command=%s using=%s dir=%s", command, target.Source, describeDir(*dir))

	if err := dbmigrate.Run(context.Background(), command, target.URL, *dir); err != nil {
		log.Fatal(err)
	}

	log.Printf("INFO migrate: %s completed successfully", command)
}

func describeDir(dir string) string {
	if dir == "" {
		return "(embedded)"
	}
	return dir
}
