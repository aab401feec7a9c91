// Seed tool: loads demo data, or the users/messages/follows CSV files in
// -dir, into the configured database.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"Warbler/api/config"
	"Warbler/api/database"
	"Warbler/api/logger"
	"Warbler/api/seed"
)

func main() {
	var dir string
	var reset bool
	flag.StringVar(&dir, "dir", "", "directory holding users.csv, messages.csv and follows.csv (demo data when empty)")
	flag.BoolVar(&reset, "reset", false, "drop and recreate every table first")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log, cfg.IsProduction())

	db, err := database.Open(cfg.Database, cfg.IsProduction(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open database")
	}

	if reset {
		err = database.Reset(db)
	} else {
		err = database.Migrate(db)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("cannot prepare schema")
	}

	start := time.Now()
	var result seed.Result
	if dir == "" {
		result, err = seed.Demo(db)
	} else {
		result, err = seed.Load(db, dir)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}

	log.Info().
		Int("users", result.Users).
		Int("messages", result.Messages).
		Int("follows", result.Follows).
		Dur("took", time.Since(start).Truncate(time.Millisecond)).
		Msg("seeded")
}
