package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/sondagsholdet/courtmix/internal/database"
	"github.com/sondagsholdet/courtmix/internal/league"
)

// Seeds a demo season: a handful of players, a few weekly sessions, each with
// planned rounds, recorded winners and a closed archive, so standings and the
// rival badge have something to chew on.
func main() {
	log.Info("Starting database seeder...")

	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}
	dbName, ok := os.LookupEnv("DB_NAME")
	if !ok {
		log.Fatalf("Error: Required environment variable DB_NAME is not set.")
	}

	db, teardown, err := database.InitDB(dbName, os.Getenv("TURSO_PRIMARY_URL"), os.Getenv("TURSO_AUTH_TOKEN"), "./migrations")
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	store := league.New(db)

	names := []string{"Anders", "Bo", "Camilla", "Ditte", "Erik", "Frederik", "Gitte", "Henrik", "Ida", "Jonas"}
	ids := make([]string, 0, len(names))
	for _, name := range names {
		player, err := store.AddPlayer(name)
		if err != nil {
			log.Fatalf("Failed to add player %s: %s", name, err)
		}
		ids = append(ids, player.ID)
	}
	log.Info("Seeded players", "count", len(ids))

	rng := rand.New(rand.NewSource(42))
	sessionDate := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

	for week := 0; week < 6; week++ {
		date := sessionDate.AddDate(0, 0, 7*week).Format("2006-01-02")

		// Between 6 and all 10 players show up.
		present := ids[:6+rng.Intn(len(ids)-5)]
		if err := store.RecordAttendance(date, present); err != nil {
			log.Fatalf("Failed to record attendance: %s", err)
		}

		for r := 0; r < 2; r++ {
			round, err := store.PlanRound(date, 3)
			if err != nil {
				log.Fatalf("Failed to plan round: %s", err)
			}
			for _, m := range round.Matches {
				if err := store.RecordWinner(round.Index, m.ID, 1+rng.Intn(2)); err != nil {
					log.Fatalf("Failed to record winner: %s", err)
				}
			}
			if err := store.CloseRound(round.Index); err != nil {
				log.Fatalf("Failed to close round: %s", err)
			}
			log.Info("Seeded round", "round", round.Index, "date", date, "matches", len(round.Matches))
		}
	}

	log.Info("Seeder finished.")
}
