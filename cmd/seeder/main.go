package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

type seedPlayer struct {
	ID   string
	Name string
	Rank string
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	players := []seedPlayer{
		{ID: "player-1", Name: "Seeder Player A", Rank: "K"},
		{ID: "player-2", Name: "Seeder Player B", Rank: "H"},
		{ID: "player-3", Name: "Seeder Player C", Rank: "H+"},
		{ID: "player-4", Name: "Seeder Player D", Rank: "G"},
		{ID: "player-5", Name: "Seeder Player E", Rank: "E+"},
	}

	for _, p := range players {
		_, err := db.Exec("INSERT OR IGNORE INTO players (id, name, rank_code) VALUES (?, ?, ?)", p.ID, p.Name, p.Rank)
		if err != nil {
			log.Fatalf("Failed to insert seed player %s: %s", p.Name, err)
		}
	}
	log.Info("Ensured seed players exist.", "count", len(players))

	// A handful of pending challenges to resolve by hand.
	for i := 0; i < 10; i++ {
		challenger := players[rand.Intn(len(players))]
		opponent := players[rand.Intn(len(players))]
		if challenger.ID == opponent.ID {
			continue
		}
		wager := []int{100, 200, 300, 400, 600}[rand.Intn(5)]
		_, err := db.Exec(`
			INSERT INTO challenge_matches (id, challenger_id, opponent_id, wager_points, status, created_at)
			VALUES (?, ?, ?, ?, 'pending', ?)`,
			uuid.NewString(), challenger.ID, opponent.ID, wager, time.Now().Unix())
		if err != nil {
			log.Fatalf("Failed to insert pending challenge: %s", err)
		}
	}
	log.Info("Inserted pending challenge matches.")

	const batchSize = 100
	const numTransactions = 10000

	log.Info("Preparing to insert dummy transaction history...", "total", numTransactions, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*7)

	for i := 0; i < numTransactions; i++ {
		p := players[rand.Intn(len(players))]
		createdAt := time.Now().Add(-time.Duration(rand.Intn(80*24)) * time.Hour)
		amount := 10 + rand.Intn(200)
		if rand.Intn(3) == 0 {
			amount = -amount / 2
		}

		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, 0)")
		valueArgs = append(valueArgs,
			uuid.NewString(),
			p.ID,
			amount,
			"challenge",
			fmt.Sprintf("seed-match-%d", i),
			createdAt.Unix(),
		)

		if (i+1)%batchSize == 0 || (i+1) == numTransactions {
			stmt := fmt.Sprintf(`
				INSERT INTO points_transactions (id, player_id, amount, category, reference_id, created_at, archived)
				VALUES %s;`, strings.Join(valueStrings, ","))

			_, err := tx.Exec(stmt, valueArgs...)
			if err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute batch insert: %s", err)
			}

			// Reset for the next batch
			valueStrings = make([]string, 0, batchSize)
			valueArgs = make([]interface{}, 0, batchSize*7)
			log.Info("Inserted batch", "completed", i+1, "total", numTransactions)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted seed transaction history.", "duration", duration)
}
