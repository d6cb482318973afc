package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/mrdjames-us/apa-coach/internal/database"
	"github.com/mrdjames-us/apa-coach/internal/team"
)

const (
	seedAccountID = "demo"
	seedCallsign  = "Demo"
	seedPassword  = "demo"
)

func main() {
	log.Info("Starting database seeder...")

	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "apa-coach.db"
	}

	db, teardown, err := database.InitDB(dbName, os.Getenv("TURSO_PRIMARY_URL"), os.Getenv("TURSO_AUTH_TOKEN"))
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	_, err = db.Exec("INSERT OR IGNORE INTO accounts (id, callsign, password, created_at) VALUES (?, ?, ?, ?)",
		seedAccountID, seedCallsign, seedPassword, time.Now().Unix())
	if err != nil {
		log.Fatalf("Failed to insert demo account: %s", err)
	}
	log.Info("Ensured demo account exists.", "callsign", seedCallsign, "password", seedPassword)

	store := team.New(db)

	names := []string{
		"Fast Eddie", "Minnesota Slim", "The Professor", "Lefty Lou",
		"Bank Shot Bea", "Chalky", "Nine-Ball Nina", "Side Pocket Sam",
	}
	players := make([]team.Player, 0, len(names))
	for _, name := range names {
		p, err := store.AddPlayer(seedAccountID, name, 2+rand.Intn(5), 2+rand.Intn(5))
		if err != nil {
			log.Fatalf("Failed to insert player %s: %s", name, err)
		}
		players = append(players, *p)
	}
	log.Info("Inserted demo players.", "count", len(players))

	const batchSize = 50
	const numMatches = 200

	log.Info("Preparing to insert dummy matches...", "total", numMatches, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*7) // 7 columns per match

	for i := 0; i < numMatches; i++ {
		matchDate := time.Now().Add(-time.Duration(rand.Intn(180*24)) * time.Hour)

		var slots [team.NumSlots]team.MatchSlot
		wins, losses := 0, 0
		for j := range slots {
			slots[j] = team.MatchSlot{
				Index:         j,
				GameType:      team.GameTypeForSlot(j),
				OpponentSkill: 2 + rand.Intn(5),
			}
			if rand.Intn(4) == 0 {
				continue // forfeited slot
			}
			slots[j].PlayerID = players[rand.Intn(len(players))].ID
			if rand.Intn(2) == 0 {
				slots[j].Result = team.ResultWin
				wins++
			} else {
				slots[j].Result = team.ResultLoss
				losses++
			}
		}
		slotsJSON, _ := json.Marshal(slots)

		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, ?)")
		valueArgs = append(valueArgs,
			uuid.NewString(),
			seedAccountID,
			fmt.Sprintf("Seeded Opponent %d", i%10),
			matchDate.Unix(),
			slotsJSON,
			wins,
			losses,
		)

		if (i+1)%batchSize == 0 || (i+1) == numMatches {
			stmt := fmt.Sprintf(`
				INSERT INTO matches (id, account_id, opponent_name, match_date, slots_json, total_wins, total_losses)
				VALUES %s;`, strings.Join(valueStrings, ","))

			_, err := tx.Exec(stmt, valueArgs...)
			if err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute batch insert: %s", err)
			}

			// Reset for the next batch
			valueStrings = make([]string, 0, batchSize)
			valueArgs = make([]interface{}, 0, batchSize*7)
			log.Info("Inserted batch", "completed", i+1, "total", numMatches)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted all dummy matches.", "duration", duration)
}
