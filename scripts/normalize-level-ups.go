package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/quest-forge/internal/entities"
)

// legacyFields were written by older clients and are dropped on rewrite
var legacyFields = []string{"previousExperience", "previous_experience"}

// repair describes one session whose level-up fields disagree
type repair struct {
	key     string
	reason  string
	session *entities.GameSession
}

func main() {
	addr := os.Getenv("QUESTFORGE_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("QUESTFORGE_REDIS_PASSWORD"),
	})
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis:", addr)
	fmt.Println("Scanning game sessions for inconsistent level-up state...")

	iter := client.Scan(ctx, 0, "game_session:*", 0).Iterator()

	var repairs []repair
	var unreadable []string
	var checkedCount int

	for iter.Next(ctx) {
		key := iter.Val()
		if strings.HasPrefix(key, "game_session:user:") {
			continue
		}
		checkedCount++

		data, err := client.Get(ctx, key).Result()
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", key, err)
			continue
		}

		var session entities.GameSession
		if err := json.Unmarshal([]byte(data), &session); err != nil {
			fmt.Printf("✗ Corrupted JSON in %s\n", key)
			unreadable = append(unreadable, key)
			continue
		}

		state := session.GameState
		var reason string
		switch {
		case hasLegacyField(data):
			reason = "legacy previousExperience field"
		case state.PendingLevelUp && state.LevelsGained <= 0:
			reason = "pending level-up without levels"
		case !state.PendingLevelUp && state.LevelsGained != 0:
			reason = "levels gained without a pending level-up"
		case state.Health > state.MaxHealth:
			reason = "health above max health"
		default:
			continue
		}
		normalize(&session.GameState)
		repairs = append(repairs, repair{key, reason, &session})
	}

	if err := iter.Err(); err != nil {
		log.Fatal("Error during scan:", err)
	}

	fmt.Printf("\nChecked %d sessions, %d need repair, %d unreadable\n", checkedCount, len(repairs), len(unreadable))

	for _, key := range unreadable {
		fmt.Printf("  ! %s cannot be decoded, inspect it by hand\n", key)
	}

	if len(repairs) == 0 {
		fmt.Println("Nothing to repair!")
		return
	}

	fmt.Println("\nSessions to repair:")
	for _, r := range repairs {
		fmt.Printf("  - %s: %s\n", r.key, r.reason)
	}

	fmt.Print("\nDo you want to WRITE these repairs? (yes/no): ")
	var response string
	_, _ = fmt.Scanln(&response)

	if response != "yes" {
		fmt.Println("Aborted - no changes made")
		return
	}

	for _, r := range repairs {
		data, err := json.Marshal(r.session)
		if err != nil {
			fmt.Printf("Failed to encode %s: %v\n", r.key, err)
			continue
		}
		if err := client.Set(ctx, r.key, data, redis.KeepTTL).Err(); err != nil {
			fmt.Printf("Failed to write %s: %v\n", r.key, err)
		} else {
			fmt.Printf("Repaired %s\n", r.key)
		}
	}
	fmt.Println("\nRepair complete!")
}

func hasLegacyField(data string) bool {
	var raw struct {
		GameState map[string]json.RawMessage `json:"game_state"`
	}
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return false
	}
	for _, field := range legacyFields {
		if _, ok := raw.GameState[field]; ok {
			return true
		}
	}
	return false
}

// normalize applies every rule so one rewrite fixes all of a session's problems
func normalize(state *entities.GameState) {
	if state.PendingLevelUp && state.LevelsGained <= 0 {
		state.PendingLevelUp = false
	}
	if !state.PendingLevelUp {
		state.LevelsGained = 0
	}
	if state.Health > state.MaxHealth {
		state.Health = state.MaxHealth
	}
}
