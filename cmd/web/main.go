package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/q1anyun/chess-tms/internal/db"
	"github.com/q1anyun/chess-tms/internal/elo"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	database := db.InitDB(envOr("DATABASE_PATH", "chess_tms.db"))
	defer database.Close()

	if err := db.RunMigrations(database.DB); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	engine := elo.NewEngine(
		envInt("ELO_K_FACTOR", elo.DefaultKFactor),
		envInt("ELO_RATING_FLOOR", elo.DefaultRatingFloor),
	)

	router := newRouter(database, engine)

	port := envOr("PORT", "8080")
	log.Println("Server starting on http://localhost:" + port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("Invalid value for %s: %q", key, v)
	}
	return n
}
