package main

import (
	"log"
	"net/http"
	"os"

	"github.com/AdamBeresnev/tourney-engine/internal/db"
	"github.com/AdamBeresnev/tourney-engine/internal/live"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "tourney.db"
	}

	database := db.InitDB(dbPath)
	defer database.Close()

	db.RunMigrations(database)

	hub := live.NewHub()
	go hub.Run()

	router := newRouter(database, hub)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("Server starting on http://localhost:" + port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal(err)
	}
}
