package main

import (
	"log"
	"net/http"

	flag "github.com/spf13/pflag"

	"github.com/microblog/app/internal/config"
	"github.com/microblog/app/internal/database"
	"github.com/microblog/app/internal/handlers"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	dbPath := flag.String("db", "", "path to the SQLite database file (overrides config)")
	initDB := flag.Bool("init-db", false, "destructively recreate the database schema and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database = *dbPath
	}

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	if *initDB {
		if err := database.InitSchema(db); err != nil {
			log.Fatalf("Error initializing schema: %v", err)
		}
		log.Println("Initialized the database.")
		return
	}

	// Paths are relative to the project root, where the server is run.
	if err := handlers.LoadTemplates("web/templates"); err != nil {
		log.Fatalf("Error loading templates: %v", err)
	}

	sessions := handlers.NewSessionStore(cfg.SessionLifetime())
	mux := handlers.NewRouter(db, sessions)

	log.Printf("Server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
