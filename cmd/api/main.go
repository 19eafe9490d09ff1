package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"go-toudou/internal/database"
	"go-toudou/internal/routes"
	"go-toudou/internal/services"
)

func main() {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, continuing..")
		}
	}

	db := database.InitDB()
	defer db.Close()

	credentials, err := services.DefaultCredentials()
	if err != nil {
		log.Fatalf("Fatal: Failed to build credential table: %v", err)
	}
	authService := services.NewAuthService(credentials)

	r := routes.SetupRouter(db, authService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server listening on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
