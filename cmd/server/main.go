package main

import (
	"log"

	"github.com/joho/godotenv"

	"coin-casino/internal/app"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading environment directly")
	}

	server := app.NewServer()
	log.Fatal(server.Start())
}
