package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/stizirine/booklio-application-sub001/config"
	"github.com/stizirine/booklio-application-sub001/models"
	"github.com/stizirine/booklio-application-sub001/routes"
	"github.com/stizirine/booklio-application-sub001/services"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found")
	}
	config.SetupLogger()

	// Amounts serialize as plain numbers on the wire
	decimal.MarshalJSONWithoutQuotes = true

	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Client{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.Payment{},
		&models.PaymentReminderLog{},
	)
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	scheduler := services.NewScheduler(config.DB)
	scheduler.Start()

	r := routes.SetupRouter()
	if err := r.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
