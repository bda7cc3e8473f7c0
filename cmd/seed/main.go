// Seeds the sandbox data every fresh environment needs: scenario
// mappings, the bank and wallet directory, and a demo merchant.
// The demo merchant's API key is generated here and printed once;
// only its hash is stored.
package main

import (
	"log"
	"os"

	"paygate/internal/config"
	"paygate/internal/models"
	"paygate/internal/repositories"
	"paygate/internal/services/auth"
	"paygate/internal/services/scenario"
	"paygate/internal/utils"

	"gorm.io/gorm"
)

func main() {
	config.LoadEnv()

	db, err := repositories.InitDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}()

	seedScenarios(db)
	seedDirectory(db)
	seedMerchant(db)
}

func seedScenarios(db *gorm.DB) {
	for _, m := range scenario.DefaultMappings() {
		var existing models.ScenarioMapping
		if err := db.Where("identifier = ?", m.Identifier).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&m).Error; err != nil {
			log.Fatalf("failed to seed scenario %s: %v", m.Identifier, err)
		}
	}
	log.Println("scenario mappings seeded")
}

func seedDirectory(db *gorm.DB) {
	banks := []models.Bank{
		{Code: "HBL", Name: "Habib Bank Limited", Active: true},
		{Code: "UBL", Name: "United Bank Limited", Active: true},
		{Code: "MCB", Name: "MCB Bank", Active: true},
		{Code: "ABL", Name: "Allied Bank", Active: true},
	}
	for _, b := range banks {
		var existing models.Bank
		if err := db.Where("code = ?", b.Code).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&b).Error; err != nil {
			log.Fatalf("failed to seed bank %s: %v", b.Code, err)
		}
	}

	wallets := []models.WalletProvider{
		{Code: "JAZZCASH", Name: "JazzCash", Active: true},
		{Code: "EASYPAISA", Name: "Easypaisa", Active: true},
	}
	for _, w := range wallets {
		var existing models.WalletProvider
		if err := db.Where("code = ?", w.Code).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&w).Error; err != nil {
			log.Fatalf("failed to seed wallet %s: %v", w.Code, err)
		}
	}
	log.Println("directory seeded")
}

func seedMerchant(db *gorm.DB) {
	email := os.Getenv("SEED_MERCHANT_EMAIL")
	if email == "" {
		email = "demo@merchant.test"
	}

	var existing models.Merchant
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Printf("merchant %s already exists, skipping", email)
		return
	}

	apiKey, err := utils.GenerateSecureCode(32)
	if err != nil {
		log.Fatalf("failed to generate API key: %v", err)
	}
	webhookSecret, err := utils.GenerateSecureCode(32)
	if err != nil {
		log.Fatalf("failed to generate webhook secret: %v", err)
	}

	merchant := models.Merchant{
		Name:          "Demo Merchant",
		Email:         email,
		APIKeyHash:    auth.HashAPIKey(apiKey),
		WebhookURL:    os.Getenv("SEED_MERCHANT_WEBHOOK_URL"),
		WebhookSecret: webhookSecret,
		Active:        true,
	}
	if err := db.Create(&merchant).Error; err != nil {
		log.Fatalf("failed to create merchant: %v", err)
	}
	if err := db.Create(&models.MerchantBalance{MerchantID: merchant.ID}).Error; err != nil {
		log.Fatalf("failed to create merchant balance: %v", err)
	}

	log.Printf("merchant %s created (id=%d)", email, merchant.ID)
	log.Printf("API key (store this now, it is not recoverable): %s", apiKey)
	log.Printf("webhook secret: %s", webhookSecret)
}
