package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/coweringg/LawCaseAI/config"
	"github.com/coweringg/LawCaseAI/pkg/cases"
	"github.com/coweringg/LawCaseAI/pkg/chat"
	"github.com/coweringg/LawCaseAI/pkg/database"
	"github.com/coweringg/LawCaseAI/pkg/models"
	"github.com/coweringg/LawCaseAI/pkg/users"
)

var caseSuffixes = []string{"Contract Dispute", "Employment Claim", "Estate Planning", "IP Infringement", "Lease Disagreement", "Personal Injury"}

func main() {
	userCount := flag.Int("users", 10, "number of demo users to create")
	flag.Parse()

	cfg := config.Load()

	db, err := database.NewClient(cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("❌ MongoDB connection failed: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatalf("❌ Index creation failed: %v", err)
	}

	userRepo := users.NewMongoRepository(db)
	caseRepo := cases.NewMongoRepository(db)
	chatRepo := chat.NewMongoRepository(db)
	userSvc := users.NewService(userRepo, nil)

	gofakeit.Seed(0)

	// Fixed admin account for dashboard access
	admin, err := userSvc.Register(ctx, models.RegisterRequest{
		Name:     "Admin User",
		Email:    "admin@lawcaseai.test",
		Password: "admin-password-123",
		LawFirm:  "LawCaseAI",
	})
	if err != nil {
		log.Printf("⚠️ Admin account: %v", err)
	} else {
		if _, err := userRepo.UpdateProfile(ctx, admin.ID, map[string]interface{}{"role": models.RoleAdmin}); err != nil {
			log.Printf("⚠️ Failed to promote admin: %v", err)
		}
		log.Printf("✅ Admin account admin@lawcaseai.test / admin-password-123")
	}

	for i := 0; i < *userCount; i++ {
		user, err := userSvc.Register(ctx, models.RegisterRequest{
			Name:     gofakeit.Name(),
			Email:    gofakeit.Email(),
			Password: "demo-password-123",
			LawFirm:  gofakeit.Company() + " Law",
		})
		if err != nil {
			log.Printf("⚠️ Skipping user: %v", err)
			continue
		}

		caseCount := gofakeit.Number(0, 4)
		for j := 0; j < caseCount; j++ {
			if _, err := userRepo.ReserveCaseSlot(ctx, user.ID); err != nil {
				break
			}

			cc := models.Case{
				Name:        gofakeit.LastName() + " v. " + gofakeit.LastName(),
				Client:      gofakeit.Name(),
				Description: gofakeit.RandomString(caseSuffixes) + ": " + gofakeit.Sentence(12),
				Status:      models.CaseStatus(gofakeit.RandomString([]string{"active", "active", "closed", "archived"})),
				UserID:      user.ID,
			}
			if err := caseRepo.Insert(ctx, &cc); err != nil {
				log.Printf("⚠️ Skipping case: %v", err)
				continue
			}

			msgCount := gofakeit.Number(0, 6)
			base := time.Now().Add(-time.Duration(gofakeit.Number(1, 72)) * time.Hour)
			for k := 0; k < msgCount; k++ {
				sender := models.SenderUser
				var meta *models.MessageMetadata
				if k%2 == 1 {
					sender = models.SenderAI
					meta = &models.MessageMetadata{
						Model:        "gpt-3.5-turbo",
						Tokens:       gofakeit.Number(50, 800),
						ResponseTime: int64(gofakeit.Number(300, 4000)),
					}
				}
				msg := &models.ChatMessage{
					Content:   gofakeit.Paragraph(1, 2, 8, " "),
					Sender:    sender,
					CaseID:    cc.ID,
					UserID:    user.ID,
					Timestamp: base.Add(time.Duration(k) * time.Minute),
					Metadata:  meta,
				}
				if err := chatRepo.Insert(ctx, msg); err != nil {
					log.Printf("⚠️ Skipping message: %v", err)
				}
			}
		}

		log.Printf("✅ Seeded %s (%d cases)", user.Email, caseCount)
	}

	log.Println("🌱 Seeding complete")
}
