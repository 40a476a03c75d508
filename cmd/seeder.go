package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/izzatfaris/permohonan-intake/internal/kvstore"
	"github.com/izzatfaris/permohonan-intake/internal/submission"
	submissionkv "github.com/izzatfaris/permohonan-intake/internal/submission/kv"
	"github.com/spf13/cobra"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the store with sample submissions",
	Long:  `Seed the store with sample submissions for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		gormDB, err := gorm.Open(gormpg.New(gormpg.Config{Conn: db.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		ctx := context.Background()

		if clearData {
			if err := gormDB.WithContext(ctx).Exec("DELETE FROM kv_store WHERE key LIKE 'submission_%' OR key LIKE 'email_%'").Error; err != nil {
				log.Fatalf("failed to clear existing data: %v", err)
			}
			fmt.Println("Cleared existing submissions and email indexes")
		}

		repo := submissionkv.NewRepository(kvstore.NewGormStore(gormDB))

		samples := []submission.CreateSubmissionDTO{
			{
				Tarikh:       "2025-08-04",
				Bahagian:     "Bahagian Teknologi Maklumat",
				NamaProjek:   "Portal Data Terbuka",
				TujuanProjek: "Menyediakan akses data terbuka kepada orang awam",
				WebsiteURL:   "https://data.contoh.gov.my",
				KutipanData:  submission.KutipanMonthly,
				NamaPengawai: "Aminah binti Hassan",
				Email:        "aminah@contoh.gov.my",
			},
			{
				Tarikh:       "2025-08-11",
				Bahagian:     "Bahagian Perancangan",
				NamaProjek:   "Kajian Guna Tanah",
				TujuanProjek: "Analisis guna tanah bagi perancangan bandar",
				KutipanData:  submission.KutipanQuarterly,
				NamaPengawai: "Lim Wei Sheng",
				Email:        "weisheng@contoh.gov.my",
				Catatan:      "Perlu data GIS terkini",
				Status:       submission.StatusUnderReview,
			},
			{
				Tarikh:       "2025-08-18",
				Bahagian:     "Bahagian Kesihatan",
				NamaProjek:   "Dashboard Kesihatan Awam",
				TujuanProjek: "Pemantauan penunjuk kesihatan mingguan",
				KutipanData:  submission.KutipanWeekly,
				NamaPengawai: "Aminah binti Hassan",
				Email:        "Aminah@contoh.gov.my",
			},
		}

		for _, dto := range samples {
			sub := dto.ToSubmission()
			if err := repo.Create(ctx, sub); err != nil {
				log.Fatalf("failed to seed submission %q: %v", dto.NamaProjek, err)
			}
			fmt.Printf("Seeded submission: %s (%s)\n", sub.NamaProjek, sub.ID)

			// ids are millisecond-derived; keep seeded records distinct
			time.Sleep(2 * time.Millisecond)
		}

		fmt.Println("Sample submissions seeded successfully")
	},
}
