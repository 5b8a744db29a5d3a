package utils

import (
	"lms/database"
	courseModels "lms/models/course"
	"log"

	"github.com/robfig/cron/v3"
)

// InitializeIssuanceScheduler starts the background sweep that retries
// certificate issuance. Issuance is a decoupled side effect of completion:
// if the synchronous attempt fails, the enrollment stays completed without
// a certificate and this sweep picks it up, giving at-least-once issuance.
func InitializeIssuanceScheduler() {
	log.Println("[ISSUANCE-SCHEDULER] Initializing certificate issuance scheduler...")

	c := cron.New()

	// Every 10 minutes, re-issue for completed enrollments missing a certificate
	c.AddFunc("*/10 * * * *", func() {
		RetryPendingIssuance()
	})

	c.Start()
	log.Println("[ISSUANCE-SCHEDULER] Scheduler started - runs every 10 minutes")
}

// RetryPendingIssuance issues certificates for completed enrollments whose
// issuance previously failed
func RetryPendingIssuance() {
	db := database.Database.Db

	var pending []courseModels.Enrollment
	if err := db.
		Where("is_completed = ? AND certificate_issued = ?", true, false).
		Find(&pending).Error; err != nil {
		log.Printf("[ISSUANCE-SCHEDULER] Error fetching pending enrollments: %v", err)
		return
	}

	if len(pending) == 0 {
		return
	}
	log.Printf("[ISSUANCE-SCHEDULER] Found %d enrollments awaiting certificates", len(pending))

	for _, enrollment := range pending {
		if _, err := IssueCertificate(db, enrollment.ID); err != nil {
			log.Printf("[ISSUANCE-SCHEDULER] Issuance failed for enrollment %d: %v", enrollment.ID, err)
		}
	}
}
