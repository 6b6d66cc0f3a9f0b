package utils

import (
	"log"
	"otms/database"
	"otms/models"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const reviewFlag = "[auto] attendance between 50% and 80%, pending manual review"

// InitializeEnrollmentScheduler starts the periodic sweep that recomputes
// enrollment status from attendance ratios. It runs hourly and once nightly;
// both invocations are the same idempotent recomputation, so overlap is
// harmless: terminal statuses are never re-scanned.
func InitializeEnrollmentScheduler() {
	log.Println("[ENROLLMENT-SCHEDULER] Initializing enrollment scheduler...")

	c := cron.New()

	c.AddFunc("0 * * * *", func() {
		log.Println("[ENROLLMENT-SCHEDULER] Running hourly enrollment sweep...")
		runSweep()
	})

	c.AddFunc("30 2 * * *", func() {
		log.Println("[ENROLLMENT-SCHEDULER] Running nightly enrollment sweep...")
		runSweep()
	})

	c.Start()
	log.Println("[ENROLLMENT-SCHEDULER] Enrollment scheduler started (hourly + nightly).")
}

func runSweep() {
	updated, err := AutoUpdateEnrollmentStatuses(database.Database.Db)
	if err != nil {
		log.Printf("[ENROLLMENT-SCHEDULER] Sweep failed: %v", err)
		return
	}
	log.Printf("[ENROLLMENT-SCHEDULER] Sweep finished, %d enrollments transitioned", updated)
}

// AutoUpdateEnrollmentStatuses scans enrollments still marked enrolled whose
// course has ended and transitions them from their attendance ratio:
// >= 80% present -> completed, < 50% with at least one record -> failed,
// 50-79% -> left enrolled and flagged for manual review, no records -> no
// change. Returns the number of status transitions made.
func AutoUpdateEnrollmentStatuses(db *gorm.DB) (int, error) {
	now := time.Now()

	var enrollments []models.Enrollment
	if err := db.
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("enrollments.status = ? AND enrollments.is_deleted = ?", models.EnrollmentEnrolled, false).
		Where("courses.end_date < ? AND courses.is_deleted = ?", now, false).
		Find(&enrollments).Error; err != nil {
		return 0, err
	}

	transitions := 0
	for i := range enrollments {
		e := &enrollments[i]

		var total, present int64
		if err := db.Model(&models.Attendance{}).
			Where("enrollment_id = ? AND is_deleted = ?", e.ID, false).
			Count(&total).Error; err != nil {
			log.Printf("[ENROLLMENT-SCHEDULER] Error counting attendance for enrollment %d: %v", e.ID, err)
			continue
		}
		if total == 0 {
			continue
		}
		if err := db.Model(&models.Attendance{}).
			Where("enrollment_id = ? AND status = ? AND is_deleted = ?", e.ID, models.AttendancePresent, false).
			Count(&present).Error; err != nil {
			log.Printf("[ENROLLMENT-SCHEDULER] Error counting present records for enrollment %d: %v", e.ID, err)
			continue
		}

		ratio := float64(present) / float64(total)
		switch {
		case ratio >= 0.8:
			e.Status = models.EnrollmentCompleted
			if e.CompletionDate == nil {
				t := now
				e.CompletionDate = &t
			}
			if err := db.Save(e).Error; err != nil {
				log.Printf("[ENROLLMENT-SCHEDULER] Error completing enrollment %d: %v", e.ID, err)
				continue
			}
			transitions++
		case ratio < 0.5:
			e.Status = models.EnrollmentFailed
			if err := db.Save(e).Error; err != nil {
				log.Printf("[ENROLLMENT-SCHEDULER] Error failing enrollment %d: %v", e.ID, err)
				continue
			}
			transitions++
		default:
			// 50-79%: stays enrolled, flagged once for manual review
			if !strings.Contains(e.Notes, reviewFlag) {
				if e.Notes != "" {
					e.Notes += "\n"
				}
				e.Notes += reviewFlag
				if err := db.Save(e).Error; err != nil {
					log.Printf("[ENROLLMENT-SCHEDULER] Error flagging enrollment %d: %v", e.ID, err)
				}
			}
		}
	}

	return transitions, nil
}
