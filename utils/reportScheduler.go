package utils

import (
	"aula/config"
	"aula/database"
	"aula/services/reports"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[REPORT-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// generateNightlySnapshot stores a fresh CSV snapshot of the full attempt
// history so teachers can download yesterday's state without recomputing.
func generateNightlySnapshot() {
	snap, err := reports.GenerateSnapshot(database.Database.Db)
	if err != nil {
		logScheduler("Error generating report snapshot: " + err.Error())
		return
	}
	logScheduler("Generated report snapshot " + snap.Reference)
}

// InitializeReportScheduler starts the nightly report snapshot job.
func InitializeReportScheduler() *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc(config.AppConfig.ReportCronSpec, generateNightlySnapshot); err != nil {
		logScheduler("Invalid REPORT_CRON_SPEC, scheduler disabled: " + err.Error())
		return c
	}

	c.Start()
	logScheduler("Report scheduler started with spec " + config.AppConfig.ReportCronSpec)
	return c
}
