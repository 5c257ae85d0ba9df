package controllers

import (
	"aula/database"
	"aula/middleware"
	"aula/models"
	"aula/services/policy"
	"aula/services/reports"
	"bytes"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// reportFilter builds the report filter from query parameters. Unset or
// malformed parameters impose no constraint.
func reportFilter(c *fiber.Ctx) reports.Filter {
	var f reports.Filter

	if v, err := strconv.Atoi(c.Query("course_id")); err == nil && v > 0 {
		id := uint(v)
		f.CourseID = &id
	}
	if v, err := strconv.Atoi(c.Query("teacher_id")); err == nil && v > 0 {
		id := uint(v)
		f.TeacherID = &id
	}
	if t, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		f.From = &t
	}
	if t, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		end := t.Add(24*time.Hour - time.Second)
		f.To = &end
	}
	return f
}

// CourseAverages returns the per-course average scores within the filter.
func CourseAverages(c *fiber.Ctx) error {
	_, actor, ok := currentActor(c)
	if !ok {
		return nil
	}

	if !policy.Can(actor, policy.ActionViewResponses, policy.Facts{}) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Teachers and admins only.", nil)
	}

	averages, err := reports.AverageScores(database.Database.Db, reportFilter(c))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute averages!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Averages computed successfully!", fiber.Map{
		"averages": averages,
	})
}

// AttemptReport returns the individual attempt rows within the filter.
func AttemptReport(c *fiber.Ctx) error {
	_, actor, ok := currentActor(c)
	if !ok {
		return nil
	}

	if !policy.Can(actor, policy.ActionViewResponses, policy.Facts{}) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Teachers and admins only.", nil)
	}

	rows, err := reports.AttemptRows(database.Database.Db, reportFilter(c))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch report!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Report fetched successfully!", fiber.Map{
		"attempts": rows,
	})
}

// ExportAttemptsCSV streams the filtered attempt rows as a CSV download.
func ExportAttemptsCSV(c *fiber.Ctx) error {
	_, actor, ok := currentActor(c)
	if !ok {
		return nil
	}

	if !policy.Can(actor, policy.ActionViewResponses, policy.Facts{}) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Teachers and admins only.", nil)
	}

	rows, err := reports.AttemptRows(database.Database.Db, reportFilter(c))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch report!", nil)
	}

	var buf bytes.Buffer
	if err := reports.WriteCSV(&buf, rows); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to render CSV!", nil)
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", `attachment; filename="attempts.csv"`)
	return c.Send(buf.Bytes())
}

// GenerateReportSnapshot renders and stores an on-demand snapshot, same as
// the nightly job.
func GenerateReportSnapshot(c *fiber.Ctx) error {
	_, actor, ok := currentActor(c)
	if !ok {
		return nil
	}

	if !policy.Can(actor, policy.ActionViewResponses, policy.Facts{}) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Teachers and admins only.", nil)
	}

	snap, err := reports.GenerateSnapshot(database.Database.Db)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate snapshot!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Snapshot generated successfully!", fiber.Map{
		"reference":    snap.Reference,
		"name":         snap.Name,
		"generated_at": snap.GeneratedAt,
	})
}

// ListReportSnapshots lists stored snapshots, newest first, without content.
func ListReportSnapshots(c *fiber.Ctx) error {
	_, actor, ok := currentActor(c)
	if !ok {
		return nil
	}

	if !policy.Can(actor, policy.ActionViewResponses, policy.Facts{}) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Teachers and admins only.", nil)
	}

	var snaps []models.ReportSnapshot
	if err := database.Database.Db.
		Select("id", "reference", "name", "generated_at", "created_at").
		Order("generated_at desc").Find(&snaps).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch snapshots!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Snapshots fetched successfully!", fiber.Map{
		"snapshots": snaps,
	})
}

// DownloadReportSnapshot streams one stored snapshot by reference.
func DownloadReportSnapshot(c *fiber.Ctx) error {
	_, actor, ok := currentActor(c)
	if !ok {
		return nil
	}

	if !policy.Can(actor, policy.ActionViewResponses, policy.Facts{}) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Teachers and admins only.", nil)
	}

	reference := c.Params("reference")

	var snap models.ReportSnapshot
	if err := database.Database.Db.Where("reference = ?", reference).First(&snap).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Snapshot not found!", nil)
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", `attachment; filename="`+snap.Name+`.csv"`)
	return c.SendString(snap.Content)
}
