package main

import (
	"encoding/csv"
	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	"log"
	"os"
	"strconv"
	"strings"
)

// Imports a course catalog from CourseCatalog.csv. Existing courses are
// matched by (instructor email, title) and updated in place, so the import
// can be re-run after catalog edits.
func main() {
	config.LoadConfig()
	database.ConnectDb()

	file, err := os.Open("CourseCatalog.csv")
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	header := records[0]
	log.Printf("CSV Headers: %v", header)
	log.Printf("Total rows to import: %d", len(records)-1)

	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.TrimSpace(h)] = i
	}

	inserted := 0
	updated := 0
	skipped := 0

	for i, row := range records[1:] {
		if i%100 == 0 {
			log.Printf("Processing row %d...", i+1)
		}

		instructorEmail := getField(row, headerIndex, "instructorEmail")
		title := getField(row, headerIndex, "title")
		if instructorEmail == "" || title == "" {
			skipped++
			continue
		}

		var instructor models.User
		if err := database.Database.Db.Where("email = ? AND is_deleted = ?", instructorEmail, false).First(&instructor).Error; err != nil {
			log.Printf("Skipping %q: no instructor with email %s", title, instructorEmail)
			skipped++
			continue
		}

		course := courseModels.Course{
			Title:          title,
			Description:    getField(row, headerIndex, "description"),
			Category:       getField(row, headerIndex, "category"),
			Level:          getField(row, headerIndex, "level"),
			Price:          parseFloat(getField(row, headerIndex, "price")),
			Thumbnail:      getField(row, headerIndex, "thumbnail"),
			InstructorID:   instructor.ID,
			InstructorName: instructor.Name,
			InstructorBio:  getField(row, headerIndex, "instructorBio"),
			IsPublished:    parseBool(getField(row, headerIndex, "published")),
		}
		if course.Level == "" {
			course.Level = "Beginner"
		}

		var existing courseModels.Course
		result := database.Database.Db.Where("instructor_id = ? AND title = ? AND is_deleted = ?", instructor.ID, title, false).First(&existing)

		if result.Error != nil {
			if err := database.Database.Db.Create(&course).Error; err != nil {
				log.Printf("Error inserting course %q: %v", title, err)
				continue
			}
			inserted++
		} else {
			existing.Description = course.Description
			existing.Category = course.Category
			existing.Level = course.Level
			existing.Price = course.Price
			existing.Thumbnail = course.Thumbnail
			existing.InstructorBio = course.InstructorBio
			existing.IsPublished = course.IsPublished
			if err := database.Database.Db.Save(&existing).Error; err != nil {
				log.Printf("Error updating course %q: %v", title, err)
				continue
			}
			updated++
		}
	}

	log.Printf("Import complete: %d inserted, %d updated, %d skipped", inserted, updated, skipped)
}

func getField(row []string, headerIndex map[string]int, name string) string {
	idx, ok := headerIndex[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(strings.ToLower(s))
	if err != nil {
		return false
	}
	return v
}
