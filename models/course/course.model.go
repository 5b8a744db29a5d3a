package course

import "gorm.io/gorm"

// Course represents a learning course
type Course struct {
	gorm.Model
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Level       string  `json:"level" gorm:"default:'Beginner'"` // Beginner, Intermediate, Advanced
	Price       float64 `json:"price" gorm:"default:0"`
	Thumbnail   string  `json:"thumbnail"`

	// Instructor details are denormalized at creation time
	InstructorID    uint   `json:"instructor_id" gorm:"index;not null"`
	InstructorName  string `json:"instructor_name"`
	InstructorBio   string `json:"instructor_bio" gorm:"type:text"`
	InstructorImage string `json:"instructor_image"`

	TotalEnrollments int  `json:"total_enrollments" gorm:"default:0"`
	IsPublished      bool `json:"is_published" gorm:"default:false"`
	IsDeleted        bool `gorm:"default:false"`

	Chapters []Chapter `json:"chapters,omitempty" gorm:"foreignKey:CourseID"`
	Ratings  []Rating  `json:"ratings,omitempty" gorm:"foreignKey:CourseID"`
	Quizzes  []Quiz    `json:"quizzes,omitempty" gorm:"foreignKey:CourseID"`
}

// Chapter is a section within a course. ChapterOrder is editor-assigned and
// may be sparse or duplicated, so consumers must sort by it, never index.
type Chapter struct {
	gorm.Model
	CourseID     uint   `json:"course_id" gorm:"index;not null"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChapterOrder int    `json:"chapter_order" gorm:"default:0"`
	IsDeleted    bool   `gorm:"default:false"`

	Lectures []Lecture `json:"lectures,omitempty" gorm:"foreignKey:ChapterID"`
}

// Lecture is a single content unit within a chapter
type Lecture struct {
	gorm.Model
	ChapterID    uint   `json:"chapter_id" gorm:"index;not null"`
	CourseID     uint   `json:"course_id" gorm:"index;not null"`
	Title        string `json:"title"`
	LectureType  string `json:"lecture_type" gorm:"default:'video'"` // video, text, document
	Content      string `json:"content" gorm:"type:text"`            // URL for video/document, or text body
	Duration     int    `json:"duration" gorm:"default:0"`           // in minutes
	LectureOrder int    `json:"lecture_order" gorm:"default:0"`
	IsDeleted    bool   `gorm:"default:false"`
}

// Rating is one user's rating of a course, upserted on resubmit
type Rating struct {
	gorm.Model
	CourseID  uint   `json:"course_id" gorm:"index;not null;uniqueIndex:idx_course_user_rating"`
	UserID    uint   `json:"user_id" gorm:"not null;uniqueIndex:idx_course_user_rating"`
	Rating    int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Review    string `json:"review" gorm:"type:text;default:''"`
	IsDeleted bool   `gorm:"default:false"`
}
