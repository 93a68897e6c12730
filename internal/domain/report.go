package domain

import "time"

// Report Model. Only the columns the profile view reads are modeled here.
type Report struct {
	ID        uint      `gorm:"primaryKey"`                                // Primary key
	UserID    uint      `gorm:"not null;index"`                            // Foreign key to the reporting user
	Title     string    `gorm:"type:varchar(255);not null"`                // Report title
	Status    string    `gorm:"type:varchar(32);not null;default:pending"` // Handling status
	CreatedAt time.Time `gorm:"index"`                                     // Creation timestamp
	UpdatedAt time.Time                                                    // Modification timestamp
}

// ReportSummary is the slice of a report shown on a profile
type ReportSummary struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary projects r to the fields surfaced on a profile
func (r *Report) Summary() ReportSummary {
	return ReportSummary{ID: r.ID, Title: r.Title, Status: r.Status, CreatedAt: r.CreatedAt}
}
