package repositories

import (
	"dailyreport/internal/models"
)

// ReportChildren bundles the three owned child collections of a report.
type ReportChildren struct {
	Items       []models.LineItem
	Tasks       []models.Task
	TesterItems []models.TesterWriteOffItem
}

// ReportRepository defines the interface for report aggregate data access.
type ReportRepository interface {
	GetByUserAndDate(userID, date string) (*models.Report, error)
	GetByID(id string) (*models.Report, error)
	// Children returns the child collections of a report in stored order
	// (items by position number, tasks and tester items by position).
	Children(reportID string) (*ReportChildren, error)
	// Replace atomically deletes any existing report for the same
	// (user, date) together with its children, then inserts the supplied
	// report and children. Full replace, never a merge.
	Replace(report *models.Report, children *ReportChildren) error
	// Delete removes the report and its children. Deleting an id that does
	// not exist (or belongs to another user) is not an error.
	Delete(userID, reportID string) error
	// ListByUser returns all reports of a user, newest date first.
	ListByUser(userID string) ([]models.Report, error)
}
