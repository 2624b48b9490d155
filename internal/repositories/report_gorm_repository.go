package repositories

import (
	"errors"
	"fmt"

	"dailyreport/internal/apperrors"
	"dailyreport/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMReportRepository is a GORM implementation of ReportRepository.
type GORMReportRepository struct {
	db *gorm.DB
}

// NewGORMReportRepository creates a new instance of GORMReportRepository.
func NewGORMReportRepository(db *gorm.DB) *GORMReportRepository {
	return &GORMReportRepository{
		db: db,
	}
}

// GetByUserAndDate retrieves the report for a (user, date) pair.
func (r *GORMReportRepository) GetByUserAndDate(userID, date string) (*models.Report, error) {
	var report models.Report
	if err := r.db.First(&report, "user_id = ? AND date = ?", userID, date).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("report for date %s: %w", date, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get report for date %s: %w", date, err)
	}
	return &report, nil
}

// GetByID retrieves a report by its ID.
func (r *GORMReportRepository) GetByID(id string) (*models.Report, error) {
	var report models.Report
	if err := r.db.First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("report with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get report by ID %s: %w", id, err)
	}
	return &report, nil
}

// Children returns the three child collections of a report in stored order.
func (r *GORMReportRepository) Children(reportID string) (*ReportChildren, error) {
	children := &ReportChildren{
		Items:       []models.LineItem{},
		Tasks:       []models.Task{},
		TesterItems: []models.TesterWriteOffItem{},
	}
	if err := r.db.Order("position_no").Find(&children.Items, "report_id = ?", reportID).Error; err != nil {
		return nil, fmt.Errorf("failed to get items for report %s: %w", reportID, err)
	}
	if err := r.db.Order("position").Find(&children.Tasks, "report_id = ?", reportID).Error; err != nil {
		return nil, fmt.Errorf("failed to get tasks for report %s: %w", reportID, err)
	}
	if err := r.db.Order("position").Find(&children.TesterItems, "report_id = ?", reportID).Error; err != nil {
		return nil, fmt.Errorf("failed to get tester items for report %s: %w", reportID, err)
	}
	return children, nil
}

// Replace runs the delete-then-insert sequence for a (user, date) aggregate
// inside a single transaction so a concurrent read never observes a partial
// report.
func (r *GORMReportRepository) Replace(report *models.Report, children *ReportChildren) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Report
		err := tx.First(&existing, "user_id = ? AND date = ?", report.UserID, report.Date).Error
		switch {
		case err == nil:
			if err := deleteAggregate(tx, existing.ID); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// First save for this date.
		default:
			return fmt.Errorf("failed to look up existing report: %w", err)
		}

		if report.ID == "" {
			report.ID = uuid.New().String()
		}
		if err := tx.Create(report).Error; err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}

		for i := range children.Items {
			children.Items[i].ID = uuid.New().String()
			children.Items[i].ReportID = report.ID
		}
		if len(children.Items) > 0 {
			if err := tx.Create(&children.Items).Error; err != nil {
				return fmt.Errorf("failed to create items: %w", err)
			}
		}
		for i := range children.Tasks {
			children.Tasks[i].ID = uuid.New().String()
			children.Tasks[i].ReportID = report.ID
		}
		if len(children.Tasks) > 0 {
			if err := tx.Create(&children.Tasks).Error; err != nil {
				return fmt.Errorf("failed to create tasks: %w", err)
			}
		}
		for i := range children.TesterItems {
			children.TesterItems[i].ID = uuid.New().String()
			children.TesterItems[i].ReportID = report.ID
		}
		if len(children.TesterItems) > 0 {
			if err := tx.Create(&children.TesterItems).Error; err != nil {
				return fmt.Errorf("failed to create tester items: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace report for date %s: %w", report.Date, err)
	}
	return nil
}

// Delete removes a report and its children. Missing ids are a no-op.
func (r *GORMReportRepository) Delete(userID, reportID string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var report models.Report
		err := tx.First(&report, "id = ? AND user_id = ?", reportID, userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to look up report %s: %w", reportID, err)
		}
		return deleteAggregate(tx, report.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete report %s: %w", reportID, err)
	}
	return nil
}

// ListByUser returns every report of a user, ordered by date descending.
func (r *GORMReportRepository) ListByUser(userID string) ([]models.Report, error) {
	reports := []models.Report{}
	if err := r.db.Order("date DESC").Find(&reports, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// deleteAggregate hard-deletes a report row and its children. Unscoped so
// the (user_id, date) unique index does not keep colliding with
// soft-deleted rows on the next save.
func deleteAggregate(tx *gorm.DB, reportID string) error {
	if err := tx.Unscoped().Delete(&models.LineItem{}, "report_id = ?", reportID).Error; err != nil {
		return fmt.Errorf("failed to delete items: %w", err)
	}
	if err := tx.Unscoped().Delete(&models.Task{}, "report_id = ?", reportID).Error; err != nil {
		return fmt.Errorf("failed to delete tasks: %w", err)
	}
	if err := tx.Unscoped().Delete(&models.TesterWriteOffItem{}, "report_id = ?", reportID).Error; err != nil {
		return fmt.Errorf("failed to delete tester items: %w", err)
	}
	if err := tx.Unscoped().Delete(&models.Report{}, "id = ?", reportID).Error; err != nil {
		return fmt.Errorf("failed to delete report row: %w", err)
	}
	return nil
}
