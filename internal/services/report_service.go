package services

import (
	"fmt"

	"dailyreport/internal/apperrors"
	"dailyreport/internal/export"
	"dailyreport/internal/models"
	"dailyreport/internal/repositories"
)

// LineItemInput is one line of goods sold as supplied by the caller. The
// position and sum are never trusted from input.
type LineItemInput struct {
	Volume   string
	Bottle   string
	Color    string
	Quantity float64
	Price    float64
	Remark   string
}

// TaskInput is one ad-hoc task as supplied by the caller.
type TaskInput struct {
	Text string
	Done bool
}

// TesterItemInput is one tester write-off as supplied by the caller.
type TesterItemInput struct {
	Label    string
	Quantity float64
}

// SaveReportInput is the complete desired state of a report. Saving is a
// full replace: callers resend everything on every save.
type SaveReportInput struct {
	Date           string
	Department     string
	Seller         string
	PrevDayBalance float64
	Cashless       float64
	Remaining      float64
	SafeTerminal   float64
	Items          []LineItemInput
	Tasks          []TaskInput
	TesterItems    []TesterItemInput
}

// ReportAggregate is a report header together with its child collections.
type ReportAggregate struct {
	Report      models.Report               `json:"report"`
	Items       []models.LineItem           `json:"items"`
	Tasks       []models.Task               `json:"tasks"`
	TesterItems []models.TesterWriteOffItem `json:"testerItems"`
}

// ReportService handles business logic for the report aggregate.
type ReportService struct {
	reportRepo repositories.ReportRepository
}

// NewReportService creates a new ReportService.
func NewReportService(reportRepo repositories.ReportRepository) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
	}
}

// Save stores the report for (user, date), replacing any existing one and
// all of its children. Line items are renumbered 1..n from input order and
// each sum recomputed as quantity * price.
func (s *ReportService) Save(userID string, input SaveReportInput) (*models.Report, error) {
	if input.Date == "" {
		return nil, fmt.Errorf("report date is required: %w", apperrors.ErrInvalidInput)
	}

	report := &models.Report{
		UserID:         userID,
		Date:           input.Date,
		Department:     input.Department,
		Seller:         input.Seller,
		PrevDayBalance: input.PrevDayBalance,
		Cashless:       input.Cashless,
		Remaining:      input.Remaining,
		SafeTerminal:   input.SafeTerminal,
	}

	children := &repositories.ReportChildren{
		Items:       make([]models.LineItem, 0, len(input.Items)),
		Tasks:       make([]models.Task, 0, len(input.Tasks)),
		TesterItems: make([]models.TesterWriteOffItem, 0, len(input.TesterItems)),
	}
	for i, item := range input.Items {
		children.Items = append(children.Items, models.LineItem{
			PositionNo: i + 1,
			Volume:     item.Volume,
			Bottle:     item.Bottle,
			Color:      item.Color,
			Quantity:   item.Quantity,
			Price:      item.Price,
			Sum:        item.Quantity * item.Price,
			Remark:     item.Remark,
		})
	}
	for i, task := range input.Tasks {
		children.Tasks = append(children.Tasks, models.Task{
			Position: i + 1,
			Text:     task.Text,
			Done:     task.Done,
		})
	}
	for i, tester := range input.TesterItems {
		children.TesterItems = append(children.TesterItems, models.TesterWriteOffItem{
			Position: i + 1,
			Label:    tester.Label,
			Quantity: tester.Quantity,
		})
	}

	if err := s.reportRepo.Replace(report, children); err != nil {
		return nil, err
	}
	return report, nil
}

// Get returns the report aggregate for (user, date).
func (s *ReportService) Get(userID, date string) (*ReportAggregate, error) {
	if date == "" {
		return nil, fmt.Errorf("report date is required: %w", apperrors.ErrInvalidInput)
	}
	report, err := s.reportRepo.GetByUserAndDate(userID, date)
	if err != nil {
		return nil, err
	}
	children, err := s.reportRepo.Children(report.ID)
	if err != nil {
		return nil, err
	}
	return &ReportAggregate{
		Report:      *report,
		Items:       children.Items,
		Tasks:       children.Tasks,
		TesterItems: children.TesterItems,
	}, nil
}

// Delete removes a report and its children. Deleting an unknown id is a
// no-op success.
func (s *ReportService) Delete(userID, reportID string) error {
	return s.reportRepo.Delete(userID, reportID)
}

// ListAll returns every report of a user, newest date first.
func (s *ReportService) ListAll(userID string) ([]models.Report, error) {
	return s.reportRepo.ListByUser(userID)
}

// ExportCSV renders the line items of a report as a CSV document and
// returns the report date for the download filename.
func (s *ReportService) ExportCSV(reportID string) (string, []byte, error) {
	report, err := s.reportRepo.GetByID(reportID)
	if err != nil {
		return "", nil, err
	}
	children, err := s.reportRepo.Children(report.ID)
	if err != nil {
		return "", nil, err
	}
	return report.Date, export.LineItemsCSV(children.Items), nil
}
