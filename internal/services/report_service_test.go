package services_test

import (
	"fmt"
	"strings"
	"testing"

	"dailyreport/internal/apperrors"
	"dailyreport/internal/models"
	"dailyreport/internal/repositories"
	"dailyreport/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReportRepository is a mock implementation of repositories.ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) GetByUserAndDate(userID, date string) (*models.Report, error) {
	args := m.Called(userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockReportRepository) GetByID(id string) (*models.Report, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockReportRepository) Children(reportID string) (*repositories.ReportChildren, error) {
	args := m.Called(reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.ReportChildren), args.Error(1)
}

func (m *MockReportRepository) Replace(report *models.Report, children *repositories.ReportChildren) error {
	args := m.Called(report, children)
	return args.Error(0)
}

func (m *MockReportRepository) Delete(userID, reportID string) error {
	args := m.Called(userID, reportID)
	return args.Error(0)
}

func (m *MockReportRepository) ListByUser(userID string) ([]models.Report, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Report), args.Error(1)
}

func TestReportService_Save(t *testing.T) {
	mockRepo := new(MockReportRepository)
	service := services.NewReportService(mockRepo)

	var gotReport *models.Report
	var gotChildren *repositories.ReportChildren
	mockRepo.On("Replace", mock.AnythingOfType("*models.Report"), mock.AnythingOfType("*repositories.ReportChildren")).
		Run(func(args mock.Arguments) {
			gotReport = args.Get(0).(*models.Report)
			gotChildren = args.Get(1).(*repositories.ReportChildren)
		}).Return(nil).Once()

	input := services.SaveReportInput{
		Date:           "2024-01-01",
		Department:     "Центр",
		Seller:         "Olena",
		PrevDayBalance: 100,
		Cashless:       50,
		Remaining:      30,
		SafeTerminal:   20,
		Items: []services.LineItemInput{
			{Volume: "50ml", Bottle: "spray", Color: "gold", Quantity: 2, Price: 10, Remark: "promo"},
			{Volume: "30ml", Bottle: "roll", Color: "black", Quantity: 1, Price: 5.5},
		},
		Tasks: []services.TaskInput{
			{Text: "restock shelf", Done: false},
			{Text: "call supplier", Done: true},
		},
		TesterItems: []services.TesterItemInput{
			{Label: "tester #4", Quantity: 0.5},
		},
	}

	report, err := service.Save("user-1", input)
	assert.NoError(t, err)
	assert.NotNil(t, report)
	assert.Equal(t, "user-1", gotReport.UserID)
	assert.Equal(t, "2024-01-01", gotReport.Date)

	// Positions are renumbered from input order and sums recomputed.
	assert.Len(t, gotChildren.Items, 2)
	assert.Equal(t, 1, gotChildren.Items[0].PositionNo)
	assert.Equal(t, 2, gotChildren.Items[1].PositionNo)
	assert.Equal(t, 20.0, gotChildren.Items[0].Sum)
	assert.Equal(t, 5.5, gotChildren.Items[1].Sum)

	assert.Len(t, gotChildren.Tasks, 2)
	assert.Equal(t, "restock shelf", gotChildren.Tasks[0].Text)
	assert.Equal(t, 1, gotChildren.Tasks[0].Position)
	assert.True(t, gotChildren.Tasks[1].Done)

	assert.Len(t, gotChildren.TesterItems, 1)
	assert.Equal(t, "tester #4", gotChildren.TesterItems[0].Label)
	assert.Equal(t, 0.5, gotChildren.TesterItems[0].Quantity)
	mockRepo.AssertExpectations(t)

	// Missing date fails before reaching the repository.
	_, err = service.Save("user-1", services.SaveReportInput{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	mockRepo.AssertExpectations(t)
}

func TestReportService_Get(t *testing.T) {
	mockRepo := new(MockReportRepository)
	service := services.NewReportService(mockRepo)

	report := &models.Report{ID: "rep-1", UserID: "user-1", Date: "2024-01-01"}
	children := &repositories.ReportChildren{
		Items: []models.LineItem{
			{PositionNo: 1, Sum: 20},
			{PositionNo: 2, Sum: 5.5},
		},
		Tasks:       []models.Task{{Position: 1, Text: "restock"}},
		TesterItems: []models.TesterWriteOffItem{},
	}

	mockRepo.On("GetByUserAndDate", "user-1", "2024-01-01").Return(report, nil).Once()
	mockRepo.On("Children", "rep-1").Return(children, nil).Once()

	aggregate, err := service.Get("user-1", "2024-01-01")
	assert.NoError(t, err)
	assert.Equal(t, "rep-1", aggregate.Report.ID)
	assert.Len(t, aggregate.Items, 2)
	assert.Equal(t, 20.0, aggregate.Items[0].Sum)
	assert.Len(t, aggregate.Tasks, 1)
	assert.Empty(t, aggregate.TesterItems)
	mockRepo.AssertExpectations(t)

	// No report for that date.
	mockRepo.On("GetByUserAndDate", "user-1", "2024-02-02").
		Return(nil, fmt.Errorf("report for date 2024-02-02: %w", apperrors.ErrNotFound)).Once()
	_, err = service.Get("user-1", "2024-02-02")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	mockRepo.AssertExpectations(t)

	// Missing date.
	_, err = service.Get("user-1", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestReportService_Delete(t *testing.T) {
	mockRepo := new(MockReportRepository)
	service := services.NewReportService(mockRepo)

	// Deleting an unknown id is still a success at the repository contract.
	mockRepo.On("Delete", "user-1", "rep-404").Return(nil).Once()
	err := service.Delete("user-1", "rep-404")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestReportService_ListAll(t *testing.T) {
	mockRepo := new(MockReportRepository)
	service := services.NewReportService(mockRepo)

	expected := []models.Report{
		{ID: "rep-2", Date: "2024-01-02"},
		{ID: "rep-1", Date: "2024-01-01"},
	}
	mockRepo.On("ListByUser", "user-1").Return(expected, nil).Once()

	reports, err := service.ListAll("user-1")
	assert.NoError(t, err)
	assert.Equal(t, expected, reports)
	mockRepo.AssertExpectations(t)
}

func TestReportService_ExportCSV(t *testing.T) {
	mockRepo := new(MockReportRepository)
	service := services.NewReportService(mockRepo)

	report := &models.Report{ID: "rep-1", Date: "2024-01-01"}
	children := &repositories.ReportChildren{
		Items: []models.LineItem{
			{PositionNo: 1, Volume: "50ml", Bottle: "spray", Color: "gold", Quantity: 2, Price: 10, Sum: 20, Remark: "promo"},
			{PositionNo: 2, Volume: "30ml", Bottle: "roll", Color: "black", Quantity: 1, Price: 5.5, Sum: 5.5},
		},
	}

	mockRepo.On("GetByID", "rep-1").Return(report, nil).Once()
	mockRepo.On("Children", "rep-1").Return(children, nil).Once()

	date, data, err := service.ExportCSV("rep-1")
	assert.NoError(t, err)
	assert.Equal(t, "2024-01-01", date)

	lines := strings.Split(string(data), "\n")
	assert.Len(t, lines, 3) // header + 2 data rows
	assert.Equal(t, "1;50ml;spray;gold;2;10;20;promo", lines[1])
	assert.Equal(t, "2;30ml;roll;black;1;5.5;5.5;", lines[2])
	mockRepo.AssertExpectations(t)

	// Unknown report.
	mockRepo.On("GetByID", "rep-404").
		Return(nil, fmt.Errorf("report with ID rep-404: %w", apperrors.ErrNotFound)).Once()
	_, _, err = service.ExportCSV("rep-404")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	mockRepo.AssertExpectations(t)
}
