package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"dailyreport/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles HTTP requests for daily reports.
type ReportHandler struct {
	service *services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{
		service: service,
	}
}

// RegisterRoutes registers the authenticated report routes.
// "/reports/all" must come before the parameterized delete route.
func (h *ReportHandler) RegisterRoutes(router fiber.Router) {
	reportRoutes := router.Group("/reports")
	reportRoutes.Get("/", h.HandleGetReport)
	reportRoutes.Get("/all", h.HandleListReports)
	reportRoutes.Post("/", h.HandleSaveReport)
	reportRoutes.Delete("/:id", h.HandleDeleteReport)
}

// RegisterPublicRoutes registers the routes that do not require a session
// token. CSV export stays public so the spreadsheet link works without a
// logged-in browser session.
func (h *ReportHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/reports/:id/export/csv", h.HandleExportCSV)
}

// flexFloat is a float64 that tolerates sloppy client payloads: JSON
// numbers, numeric strings, null and non-numeric garbage all decode, with
// anything unusable coerced to 0.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	*f = 0
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return nil
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
			*f = flexFloat(v)
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// flexString is a string that coerces null and non-string scalars to their
// literal text instead of failing the whole request.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	*s = ""
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return nil
		}
		*s = flexString(str)
		return nil
	}
	*s = flexString(raw)
	return nil
}

type lineItemRequest struct {
	Volume   flexString `json:"volume"`
	Bottle   flexString `json:"bottle"`
	Color    flexString `json:"color"`
	Quantity flexFloat  `json:"quantity"`
	Price    flexFloat  `json:"price"`
	Remark   flexString `json:"remark"`
}

type taskRequest struct {
	Text flexString `json:"text"`
	Done bool       `json:"done"`
}

type testerItemRequest struct {
	Label    flexString `json:"label"`
	Quantity flexFloat  `json:"quantity"`
}

// SaveReportRequest represents the request body for saving a report. The
// payload is the complete desired state; saving replaces everything stored
// for that date.
type SaveReportRequest struct {
	Date                string              `json:"date"`
	Department          flexString          `json:"department"`
	Seller              flexString          `json:"seller"`
	PrevDayBalance      flexFloat           `json:"prevDayBalance"`
	Cashless            flexFloat           `json:"cashless"`
	Remaining           flexFloat           `json:"remaining"`
	SafeTerminal        flexFloat           `json:"safeTerminal"`
	Items               []lineItemRequest   `json:"items"`
	Tasks               []taskRequest       `json:"tasks"`
	TesterWriteOffItems []testerItemRequest `json:"testerWriteOffItems"`
}

func (r *SaveReportRequest) toInput() services.SaveReportInput {
	input := services.SaveReportInput{
		Date:           r.Date,
		Department:     string(r.Department),
		Seller:         string(r.Seller),
		PrevDayBalance: float64(r.PrevDayBalance),
		Cashless:       float64(r.Cashless),
		Remaining:      float64(r.Remaining),
		SafeTerminal:   float64(r.SafeTerminal),
	}
	for _, it := range r.Items {
		input.Items = append(input.Items, services.LineItemInput{
			Volume:   string(it.Volume),
			Bottle:   string(it.Bottle),
			Color:    string(it.Color),
			Quantity: float64(it.Quantity),
			Price:    float64(it.Price),
			Remark:   string(it.Remark),
		})
	}
	for _, t := range r.Tasks {
		input.Tasks = append(input.Tasks, services.TaskInput{
			Text: string(t.Text),
			Done: t.Done,
		})
	}
	for _, ti := range r.TesterWriteOffItems {
		input.TesterItems = append(input.TesterItems, services.TesterItemInput{
			Label:    string(ti.Label),
			Quantity: float64(ti.Quantity),
		})
	}
	return input
}

// HandleGetReport returns the report aggregate for ?date=YYYY-MM-DD.
func (h *ReportHandler) HandleGetReport(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	date := c.Query("date")

	aggregate, err := h.service.Get(userID, date)
	if err != nil {
		log.Printf("Error getting report for date %s: %v", date, err)
		return respondError(c, err, fmt.Sprintf("No report for date %s", date))
	}
	return c.JSON(aggregate)
}

// HandleListReports returns all reports of the current user, newest first.
func (h *ReportHandler) HandleListReports(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	reports, err := h.service.ListAll(userID)
	if err != nil {
		log.Printf("Error listing reports for user %s: %v", userID, err)
		return respondError(c, err, "Could not list reports")
	}
	return c.JSON(reports)
}

// HandleSaveReport stores (or fully replaces) the report for a date.
func (h *ReportHandler) HandleSaveReport(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	var req SaveReportRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing save-report request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	report, err := h.service.Save(userID, req.toInput())
	if err != nil {
		log.Printf("Error saving report for date %s: %v", req.Date, err)
		return respondError(c, err, "Could not save report")
	}
	return c.JSON(fiber.Map{
		"report": report,
	})
}

// HandleDeleteReport deletes a report and its children. Unknown ids still
// answer success.
func (h *ReportHandler) HandleDeleteReport(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	reportID := c.Params("id")

	if err := h.service.Delete(userID, reportID); err != nil {
		log.Printf("Error deleting report %s: %v", reportID, err)
		return respondError(c, err, "Could not delete report")
	}
	return c.JSON(fiber.Map{
		"success": true,
	})
}

// HandleExportCSV streams the line items of a report as a CSV download.
func (h *ReportHandler) HandleExportCSV(c *fiber.Ctx) error {
	reportID := c.Params("id")

	date, data, err := h.service.ExportCSV(reportID)
	if err != nil {
		log.Printf("Error exporting report %s: %v", reportID, err)
		return respondError(c, err, fmt.Sprintf("Report %s not found", reportID))
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=report_%s.csv", date))
	return c.Send(data)
}
