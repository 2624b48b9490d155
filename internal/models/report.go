package models

import "gorm.io/gorm"

// Report is the per-user, per-calendar-date daily sales report header.
// At most one report exists per (user, date); saving over an existing
// date fully replaces the report and all of its children.
type Report struct {
	ID             string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID         string  `json:"user_id" gorm:"uniqueIndex:idx_user_date;type:varchar(36)"`
	Date           string  `json:"date" gorm:"uniqueIndex:idx_user_date;type:varchar(10)"` // YYYY-MM-DD
	Department     string  `json:"department"`
	Seller         string  `json:"seller"`
	PrevDayBalance float64 `json:"prevDayBalance"`
	Cashless       float64 `json:"cashless"`
	Remaining      float64 `json:"remaining"`
	SafeTerminal   float64 `json:"safeTerminal"`
	gorm.Model
}

// LineItem is one row of goods sold on a report. Position numbers are
// 1-based and renumbered by the service on every save, and Sum is always
// recomputed as Quantity * Price server-side.
type LineItem struct {
	ID         string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ReportID   string  `json:"report_id" gorm:"index;type:varchar(36)"`
	PositionNo int     `json:"position_no"`
	Volume     string  `json:"volume"`
	Bottle     string  `json:"bottle"`
	Color      string  `json:"color"`
	Quantity   float64 `json:"quantity"`
	Price      float64 `json:"price"`
	Sum        float64 `json:"sum"`
	Remark     string  `json:"remark"`
	gorm.Model
}

// Task is an ad-hoc to-do attached to a report.
type Task struct {
	ID       string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ReportID string `json:"report_id" gorm:"index;type:varchar(36)"`
	Position int    `json:"position"`
	Text     string `json:"text"`
	Done     bool   `json:"done"`
	gorm.Model
}

// TesterWriteOffItem records a tester product consumed rather than sold.
type TesterWriteOffItem struct {
	ID       string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ReportID string  `json:"report_id" gorm:"index;type:varchar(36)"`
	Position int     `json:"position"`
	Label    string  `json:"label"`
	Quantity float64 `json:"quantity"`
	gorm.Model
}
