package dto

import "github.com/noah-isme/college-plan-api/internal/models"

// CreateHolidayRequest registers a non-teaching period.
type CreateHolidayRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=128"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
}

// DayInfoResponse answers calendar questions about one date.
type DayInfoResponse struct {
	Date      string        `json:"date"`
	Parity    models.Parity `json:"parity"`
	SchoolDay bool          `json:"schoolDay"`
	Holiday   string        `json:"holiday,omitempty"`
}
