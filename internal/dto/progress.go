package dto

// CreateProgressRequest records manually delivered hours.
type CreateProgressRequest struct {
	LoadSpecID string  `json:"loadSpecId" validate:"required"`
	Hours      float64 `json:"hours" validate:"required,gt=0"`
	Date       string  `json:"date" validate:"required,datetime=2006-01-02"`
	Note       string  `json:"note" validate:"omitempty,max=256"`
}

// ProgressQuery filters progress summaries.
type ProgressQuery struct {
	GroupID string `form:"groupId" validate:"omitempty"`
}
