package handler

import "time"

// --- Request / Response types ---

type createProjectRequest struct {
	Name        string   `json:"name"        validate:"required,min=2"`
	Description *string  `json:"description"`
	Type        string   `json:"type"        validate:"required,oneof=SOLAR WIND HYDRO BATTERY_STORAGE HYBRID"`
	Location    string   `json:"location"    validate:"required,min=2"`
	Capacity    *float64 `json:"capacity"    validate:"omitempty,gt=0"`
	Budget      *float64 `json:"budget"      validate:"omitempty,gt=0"`
	StartDate   string   `json:"startDate"   validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndDate     *string  `json:"endDate"     validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	ManagerID   string   `json:"managerId"`
}

type updateProjectRequest struct {
	Name        *string  `json:"name"        validate:"omitempty,min=2"`
	Description *string  `json:"description"`
	Type        *string  `json:"type"        validate:"omitempty,oneof=SOLAR WIND HYDRO BATTERY_STORAGE HYBRID"`
	Status      *string  `json:"status"      validate:"omitempty,oneof=PLANNING IN_PROGRESS ON_HOLD COMPLETED CANCELLED"`
	Location    *string  `json:"location"    validate:"omitempty,min=2"`
	Capacity    *float64 `json:"capacity"    validate:"omitempty,gt=0"`
	Budget      *float64 `json:"budget"      validate:"omitempty,gt=0"`
	StartDate   *string  `json:"startDate"   validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndDate     *string  `json:"endDate"     validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	ManagerID   *string  `json:"managerId"`
}

type managerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// projectResponse is owned by the transport layer so the JSON contract is
// not coupled to the domain type.
type projectResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	Location    string          `json:"location"`
	Capacity    *float64        `json:"capacity"`
	Budget      *float64        `json:"budget"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     *time.Time      `json:"endDate"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Manager     managerResponse `json:"manager"`
}

type listProjectsResponse struct {
	Projects []projectResponse `json:"projects"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

type messageResponse struct {
	Message string `json:"message"`
}
