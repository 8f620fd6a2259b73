package domain

import "time"

// ProjectType is the generation technology of a project.
type ProjectType string

const (
	ProjectTypeSolar          ProjectType = "SOLAR"
	ProjectTypeWind           ProjectType = "WIND"
	ProjectTypeHydro          ProjectType = "HYDRO"
	ProjectTypeBatteryStorage ProjectType = "BATTERY_STORAGE"
	ProjectTypeHybrid         ProjectType = "HYBRID"
)

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "PLANNING"
	ProjectStatusInProgress ProjectStatus = "IN_PROGRESS"
	ProjectStatusOnHold     ProjectStatus = "ON_HOLD"
	ProjectStatusCompleted  ProjectStatus = "COMPLETED"
	ProjectStatusCancelled  ProjectStatus = "CANCELLED"
)

// Manager is the embedded summary of the user responsible for a project.
type Manager struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Project is the core aggregate tracked by the dashboard.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	Type        ProjectType   `json:"type"`
	Status      ProjectStatus `json:"status"`
	Location    string        `json:"location"`
	Capacity    *float64      `json:"capacity"`
	Budget      *float64      `json:"budget"`
	StartDate   time.Time     `json:"startDate"`
	EndDate     *time.Time    `json:"endDate"`
	ManagerID   string        `json:"-"`
	Manager     Manager       `json:"manager"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// ProjectPatch lists the fields an update may change. Nil means "keep".
type ProjectPatch struct {
	Name        *string
	Description *string
	Type        *ProjectType
	Status      *ProjectStatus
	Location    *string
	Capacity    *float64
	Budget      *float64
	StartDate   *time.Time
	EndDate     *time.Time
	ManagerID   *string
}
