package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SpaceStatus is the lifecycle status of a space.
type SpaceStatus string

const (
	SpaceActive      SpaceStatus = "active"
	SpaceMaintenance SpaceStatus = "maintenance"
	SpaceInactive    SpaceStatus = "inactive"
)

func (s SpaceStatus) Valid() bool {
	switch s {
	case SpaceActive, SpaceMaintenance, SpaceInactive:
		return true
	}
	return false
}

// Space is a bookable location.  ManagerID is nil when no manager owns
// the space (spaces.manager_id is ON DELETE SET NULL).
type Space struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Capacity    int             `json:"capacity"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	ManagerID   *uint64         `json:"manager_id"`
	IsAvailable bool            `json:"is_available"`
	Status      SpaceStatus     `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Bookable reports whether new reservations may be admitted for the space.
func (s Space) Bookable() bool {
	return s.Status == SpaceActive && s.IsAvailable
}

// ManagedBy reports whether userID is the space's manager.
func (s Space) ManagedBy(userID uint64) bool {
	return s.ManagerID != nil && *s.ManagerID == userID
}

// SpaceDetail is a space together with its manager and offered resources.
type SpaceDetail struct {
	Space
	Manager   *UserSummary    `json:"manager"`
	Resources []SpaceResource `json:"resources"`
}
