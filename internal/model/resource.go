package model

import "time"

// Resource is a piece of equipment that spaces may offer.
type Resource struct {
	ID                uint64    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	AvailableQuantity int       `json:"available_quantity"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// SpaceResource says "this space offers Quantity units of this resource".
// Resource is populated on reads that join the resources table.
type SpaceResource struct {
	SpaceID    uint64    `json:"space_id"`
	ResourceID uint64    `json:"resource_id"`
	Quantity   int       `json:"quantity"`
	Resource   *Resource `json:"resource,omitempty"`
}
