package model

import "time"

// CategoryData is the payload sub-object of a categories document.
type CategoryData struct {
	Name        string `bson:"name" json:"name"`
	DisplayName string `bson:"display_name" json:"display_name"`
	Description string `bson:"description" json:"description"`
	Icon        string `bson:"icon" json:"icon"`
}

// Category is a categories document.
type Category struct {
	ID        string       `bson:"_id" json:"id"`
	Data      CategoryData `bson:"data" json:"data"`
	IsActive  bool         `bson:"is_active" json:"is_active"`
	CreatedAt time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time    `bson:"updated_at" json:"updated_at"`
}

// CategoryResponse is the API representation of a category.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToResponse flattens the document for API output.
func (c Category) ToResponse() CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Data.Name,
		DisplayName: c.Data.DisplayName,
		Description: c.Data.Description,
		Icon:        c.Data.Icon,
		CreatedAt:   c.CreatedAt,
	}
}

// DefaultCategories are seeded at startup when missing.
var DefaultCategories = []CategoryData{
	{Name: "transport", DisplayName: "Transport", Description: "Public transit, roads, and mobility data", Icon: "bus"},
	{Name: "environment", DisplayName: "Environment", Description: "Air quality, green spaces, and waste data", Icon: "leaf"},
	{Name: "education", DisplayName: "Education", Description: "Schools, enrollment, and education budgets", Icon: "book"},
	{Name: "health", DisplayName: "Health", Description: "Public health services and facilities", Icon: "heart"},
	{Name: "budget", DisplayName: "Budget & Finance", Description: "Municipal spending and revenue data", Icon: "coins"},
	{Name: "safety", DisplayName: "Public Safety", Description: "Crime statistics and emergency services", Icon: "shield"},
	{Name: "housing", DisplayName: "Housing", Description: "Housing stock, permits, and zoning data", Icon: "home"},
	{Name: "other", DisplayName: "Other", Description: "Everything that fits no other category", Icon: "folder"},
}
