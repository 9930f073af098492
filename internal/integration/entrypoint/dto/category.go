package dto

import (
	"time"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// CreateCategoryRequest represents the request body for category creation.
type CreateCategoryRequest struct {
	Name             string  `json:"name" binding:"required,min=1,max=30"`
	Type             string  `json:"type" binding:"required,oneof=expense income"`
	Color            string  `json:"color,omitempty"`
	Icon             string  `json:"icon,omitempty"`
	ParentCategoryID *string `json:"parent_category_id,omitempty"`
}

// UpdateCategoryRequest represents the request body for category update.
type UpdateCategoryRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,min=1,max=30"`
	Type     *string `json:"type,omitempty" binding:"omitempty,oneof=expense income"`
	Color    *string `json:"color,omitempty"`
	Icon     *string `json:"icon,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	Color            string    `json:"color"`
	Icon             string    `json:"icon"`
	IsDefault        bool      `json:"is_default"`
	IsActive         bool      `json:"is_active"`
	ParentCategoryID *string   `json:"parent_category_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CategoryListResponse represents the response for listing categories.
type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// ToCategoryResponse converts a domain Category to a CategoryResponse DTO.
func ToCategoryResponse(category *entity.Category) CategoryResponse {
	response := CategoryResponse{
		ID:        category.ID.String(),
		Name:      category.Name,
		Type:      string(category.Type),
		Color:     category.Color,
		Icon:      category.Icon,
		IsDefault: category.IsDefault,
		IsActive:  category.IsActive,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
	if category.ParentCategoryID != nil {
		parent := category.ParentCategoryID.String()
		response.ParentCategoryID = &parent
	}
	return response
}

// ToCategoryListResponse converts categories to a CategoryListResponse DTO.
func ToCategoryListResponse(categories []*entity.Category) CategoryListResponse {
	items := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		items[i] = ToCategoryResponse(c)
	}
	return CategoryListResponse{Categories: items}
}
