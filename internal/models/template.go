package models

import (
	"encoding/json"
	"time"
)

// Template is a reusable document body with {{variable}} placeholders
type Template struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Content     string    `gorm:"type:text" json:"content"`
	Category    string    `gorm:"size:100;index" json:"category"`
	Variables   string    `gorm:"type:text" json:"-"` // JSON-encoded []string
	IsActive    bool      `gorm:"default:true;index" json:"is_active"`
	CreatedByID uint      `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	CreatedBy User `gorm:"foreignKey:CreatedByID" json:"-"`
}

// TableName specifies the table name for Template
func (Template) TableName() string {
	return "templates"
}

// VariableNames decodes the stored variable list
func (t *Template) VariableNames() []string {
	if t.Variables == "" {
		return nil
	}
	var names []string
	if err := json.Unmarshal([]byte(t.Variables), &names); err != nil {
		return nil
	}
	return names
}

// SetVariableNames encodes and stores the variable list
func (t *Template) SetVariableNames(names []string) {
	if len(names) == 0 {
		t.Variables = ""
		return
	}
	data, _ := json.Marshal(names)
	t.Variables = string(data)
}

// TemplateResponse is the JSON response format for templates
type TemplateResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	Variables   []string  `json:"variables"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToResponse converts Template to TemplateResponse
func (t *Template) ToResponse() TemplateResponse {
	return TemplateResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Content:     t.Content,
		Category:    t.Category,
		Variables:   t.VariableNames(),
		IsActive:    t.IsActive,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
