package domain

import (
	"bytes"
	"context"
	"database/sql/driver"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	"github.com/Notifuse/emailbuilder/pkg/emailbuilder"
)

//go:generate mockgen -destination mocks/mock_template_service.go -package mocks github.com/Notifuse/emailbuilder/internal/domain TemplateService
//go:generate mockgen -destination mocks/mock_template_repository.go -package mocks github.com/Notifuse/emailbuilder/internal/domain TemplateRepository

// Template is a named, saved email: the generated HTML plus the serialized
// document tree so the builder can reopen it.
type Template struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Subject   string           `json:"subject"`
	HTMLBody  string           `json:"html_body"`
	Document  TemplateDocument `json:"document,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// TemplateDocument holds the JSON export of a builder document.
type TemplateDocument []byte

func (d TemplateDocument) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

func (d *TemplateDocument) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = nil
		return nil
	}
	*d = bytes.Clone(data)
	return nil
}

func (d *TemplateDocument) Scan(val interface{}) error {
	switch v := val.(type) {
	case nil:
		*d = nil
	case []byte:
		// the driver reuses the buffer for the next row
		*d = bytes.Clone(v)
	case string:
		*d = []byte(v)
	default:
		return fmt.Errorf("type assertion to []byte failed")
	}
	return nil
}

func (d TemplateDocument) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	return []byte(d), nil
}

// Decode parses the stored document.
func (d TemplateDocument) Decode() (*emailbuilder.Document, error) {
	if len(d) == 0 {
		return nil, fmt.Errorf("template has no document")
	}
	return emailbuilder.ImportJSON(d)
}

const maxTemplateNameLength = 255

func validateTemplateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required")
	}
	if !govalidator.StringLength(name, "1", fmt.Sprint(maxTemplateNameLength)) {
		return fmt.Errorf("name length must be between 1 and %d", maxTemplateNameLength)
	}
	return nil
}

// SaveTemplateRequest is the payload persisted by TemplateService.SaveTemplate
type SaveTemplateRequest struct {
	Name     string           `json:"name"`
	Subject  string           `json:"subject"`
	HTMLBody string           `json:"html_body"`
	Document TemplateDocument `json:"document,omitempty"`
}

func (r *SaveTemplateRequest) Validate() error {
	if err := validateTemplateName(r.Name); err != nil {
		return NewValidationError(fmt.Sprintf("invalid save template request: %v", err))
	}
	if strings.TrimSpace(r.HTMLBody) == "" {
		return NewValidationError("invalid save template request: html_body is required")
	}
	if len(r.Document) > 0 {
		if _, err := emailbuilder.ImportJSON(r.Document); err != nil {
			return NewValidationError(fmt.Sprintf("invalid save template request: %v", err))
		}
	}
	return nil
}

type GetTemplateRequest struct {
	Name string `json:"name"`
}

func (r *GetTemplateRequest) FromURLParams(queryParams url.Values) error {
	r.Name = queryParams.Get("name")
	if err := validateTemplateName(r.Name); err != nil {
		return NewValidationError(fmt.Sprintf("invalid get template request: %v", err))
	}
	return nil
}

type DeleteTemplateRequest struct {
	Name string `json:"name"`
}

func (r *DeleteTemplateRequest) Validate() error {
	if err := validateTemplateName(r.Name); err != nil {
		return NewValidationError(fmt.Sprintf("invalid delete template request: %v", err))
	}
	return nil
}

// TemplateService saves and loads named templates
type TemplateService interface {
	// SaveTemplate creates the template or replaces the one with the same name
	SaveTemplate(ctx context.Context, req SaveTemplateRequest) (*Template, error)

	GetTemplate(ctx context.Context, name string) (*Template, error)

	ListTemplates(ctx context.Context) ([]*Template, error)

	DeleteTemplate(ctx context.Context, name string) error
}

// TemplateRepository provides database operations for templates
type TemplateRepository interface {
	// GetTemplateByName returns *ErrTemplateNotFound when absent
	GetTemplateByName(ctx context.Context, name string) (*Template, error)

	ListTemplates(ctx context.Context) ([]*Template, error)

	CreateTemplate(ctx context.Context, template *Template) error

	UpdateTemplate(ctx context.Context, template *Template) error

	// DeleteTemplate returns *ErrTemplateNotFound when absent
	DeleteTemplate(ctx context.Context, name string) error
}
