package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Notifuse/emailbuilder/internal/domain"
	"github.com/Notifuse/emailbuilder/pkg/logger"
	"github.com/Notifuse/emailbuilder/pkg/tracing"
)

type TemplateService struct {
	repo   domain.TemplateRepository
	logger logger.Logger
}

func NewTemplateService(repo domain.TemplateRepository, logger logger.Logger) *TemplateService {
	return &TemplateService{
		repo:   repo,
		logger: logger,
	}
}

// SaveTemplate is idempotent on the template name: an unknown name creates
// the template, a known one is updated in place.
func (s *TemplateService) SaveTemplate(ctx context.Context, req domain.SaveTemplateRequest) (tmpl *domain.Template, err error) {
	ctx, span := tracing.StartServiceSpan(ctx, "TemplateService", "SaveTemplate")
	defer func() { tracing.EndSpan(span, err) }()
	tracing.AddAttribute(ctx, "template.name", req.Name)

	if err = req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	existing, err := s.repo.GetTemplateByName(ctx, req.Name)
	if err != nil {
		if _, ok := err.(*domain.ErrTemplateNotFound); !ok {
			s.logger.WithField("template_name", req.Name).Error(fmt.Sprintf("Failed to look up template: %v", err))
			return nil, fmt.Errorf("failed to look up template: %w", err)
		}

		tmpl = &domain.Template{
			ID:        uuid.New().String(),
			Name:      req.Name,
			Subject:   req.Subject,
			HTMLBody:  req.HTMLBody,
			Document:  req.Document,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err = s.repo.CreateTemplate(ctx, tmpl); err != nil {
			s.logger.WithField("template_name", req.Name).Error(fmt.Sprintf("Failed to create template: %v", err))
			return nil, fmt.Errorf("failed to create template: %w", err)
		}
		tracing.AddAttribute(ctx, "template.created", true)
		return tmpl, nil
	}

	existing.Subject = req.Subject
	existing.HTMLBody = req.HTMLBody
	existing.Document = req.Document
	existing.UpdatedAt = now
	if err = s.repo.UpdateTemplate(ctx, existing); err != nil {
		if _, ok := err.(*domain.ErrTemplateNotFound); ok {
			return nil, err
		}
		s.logger.WithField("template_name", req.Name).Error(fmt.Sprintf("Failed to update template: %v", err))
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	tracing.AddAttribute(ctx, "template.created", false)
	return existing, nil
}

func (s *TemplateService) GetTemplate(ctx context.Context, name string) (tmpl *domain.Template, err error) {
	ctx, span := tracing.StartServiceSpan(ctx, "TemplateService", "GetTemplate")
	defer func() { tracing.EndSpan(span, err) }()

	tmpl, err = s.repo.GetTemplateByName(ctx, name)
	if err != nil {
		if _, ok := err.(*domain.ErrTemplateNotFound); ok {
			return nil, err
		}
		s.logger.WithField("template_name", name).Error(fmt.Sprintf("Failed to get template: %v", err))
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return tmpl, nil
}

func (s *TemplateService) ListTemplates(ctx context.Context) (templates []*domain.Template, err error) {
	ctx, span := tracing.StartServiceSpan(ctx, "TemplateService", "ListTemplates")
	defer func() { tracing.EndSpan(span, err) }()

	templates, err = s.repo.ListTemplates(ctx)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Failed to list templates: %v", err))
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	tracing.AddAttribute(ctx, "template.count", len(templates))
	return templates, nil
}

func (s *TemplateService) DeleteTemplate(ctx context.Context, name string) (err error) {
	ctx, span := tracing.StartServiceSpan(ctx, "TemplateService", "DeleteTemplate")
	defer func() { tracing.EndSpan(span, err) }()

	if err = s.repo.DeleteTemplate(ctx, name); err != nil {
		if _, ok := err.(*domain.ErrTemplateNotFound); ok {
			return err
		}
		s.logger.WithField("template_name", name).Error(fmt.Sprintf("Failed to delete template: %v", err))
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}
