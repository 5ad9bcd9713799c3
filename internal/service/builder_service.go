package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Notifuse/emailbuilder/internal/domain"
	"github.com/Notifuse/emailbuilder/pkg/emailbuilder"
	"github.com/Notifuse/emailbuilder/pkg/logger"
	"github.com/Notifuse/emailbuilder/pkg/tracing"
)

// BuilderServiceConfig bounds the session store.
type BuilderServiceConfig struct {
	SessionTTL     time.Duration
	MaxSessions    int
	PreviewTimeout time.Duration
	DragActivation float64
}

// BuilderService keeps one emailbuilder.Builder per editor session. Idle
// sessions expire; the least recently used one is evicted when the store
// is full.
type BuilderService struct {
	templates      domain.TemplateService
	media          domain.MediaService
	logger         logger.Logger
	catalog        *emailbuilder.Catalog
	liquid         *emailbuilder.LiquidRenderer
	sessions       *expirable.LRU[string, *emailbuilder.Builder]
	dragActivation float64
	newSessionID   func() string
}

func NewBuilderService(templates domain.TemplateService, media domain.MediaService, logger logger.Logger, cfg BuilderServiceConfig) *BuilderService {
	maxSessions := cfg.MaxSessions
	if maxSessions <= 0 {
		maxSessions = 1
	}
	s := &BuilderService{
		templates:      templates,
		media:          media,
		logger:         logger,
		catalog:        emailbuilder.DefaultCatalog(),
		liquid:         emailbuilder.NewLiquidRendererWithOptions(cfg.PreviewTimeout, 0),
		dragActivation: cfg.DragActivation,
		newSessionID:   uuid.NewString,
	}
	s.sessions = expirable.NewLRU[string, *emailbuilder.Builder](maxSessions, func(id string, _ *emailbuilder.Builder) {
		s.logger.WithField("session_id", id).Debug("Builder session evicted")
	}, cfg.SessionTTL)
	return s
}

func (s *BuilderService) session(id string) (*emailbuilder.Builder, error) {
	b, ok := s.sessions.Get(id)
	if !ok {
		return nil, &domain.ErrSessionNotFound{SessionID: id}
	}
	// re-adding restarts the idle timer
	s.sessions.Add(id, b)
	return b, nil
}

func sessionView(id string, b *emailbuilder.Builder) *domain.BuilderSession {
	return &domain.BuilderSession{
		ID:        id,
		Version:   b.Version(),
		Saving:    b.Saving(),
		DragState: b.DragState(),
		Document:  b.Document(),
	}
}

// OpenSession starts an editor session on an empty document, a saved
// template or an imported document.
func (s *BuilderService) OpenSession(ctx context.Context, req domain.OpenBuilderRequest) (session *domain.BuilderSession, err error) {
	ctx, span := tracing.StartServiceSpan(ctx, "BuilderService", "OpenSession")
	defer func() { tracing.EndSpan(span, err) }()

	if err = req.Validate(); err != nil {
		return nil, err
	}

	doc := emailbuilder.NewDocument()
	switch {
	case req.TemplateName != "":
		tmpl, err := s.templates.GetTemplate(ctx, req.TemplateName)
		if err != nil {
			return nil, err
		}
		if doc, err = tmpl.Document.Decode(); err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("template %s cannot be edited: %v", req.TemplateName, err))
		}
		if doc.Subject == "" {
			doc.Subject = tmpl.Subject
		}
	case len(req.Document) > 0:
		if doc, err = emailbuilder.ImportJSON(req.Document); err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("invalid document: %v", err))
		}
	}
	if req.Subject != "" {
		doc.Subject = req.Subject
	}

	b := emailbuilder.NewBuilder(
		emailbuilder.WithDocument(doc),
		emailbuilder.WithCatalog(s.catalog),
		emailbuilder.WithDragActivationDistance(s.dragActivation),
	)
	id := s.newSessionID()
	s.sessions.Add(id, b)
	tracing.AddAttribute(ctx, "session.id", id)
	s.logger.WithFields(map[string]interface{}{
		"session_id":    id,
		"template_name": req.TemplateName,
	}).Debug("Builder session opened")

	return sessionView(id, b), nil
}

func (s *BuilderService) GetSession(ctx context.Context, sessionID string) (*domain.BuilderSession, error) {
	b, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sessionView(sessionID, b), nil
}

func (s *BuilderService) CloseSession(ctx context.Context, sessionID string) error {
	if !s.sessions.Remove(sessionID) {
		return &domain.ErrSessionNotFound{SessionID: sessionID}
	}
	return nil
}

func (s *BuilderService) Catalog(ctx context.Context) []emailbuilder.CatalogEntry {
	return s.catalog.Entries()
}

// Apply runs one editor operation. Operations the tree rejects, like a
// dangling id or an invalid reparent, report Changed false.
func (s *BuilderService) Apply(ctx context.Context, op domain.BuilderOperation) (result *domain.ApplyResult, err error) {
	ctx, span := tracing.StartServiceSpan(ctx, "BuilderService", "Apply")
	defer func() { tracing.EndSpan(span, err) }()
	tracing.AddAttribute(ctx, "builder.op", string(op.Op))

	if err = op.Validate(); err != nil {
		return nil, err
	}
	b, err := s.session(op.SessionID)
	if err != nil {
		return nil, err
	}

	var changed bool
	blockID := op.BlockID
	switch op.Op {
	case domain.BuilderOpInsert:
		blockID, changed = b.InsertFromCatalog(op.EntryID, op.ContainerID, op.Index)
	case domain.BuilderOpAppend:
		blockID, changed = b.Append(op.EntryID)
	case domain.BuilderOpRemove:
		changed = b.Remove(op.BlockID)
	case domain.BuilderOpMove:
		changed = b.Move(op.BlockID, op.ContainerID, op.Index)
	case domain.BuilderOpDuplicate:
		blockID, changed = b.Duplicate(op.BlockID)
	case domain.BuilderOpSelect:
		changed = b.Select(op.BlockID)
	case domain.BuilderOpSetContent:
		changed = b.SetContent(op.BlockID, *op.Content)
	case domain.BuilderOpSetStyle:
		changed = b.SetStyle(op.BlockID, *op.Style)
	case domain.BuilderOpSetColumns:
		if op.Preset != "" {
			changed = b.SetLayoutPreset(op.BlockID, op.Preset)
		} else {
			changed = b.SetColumns(op.BlockID, op.Layout)
		}
	case domain.BuilderOpSetGlobalStyles:
		changed = b.SetGlobalStyles(*op.GlobalStyles)
	case domain.BuilderOpSetSubject:
		changed = b.SetSubject(*op.Subject)
	case domain.BuilderOpCommitRichText:
		changed = b.CommitRichText(op.BlockID, *op.HTML)
	case domain.BuilderOpApplySetting:
		if changed, err = b.ApplySetting(op.BlockID, op.Key, op.Value); err != nil {
			return nil, err
		}
	}
	tracing.AddAttribute(ctx, "builder.changed", changed)

	return &domain.ApplyResult{
		Changed: changed,
		BlockID: blockID,
		Session: sessionView(op.SessionID, b),
	}, nil
}

// Drag feeds one pointer event to the session's drag controller. Only a
// drop can change the document.
func (s *BuilderService) Drag(ctx context.Context, ev domain.DragEvent) (*domain.ApplyResult, error) {
	b, err := s.session(ev.SessionID)
	if err != nil {
		return nil, err
	}

	result := &domain.ApplyResult{}
	switch ev.Type {
	case domain.DragEventPointerDown:
		b.PointerDown(emailbuilder.DragPayload{ID: ev.ID, IsToolbarItem: ev.IsToolbarItem}, ev.X, ev.Y)
	case domain.DragEventPointerMove:
		b.PointerMove(ev.X, ev.Y)
	case domain.DragEventOver:
		b.DragOver(ev.TargetID)
	case domain.DragEventDrop:
		if ev.TargetID != "" {
			b.DragOver(ev.TargetID)
		}
		drop := b.Drop()
		result.Changed = drop.Changed
		result.BlockID = drop.BlockID
	case domain.DragEventCancel:
		b.CancelDrag()
	default:
		return nil, domain.NewValidationError(fmt.Sprintf("invalid drag event: unknown type %q", ev.Type))
	}

	result.Session = sessionView(ev.SessionID, b)
	return result, nil
}

func (s *BuilderService) RenderCanvas(ctx context.Context, sessionID string, labels emailbuilder.Labels) (string, error) {
	b, err := s.session(sessionID)
	if err != nil {
		return "", err
	}
	return b.RenderCanvas(emailbuilder.RenderOptions{Labels: labels}), nil
}

func (s *BuilderService) Settings(ctx context.Context, sessionID string) (*emailbuilder.Panel, error) {
	b, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	panel := b.SettingsPanel()
	return &panel, nil
}

func (s *BuilderService) Generate(ctx context.Context, sessionID string) (string, error) {
	b, err := s.session(sessionID)
	if err != nil {
		return "", err
	}
	return b.Generate(), nil
}

// Preview generates the email, personalised with testData when given. A
// Liquid failure is reported in the result, not as an error.
func (s *BuilderService) Preview(ctx context.Context, sessionID string, testData map[string]interface{}) (result *domain.PreviewResult, err error) {
	ctx, span := tracing.StartServiceSpan(ctx, "BuilderService", "Preview")
	defer func() { tracing.EndSpan(span, err) }()

	b, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	result = &domain.PreviewResult{}
	out, liquidErr := s.liquid.GenerateWithData(ctx, b.Document(), testData)
	if liquidErr != nil {
		s.logger.WithField("session_id", sessionID).Warn(fmt.Sprintf("Failed to personalise preview: %v", liquidErr))
		result.LiquidError = liquidErr.Error()
	}
	result.HTML = out
	result.Frame = emailbuilder.PreviewFrame(out)
	return result, nil
}

func (s *BuilderService) ExportHTML(ctx context.Context, sessionID string) (*emailbuilder.ExportFile, error) {
	b, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	file := emailbuilder.ExportHTMLFile(b.Document())
	return &file, nil
}

func (s *BuilderService) ExportJSON(ctx context.Context, sessionID string) (*emailbuilder.ExportFile, error) {
	b, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	file, err := emailbuilder.ExportJSONFile(b.Document())
	if err != nil {
		s.logger.WithField("session_id", sessionID).Error(fmt.Sprintf("Failed to export document: %v", err))
		return nil, fmt.Errorf("failed to export document: %w", err)
	}
	return &file, nil
}

func (s *BuilderService) ExportMJML(ctx context.Context, sessionID string) (file *emailbuilder.ExportFile, err error) {
	ctx, span := tracing.StartServiceSpan(ctx, "BuilderService", "ExportMJML")
	defer func() { tracing.EndSpan(span, err) }()

	b, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	out, err := emailbuilder.ExportMJMLFile(ctx, b.Document())
	if err != nil {
		s.logger.WithField("session_id", sessionID).Error(fmt.Sprintf("Failed to compile MJML: %v", err))
		return nil, fmt.Errorf("failed to compile MJML: %w", err)
	}
	return &out, nil
}

// Import replaces the session document with an exported one. An invalid
// document leaves the session untouched.
func (s *BuilderService) Import(ctx context.Context, sessionID string, data []byte) (*domain.BuilderSession, error) {
	b, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	doc, err := emailbuilder.ImportJSON(data)
	if err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid document: %v", err))
	}
	b.Replace(doc)
	return sessionView(sessionID, b), nil
}

// Save persists the generated HTML and the document under name. Only one
// save per session runs at a time.
func (s *BuilderService) Save(ctx context.Context, sessionID, name string) (tmpl *domain.Template, err error) {
	ctx, span := tracing.StartServiceSpan(ctx, "BuilderService", "Save")
	defer func() { tracing.EndSpan(span, err) }()

	b, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if !b.BeginSave() {
		return nil, domain.ErrSaveInProgress
	}
	defer b.EndSave()

	doc := b.Document()
	document, err := emailbuilder.ExportJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to export document: %w", err)
	}
	return s.templates.SaveTemplate(ctx, domain.SaveTemplateRequest{
		Name:     name,
		Subject:  doc.Subject,
		HTMLBody: emailbuilder.Generate(doc),
		Document: document,
	})
}

// EmbedImage inlines a media asset as the source of an image block. The
// document is only touched once the asset has been fetched.
func (s *BuilderService) EmbedImage(ctx context.Context, sessionID, blockID, downloadRef string) (result *domain.ApplyResult, err error) {
	ctx, span := tracing.StartServiceSpan(ctx, "BuilderService", "EmbedImage")
	defer func() { tracing.EndSpan(span, err) }()

	b, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	img, err := s.media.EmbedImage(ctx, downloadRef)
	if err != nil {
		return nil, err
	}

	changed := b.SetContent(blockID, emailbuilder.Content{Src: emailbuilder.String(img.DataURI)})
	return &domain.ApplyResult{
		Changed: changed,
		BlockID: blockID,
		Session: sessionView(sessionID, b),
	}, nil
}
