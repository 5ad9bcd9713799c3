package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Notifuse/emailbuilder/internal/domain"
	domainmocks "github.com/Notifuse/emailbuilder/internal/domain/mocks"
	"github.com/Notifuse/emailbuilder/internal/service"
	"github.com/Notifuse/emailbuilder/pkg/emailbuilder"
	"github.com/Notifuse/emailbuilder/pkg/logger"
)

type builderServiceFixture struct {
	svc       *service.BuilderService
	templates *domainmocks.MockTemplateService
	media     *domainmocks.MockMediaService
}

func setupBuilderServiceTest(t *testing.T, ctrl *gomock.Controller, maxSessions int) builderServiceFixture {
	templates := domainmocks.NewMockTemplateService(ctrl)
	media := domainmocks.NewMockMediaService(ctrl)
	svc := service.NewBuilderService(templates, media, logger.NewTestLogger(t), service.BuilderServiceConfig{
		SessionTTL:     time.Hour,
		MaxSessions:    maxSessions,
		PreviewTimeout: time.Second,
		DragActivation: 5,
	})
	return builderServiceFixture{svc: svc, templates: templates, media: media}
}

func openEmpty(t *testing.T, svc *service.BuilderService) string {
	t.Helper()
	session, err := svc.OpenSession(context.Background(), domain.OpenBuilderRequest{})
	require.NoError(t, err)
	return session.ID
}

func apply(t *testing.T, svc *service.BuilderService, op domain.BuilderOperation) *domain.ApplyResult {
	t.Helper()
	if op.Index == 0 && op.Op != domain.BuilderOpMove {
		op.Index = domain.AppendIndex
	}
	result, err := svc.Apply(context.Background(), op)
	require.NoError(t, err)
	return result
}

func TestBuilderService_Sessions(t *testing.T) {
	ctx := context.Background()

	t.Run("open get close", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := setupBuilderServiceTest(t, ctrl, 10)

		session, err := f.svc.OpenSession(ctx, domain.OpenBuilderRequest{Subject: "Hello"})
		require.NoError(t, err)
		assert.Len(t, session.ID, 36)
		assert.Equal(t, 0, session.Version)
		assert.Equal(t, emailbuilder.DragStateIdle, session.DragState)
		assert.Equal(t, "Hello", session.Document.Subject)

		got, err := f.svc.GetSession(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, session.ID, got.ID)

		require.NoError(t, f.svc.CloseSession(ctx, session.ID))
		_, err = f.svc.GetSession(ctx, session.ID)
		var notFound *domain.ErrSessionNotFound
		assert.True(t, errors.As(err, &notFound))
		assert.Error(t, f.svc.CloseSession(ctx, session.ID))
	})

	t.Run("least recently used session is evicted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := setupBuilderServiceTest(t, ctrl, 1)

		first := openEmpty(t, f.svc)
		second := openEmpty(t, f.svc)

		_, err := f.svc.GetSession(ctx, first)
		assert.Error(t, err)
		_, err = f.svc.GetSession(ctx, second)
		assert.NoError(t, err)
	})

	t.Run("open a saved template", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := setupBuilderServiceTest(t, ctrl, 10)

		f.templates.EXPECT().GetTemplate(gomock.Any(), "welcome").Return(&domain.Template{
			Name:     "welcome",
			Subject:  "Welcome aboard",
			Document: domain.TemplateDocument(`{"items":[{"id":"t1","type":"text","content":{"html":"<p>Hi</p>"}}]}`),
		}, nil)

		session, err := f.svc.OpenSession(ctx, domain.OpenBuilderRequest{TemplateName: "welcome"})
		require.NoError(t, err)
		require.Len(t, session.Document.Items, 1)
		assert.Equal(t, "t1", session.Document.Items[0].ID)
		assert.Equal(t, "Welcome aboard", session.Document.Subject)
	})

	t.Run("template without document", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := setupBuilderServiceTest(t, ctrl, 10)

		f.templates.EXPECT().GetTemplate(gomock.Any(), "legacy").Return(&domain.Template{Name: "legacy", HTMLBody: "<p>x</p>"}, nil)
		_, err := f.svc.OpenSession(ctx, domain.OpenBuilderRequest{TemplateName: "legacy"})
		var validationErr domain.ValidationError
		assert.True(t, errors.As(err, &validationErr))
	})

	t.Run("unknown template", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := setupBuilderServiceTest(t, ctrl, 10)

		f.templates.EXPECT().GetTemplate(gomock.Any(), "missing").Return(nil, &domain.ErrTemplateNotFound{Message: "template not found"})
		_, err := f.svc.OpenSession(ctx, domain.OpenBuilderRequest{TemplateName: "missing"})
		var notFound *domain.ErrTemplateNotFound
		assert.True(t, errors.As(err, &notFound))
	})

	t.Run("invalid document", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := setupBuilderServiceTest(t, ctrl, 10)

		_, err := f.svc.OpenSession(ctx, domain.OpenBuilderRequest{
			Document: domain.TemplateDocument(`{"items":[{"id":"a","type":"text"},{"id":"a","type":"text"}]}`),
		})
		var validationErr domain.ValidationError
		assert.True(t, errors.As(err, &validationErr))
	})
}

func TestBuilderService_Apply(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := setupBuilderServiceTest(t, ctrl, 10)
	id := openEmpty(t, f.svc)

	cols := apply(t, f.svc, domain.BuilderOperation{SessionID: id, Op: domain.BuilderOpAppend, EntryID: "columns"})
	require.True(t, cols.Changed)
	assert.Equal(t, cols.BlockID, cols.Session.Document.SelectedBlockID)
	assert.Equal(t, 1, cols.Session.Version)

	preset := apply(t, f.svc, domain.BuilderOperation{SessionID: id, Op: domain.BuilderOpSetColumns, BlockID: cols.BlockID, Preset: "30-70"})
	require.True(t, preset.Changed)
	columns := preset.Session.Document.Items[0].Content.Columns
	require.Len(t, columns, 2)

	text := apply(t, f.svc, domain.BuilderOperation{SessionID: id, Op: domain.BuilderOpInsert, EntryID: "text", ContainerID: columns[1].ID})
	require.True(t, text.Changed)

	moved := apply(t, f.svc, domain.BuilderOperation{SessionID: id, Op: domain.BuilderOpMove, BlockID: text.BlockID, ContainerID: emailbuilder.RootContainerID, Index: 0})
	require.True(t, moved.Changed)
	assert.Equal(t, text.BlockID, moved.Session.Document.Items[0].ID)

	reparent := apply(t, f.svc, domain.BuilderOperation{SessionID: id, Op: domain.BuilderOpMove, BlockID: cols.BlockID, ContainerID: columns[0].ID, Index: 0})
	assert.False(t, reparent.Changed, "a block cannot move into itself")

	dangling := apply(t, f.svc, domain.BuilderOperation{SessionID: id, Op: domain.BuilderOpRemove, BlockID: "missing"})
	assert.False(t, dangling.Changed)
	assert.Equal(t, moved.Session.Version, dangling.Session.Version)

	subject := "Weekly digest"
	assert.True(t, apply(t, f.svc, domain.BuilderOperation{SessionID: id, Op: domain.BuilderOpSetSubject, Subject: &subject}).Changed)

	markup := `<p>Fresh <b>copy</b></p><script>x()</script>`
	committed := apply(t, f.svc, domain.BuilderOperation{SessionID: id, Op: domain.BuilderOpCommitRichText, BlockID: text.BlockID, HTML: &markup})
	require.True(t, committed.Changed)
	assert.Equal(t, "<p>Fresh <b>copy</b></p>", *committed.Session.Document.Items[0].Content.HTML)

	setting := apply(t, f.svc, domain.BuilderOperation{SessionID: id, Op: domain.BuilderOpApplySetting, BlockID: text.BlockID, Key: "fontSize", Value: "20"})
	assert.True(t, setting.Changed)

	_, err := f.svc.Apply(ctx, domain.BuilderOperation{SessionID: id, Op: domain.BuilderOpApplySetting, BlockID: text.BlockID, Key: "fontSize", Value: "huge", Index: domain.AppendIndex})
	var settingErr *emailbuilder.SettingError
	require.True(t, errors.As(err, &settingErr))
	assert.Equal(t, "fontSize", settingErr.Key)

	dup := apply(t, f.svc, domain.BuilderOperation{SessionID: id, Op: domain.BuilderOpDuplicate, BlockID: text.BlockID})
	require.True(t, dup.Changed)
	assert.NotEqual(t, text.BlockID, dup.BlockID)

	removed := apply(t, f.svc, domain.BuilderOperation{SessionID: id, Op: domain.BuilderOpRemove, BlockID: dup.BlockID})
	require.True(t, removed.Changed)
	assert.Empty(t, removed.Session.Document.SelectedBlockID)

	_, err = f.svc.Apply(ctx, domain.BuilderOperation{SessionID: "nope", Op: domain.BuilderOpRemove, BlockID: "x"})
	var notFound *domain.ErrSessionNotFound
	assert.True(t, errors.As(err, &notFound))

	_, err = f.svc.Apply(ctx, domain.BuilderOperation{SessionID: id, Op: domain.BuilderOpSetContent, BlockID: text.BlockID})
	var validationErr domain.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestBuilderService_Drag(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := setupBuilderServiceTest(t, ctrl, 10)
	id := openEmpty(t, f.svc)

	res, err := f.svc.Drag(ctx, domain.DragEvent{SessionID: id, Type: domain.DragEventPointerDown, ID: "image", IsToolbarItem: true})
	require.NoError(t, err)
	assert.Equal(t, emailbuilder.DragStateIdle, res.Session.DragState)

	res, err = f.svc.Drag(ctx, domain.DragEvent{SessionID: id, Type: domain.DragEventPointerMove, X: 12})
	require.NoError(t, err)
	assert.Equal(t, emailbuilder.DragStateDraggingInsert, res.Session.DragState)

	res, err = f.svc.Drag(ctx, domain.DragEvent{SessionID: id, Type: domain.DragEventDrop, TargetID: emailbuilder.RootContainerID})
	require.NoError(t, err)
	require.True(t, res.Changed)
	assert.Equal(t, emailbuilder.DragStateIdle, res.Session.DragState)
	require.Len(t, res.Session.Document.Items, 1)
	assert.Equal(t, res.BlockID, res.Session.Document.Items[0].ID)
	assert.Equal(t, res.BlockID, res.Session.Document.SelectedBlockID)

	_, err = f.svc.Drag(ctx, domain.DragEvent{SessionID: id, Type: domain.DragEventPointerDown, ID: res.BlockID})
	require.NoError(t, err)
	_, err = f.svc.Drag(ctx, domain.DragEvent{SessionID: id, Type: domain.DragEventCancel})
	require.NoError(t, err)
	res, err = f.svc.Drag(ctx, domain.DragEvent{SessionID: id, Type: domain.DragEventDrop})
	require.NoError(t, err)
	assert.False(t, res.Changed)

	_, err = f.svc.Drag(ctx, domain.DragEvent{SessionID: "nope", Type: domain.DragEventCancel})
	assert.Error(t, err)
}

func TestBuilderService_Views(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := setupBuilderServiceTest(t, ctrl, 10)
	id := openEmpty(t, f.svc)

	assert.Len(t, f.svc.Catalog(ctx), 9)

	canvas, err := f.svc.RenderCanvas(ctx, id, emailbuilder.Labels{EmptyCanvas: "Nothing yet"})
	require.NoError(t, err)
	assert.Contains(t, canvas, "Nothing yet")

	panel, err := f.svc.Settings(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, emailbuilder.PanelKindGlobal, panel.Kind)

	text := apply(t, f.svc, domain.BuilderOperation{SessionID: id, Op: domain.BuilderOpAppend, EntryID: "text"})
	panel, err = f.svc.Settings(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, text.BlockID, panel.BlockID)

	out, err := f.svc.Generate(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, out, "<!DOCTYPE html>")

	_, err = f.svc.Generate(ctx, "nope")
	assert.Error(t, err)
}

func TestBuilderService_Preview(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := setupBuilderServiceTest(t, ctrl, 10)
	id := openEmpty(t, f.svc)

	text := apply(t, f.svc, domain.BuilderOperation{SessionID: id, Op: domain.BuilderOpAppend, EntryID: "text"})
	apply(t, f.svc, domain.BuilderOperation{SessionID: id, Op: domain.BuilderOpSetContent, BlockID: text.BlockID,
		Content: &emailbuilder.Content{HTML: emailbuilder.String("<p>Hi {{ contact.first_name }}</p>")}})

	preview, err := f.svc.Preview(ctx, id, map[string]interface{}{"contact": map[string]interface{}{"first_name": "Ada"}})
	require.NoError(t, err)
	assert.Empty(t, preview.LiquidError)
	assert.Contains(t, preview.HTML, "<p>Hi Ada</p>")
	assert.Contains(t, preview.Frame, `sandbox=""`)

	plain, err := f.svc.Preview(ctx, id, nil)
	require.NoError(t, err)
	assert.Contains(t, plain.HTML, "<p>Hi </p>")

	apply(t, f.svc, domain.BuilderOperation{SessionID: id, Op: domain.BuilderOpSetContent, BlockID: text.BlockID,
		Content: &emailbuilder.Content{HTML: emailbuilder.String("<p>{% if %}</p>")}})
	broken, err := f.svc.Preview(ctx, id, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, broken.LiquidError)
	assert.Contains(t, broken.HTML, "{% if %}")
}

func TestBuilderService_ExportImport(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := setupBuilderServiceTest(t, ctrl, 10)
	id := openEmpty(t, f.svc)

	subject := "Summer Sale"
	apply(t, f.svc, domain.BuilderOperation{SessionID: id, Op: domain.BuilderOpSetSubject, Subject: &subject})
	apply(t, f.svc, domain.BuilderOperation{SessionID: id, Op: domain.BuilderOpAppend, EntryID: "button"})

	htmlFile, err := f.svc.ExportHTML(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "summer-sale.html", htmlFile.Name)
	generated, _ := f.svc.Generate(ctx, id)
	assert.Equal(t, generated, string(htmlFile.Body))

	jsonFile, err := f.svc.ExportJSON(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "summer-sale.json", jsonFile.Name)

	other := openEmpty(t, f.svc)
	imported, err := f.svc.Import(ctx, other, jsonFile.Body)
	require.NoError(t, err)
	assert.Equal(t, 1, imported.Version)
	assert.Equal(t, "Summer Sale", imported.Document.Subject)
	again, _ := f.svc.Generate(ctx, other)
	assert.Equal(t, generated, again)

	_, err = f.svc.Import(ctx, other, []byte(`{"items":[`))
	var validationErr domain.ValidationError
	assert.True(t, errors.As(err, &validationErr))
	session, _ := f.svc.GetSession(ctx, other)
	assert.Equal(t, 1, session.Version)

	mjmlFile, err := f.svc.ExportMJML(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "summer-sale-mjml.html", mjmlFile.Name)
}

func TestBuilderService_Save(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := setupBuilderServiceTest(t, ctrl, 10)
	id := openEmpty(t, f.svc)
	apply(t, f.svc, domain.BuilderOperation{SessionID: id, Op: domain.BuilderOpAppend, EntryID: "header"})

	f.templates.EXPECT().SaveTemplate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, req domain.SaveTemplateRequest) (*domain.Template, error) {
			assert.Equal(t, "newsletter", req.Name)
			assert.Contains(t, req.HTMLBody, "<!DOCTYPE html>")
			doc, err := req.Document.Decode()
			require.NoError(t, err)
			assert.Len(t, doc.Items, 1)

			session, err := f.svc.GetSession(ctx, id)
			require.NoError(t, err)
			assert.True(t, session.Saving)

			_, err = f.svc.Save(ctx, id, "newsletter")
			assert.ErrorIs(t, err, domain.ErrSaveInProgress)
			return &domain.Template{ID: "tmpl-1", Name: req.Name}, nil
		})

	tmpl, err := f.svc.Save(ctx, id, "newsletter")
	require.NoError(t, err)
	assert.Equal(t, "tmpl-1", tmpl.ID)

	session, err := f.svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.False(t, session.Saving)

	f.templates.EXPECT().SaveTemplate(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
	_, err = f.svc.Save(ctx, id, "newsletter")
	assert.Error(t, err)
	session, _ = f.svc.GetSession(ctx, id)
	assert.False(t, session.Saving, "a failed save releases the guard")
}

func TestBuilderService_EmbedImage(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := setupBuilderServiceTest(t, ctrl, 10)
	id := openEmpty(t, f.svc)
	image := apply(t, f.svc, domain.BuilderOperation{SessionID: id, Op: domain.BuilderOpAppend, EntryID: "image"})

	t.Run("fetch failure leaves the document untouched", func(t *testing.T) {
		f.media.EXPECT().EmbedImage(gomock.Any(), "media/gone.png").Return(nil, &domain.ErrMediaNotFound{Ref: "media/gone.png"})

		_, err := f.svc.EmbedImage(ctx, id, image.BlockID, "media/gone.png")
		var notFound *domain.ErrMediaNotFound
		require.True(t, errors.As(err, &notFound))
		session, _ := f.svc.GetSession(ctx, id)
		assert.Equal(t, image.Session.Version, session.Version)
	})

	t.Run("success sets the image source", func(t *testing.T) {
		f.media.EXPECT().EmbedImage(gomock.Any(), "media/logo.png").Return(&domain.EmbeddedImage{
			DataURI:   "data:image/png;base64,iVBORw0KGgo=",
			MIMEType:  "image/png",
			SizeBytes: 8,
		}, nil)

		res, err := f.svc.EmbedImage(ctx, id, image.BlockID, "media/logo.png")
		require.NoError(t, err)
		require.True(t, res.Changed)
		assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", *res.Session.Document.Items[0].Content.Src)
	})
}
