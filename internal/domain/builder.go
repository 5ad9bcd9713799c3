package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/tidwall/gjson"

	"github.com/Notifuse/emailbuilder/pkg/emailbuilder"
)

//go:generate mockgen -destination mocks/mock_builder_service.go -package mocks github.com/Notifuse/emailbuilder/internal/domain BuilderService

// AppendIndex is the index used when an operation carries none: the block
// goes to the end of its container.
const AppendIndex = math.MaxInt32

type BuilderOp string

const (
	BuilderOpInsert          BuilderOp = "insert"
	BuilderOpAppend          BuilderOp = "append"
	BuilderOpRemove          BuilderOp = "remove"
	BuilderOpMove            BuilderOp = "move"
	BuilderOpDuplicate       BuilderOp = "duplicate"
	BuilderOpSelect          BuilderOp = "select"
	BuilderOpSetContent      BuilderOp = "setContent"
	BuilderOpSetStyle        BuilderOp = "setStyle"
	BuilderOpSetColumns      BuilderOp = "setColumns"
	BuilderOpSetGlobalStyles BuilderOp = "setGlobalStyles"
	BuilderOpSetSubject      BuilderOp = "setSubject"
	BuilderOpCommitRichText  BuilderOp = "commitRichText"
	BuilderOpApplySetting    BuilderOp = "applySetting"
)

// BuilderOperation is one editor gesture sent to builder.apply.
type BuilderOperation struct {
	SessionID    string                          `json:"session_id"`
	Op           BuilderOp                       `json:"op"`
	BlockID      string                          `json:"block_id,omitempty"`
	EntryID      string                          `json:"entry_id,omitempty"`
	ContainerID  string                          `json:"container_id,omitempty"`
	Index        int                             `json:"index,omitempty"`
	Content      *emailbuilder.Content           `json:"content,omitempty"`
	Style        *emailbuilder.Style             `json:"style,omitempty"`
	Layout       []float64                       `json:"layout,omitempty"`
	Preset       string                          `json:"preset,omitempty"`
	GlobalStyles *emailbuilder.GlobalStylesPatch `json:"global_styles,omitempty"`
	Subject      *string                         `json:"subject,omitempty"`
	HTML         *string                         `json:"html,omitempty"`
	Key          string                          `json:"key,omitempty"`
	Value        string                          `json:"value,omitempty"`
}

// ParseBuilderOperation decodes and validates a builder.apply payload. A
// missing index means "append".
func ParseBuilderOperation(data []byte) (*BuilderOperation, error) {
	if !gjson.ValidBytes(data) {
		return nil, NewValidationError("invalid builder operation: malformed JSON")
	}
	op := BuilderOp(gjson.GetBytes(data, "op").String())
	if op == "" {
		return nil, NewValidationError("invalid builder operation: op is required")
	}

	var operation BuilderOperation
	if err := json.Unmarshal(data, &operation); err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid builder operation: %v", err))
	}
	if !gjson.GetBytes(data, "index").Exists() {
		operation.Index = AppendIndex
	}
	if err := operation.Validate(); err != nil {
		return nil, err
	}
	return &operation, nil
}

func (o *BuilderOperation) Validate() error {
	invalid := func(msg string) error {
		return NewValidationError(fmt.Sprintf("invalid %s operation: %s", o.Op, msg))
	}
	if o.SessionID == "" {
		return invalid("session_id is required")
	}
	if o.Index < 0 {
		return invalid("index must not be negative")
	}

	switch o.Op {
	case BuilderOpInsert:
		if o.EntryID == "" {
			return invalid("entry_id is required")
		}
		if o.ContainerID == "" {
			return invalid("container_id is required")
		}
	case BuilderOpAppend:
		if o.EntryID == "" {
			return invalid("entry_id is required")
		}
	case BuilderOpMove:
		if o.BlockID == "" {
			return invalid("block_id is required")
		}
		if o.ContainerID == "" {
			return invalid("container_id is required")
		}
	case BuilderOpRemove, BuilderOpDuplicate:
		if o.BlockID == "" {
			return invalid("block_id is required")
		}
	case BuilderOpSelect:
		// an empty block_id clears the selection
	case BuilderOpSetContent:
		if o.BlockID == "" || o.Content == nil {
			return invalid("block_id and content are required")
		}
	case BuilderOpSetStyle:
		if o.BlockID == "" || o.Style == nil {
			return invalid("block_id and style are required")
		}
	case BuilderOpSetColumns:
		if o.BlockID == "" {
			return invalid("block_id is required")
		}
		if len(o.Layout) == 0 && o.Preset == "" {
			return invalid("layout or preset is required")
		}
		for _, flex := range o.Layout {
			if !(flex > 0) || math.IsInf(flex, 0) {
				return invalid("layout weights must be positive")
			}
		}
	case BuilderOpSetGlobalStyles:
		if o.GlobalStyles == nil {
			return invalid("global_styles is required")
		}
	case BuilderOpSetSubject:
		if o.Subject == nil {
			return invalid("subject is required")
		}
	case BuilderOpCommitRichText:
		if o.BlockID == "" || o.HTML == nil {
			return invalid("block_id and html are required")
		}
	case BuilderOpApplySetting:
		if o.Key == "" {
			return invalid("key is required")
		}
	default:
		return NewValidationError(fmt.Sprintf("invalid builder operation: unknown op %q", o.Op))
	}
	return nil
}

type DragEventType string

const (
	DragEventPointerDown DragEventType = "pointerDown"
	DragEventPointerMove DragEventType = "pointerMove"
	DragEventOver        DragEventType = "over"
	DragEventDrop        DragEventType = "drop"
	DragEventCancel      DragEventType = "cancel"
)

// DragEvent is one pointer event of a drag gesture sent to builder.drag.
type DragEvent struct {
	SessionID     string        `json:"session_id"`
	Type          DragEventType `json:"type"`
	ID            string        `json:"id,omitempty"`
	IsToolbarItem bool          `json:"is_toolbar_item,omitempty"`
	X             float64       `json:"x,omitempty"`
	Y             float64       `json:"y,omitempty"`
	TargetID      string        `json:"target_id,omitempty"`
}

// ParseDragEvent decodes a builder.drag payload.
func ParseDragEvent(data []byte) (*DragEvent, error) {
	if !gjson.ValidBytes(data) {
		return nil, NewValidationError("invalid drag event: malformed JSON")
	}
	result := gjson.ParseBytes(data)
	ev := &DragEvent{
		SessionID:     result.Get("session_id").String(),
		Type:          DragEventType(result.Get("type").String()),
		ID:            result.Get("id").String(),
		IsToolbarItem: result.Get("is_toolbar_item").Bool(),
		X:             result.Get("x").Float(),
		Y:             result.Get("y").Float(),
		TargetID:      result.Get("target_id").String(),
	}
	if ev.SessionID == "" {
		return nil, NewValidationError("invalid drag event: session_id is required")
	}
	switch ev.Type {
	case DragEventPointerDown:
		if ev.ID == "" {
			return nil, NewValidationError("invalid drag event: id is required for pointerDown")
		}
	case DragEventPointerMove, DragEventOver, DragEventDrop, DragEventCancel:
	default:
		return nil, NewValidationError(fmt.Sprintf("invalid drag event: unknown type %q", ev.Type))
	}
	return ev, nil
}

// OpenBuilderRequest starts an editor session, either empty, from a saved
// template or from an exported document.
type OpenBuilderRequest struct {
	TemplateName string           `json:"template_name,omitempty"`
	Document     TemplateDocument `json:"document,omitempty"`
	Subject      string           `json:"subject,omitempty"`
}

func (r *OpenBuilderRequest) Validate() error {
	if r.TemplateName != "" && len(r.Document) > 0 {
		return NewValidationError("invalid open builder request: template_name and document are mutually exclusive")
	}
	if r.TemplateName != "" {
		if err := validateTemplateName(r.TemplateName); err != nil {
			return NewValidationError(fmt.Sprintf("invalid open builder request: %v", err))
		}
	}
	return nil
}

// BuilderSession is the client view of an editor session.
type BuilderSession struct {
	ID        string                 `json:"id"`
	Version   int                    `json:"version"`
	Saving    bool                   `json:"saving"`
	DragState emailbuilder.DragState `json:"drag_state"`
	Document  *emailbuilder.Document `json:"document"`
}

// ApplyResult reports the outcome of an operation. Structural no-ops are
// not errors; Changed is false.
type ApplyResult struct {
	Changed bool            `json:"changed"`
	BlockID string          `json:"block_id,omitempty"`
	Session *BuilderSession `json:"session"`
}

type PreviewResult struct {
	// Frame is the sandboxed iframe wrapping the generated email
	Frame string `json:"frame"`
	HTML  string `json:"html"`
	// LiquidError is set when the test data could not be applied; HTML is
	// then the unpersonalised email.
	LiquidError string `json:"liquid_error,omitempty"`
}

// BuilderService owns the editor sessions
type BuilderService interface {
	OpenSession(ctx context.Context, req OpenBuilderRequest) (*BuilderSession, error)
	GetSession(ctx context.Context, sessionID string) (*BuilderSession, error)
	CloseSession(ctx context.Context, sessionID string) error

	Catalog(ctx context.Context) []emailbuilder.CatalogEntry
	Apply(ctx context.Context, op BuilderOperation) (*ApplyResult, error)
	Drag(ctx context.Context, ev DragEvent) (*ApplyResult, error)

	RenderCanvas(ctx context.Context, sessionID string, labels emailbuilder.Labels) (string, error)
	Settings(ctx context.Context, sessionID string) (*emailbuilder.Panel, error)

	Generate(ctx context.Context, sessionID string) (string, error)
	Preview(ctx context.Context, sessionID string, testData map[string]interface{}) (*PreviewResult, error)
	ExportHTML(ctx context.Context, sessionID string) (*emailbuilder.ExportFile, error)
	ExportJSON(ctx context.Context, sessionID string) (*emailbuilder.ExportFile, error)
	ExportMJML(ctx context.Context, sessionID string) (*emailbuilder.ExportFile, error)
	Import(ctx context.Context, sessionID string, data []byte) (*BuilderSession, error)

	// Save persists the session under name; ErrSaveInProgress while another
	// save of the same session runs
	Save(ctx context.Context, sessionID, name string) (*Template, error)

	// EmbedImage fetches a media asset and stores it as the image source of
	// blockID. The document is only changed when the fetch succeeds.
	EmbedImage(ctx context.Context, sessionID, blockID, downloadRef string) (*ApplyResult, error)
}
