package emailbuilder

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/asaskevich/govalidator"
)

// FieldTarget says which part of the document a settings field writes to.
type FieldTarget string

const (
	FieldTargetContent FieldTarget = "content"
	FieldTargetStyle   FieldTarget = "style"
	FieldTargetGlobal  FieldTarget = "global"
)

// Field input types.
const (
	FieldTypeText      = "text"
	FieldTypeRichText  = "richtext"
	FieldTypeNumber    = "number"
	FieldTypeColor     = "color"
	FieldTypeSelect    = "select"
	FieldTypeURL       = "url"
	FieldTypeDimension = "dimension"
)

// FormFieldOption is a choice of a select field.
type FormFieldOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FormField describes one editor input of a settings panel.
type FormField struct {
	Key      string            `json:"key"`
	Label    string            `json:"label"`
	Type     string            `json:"type"`
	Target   FieldTarget       `json:"target"`
	Options  []FormFieldOption `json:"options,omitempty"`
	Required bool              `json:"required,omitempty"`
	Value    interface{}       `json:"value,omitempty"`
}

// Panel is the settings panel for the current selection.
type Panel struct {
	Kind      string      `json:"kind"`
	BlockID   string      `json:"blockId,omitempty"`
	BlockType BlockType   `json:"blockType,omitempty"`
	Fields    []FormField `json:"fields"`
}

// PanelKindGlobal is the kind of the panel shown when nothing is selected.
const PanelKindGlobal = "global"

// SettingError reports a rejected editor input. The document is untouched.
type SettingError struct {
	Key     string
	Message string
}

func (e *SettingError) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Key, e.Message)
}

var (
	alignOptions = []FormFieldOption{
		{Value: "left", Label: "Left"},
		{Value: "center", Label: "Center"},
		{Value: "right", Label: "Right"},
	}
	verticalAlignOptions = []FormFieldOption{
		{Value: "top", Label: "Top"},
		{Value: "middle", Label: "Middle"},
		{Value: "bottom", Label: "Bottom"},
	}
	borderStyleOptions = []FormFieldOption{
		{Value: "solid", Label: "Solid"},
		{Value: "dashed", Label: "Dashed"},
		{Value: "dotted", Label: "Dotted"},
	}
	buttonWidthOptions = []FormFieldOption{
		{Value: ButtonWidthAuto, Label: "Auto"},
		{Value: ButtonWidthFull, Label: "Full width"},
	}
	fontWeightOptions = []FormFieldOption{
		{Value: "400", Label: "Regular"},
		{Value: "600", Label: "Semi-bold"},
		{Value: "700", Label: "Bold"},
	}
)

func styleField(key, label, fieldType string, options ...FormFieldOption) FormField {
	return FormField{Key: key, Label: label, Type: fieldType, Target: FieldTargetStyle, Options: options}
}

func contentField(key, label, fieldType string, required bool, options ...FormFieldOption) FormField {
	return FormField{Key: key, Label: label, Type: fieldType, Target: FieldTargetContent, Required: required, Options: options}
}

var spacingFields = []FormField{
	styleField("paddingY", "Vertical padding", FieldTypeNumber),
	styleField("paddingX", "Horizontal padding", FieldTypeNumber),
}

var typographyFields = []FormField{
	styleField("color", "Text color", FieldTypeColor),
	styleField("fontSize", "Font size", FieldTypeNumber),
	styleField("fontWeight", "Font weight", FieldTypeSelect, fontWeightOptions...),
	styleField("lineHeight", "Line height", FieldTypeNumber),
	styleField("textAlign", "Alignment", FieldTypeSelect, alignOptions...),
	styleField("backgroundColor", "Background color", FieldTypeColor),
}

func fields(groups ...[]FormField) []FormField {
	var out []FormField
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var richTextFields = fields([]FormField{contentField("html", "Content", FieldTypeRichText, false)}, typographyFields, spacingFields)

var fieldsByType = map[BlockType][]FormField{
	BlockTypeHeader: richTextFields,
	BlockTypeText:   richTextFields,
	BlockTypeFooter: richTextFields,
	BlockTypeImage: fields([]FormField{
		contentField("src", "Image URL", FieldTypeURL, false),
		contentField("alt", "Alternative text", FieldTypeText, false),
		contentField("href", "Link", FieldTypeURL, false),
		contentField("width", "Width", FieldTypeDimension, false),
		contentField("height", "Height", FieldTypeDimension, false),
		styleField("textAlign", "Alignment", FieldTypeSelect, alignOptions...),
		styleField("verticalAlign", "Vertical alignment", FieldTypeSelect, verticalAlignOptions...),
		styleField("borderRadius", "Corner radius", FieldTypeNumber),
		styleField("backgroundColor", "Background color", FieldTypeColor),
	}, spacingFields),
	BlockTypeButton: fields([]FormField{
		contentField("text", "Label", FieldTypeText, true),
		contentField("href", "Link", FieldTypeURL, true),
		contentField("width", "Width", FieldTypeSelect, false, buttonWidthOptions...),
		styleField("backgroundColor", "Button color", FieldTypeColor),
		styleField("color", "Text color", FieldTypeColor),
		styleField("fontSize", "Font size", FieldTypeNumber),
		styleField("fontWeight", "Font weight", FieldTypeSelect, fontWeightOptions...),
		styleField("borderRadius", "Corner radius", FieldTypeNumber),
		styleField("textAlign", "Alignment", FieldTypeSelect, alignOptions...),
	}, spacingFields),
	BlockTypeSpacer: {
		contentField("height", "Height", FieldTypeNumber, true),
		styleField("backgroundColor", "Background color", FieldTypeColor),
	},
	BlockTypeDivider: fields([]FormField{
		styleField("borderColor", "Line color", FieldTypeColor),
		styleField("borderWidth", "Line thickness", FieldTypeNumber),
		styleField("borderStyle", "Line style", FieldTypeSelect, borderStyleOptions...),
		styleField("backgroundColor", "Background color", FieldTypeColor),
	}, spacingFields),
	BlockTypeColumns: fields([]FormField{
		styleField("backgroundColor", "Background color", FieldTypeColor),
		styleField("verticalAlign", "Vertical alignment", FieldTypeSelect, verticalAlignOptions...),
		styleField("borderRadius", "Corner radius", FieldTypeNumber),
	}, spacingFields),
}

func init() {
	fieldsByType[BlockTypeProduct] = fieldsByType[BlockTypeColumns]
}

var globalFields = []FormField{
	{Key: "canvasColor", Label: "Canvas color", Type: FieldTypeColor, Target: FieldTargetGlobal},
	{Key: "backdropColor", Label: "Backdrop color", Type: FieldTypeColor, Target: FieldTargetGlobal},
	{Key: "canvasBorderColor", Label: "Border color", Type: FieldTypeColor, Target: FieldTargetGlobal},
	{Key: "canvasBorderWidth", Label: "Border width", Type: FieldTypeNumber, Target: FieldTargetGlobal},
	{Key: "canvasRadius", Label: "Corner radius", Type: FieldTypeNumber, Target: FieldTargetGlobal},
	{Key: "fontFamily", Label: "Font family", Type: FieldTypeText, Target: FieldTargetGlobal, Required: true},
	{Key: "textColor", Label: "Text color", Type: FieldTypeColor, Target: FieldTargetGlobal},
	{Key: "width", Label: "Canvas width", Type: FieldTypeNumber, Target: FieldTargetGlobal, Required: true},
}

// SettingsPanel returns the panel for the current selection: the global
// settings when nothing is selected, otherwise the selected block's panel.
func SettingsPanel(doc *Document) Panel {
	if doc == nil {
		doc = NewDocument()
	}
	loc, ok := FindContainer(doc, doc.SelectedBlockID)
	if !ok {
		panel := Panel{Kind: PanelKindGlobal, Fields: make([]FormField, len(globalFields))}
		for i, f := range globalFields {
			f.Value = globalValue(doc.GlobalStyles, f.Key)
			panel.Fields[i] = f
		}
		return panel
	}
	b := loc.Block
	specs := fieldsByType[b.Type]
	panel := Panel{Kind: string(b.Type), BlockID: b.ID, BlockType: b.Type, Fields: make([]FormField, 0, len(specs))}
	for _, f := range specs {
		var v *Value
		if f.Target == FieldTargetContent {
			v = b.Content.Get(f.Key)
		} else {
			v = b.Style.Get(f.Key)
		}
		switch {
		case v.IsNumber():
			f.Value, _ = v.Number()
		case v != nil:
			f.Value = v.String()
		}
		panel.Fields = append(panel.Fields, f)
	}
	return panel
}

func globalValue(g GlobalStyles, key string) interface{} {
	switch key {
	case "canvasColor":
		return g.CanvasColor
	case "backdropColor":
		return g.BackdropColor
	case "canvasBorderColor":
		return g.CanvasBorderColor
	case "canvasBorderWidth":
		return g.CanvasBorderWidth
	case "canvasRadius":
		return g.CanvasRadius
	case "fontFamily":
		return g.FontFamily
	case "textColor":
		return g.TextColor
	case "width":
		return g.Width
	}
	return nil
}

func findField(specs []FormField, key string) (FormField, bool) {
	for _, f := range specs {
		if f.Key == key {
			return f, true
		}
	}
	return FormField{}, false
}

// ApplySetting validates a raw editor input and writes it through the
// engine. Pass an empty blockID to edit the global styles. Invalid input
// returns a *SettingError and the unchanged document.
func ApplySetting(doc *Document, blockID, key, raw string) (*Document, error) {
	if doc == nil {
		return doc, &SettingError{Key: key, Message: "no document"}
	}
	if blockID == "" {
		f, ok := findField(globalFields, key)
		if !ok {
			return doc, &SettingError{Key: key, Message: "unknown setting"}
		}
		v, err := parseFieldValue(f, raw)
		if err != nil {
			return doc, err
		}
		return SetGlobalStyles(doc, globalPatch(key, v)), nil
	}

	loc, ok := FindContainer(doc, blockID)
	if !ok {
		return doc, nil
	}
	f, ok := findField(fieldsByType[loc.Block.Type], key)
	if !ok {
		return doc, &SettingError{Key: key, Message: "unknown setting"}
	}
	v, err := parseFieldValue(f, raw)
	if err != nil {
		return doc, err
	}
	if f.Target == FieldTargetContent {
		var patch Content
		patch.Set(key, v)
		return SetContent(doc, blockID, patch), nil
	}
	var patch Style
	patch.Set(key, v)
	return SetStyle(doc, blockID, patch), nil
}

func globalPatch(key string, v *Value) GlobalStylesPatch {
	var p GlobalStylesPatch
	s := v.String()
	n, _ := v.Number()
	switch key {
	case "canvasColor":
		p.CanvasColor = &s
	case "backdropColor":
		p.BackdropColor = &s
	case "canvasBorderColor":
		p.CanvasBorderColor = &s
	case "canvasBorderWidth":
		p.CanvasBorderWidth = &n
	case "canvasRadius":
		p.CanvasRadius = &n
	case "fontFamily":
		p.FontFamily = &s
	case "textColor":
		p.TextColor = &s
	case "width":
		p.Width = &n
	}
	return p
}

func parseFieldValue(f FormField, raw string) (*Value, error) {
	value := strings.TrimSpace(raw)
	if f.Required && value == "" {
		return nil, &SettingError{Key: f.Key, Message: "value is required"}
	}

	switch f.Type {
	case FieldTypeNumber:
		n, err := parseNumber(value)
		if err != nil {
			return nil, &SettingError{Key: f.Key, Message: err.Error()}
		}
		return Num(n), nil
	case FieldTypeDimension:
		if value == "" || strings.EqualFold(value, "auto") {
			return Str("auto"), nil
		}
		n, err := parseNumber(value)
		if err != nil {
			return nil, &SettingError{Key: f.Key, Message: "must be a number or auto"}
		}
		return Num(n), nil
	case FieldTypeColor:
		color, ok := normalizeColor(value)
		if !ok {
			return nil, &SettingError{Key: f.Key, Message: "must be a hex or rgb color"}
		}
		return Str(color), nil
	case FieldTypeSelect:
		for _, opt := range f.Options {
			if opt.Value == value {
				if n, err := strconv.ParseFloat(value, 64); err == nil && f.Target == FieldTargetStyle {
					return Num(n), nil
				}
				return Str(value), nil
			}
		}
		return nil, &SettingError{Key: f.Key, Message: "unsupported option"}
	case FieldTypeURL:
		if value != "" && !validURL(value) {
			return nil, &SettingError{Key: f.Key, Message: "must be a valid URL"}
		}
		return Str(value), nil
	case FieldTypeRichText:
		return Str(SanitizeRichText(raw)), nil
	}
	return Str(raw), nil
}

func parseNumber(value string) (float64, error) {
	value = strings.TrimSuffix(value, "px")
	if !govalidator.IsFloat(value) {
		return 0, fmt.Errorf("must be a number")
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("must be a number")
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return n, nil
}

func normalizeColor(value string) (string, bool) {
	switch {
	case strings.EqualFold(value, "transparent"):
		return "transparent", true
	case govalidator.IsRGBcolor(value):
		return value, true
	case govalidator.IsHexcolor(value):
		if !strings.HasPrefix(value, "#") {
			value = "#" + value
		}
		return strings.ToLower(value), true
	}
	return "", false
}

// validURL accepts absolute http(s) URLs, mailto/tel links, in-page anchors
// and Liquid placeholders.
func validURL(value string) bool {
	lower := strings.ToLower(value)
	switch {
	case strings.HasPrefix(lower, "mailto:"), strings.HasPrefix(lower, "tel:"), strings.HasPrefix(value, "#"):
		return true
	case strings.Contains(value, "{{"):
		return true
	case strings.HasPrefix(lower, "data:image/"):
		return true
	}
	return govalidator.IsURL(value) && safeURL(value, false) != ""
}
