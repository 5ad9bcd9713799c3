package emailbuilder

import "math"

// DragState is the state of the drag-and-drop controller.
type DragState string

const (
	DragStateIdle            DragState = "idle"
	DragStateDraggingReorder DragState = "dragging_reorder"
	DragStateDraggingInsert  DragState = "dragging_insert"
)

// DefaultActivationDistance is how far, in pixels, the pointer must travel
// before a press turns into a drag.
const DefaultActivationDistance = 5.0

// DragPayload describes what is being dragged: a catalog entry from the
// toolbar or an existing block of the tree.
type DragPayload struct {
	ID            string `json:"id"`
	IsToolbarItem bool   `json:"isToolbarItem"`
}

// DropResult reports the outcome of a drop.
type DropResult struct {
	Changed bool
	// BlockID is the id of the inserted or moved block.
	BlockID string
	// Inserted is true when a catalog block was added to the tree.
	Inserted bool
}

// DragController turns pointer gestures into at most one engine call per
// drop. It holds no document; Drop receives the current one.
type DragController struct {
	catalog            *Catalog
	ids                IDGenerator
	activationDistance float64

	state   DragState
	pending *DragPayload
	active  *DragPayload
	originX float64
	originY float64
	overID  string
}

// DragOption configures a DragController.
type DragOption func(*DragController)

// WithActivationDistance overrides the drag activation distance.
func WithActivationDistance(distance float64) DragOption {
	return func(c *DragController) {
		if distance >= 0 {
			c.activationDistance = distance
		}
	}
}

// NewDragController creates an idle controller.
func NewDragController(catalog *Catalog, ids IDGenerator, opts ...DragOption) *DragController {
	c := &DragController{
		catalog:            catalog,
		ids:                ids,
		activationDistance: DefaultActivationDistance,
		state:              DragStateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *DragController) State() DragState {
	return c.state
}

// Active returns the payload being dragged, if any.
func (c *DragController) Active() (DragPayload, bool) {
	if c.active == nil {
		return DragPayload{}, false
	}
	return *c.active, true
}

// OverID returns the current drop target id.
func (c *DragController) OverID() string {
	return c.overID
}

// PointerDown arms a drag for payload at the given pointer position.
func (c *DragController) PointerDown(payload DragPayload, x, y float64) {
	if payload.ID == "" {
		return
	}
	c.reset()
	c.pending = &payload
	c.originX, c.originY = x, y
}

// PointerMove activates the armed drag once the pointer has travelled past
// the activation distance. It reports whether a drag is in progress.
func (c *DragController) PointerMove(x, y float64) bool {
	if c.state != DragStateIdle {
		return true
	}
	if c.pending == nil {
		return false
	}
	if math.Hypot(x-c.originX, y-c.originY) <= c.activationDistance {
		return false
	}
	c.active = c.pending
	c.pending = nil
	if c.active.IsToolbarItem {
		c.state = DragStateDraggingInsert
	} else {
		c.state = DragStateDraggingReorder
	}
	return true
}

// Over records the target under the pointer. An empty id means no target.
func (c *DragController) Over(targetID string) {
	if c.state == DragStateIdle {
		return
	}
	c.overID = targetID
}

// Cancel abandons the drag without touching any document.
func (c *DragController) Cancel() {
	c.reset()
}

// Drop resolves the current target against doc and applies the drop. The
// controller always returns to Idle.
func (c *DragController) Drop(doc *Document) (*Document, DropResult) {
	defer c.reset()
	if c.state == DragStateIdle || c.active == nil || doc == nil {
		return doc, DropResult{}
	}
	containerID, index, ok := resolveDropTarget(doc, c.overID)
	if !ok {
		return doc, DropResult{}
	}

	if c.state == DragStateDraggingInsert {
		if c.catalog == nil || c.ids == nil {
			return doc, DropResult{}
		}
		block, ok := c.catalog.Instantiate(c.active.ID, c.ids)
		if !ok {
			return doc, DropResult{}
		}
		next := Insert(doc, containerID, index, block)
		if next == doc {
			return doc, DropResult{}
		}
		return next, DropResult{Changed: true, BlockID: block.ID, Inserted: true}
	}

	if c.active.ID == c.overID {
		return doc, DropResult{}
	}
	next := Move(doc, c.active.ID, containerID, index)
	if next == doc {
		return doc, DropResult{}
	}
	return next, DropResult{Changed: true, BlockID: c.active.ID}
}

// resolveDropTarget maps a hovered id to a container and index: a block
// target means its own container at its own index, a column target appends
// to the column and the root sentinel appends to the root sequence.
func resolveDropTarget(doc *Document, overID string) (string, int, bool) {
	switch {
	case overID == "":
		return "", 0, false
	case overID == RootContainerID:
		return RootContainerID, len(doc.Items), true
	}
	if loc, ok := FindContainer(doc, overID); ok {
		return loc.ContainerID, loc.Index, true
	}
	if col, _, ok := FindColumn(doc, overID); ok {
		return col.ID, len(col.Items), true
	}
	return "", 0, false
}

func (c *DragController) reset() {
	c.state = DragStateIdle
	c.pending = nil
	c.active = nil
	c.overID = ""
}
