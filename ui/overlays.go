package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayColliders   OverlayID = "colliders"
	OverlayNectar      OverlayID = "nectar"
	OverlayNearestLine OverlayID = "nearest_line"
	OverlayBeakProbe   OverlayID = "beak_probe"
	OverlayUpAxes      OverlayID = "up_axes"
	OverlayBoundary    OverlayID = "boundary"
	OverlayGrid        OverlayID = "grid"
	OverlayFollow      OverlayID = "follow"
	OverlayOrbit       OverlayID = "orbit"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID   // Unique identifier
	Name        string      // Display name
	Description string      // What this overlay shows
	Key         int32       // Keyboard key to toggle (0 = no key)
	KeyLabel    string      // Key label for display (e.g., "N", "L")
	Category    string      // Grouping (e.g., "scene", "agent", "debug")
	Exclusive   []OverlayID // Other overlays to disable when this is enabled
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
	order       []OverlayID // Maintains insertion order for display
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds standard overlays. Nectar, nearest line, boundary
// and grid start enabled.
func (r *OverlayRegistry) registerDefaults() {
	// Scene overlays
	r.Register(OverlayDescriptor{
		ID:          OverlayNectar,
		Name:        "Nectar",
		Description: "Show nectar regions of flowers that still hold nectar",
		Key:         rl.KeyN,
		KeyLabel:    "N",
		Category:    "scene",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayBoundary,
		Name:        "Boundary",
		Description: "Show the arena wall and ceiling",
		Key:         rl.KeyB,
		KeyLabel:    "B",
		Category:    "scene",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayGrid,
		Name:        "Grid",
		Description: "Show a one meter ground grid",
		Key:         rl.KeyG,
		KeyLabel:    "G",
		Category:    "scene",
	})

	// Agent overlays
	r.Register(OverlayDescriptor{
		ID:          OverlayNearestLine,
		Name:        "Nearest Flower",
		Description: "Line from the beak tip to the tracked flower",
		Key:         rl.KeyL,
		KeyLabel:    "L",
		Category:    "agent",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayBeakProbe,
		Name:        "Beak Probe",
		Description: "Show the beak tip sphere that touches nectar",
		Key:         rl.KeyK,
		KeyLabel:    "K",
		Category:    "agent",
	})

	// Debug overlays
	r.Register(OverlayDescriptor{
		ID:          OverlayColliders,
		Name:        "Colliders",
		Description: "Show petal and nectar collider spheres",
		Key:         rl.KeyC,
		KeyLabel:    "C",
		Category:    "debug",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayUpAxes,
		Name:        "Up Axes",
		Description: "Show the opening direction of every flower",
		Key:         rl.KeyU,
		KeyLabel:    "U",
		Category:    "debug",
	})

	// Camera modes
	r.Register(OverlayDescriptor{
		ID:          OverlayFollow,
		Name:        "Follow Agent",
		Description: "Keep the camera centered on the agent",
		Key:         rl.KeyT,
		KeyLabel:    "T",
		Category:    "camera",
		Exclusive:   []OverlayID{OverlayOrbit},
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayOrbit,
		Name:        "Auto Orbit",
		Description: "Slowly circle the arena center",
		Key:         rl.KeyO,
		KeyLabel:    "O",
		Category:    "camera",
		Exclusive:   []OverlayID{OverlayFollow},
	})

	for _, id := range []OverlayID{OverlayNectar, OverlayBoundary, OverlayGrid, OverlayNearestLine} {
		r.enabled[id] = true
	}
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.order = append(r.order, desc.ID)
	r.enabled[desc.ID] = false
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	desc, ok := r.byID[id]
	if !ok {
		return false
	}

	newState := !r.enabled[id]
	r.enabled[id] = newState

	// If enabling, disable exclusive overlays
	if newState {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}

	return newState
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}

	r.enabled[id] = enabled

	// If enabling, disable exclusive overlays
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// Get returns an overlay descriptor by ID.
func (r *OverlayRegistry) Get(id OverlayID) (OverlayDescriptor, bool) {
	desc, ok := r.byID[id]
	return desc, ok
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			newState := r.Toggle(desc.ID)
			return desc.ID, newState, true
		}
	}
	return "", false, false
}

// EnabledOverlays returns a list of currently enabled overlay IDs.
func (r *OverlayRegistry) EnabledOverlays() []OverlayID {
	var result []OverlayID
	for _, id := range r.order {
		if r.enabled[id] {
			result = append(result, id)
		}
	}
	return result
}
