package cloth

import "fmt"

type PlacementMode uint8

const (
	PlacementPlane PlacementMode = iota
	PlacementDraped
)

func (m PlacementMode) String() string {
	if m == PlacementDraped {
		return "draped"
	}
	return "plane"
}

func ParsePlacementMode(s string) (PlacementMode, error) {
	switch s {
	case "plane", "flat", "flat-plane":
		return PlacementPlane, nil
	case "draped", "drape":
		return PlacementDraped, nil
	}
	return 0, fmt.Errorf("placement %q: %w", s, ErrUnknownMode)
}

type Form uint8

const (
	FormSphere Form = iota
	FormCylinder
)

func (f Form) String() string {
	if f == FormCylinder {
		return "cylinder"
	}
	return "sphere"
}

func ParseForm(s string) (Form, error) {
	switch s {
	case "sphere":
		return FormSphere, nil
	case "cylinder":
		return FormCylinder, nil
	}
	return 0, fmt.Errorf("form %q: %w", s, ErrUnknownMode)
}

type Pinning uint8

const (
	PinTop Pinning = iota
	PinCorners
)

func (p Pinning) String() string {
	if p == PinCorners {
		return "corners"
	}
	return "top"
}

func ParsePinning(s string) (Pinning, error) {
	switch s {
	case "top", "top-edge":
		return PinTop, nil
	case "corners", "four-corners":
		return PinCorners, nil
	}
	return 0, fmt.Errorf("pinning %q: %w", s, ErrUnknownMode)
}

type InteractionMode uint8

const (
	InteractRotate InteractionMode = iota
	InteractDrag
)

func (m InteractionMode) String() string {
	if m == InteractDrag {
		return "drag"
	}
	return "rotate"
}

func ParseInteractionMode(s string) (InteractionMode, error) {
	switch s {
	case "rotate":
		return InteractRotate, nil
	case "drag":
		return InteractDrag, nil
	}
	return 0, fmt.Errorf("interaction %q: %w", s, ErrUnknownMode)
}

// Placement is either PlanePlacement or DrapedPlacement. Pinning only
// exists on the plane variant and a primitive only on the draped one.
type Placement interface {
	Mode() PlacementMode
	isPlacement()
}

type PlanePlacement struct {
	Pinning Pinning
}

func (PlanePlacement) Mode() PlacementMode { return PlacementPlane }
func (PlanePlacement) isPlacement()        {}

type DrapedPlacement struct {
	Primitive Primitive
}

func (DrapedPlacement) Mode() PlacementMode { return PlacementDraped }
func (DrapedPlacement) isPlacement()        {}
