package layout

import (
	"fmt"

	"github.com/cascadewm/cascade/internal/geometry"
	"github.com/cascadewm/cascade/internal/platform"
	"github.com/cascadewm/cascade/internal/tree"
)

// Strategy names accepted by New and the config layer.
const (
	NameDwindle     = "dwindle"
	NameMasterStack = "master_stack"
)

// Strategy decides where windows go in a workspace's spatial tree. Insert
// and Remove mutate incrementally where the strategy allows it; Rebuild
// constructs a fresh tree from an ordered window list and is the uniform
// entry point used when a workspace switches strategies.
type Strategy interface {
	Name() string
	Insert(root *tree.Node, id platform.WindowID, area geometry.Rect) *tree.Node
	Remove(root *tree.Node, id platform.WindowID) *tree.Node
	Rebuild(ids []platform.WindowID, area geometry.Rect) *tree.Node
}

// Params carries the tunables for both strategies; the zero value is
// filled with defaults by New.
type Params struct {
	Ratio        float64
	SmartSplit   bool
	MasterFactor float64
	MasterCount  int
	StackAxis    geometry.Axis
}

// New returns a strategy by name.
func New(name string, p Params) (Strategy, error) {
	switch name {
	case NameDwindle:
		ratio := p.Ratio
		if ratio == 0 {
			ratio = 0.5
		}
		return &Dwindle{Ratio: geometry.ClampRatio(ratio), SmartSplit: p.SmartSplit}, nil
	case NameMasterStack:
		factor := p.MasterFactor
		if factor == 0 {
			factor = 0.55
		}
		count := p.MasterCount
		if count < 1 {
			count = 1
		}
		return &MasterStack{
			MasterFactor: geometry.ClampRatio(factor),
			MasterCount:  count,
			StackAxis:    p.StackAxis,
		}, nil
	default:
		return nil, fmt.Errorf("unknown strategy: %q", name)
	}
}
