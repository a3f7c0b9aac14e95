package node

import "github.com/Carmen-Shannon/vrscale/common"

// NodeBuilderOption is a functional option for configuring a Node during construction.
type NodeBuilderOption func(*node)

// WithName sets the node's name.
//
// Parameters:
//   - name: the name used in logs and lookups
//
// Returns:
//   - NodeBuilderOption: functional option to set the name
func WithName(name string) NodeBuilderOption {
	return func(n *node) {
		n.name = name
	}
}

// WithPosition sets the initial local position.
//
// Parameters:
//   - p: the position relative to the parent
//
// Returns:
//   - NodeBuilderOption: functional option to set the position
func WithPosition(p common.Vec3) NodeBuilderOption {
	return func(n *node) {
		n.position = p
	}
}

// WithRotation sets the initial local Euler rotation in radians.
//
// Parameters:
//   - r: rotation about X, Y and Z
//
// Returns:
//   - NodeBuilderOption: functional option to set the rotation
func WithRotation(r common.Vec3) NodeBuilderOption {
	return func(n *node) {
		n.rotation = r
	}
}

// WithScale sets the initial local scale.
//
// Parameters:
//   - s: the per-axis scale
//
// Returns:
//   - NodeBuilderOption: functional option to set the scale
func WithScale(s common.Vec3) NodeBuilderOption {
	return func(n *node) {
		n.scale = s
	}
}

// WithVisible sets whether the node is drawn. Nodes are visible by default.
//
// Parameters:
//   - visible: true to draw the node
//
// Returns:
//   - NodeBuilderOption: functional option to set visibility
func WithVisible(visible bool) NodeBuilderOption {
	return func(n *node) {
		n.visible.Store(visible)
	}
}

// WithCastShadow marks the node as a shadow caster.
func WithCastShadow(cast bool) NodeBuilderOption {
	return func(n *node) {
		n.castShadow = cast
	}
}

// WithReceiveShadow marks the node as a shadow receiver.
func WithReceiveShadow(receive bool) NodeBuilderOption {
	return func(n *node) {
		n.receiveShadow = receive
	}
}

// WithChildren attaches initial children.
//
// Parameters:
//   - children: the nodes to attach
//
// Returns:
//   - NodeBuilderOption: functional option to attach children
func WithChildren(children ...Node) NodeBuilderOption {
	return func(n *node) {
		n.Add(children...)
	}
}
