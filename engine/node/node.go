package node

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/Carmen-Shannon/vrscale/engine/light"
	"github.com/Carmen-Shannon/vrscale/engine/model"
	"github.com/Carmen-Shannon/vrscale/engine/renderer/material"
)

// Kind identifies what a node draws, if anything.
type Kind int

const (
	// KindGroup only carries a transform for its children.
	KindGroup Kind = iota

	// KindMesh draws a solid model.
	KindMesh

	// KindLine draws a polyline model.
	KindLine

	// KindLight carries a light positioned by the node's world transform.
	KindLight
)

func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindLine:
		return "line"
	case KindLight:
		return "light"
	default:
		return "group"
	}
}

var nextID atomic.Uint64

type node struct {
	mu *sync.RWMutex

	id      uint64
	name    string
	kind    Kind
	visible atomic.Bool

	castShadow    bool
	receiveShadow bool

	position common.Vec3
	rotation common.Vec3
	scale    common.Vec3

	mdl model.Model
	lt  light.Light

	parent   *node
	children []*node
}

// Node defines the interface for an element of the scene graph.
// A Node has a local transform relative to its parent, an optional model or
// light, and owns its children: a child belongs to exactly one parent at a time.
type Node interface {
	// ID returns the node's process-unique identifier.
	//
	// Returns:
	//   - uint64: the node ID
	ID() uint64

	// Name returns the node's name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Kind returns what the node draws.
	//
	// Returns:
	//   - Kind: group, mesh, line or light
	Kind() Kind

	// Position returns the local position.
	//
	// Returns:
	//   - common.Vec3: the position relative to the parent
	Position() common.Vec3

	// SetPosition sets the local position.
	//
	// Parameters:
	//   - p: the position relative to the parent
	SetPosition(p common.Vec3)

	// Rotation returns the local Euler rotation in radians.
	//
	// Returns:
	//   - common.Vec3: rotation about X, Y and Z
	Rotation() common.Vec3

	// SetRotation sets the local Euler rotation in radians.
	//
	// Parameters:
	//   - r: rotation about X, Y and Z
	SetRotation(r common.Vec3)

	// Scale returns the local scale.
	//
	// Returns:
	//   - common.Vec3: the per-axis scale
	Scale() common.Vec3

	// SetScale sets the local scale.
	//
	// Parameters:
	//   - s: the per-axis scale
	SetScale(s common.Vec3)

	// SetUniformScale sets the same scale on all three axes.
	//
	// Parameters:
	//   - s: the scale factor
	SetUniformScale(s float32)

	// Visible returns whether the node and its subtree are drawn.
	//
	// Returns:
	//   - bool: true if visible
	Visible() bool

	// SetVisible shows or hides the node and its subtree.
	//
	// Parameters:
	//   - visible: true to draw
	SetVisible(visible bool)

	// CastShadow returns whether the node casts shadows onto receivers.
	CastShadow() bool

	// SetCastShadow sets whether the node casts shadows.
	SetCastShadow(cast bool)

	// ReceiveShadow returns whether shadows are drawn onto the node.
	ReceiveShadow() bool

	// SetReceiveShadow sets whether shadows are drawn onto the node.
	SetReceiveShadow(receive bool)

	// Model returns the model drawn by mesh and line nodes, or nil.
	//
	// Returns:
	//   - model.Model: the model or nil
	Model() model.Model

	// Light returns the light carried by light nodes, or nil.
	//
	// Returns:
	//   - light.Light: the light or nil
	Light() light.Light

	// Parent returns the owning node, or nil for a detached node.
	//
	// Returns:
	//   - Node: the parent or nil
	Parent() Node

	// Children returns a snapshot of the node's children in insertion order.
	//
	// Returns:
	//   - []Node: the children
	Children() []Node

	// Add attaches children to the node, detaching each from its previous parent first.
	// Nodes that are ancestors of this node, or this node itself, are skipped.
	//
	// Parameters:
	//   - children: the nodes to attach
	Add(children ...Node)

	// Remove detaches the given children. Nodes that are not children are ignored.
	//
	// Parameters:
	//   - children: the nodes to detach
	Remove(children ...Node)

	// ReplaceChildren detaches every current child and attaches the given nodes in their place.
	// The detached nodes have their parent cleared and are returned to the caller, who owns them.
	//
	// Parameters:
	//   - children: the new children
	//
	// Returns:
	//   - []Node: the previous children
	ReplaceChildren(children ...Node) []Node

	// LocalMatrix returns the transform relative to the parent.
	//
	// Returns:
	//   - common.Mat4: translation * rotation * scale
	LocalMatrix() common.Mat4

	// WorldMatrix returns the transform relative to the root of the tree.
	//
	// Returns:
	//   - common.Mat4: parent world matrix * local matrix
	WorldMatrix() common.Mat4

	// WorldPosition returns the node's origin in world space.
	//
	// Returns:
	//   - common.Vec3: the world-space position
	WorldPosition() common.Vec3

	// Traverse walks the subtree depth first in child order, starting with this node.
	// The visitor receives each node's world matrix; returning false skips that node's children.
	//
	// Parameters:
	//   - visit: the visitor
	Traverse(visit func(n Node, world common.Mat4) bool)

	// Clone returns a detached deep copy of the subtree with fresh IDs.
	// Models and lights are shared with the source node.
	//
	// Returns:
	//   - Node: the copy
	Clone() Node
}

var _ Node = &node{}

func newNode(kind Kind, options ...NodeBuilderOption) *node {
	n := &node{
		mu:    &sync.RWMutex{},
		id:    nextID.Add(1),
		kind:  kind,
		scale: common.Vec3{1, 1, 1},
	}
	n.visible.Store(true)
	for _, option := range options {
		option(n)
	}
	return n
}

// NewGroup creates an empty transform node.
//
// Parameters:
//   - options: functional options to configure the node
//
// Returns:
//   - Node: the group
func NewGroup(options ...NodeBuilderOption) Node {
	return newNode(KindGroup, options...)
}

// NewMesh creates a node drawing the given model.
//
// Parameters:
//   - m: the model to draw
//   - options: functional options to configure the node
//
// Returns:
//   - Node: the mesh node
func NewMesh(m model.Model, options ...NodeBuilderOption) Node {
	n := newNode(KindMesh, options...)
	n.mdl = m
	return n
}

// NewLine creates a node drawing a polyline through points with the given material.
//
// Parameters:
//   - points: the polyline vertices in local space
//   - mat: the line material, typically material.NewLineBasic
//   - options: functional options to configure the node
//
// Returns:
//   - Node: the line node
func NewLine(points []common.Vec3, mat material.Material, options ...NodeBuilderOption) Node {
	n := newNode(KindLine, options...)
	n.mdl = model.NewModel(model.WithGeometry(model.Polyline(points)), model.WithMaterial(mat))
	return n
}

// NewLightNode creates a node carrying l, positioned at the light's current position.
// The owning scene keeps the light's position in sync with the node's world position.
//
// Parameters:
//   - l: the light
//   - options: functional options to configure the node
//
// Returns:
//   - Node: the light node
func NewLightNode(l light.Light, options ...NodeBuilderOption) Node {
	base := []NodeBuilderOption{WithPosition(l.Position())}
	n := newNode(KindLight, append(base, options...)...)
	n.lt = l
	return n
}

func (n *node) ID() uint64 {
	return n.id
}

func (n *node) Name() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.name
}

func (n *node) Kind() Kind {
	return n.kind
}

func (n *node) Position() common.Vec3 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.position
}

func (n *node) SetPosition(p common.Vec3) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.position = p
}

func (n *node) Rotation() common.Vec3 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.rotation
}

func (n *node) SetRotation(r common.Vec3) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rotation = r
}

func (n *node) Scale() common.Vec3 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.scale
}

func (n *node) SetScale(s common.Vec3) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.scale = s
}

func (n *node) SetUniformScale(s float32) {
	n.SetScale(common.Vec(s))
}

func (n *node) Visible() bool {
	return n.visible.Load()
}

func (n *node) SetVisible(visible bool) {
	n.visible.Store(visible)
}

func (n *node) CastShadow() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.castShadow
}

func (n *node) SetCastShadow(cast bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.castShadow = cast
}

func (n *node) ReceiveShadow() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.receiveShadow
}

func (n *node) SetReceiveShadow(receive bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.receiveShadow = receive
}

func (n *node) Model() model.Model {
	return n.mdl
}

func (n *node) Light() light.Light {
	return n.lt
}

func (n *node) Parent() Node {
	p := n.parentNode()
	if p == nil {
		return nil
	}
	return p
}

func (n *node) Children() []Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *node) Add(children ...Node) {
	for _, c := range children {
		cn, ok := c.(*node)
		if !ok || cn == nil || n.hasAncestor(cn) {
			continue
		}
		if old := cn.parentNode(); old != nil {
			old.Remove(cn)
		}
		cn.setParent(n)

		n.mu.Lock()
		n.children = append(n.children, cn)
		n.mu.Unlock()
	}
}

func (n *node) Remove(children ...Node) {
	for _, c := range children {
		cn, ok := c.(*node)
		if !ok || cn == nil {
			continue
		}
		n.mu.Lock()
		found := false
		for i, existing := range n.children {
			if existing == cn {
				n.children = append(n.children[:i], n.children[i+1:]...)
				found = true
				break
			}
		}
		n.mu.Unlock()
		if found {
			cn.setParent(nil)
		}
	}
}

func (n *node) ReplaceChildren(children ...Node) []Node {
	n.mu.Lock()
	previous := n.children
	n.children = nil
	n.mu.Unlock()

	removed := make([]Node, len(previous))
	for i, c := range previous {
		c.setParent(nil)
		removed[i] = c
	}
	n.Add(children...)
	return removed
}

func (n *node) LocalMatrix() common.Mat4 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return common.ModelMatrix(n.position, n.rotation, n.scale)
}

func (n *node) WorldMatrix() common.Mat4 {
	local := n.LocalMatrix()
	if p := n.parentNode(); p != nil {
		return p.WorldMatrix().Mul(local)
	}
	return local
}

func (n *node) WorldPosition() common.Vec3 {
	return n.WorldMatrix().Translation()
}

func (n *node) Traverse(visit func(n Node, world common.Mat4) bool) {
	var parentWorld common.Mat4
	if p := n.parentNode(); p != nil {
		parentWorld = p.WorldMatrix()
	} else {
		parentWorld = common.Identity4()
	}
	n.traverse(parentWorld, visit)
}

func (n *node) traverse(parentWorld common.Mat4, visit func(n Node, world common.Mat4) bool) {
	world := parentWorld.Mul(n.LocalMatrix())
	if !visit(n, world) {
		return
	}
	n.mu.RLock()
	children := append([]*node(nil), n.children...)
	n.mu.RUnlock()
	for _, c := range children {
		c.traverse(world, visit)
	}
}

func (n *node) Clone() Node {
	return n.clone()
}

func (n *node) clone() *node {
	n.mu.RLock()
	cp := &node{
		mu:            &sync.RWMutex{},
		id:            nextID.Add(1),
		name:          n.name,
		kind:          n.kind,
		castShadow:    n.castShadow,
		receiveShadow: n.receiveShadow,
		position:      n.position,
		rotation:      n.rotation,
		scale:         n.scale,
		mdl:           n.mdl,
		lt:            n.lt,
	}
	children := append([]*node(nil), n.children...)
	n.mu.RUnlock()

	cp.visible.Store(n.visible.Load())
	for _, c := range children {
		cc := c.clone()
		cc.parent = cp
		cp.children = append(cp.children, cc)
	}
	return cp
}

func (n *node) parentNode() *node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.parent
}

func (n *node) setParent(p *node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.parent = p
}

// hasAncestor reports whether candidate is n or one of n's ancestors.
func (n *node) hasAncestor(candidate *node) bool {
	for cur := n; cur != nil; cur = cur.parentNode() {
		if cur == candidate {
			return true
		}
	}
	return false
}
