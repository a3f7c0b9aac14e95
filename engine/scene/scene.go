package scene

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/Carmen-Shannon/vrscale/engine/light"
	"github.com/Carmen-Shannon/vrscale/engine/model"
	"github.com/Carmen-Shannon/vrscale/engine/node"
	"github.com/Carmen-Shannon/vrscale/engine/renderer/material"
)

// Scene defines the interface for a drawable tree of nodes plus the per-frame update step that animates it.
// Top-level nodes are registered by ID; nested nodes are reached through Traverse.
type Scene interface {
	// Name returns the scene name.
	Name() string

	// SetName sets the scene name.
	SetName(name string)

	// Active returns whether the scene is active for updates and rendering.
	Active() bool

	// SetActive sets whether the scene is active.
	SetActive(active bool)

	// Root returns the root node. Every registered node is a child of the root.
	//
	// Returns:
	//   - node.Node: the root group
	Root() node.Node

	// Add attaches nodes to the root and registers them by ID.
	//
	// Parameters:
	//   - nodes: the nodes to add
	Add(nodes ...node.Node)

	// Get returns the top-level node with the given ID, or nil.
	//
	// Parameters:
	//   - id: the node ID
	//
	// Returns:
	//   - node.Node: the node or nil
	Get(id uint64) node.Node

	// Find returns the first node in traversal order with the given name, or nil.
	//
	// Parameters:
	//   - name: the node name
	//
	// Returns:
	//   - node.Node: the node or nil
	Find(name string) node.Node

	// Remove detaches and unregisters the top-level node with the given ID.
	//
	// Parameters:
	//   - id: the node ID
	Remove(id uint64)

	// Count returns the number of top-level nodes.
	Count() int

	// Clear removes every top-level node.
	Clear()

	// SetUpdateCallback sets the per-frame update step.
	//
	// Parameters:
	//   - update: called with the time elapsed since the scene started
	SetUpdateCallback(update func(elapsed time.Duration))

	// Update runs the update step if the scene is active and one is set.
	//
	// Parameters:
	//   - elapsed: time since the scene started
	Update(elapsed time.Duration)

	// Lights returns the lights carried by visible light nodes, after moving each light to its node's world position.
	//
	// Returns:
	//   - []light.Light: the lights in traversal order
	Lights() []light.Light

	// Shadows returns the shadow settings.
	Shadows() light.ShadowConfig

	// SetShadows replaces the shadow settings.
	SetShadows(cfg light.ShadowConfig)

	// Traverse walks every node under the root depth first; see node.Node.Traverse.
	//
	// Parameters:
	//   - visit: the visitor
	Traverse(visit func(n node.Node, world common.Mat4) bool)
}

type scene struct {
	mu *sync.Mutex

	name     string
	active   bool
	root     node.Node
	registry map[uint64]node.Node
	update   func(elapsed time.Duration)
	shadows  light.ShadowConfig
}

var _ Scene = &scene{}

// NewScene creates an empty, active Scene with shadows disabled.
//
// Parameters:
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:       &sync.Mutex{},
		active:   true,
		root:     node.NewGroup(node.WithName("root")),
		registry: make(map[uint64]node.Node),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Names of the nodes created by NewLitScene.
const (
	SpotLightName    = "spot-light"
	AmbientLightName = "ambient-light"
	GroundName       = "ground"
)

// NewLitScene creates a scene with the standard lighting rig: a white spot light at (30, 40, 10)
// casting shadows when shadows are enabled, a 0x404040 ambient light and a 20x1x20 ground box at
// (0, -4.7, -10) that receives shadows.
//
// Parameters:
//   - shadows: the shadow settings
//   - options: further scene options
//
// Returns:
//   - Scene: the lit scene
func NewLitScene(shadows light.ShadowConfig, options ...SceneBuilderOption) Scene {
	spot := light.NewLight(light.LightTypeSpot,
		light.WithColor(common.Hex(0xffffff)),
		light.WithIntensity(1),
		light.WithRange(100),
		light.WithPosition(common.Vec3{30, 40, 10}),
		light.WithTarget(common.Vec3{}),
		light.WithCastsShadows(shadows.Enabled),
	)
	ground := node.NewMesh(
		model.NewModel(
			model.WithName(GroundName),
			model.WithGeometry(model.Box(20, 1, 20)),
			model.WithMaterial(material.NewLambert(0xaaffaa)),
		),
		node.WithName(GroundName),
		node.WithPosition(common.Vec3{0, -4.7, -10}),
		node.WithReceiveShadow(true),
	)

	base := []SceneBuilderOption{
		WithShadows(shadows),
		WithNodes(
			node.NewLightNode(spot, node.WithName(SpotLightName)),
			node.NewLightNode(light.NewAmbientLight(0x404040), node.WithName(AmbientLightName)),
			ground,
		),
	}
	return NewScene(append(base, options...)...)
}

func (s *scene) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Root() node.Node {
	return s.root
}

func (s *scene) Add(nodes ...node.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(nodes...)
}

// add registers nodes. Caller holds mu.
func (s *scene) add(nodes ...node.Node) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		s.root.Add(n)
		if n.Parent() == s.root {
			s.registry[n.ID()] = n
		}
	}
}

func (s *scene) Get(id uint64) node.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry[id]
}

func (s *scene) Find(name string) node.Node {
	var found node.Node
	s.root.Traverse(func(n node.Node, _ common.Mat4) bool {
		if found != nil {
			return false
		}
		if n.Name() == name && n != s.root {
			found = n
			return false
		}
		return true
	})
	return found
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.registry[id]
	if !ok {
		return
	}
	delete(s.registry, id)
	s.root.Remove(n)
}

func (s *scene) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.registry)
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root.ReplaceChildren()
	s.registry = make(map[uint64]node.Node)
}

func (s *scene) SetUpdateCallback(update func(elapsed time.Duration)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.update = update
}

func (s *scene) Update(elapsed time.Duration) {
	s.mu.Lock()
	update, active := s.update, s.active
	s.mu.Unlock()

	if active && update != nil {
		update(elapsed)
	}
}

func (s *scene) Lights() []light.Light {
	var lights []light.Light
	s.root.Traverse(func(n node.Node, world common.Mat4) bool {
		if !n.Visible() {
			return false
		}
		if l := n.Light(); l != nil {
			if l.Type() != light.LightTypeAmbient && l.Type() != light.LightTypeDirectional {
				l.SetPosition(world.Translation())
			}
			lights = append(lights, l)
		}
		return true
	})
	return lights
}

func (s *scene) Shadows() light.ShadowConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shadows
}

func (s *scene) SetShadows(cfg light.ShadowConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shadows = cfg
}

func (s *scene) Traverse(visit func(n node.Node, world common.Mat4) bool) {
	s.root.Traverse(visit)
}
