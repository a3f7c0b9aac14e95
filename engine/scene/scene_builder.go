package scene

import (
	"time"

	"github.com/Carmen-Shannon/vrscale/engine/light"
	"github.com/Carmen-Shannon/vrscale/engine/node"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithName sets the scene name.
//
// Parameters:
//   - name: the scene name
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithName(name string) SceneBuilderOption {
	return func(s *scene) {
		s.name = name
	}
}

// WithActive sets whether the scene is active for updates and rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithNodes adds initial top-level nodes to the scene.
//
// Parameters:
//   - nodes: the nodes to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithNodes(nodes ...node.Node) SceneBuilderOption {
	return func(s *scene) {
		s.add(nodes...)
	}
}

// WithShadows sets the shadow settings.
//
// Parameters:
//   - cfg: the shadow settings, see light.DefaultShadowConfig
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithShadows(cfg light.ShadowConfig) SceneBuilderOption {
	return func(s *scene) {
		s.shadows = cfg
	}
}

// WithUpdate sets the per-frame update step.
//
// Parameters:
//   - update: called with the time elapsed since the scene started
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithUpdate(update func(elapsed time.Duration)) SceneBuilderOption {
	return func(s *scene) {
		s.update = update
	}
}
