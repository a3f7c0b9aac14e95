package viewport

import "log/slog"

// RenderContextBuilderOption is a functional option applied to a RenderContext during construction.
type RenderContextBuilderOption func(*renderContext)

// WithViews appends views to the context in the given order.
//
// Parameters:
//   - views: the views to append
//
// Returns:
//   - RenderContextBuilderOption: option function to apply
func WithViews(views ...View) RenderContextBuilderOption {
	return func(c *renderContext) {
		c.views = append(c.views, views...)
	}
}

// WithWidthSource sets where the display width is read from on every Render.
//
// Parameters:
//   - src: the width source, typically a window.Window
//
// Returns:
//   - RenderContextBuilderOption: option function to apply
func WithWidthSource(src WidthSource) RenderContextBuilderOption {
	return func(c *renderContext) {
		if src != nil {
			c.source = src
		}
	}
}

// WithFixedWidth is shorthand for WithWidthSource(FixedWidth(width)).
func WithFixedWidth(width int) RenderContextBuilderOption {
	return WithWidthSource(FixedWidth(width))
}

// WithLogger sets the logger used for resize events.
func WithLogger(logger *slog.Logger) RenderContextBuilderOption {
	return func(c *renderContext) {
		if logger != nil {
			c.logger = logger
		}
	}
}
