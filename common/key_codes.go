package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeySpace = 32  // Spacebar (ASCII), pauses and resumes the animation
	KeyR     = 82  // R key (ASCII), restarts the current demo
	KeyEsc   = 256 // Escape key (GLFW), closes the window
	KeyDown  = 264 // Down arrow (GLFW), halves the tick rate
	KeyUp    = 265 // Up arrow (GLFW), doubles the tick rate
)
