package viewport

import (
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/Carmen-Shannon/vrscale/engine/camera"
	"github.com/Carmen-Shannon/vrscale/engine/renderer"
	"github.com/Carmen-Shannon/vrscale/engine/scene"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRenderer logs every state call as a string.
type recordingRenderer struct {
	calls   []string
	sizes   [][2]int
	aspects []float32
	fail    error
}

var _ renderer.Renderer = &recordingRenderer{}

func (r *recordingRenderer) SetSize(width, height int) error {
	r.sizes = append(r.sizes, [2]int{width, height})
	r.calls = append(r.calls, fmt.Sprintf("size %dx%d", width, height))
	return nil
}
func (r *recordingRenderer) Size() (int, int) { return 0, 0 }
func (r *recordingRenderer) SetViewport(rect Rect) { r.calls = append(r.calls, fmt.Sprintf("viewport %v", rect)) }
func (r *recordingRenderer) Viewport() Rect { return Rect{} }
func (r *recordingRenderer) SetScissor(rect Rect) { r.calls = append(r.calls, fmt.Sprintf("scissor %v", rect)) }
func (r *recordingRenderer) SetScissorTest(on bool) { r.calls = append(r.calls, fmt.Sprintf("scissor-test %v", on)) }
func (r *recordingRenderer) SetClearColor(common.Color) { r.calls = append(r.calls, "clear-color") }
func (r *recordingRenderer) Clear() { r.calls = append(r.calls, "clear") }
func (r *recordingRenderer) Render(_ scene.Scene, cam camera.Camera) error {
	r.aspects = append(r.aspects, cam.Aspect())
	r.calls = append(r.calls, "render")
	return r.fail
}
func (r *recordingRenderer) Present() error { return nil }
func (r *recordingRenderer) Frame() *image.RGBA { return nil }
func (r *recordingRenderer) FrameCount() uint64 { return 0 }
func (r *recordingRenderer) SetPresentMode(renderer.PresentMode) {}
func (r *recordingRenderer) Close() error { return nil }

func (r *recordingRenderer) viewports() []string {
	var out []string
	for _, c := range r.calls {
		if len(c) > 8 && c[:8] == "viewport" {
			out = append(out, c)
		}
	}
	return out
}

type mutableWidth struct{ w int }

func (m *mutableWidth) Width() int { return m.w }

func TestInvalidAspect(t *testing.T) {
	for _, aspect := range []float32{0, -1, math32.NaN()} {
		_, err := NewRenderContext(&recordingRenderer{}, aspect)
		assert.ErrorIs(t, err, ErrInvalidAspect)
	}
}

func TestPixelRect(t *testing.T) {
	tests := []struct {
		name   string
		view   View
		w, h   int
		expect Rect
	}{
		{"left half", View{Width: 0.5, Height: 1}, 801, 400, Rect{X: 0, Y: 0, W: 400, H: 400}},
		{"right half", View{Left: 0.5, Width: 0.5, Height: 1}, 801, 400, Rect{X: 400, Y: 0, W: 400, H: 400}},
		{"middle third", View{Left: 1.0 / 3, Width: 1.0 / 3, Height: 1}, 900, 300, Rect{X: 300, Y: 0, W: 300, H: 300}},
		{"last third", View{Left: 2.0 / 3, Width: 1.0 / 3, Height: 1}, 900, 300, Rect{X: 600, Y: 0, W: 300, H: 300}},
		{"bottom strip", View{Bottom: 0.25, Width: 1, Height: 0.5}, 10, 10, Rect{X: 0, Y: 2, W: 10, H: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.view.PixelRect(tt.w, tt.h))
		})
	}
}

func TestDefaultContextRender(t *testing.T) {
	r := &recordingRenderer{}
	ctx, err := NewDefaultContext(r, 2, WithFixedWidth(801))
	require.NoError(t, err)
	require.NoError(t, ctx.Render(scene.NewScene()))

	w, h := ctx.Size()
	assert.Equal(t, 801, w)
	assert.Equal(t, 400, h)
	assert.Equal(t, [][2]int{{801, 400}}, r.sizes)

	expected := []string{
		"size 801x400",
		"viewport {0 0 400 400}", "scissor {0 0 400 400}", "scissor-test true", "clear-color", "clear", "render",
		"viewport {400 0 400 400}", "scissor {400 0 400 400}", "scissor-test true", "clear-color", "clear", "render",
	}
	assert.Equal(t, expected, r.calls)
	assert.Equal(t, []float32{1, 1}, r.aspects)

	ortho, ok := ctx.View(ViewOrtho)
	require.True(t, ok)
	assert.Equal(t, camera.ProjectionOrthographic, ortho.Camera.Projection())
	assert.Equal(t, common.RGB(0.5, 0.5, 0.7), ortho.Background)

	persp, ok := ctx.View(ViewPerspective)
	require.True(t, ok)
	assert.InDelta(t, common.DegToRad(75), persp.Camera.Fov(), 1e-6)
}

func TestHeightFor(t *testing.T) {
	assert.Equal(t, 600, HeightFor(1200, 2))
	assert.Equal(t, 400, HeightFor(1200, 3))
	assert.Equal(t, 333, HeightFor(1000, 3))
	assert.Equal(t, 1, HeightFor(2, 3))
}

func TestResizeOnlyOnWidthChange(t *testing.T) {
	r := &recordingRenderer{}
	src := &mutableWidth{w: 600}
	ctx, err := NewDefaultContext(r, 2, WithWidthSource(src))
	require.NoError(t, err)

	for range 3 {
		require.NoError(t, ctx.Render(scene.NewScene()))
	}
	assert.Equal(t, [][2]int{{600, 300}}, r.sizes)

	src.w = 999
	require.NoError(t, ctx.Render(scene.NewScene()))
	require.NoError(t, ctx.Render(scene.NewScene()))
	assert.Equal(t, [][2]int{{600, 300}, {999, 499}}, r.sizes)

	// hidden windows report zero; the last size is kept
	src.w = 0
	require.NoError(t, ctx.Render(scene.NewScene()))
	assert.Len(t, r.sizes, 2)
}

func TestBinocularThirds(t *testing.T) {
	r := &recordingRenderer{}
	ctx, err := NewBinocularContext(r, 3, 0, WithFixedWidth(900))
	require.NoError(t, err)
	require.NoError(t, ctx.Render(scene.NewScene()))

	assert.Equal(t, []string{
		"viewport {0 0 300 300}",
		"viewport {300 0 300 300}",
		"viewport {600 0 300 300}",
	}, r.viewports())

	left, ok := ctx.View(ViewLeftEye)
	require.True(t, ok)
	right, ok := ctx.View(ViewRightEye)
	require.True(t, ok)
	assert.InDelta(t, -DefaultIPD/2, left.Camera.Position().X(), 1e-6)
	assert.InDelta(t, DefaultIPD/2, right.Camera.Position().X(), 1e-6)
}

func TestZeroHeightKeepsAspect(t *testing.T) {
	r := &recordingRenderer{}
	cam := camera.NewPerspective(1, 1.5, 0.1, 50)
	ctx, err := NewRenderContext(r, 1, WithFixedWidth(100), WithViews(View{Name: "flat", Width: 1, Height: 0, Camera: cam}))
	require.NoError(t, err)
	require.NoError(t, ctx.Render(scene.NewScene()))
	assert.Equal(t, []float32{1.5}, r.aspects)
}

func TestOverlappingViewsDrawInOrder(t *testing.T) {
	r := &recordingRenderer{}
	ctx, err := NewRenderContext(r, 1, WithFixedWidth(10))
	require.NoError(t, err)
	ctx.AddView(View{Name: "a", Width: 1, Height: 1, Camera: camera.NewCamera()})
	ctx.AddView(View{Name: "b", Left: 0.2, Width: 0.5, Height: 0.5, Camera: camera.NewCamera()})
	require.NoError(t, ctx.Render(scene.NewScene()))

	assert.Equal(t, []string{"viewport {0 0 10 10}", "viewport {2 0 5 5}"}, r.viewports())
	assert.Equal(t, "a", ctx.Views()[0].Name)
}

func TestRenderErrorNamesView(t *testing.T) {
	boom := errors.New("boom")
	r := &recordingRenderer{fail: boom}
	ctx, err := NewDefaultContext(r, 2)
	require.NoError(t, err)

	err = ctx.Render(scene.NewScene())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), ViewOrtho)
}
