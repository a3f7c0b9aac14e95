package renderer

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/Carmen-Shannon/vrscale/engine/camera"
	"github.com/Carmen-Shannon/vrscale/engine/model"
	"github.com/Carmen-Shannon/vrscale/engine/node"
	"github.com/Carmen-Shannon/vrscale/engine/renderer/material"
	"github.com/Carmen-Shannon/vrscale/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
	black = color.RGBA{A: 255}
)

func newOffscreen(t *testing.T, width, height int, options ...RendererBuilderOption) Renderer {
	t.Helper()
	r, err := NewRenderer(BackendTypeOffscreen, options...)
	require.NoError(t, err)
	require.NoError(t, r.SetSize(width, height))
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func sphereScene(rgb uint32) scene.Scene {
	m := model.NewModel(
		model.WithGeometry(model.Sphere(1)),
		model.WithMaterial(material.NewLineBasic(rgb)),
	)
	return scene.NewScene(scene.WithNodes(node.NewMesh(m, node.WithPosition(common.Vec3{0, 0, -5}))))
}

func TestWGPUWithoutSurface(t *testing.T) {
	_, err := NewRenderer(BackendTypeWGPU)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoPresenter))

	_, err = NewRenderer(RendererBackendType(42))
	assert.ErrorIs(t, err, ErrNoPresenter)
}

func TestForceSoftwareRenderer(t *testing.T) {
	r, err := NewRenderer(BackendTypeOffscreen, WithForceSoftwareRenderer(true))
	require.NoError(t, err)
	defer r.Close()
	assert.True(t, r.(*renderer).forceFallbackAdapter)
}

func TestSetSize(t *testing.T) {
	r := newOffscreen(t, 8, 4)
	w, h := r.Size()
	assert.Equal(t, 8, w)
	assert.Equal(t, 4, h)
	assert.Equal(t, Rect{W: 8, H: 4}, r.Viewport())

	r.SetViewport(Rect{X: 2, Y: 1, W: 2, H: 2})
	require.NoError(t, r.SetSize(16, 8))
	assert.Equal(t, Rect{W: 16, H: 8}, r.Viewport())
	assert.Equal(t, 16, r.Frame().Bounds().Dx())

	assert.Error(t, r.SetSize(0, 8))
}

func TestClearHonorsScissor(t *testing.T) {
	r := newOffscreen(t, 4, 2)
	r.SetClearColor(common.RGB(1, 0, 0))
	r.Clear()

	r.SetScissorTest(true)
	r.SetScissor(Rect{X: 0, Y: 0, W: 2, H: 1})
	r.SetClearColor(common.RGB(0, 0, 1))
	r.Clear()

	frame := r.Frame()
	require.NotNil(t, frame)
	// bottom-left origin: Y 0 is the last image row
	assert.Equal(t, blue, frame.RGBAAt(0, 1))
	assert.Equal(t, blue, frame.RGBAAt(1, 1))
	assert.Equal(t, red, frame.RGBAAt(2, 1))
	assert.Equal(t, red, frame.RGBAAt(0, 0))
}

func TestRenderSphere(t *testing.T) {
	r := newOffscreen(t, 32, 32)
	r.SetClearColor(common.RGB(0, 0, 0))
	r.Clear()

	cam := camera.NewPerspective(75, 1, 0.1, 50)
	require.NoError(t, r.Render(sphereScene(0xff0000), cam))

	frame := r.Frame()
	center := frame.RGBAAt(16, 16)
	assert.Greater(t, center.R, uint8(128))
	assert.Zero(t, center.B)
	assert.Equal(t, black, frame.RGBAAt(0, 0))
}

func TestRenderInactiveScene(t *testing.T) {
	r := newOffscreen(t, 16, 16)
	r.SetClearColor(common.RGB(0, 0, 0))
	r.Clear()

	s := sphereScene(0xff0000)
	s.SetActive(false)
	require.NoError(t, r.Render(s, camera.NewPerspective(75, 1, 0.1, 50)))
	assert.Equal(t, black, r.Frame().RGBAAt(8, 8))
}

func TestViewportsComposite(t *testing.T) {
	r := newOffscreen(t, 64, 32)
	r.SetScissorTest(true)

	left := Rect{X: 0, Y: 0, W: 32, H: 32}
	right := Rect{X: 32, Y: 0, W: 32, H: 32}
	cam := camera.NewPerspective(75, 1, 0.1, 50)

	r.SetViewport(left)
	r.SetScissor(left)
	r.SetClearColor(common.RGB(0, 0, 1))
	r.Clear()
	require.NoError(t, r.Render(sphereScene(0xff0000), cam))

	r.SetViewport(right)
	r.SetScissor(right)
	r.SetClearColor(common.RGB(0, 0, 0))
	r.Clear()

	frame := r.Frame()
	assert.Greater(t, frame.RGBAAt(16, 16).R, uint8(128))
	assert.Equal(t, blue, frame.RGBAAt(1, 1))
	assert.Equal(t, black, frame.RGBAAt(48, 16))
}

func TestPresentWritesFrames(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	r := newOffscreen(t, 8, 8, WithOutputDir(dir), WithFramePrefix("shot"))

	r.Clear()
	require.NoError(t, r.Present())
	require.NoError(t, r.Present())
	assert.Equal(t, uint64(2), r.FrameCount())

	for _, name := range []string{"shot-00000.png", "shot-00001.png"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestCustomPresenter(t *testing.T) {
	p := newOffscreenPresenter("", "frame")
	r, err := NewRenderer(BackendTypeWGPU, WithPresenter(p))
	require.NoError(t, err)
	require.NoError(t, r.SetSize(4, 4))

	r.SetClearColor(common.RGB(1, 0, 0))
	r.Clear()
	require.NoError(t, r.Present())

	last := p.Last()
	require.NotNil(t, last)
	assert.Equal(t, red, last.RGBAAt(2, 2))

	require.NoError(t, r.Close())
	assert.Nil(t, p.Last())
	assert.Nil(t, r.Frame())
}

func TestRenderBeforeSetSize(t *testing.T) {
	r, err := NewRenderer(BackendTypeOffscreen)
	require.NoError(t, err)
	assert.NoError(t, r.Render(sphereScene(0xff0000), camera.NewPerspective(75, 1, 0.1, 50)))
	assert.NoError(t, r.Present())
	assert.Zero(t, r.FrameCount())
	assert.Nil(t, r.Frame())
}
