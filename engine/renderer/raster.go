package renderer

import (
	"cmp"
	"math"
	"slices"

	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/Carmen-Shannon/vrscale/engine/camera"
	"github.com/Carmen-Shannon/vrscale/engine/light"
	"github.com/Carmen-Shannon/vrscale/engine/model"
	"github.com/Carmen-Shannon/vrscale/engine/node"
	"github.com/Carmen-Shannon/vrscale/engine/renderer/material"
	"github.com/Carmen-Shannon/vrscale/engine/scene"
	"github.com/chewxy/math32"
	"github.com/gogpu/gg"
)

// shadowSegments is the number of edges of the polygon approximating a projected shadow disc.
const shadowSegments = 24

// drawItem is one painter's-algorithm primitive. Larger depth is drawn first.
type drawItem struct {
	depth float32
	paint func(ctx *gg.Context) error
}

type caster struct {
	center common.Vec3
	radius float32
}

type receiver struct {
	world common.Mat4
	geom  model.Geometry
}

// frameState holds per-Render camera data shared by every primitive.
type frameState struct {
	width, height float64

	cam     camera.Camera
	eye     common.Vec3
	forward common.Vec3
	right   common.Vec3
	ortho   bool

	lights []light.Light
}

// rasterize draws s as seen by cam into ctx.
// Shadow receivers are drawn first as floor layers, then the shadows falling on them,
// then every other primitive sorted far to near.
func rasterize(ctx *gg.Context, s scene.Scene, cam camera.Camera) error {
	view := cam.ViewMatrix()
	f := &frameState{
		width:   float64(ctx.Width()),
		height:  float64(ctx.Height()),
		cam:     cam,
		eye:     cam.Position(),
		forward: cam.Rig().Forward(),
		right:   common.Vec3{view[0], view[4], view[8]},
		ortho:   cam.Projection() == camera.ProjectionOrthographic,
		lights:  s.Lights(),
	}
	frustum := cam.Frustum()

	var floor, items []drawItem
	var casters []caster
	var receivers []receiver

	s.Traverse(func(n node.Node, world common.Mat4) bool {
		if !n.Visible() {
			return false
		}
		m := n.Model()
		if m == nil || (n.Kind() != node.KindMesh && n.Kind() != node.KindLine) {
			return true
		}
		g := m.Geometry()
		center, _ := world.TransformPoint(g.Center())
		radius := g.BoundingRadius() * world.MaxScale()

		if n.CastShadow() && g.Type == model.GeometrySphere {
			casters = append(casters, caster{center: center, radius: radius})
		}
		if n.ReceiveShadow() && g.Type == model.GeometryBox {
			receivers = append(receivers, receiver{world: world, geom: g})
		}
		if !frustum.ContainsSphere(center, radius) {
			return true
		}

		switch g.Type {
		case model.GeometrySphere:
			items = append(items, f.sphere(center, radius, m.Material()))
		case model.GeometryBox:
			faces := f.box(world, g, m.Material())
			if n.ReceiveShadow() {
				floor = append(floor, faces...)
			} else {
				items = append(items, faces...)
			}
		case model.GeometryPolyline:
			items = append(items, f.polyline(world, g, m.Material(), center))
		}
		return true
	})

	farToNear := func(a, b drawItem) int { return cmp.Compare(b.depth, a.depth) }
	slices.SortStableFunc(floor, farToNear)
	slices.SortStableFunc(items, farToNear)

	layers := [][]drawItem{floor, f.shadows(s.Shadows(), casters, receivers), items}
	for _, layer := range layers {
		for _, item := range layer {
			if err := item.paint(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// project maps a world point to pixel coordinates in the view context (top-left origin).
func (f *frameState) project(p common.Vec3) (x, y float64, ok bool) {
	ndc, ok := f.cam.Project(p)
	if !ok {
		return 0, 0, false
	}
	x = (float64(ndc.X()) + 1) * 0.5 * f.width
	y = (1 - float64(ndc.Y())) * 0.5 * f.height
	return x, y, true
}

// viewDir returns the unit vector from p towards the viewer.
func (f *frameState) viewDir(p common.Vec3) common.Vec3 {
	if f.ortho {
		return f.forward.Negate()
	}
	d := f.eye.Sub(p)
	if d.Length() == 0 {
		return f.forward.Negate()
	}
	return d.Normalize()
}

// keyLightDir returns the direction from p towards the first enabled non-ambient light,
// or towards the viewer when there is none.
func (f *frameState) keyLightDir(p common.Vec3) common.Vec3 {
	for _, l := range f.lights {
		if !l.Enabled() {
			continue
		}
		switch l.Type() {
		case light.LightTypeDirectional:
			return l.Direction().Negate().Normalize()
		case light.LightTypePoint, light.LightTypeSpot:
			if d := l.Position().Sub(p); d.Length() > 0 {
				return d.Normalize()
			}
		}
	}
	return f.viewDir(p)
}

// shade evaluates the material at a surface point against the frame's lights.
func (f *frameState) shade(mat material.Material, point, normal common.Vec3) common.Color {
	base := mat.BaseColor()
	alpha := base.A * mat.Opacity()
	if mat.Shading() == material.ShadingBasic {
		return base.WithAlpha(alpha)
	}

	view := f.viewDir(point)
	var diffuse, specular common.Color
	for _, l := range f.lights {
		c, dir := l.Illuminate(point, normal)
		diffuse = diffuse.Add(c)
		if mat.Shading() != material.ShadingPhong || c.R+c.G+c.B == 0 || dir == (common.Vec3{}) {
			continue
		}
		h := dir.Add(view).Normalize()
		s := math32.Pow(math32.Max(normal.Dot(h), 0), mat.Shininess())
		specular = specular.Add(l.Color().Scale(l.Intensity() * s))
	}
	return base.Mul(diffuse).Add(mat.Specular().Mul(specular)).Clamp().WithAlpha(alpha)
}

func (f *frameState) sphere(center common.Vec3, radius float32, mat material.Material) drawItem {
	return drawItem{
		depth: f.cam.ViewDepth(center),
		paint: func(ctx *gg.Context) error {
			cx, cy, ok := f.project(center)
			if !ok {
				return nil
			}
			ex, ey, ok := f.project(center.Add(f.right.Scale(radius)))
			if !ok {
				return nil
			}
			r := math.Hypot(ex-cx, ey-cy)
			if r < 0.5 {
				return nil
			}

			view := f.viewDir(center)
			key := f.keyLightDir(center)

			// brightest point sits on the half vector, darkest on the rim opposite the light
			lit := view.Add(key).Normalize()
			if lit.Length() == 0 {
				lit = view
			}
			dark := key.Sub(view.Scale(key.Dot(view))).Negate().Normalize()
			if dark.Length() == 0 {
				dark = f.right.Negate()
			}

			litColor := f.shade(mat, center.Add(lit.Scale(radius)), lit)
			darkColor := f.shade(mat, center.Add(dark.Scale(radius)), dark)

			hx, hy, ok := f.project(center.Add(lit.Scale(radius * 0.6)))
			if !ok {
				hx, hy = cx, cy
			}
			ctx.SetFillBrush(gg.NewRadialGradientBrush(hx, hy, 0, 2*r).
				AddColorStop(0, toRGBA(litColor)).
				AddColorStop(1, toRGBA(darkColor)))
			ctx.DrawCircle(cx, cy, r)
			return ctx.Fill()
		},
	}
}

func (f *frameState) box(world common.Mat4, g model.Geometry, mat material.Material) []drawItem {
	corners := g.BoxCorners()
	var worldCorners [8]common.Vec3
	for i, c := range corners {
		worldCorners[i], _ = world.TransformPoint(c)
	}

	items := make([]drawItem, 0, 3)
	for _, face := range model.BoxFaces {
		var pts [4]common.Vec3
		var center common.Vec3
		for i, ci := range face.Corners {
			pts[i] = worldCorners[ci]
			center = center.Add(pts[i])
		}
		center = center.Scale(0.25)

		normal := world.TransformDirection(face.Normal).Normalize()
		if normal.Dot(f.viewDir(center)) <= 0 {
			continue
		}
		fill := toRGBA(f.shade(mat, center, normal))

		items = append(items, drawItem{
			depth: f.cam.ViewDepth(center),
			paint: func(ctx *gg.Context) error {
				for i, p := range pts {
					x, y, ok := f.project(p)
					if !ok {
						ctx.ClearPath()
						return nil
					}
					if i == 0 {
						ctx.MoveTo(x, y)
					} else {
						ctx.LineTo(x, y)
					}
				}
				ctx.ClosePath()
				ctx.SetFillBrush(gg.Solid(fill))
				return ctx.Fill()
			},
		})
	}
	return items
}

func (f *frameState) polyline(world common.Mat4, g model.Geometry, mat material.Material, center common.Vec3) drawItem {
	pts := make([]common.Vec3, len(g.Points))
	for i, p := range g.Points {
		pts[i], _ = world.TransformPoint(p)
	}
	stroke := toRGBA(f.shade(mat, center, f.viewDir(center)))
	width := math.Max(float64(mat.LineWidth()), 1)

	return drawItem{
		depth: f.cam.ViewDepth(center),
		paint: func(ctx *gg.Context) error {
			started, segments := false, 0
			for _, p := range pts {
				x, y, ok := f.project(p)
				if !ok {
					started = false
					continue
				}
				if started {
					ctx.LineTo(x, y)
					segments++
				} else {
					ctx.MoveTo(x, y)
				}
				started = true
			}
			if segments == 0 {
				ctx.ClearPath()
				return nil
			}
			ctx.SetStrokeBrush(gg.Solid(stroke))
			ctx.SetLineWidth(width)
			ctx.SetLineCap(gg.LineCapRound)
			return ctx.Stroke()
		},
	}
}

// shadows returns the shadow discs that shadow-casting lights throw from casters onto the top faces of receivers.
func (f *frameState) shadows(cfg light.ShadowConfig, casters []caster, receivers []receiver) []drawItem {
	if !cfg.Enabled || len(casters) == 0 || len(receivers) == 0 {
		return nil
	}

	var items []drawItem
	for _, l := range f.lights {
		if !l.CastsShadows() {
			continue
		}
		for _, rc := range receivers {
			half := rc.geom.Size.Scale(0.5)
			top, _ := rc.world.TransformPoint(common.Vec3{0, half.Y(), 0})
			minX, maxX, minZ, maxZ := horizontalExtent(rc)

			for _, c := range casters {
				hit, mag, ok := cfg.ProjectOntoPlane(l, c.center, top.Y())
				if !ok || hit.X() < minX || hit.X() > maxX || hit.Z() < minZ || hit.Z() > maxZ {
					continue
				}
				items = append(items, f.shadowDisc(cfg, hit, c.radius*mag))
			}
		}
	}
	return items
}

func (f *frameState) shadowDisc(cfg light.ShadowConfig, center common.Vec3, radius float32) drawItem {
	return drawItem{
		depth: f.cam.ViewDepth(center),
		paint: func(ctx *gg.Context) error {
			shade := gg.RGBA{A: float64(cfg.Darkness)}
			for i := 0; i < shadowSegments; i++ {
				a := 2 * math32.Pi * float32(i) / shadowSegments
				p := center.Add(common.Vec3{math32.Cos(a) * radius, 0, math32.Sin(a) * radius})
				x, y, ok := f.project(p)
				if !ok {
					ctx.ClearPath()
					return nil
				}
				if i == 0 {
					ctx.MoveTo(x, y)
				} else {
					ctx.LineTo(x, y)
				}
			}
			ctx.ClosePath()

			if !cfg.Soft {
				ctx.SetFillBrush(gg.Solid(shade))
				return ctx.Fill()
			}
			cx, cy, _ := f.project(center)
			ex, ey, _ := f.project(center.Add(common.Vec3{radius, 0, 0}))
			ctx.SetFillBrush(gg.NewRadialGradientBrush(cx, cy, 0, math.Hypot(ex-cx, ey-cy)).
				AddColorStop(0, shade).
				AddColorStop(0.6, shade).
				AddColorStop(1, gg.RGBA{}))
			return ctx.Fill()
		},
	}
}

// horizontalExtent returns the world-space x and z range covered by a receiver box.
func horizontalExtent(rc receiver) (minX, maxX, minZ, maxZ float32) {
	minX, minZ = math32.Inf(1), math32.Inf(1)
	maxX, maxZ = math32.Inf(-1), math32.Inf(-1)
	for _, c := range rc.geom.BoxCorners() {
		p, _ := rc.world.TransformPoint(c)
		minX, maxX = math32.Min(minX, p.X()), math32.Max(maxX, p.X())
		minZ, maxZ = math32.Min(minZ, p.Z()), math32.Max(maxZ, p.Z())
	}
	return minX, maxX, minZ, maxZ
}

func toRGBA(c common.Color) gg.RGBA {
	return gg.RGBA{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)}
}
