package viz

import (
	"math"
	"sort"

	"breathe/internal/swarm"
)

// Camera projects world-space swarm positions onto the canvas with a simple
// perspective transform and user-adjustable rotation.
type Camera struct {
	Distance         float64
	RotX, RotY, RotZ float64
	Zoom             float64
	WorldRadius      float64
}

func NewCamera(worldRadius float64) *Camera {
	return &Camera{
		Distance:    10,
		Zoom:        1,
		WorldRadius: worldRadius,
	}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(8, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.2, c.Zoom/1.2) }

func (c *Camera) rotate(p swarm.Vec3) swarm.Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project maps a world point to sub-pixel coordinates plus a depth in
// [0, 1], nearer is larger. ok is false when the point falls off screen or
// behind the eye.
func (c *Camera) Project(p swarm.Vec3, sw, sh int) (x, y int, depth float64, ok bool) {
	rot := c.rotate(p).Scale(c.Zoom / c.WorldRadius)
	if rot.Z >= c.Distance-0.1 {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z)
	minDim := float64(sh)
	if float64(sw) < minDim {
		minDim = float64(sw)
	}
	pScale := minDim / 2.6
	x = int(rot.X*scale*pScale) + sw/2
	y = int(-rot.Y*scale*pScale) + sh/2
	depth = rot.Z/2 + 0.5
	if depth < 0 {
		depth = 0
	}
	if depth > 1 {
		depth = 1
	}
	return x, y, depth, x >= 0 && x < sw && y >= 0 && y < sh
}

type projectedPoint struct {
	x, y  int
	depth float64
	user  bool
}

// RenderSwarm draws all live particles back to front with depth shading.
// User particles always take the brightest shade.
func RenderSwarm(c *Canvas, cam *Camera, arena *swarm.Arena) {
	sw, sh := c.Width*2, c.Height*4
	points := make([]projectedPoint, 0, arena.Len())
	arena.Each(func(_ swarm.Handle, pt *swarm.Particle) {
		x, y, depth, ok := cam.Project(pt.Position, sw, sh)
		if !ok {
			return
		}
		points = append(points, projectedPoint{x, y, depth, pt.Kind == swarm.KindUser})
	})

	sort.Slice(points, func(i, j int) bool { return points[i].depth < points[j].depth })
	for _, p := range points {
		shade := uint8(p.depth * numShades)
		if shade >= numShades {
			shade = numShades - 1
		}
		if p.user {
			shade = numShades - 1
		}
		c.Set(p.x, p.y, shade)
	}
}

// RenderSphere draws the breathing sphere's silhouette at the current scale.
func RenderSphere(c *Canvas, cam *Camera, scale float64) {
	sw, sh := c.Width*2, c.Height*4
	cx, cy, _, _ := cam.Project(swarm.Vec3{}, sw, sh)
	minDim := float64(sh)
	if float64(sw) < minDim {
		minDim = float64(sw)
	}
	r := int(scale / cam.WorldRadius * cam.Zoom * minDim / 2.6)
	c.DrawCircle(cx, cy, r, 1)
}
