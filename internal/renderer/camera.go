// camera.go
package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is read by Transformation and moved by game logic.
type Camera struct {
	Position mgl32.Vec3 // world space
	Rotation mgl32.Vec3 // pitch, yaw, roll in degrees
}

func NewCamera() *Camera {
	return &Camera{}
}

func (c *Camera) SetPosition(x, y, z float32) {
	c.Position = mgl32.Vec3{x, y, z}
}

// MovePosition moves the camera relative to where it faces: offsetZ goes
// forward/backward along the yaw direction, offsetX strafes, offsetY is
// straight up or down.
func (c *Camera) MovePosition(offsetX, offsetY, offsetZ float32) {
	yaw := float64(mgl32.DegToRad(c.Rotation.Y()))
	if offsetZ != 0 {
		c.Position[0] += float32(math.Sin(yaw)) * -1 * offsetZ
		c.Position[2] += float32(math.Cos(yaw)) * offsetZ
	}
	if offsetX != 0 {
		strafe := yaw - math.Pi/2
		c.Position[0] += float32(math.Sin(strafe)) * -1 * offsetX
		c.Position[2] += float32(math.Cos(strafe)) * offsetX
	}
	c.Position[1] += offsetY
}

// PositionAfterMove returns where MovePosition would place the camera
// without moving it.
func (c *Camera) PositionAfterMove(offsetX, offsetY, offsetZ float32) mgl32.Vec3 {
	probe := *c
	probe.MovePosition(offsetX, offsetY, offsetZ)
	return probe.Position
}

func (c *Camera) SetRotation(x, y, z float32) {
	c.Rotation = mgl32.Vec3{x, y, z}
}

func (c *Camera) MoveRotation(offsetX, offsetY, offsetZ float32) {
	c.Rotation = c.Rotation.Add(mgl32.Vec3{offsetX, offsetY, offsetZ})
}
