package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewCamera(t *testing.T) {
	cam := NewCamera()

	assert.NotNil(t, cam)
	assert.Equal(t, mgl32.Vec3{}, cam.Position)
	assert.Equal(t, mgl32.Vec3{}, cam.Rotation)
}

func TestCameraMoveForward(t *testing.T) {
	cam := NewCamera()

	// Positive Z offsets move backwards, away from the -Z view direction.
	cam.MovePosition(0, 0, -1)

	assertVec3Near(t, mgl32.Vec3{0, 0, -1}, cam.Position, 1e-6)
}

func TestCameraStrafeFollowsYaw(t *testing.T) {
	cam := NewCamera()
	cam.MovePosition(1, 0, 0)
	assertVec3Near(t, mgl32.Vec3{1, 0, 0}, cam.Position, 1e-6)

	// a quarter turn leaves a float residue of about 4e-8 on Z
	cam = NewCamera()
	cam.SetRotation(0, 90, 0)
	cam.MovePosition(0, 0, -1)
	assertVec3Near(t, mgl32.Vec3{1, 0, 0}, cam.Position, 1e-6)
}

func TestCameraVerticalMove(t *testing.T) {
	cam := NewCamera()
	cam.SetRotation(0, 45, 0)
	cam.MovePosition(0, 2, 0)

	assert.Equal(t, mgl32.Vec3{0, 2, 0}, cam.Position, "vertical moves ignore yaw")
}

func TestPositionAfterMoveDoesNotMove(t *testing.T) {
	cam := NewCamera()
	cam.SetPosition(1, 2, 3)

	next := cam.PositionAfterMove(0, 0, -1)

	assert.Equal(t, mgl32.Vec3{1, 2, 3}, cam.Position)
	assertVec3Near(t, mgl32.Vec3{1, 2, 2}, next, 1e-6)
}

func TestCameraMoveRotation(t *testing.T) {
	cam := NewCamera()
	cam.MoveRotation(10, 20, 0)
	cam.MoveRotation(-5, 5, 0)

	assert.Equal(t, mgl32.Vec3{5, 25, 0}, cam.Rotation)
}
