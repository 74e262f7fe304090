package components

import (
	"github.com/spaghettifunk/gin/engine/math"
	"github.com/spaghettifunk/gin/engine/renderer/opengl"
)

/**
 * @brief A perspective camera. It produces the Vertex class components the
 * forward renderer hands to every program.
 */
type Camera struct {
	/**
	 * @brief The position of this camera.
	 * NOTE: Do not set this directly, use SetPosition() so the view matrix
	 * is recalculated when needed.
	 */
	Position math.Vec3
	/**
	 * @brief The rotation of this camera using Euler angles (pitch, yaw, roll).
	 * NOTE: Do not set this directly, use SetEulerRotation().
	 */
	EulerRotation math.Vec3
	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	IsDirty bool
	/** @brief Read it with GetView(). */
	ViewMatrix math.Mat4
	Projection math.Mat4
}

/** @brief The name of the default camera. */
const DEFAULT_CAMERA_NAME string = "default"

func NewCamera() *Camera {
	camera := &Camera{}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.EulerRotation = math.NewVec3Zero()
	c.Position = math.NewVec3Zero()
	c.IsDirty = false
	c.ViewMatrix = math.NewMat4Identity()
	c.Projection = math.NewMat4Identity()
}

// SetPerspective sets the projection; fov is the vertical angle in radians.
func (c *Camera) SetPerspective(fov, aspect, near, far float32) {
	c.Projection = math.NewMat4Perspective(fov, aspect, near, far)
}

func (c *Camera) GetPosition() math.Vec3 {
	return c.Position
}

func (c *Camera) SetPosition(position math.Vec3) {
	c.Position = position
	c.IsDirty = true
}

func (c *Camera) GetEulerRotation() math.Vec3 {
	return c.EulerRotation
}

func (c *Camera) SetEulerRotation(rotation math.Vec3) {
	c.EulerRotation = rotation
	c.IsDirty = true
}

func (c *Camera) GetView() math.Mat4 {
	if c.IsDirty {
		rotation := math.NewMat4EulerXYZ(c.EulerRotation.X, c.EulerRotation.Y, c.EulerRotation.Z)
		translation := math.NewMat4Translation(c.Position)
		c.ViewMatrix = rotation.Mul(translation).Inverse()
		c.IsDirty = false
	}
	return c.ViewMatrix
}

func (c *Camera) Forward() math.Vec3 { return c.GetView().Forward() }

func (c *Camera) Right() math.Vec3 { return c.GetView().Right() }

func (c *Camera) MoveForward(amount float32) { c.move(c.Forward(), amount) }

func (c *Camera) MoveBackward(amount float32) { c.move(c.Forward(), -amount) }

func (c *Camera) MoveLeft(amount float32) { c.move(c.Right(), -amount) }

func (c *Camera) MoveRight(amount float32) { c.move(c.Right(), amount) }

func (c *Camera) MoveUp(amount float32) { c.move(math.NewVec3Up(), amount) }

func (c *Camera) MoveDown(amount float32) { c.move(math.NewVec3Down(), amount) }

func (c *Camera) move(direction math.Vec3, amount float32) {
	c.Position = c.Position.Add(direction.MulScalar(amount))
	c.IsDirty = true
}

func (c *Camera) Yaw(amount float32) {
	c.EulerRotation.Y += amount
	c.IsDirty = true
}

func (c *Camera) Pitch(amount float32) {
	c.EulerRotation.X += amount

	// Clamp to avoid Gimbal lock.
	limit := float32(1.55334306) // 89 degrees
	c.EulerRotation.X = math.Clamp(c.EulerRotation.X, -limit, limit)
	c.IsDirty = true
}

// FillVertex writes the Vertex class components for an object placed by
// model into values.
func (c *Camera) FillVertex(values *Values, model math.Mat4) {
	r := values.Registry()
	set := func(name string, v opengl.Value) {
		if comp, ok := r.Lookup(Vertex, name); ok {
			values.SetComponent(comp, v)
		}
	}
	set(ModelViewProjection, opengl.Mat4(model.Mul(c.GetView()).Mul(c.Projection)))
	set(Model, opengl.Mat4(model))
	set(NormalMatrix, opengl.Mat3(model.Inverse().Transposed().Mat3()))
	set(ViewPosition, opengl.Vec3(c.Position))
}
