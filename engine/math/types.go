package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 represents a 4D vector
type Vec4 struct {
	X, Y, Z, W float32
}

/** @brief A 3x3 matrix, stored column by column. */
type Mat3 struct {
	Data [9]float32
}

/**
 * @brief A 4x4 matrix, stored column by column. Vectors are multiplied on
 * the left, so a model-view-projection is model.Mul(view).Mul(projection).
 */
type Mat4 struct {
	Data [16]float32
}

/**
 * @brief Represents a single vertex in 3D space. The layout matches the
 * interleaved position/normal/texcoord vertex buffer.
 */
type Vertex3D struct {
	Position Vec3
	Normal   Vec3
	Texcoord Vec2
}

/**
 * @brief Represents a single vertex in 2D space, as drawn by the UI.
 */
type Vertex2D struct {
	Position Vec2
	Texcoord Vec2
}

/**
 * @brief The position, euler rotation (radians) and scale of an object.
 */
type Transform struct {
	Position Vec3
	Rotation Vec3
	Scale    Vec3
}
