package components

import (
	"github.com/spaghettifunk/gin/engine/math"
	"github.com/spaghettifunk/gin/engine/renderer/opengl"
)

// NewDirectionalLight returns LightSource values for a light shining along
// direction. LightVector carries w = 0 for directional lights.
func NewDirectionalLight(r *Registry, direction, color math.Vec3) *Values {
	v := NewValues(r, LightSource)
	v.Set(LightVector, opengl.Vec4(direction.Normalized().ToVec4(0)))
	v.Set(LightColor, opengl.Vec3(color))
	return v
}

// NewPointLight returns LightSource values for a light at position.
// LightVector carries w = 1 for point lights.
func NewPointLight(r *Registry, position, color math.Vec3) *Values {
	v := NewValues(r, LightSource)
	v.Set(LightVector, opengl.Vec4(position.ToVec4(1)))
	v.Set(LightColor, opengl.Vec3(color))
	return v
}
