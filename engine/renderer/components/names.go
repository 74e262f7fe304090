package components

// Well known component names, registered by NewDefaultRegistry.
const (
	AmbientColor   = "AmbientColor"
	DiffuseColor   = "DiffuseColor"
	SpecularColor  = "SpecularColor"
	Shininess      = "Shininess"
	DiffuseTexture = "DiffuseTexture"

	LightVector = "LightVector"
	LightColor  = "LightColor"

	ModelViewProjection = "ModelViewProjection"
	Model               = "Model"
	NormalMatrix        = "NormalMatrix"
	ViewPosition        = "ViewPosition"
)
