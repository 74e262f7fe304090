package assets

import "github.com/spaghettifunk/gin/engine/resources"

// Loader turns a file of one resource type into a Resource. params is
// loader specific and may be nil.
type Loader interface {
	Load(path string, params any) (*resources.Resource, error)
	Unload(*resources.Resource) error
}
