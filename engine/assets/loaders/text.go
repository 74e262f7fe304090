package loaders

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/gin/engine/resources"
)

// TextLoader reads a file as a string.
type TextLoader struct{}

func (tl *TextLoader) Load(path string, params any) (*resources.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &resources.Resource{
		Name:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		FullPath: path,
		Type:     resources.ResourceTypeText,
		DataSize: uint64(len(data)),
		Data:     string(data),
	}, nil
}

func (tl *TextLoader) Unload(*resources.Resource) error {
	return nil
}
