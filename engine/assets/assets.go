package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/gin/engine/assets/loaders"
	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/resources"
)

// AssetInfo is one indexed file. Name is the file name without its
// extension.
type AssetInfo struct {
	Name    string
	Path    string
	Type    resources.ResourceType
	ModTime time.Time
}

type assetKey struct {
	typ  resources.ResourceType
	name string
}

// AssetManager indexes the files under a directory by type and name and
// loads them with the loader registered for their type. With Watch, file
// changes are collected in the background and handed to subscribers by
// Poll, on the caller's goroutine.
type AssetManager struct {
	dir     string
	assets  map[assetKey]AssetInfo
	loaders map[resources.ResourceType]Loader

	mutex   sync.RWMutex
	changed map[string]AssetInfo

	subscribers []func(AssetInfo)

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

func NewAssetManager(dir string) (*AssetManager, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("asset directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("asset directory %s is not a directory", dir)
	}

	am := &AssetManager{
		dir:     dir,
		assets:  make(map[assetKey]AssetInfo),
		loaders: make(map[resources.ResourceType]Loader),
		changed: make(map[string]AssetInfo),
	}
	am.RegisterLoader(resources.ResourceTypeShader, &loaders.ShaderLoader{})
	am.RegisterLoader(resources.ResourceTypeMaterial, &loaders.MaterialLoader{})
	am.RegisterLoader(resources.ResourceTypeImage, &loaders.ImageLoader{})
	am.RegisterLoader(resources.ResourceTypeShaderSource, &loaders.TextLoader{})
	am.RegisterLoader(resources.ResourceTypeText, &loaders.TextLoader{})
	am.RegisterLoader(resources.ResourceTypeBitmapFont, &loaders.BitmapFontLoader{})

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		am.index(path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	core.LogInfo("indexed %d assets under %s", len(am.assets), dir)
	return am, nil
}

func (am *AssetManager) Dir() string { return am.dir }

// RegisterLoader sets the loader used for a resource type, replacing any
// previous one.
func (am *AssetManager) RegisterLoader(assetType resources.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// Lookup finds an indexed asset.
func (am *AssetManager) Lookup(name string, resourceType resources.ResourceType) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	info, ok := am.assets[assetKey{resourceType, name}]
	return info, ok
}

// Assets returns the indexed assets of a type, sorted by name.
func (am *AssetManager) Assets(resourceType resources.ResourceType) []AssetInfo {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	var out []AssetInfo
	for k, info := range am.assets {
		if k.typ == resourceType {
			out = append(out, info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LoadAsset loads the asset called name with the loader of its type.
func (am *AssetManager) LoadAsset(name string, resourceType resources.ResourceType, params any) (*resources.Resource, error) {
	asset, ok := am.Lookup(name, resourceType)
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", core.ErrUnknownResource, resourceType, name)
	}
	loader, ok := am.loaders[resourceType]
	if !ok {
		return nil, fmt.Errorf("no loader registered for asset type %s", resourceType)
	}
	res, err := loader.Load(asset.Path, params)
	if err != nil {
		core.LogError("failed to load %s %s: %s", resourceType, name, err)
		return nil, err
	}
	return res, nil
}

func (am *AssetManager) UnloadAsset(res *resources.Resource) error {
	loader, ok := am.loaders[res.Type]
	if !ok {
		return fmt.Errorf("no loader registered for asset type %s", res.Type)
	}
	return loader.Unload(res)
}

// Subscribe registers fn to be called by Poll for every changed asset.
func (am *AssetManager) Subscribe(fn func(AssetInfo)) {
	am.subscribers = append(am.subscribers, fn)
}

// Poll hands the assets changed since the previous call to the
// subscribers and returns how many there were. A file written several
// times in between is reported once.
func (am *AssetManager) Poll() int {
	am.mutex.Lock()
	if len(am.changed) == 0 {
		am.mutex.Unlock()
		return 0
	}
	changed := make([]AssetInfo, 0, len(am.changed))
	for _, info := range am.changed {
		changed = append(changed, info)
	}
	clear(am.changed)
	am.mutex.Unlock()

	sort.Slice(changed, func(i, j int) bool { return changed[i].Path < changed[j].Path })
	for _, info := range changed {
		core.LogInfo("asset %s changed", info.Path)
		for _, fn := range am.subscribers {
			fn(info)
		}
	}
	return len(changed)
}

// Watch starts watching the asset directory and all sub-directories.
func (am *AssetManager) Watch() error {
	if am.watcher != nil {
		return errors.New("asset manager is already watching")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	am.watcher = w
	am.done = make(chan struct{})
	if err := am.watchRecursive(am.dir); err != nil {
		w.Close()
		am.watcher = nil
		return err
	}
	am.wg.Add(1)
	go am.start()
	return nil
}

// Close stops watching. The index stays usable.
func (am *AssetManager) Close() error {
	if am.watcher == nil {
		return nil
	}
	close(am.done)
	am.wg.Wait()
	err := am.watcher.Close()
	am.watcher = nil
	return err
}

func (am *AssetManager) start() {
	defer am.wg.Done()
	for {
		select {
		case e, ok := <-am.watcher.Events:
			if !ok {
				return
			}
			am.handleEvent(e)
		case err, ok := <-am.watcher.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err)
		case <-am.done:
			return
		}
	}
}

func (am *AssetManager) handleEvent(e fsnotify.Event) {
	switch {
	case e.Has(fsnotify.Create) || e.Has(fsnotify.Write):
		s, err := os.Stat(e.Name)
		if err != nil {
			return
		}
		if s.IsDir() {
			if err := am.watchRecursive(e.Name); err != nil {
				core.LogError("failed to watch %s: %s", e.Name, err)
			}
			return
		}
		if info, ok := am.index(e.Name); ok {
			am.mutex.Lock()
			am.changed[info.Path] = info
			am.mutex.Unlock()
		}
	case e.Has(fsnotify.Remove) || e.Has(fsnotify.Rename):
		am.removeAsset(e.Name)
	}
}

// watchRecursive adds path and every directory below it, indexing the
// files found on the way.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return am.watcher.Add(p)
		}
		am.index(p)
		return nil
	})
}

func (am *AssetManager) index(path string) (AssetInfo, bool) {
	assetType := determineAssetType(path)
	if assetType == resources.ResourceTypeNone {
		return AssetInfo{}, false
	}
	info := AssetInfo{
		Name:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path:    path,
		Type:    assetType,
		ModTime: time.Now(),
	}
	if s, err := os.Stat(path); err == nil {
		info.ModTime = s.ModTime()
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	key := assetKey{assetType, info.Name}
	if prev, ok := am.assets[key]; ok && prev.Path != path {
		core.LogWarn("%s %s at %s shadows %s", assetType, info.Name, path, prev.Path)
	}
	am.assets[key] = info
	return info, true
}

// removeAsset drops a deleted file from the index.
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	for k, info := range am.assets {
		if info.Path == path {
			delete(am.assets, k)
		}
	}
	delete(am.changed, path)
}

func determineAssetType(path string) resources.ResourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shadercfg":
		return resources.ResourceTypeShader
	case ".vert", ".geom", ".frag", ".glsl":
		return resources.ResourceTypeShaderSource
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return resources.ResourceTypeImage
	case ".mat":
		return resources.ResourceTypeMaterial
	case ".txt":
		return resources.ResourceTypeText
	case ".fnt":
		return resources.ResourceTypeBitmapFont
	default:
		return resources.ResourceTypeNone
	}
}
