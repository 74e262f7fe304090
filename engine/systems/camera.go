package systems

import (
	"fmt"

	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/renderer/components"
)

type cameraReference struct {
	camera *components.Camera
	refs   uint16
}

type CameraSystem struct {
	Config  *CameraSystemConfig
	cameras map[string]*cameraReference
	// A default, non-registered camera that always exists as a fallback.
	DefaultCamera *components.Camera
}

/** @brief The camera system configuration. */
type CameraSystemConfig struct {
	/** @brief The maximum number of cameras that can be managed by the system. */
	MaxCameraCount uint16
}

func NewCameraSystem(config *CameraSystemConfig) (*CameraSystem, error) {
	if config.MaxCameraCount == 0 {
		err := fmt.Errorf("func NewCameraSystem - config.MaxCameraCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &CameraSystem{
		Config:        config,
		cameras:       make(map[string]*cameraReference),
		DefaultCamera: components.NewCamera(),
	}, nil
}

func (cs *CameraSystem) Shutdown() error {
	clear(cs.cameras)
	return nil
}

/**
 * @brief Acquires a camera by name. If one is not found, a new one is
 * created. The reference counter is incremented.
 */
func (cs *CameraSystem) Acquire(name string) (*components.Camera, error) {
	if name == components.DEFAULT_CAMERA_NAME {
		return cs.DefaultCamera, nil
	}
	ref, ok := cs.cameras[name]
	if !ok {
		if len(cs.cameras) >= int(cs.Config.MaxCameraCount) {
			err := fmt.Errorf("func CameraSystemAcquire failed to acquire new slot. Adjust camera system config to allow more")
			core.LogError(err.Error())
			return nil, err
		}
		core.LogDebug("Creating new camera named '%s'...", name)
		ref = &cameraReference{camera: components.NewCamera()}
		cs.cameras[name] = ref
	}
	ref.refs++
	return ref.camera, nil
}

/**
 * @brief Releases a camera with the given name. If the reference counter
 * reaches 0, the camera is dropped.
 */
func (cs *CameraSystem) Release(name string) {
	if name == components.DEFAULT_CAMERA_NAME {
		core.LogDebug("Cannot release default camera. Nothing was done.")
		return
	}
	ref, ok := cs.cameras[name]
	if !ok {
		core.LogWarn("CameraSystemRelease failed lookup. Nothing was done.")
		return
	}
	ref.refs--
	if ref.refs == 0 {
		delete(cs.cameras, name)
	}
}

func (cs *CameraSystem) GetDefault() *components.Camera {
	return cs.DefaultCamera
}
