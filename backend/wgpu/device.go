package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/blit"
)

// GPUInfo describes the adapter the backend runs on.
type GPUInfo struct {
	// Name is the adapter name (e.g., "NVIDIA GeForce RTX 3080").
	Name string
	// DeviceType is the adapter class (discrete, integrated, ...).
	DeviceType gputypes.DeviceType
}

// String returns a human-readable description of the adapter.
func (g *GPUInfo) String() string {
	return fmt.Sprintf("%s (%v)", g.Name, g.DeviceType)
}

// openDevice creates a standalone Vulkan device for rendering. It
// prefers a discrete GPU, then an integrated one, then whatever the
// instance exposes first.
func openDevice() (hal.Instance, hal.Device, hal.Queue, *GPUInfo, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, nil, nil, nil, fmt.Errorf("%w: vulkan backend not available", ErrNoGPU)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("wgpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, nil, nil, nil, ErrNoGPU
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		for i := range adapters {
			if adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
				selected = &adapters[i]
				break
			}
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, nil, nil, nil, fmt.Errorf("wgpu: open device: %w", err)
	}

	info := &GPUInfo{
		Name:       selected.Info.Name,
		DeviceType: selected.Info.DeviceType,
	}
	blit.Logger().Info("wgpu: GPU selected", "adapter", info.Name, "type", info.DeviceType)

	return instance, openDev.Device, openDev.Queue, info, nil
}
