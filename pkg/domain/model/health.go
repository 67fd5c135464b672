package model

import "github.com/m-mizutani/doclingo/pkg/domain/types"

// DeviceInfo describes the compute device detected at process start
type DeviceInfo struct {
	Device        string   `json:"device"`
	CUDAAvailable bool     `json:"cuda_available"`
	GPUNames      []string `json:"gpu_names,omitempty"`
	CUDAVersion   string   `json:"cuda_version,omitempty"`
}

const (
	DeviceCPU  = "cpu"
	DeviceCUDA = "cuda"
)

// CPUDevice is reported whenever no accelerator could be found
func CPUDevice() DeviceInfo {
	return DeviceInfo{Device: DeviceCPU}
}

// HealthStatus represents the health check status
type HealthStatus struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Device        string `json:"device"`
	CUDAAvailable bool   `json:"cuda_available"`
	GPUName       string `json:"gpu_name,omitempty"`
	GPUCount      int    `json:"gpu_count,omitempty"`
	CUDAVersion   string `json:"cuda_version,omitempty"`
}

// NewHealthStatus builds the health report for device
func NewHealthStatus(device DeviceInfo) *HealthStatus {
	status := &HealthStatus{
		Status:        "healthy",
		Version:       types.Version,
		Device:        device.Device,
		CUDAAvailable: device.CUDAAvailable,
	}
	if status.Device == "" {
		status.Device = DeviceCPU
	}

	if device.CUDAAvailable && len(device.GPUNames) > 0 {
		status.GPUName = device.GPUNames[0]
		status.GPUCount = len(device.GPUNames)
		status.CUDAVersion = device.CUDAVersion
	}

	return status
}
