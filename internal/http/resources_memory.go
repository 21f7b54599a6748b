package http

import (
	"github.com/shirou/gopsutil/v3/mem"
)

type memorySample struct {
	UsedPercent float64
	UsedMB      float64
	TotalMB     float64
}

func sampleMemory() (memorySample, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return memorySample{}, err
	}
	if vm == nil {
		return memorySample{}, nil
	}
	return memorySample{
		UsedPercent: vm.UsedPercent,
		UsedMB:      bytesToMB(vm.Used),
		TotalMB:     bytesToMB(vm.Total),
	}, nil
}

func bytesToMB(b uint64) float64 {
	return float64(b) / 1024 / 1024
}

func bytesToGB(b uint64) float64 {
	return float64(b) / 1024 / 1024 / 1024
}
