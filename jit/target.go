package jit

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/klauspost/cpuid/v2"
)

// Target describes the host the compiler generates code for.
type Target struct {
	OS       string
	Arch     string
	Vendor   string
	Brand    string
	Cores    int
	Features []string
}

func (t *Target) String() string {
	return fmt.Sprintf("%s/%s (%s)", t.OS, t.Arch, t.Brand)
}

var supportedTargets = map[string]map[string]bool{
	"linux": {"amd64": true, "arm64": true},
}

var (
	targetOnce    sync.Once
	targetReady   atomic.Bool
	nativeTarget  *Target
	nativeInitErr error
)

// InitNativeTarget detects the host CPU and checks that code can be generated
// for it. Detection runs once per process; later calls return the first
// result. It must succeed before Compiler.Compile is used.
func InitNativeTarget() (*Target, error) {
	targetOnce.Do(func() {
		nativeTarget, nativeInitErr = detectTarget(runtime.GOOS, runtime.GOARCH, probeCPU())
		targetReady.Store(nativeInitErr == nil)
	})

	return nativeTarget, nativeInitErr
}

func initializedTarget() (*Target, bool) {
	if !targetReady.Load() {
		return nil, false
	}

	return nativeTarget, true
}

// hostCPU is the part of the cpuid report the compiler depends on.
type hostCPU struct {
	vendor   string
	brand    string
	cores    int
	features []string
	x64Level int
	asimd    bool
}

func probeCPU() hostCPU {
	return hostCPU{
		vendor:   cpuid.CPU.VendorString,
		brand:    cpuid.CPU.BrandName,
		cores:    cpuid.CPU.PhysicalCores,
		features: cpuid.CPU.FeatureSet(),
		x64Level: cpuid.CPU.X64Level(),
		asimd:    cpuid.CPU.Supports(cpuid.ASIMD),
	}
}

// checkCPU verifies the baseline the encoders emit for: x86-64-v1 on amd64
// and Advanced SIMD (the armv8-a baseline) on arm64.
func checkCPU(goarch string, cpu hostCPU) error {
	switch goarch {
	case "amd64":
		if cpu.x64Level < 1 {
			return fmt.Errorf("%w: cpu does not report x86-64 baseline features",
				ErrUnsupportedTarget)
		}
	case "arm64":
		if !cpu.asimd {
			return fmt.Errorf("%w: cpu does not report ASIMD", ErrUnsupportedTarget)
		}
	}

	return nil
}

func detectTarget(goos, goarch string, cpu hostCPU) (*Target, error) {
	t := &Target{
		OS:       goos,
		Arch:     goarch,
		Vendor:   cpu.vendor,
		Brand:    cpu.brand,
		Cores:    cpu.cores,
		Features: cpu.features,
	}

	if t.Brand == "" {
		t.Brand = "unknown cpu"
	}

	if !supportedTargets[goos][goarch] {
		return t, fmt.Errorf("%w: %s/%s", ErrUnsupportedTarget, goos, goarch)
	}

	if err := checkCPU(goarch, cpu); err != nil {
		return t, err
	}

	return t, nil
}

func backendFor(arch string) (func() backend, error) {
	switch arch {
	case "amd64":
		return newX86Backend, nil
	case "arm64":
		return newARM64Backend, nil
	default:
		return nil, fmt.Errorf("%w: no code generator for %s", ErrUnsupportedTarget, arch)
	}
}
