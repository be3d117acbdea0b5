package vrptw

import (
	"fmt"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

// GetSysInfo collects the platform, CPU model and RAM size of the machine
// running the solver. Fields that cannot be read stay empty.
func GetSysInfo() SysInfo {
	var info SysInfo
	if hostStat, err := host.Info(); err == nil {
		info.Platform = hostStat.Platform
	} else {
		Log(3, "host info: %v", err)
	}
	if cpuStat, err := cpu.Info(); err == nil && len(cpuStat) > 0 {
		info.CPU = cpuStat[0].ModelName
	} else if err != nil {
		Log(3, "cpu info: %v", err)
	}
	if vmStat, err := mem.VirtualMemory(); err == nil {
		info.RAM = fmt.Sprintf("%d GB", vmStat.Total/1024/1024/1024)
	} else {
		Log(3, "memory info: %v", err)
	}
	return info
}
