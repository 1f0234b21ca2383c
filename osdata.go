package statbeat

import (
	"strconv"

	"github.com/statbeat/statbeat-go/charts"
	"github.com/statbeat/statbeat-go/internal/osinfo"
)

// AppendOSData adds the standard host fields to an envelope section.
// Intended for use as (or from) an AppendPlatformData accessor.
func AppendOSData(data map[string]any) {
	data["osName"] = osinfo.Name()
	data["osArch"] = osinfo.Arch()
	data["osVersion"] = osinfo.Release()
	data["coreCount"] = osinfo.CoreCount()
}

// OSCharts returns the standard host charts: OS name, architecture and
// logical core count pies.
func OSCharts() []charts.Chart {
	return []charts.Chart{
		charts.NewSimplePie("os_name", func() (string, error) {
			return osinfo.Name(), nil
		}),
		charts.NewSimplePie("os_arch", func() (string, error) {
			return osinfo.Arch(), nil
		}),
		charts.NewSimplePie("core_count", func() (string, error) {
			return strconv.Itoa(osinfo.CoreCount()), nil
		}),
	}
}
