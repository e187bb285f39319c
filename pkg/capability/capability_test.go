// Test Type: Unit Test
// Description: Tests for dxdiag export parsing and capability checks

package capability_test

import (
	"testing"

	"github.com/Alaxouche/loadout/pkg/capability"
	"github.com/Alaxouche/loadout/pkg/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = `<?xml version="1.0" encoding="UTF-8"?>
<DxDiag>
  <SystemInformation>
    <Machine>TESTBOX</Machine>
  </SystemInformation>
  <DisplayDevices>
    <DisplayDevice>
      <CardName>NVIDIA GeForce RTX 3080</CardName>
      <DriverModel>WDDM 3.0</DriverModel>
    </DisplayDevice>
    <DisplayDevice>
      <CardName>Intel(R) UHD Graphics 770</CardName>
      <DriverModel>WDDM 2.7</DriverModel>
    </DisplayDevice>
  </DisplayDevices>
</DxDiag>`

func TestParseReport(t *testing.T) {
	t.Run("max_version_across_devices", func(t *testing.T) {
		report, err := capability.ParseReport([]byte(sampleExport))
		require.NoError(t, err)
		assert.Equal(t, 3.0, report.MaxWDDM)
		assert.Equal(t, []string{"NVIDIA GeForce RTX 3080", "Intel(R) UHD Graphics 770"}, report.Devices)
	})

	t.Run("device_without_wddm_model_is_listed_but_ignored", func(t *testing.T) {
		xml := `<DxDiag><DisplayDevices><DisplayDevice>
			<CardName>Legacy Adapter</CardName>
			<DriverModel>XDDM</DriverModel>
		</DisplayDevice></DisplayDevices></DxDiag>`

		report, err := capability.ParseReport([]byte(xml))
		require.NoError(t, err)
		assert.Zero(t, report.MaxWDDM)
		assert.Equal(t, []string{"Legacy Adapter"}, report.Devices)
	})

	t.Run("no_display_devices_yields_empty_report", func(t *testing.T) {
		report, err := capability.ParseReport([]byte(`<DxDiag></DxDiag>`))
		require.NoError(t, err)
		assert.Zero(t, report.MaxWDDM)
		assert.Empty(t, report.Devices)
	})

	t.Run("malformed_xml_is_an_error", func(t *testing.T) {
		_, err := capability.ParseReport([]byte(`<DxDiag><unclosed`))
		assert.Error(t, err)
	})

	t.Run("unparseable_version_is_skipped", func(t *testing.T) {
		xml := `<DxDiag><DisplayDevices>
			<DisplayDevice><DriverModel>WDDM future</DriverModel></DisplayDevice>
			<DisplayDevice><DriverModel>WDDM 2.9</DriverModel></DisplayDevice>
		</DisplayDevices></DxDiag>`

		report, err := capability.ParseReport([]byte(xml))
		require.NoError(t, err)
		assert.Equal(t, 2.9, report.MaxWDDM)
	})
}

func TestDLSSCapable(t *testing.T) {
	assert.True(t, capability.DLSSCapable(&capability.Report{MaxWDDM: 3.0}, 2.9))
	assert.True(t, capability.DLSSCapable(&capability.Report{MaxWDDM: 2.9}, 2.9))
	assert.False(t, capability.DLSSCapable(&capability.Report{MaxWDDM: 2.7}, 2.9))
	assert.False(t, capability.DLSSCapable(nil, 2.9))
}

func TestReportCache(t *testing.T) {
	const cachePath = "/cache/capability.json"

	t.Run("round_trip", func(t *testing.T) {
		fsys := filesystem.NewMemory()
		capability.StoreReport(fsys, cachePath, &capability.Report{MaxWDDM: 3.1, Devices: []string{"GPU"}})

		got, ok := capability.CachedReport(fsys, cachePath)
		require.True(t, ok)
		assert.Equal(t, 3.1, got.MaxWDDM)
		assert.Equal(t, []string{"GPU"}, got.Devices)
	})

	t.Run("missing_cache_reads_as_absent", func(t *testing.T) {
		fsys := filesystem.NewMemory()
		_, ok := capability.CachedReport(fsys, cachePath)
		assert.False(t, ok)
	})

	t.Run("corrupt_cache_reads_as_absent", func(t *testing.T) {
		fsys := filesystem.NewMemory()
		require.NoError(t, fsys.WriteFile(cachePath, []byte("not json"), 0644))
		_, ok := capability.CachedReport(fsys, cachePath)
		assert.False(t, ok)
	})
}
