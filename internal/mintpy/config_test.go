package mintpy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildConfig(t *testing.T) {
	content, err := BuildConfig(ConfigOptions{ProductDir: "/data/products"})
	require.NoError(t, err)

	assert.Contains(t, content, "mintpy.load.processor = hyp3\n")
	assert.Contains(t, content,
		"mintpy.load.unwFile = "+filepath.Join("/data/products", "*", "*_unw_phase_clipped.tif")+"\n")
	assert.Contains(t, content,
		"mintpy.load.corFile = "+filepath.Join("/data/products", "*", "*_corr_clipped.tif")+"\n")
	assert.Contains(t, content,
		"mintpy.load.demFile = "+filepath.Join("/data/products", "*", "*_dem_clipped.tif")+"\n")
	assert.Contains(t, content,
		"mintpy.load.incAngleFile = "+filepath.Join("/data/products", "*", "*_lv_theta_clipped.tif")+"\n")
	assert.Contains(t, content,
		"mintpy.load.waterMaskFile = "+filepath.Join("/data/products", "*", "*_water_mask_clipped.tif")+"\n")
	assert.Contains(t, content, "mintpy.troposphericDelay.method = no\n")
}

func TestBuildConfigOverrides(t *testing.T) {
	content, err := BuildConfig(ConfigOptions{
		ProductDir:        "/data/products",
		Processor:         "isce",
		TroposphericDelay: "pyaps",
		Extra: map[string]string{
			"mintpy.reference.lalo": "35.7,-117.5",
			"mintpy.load.processor": "gamma",
		},
	})
	require.NoError(t, err)

	assert.Contains(t, content, "mintpy.load.processor = gamma\n")
	assert.Contains(t, content, "mintpy.troposphericDelay.method = pyaps\n")
	assert.Contains(t, content, "mintpy.reference.lalo = 35.7,-117.5\n")
}

func TestBuildConfigSortedAndStable(t *testing.T) {
	first, err := BuildConfig(ConfigOptions{ProductDir: "/data"})
	require.NoError(t, err)
	second, err := BuildConfig(ConfigOptions{ProductDir: "/data"})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	lines := strings.Split(strings.TrimSpace(first), "\n")
	assert.IsIncreasing(t, lines)
}

func TestBuildConfigRequiresProductDir(t *testing.T) {
	_, err := BuildConfig(ConfigOptions{})
	assert.Error(t, err)
}

func TestWriteConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "work", "smallbaselineApp.cfg")

	require.NoError(t, WriteConfig(path, ConfigOptions{ProductDir: "/data/products"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mintpy.load.processor = hyp3")
}
