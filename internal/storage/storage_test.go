package storage

import (
	"runtime"
	"testing"

	serr "fpick/internal/errors"

	"github.com/moby/sys/mountinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToVolumes(t *testing.T) {
	vols := toVolumes([]*mountinfo.Info{
		{Source: "/dev/sda1", Mountpoint: "/", FSType: "ext4", Options: "rw,relatime"},
		{Source: "/dev/sdb1", Mountpoint: "/media/USB Stick", FSType: "vfat", Options: "ro,relatime"},
		{Source: "tmpfs", Mountpoint: "/run", FSType: "tmpfs", Options: "rw,nosuid,nodev"},
	})
	require.Len(t, vols, 3)

	assert.Equal(t, Volume{Device: "/dev/sda1", MountPoint: "/", FSType: "ext4"}, vols[0])
	assert.Equal(t, "/media/USB Stick", vols[1].MountPoint)
	assert.True(t, vols[1].ReadOnly)
	assert.False(t, vols[2].ReadOnly, "nosuid is not ro")
}

func TestSkipPseudo(t *testing.T) {
	for fs, want := range map[string]bool{"sysfs": true, "cgroup2": true, "proc": true, "ext4": false, "tmpfs": false} {
		skip, stop := skipPseudo(&mountinfo.Info{FSType: fs})
		assert.Equal(t, want, skip, fs)
		assert.False(t, stop)
	}
}

func TestUsageOf(t *testing.T) {
	dir := t.TempDir()
	u, err := UsageOf(dir)
	if runtime.GOOS != "linux" {
		assert.Equal(t, serr.Unsupported, serr.KindOf(err))
		return
	}
	require.NoError(t, err)
	assert.Equal(t, dir, u.Path)
	assert.Greater(t, u.Total, uint64(0))
	assert.LessOrEqual(t, u.Available, u.Free)
	assert.LessOrEqual(t, u.Free, u.Total)
	assert.Equal(t, u.Total-u.Free, u.Used())

	_, err = UsageOf(dir + "/missing")
	assert.True(t, serr.IsFileNotFound(err))
}
