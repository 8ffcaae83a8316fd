package storage

import (
	"strings"
	"testing"

	"github.com/moby/sys/mountinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMountinfo = `22 27 0:21 / /sys rw,nosuid,nodev,noexec,relatime shared:7 - sysfs sysfs rw
23 27 0:22 / /proc rw,nosuid,nodev,noexec,relatime shared:13 - proc proc rw
27 1 8:1 / / rw,relatime shared:1 - ext4 /dev/sda1 rw,errors=remount-ro
28 27 0:25 / /run rw,nosuid,nodev shared:5 - tmpfs tmpfs rw,size=1628244k,mode=755
40 27 8:17 / /media/USB\040Stick ro,relatime shared:30 - vfat /dev/sdb1 ro,fmask=0022
31 22 0:27 / /sys/fs/cgroup rw,nosuid shared:9 - cgroup2 cgroup2 rw
`

func TestMountTable(t *testing.T) {
	infos, err := mountinfo.GetMountsFromReader(strings.NewReader(sampleMountinfo), skipPseudo)
	require.NoError(t, err)

	vols := toVolumes(infos)
	require.Len(t, vols, 3)

	assert.Equal(t, "/dev/sda1", vols[0].Device)
	assert.Equal(t, "/", vols[0].MountPoint)
	assert.Equal(t, "ext4", vols[0].FSType)
	assert.False(t, vols[0].ReadOnly)

	assert.Equal(t, "tmpfs", vols[1].FSType)

	assert.Equal(t, "/media/USB Stick", vols[2].MountPoint)
	assert.True(t, vols[2].ReadOnly)
}

func TestVolumes(t *testing.T) {
	vols, err := Volumes()
	require.NoError(t, err)
	for _, v := range vols {
		assert.False(t, pseudoFS[v.FSType], v.MountPoint)
		assert.Equal(t, v.MountPoint, v.Usage.Path)
	}
}
