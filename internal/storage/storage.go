// Package storage reports the capacity of mounted volumes.
package storage

import (
	"slices"
	"strings"

	serr "fpick/internal/errors"
	"fpick/internal/log"

	"github.com/moby/sys/mountinfo"
)

// Usage is the capacity of the filesystem holding a path, in bytes
type Usage struct {
	Path      string
	Total     uint64
	Free      uint64
	Available uint64
	ReadOnly  bool
}

// Used returns the bytes in use
func (u Usage) Used() uint64 {
	return u.Total - u.Free
}

// Volume is one mounted filesystem
type Volume struct {
	Device     string
	MountPoint string
	FSType     string
	ReadOnly   bool
	Usage      Usage
}

// MountTable is where the kernel lists the mounts of the current process
const MountTable = "/proc/self/mountinfo"

var pseudoFS = map[string]bool{
	"autofs": true, "binfmt_misc": true, "bpf": true, "cgroup": true,
	"cgroup2": true, "configfs": true, "debugfs": true, "devpts": true,
	"fusectl": true, "hugetlbfs": true, "mqueue": true, "nsfs": true,
	"proc": true, "pstore": true, "securityfs": true, "sysfs": true,
	"tracefs": true, "rpc_pipefs": true, "selinuxfs": true,
}

// skipPseudo is a mountinfo filter leaving out kernel pseudo filesystems
func skipPseudo(info *mountinfo.Info) (skip, stop bool) {
	return pseudoFS[info.FSType], false
}

// toVolumes converts mount table entries, in table order
func toVolumes(infos []*mountinfo.Info) []Volume {
	vols := make([]Volume, 0, len(infos))
	for _, info := range infos {
		vols = append(vols, Volume{
			Device:     info.Source,
			MountPoint: info.Mountpoint,
			FSType:     info.FSType,
			ReadOnly:   slices.Contains(strings.Split(info.Options, ","), "ro"),
		})
	}
	return vols
}

// Volumes lists the mounted volumes with their usage. A volume whose
// usage cannot be read is kept with zero sizes.
func Volumes() ([]Volume, error) {
	infos, err := mountinfo.GetMounts(skipPseudo)
	if err != nil {
		return nil, serr.NewFileError("cannot read mount table", MountTable, serr.ReadFailed, err)
	}

	vols := toVolumes(infos)
	for i := range vols {
		u, err := UsageOf(vols[i].MountPoint)
		if err != nil {
			log.LogWithFields(log.F("mount", vols[i].MountPoint)).WithError(err).Debug("no usage for volume")
			u = Usage{Path: vols[i].MountPoint}
		}
		u.ReadOnly = u.ReadOnly || vols[i].ReadOnly
		vols[i].Usage = u
	}
	return vols, nil
}
