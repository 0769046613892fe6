package util

import (
	"fmt"
	"os"
	"syscall"
)

// FileStamp identifies one version of a file on disk.
type FileStamp struct {
	ModTime int64
	Size    int64
	Inode   uint64
}

// StatFile returns the stamp of the file at path.
func StatFile(path string) (FileStamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileStamp{}, err
	}
	sys, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return FileStamp{}, fmt.Errorf("failed to get file system information: %s", path)
	}
	return FileStamp{
		ModTime: info.ModTime().UnixNano(),
		Size:    info.Size(),
		Inode:   uint64(sys.Ino),
	}, nil
}
