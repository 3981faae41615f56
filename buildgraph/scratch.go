package buildgraph

import (
	"os"
	"path/filepath"
)

func writeFileAtomic(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ScratchPath joins a directory name under root, the convention every step
// uses to write partial outputs so an aborted step leaves no half-written
// artefact in the user-visible destination. OffloadLibrary passes a
// content-addressed hash as dirName; DeviceObject passes the fixed name
// "device-object".
func ScratchPath(root, dirName string, parts ...string) string {
	elems := append([]string{root, dirName}, parts...)
	return filepath.Join(elems...)
}
