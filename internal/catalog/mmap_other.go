//go:build !unix

package catalog

import "os"

const mmapSupported = false

func mapRegion(f *os.File, offset int64, length int) (store, error) {
	return nil, errMmapUnsupported
}
