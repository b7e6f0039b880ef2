package desktop

import "github.com/taigrr/meshview/pkg/models"

// firstReadable returns the first path with a mesh extension. Dropping
// several files loads only one, matching the single-mesh viewer.
func firstReadable(paths []string) (string, bool) {
	for _, p := range paths {
		if models.CanRead(p) {
			return p, true
		}
	}
	return "", false
}
