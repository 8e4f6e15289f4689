package memfs

import "strings"

// splitPath breaks a slash-separated path into its directory
// components and final element, skipping empty and "." segments, the
// same normalization the client's Walk performs on its side of the
// wire.
func splitPath(path string) (dir []string, base string) {
	var all []string
	for _, p := range strings.Split(path, "/") {
		if p == "" || p == "." {
			continue
		}
		all = append(all, p)
	}
	if len(all) == 0 {
		return nil, ""
	}
	return all[:len(all)-1], all[len(all)-1]
}
