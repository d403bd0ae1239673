package util

import "strings"

// RenamePair is one old/new path pair from a plan or history entry's rename
// list, abstracted from either concrete type so RemapPath can be shared
// between internal/apply and internal/history.
type RenamePair struct {
	Old string
	New string
}

// RemapPath returns where path currently lives after pairs have been
// performed on disk, in the same order they were physically applied. An
// exact match replaces the whole path (the file itself was renamed); a
// match against an ancestor directory replaces just that prefix (the file
// sits inside a renamed directory, content-rewritten or not). Renames that
// don't touch path or one of its ancestors leave it unchanged.
//
// pairs must be in the order the renames were actually performed (deepest
// first, matching how the apply engine's rename phase and the plan
// builder's depth-descending sort order the renames), so a parent-directory
// pair checked later in the loop sees the path already updated by any
// deeper child-directory pair.
func RemapPath(path string, pairs []RenamePair) string {
	for _, pr := range pairs {
		if path == pr.Old {
			path = pr.New
			continue
		}
		prefix := pr.Old + "/"
		if strings.HasPrefix(path, prefix) {
			path = pr.New + path[len(pr.Old):]
		}
	}
	return path
}
