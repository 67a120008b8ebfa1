package stage

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
)

// asideSuffix names the temporary staging copy during a group fix-up.
// A crash mid-sequence can leave both the directory and its aside copy
// present; that state needs manual recovery and the suffix makes it
// findable.
const asideSuffix = ".original"

// intensitiesSubdir is the subdirectory that additionally gets its
// group fixed on the incoming -> analysis transition.
const intensitiesSubdir = "Data/Intensities"

// applyGroup rebuilds dir so that it and files created in it later
// belong to the named group: move dir aside, recreate it, move the
// children back, set group and setgid bit, remove the empty aside copy.
//
// The sequence is not atomic. It exists because a plain chown/chmod on
// a directory moved from another staging area does not make new files
// inherit the group; recreating the directory under the current mount
// does.
func applyGroup(dir, group string) error {
	grp, err := user.LookupGroup(group)
	if err != nil {
		return fmt.Errorf("lookup group %q: %w", group, err)
	}
	gid, err := strconv.Atoi(grp.Gid)
	if err != nil {
		return fmt.Errorf("group %q has non-numeric gid %q: %w", group, grp.Gid, err)
	}

	aside := dir + asideSuffix
	if err := os.Rename(dir, aside); err != nil {
		return fmt.Errorf("move aside: %w", err)
	}
	if err := os.Mkdir(dir, 0o775); err != nil {
		return fmt.Errorf("recreate %s: %w", dir, err)
	}

	entries, err := os.ReadDir(aside)
	if err != nil {
		return fmt.Errorf("list %s: %w", aside, err)
	}
	for _, entry := range entries {
		src := filepath.Join(aside, entry.Name())
		dst := filepath.Join(dir, entry.Name())
		if err := os.Rename(src, dst); err != nil {
			return fmt.Errorf("move back %s: %w", entry.Name(), err)
		}
	}

	if err := os.Chown(dir, -1, gid); err != nil {
		return fmt.Errorf("chown %s to group %s: %w", dir, group, err)
	}
	// setgid so files written into the directory inherit the group
	if err := os.Chmod(dir, 0o775|os.ModeSetgid); err != nil {
		return fmt.Errorf("chmod %s: %w", dir, err)
	}

	if err := os.Remove(aside); err != nil {
		return fmt.Errorf("remove %s: %w", aside, err)
	}
	return nil
}
