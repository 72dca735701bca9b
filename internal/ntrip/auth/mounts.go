package auth

import "github.com/google/btree"

// Mount is a (path, users) ACL record, keyed by path. users is an ordered
// set of shared references into the User store.
type Mount struct {
	Path  string
	users *btree.BTreeG[userItem]
}

func newMount(path string) *Mount {
	return &Mount{Path: path, users: btree.NewG(btreeDegree, userLess)}
}

// allow grants rec access on this mount.
func (m *Mount) allow(rec *User) {
	m.users.ReplaceOrInsert(userItem{name: rec.Name, user: rec})
}

// User looks up a permitted user by name within this mount's ACL.
func (m *Mount) User(name string) (*User, bool) {
	item, ok := m.users.Get(userItem{name: name})
	if !ok {
		return nil, false
	}
	return item.user, true
}

// UserCount reports how many users are permitted on this mount.
func (m *Mount) UserCount() int { return m.users.Len() }

// Usernames returns the permitted usernames in ascending order.
func (m *Mount) Usernames() []string {
	names := make([]string, 0, m.users.Len())
	m.users.Ascend(func(item userItem) bool {
		names = append(names, item.name)
		return true
	})
	return names
}

type mountItem struct {
	path  string
	mount *Mount
}

func mountLess(a, b mountItem) bool { return a.path < b.path }

// Mounts is the ordered mapping from mountpoint path to its ACL.
type Mounts struct {
	tree *btree.BTreeG[mountItem]
}

// NewMounts returns an empty Mount ACL store.
func NewMounts() *Mounts {
	return &Mounts{tree: btree.NewG(btreeDegree, mountLess)}
}

// Put inserts or replaces the ACL for path. On duplicate path the old ACL is
// released: its shared user references are simply
// dropped, the records themselves remain owned by the User store.
func (m *Mounts) Put(mount *Mount) {
	m.tree.ReplaceOrInsert(mountItem{path: mount.Path, mount: mount})
}

// Get looks up the ACL for an exact path.
func (m *Mounts) Get(path string) (*Mount, bool) {
	item, ok := m.tree.Get(mountItem{path: path})
	if !ok {
		return nil, false
	}
	return item.mount, true
}

// Len reports the number of distinct mountpoints with an ACL.
func (m *Mounts) Len() int { return m.tree.Len() }

// Paths returns the mountpoint paths in ascending order.
func (m *Mounts) Paths() []string {
	paths := make([]string, 0, m.tree.Len())
	m.tree.Ascend(func(item mountItem) bool {
		paths = append(paths, item.path)
		return true
	})
	return paths
}
