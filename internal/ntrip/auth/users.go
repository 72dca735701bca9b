// Package auth implements C2 (the User store), C3 (the Mount ACL store),
// C4 (the Authenticator), and the disk-backed reload discipline that keeps
// both ordered under a single authentication lock.
package auth

import "github.com/google/btree"

const btreeDegree = 32

// User is a (name, password) record, keyed by name. Mount ACLs hold shared
// pointers to the same record so a user belonging to several mounts is
// stored once.
type User struct {
	Name     string
	Password string
}

type userItem struct {
	name string
	user *User
}

func userLess(a, b userItem) bool { return a.name < b.name }

// Users is the ordered mapping keyed by case-sensitive name, owning its
// records.
type Users struct {
	tree *btree.BTreeG[userItem]
}

// NewUsers returns an empty User store.
func NewUsers() *Users {
	return &Users{tree: btree.NewG(btreeDegree, userLess)}
}

// Put inserts or replaces the record for u.Name, returning the previous
// record if one existed.
func (u *Users) Put(rec *User) (previous *User) {
	old, had := u.tree.ReplaceOrInsert(userItem{name: rec.Name, user: rec})
	if had {
		return old.user
	}
	return nil
}

// Get looks up a user by name.
func (u *Users) Get(name string) (*User, bool) {
	item, ok := u.tree.Get(userItem{name: name})
	if !ok {
		return nil, false
	}
	return item.user, true
}

// Len reports the number of distinct users.
func (u *Users) Len() int { return u.tree.Len() }
