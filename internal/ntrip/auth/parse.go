package auth

import "strings"

// Parse implements the mount authentication file grammar:
//
//	/<mountpoint>:<user1>:<pw1>,<user2>:<pw2>,…
//
// Blank lines and lines not beginning with '/' are ignored. Paths, user
// names, and passwords are trimmed of surrounding whitespace. A duplicate
// mountpoint replaces the previous definition; the caller is told which
// paths were duplicated so it can log a warning.
func Parse(data []byte) (users *Users, mounts *Mounts, duplicates []string) {
	users = NewUsers()
	mounts = NewMounts()

	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || !strings.HasPrefix(line, "/") {
			continue
		}

		path, rest, ok := cutOnce(line, ":")
		if !ok {
			continue
		}
		path = strings.TrimSpace(path)

		mount := newMount(path)
		for _, pair := range strings.Split(rest, ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			name, password, ok := cutOnce(pair, ":")
			if !ok {
				continue
			}
			name = strings.TrimSpace(name)
			password = strings.TrimSpace(password)

			rec := &User{Name: name, Password: password}
			if existing, had := users.Get(name); had && existing.Password == password {
				rec = existing
			}
			users.Put(rec)
			mount.allow(rec)
		}

		if _, had := mounts.Get(path); had {
			duplicates = append(duplicates, path)
		}
		mounts.Put(mount)
	}

	return users, mounts, duplicates
}

func cutOnce(s, sep string) (before, after string, ok bool) {
	idx := strings.Index(s, sep)
	if idx < 0 {
		return "", "", false
	}
	return s[:idx], s[idx+1:], true
}
