package config

import (
	"fmt"
	"path/filepath"
)

// FsAccess is the kind of filesystem access a rule grants
type FsAccess string

const (
	Read      FsAccess = "read"
	Write     FsAccess = "write"
	ReadWrite FsAccess = "read-write"
)

// UnmarshalText implements encoding.TextUnmarshaler
func (a *FsAccess) UnmarshalText(text []byte) error {
	switch v := FsAccess(text); v {
	case Read, Write, ReadWrite:
		*a = v
		return nil
	case "read_write", "true":
		*a = ReadWrite
		return nil
	default:
		return fmt.Errorf("unknown fs access %q", string(text))
	}
}

// PathPermission grants access to a path and everything below it
type PathPermission struct {
	Access FsAccess `toml:"access"`
	Path   string   `toml:"path"`
}

func ReadPermission(path string) PathPermission {
	return PathPermission{Access: Read, Path: path}
}

func WritePermission(path string) PathPermission {
	return PathPermission{Access: Write, Path: path}
}

func ReadWritePermission(path string) PathPermission {
	return PathPermission{Access: ReadWrite, Path: path}
}

// FsPermissions is an ordered list of path rules. They are enforced by the
// execution sandbox, not by this module.
type FsPermissions []PathPermission

// Joined returns a copy with relative paths joined onto root
func (p FsPermissions) Joined(root string) FsPermissions {
	res := make(FsPermissions, len(p))
	for i, perm := range p {
		if !filepath.IsAbs(perm.Path) {
			perm.Path = filepath.Join(root, perm.Path)
		}
		res[i] = perm
	}
	return res
}
