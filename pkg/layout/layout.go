// Package layout maps launcher resources onto their fixed locations below the root directory.
//
// The directory tree is shared with other tools reading the same root, so the relative
// paths produced here must not change.
package layout

import (
	"path/filepath"
	"strings"
)

const (
	librariesDir   = "libraries"
	assetsDir      = "assets"
	objectsDir     = "objects"
	indexesDir     = "indexes"
	clientDir      = "client"
	clientJar      = "client.jar"
	jdkDir         = "jdk"
	nativesDir     = "natives"
	versionsDir    = "versions"
	hooksDir       = "hooks"
	historyDB      = "history.db"
	jsonExt        = ".json"
	hashPrefixSize = 2
)

// Layout resolves paths relative to a launcher root directory.
type Layout struct {
	Root string
}

// New returns a Layout rooted at root.
func New(root string) Layout {
	return Layout{Root: root}
}

func (l Layout) join(elem ...string) string {
	return filepath.Join(append([]string{l.Root}, elem...)...)
}

// LibrariesDir returns <root>/libraries.
func (l Layout) LibrariesDir() string { return l.join(librariesDir) }

// Library returns <root>/libraries/<artifact path>. The artifact path uses forward slashes.
func (l Layout) Library(artifactPath string) string {
	return l.join(librariesDir, filepath.FromSlash(artifactPath))
}

// AssetsDir returns <root>/assets.
func (l Layout) AssetsDir() string { return l.join(assetsDir) }

// AssetObject returns <root>/assets/objects/<hash[0:2]>/<hash>.
func (l Layout) AssetObject(hash string) string {
	return l.join(assetsDir, objectsDir, HashPrefix(hash), hash)
}

// AssetIndex returns <root>/assets/indexes/<assets id>.json.
func (l Layout) AssetIndex(assetsID string) string {
	return l.join(assetsDir, indexesDir, assetsID+jsonExt)
}

// ClientDir returns <root>/client.
func (l Layout) ClientDir() string { return l.join(clientDir) }

// ClientJar returns <root>/client/<assets id>/client.jar.
func (l Layout) ClientJar(assetsID string) string {
	return l.join(clientDir, assetsID, clientJar)
}

// JDKDir returns <root>/jdk.
func (l Layout) JDKDir() string { return l.join(jdkDir) }

// JDKArchive returns <root>/jdk/<archive name>.
func (l Layout) JDKArchive(name string) string {
	return l.join(jdkDir, filepath.Base(name))
}

// JDKHome returns <root>/jdk/<major>, the directory a JDK archive is unpacked into.
func (l Layout) JDKHome(major string) string {
	return l.join(jdkDir, major)
}

// NativesDir returns <root>/natives.
func (l Layout) NativesDir() string { return l.join(nativesDir) }

// Native returns <root>/natives/<basename of entry>. Entry names use forward slashes.
func (l Layout) Native(entryName string) string {
	return l.join(nativesDir, baseName(entryName))
}

// VersionsDir returns <root>/versions.
func (l Layout) VersionsDir() string { return l.join(versionsDir) }

// Version returns <root>/versions/<id>.json.
func (l Layout) Version(id string) string {
	return l.join(versionsDir, id+jsonExt)
}

// HooksDir returns <root>/hooks.
func (l Layout) HooksDir() string { return l.join(hooksDir) }

// HistoryDB returns <root>/history.db.
func (l Layout) HistoryDB() string { return l.join(historyDB) }

// HashPrefix returns the two-character shard of an asset hash.
func HashPrefix(hash string) string {
	if len(hash) < hashPrefixSize {
		return hash
	}
	return hash[:hashPrefixSize]
}

func baseName(entryName string) string {
	if i := strings.LastIndex(entryName, "/"); i >= 0 {
		return entryName[i+1:]
	}
	return entryName
}
