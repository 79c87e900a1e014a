// Package manifest holds the version, asset index and version list documents a game install is
// described by, and turns them into download resources placed at their layout paths.
package manifest

import "time"

// VersionList is the top-level document listing every published version.
type VersionList struct {
	Latest   Latest         `json:"latest"`
	Versions []VersionEntry `json:"versions"`
}

// Latest names the newest release and snapshot.
type Latest struct {
	Release  string `json:"release"`
	Snapshot string `json:"snapshot"`
}

// VersionEntry points at one version document.
type VersionEntry struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	URL         string    `json:"url"`
	Time        time.Time `json:"time"`
	ReleaseTime time.Time `json:"releaseTime"`
}

// Version types as published in the version list.
const (
	TypeRelease  = "release"
	TypeSnapshot = "snapshot"
	TypeOldBeta  = "old_beta"
	TypeOldAlpha = "old_alpha"
)

// Version is a single version document.
type Version struct {
	ID          string        `json:"id"`
	Type        string        `json:"type"`
	MainClass   string        `json:"mainClass"`
	Assets      string        `json:"assets"`
	AssetIndex  AssetIndexRef `json:"assetIndex"`
	Downloads   Downloads     `json:"downloads"`
	JavaVersion JavaVersion   `json:"javaVersion"`
	Libraries   []Library     `json:"libraries"`
}

// AssetIndexRef locates the asset index of a version.
type AssetIndexRef struct {
	ID        string `json:"id"`
	SHA1      string `json:"sha1"`
	Size      int64  `json:"size"`
	TotalSize int64  `json:"totalSize"`
	URL       string `json:"url"`
}

// Downloads lists the jars published for a version.
type Downloads struct {
	Client *Download `json:"client,omitempty"`
	Server *Download `json:"server,omitempty"`
}

// Download is a single sized remote file.
type Download struct {
	SHA1 string `json:"sha1"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// JavaVersion names the runtime a version needs.
type JavaVersion struct {
	Component    string `json:"component"`
	MajorVersion int    `json:"majorVersion"`
}

// Library is one classpath entry, possibly restricted to some platforms by Rules.
type Library struct {
	Name      string           `json:"name"`
	Downloads LibraryDownloads `json:"downloads"`
	Rules     []Rule           `json:"rules,omitempty"`
}

// LibraryDownloads holds the artifact of a library.
type LibraryDownloads struct {
	Artifact *Artifact `json:"artifact,omitempty"`
}

// Artifact is a library jar and its path below the libraries directory.
type Artifact struct {
	Path string `json:"path"`
	SHA1 string `json:"sha1"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// Rule allows or disallows a library, optionally only on one OS.
type Rule struct {
	Action string  `json:"action"`
	OS     *RuleOS `json:"os,omitempty"`
}

// Rule actions.
const (
	ActionAllow    = "allow"
	ActionDisallow = "disallow"
)

// RuleOS restricts a rule to an operating system.
type RuleOS struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
	Arch    string `json:"arch,omitempty"`
}

// AssetIndex maps asset names to their content-addressed objects.
type AssetIndex struct {
	Objects map[string]AssetObject `json:"objects"`
}

// AssetObject is one asset blob.
type AssetObject struct {
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}
