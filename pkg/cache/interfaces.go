package cache

// Manager defines the interface for inspecting and cleaning a launcher root.
type Manager interface {
	Clean(options CleanOptions) (*CleanResult, error)
	GetInfo() (*Info, error)
	GetDirectory() string
}

// Area names, one per top-level directory of the root.
const (
	AreaLibraries = "libraries"
	AreaAssets    = "assets"
	AreaClient    = "client"
	AreaJDK       = "jdk"
	AreaNatives   = "natives"
	AreaVersions  = "versions"
)

// CleanOptions specifies what to clean. Downloaded game content is never removed.
type CleanOptions struct {
	All      bool
	Natives  bool
	Archives bool // JDK archives left behind by failed extractions
}

// CleanResult contains information about what was cleaned.
type CleanResult struct {
	TotalFreed    int64
	NativesFreed  int64
	ArchivesFreed int64
	FilesRemoved  int
}

// Area is the disk usage of one directory below the root.
type Area struct {
	Name  string
	Size  int64
	Files int
}

// Info represents disk usage of a launcher root.
type Info struct {
	Directory string
	TotalSize int64
	Areas     []Area
}

// Area returns the usage of the named area.
func (i *Info) Area(name string) (Area, bool) {
	for _, a := range i.Areas {
		if a.Name == name {
			return a, true
		}
	}
	return Area{}, false
}
