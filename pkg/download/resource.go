package download

// Resource is one remote item to place on disk.
// The set of implementations is closed: PlainResource, SizedResource and ArchiveResource.
type Resource interface {
	// Destination is the local path the resource is written to.
	Destination() string
	// Source is the URL the resource is fetched from.
	Source() string

	kind() resourceKind
}

type resourceKind int

const (
	kindPlain resourceKind = iota
	kindSized
	kindArchive
)

func (k resourceKind) String() string {
	switch k {
	case kindSized:
		return "sized"
	case kindArchive:
		return "archive"
	default:
		return "plain"
	}
}

// PlainResource is always fetched, whatever is already on disk.
type PlainResource struct {
	Path string
	URL  string
}

// Destination implements Resource.
func (r PlainResource) Destination() string { return r.Path }

// Source implements Resource.
func (r PlainResource) Source() string { return r.URL }

func (PlainResource) kind() resourceKind { return kindPlain }

// SizedResource is skipped when a file of exactly Size bytes already exists at Path.
type SizedResource struct {
	Path string
	URL  string
	Size int64
}

// Destination implements Resource.
func (r SizedResource) Destination() string { return r.Path }

// Source implements Resource.
func (r SizedResource) Source() string { return r.URL }

func (SizedResource) kind() resourceKind { return kindSized }

// ArchiveResource is fetched to Path, unpacked into ExtractDir and then removed.
type ArchiveResource struct {
	Path       string
	URL        string
	ExtractDir string
}

// Destination implements Resource.
func (r ArchiveResource) Destination() string { return r.Path }

// Source implements Resource.
func (r ArchiveResource) Source() string { return r.URL }

func (ArchiveResource) kind() resourceKind { return kindArchive }

// Resources converts a slice of one resource kind into a mixed batch.
func Resources[T Resource](items []T) []Resource {
	out := make([]Resource, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
