package download

// Status says how a resource reached its final state.
type Status int

const (
	// StatusFetched means the resource was transferred over the network.
	StatusFetched Status = iota
	// StatusAlreadyComplete means the file on disk already passed its completeness check.
	StatusAlreadyComplete
)

func (s Status) String() string {
	if s == StatusAlreadyComplete {
		return "already-complete"
	}
	return "fetched"
}

// Outcome describes a successful resource. Bytes and Speed are zero for StatusAlreadyComplete.
type Outcome struct {
	Status Status
	Bytes  int64
	Speed  float64 // bytes per second
}

// Result pairs an item's outcome with its error. Outcome is zero when Err is set.
type Result struct {
	Outcome Outcome
	Err     error
}

// Progress is a snapshot of a running batch.
type Progress struct {
	Completed  int
	Total      int
	LastSize   int64
	TotalBytes int64
	LastSpeed  float64
}

// Fraction returns Completed/Total, or 1 for an empty batch.
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 1
	}
	return float64(p.Completed) / float64(p.Total)
}

func (p *Progress) record(r Result) {
	p.Completed++
	if r.Err != nil || r.Outcome.Status == StatusAlreadyComplete {
		p.LastSize = 0
		p.LastSpeed = 0
		return
	}
	p.LastSize = r.Outcome.Bytes
	p.LastSpeed = r.Outcome.Speed
	p.TotalBytes += r.Outcome.Bytes
}

// Observer is called once per finished item, from the goroutine running FetchAll.
type Observer func(progress Progress, item Resource, result Result)
