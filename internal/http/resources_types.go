package http

type diskMeta struct {
	DriveType string
	Model     string
}

// procSample is one OS process as read in a single sampling pass, before
// processes sharing a name are folded together.
type procSample struct {
	PID        int32
	Name       string
	CPUPercent float64
	MemPercent float64
	Created    int64
	Path       string
}
