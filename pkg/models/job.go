package models

// JobKind distinguishes the two units of work the planner can produce.
type JobKind string

const (
	// JobKindTranscode re-encodes one audio file into the target codec.
	JobKindTranscode JobKind = "transcode"
	// JobKindCopy replicates one file or subtree verbatim.
	JobKindCopy JobKind = "copy"
)

// Job is one unit of work. Jobs are immutable once created and are
// consumed exactly once by the scheduler.
type Job struct {
	Kind       JobKind
	SourcePath string
	DestPath   string
}

// JobResult is the outcome of one Job. Output holds the combined
// stdout/stderr of the encoder subprocess for transcode jobs.
type JobResult struct {
	SourcePath string
	Success    bool
	Output     []byte
}

// SourceKind classifies an input path.
type SourceKind int

const (
	SourceInvalid SourceKind = iota
	SourceAudioFile
	SourceDirectory
)

func (k SourceKind) String() string {
	switch k {
	case SourceAudioFile:
		return "audio file"
	case SourceDirectory:
		return "directory"
	default:
		return "invalid"
	}
}
