package carve

// Display prefixes for progress messages. Commands echo with a shell-style
// "$"; job status lines indent under them.
const (
	PrefixCommand = "$"
	PrefixMessage = "\t"
)

// Progress is one message emitted by a running job. Messages from one job
// arrive in emission order; ordering across jobs is not defined.
type Progress struct {
	Index  int // partition index of the emitting job
	Prefix string
	Text   string
}

// JobResult is the isolated outcome of one carve job. The job is the only
// writer; the orchestrator consumes it once after the job completes and
// applies the registry mutations single-threaded.
type JobResult struct {
	Index          int
	Success        bool
	Messages       []Progress
	OutputPath     string
	FilesystemType string
	Err            error
}
