package export

// Entry is one straight cut on a project timeline. Times are in 100ns ticks.
type Entry struct {
	SourcePath       string
	SourceStartTicks int64
	DurationTicks    int64
}

// Project is a titled, ordered timeline ready for conversion.
type Project struct {
	Name    string
	Entries []Entry
}

// Event is one converted timeline entry with its four timecodes.
type Event struct {
	Number    int    `csv:"event"`
	Reel      string `csv:"reel"`
	SourceIn  string `csv:"source_in"`
	SourceOut string `csv:"source_out"`
	RecordIn  string `csv:"record_in"`
	RecordOut string `csv:"record_out"`
	ClipName  string `csv:"clip_name"`
}

type ExportRequest struct {
	ProjectName string `json:"project_name"`
	Format      string `json:"format"`
	FrameRate   int    `json:"frame_rate"`
	OutputDir   string `json:"output_dir"`
}

type ExportResponse struct {
	Status     string `json:"status"`
	Format     string `json:"format"`
	OutputPath string `json:"output_path"`
	EventCount int    `json:"event_count"`
}
