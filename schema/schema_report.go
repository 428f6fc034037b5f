package schema

// ReportValue is one metric cell of a report row, with the change relative
// to the previous indexed revision of the same path.
type ReportValue struct {
	Metric string `json:"metric"`
	Value  any    `json:"value"` // nil when the metric is absent for this revision

	// Delta is meaningful only for numeric metrics and only when HasDelta
	// is set; the first revision of a path has no delta.
	Delta    float64 `json:"delta,omitempty"`
	HasDelta bool    `json:"has_delta"`
}

// ReportRow is the metric history of one path at one revision.
type ReportRow struct {
	Revision string        `json:"revision"`
	Author   string        `json:"author"`
	Message  string        `json:"message"`
	Date     int64         `json:"date"`
	Values   []ReportValue `json:"values"` // one per requested metric, request order
}

// ReportResult is the full history of one path across indexed revisions,
// oldest first.
type ReportResult struct {
	Path    string      `json:"path"`
	Metrics []Metric    `json:"metrics"`
	Rows    []ReportRow `json:"rows"`
}

// RankEntry is one ranked path with its metric value at a revision.
type RankEntry struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// RankResult ranks the file paths of one revision by a single metric,
// worst value first according to the metric's trend.
type RankResult struct {
	Revision string      `json:"revision"`
	Metric   Metric      `json:"metric"`
	Entries  []RankEntry `json:"entries"`
}

// BuildStats summarizes one index build run.
type BuildStats struct {
	RevisionsIndexed int   `json:"revisions_indexed"`
	RevisionsSkipped int   `json:"revisions_skipped"`
	FilesAnalyzed    int   `json:"files_analyzed"`
	RowsWritten      int   `json:"rows_written"`
	RootLOC          int64 `json:"root_loc"`
}
