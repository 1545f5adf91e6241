package domain

// FetchItem is one download of a batch.
type FetchItem struct {
	URL    string
	Target string
}

// BatchResult counts the outcome of a batch download.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// Total returns the number of items the batch processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}
