package workflows

import "sort"

// PathError records why one path in a batch failed.
type PathError struct {
	Path string
	Err  error
}

func (e PathError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e PathError) Unwrap() error {
	return e.Err
}

// BatchResult is the outcome of a staging operation. Failures of one path
// never stop the others.
type BatchResult struct {
	// Pattern is the glob the batch selected paths with.
	Pattern string

	// Succeeded lists the paths that were processed, sorted.
	Succeeded []string

	// Failed lists the paths that were not, sorted by path.
	Failed []PathError
}

func (r *BatchResult) fail(path string, err error) {
	r.Failed = append(r.Failed, PathError{Path: path, Err: err})
}

func (r *BatchResult) sort() {
	sort.Strings(r.Succeeded)
	sort.SliceStable(r.Failed, func(i, j int) bool {
		return r.Failed[i].Path < r.Failed[j].Path
	})
}

// Err returns the first failure, or nil when every path succeeded.
func (r *BatchResult) Err() error {
	return firstFailure(r.Failed)
}

func firstFailure(failed []PathError) error {
	if len(failed) == 0 {
		return nil
	}
	return failed[0]
}
