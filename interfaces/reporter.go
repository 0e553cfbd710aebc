package interf

// Reporter receives the progress of an operation.
// Bulk operations call Progress(0, total) before the first entry and Progress(i, total)
// after each processed entry, so the values are strictly increasing and end with total.
//
// Adapters accept a nil Reporter and treat it like a reporter that ignores everything.
type Reporter interface {
	Progress(current, total int)
}
