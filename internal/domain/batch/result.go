package batch

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusCreated ItemStatus = "created"
	StatusUpdated ItemStatus = "updated"
	StatusDeleted ItemStatus = "deleted"
	StatusError   ItemStatus = "error"
)

// Result is the outcome of processing the item at index in a batch request.
// ID is empty when the item failed before an identifier was assigned.
type Result struct {
	index  int
	id     string
	status ItemStatus
	err    error
}

// NewResult creates a successful batch result.
func NewResult(index int, id string, status ItemStatus) Result {
	return Result{index: index, id: id, status: status}
}

// NewError creates a failed batch result.
func NewError(index int, id string, err error) Result {
	return Result{index: index, id: id, status: StatusError, err: err}
}

// Index returns the position of the item in the request.
func (r Result) Index() int { return r.index }

// ID returns the product identifier.
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// OK reports whether the item succeeded.
func (r Result) OK() bool { return r.status != StatusError }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Summary counts successes and failures.
type Summary struct {
	Succeeded int
	Failed    int
}

// Summarize counts results by outcome.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		if r.OK() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}
