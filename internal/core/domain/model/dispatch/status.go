package dispatch

import "fulfillment/internal/pkg/errs"

// JobStatus is the lifecycle state of a dispatch job.
type JobStatus int

const (
	// JobStatusUnknown is the zero value and never valid.
	JobStatusUnknown JobStatus = iota
	// Broadcasting means the job is offered to candidate workers and still open.
	Broadcasting
	// Resolved means exactly one worker has claimed the job.
	Resolved
)

var jobStatusNames = map[JobStatus]string{
	Broadcasting: "broadcasting",
	Resolved:     "resolved",
}

// JobStatusFromString parses a stored status value.
func JobStatusFromString(value string) (JobStatus, error) {
	for status, name := range jobStatusNames {
		if name == value {
			return status, nil
		}
	}
	return JobStatusUnknown, errs.NewValueIsInvalidError("job status " + value)
}

// String returns the wire representation of the status.
func (s JobStatus) String() string {
	if name, ok := jobStatusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Validate checks that the status is one of the known values.
func (s JobStatus) Validate() error {
	if _, ok := jobStatusNames[s]; !ok {
		return errs.NewValueIsInvalidError("job status")
	}
	return nil
}
