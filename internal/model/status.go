package model

// TaskStatus represents the status of a download task
type TaskStatus string

const (
	// TaskStatusPending means the task is queued but not started
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusDownloading means the extractor is fetching the file
	TaskStatusDownloading TaskStatus = "Downloading"

	// TaskStatusCompleted means the file is on local disk
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusDelivered means the file was streamed to the client and removed
	TaskStatusDelivered TaskStatus = "Delivered"

	// TaskStatusError means the task failed with an error
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the task is in an active state
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusPending || ts == TaskStatusDownloading
}

// IsFinished returns true if the task is in a finished state
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusDelivered || ts == TaskStatusError
}
