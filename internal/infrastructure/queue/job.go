package queue

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Job is the wire form of a claimed task. Attempts counts the runs already
// spent before this one.
type Job struct {
	TaskID   uuid.UUID `json:"task_id"`
	VideoID  uuid.UUID `json:"video_id"`
	Action   string    `json:"action"`
	Attempts int       `json:"attempts"`
}

func SerializeJob(job Job) (string, error) {
	bytes, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to serialize job: %w", err)
	}
	return string(bytes), nil
}

func DeserializeJob(data string) (*Job, error) {
	var job Job
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		return nil, fmt.Errorf("failed to deserialize job: %w", err)
	}
	return &job, nil
}
