package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskAttentionSweep = "cleanings.attention.sweep"

type AttentionSweepPayload struct {
	SweepID    string `json:"sweepId"`
	WindowDays int    `json:"windowDays"`
}

func NewAttentionSweepTask(payload AttentionSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAttentionSweep, data), nil
}

func ParseAttentionSweepPayload(task *asynq.Task) (AttentionSweepPayload, error) {
	var payload AttentionSweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return AttentionSweepPayload{}, err
	}
	return payload, nil
}
