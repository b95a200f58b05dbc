package model

import "time"

const (
	DirectionEntered = "entered"
	DirectionExited  = "exited"
)

// CountLog records a change of a camera's counters.
type CountLog struct {
	ID          int64     `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	CameraIP    string    `json:"camera_ip"`
	CameraIndex int       `json:"camera_index"`
	Direction   string    `json:"direction"`
	Entered     int       `json:"entered"`
	Exited      int       `json:"exited"`
	CurrentlyIn int       `json:"currently_in"`
}
