package model

// Camera is a counting camera definition, ordered by Position.
type Camera struct {
	ID       int64  `json:"id"`
	IP       string `json:"ip"`
	Username string `json:"username"`
	Password string `json:"-"`
	Position int    `json:"position"`
}

// CameraCounts holds the counters of one camera at its position in a snapshot.
type CameraCounts struct {
	Index       int    `json:"index"`
	IP          string `json:"ip"`
	Entered     int    `json:"entered"`
	Exited      int    `json:"exited"`
	CurrentlyIn int    `json:"currently_in"`
}

// CameraConfig is one entry of an exported or imported camera configuration.
type CameraConfig struct {
	IP       string `json:"ip"`
	Username string `json:"username"`
	Password string `json:"password"`
}
