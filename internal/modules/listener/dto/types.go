package dto

type ListenerStatus struct {
	Running   bool
	PID       int
	Port      int
	Reachable bool
	LogPath   string
}
