package activity

// ListOptions provides filtering options for listing activity.
type ListOptions struct {
	ProjectID string
	Agent     *Agent
	Severity  *Severity
	Limit     int
	Offset    int
}
