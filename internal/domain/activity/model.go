package activity

// Agent names the conceptual role that produced an activity entry
type Agent string

const (
	AgentConductor             Agent = "Conductor"
	AgentResearchLead          Agent = "ResearchLead"
	AgentSpecializedResearcher Agent = "SpecializedResearcher"
	AgentCoder                 Agent = "Coder"
	AgentValidator             Agent = "Validator"
	AgentSystem                Agent = "System"
)

// Valid reports whether a is one of the known agents.
func (a Agent) Valid() bool {
	switch a {
	case AgentConductor, AgentResearchLead, AgentSpecializedResearcher,
		AgentCoder, AgentValidator, AgentSystem:
		return true
	}
	return false
}

// Severity grades an activity entry
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError:
		return true
	}
	return false
}

// Entry represents an event in the activity log. Entries are immutable once logged.
type Entry struct {
	ID        string   `json:"id"`
	ProjectID string   `json:"project_id,omitempty"`
	Timestamp int64    `json:"timestamp"` // epoch millis
	Agent     Agent    `json:"agent"`
	Message   string   `json:"message"`
	Severity  Severity `json:"severity"`
}
