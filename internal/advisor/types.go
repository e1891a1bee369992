package advisor

import "time"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single conversational turn supplied by the caller. The service
// never stores turns; each request carries the full history it wants used.
type Turn struct {
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	Timestamp time.Time  `json:"timestamp,omitempty"`
	Citations []Citation `json:"citations,omitempty"`
}

// Profile describes the user the advisor personalizes for.
type Profile struct {
	Name        string `json:"name,omitempty"`
	VehicleType string `json:"vehicle_type"`
	City        string `json:"city"`
	VehicleYear int    `json:"vehicle_year"`
	FloodRisk   bool   `json:"flood_risk"`
	UsageType   string `json:"usage_type"`
}

// Focus marks what the user is currently asking about.
type Focus string

const (
	FocusPremium  Focus = "premium"
	FocusBenefits Focus = "benefits"
	FocusClaims   Focus = "claims"
)

// Memory is the per-turn summary derived from the caller-supplied history.
// It is recomputed on every request and never outlives it.
type Memory struct {
	Profile              *Profile `json:"profile,omitempty"`
	TopicsDiscussed      []string `json:"topics_discussed"`
	LastProductMentioned string   `json:"last_product_mentioned,omitempty"`
	ConversationTone     string   `json:"conversation_tone"`
	Keywords             []string `json:"keywords"`
	ExplainedConcepts    []string `json:"explained_concepts"`
	PreviousResponses    []string `json:"previous_responses"`
	KeyPhrases           []string `json:"key_phrases"`
	CurrentFocus         Focus    `json:"current_focus,omitempty"`
	DisclaimerShown      bool     `json:"disclaimer_shown"`
}

// Snippet is one retrieved passage of source document text.
type Snippet struct {
	Content  string `json:"content"`
	DocTitle string `json:"doc_title"`
	Section  string `json:"section"`
	Source   string `json:"source"`
}

// Citation points an answer back at the snippet that grounds it.
type Citation struct {
	DocTitle string `json:"doc_title"`
	Section  string `json:"section"`
	Snippet  string `json:"snippet"`
	Source   string `json:"source"`
}

// RejectReason tags why the validator refused a candidate answer.
type RejectReason string

const (
	ReasonTooShort             RejectReason = "too_short"
	ReasonExcessiveSpeculation RejectReason = "excessive_speculation"
	ReasonOffTopic             RejectReason = "off_topic"
)

// ValidationResult is the validator's verdict on a candidate answer.
type ValidationResult struct {
	IsValid bool         `json:"is_valid"`
	Reason  RejectReason `json:"reason,omitempty"`
}

// ChatRequest is one advisor turn as submitted by the caller.
type ChatRequest struct {
	Message string   `json:"message"`
	Profile *Profile `json:"profile,omitempty"`
	History []Turn   `json:"conversation_history,omitempty"`
}

// ChatResponse is the validated answer with its citations. Rejected answers
// come back as a fixed apology with no citations; that is still a success.
type ChatResponse struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
}
