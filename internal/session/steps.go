package session

// Step is one fixed-duration segment of a guided session.
type Step struct {
	Key     string `json:"key"`
	Seconds int    `json:"seconds"`
}

// DefaultSteps returns the seven one-minute devotion steps.
func DefaultSteps() []Step {
	return []Step{
		{Key: "calling", Seconds: 60},
		{Key: "pray", Seconds: 60},
		{Key: "pray-read", Seconds: 60},
		{Key: "confession", Seconds: 60},
		{Key: "consecration", Seconds: 60},
		{Key: "thanks", Seconds: 60},
		{Key: "petition", Seconds: 60},
	}
}
