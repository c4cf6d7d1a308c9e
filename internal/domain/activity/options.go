package activity

// ListOptions filters journal listings.
type ListOptions struct {
	ProjectID *string
	Kind      *Kind
	Outcome   *Outcome
	Limit     int
	Offset    int
}
