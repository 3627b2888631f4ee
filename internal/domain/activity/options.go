package activity

// ListOptions provides filtering options for listing activity.
type ListOptions struct {
	Collection string
	RecordID   *string
	Type       *Type
	Limit      int
	Offset     int
}
