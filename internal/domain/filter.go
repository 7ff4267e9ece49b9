package domain

import "github.com/google/uuid"

// InstanceFilter contains filtering/pagination parameters for scheduled
// instance queries. Nil/empty fields are not applied.
type InstanceFilter struct {
	Statuses   []InstanceStatus
	SourceType *SourceType
	SourceID   *uuid.UUID
	BlockID    *uuid.UUID
	FromDate   string // DateLayout, inclusive
	ToDate     string // DateLayout, inclusive
	Limit      int
	Offset     int
}
