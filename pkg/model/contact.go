package model

import "time"

type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

type Status string

const (
	StatusNew       Status = "new"
	StatusDuplicate Status = "duplicate"
	StatusInvalid   Status = "invalid"
)

// Contact is both the persisted document and the transient pipeline record.
// Status and Message are classification annotations; they are never stored.
// Birthday and Anniversary hold canonical yyyy-MM-dd strings; empty means
// absent (unparseable input normalizes to empty, never to a partial value).
type Contact struct {
	ID          string    `bson:"_id,omitempty" json:"id,omitempty" validate:"omitempty,mongodb"`
	Name        string    `bson:"name" json:"name" validate:"required,min=1,max=200"`
	Phone       string    `bson:"phone" json:"phone" validate:"required,e164"`
	Gender      Gender    `bson:"gender" json:"gender" validate:"omitempty,oneof=male female unknown"`
	Birthday    string    `bson:"birthday,omitempty" json:"birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Anniversary string    `bson:"anniversary,omitempty" json:"anniversary,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CreatedAt   time.Time `bson:"created_at,omitempty" json:"-"`

	Status  Status `bson:"-" json:"status,omitempty"`
	Message string `bson:"-" json:"message,omitempty"`
}

// Stored returns a copy with the transient pipeline annotations cleared,
// ready for insertion.
func (c Contact) Stored() Contact {
	c.Status = ""
	c.Message = ""
	return c
}
