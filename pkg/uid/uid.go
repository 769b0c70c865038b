package uid

import (
	"github.com/sony/sonyflake"
)

// UID generates unique identifiers. *sonyflake.Sonyflake satisfies this.
type UID interface {
	NextID() (uint64, error)
}

var _ UID = (*sonyflake.Sonyflake)(nil)
