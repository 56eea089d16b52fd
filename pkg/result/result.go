// Package result defines the raw completion payload the transport hands back
// for one asynchronous call, plus the value types those payloads carry.
package result

import (
	"github.com/mikekulinski/zkasync/pkg/zkerrors"
)

// Field names the operation-specific slots of a Bundle. Each operation kind
// populates a distinct subset of them.
type Field string

const (
	FieldData     Field = "data"
	FieldChildren Field = "children"
	FieldPath     Field = "path"
	FieldStat     Field = "stat"
	FieldACL      Field = "acl"
)

// Bundle is the raw result of one call: a status code, the request id the
// transport assigned to the call, and zero or more operation-specific fields.
// A submission-status bundle uses the exact same shape but conventionally
// carries no fields. Bundles are treated as immutable once delivered.
type Bundle struct {
	Status zkerrors.Code
	Xid    int64
	Fields map[Field]any
}

// Value returns the named field, or nil if the bundle doesn't carry it.
func (b *Bundle) Value(f Field) any {
	if b.Fields == nil {
		return nil
	}
	return b.Fields[f]
}
