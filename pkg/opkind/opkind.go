// Package opkind declares, per kind of asynchronous operation, which fields
// of a result bundle are semantically meaningful and in what order, plus what
// counts as success for that kind.
package opkind

import (
	"fmt"

	"github.com/mikekulinski/zkasync/pkg/result"
	"github.com/mikekulinski/zkasync/pkg/zkerrors"
)

// Kind identifies one public operation of the coordination service.
type Kind int

const (
	Get Kind = iota
	Children
	Create
	Stat
	Exists
	Set
	Delete
	SetACL
	GetACL
)

// kindSpec is the static descriptor for one operation kind: which bundle
// fields get delivered (in order), which non-OK codes still count as success,
// and whether the delivered stat gets collapsed into a presence flag.
type kindSpec struct {
	name string
	// fields are extracted from the bundle in declared order on success.
	fields []result.Field
	// tolerated lists the non-OK codes this kind still classifies as success.
	tolerated []zkerrors.Code
	// boolStat replaces the extracted stat with (stat != nil). Only Exists
	// sets this. It changes the delivered value, never the classification.
	boolStat bool
}

var kinds = [...]kindSpec{
	Get:      {name: "get", fields: []result.Field{result.FieldData, result.FieldStat}},
	Children: {name: "children", fields: []result.Field{result.FieldChildren, result.FieldStat}},
	Create:   {name: "create", fields: []result.Field{result.FieldPath}},
	Stat:     {name: "stat", fields: []result.Field{result.FieldStat}, tolerated: []zkerrors.Code{zkerrors.NoNode}},
	Exists:   {name: "exists", fields: []result.Field{result.FieldStat}, tolerated: []zkerrors.Code{zkerrors.NoNode}, boolStat: true},
	Set:      {name: "set", fields: []result.Field{result.FieldStat}},
	Delete:   {name: "delete"},
	SetACL:   {name: "setAcl"},
	GetACL:   {name: "getAcl", fields: []result.Field{result.FieldACL, result.FieldStat}},
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kinds) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kinds[k].name
}

// Outcome is the classification of one bundle against one kind. Exactly one
// of Values/Err is meaningful: Values on success (possibly empty for void
// kinds), Err on failure.
type Outcome struct {
	Succeeded bool
	Values    []any
	Err       error
}

// Classify evaluates the kind's success predicate on the bundle status and
// either extracts the kind's declared fields, in order, or maps the status
// to its structured error.
//
// A status code missing from the error catalog is a fatal programming error.
// It means this library and the server disagree on the code set, and
// delivering a degraded result would hide that. Classify panics instead.
func Classify(k Kind, b *result.Bundle) Outcome {
	spec := kinds[k]

	if !succeeded(spec, b.Status) {
		zkErr, err := zkerrors.Lookup(b.Status)
		if err != nil {
			panic(fmt.Sprintf("opkind: classifying %s result: %v", spec.name, err))
		}
		return Outcome{Err: zkErr}
	}

	values := make([]any, len(spec.fields))
	for i, f := range spec.fields {
		values[i] = b.Value(f)
	}
	if spec.boolStat {
		// A tolerated "no such node" bundle carries no stat field, so the
		// extracted value is nil exactly when the node does not exist.
		stat, _ := values[0].(*result.Stat)
		values[0] = stat != nil
	}
	return Outcome{Succeeded: true, Values: values}
}

func succeeded(spec kindSpec, status zkerrors.Code) bool {
	if status == zkerrors.Ok {
		return true
	}
	for _, code := range spec.tolerated {
		if status == code {
			return true
		}
	}
	return false
}
