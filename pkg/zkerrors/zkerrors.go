// Package zkerrors is the catalog of status codes the coordination service
// can return, and the structured errors they map to.
package zkerrors

import (
	"fmt"
)

// Code is a numeric status code returned by the coordination service for
// every operation. Zero means success, negative values are errors.
type Code int32

const (
	Ok Code = 0

	// System and server-side errors. These are all greater than APIError.
	SystemError          Code = -1
	RuntimeInconsistency Code = -2
	DataInconsistency    Code = -3
	ConnectionLoss       Code = -4
	MarshallingError     Code = -5
	Unimplemented        Code = -6
	OperationTimeout     Code = -7
	BadArguments         Code = -8

	// API errors. These are all less than APIError.
	APIError                Code = -100
	NoNode                  Code = -101
	NoAuth                  Code = -102
	BadVersion              Code = -103
	NoChildrenForEphemerals Code = -108
	NodeExists              Code = -110
	NotEmpty                Code = -111
	SessionExpired          Code = -112
	InvalidCallback         Code = -113
	InvalidACL              Code = -114
	AuthFailed              Code = -115
	Closing                 Code = -116
	Nothing                 Code = -117
	SessionMoved            Code = -118
)

// Error is the structured error for a single status code. There is exactly
// one instance per code, so callers can match with errors.Is against the
// exported sentinels below.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrSystemError             = &Error{SystemError, "zk: system error"}
	ErrRuntimeInconsistency    = &Error{RuntimeInconsistency, "zk: runtime inconsistency was found"}
	ErrDataInconsistency       = &Error{DataInconsistency, "zk: data inconsistency was found"}
	ErrConnectionLoss          = &Error{ConnectionLoss, "zk: connection to the server has been lost"}
	ErrMarshallingError        = &Error{MarshallingError, "zk: error while marshalling or unmarshalling data"}
	ErrUnimplemented           = &Error{Unimplemented, "zk: operation is not implemented"}
	ErrOperationTimeout        = &Error{OperationTimeout, "zk: operation timed out"}
	ErrBadArguments            = &Error{BadArguments, "zk: invalid arguments"}
	ErrAPIError                = &Error{APIError, "zk: api error"}
	ErrNoNode                  = &Error{NoNode, "zk: node does not exist"}
	ErrNoAuth                  = &Error{NoAuth, "zk: not authenticated"}
	ErrBadVersion              = &Error{BadVersion, "zk: version conflict"}
	ErrNoChildrenForEphemerals = &Error{NoChildrenForEphemerals, "zk: ephemeral nodes may not have children"}
	ErrNodeExists              = &Error{NodeExists, "zk: node already exists"}
	ErrNotEmpty                = &Error{NotEmpty, "zk: node has children"}
	ErrSessionExpired          = &Error{SessionExpired, "zk: session has been expired by the server"}
	ErrInvalidCallback         = &Error{InvalidCallback, "zk: invalid callback specified"}
	ErrInvalidACL              = &Error{InvalidACL, "zk: invalid ACL specified"}
	ErrAuthFailed              = &Error{AuthFailed, "zk: client authentication failed"}
	ErrClosing                 = &Error{Closing, "zk: zookeeper is closing"}
	ErrNothing                 = &Error{Nothing, "zk: no server responses to process"}
	ErrSessionMoved            = &Error{SessionMoved, "zk: session moved to another server, so operation is ignored"}
)

// catalog maps every known non-OK status code to its shared error instance.
var catalog = map[Code]*Error{
	SystemError:             ErrSystemError,
	RuntimeInconsistency:    ErrRuntimeInconsistency,
	DataInconsistency:       ErrDataInconsistency,
	ConnectionLoss:          ErrConnectionLoss,
	MarshallingError:        ErrMarshallingError,
	Unimplemented:           ErrUnimplemented,
	OperationTimeout:        ErrOperationTimeout,
	BadArguments:            ErrBadArguments,
	APIError:                ErrAPIError,
	NoNode:                  ErrNoNode,
	NoAuth:                  ErrNoAuth,
	BadVersion:              ErrBadVersion,
	NoChildrenForEphemerals: ErrNoChildrenForEphemerals,
	NodeExists:              ErrNodeExists,
	NotEmpty:                ErrNotEmpty,
	SessionExpired:          ErrSessionExpired,
	InvalidCallback:         ErrInvalidCallback,
	InvalidACL:              ErrInvalidACL,
	AuthFailed:              ErrAuthFailed,
	Closing:                 ErrClosing,
	Nothing:                 ErrNothing,
	SessionMoved:            ErrSessionMoved,
}

// Lookup returns the structured error for the given status code. The second
// return value is non-nil if the code is not in the catalog. That should
// never happen for codes coming from a real server and indicates a version
// mismatch between this library and the server.
func Lookup(code Code) (*Error, error) {
	zkErr, ok := catalog[code]
	if !ok {
		return nil, fmt.Errorf("unknown status code [%d]", code)
	}
	return zkErr, nil
}

func (c Code) String() string {
	if c == Ok {
		return "Ok"
	}
	if zkErr, ok := catalog[c]; ok {
		return zkErr.Message
	}
	return fmt.Sprintf("unknown status code [%d]", c)
}
