// Package wire holds the request/response types exchanged between the
// asynchronous client and the coordination server, and the service interface
// the server implements. Every response carries a status code; the rpc error
// channel is reserved for transport failures.
package wire

import (
	"github.com/mikekulinski/zkasync/pkg/result"
	"github.com/mikekulinski/zkasync/pkg/zkerrors"
)

// ServiceName is the name the coordination service is registered under.
const ServiceName = "Coordinator"

// ClientID is the ID used to maintain a client/server session. This is expected
// to be included in every request to the server. The caller isn't expected to set
// this value. The client library will do this automatically and will overwrite
// any value directly set by the client anyway.
type ClientID struct {
	ID string
}

type Flag int

const (
	// FlagEphemeral indicates that the node to be created should be automatically
	// destroyed once the session has been terminated (either intentionally or on failure).
	FlagEphemeral Flag = iota
	// FlagSequential indicates that the node to be created should have a monotonically
	// increasing counter appended to the end of the provided name.
	FlagSequential
)

type CreateReq struct {
	ClientID

	Path  string
	Data  []byte
	Flags []Flag
	ACL   []result.ACL
}

type CreateResp struct {
	Status zkerrors.Code
	// Path is the full path of the created node, including any sequence suffix.
	Path string
}

type DeleteReq struct {
	ClientID

	Path    string
	Version int32
}

type DeleteResp struct {
	Status zkerrors.Code
}

type ExistsReq struct {
	ClientID

	Path string
}

type ExistsResp struct {
	Status zkerrors.Code
	// Stat is set only when the node exists.
	Stat *result.Stat
}

type GetDataReq struct {
	ClientID

	Path string
}

type GetDataResp struct {
	Status zkerrors.Code
	Data   []byte
	Stat   *result.Stat
}

type SetDataReq struct {
	ClientID

	Path    string
	Data    []byte
	Version int32
}

type SetDataResp struct {
	Status zkerrors.Code
	Stat   *result.Stat
}

type GetChildrenReq struct {
	ClientID

	Path string
}

type GetChildrenResp struct {
	Status   zkerrors.Code
	Children []string
	Stat     *result.Stat
}

type GetACLReq struct {
	ClientID

	Path string
}

type GetACLResp struct {
	Status zkerrors.Code
	ACL    []result.ACL
	Stat   *result.Stat
}

type SetACLReq struct {
	ClientID

	Path    string
	ACL     []result.ACL
	Version int32
}

type SetACLResp struct {
	Status zkerrors.Code
}

/*
Server/Client connections
*/
type ConnectReq struct {
	ClientID
}

type ConnectResp struct {
	Status zkerrors.Code
}

type CloseReq struct {
	ClientID
}

type CloseResp struct {
	Status zkerrors.Code
}
