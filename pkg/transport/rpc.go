package transport

import (
	"fmt"
	"net/rpc"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/mikekulinski/zkasync/pkg/opkind"
	"github.com/mikekulinski/zkasync/pkg/result"
	"github.com/mikekulinski/zkasync/pkg/wire"
	"github.com/mikekulinski/zkasync/pkg/zkerrors"
)

// RPC is the net/rpc implementation of Transport. Every submitted call is
// issued with rpc.Client.Go, so completion arrives on the rpc client's own
// goroutine and is converted into a result bundle there.
type RPC struct {
	rpcClient *rpc.Client
	log       *zap.Logger
	// xid numbers submissions so every bundle can be correlated back to its call.
	xid atomic.Int64
}

type RPCOption func(*RPC)

// WithLogger replaces the default no-op logger.
func WithLogger(log *zap.Logger) RPCOption {
	return func(t *RPC) {
		t.log = log
	}
}

// DialRPC connects to the coordination server at the given endpoint.
func DialRPC(endpoint string, opts ...RPCOption) (*RPC, error) {
	// Dial the initial RPC connection.
	rpcClient, err := rpc.DialHTTP("tcp", endpoint+":8080")
	if err != nil {
		return nil, fmt.Errorf("dialing: %w", err)
	}
	t := &RPC{
		rpcClient: rpcClient,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Connect initiates the session with the coordination server.
func (t *RPC) Connect(clientID string) error {
	req := &wire.ConnectReq{ClientID: wire.ClientID{ID: clientID}}
	resp := &wire.ConnectResp{}
	if err := t.rpcClient.Call(wire.ServiceName+".Connect", req, resp); err != nil {
		return fmt.Errorf("error connecting to the coordination server: %w", err)
	}
	if resp.Status != zkerrors.Ok {
		zkErr, err := zkerrors.Lookup(resp.Status)
		if err != nil {
			return err
		}
		return zkErr
	}
	return nil
}

// Close terminates the session and tears down the rpc connection.
func (t *RPC) Close(clientID string) error {
	req := &wire.CloseReq{ClientID: wire.ClientID{ID: clientID}}
	resp := &wire.CloseResp{}
	if err := t.rpcClient.Call(wire.ServiceName+".Close", req, resp); err != nil {
		return fmt.Errorf("error closing the session: %w", err)
	}
	return t.rpcClient.Close()
}

// Submit issues the call asynchronously and returns the submission-status
// bundle. A path that fails validation is rejected here, before anything is
// sent, producing a BadArguments submission bundle.
func (t *RPC) Submit(req *Request, complete CompletionFunc) *result.Bundle {
	xid := t.xid.Add(1)

	if err := wire.ValidatePath(req.Path); err != nil {
		t.log.Debug("rejecting submission",
			zap.Int64("xid", xid),
			zap.Stringer("op", req.Op),
			zap.String("path", req.Path),
			zap.Error(err))
		return &result.Bundle{Status: zkerrors.BadArguments, Xid: xid}
	}

	method, args, reply := buildCall(req)
	call := t.rpcClient.Go(wire.ServiceName+"."+method, args, reply, nil)
	go func() {
		<-call.Done
		complete(completionBundle(req.Op, xid, call))
	}()
	return &result.Bundle{Status: zkerrors.Ok, Xid: xid}
}

// buildCall maps the request onto the wire method and its typed args/reply.
func buildCall(req *Request) (method string, args, reply any) {
	clientID := wire.ClientID{ID: req.ClientID}
	switch req.Op {
	case opkind.Get:
		return "GetData", &wire.GetDataReq{ClientID: clientID, Path: req.Path}, &wire.GetDataResp{}
	case opkind.Children:
		return "GetChildren", &wire.GetChildrenReq{ClientID: clientID, Path: req.Path}, &wire.GetChildrenResp{}
	case opkind.Create:
		return "Create", &wire.CreateReq{
			ClientID: clientID,
			Path:     req.Path,
			Data:     req.Data,
			Flags:    req.Flags,
			ACL:      req.ACL,
		}, &wire.CreateResp{}
	case opkind.Stat, opkind.Exists:
		return "Exists", &wire.ExistsReq{ClientID: clientID, Path: req.Path}, &wire.ExistsResp{}
	case opkind.Set:
		return "SetData", &wire.SetDataReq{
			ClientID: clientID,
			Path:     req.Path,
			Data:     req.Data,
			Version:  req.Version,
		}, &wire.SetDataResp{}
	case opkind.Delete:
		return "Delete", &wire.DeleteReq{ClientID: clientID, Path: req.Path, Version: req.Version}, &wire.DeleteResp{}
	case opkind.SetACL:
		return "SetACL", &wire.SetACLReq{
			ClientID: clientID,
			Path:     req.Path,
			ACL:      req.ACL,
			Version:  req.Version,
		}, &wire.SetACLResp{}
	case opkind.GetACL:
		return "GetACL", &wire.GetACLReq{ClientID: clientID, Path: req.Path}, &wire.GetACLResp{}
	default:
		panic(fmt.Sprintf("transport: unsupported operation kind %v", req.Op))
	}
}

// completionBundle converts the finished rpc call into the raw bundle handed
// to the dispatch layer. An rpc-level failure surfaces as ConnectionLoss.
func completionBundle(op opkind.Kind, xid int64, call *rpc.Call) *result.Bundle {
	if call.Error != nil {
		return &result.Bundle{Status: zkerrors.ConnectionLoss, Xid: xid}
	}

	b := &result.Bundle{Xid: xid, Fields: map[result.Field]any{}}
	switch reply := call.Reply.(type) {
	case *wire.GetDataResp:
		b.Status = reply.Status
		if reply.Status == zkerrors.Ok {
			b.Fields[result.FieldData] = reply.Data
			b.Fields[result.FieldStat] = reply.Stat
		}
	case *wire.GetChildrenResp:
		b.Status = reply.Status
		if reply.Status == zkerrors.Ok {
			b.Fields[result.FieldChildren] = reply.Children
			b.Fields[result.FieldStat] = reply.Stat
		}
	case *wire.CreateResp:
		b.Status = reply.Status
		if reply.Status == zkerrors.Ok {
			b.Fields[result.FieldPath] = reply.Path
		}
	case *wire.ExistsResp:
		b.Status = reply.Status
		if reply.Status == zkerrors.Ok {
			b.Fields[result.FieldStat] = reply.Stat
		}
	case *wire.SetDataResp:
		b.Status = reply.Status
		if reply.Status == zkerrors.Ok {
			b.Fields[result.FieldStat] = reply.Stat
		}
	case *wire.DeleteResp:
		b.Status = reply.Status
	case *wire.SetACLResp:
		b.Status = reply.Status
	case *wire.GetACLResp:
		b.Status = reply.Status
		if reply.Status == zkerrors.Ok {
			b.Fields[result.FieldACL] = reply.ACL
			b.Fields[result.FieldStat] = reply.Stat
		}
	default:
		panic(fmt.Sprintf("transport: unexpected reply type %T for %v", call.Reply, op))
	}
	return b
}
