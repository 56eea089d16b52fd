// Package server is the reference in-process coordination server. It
// implements wire.Coordinator over the in-memory node tree, expressing every
// outcome as a status code in the response. The rpc error channel is reserved
// for transport-level failures.
package server

import (
	"errors"

	"go.uber.org/zap"

	"github.com/mikekulinski/zkasync/pkg/session"
	"github.com/mikekulinski/zkasync/pkg/wire"
	"github.com/mikekulinski/zkasync/pkg/zkerrors"
	"github.com/mikekulinski/zkasync/pkg/znode"
	"github.com/mikekulinski/zkasync/pkg/zxid"
)

type Server struct {
	db *znode.DB
	// sessions tracks all the clients that are currently connected, and the
	// ephemeral nodes each of them owns.
	sessions *session.Registry
	log      *zap.Logger
}

type Option func(*Server)

// WithLogger replaces the default no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

func NewServer(opts ...Option) *Server {
	s := &Server{
		db:       znode.NewDB(zxid.NewGenerator(1)),
		sessions: session.NewRegistry(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect registers a new session for the given client ID.
func (s *Server) Connect(req *wire.ConnectReq, resp *wire.ConnectResp) error {
	if _, err := s.sessions.Start(req.ID); err != nil {
		resp.Status = zkerrors.SessionMoved
		return nil
	}
	s.log.Info("session started", zap.String("client_id", req.ID))
	resp.Status = zkerrors.Ok
	return nil
}

// Close terminates the session and deletes any ephemeral nodes it owns.
func (s *Server) Close(req *wire.CloseReq, resp *wire.CloseResp) error {
	for _, path := range s.sessions.End(req.ID) {
		// Ephemeral nodes are always leaves, so an unconditional delete can
		// only fail if something else already removed the node.
		if _, err := s.db.Delete(path, -1); err != nil && !errors.Is(err, zkerrors.ErrNoNode) {
			s.log.Error("deleting ephemeral node on session close",
				zap.String("client_id", req.ID),
				zap.String("path", path),
				zap.Error(err))
		}
	}
	s.log.Info("session closed", zap.String("client_id", req.ID))
	resp.Status = zkerrors.Ok
	return nil
}

// Create creates a node at the given path, stores data in it, and returns the
// full path of the new node. Flags select ephemeral/sequential behavior.
func (s *Server) Create(req *wire.CreateReq, resp *wire.CreateResp) error {
	if err := wire.ValidatePath(req.Path); err != nil {
		resp.Status = zkerrors.BadArguments
		return nil
	}

	opts := znode.CreateOptions{
		ACL:     req.ACL,
		OwnerID: req.ID,
	}
	for _, flag := range req.Flags {
		switch flag {
		case wire.FlagEphemeral:
			opts.Ephemeral = true
		case wire.FlagSequential:
			opts.Sequential = true
		}
	}

	fullName, err := s.db.Create(req.Path, req.Data, opts)
	if err != nil {
		resp.Status = statusOf(err)
		return nil
	}
	if opts.Ephemeral {
		s.sessions.TrackEphemeral(req.ID, fullName)
	}
	resp.Status = zkerrors.Ok
	resp.Path = fullName
	return nil
}

// Delete deletes the node at the given path if that node is at the expected version.
func (s *Server) Delete(req *wire.DeleteReq, resp *wire.DeleteResp) error {
	if err := wire.ValidatePath(req.Path); err != nil {
		resp.Status = zkerrors.BadArguments
		return nil
	}

	node, err := s.db.Delete(req.Path, req.Version)
	if err != nil {
		resp.Status = statusOf(err)
		return nil
	}
	if node.NodeType == znode.ZNodeType_EPHEMERAL {
		s.sessions.ForgetEphemeral(node.OwnerID, node.Name)
	}
	resp.Status = zkerrors.Ok
	return nil
}

// Exists reports the metadata of the node at the given path. A missing node
// is reported through the status code, not the rpc error.
func (s *Server) Exists(req *wire.ExistsReq, resp *wire.ExistsResp) error {
	if err := wire.ValidatePath(req.Path); err != nil {
		resp.Status = zkerrors.BadArguments
		return nil
	}

	node := s.db.Get(req.Path)
	if node == nil {
		resp.Status = zkerrors.NoNode
		return nil
	}
	resp.Status = zkerrors.Ok
	resp.Stat = node.StatSnapshot()
	return nil
}

// GetData returns the data and metadata, such as version information, associated with the node.
func (s *Server) GetData(req *wire.GetDataReq, resp *wire.GetDataResp) error {
	if err := wire.ValidatePath(req.Path); err != nil {
		resp.Status = zkerrors.BadArguments
		return nil
	}

	data, stat, err := s.db.GetData(req.Path)
	if err != nil {
		resp.Status = statusOf(err)
		return nil
	}
	resp.Status = zkerrors.Ok
	resp.Data = data
	resp.Stat = stat
	return nil
}

// SetData writes data to the node path if the version number is the current version of the node.
func (s *Server) SetData(req *wire.SetDataReq, resp *wire.SetDataResp) error {
	if err := wire.ValidatePath(req.Path); err != nil {
		resp.Status = zkerrors.BadArguments
		return nil
	}

	stat, err := s.db.SetData(req.Path, req.Data, req.Version)
	if err != nil {
		resp.Status = statusOf(err)
		return nil
	}
	resp.Status = zkerrors.Ok
	resp.Stat = stat
	return nil
}

// GetChildren returns the set of names of the children of a node.
func (s *Server) GetChildren(req *wire.GetChildrenReq, resp *wire.GetChildrenResp) error {
	if err := wire.ValidatePath(req.Path); err != nil {
		resp.Status = zkerrors.BadArguments
		return nil
	}

	children, stat, err := s.db.GetChildren(req.Path)
	if err != nil {
		resp.Status = statusOf(err)
		return nil
	}
	resp.Status = zkerrors.Ok
	resp.Children = children
	resp.Stat = stat
	return nil
}

// GetACL returns the access control list of the node and its metadata.
func (s *Server) GetACL(req *wire.GetACLReq, resp *wire.GetACLResp) error {
	if err := wire.ValidatePath(req.Path); err != nil {
		resp.Status = zkerrors.BadArguments
		return nil
	}

	acl, stat, err := s.db.GetACL(req.Path)
	if err != nil {
		resp.Status = statusOf(err)
		return nil
	}
	resp.Status = zkerrors.Ok
	resp.ACL = acl
	resp.Stat = stat
	return nil
}

// SetACL replaces the access control list of the node if the version number
// is the current ACL version of the node.
func (s *Server) SetACL(req *wire.SetACLReq, resp *wire.SetACLResp) error {
	if err := wire.ValidatePath(req.Path); err != nil {
		resp.Status = zkerrors.BadArguments
		return nil
	}

	if err := s.db.SetACL(req.Path, req.ACL, req.Version); err != nil {
		resp.Status = statusOf(err)
		return nil
	}
	resp.Status = zkerrors.Ok
	return nil
}

// statusOf translates a DB error into the status code sent on the wire.
func statusOf(err error) zkerrors.Code {
	if err == nil {
		return zkerrors.Ok
	}
	var zkErr *zkerrors.Error
	if errors.As(err, &zkErr) {
		return zkErr.Code
	}
	return zkerrors.SystemError
}
