package wire

type Coordinator interface {
	// Connect registers a new session for the given client ID.
	Connect(req *ConnectReq, resp *ConnectResp) error
	// Close terminates the session and deletes any ephemeral nodes it owns.
	Close(req *CloseReq, resp *CloseResp) error
	// Create creates a node at the given path, stores data in it, and returns the
	// full path of the new node. Flags select ephemeral/sequential behavior.
	Create(req *CreateReq, resp *CreateResp) error
	// Delete deletes the node at the given path if that node is at the expected version.
	Delete(req *DeleteReq, resp *DeleteResp) error
	// Exists reports the metadata of the node at the given path. A missing node
	// is reported through the status code, not the rpc error.
	Exists(req *ExistsReq, resp *ExistsResp) error
	// GetData returns the data and metadata, such as version information, associated with the node.
	GetData(req *GetDataReq, resp *GetDataResp) error
	// SetData writes data to the node path if the version number is the current version of the node.
	SetData(req *SetDataReq, resp *SetDataResp) error
	// GetChildren returns the set of names of the children of a node.
	GetChildren(req *GetChildrenReq, resp *GetChildrenResp) error
	// GetACL returns the access control list of the node and its metadata.
	GetACL(req *GetACLReq, resp *GetACLResp) error
	// SetACL replaces the access control list of the node if the version number
	// is the current ACL version of the node.
	SetACL(req *SetACLReq, resp *SetACLResp) error
}
