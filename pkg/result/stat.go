package result

// Stat is the metadata the server tracks for every node. A nil *Stat is used
// as the "no such node" sentinel for the stat operation kind.
type Stat struct {
	// Czxid is the zxid of the change that caused this node to be created.
	Czxid int64
	// Mzxid is the zxid of the change that last modified this node.
	Mzxid int64
	// Ctime and Mtime are in milliseconds from epoch, matching the server clock.
	Ctime int64
	Mtime int64
	// Version is the number of changes to the data of this node.
	Version int32
	// Cversion is the number of changes to the children of this node.
	Cversion int32
	// Aversion is the number of changes to the ACL of this node.
	Aversion int32
	// EphemeralOwner is the session id of the owner if the node is ephemeral,
	// and zero otherwise.
	EphemeralOwner int64
	DataLength     int32
	NumChildren    int32
	// Pzxid is the zxid of the change that last modified the children of this node.
	Pzxid int64
}

// Permission bits for an ACL entry.
const (
	PermRead int32 = 1 << iota
	PermWrite
	PermCreate
	PermDelete
	PermAdmin
	PermAll int32 = 0x1f
)

// ACL is one access control entry on a node.
type ACL struct {
	Perms  int32
	Scheme string
	ID     string
}

// WorldACL returns an ACL list granting the given permissions to everyone.
func WorldACL(perms int32) []ACL {
	return []ACL{{Perms: perms, Scheme: "world", ID: "anyone"}}
}
