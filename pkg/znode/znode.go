package znode

import (
	"github.com/mikekulinski/zkasync/pkg/result"
)

type ZNodeType int

const (
	ZNodeType_STANDARD ZNodeType = iota
	ZNodeType_EPHEMERAL
)

type ZNode struct {
	// ZNode metadata.
	Name               string
	NodeType           ZNodeType
	Stat               result.Stat
	ACL                []result.ACL
	Children           map[string]*ZNode
	NextSequentialNode int
	// OwnerID is the client ID of the session that created this node. Only
	// meaningful for ephemeral nodes, where it drives session cleanup.
	OwnerID string

	// Data is the data stored here by the client.
	Data []byte
}

func NewZNode(name string, nodeType ZNodeType, ownerID string, data []byte) *ZNode {
	return &ZNode{
		Name:     name,
		NodeType: nodeType,
		// Init the children to an empty map instead of nil to avoid panics when writing to
		// a nil map.
		Children: map[string]*ZNode{},
		OwnerID:  ownerID,
		Data:     data,
	}
}

// StatSnapshot returns a copy of the node's stat so callers never share the
// mutable record guarded by the DB lock.
func (z *ZNode) StatSnapshot() *result.Stat {
	stat := z.Stat
	return &stat
}
