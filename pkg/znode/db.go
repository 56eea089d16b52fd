package znode

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mikekulinski/zkasync/pkg/result"
	"github.com/mikekulinski/zkasync/pkg/wire"
	"github.com/mikekulinski/zkasync/pkg/zkerrors"
	"github.com/mikekulinski/zkasync/pkg/zxid"
)

// DB is the source of truth for all the data stored in the coordination
// server. It also controls the locking mechanism, so it can be abstracted
// away from the caller. Every failure is one of the shared zkerrors
// sentinels, so the server can translate it straight into a status code.
type DB struct {
	root *ZNode
	mu   *sync.RWMutex
	gen  *zxid.Generator

	// now is a test hook for stat timestamps.
	now func() time.Time
}

func NewDB(gen *zxid.Generator) *DB {
	return &DB{
		root: NewZNode("", ZNodeType_STANDARD, "", nil),
		mu:   &sync.RWMutex{},
		gen:  gen,
		now:  time.Now,
	}
}

// Get returns the node at the given path, or nil if it doesn't exist.
func (d *DB) Get(path string) *ZNode {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := splitPathIntoNodeNames(path)

	return findZNode(d.root, names)
}

// CreateOptions selects the attributes of the node to create.
type CreateOptions struct {
	Ephemeral  bool
	Sequential bool
	ACL        []result.ACL
	// OwnerID is the session creating the node. Required for ephemeral nodes.
	OwnerID string
}

// Create adds a new node and returns its full path, including any sequence
// suffix. The parent's child stats are updated in the same transaction.
func (d *DB) Create(path string, data []byte, opts CreateOptions) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	names := splitPathIntoNodeNames(path)
	// Search down the tree until we hit the parent where we'll be creating this new node.
	parent := findZNode(d.root, names[:len(names)-1])
	if parent == nil {
		return "", zkerrors.ErrNoNode
	}
	if parent.NodeType == ZNodeType_EPHEMERAL {
		return "", zkerrors.ErrNoChildrenForEphemerals
	}

	// We are at the parent node of the one we are trying to create. Now let's
	// try to create it.
	newName := names[len(names)-1]
	if opts.Sequential {
		newName = sequentialName(newName, parent.NextSequentialNode)
	}
	if _, ok := parent.Children[newName]; ok {
		return "", zkerrors.ErrNodeExists
	}

	fullName := newFullName(newName, names[:len(names)-1])
	nodeType := ZNodeType_STANDARD
	if opts.Ephemeral {
		nodeType = ZNodeType_EPHEMERAL
	}
	newNode := NewZNode(fullName, nodeType, opts.OwnerID, data)

	acl := opts.ACL
	if len(acl) == 0 {
		acl = result.WorldACL(result.PermAll)
	}
	newNode.ACL = acl

	z := int64(d.gen.Next())
	nowMs := d.now().UnixMilli()
	newNode.Stat = result.Stat{
		Czxid:      z,
		Mzxid:      z,
		Pzxid:      z,
		Ctime:      nowMs,
		Mtime:      nowMs,
		DataLength: int32(len(data)),
	}
	if opts.Ephemeral {
		newNode.Stat.EphemeralOwner = z
	}

	parent.Children[newName] = newNode
	parent.Stat.NumChildren++
	parent.Stat.Cversion++
	parent.Stat.Pzxid = z
	// Make sure to increment the counter so the next sequential node will have the next number.
	if opts.Sequential {
		parent.NextSequentialNode++
	}
	return fullName, nil
}

// Delete removes the node at the given path if the version matches. Only
// leaf nodes can be deleted. The removed node is returned so the server can
// clean up any session bookkeeping tied to it.
func (d *DB) Delete(path string, version int32) (*ZNode, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	names := splitPathIntoNodeNames(path)

	parent := findZNode(d.root, names[:len(names)-1])
	if parent == nil {
		return nil, zkerrors.ErrNoNode
	}

	nameToDelete := names[len(names)-1]
	node, ok := parent.Children[nameToDelete]
	if !ok {
		return nil, zkerrors.ErrNoNode
	}
	if !wire.IsValidVersion(version, node.Stat.Version) {
		return nil, zkerrors.ErrBadVersion
	}
	if len(node.Children) > 0 {
		return nil, zkerrors.ErrNotEmpty
	}

	delete(parent.Children, nameToDelete)
	parent.Stat.NumChildren--
	parent.Stat.Cversion++
	parent.Stat.Pzxid = int64(d.gen.Next())
	return node, nil
}

// SetData writes data to the node if the version matches, and returns the
// updated stat.
func (d *DB) SetData(path string, data []byte, version int32) (*result.Stat, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	node := findZNode(d.root, splitPathIntoNodeNames(path))
	if node == nil {
		return nil, zkerrors.ErrNoNode
	}
	if !wire.IsValidVersion(version, node.Stat.Version) {
		return nil, zkerrors.ErrBadVersion
	}

	node.Data = data
	node.Stat.Version++
	node.Stat.Mzxid = int64(d.gen.Next())
	node.Stat.Mtime = d.now().UnixMilli()
	node.Stat.DataLength = int32(len(data))
	return node.StatSnapshot(), nil
}

// GetData returns the node's data and stat.
func (d *DB) GetData(path string) ([]byte, *result.Stat, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	node := findZNode(d.root, splitPathIntoNodeNames(path))
	if node == nil {
		return nil, nil, zkerrors.ErrNoNode
	}
	return node.Data, node.StatSnapshot(), nil
}

// GetChildren returns the sorted names of the node's children and its stat.
func (d *DB) GetChildren(path string) ([]string, *result.Stat, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	node := findZNode(d.root, splitPathIntoNodeNames(path))
	if node == nil {
		return nil, nil, zkerrors.ErrNoNode
	}

	childrenNames := make([]string, 0, len(node.Children))
	for name := range node.Children {
		childrenNames = append(childrenNames, name)
	}
	// Map iteration order is random, so keep listings deterministic.
	sort.Strings(childrenNames)
	return childrenNames, node.StatSnapshot(), nil
}

// GetACL returns the node's access control list and stat.
func (d *DB) GetACL(path string) ([]result.ACL, *result.Stat, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	node := findZNode(d.root, splitPathIntoNodeNames(path))
	if node == nil {
		return nil, nil, zkerrors.ErrNoNode
	}

	acl := make([]result.ACL, len(node.ACL))
	copy(acl, node.ACL)
	return acl, node.StatSnapshot(), nil
}

// SetACL replaces the node's access control list if the ACL version matches.
func (d *DB) SetACL(path string, acl []result.ACL, version int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	node := findZNode(d.root, splitPathIntoNodeNames(path))
	if node == nil {
		return zkerrors.ErrNoNode
	}
	if !wire.IsValidVersion(version, node.Stat.Aversion) {
		return zkerrors.ErrBadVersion
	}
	if len(acl) == 0 {
		return zkerrors.ErrInvalidACL
	}

	node.ACL = make([]result.ACL, len(acl))
	copy(node.ACL, acl)
	node.Stat.Aversion++
	return nil
}

// findZNode will search down to the tree and return the node specified by the names.
// If the node could not be found, then we will return nil.
func findZNode(start *ZNode, names []string) *ZNode {
	node := start
	for _, name := range names {
		z, ok := node.Children[name]
		if !ok {
			return nil
		}
		node = z
	}
	return node
}

func splitPathIntoNodeNames(path string) []string {
	// Since we have a leading /, then we expect the first name to be empty.
	return strings.Split(path, "/")[1:]
}

func sequentialName(name string, counter int) string {
	return fmt.Sprintf("%s_%d", name, counter)
}

func newFullName(nodeName string, ancestorsNames []string) string {
	nodePath := "/" + nodeName
	if len(ancestorsNames) > 0 {
		return "/" + strings.Join(ancestorsNames, "/") + nodePath
	}
	return nodePath
}
