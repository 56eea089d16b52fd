package znode

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikekulinski/zkasync/pkg/result"
	"github.com/mikekulinski/zkasync/pkg/zkerrors"
	"github.com/mikekulinski/zkasync/pkg/zxid"
)

func newTestDB() *DB {
	return NewDB(zxid.NewGenerator(1))
}

// TestDB_CreateThenGet verifies that we can fetch newly created nodes.
func TestDB_CreateThenGet(t *testing.T) {
	const rootChildName = "rootChild"
	const childChildName = "childChild"
	tests := []struct {
		name            string
		path            string
		parentEphemeral bool
		node            *ZNode
		expectedErr     error
	}{
		{
			name: "node missing",
			path: "/random",
			node: nil,
		},
		{
			name: "parent node missing",
			path: "/x/y/z",
			node: nil,
		},
		{
			name: "parent exists, child missing",
			path: fmt.Sprintf("/%s/random", rootChildName),
			node: nil,
		},
		{
			name: "node exists, root",
			path: "/" + rootChildName,
			node: &ZNode{
				Name:     "/" + rootChildName,
				NodeType: ZNodeType_STANDARD,
				Data:     []byte(rootChildName),
			},
		},
		{
			name: "node exists, child of another node",
			path: fmt.Sprintf("/%s/%s", rootChildName, childChildName),
			node: &ZNode{
				Name:     fmt.Sprintf("/%s/%s", rootChildName, childChildName),
				NodeType: ZNodeType_STANDARD,
				Data:     []byte(childChildName),
			},
		},
		{
			name:            "parent node is ephemeral",
			path:            fmt.Sprintf("/%s/%s", rootChildName, childChildName),
			parentEphemeral: true,
			node:            nil,
			expectedErr:     zkerrors.ErrNoChildrenForEphemerals,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			db := newTestDB()
			// Add the parent node.
			_, err := db.Create("/"+rootChildName, []byte(rootChildName), CreateOptions{
				Ephemeral: test.parentEphemeral,
			})
			require.NoError(t, err)
			// Add the child node.
			_, err = db.Create(fmt.Sprintf("/%s/%s", rootChildName, childChildName), []byte(childChildName), CreateOptions{})
			if test.expectedErr != nil {
				require.ErrorIs(t, err, test.expectedErr)
			} else {
				require.NoError(t, err)
			}

			node := db.Get(test.path)
			if test.node == nil || node == nil {
				// If at least one is nil, then check that they are both nil.
				assert.Nil(t, test.node)
				assert.Nil(t, node)
			} else {
				// Otherwise verify the data is equal.
				assert.Equal(t, test.node.Name, node.Name)
				assert.Equal(t, test.node.NodeType, node.NodeType)
				assert.Equal(t, test.node.Data, node.Data)
			}
		})
	}
}

func TestDB_Create_Errors(t *testing.T) {
	db := newTestDB()

	_, err := db.Create("/a", nil, CreateOptions{})
	require.NoError(t, err)

	_, err = db.Create("/a", nil, CreateOptions{})
	assert.ErrorIs(t, err, zkerrors.ErrNodeExists)

	_, err = db.Create("/missing/child", nil, CreateOptions{})
	assert.ErrorIs(t, err, zkerrors.ErrNoNode)
}

func TestDB_Create_Sequential(t *testing.T) {
	db := newTestDB()

	first, err := db.Create("/job", nil, CreateOptions{Sequential: true})
	require.NoError(t, err)
	assert.Equal(t, "/job_0", first)

	second, err := db.Create("/job", nil, CreateOptions{Sequential: true})
	require.NoError(t, err)
	assert.Equal(t, "/job_1", second)
}

func TestDB_Create_StampsStat(t *testing.T) {
	db := newTestDB()

	fullName, err := db.Create("/a", []byte("12345"), CreateOptions{})
	require.NoError(t, err)

	node := db.Get(fullName)
	require.NotNil(t, node)
	assert.Equal(t, node.Stat.Czxid, node.Stat.Mzxid)
	assert.NotZero(t, node.Stat.Czxid)
	assert.Equal(t, int32(0), node.Stat.Version)
	assert.Equal(t, int32(5), node.Stat.DataLength)
	assert.Zero(t, node.Stat.EphemeralOwner)
	// A node created with no ACL gets the open one.
	assert.Equal(t, result.WorldACL(result.PermAll), node.ACL)
}

func TestDB_Create_UpdatesParentStat(t *testing.T) {
	db := newTestDB()

	_, err := db.Create("/a", nil, CreateOptions{})
	require.NoError(t, err)
	_, err = db.Create("/a/b", nil, CreateOptions{})
	require.NoError(t, err)

	parent := db.Get("/a")
	require.NotNil(t, parent)
	assert.Equal(t, int32(1), parent.Stat.NumChildren)
	assert.Equal(t, int32(1), parent.Stat.Cversion)
	assert.Greater(t, parent.Stat.Pzxid, parent.Stat.Czxid)
}

func TestDB_Delete(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		version     int32
		expectedErr error
	}{
		{
			name:        "node missing",
			path:        "/random",
			version:     -1,
			expectedErr: zkerrors.ErrNoNode,
		},
		{
			name:        "parent missing",
			path:        "/x/y",
			version:     -1,
			expectedErr: zkerrors.ErrNoNode,
		},
		{
			name:        "version conflict",
			path:        "/a/leaf",
			version:     99,
			expectedErr: zkerrors.ErrBadVersion,
		},
		{
			name:        "node has children",
			path:        "/a",
			version:     -1,
			expectedErr: zkerrors.ErrNotEmpty,
		},
		{
			name:    "valid delete, wildcard version",
			path:    "/a/leaf",
			version: -1,
		},
		{
			name:    "valid delete, matching version",
			path:    "/a/leaf",
			version: 0,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			db := newTestDB()
			_, err := db.Create("/a", nil, CreateOptions{})
			require.NoError(t, err)
			_, err = db.Create("/a/leaf", nil, CreateOptions{})
			require.NoError(t, err)

			_, err = db.Delete(test.path, test.version)
			if test.expectedErr != nil {
				assert.ErrorIs(t, err, test.expectedErr)
				return
			}
			assert.NoError(t, err)
			assert.Nil(t, db.Get(test.path))
		})
	}
}

func TestDB_SetDataThenGetData(t *testing.T) {
	db := newTestDB()
	_, err := db.Create("/a", []byte("old"), CreateOptions{})
	require.NoError(t, err)

	stat, err := db.SetData("/a", []byte("newer"), 0)
	require.NoError(t, err)
	assert.Equal(t, int32(1), stat.Version)
	assert.Equal(t, int32(5), stat.DataLength)
	assert.Greater(t, stat.Mzxid, stat.Czxid)

	data, stat, err := db.GetData("/a")
	require.NoError(t, err)
	assert.Equal(t, []byte("newer"), data)
	assert.Equal(t, int32(1), stat.Version)

	// Stale version is rejected.
	_, err = db.SetData("/a", []byte("again"), 0)
	assert.ErrorIs(t, err, zkerrors.ErrBadVersion)

	_, err = db.SetData("/missing", nil, -1)
	assert.ErrorIs(t, err, zkerrors.ErrNoNode)
}

func TestDB_GetChildren(t *testing.T) {
	db := newTestDB()
	_, err := db.Create("/a", nil, CreateOptions{})
	require.NoError(t, err)
	for _, name := range []string{"c", "a", "b"} {
		_, err = db.Create("/a/"+name, nil, CreateOptions{})
		require.NoError(t, err)
	}

	children, stat, err := db.GetChildren("/a")
	require.NoError(t, err)
	// Listings are sorted so callers get deterministic results.
	assert.Equal(t, []string{"a", "b", "c"}, children)
	assert.Equal(t, int32(3), stat.NumChildren)

	_, _, err = db.GetChildren("/missing")
	assert.ErrorIs(t, err, zkerrors.ErrNoNode)
}

func TestDB_ACL(t *testing.T) {
	db := newTestDB()
	_, err := db.Create("/a", nil, CreateOptions{})
	require.NoError(t, err)

	acl, stat, err := db.GetACL("/a")
	require.NoError(t, err)
	assert.Equal(t, result.WorldACL(result.PermAll), acl)
	assert.Equal(t, int32(0), stat.Aversion)

	readOnly := result.WorldACL(result.PermRead)
	require.NoError(t, db.SetACL("/a", readOnly, 0))

	acl, stat, err = db.GetACL("/a")
	require.NoError(t, err)
	assert.Equal(t, readOnly, acl)
	assert.Equal(t, int32(1), stat.Aversion)

	// Stale ACL version is rejected.
	assert.ErrorIs(t, db.SetACL("/a", readOnly, 0), zkerrors.ErrBadVersion)
	// An empty ACL would lock everyone out, including admins.
	assert.ErrorIs(t, db.SetACL("/a", nil, -1), zkerrors.ErrInvalidACL)
	assert.ErrorIs(t, db.SetACL("/missing", readOnly, -1), zkerrors.ErrNoNode)
}

func TestNewFullName(t *testing.T) {
	tests := []struct {
		name           string
		nodeName       string
		ancestorsNames []string
		expectedResult string
	}{
		{
			name:           "no ancestors",
			nodeName:       "node",
			ancestorsNames: nil,
			expectedResult: "/node",
		},
		{
			name:           "1 ancestor",
			nodeName:       "node",
			ancestorsNames: []string{"a1"},
			expectedResult: "/a1/node",
		},
		{
			name:           "multiple ancestors",
			nodeName:       "node",
			ancestorsNames: []string{"a1", "a2", "a3"},
			expectedResult: "/a1/a2/a3/node",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			actualResult := newFullName(test.nodeName, test.ancestorsNames)
			assert.Equal(t, test.expectedResult, actualResult)
		})
	}
}
