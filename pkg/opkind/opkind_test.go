package opkind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikekulinski/zkasync/pkg/result"
	"github.com/mikekulinski/zkasync/pkg/zkerrors"
)

func TestClassify_FieldOrder(t *testing.T) {
	stat := &result.Stat{Version: 3}
	acl := result.WorldACL(result.PermAll)

	tests := []struct {
		name           string
		kind           Kind
		bundle         *result.Bundle
		expectedValues []any
	}{
		{
			name: "get delivers data then stat",
			kind: Get,
			bundle: &result.Bundle{Status: zkerrors.Ok, Fields: map[result.Field]any{
				result.FieldStat: stat,
				result.FieldData: []byte("hello"),
			}},
			expectedValues: []any{[]byte("hello"), stat},
		},
		{
			name: "children delivers names then stat",
			kind: Children,
			bundle: &result.Bundle{Status: zkerrors.Ok, Fields: map[result.Field]any{
				result.FieldStat:     stat,
				result.FieldChildren: []string{"a", "b"},
			}},
			expectedValues: []any{[]string{"a", "b"}, stat},
		},
		{
			name: "create delivers the path",
			kind: Create,
			bundle: &result.Bundle{Status: zkerrors.Ok, Fields: map[result.Field]any{
				result.FieldPath: "/a",
			}},
			expectedValues: []any{"/a"},
		},
		{
			name: "stat delivers the stat",
			kind: Stat,
			bundle: &result.Bundle{Status: zkerrors.Ok, Fields: map[result.Field]any{
				result.FieldStat: stat,
			}},
			expectedValues: []any{stat},
		},
		{
			name: "set delivers the stat",
			kind: Set,
			bundle: &result.Bundle{Status: zkerrors.Ok, Fields: map[result.Field]any{
				result.FieldStat: stat,
			}},
			expectedValues: []any{stat},
		},
		{
			name:           "delete delivers nothing",
			kind:           Delete,
			bundle:         &result.Bundle{Status: zkerrors.Ok},
			expectedValues: []any{},
		},
		{
			name:           "setAcl delivers nothing",
			kind:           SetACL,
			bundle:         &result.Bundle{Status: zkerrors.Ok},
			expectedValues: []any{},
		},
		{
			name: "getAcl delivers acl then stat",
			kind: GetACL,
			bundle: &result.Bundle{Status: zkerrors.Ok, Fields: map[result.Field]any{
				result.FieldStat: stat,
				result.FieldACL:  acl,
			}},
			expectedValues: []any{acl, stat},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out := Classify(test.kind, test.bundle)
			assert.True(t, out.Succeeded)
			assert.NoError(t, out.Err)
			assert.Equal(t, test.expectedValues, out.Values)
		})
	}
}

func TestClassify_Failures(t *testing.T) {
	tests := []struct {
		name        string
		kind        Kind
		status      zkerrors.Code
		expectedErr error
	}{
		{
			name:        "get with no node",
			kind:        Get,
			status:      zkerrors.NoNode,
			expectedErr: zkerrors.ErrNoNode,
		},
		{
			name:        "create with node exists",
			kind:        Create,
			status:      zkerrors.NodeExists,
			expectedErr: zkerrors.ErrNodeExists,
		},
		{
			name:        "set with bad version",
			kind:        Set,
			status:      zkerrors.BadVersion,
			expectedErr: zkerrors.ErrBadVersion,
		},
		{
			name:        "delete with not empty",
			kind:        Delete,
			status:      zkerrors.NotEmpty,
			expectedErr: zkerrors.ErrNotEmpty,
		},
		{
			name:   "stat only tolerates no node",
			kind:   Stat,
			status: zkerrors.ConnectionLoss,

			expectedErr: zkerrors.ErrConnectionLoss,
		},
		{
			name:        "exists does not swallow other errors into false",
			kind:        Exists,
			status:      zkerrors.NoAuth,
			expectedErr: zkerrors.ErrNoAuth,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out := Classify(test.kind, &result.Bundle{Status: test.status})
			assert.False(t, out.Succeeded)
			assert.Empty(t, out.Values)
			assert.ErrorIs(t, out.Err, test.expectedErr)
		})
	}
}

func TestClassify_ToleratedNoNode(t *testing.T) {
	// The stat kind treats a missing node as success with a nil stat sentinel.
	out := Classify(Stat, &result.Bundle{Status: zkerrors.NoNode})
	require.True(t, out.Succeeded)
	require.Len(t, out.Values, 1)
	assert.Nil(t, out.Values[0])

	// The exists kind shares the tolerance but delivers a boolean instead.
	out = Classify(Exists, &result.Bundle{Status: zkerrors.NoNode})
	require.True(t, out.Succeeded)
	require.Len(t, out.Values, 1)
	assert.Equal(t, false, out.Values[0])
}

func TestClassify_ExistsTransform(t *testing.T) {
	out := Classify(Exists, &result.Bundle{Status: zkerrors.Ok, Fields: map[result.Field]any{
		result.FieldStat: &result.Stat{Version: 1},
	}})
	require.True(t, out.Succeeded)
	require.Len(t, out.Values, 1)
	assert.Equal(t, true, out.Values[0])
}

func TestClassify_UnknownStatusPanics(t *testing.T) {
	// A code missing from the catalog means this library and the server
	// disagree on the code set. That must never deliver a degraded result.
	assert.Panics(t, func() {
		Classify(Get, &result.Bundle{Status: zkerrors.Code(-9999)})
	})
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "get", Get.String())
	assert.Equal(t, "setAcl", SetACL.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}
