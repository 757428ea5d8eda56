package workflow

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/sqlmongo/compiler/atom"
)

func TestToBSONRendersProjectAndMatch(t *testing.T) {
	src := Read("zips")
	shape := NewReshape()
	shape.Set("city", LeafShape(Var(atom.RootPath(atom.P("city")))))
	proj := RawProject(src, shape, ExcludeId)
	sel := Op("$gt", Var(atom.RootPath(atom.P("pop"))), Literal(atom.Int(1000)))
	w := RawMatch(proj, sel)

	pipeline, err := ToBSON(w)
	require.NoError(t, err)
	require.Len(t, pipeline, 2)
	projDoc, ok := pipeline[0].(bson.D)
	require.True(t, ok)
	require.Equal(t, "$project", projDoc[0].Key)
	matchDoc, ok := pipeline[1].(bson.D)
	require.True(t, ok)
	require.Equal(t, "$match", matchDoc[0].Key)
}

func TestToBSONStopsAtRead(t *testing.T) {
	w := Read("zips")
	pipeline, err := ToBSON(w)
	require.NoError(t, err)
	require.Empty(t, pipeline)
}

func TestToBSONWrapsDollarPrefixedStringLiteral(t *testing.T) {
	doc, err := stageToBSON(RawMatch(Read("t"), Op("$eq", Var(atom.RootPath(atom.P("name"))), Literal(atom.Str("$foo")))))
	require.NoError(t, err)
	matchVal := doc[0].Value.(bson.D)
	eqOp := matchVal[0].Value.(bson.D)
	args := eqOp[0].Value.(bson.A)
	wrapped, ok := args[1].(bson.D)
	require.True(t, ok)
	require.Equal(t, "$literal", wrapped[0].Key)
}

func TestToBSONLeavesOrdinaryStringUnwrapped(t *testing.T) {
	v := dataToBSON(atom.Str("plain"))
	if v != "plain" {
		t.Errorf("expected plain string passed through, got %v", v)
	}
}

func TestToBSONWrapsNestedDollarStringInArray(t *testing.T) {
	arr := atom.Arr(atom.Str("ok"), atom.Str("$nested"))
	v := dataToBSON(arr).(bson.A)
	if v[0] != "ok" {
		t.Errorf("expected first element passed through, got %v", v[0])
	}
	wrapped, ok := v[1].(bson.D)
	if !ok || wrapped[0].Key != "$literal" {
		t.Errorf("expected nested $-prefixed array element wrapped, got %v", v[1])
	}
}

func TestToBSONIdHandling(t *testing.T) {
	shape := NewReshape()
	shape.Set("x", LeafShape(Var(atom.RootPath(atom.P("x")))))
	doc, err := stageToBSON(RawProject(Read("t"), shape, IncludeId))
	if err != nil {
		t.Fatalf("stageToBSON failed: %v", err)
	}
	projVal := doc[0].Value.(bson.D)
	if projVal[0].Key != "_id" || projVal[0].Value != 1 {
		t.Errorf("expected leading _id:1 for IncludeId, got %v", projVal[0])
	}
}
