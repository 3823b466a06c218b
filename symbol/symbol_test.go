package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignIDs_PartitionOrder(t *testing.T) {
	tab := NewTable()

	plus := tab.Declare("+", KindTerminal)
	plus.IsUserTerm = true
	num := tab.Declare("num", KindTerminal)
	num.IsUserTerm = true

	eof := tab.Declare("<eof>", KindTerminal)
	eof.IsEOF = true

	noTok := tab.Declare("<no-token>", KindTerminal)
	errSym := tab.Declare("error", KindTerminal)

	expr := tab.Declare("expr", KindNonTerminal)
	root := tab.Declare("root", KindNonTerminal)
	root.RootDef = true

	require.NoError(t, tab.AssignIDs("<no-token>", "error"))

	assert.False(t, plus.ID.IsNil())
	assert.False(t, num.ID.IsNil())
	assert.Less(t, num.ID, eof.ID)
	assert.Less(t, eof.ID, noTok.ID)
	assert.Less(t, noTok.ID, errSym.ID)
	assert.Less(t, errSym.ID, expr.ID)

	assert.Equal(t, expr.ID, tab.FirstNonTermID())
	assert.True(t, root.ID > expr.ID || root.ID == expr.ID)
}

func TestAssignIDs_PreservesDeclarationOrderWithinPartition(t *testing.T) {
	tab := NewTable()

	zebra := tab.Declare("zebra", KindTerminal)
	zebra.IsUserTerm = true
	apple := tab.Declare("apple", KindTerminal)
	apple.IsUserTerm = true

	zEOF := tab.Declare("<eof:zebra>", KindTerminal)
	zEOF.IsEOF = true
	aEOF := tab.Declare("<eof:apple>", KindTerminal)
	aEOF.IsEOF = true

	zRule := tab.Declare("zRule", KindNonTerminal)
	aRule := tab.Declare("aRule", KindNonTerminal)

	require.NoError(t, tab.AssignIDs("<no-token>", "error"))

	// Declaration order is preserved within each partition: an
	// alphabetical sort would put apple before zebra, but zebra was
	// declared first, so it must keep the lower id.
	assert.Less(t, zebra.ID, apple.ID)
	assert.Less(t, zEOF.ID, aEOF.ID)
	assert.Less(t, zRule.ID, aRule.ID)
}

func TestAssignIDs_IncrementalAfterNewDeclarations(t *testing.T) {
	tab := NewTable()
	a := tab.Declare("a", KindTerminal)
	a.IsUserTerm = true
	require.NoError(t, tab.AssignIDs("<no-token>", "error"))
	firstID := a.ID

	root := tab.Declare("<root>", KindNonTerminal)
	require.NoError(t, tab.AssignIDs("<no-token>", "error"))

	assert.Equal(t, firstID, a.ID)
	assert.NotEqual(t, ID(0), root.ID)
	assert.NotEqual(t, a.ID, root.ID)
}

func TestCheckBuiltinIDs(t *testing.T) {
	tab := NewTable()
	ptr := tab.Declare("_ptr", KindTerminal)
	ptr.IsUserTerm = true
	require.NoError(t, tab.AssignIDs("<no-token>", "error"))

	assert.NoError(t, tab.CheckBuiltinIDs(map[string]ID{"_ptr": ptr.ID}))
	assert.Error(t, tab.CheckBuiltinIDs(map[string]ID{"_ptr": ptr.ID + 1}))
	assert.Error(t, tab.CheckBuiltinIDs(map[string]ID{"_missing": ID(1)}))
}
