package resolver

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coldsign-sol/internal/logic/domain"
	"coldsign-sol/internal/types"
)

func key(n byte) types.Pubkey {
	var pk types.Pubkey
	for i := range pk {
		pk[i] = n
	}
	return pk
}

func v0Tx(lookups ...domain.AddressTableLookup) *domain.Transaction {
	return &domain.Transaction{
		Message: domain.Message{
			Version:     domain.VersionV0,
			AccountKeys: []types.Pubkey{key('A'), key('B')},
			Lookups:     lookups,
		},
	}
}

func TestResolveOrder(t *testing.T) {
	// 表 T = [X, Y, Z]，writable=[2,0]，readonly=[1]
	// 期望顺序：静态 [A, B]，可写展开 [Z, X]，只读展开 [Y]
	table := key('T')
	tx := v0Tx(domain.AddressTableLookup{
		AccountKey:      table,
		WritableIndexes: []byte{2, 0},
		ReadonlyIndexes: []byte{1},
	})
	tables := Tables{table: {key('X'), key('Y'), key('Z')}}

	resolved, err := Resolve(tx, tables)
	require.NoError(t, err)
	assert.Equal(t, []types.Pubkey{key('A'), key('B'), key('Z'), key('X'), key('Y')}, resolved.Accounts)
}

func TestResolveMultipleTables(t *testing.T) {
	// 全部可写展开（按查表顺序）先于全部只读展开
	t1, t2 := key('1'), key('2')
	tx := v0Tx(
		domain.AddressTableLookup{AccountKey: t1, WritableIndexes: []byte{0}, ReadonlyIndexes: []byte{1}},
		domain.AddressTableLookup{AccountKey: t2, WritableIndexes: []byte{1}, ReadonlyIndexes: []byte{0}},
	)
	tables := Tables{
		t1: {key('C'), key('D')},
		t2: {key('E'), key('F')},
	}

	resolved, err := Resolve(tx, tables)
	require.NoError(t, err)
	assert.Equal(t, []types.Pubkey{
		key('A'), key('B'), // 静态
		key('C'), key('F'), // 可写：t1[0], t2[1]
		key('D'), key('E'), // 只读：t1[1], t2[0]
	}, resolved.Accounts)
}

func TestResolveLegacyIdentity(t *testing.T) {
	tx := &domain.Transaction{
		Message: domain.Message{
			Version:     domain.VersionLegacy,
			AccountKeys: []types.Pubkey{key('A'), key('B')},
		},
	}

	// legacy 交易无需快照
	resolved, err := Resolve(tx, nil)
	require.NoError(t, err)
	assert.Equal(t, tx.Message.AccountKeys, resolved.Accounts)
}

func TestResolveUnknownTable(t *testing.T) {
	tx := v0Tx(domain.AddressTableLookup{AccountKey: key('T'), WritableIndexes: []byte{0}})

	_, err := Resolve(tx, Tables{})
	var unknownErr *UnknownLookupTableError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, key('T'), unknownErr.Table)
}

func TestResolveIndexOutOfRange(t *testing.T) {
	table := key('T')
	tx := v0Tx(domain.AddressTableLookup{AccountKey: table, ReadonlyIndexes: []byte{3}})
	tables := Tables{table: {key('X'), key('Y')}}

	_, err := Resolve(tx, tables)
	var rangeErr *IndexOutOfRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, uint8(3), rangeErr.Index)
	assert.Equal(t, 2, rangeErr.Size)
}

func TestResolvedContextAccess(t *testing.T) {
	tx := &domain.Transaction{
		Message: domain.Message{
			AccountKeys: []types.Pubkey{key('A'), key('B')},
			Instructions: []domain.CompiledInstruction{
				{ProgramIDIndex: 1, Accounts: []byte{0}},
			},
		},
	}
	resolved, err := Resolve(tx, nil)
	require.NoError(t, err)

	program, ok := resolved.Program(tx.Message.Instructions[0])
	assert.True(t, ok)
	assert.Equal(t, key('B'), program)

	_, ok = resolved.Account(5)
	assert.False(t, ok)
}

func TestParseTables(t *testing.T) {
	tableKey := key('T').String()
	a, b := key('X').String(), key('Y').String()
	data := fmt.Sprintf(`{%q: [%q, %q]}`, tableKey, a, b)

	tables, err := ParseTables([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, Tables{key('T'): {key('X'), key('Y')}}, tables)

	_, err = ParseTables([]byte(`{"not-base58!": []}`))
	assert.Error(t, err)

	_, err = ParseTables([]byte(`[]`))
	assert.Error(t, err)
}
