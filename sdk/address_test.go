package sdk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddressType(t *testing.T) {
	cases := []struct {
		addr  Address
		typ   AddressType
		valid bool
	}{
		{"hive:alice", AddressTypeHive, true},
		{"did:pkh:eip155:1:0xabc", AddressTypeEVM, true},
		{"did:key:z6Mk", AddressTypeKey, true},
		{"contract:invest", AddressTypeContract, true},
		{"system:fr_balance", AddressTypeSystem, true},
		{"alice", AddressTypeUnknown, false},
		{"", AddressTypeUnknown, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.typ, tc.addr.Type(), "%q", tc.addr)
		assert.Equal(t, tc.valid, tc.addr.IsValid(), "%q", tc.addr)
	}
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "temporary", TierTemporary.String())
	assert.Equal(t, "instance", TierInstance.String())
	assert.Equal(t, "persistent", TierPersistent.String())
	assert.Equal(t, "unknown", Tier(9).String())
	assert.Equal(t, "hbd", TokenHbd.String())
}
