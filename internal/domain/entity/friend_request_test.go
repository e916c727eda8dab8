package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFriendPairKeyIsOrderIndependent(t *testing.T) {
	assert.Equal(t, FriendPairKey("alice", "bob"), FriendPairKey("bob", "alice"))
	assert.Equal(t, "alice|bob", FriendPairKey("bob", "alice"))
}

func TestFriendPairKeyDistinguishesPairs(t *testing.T) {
	assert.NotEqual(t, FriendPairKey("alice", "bob"), FriendPairKey("alice", "carol"))
}
