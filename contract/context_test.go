package contract

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investment_contract/hoststate"
	"investment_contract/sdk"
)

// failingState lets reads through and refuses every Apply.
type failingState struct {
	sdk.State
}

func (failingState) Apply([]sdk.Write) error {
	return errors.New("disk full")
}

func seed(t *testing.T, st sdk.State, tier sdk.Tier, key, value string, liveUntil int64) {
	t.Helper()
	require.NoError(t, st.Apply([]sdk.Write{{Tier: tier, Key: key, Value: &value, LiveUntil: liveUntil}}))
}

func TestCallStateStagesUntilCommit(t *testing.T) {
	st := hoststate.NewMemoryState()
	cs := newCallState(st, defaultTimestamp)

	cs.put(sdk.TierInstance, "a", "1")
	v, err := cs.get(sdk.TierInstance, "a")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "1", *v)
	assert.Equal(t, 0, st.Len())

	require.NoError(t, cs.commit())
	e, err := st.Get(sdk.TierInstance, "a")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, sdk.Entry{Value: "1", LiveUntil: defaultTimestamp + instanceBumpAmount}, *e)

	cs.del(sdk.TierInstance, "a")
	v, err = cs.get(sdk.TierInstance, "a")
	require.NoError(t, err)
	assert.Nil(t, v)
	require.NoError(t, cs.commit())
	assert.Equal(t, 0, st.Len())
}

func TestCallStatePendingKeepsFirstTouchOrder(t *testing.T) {
	cs := newCallState(hoststate.NewMemoryState(), defaultTimestamp)
	cs.put(sdk.TierInstance, "b", "1")
	cs.put(sdk.TierPersistent, "a", "2")
	cs.put(sdk.TierInstance, "b", "3")

	w := cs.pending()
	require.Len(t, w, 2)
	assert.Equal(t, "b", w[0].Key)
	assert.Equal(t, "3", *w[0].Value)
	assert.Equal(t, "a", w[1].Key)
	assert.Equal(t, defaultTimestamp+persistentBumpAmount, w[1].LiveUntil)
}

func TestCallStateBumpsBelowThreshold(t *testing.T) {
	st := hoststate.NewMemoryState()
	now := defaultTimestamp
	seed(t, st, sdk.TierInstance, "fresh", "x", now+instanceLifetimeThreshold)
	seed(t, st, sdk.TierInstance, "stale", "x", now+instanceLifetimeThreshold-1)
	seed(t, st, sdk.TierPersistent, "lapsed", "y", now-10)

	cs := newCallState(st, now)
	for _, k := range []string{"fresh", "stale"} {
		v, err := cs.get(sdk.TierInstance, k)
		require.NoError(t, err)
		require.NotNil(t, v)
	}
	v, err := cs.get(sdk.TierPersistent, "lapsed")
	require.NoError(t, err)
	require.NotNil(t, v, "persistent entries are restored")
	assert.Equal(t, "y", *v)

	w := cs.pending()
	require.Len(t, w, 2)
	assert.Equal(t, "stale", w[0].Key)
	assert.Equal(t, now+instanceBumpAmount, w[0].LiveUntil)
	assert.Equal(t, "lapsed", w[1].Key)
	assert.Equal(t, now+persistentBumpAmount, w[1].LiveUntil)
}

func TestCallStateTemporaryLapsesAndKeepsLifetime(t *testing.T) {
	st := hoststate.NewMemoryState()
	now := defaultTimestamp
	seed(t, st, sdk.TierTemporary, "gone", "x", now-1)
	seed(t, st, sdk.TierTemporary, "alive", "x", now+5)

	cs := newCallState(st, now)
	v, err := cs.get(sdk.TierTemporary, "gone")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = cs.get(sdk.TierTemporary, "alive")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Empty(t, cs.pending(), "temporary entries are never bumped")

	cs.put(sdk.TierTemporary, "alive", "y")
	cs.put(sdk.TierTemporary, "new", "z")
	w := cs.pending()
	require.Len(t, w, 2)
	assert.Equal(t, now+5, w[0].LiveUntil)
	assert.Equal(t, now+temporaryLifetime, w[1].LiveUntil)
}

func TestCallStateCommitFailure(t *testing.T) {
	cs := newCallState(failingState{hoststate.NewMemoryState()}, defaultTimestamp)
	require.NoError(t, cs.commit(), "nothing staged, nothing applied")

	cs.put(sdk.TierInstance, "a", "1")
	err := cs.commit()
	assertCode(t, err, ErrStorage)
	assert.Equal(t, "disk full", errors.Cause(err).Error())
	assert.Len(t, cs.pending(), 1)
}
