package contract

import (
	"investment_contract/sdk"
)

// lifetime is the expiry policy of one storage tier.
// refresh tiers are extended whenever an access finds them below threshold,
// the others keep the lifetime they were created with.
type lifetime struct {
	threshold int64
	extend    int64
	refresh   bool
}

var lifetimes = map[sdk.Tier]lifetime{
	sdk.TierInstance:   {threshold: instanceLifetimeThreshold, extend: instanceBumpAmount, refresh: true},
	sdk.TierPersistent: {threshold: persistentLifetimeThreshold, extend: persistentBumpAmount, refresh: true},
	sdk.TierTemporary:  {extend: temporaryLifetime},
}

type slot struct {
	tier sdk.Tier
	key  string
}

type cached struct {
	value     *string
	liveUntil int64
}

// callState is the view of host storage for a single contract call. Reads are memoized,
// writes (TTL extensions included) are staged and only reach the host on commit, so an
// aborted call leaves storage untouched.
type callState struct {
	state sdk.State
	now   int64
	reads map[slot]cached
	order []slot
	dirty map[slot]sdk.Write
}

func newCallState(state sdk.State, now int64) *callState {
	return &callState{
		state: state,
		now:   now,
		reads: map[slot]cached{},
		dirty: map[slot]sdk.Write{},
	}
}

// get returns the current value or nil. Lapsed temporary entries read as missing,
// instance and persistent entries are restored and extended.
func (c *callState) get(tier sdk.Tier, key string) (*string, error) {
	s := slot{tier, key}
	if w, ok := c.dirty[s]; ok {
		return w.Value, nil
	}
	if r, ok := c.reads[s]; ok {
		return r.value, nil
	}
	e, err := c.state.Get(tier, key)
	if err != nil {
		return nil, ErrStorage.wrap(err)
	}
	r := cached{}
	if e != nil && !(tier == sdk.TierTemporary && e.LiveUntil < c.now) {
		v := e.Value
		r = cached{value: &v, liveUntil: e.LiveUntil}
	}
	c.reads[s] = r
	if r.value != nil {
		c.bump(s, r)
	}
	return r.value, nil
}

// bump stages a TTL extension when a refresh tier dropped below its threshold.
func (c *callState) bump(s slot, r cached) {
	lt := lifetimes[s.tier]
	if !lt.refresh || r.liveUntil-c.now >= lt.threshold {
		return
	}
	c.stage(sdk.Write{Tier: s.tier, Key: s.key, Value: r.value, LiveUntil: c.now + lt.extend})
}

func (c *callState) put(tier sdk.Tier, key, value string) {
	s := slot{tier, key}
	lt := lifetimes[tier]
	liveUntil := c.now + lt.extend
	if !lt.refresh {
		if w, ok := c.dirty[s]; ok && w.Value != nil {
			liveUntil = w.LiveUntil
		} else if r, ok := c.reads[s]; ok && r.value != nil {
			liveUntil = r.liveUntil
		}
	}
	c.stage(sdk.Write{Tier: tier, Key: key, Value: &value, LiveUntil: liveUntil})
}

func (c *callState) del(tier sdk.Tier, key string) {
	c.stage(sdk.Write{Tier: tier, Key: key})
}

func (c *callState) stage(w sdk.Write) {
	s := slot{w.Tier, w.Key}
	if _, ok := c.dirty[s]; !ok {
		c.order = append(c.order, s)
	}
	c.dirty[s] = w
}

// pending lists the staged writes in first-touch order.
func (c *callState) pending() []sdk.Write {
	out := make([]sdk.Write, 0, len(c.order))
	for _, s := range c.order {
		out = append(out, c.dirty[s])
	}
	return out
}

// commit hands every staged write to the host in one batch.
func (c *callState) commit() error {
	if len(c.order) == 0 {
		return nil
	}
	if err := c.state.Apply(c.pending()); err != nil {
		return ErrStorage.wrap(err)
	}
	c.order = nil
	c.dirty = map[slot]sdk.Write{}
	return nil
}
