package ledger

import (
	"strings"
	"time"
)

// StreamThreshold is the playback time a listener must reach before a
// stream reward is granted.
const StreamThreshold = 30 * time.Second

// TriggerState is the reward trigger's position in its lifecycle.
type TriggerState int

const (
	// Idle: no track loaded yet.
	Idle TriggerState = iota
	// Armed: a track is loaded, the threshold has not been crossed.
	Armed
	// Fired: the reward for this track-load has been decided.
	Fired
)

// Outcome is the result of a single progress observation.
type Outcome int

const (
	// OutcomeNone: nothing happened (below threshold, or already fired).
	OutcomeNone Outcome = iota
	// OutcomeReward: threshold crossed, a stream reward should be granted.
	OutcomeReward
	// OutcomePreview: threshold crossed but the listener is the track's
	// own artist; mark fired, grant nothing.
	OutcomePreview
)

// RewardTrigger watches playback progress for one listener and fires at
// most once per track-load. The threshold check is a level trigger: the
// first observation at or past StreamThreshold fires regardless of how
// playback reached that point, so seeking forward still counts. Loading
// a track re-arms the trigger even for the same track, so replays earn
// again; seeking backward after firing does not.
type RewardTrigger struct {
	state          TriggerState
	listenerWallet string
	trackID        string
	artistWallet   string
}

func NewRewardTrigger(listenerWallet string) *RewardTrigger {
	return &RewardTrigger{state: Idle, listenerWallet: listenerWallet}
}

// LoadTrack arms the trigger for a new track-load, discarding any
// partial progress on the previous one.
func (t *RewardTrigger) LoadTrack(trackID, artistWallet string) {
	t.trackID = trackID
	t.artistWallet = artistWallet
	t.state = Armed
}

// Observe reports elapsed playback time and returns what, if anything,
// should happen now.
func (t *RewardTrigger) Observe(elapsed time.Duration) Outcome {
	if t.state != Armed {
		return OutcomeNone
	}
	if elapsed < StreamThreshold {
		return OutcomeNone
	}

	t.state = Fired
	if strings.EqualFold(t.listenerWallet, t.artistWallet) {
		return OutcomePreview
	}
	return OutcomeReward
}

func (t *RewardTrigger) State() TriggerState { return t.state }

func (t *RewardTrigger) TrackID() string { return t.trackID }

func (t *RewardTrigger) ArtistWallet() string { return t.artistWallet }
