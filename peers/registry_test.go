package peers

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	cfg "github.com/automoto/doomerang-arena/config"
	"github.com/automoto/doomerang-arena/shared/gamemath"
	"github.com/automoto/doomerang-arena/shared/leveldata"
)

type signals struct {
	joined    []string
	left      []string
	recolored []string
	died      []string
	revived   []string
}

func (s *signals) observer() Observer {
	return ObserverFuncs{
		Joined:    func(v PeerView) { s.joined = append(s.joined, v.ID) },
		Left:      func(id string) { s.left = append(s.left, id) },
		Recolored: func(id string, _ uint32) { s.recolored = append(s.recolored, id) },
		Died:      func(id string) { s.died = append(s.died, id) },
		Revived:   func(id string) { s.revived = append(s.revived, id) },
	}
}

func newTestRegistry(t *testing.T) (*Registry, *signals) {
	t.Helper()
	arena := &leveldata.ArenaData{MaxPlayerX: 52, SpawnMargin: 4, ExclusionRadius: 6, EyeHeight: 1.6}
	r := NewRegistry(arena, rand.New(rand.NewPCG(1, 1)))
	s := &signals{}
	r.SetObserver(s.observer())
	return r, s
}

// snap builds a snapshot from JSON object literals keyed by peer id.
func snap(records map[string]string) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(records))
	for id, rec := range records {
		out[id] = json.RawMessage(rec)
	}
	return out
}

func TestReconcileDeathTransitionsOnce(t *testing.T) {
	r, s := newTestRegistry(t)

	r.Reconcile(snap(map[string]string{"p1": `{"hp":100,"alive":true}`}), "me")
	r.Reconcile(snap(map[string]string{"p1": `{"hp":0,"alive":false}`}), "me")
	r.Reconcile(snap(map[string]string{"p1": `{"hp":0,"alive":false}`}), "me")

	if len(s.died) != 1 {
		t.Fatalf("died signals = %v, want exactly one", s.died)
	}
	if cues := r.DrainCues(); len(cues) != 1 || cues[0] != cfg.SoundDeath {
		t.Fatalf("cues = %v, want one death cue", cues)
	}
	v, _ := r.Peer("p1")
	if v.Life != cfg.PeerDying || v.DeathProgress != 0 {
		t.Fatalf("p1 life=%v progress=%v, want dying at 0", v.Life, v.DeathProgress)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	r, s := newTestRegistry(t)
	snapshot := snap(map[string]string{
		"p1": `{"x":1,"z":2,"hp":80,"color":"#00ff00","name":"alpha"}`,
		"p2": `{"x":-5,"z":5,"hp":0,"alive":false,"color":"#0000ff"}`,
	})

	r.Reconcile(snapshot, "me")
	first := r.Peers()
	joined, recolored, died := len(s.joined), len(s.recolored), len(s.died)
	r.DrainCues()

	r.Reconcile(snapshot, "me")
	second := r.Peers()

	if len(first) != len(second) {
		t.Fatalf("peer count changed: %d -> %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("peer %s changed:\n%+v\n%+v", first[i].ID, first[i], second[i])
		}
	}
	if len(s.joined) != joined || len(s.recolored) != recolored || len(s.died) != died {
		t.Errorf("second reconcile emitted signals: %+v", s)
	}
	if cues := r.DrainCues(); len(cues) != 0 {
		t.Errorf("second reconcile queued cues: %v", cues)
	}
}

func TestReconcileMembershipDiff(t *testing.T) {
	r, s := newTestRegistry(t)

	r.Reconcile(snap(map[string]string{"p1": `{}`, "p2": `{}`}), "me")
	p1, _ := r.Entity("p1")

	r.Reconcile(snap(map[string]string{"p1": `{"x":3}`, "p3": `{}`}), "me")

	if r.Has("p2") {
		t.Fatal("p2 should have been destroyed")
	}
	if !r.Has("p3") {
		t.Fatal("p3 should have been created")
	}
	if got, _ := r.Entity("p1"); got != p1 {
		t.Fatal("p1 entity identity not preserved across update")
	}
	if v, _ := r.Peer("p1"); v.X != 3 {
		t.Fatalf("p1 x = %v, want 3", v.X)
	}
	if len(s.left) != 1 || s.left[0] != "p2" {
		t.Fatalf("left = %v, want [p2]", s.left)
	}
	if r.Len() != 2 {
		t.Fatalf("len = %d, want 2", r.Len())
	}
}

func TestReconcileExcludesSelf(t *testing.T) {
	r, _ := newTestRegistry(t)

	// Self id not yet known: "me" is tracked like anyone else.
	r.Reconcile(snap(map[string]string{"me": `{}`, "p1": `{}`}), "")
	if !r.Has("me") {
		t.Fatal("expected me to be tracked before self id is known")
	}

	r.Reconcile(snap(map[string]string{"me": `{}`, "p1": `{}`}), "me")
	if r.Has("me") {
		t.Fatal("self should be destroyed once known")
	}
	if !r.Has("p1") {
		t.Fatal("p1 lost")
	}
}

func TestReconcileInitiallyDeadPeer(t *testing.T) {
	r, s := newTestRegistry(t)
	r.Reconcile(snap(map[string]string{"p1": `{"hp":30,"alive":false}`}), "me")

	v, ok := r.Peer("p1")
	if !ok {
		t.Fatal("p1 not created")
	}
	if !v.Dying() || v.DeathProgress != 1 || v.HP != 0 {
		t.Fatalf("initially dead peer: %+v", v)
	}
	if len(s.died) != 0 {
		t.Fatalf("initially dead peer emitted died: %v", s.died)
	}
	if cues := r.DrainCues(); len(cues) != 0 {
		t.Fatalf("initially dead peer queued cues: %v", cues)
	}
}

func TestReconcileRevive(t *testing.T) {
	r, s := newTestRegistry(t)
	r.Reconcile(snap(map[string]string{"p1": `{"hp":100}`}), "me")
	r.Reconcile(snap(map[string]string{"p1": `{"hp":0,"alive":false}`}), "me")
	r.Update(1)

	r.Reconcile(snap(map[string]string{"p1": `{"hp":100,"alive":true}`}), "me")
	v, _ := r.Peer("p1")
	if !v.Alive() || v.HP != 100 || v.DeathProgress != 0 || v.DeathSpin != 0 {
		t.Fatalf("revive did not fully reset: %+v", v)
	}
	if len(s.revived) != 1 {
		t.Fatalf("revived = %v, want one", s.revived)
	}
}

func TestReconcileDeadPeerHoldsZeroHP(t *testing.T) {
	r, _ := newTestRegistry(t)
	r.Reconcile(snap(map[string]string{"p1": `{"hp":100}`}), "me")
	r.Reconcile(snap(map[string]string{"p1": `{"hp":55,"alive":false}`}), "me")

	if v, _ := r.Peer("p1"); v.HP != 0 {
		t.Fatalf("dead peer hp = %v, want 0", v.HP)
	}
}

func TestReconcileNameAndDefaults(t *testing.T) {
	r, _ := newTestRegistry(t)
	r.Reconcile(snap(map[string]string{"abcdefgh": `{}`}), "me")

	v, _ := r.Peer("abcdefgh")
	if v.Name != "abcde" {
		t.Fatalf("default name = %q, want abcde", v.Name)
	}
	if v.HP != 100 || !v.Alive() {
		t.Fatalf("defaults: %+v", v)
	}
	if v.Color < cfg.Player.RandomColorMin || v.Color > cfg.Player.RandomColorMax {
		t.Fatalf("random color %06x out of range", v.Color)
	}

	r.Reconcile(snap(map[string]string{"abcdefgh": `{"name":"Rex"}`}), "me")
	r.Reconcile(snap(map[string]string{"abcdefgh": `{"name":""}`}), "me")
	if v, _ := r.Peer("abcdefgh"); v.Name != "Rex" {
		t.Fatalf("name = %q, want Rex", v.Name)
	}
}

func TestReconcileRecolor(t *testing.T) {
	r, s := newTestRegistry(t)
	r.Reconcile(snap(map[string]string{"p1": `{"color":"#112233"}`}), "me")
	r.Reconcile(snap(map[string]string{"p1": `{"color":"#112233"}`}), "me")
	if len(s.recolored) != 0 {
		t.Fatalf("unchanged color recolored: %v", s.recolored)
	}

	r.Reconcile(snap(map[string]string{"p1": `{"color":"#445566"}`}), "me")
	if len(s.recolored) != 1 {
		t.Fatalf("recolored = %v, want one", s.recolored)
	}
	if v, _ := r.Peer("p1"); v.Color != 0x445566 {
		t.Fatalf("color = %06x", v.Color)
	}

	r.Reconcile(snap(map[string]string{"p1": `{"color":"red"}`}), "me")
	if v, _ := r.Peer("p1"); v.Color != cfg.Player.FallbackColor {
		t.Fatalf("unparseable color = %06x, want fallback", v.Color)
	}
}

func TestReconcileMalformedFieldsKeepLastValue(t *testing.T) {
	r, _ := newTestRegistry(t)
	r.Reconcile(snap(map[string]string{
		"p1": `{"x":4,"z":-4,"yaw":1,"hp":70,"name":"ok"}`,
		"p2": `{}`,
	}), "me")

	r.Reconcile(snap(map[string]string{
		"p1": `{"x":"far","z":null,"yaw":[1],"hp":"lots","name":7,"alive":"yes"}`,
		"p2": `not json`,
	}), "me")

	v, _ := r.Peer("p1")
	if v.X != 4 || v.Z != -4 || v.Yaw != 1 || v.HP != 70 || v.Name != "ok" || !v.Alive() {
		t.Fatalf("malformed update clobbered state: %+v", v)
	}
	if !r.Has("p2") {
		t.Fatal("garbage record should not remove the peer")
	}
}

func TestApplyDamage(t *testing.T) {
	r, s := newTestRegistry(t)
	r.Reconcile(snap(map[string]string{"p1": `{"hp":100}`}), "me")

	if r.ApplyDamage("p1", 40) {
		t.Fatal("40 damage should not kill")
	}
	if v, _ := r.Peer("p1"); v.HP != 60 {
		t.Fatalf("hp = %v, want 60", v.HP)
	}
	if !r.ApplyDamage("p1", 75) {
		t.Fatal("expected kill")
	}
	if r.ApplyDamage("p1", 75) {
		t.Fatal("dead peer killed twice")
	}
	if r.ApplyDamage("nobody", 75) {
		t.Fatal("unknown peer reported a kill")
	}

	v, _ := r.Peer("p1")
	if v.HP != 0 || !v.Dying() {
		t.Fatalf("after kill: %+v", v)
	}
	if len(s.died) != 1 {
		t.Fatalf("died = %v", s.died)
	}
}

func TestPredictedDeathIgnoresStaleAlive(t *testing.T) {
	r, s := newTestRegistry(t)
	r.Reconcile(snap(map[string]string{"p1": `{"hp":30}`}), "me")
	r.ApplyDamage("p1", 45)

	// Owner has not seen the hit yet.
	r.Reconcile(snap(map[string]string{"p1": `{"hp":30,"alive":true}`}), "me")
	if v, _ := r.Peer("p1"); v.Alive() || v.HP != 0 {
		t.Fatalf("stale snapshot revived predicted kill: %+v", v)
	}

	// Owner confirms; no second death signal.
	r.Reconcile(snap(map[string]string{"p1": `{"hp":0,"alive":false}`}), "me")
	if len(s.died) != 1 {
		t.Fatalf("died = %v, want one", s.died)
	}

	// After confirmation the respawn goes through.
	r.Reconcile(snap(map[string]string{"p1": `{"hp":100,"alive":true}`}), "me")
	if v, _ := r.Peer("p1"); !v.Alive() || v.HP != 100 {
		t.Fatalf("confirmed peer did not revive: %+v", v)
	}
}

func TestPredictedDeathExpires(t *testing.T) {
	r, _ := newTestRegistry(t)
	r.Reconcile(snap(map[string]string{"p1": `{"hp":30}`}), "me")
	r.ApplyDamage("p1", 45)

	r.Update(cfg.Death.ConfirmGrace + 0.1)
	r.Reconcile(snap(map[string]string{"p1": `{"hp":30,"alive":true}`}), "me")
	if v, _ := r.Peer("p1"); !v.Alive() || v.HP != 30 {
		t.Fatalf("unconfirmed kill should lapse: %+v", v)
	}
}

func TestUpdateAdvancesDeathAnimation(t *testing.T) {
	r, _ := newTestRegistry(t)
	r.Reconcile(snap(map[string]string{"p1": `{}`}), "me")
	r.Reconcile(snap(map[string]string{"p1": `{"alive":false}`}), "me")

	r.Update(cfg.Death.AnimDuration / 2)
	v, _ := r.Peer("p1")
	if v.Life != cfg.PeerDying || v.DeathProgress < 0.45 || v.DeathProgress > 0.55 {
		t.Fatalf("halfway: life=%v progress=%v", v.Life, v.DeathProgress)
	}

	r.Update(cfg.Death.AnimDuration)
	v, _ = r.Peer("p1")
	if v.Life != cfg.PeerDead || v.DeathProgress != 1 {
		t.Fatalf("finished: life=%v progress=%v", v.Life, v.DeathProgress)
	}
	if v.DeathSpin < -0.75 || v.DeathSpin > 0.75 {
		t.Fatalf("spin %v out of range", v.DeathSpin)
	}
}

func TestClear(t *testing.T) {
	r, s := newTestRegistry(t)
	r.Reconcile(snap(map[string]string{"p1": `{}`, "p2": `{}`}), "me")
	r.Clear()

	if r.Len() != 0 {
		t.Fatalf("len = %d after clear", r.Len())
	}
	if len(s.left) != 2 {
		t.Fatalf("left = %v", s.left)
	}
	if r.Candidates(gamemath.Vec3{}, gamemath.Vec3{Z: -1}, 200) != nil {
		t.Fatal("hit volumes survived clear")
	}
}

func TestNearest(t *testing.T) {
	r, _ := newTestRegistry(t)
	r.Reconcile(snap(map[string]string{
		"far":  `{"x":40,"z":0}`,
		"near": `{"x":2,"z":0}`,
		"mid":  `{"x":0,"z":-10}`,
		"edge": `{"x":-30,"z":-30}`,
	}), "me")

	got := r.Nearest(0, 0, 3)
	want := []string{"near", "mid", "far"}
	if len(got) != len(want) {
		t.Fatalf("got %d peers, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("nearest[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
	if got[0].Distance != 2 {
		t.Errorf("distance = %v, want 2", got[0].Distance)
	}
}

func TestCandidates(t *testing.T) {
	r, _ := newTestRegistry(t)
	r.Reconcile(snap(map[string]string{
		"ahead":  `{"x":0,"z":-20}`,
		"behind": `{"x":0,"z":45}`,
		"dead":   `{"x":0,"z":-10,"alive":false}`,
	}), "me")

	got := r.Candidates(gamemath.Vec3{Y: 1.6}, gamemath.Vec3{Z: -1}, 30)
	ids := make(map[string]bool)
	for _, c := range got {
		ids[c.ID] = true
	}
	if !ids["ahead"] {
		t.Errorf("candidates %v missing ahead", got)
	}
	if ids["dead"] {
		t.Errorf("dead peer is a candidate")
	}
	if ids["behind"] {
		t.Errorf("peer behind the shooter is a candidate")
	}

	for _, c := range got {
		if c.ID != "ahead" {
			continue
		}
		box := c.Box
		if box.Min.Y != 0 || box.Max.Y != cfg.Combat.HitHeight || box.Max.X-box.Min.X != cfg.Combat.HitWidth {
			t.Errorf("box = %+v", box)
		}
	}
}
