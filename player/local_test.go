package player

import (
	"math"
	"testing"

	cfg "github.com/automoto/doomerang-arena/config"
	"github.com/automoto/doomerang-arena/shared/gamemath"
)

// fixedSpawner hands out points in order, repeating the last one.
type fixedSpawner struct {
	points []gamemath.Vec3
	calls  int
}

func (s *fixedSpawner) Allocate() gamemath.Vec3 {
	i := s.calls
	if i >= len(s.points) {
		i = len(s.points) - 1
	}
	s.calls++
	return s.points[i]
}

type recorder struct {
	publishes int
	cues      []cfg.SoundID
}

func (r *recorder) hooks() Hooks {
	return Hooks{
		RequestPublish: func() { r.publishes++ },
		PlayCue:        func(id cfg.SoundID) { r.cues = append(r.cues, id) },
	}
}

func newTestLocal(t *testing.T) (*Local, *recorder, *fixedSpawner) {
	t.Helper()
	sp := &fixedSpawner{points: []gamemath.Vec3{{X: 10, Y: 1.6, Z: -10}, {X: -20, Y: 1.6, Z: 30}}}
	rec := &recorder{}
	return NewLocal(sp, 52, rec.hooks()), rec, sp
}

func TestNewLocalStartsAliveAtSpawn(t *testing.T) {
	l, rec, _ := newTestLocal(t)
	if !l.Alive() || l.HP() != 100 {
		t.Fatalf("expected alive at 100, got alive=%v hp=%v", l.Alive(), l.HP())
	}
	if p := l.Pose(); p.X != 10 || p.Z != -10 || p.Y != 1.6 {
		t.Fatalf("unexpected pose %+v", p)
	}
	if rec.publishes != 0 {
		t.Fatalf("construction should not publish, got %d", rec.publishes)
	}
}

func TestApplyDamage(t *testing.T) {
	tests := []struct {
		name      string
		startHP   float64
		amount    float64
		want      DamageOutcome
		wantHP    float64
		wantAlive bool
	}{
		{name: "wound", startHP: 100, amount: 40, want: DamageWounded, wantHP: 60, wantAlive: true},
		{name: "exact kill", startHP: 40, amount: 40, want: DamageKilled, wantHP: 0},
		{name: "overkill clamps to zero", startHP: 40, amount: 45, want: DamageKilled, wantHP: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, rec, _ := newTestLocal(t)
			l.hp = tt.startHP

			got := l.ApplyDamage(tt.amount, "shooter")
			if got != tt.want {
				t.Fatalf("outcome = %v, want %v", got, tt.want)
			}
			if l.HP() != tt.wantHP {
				t.Errorf("hp = %v, want %v", l.HP(), tt.wantHP)
			}
			if l.Alive() != tt.wantAlive {
				t.Errorf("alive = %v, want %v", l.Alive(), tt.wantAlive)
			}
			if rec.publishes != 1 {
				t.Errorf("publishes = %d, want 1", rec.publishes)
			}
		})
	}
}

func TestKillEntersDeadWithRespawnTimer(t *testing.T) {
	l, rec, _ := newTestLocal(t)
	l.hp = 40

	if got := l.ApplyDamage(45, "p1"); got != DamageKilled {
		t.Fatalf("outcome = %v, want killed", got)
	}
	if l.State() != cfg.LifeDead {
		t.Fatalf("state = %v, want dead", l.State())
	}
	if !l.IsRespawning() || l.RespawnTimer() != cfg.Player.RespawnDelay {
		t.Fatalf("respawning=%v timer=%v", l.IsRespawning(), l.RespawnTimer())
	}
	if len(rec.cues) != 1 || rec.cues[0] != cfg.SoundDeath {
		t.Fatalf("cues = %v, want one death cue", rec.cues)
	}
}

func TestDamageWhileDeadIsIgnored(t *testing.T) {
	l, rec, _ := newTestLocal(t)
	l.ApplyDamage(100, "p1")
	publishes := rec.publishes

	for i := 0; i < 3; i++ {
		if got := l.ApplyDamage(30, "p2"); got != DamageIgnored {
			t.Fatalf("outcome = %v, want ignored", got)
		}
	}
	if l.HP() != 0 {
		t.Fatalf("hp = %v, want 0", l.HP())
	}
	if rec.publishes != publishes {
		t.Fatalf("ignored damage published")
	}
	if len(rec.cues) != 1 {
		t.Fatalf("death cue repeated: %v", rec.cues)
	}
}

func TestTickRespawns(t *testing.T) {
	l, rec, sp := newTestLocal(t)
	l.ApplyDamage(100, "p1")
	publishes := rec.publishes

	if out := l.Tick(1.0); out.Kind != RespawnWaiting {
		t.Fatalf("first tick = %v, want waiting", out.Kind)
	}
	if l.HP() != 0 {
		t.Fatalf("hp changed while dead: %v", l.HP())
	}

	out := l.Tick(1.5)
	if out.Kind != RespawnRespawned {
		t.Fatalf("second tick = %v, want respawned", out.Kind)
	}
	if out.Point != (gamemath.Vec3{X: -20, Y: 1.6, Z: 30}) {
		t.Fatalf("respawn point = %+v", out.Point)
	}
	if sp.calls != 2 {
		t.Fatalf("spawner calls = %d, want 2", sp.calls)
	}
	if !l.Alive() || l.HP() != 100 || l.IsRespawning() || l.RespawnTimer() != 0 {
		t.Fatalf("not fully reset: alive=%v hp=%v respawning=%v timer=%v",
			l.Alive(), l.HP(), l.IsRespawning(), l.RespawnTimer())
	}
	if p := l.Pose(); p.X != -20 || p.Z != 30 {
		t.Fatalf("pose not moved to spawn: %+v", p)
	}
	if rec.publishes != publishes+1 {
		t.Fatalf("respawn publishes = %d, want 1", rec.publishes-publishes)
	}

	if out := l.Tick(1.0); out.Kind != RespawnIdle {
		t.Fatalf("tick while alive = %v, want idle", out.Kind)
	}
}

func TestMoveClampsToArena(t *testing.T) {
	l, _, _ := newTestLocal(t)
	// Yaw 0 faces -Z.
	l.Move(1, 0, 100)
	if p := l.Pose(); p.Z != -52 || p.X != 10 {
		t.Fatalf("pose after long move = %+v", p)
	}

	l.Move(0, 1, 100)
	if p := l.Pose(); p.X != 52 {
		t.Fatalf("strafe right should reach +52, got %+v", p)
	}
}

func TestMoveNormalisesDiagonal(t *testing.T) {
	l, _, _ := newTestLocal(t)
	l.pose = Pose{Y: 1.6}
	l.Move(1, 1, 0.1)
	dist := math.Hypot(l.Pose().X, l.Pose().Z)
	if math.Abs(dist-1.0) > 1e-9 {
		t.Fatalf("diagonal step = %v, want 1.0", dist)
	}
}

func TestLookClampsPitch(t *testing.T) {
	l, _, _ := newTestLocal(t)
	l.Look(0, 10)
	if got := l.Pose().Pitch; got != cfg.Player.PitchLimit {
		t.Fatalf("pitch = %v, want %v", got, cfg.Player.PitchLimit)
	}
	l.Look(0, -20)
	if got := l.Pose().Pitch; got != -cfg.Player.PitchLimit {
		t.Fatalf("pitch = %v, want %v", got, -cfg.Player.PitchLimit)
	}
}

func TestDeadPlayerCannotMoveOrLook(t *testing.T) {
	l, _, _ := newTestLocal(t)
	before := l.Pose()
	l.ApplyDamage(100, "p1")
	l.Move(1, 0, 1)
	l.Look(1, 1)
	if l.Pose() != before {
		t.Fatalf("dead player moved: %+v -> %+v", before, l.Pose())
	}
}

func TestRecordClampsHP(t *testing.T) {
	l, _, _ := newTestLocal(t)
	l.hp = 250
	rec := l.Record("#ff0000", "Agent-1234")
	if rec.HP != 100 || !rec.Alive || rec.Color != "#ff0000" || rec.Name != "Agent-1234" {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestSpawnResetsView(t *testing.T) {
	l, rec, _ := newTestLocal(t)
	l.Look(1, 0.5)
	p := l.Spawn()
	if p != (gamemath.Vec3{X: -20, Y: 1.6, Z: 30}) {
		t.Fatalf("spawn point = %+v", p)
	}
	if pose := l.Pose(); pose.Yaw != 0 || pose.Pitch != 0 || pose.X != -20 {
		t.Fatalf("pose = %+v", pose)
	}
	if rec.publishes != 0 {
		t.Fatalf("spawn published")
	}
}
