package bot

import (
	"math"
	"math/rand/v2"
	"testing"

	cfg "github.com/automoto/doomerang-arena/config"
	"github.com/automoto/doomerang-arena/peers"
	"github.com/automoto/doomerang-arena/player"
	"github.com/automoto/doomerang-arena/session"
)

func newDriver() *Driver {
	return NewDriver(rand.New(rand.NewPCG(1, 2)), cfg.Arena.MaxPlayerX)
}

func peerAt(id string, x, z float64, life cfg.PeerLife) peers.Nearby {
	return peers.Nearby{
		PeerView: peers.PeerView{ID: id, X: x, Y: cfg.Arena.EyeHeight, Z: z, HP: 100, Life: life},
		Distance: math.Hypot(x, z),
	}
}

func viewWith(closest ...peers.Nearby) session.View {
	return session.View{
		Alive:   true,
		Self:    player.Pose{Y: cfg.Arena.EyeHeight},
		Closest: closest,
	}
}

func TestDriverIdleWhenDead(t *testing.T) {
	d := newDriver()
	v := viewWith(peerAt("p1", 0, -10, cfg.PeerAlive))
	v.Alive = false

	if cmd := d.Step(v, 0.1); cmd != (Command{}) {
		t.Errorf("expected empty command, got %+v", cmd)
	}
}

func TestDriverWaitsForReactionBeforeShooting(t *testing.T) {
	d := newDriver()
	v := viewWith(peerAt("p1", 0, -10, cfg.PeerAlive))

	if cmd := d.Step(v, 0.01); cmd.Shoot {
		t.Fatal("should not fire on first sight")
	}
	if d.Target() != "p1" {
		t.Fatalf("expected target p1, got %q", d.Target())
	}

	cmd := d.Step(v, cfg.Bot.ReactionDelay.Seconds()+0.01)
	if !cmd.Shoot {
		t.Fatalf("expected shot once reaction delay elapsed, got %+v", cmd)
	}
	if math.Abs(cmd.Turn) > 1e-9 {
		t.Errorf("target straight ahead, expected no turn, got %v", cmd.Turn)
	}
}

func TestDriverTurnsTowardsTarget(t *testing.T) {
	d := newDriver()
	v := viewWith(peerAt("p1", 10, 0, cfg.PeerAlive))

	delta := 0.1
	cmd := d.Step(v, delta)

	want := -cfg.Bot.TurnRate * delta
	if math.Abs(cmd.Turn-want) > 1e-9 {
		t.Errorf("expected turn %v, got %v", want, cmd.Turn)
	}
	if cmd.Shoot {
		t.Error("should not fire while off target")
	}
	if cmd.Forward != 0 {
		t.Error("should stand still while engaging")
	}
}

func TestDriverIgnoresDyingAndDistantPeers(t *testing.T) {
	d := newDriver()
	v := viewWith(
		peerAt("dying", 0, -5, cfg.PeerDying),
		peerAt("far", 0, -(cfg.Bot.AttackRange + 5), cfg.PeerAlive),
	)

	cmd := d.Step(v, 0.1)

	if d.Target() != "" {
		t.Errorf("expected no target, got %q", d.Target())
	}
	if cmd.Forward != 1 || cmd.Shoot {
		t.Errorf("expected wandering, got %+v", cmd)
	}
}

func TestDriverTurnsBackFromEdge(t *testing.T) {
	d := newDriver()
	v := viewWith()
	v.Self = player.Pose{X: cfg.Arena.MaxPlayerX - 1, Y: cfg.Arena.EyeHeight, Yaw: math.Pi / 2}

	cmd := d.Step(v, 0.1)

	if math.Abs(cmd.Turn) > 1e-9 {
		t.Errorf("already facing the centre, expected no turn, got %v", cmd.Turn)
	}
	if cmd.Forward != 1 {
		t.Errorf("expected forward motion, got %+v", cmd)
	}
}

func TestAngleDiffWraps(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{0, 1, 1},
		{1, 0, -1},
		{math.Pi - 0.1, -math.Pi + 0.1, 0.2},
		{-math.Pi + 0.1, math.Pi - 0.1, -0.2},
	}
	for _, tt := range tests {
		if got := angleDiff(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("angleDiff(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
