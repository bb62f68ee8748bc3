package combat

import (
	"testing"

	"github.com/automoto/doomerang-arena/shared/messages"
)

func eventFor(target, shooter string, amount float64) messages.DamageEvent {
	return messages.DamageEvent{TargetPeerID: target, ShooterPeerID: shooter, Amount: amount}
}

func TestDecodeDamage(t *testing.T) {
	ev, err := DecodeDamage([]byte(`{"targetPeerId":"p1","shooterPeerId":"p2","amount":41,"at":1700000000123}`))
	if err != nil {
		t.Fatal(err)
	}
	want := messages.DamageEvent{TargetPeerID: "p1", ShooterPeerID: "p2", Amount: 41, At: 1700000000123}
	if ev != want {
		t.Fatalf("got %+v, want %+v", ev, want)
	}
}

func TestDecodeDamageOptionalFields(t *testing.T) {
	ev, err := DecodeDamage([]byte(`{"targetPeerId":"p1","shooterPeerId":5,"amount":3.5,"at":"soon"}`))
	if err != nil {
		t.Fatal(err)
	}
	if ev.ShooterPeerID != "" || ev.At != 0 || ev.Amount != 3.5 {
		t.Fatalf("got %+v", ev)
	}
}

func TestEncodeDecodeAgree(t *testing.T) {
	in := messages.DamageEvent{TargetPeerID: "p1", ShooterPeerID: "me", Amount: 38, At: 42}
	b, err := in.Encode()
	if err != nil {
		t.Fatal(err)
	}
	out, err := DecodeDamage(b)
	if err != nil {
		t.Fatal(err)
	}
	if in != out {
		t.Fatalf("%+v != %+v", in, out)
	}
}
