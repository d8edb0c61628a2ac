package interact

import (
	"testing"

	"github.com/StoreStation/vibeclient/internal/ecs"
	"github.com/StoreStation/vibeclient/internal/mcproto"
	"github.com/StoreStation/vibeclient/internal/physics"
	"github.com/StoreStation/vibeclient/internal/world"
)

// flatInstance builds a single-section instance with a solid stone
// floor at y=0 across the whole 16x16 column at (0,0).
func flatInstance(t *testing.T) *world.Instance {
	t.Helper()
	inst := world.NewInstance("minecraft:overworld", 0, 16)
	col := world.NewChunkColumn(0, 0, 0, 1)
	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			col.SetBlockState(x, 0, z, world.BlockState(1)) // stone
		}
	}
	inst.LoadChunk(col)
	return inst
}

func lookupFor(inst *world.Instance) InstanceLookup {
	return func(name string) (*world.Instance, bool) {
		if name != inst.Name {
			return nil, false
		}
		return inst, true
	}
}

func spawnLocalPlayer(w *ecs.World, inst *world.Instance, pos ecs.Position, rot ecs.Rotation) ecs.Handle {
	h := w.Spawn()
	ecs.Insert(w, h, pos)
	ecs.Insert(w, h, rot)
	ecs.Insert(w, h, ecs.GameMode{Mode: ecs.GameModeSurvival})
	ecs.Insert(w, h, ecs.Sequence{})
	ecs.Insert(w, h, ecs.LocalPlayer{})
	return h
}

func TestUpdateHitResultLooksStraightDown(t *testing.T) {
	w := ecs.NewWorld()
	inst := flatInstance(t)
	h := spawnLocalPlayer(w, inst, ecs.Position{X: 5.5, Y: 2, Z: 5.5, Instance: inst.Name}, ecs.Rotation{Yaw: 0, Pitch: 90})

	UpdateHitResult(w, lookupFor(inst))

	hr, ok := ecs.Get[HitResultComponent](w, h)
	if !ok || !hr.Hit {
		t.Fatalf("expected a hit result looking straight down, got %+v ok=%v", hr, ok)
	}
	if hr.Block != (world.BlockPos{X: 5, Y: 0, Z: 5}) {
		t.Fatalf("expected to pick block (5,0,5), got %+v", hr.Block)
	}
}

func TestUpdateHitResultCreativeRangeFartherThanSurvival(t *testing.T) {
	w := ecs.NewWorld()
	inst := world.NewInstance("minecraft:overworld", 0, 16)
	col := world.NewChunkColumn(0, 0, 0, 1)
	col.SetBlockState(5, 0, 5, world.BlockState(1))
	inst.LoadChunk(col)

	// Stand 5 blocks above a single floor block: survival range (4.5)
	// should miss, creative range (6.0) should hit.
	survival := spawnLocalPlayer(w, inst, ecs.Position{X: 5.5, Y: 5, Z: 5.5, Instance: inst.Name}, ecs.Rotation{Yaw: 0, Pitch: 90})
	ecs.Insert(w, survival, ecs.GameMode{Mode: ecs.GameModeSurvival})

	UpdateHitResult(w, lookupFor(inst))
	hr, _ := ecs.Get[HitResultComponent](w, survival)
	if hr.Hit {
		t.Fatalf("expected survival pick range to miss a floor 5 blocks below, got %+v", hr)
	}

	creative := spawnLocalPlayer(w, inst, ecs.Position{X: 5.5, Y: 5, Z: 5.5, Instance: inst.Name}, ecs.Rotation{Yaw: 0, Pitch: 90})
	ecs.Insert(w, creative, ecs.GameMode{Mode: ecs.GameModeCreative})

	UpdateHitResult(w, lookupFor(inst))
	hr, ok := ecs.Get[HitResultComponent](w, creative)
	if !ok || !hr.Hit {
		t.Fatalf("expected creative pick range to hit the floor, got %+v", hr)
	}
}

func TestBlockInteractForcesHitEvenWhenNotLooking(t *testing.T) {
	w := ecs.NewWorld()
	inst := flatInstance(t)
	// Looking straight up, away from the floor.
	h := spawnLocalPlayer(w, inst, ecs.Position{X: 5.5, Y: 2, Z: 5.5, Instance: inst.Name}, ecs.Rotation{Yaw: 0, Pitch: -90})
	UpdateHitResult(w, lookupFor(inst))

	BlockInteract(w, h, world.BlockPos{X: 5, Y: 0, Z: 5})
	HandleStartUseItemEvent(w)
	HandleStartUseItemQueued(w)

	sent := ecs.DrainEvents[ecs.SendPacketEvent](w)
	if len(sent) != 1 {
		t.Fatalf("expected exactly one outgoing packet, got %d", len(sent))
	}
	pkt, ok := sent[0].Packet.(*mcproto.UseItemOn)
	if !ok {
		t.Fatalf("expected a UseItemOn packet, got %T", sent[0].Packet)
	}
	if pkt.X != 5 || pkt.Y != 0 || pkt.Z != 5 {
		t.Fatalf("expected the forced block position, got (%d,%d,%d)", pkt.X, pkt.Y, pkt.Z)
	}
	if pkt.Face != int32(physics.DirUp) {
		t.Fatalf("expected a synthesized up-face hit, got face=%d", pkt.Face)
	}
}

func TestStartUseItemSendsPlainUseItemOnMiss(t *testing.T) {
	w := ecs.NewWorld()
	inst := world.NewInstance("minecraft:overworld", 0, 16) // no chunks loaded: every ray misses
	h := spawnLocalPlayer(w, inst, ecs.Position{X: 0, Y: 10, Z: 0, Instance: inst.Name}, ecs.Rotation{})

	UpdateHitResult(w, lookupFor(inst))
	StartUseItem(w, h)
	HandleStartUseItemEvent(w)
	HandleStartUseItemQueued(w)

	sent := ecs.DrainEvents[ecs.SendPacketEvent](w)
	if len(sent) != 1 {
		t.Fatalf("expected exactly one outgoing packet, got %d", len(sent))
	}
	if _, ok := sent[0].Packet.(*mcproto.UseItem); !ok {
		t.Fatalf("expected a plain UseItem packet on miss, got %T", sent[0].Packet)
	}
}

func TestSequenceNumberIsMonotonic(t *testing.T) {
	w := ecs.NewWorld()
	inst := flatInstance(t)
	h := spawnLocalPlayer(w, inst, ecs.Position{X: 5.5, Y: 2, Z: 5.5, Instance: inst.Name}, ecs.Rotation{Pitch: 90})

	var seqs []int32
	for i := 0; i < 3; i++ {
		UpdateHitResult(w, lookupFor(inst))
		StartUseItem(w, h)
		HandleStartUseItemEvent(w)
		HandleStartUseItemQueued(w)
		sent := ecs.DrainEvents[ecs.SendPacketEvent](w)
		if len(sent) != 1 {
			t.Fatalf("tick %d: expected one packet, got %d", i, len(sent))
		}
		pkt := sent[0].Packet.(*mcproto.UseItemOn)
		seqs = append(seqs, pkt.Sequence)
	}
	for i := 1; i < len(seqs); i++ {
		if seqs[i] <= seqs[i-1] {
			t.Fatalf("expected strictly increasing sequence numbers, got %v", seqs)
		}
	}
}

func TestMiningStartTickFinishBreaksBlock(t *testing.T) {
	w := ecs.NewWorld()
	inst := flatInstance(t)
	h := spawnLocalPlayer(w, inst, ecs.Position{X: 5.5, Y: 2, Z: 5.5, Instance: inst.Name}, ecs.Rotation{Pitch: 90})
	UpdateHitResult(w, lookupFor(inst))

	target := world.BlockPos{X: 5, Y: 0, Z: 5}
	Mine(w, h, target)
	HandleStartMiningEvent(w, lookupFor(inst))

	if !ecs.Has[Mining](w, h) {
		t.Fatal("expected a Mining component after HandleStartMiningEvent")
	}
	start := ecs.DrainEvents[ecs.SendPacketEvent](w)
	if len(start) != 1 {
		t.Fatalf("expected exactly one StartDigging packet, got %d", len(start))
	}
	action, ok := start[0].Packet.(*mcproto.PlayerAction)
	if !ok || action.Action != mcproto.PlayerActionStartDigging {
		t.Fatalf("expected a StartDigging PlayerAction, got %+v ok=%v", start[0].Packet, ok)
	}

	full := MiningInput{ToolMultiplier: 8, OnGround: true}
	input := func(ecs.Handle) MiningInput { return full }

	var finished bool
	for i := 0; i < 200; i++ {
		UpdateHitResult(w, lookupFor(inst))
		TickMining(w, lookupFor(inst), input)
		for _, ev := range ecs.DrainEvents[ecs.SendPacketEvent](w) {
			if pa, ok := ev.Packet.(*mcproto.PlayerAction); ok && pa.Action == mcproto.PlayerActionFinishDigging {
				finished = true
			}
		}
		if finished {
			break
		}
	}
	if !finished {
		t.Fatal("expected mining to finish within 200 ticks at full tool speed")
	}
	if st, ok := inst.GetBlockState(target); !ok || st != world.AirState {
		t.Fatalf("expected the mined block to become air, got state=%v ok=%v", st, ok)
	}
}

func TestMiningAbortsWhenLookingAway(t *testing.T) {
	w := ecs.NewWorld()
	inst := flatInstance(t)
	h := spawnLocalPlayer(w, inst, ecs.Position{X: 5.5, Y: 2, Z: 5.5, Instance: inst.Name}, ecs.Rotation{Pitch: 90})
	UpdateHitResult(w, lookupFor(inst))

	target := world.BlockPos{X: 5, Y: 0, Z: 5}
	Mine(w, h, target)
	HandleStartMiningEvent(w, lookupFor(inst))
	ecs.DrainEvents[ecs.SendPacketEvent](w)

	// Look straight up instead: the next TickMining should abort.
	ecs.Mutate(w, h, func(r *ecs.Rotation) { r.Pitch = -90 })
	UpdateHitResult(w, lookupFor(inst))
	TickMining(w, lookupFor(inst), func(ecs.Handle) MiningInput { return MiningInput{ToolMultiplier: 1, OnGround: true} })

	if ecs.Has[Mining](w, h) {
		t.Fatal("expected Mining to be removed after aborting")
	}
	sent := ecs.DrainEvents[ecs.SendPacketEvent](w)
	if len(sent) != 1 {
		t.Fatalf("expected exactly one abort packet, got %d", len(sent))
	}
	action, ok := sent[0].Packet.(*mcproto.PlayerAction)
	if !ok || action.Action != mcproto.PlayerActionCancelDigging {
		t.Fatalf("expected a CancelDigging PlayerAction, got %+v ok=%v", sent[0].Packet, ok)
	}
}

func TestMiningRefusesUnbreakableBlock(t *testing.T) {
	w := ecs.NewWorld()
	inst := world.NewInstance("minecraft:overworld", 0, 16)
	col := world.NewChunkColumn(0, 0, 0, 1)
	col.SetBlockState(5, 0, 5, world.BlockState(7)) // bedrock
	inst.LoadChunk(col)
	h := spawnLocalPlayer(w, inst, ecs.Position{X: 5.5, Y: 2, Z: 5.5, Instance: inst.Name}, ecs.Rotation{Pitch: 90})

	Mine(w, h, world.BlockPos{X: 5, Y: 0, Z: 5})
	HandleStartMiningEvent(w, lookupFor(inst))

	if ecs.Has[Mining](w, h) {
		t.Fatal("expected bedrock to refuse a Mining state")
	}
}
