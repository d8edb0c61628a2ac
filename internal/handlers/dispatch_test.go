package handlers

import (
	"testing"

	"github.com/google/uuid"

	"github.com/StoreStation/vibeclient/internal/ecs"
	"github.com/StoreStation/vibeclient/internal/mcproto"
	"github.com/StoreStation/vibeclient/internal/world"
)

func TestDispatchLoginPlaySpawnsLocalPlayer(t *testing.T) {
	w := ecs.NewWorld()
	store := world.NewStore()
	id := uuid.New()

	local, events := Dispatch(w, store, ecs.Null, id, "Steve", &mcproto.LoginPlay{
		EntityID:      42,
		DimensionName: "minecraft:overworld",
		GameMode:      ecs.GameModeSurvival,
	})

	if local == ecs.Null {
		t.Fatal("expected a non-null local player handle after LoginPlay")
	}
	if !w.IsAlive(local) {
		t.Fatal("expected local player entity to be alive")
	}
	meta, ok := ecs.Get[ecs.Metadata](w, local)
	if !ok || meta.UUID != id || meta.Name != "Steve" || meta.MinecraftID != 42 {
		t.Fatalf("unexpected Metadata: %+v (ok=%v)", meta, ok)
	}
	if !ecs.Has[ecs.Sequence](w, local) {
		t.Fatal("expected ecs.Sequence to be pre-inserted on the local player")
	}
	if h, ok := w.HandleByUUID(id); !ok || h != local {
		t.Fatal("expected the local player to be indexed by UUID")
	}

	var sawLogin bool
	for _, ev := range events {
		if _, ok := ev.(LoginEvent); ok {
			sawLogin = true
		}
	}
	if !sawLogin {
		t.Fatal("expected a LoginEvent")
	}
}

func TestDispatchAddEntityThenRemoveEntities(t *testing.T) {
	w := ecs.NewWorld()
	store := world.NewStore()
	id := uuid.New()

	_, _ = Dispatch(w, store, ecs.Null, uuid.New(), "Steve", &mcproto.LoginPlay{DimensionName: "minecraft:overworld"})

	remoteID := uuid.New()
	_, _ = Dispatch(w, store, ecs.Null, id, "", &mcproto.AddEntity{EntityID: 7, UUID: remoteID, X: 1, Y: 2, Z: 3})

	h, ok := w.HandleByMinecraftID(7)
	if !ok {
		t.Fatal("expected AddEntity to index the new entity by minecraft id")
	}
	pos, _ := ecs.Get[ecs.Position](w, h)
	if pos.X != 1 || pos.Y != 2 || pos.Z != 3 {
		t.Fatalf("unexpected spawn position: %+v", pos)
	}

	_, events := Dispatch(w, store, ecs.Null, id, "", &mcproto.RemoveEntities{EntityIDs: []int32{7}})
	if w.IsAlive(h) {
		t.Fatal("expected the entity to be despawned")
	}
	if _, ok := w.HandleByMinecraftID(7); ok {
		t.Fatal("expected the minecraft-id index entry to be removed on despawn")
	}
	_ = events
}

func TestDispatchPlayerPositionAppliesRelativeFlags(t *testing.T) {
	w := ecs.NewWorld()
	store := world.NewStore()

	local, _ := Dispatch(w, store, ecs.Null, uuid.New(), "Steve", &mcproto.LoginPlay{DimensionName: "minecraft:overworld"})
	ecs.Mutate(w, local, func(pos *ecs.Position) { pos.X, pos.Y, pos.Z = 10, 20, 30 })

	const flagRelX = 1
	local, events := Dispatch(w, store, local, uuid.Nil, "", &mcproto.PlayerPosition{
		TeleportID: 5,
		X:          1, Y: 64, Z: -1,
		Flags: flagRelX,
	})

	pos, _ := ecs.Get[ecs.Position](w, local)
	if pos.X != 11 {
		t.Fatalf("expected relative X 10+1=11, got %v", pos.X)
	}
	if pos.Y != 64 || pos.Z != -1 {
		t.Fatalf("expected absolute Y/Z, got %+v", pos)
	}

	var sentAccept, sentMove bool
	for _, ev := range ecs.DrainEvents[ecs.SendPacketEvent](w) {
		switch ev.Packet.(type) {
		case *mcproto.AcceptTeleportation:
			sentAccept = true
		case *mcproto.MovePlayerPosRot:
			sentMove = true
		}
	}
	if !sentAccept || !sentMove {
		t.Fatal("expected AcceptTeleportation and MovePlayerPosRot to be queued")
	}
	_ = events
}

func TestDispatchSetHealthEmitsDeathOnce(t *testing.T) {
	w := ecs.NewWorld()
	store := world.NewStore()
	local, _ := Dispatch(w, store, ecs.Null, uuid.New(), "Steve", &mcproto.LoginPlay{DimensionName: "minecraft:overworld"})

	_, events := Dispatch(w, store, local, uuid.Nil, "", &mcproto.SetHealth{Health: 0})
	if !containsDeath(events) {
		t.Fatal("expected a DeathEvent when health drops to zero")
	}

	_, events = Dispatch(w, store, local, uuid.Nil, "", &mcproto.SetHealth{Health: 0})
	if containsDeath(events) {
		t.Fatal("expected no second DeathEvent once already dead")
	}
}

func containsDeath(events []Event) bool {
	for _, ev := range events {
		if _, ok := ev.(DeathEvent); ok {
			return true
		}
	}
	return false
}

func TestDispatchKeepAliveEchoesID(t *testing.T) {
	w := ecs.NewWorld()
	store := world.NewStore()
	local, _ := Dispatch(w, store, ecs.Null, uuid.New(), "Steve", &mcproto.LoginPlay{DimensionName: "minecraft:overworld"})

	_, _ = Dispatch(w, store, local, uuid.Nil, "", &mcproto.KeepAlive{ID: 99})

	sent := ecs.DrainEvents[ecs.SendPacketEvent](w)
	if len(sent) != 1 {
		t.Fatalf("expected exactly one queued packet, got %d", len(sent))
	}
	ka, ok := sent[0].Packet.(*mcproto.KeepAlive)
	if !ok || ka.ID != 99 {
		t.Fatalf("expected KeepAlive echo with ID 99, got %+v", sent[0].Packet)
	}
}

func TestDispatchBlockUpdateMutatesWorld(t *testing.T) {
	w := ecs.NewWorld()
	store := world.NewStore()
	local, _ := Dispatch(w, store, ecs.Null, uuid.New(), "Steve", &mcproto.LoginPlay{DimensionName: "minecraft:overworld"})

	inst, ok := store.Lookup("minecraft:overworld")
	if !ok {
		t.Fatal("expected LoginPlay to create the dimension instance")
	}
	col := world.NewChunkColumn(0, 0, inst.MinY, int(inst.Height)/world.SectionHeight)
	inst.LoadChunk(col)

	_, _ = Dispatch(w, store, local, uuid.Nil, "", &mcproto.BlockUpdate{X: 1, Y: 5, Z: 1, BlockState: 42})

	got, ok := inst.GetBlockState(world.BlockPos{X: 1, Y: 5, Z: 1})
	if !ok || got != world.BlockState(42) {
		t.Fatalf("expected block state 42 at (1,5,1), got %v (ok=%v)", got, ok)
	}
}
