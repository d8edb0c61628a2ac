package interact

import (
	"github.com/StoreStation/vibeclient/internal/ecs"
	"github.com/StoreStation/vibeclient/internal/mcproto"
	"github.com/StoreStation/vibeclient/internal/physics"
	"github.com/StoreStation/vibeclient/internal/world"
)

const handMainHand int32 = 0

// StartUseItemEvent requests a right-click; the next GameTick turns it
// into either a UseItemOn or a plain UseItem packet (spec.md §4.8
// "Use/interact"). A non-nil ForceBlock targets that block even if the
// current hit result doesn't, synthesizing an up-face hit — matching
// `Client.block_interact`'s "note this may trigger anticheats" warning
// in the grounding source, since it skips the look-direction check.
type StartUseItemEvent struct {
	Entity     ecs.Handle
	ForceBlock *world.BlockPos
}

// startUseItemQueued marks an entity to process a StartUseItemEvent on
// the next GameTick and is removed once processed, mirroring azalea's
// StartUseItemQueued marker component.
type startUseItemQueued struct {
	forceBlock *world.BlockPos
}

// BlockInteract queues a right-click targeting pos regardless of where
// the player is currently looking (spec.md §6 Client.block_interact).
func BlockInteract(w *ecs.World, entity ecs.Handle, pos world.BlockPos) {
	p := pos
	ecs.PushEvent(w, StartUseItemEvent{Entity: entity, ForceBlock: &p})
}

// StartUseItem queues a right-click using whatever the player is
// currently looking at (spec.md §6 Client.start_use_item).
func StartUseItem(w *ecs.World, entity ecs.Handle) {
	ecs.PushEvent(w, StartUseItemEvent{Entity: entity})
}

// HandleStartUseItemEvent drains queued StartUseItemEvents into the
// startUseItemQueued component, so the right-click is carried out
// deterministically at a fixed point in the next GameTick rather than
// mid-Update (spec.md §4.8 "produces a StartUseItem queued on the
// entity; the next GameTick emits...").
func HandleStartUseItemEvent(w *ecs.World) {
	for _, ev := range ecs.DrainEvents[StartUseItemEvent](w) {
		ecs.Insert(w, ev.Entity, startUseItemQueued{forceBlock: ev.ForceBlock})
	}
}

// HandleStartUseItemQueued turns one queued right-click into the
// serverbound packet, using the entity's current HitResultComponent
// (or a synthesized block hit when force-interacting with a block the
// player isn't looking at), per spec.md §4.8.
func HandleStartUseItemQueued(w *ecs.World) {
	// Query1 holds the world's read lock for its callback's duration;
	// every call below (Remove/Has/Get/Mutate/Trigger) takes the write
	// lock, so matching entities are collected first and processed only
	// after the query returns.
	var handles []ecs.Handle
	queuedByHandle := map[ecs.Handle]startUseItemQueued{}
	ecs.Query1[startUseItemQueued](w, nil, func(h ecs.Handle, queued startUseItemQueued) {
		handles = append(handles, h)
		queuedByHandle[h] = queued
	})

	for _, h := range handles {
		queued := queuedByHandle[h]
		ecs.Remove[startUseItemQueued](w, h)

		if !ecs.Has[ecs.Sequence](w, h) {
			continue
		}

		hitComp, hasHit := ecs.Get[HitResultComponent](w, h)
		hit := hitComp.HitResult

		if queued.forceBlock != nil && (!hasHit || !hit.Hit || hit.Block != *queued.forceBlock) {
			hit = physics.HitResult{
				Hit:   true,
				Block: *queued.forceBlock,
				Face:  physics.DirUp,
				Point: blockCenter(*queued.forceBlock),
			}
		}

		seq := advanceSequence(w, h)

		if !hit.Hit {
			rot, _ := ecs.Get[ecs.Rotation](w, h)
			ecs.Trigger(w, ecs.SendPacketEvent{Entity: h, Packet: &mcproto.UseItem{
				Hand:     handMainHand,
				Sequence: seq,
				Yaw:      rot.Yaw,
				Pitch:    rot.Pitch,
			}})
			continue
		}

		ecs.Trigger(w, ecs.SendPacketEvent{Entity: h, Packet: &mcproto.UseItemOn{
			Hand:        handMainHand,
			X:           hit.Block.X,
			Y:           hit.Block.Y,
			Z:           hit.Block.Z,
			Face:        int32(hit.Face),
			CursorX:     float32(hit.Point[0] - float64(hit.Block.X)),
			CursorY:     float32(hit.Point[1] - float64(hit.Block.Y)),
			CursorZ:     float32(hit.Point[2] - float64(hit.Block.Z)),
			InsideBlock: hit.Inside,
			Sequence:    seq,
		}})
	}
}

// SwingArmEvent requests a purely cosmetic arm-swing packet (spec.md
// §9 notes this has no world effect on its own).
type SwingArmEvent struct {
	Entity ecs.Handle
}

// SwingArm queues a swing-arm packet for entity.
func SwingArm(w *ecs.World, entity ecs.Handle) {
	ecs.PushEvent(w, SwingArmEvent{Entity: entity})
}

// HandleSwingArmEvent drains queued SwingArmEvents into outgoing
// packets.
func HandleSwingArmEvent(w *ecs.World) {
	for _, ev := range ecs.DrainEvents[SwingArmEvent](w) {
		ecs.Trigger(w, ecs.SendPacketEvent{Entity: ev.Entity, Packet: &mcproto.SwingArm{Hand: handMainHand}})
	}
}
