package handlers

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/StoreStation/vibeclient/internal/chatcomp"
	"github.com/StoreStation/vibeclient/internal/ecs"
	"github.com/StoreStation/vibeclient/internal/inventory"
	"github.com/StoreStation/vibeclient/internal/mcproto"
	"github.com/StoreStation/vibeclient/internal/physics"
	"github.com/StoreStation/vibeclient/internal/world"
)

// defaultMinY and defaultHeight stand in for the dimension-codec NBT
// RegistryData carries (and conn.configuration discards — see its
// "consumed by internal/handlers once the Conn is handed off" comment):
// decoding the full dimension-type registry to recover a joined
// dimension's real min_y/height was never built, so every instance
// this package creates uses the overworld's well-known values. Other
// dimensions (the nether, the end) will misplace chunks below y=0 or
// above y=256 until that decode exists.
const (
	defaultMinY   int32 = -64
	defaultHeight int32 = 384
)

// Dispatch applies one decoded clientbound Game-phase packet to w/store
// and returns the domain events it produces, if any (spec.md §4.11 "for
// each clientbound packet, apply its effect to the entity/world store
// and emit domain events"). local is the local player's entity handle,
// set once LoginPlay has been seen; localUUID is that same entity's
// identity, needed before its Handle exists (LoginPlay itself).
//
// Grounded on the teacher's pkg/server/packet_handler.go
// handlePlayPacket dispatch switch, generalized from decoding raw
// packet ids off a bytes.Reader to switching on the type mcproto
// already decoded.
func Dispatch(w *ecs.World, store *world.Store, local ecs.Handle, localUUID uuid.UUID, localName string, pkt mcproto.Packet) (ecs.Handle, []Event) {
	var events []Event
	emit := func(e Event) { events = append(events, e) }
	emit(PacketEvent{Packet: pkt})

	switch p := pkt.(type) {
	case *mcproto.LoginPlay:
		local = spawnLocalPlayer(w, store, localUUID, localName, p)
		emit(LoginEvent{})

	case *mcproto.Respawn:
		store.Instance(p.DimensionName, defaultMinY, defaultHeight)
		if local != ecs.Null {
			ecs.Mutate(w, local, func(pos *ecs.Position) { pos.Instance = p.DimensionName })
			ecs.Mutate(w, local, func(gm *ecs.GameMode) { gm.Mode = p.GameMode })
		}

	case *mcproto.AddEntity:
		handleAddEntity(w, p)

	case *mcproto.RemoveEntities:
		for _, id := range p.EntityIDs {
			if h, ok := w.HandleByMinecraftID(id); ok {
				if meta, ok := ecs.Get[ecs.Metadata](w, h); ok && meta.Kind == "minecraft:player" {
					emit(RemovePlayerEvent{Info: PlayerInfo{Name: meta.Name}})
				}
				w.Despawn(h)
			}
		}

	case *mcproto.TeleportEntity:
		if h, ok := w.HandleByMinecraftID(p.EntityID); ok {
			ecs.Mutate(w, h, func(pos *ecs.Position) { pos.X, pos.Y, pos.Z = p.X, p.Y, p.Z })
			ecs.Mutate(w, h, func(rot *ecs.Rotation) { rot.Yaw, rot.Pitch = p.Yaw, p.Pitch })
			ecs.Mutate(w, h, func(ph *ecs.Physics) { ph.OnGround = p.OnGround })
		}

	case *mcproto.UpdateEntityPosition:
		if h, ok := w.HandleByMinecraftID(p.EntityID); ok {
			ecs.Mutate(w, h, func(pos *ecs.Position) {
				pos.X += float64(p.DX) / 4096
				pos.Y += float64(p.DY) / 4096
				pos.Z += float64(p.DZ) / 4096
			})
			ecs.Mutate(w, h, func(ph *ecs.Physics) { ph.OnGround = p.OnGround })
		}

	case *mcproto.PlayerPosition:
		handlePlayerPosition(w, local, p)

	case *mcproto.SetHealth:
		wasAlive := true
		if h, ok := ecs.Get[ecs.Health](w, local); ok {
			wasAlive = h.Current > 0
		}
		ecs.Mutate(w, local, func(h *ecs.Health) {
			h.Current, h.Food, h.Saturation = p.Health, p.Food, p.FoodSaturation
		})
		if wasAlive && p.Health <= 0 {
			emit(DeathEvent{})
		}

	case *mcproto.GameEvent:
		handleGameEvent(w, local, p, emit)

	case *mcproto.BlockUpdate:
		if local != ecs.Null {
			if pos, ok := ecs.Get[ecs.Position](w, local); ok {
				if inst, ok := store.Lookup(pos.Instance); ok {
					inst.SetBlockState(world.BlockPos{X: p.X, Y: p.Y, Z: p.Z}, world.BlockState(p.BlockState))
				}
			}
		}

	case *mcproto.ChunkDataAndLight:
		handleChunkData(w, store, local, p)

	case *mcproto.PlayerChat:
		emit(ChatEvent{Sender: p.SenderUUID.String(), Message: chatcomp.Text(p.PlainMsg)})

	case *mcproto.SystemChat:
		emit(ChatEvent{Message: chatcomp.Parse(p.ContentJSON)})

	case *mcproto.OpenScreen:
		inventory.Open(w, local, p.WindowID, fmt.Sprintf("menu:%d", p.MenuType), p.TitleJSON, 0, nil)

	case *mcproto.ContainerSetContent:
		handleContainerSetContent(w, local, p)

	case *mcproto.Disconnect:
		emit(DisconnectEvent{Reason: p.Reason})

	case *mcproto.KeepAlive:
		ecs.PushEvent(w, ecs.SendPacketEvent{Entity: local, Packet: &mcproto.KeepAlive{ID: p.ID}})
	}

	return local, events
}

func spawnLocalPlayer(w *ecs.World, store *world.Store, id uuid.UUID, name string, p *mcproto.LoginPlay) ecs.Handle {
	store.Instance(p.DimensionName, defaultMinY, defaultHeight)

	h := w.Spawn()
	ecs.Insert(w, h, ecs.Position{Instance: p.DimensionName})
	ecs.Insert(w, h, ecs.Rotation{})
	ecs.Insert(w, h, ecs.Velocity{})
	ecs.Insert(w, h, ecs.Physics{})
	ecs.Insert(w, h, ecs.Metadata{MinecraftID: p.EntityID, UUID: id, Kind: "minecraft:player", Name: name})
	ecs.Insert(w, h, ecs.Health{Current: 20, Food: 20})
	ecs.Insert(w, h, ecs.LocalPlayer{})
	ecs.Insert(w, h, ecs.GameMode{Mode: p.GameMode})
	ecs.Insert(w, h, ecs.WalkInput{})
	ecs.Insert(w, h, ecs.Sequence{})
	ecs.Insert(w, h, physics.TickState{})
	ecs.Insert(w, h, inventory.Inventory{Open: inventory.PlayerMenu()})

	w.IndexUUID(id, h)
	w.IndexMinecraftID(p.EntityID, h)
	return h
}

func handleAddEntity(w *ecs.World, p *mcproto.AddEntity) {
	if _, ok := w.HandleByMinecraftID(p.EntityID); ok {
		return
	}
	h := w.Spawn()
	ecs.Insert(w, h, ecs.Position{X: p.X, Y: p.Y, Z: p.Z})
	ecs.Insert(w, h, ecs.Rotation{Yaw: p.Yaw, Pitch: p.Pitch})
	ecs.Insert(w, h, ecs.Velocity{X: float64(p.VX) / 8000, Y: float64(p.VY) / 8000, Z: float64(p.VZ) / 8000})
	// The entity-type registry that maps p.Type to a real
	// "minecraft:..." kind string was never part of this package's
	// retrieved grounding, so non-player entities get a placeholder
	// kind naming their raw network type id instead.
	kind := fmt.Sprintf("entity_type:%d", p.Type)
	ecs.Insert(w, h, ecs.Metadata{MinecraftID: p.EntityID, UUID: p.UUID, Kind: kind})
	w.IndexUUID(p.UUID, h)
	w.IndexMinecraftID(p.EntityID, h)
}

// handlePlayerPosition applies the server's position sync, honoring
// Flags' per-axis relative bits (vanilla's convention: bit0 X, bit1 Y,
// bit2 Z, bit3 Y_ROT/yaw, bit4 X_ROT/pitch — a set bit means "delta
// against the client's last known value", unset means absolute).
func handlePlayerPosition(w *ecs.World, local ecs.Handle, p *mcproto.PlayerPosition) {
	const (
		flagRelX = 1 << iota
		flagRelY
		flagRelZ
		flagRelYaw
		flagRelPitch
	)
	if local == ecs.Null {
		return
	}
	pos, _ := ecs.Get[ecs.Position](w, local)
	rot, _ := ecs.Get[ecs.Rotation](w, local)

	newX, newY, newZ := p.X, p.Y, p.Z
	if p.Flags&flagRelX != 0 {
		newX += pos.X
	}
	if p.Flags&flagRelY != 0 {
		newY += pos.Y
	}
	if p.Flags&flagRelZ != 0 {
		newZ += pos.Z
	}
	newYaw, newPitch := p.Yaw, p.Pitch
	if p.Flags&flagRelYaw != 0 {
		newYaw += rot.Yaw
	}
	if p.Flags&flagRelPitch != 0 {
		newPitch += rot.Pitch
	}

	ecs.Mutate(w, local, func(pos *ecs.Position) { pos.X, pos.Y, pos.Z = newX, newY, newZ })
	ecs.Mutate(w, local, func(rot *ecs.Rotation) { rot.Yaw, rot.Pitch = newYaw, newPitch })
	ecs.Mutate(w, local, func(v *ecs.Velocity) { v.X, v.Y, v.Z = 0, 0, 0 })

	ecs.PushEvent(w, ecs.SendPacketEvent{Entity: local, Packet: &mcproto.AcceptTeleportation{TeleportID: p.TeleportID}})
	ecs.PushEvent(w, ecs.SendPacketEvent{Entity: local, Packet: &mcproto.MovePlayerPosRot{
		X: newX, Y: newY, Z: newZ, Yaw: newYaw, Pitch: newPitch, OnGround: false,
	}})
}

// Vanilla's well-known clientbound GameEvent codes; not carried by any
// retrieved packet schema, so named locally.
const (
	gameEventInvalidBed     = 0
	gameEventChangeGameMode = 3
	gameEventEnterCredits   = 4
)

func handleGameEvent(w *ecs.World, local ecs.Handle, p *mcproto.GameEvent, emit func(Event)) {
	if local == ecs.Null {
		return
	}
	switch int8(p.Event) {
	case gameEventChangeGameMode:
		ecs.Mutate(w, local, func(gm *ecs.GameMode) { gm.Mode = int8(p.Value) })
	}
}

func handleChunkData(w *ecs.World, store *world.Store, local ecs.Handle, p *mcproto.ChunkDataAndLight) {
	if local == ecs.Null {
		return
	}
	pos, ok := ecs.Get[ecs.Position](w, local)
	if !ok {
		return
	}
	inst, ok := store.Lookup(pos.Instance)
	if !ok {
		return
	}
	col, err := world.DecodeChunkColumn(p.ChunkX, p.ChunkZ, inst.MinY, inst.Height, p.Data)
	if err != nil {
		return
	}
	inst.LoadChunk(col)
}

func handleContainerSetContent(w *ecs.World, local ecs.Handle, p *mcproto.ContainerSetContent) {
	if local == ecs.Null {
		return
	}
	slots, err := inventory.DecodeSlots(p.RawSlots, p.SlotCount, nil)
	if err != nil && len(slots) == 0 {
		// Nothing recoverable: leave the previously known menu as-is
		// rather than replace it with an empty one.
		return
	}
	var carried *inventory.ItemStack
	inventory.SetContent(w, local, p.WindowID, p.StateID, slots, carried)
}
