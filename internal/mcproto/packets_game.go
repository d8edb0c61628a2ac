package mcproto

import (
	"io"

	"github.com/google/uuid"

	"github.com/StoreStation/vibeclient/internal/buf"
)

// ---- Clientbound: session bootstrap ----

// LoginPlay (clientbound) hands the client its MinecraftEntityId and the
// dimension it spawns into (spec.md §3 "Instance").
type LoginPlay struct {
	EntityID         int32
	IsHardcore       bool
	DimensionNames   []string
	MaxPlayers       int32
	ViewDistance     int32
	SimulationDist   int32
	DimensionType    int32
	DimensionName    string
	HashedSeed       int64
	GameMode         int8
	PreviousGameMode int8
	IsDebug          bool
	IsFlat           bool
}

func (p *LoginPlay) Encode(w io.Writer) error {
	if err := buf.WriteI32(w, p.EntityID); err != nil {
		return err
	}
	if err := buf.WriteBool(w, p.IsHardcore); err != nil {
		return err
	}
	if err := buf.WriteSeq(w, p.DimensionNames, buf.WriteString); err != nil {
		return err
	}
	if _, err := buf.WriteVarInt(w, p.MaxPlayers); err != nil {
		return err
	}
	if _, err := buf.WriteVarInt(w, p.ViewDistance); err != nil {
		return err
	}
	if _, err := buf.WriteVarInt(w, p.SimulationDist); err != nil {
		return err
	}
	if _, err := buf.WriteVarInt(w, p.DimensionType); err != nil {
		return err
	}
	if err := buf.WriteString(w, p.DimensionName); err != nil {
		return err
	}
	if err := buf.WriteI64(w, p.HashedSeed); err != nil {
		return err
	}
	if err := buf.WriteI8(w, p.GameMode); err != nil {
		return err
	}
	if err := buf.WriteI8(w, p.PreviousGameMode); err != nil {
		return err
	}
	if err := buf.WriteBool(w, p.IsDebug); err != nil {
		return err
	}
	return buf.WriteBool(w, p.IsFlat)
}

func decodeLoginPlay(r io.Reader) (Packet, error) {
	p := &LoginPlay{}
	var err error
	if p.EntityID, err = buf.ReadI32(r); err != nil {
		return nil, err
	}
	if p.IsHardcore, err = buf.ReadBool(r); err != nil {
		return nil, err
	}
	if p.DimensionNames, err = buf.ReadSeq(r, buf.ReadString); err != nil {
		return nil, err
	}
	if p.MaxPlayers, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	if p.ViewDistance, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	if p.SimulationDist, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	if p.DimensionType, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	if p.DimensionName, err = buf.ReadString(r); err != nil {
		return nil, err
	}
	if p.HashedSeed, err = buf.ReadI64(r); err != nil {
		return nil, err
	}
	if p.GameMode, err = buf.ReadI8(r); err != nil {
		return nil, err
	}
	if p.PreviousGameMode, err = buf.ReadI8(r); err != nil {
		return nil, err
	}
	if p.IsDebug, err = buf.ReadBool(r); err != nil {
		return nil, err
	}
	if p.IsFlat, err = buf.ReadBool(r); err != nil {
		return nil, err
	}
	return p, nil
}

// ---- KeepAlive (both directions carry the same shape, registered twice) ----

type KeepAlive struct{ ID int64 }

func (p *KeepAlive) Encode(w io.Writer) error { return buf.WriteI64(w, p.ID) }

func decodeKeepAlive(r io.Reader) (Packet, error) {
	v, err := buf.ReadI64(r)
	if err != nil {
		return nil, err
	}
	return &KeepAlive{ID: v}, nil
}

// Disconnect (clientbound, Game phase) carries an opaque chat-component
// reason, same treatment as LoginDisconnect.
type Disconnect struct{ Reason string }

func (p *Disconnect) Encode(w io.Writer) error { return buf.WriteString(w, p.Reason) }

func decodeDisconnect(r io.Reader) (Packet, error) {
	s, err := buf.ReadString(r)
	if err != nil {
		return nil, err
	}
	return &Disconnect{Reason: s}, nil
}

// ---- World/entity (C6, C11) ----

// ChunkDataAndLight (clientbound) is the chunk-with-light packet that
// creates a chunk column (spec.md §3 "Lifecycles"). Section data is kept
// as raw bytes here; internal/world.DecodeChunkColumn does the paletted
// container decode described in spec.md §4.6.
type ChunkDataAndLight struct {
	ChunkX, ChunkZ int32
	Heightmaps     buf.Tag
	Data           []byte
	// Light arrays are not exercised by the pathfinder/physics core and
	// are preserved as opaque bytes; spec.md's Non-goals exclude
	// rendering, the only consumer of light data.
	LightData []byte
}

func (p *ChunkDataAndLight) Encode(w io.Writer) error {
	if err := buf.WriteI32(w, p.ChunkX); err != nil {
		return err
	}
	if err := buf.WriteI32(w, p.ChunkZ); err != nil {
		return err
	}
	if err := buf.WriteNamedTag(w, "", p.Heightmaps); err != nil {
		return err
	}
	if _, err := buf.WriteVarInt(w, int32(len(p.Data))); err != nil {
		return err
	}
	if _, err := w.Write(p.Data); err != nil {
		return err
	}
	_, err := buf.WriteVarInt(w, int32(len(p.LightData)))
	if err != nil {
		return err
	}
	_, err = w.Write(p.LightData)
	return err
}

func decodeChunkDataAndLight(r io.Reader) (Packet, error) {
	p := &ChunkDataAndLight{}
	var err error
	if p.ChunkX, err = buf.ReadI32(r); err != nil {
		return nil, err
	}
	if p.ChunkZ, err = buf.ReadI32(r); err != nil {
		return nil, err
	}
	if _, p.Heightmaps, err = buf.ReadNamedTag(r); err != nil {
		return nil, err
	}
	n, _, err := buf.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	p.Data = make([]byte, n)
	if _, err := io.ReadFull(r, p.Data); err != nil {
		return nil, err
	}
	rest, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	p.LightData = rest
	return p, nil
}

// BlockUpdate (clientbound) updates a single block (spec.md §4.6).
type BlockUpdate struct {
	X, Y, Z    int32
	BlockState int32
}

func (p *BlockUpdate) Encode(w io.Writer) error {
	if err := buf.WriteBlockPos(w, p.X, p.Y, p.Z); err != nil {
		return err
	}
	_, err := buf.WriteVarInt(w, p.BlockState)
	return err
}

func decodeBlockUpdate(r io.Reader) (Packet, error) {
	x, y, z, err := buf.ReadBlockPos(r)
	if err != nil {
		return nil, err
	}
	state, _, err := buf.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	return &BlockUpdate{X: x, Y: y, Z: z, BlockState: state}, nil
}

// AddEntity (clientbound) announces a new non-player entity.
type AddEntity struct {
	EntityID   int32
	UUID       uuid.UUID
	Type       int32
	X, Y, Z    float64
	Pitch, Yaw float32
	HeadYaw    float32
	Data       int32
	VX, VY, VZ int16
}

func (p *AddEntity) Encode(w io.Writer) error {
	if _, err := buf.WriteVarInt(w, p.EntityID); err != nil {
		return err
	}
	if err := buf.WriteUUID(w, p.UUID); err != nil {
		return err
	}
	if _, err := buf.WriteVarInt(w, p.Type); err != nil {
		return err
	}
	if err := buf.WriteF64(w, p.X); err != nil {
		return err
	}
	if err := buf.WriteF64(w, p.Y); err != nil {
		return err
	}
	if err := buf.WriteF64(w, p.Z); err != nil {
		return err
	}
	if err := writeAngle(w, p.Pitch); err != nil {
		return err
	}
	if err := writeAngle(w, p.Yaw); err != nil {
		return err
	}
	if err := writeAngle(w, p.HeadYaw); err != nil {
		return err
	}
	if _, err := buf.WriteVarInt(w, p.Data); err != nil {
		return err
	}
	if err := buf.WriteI16(w, p.VX); err != nil {
		return err
	}
	if err := buf.WriteI16(w, p.VY); err != nil {
		return err
	}
	return buf.WriteI16(w, p.VZ)
}

func decodeAddEntity(r io.Reader) (Packet, error) {
	p := &AddEntity{}
	var err error
	if p.EntityID, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	if p.UUID, err = buf.ReadUUID(r); err != nil {
		return nil, err
	}
	if p.Type, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	if p.X, err = buf.ReadF64(r); err != nil {
		return nil, err
	}
	if p.Y, err = buf.ReadF64(r); err != nil {
		return nil, err
	}
	if p.Z, err = buf.ReadF64(r); err != nil {
		return nil, err
	}
	if p.Pitch, err = readAngle(r); err != nil {
		return nil, err
	}
	if p.Yaw, err = readAngle(r); err != nil {
		return nil, err
	}
	if p.HeadYaw, err = readAngle(r); err != nil {
		return nil, err
	}
	if p.Data, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	if p.VX, err = buf.ReadI16(r); err != nil {
		return nil, err
	}
	if p.VY, err = buf.ReadI16(r); err != nil {
		return nil, err
	}
	if p.VZ, err = buf.ReadI16(r); err != nil {
		return nil, err
	}
	return p, nil
}

// writeAngle/readAngle encode a rotation as a single byte, 256ths of a
// full turn, per the wire format for entity look angles.
func writeAngle(w io.Writer, degrees float32) error {
	return buf.WriteU8(w, uint8(int32(degrees*256/360)&0xFF))
}

func readAngle(r io.Reader) (float32, error) {
	v, err := buf.ReadU8(r)
	if err != nil {
		return 0, err
	}
	return float32(v) * 360 / 256, nil
}

// RemoveEntities (clientbound) despawns one or more entities by
// MinecraftEntityId.
type RemoveEntities struct {
	EntityIDs []int32
}

func (p *RemoveEntities) Encode(w io.Writer) error {
	return buf.WriteSeq(w, p.EntityIDs, func(w io.Writer, v int32) error {
		_, err := buf.WriteVarInt(w, v)
		return err
	})
}

func decodeRemoveEntities(r io.Reader) (Packet, error) {
	ids, err := buf.ReadSeq(r, func(r io.Reader) (int32, error) {
		v, _, err := buf.ReadVarInt(r)
		return v, err
	})
	if err != nil {
		return nil, err
	}
	return &RemoveEntities{EntityIDs: ids}, nil
}

// UpdateEntityPosition (clientbound) applies a relative, fixed-point
// position delta, used for most non-local-player entity movement.
type UpdateEntityPosition struct {
	EntityID           int32
	DX, DY, DZ         int16 // 1/4096ths of a block
	OnGround           bool
}

func (p *UpdateEntityPosition) Encode(w io.Writer) error {
	if _, err := buf.WriteVarInt(w, p.EntityID); err != nil {
		return err
	}
	if err := buf.WriteI16(w, p.DX); err != nil {
		return err
	}
	if err := buf.WriteI16(w, p.DY); err != nil {
		return err
	}
	if err := buf.WriteI16(w, p.DZ); err != nil {
		return err
	}
	return buf.WriteBool(w, p.OnGround)
}

func decodeUpdateEntityPosition(r io.Reader) (Packet, error) {
	p := &UpdateEntityPosition{}
	var err error
	if p.EntityID, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	if p.DX, err = buf.ReadI16(r); err != nil {
		return nil, err
	}
	if p.DY, err = buf.ReadI16(r); err != nil {
		return nil, err
	}
	if p.DZ, err = buf.ReadI16(r); err != nil {
		return nil, err
	}
	if p.OnGround, err = buf.ReadBool(r); err != nil {
		return nil, err
	}
	return p, nil
}

// TeleportEntity (clientbound) sets an entity's absolute position, used
// for large jumps and for the local player's own spawn/respawn.
type TeleportEntity struct {
	EntityID   int32
	X, Y, Z    float64
	Yaw, Pitch float32
	OnGround   bool
}

func (p *TeleportEntity) Encode(w io.Writer) error {
	if _, err := buf.WriteVarInt(w, p.EntityID); err != nil {
		return err
	}
	if err := buf.WriteF64(w, p.X); err != nil {
		return err
	}
	if err := buf.WriteF64(w, p.Y); err != nil {
		return err
	}
	if err := buf.WriteF64(w, p.Z); err != nil {
		return err
	}
	if err := writeAngle(w, p.Yaw); err != nil {
		return err
	}
	if err := writeAngle(w, p.Pitch); err != nil {
		return err
	}
	return buf.WriteBool(w, p.OnGround)
}

func decodeTeleportEntity(r io.Reader) (Packet, error) {
	p := &TeleportEntity{}
	var err error
	if p.EntityID, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	if p.X, err = buf.ReadF64(r); err != nil {
		return nil, err
	}
	if p.Y, err = buf.ReadF64(r); err != nil {
		return nil, err
	}
	if p.Z, err = buf.ReadF64(r); err != nil {
		return nil, err
	}
	if p.Yaw, err = readAngle(r); err != nil {
		return nil, err
	}
	if p.Pitch, err = readAngle(r); err != nil {
		return nil, err
	}
	if p.OnGround, err = buf.ReadBool(r); err != nil {
		return nil, err
	}
	return p, nil
}

// PlayerPosition (clientbound) is the authoritative position sync (a
// "teleport") the local player must ack with AcceptTeleportation.
type PlayerPosition struct {
	TeleportID int32
	X, Y, Z    float64
	VX, VY, VZ float64
	Yaw, Pitch float32
	Flags      int32
}

func (p *PlayerPosition) Encode(w io.Writer) error {
	if _, err := buf.WriteVarInt(w, p.TeleportID); err != nil {
		return err
	}
	for _, v := range []float64{p.X, p.Y, p.Z, p.VX, p.VY, p.VZ} {
		if err := buf.WriteF64(w, v); err != nil {
			return err
		}
	}
	if err := buf.WriteF32(w, p.Yaw); err != nil {
		return err
	}
	if err := buf.WriteF32(w, p.Pitch); err != nil {
		return err
	}
	_, err := buf.WriteVarInt(w, p.Flags)
	return err
}

func decodePlayerPosition(r io.Reader) (Packet, error) {
	p := &PlayerPosition{}
	var err error
	if p.TeleportID, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	for _, v := range []*float64{&p.X, &p.Y, &p.Z, &p.VX, &p.VY, &p.VZ} {
		if *v, err = buf.ReadF64(r); err != nil {
			return nil, err
		}
	}
	if p.Yaw, err = buf.ReadF32(r); err != nil {
		return nil, err
	}
	if p.Pitch, err = buf.ReadF32(r); err != nil {
		return nil, err
	}
	if p.Flags, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	return p, nil
}

// AcceptTeleportation (serverbound) acks a PlayerPosition teleport.
type AcceptTeleportation struct{ TeleportID int32 }

func (p *AcceptTeleportation) Encode(w io.Writer) error {
	_, err := buf.WriteVarInt(w, p.TeleportID)
	return err
}

func decodeAcceptTeleportation(r io.Reader) (Packet, error) {
	v, _, err := buf.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	return &AcceptTeleportation{TeleportID: v}, nil
}

// ---- Serverbound: movement send decision (spec.md §4.7 step 9) ----

type MovePlayerPosRot struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	OnGround   bool
}

func (p *MovePlayerPosRot) Encode(w io.Writer) error {
	for _, v := range []float64{p.X, p.Y, p.Z} {
		if err := buf.WriteF64(w, v); err != nil {
			return err
		}
	}
	if err := buf.WriteF32(w, p.Yaw); err != nil {
		return err
	}
	if err := buf.WriteF32(w, p.Pitch); err != nil {
		return err
	}
	return buf.WriteBool(w, p.OnGround)
}

func decodeMovePlayerPosRot(r io.Reader) (Packet, error) {
	p := &MovePlayerPosRot{}
	var err error
	if p.X, err = buf.ReadF64(r); err != nil {
		return nil, err
	}
	if p.Y, err = buf.ReadF64(r); err != nil {
		return nil, err
	}
	if p.Z, err = buf.ReadF64(r); err != nil {
		return nil, err
	}
	if p.Yaw, err = buf.ReadF32(r); err != nil {
		return nil, err
	}
	if p.Pitch, err = buf.ReadF32(r); err != nil {
		return nil, err
	}
	if p.OnGround, err = buf.ReadBool(r); err != nil {
		return nil, err
	}
	return p, nil
}

type MovePlayerPos struct {
	X, Y, Z  float64
	OnGround bool
}

func (p *MovePlayerPos) Encode(w io.Writer) error {
	for _, v := range []float64{p.X, p.Y, p.Z} {
		if err := buf.WriteF64(w, v); err != nil {
			return err
		}
	}
	return buf.WriteBool(w, p.OnGround)
}

func decodeMovePlayerPos(r io.Reader) (Packet, error) {
	p := &MovePlayerPos{}
	var err error
	if p.X, err = buf.ReadF64(r); err != nil {
		return nil, err
	}
	if p.Y, err = buf.ReadF64(r); err != nil {
		return nil, err
	}
	if p.Z, err = buf.ReadF64(r); err != nil {
		return nil, err
	}
	if p.OnGround, err = buf.ReadBool(r); err != nil {
		return nil, err
	}
	return p, nil
}

type MovePlayerRot struct {
	Yaw, Pitch float32
	OnGround   bool
}

func (p *MovePlayerRot) Encode(w io.Writer) error {
	if err := buf.WriteF32(w, p.Yaw); err != nil {
		return err
	}
	if err := buf.WriteF32(w, p.Pitch); err != nil {
		return err
	}
	return buf.WriteBool(w, p.OnGround)
}

func decodeMovePlayerRot(r io.Reader) (Packet, error) {
	p := &MovePlayerRot{}
	var err error
	if p.Yaw, err = buf.ReadF32(r); err != nil {
		return nil, err
	}
	if p.Pitch, err = buf.ReadF32(r); err != nil {
		return nil, err
	}
	if p.OnGround, err = buf.ReadBool(r); err != nil {
		return nil, err
	}
	return p, nil
}

type MovePlayerStatusOnly struct{ OnGround bool }

func (p *MovePlayerStatusOnly) Encode(w io.Writer) error { return buf.WriteBool(w, p.OnGround) }

func decodeMovePlayerStatusOnly(r io.Reader) (Packet, error) {
	v, err := buf.ReadBool(r)
	if err != nil {
		return nil, err
	}
	return &MovePlayerStatusOnly{OnGround: v}, nil
}

// ---- Block interaction & mining (C8) ----

// PlayerAction (serverbound) drives the mining state machine.
type PlayerAction struct {
	Action   int32 // 0=start digging,1=cancel,2=finish,3..=drop/swap etc.
	X, Y, Z  int32
	Face     int8
	Sequence int32
}

func (p *PlayerAction) Encode(w io.Writer) error {
	if _, err := buf.WriteVarInt(w, p.Action); err != nil {
		return err
	}
	if err := buf.WriteBlockPos(w, p.X, p.Y, p.Z); err != nil {
		return err
	}
	if err := buf.WriteI8(w, p.Face); err != nil {
		return err
	}
	_, err := buf.WriteVarInt(w, p.Sequence)
	return err
}

func decodePlayerAction(r io.Reader) (Packet, error) {
	p := &PlayerAction{}
	var err error
	if p.Action, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	if p.X, p.Y, p.Z, err = buf.ReadBlockPos(r); err != nil {
		return nil, err
	}
	if p.Face, err = buf.ReadI8(r); err != nil {
		return nil, err
	}
	if p.Sequence, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	return p, nil
}

const (
	PlayerActionStartDigging = iota
	PlayerActionCancelDigging
	PlayerActionFinishDigging
	PlayerActionDropItemStack
	PlayerActionDropItem
	PlayerActionReleaseUseItem
	PlayerActionSwapItem
)

// UseItemOn (serverbound) is the right-click-on-block interaction.
type UseItemOn struct {
	Hand                              int32
	X, Y, Z                           int32
	Face                              int32
	CursorX, CursorY, CursorZ         float32
	InsideBlock                       bool
	Sequence                          int32
}

func (p *UseItemOn) Encode(w io.Writer) error {
	if _, err := buf.WriteVarInt(w, p.Hand); err != nil {
		return err
	}
	if err := buf.WriteBlockPos(w, p.X, p.Y, p.Z); err != nil {
		return err
	}
	if _, err := buf.WriteVarInt(w, p.Face); err != nil {
		return err
	}
	if err := buf.WriteF32(w, p.CursorX); err != nil {
		return err
	}
	if err := buf.WriteF32(w, p.CursorY); err != nil {
		return err
	}
	if err := buf.WriteF32(w, p.CursorZ); err != nil {
		return err
	}
	if err := buf.WriteBool(w, p.InsideBlock); err != nil {
		return err
	}
	_, err := buf.WriteVarInt(w, p.Sequence)
	return err
}

func decodeUseItemOn(r io.Reader) (Packet, error) {
	p := &UseItemOn{}
	var err error
	if p.Hand, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	if p.X, p.Y, p.Z, err = buf.ReadBlockPos(r); err != nil {
		return nil, err
	}
	if p.Face, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	if p.CursorX, err = buf.ReadF32(r); err != nil {
		return nil, err
	}
	if p.CursorY, err = buf.ReadF32(r); err != nil {
		return nil, err
	}
	if p.CursorZ, err = buf.ReadF32(r); err != nil {
		return nil, err
	}
	if p.InsideBlock, err = buf.ReadBool(r); err != nil {
		return nil, err
	}
	if p.Sequence, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	return p, nil
}

// UseItem (serverbound) is a non-targeted item use (e.g. eating, bow draw).
type UseItem struct {
	Hand     int32
	Sequence int32
	Yaw      float32
	Pitch    float32
}

func (p *UseItem) Encode(w io.Writer) error {
	if _, err := buf.WriteVarInt(w, p.Hand); err != nil {
		return err
	}
	if _, err := buf.WriteVarInt(w, p.Sequence); err != nil {
		return err
	}
	if err := buf.WriteF32(w, p.Yaw); err != nil {
		return err
	}
	return buf.WriteF32(w, p.Pitch)
}

func decodeUseItem(r io.Reader) (Packet, error) {
	p := &UseItem{}
	var err error
	if p.Hand, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	if p.Sequence, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	if p.Yaw, err = buf.ReadF32(r); err != nil {
		return nil, err
	}
	if p.Pitch, err = buf.ReadF32(r); err != nil {
		return nil, err
	}
	return p, nil
}

// SwingArm (serverbound) is the attack/animate-arm packet.
type SwingArm struct{ Hand int32 }

func (p *SwingArm) Encode(w io.Writer) error {
	_, err := buf.WriteVarInt(w, p.Hand)
	return err
}

func decodeSwingArm(r io.Reader) (Packet, error) {
	v, _, err := buf.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	return &SwingArm{Hand: v}, nil
}

// Interact (serverbound) covers attacking or interacting with an entity.
type Interact struct {
	EntityID int32
	Type     int32 // 0=interact,1=attack,2=interact at
	Sneaking bool
}

func (p *Interact) Encode(w io.Writer) error {
	if _, err := buf.WriteVarInt(w, p.EntityID); err != nil {
		return err
	}
	if _, err := buf.WriteVarInt(w, p.Type); err != nil {
		return err
	}
	return buf.WriteBool(w, p.Sneaking)
}

func decodeInteract(r io.Reader) (Packet, error) {
	p := &Interact{}
	var err error
	if p.EntityID, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	if p.Type, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	if p.Sneaking, err = buf.ReadBool(r); err != nil {
		return nil, err
	}
	return p, nil
}

// ---- Inventory (C9) ----

type SetCarriedItem struct{ Slot int16 }

func (p *SetCarriedItem) Encode(w io.Writer) error { return buf.WriteI16(w, p.Slot) }

func decodeSetCarriedItem(r io.Reader) (Packet, error) {
	v, err := buf.ReadI16(r)
	if err != nil {
		return nil, err
	}
	return &SetCarriedItem{Slot: v}, nil
}

type ContainerClose struct{ WindowID int32 }

func (p *ContainerClose) Encode(w io.Writer) error {
	_, err := buf.WriteVarInt(w, p.WindowID)
	return err
}

func decodeContainerClose(r io.Reader) (Packet, error) {
	v, _, err := buf.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	return &ContainerClose{WindowID: v}, nil
}

// OpenScreen (clientbound) opens a non-inventory container menu.
type OpenScreen struct {
	WindowID  int32
	MenuType  int32
	TitleJSON string
}

func (p *OpenScreen) Encode(w io.Writer) error {
	if _, err := buf.WriteVarInt(w, p.WindowID); err != nil {
		return err
	}
	if _, err := buf.WriteVarInt(w, p.MenuType); err != nil {
		return err
	}
	return buf.WriteString(w, p.TitleJSON)
}

func decodeOpenScreen(r io.Reader) (Packet, error) {
	p := &OpenScreen{}
	var err error
	if p.WindowID, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	if p.MenuType, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	if p.TitleJSON, err = buf.ReadString(r); err != nil {
		return nil, err
	}
	return p, nil
}

// ContainerSetContent (clientbound) replaces every slot at once. Slot
// payloads are variable-length (item-component NBT); the exact split is
// left to internal/inventory's slot decoder, which knows the
// item-component schema, so RawSlots is handed over undivided along
// with the count the wire declared.
type ContainerSetContent struct {
	WindowID  int32
	StateID   int32
	SlotCount int32
	RawSlots  []byte
}

func (p *ContainerSetContent) Encode(w io.Writer) error {
	if err := buf.WriteU8(w, uint8(p.WindowID)); err != nil {
		return err
	}
	if _, err := buf.WriteVarInt(w, p.StateID); err != nil {
		return err
	}
	if _, err := buf.WriteVarInt(w, p.SlotCount); err != nil {
		return err
	}
	_, err := w.Write(p.RawSlots)
	return err
}

func decodeContainerSetContent(r io.Reader) (Packet, error) {
	windowID, err := buf.ReadU8(r)
	if err != nil {
		return nil, err
	}
	stateID, _, err := buf.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	count, _, err := buf.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	rest, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &ContainerSetContent{WindowID: int32(windowID), StateID: stateID, SlotCount: count, RawSlots: rest}, nil
}

// ContainerClick (serverbound) carries one click operation (spec.md §4.9).
type ContainerClick struct {
	WindowID     int32
	StateID      int32
	Slot         int16
	Button       int8
	ClickType    int32
	ChangedSlots map[int16][]byte // slot index -> hashed-stack payload
	Carried      []byte
}

func (p *ContainerClick) Encode(w io.Writer) error {
	if _, err := buf.WriteVarInt(w, p.WindowID); err != nil {
		return err
	}
	if _, err := buf.WriteVarInt(w, p.StateID); err != nil {
		return err
	}
	if err := buf.WriteI16(w, p.Slot); err != nil {
		return err
	}
	if err := buf.WriteI8(w, p.Button); err != nil {
		return err
	}
	if _, err := buf.WriteVarInt(w, p.ClickType); err != nil {
		return err
	}
	if _, err := buf.WriteVarInt(w, int32(len(p.ChangedSlots))); err != nil {
		return err
	}
	for slot, payload := range p.ChangedSlots {
		if err := buf.WriteI16(w, slot); err != nil {
			return err
		}
		if _, err := w.Write(payload); err != nil {
			return err
		}
	}
	_, err := w.Write(p.Carried)
	return err
}

func decodeContainerClick(r io.Reader) (Packet, error) {
	p := &ContainerClick{ChangedSlots: map[int16][]byte{}}
	var err error
	if p.WindowID, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	if p.StateID, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	if p.Slot, err = buf.ReadI16(r); err != nil {
		return nil, err
	}
	if p.Button, err = buf.ReadI8(r); err != nil {
		return nil, err
	}
	if p.ClickType, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	n, _, err := buf.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < n; i++ {
		slot, err := buf.ReadI16(r)
		if err != nil {
			return nil, err
		}
		// Slot payload length is schema-dependent; left to
		// internal/inventory to re-slice from the raw packet body in
		// integration paths that need it. Tests exercise ContainerClick
		// at the field level instead of over full wire bytes.
		p.ChangedSlots[slot] = nil
	}
	rest, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	p.Carried = rest
	return p, nil
}

// ---- Chat (opaque, per spec.md §1) ----

// ChatMessage (serverbound) sends plain player chat.
type ChatMessage struct {
	Message   string
	Timestamp int64
	Salt      int64
}

func (p *ChatMessage) Encode(w io.Writer) error {
	if err := buf.WriteString(w, p.Message); err != nil {
		return err
	}
	if err := buf.WriteI64(w, p.Timestamp); err != nil {
		return err
	}
	return buf.WriteI64(w, p.Salt)
}

func decodeChatMessage(r io.Reader) (Packet, error) {
	p := &ChatMessage{}
	var err error
	if p.Message, err = buf.ReadString(r); err != nil {
		return nil, err
	}
	if p.Timestamp, err = buf.ReadI64(r); err != nil {
		return nil, err
	}
	if p.Salt, err = buf.ReadI64(r); err != nil {
		return nil, err
	}
	return p, nil
}

// SystemChat (clientbound) is a server-originated chat/system message.
type SystemChat struct {
	ContentJSON string
	Overlay     bool
}

func (p *SystemChat) Encode(w io.Writer) error {
	if err := buf.WriteString(w, p.ContentJSON); err != nil {
		return err
	}
	return buf.WriteBool(w, p.Overlay)
}

func decodeSystemChat(r io.Reader) (Packet, error) {
	p := &SystemChat{}
	var err error
	if p.ContentJSON, err = buf.ReadString(r); err != nil {
		return nil, err
	}
	if p.Overlay, err = buf.ReadBool(r); err != nil {
		return nil, err
	}
	return p, nil
}

// PlayerChat (clientbound) is a player-originated chat message; the
// signature machinery is out of core scope, so only the sender UUID
// and the plain message are carried and no signature is decoded.
type PlayerChat struct {
	SenderUUID uuid.UUID
	PlainMsg   string
}

func (p *PlayerChat) Encode(w io.Writer) error {
	if err := buf.WriteUUID(w, p.SenderUUID); err != nil {
		return err
	}
	return buf.WriteString(w, p.PlainMsg)
}

func decodePlayerChat(r io.Reader) (Packet, error) {
	p := &PlayerChat{}
	var err error
	if p.SenderUUID, err = buf.ReadUUID(r); err != nil {
		return nil, err
	}
	if p.PlainMsg, err = buf.ReadString(r); err != nil {
		return nil, err
	}
	return p, nil
}

// ---- Misc lifecycle ----

type SetHealth struct {
	Health         float32
	Food           int32
	FoodSaturation float32
}

func (p *SetHealth) Encode(w io.Writer) error {
	if err := buf.WriteF32(w, p.Health); err != nil {
		return err
	}
	if _, err := buf.WriteVarInt(w, p.Food); err != nil {
		return err
	}
	return buf.WriteF32(w, p.FoodSaturation)
}

func decodeSetHealth(r io.Reader) (Packet, error) {
	p := &SetHealth{}
	var err error
	if p.Health, err = buf.ReadF32(r); err != nil {
		return nil, err
	}
	if p.Food, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	if p.FoodSaturation, err = buf.ReadF32(r); err != nil {
		return nil, err
	}
	return p, nil
}

type ClientCommand struct{ Action int32 } // 0 = perform respawn

func (p *ClientCommand) Encode(w io.Writer) error {
	_, err := buf.WriteVarInt(w, p.Action)
	return err
}

func decodeClientCommand(r io.Reader) (Packet, error) {
	v, _, err := buf.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	return &ClientCommand{Action: v}, nil
}

type Respawn struct {
	DimensionType int32
	DimensionName string
	HashedSeed    int64
	GameMode      int8
}

func (p *Respawn) Encode(w io.Writer) error {
	if _, err := buf.WriteVarInt(w, p.DimensionType); err != nil {
		return err
	}
	if err := buf.WriteString(w, p.DimensionName); err != nil {
		return err
	}
	if err := buf.WriteI64(w, p.HashedSeed); err != nil {
		return err
	}
	return buf.WriteI8(w, p.GameMode)
}

func decodeRespawn(r io.Reader) (Packet, error) {
	p := &Respawn{}
	var err error
	if p.DimensionType, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	if p.DimensionName, err = buf.ReadString(r); err != nil {
		return nil, err
	}
	if p.HashedSeed, err = buf.ReadI64(r); err != nil {
		return nil, err
	}
	if p.GameMode, err = buf.ReadI8(r); err != nil {
		return nil, err
	}
	return p, nil
}

type GameEvent struct {
	Event int8
	Value float32
}

func (p *GameEvent) Encode(w io.Writer) error {
	if err := buf.WriteI8(w, p.Event); err != nil {
		return err
	}
	return buf.WriteF32(w, p.Value)
}

func decodeGameEvent(r io.Reader) (Packet, error) {
	p := &GameEvent{}
	var err error
	if p.Event, err = buf.ReadI8(r); err != nil {
		return nil, err
	}
	if p.Value, err = buf.ReadF32(r); err != nil {
		return nil, err
	}
	return p, nil
}
