package mcproto

import "sync"

var (
	stdOnce sync.Once
	std     *Registry
)

// Std returns the process-wide registry populated with every packet
// this client knows how to speak, built once and never mutated
// afterward (spec.md §9 "global state").
func Std() *Registry {
	stdOnce.Do(func() {
		std = NewRegistry()
		registerHandshake(std)
		registerStatus(std)
		registerLogin(std)
		registerConfiguration(std)
		registerGame(std)
	})
	return std
}

func registerHandshake(r *Registry) {
	r.Register(Handshake, Serverbound, 0x00, "ClientIntention", decodeClientIntention)
}

func registerStatus(r *Registry) {
	r.Register(Status, Serverbound, 0x00, "StatusRequest", decodeStatusRequest)
	r.Register(Status, Serverbound, 0x01, "PingRequest", decodePingRequest)
	r.Register(Status, Clientbound, 0x00, "StatusResponse", decodeStatusResponse)
	r.Register(Status, Clientbound, 0x01, "PongResponse", decodePongResponse)
}

func registerLogin(r *Registry) {
	r.Register(Login, Serverbound, 0x00, "Hello", decodeHello)
	r.Register(Login, Serverbound, 0x01, "Key", decodeKey)
	r.Register(Login, Serverbound, 0x03, "LoginAcknowledged", decodeLoginAcknowledged)

	r.Register(Login, Clientbound, 0x00, "LoginDisconnect", decodeLoginDisconnect)
	r.Register(Login, Clientbound, 0x01, "EncryptionRequest", decodeEncryptionRequest)
	r.Register(Login, Clientbound, 0x02, "GameProfile", decodeGameProfile)
	r.Register(Login, Clientbound, 0x03, "LoginCompression", decodeLoginCompression)
}

func registerConfiguration(r *Registry) {
	r.Register(Configuration, Serverbound, 0x00, "ClientInformation", decodeClientInformation)
	r.Register(Configuration, Serverbound, 0x03, "FinishConfigurationAck", decodeFinishConfigurationAck)
	r.Register(Configuration, Serverbound, 0x04, "KeepAliveConfiguration", decodeKeepAliveConfiguration)

	r.Register(Configuration, Clientbound, 0x03, "FinishConfiguration", decodeFinishConfiguration)
	r.Register(Configuration, Clientbound, 0x05, "KeepAliveConfiguration", decodeKeepAliveConfiguration)
	r.Register(Configuration, Clientbound, 0x07, "RegistryData", decodeRegistryData)
}

func registerGame(r *Registry) {
	// Clientbound
	r.Register(Game, Clientbound, 0x01, "AddEntity", decodeAddEntity)
	r.Register(Game, Clientbound, 0x08, "BlockUpdate", decodeBlockUpdate)
	r.Register(Game, Clientbound, 0x0B, "Disconnect", decodeDisconnect)
	r.Register(Game, Clientbound, 0x11, "LoginPlay", decodeLoginPlay)
	r.Register(Game, Clientbound, 0x1D, "OpenScreen", decodeOpenScreen)
	r.Register(Game, Clientbound, 0x14, "ContainerSetContent", decodeContainerSetContent)
	r.Register(Game, Clientbound, 0x20, "GameEvent", decodeGameEvent)
	r.Register(Game, Clientbound, 0x27, "KeepAlive", decodeKeepAlive)
	r.Register(Game, Clientbound, 0x28, "ChunkDataAndLight", decodeChunkDataAndLight)
	r.Register(Game, Clientbound, 0x41, "PlayerChat", decodePlayerChat)
	r.Register(Game, Clientbound, 0x42, "SystemChat", decodeSystemChat)
	r.Register(Game, Clientbound, 0x3E, "PlayerPosition", decodePlayerPosition)
	r.Register(Game, Clientbound, 0x45, "Respawn", decodeRespawn)
	r.Register(Game, Clientbound, 0x4A, "RemoveEntities", decodeRemoveEntities)
	r.Register(Game, Clientbound, 0x57, "SetHealth", decodeSetHealth)
	r.Register(Game, Clientbound, 0x6F, "TeleportEntity", decodeTeleportEntity)
	r.Register(Game, Clientbound, 0x70, "UpdateEntityPosition", decodeUpdateEntityPosition)

	// Serverbound
	r.Register(Game, Serverbound, 0x07, "AcceptTeleportation", decodeAcceptTeleportation)
	r.Register(Game, Serverbound, 0x0C, "ChatMessage", decodeChatMessage)
	r.Register(Game, Serverbound, 0x0F, "ClientCommand", decodeClientCommand)
	r.Register(Game, Serverbound, 0x11, "ContainerClick", decodeContainerClick)
	r.Register(Game, Serverbound, 0x12, "ContainerClose", decodeContainerClose)
	r.Register(Game, Serverbound, 0x18, "Interact", decodeInteract)
	r.Register(Game, Serverbound, 0x1A, "KeepAlive", decodeKeepAlive)
	r.Register(Game, Serverbound, 0x1D, "MovePlayerPos", decodeMovePlayerPos)
	r.Register(Game, Serverbound, 0x1E, "MovePlayerPosRot", decodeMovePlayerPosRot)
	r.Register(Game, Serverbound, 0x1F, "MovePlayerRot", decodeMovePlayerRot)
	r.Register(Game, Serverbound, 0x20, "MovePlayerStatusOnly", decodeMovePlayerStatusOnly)
	r.Register(Game, Serverbound, 0x28, "PlayerAction", decodePlayerAction)
	r.Register(Game, Serverbound, 0x2C, "SetCarriedItem", decodeSetCarriedItem)
	r.Register(Game, Serverbound, 0x38, "UseItemOn", decodeUseItemOn)
	r.Register(Game, Serverbound, 0x39, "UseItem", decodeUseItem)
	r.Register(Game, Serverbound, 0x3A, "SwingArm", decodeSwingArm)
}
