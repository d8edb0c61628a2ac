// Package vibeclient is a headless Minecraft Java Edition client:
// dial a vanilla-protocol server, drive the connection's ECS world
// with a small imperative API, and receive domain events as they
// happen (spec.md §6 "Public library API"). Grounded on the teacher's
// cmd/server/main.go + pkg/server.Server construction (one struct
// assembled from options/flags, exposing a handful of verbs and a
// stop channel), generalized from a listening server to a single
// outbound connection.
package vibeclient

import (
	"context"
	"fmt"
	"math"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/StoreStation/vibeclient/internal/auth"
	"github.com/StoreStation/vibeclient/internal/config"
	"github.com/StoreStation/vibeclient/internal/conn"
	"github.com/StoreStation/vibeclient/internal/ecs"
	"github.com/StoreStation/vibeclient/internal/handlers"
	"github.com/StoreStation/vibeclient/internal/inventory"
	"github.com/StoreStation/vibeclient/internal/interact"
	"github.com/StoreStation/vibeclient/internal/mcproto"
	"github.com/StoreStation/vibeclient/internal/pathfinder"
	"github.com/StoreStation/vibeclient/internal/telemetry"
	"github.com/StoreStation/vibeclient/internal/world"
)

// Re-export the pieces a caller needs to construct a Client without
// reaching into internal/.
type (
	Account  = auth.Account
	Option   = config.Option
	Event    = handlers.Event
	Goal     = pathfinder.Goal
	BlockPos = world.BlockPos

	// Pathfinder goal implementations (internal/pathfinder).
	BlockPosGoal = pathfinder.BlockPosGoal
	XZGoal       = pathfinder.XZGoal
	RadiusGoal   = pathfinder.RadiusGoal
)

var (
	// Offline and Authenticated build Accounts (spec.md §1 "the core
	// consumes authentication tokens as opaque strings").
	Offline       = auth.Offline
	Authenticated = auth.Authenticated

	// Configuration options (internal/config).
	WithLogger            = config.WithLogger
	WithClientInformation = config.WithClientInformation
	WithViewDistance      = config.WithViewDistance
	WithRefresh           = config.WithRefresh
	WithHTTPClient        = config.WithHTTPClient
	WithPathfindTimeout   = config.WithPathfindTimeout
	WithMetrics           = config.WithMetrics
)

// Client is one connection's public handle: spec.md §6's
// Client::join(account, address) → (Client, EventReceiver), plus the
// verb methods it names. A Client is a thin wrapper over
// internal/handlers.Session — every method either mutates the ECS
// world directly (cheap, always succeeds against a live entity) or
// queues an event a system drains next tick.
type Client struct {
	session *handlers.Session
	conn    *conn.Conn
	metrics *telemetry.Metrics

	cancel context.CancelFunc
}

// Join dials address, completes the four-phase connection handshake
// (spec.md §4.4), and starts the session loop. The returned Client is
// ready for its verb methods immediately; Local() is ecs.Null until
// the first LoginEvent arrives on the returned EventReceiver.
func Join(ctx context.Context, account auth.Account, address string, opts ...config.Option) (*Client, *EventReceiver, error) {
	settings := config.Apply(account, address, opts...)

	host, port, err := splitAddress(address)
	if err != nil {
		return nil, nil, err
	}

	log := settings.Logger
	if log == nil {
		var lerr error
		log, lerr = telemetry.NewLogger(false)
		if lerr != nil {
			return nil, nil, lerr
		}
	}

	c, err := conn.Dial(ctx, address, host, port, conn.Options{
		Account:           settings.Account,
		ClientInformation: settings.ClientInformation,
		Refresh:           settings.Refresh,
		HTTPClient:        settings.HTTPClient,
		Logger:            log,
	})
	if err != nil {
		return nil, nil, err
	}

	sessCtx, cancel := context.WithCancel(ctx)
	session := handlers.NewSession(sessCtx, c, log)

	var metrics *telemetry.Metrics
	if settings.EnableMetrics {
		metrics = telemetry.NewMetrics(prometheus.NewRegistry())
	}

	cl := &Client{session: session, conn: c, metrics: metrics, cancel: cancel}

	go func() {
		_ = session.Run(sessCtx)
	}()

	return cl, newEventReceiver(session), nil
}

func splitAddress(address string) (host string, port uint16, err error) {
	var p int
	if _, err := fmt.Sscanf(address, "%[^:]:%d", &host, &p); err != nil {
		return "", 0, fmt.Errorf("vibeclient: invalid address %q: %w", address, err)
	}
	return host, uint16(p), nil
}

// Local returns the local player's entity handle, or the zero Handle
// before Game phase has started.
func (c *Client) Local() ecs.Handle { return c.session.Local() }

// World exposes the underlying ECS world for callers that need to read
// component state directly (spec.md §5 "external callers acquire a
// write lock on the world to enqueue events or run one-shot systems" —
// every exported internal/ecs accessor already takes that lock
// itself, so no separate locking API is needed here).
func (c *Client) World() *ecs.World { return c.session.World }

// Store exposes the underlying world/chunk store.
func (c *Client) Store() *world.Store { return c.session.Store }

// Chat sends a chat message (spec.md §6 Client.chat(text)).
func (c *Client) Chat(text string) {
	ecs.PushEvent(c.session.World, ecs.SendPacketEvent{
		Entity: c.Local(),
		Packet: &mcproto.ChatMessage{Message: text},
	})
}

// Walk sets the local player's desired horizontal movement for this
// and subsequent ticks until changed again (spec.md §6
// Client.walk(dir); §4.7's WalkInput component). forward/strafe follow
// vanilla's input convention: forward>0 moves toward the look
// direction, strafe>0 moves right of it.
func (c *Client) Walk(forward, strafe float64) {
	ecs.Mutate(c.session.World, c.Local(), func(in *ecs.WalkInput) {
		in.Forward, in.Strafe = forward, strafe
	})
}

// Sprint toggles sprinting for subsequent ticks (spec.md §6
// Client.sprint(dir) — modeled as a boolean, since this client has no
// separate sprint direction from Walk's).
func (c *Client) Sprint(on bool) {
	ecs.Mutate(c.session.World, c.Local(), func(p *ecs.Physics) { p.Sprinting = on })
}

// SetJumping sets the edge-triggered jump input internal/physics.Step
// consumes (spec.md §6 Client.set_jumping(bool)).
func (c *Client) SetJumping(on bool) {
	ecs.Mutate(c.session.World, c.Local(), func(p *ecs.Physics) { p.Jumping = on })
}

// LookAt points the local player's rotation at a world-space point
// (spec.md §6 Client.look_at(vec3)), using the same yaw/pitch
// convention as internal/pathfinder's ExecuteCtx.LookAt (yaw 0 faces
// +Z, pitch 0 horizontal).
func (c *Client) LookAt(point [3]float64) {
	pos, ok := ecs.Get[ecs.Position](c.session.World, c.Local())
	if !ok {
		return
	}
	const eyeHeight = 1.62
	eye := [3]float64{pos.X, pos.Y + eyeHeight, pos.Z}
	dx, dy, dz := point[0]-eye[0], point[1]-eye[1], point[2]-eye[2]
	horiz := math.Sqrt(dx*dx + dz*dz)
	yaw := math.Atan2(-dx, dz) * 180 / math.Pi
	pitch := math.Atan2(-dy, horiz) * 180 / math.Pi
	ecs.Mutate(c.session.World, c.Local(), func(r *ecs.Rotation) {
		r.Yaw, r.Pitch = float32(yaw), float32(pitch)
	})
}

// BlockInteract right-clicks pos regardless of the current hit result
// (spec.md §6 Client.block_interact(pos); §4.8).
func (c *Client) BlockInteract(pos BlockPos) {
	interact.BlockInteract(c.session.World, c.Local(), pos)
}

// StartUseItem right-clicks whatever the current hit result names, or
// performs a plain air-use if nothing is in range (spec.md §6
// Client.start_use_item(); §4.8).
func (c *Client) StartUseItem() {
	interact.StartUseItem(c.session.World, c.Local())
}

// Attack swings at and interacts-as-attack with target (spec.md §6
// Client.attack(entity)). Grounded on vanilla's Interact packet Type=1
// convention (internal/mcproto.Interact's own doc comment).
func (c *Client) Attack(target ecs.Handle) {
	meta, ok := ecs.Get[ecs.Metadata](c.session.World, target)
	if !ok {
		return
	}
	interact.SwingArm(c.session.World, c.Local())
	ecs.PushEvent(c.session.World, ecs.SendPacketEvent{
		Entity: c.Local(),
		Packet: &mcproto.Interact{EntityID: meta.MinecraftID, Type: 1},
	})
}

// Mine starts (or retargets) mining the block at pos (spec.md §6
// Client.mine(pos); §4.8 mining state machine).
func (c *Client) Mine(pos BlockPos) {
	interact.Mine(c.session.World, c.Local(), pos)
}

// Goto requests a path to goal (spec.md §6 Client.goto(goal); §4.10).
func (c *Client) Goto(goal Goal) {
	pathfinder.Goto(c.session.World, c.Local(), goal)
}

// StopPath cancels any in-progress or queued path.
func (c *Client) StopPath() {
	pathfinder.Stop(c.session.World, c.Local())
}

// OpenInventory returns the local player's current menu, or nil if no
// Inventory component exists yet (before LoginEvent).
func (c *Client) OpenInventory() *inventory.Menu {
	inv, ok := ecs.Get[inventory.Inventory](c.session.World, c.Local())
	if !ok {
		return nil
	}
	return inv.Open
}

// Click performs one inventory click (spec.md §4.9).
func (c *Client) Click(op inventory.ClickOp) {
	inventory.Click(c.session.World, c.Local(), op)
}

// SetSelectedHotbarSlot changes the active hotbar slot (spec.md §4.9).
func (c *Client) SetSelectedHotbarSlot(slot int32) {
	inventory.SetSelectedHotbarSlot(c.session.World, c.Local(), slot)
}

// Disconnect closes the underlying connection (spec.md §6
// Client.disconnect()). It cancels the session loop, which publishes
// one DisconnectEvent as it stops, per spec.md §7 "Disconnect event
// emitted exactly once".
func (c *Client) Disconnect() error {
	c.cancel()
	return c.conn.Close()
}

// Metrics returns the client's prometheus metric set, or nil if
// config.WithMetrics wasn't passed to Join.
func (c *Client) Metrics() *telemetry.Metrics { return c.metrics }
