// Package conn implements the four-phase connection lifecycle spec.md
// §4.4 describes (C4): Handshake → Login (with the optional encryption
// and compression handshake) → Configuration → Game. Grounded on the
// teacher's pkg/server/server.go connection handling (handlePing,
// handleLoginStart, the state field driving which packets are legal)
// generalized from the server's accept-a-connection role to the
// client's dial-a-connection role.
package conn

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/StoreStation/vibeclient/internal/auth"
	"github.com/StoreStation/vibeclient/internal/mcproto"
	"github.com/StoreStation/vibeclient/internal/netio"
)

// DisconnectError wraps a LoginDisconnect/Disconnect packet's reason,
// surfaced to the owning client entity (spec.md §4.4 "Failure
// semantics").
type DisconnectError struct{ Reason string }

func (e *DisconnectError) Error() string { return "conn: disconnected: " + e.Reason }

// UnexpectedPacketError fires when a packet id arrives that the
// current phase doesn't expect to decode it as anything sensible in
// context (distinct from mcproto.UnknownPacketIDError, which is "never
// registered at all" — this is "registered, but not here, now").
type UnexpectedPacketError struct {
	Phase mcproto.Phase
	Type  string
}

func (e *UnexpectedPacketError) Error() string {
	return fmt.Sprintf("conn: unexpected packet %s during %s", e.Type, e.Phase)
}

// Options configures a Dial call.
type Options struct {
	Account           auth.Account
	ClientInformation mcproto.ClientInformation
	Refresh           auth.RefreshFunc // optional, used on a 403 from the session server
	HTTPClient        *http.Client     // optional, passed through to auth.Join
	Logger            *zap.SugaredLogger
}

// Conn is one client's view of the connection: the framed transport,
// the current phase, and the account used to log in. internal/handlers
// reads Game-phase packets off it; internal/ecs and internal/world are
// mutated as a side effect of what arrives.
type Conn struct {
	netio   *netio.Conn
	raw     net.Conn
	phase   mcproto.Phase
	reg     *mcproto.Registry
	log     *zap.SugaredLogger
	account auth.Account
}

// Dial opens a TCP connection to addr and drives it all the way
// through Handshake, Login, and Configuration, returning a Conn
// positioned at the start of Game (spec.md §4.4, steps 1-3).
func Dial(ctx context.Context, addr string, hostname string, port uint16, opt Options) (*Conn, error) {
	var d net.Dialer
	raw, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "conn: dial")
	}

	log := opt.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	c := &Conn{
		netio:   netio.NewConn(raw),
		raw:     raw,
		phase:   mcproto.Handshake,
		reg:     mcproto.Std(),
		log:     log.With("component", "conn"),
		account: opt.Account,
	}

	if err := c.handshake(hostname, port); err != nil {
		raw.Close()
		return nil, err
	}
	if err := c.login(ctx, opt); err != nil {
		raw.Close()
		return nil, err
	}
	if err := c.configuration(opt.ClientInformation); err != nil {
		raw.Close()
		return nil, err
	}
	return c, nil
}

// Close closes the underlying connection.
func (c *Conn) Close() error { return c.raw.Close() }

// Phase reports the connection's current protocol phase.
func (c *Conn) Phase() mcproto.Phase { return c.phase }

// Account returns the account this connection authenticated as. Name
// and ProfileID are updated from GameProfile during login, so by the
// time Dial returns they reflect the server's view, not just the
// caller-supplied opt.Account.
func (c *Conn) Account() auth.Account { return c.account }

func (c *Conn) handshake(hostname string, port uint16) error {
	intention := &mcproto.ClientIntention{
		ProtocolVersion: mcproto.ProtocolVersion,
		Hostname:        hostname,
		Port:            port,
		Intent:          mcproto.IntentLogin,
	}
	if err := c.writePacket("ClientIntention", intention); err != nil {
		return err
	}
	c.phase = mcproto.Login
	return nil
}

func (c *Conn) login(ctx context.Context, opt Options) error {
	if err := c.writePacket("Hello", &mcproto.Hello{Name: c.account.Name, ProfileID: c.account.ProfileID}); err != nil {
		return err
	}

	for {
		pkt, err := c.readPacket()
		if err != nil {
			return err
		}
		switch p := pkt.(type) {
		case *mcproto.LoginDisconnect:
			return &DisconnectError{Reason: p.Reason}
		case *mcproto.LoginCompression:
			c.netio.EnableCompression(p.Threshold)
			c.log.Infow("compression enabled", "threshold", p.Threshold)
		case *mcproto.EncryptionRequest:
			if err := c.handleEncryptionRequest(ctx, p, opt.HTTPClient, opt.Refresh); err != nil {
				return err
			}
		case *mcproto.GameProfile:
			c.account.ProfileID = p.ProfileID
			c.account.Name = p.Name
			if err := c.writePacket("LoginAcknowledged", &mcproto.LoginAcknowledged{}); err != nil {
				return err
			}
			c.phase = mcproto.Configuration
			return nil
		default:
			return &UnexpectedPacketError{Phase: mcproto.Login, Type: fmt.Sprintf("%T", pkt)}
		}
	}
}

// handleEncryptionRequest performs the full RSA + AES-CFB8 + session-
// server handshake spec.md §4.4 and §6 describe: generate a 16-byte
// shared secret, RSA-encrypt it and the server's challenge with the
// server's public key, join the session server if the account carries
// an access token, send Key, then flip encryption on in both
// directions on this same Conn.
func (c *Conn) handleEncryptionRequest(ctx context.Context, req *mcproto.EncryptionRequest, httpClient *http.Client, refresh auth.RefreshFunc) error {
	pub, err := x509.ParsePKIXPublicKey(req.PublicKey)
	if err != nil {
		return errors.Wrap(err, "conn: parsing server public key")
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return errors.New("conn: server public key is not RSA")
	}

	secret := make([]byte, 16)
	if _, err := rand.Read(secret); err != nil {
		return errors.Wrap(err, "conn: generating shared secret")
	}

	if req.ShouldAuth {
		hash := auth.ServerIDHash(req.ServerID, secret, req.PublicKey)
		if err := auth.Join(ctx, httpClient, c.account, hash, secret, nil, refresh); err != nil {
			return errors.Wrap(err, "conn: session-server join")
		}
	}

	encSecret, err := rsa.EncryptPKCS1v15(rand.Reader, rsaPub, secret)
	if err != nil {
		return errors.Wrap(err, "conn: encrypting shared secret")
	}
	encChallenge, err := rsa.EncryptPKCS1v15(rand.Reader, rsaPub, req.Challenge)
	if err != nil {
		return errors.Wrap(err, "conn: encrypting challenge")
	}

	if err := c.writePacket("Key", &mcproto.Key{EncryptedSecret: encSecret, EncryptedChallenge: encChallenge}); err != nil {
		return err
	}
	if err := c.netio.EnableEncryption(secret); err != nil {
		return errors.Wrap(err, "conn: enabling encryption")
	}
	c.log.Info("encryption enabled")
	return nil
}

func (c *Conn) configuration(info mcproto.ClientInformation) error {
	if err := c.writePacket("ClientInformation", &info); err != nil {
		return err
	}
	for {
		pkt, err := c.readPacket()
		if err != nil {
			return err
		}
		switch p := pkt.(type) {
		case *mcproto.RegistryData:
			_ = p // consumed by internal/handlers once the Conn is handed off
		case *mcproto.KeepAliveConfiguration:
			if err := c.writePacket("KeepAliveConfiguration", p); err != nil {
				return err
			}
		case *mcproto.FinishConfiguration:
			if err := c.writePacket("FinishConfigurationAck", &mcproto.FinishConfigurationAck{}); err != nil {
				return err
			}
			c.phase = mcproto.Game
			return nil
		default:
			return &UnexpectedPacketError{Phase: mcproto.Configuration, Type: fmt.Sprintf("%T", pkt)}
		}
	}
}

func (c *Conn) writePacket(typeKey string, p mcproto.Packet) error {
	id, ok := c.reg.IDOf(c.phase, mcproto.Serverbound, typeKey)
	if !ok {
		return errors.Errorf("conn: %s not registered for %s serverbound", typeKey, c.phase)
	}
	var body bytes.Buffer
	if err := p.Encode(&body); err != nil {
		return err
	}
	return c.netio.WritePacket(id, body.Bytes())
}

// WritePacket sends a Game-phase packet under the registered type key
// the caller passes as typeKey, for use by internal/handlers and
// the higher-level Client (spec.md §4.8-§4.10 output paths).
func (c *Conn) WritePacket(typeKey string, p mcproto.Packet) error {
	return c.writePacket(typeKey, p)
}

func (c *Conn) readPacket() (mcproto.Packet, error) {
	id, body, err := c.netio.ReadPacket()
	if err != nil {
		return nil, err
	}
	return c.reg.Read(c.phase, mcproto.Clientbound, id, body)
}

// ReadPacket reads and decodes one Game-phase clientbound packet.
func (c *Conn) ReadPacket() (mcproto.Packet, error) {
	return c.readPacket()
}

// SetDeadline forwards to the underlying net.Conn, letting a caller
// enforce a keep-alive timeout (spec.md §7 "I/O error... terminates
// the connection").
func (c *Conn) SetDeadline(t time.Time) error { return c.raw.SetDeadline(t) }
