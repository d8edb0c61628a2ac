package mcproto

import (
	"io"

	"github.com/StoreStation/vibeclient/internal/buf"
)

// ClientInformation (serverbound) carries the client's chosen display
// settings; servers use ViewDistance to decide how many chunks to send.
type ClientInformation struct {
	Locale             string
	ViewDistance       int8
	ChatVisibility     int32
	ChatColors         bool
	SkinParts          uint8
	MainHand           int32
	TextFilteringOn    bool
	AllowServerListing bool
}

func (p *ClientInformation) Encode(w io.Writer) error {
	if err := buf.WriteString(w, p.Locale); err != nil {
		return err
	}
	if err := buf.WriteI8(w, p.ViewDistance); err != nil {
		return err
	}
	if _, err := buf.WriteVarInt(w, p.ChatVisibility); err != nil {
		return err
	}
	if err := buf.WriteBool(w, p.ChatColors); err != nil {
		return err
	}
	if err := buf.WriteU8(w, p.SkinParts); err != nil {
		return err
	}
	if _, err := buf.WriteVarInt(w, p.MainHand); err != nil {
		return err
	}
	if err := buf.WriteBool(w, p.TextFilteringOn); err != nil {
		return err
	}
	return buf.WriteBool(w, p.AllowServerListing)
}

func decodeClientInformation(r io.Reader) (Packet, error) {
	p := &ClientInformation{}
	var err error
	if p.Locale, err = buf.ReadString(r); err != nil {
		return nil, err
	}
	if p.ViewDistance, err = buf.ReadI8(r); err != nil {
		return nil, err
	}
	if p.ChatVisibility, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	if p.ChatColors, err = buf.ReadBool(r); err != nil {
		return nil, err
	}
	if p.SkinParts, err = buf.ReadU8(r); err != nil {
		return nil, err
	}
	if p.MainHand, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	if p.TextFilteringOn, err = buf.ReadBool(r); err != nil {
		return nil, err
	}
	if p.AllowServerListing, err = buf.ReadBool(r); err != nil {
		return nil, err
	}
	return p, nil
}

// RegistryData (clientbound) ships one registry's contents as an NBT
// compound keyed by resource identifier. Only the raw tag is kept: the
// core treats registry contents (biomes, dimension types, chat types)
// as opaque snapshots captured at login (spec.md §3 "Instance").
type RegistryData struct {
	RegistryID string
	Entries    map[string]*buf.Tag // nil entry = entry present with no NBT data
}

func (p *RegistryData) Encode(w io.Writer) error {
	if err := buf.WriteString(w, p.RegistryID); err != nil {
		return err
	}
	keys := make([]string, 0, len(p.Entries))
	for k := range p.Entries {
		keys = append(keys, k)
	}
	if _, err := buf.WriteVarInt(w, int32(len(keys))); err != nil {
		return err
	}
	for _, k := range keys {
		if err := buf.WriteString(w, k); err != nil {
			return err
		}
		tag := p.Entries[k]
		if err := buf.WriteBool(w, tag != nil); err != nil {
			return err
		}
		if tag != nil {
			if err := buf.WriteNamedTag(w, "", *tag); err != nil {
				return err
			}
		}
	}
	return nil
}

func decodeRegistryData(r io.Reader) (Packet, error) {
	id, err := buf.ReadString(r)
	if err != nil {
		return nil, err
	}
	n, _, err := buf.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	entries := make(map[string]*buf.Tag, n)
	for i := int32(0); i < n; i++ {
		key, err := buf.ReadString(r)
		if err != nil {
			return nil, err
		}
		hasData, err := buf.ReadBool(r)
		if err != nil {
			return nil, err
		}
		if hasData {
			_, tag, err := buf.ReadNamedTag(r)
			if err != nil {
				return nil, err
			}
			entries[key] = &tag
		} else {
			entries[key] = nil
		}
	}
	return &RegistryData{RegistryID: id, Entries: entries}, nil
}

// FinishConfiguration (clientbound, empty body) tells the client the
// server is done sending registries/resource packs.
type FinishConfiguration struct{}

func (p *FinishConfiguration) Encode(w io.Writer) error { return nil }

func decodeFinishConfiguration(r io.Reader) (Packet, error) { return &FinishConfiguration{}, nil }

// FinishConfigurationAck (serverbound, empty body) acks and transitions
// to the Game phase.
type FinishConfigurationAck struct{}

func (p *FinishConfigurationAck) Encode(w io.Writer) error { return nil }

func decodeFinishConfigurationAck(r io.Reader) (Packet, error) {
	return &FinishConfigurationAck{}, nil
}

// KeepAliveConfiguration round-trips a nonce to keep the connection
// alive while it idles in Configuration.
type KeepAliveConfiguration struct{ ID int64 }

func (p *KeepAliveConfiguration) Encode(w io.Writer) error { return buf.WriteI64(w, p.ID) }

func decodeKeepAliveConfiguration(r io.Reader) (Packet, error) {
	v, err := buf.ReadI64(r)
	if err != nil {
		return nil, err
	}
	return &KeepAliveConfiguration{ID: v}, nil
}
