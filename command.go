// This file is part of the library "pulsenative".
// Please see the LICENSE file for copyright information.

package pulsenative

import "fmt"

// CommandKind names a request or event on the command channel. The
// ordinals must match the pa_command_t enum in
// pulsecore/native-common.h exactly; any divergence breaks interop.
type CommandKind uint32

const (
	CommandError CommandKind = iota
	CommandTimeout
	CommandReply

	CommandCreatePlaybackStream
	CommandDeletePlaybackStream
	CommandCreateRecordStream
	CommandDeleteRecordStream
	CommandExit
	CommandAuth
	CommandSetClientName
	CommandLookupSink
	CommandLookupSource
	CommandDrainPlaybackStream
	CommandStat
	CommandGetPlaybackLatency
	CommandCreateUploadStream
	CommandDeleteUploadStream
	CommandFinishUploadStream
	CommandPlaySample
	CommandRemoveSample

	CommandGetServerInfo
	CommandGetSinkInfo
	CommandGetSinkInfoList
	CommandGetSourceInfo
	CommandGetSourceInfoList
	CommandGetModuleInfo
	CommandGetModuleInfoList
	CommandGetClientInfo
	CommandGetClientInfoList
	CommandGetSinkInputInfo
	CommandGetSinkInputInfoList
	CommandGetSourceOutputInfo
	CommandGetSourceOutputInfoList
	CommandGetSampleInfo
	CommandGetSampleInfoList
	CommandSubscribe

	CommandSetSinkVolume
	CommandSetSinkInputVolume
	CommandSetSourceVolume

	CommandSetSinkMute
	CommandSetSourceMute

	CommandCorkPlaybackStream
	CommandFlushPlaybackStream
	CommandTriggerPlaybackStream

	CommandSetDefaultSink
	CommandSetDefaultSource

	CommandSetPlaybackStreamName
	CommandSetRecordStreamName

	CommandKillClient
	CommandKillSinkInput
	CommandKillSourceOutput

	CommandLoadModule
	CommandUnloadModule

	CommandAddAutoloadObsolete
	CommandRemoveAutoloadObsolete
	CommandGetAutoloadInfoObsolete
	CommandGetAutoloadInfoListObsolete

	CommandGetRecordLatency
	CommandCorkRecordStream
	CommandFlushRecordStream
	CommandPrebufPlaybackStream

	// Server to client.
	CommandRequest
	CommandOverflow
	CommandUnderflow
	CommandPlaybackStreamKilled
	CommandRecordStreamKilled
	CommandSubscribeEvent

	CommandMoveSinkInput
	CommandMoveSourceOutput

	CommandSetSinkInputMute

	CommandSuspendSink
	CommandSuspendSource

	CommandSetPlaybackStreamBufferAttr
	CommandSetRecordStreamBufferAttr

	CommandUpdatePlaybackStreamSampleRate
	CommandUpdateRecordStreamSampleRate

	// Server to client.
	CommandPlaybackStreamSuspended
	CommandRecordStreamSuspended
	CommandPlaybackStreamMoved
	CommandRecordStreamMoved

	CommandUpdateRecordStreamProplist
	CommandUpdatePlaybackStreamProplist
	CommandUpdateClientProplist
	CommandRemoveRecordStreamProplist
	CommandRemovePlaybackStreamProplist
	CommandRemoveClientProplist

	// Server to client.
	CommandStarted

	CommandExtension

	CommandGetCardInfo
	CommandGetCardInfoList
	CommandSetCardProfile

	CommandClientEvent
	CommandPlaybackStreamEvent
	CommandRecordStreamEvent

	// Server to client.
	CommandPlaybackBufferAttrChanged
	CommandRecordBufferAttrChanged

	CommandSetSinkPort
	CommandSetSourcePort

	CommandSetSourceOutputVolume
	CommandSetSourceOutputMute

	CommandSetPortLatencyOffset

	// Both directions.
	CommandEnableSrbChannel
	CommandDisableSrbChannel

	// Both directions.
	CommandRegisterMemfdShmid

	commandMax
)

var commandKindNames = map[CommandKind]string{
	CommandError:                       "Error",
	CommandTimeout:                     "Timeout",
	CommandReply:                       "Reply",
	CommandCreatePlaybackStream:        "CreatePlaybackStream",
	CommandDeletePlaybackStream:        "DeletePlaybackStream",
	CommandCreateRecordStream:          "CreateRecordStream",
	CommandDeleteRecordStream:          "DeleteRecordStream",
	CommandExit:                        "Exit",
	CommandAuth:                        "Auth",
	CommandSetClientName:               "SetClientName",
	CommandDrainPlaybackStream:         "DrainPlaybackStream",
	CommandGetPlaybackLatency:          "GetPlaybackLatency",
	CommandPlaySample:                  "PlaySample",
	CommandGetServerInfo:               "GetServerInfo",
	CommandSubscribe:                   "Subscribe",
	CommandCorkPlaybackStream:          "CorkPlaybackStream",
	CommandFlushPlaybackStream:         "FlushPlaybackStream",
	CommandTriggerPlaybackStream:       "TriggerPlaybackStream",
	CommandRequest:                     "Request",
	CommandOverflow:                    "Overflow",
	CommandUnderflow:                   "Underflow",
	CommandPlaybackStreamKilled:        "PlaybackStreamKilled",
	CommandRecordStreamKilled:          "RecordStreamKilled",
	CommandSubscribeEvent:              "SubscribeEvent",
	CommandPlaybackStreamSuspended:     "PlaybackStreamSuspended",
	CommandRecordStreamSuspended:       "RecordStreamSuspended",
	CommandPlaybackStreamMoved:         "PlaybackStreamMoved",
	CommandRecordStreamMoved:           "RecordStreamMoved",
	CommandStarted:                     "Started",
	CommandPlaybackStreamEvent:         "PlaybackStreamEvent",
	CommandRecordStreamEvent:           "RecordStreamEvent",
	CommandPlaybackBufferAttrChanged:   "PlaybackBufferAttrChanged",
	CommandRecordBufferAttrChanged:     "RecordBufferAttrChanged",
}

func (k CommandKind) String() string {
	if name, ok := commandKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("command %d", uint32(k))
}

func (k CommandKind) valid() bool {
	return k < commandMax
}

// isServerEvent reports whether the command is an unsolicited
// server-to-client notification (dropped with a debug log in this
// version; subscribe fan-out is not implemented).
func (k CommandKind) isServerEvent() bool {
	switch k {
	case CommandRequest, CommandOverflow, CommandUnderflow,
		CommandPlaybackStreamKilled, CommandRecordStreamKilled,
		CommandSubscribeEvent,
		CommandPlaybackStreamSuspended, CommandRecordStreamSuspended,
		CommandPlaybackStreamMoved, CommandRecordStreamMoved,
		CommandStarted,
		CommandClientEvent, CommandPlaybackStreamEvent, CommandRecordStreamEvent,
		CommandPlaybackBufferAttrChanged, CommandRecordBufferAttrChanged:
		return true
	}
	return false
}

// putCommandHeader prepends nothing — the header is simply the first
// two values of every command payload.
func putCommandHeader(t *TagStruct, kind CommandKind, tag uint32) {
	t.PutU32(uint32(kind))
	t.PutU32(tag)
}

func popCommandHeader(t *TagStruct) (CommandKind, uint32, error) {
	k, err := t.PopU32()
	if err != nil {
		return 0, 0, decodeErr("missing command field")
	}
	if !CommandKind(k).valid() {
		return 0, 0, &ProtocolError{Kind: ProtoUnknownCommand, Command: CommandKind(k)}
	}
	tag, err := t.PopU32()
	if err != nil {
		return 0, 0, decodeErr("missing tag field")
	}
	return CommandKind(k), tag, nil
}

// request is a client-to-server command payload.
type request interface {
	commandKind() CommandKind
	put(t *TagStruct)
}

// reply is a server-to-client command payload.
type reply interface {
	pop(t *TagStruct) error
}

// Auth proposes a protocol version and proves possession of the
// authentication cookie.
type Auth struct {
	ProtocolVersion uint32
	Cookie          []byte
}

func (Auth) commandKind() CommandKind { return CommandAuth }

func (a Auth) put(t *TagStruct) {
	t.PutU32(a.ProtocolVersion)
	t.PutArbitrary(a.Cookie)
}

// AuthReply carries the server's effective protocol version.
type AuthReply struct {
	ProtocolVersion uint32
}

func (r *AuthReply) pop(t *TagStruct) error {
	v, err := t.PopU32()
	if err != nil {
		return err
	}
	r.ProtocolVersion = v
	return nil
}

// SetClientName attaches client properties to the connection.
type SetClientName struct {
	Props PropList
}

func (SetClientName) commandKind() CommandKind { return CommandSetClientName }

func (c SetClientName) put(t *TagStruct) {
	props := c.Props
	if props == nil {
		props = PropList{}
	}
	t.PutPropList(props)
}

// SetClientNameReply is empty at the baseline protocol version; newer
// servers include the client index.
type SetClientNameReply struct {
	ClientIndex uint32
}

func (r *SetClientNameReply) pop(t *TagStruct) error {
	if t.IsEmpty() {
		r.ClientIndex = InvalidIndex
		return nil
	}
	v, err := t.PopU32()
	if err != nil {
		return err
	}
	r.ClientIndex = v
	return nil
}

// GetServerInfo requests the ServerInfo summary.
type GetServerInfo struct{}

func (GetServerInfo) commandKind() CommandKind { return CommandGetServerInfo }

func (GetServerInfo) put(*TagStruct) {}

// ServerInfo is the server's self-description.
type ServerInfo struct {
	PackageName    string
	PackageVersion string
	UserName       string
	HostName       string
	SampleSpec     SampleSpec
	DefaultSink    string
	DefaultSource  string
	Cookie         uint32
}

func (r *ServerInfo) pop(t *TagStruct) error {
	fields := []*string{&r.PackageName, &r.PackageVersion, &r.UserName, &r.HostName}
	for _, f := range fields {
		s, err := t.PopString()
		if err != nil {
			return err
		}
		*f = s.S
	}
	spec, err := t.PopSampleSpec()
	if err != nil {
		return err
	}
	r.SampleSpec = spec
	sink, err := t.PopString()
	if err != nil {
		return err
	}
	r.DefaultSink = sink.S
	source, err := t.PopString()
	if err != nil {
		return err
	}
	r.DefaultSource = source.S
	cookie, err := t.PopU32()
	if err != nil {
		return err
	}
	r.Cookie = cookie
	return nil
}

// CreatePlaybackStream asks the server to attach a new playback
// stream to a sink. Field order is the baseline (version 8) wire
// layout.
type CreatePlaybackStream struct {
	Name       string
	SampleSpec SampleSpec
	ChannelMap ChannelMap
	SinkIndex  uint32 // InvalidIndex targets SinkName instead
	SinkName   string // empty encodes as a null string
	MaxLength  uint32
	Corked     bool
	TLength    uint32
	Prebuf     uint32
	MinReq     uint32
	SyncID     uint32
	Volume     ChannelVolume
}

func (CreatePlaybackStream) commandKind() CommandKind { return CommandCreatePlaybackStream }

func (c CreatePlaybackStream) put(t *TagStruct) {
	t.PutString(c.Name)
	t.PutSampleSpec(c.SampleSpec)
	t.PutChannelMap(c.ChannelMap)
	t.PutU32(c.SinkIndex)
	if c.SinkName == "" {
		t.PutStringNull()
	} else {
		t.PutString(c.SinkName)
	}
	t.PutU32(c.MaxLength)
	t.PutBool(c.Corked)
	t.PutU32(c.TLength)
	t.PutU32(c.Prebuf)
	t.PutU32(c.MinReq)
	t.PutU32(c.SyncID)
	t.PutChannelVolume(c.Volume)
}

// CreatePlaybackStreamReply carries the server-assigned indices and
// the immediate buffer request.
type CreatePlaybackStreamReply struct {
	Index     uint32 // channel of the new stream's data frames
	SinkInput uint32
	Missing   uint32 // bytes the server wants right away
}

func (r *CreatePlaybackStreamReply) pop(t *TagStruct) error {
	fields := []*uint32{&r.Index, &r.SinkInput, &r.Missing}
	for _, f := range fields {
		v, err := t.PopU32()
		if err != nil {
			return err
		}
		*f = v
	}
	return nil
}

// PlaySample triggers a preloaded sample on a sink.
type PlaySample struct {
	SinkIndex uint32
	SinkName  string // empty encodes as a null string
	Volume    Volume
	Name      string
}

func (PlaySample) commandKind() CommandKind { return CommandPlaySample }

func (p PlaySample) put(t *TagStruct) {
	t.PutU32(p.SinkIndex)
	if p.SinkName == "" {
		t.PutStringNull()
	} else {
		t.PutString(p.SinkName)
	}
	t.PutU32(uint32(p.Volume))
	t.PutString(p.Name)
}

// PlaySampleReply is empty at the baseline protocol version.
type PlaySampleReply struct{}

func (*PlaySampleReply) pop(*TagStruct) error { return nil }

// popServerError extracts the error code from an Error command body.
func popServerError(t *TagStruct) error {
	code, err := t.PopU32()
	if err != nil {
		return err
	}
	return &ServerError{Kind: ErrorKind(code)}
}
