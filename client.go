// This file is part of the library "pulsenative".
// Please see the LICENSE file for copyright information.

package pulsenative

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/user"
	"path"

	"github.com/charmbracelet/log"
)

// ProtocolVersion is the baseline protocol version this client
// proposes during authentication.
const ProtocolVersion uint32 = 8

// DefaultSink targets whatever sink the server considers its default.
const DefaultSink = "@DEFAULT_SINK@"

const protocolVersionMask = 0x0000FFFF

// Client is an authenticated connection to the sound server.
type Client struct {
	broker      *Broker
	log         *log.Logger
	version     uint32 // negotiated protocol version
	defaultSink string
}

type options struct {
	socketPath      string
	cookiePath      string
	applicationName string
	defaultSink     string
	version         uint32
	queueSize       int
	logger          *log.Logger
}

// Option configures Connect.
type Option func(*options)

// WithSocketPath connects to the given socket instead of running the
// discovery chain.
func WithSocketPath(p string) Option {
	return func(o *options) { o.socketPath = p }
}

// WithCookiePath reads the authentication cookie from the given file.
func WithCookiePath(p string) Option {
	return func(o *options) { o.cookiePath = p }
}

// WithApplicationName sets the application.name property announced to
// the server.
func WithApplicationName(name string) Option {
	return func(o *options) { o.applicationName = name }
}

// WithDefaultSink makes new playback streams target the named sink
// instead of the server default.
func WithDefaultSink(name string) Option {
	return func(o *options) { o.defaultSink = name }
}

// WithProtocolVersion proposes a protocol version above the baseline.
func WithProtocolVersion(v uint32) Option {
	return func(o *options) { o.version = v }
}

// WithQueueSize bounds the outbound frame queue.
func WithQueueSize(n int) Option {
	return func(o *options) { o.queueSize = n }
}

// WithLogger routes the client's and broker's records to l.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{
		version:   ProtocolVersion,
		queueSize: DefaultQueueSize,
		logger:    defaultLogger,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Connect dials the server socket, authenticates and announces the
// client name. Socket and cookie locations come from the options, the
// optional client.toml, the environment and the usual runtime-dir
// fallbacks, in that order.
func Connect(ctx context.Context, opts ...Option) (*Client, error) {
	o := buildOptions(opts)

	cfg, err := readFileConfig()
	if err != nil {
		o.logger.Warn("ignoring unreadable config file", "err", err)
	} else if cfg != nil {
		if o.socketPath == "" {
			o.socketPath = cfg.Socket
		}
		if o.cookiePath == "" {
			o.cookiePath = cfg.Cookie
		}
		if o.applicationName == "" {
			o.applicationName = cfg.ApplicationName
		}
		if o.defaultSink == "" {
			o.defaultSink = cfg.DefaultSink
		}
	}

	sock, err := findSocket(o.socketPath)
	if err != nil {
		return nil, err
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", sock)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", sock, err)
	}

	c, err := connectTransport(ctx, conn, o)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

// connectTransport runs the handshake over an established connection.
func connectTransport(ctx context.Context, conn net.Conn, o options) (*Client, error) {
	cookie, err := findCookie(o.cookiePath)
	if err != nil {
		// Servers with cookie checking disabled accept an empty
		// cookie, so a missing file only downgrades the attempt.
		o.logger.Debug("no authentication cookie", "err", err)
		cookie = nil
	}

	c := &Client{
		broker: StartBroker(conn,
			WithBrokerQueueSize(o.queueSize),
			WithBrokerLogger(o.logger)),
		log:         o.logger,
		defaultSink: o.defaultSink,
	}

	var auth AuthReply
	if err := c.roundTrip(ctx, Auth{ProtocolVersion: o.version, Cookie: cookie}, &auth); err != nil {
		c.broker.Close()
		return nil, fmt.Errorf("auth: %w", err)
	}
	server := auth.ProtocolVersion & protocolVersionMask
	c.version = o.version
	if server < c.version {
		c.version = server
	}
	c.log.Debug("authenticated", "proposed", o.version, "server", server, "negotiated", c.version)

	var nameReply SetClientNameReply
	if err := c.roundTrip(ctx, SetClientName{Props: clientProps(o.applicationName)}, &nameReply); err != nil {
		// Not fatal: the connection is authenticated and usable.
		c.log.Warn("set client name failed", "err", err)
	}

	return c, nil
}

// clientProps builds the default client property list the server is
// told about.
func clientProps(appName string) PropList {
	if appName == "" {
		appName = path.Base(os.Args[0])
	}
	props := map[string]string{
		"application.name":           appName,
		"application.process.id":     fmt.Sprintf("%d", os.Getpid()),
		"application.process.binary": os.Args[0],
	}
	if current, err := user.Current(); err == nil {
		props["application.process.user"] = current.Username
	}
	if hostname, err := os.Hostname(); err == nil {
		props["application.process.host"] = hostname
	}
	return PropListString(props)
}

// roundTrip pushes a typed request and parses the typed reply,
// logging any trailing fields a newer server may have appended.
func (c *Client) roundTrip(ctx context.Context, req request, rep reply) error {
	body := NewTagStruct()
	req.put(body)
	p, err := c.broker.SendCommand(req.commandKind(), body)
	if err != nil {
		return err
	}
	ts, err := p.Wait(ctx)
	if err != nil {
		return err
	}
	if err := rep.pop(ts); err != nil {
		return err
	}
	if !ts.IsEmpty() {
		c.log.Warn("reply carries trailing fields", "command", req.commandKind(), "remaining", ts.Len())
	}
	return nil
}

// ProtocolVersion returns the negotiated protocol version.
func (c *Client) ProtocolVersion() uint32 {
	return c.version
}

// ServerInfo queries the server's self-description.
func (c *Client) ServerInfo(ctx context.Context) (*ServerInfo, error) {
	var info ServerInfo
	if err := c.roundTrip(ctx, GetServerInfo{}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// StreamOption configures NewPlaybackStream.
type StreamOption func(*CreatePlaybackStream)

// WithSink targets a sink by name instead of the server default.
func WithSink(name string) StreamOption {
	return func(c *CreatePlaybackStream) { c.SinkName = name }
}

// WithCorked creates the stream paused.
func WithCorked() StreamOption {
	return func(c *CreatePlaybackStream) { c.Corked = true }
}

// WithSyncID groups the stream with others sharing the same id. The
// value is opaque to this client.
func WithSyncID(id uint32) StreamOption {
	return func(c *CreatePlaybackStream) { c.SyncID = id }
}

// WithBufferAttr overrides the server-chosen buffer sizes. Pass
// InvalidIndex for any value the server should keep choosing.
func WithBufferAttr(maxLength, tLength, prebuf, minReq uint32) StreamOption {
	return func(c *CreatePlaybackStream) {
		c.MaxLength = maxLength
		c.TLength = tLength
		c.Prebuf = prebuf
		c.MinReq = minReq
	}
}

// WithVolume sets the stream's initial per-channel volume.
func WithVolume(v ChannelVolume) StreamOption {
	return func(c *CreatePlaybackStream) { c.Volume = v }
}

// NewPlaybackStream creates a playback stream on the default sink (or
// the one selected via WithSink) and returns a handle for writing
// audio data to it.
func (c *Client) NewPlaybackStream(ctx context.Context, name string, spec SampleSpec, channelMap ChannelMap, opts ...StreamOption) (*PlaybackStream, error) {
	sink := c.defaultSink
	if sink == "" {
		sink = DefaultSink
	}
	req := CreatePlaybackStream{
		Name:       name,
		SampleSpec: spec,
		ChannelMap: channelMap,
		SinkIndex:  InvalidIndex,
		SinkName:   sink,
		MaxLength:  InvalidIndex,
		TLength:    InvalidIndex,
		Prebuf:     InvalidIndex,
		MinReq:     InvalidIndex,
		Volume:     FlatVolume(uint8(len(channelMap)), VolumeNormal),
	}
	for _, opt := range opts {
		opt(&req)
	}
	var rep CreatePlaybackStreamReply
	if err := c.roundTrip(ctx, req, &rep); err != nil {
		return nil, err
	}
	c.log.Debug("playback stream created",
		"index", rep.Index, "sink_input", rep.SinkInput, "missing", rep.Missing)
	return &PlaybackStream{
		index:     rep.Index,
		sinkInput: rep.SinkInput,
		missing:   rep.Missing,
		broker:    c.broker,
	}, nil
}

// PlaySample plays a preloaded sample on the named sink; an empty
// name addresses the server's default sink.
func (c *Client) PlaySample(ctx context.Context, name, sink string, volume Volume) error {
	req := PlaySample{
		SinkIndex: InvalidIndex,
		SinkName:  sink,
		Volume:    volume,
		Name:      name,
	}
	var rep PlaySampleReply
	return c.roundTrip(ctx, req, &rep)
}

// Close shuts down the connection. Every in-flight request fails with
// *ConnectionClosedError.
func (c *Client) Close() error {
	return c.broker.Close()
}
