// This file is part of the library "pulsenative".
// Please see the LICENSE file for copyright information.

// Package pulsenative is a pure-Go (no libpulse) client for the
// PulseAudio native wire protocol over the local Unix socket.
//
// A Client authenticates with the server's cookie, issues command
// requests and opens playback streams onto which PCM audio can be
// pushed in real time:
//
//	client, err := pulsenative.Connect(ctx)
//	...
//	stream, err := client.NewPlaybackStream(ctx, "music",
//		pulsenative.SampleSpec{Format: pulsenative.SampleS16LE, Channels: 2, Rate: 44100},
//		pulsenative.StereoMap())
//	...
//	_, err = stream.Write(pcm)
//
// Requests are pipelined: any number of goroutines may issue commands
// concurrently, and replies are correlated by tag. The outbound queue
// is bounded; writers get ErrQueueFull back instead of blocking.
//
// Record streams, shared-memory transports and the subscribe/event
// fan-out are not implemented.
package pulsenative
