// This file is part of the library "pulsenative".
// Please see the LICENSE file for copyright information.

// pulseplay streams a raw PCM file to the sound server.
//
//	pulseplay --rate 44100 --channels 2 --format s16le song.pcm
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/noisetorch/pulsenative"
)

func main() {
	var (
		rate     = pflag.Uint32("rate", 44100, "sample rate in Hz")
		channels = pflag.Uint8("channels", 2, "channel count")
		format   = pflag.String("format", "s16le", "sample format (u8, s16le, s16be, float32le, ...)")
		sink     = pflag.String("sink", "", "sink name (default: the server's default sink)")
		name     = pflag.String("name", "pulseplay", "stream name shown in mixers")
		verbose  = pflag.BoolP("verbose", "v", false, "log protocol activity to stderr")
	)
	pflag.Parse()

	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: pulseplay [flags] <file.pcm>")
		pflag.PrintDefaults()
		os.Exit(2)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "pulseplay"})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if err := run(pflag.Arg(0), *rate, *channels, *format, *sink, *name, logger); err != nil {
		logger.Fatal(err)
	}
}

func run(file string, rate uint32, channels uint8, format, sink, name string, logger *log.Logger) error {
	sampleFormat, err := pulsenative.ParseSampleFormat(format)
	if err != nil {
		return err
	}
	spec := pulsenative.SampleSpec{
		Format:   sampleFormat,
		Channels: channels,
		Rate:     rate,
	}
	if spec.BytesPerSecond() == 0 {
		return fmt.Errorf("unplayable sample spec: %s %dch %dHz", format, channels, rate)
	}

	audio, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := pulsenative.Connect(ctx, pulsenative.WithLogger(logger))
	if err != nil {
		return err
	}
	defer client.Close()

	var opts []pulsenative.StreamOption
	if sink != "" {
		opts = append(opts, pulsenative.WithSink(sink))
	}
	stream, err := client.NewPlaybackStream(ctx, name, spec, pulsenative.DefaultMap(channels), opts...)
	if err != nil {
		return err
	}
	logger.Info("playing", "file", file, "bytes", len(audio), "stream", stream.Index())

	// Feed one second of audio per tick; the server buffers roughly
	// that far ahead and the bounded queue pushes back if it falls
	// behind.
	perSecond := spec.BytesPerSecond()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for off := 0; off < len(audio); off += perSecond {
		end := off + perSecond
		if end > len(audio) {
			end = len(audio)
		}
		if _, err := stream.Write(audio[off:end]); err != nil {
			return err
		}
		<-ticker.C
	}
	// One extra tick drains the last buffered second before the
	// stream is torn down.
	<-ticker.C
	return nil
}
