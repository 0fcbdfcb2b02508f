// This file is part of the library "pulsenative".
// Please see the LICENSE file for copyright information.

// pulseinfo prints the sound server's self-description.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/noisetorch/pulsenative"
)

func main() {
	var (
		socket  = pflag.String("socket", "", "server socket path (default: discovered)")
		verbose = pflag.BoolP("verbose", "v", false, "log protocol activity to stderr")
	)
	pflag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "pulseinfo"})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	opts := []pulsenative.Option{pulsenative.WithLogger(logger)}
	if *socket != "" {
		opts = append(opts, pulsenative.WithSocketPath(*socket))
	}

	ctx := context.Background()
	client, err := pulsenative.Connect(ctx, opts...)
	if err != nil {
		logger.Fatal(err)
	}
	defer client.Close()

	info, err := client.ServerInfo(ctx)
	if err != nil {
		logger.Fatal(err)
	}

	fmt.Printf("Server:          %s %s\n", info.PackageName, info.PackageVersion)
	fmt.Printf("User:            %s@%s\n", info.UserName, info.HostName)
	fmt.Printf("Sample spec:     %s %dch %dHz\n", info.SampleSpec.Format, info.SampleSpec.Channels, info.SampleSpec.Rate)
	fmt.Printf("Default sink:    %s\n", info.DefaultSink)
	fmt.Printf("Default source:  %s\n", info.DefaultSource)
	fmt.Printf("Protocol:        %d\n", client.ProtocolVersion())
}
