// ABOUTME: Remote console client for a running XJGE audio host
// ABOUTME: Finds the host via mDNS or an address and runs console commands on it
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/XJGE/XJGE-legacy-sub000/internal/client"
	"github.com/XJGE/XJGE-legacy-sub000/internal/discovery"
	"github.com/XJGE/XJGE-legacy-sub000/internal/version"
	"github.com/spf13/cobra"
)

type options struct {
	server  string
	name    string
	timeout time.Duration
	verbose bool
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:     "audioctl",
		Short:   "Remote console for the XJGE audio host",
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !opts.verbose {
				log.SetOutput(io.Discard)
			}
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.server, "server", "s", "", "Console address host:port (default: discover via mDNS)")
	root.PersistentFlags().StringVar(&opts.name, "name", "audioctl", "Client name shown to the host")
	root.PersistentFlags().DurationVarP(&opts.timeout, "timeout", "t", 5*time.Second, "Discovery and command timeout")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log connection details")

	root.AddCommand(
		execCmd(opts),
		statusCmd(opts),
		shellCmd(opts),
		discoverCmd(opts),
	)
	return root
}

func execCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <command> [args...]",
		Short: "Run one console command",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := connect(opts)
			if err != nil {
				return err
			}
			defer c.Close()
			return run(cmd.OutOrStdout(), c, strings.Join(args, " "), opts.timeout)
		},
	}
}

func statusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the audio status as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := connect(opts)
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
			defer cancel()
			status, err := c.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get status: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(status)
		},
	}
}

func shellCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Read console commands from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := connect(opts)
			if err != nil {
				return err
			}
			defer c.Close()

			out := cmd.OutOrStdout()
			scanner := bufio.NewScanner(cmd.InOrStdin())
			fmt.Fprint(out, "> ")
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "quit" || line == "exit" {
					return nil
				}
				if line != "" {
					if err := run(out, c, line, opts.timeout); err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
					}
				}
				if !c.IsConnected() {
					return fmt.Errorf("connection lost")
				}
				fmt.Fprint(out, "> ")
			}
			return scanner.Err()
		},
	}
}

func discoverCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "List consoles advertised on the local network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			disc := discovery.NewManager(discovery.Config{})
			defer disc.Stop()
			disc.Browse()

			seen := make(map[string]bool)
			deadline := time.After(opts.timeout)
			for {
				select {
				case s := <-disc.Servers():
					if seen[s.Addr()] {
						continue
					}
					seen[s.Addr()] = true
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s%s\n", s.Name, s.Addr(), s.Path)
				case <-deadline:
					if len(seen) == 0 {
						return fmt.Errorf("no consoles found after %v", opts.timeout)
					}
					return nil
				}
			}
		},
	}
}

// connect dials the configured server, discovering one if none was given
func connect(opts *options) (*client.Client, error) {
	addr, path := opts.server, ""
	if addr == "" {
		disc := discovery.NewManager(discovery.Config{})
		disc.Browse()
		select {
		case s := <-disc.Servers():
			addr, path = s.Addr(), s.Path
		case <-time.After(opts.timeout):
			disc.Stop()
			return nil, fmt.Errorf("no console found after %v", opts.timeout)
		}
		disc.Stop()
	}

	c := client.NewClient(client.Config{ServerAddr: addr, Path: path, Name: opts.name})
	if err := c.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return c, nil
}

// run executes one line and prints its output
func run(out io.Writer, c *client.Client, line string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	res, err := c.Execute(ctx, line)
	if err != nil {
		return err
	}
	if res != "" {
		fmt.Fprintln(out, res)
	}
	return nil
}
