// tyrant-cli is a command line manager for a Tokyo Tyrant server,
// covering the day-to-day record operations and the administrative
// commands (stat, vanish, copy, replication).
//
// The server address comes from --host/--port flags or the TYRANT_HOST
// and TYRANT_PORT environment variables.
package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hiraku/tyrant"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tyrant-cli",
		Short:         "manage a Tokyo Tyrant server over its binary protocol",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("host", "localhost", "server host")
	flags.Int("port", 1978, "server port")
	flags.Duration("timeout", 10*time.Second, "exchange timeout")
	flags.Bool("verbose", false, "debug logging")

	viper.SetEnvPrefix("tyrant")
	viper.AutomaticEnv()
	for _, name := range []string{"host", "port", "timeout", "verbose"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			log.Fatal(err)
		}
	}

	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if viper.GetBool("verbose") {
			log.SetLevel(log.DebugLevel)
		}
	}

	root.AddCommand(
		putCmd("put", "store a record", tyrantPut),
		putCmd("putkeep", "store a record unless the key exists", tyrantPutKeep),
		putCmd("putcat", "append to a record", tyrantPutCat),
		getCmd(),
		removeCmd(),
		mgetCmd(),
		fwmkeysCmd(),
		addintCmd(),
		adddoubleCmd(),
		iterCmd(),
		statCmd(),
		rnumCmd(),
		sizeCmd(),
		simpleCmd("sync", "flush updates to the device", func(ctx context.Context, c *tyrant.Client) error {
			return c.Sync(ctx)
		}),
		simpleCmd("vanish", "remove all records", func(ctx context.Context, c *tyrant.Client) error {
			return c.Vanish(ctx)
		}),
		optimizeCmd(),
		copyCmd(),
		restoreCmd(),
		setmstCmd(),
		miscCmd(),
	)

	return root
}

// connect dials the configured server and runs fn against it.
func connect(cmd *cobra.Command, fn func(ctx context.Context, c *tyrant.Client) error) error {
	addr := fmt.Sprintf("%s:%d", viper.GetString("host"), viper.GetInt("port"))
	timeout := viper.GetDuration("timeout")

	log.Debugf("connecting to %s", addr)

	ctx := cmd.Context()
	client, err := tyrant.Dial(ctx, tyrant.Config{Addr: addr, Timeout: timeout})
	if err != nil {
		return fmt.Errorf("connect %s: %w", addr, err)
	}
	defer client.Close()

	return fn(ctx, client)
}

// value interprets an argument, preferring the fixed counter encoding for
// plain non-negative integers when --int is set.
func value(s string, asInt bool) tyrant.Value {
	if asInt {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return tyrant.Int(n)
		}
		log.Warnf("%q is not an integer, sending as bytes", s)
	}
	return tyrant.String(s)
}

type putFunc func(ctx context.Context, c *tyrant.Client, key []byte, v tyrant.Value) error

func tyrantPut(ctx context.Context, c *tyrant.Client, key []byte, v tyrant.Value) error {
	return c.Put(ctx, key, v)
}

func tyrantPutKeep(ctx context.Context, c *tyrant.Client, key []byte, v tyrant.Value) error {
	return c.PutKeep(ctx, key, v)
}

func tyrantPutCat(ctx context.Context, c *tyrant.Client, key []byte, v tyrant.Value) error {
	return c.PutCat(ctx, key, v)
}

func putCmd(use, short string, put putFunc) *cobra.Command {
	var asInt bool
	cmd := &cobra.Command{
		Use:   use + " <key> <value>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return connect(cmd, func(ctx context.Context, c *tyrant.Client) error {
				return put(ctx, c, []byte(args[0]), value(args[1], asInt))
			})
		},
	}
	cmd.Flags().BoolVar(&asInt, "int", false, "encode the value as a counter")
	return cmd
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "print the value of a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return connect(cmd, func(ctx context.Context, c *tyrant.Client) error {
				v, err := c.Get(ctx, []byte(args[0]))
				if err != nil {
					return err
				}
				fmt.Println(string(v))
				return nil
			})
		},
	}
}

func removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "out <key>",
		Aliases: []string{"rm"},
		Short:   "remove a record",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return connect(cmd, func(ctx context.Context, c *tyrant.Client) error {
				return c.Remove(ctx, []byte(args[0]))
			})
		},
	}
}

func mgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mget <key>...",
		Short: "retrieve several records at once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return connect(cmd, func(ctx context.Context, c *tyrant.Client) error {
				keys := make([][]byte, len(args))
				for i, a := range args {
					keys[i] = []byte(a)
				}
				recs, err := c.MultiGet(ctx, keys)
				if err != nil {
					return err
				}
				for _, rec := range recs {
					fmt.Printf("%s\t%s\n", rec.Key, rec.Value)
				}
				log.Debugf("%d of %d keys found", len(recs), len(keys))
				return nil
			})
		},
	}
}

func fwmkeysCmd() *cobra.Command {
	var max int32
	cmd := &cobra.Command{
		Use:   "fwmkeys <prefix>",
		Short: "list keys matching a prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return connect(cmd, func(ctx context.Context, c *tyrant.Client) error {
				keys, err := c.ForwardMatchingKeys(ctx, []byte(args[0]), max)
				if err != nil {
					return err
				}
				for _, k := range keys {
					fmt.Println(string(k))
				}
				return nil
			})
		},
	}
	cmd.Flags().Int32Var(&max, "max", -1, "maximum number of keys (-1 for all)")
	return cmd
}

func addintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "addint <key> <delta>",
		Short: "add to an integer record and print the result",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := strconv.ParseInt(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid delta %q: %w", args[1], err)
			}
			return connect(cmd, func(ctx context.Context, c *tyrant.Client) error {
				sum, err := c.AddInt(ctx, []byte(args[0]), int32(delta))
				if err != nil {
					return err
				}
				fmt.Println(sum)
				return nil
			})
		},
	}
}

func adddoubleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adddouble <key> <number>",
		Short: "add to a real number record and print the result",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			num, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid number %q: %w", args[1], err)
			}
			return connect(cmd, func(ctx context.Context, c *tyrant.Client) error {
				sum, err := c.AddDouble(ctx, []byte(args[0]), num)
				if err != nil {
					return err
				}
				fmt.Println(sum)
				return nil
			})
		},
	}
}

func iterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "print every key, using the server-side iterator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return connect(cmd, func(ctx context.Context, c *tyrant.Client) error {
				if err := c.IterInit(ctx); err != nil {
					return err
				}
				for {
					key, err := c.IterNext(ctx)
					if err != nil {
						// The end of iteration is reported as a status error.
						log.Debugf("iterator finished: %v", err)
						return nil
					}
					fmt.Println(string(key))
				}
			})
		},
	}
}

func statCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stat",
		Short: "print the server status message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return connect(cmd, func(ctx context.Context, c *tyrant.Client) error {
				stats, err := c.Stat(ctx)
				if err != nil {
					return err
				}
				for name, v := range stats {
					fmt.Printf("%s\t%s\n", name, v)
				}
				return nil
			})
		},
	}
}

func rnumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rnum",
		Short: "print the number of records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return connect(cmd, func(ctx context.Context, c *tyrant.Client) error {
				n, err := c.RecordCount(ctx)
				if err != nil {
					return err
				}
				fmt.Println(n)
				return nil
			})
		},
	}
}

func sizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "size",
		Short: "print the size of the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return connect(cmd, func(ctx context.Context, c *tyrant.Client) error {
				n, err := c.Size(ctx)
				if err != nil {
					return err
				}
				fmt.Println(n)
				return nil
			})
		},
	}
}

func simpleCmd(use, short string, fn func(ctx context.Context, c *tyrant.Client) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return connect(cmd, fn)
		},
	}
}

func optimizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "optimize [params]",
		Short: "optimize the database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := ""
			if len(args) == 1 {
				params = args[0]
			}
			return connect(cmd, func(ctx context.Context, c *tyrant.Client) error {
				return c.Optimize(ctx, params)
			})
		},
	}
}

func copyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <path>",
		Short: "copy the database file on the server host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return connect(cmd, func(ctx context.Context, c *tyrant.Client) error {
				return c.Copy(ctx, args[0])
			})
		},
	}
}

func restoreCmd() *cobra.Command {
	var since string
	cmd := &cobra.Command{
		Use:   "restore <path>",
		Short: "restore the database from the update log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts := time.Unix(0, 0)
			if since != "" {
				parsed, err := time.Parse(time.RFC3339, since)
				if err != nil {
					return fmt.Errorf("invalid --since %q: %w", since, err)
				}
				ts = parsed
			}
			return connect(cmd, func(ctx context.Context, c *tyrant.Client) error {
				return c.Restore(ctx, args[0], ts)
			})
		},
	}
	cmd.Flags().StringVar(&since, "since", "", "replay updates from this RFC 3339 time")
	return cmd
}

func setmstCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setmst <host> <port>",
		Short: "set the replication master",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			port, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid port %q: %w", args[1], err)
			}
			return connect(cmd, func(ctx context.Context, c *tyrant.Client) error {
				return c.SetMaster(ctx, args[0], port)
			})
		},
	}
}

func miscCmd() *cobra.Command {
	var noUpdateLog bool
	cmd := &cobra.Command{
		Use:   "misc <name> [key value]...",
		Short: "call a versatile server function",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return fmt.Errorf("requires a function name")
			}
			if (len(args)-1)%2 != 0 {
				return fmt.Errorf("arguments must be key value pairs")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var pairs []tyrant.KV
			for i := 1; i < len(args); i += 2 {
				pairs = append(pairs, tyrant.KV{
					Key:   []byte(args[i]),
					Value: tyrant.String(args[i+1]),
				})
			}
			return connect(cmd, func(ctx context.Context, c *tyrant.Client) error {
				var (
					results [][]byte
					err     error
				)
				if noUpdateLog {
					results, err = c.MiscNoUpdate(ctx, args[0], pairs)
				} else {
					results, err = c.Misc(ctx, args[0], pairs)
				}
				if err != nil {
					return err
				}
				for _, res := range results {
					fmt.Println(string(res))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&noUpdateLog, "no-ulog", false, "omit the update log")
	return cmd
}
