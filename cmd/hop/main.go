package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/yourusername/displayhop/internal/agent"
	"github.com/yourusername/displayhop/internal/client"
	"github.com/yourusername/displayhop/internal/config"
	"github.com/yourusername/displayhop/internal/crossing"
	"github.com/yourusername/displayhop/internal/cursor"
	"github.com/yourusername/displayhop/internal/logging"
	"github.com/yourusername/displayhop/internal/output"
	"github.com/yourusername/displayhop/internal/topology"
	"github.com/yourusername/displayhop/internal/types"
)

var (
	configPath  string
	backendName string
	socketPath  string
	timeout     time.Duration
	jsonOutput  bool
	noColor     bool
	debugMode   bool

	// Color functions
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	keyColor     = color.New(color.FgYellow)
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "hop",
	Short: "Move the mouse cursor across multiple displays",
	Long: `Hop moves the mouse cursor to any position on any display of a
multi-display setup, crossing one shared boundary at a time.

Backends: the built-in simulator (sim), an agent over a Unix socket (remote),
or the local X server through RandR and XTEST (x11).`,
	Version:      "0.1.0",
	SilenceUsage: true,
}

// pingCmd tests agent connectivity
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Test connection to a hop agent",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			printError(err.Error())
			return err
		}

		c := client.NewClient(cfg.Socket, timeout)
		defer c.Close()

		start := time.Now()
		result, err := c.Ping(cmd.Context())
		elapsed := time.Since(start)
		if err != nil {
			printError(fmt.Sprintf("Ping failed: %v", err))
			return err
		}

		if jsonOutput {
			return printJSON(result)
		}

		successColor.Println("✓ Pong received")
		fmt.Printf("Response time: %v\n", elapsed)
		if up, ok := result["uptimeSeconds"].(float64); ok {
			fmt.Printf("Agent uptime: %v\n", time.Duration(up*float64(time.Second)).Round(time.Second))
		}
		if buttons, ok := result["buttons"].(bool); ok {
			fmt.Printf("Buttons: %v\n", buttons)
		}
		return nil
	},
}

// displaysCmd lists the topology's displays
var displaysCmd = &cobra.Command{
	Use:   "displays",
	Short: "List all displays",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(s *session) error {
			id, _, err := s.dev.CursorDisplayID(cmd.Context())
			if err != nil {
				logging.Warn().Err(err).Msg("cursor display unavailable")
			}

			if jsonOutput {
				return printJSON(s.graph.Displays())
			}
			output.PrintDisplaysTable(os.Stdout, s.graph, id)
			fmt.Printf("\nTotal: %d displays\n", s.graph.Len())
			return nil
		})
	},
}

// edgesCmd lists adjacency
var edgesCmd = &cobra.Command{
	Use:   "edges",
	Short: "List adjacency between displays",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(s *session) error {
			edges := s.graph.Edges()
			if jsonOutput {
				return printJSON(edges)
			}
			if len(edges) == 0 {
				fmt.Println("No edges found")
				return nil
			}
			output.PrintEdgesTable(os.Stdout, s.graph)
			return nil
		})
	},
}

// pathCmd shows the hop sequence between two displays
var pathCmd = &cobra.Command{
	Use:   "path <from> <to>",
	Short: "Show the shortest hop sequence between two displays",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseDisplayIDs(args)
		if err != nil {
			return err
		}
		from, to := ids[0], ids[1]

		return withSession(cmd.Context(), func(s *session) error {
			path, err := topology.FindPath(from, to, s.graph)
			if err != nil {
				printError(err.Error())
				return err
			}
			plans, err := cursor.PlanPath(s.graph, from, path, s.mover().Options().CrossOffsetDp)
			if err != nil {
				printError(err.Error())
				return err
			}

			if jsonOutput {
				return printJSON(map[string]interface{}{
					"path":  path,
					"plans": plans,
				})
			}

			keyColor.Print("Path: ")
			fmt.Println(formatPath(from, path))
			if len(plans) == 0 {
				infoColor.Println("Already on the target display")
				return nil
			}
			output.PrintPlanTable(os.Stdout, plans)
			return nil
		})
	},
}

// crossingCmd shows the crossing geometry between two adjacent displays
var crossingCmd = &cobra.Command{
	Use:   "crossing <from> <to>",
	Short: "Show where the cursor crosses between two adjacent displays",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseDisplayIDs(args)
		if err != nil {
			return err
		}

		return withSession(cmd.Context(), func(s *session) error {
			edge, ok := s.graph.EdgeBetween(ids[0], ids[1])
			if !ok {
				err := fmt.Errorf("display %d -> %d: %w", ids[0], ids[1], crossing.ErrNotAdjacent)
				printError(err.Error())
				return err
			}
			from, _ := s.graph.Display(edge.From)
			to, _ := s.graph.Display(edge.To)

			plan, err := cursor.PlanHop(from, to, edge.Side, s.mover().Options().CrossOffsetDp)
			if err != nil {
				printError(err.Error())
				return err
			}

			if jsonOutput {
				return printJSON(plan)
			}

			keyColor.Print("Side: ")
			fmt.Println(plan.Side)
			keyColor.Print("Target (dp): ")
			fmt.Printf("%.1f, %.1f\n", plan.Detail.Target.X, plan.Detail.Target.Y)
			keyColor.Print("Nudge (dp): ")
			fmt.Printf("%+.1f, %+.1f\n", plan.Detail.Nudge.DX, plan.Detail.Nudge.DY)
			keyColor.Print("Target (px, local): ")
			fmt.Printf("%.1f, %.1f\n", plan.EdgePx.X, plan.EdgePx.Y)
			keyColor.Print("Nudge (px): ")
			fmt.Printf("%+.1f, %+.1f\n", plan.Nudge.DX, plan.Nudge.DY)
			return nil
		})
	},
}

// Visualization flags
var (
	showASCII     bool
	showUnicode   bool
	showNoDensity bool
	showWidth     int
	showHeight    int
	showPathTo    int
)

// showCmd draws the topology
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Draw the display layout with the cursor",
	Long: `Draws every display at its position in the shared coordinate space.
The cursor is marked with @ (● in Unicode mode). With --to, the boundary
crossings on the way to that display are marked with x (×).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(s *session) error {
			ctx := cmd.Context()
			var marks output.Marks

			id, found, err := s.dev.CursorDisplayID(ctx)
			if err != nil {
				return err
			}
			if found {
				if p, ok, err := s.dev.CursorPosition(ctx, id); err == nil && ok {
					d, _ := s.graph.Display(id)
					global := d.ToGlobal(p)
					marks.Cursor = &global
				}
			}

			if showPathTo != 0 {
				if !found {
					printError(cursor.ErrNoCursorFound.Error())
					return cursor.ErrNoCursorFound
				}
				path, err := topology.FindPath(id, types.DisplayID(showPathTo), s.graph)
				if err != nil {
					printError(err.Error())
					return err
				}
				plans, err := cursor.PlanPath(s.graph, id, path, s.mover().Options().CrossOffsetDp)
				if err != nil {
					return err
				}
				for _, p := range plans {
					marks.Crossings = append(marks.Crossings, p.Detail.Target)
				}
			}

			output.PrintVisualization(os.Stdout, s.graph, marks, getVisualizationOptions())
			return nil
		})
	},
}

// moveCmd moves the cursor to a position on a display
var moveCmd = &cobra.Command{
	Use:   "move <display> <x> <y>",
	Short: "Move the cursor to a pixel position on a display",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, x, y, err := parseTarget(args)
		if err != nil {
			return err
		}
		return runMover(cmd.Context(), "move", func(ctx context.Context, m *cursor.Mover) error {
			return m.MoveTo(ctx, id, x, y)
		})
	},
}

// deltaCmd sends one relative move
var deltaCmd = &cobra.Command{
	Use:   "delta <dx> <dy>",
	Short: "Send a single relative cursor move",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dx, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid dx: %w", err)
		}
		dy, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid dy: %w", err)
		}
		return runMover(cmd.Context(), "delta", func(ctx context.Context, m *cursor.Mover) error {
			return m.MoveByDelta(ctx, dx, dy)
		})
	},
}

// centerCmd centers the cursor on a display
var centerCmd = &cobra.Command{
	Use:   "center [display]",
	Short: "Center the cursor on a display (primary when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runMover(cmd.Context(), "reset", func(ctx context.Context, m *cursor.Mover) error {
				return m.Reset(ctx)
			})
		}
		ids, err := parseDisplayIDs(args)
		if err != nil {
			return err
		}
		return runMover(cmd.Context(), "center", func(ctx context.Context, m *cursor.Mover) error {
			return m.Center(ctx, ids[0])
		})
	},
}

// dragCmd drags with the primary button held
var dragCmd = &cobra.Command{
	Use:   "drag <display> <x> <y>",
	Short: "Press the primary button, move, and release",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, x, y, err := parseTarget(args)
		if err != nil {
			return err
		}
		return runMover(cmd.Context(), "drag", func(ctx context.Context, m *cursor.Mover) error {
			return m.Drag(ctx, id, x, y)
		})
	},
}

// serveCmd exposes the configured device over the agent socket
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the configured device to remote hop clients",
	Long: `Runs an agent on the Unix socket that answers cursor, input and topology
requests from "hop --backend remote". Stops on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return withSession(ctx, func(s *session) error {
			if s.cfg.BackendName() == config.BackendRemote {
				err := fmt.Errorf("cannot serve the remote backend")
				printError(err.Error())
				return err
			}

			srv := agent.NewServer(s.cfg.Socket, s.dev)
			infoColor.Printf("Serving %s backend on %s\n", s.cfg.BackendName(), srv.SocketPath())
			if err := srv.Serve(ctx); err != nil {
				printError(err.Error())
				return err
			}
			return nil
		})
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/displayhop/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "", "Backend: sim, remote or x11 (overrides config)")
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", "", "Agent Unix socket path (overrides config)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", client.DefaultTimeout, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(displaysCmd)
	rootCmd.AddCommand(edgesCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(crossingCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(deltaCmd)
	rootCmd.AddCommand(centerCmd)
	rootCmd.AddCommand(dragCmd)
	rootCmd.AddCommand(serveCmd)

	showCmd.Flags().BoolVar(&showASCII, "ascii", false, "Force ASCII box drawing")
	showCmd.Flags().BoolVar(&showUnicode, "unicode", false, "Force Unicode box drawing")
	showCmd.Flags().BoolVar(&showNoDensity, "no-density", false, "Hide size and density labels")
	showCmd.Flags().IntVar(&showWidth, "width", 0, "Maximum width in characters")
	showCmd.Flags().IntVar(&showHeight, "height", 0, "Maximum height in characters")
	showCmd.Flags().IntVar(&showPathTo, "to", 0, "Mark the crossings from the cursor to this display")

	// Disable color if requested, enable debug logging if requested
	cobra.OnInitialize(func() {
		if noColor {
			color.NoColor = true
		}
		if debugMode {
			logging.SetDebug(true)
		}
	})
}

func main() {
	// Initialize logging
	if err := logging.Init(""); err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
	}
	defer logging.Close()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// Helper functions

// runMover opens a session, runs op with a mover bounded by --timeout and
// reports where the cursor ended up
func runMover(ctx context.Context, name string, op func(context.Context, *cursor.Mover) error) error {
	return withSession(ctx, func(s *session) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		m := s.mover()
		logging.Info().Str("cmd", name).Str("backend", s.cfg.BackendName()).Msg("starting")
		if err := op(ctx, m); err != nil {
			logging.Error().Str("cmd", name).Err(err).Msg("failed")
			printError(err.Error())
			return err
		}

		st, err := m.Refresh(ctx)
		if err != nil {
			printError(fmt.Sprintf("Failed to read cursor: %v", err))
			return err
		}
		logging.Info().Str("cmd", name).Int("display", int(st.DisplayID)).
			Int("x", st.Position.X).Int("y", st.Position.Y).Msg("done")

		if jsonOutput {
			return printJSON(st)
		}
		successColor.Print("✓ ")
		fmt.Printf("Cursor on display %d at (%d, %d)\n", st.DisplayID, st.Position.X, st.Position.Y)
		return nil
	})
}

// formatPath renders a path as "1 -right-> 2 -top-> 4"
func formatPath(start types.DisplayID, path topology.Path) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d", start)
	for _, hop := range path {
		fmt.Fprintf(&sb, " -%s-> %d", hop.Side, hop.DisplayID)
	}
	return sb.String()
}

func parseDisplayIDs(args []string) ([]types.DisplayID, error) {
	ids := make([]types.DisplayID, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			printError(fmt.Sprintf("Invalid display id %q", arg))
			return nil, fmt.Errorf("invalid display id: %w", err)
		}
		ids[i] = types.DisplayID(n)
	}
	return ids, nil
}

func parseTarget(args []string) (types.DisplayID, int, int, error) {
	ids, err := parseDisplayIDs(args[:1])
	if err != nil {
		return 0, 0, 0, err
	}
	x, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid x: %w", err)
	}
	y, err := strconv.Atoi(args[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid y: %w", err)
	}
	return ids[0], x, y, nil
}

func printJSON(data interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printError(msg string) {
	if noColor {
		fmt.Fprintln(os.Stderr, "Error:", msg)
	} else {
		errorColor.Fprint(os.Stderr, "✗ Error: ")
		fmt.Fprintln(os.Stderr, msg)
	}
}

// getVisualizationOptions builds options from flags
func getVisualizationOptions() output.VisualizationOptions {
	opts := output.DefaultVisualizationOptions()

	// Override with flags if set
	if showASCII {
		opts.UseUnicode = false
	}
	if showUnicode {
		opts.UseUnicode = true
	}
	if showNoDensity {
		opts.ShowDensity = false
	}
	if showWidth > 0 {
		opts.MaxWidth = showWidth
	}
	if showHeight > 0 {
		opts.MaxHeight = showHeight
	}
	return opts
}
