package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"golru/internal/cache"
	golrulog "golru/internal/log"
)

func (c *cli) newDemoCmd() *cobra.Command {
	var capacity int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through eviction and promotion on a small cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("capacity") {
				capacity = c.cfg.DefaultCapacity
			}
			return runDemo(cmd.OutOrStdout(), capacity)
		},
	}
	cmd.Flags().IntVar(&capacity, "capacity", 2, "cache capacity; falls back to config default_capacity when unset")
	return cmd
}

func runDemo(w io.Writer, capacity int) error {
	logger := golrulog.WithModule("demo")

	lru, err := cache.NewInt[string](cache.Config[int, string]{
		Capacity: capacity,
		Logger:   logger,
		OnEvict: func(k int, v string) {
			fmt.Fprintf(w, "  evicted %d=%q (least recently used)\n", k, v)
		},
	})
	if err != nil {
		return err
	}

	logger.Info("demo starting", "capacity", capacity)

	// -------------------------------------------------------------------
	// 1) Fill past capacity: every new key beyond it evicts the oldest one.
	// -------------------------------------------------------------------
	fmt.Fprintf(w, "fill (capacity=%d)\n", capacity)
	letters := []string{"A", "B", "C"}
	for i, v := range letters {
		fmt.Fprintf(w, "  save %d=%q\n", i+1, v)
		lru.Save(i+1, v)
	}
	fmt.Fprintf(w, "keys (oldest -> newest): %v\n", lru.Keys())

	// -------------------------------------------------------------------
	// 2) Promote: a hit moves the key to the newest position, so the next
	//    eviction picks someone else.
	// -------------------------------------------------------------------
	fmt.Fprintln(w, "promote")
	if v, ok := lru.Get(2); ok {
		fmt.Fprintf(w, "  get 2 = %q (touches 2 -> newest)\n", v)
	} else {
		fmt.Fprintln(w, "  get 2: missing")
	}
	fmt.Fprintf(w, "  save 4=%q\n", "D")
	lru.Save(4, "D")
	fmt.Fprintf(w, "keys (oldest -> newest): %v\n", lru.Keys())

	// -------------------------------------------------------------------
	// 3) Miss: looking up an absent key changes nothing.
	// -------------------------------------------------------------------
	fmt.Fprintln(w, "miss")
	if _, ok := lru.Get(1); !ok {
		fmt.Fprintln(w, "  get 1: missing (no side effects)")
	}

	st := lru.Stats()
	fmt.Fprintf(w, "stats: hits=%d misses=%d evictions=%d\n", st.Hits, st.Misses, st.Evictions)
	return nil
}
