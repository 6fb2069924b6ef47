package main

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/kwertop/gostructs"
	"github.com/kwertop/gostructs/internal/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newUnionFindCmd(logger func() *zap.Logger) *cobra.Command {
	var elements int
	cmd := &cobra.Command{
		Use:   "unionfind",
		Short: "Joins a few elements and reports connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			uf, err := gostructs.NewDisjointSetForest(elements, gostructs.WithLogger(logger()))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, pair := range [][2]int{{0, 1}, {1, 2}, {3, 4}, {5, 6}} {
				if _, err := uf.Union(pair[0], pair[1]); err != nil {
					return err
				}
			}
			report := func(x, y int) error {
				ok, err := uf.Connected(x, y)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d and %d connected: %v\n", x, y, ok)
				return nil
			}
			if err := report(0, 2); err != nil {
				return err
			}
			if err := report(0, 3); err != nil {
				return err
			}
			fmt.Fprintf(out, "disjoint sets: %d\n", uf.Count())

			if _, err := uf.Union(2, 3); err != nil {
				return err
			}
			if err := report(0, 4); err != nil {
				return err
			}
			fmt.Fprintf(out, "disjoint sets: %d\n", uf.Count())
			return nil
		},
	}
	cmd.Flags().IntVar(&elements, "elements", 10, "number of elements in the forest")
	return cmd
}

func newLRUCmd(logger func() *zap.Logger) *cobra.Command {
	var capacity int
	cmd := &cobra.Command{
		Use:   "lru",
		Short: "Fills an LRU cache past its capacity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := gostructs.NewLRUCache[int, string](capacity, gostructs.WithLogger(logger()))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			names := []string{"one", "two", "three", "four", "five", "six"}
			for i := 0; i < capacity && i < len(names); i++ {
				cache.Put(i+1, names[i])
			}
			fmt.Fprintf(out, "cache: %v\n", cache.Keys())

			if v, err := cache.Get(1); err == nil {
				fmt.Fprintf(out, "get 1: %s\n", v)
			}
			fmt.Fprintf(out, "cache after get(1): %v\n", cache.Keys())

			next := capacity + 1
			if evicted, ok := cache.Put(next, strconv.Itoa(next)); ok {
				fmt.Fprintf(out, "put %d evicted %d\n", next, evicted)
			}
			for _, key := range []int{1, 2} {
				v, err := cache.Get(key)
				if errors.Is(err, gostructs.ErrKeyNotFound) {
					fmt.Fprintf(out, "get %d: miss\n", key)
					continue
				}
				fmt.Fprintf(out, "get %d: %s\n", key, v)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&capacity, "capacity", 3, "maximum number of cached entries")
	return cmd
}

func newBloomCmd(logger func() *zap.Logger) *cobra.Command {
	var items uint
	var errorRate float64
	var probes int
	var seed int64
	cmd := &cobra.Command{
		Use:   "bloom [words...]",
		Short: "Adds words to a bloom filter and measures its false positive rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := gostructs.NewBloomFilterWithParameters(items, errorRate, gostructs.StringEncoder, gostructs.WithLogger(logger()))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			words := args
			if len(words) == 0 {
				words = []string{"apple", "banana", "cherry"}
			}
			for _, w := range words {
				filter.Add(w)
			}
			fmt.Fprintf(out, "m=%d bits (%s), k=%d\n", filter.Cap(), humanize.Bytes(uint64(filter.Cap()+7)/8), filter.NumHashes())
			for _, w := range append(words, "grape", "orange") {
				fmt.Fprintf(out, "%q in filter: %v\n", w, filter.Contains(w))
			}

			rnd := rand.New(rand.NewSource(seed))
			falsePositives := 0
			for i := 0; i < probes; i++ {
				// probes are longer than any word above, so none of them was added
				if filter.Contains(util.GenerateRandomString(rnd, 24)) {
					falsePositives++
				}
			}
			fmt.Fprintf(out, "estimated false positive rate: %.6f\n", filter.FalsePositiveRate())
			if probes > 0 {
				fmt.Fprintf(out, "observed false positive rate: %.6f over %s probes\n",
					float64(falsePositives)/float64(probes), humanize.Comma(int64(probes)))
			}
			return nil
		},
	}
	cmd.Flags().UintVar(&items, "items", 100, "expected number of items")
	cmd.Flags().Float64Var(&errorRate, "error-rate", gostructs.DefaultFalsePositiveRate, "target false positive rate")
	cmd.Flags().IntVar(&probes, "probes", 10000, "random strings probed to measure the false positive rate")
	cmd.Flags().Int64Var(&seed, "seed", 1, "seed for the random probes")
	return cmd
}

func newSegmentTreeCmd(logger func() *zap.Logger) *cobra.Command {
	var aggregate string
	cmd := &cobra.Command{
		Use:   "segtree [values...]",
		Short: "Builds a segment tree and runs range queries and updates",
		RunE: func(cmd *cobra.Command, args []string) error {
			values := []int64{1, 3, 5, 7, 9, 11}
			if len(args) > 0 {
				values = make([]int64, len(args))
				for i, a := range args {
					v, err := strconv.ParseInt(a, 10, 64)
					if err != nil {
						return errors.Wrapf(err, "gostructs: value %q", a)
					}
					values[i] = v
				}
			}
			var agg gostructs.Aggregate[int64]
			switch aggregate {
			case "sum":
				agg = gostructs.SumAggregate[int64]()
			case "min":
				agg = gostructs.MinAggregate[int64]()
			case "max":
				agg = gostructs.MaxAggregate[int64]()
			default:
				return errors.Errorf("gostructs: unknown aggregate %q", aggregate)
			}
			st, err := gostructs.NewSegmentTree(values, agg, gostructs.WithLogger(logger()))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			n := st.Len()
			query := func(l, r int) error {
				v, err := st.Query(l, r)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s of range [%d, %d]: %d\n", aggregate, l, r, v)
				return nil
			}

			fmt.Fprintf(out, "values: %v\n", st.Values())
			if err := query(min(1, n-1), min(3, n-1)); err != nil {
				return err
			}
			if err := query(0, n-1); err != nil {
				return err
			}
			if err := st.Update(min(2, n-1), 10); err != nil {
				return err
			}
			fmt.Fprintf(out, "after updating index %d to 10: %v\n", min(2, n-1), st.Values())
			if err := query(min(1, n-1), min(3, n-1)); err != nil {
				return err
			}
			return query(0, n-1)
		},
	}
	cmd.Flags().StringVar(&aggregate, "aggregate", "sum", "aggregate operator (sum, min, max)")
	return cmd
}
