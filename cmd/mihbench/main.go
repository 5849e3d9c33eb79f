// Command mihbench builds, queries, and benchmarks a mih.Index from a file
// of newline-separated hex codes. It replaces the teacher daemon's flat
// flag.* set with named cobra subcommands, but keeps the teacher's overall
// shape: load a config (here, a code file) once, then serve requests
// against it.
package main

import (
	"bufio"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kampersanda/mih-go"
)

var (
	flagCodesFile string
	flagBlocks    int
	flagSeed      string
	flagSize      int
	flagOutput    string
	flagCompress  bool
)

func main() {
	root := &cobra.Command{
		Use:   "mihbench",
		Short: "Build and query multi-index hash tables over fixed-width binary codes",
	}

	root.AddCommand(newBuildCmd())
	root.AddCommand(newRangeCmd())
	root.AddCommand(newTopKCmd())
	root.AddCommand(newBenchCmd())
	root.AddCommand(newStatsCmd())

	if err := root.Execute(); err != nil {
		log.Fatalln(err)
	}
}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build an index from a code file (or a random database) and save it",
		RunE: func(cmd *cobra.Command, args []string) error {
			codes, err := loadOrGenerateCodes()
			if err != nil {
				return err
			}

			log.Printf("building index over %s codes (width=64, blocks=%d)", humanize.Comma(int64(len(codes))), flagBlocks)
			start := time.Now()

			idx, err := buildIndex(codes)
			if err != nil {
				return err
			}
			log.Printf("build finished in %s, %d blocks", time.Since(start), idx.NumBlocks())

			if flagOutput == "" {
				return nil
			}

			f, err := os.Create(flagOutput)
			if err != nil {
				return err
			}
			defer f.Close()

			if flagCompress {
				err = mih.SaveCompressed(f, idx)
			} else {
				err = idx.SerializeInto(f)
			}
			if err != nil {
				return err
			}

			info, err := f.Stat()
			if err != nil {
				return err
			}
			log.Printf("wrote %s to %s", humanize.Bytes(uint64(info.Size())), flagOutput)
			return nil
		},
	}
	cmd.Flags().StringVar(&flagCodesFile, "codes", "", "file of newline-separated hex codes; if empty, a random database is generated")
	cmd.Flags().IntVar(&flagBlocks, "blocks", 0, "number of blocks; 0 auto-derives")
	cmd.Flags().StringVar(&flagSeed, "seed", "mihbench", "seed string for random code generation")
	cmd.Flags().IntVar(&flagSize, "size", 100000, "database size when generating random codes")
	cmd.Flags().StringVar(&flagOutput, "out", "", "path to write the serialized index")
	cmd.Flags().BoolVar(&flagCompress, "zstd", false, "wrap the saved index in a zstd frame")
	return cmd
}

func newRangeCmd() *cobra.Command {
	var radius int
	var query string

	cmd := &cobra.Command{
		Use:   "range",
		Short: "Run a single range search against a freshly built index",
		RunE: func(cmd *cobra.Command, args []string) error {
			codes, err := loadOrGenerateCodes()
			if err != nil {
				return err
			}
			idx, err := buildIndex(codes)
			if err != nil {
				return err
			}

			q, err := parseQuery(query)
			if err != nil {
				return err
			}

			rs := idx.RangeSearcher()
			ids := rs.Run(q, radius)
			fmt.Println(ids)
			return nil
		},
	}
	cmd.Flags().StringVar(&flagCodesFile, "codes", "", "file of newline-separated hex codes")
	cmd.Flags().IntVar(&flagBlocks, "blocks", 0, "number of blocks; 0 auto-derives")
	cmd.Flags().StringVar(&flagSeed, "seed", "mihbench", "seed string for random code generation")
	cmd.Flags().IntVar(&flagSize, "size", 100000, "database size when generating random codes")
	cmd.Flags().IntVar(&radius, "radius", 2, "search radius in bits")
	cmd.Flags().StringVar(&query, "query", "0", "hex query code")
	return cmd
}

func newTopKCmd() *cobra.Command {
	var topk int
	var query string

	cmd := &cobra.Command{
		Use:   "topk",
		Short: "Run a single top-K search against a freshly built index",
		RunE: func(cmd *cobra.Command, args []string) error {
			codes, err := loadOrGenerateCodes()
			if err != nil {
				return err
			}
			idx, err := buildIndex(codes)
			if err != nil {
				return err
			}

			q, err := parseQuery(query)
			if err != nil {
				return err
			}

			tk := idx.TopKSearcher()
			ids := tk.Run(q, topk)
			fmt.Println(ids)
			return nil
		},
	}
	cmd.Flags().StringVar(&flagCodesFile, "codes", "", "file of newline-separated hex codes")
	cmd.Flags().IntVar(&flagBlocks, "blocks", 0, "number of blocks; 0 auto-derives")
	cmd.Flags().StringVar(&flagSeed, "seed", "mihbench", "seed string for random code generation")
	cmd.Flags().IntVar(&flagSize, "size", 100000, "database size when generating random codes")
	cmd.Flags().IntVar(&topk, "k", 10, "number of neighbors to return")
	cmd.Flags().StringVar(&query, "query", "0", "hex query code")
	return cmd
}

func newBenchCmd() *cobra.Command {
	var radius, topk, queries int
	var mode string

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time repeated range or top-K queries against a random database",
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := uuid.New()
			codes, err := loadOrGenerateCodes()
			if err != nil {
				return err
			}

			log.Printf("[run %s] building index over %s codes", runID, humanize.Comma(int64(len(codes))))
			idx, err := buildIndex(codes)
			if err != nil {
				return err
			}

			rng := rand.New(rand.NewSource(mih.SeedFromString(flagSeed + "-queries")))

			start := time.Now()
			switch mode {
			case "range":
				rs := idx.RangeSearcher()
				for i := 0; i < queries; i++ {
					q := mih.RandomCodes[uint64](rng, 1)[0]
					rs.Run(q, radius)
				}
			case "topk":
				tk := idx.TopKSearcher()
				for i := 0; i < queries; i++ {
					q := mih.RandomCodes[uint64](rng, 1)[0]
					tk.Run(q, topk)
				}
			default:
				return fmt.Errorf("unknown bench mode %q (want range or topk)", mode)
			}
			elapsed := time.Since(start)

			log.Printf("[run %s] %s queries in %s (%s/query)", runID, humanize.Comma(int64(queries)), elapsed, elapsed/time.Duration(queries))
			return nil
		},
	}
	cmd.Flags().StringVar(&flagCodesFile, "codes", "", "file of newline-separated hex codes")
	cmd.Flags().IntVar(&flagBlocks, "blocks", 0, "number of blocks; 0 auto-derives")
	cmd.Flags().StringVar(&flagSeed, "seed", "mihbench", "seed string for random code generation")
	cmd.Flags().IntVar(&flagSize, "size", 100000, "database size when generating random codes")
	cmd.Flags().StringVar(&mode, "mode", "range", "range or topk")
	cmd.Flags().IntVar(&radius, "radius", 2, "search radius for range mode")
	cmd.Flags().IntVar(&topk, "k", 10, "K for topk mode")
	cmd.Flags().IntVar(&queries, "queries", 1000, "number of queries to time")
	return cmd
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print per-table slot-size distribution for a freshly built index",
		RunE: func(cmd *cobra.Command, args []string) error {
			codes, err := loadOrGenerateCodes()
			if err != nil {
				return err
			}
			idx, err := buildIndex(codes)
			if err != nil {
				return err
			}

			fmt.Printf("num_blocks=%d codes=%s\n", idx.NumBlocks(), humanize.Comma(int64(len(idx.Codes()))))
			printLoadFactors(idx)
			return nil
		},
	}
	cmd.Flags().StringVar(&flagCodesFile, "codes", "", "file of newline-separated hex codes")
	cmd.Flags().IntVar(&flagBlocks, "blocks", 0, "number of blocks; 0 auto-derives")
	cmd.Flags().StringVar(&flagSeed, "seed", "mihbench", "seed string for random code generation")
	cmd.Flags().IntVar(&flagSize, "size", 100000, "database size when generating random codes")
	return cmd
}

// loadOrGenerateCodes reads flagCodesFile (fingerprinting it via xxhash for
// the log line) if set, otherwise generates a deterministic random database
// seeded from flagSeed, carrying forward the teacher's "load from -f, else
// fall back" pattern.
func loadOrGenerateCodes() ([]uint64, error) {
	if flagCodesFile == "" {
		rng := rand.New(rand.NewSource(mih.SeedFromString(flagSeed)))
		return mih.RandomCodes[uint64](rng, flagSize), nil
	}

	f, err := os.Open(flagCodesFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var codes []uint64
	digest := xxhash.New()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		digest.Write([]byte(line))
		v, err := strconv.ParseUint(line, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("parse code %q: %w", line, err)
		}
		codes = append(codes, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	log.Printf("loaded %s codes from %s (fingerprint %x)", humanize.Comma(int64(len(codes))), flagCodesFile, digest.Sum64())
	return codes, nil
}

func buildIndex(codes []uint64) (*mih.Index[uint64], error) {
	if flagBlocks > 0 {
		return mih.WithBlocks(codes, flagBlocks)
	}
	return mih.New(codes)
}

func parseQuery(s string) (uint64, error) {
	return strconv.ParseUint(s, 16, 64)
}

// printLoadFactors reports, for each block's table, how the codes are
// distributed across occupied slots: the number of distinct occupied slots
// out of the table's full address space, and the min/max/average slot size
// among them. It walks the codes rather than the table's full [0, Size())
// address space, since a table's Size() can be astronomically larger than
// the number of codes that actually populate it.
func printLoadFactors(idx *mih.Index[uint64]) {
	codes := idx.Codes()
	for b, table := range idx.Tables() {
		seen := make(map[uint64]bool)
		minSize, maxSize, total := -1, 0, 0

		for _, c := range codes {
			v := idx.BlockValue(c, b)
			if seen[v] {
				continue
			}
			seen[v] = true

			n := table.SlotSize(v)
			total += n
			if minSize == -1 || n < minSize {
				minSize = n
			}
			if n > maxSize {
				maxSize = n
			}
		}

		occupied := len(seen)
		avg := 0.0
		if occupied > 0 {
			avg = float64(total) / float64(occupied)
		}
		fmt.Printf("table[%d] bits=%d size=%s occupied_slots=%s min=%d max=%d avg=%.2f\n",
			b, table.Bits(), humanize.Comma(int64(table.Size())), humanize.Comma(int64(occupied)), minSize, maxSize, avg)
	}
}
