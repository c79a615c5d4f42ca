// Command bench runs N independent table/pool pairs concurrently,
// each hammered by its own goroutine with a mix of inserts and
// point-gets, and reports per-table throughput and pool I/O counts.
//
// Running N tables in parallel is legal under the kernel's
// single-threaded-per-pool model (spec §5): each goroutine owns a
// distinct pool over a distinct file, so there is no shared mutable
// state between them.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/spf13/afero"

	"github.com/relcore/relcore/internal/bufferpool"
	"github.com/relcore/relcore/internal/record"
	"github.com/relcore/relcore/internal/table"
)

func benchSchema() *record.Schema {
	s, err := record.NewSchema([]record.Attribute{
		{Name: "k", Type: record.TypeInt},
		{Name: "v", Type: record.TypeString, Length: 32},
	}, []int{0})
	if err != nil {
		panic(err)
	}
	return s
}

type tableResult struct {
	index           int
	inserted        int
	gets            int
	readIO, writeIO int
	elapsed         time.Duration
}

func runOneTable(dir string, index, ops, numFrames int, policy bufferpool.Policy) (tableResult, error) {
	path := filepath.Join(dir, fmt.Sprintf("bench-%d.tbl", index))
	schema := benchSchema()
	if err := table.Create(path, schema); err != nil {
		return tableResult{}, err
	}

	tb, err := table.Open(path, numFrames, policy)
	if err != nil {
		return tableResult{}, err
	}
	defer func() { _ = tb.Close() }()

	rng := rand.New(rand.NewSource(int64(index) + 1))
	start := time.Now()

	var rids []record.RID
	res := tableResult{index: index}

	for i := 0; i < ops; i++ {
		if len(rids) == 0 || rng.Intn(2) == 0 {
			rec := record.NewRecord(schema, record.RID{})
			if err := schema.SetAttr(rec, 0, record.IntValue(int32(i))); err != nil {
				return res, err
			}
			if err := schema.SetAttr(rec, 1, record.StringValue(fmt.Sprintf("val-%d-%d", index, i))); err != nil {
				return res, err
			}
			if err := tb.Insert(rec); err != nil {
				return res, err
			}
			rids = append(rids, rec.ID)
			res.inserted++
			continue
		}

		rid := rids[rng.Intn(len(rids))]
		if _, err := tb.Get(rid); err != nil {
			return res, err
		}
		res.gets++
	}

	res.elapsed = time.Since(start)
	res.readIO, res.writeIO = tb.PoolStats()
	return res, nil
}

func main() {
	var (
		numTables = flag.Int("tables", 4, "number of independent table/pool pairs")
		ops       = flag.Int("ops", 2000, "operations per table")
		numFrames = flag.Int("frames", 16, "buffer pool frame count per table")
		policy    = flag.String("policy", "lru", "replacement policy: fifo|lru|lfu|clock")
	)
	flag.Parse()

	dir, err := os.MkdirTemp("", "relcore-bench-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "mkdtemp: %v\n", err)
		os.Exit(1)
	}
	// afero.NewOsFs backs the same temp dir so the cleanup path is
	// expressed the same way the rest of the ambient stack touches
	// the filesystem, rather than reaching for os.RemoveAll directly.
	fs := afero.NewOsFs()
	defer func() { _ = fs.RemoveAll(dir) }()

	results := make([]tableResult, *numTables)
	errs := make([]error, *numTables)

	var wg conc.WaitGroup
	for i := 0; i < *numTables; i++ {
		i := i
		wg.Go(func() {
			res, err := runOneTable(dir, i, *ops, *numFrames, bufferpool.Policy(*policy))
			results[i] = res
			errs[i] = err
		})
	}
	wg.Wait()

	var totalOps, totalReadIO, totalWriteIO int
	for i, res := range results {
		if errs[i] != nil {
			fmt.Fprintf(os.Stderr, "table %d failed: %v\n", i, errs[i])
			continue
		}
		fmt.Printf("table %2d: inserts=%-6d gets=%-6d readIO=%-6d writeIO=%-6d elapsed=%s\n",
			res.index, res.inserted, res.gets, res.readIO, res.writeIO, res.elapsed)
		totalOps += res.inserted + res.gets
		totalReadIO += res.readIO
		totalWriteIO += res.writeIO
	}
	fmt.Printf("total: ops=%d readIO=%d writeIO=%d\n", totalOps, totalReadIO, totalWriteIO)
}
