// Command relcore is an interactive shell over a single table file: it
// opens or creates a table, then accepts line commands to insert,
// fetch, scan and delete tuples directly against the buffer pool.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/relcore/relcore/internal/bufferpool"
	"github.com/relcore/relcore/internal/expr"
	"github.com/relcore/relcore/internal/record"
	"github.com/relcore/relcore/internal/table"
)

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".relcore_history"
	}
	return filepath.Join(home, ".relcore_history")
}

// schema is fixed for the shell: a:INT, b:STRING[16], c:BOOL. A real
// client would carry its schema in the config file; the shell keeps
// one schema so its commands stay simple.
func shellSchema() *record.Schema {
	s, err := record.NewSchema([]record.Attribute{
		{Name: "a", Type: record.TypeInt},
		{Name: "b", Type: record.TypeString, Length: 16},
		{Name: "c", Type: record.TypeBool},
	}, []int{0})
	if err != nil {
		panic(err)
	}
	return s
}

func main() {
	var (
		path      = flag.String("path", "relcore.tbl", "table file path")
		numFrames = flag.Int("frames", 16, "buffer pool frame count")
		policy    = flag.String("policy", "fifo", "replacement policy: fifo|lru|lfu|clock")
		histPath  = flag.String("history", defaultHistoryPath(), "history file path")
	)
	flag.Parse()

	if _, err := os.Stat(*path); errors.Is(err, os.ErrNotExist) {
		if err := table.Create(*path, shellSchema()); err != nil {
			fmt.Fprintf(os.Stderr, "create: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("created new table at %s\n", *path)
	}

	tb, err := table.Open(*path, *numFrames, bufferpool.Policy(*policy))
	if err != nil {
		fmt.Fprintf(os.Stderr, "open: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = tb.Close() }()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "relcore> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		HistoryFile:     *histPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	fmt.Printf("relcore shell on %s (%d frames, %s)\n", *path, *numFrames, *policy)
	fmt.Println("type \\help for commands")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			fmt.Println()
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "\\q", "quit", "exit":
			return
		case "\\help":
			printHelp()
		case "insert":
			runInsert(tb, fields[1:])
		case "get":
			runGet(tb, fields[1:])
		case "delete":
			runDelete(tb, fields[1:])
		case "update":
			runUpdate(tb, fields[1:])
		case "scan":
			runScan(tb, strings.TrimSpace(strings.TrimPrefix(line, fields[0])))
		case "stat":
			count, firstFree := tb.Stat()
			fmt.Printf("tuples=%d firstFreePage=%d\n", count, firstFree)
		default:
			fmt.Printf("unknown command: %s (try \\help)\n", fields[0])
		}
	}
}

func printHelp() {
	fmt.Println(`commands:
  insert <a:int> <b:string> <c:bool>   insert a tuple
  get <page> <slot>                    fetch a tuple by rid
  update <page> <slot> <a> <b> <c>     overwrite a tuple in place
  delete <page> <slot>                 tombstone a tuple
  scan [predicate]                     print every live tuple matching predicate
                                        (default: true); e.g. scan a > 1 AND c = true
  stat                                 print tuple count / free-page hint
  \q | quit | exit                     leave the shell`)
}

func runInsert(tb *table.Table, args []string) {
	if len(args) != 3 {
		fmt.Println("usage: insert <a:int> <b:string> <c:bool>")
		return
	}
	rec, err := parseTuple(tb, args)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	if err := tb.Insert(rec); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Printf("inserted at %s\n", rec.ID)
}

func runUpdate(tb *table.Table, args []string) {
	if len(args) != 5 {
		fmt.Println("usage: update <page> <slot> <a> <b> <c>")
		return
	}
	rid, err := parseRID(args[0], args[1])
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	rec, err := parseTuple(tb, args[2:])
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	rec.ID = rid
	if err := tb.Update(rec); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Println("updated")
}

func runGet(tb *table.Table, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: get <page> <slot>")
		return
	}
	rid, err := parseRID(args[0], args[1])
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	rec, err := tb.Get(rid)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	printTuple(tb, rec)
}

func runDelete(tb *table.Table, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: delete <page> <slot>")
		return
	}
	rid, err := parseRID(args[0], args[1])
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	if err := tb.Delete(rid); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Println("deleted")
}

func runScan(tb *table.Table, predicate string) {
	var cond expr.Node = expr.Const{Value: record.BoolValue(true)}
	if predicate != "" {
		parsed, err := expr.Parse(tb.Schema(), predicate)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		cond = parsed
	}

	sc, err := table.NewScan(tb, cond)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	n := 0
	for {
		rec, err := sc.Next()
		if errors.Is(err, table.ErrNoMoreTuples) {
			break
		}
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		printTuple(tb, rec)
		n++
	}
	fmt.Printf("(%d rows)\n", n)
}

func parseRID(pageStr, slotStr string) (record.RID, error) {
	page, err := strconv.Atoi(pageStr)
	if err != nil {
		return record.RID{}, fmt.Errorf("bad page: %w", err)
	}
	slot, err := strconv.Atoi(slotStr)
	if err != nil {
		return record.RID{}, fmt.Errorf("bad slot: %w", err)
	}
	return record.RID{Page: page, Slot: slot}, nil
}

func parseTuple(tb *table.Table, args []string) (*record.Record, error) {
	s := tb.Schema()
	rec := record.NewRecord(s, record.RID{})

	a, err := strconv.ParseInt(args[0], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("bad a: %w", err)
	}
	if err := s.SetAttr(rec, 0, record.IntValue(int32(a))); err != nil {
		return nil, err
	}
	if err := s.SetAttr(rec, 1, record.StringValue(args[1])); err != nil {
		return nil, err
	}
	c, err := strconv.ParseBool(args[2])
	if err != nil {
		return nil, fmt.Errorf("bad c: %w", err)
	}
	if err := s.SetAttr(rec, 2, record.BoolValue(c)); err != nil {
		return nil, err
	}
	return rec, nil
}

func printTuple(tb *table.Table, rec *record.Record) {
	s := tb.Schema()
	va, _ := s.GetAttr(rec, 0)
	vb, _ := s.GetAttr(rec, 1)
	vc, _ := s.GetAttr(rec, 2)
	fmt.Printf("%s a=%d b=%q c=%v\n", rec.ID, va.Int, vb.String, vc.Bool)
}
