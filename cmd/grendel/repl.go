package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	prettytable "github.com/jedib0t/go-pretty/v6/table"

	"github.com/grendeldb/grendel/internal/db"
	"github.com/grendeldb/grendel/internal/parser"
	"github.com/grendeldb/grendel/internal/snapshot"
	"github.com/grendeldb/grendel/internal/table"
)

func runShell(cfg *Config, logger *slog.Logger) error {
	d, err := openDatabase(cfg, logger)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "grendel> ",
		HistoryFile:     filepath.Join(cfg.DataDir, ".grendel_history"),
		InterruptPrompt: "^C",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	fmt.Println("Grendel SQL shell. Type 'exit' to quit.")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			break
		}

		stmt, err := parser.Parse(input)
		if err != nil {
			fmt.Printf("parse error: %v\n", err)
			continue
		}
		result, err := stmt.Execute(d)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		printResult(result)
	}

	return saveDatabase(cfg, logger, d)
}

func openDatabase(cfg *Config, logger *slog.Logger) (*db.Database, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	opts := []db.Option{db.WithLogger(logger)}
	switch cfg.Format {
	case "parquet":
		dir := filepath.Join(cfg.DataDir, "snapshot")
		if _, err := os.Stat(filepath.Join(dir, "catalog.json")); err == nil {
			logger.Info("loading snapshot", "dir", dir, "format", "parquet")
			return snapshot.ReadParquet(dir, opts...)
		}
	default:
		path := filepath.Join(cfg.DataDir, "grendel.json")
		if f, err := os.Open(path); err == nil {
			defer f.Close()
			logger.Info("loading snapshot", "file", path, "format", "json")
			return snapshot.ReadJSON(f, opts...)
		}
	}

	logger.Info("starting with an empty database")
	return db.New(opts...), nil
}

func saveDatabase(cfg *Config, logger *slog.Logger, d *db.Database) error {
	switch cfg.Format {
	case "parquet":
		dir := filepath.Join(cfg.DataDir, "snapshot")
		logger.Info("writing snapshot", "dir", dir, "format", "parquet")
		return snapshot.WriteParquet(dir, d)
	default:
		path := filepath.Join(cfg.DataDir, "grendel.json")
		logger.Info("writing snapshot", "file", path, "format", "json")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create snapshot file: %w", err)
		}
		if err := snapshot.WriteJSON(f, d); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close snapshot file: %w", err)
		}
		return nil
	}
}

func printResult(result any) {
	switch r := result.(type) {
	case nil:
		fmt.Println("ok")
	case *parser.SelectResult:
		printRows(r)
	case []string:
		for _, name := range r {
			fmt.Println(name)
		}
	case table.RowID:
		fmt.Printf("row %d\n", r)
	case int:
		fmt.Printf("%d row(s)\n", r)
	default:
		fmt.Println(r)
	}
}

func printRows(result *parser.SelectResult) {
	if len(result.Rows) == 0 {
		fmt.Println("empty result set")
		return
	}

	t := prettytable.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(prettytable.StyleLight)

	header := make(prettytable.Row, len(result.Columns))
	for i, col := range result.Columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, row := range result.Rows {
		out := make(prettytable.Row, len(result.Columns))
		for i, col := range result.Columns {
			v, _ := row.Get(col)
			out[i] = v.String()
		}
		t.AppendRow(out)
	}
	t.Render()
}
