// Command ndsort ranks the rows read from stdin and prints one rank per line.
//
//	ndsort [-config ndsort.yaml] [-max-rank N] < points.txt
//
// Each non-empty input line holds the objectives of one point separated by
// whitespace. Lines starting with # are ignored.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/hupe1980/ndsort/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("ndsort", flag.ContinueOnError)
	configPath := fs.String("config", "", "configuration file (YAML, TOML or JSON)")
	maxRank := fs.Int("max-rank", -1, "rank ceiling, overrides the configured max_rank")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *maxRank >= 0 {
		cfg.MaxRank = *maxRank
	}

	points, err := readPoints(in)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return nil
	}

	cfg.MaxPoints = max(cfg.MaxPoints, len(points))
	cfg.MaxDimension = max(cfg.MaxDimension, len(points[0]))

	s, err := cfg.Build()
	if err != nil {
		return err
	}
	defer s.Close()

	ranks := make([]int, len(points))
	if err := s.Sort(points, ranks, cfg.MaxRank); err != nil {
		return err
	}

	w := bufio.NewWriter(out)
	for _, r := range ranks {
		w.WriteString(strconv.Itoa(r))
		w.WriteByte('\n')
	}
	return w.Flush()
}

func readPoints(in io.Reader) ([][]float64, error) {
	var points [][]float64

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			row[i] = v
		}
		points = append(points, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return points, nil
}
