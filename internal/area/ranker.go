// Package area runs the external Voronoi ranking process and parses its output.
// The process is invoked with no arguments and prints one line per user:
//
//	<username>: <integer> square miles
//
// Lines that fail the pattern are discarded rather than failing the run.
package area

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gridmark/internal/domain"
)

var lineRE = regexp.MustCompile(`^(.+?):\s+([\d,]+)\s*(?:square miles|mi²)\s*$`)

type Ranker struct {
	Command string
	Timeout time.Duration
}

func NewRanker(command string, timeout time.Duration) *Ranker {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Ranker{Command: command, Timeout: timeout}
}

// Rank executes the configured command and returns the parseable portion of its
// output. A non-zero exit or empty command is an error; callers decide how to
// degrade.
func (r *Ranker) Rank(ctx context.Context) ([]domain.UserArea, error) {
	if r.Command == "" {
		return nil, exec.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.Command)
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}
	return Parse(out), nil
}

// Parse extracts (username, area) pairs, skipping malformed lines.
func Parse(output []byte) []domain.UserArea {
	var areas []domain.UserArea
	sc := bufio.NewScanner(bytes.NewReader(output))
	for sc.Scan() {
		if ua, ok := ParseLine(sc.Text()); ok {
			areas = append(areas, ua)
		}
	}
	return areas
}

// ParseLine parses a single ranker output line.
func ParseLine(line string) (domain.UserArea, bool) {
	m := lineRE.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return domain.UserArea{}, false
	}
	raw := strings.ReplaceAll(m[2], ",", "")
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return domain.UserArea{}, false
	}
	return domain.UserArea{Username: m[1], Area: float64(n)}, true
}
