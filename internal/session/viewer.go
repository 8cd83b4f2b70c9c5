package session

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// maxEventSize bounds a single NDJSON line.
const maxEventSize = 4 * 1024 * 1024

// SessionFile represents a session log file on disk.
type SessionFile struct {
	Path      string
	Name      string
	Size      int64
	ModTime   time.Time
	NumEvents int
}

// ListSessions finds session logs in dir, newest first.
func ListSessions(dir string) ([]SessionFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading session directory: %w", err)
	}

	var files []SessionFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !isLogFile(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}

		path := filepath.Join(dir, e.Name())
		n, err := countEvents(path)
		if err != nil {
			slog.Debug("Counting session events failed", "path", path, "error", err)
		}
		files = append(files, SessionFile{
			Path:      path,
			Name:      e.Name(),
			Size:      info.Size(),
			ModTime:   info.ModTime(),
			NumEvents: n,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})

	return files, nil
}

// countEvents counts the non-blank lines of a log without decoding them.
func countEvents(path string) (int, error) {
	r, err := openLog(path)
	if err != nil {
		return 0, err
	}
	defer r.Close() //nolint:errcheck

	n := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)
	for scanner.Scan() {
		if len(bytes.TrimSpace(scanner.Bytes())) > 0 {
			n++
		}
	}
	return n, scanner.Err()
}

// ReadEvents decodes every event of a session log. Lines that are not valid
// events are skipped.
func ReadEvents(path string) ([]Event, error) {
	r, err := openLog(path)
	if err != nil {
		return nil, fmt.Errorf("opening session file: %w", err)
	}
	defer r.Close() //nolint:errcheck

	var events []Event
	scanner := bufio.NewScanner(r)
	// agent responses can be long
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)
	skipped := 0
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil || ev.Type == "" {
			skipped++
			continue
		}
		events = append(events, ev)
	}
	if skipped > 0 {
		slog.Debug("Skipped malformed session events", "path", path, "count", skipped)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}
	return events, nil
}

// RenderTimeline writes a human-readable session timeline to w.
//
//nolint:errcheck // display-only writes; errors are not actionable
func RenderTimeline(w io.Writer, events []Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events found.")
		return
	}

	fmt.Fprintln(w, "═══════════════════════════════════════════════════════")
	fmt.Fprintln(w, " RUN TIMELINE")
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════")
	fmt.Fprintln(w)

	start := events[0].Timestamp
	for _, ev := range events {
		elapsed := ev.Timestamp.Sub(start)
		ts := formatDuration(elapsed)

		switch ev.Type {
		case EventRunStart:
			model, _ := ev.Data["model"].(string) //nolint:errcheck
			fmt.Fprintf(w, "[%s] 🚀 Run started  scenario=%s  model=%s  run=%s\n", ts, ev.Scenario, model, ev.RunID)

		case EventPhase:
			phase, _ := ev.Data["phase"].(string) //nolint:errcheck
			fmt.Fprintf(w, "[%s] ▶  %s\n", ts, phase)

		case EventAgentPrompt:
			fmt.Fprintf(w, "[%s]    → turn %d prompt (%d chars)\n", ts, jsonNumber(ev.Data["turn"]), jsonNumber(ev.Data["length"]))

		case EventAgentResponse:
			fmt.Fprintf(w, "[%s]    ← turn %d response (%d chars)\n", ts, jsonNumber(ev.Data["turn"]), jsonNumber(ev.Data["length"]))

		case EventEvaluationComplete:
			family, _ := ev.Data["family"].(string) //nolint:errcheck
			status, _ := ev.Data["status"].(string) //nolint:errcheck
			dur := jsonNumber(ev.Data["duration_ms"])
			if status == "success" {
				level, _ := ev.Data["quality_level"].(string) //nolint:errcheck
				fmt.Fprintf(w, "[%s]    ✓ %s  score=%.2f  %s (%dms)\n", ts, family, jsonFloat(ev.Data["overall_score"]), level, dur)
			} else {
				msg, _ := ev.Data["error"].(string) //nolint:errcheck
				fmt.Fprintf(w, "[%s]    ✗ %s  %s (%dms)\n", ts, family, msg, dur)
			}

		case EventError:
			msg, _ := ev.Data["message"].(string) //nolint:errcheck
			fmt.Fprintf(w, "[%s] ❌ Error: %s\n", ts, msg)

		case EventRunComplete:
			status, _ := ev.Data["status"].(string) //nolint:errcheck
			dur := jsonNumber(ev.Data["duration_ms"])
			fmt.Fprintf(w, "[%s] 🏁 Run complete  status=%s  (%dms)\n", ts, status, dur)
			if msg, ok := ev.Data["message"].(string); ok && msg != "" {
				fmt.Fprintf(w, "           %s\n", msg)
			}

		default:
			fmt.Fprintf(w, "[%s] %s %v\n", ts, ev.Type, ev.Data)
		}
	}
	fmt.Fprintln(w)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%6dms", d.Milliseconds())
	}
	return fmt.Sprintf("%6.1fs", d.Seconds())
}

// jsonNumber extracts a number from event data, either JSON-decoded
// (float64 or json.Number) or still in memory (int, int32, int64).
func jsonNumber(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case json.Number:
		i, _ := n.Int64() //nolint:errcheck
		return int(i)
	}
	return 0
}

func jsonFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64() //nolint:errcheck
		return f
	}
	return 0
}
