package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

type LogStats struct {
	Lines              int
	Malformed          int
	TotalErrors        int
	TotalWarnings      int
	OrdersCreated      int
	OrdersConfirmed    int
	OrdersCancelled    int
	OrdersReaped       int
	SignatureFailures  int
	StockFailures      int
	Oversells          int
	RefundFailures     int
	CancelledBy        map[string]int
	ErrorPatterns      map[string]int
	RequestsByStatus   map[int]int
	SlowestRequestPath string
	SlowestRequest     float64
}

type logLine struct {
	Level    string  `json:"level"`
	Message  string  `json:"message"`
	Path     string  `json:"path"`
	Status   int     `json:"status"`
	Duration float64 `json:"duration"`
}

var (
	orderNumberRe = regexp.MustCompile(`ORD-\d{8}-[0-9A-F]{8}`)
	cancelledByRe = regexp.MustCompile(`cancelled by (\w+)`)
)

func main() {
	day := flag.String("date", time.Now().Format("2006-01-02"), "day of the log file to analyze")
	logDir := flag.String("dir", "./logs", "log directory")
	flag.Parse()

	logFile := filepath.Join(*logDir, fmt.Sprintf("app-%s.log", *day))
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		os.Exit(1)
	}
	defer file.Close()

	stats, err := analyze(file)
	if err != nil {
		fmt.Printf("Error reading log file %s: %v\n", logFile, err)
		os.Exit(1)
	}
	printReport(os.Stdout, stats)
}

func analyze(r io.Reader) (*LogStats, error) {
	stats := &LogStats{
		CancelledBy:      make(map[string]int),
		ErrorPatterns:    make(map[string]int),
		RequestsByStatus: make(map[int]int),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		stats.Lines++

		var line logLine
		if err := json.Unmarshal([]byte(raw), &line); err != nil {
			stats.Malformed++
			continue
		}
		record(stats, line)
	}
	return stats, scanner.Err()
}

func record(stats *LogStats, line logLine) {
	msg := line.Message

	switch line.Level {
	case "error":
		stats.TotalErrors++
		extractErrorPattern(msg, stats)
	case "warn":
		stats.TotalWarnings++
	}

	if msg == "request" {
		stats.RequestsByStatus[line.Status]++
		if line.Duration > stats.SlowestRequest {
			stats.SlowestRequest = line.Duration
			stats.SlowestRequestPath = line.Path
		}
		return
	}

	switch {
	case strings.HasPrefix(msg, "COD order") && strings.Contains(msg, " created for user"):
		stats.OrdersCreated++
	case strings.HasPrefix(msg, "Placeholder order"):
		stats.OrdersCreated++
	case strings.HasPrefix(msg, "Online order") && strings.Contains(msg, " confirmed for user"):
		stats.OrdersCreated++
		stats.OrdersConfirmed++
	case strings.Contains(msg, " confirmed after payment "):
		stats.OrdersConfirmed++
	case strings.HasPrefix(msg, "Abandoned order") && strings.HasSuffix(msg, " cancelled"):
		stats.OrdersReaped++
		stats.OrdersCancelled++
		stats.CancelledBy["reaper"]++
	case strings.HasPrefix(msg, "Payment signature verification failed"):
		stats.SignatureFailures++
	case strings.HasPrefix(msg, "Stock decrement failed"), strings.HasPrefix(msg, "Stock reversal failed"):
		stats.StockFailures++
	case strings.Contains(msg, " oversold "):
		stats.Oversells++
	case strings.HasPrefix(msg, "Refund failed"):
		stats.RefundFailures++
	default:
		if m := cancelledByRe.FindStringSubmatch(msg); m != nil && strings.HasPrefix(msg, "Order ") {
			stats.OrdersCancelled++
			stats.CancelledBy[m[1]]++
		}
	}
}

func extractErrorPattern(msg string, stats *LogStats) {
	// Keep the message up to the wrapped cause
	pattern := msg
	if i := strings.Index(pattern, ":"); i > 0 {
		pattern = pattern[:i]
	}
	pattern = orderNumberRe.ReplaceAllString(strings.TrimSpace(pattern), "ORD-*")
	stats.ErrorPatterns[pattern]++
}

func printReport(w io.Writer, stats *LogStats) {
	fmt.Fprintln(w, "\n=== Order Engine Log Report ===")
	fmt.Fprintln(w, "Generated:", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Lines read: %d (%d malformed)\n", stats.Lines, stats.Malformed)

	fmt.Fprintln(w, "\n1. Orders:")
	fmt.Fprintf(w, "   Created: %d\n", stats.OrdersCreated)
	fmt.Fprintf(w, "   Confirmed: %d\n", stats.OrdersConfirmed)
	fmt.Fprintf(w, "   Cancelled: %d\n", stats.OrdersCancelled)
	fmt.Fprintf(w, "   Reaped: %d\n", stats.OrdersReaped)
	printTop(w, stats.CancelledBy, 3, "cancellations")

	fmt.Fprintln(w, "\n2. Payments and inventory:")
	fmt.Fprintf(w, "   Signature failures: %d\n", stats.SignatureFailures)
	fmt.Fprintf(w, "   Refund failures: %d\n", stats.RefundFailures)
	fmt.Fprintf(w, "   Stock write failures: %d\n", stats.StockFailures)
	fmt.Fprintf(w, "   Oversold items: %d\n", stats.Oversells)

	fmt.Fprintln(w, "\n3. Requests:")
	statuses := make([]int, 0, len(stats.RequestsByStatus))
	for status := range stats.RequestsByStatus {
		statuses = append(statuses, status)
	}
	sort.Ints(statuses)
	for _, status := range statuses {
		fmt.Fprintf(w, "   %d: %d\n", status, stats.RequestsByStatus[status])
	}
	if stats.SlowestRequestPath != "" {
		fmt.Fprintf(w, "   Slowest: %s (%.0fms)\n", stats.SlowestRequestPath, stats.SlowestRequest)
	}

	fmt.Fprintln(w, "\n4. Error Statistics:")
	fmt.Fprintf(w, "   Total Errors: %d\n", stats.TotalErrors)
	fmt.Fprintf(w, "   Total Warnings: %d\n", stats.TotalWarnings)

	fmt.Fprintln(w, "\n5. Most Common Errors:")
	printTop(w, stats.ErrorPatterns, 5, "occurrences")
}

type entryCount struct {
	key   string
	count int
}

func topN(counts map[string]int, limit int) []entryCount {
	var list []entryCount
	for k, c := range counts {
		list = append(list, entryCount{k, c})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].count != list[j].count {
			return list[i].count > list[j].count
		}
		return list[i].key < list[j].key
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list
}

func printTop(w io.Writer, counts map[string]int, limit int, unit string) {
	for _, e := range topN(counts, limit) {
		fmt.Fprintf(w, "   %s: %d %s\n", e.key, e.count, unit)
	}
}
