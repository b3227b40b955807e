package main

import (
	"bufio"
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

// LogStats summarises one day of donation logs
type LogStats struct {
	TotalErrors        int
	OrdersCreated      int
	OrderFailures      int
	SignaturesVerified int
	SignatureFailures  int
	FlowsVerified      int
	FlowVerifyFailures int
	ScriptLoadFailures int
	Rejections         int
	ErrorPatterns      map[string]int
}

var (
	logPrefix    = regexp.MustCompile(`^(INFO|ERROR|DEBUG): \S+ \S+ \S+:\d+: `)
	identifierRe = regexp.MustCompile(`(order|pay|flow)_?[A-Za-z0-9]+|[0-9a-f]{8}-[0-9a-f-]{27}|\d+`)
)

func main() {
	logDir := flag.String("dir", "./logs", "directory holding the daily log files")
	day := flag.String("date", time.Now().Format("2006-01-02"), "day to analyze (YYYY-MM-DD)")
	flag.Parse()

	stats := newLogStats()
	analyzeFile(filepath.Join(*logDir, fmt.Sprintf("error-%s.log", *day)), stats.analyzeErrorLine)
	analyzeFile(filepath.Join(*logDir, fmt.Sprintf("info-%s.log", *day)), stats.analyzeInfoLine)

	printReport(os.Stdout, stats)
}

func newLogStats() *LogStats {
	return &LogStats{ErrorPatterns: make(map[string]int)}
}

func analyzeFile(logFile string, analyze func(string)) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		analyze(scanner.Text())
	}
}

func (s *LogStats) analyzeErrorLine(line string) {
	if !strings.HasPrefix(line, "ERROR: ") {
		return
	}
	s.TotalErrors++
	switch {
	case strings.Contains(line, "Failed to create Razorpay order"):
		s.OrderFailures++
	case strings.Contains(line, "Payment verification failed"):
		s.SignatureFailures++
	case strings.Contains(line, "verification failed for payment"):
		s.FlowVerifyFailures++
	case strings.Contains(line, "checkout script"), strings.Contains(line, "Checkout script"):
		s.ScriptLoadFailures++
	}
	s.ErrorPatterns[errorPattern(line)]++
}

func (s *LogStats) analyzeInfoLine(line string) {
	switch {
	case strings.Contains(line, "Successfully created Razorpay order"):
		s.OrdersCreated++
	case strings.Contains(line, "Payment signature verified"):
		s.SignaturesVerified++
	case strings.Contains(line, "Payment verified successfully!"):
		s.FlowsVerified++
	case strings.Contains(line, "rejected amount"):
		s.Rejections++
	}
}

// errorPattern strips the log prefix and identifiers so that the same
// failure on different orders counts once
func errorPattern(line string) string {
	msg := logPrefix.ReplaceAllString(line, "")
	if i := strings.Index(msg, ": "); i > 0 {
		msg = msg[:i]
	}
	return identifierRe.ReplaceAllString(msg, "#")
}

func printReport(w io.Writer, stats *LogStats) {
	fmt.Fprintln(w, "\n=== Donation Log Report ===")
	fmt.Fprintln(w, "Generated:", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Fprintln(w, "\n1. Payment API:")
	fmt.Fprintf(w, "   Orders created: %d\n", stats.OrdersCreated)
	fmt.Fprintf(w, "   Order failures: %d\n", stats.OrderFailures)
	fmt.Fprintf(w, "   Signatures verified: %d\n", stats.SignaturesVerified)
	fmt.Fprintf(w, "   Signature failures: %d\n", stats.SignatureFailures)

	fmt.Fprintln(w, "\n2. Donation flows:")
	fmt.Fprintf(w, "   Rejected amounts: %d\n", stats.Rejections)
	fmt.Fprintf(w, "   Script load failures: %d\n", stats.ScriptLoadFailures)
	fmt.Fprintf(w, "   Verified: %d\n", stats.FlowsVerified)
	fmt.Fprintf(w, "   Verification failures: %d\n", stats.FlowVerifyFailures)

	fmt.Fprintln(w, "\n3. Error Statistics:")
	fmt.Fprintf(w, "   Total Errors: %d\n", stats.TotalErrors)

	fmt.Fprintln(w, "\n4. Most Common Errors:")
	printTopErrors(w, stats.ErrorPatterns, 5)
}

func printTopErrors(w io.Writer, errors map[string]int, limit int) {
	type errorCount struct {
		error string
		count int
	}

	var errorList []errorCount
	for err, count := range errors {
		errorList = append(errorList, errorCount{err, count})
	}

	sort.Slice(errorList, func(i, j int) bool {
		if errorList[i].count == errorList[j].count {
			return errorList[i].error < errorList[j].error
		}
		return errorList[i].count > errorList[j].count
	})

	for i, err := range errorList {
		if i >= limit {
			break
		}
		fmt.Fprintf(w, "   %s: %d occurrences\n", err.error, err.count)
	}
}
