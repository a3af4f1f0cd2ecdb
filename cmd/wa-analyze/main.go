// wa-analyze runs the message intelligence pipeline from the command line:
// it analyzes a single message read from a file or stdin, or validates a
// history query, and prints the result as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/tomu1969/pai-personal-ai-sub004/internal/classifier"
	"github.com/tomu1969/pai-personal-ai-sub004/internal/core"
	"github.com/tomu1969/pai-personal-ai-sub004/internal/logging"
	"github.com/tomu1969/pai-personal-ai-sub004/internal/search"
)

var (
	inputFile    = flag.String("file", "", "Input message file (use stdin if not specified)")
	senderName   = flag.String("sender", "", "Sender display name for contextual flags")
	firstMessage = flag.Bool("first", false, "Treat the message as the sender's first contact")

	queryMode = flag.Bool("query", false, "Validate a history query instead of analyzing a message")
	startDate = flag.String("start-date", "", "Query start date (today, yesterday, now, or YYYY-MM-DD)")
	endDate   = flag.String("end-date", "", "Query end date (today, yesterday, now, or YYYY-MM-DD)")
	startTime = flag.String("start-time", "", "Query start time (HH:MM)")
	endTime   = flag.String("end-time", "", "Query end time (HH:MM)")
	sender    = flag.String("query-sender", "", "Query sender filter")
	keywords  = flag.String("keywords", "", "Comma-separated query keywords")
	limit     = flag.Int("limit", 0, "Query result limit")

	verbose = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog = flag.Bool("json-log", false, "Output logs in JSON format")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *queryMode {
		runQuery(logger)
		return
	}
	runAnalyze(logger)
}

func runAnalyze(logger *zap.Logger) {
	var reader io.Reader
	if *inputFile != "" {
		file, err := os.Open(*inputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", *inputFile))
		}
		defer file.Close()
		reader = file
	} else {
		reader = os.Stdin
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		logger.Fatal("Failed to read message body", zap.Error(err))
	}

	c := classifier.New(classifier.DefaultLexicon(), classifier.DefaultThresholds(), logger)
	result := c.Analyze(string(body), &core.MessageContext{
		SenderName:     *senderName,
		IsFirstMessage: *firstMessage,
	})

	if result.Degraded {
		logger.Warn("Analysis degraded", zap.String("reason", result.Reason))
	}
	printJSON(logger, result.Analysis)
}

func runQuery(logger *zap.Logger) {
	params := search.Params{
		StartDate: *startDate,
		EndDate:   *endDate,
		StartTime: *startTime,
		EndTime:   *endTime,
		Sender:    *sender,
		Limit:     *limit,
	}
	if *keywords != "" {
		params.Keywords = strings.Split(*keywords, ",")
	}

	n := search.NewNormalizer(logger)
	printJSON(logger, n.ValidateAndNormalize(params))
}

func printJSON(logger *zap.Logger, v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.Fatal("Failed to encode result", zap.Error(err))
	}
	fmt.Println(string(out))
}
